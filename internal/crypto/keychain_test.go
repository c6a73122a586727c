package crypto

import (
	"bytes"
	"encoding/base64"
	"errors"
	"testing"
)

// testKeyChain returns a key chain with cheap Argon2id parameters so the
// suite stays fast. Production parameters are covered by construction,
// not re-run per test.
func testKeyChain() KeyChainService {
	return NewKeyChainServiceWithParams(1, 64, 1)
}

func TestGenerateSalt_LengthAndRandomness(t *testing.T) {
	svc := testKeyChain()

	s1, err := svc.GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt error: %v", err)
	}
	s2, err := svc.GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt error: %v", err)
	}

	if len(s1) != 16 {
		t.Fatalf("salt length = %d, want 16", len(s1))
	}
	if len(s2) != 16 {
		t.Fatalf("salt length = %d, want 16", len(s2))
	}
	if bytes.Equal(s1, s2) {
		t.Fatalf("expected salts to differ, but they are equal")
	}
}

func TestDeriveKey_DeterministicForSameInputs(t *testing.T) {
	svc := testKeyChain()

	password := "correct horse battery staple"
	salt := bytes.Repeat([]byte{0xAB}, 16)

	k1 := svc.DeriveKey(password, salt)
	k2 := svc.DeriveKey(password, salt)

	if len(k1) != 32 {
		t.Fatalf("key length = %d, want 32", len(k1))
	}
	if !bytes.Equal(k1, k2) {
		t.Fatalf("expected keys to match for same password+salt")
	}
}

func TestDeriveKey_DifferentSaltProducesDifferentKey(t *testing.T) {
	svc := testKeyChain()

	password := "same password"
	salt1 := bytes.Repeat([]byte{0x01}, 16)
	salt2 := bytes.Repeat([]byte{0x02}, 16)

	k1 := svc.DeriveKey(password, salt1)
	k2 := svc.DeriveKey(password, salt2)

	if bytes.Equal(k1, k2) {
		t.Fatalf("expected different keys for different salts")
	}
}

func TestSealOpen_RoundTrip(t *testing.T) {
	svc := testKeyChain()
	key := svc.DeriveKey("pass", bytes.Repeat([]byte{0x0F}, 16))

	type item struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}
	in := []item{{ID: "1", Title: "note"}, {ID: "2", Title: "link"}}

	ct, nonce, err := svc.Seal(key, in)
	if err != nil {
		t.Fatalf("Seal error: %v", err)
	}
	if ct == "" || nonce == "" {
		t.Fatalf("expected non-empty ciphertext and nonce")
	}

	nonceBytes, err := base64.StdEncoding.DecodeString(nonce)
	if err != nil {
		t.Fatalf("nonce is not valid base64: %v", err)
	}
	if len(nonceBytes) != 12 {
		t.Fatalf("nonce length = %d, want 12", len(nonceBytes))
	}

	var out []item
	if err := svc.Open(key, nonce, ct, &out); err != nil {
		t.Fatalf("Open error: %v", err)
	}
	if len(out) != 2 || out[0] != in[0] || out[1] != in[1] {
		t.Fatalf("round-trip mismatch: got %+v, want %+v", out, in)
	}
}

func TestSeal_FreshNoncePerCall(t *testing.T) {
	svc := testKeyChain()
	key := svc.DeriveKey("pass", bytes.Repeat([]byte{0x0F}, 16))

	_, n1, err := svc.Seal(key, "payload")
	if err != nil {
		t.Fatalf("Seal error: %v", err)
	}
	_, n2, err := svc.Seal(key, "payload")
	if err != nil {
		t.Fatalf("Seal error: %v", err)
	}

	if n1 == n2 {
		t.Fatalf("expected fresh nonce per Seal call, got identical nonces")
	}
}

func TestOpen_WrongKeyFailsAuthentication(t *testing.T) {
	svc := testKeyChain()
	salt := bytes.Repeat([]byte{0x33}, 16)
	rightKey := svc.DeriveKey("right-password", salt)
	wrongKey := svc.DeriveKey("wrong-password", salt)

	ct, nonce, err := svc.Seal(rightKey, map[string]string{"secret": "value"})
	if err != nil {
		t.Fatalf("Seal error: %v", err)
	}

	var out map[string]string
	err = svc.Open(wrongKey, nonce, ct, &out)
	if !errors.Is(err, ErrAuthenticationFailed) {
		t.Fatalf("Open with wrong key: err = %v, want ErrAuthenticationFailed", err)
	}
}

func TestOpen_TamperedCiphertextFailsAuthentication(t *testing.T) {
	svc := testKeyChain()
	key := svc.DeriveKey("pass", bytes.Repeat([]byte{0x44}, 16))

	ct, nonce, err := svc.Seal(key, "attack at dawn")
	if err != nil {
		t.Fatalf("Seal error: %v", err)
	}

	blob, err := base64.StdEncoding.DecodeString(ct)
	if err != nil {
		t.Fatalf("decode ciphertext: %v", err)
	}
	blob[0] ^= 0x01 // flip one bit
	tampered := base64.StdEncoding.EncodeToString(blob)

	var out string
	err = svc.Open(key, nonce, tampered, &out)
	if !errors.Is(err, ErrAuthenticationFailed) {
		t.Fatalf("Open of tampered blob: err = %v, want ErrAuthenticationFailed", err)
	}
}

func TestOpen_TooShortCiphertext(t *testing.T) {
	svc := testKeyChain()
	key := svc.DeriveKey("pass", bytes.Repeat([]byte{0x55}, 16))

	nonce := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{0x01}, 12))
	short := base64.StdEncoding.EncodeToString([]byte{0x01, 0x02})

	var out string
	err := svc.Open(key, nonce, short, &out)
	if !errors.Is(err, ErrCiphertextTooShort) {
		t.Fatalf("Open of short blob: err = %v, want ErrCiphertextTooShort", err)
	}
}

func TestOpen_InvalidBase64IsNotAuthenticationError(t *testing.T) {
	svc := testKeyChain()
	key := svc.DeriveKey("pass", bytes.Repeat([]byte{0x66}, 16))

	var out string
	err := svc.Open(key, "%%%", "also not base64", &out)
	if err == nil {
		t.Fatalf("expected error for invalid base64 input")
	}
	if errors.Is(err, ErrAuthenticationFailed) {
		t.Fatalf("decode failure must not be reported as authentication failure")
	}
}

func TestZero_OverwritesSlice(t *testing.T) {
	b := []byte{1, 2, 3, 4}
	Zero(b)
	if !bytes.Equal(b, []byte{0, 0, 0, 0}) {
		t.Fatalf("Zero did not clear the slice: %v", b)
	}
}
