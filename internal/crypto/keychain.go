// SPDX-License-Identifier: Apache-2.0

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
)

// saltSize is the per-folder salt length in bytes. Fresh per folder,
// never reused across folders and never derived from folder metadata.
const saltSize = 16

// keyChainService is the private implementation of [KeyChainService].
type keyChainService struct {
	// Argon2id tuning parameters. Stored in the struct so they can be
	// adjusted per deployment target (e.g. mobile vs. desktop).
	argonTime    uint32
	argonMemory  uint32
	argonThreads uint8
	argonKeyLen  uint32
}

// NewKeyChainService constructs a [KeyChainService] with the Argon2id
// parameters recommended by OWASP (2024):
//   - time cost:   1 iteration
//   - memory cost: 64 MiB
//   - parallelism: 4 threads
//   - key length:  32 bytes (256 bits)
func NewKeyChainService() KeyChainService {
	return &keyChainService{
		argonTime:    1,
		argonMemory:  64 * 1024, // 64 MiB
		argonThreads: 4,
		argonKeyLen:  32, // 256 bits
	}
}

// NewKeyChainServiceWithParams constructs a [KeyChainService] with custom
// Argon2id parameters. Key length is fixed at 32 bytes (AES-256). Intended
// for constrained targets and for tests that cannot afford the production
// memory cost.
func NewKeyChainServiceWithParams(time, memoryKiB uint32, threads uint8) KeyChainService {
	return &keyChainService{
		argonTime:    time,
		argonMemory:  memoryKiB,
		argonThreads: threads,
		argonKeyLen:  32,
	}
}

// GenerateSalt implements [KeyChainService]. It reads 16 random bytes from
// the OS CSPRNG. A read failure is reported as ErrRandomSourceUnavailable:
// folder creation must fail loudly rather than fall back to a weak source.
func (k *keyChainService) GenerateSalt() ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRandomSourceUnavailable, err)
	}
	return salt, nil
}

// DeriveKey implements [KeyChainService]. It derives a 256-bit key from
// password and salt using Argon2id with the parameters stored in the
// receiver. The result exists only in memory and is never persisted.
func (k *keyChainService) DeriveKey(password string, salt []byte) []byte {
	return argon2.IDKey(
		[]byte(password),
		salt,
		k.argonTime,
		k.argonMemory,
		k.argonThreads,
		k.argonKeyLen,
	)
}

// Seal implements [KeyChainService].
//
// The whole item list is always sealed as one blob and every call draws a
// fresh random nonce, so a (key, nonce) pair is never reused.
func (k *keyChainService) Seal(key []byte, payload any) (string, string, error) {
	// 1. Serialize to JSON
	plaintext, err := json.Marshal(payload)
	if err != nil {
		return "", "", fmt.Errorf("marshal payload: %w", err)
	}

	// 2. Build AES-GCM cipher from the derived key
	gcm, err := newGCM(key)
	if err != nil {
		return "", "", err
	}

	// 3. Generate a random nonce
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrRandomSourceUnavailable, err)
	}

	// 4. Encrypt; ciphertext and nonce stay separate fields at the
	// storage boundary.
	ciphertext := gcm.Seal(nil, nonce, plaintext, nil)

	return base64.StdEncoding.EncodeToString(ciphertext),
		base64.StdEncoding.EncodeToString(nonce),
		nil
}

// Open implements [KeyChainService]. It reverses Seal: base64-decode the
// nonce and ciphertext, decrypt and verify the auth tag, unmarshal into
// target. A tag mismatch almost always means the user entered the wrong
// passphrase, producing a wrong derived key; it is reported as
// ErrAuthenticationFailed so the caller can show "incorrect password"
// instead of crashing on garbage output.
func (k *keyChainService) Open(key []byte, nonce, cipherText string, target any) error {
	nonceBytes, err := base64.StdEncoding.DecodeString(nonce)
	if err != nil {
		return fmt.Errorf("decode nonce: %w", err)
	}
	blob, err := base64.StdEncoding.DecodeString(cipherText)
	if err != nil {
		return fmt.Errorf("decode ciphertext: %w", err)
	}

	gcm, err := newGCM(key)
	if err != nil {
		return err
	}

	if len(nonceBytes) != gcm.NonceSize() {
		return fmt.Errorf("%w: bad nonce length %d", ErrCiphertextTooShort, len(nonceBytes))
	}
	if len(blob) < gcm.Overhead() {
		return ErrCiphertextTooShort
	}

	plaintext, err := gcm.Open(nil, nonceBytes, blob, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAuthenticationFailed, err)
	}

	if err := json.Unmarshal(plaintext, target); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	return nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}
	return gcm, nil
}

// Zero overwrites key material in memory. Best effort — Go gives no
// guarantee the GC has not already copied the slice.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
