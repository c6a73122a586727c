package crypto

// KeyChainService owns all vault cryptography. It knows nothing about
// folders, storage or sessions — its only job is deriving keys from
// passphrases and sealing/opening item payloads.
//
// Scheme per private folder:
//
//	salt       = GenerateSalt()                  (once, at folder creation)
//	key        = DeriveKey(password, salt)       (on unlock and creation)
//	ct, nonce  = Seal(key, items)                (on every commit)
//	items      = Open(key, nonce, ct, &target)   (on unlock)
type KeyChainService interface {
	// GenerateSalt returns a fresh random 16-byte salt. The salt is not a
	// secret — it is persisted next to the ciphertext so the same key can
	// be re-derived later. Returns ErrRandomSourceUnavailable if the OS
	// CSPRNG fails; there is no weaker fallback.
	GenerateSalt() ([]byte, error)

	// DeriveKey stretches password and salt into a 256-bit key with
	// Argon2id. Deterministic: the same password+salt always yields the
	// same key. Deliberately expensive to resist offline brute force of
	// short passphrases.
	DeriveKey(password string, salt []byte) []byte

	// Seal serializes payload to JSON and encrypts it with key using
	// AES-256-GCM under a fresh random 12-byte nonce. Ciphertext and
	// nonce are returned as separate base64 (std) strings, matching the
	// persisted folder layout.
	Seal(key []byte, payload any) (cipherText, nonce string, err error)

	// Open decrypts and authenticates a blob produced by Seal, then
	// unmarshals the plaintext JSON into target (a non-nil pointer, same
	// as encoding/json.Unmarshal). A tag-check failure — wrong passphrase
	// or tampered ciphertext — is reported as ErrAuthenticationFailed,
	// distinguishable from decode and parse errors.
	Open(key []byte, nonce, cipherText string, target any) error
}
