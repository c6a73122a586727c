package crypto

import "errors"

// Sentinel errors returned by the key chain. Callers should use
// [errors.Is] to match against these values.
var (
	// ErrAuthenticationFailed is returned by Open when the GCM tag check
	// fails: either the key was derived from a wrong passphrase, or the
	// ciphertext was tampered with or corrupted. Recoverable — the caller
	// may prompt for the passphrase again.
	ErrAuthenticationFailed = errors.New("ciphertext failed to authenticate")

	// ErrRandomSourceUnavailable is returned when the OS CSPRNG cannot
	// supply bytes for a salt or nonce. Fatal: no folder creation or
	// encryption may proceed, and there is no fallback source.
	ErrRandomSourceUnavailable = errors.New("cryptographic random source unavailable")

	// ErrCiphertextTooShort is returned when a blob is shorter than the
	// cipher's minimum and cannot possibly be valid.
	ErrCiphertextTooShort = errors.New("ciphertext too short")
)
