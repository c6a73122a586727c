package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidStorageConfigs indicates invalid storage settings
	// (for example, an in-memory DSN, which cannot survive restarts).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidCryptoConfigs indicates a partial key derivation override:
	// either all Argon2id parameters are set, or none.
	ErrInvalidCryptoConfigs = errors.New("invalid crypto configuration")
	// ErrInvalidWorkerConfigs indicates invalid background worker settings
	// (for example, a negative backup interval).
	ErrInvalidWorkerConfigs = errors.New("invalid worker configuration")
)
