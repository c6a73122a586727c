package service

import "errors"

// Sentinel errors surfaced to the UI layer. All of these except
// ErrDuplicateRecordID map to a specific prompt the UI renders.
var (
	// ErrWrongPassword is returned when a supplied passphrase fails to
	// open a folder: the ciphertext did not authenticate under the derived
	// key, or a legacy folder's plaintext password did not match.
	// Recoverable and expected — the user simply retries. Never logged as
	// an error and never retried automatically.
	ErrWrongPassword = errors.New("wrong password")

	// ErrEmptyPassword is returned when creating or resealing a private
	// folder with an empty passphrase. Rejected before any crypto runs.
	ErrEmptyPassword = errors.New("empty password")

	// ErrSessionExpired is returned when a write targets a private folder
	// whose derived key is no longer cached. Recoverable by re-unlocking.
	ErrSessionExpired = errors.New("session expired, folder must be unlocked again")

	// ErrFolderLocked is returned when reading items of a private folder
	// that has not been unlocked in this session.
	ErrFolderLocked = errors.New("folder is locked")

	// ErrFolderNotPrivate is returned when an unlock, lock, reseal or
	// migration targets a public folder.
	ErrFolderNotPrivate = errors.New("folder is not private")

	// ErrNotLegacyFolder is returned when migration targets a folder that
	// is already encrypted.
	ErrNotLegacyFolder = errors.New("folder does not use the legacy plaintext scheme")

	// ErrLegacyMigrationRequired is returned when a write targets a folder
	// that still uses the legacy plaintext-password scheme. Legacy folders
	// are read-only until migrated to the encrypted scheme.
	ErrLegacyMigrationRequired = errors.New("legacy folder must be migrated before editing")

	// ErrDuplicateRecordID is returned when a committed item list contains
	// two records with the same id.
	ErrDuplicateRecordID = errors.New("duplicate record id in item list")

	// ErrInvalidDataProvided is returned when required arguments (folder
	// name, folder id) are missing or empty.
	ErrInvalidDataProvided = errors.New("invalid data provided")
)
