package service

import (
	"context"

	"github.com/gridhub/vault/models"
)

// FolderStatus is the session-scoped state of a private folder.
type FolderStatus string

const (
	// StatusLocked means no plaintext for the folder exists anywhere
	// except as ciphertext in the store.
	StatusLocked FolderStatus = "locked"

	// StatusUnlocked means the session cache holds the decrypted items
	// (and the derived key) for the folder.
	StatusUnlocked FolderStatus = "unlocked"
)

// VaultService is the application-facing API of the vault: folder
// lifecycle, the unlock state machine, and the mutation pipeline.
//
// Per private folder the states are Locked → Unlocked (via Unlock) and
// Unlocked → Locked (via Lock or DeleteFolder). All item reads and writes
// of an unlocked folder go through the session cache; every write reseals
// the entire item list and atomically replaces the persisted blob.
type VaultService interface {
	// CreatePublicFolder creates a folder whose items persist in plaintext.
	CreatePublicFolder(ctx context.Context, name, description string) (models.Folder, error)

	// CreatePrivateFolder creates a private folder by sealing an empty
	// item list under the supplied passphrase. This validates the whole
	// crypto pipeline end-to-end and fixes the folder's salt at creation
	// time. Returns ErrEmptyPassword for an empty passphrase. The new
	// folder starts out unlocked in this session.
	CreatePrivateFolder(ctx context.Context, name, description, password string) (models.Folder, error)

	// Folders lists all folders. Private folder entries carry metadata
	// only: no items, no legacy password.
	Folders(ctx context.Context) ([]models.Folder, error)

	RenameFolder(ctx context.Context, folderID, newName string) error
	SetFolderDescription(ctx context.Context, folderID, description string) error

	// DeleteFolder removes the folder and discards any session entry.
	DeleteFolder(ctx context.Context, folderID string) error

	// Unlock transitions a private folder to Unlocked. For an encrypted
	// folder it derives the key from the stored salt and the supplied
	// passphrase and opens the stored blob; for a legacy folder it
	// compares the plaintext password. On success the decrypted items and
	// the derived key are cached for the session. A wrong passphrase is
	// reported as ErrWrongPassword — recoverable, no lockout or backoff.
	// Unlocking an already-unlocked folder returns the cached items.
	Unlock(ctx context.Context, folderID, password string) ([]models.ContentRecord, error)

	// Lock drops the folder's session entry, zeroizing the cached key.
	Lock(ctx context.Context, folderID string) error

	// Status reports the session state of a private folder.
	Status(folderID string) FolderStatus

	// Items returns the live item list: the plaintext items of a public
	// folder, or the cached decrypted items of an unlocked private folder
	// (ErrFolderLocked otherwise).
	Items(ctx context.Context, folderID string) ([]models.ContentRecord, error)

	// Commit writes a full replacement item list through the mutation
	// pipeline: cache first, then plaintext persist (public) or reseal
	// under the cached key with a fresh nonce and atomic blob replace
	// (private). Returns ErrSessionExpired when the key is not cached and
	// ErrDuplicateRecordID when the list violates id uniqueness.
	Commit(ctx context.Context, folderID string, items []models.ContentRecord) error

	// Reseal changes a private folder's passphrase: verify the old one,
	// derive a fresh salt and key from the new one, re-encrypt the full
	// item list and atomically discard the old ciphertext. Also migrates
	// a legacy folder when oldPassword matches its plaintext password.
	Reseal(ctx context.Context, folderID, oldPassword, newPassword string) error

	// MigrateLegacyFolder upgrades a legacy plaintext-password folder to
	// the encrypted scheme, keeping the same password: verifies it, seals
	// the items under a fresh salt, and clears the stored plaintext
	// password in the same atomic write.
	MigrateLegacyFolder(ctx context.Context, folderID, password string) error
}
