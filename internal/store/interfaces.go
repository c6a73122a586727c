package store

import (
	"context"

	"github.com/gridhub/vault/models"
)

// FolderRepository is the durable local store of hub folders.
//
// Folder metadata (name, visibility, description, public items) is written
// on every mutation. Private folder contents go exclusively through
// SavePrivateBlob — there is no write path that persists plaintext items
// of a private folder.
type FolderRepository interface {
	CreateFolder(ctx context.Context, folder models.Folder) error
	GetFolder(ctx context.Context, folderID string) (models.Folder, error)
	GetAllFolders(ctx context.Context) ([]models.Folder, error)

	RenameFolder(ctx context.Context, folderID, newName string) error
	UpdateDescription(ctx context.Context, folderID, description string) error
	DeleteFolder(ctx context.Context, folderID string) error

	// SavePublicItems replaces the plaintext item list of a public folder.
	SavePublicItems(ctx context.Context, folderID string, items []models.ContentRecord) error

	// SavePrivateBlob replaces the encrypted contents of a private folder
	// in a single statement: either the old blob or the fully-new blob is
	// observable, never a half-written one. It also marks the folder
	// Encrypted and clears any legacy plaintext password.
	SavePrivateBlob(ctx context.Context, folderID, cipherText, salt, nonce string) error
}
