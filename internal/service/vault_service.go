// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/gridhub/vault/internal/crypto"
	"github.com/gridhub/vault/internal/logger"
	"github.com/gridhub/vault/internal/store"
	"github.com/gridhub/vault/internal/utils"
	"github.com/gridhub/vault/models"
)

// vaultService is the concrete implementation of [VaultService].
//
// It composes the folder repository, the key chain and the session cache.
// All decrypted private content flows through the cache and never reaches
// the repository in plaintext.
type vaultService struct {
	folders  store.FolderRepository
	keychain crypto.KeyChainService
	cache    *sessionCache
	ids      *utils.UUIDGenerator
	logger   *logger.Logger
}

// NewVaultService constructs a [VaultService] over the given repository and
// key chain. The session cache starts empty: every private folder is
// Locked until unlocked with its passphrase.
func NewVaultService(folders store.FolderRepository, keychain crypto.KeyChainService, log *logger.Logger) VaultService {
	return &vaultService{
		folders:  folders,
		keychain: keychain,
		cache:    newSessionCache(),
		ids:      utils.NewUUIDGenerator(),
		logger:   log,
	}
}

// CreatePublicFolder implements [VaultService].
func (v *vaultService) CreatePublicFolder(ctx context.Context, name, description string) (models.Folder, error) {
	log := logger.FromContext(ctx)

	if name == "" {
		log.Error().Msg("empty folder name provided")
		return models.Folder{}, ErrInvalidDataProvided
	}

	now := time.Now().UTC()
	folder := models.Folder{
		ID:          v.ids.Generate(),
		Name:        name,
		Visibility:  models.VisibilityPublic,
		Description: description,
		Items:       []models.ContentRecord{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := v.folders.CreateFolder(ctx, folder); err != nil {
		log.Err(err).Str("name", name).Msg("public folder creation ended with error")
		return models.Folder{}, fmt.Errorf("create public folder: %w", err)
	}

	return folder, nil
}

// CreatePrivateFolder implements [VaultService]. Sealing an empty item
// list at creation exercises the entire derive→seal pipeline up front and
// fixes the folder's salt for its lifetime.
func (v *vaultService) CreatePrivateFolder(ctx context.Context, name, description, password string) (models.Folder, error) {
	log := logger.FromContext(ctx)

	if name == "" {
		log.Error().Msg("empty folder name provided")
		return models.Folder{}, ErrInvalidDataProvided
	}
	if password == "" {
		return models.Folder{}, ErrEmptyPassword
	}

	salt, err := v.keychain.GenerateSalt()
	if err != nil {
		log.Err(err).Msg("salt generation failed, aborting folder creation")
		return models.Folder{}, err
	}

	key := v.keychain.DeriveKey(password, salt)
	defer crypto.Zero(key)

	cipherText, nonce, err := v.keychain.Seal(key, []models.ContentRecord{})
	if err != nil {
		log.Err(err).Msg("sealing empty item list failed")
		return models.Folder{}, fmt.Errorf("seal initial item list: %w", err)
	}

	now := time.Now().UTC()
	folder := models.Folder{
		ID:          v.ids.Generate(),
		Name:        name,
		Visibility:  models.VisibilityPrivate,
		Description: description,
		Encrypted:   true,
		CipherText:  cipherText,
		Salt:        base64.StdEncoding.EncodeToString(salt),
		Nonce:       nonce,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := v.folders.CreateFolder(ctx, folder); err != nil {
		log.Err(err).Str("name", name).Msg("private folder creation ended with error")
		return models.Folder{}, fmt.Errorf("create private folder: %w", err)
	}

	// The creator holds the passphrase; start the session unlocked so the
	// first item can be added without an immediate re-prompt.
	v.cache.Put(folder.ID, nil, key)

	return folder, nil
}

// Folders implements [VaultService]. Private entries are scrubbed down to
// metadata: neither plaintext items of legacy folders nor legacy passwords
// leave the service without an unlock.
func (v *vaultService) Folders(ctx context.Context) ([]models.Folder, error) {
	folders, err := v.folders.GetAllFolders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}

	for i := range folders {
		if folders[i].IsPrivate() {
			folders[i].Items = nil
			folders[i].LegacyPassword = ""
		}
	}

	return folders, nil
}

// RenameFolder implements [VaultService].
func (v *vaultService) RenameFolder(ctx context.Context, folderID, newName string) error {
	if folderID == "" || newName == "" {
		return ErrInvalidDataProvided
	}
	if err := v.folders.RenameFolder(ctx, folderID, newName); err != nil {
		return fmt.Errorf("rename folder: %w", err)
	}
	return nil
}

// SetFolderDescription implements [VaultService].
func (v *vaultService) SetFolderDescription(ctx context.Context, folderID, description string) error {
	if folderID == "" {
		return ErrInvalidDataProvided
	}
	if err := v.folders.UpdateDescription(ctx, folderID, description); err != nil {
		return fmt.Errorf("update folder description: %w", err)
	}
	return nil
}

// DeleteFolder implements [VaultService]. The session entry is discarded
// even if the repository delete fails: a folder the user asked to delete
// must not linger decrypted in memory.
func (v *vaultService) DeleteFolder(ctx context.Context, folderID string) error {
	if folderID == "" {
		return ErrInvalidDataProvided
	}

	v.cache.Drop(folderID)

	if err := v.folders.DeleteFolder(ctx, folderID); err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}
	return nil
}

// Unlock implements [VaultService].
func (v *vaultService) Unlock(ctx context.Context, folderID, password string) ([]models.ContentRecord, error) {
	log := logger.FromContext(ctx)

	folder, err := v.folders.GetFolder(ctx, folderID)
	if err != nil {
		return nil, fmt.Errorf("load folder for unlock: %w", err)
	}
	if !folder.IsPrivate() {
		return nil, ErrFolderNotPrivate
	}

	// Already unlocked this session: repeated unlocks are idempotent and
	// must not drift from the working copy.
	if items, ok := v.cache.Items(folderID); ok {
		return items, nil
	}

	if folder.IsLegacy() {
		return v.unlockLegacy(ctx, folder, password)
	}

	salt, err := base64.StdEncoding.DecodeString(folder.Salt)
	if err != nil {
		return nil, fmt.Errorf("decode folder salt: %w", err)
	}

	key := v.keychain.DeriveKey(password, salt)
	defer crypto.Zero(key)

	var items []models.ContentRecord
	if err := v.keychain.Open(key, folder.Nonce, folder.CipherText, &items); err != nil {
		if errors.Is(err, crypto.ErrAuthenticationFailed) {
			// Expected, recoverable: the user mistyped the passphrase.
			log.Debug().Str("folder_id", folderID).Msg("unlock attempt failed authentication")
			return nil, ErrWrongPassword
		}
		log.Err(err).Str("folder_id", folderID).Msg("opening folder blob failed")
		return nil, fmt.Errorf("open folder blob: %w", err)
	}

	v.cache.Put(folderID, items, key)

	return items, nil
}

// unlockLegacy handles folders predating encryption support: a direct
// string comparison against the stored plaintext password, not a
// cryptographic operation. Such folders stay read-only until migrated.
func (v *vaultService) unlockLegacy(ctx context.Context, folder models.Folder, password string) ([]models.ContentRecord, error) {
	log := logger.FromContext(ctx)

	if subtle.ConstantTimeCompare([]byte(password), []byte(folder.LegacyPassword)) != 1 {
		log.Debug().Str("folder_id", folder.ID).Msg("legacy unlock attempt failed")
		return nil, ErrWrongPassword
	}

	// No derived key for legacy folders — only the item snapshot.
	v.cache.Put(folder.ID, folder.Items, nil)

	items, _ := v.cache.Items(folder.ID)
	return items, nil
}

// Lock implements [VaultService].
func (v *vaultService) Lock(ctx context.Context, folderID string) error {
	folder, err := v.folders.GetFolder(ctx, folderID)
	if err != nil {
		return fmt.Errorf("load folder for lock: %w", err)
	}
	if !folder.IsPrivate() {
		return ErrFolderNotPrivate
	}

	v.cache.Drop(folderID)
	return nil
}

// Status implements [VaultService].
func (v *vaultService) Status(folderID string) FolderStatus {
	if v.cache.Has(folderID) {
		return StatusUnlocked
	}
	return StatusLocked
}

// Items implements [VaultService].
func (v *vaultService) Items(ctx context.Context, folderID string) ([]models.ContentRecord, error) {
	folder, err := v.folders.GetFolder(ctx, folderID)
	if err != nil {
		return nil, fmt.Errorf("load folder items: %w", err)
	}

	if !folder.IsPrivate() {
		return folder.Items, nil
	}

	items, ok := v.cache.Items(folderID)
	if !ok {
		return nil, ErrFolderLocked
	}
	return items, nil
}

// Commit implements [VaultService]. The order is fixed: working copy
// first, crypto second, persistence last — the UI must see the change
// before the reseal completes, and the store must never observe a partial
// blob.
func (v *vaultService) Commit(ctx context.Context, folderID string, items []models.ContentRecord) error {
	log := logger.FromContext(ctx)

	if err := validateRecordIDs(items); err != nil {
		return err
	}

	folder, err := v.folders.GetFolder(ctx, folderID)
	if err != nil {
		return fmt.Errorf("load folder for commit: %w", err)
	}

	if !folder.IsPrivate() {
		if err := v.folders.SavePublicItems(ctx, folderID, items); err != nil {
			log.Err(err).Str("folder_id", folderID).Msg("persisting public items failed")
			return fmt.Errorf("persist public items: %w", err)
		}
		return nil
	}

	if folder.IsLegacy() {
		return ErrLegacyMigrationRequired
	}

	// Step 1: update the working copy so the UI reflects the mutation
	// without waiting on crypto.
	if !v.cache.UpdateItems(folderID, items) {
		return ErrSessionExpired
	}

	key, ok := v.cache.Key(folderID)
	if !ok {
		return ErrSessionExpired
	}
	defer crypto.Zero(key)

	// Step 2: reseal the entire list under the session key with a fresh
	// nonce. The salt stays fixed for the folder's lifetime.
	cipherText, nonce, err := v.keychain.Seal(key, items)
	if err != nil {
		log.Err(err).Str("folder_id", folderID).Msg("resealing item list failed")
		return fmt.Errorf("seal item list: %w", err)
	}

	// Step 3: atomic whole-blob replace.
	if err := v.folders.SavePrivateBlob(ctx, folderID, cipherText, folder.Salt, nonce); err != nil {
		log.Err(err).Str("folder_id", folderID).Msg("persisting private blob failed")
		return fmt.Errorf("persist private blob: %w", err)
	}

	return nil
}

// Reseal implements [VaultService]. Changing the passphrase is its own
// state-machine transition, not an ad hoc mutation: new salt, new key,
// full re-encryption, old ciphertext discarded in one atomic replace.
func (v *vaultService) Reseal(ctx context.Context, folderID, oldPassword, newPassword string) error {
	log := logger.FromContext(ctx)

	if newPassword == "" {
		return ErrEmptyPassword
	}

	folder, err := v.folders.GetFolder(ctx, folderID)
	if err != nil {
		return fmt.Errorf("load folder for reseal: %w", err)
	}
	if !folder.IsPrivate() {
		return ErrFolderNotPrivate
	}

	items, err := v.openWithPassword(ctx, folder, oldPassword)
	if err != nil {
		return err
	}

	newSalt, err := v.keychain.GenerateSalt()
	if err != nil {
		log.Err(err).Msg("salt generation failed, aborting reseal")
		return err
	}

	newKey := v.keychain.DeriveKey(newPassword, newSalt)
	defer crypto.Zero(newKey)

	cipherText, nonce, err := v.keychain.Seal(newKey, items)
	if err != nil {
		return fmt.Errorf("seal item list under new key: %w", err)
	}

	if err := v.folders.SavePrivateBlob(ctx, folderID, cipherText,
		base64.StdEncoding.EncodeToString(newSalt), nonce); err != nil {
		return fmt.Errorf("persist resealed blob: %w", err)
	}

	// The session continues under the new key.
	v.cache.Put(folderID, items, newKey)

	return nil
}

// MigrateLegacyFolder implements [VaultService].
func (v *vaultService) MigrateLegacyFolder(ctx context.Context, folderID, password string) error {
	log := logger.FromContext(ctx)

	folder, err := v.folders.GetFolder(ctx, folderID)
	if err != nil {
		return fmt.Errorf("load folder for migration: %w", err)
	}
	if !folder.IsPrivate() {
		return ErrFolderNotPrivate
	}
	if !folder.IsLegacy() {
		return ErrNotLegacyFolder
	}

	if subtle.ConstantTimeCompare([]byte(password), []byte(folder.LegacyPassword)) != 1 {
		log.Debug().Str("folder_id", folderID).Msg("legacy migration attempt failed authentication")
		return ErrWrongPassword
	}

	salt, err := v.keychain.GenerateSalt()
	if err != nil {
		log.Err(err).Msg("salt generation failed, aborting migration")
		return err
	}

	key := v.keychain.DeriveKey(password, salt)
	defer crypto.Zero(key)

	cipherText, nonce, err := v.keychain.Seal(key, folder.Items)
	if err != nil {
		return fmt.Errorf("seal items during migration: %w", err)
	}

	// SavePrivateBlob clears the plaintext password in the same statement,
	// so the store never holds both schemes at once.
	if err := v.folders.SavePrivateBlob(ctx, folderID, cipherText,
		base64.StdEncoding.EncodeToString(salt), nonce); err != nil {
		return fmt.Errorf("persist migrated blob: %w", err)
	}

	v.cache.Put(folderID, folder.Items, key)

	log.Info().Str("folder_id", folderID).Msg("legacy folder migrated to encrypted scheme")
	return nil
}

// openWithPassword verifies a passphrase against a private folder outside
// the session cache and returns the decrypted items. Used by Reseal, which
// must re-verify even when the folder is already unlocked.
func (v *vaultService) openWithPassword(ctx context.Context, folder models.Folder, password string) ([]models.ContentRecord, error) {
	log := logger.FromContext(ctx)

	if folder.IsLegacy() {
		if subtle.ConstantTimeCompare([]byte(password), []byte(folder.LegacyPassword)) != 1 {
			return nil, ErrWrongPassword
		}
		return folder.Items, nil
	}

	salt, err := base64.StdEncoding.DecodeString(folder.Salt)
	if err != nil {
		return nil, fmt.Errorf("decode folder salt: %w", err)
	}

	key := v.keychain.DeriveKey(password, salt)
	defer crypto.Zero(key)

	var items []models.ContentRecord
	if err := v.keychain.Open(key, folder.Nonce, folder.CipherText, &items); err != nil {
		if errors.Is(err, crypto.ErrAuthenticationFailed) {
			log.Debug().Str("folder_id", folder.ID).Msg("password verification failed")
			return nil, ErrWrongPassword
		}
		return nil, fmt.Errorf("open folder blob: %w", err)
	}

	return items, nil
}

func validateRecordIDs(items []models.ContentRecord) error {
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if item.ID == "" {
			return fmt.Errorf("%w: record without id", ErrInvalidDataProvided)
		}
		if _, dup := seen[item.ID]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateRecordID, item.ID)
		}
		seen[item.ID] = struct{}{}
	}
	return nil
}
