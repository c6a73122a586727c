// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gridhub/vault/internal/logger"
	"github.com/gridhub/vault/models"
)

type folderRepository struct {
	*DB
	logger *logger.Logger
}

// NewFolderRepository constructs the SQLite-backed [FolderRepository].
func NewFolderRepository(db *DB, logger *logger.Logger) FolderRepository {
	return &folderRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *folderRepository) CreateFolder(ctx context.Context, folder models.Folder) error {
	log := logger.FromContext(ctx)

	itemsJSON, err := encodeItems(folder.Items)
	if err != nil {
		return fmt.Errorf("encode folder items: %w", err)
	}

	res, err := r.DB.ExecContext(ctx, createFolder,
		folder.ID,
		folder.Name,
		string(folder.Visibility),
		folder.Description,
		itemsJSON,
		folder.Encrypted,
		folder.CipherText,
		folder.Salt,
		folder.Nonce,
		folder.LegacyPassword,
		folder.CreatedAt,
		folder.UpdatedAt,
	)
	if err != nil {
		log.Err(err).
			Str("func", "folderRepository.CreateFolder").
			Str("folder_id", folder.ID).
			Msg("failed to execute insert for folder")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrFolderNotSaved
	}

	return nil
}

func (r *folderRepository) GetFolder(ctx context.Context, folderID string) (models.Folder, error) {
	log := logger.FromContext(ctx)

	row := r.DB.QueryRowContext(ctx, getFolder, folderID)

	folder, err := scanFolder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Folder{}, ErrFolderNotFound
		}
		log.Err(err).
			Str("func", "folderRepository.GetFolder").
			Str("folder_id", folderID).
			Msg("failed to scan folder row")
		return models.Folder{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return folder, nil
}

func (r *folderRepository) GetAllFolders(ctx context.Context) ([]models.Folder, error) {
	log := logger.FromContext(ctx)

	rows, err := r.DB.QueryContext(ctx, getAllFolders)
	if err != nil {
		log.Err(err).
			Str("func", "folderRepository.GetAllFolders").
			Msg("failed to execute query for all folders")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var folders []models.Folder
	for rows.Next() {
		folder, err := scanFolder(rows)
		if err != nil {
			log.Err(err).
				Str("func", "folderRepository.GetAllFolders").
				Msg("failed to scan folder rows")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		folders = append(folders, folder)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return folders, nil
}

func (r *folderRepository) RenameFolder(ctx context.Context, folderID, newName string) error {
	return r.execTargeted(ctx, "folderRepository.RenameFolder", renameFolder,
		newName, time.Now().UTC(), folderID)
}

func (r *folderRepository) UpdateDescription(ctx context.Context, folderID, description string) error {
	return r.execTargeted(ctx, "folderRepository.UpdateDescription", updateFolderDescription,
		description, time.Now().UTC(), folderID)
}

func (r *folderRepository) DeleteFolder(ctx context.Context, folderID string) error {
	return r.execTargeted(ctx, "folderRepository.DeleteFolder", deleteFolder, folderID)
}

func (r *folderRepository) SavePublicItems(ctx context.Context, folderID string, items []models.ContentRecord) error {
	itemsJSON, err := encodeItems(items)
	if err != nil {
		return fmt.Errorf("encode folder items: %w", err)
	}

	err = r.execTargeted(ctx, "folderRepository.SavePublicItems", savePublicItems,
		itemsJSON, time.Now().UTC(), folderID)
	if errors.Is(err, ErrFolderNotFound) {
		// The folder may exist but be private; plaintext items must never
		// reach a private row.
		return r.classifyMiss(ctx, folderID, models.VisibilityPublic)
	}
	return err
}

func (r *folderRepository) SavePrivateBlob(ctx context.Context, folderID, cipherText, salt, nonce string) error {
	err := r.execTargeted(ctx, "folderRepository.SavePrivateBlob", savePrivateBlob,
		cipherText, salt, nonce, time.Now().UTC(), folderID)
	if errors.Is(err, ErrFolderNotFound) {
		return r.classifyMiss(ctx, folderID, models.VisibilityPrivate)
	}
	return err
}

// execTargeted runs a statement that must affect exactly one folder row.
// Zero affected rows is reported as ErrFolderNotFound.
func (r *folderRepository) execTargeted(ctx context.Context, fn, query string, args ...any) error {
	log := logger.FromContext(ctx)

	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", fn).
			Msg("failed to execute statement for folder")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrFolderNotFound
	}

	return nil
}

// classifyMiss distinguishes "no such folder" from "folder exists with the
// other visibility" after a visibility-guarded update matched nothing.
func (r *folderRepository) classifyMiss(ctx context.Context, folderID string, want models.Visibility) error {
	folder, err := r.GetFolder(ctx, folderID)
	if err != nil {
		return err
	}
	if folder.Visibility != want {
		return ErrVisibilityMismatch
	}
	return ErrFolderNotFound
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanFolder(row rowScanner) (models.Folder, error) {
	var (
		folder     models.Folder
		visibility string
		itemsJSON  string
	)

	err := row.Scan(
		&folder.ID,
		&folder.Name,
		&visibility,
		&folder.Description,
		&itemsJSON,
		&folder.Encrypted,
		&folder.CipherText,
		&folder.Salt,
		&folder.Nonce,
		&folder.LegacyPassword,
		&folder.CreatedAt,
		&folder.UpdatedAt,
	)
	if err != nil {
		return models.Folder{}, err
	}

	folder.Visibility = models.Visibility(visibility)
	if err := json.Unmarshal([]byte(itemsJSON), &folder.Items); err != nil {
		return models.Folder{}, fmt.Errorf("decode folder items: %w", err)
	}

	return folder, nil
}

func encodeItems(items []models.ContentRecord) (string, error) {
	if items == nil {
		items = []models.ContentRecord{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(payload), nil
}
