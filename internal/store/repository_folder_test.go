package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridhub/vault/internal/logger"
	"github.com/gridhub/vault/models"
)

func newTestDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func newTestRepo(t *testing.T, db *sql.DB) FolderRepository {
	t.Helper()
	storeDB := &DB{DB: db, logger: logger.Nop()}
	return NewFolderRepository(storeDB, logger.Nop())
}

func testContext() context.Context {
	l := zerolog.Nop()
	return l.WithContext(context.Background())
}

var folderColumns = []string{
	"id", "name", "visibility", "description", "items", "encrypted",
	"cipher_text", "salt", "nonce", "legacy_password", "created_at", "updated_at",
}

type folderRow struct {
	id             string
	name           string
	visibility     string
	description    string
	items          string
	encrypted      bool
	cipherText     string
	salt           string
	nonce          string
	legacyPassword string
	createdAt      time.Time
	updatedAt      time.Time
}

func (r folderRow) toArgs() []driver.Value {
	return []driver.Value{
		r.id, r.name, r.visibility, r.description, r.items, r.encrypted,
		r.cipherText, r.salt, r.nonce, r.legacyPassword, r.createdAt, r.updatedAt,
	}
}

func TestCreateFolder(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	folder := models.Folder{
		ID:         "f-1",
		Name:       "Links",
		Visibility: models.VisibilityPublic,
		Items:      []models.ContentRecord{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	t.Run("success", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestRepo(t, db)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO folders")).
			WithArgs(folder.ID, folder.Name, "public", "", "[]", false,
				"", "", "", "", folder.CreatedAt, folder.UpdatedAt).
			WillReturnResult(sqlmock.NewResult(1, 1))

		err := repo.CreateFolder(testContext(), folder)
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("exec error is wrapped", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestRepo(t, db)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO folders")).
			WillReturnError(errors.New("disk full"))

		err := repo.CreateFolder(testContext(), folder)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrExecutingStatement)
	})

	t.Run("zero affected rows", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestRepo(t, db)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO folders")).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.CreateFolder(testContext(), folder)
		assert.ErrorIs(t, err, ErrFolderNotSaved)
	})
}

func TestGetFolder(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Millisecond)

	t.Run("found private folder", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestRepo(t, db)

		row := folderRow{
			id: "f-2", name: "Secrets", visibility: "private", items: "[]",
			encrypted: true, cipherText: "Y2lwaGVy", salt: "c2FsdA==", nonce: "bm9uY2U=",
			createdAt: now, updatedAt: now,
		}
		mock.ExpectQuery(regexp.QuoteMeta("FROM folders")).
			WithArgs("f-2").
			WillReturnRows(sqlmock.NewRows(folderColumns).AddRow(row.toArgs()...))

		folder, err := repo.GetFolder(testContext(), "f-2")
		require.NoError(t, err)
		assert.Equal(t, "Secrets", folder.Name)
		assert.Equal(t, models.VisibilityPrivate, folder.Visibility)
		assert.True(t, folder.Encrypted)
		assert.Equal(t, "Y2lwaGVy", folder.CipherText)
		assert.Empty(t, folder.Items, "private folder row must not carry items")
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestRepo(t, db)

		mock.ExpectQuery(regexp.QuoteMeta("FROM folders")).
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows(folderColumns))

		_, err := repo.GetFolder(testContext(), "missing")
		assert.ErrorIs(t, err, ErrFolderNotFound)
	})
}

func TestGetAllFolders(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	db, mock := newTestDB(t)
	repo := newTestRepo(t, db)

	pub := folderRow{
		id: "f-1", name: "Links", visibility: "public",
		items:     `[{"id":"1","kind":"link","size":{"cols":1,"rows":1},"url":"https://go.dev"}]`,
		createdAt: now, updatedAt: now,
	}
	priv := folderRow{
		id: "f-2", name: "Secrets", visibility: "private", items: "[]",
		encrypted: true, cipherText: "Y2lwaGVy", salt: "c2FsdA==", nonce: "bm9uY2U=",
		createdAt: now, updatedAt: now,
	}
	mock.ExpectQuery(regexp.QuoteMeta("FROM folders")).
		WillReturnRows(sqlmock.NewRows(folderColumns).
			AddRow(pub.toArgs()...).
			AddRow(priv.toArgs()...))

	folders, err := repo.GetAllFolders(testContext())
	require.NoError(t, err)
	require.Len(t, folders, 2)
	require.Len(t, folders[0].Items, 1)
	assert.Equal(t, "https://go.dev", folders[0].Items[0].URL)
	assert.Empty(t, folders[1].Items)
}

func TestRenameFolder_NotFound(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestRepo(t, db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE folders SET")).
		WithArgs("New name", sqlmock.AnyArg(), "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.RenameFolder(testContext(), "missing", "New name")
	assert.ErrorIs(t, err, ErrFolderNotFound)
}

func TestSavePublicItems(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestRepo(t, db)

		items := []models.ContentRecord{{
			ID:   "1",
			Kind: models.KindText,
			Size: models.RecordSize{Cols: 1, Rows: 1},
			Text: "hello",
		}}

		mock.ExpectExec(regexp.QuoteMeta("visibility = 'public'")).
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "f-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.SavePublicItems(testContext(), "f-1", items)
		require.NoError(t, err)
	})

	t.Run("private folder rejects plaintext path", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestRepo(t, db)

		// Guarded update matches nothing, repo re-reads to classify.
		mock.ExpectExec(regexp.QuoteMeta("visibility = 'public'")).
			WillReturnResult(sqlmock.NewResult(0, 0))

		now := time.Now().UTC()
		privRow := folderRow{
			id: "f-2", name: "Secrets", visibility: "private", items: "[]",
			encrypted: true, createdAt: now, updatedAt: now,
		}
		mock.ExpectQuery(regexp.QuoteMeta("FROM folders")).
			WithArgs("f-2").
			WillReturnRows(sqlmock.NewRows(folderColumns).AddRow(privRow.toArgs()...))

		err := repo.SavePublicItems(testContext(), "f-2", nil)
		assert.ErrorIs(t, err, ErrVisibilityMismatch)
	})
}

func TestSavePrivateBlob(t *testing.T) {
	t.Run("success replaces whole blob", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestRepo(t, db)

		mock.ExpectExec(regexp.QuoteMeta("visibility = 'private'")).
			WithArgs("bmV3LWN0", "c2FsdA==", "bmV3LW5vbmNl", sqlmock.AnyArg(), "f-2").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.SavePrivateBlob(testContext(), "f-2", "bmV3LWN0", "c2FsdA==", "bmV3LW5vbmNl")
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing folder", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestRepo(t, db)

		mock.ExpectExec(regexp.QuoteMeta("visibility = 'private'")).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta("FROM folders")).
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows(folderColumns))

		err := repo.SavePrivateBlob(testContext(), "missing", "ct", "s", "n")
		assert.ErrorIs(t, err, ErrFolderNotFound)
	})
}
