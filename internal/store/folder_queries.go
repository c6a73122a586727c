// SPDX-License-Identifier: Apache-2.0

package store

const (
	createFolder = `
		INSERT INTO folders (
			id,
			name,
			visibility,
			description,
			items,
			encrypted,
			cipher_text,
			salt,
			nonce,
			legacy_password,
			created_at,
			updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`

	getFolder = `
		SELECT
			id,
			name,
			visibility,
			description,
			items,
			encrypted,
			cipher_text,
			salt,
			nonce,
			legacy_password,
			created_at,
			updated_at
		FROM folders
		WHERE id = ?;`

	getAllFolders = `
		SELECT
			id,
			name,
			visibility,
			description,
			items,
			encrypted,
			cipher_text,
			salt,
			nonce,
			legacy_password,
			created_at,
			updated_at
		FROM folders
		ORDER BY created_at;`

	renameFolder = `
		UPDATE folders SET
			name       = ?,
			updated_at = ?
		WHERE id = ?;`

	updateFolderDescription = `
		UPDATE folders SET
			description = ?,
			updated_at  = ?
		WHERE id = ?;`

	deleteFolder = `
		DELETE FROM folders
		WHERE id = ?;`

	savePublicItems = `
		UPDATE folders SET
			items      = ?,
			updated_at = ?
		WHERE id = ? AND visibility = 'public';`

	// Whole-blob replace in one statement: readers observe either the old
	// or the new ciphertext, never a mix. Items stay an empty placeholder
	// and any legacy plaintext password is discarded.
	savePrivateBlob = `
		UPDATE folders SET
			cipher_text     = ?,
			salt            = ?,
			nonce           = ?,
			encrypted       = 1,
			items           = '[]',
			legacy_password = '',
			updated_at      = ?
		WHERE id = ? AND visibility = 'private';`
)
