// SPDX-License-Identifier: Apache-2.0

package models

import "time"

// Visibility controls whether a folder's items are persisted in plaintext
// or only as an encrypted blob. Set once at creation and immutable
// thereafter; changing protection requires an explicit reseal operation.
type Visibility string

const (
	// VisibilityPublic folders persist their items directly in plaintext.
	VisibilityPublic Visibility = "public"

	// VisibilityPrivate folders persist items only as an authenticated
	// ciphertext blob. The Items field of the persisted record stays empty.
	VisibilityPrivate Visibility = "private"
)

// Folder is a named collection of content records on the hub page.
//
// For a private folder the persisted representation never contains
// plaintext items: the real content exists only as CipherText, decryptable
// with the key derived from the user's passphrase and Salt. Decrypted items
// live exclusively in the in-memory session cache.
type Folder struct {
	// ID is a stable unique identifier generated at creation, never reused.
	ID string

	// Name is the mutable display label.
	Name string

	// Visibility is public or private. Immutable after creation.
	Visibility Visibility

	// Description is display-only plaintext. Not a secret.
	Description string

	// Items holds the plaintext records of a public folder. Always empty
	// in the persisted record of a private folder.
	Items []ContentRecord

	// Encrypted reports whether the private content is protected by the
	// passphrase-derived key. A private folder that predates encryption
	// support has Encrypted=false and a non-empty LegacyPassword instead.
	Encrypted bool

	// CipherText, Salt and Nonce are base64 (std) encoded. Present only
	// for encrypted private folders. Salt is fixed for the folder's
	// lifetime; Nonce is regenerated on every commit.
	CipherText string
	Salt       string
	Nonce      string

	// LegacyPassword is the plaintext password of a folder created before
	// encryption support. Cleared by the one-time migration to Encrypted.
	LegacyPassword string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsPrivate reports whether the folder's items are protected.
func (f *Folder) IsPrivate() bool {
	return f.Visibility == VisibilityPrivate
}

// IsLegacy reports whether the folder still uses the pre-encryption
// plaintext-password scheme and is a migration target.
func (f *Folder) IsLegacy() bool {
	return f.IsPrivate() && !f.Encrypted
}
