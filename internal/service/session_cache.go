// SPDX-License-Identifier: Apache-2.0

package service

import (
	"sync"

	"github.com/gridhub/vault/internal/crypto"
	"github.com/gridhub/vault/models"
)

// sessionEntry holds the working copy of one unlocked private folder.
type sessionEntry struct {
	// items is the decrypted list the UI reads and edits.
	items []models.ContentRecord

	// key is the passphrase-derived key retained so commits during the
	// session can reseal without re-prompting.
	key []byte
}

// sessionCache is the memory-only store of decrypted folder contents and
// their derived keys, keyed by folder id. It is never persisted: entries
// exist from a successful unlock until an explicit lock, folder deletion,
// or process exit.
//
// Retaining the derived key is an explicit policy choice — without it every
// commit would re-prompt for the passphrase.
type sessionCache struct {
	mu      sync.RWMutex
	entries map[string]*sessionEntry
}

func newSessionCache() *sessionCache {
	return &sessionCache{entries: make(map[string]*sessionEntry)}
}

// Put installs or replaces the entry for folderID. The key is copied so
// the caller may zeroize its own slice.
func (c *sessionCache) Put(folderID string, items []models.ContentRecord, key []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.entries[folderID]; ok {
		crypto.Zero(old.key)
	}
	c.entries[folderID] = &sessionEntry{
		items: append([]models.ContentRecord(nil), items...),
		key:   append([]byte(nil), key...),
	}
}

// UpdateItems replaces the working item list of an existing entry, keeping
// the cached key. Reports whether an entry existed.
func (c *sessionCache) UpdateItems(folderID string, items []models.ContentRecord) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[folderID]
	if !ok {
		return false
	}
	entry.items = append([]models.ContentRecord(nil), items...)
	return true
}

// Items returns a copy of the decrypted item list for folderID.
func (c *sessionCache) Items(folderID string) ([]models.ContentRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[folderID]
	if !ok {
		return nil, false
	}
	return append([]models.ContentRecord(nil), entry.items...), true
}

// Key returns a copy of the cached derived key for folderID.
func (c *sessionCache) Key(folderID string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[folderID]
	if !ok || entry.key == nil {
		return nil, false
	}
	return append([]byte(nil), entry.key...), true
}

// Has reports whether folderID is unlocked in this session.
func (c *sessionCache) Has(folderID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.entries[folderID]
	return ok
}

// Drop removes the entry for folderID, zeroizing its key material.
func (c *sessionCache) Drop(folderID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.entries[folderID]; ok {
		crypto.Zero(entry.key)
		delete(c.entries, folderID)
	}
}

// DropAll removes every entry. Used on logout/shutdown.
func (c *sessionCache) DropAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for id, entry := range c.entries {
		crypto.Zero(entry.key)
		delete(c.entries, id)
	}
}
