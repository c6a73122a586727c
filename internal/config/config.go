// SPDX-License-Identifier: Apache-2.0

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the vault.
// It aggregates all sub-configurations and is populated by merging values
// from environment variables, command-line flags, and an optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// Storage holds configuration for the local persistence backend.
	Storage Storage `envPrefix:"STORAGE_"`

	// Crypto holds optional overrides for the key derivation parameters.
	Crypto Crypto `envPrefix:"CRYPTO_"`

	// Workers holds configuration for background worker processes.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// Storage groups the configuration for the persistence backend.
type Storage struct {
	// DB holds the local database connection settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the local SQLite database.
type DB struct {
	// DSN is the path to the SQLite database file holding the folder table
	// (e.g. "vault.db" or "/home/user/.local/share/vault/vault.db").
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Crypto holds optional key derivation parameter overrides. All three values
// must be set together or left zero together; partial overrides are rejected
// by validation. When zero, the built-in defaults apply.
type Crypto struct {
	// ArgonTime is the Argon2id iteration count.
	// Env: CRYPTO_ARGON_TIME
	ArgonTime uint32 `env:"ARGON_TIME"`

	// ArgonMemoryKiB is the Argon2id memory cost in KiB.
	// Env: CRYPTO_ARGON_MEMORY_KIB
	ArgonMemoryKiB uint32 `env:"ARGON_MEMORY_KIB"`

	// ArgonThreads is the Argon2id parallelism degree.
	// Env: CRYPTO_ARGON_THREADS
	ArgonThreads uint8 `env:"ARGON_THREADS"`
}

// IsZero reports whether no override is set at all.
func (c Crypto) IsZero() bool {
	return c.ArgonTime == 0 && c.ArgonMemoryKiB == 0 && c.ArgonThreads == 0
}

// Workers holds configuration for background worker processes.
type Workers struct {
	// BackupInterval is how often the backup worker snapshots the database
	// file (e.g. "1h", "15m"). Zero disables the worker.
	// Env: WORKERS_BACKUP_INTERVAL
	BackupInterval time.Duration `env:"BACKUP_INTERVAL"`

	// BackupDir is the directory backup snapshots are written to. Empty
	// means a "backups" directory next to the database file.
	// Env: WORKERS_BACKUP_DIR
	BackupDir string `env:"BACKUP_DIR"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources in the following priority order
// (last source wins for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}
