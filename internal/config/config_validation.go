// SPDX-License-Identifier: Apache-2.0

package config

import "strings"

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Returns nil if the configuration is valid, or a descriptive error otherwise.
func (cfg *StructuredConfig) validate() error {
	// Vault data must survive restarts.
	if strings.Contains(cfg.Storage.DB.DSN, "memory") {
		return ErrInvalidStorageConfigs
	}

	// Key derivation overrides are all-or-nothing: a partially overridden
	// parameter set silently weakens the KDF.
	c := cfg.Crypto
	if !c.IsZero() && (c.ArgonTime == 0 || c.ArgonMemoryKiB == 0 || c.ArgonThreads == 0) {
		return ErrInvalidCryptoConfigs
	}

	if cfg.Workers.BackupInterval < 0 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}
