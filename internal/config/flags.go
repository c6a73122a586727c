package config

import (
	"flag"
	"time"
)

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-d database file path
//	-c/-config json file path with configs
//	-backup-interval backup worker interval (e.g., "1h", "15m")
//	-backup-dir backup snapshot directory
//	-argon-time Argon2id iteration count
//	-argon-memory Argon2id memory cost in KiB
//	-argon-threads Argon2id parallelism degree
func ParseFlags() *StructuredConfig {
	var databaseDSN string
	var jsonConfigPath string
	var backupInterval time.Duration
	var backupDir string
	var argonTime uint
	var argonMemoryKiB uint
	var argonThreads uint

	flag.StringVar(&databaseDSN, "d", "", "Database file path")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.DurationVar(&backupInterval, "backup-interval", 0, "Backup interval (e.g., 1h, 15m)")
	flag.StringVar(&backupDir, "backup-dir", "", "Backup snapshot directory")
	flag.UintVar(&argonTime, "argon-time", 0, "Argon2id iteration count")
	flag.UintVar(&argonMemoryKiB, "argon-memory", 0, "Argon2id memory cost in KiB")
	flag.UintVar(&argonThreads, "argon-threads", 0, "Argon2id parallelism degree")

	flag.Parse()

	return &StructuredConfig{
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
		},
		Crypto: Crypto{
			ArgonTime:      uint32(argonTime),
			ArgonMemoryKiB: uint32(argonMemoryKiB),
			ArgonThreads:   uint8(argonThreads),
		},
		Workers: Workers{
			BackupInterval: backupInterval,
			BackupDir:      backupDir,
		},
		JSONFilePath: jsonConfigPath,
	}
}
