package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/gridhub/vault/internal/cli"
	"github.com/gridhub/vault/internal/config"
	"github.com/gridhub/vault/internal/crypto"
	"github.com/gridhub/vault/internal/logger"
	"github.com/gridhub/vault/internal/service"
	"github.com/gridhub/vault/internal/store"
	"github.com/gridhub/vault/internal/workers"
	"github.com/gridhub/vault/migrations"
)

const defaultDatabaseFile = "vault.db"

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	// Stdout belongs to the interactive shell; diagnostics go to a file.
	log := logger.NewFileLogger("vault")

	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	if cfg.Storage.DB.DSN == "" {
		cfg.Storage.DB.DSN = defaultDatabaseFile
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := store.NewConnectSQLite(ctx, cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create local storage")
	}
	defer db.Close()

	if err := migrations.Migrate(db.DB); err != nil {
		log.Fatal().Err(err).Msg("migrate local storage")
	}

	keychain := crypto.NewKeyChainService()
	if !cfg.Crypto.IsZero() {
		keychain = crypto.NewKeyChainServiceWithParams(
			cfg.Crypto.ArgonTime, cfg.Crypto.ArgonMemoryKiB, cfg.Crypto.ArgonThreads)
	}

	folders := store.NewFolderRepository(db, log)
	vault := service.NewVaultService(folders, keychain, log)

	jobs := &workers.Workers{}
	if cfg.Workers.BackupInterval > 0 {
		jobs.Add(workers.NewBackupJob(cfg.Storage.DB.DSN, cfg.Workers.BackupDir, log), cfg.Workers.BackupInterval)
	}
	jobs.Start(ctx)
	defer jobs.Stop()

	if err := cli.New(vault, log).Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal().Err(err).Msg("vault shell error")
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
