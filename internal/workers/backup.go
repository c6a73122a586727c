// SPDX-License-Identifier: Apache-2.0

package workers

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gridhub/vault/internal/logger"
)

// backupJob periodically snapshots the vault database file into a backup
// directory. The snapshot is a plain file copy: private folder contents are
// ciphertext at rest, so the copy is as safe as the original.
type backupJob struct {
	dbPath    string
	backupDir string
	keep      int
	logger    *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// defaultBackupsKept bounds how many snapshots accumulate before the oldest
// are pruned.
const defaultBackupsKept = 10

// NewBackupJob creates a backup worker for the database file at dbPath.
// Snapshots go to backupDir; when backupDir is empty, a "backups" directory
// next to the database file is used. The job is idle until Start is called.
func NewBackupJob(dbPath, backupDir string, log *logger.Logger) Worker {
	if backupDir == "" {
		backupDir = filepath.Join(filepath.Dir(dbPath), "backups")
	}
	return &backupJob{
		dbPath:    dbPath,
		backupDir: backupDir,
		keep:      defaultBackupsKept,
		logger:    log,
	}
}

// Start implements Worker. It stops any previously running job, then
// launches a background goroutine that snapshots the database file every
// interval. If interval is zero or negative it defaults to one hour. The
// goroutine exits when ctx is cancelled or Stop is called.
func (j *backupJob) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				if err := j.snapshot(); err != nil {
					j.logger.Err(err).Str("func", "backupJob.Start").Msg("database snapshot failed")
				}
			}
		}
	}()
}

// Stop implements Worker. It cancels the background goroutine's context and
// blocks until the goroutine has fully exited. Safe to call when the job is
// not running (no-op in that case).
func (j *backupJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}

// snapshot copies the database file into the backup directory under a
// timestamped name and prunes snapshots beyond the retention count.
func (j *backupJob) snapshot() error {
	if err := os.MkdirAll(j.backupDir, 0o700); err != nil {
		return fmt.Errorf("create backup dir: %w", err)
	}

	src, err := os.Open(j.dbPath)
	if err != nil {
		return fmt.Errorf("open database file: %w", err)
	}
	defer src.Close()

	name := fmt.Sprintf("%s.%s.bak", filepath.Base(j.dbPath), time.Now().UTC().Format("20060102T150405"))
	target := filepath.Join(j.backupDir, name)

	// Write to a temp file first so a crash mid-copy never leaves a
	// truncated snapshot under the final name.
	tmp, err := os.CreateTemp(j.backupDir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("create snapshot file: %w", err)
	}

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("copy database file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close snapshot file: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("finalize snapshot: %w", err)
	}

	j.logger.Debug().Str("func", "backupJob.snapshot").Str("target", target).Msg("database snapshot written")

	return j.prune()
}

// prune deletes the oldest snapshots once more than j.keep exist. Snapshot
// names embed a sortable UTC timestamp, so lexical order is age order.
func (j *backupJob) prune() error {
	pattern := filepath.Join(j.backupDir, filepath.Base(j.dbPath)+".*.bak")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return fmt.Errorf("list snapshots: %w", err)
	}
	if len(matches) <= j.keep {
		return nil
	}

	// Glob output is sorted; the oldest snapshots come first.
	for _, stale := range matches[:len(matches)-j.keep] {
		if err := os.Remove(stale); err != nil {
			return fmt.Errorf("remove stale snapshot: %w", err)
		}
	}
	return nil
}
