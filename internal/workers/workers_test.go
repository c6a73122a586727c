// SPDX-License-Identifier: Apache-2.0

package workers

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridhub/vault/internal/logger"
)

// mockWorker is a test implementation of the Worker interface
// that tracks Start and Stop calls.
type mockWorker struct {
	startCount int
	stopCount  int
	interval   time.Duration
}

func (m *mockWorker) Start(_ context.Context, interval time.Duration) {
	m.startCount++
	m.interval = interval
}

func (m *mockWorker) Stop() {
	m.stopCount++
}

func TestWorkers_StartStop_AllWorkersAreCalled(t *testing.T) {
	w1 := &mockWorker{}
	w2 := &mockWorker{}

	ws := &Workers{}
	ws.Add(w1, time.Minute)
	ws.Add(w2, time.Hour)

	ws.Start(context.Background())
	ws.Stop()

	assert.Equal(t, 1, w1.startCount)
	assert.Equal(t, time.Minute, w1.interval)
	assert.Equal(t, 1, w2.startCount)
	assert.Equal(t, time.Hour, w2.interval)
	assert.Equal(t, 1, w1.stopCount)
	assert.Equal(t, 1, w2.stopCount)
}

func TestWorkers_Empty(t *testing.T) {
	ws := &Workers{}

	// Should not panic with no registered workers.
	ws.Start(context.Background())
	ws.Stop()
}

func newTestBackupJob(t *testing.T) (*backupJob, string) {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "vault.db")
	require.NoError(t, os.WriteFile(dbPath, []byte("sqlite-bytes"), 0o600))

	job := NewBackupJob(dbPath, filepath.Join(dir, "backups"), logger.Nop()).(*backupJob)
	return job, dbPath
}

func TestBackupJob_SnapshotCopiesDatabaseFile(t *testing.T) {
	job, _ := newTestBackupJob(t)

	require.NoError(t, job.snapshot())

	matches, err := filepath.Glob(filepath.Join(job.backupDir, "vault.db.*.bak"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	content, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Equal(t, "sqlite-bytes", string(content))
}

func TestBackupJob_SnapshotMissingDatabase(t *testing.T) {
	job, dbPath := newTestBackupJob(t)
	require.NoError(t, os.Remove(dbPath))

	assert.Error(t, job.snapshot())
}

func TestBackupJob_PruneKeepsNewest(t *testing.T) {
	job, _ := newTestBackupJob(t)
	job.keep = 2
	require.NoError(t, os.MkdirAll(job.backupDir, 0o700))

	// Older timestamps sort first.
	names := []string{
		"vault.db.20260101T000000.bak",
		"vault.db.20260201T000000.bak",
		"vault.db.20260301T000000.bak",
	}
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(job.backupDir, n), []byte("x"), 0o600))
	}

	require.NoError(t, job.prune())

	matches, err := filepath.Glob(filepath.Join(job.backupDir, "vault.db.*.bak"))
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.NotContains(t, matches, filepath.Join(job.backupDir, names[0]))
}

func TestBackupJob_StartStop(t *testing.T) {
	job, _ := newTestBackupJob(t)

	job.Start(context.Background(), 10*time.Millisecond)

	// Let at least one tick fire.
	assert.Eventually(t, func() bool {
		matches, _ := filepath.Glob(filepath.Join(job.backupDir, "vault.db.*.bak"))
		return len(matches) >= 1
	}, 2*time.Second, 10*time.Millisecond)

	job.Stop()
	// Stopping twice is a no-op.
	job.Stop()
}
