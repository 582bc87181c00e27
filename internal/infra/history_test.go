package infra

import (
	"crypto/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eliteGoblin/focusd/winsnap/internal/domain"
)

func testKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, keySize)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

// newTestHistory creates an encrypted history in a temp directory for testing.
func newTestHistory(t *testing.T) (*EncryptedHistory, string, []byte) {
	t.Helper()
	dataDir := t.TempDir()
	key := testKey(t)

	h, err := NewEncryptedHistory(dataDir, key)
	require.NoError(t, err)

	t.Cleanup(func() { h.Close() })
	return h, dataDir, key
}

func report(name string, started time.Time, outcomes ...domain.RestoreOutcome) domain.RestoreReport {
	r := domain.RestoreReport{Snapshot: name, StartedAt: started, FinishedAt: started.Add(3 * time.Second)}
	for _, o := range outcomes {
		r.Entries = append(r.Entries, domain.RestoreEntry{Outcome: o})
	}
	return r
}

func TestEncryptedHistory_RecordAndRecent(t *testing.T) {
	h, _, _ := newTestHistory(t)
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, h.Record(report("Workspace_a", base,
		domain.OutcomeRestored, domain.OutcomeRestored, domain.OutcomeWindowNotFound)))
	require.NoError(t, h.Record(report("Workspace_b", base.Add(time.Hour),
		domain.OutcomeProcessLaunchFailed)))

	entries, err := h.Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	newest := entries[0]
	assert.Equal(t, "Workspace_b", newest.Snapshot)
	assert.Equal(t, 1, newest.Total)
	assert.Equal(t, map[domain.RestoreOutcome]int{domain.OutcomeProcessLaunchFailed: 1}, newest.Counts)

	oldest := entries[1]
	assert.Equal(t, "Workspace_a", oldest.Snapshot)
	assert.Equal(t, 3, oldest.Total)
	assert.Equal(t, 2, oldest.Counts[domain.OutcomeRestored])
	assert.Equal(t, 1, oldest.Counts[domain.OutcomeWindowNotFound])
	assert.True(t, oldest.StartedAt.Equal(base))
	assert.True(t, oldest.FinishedAt.Equal(base.Add(3*time.Second)))
}

func TestEncryptedHistory_RecentLimit(t *testing.T) {
	h, _, _ := newTestHistory(t)
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, h.Record(report("Workspace_x", base.Add(time.Duration(i)*time.Minute))))
	}

	entries, err := h.Recent(3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
	assert.True(t, entries[0].StartedAt.After(entries[2].StartedAt))

	all, err := h.Recent(0)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestEncryptedHistory_EmptyReport(t *testing.T) {
	h, _, _ := newTestHistory(t)

	require.NoError(t, h.Record(report("Workspace_empty", time.Now())))

	entries, err := h.Recent(1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 0, entries[0].Total)
	assert.Empty(t, entries[0].Counts)
}

func TestEncryptedHistory_PersistsAcrossReopen(t *testing.T) {
	h, dataDir, key := newTestHistory(t)
	require.NoError(t, h.Record(report("Workspace_a", time.Now(), domain.OutcomeRestored)))
	require.NoError(t, h.Close())

	reopened, err := NewEncryptedHistory(dataDir, key)
	require.NoError(t, err)
	defer reopened.Close()

	entries, err := reopened.Recent(10)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestEncryptedHistory_WrongKeyFails(t *testing.T) {
	h, dataDir, _ := newTestHistory(t)
	require.NoError(t, h.Record(report("Workspace_a", time.Now(), domain.OutcomeRestored)))
	require.NoError(t, h.Close())

	_, err := NewEncryptedHistory(dataDir, testKey(t))

	assert.Error(t, err)
}

func TestOpenHistory_UsesKeyProvider(t *testing.T) {
	dataDir := t.TempDir()
	kp := NewFileKeyProvider(dataDir)

	h, err := OpenHistory(dataDir, kp)
	require.NoError(t, err)
	require.NoError(t, h.Record(report("Workspace_a", time.Now(), domain.OutcomeRestored)))
	require.NoError(t, h.Close())

	again, err := OpenHistory(dataDir, kp)
	require.NoError(t, err)
	defer again.Close()
	entries, err := again.Recent(5)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.FileExists(t, again.Path())
}
