package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Khaliq12345/news-archive-bot/internal/types"
)

func testParams() types.JobParameters {
	return types.JobParameters{
		ArchiveURL: "https://example.com/archive",
		BaseURL:    "https://example.com",
		OldestDate: "2025-01-01",
		Strategy:   types.StrategyNumbered,
	}
}

func newTestProgress(t *testing.T) *ProgressStore {
	t.Helper()
	return NewProgressStore(filepath.Join(t.TempDir(), "progress.json"))
}

func TestBeginFinish(t *testing.T) {
	p := newTestProgress(t)

	require.NoError(t, p.Begin("key1", testParams(), 0))

	entry, err := p.Get("key1")
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, entry.Progress)
	require.NotNil(t, entry.Params)
	assert.Equal(t, "https://example.com", entry.Params.BaseURL)

	require.NoError(t, p.Finish("key1", StatusSuccess))

	entry, err = p.Get("key1")
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, entry.Progress)
	assert.Zero(t, entry.PID)
}

func TestBeginRejectsRunningJob(t *testing.T) {
	p := newTestProgress(t)

	require.NoError(t, p.Begin("key1", testParams(), 0))

	params2 := testParams()
	params2.ArchiveURL = "https://example.com/other"
	err := p.Begin("key1", params2, 0)
	require.ErrorIs(t, err, types.ErrJobRunning)

	// The rejected start must not have touched the existing entry.
	entry, err := p.Get("key1")
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, entry.Progress)
	assert.Equal(t, "https://example.com/archive", entry.Params.ArchiveURL)
}

func TestBeginAllowsRestartAfterFinish(t *testing.T) {
	p := newTestProgress(t)

	require.NoError(t, p.Begin("key1", testParams(), 0))
	require.NoError(t, p.Finish("key1", StatusFailed))
	require.NoError(t, p.Begin("key1", testParams(), 0))
}

func TestCancel(t *testing.T) {
	p := newTestProgress(t)

	require.NoError(t, p.Begin("key1", testParams(), 0))
	require.NoError(t, p.Cancel("key1"))

	entry, err := p.Get("key1")
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, entry.Progress)
	assert.Zero(t, entry.PID)
}

func TestCancelNotRunning(t *testing.T) {
	p := newTestProgress(t)

	require.NoError(t, p.Begin("key1", testParams(), 0))
	require.NoError(t, p.Finish("key1", StatusSuccess))
	require.ErrorIs(t, p.Cancel("key1"), types.ErrJobNotRunning)
}

func TestCancelUnknownJob(t *testing.T) {
	p := newTestProgress(t)
	require.ErrorIs(t, p.Cancel("nope"), types.ErrJobNotFound)
}

func TestAllSurvivesReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")

	p := NewProgressStore(path)
	require.NoError(t, p.Begin("key1", testParams(), 0))
	require.NoError(t, p.Begin("key2", testParams(), 0))

	// A fresh store over the same file sees both entries.
	p2 := NewProgressStore(path)
	entries, err := p2.All()
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
