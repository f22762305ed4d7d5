// pkg/reclaim/collector_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: In-memory filesystem (afero)
// PURPOSE: Test reclaim sweeps against the lifecycle tracker

package reclaim_test

import (
	"testing"

	"github.com/arthur-debert/rulekit/pkg/errors"
	"github.com/arthur-debert/rulekit/pkg/filesystem"
	"github.com/arthur-debert/rulekit/pkg/lifecycle"
	"github.com/arthur-debert/rulekit/pkg/reclaim"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memFS(t *testing.T, paths ...string) (filesystem.FS, afero.Fs) {
	t.Helper()
	backing := afero.NewMemMapFs()
	for _, path := range paths {
		require.NoError(t, afero.WriteFile(backing, path, []byte("data"), 0644))
	}
	return filesystem.NewAfero(backing), backing
}

func produced(t *testing.T, tracker *lifecycle.Tracker, path string, retention lifecycle.Retention) {
	t.Helper()
	require.NoError(t, tracker.Register(path, retention))
	require.NoError(t, tracker.MarkProduced(path))
}

func TestSweepRemovesReclaimable(t *testing.T) {
	fsys, backing := memFS(t, "a.out.copy", "keep.out")
	tracker := lifecycle.NewTracker()
	produced(t, tracker, "a.out.copy", lifecycle.Ephemeral)
	produced(t, tracker, "keep.out", lifecycle.Persistent)

	collector, err := reclaim.NewCollector(fsys, tracker, reclaim.Eager)
	require.NoError(t, err)

	removed, err := collector.Sweep()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.out.copy"}, removed)

	_, err = backing.Stat("a.out.copy")
	assert.Error(t, err, "ephemeral output deleted")
	_, err = backing.Stat("keep.out")
	assert.NoError(t, err, "persistent output untouched")

	state, err := tracker.State("a.out.copy")
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StateReclaimed, state)
}

func TestSweepWaitsForConsumers(t *testing.T) {
	fsys, backing := memFS(t, "a.out.copy")
	tracker := lifecycle.NewTracker()
	require.NoError(t, tracker.Register("a.out.copy", lifecycle.Ephemeral))
	require.NoError(t, tracker.AddConsumer("a.out.copy", "report-job"))
	require.NoError(t, tracker.MarkProduced("a.out.copy"))

	collector, err := reclaim.NewCollector(fsys, tracker, reclaim.Eager)
	require.NoError(t, err)

	removed, err := collector.Sweep()
	require.NoError(t, err)
	assert.Empty(t, removed)
	_, err = backing.Stat("a.out.copy")
	assert.NoError(t, err, "still needed downstream")

	require.NoError(t, tracker.MarkConsumed("a.out.copy", "report-job"))
	removed, err = collector.Sweep()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.out.copy"}, removed)
}

func TestSweepTolerantOfMissingFiles(t *testing.T) {
	fsys, _ := memFS(t) // nothing on disk
	tracker := lifecycle.NewTracker()
	produced(t, tracker, "gone.out", lifecycle.Ephemeral)

	collector, err := reclaim.NewCollector(fsys, tracker, reclaim.Eager)
	require.NoError(t, err)

	removed, err := collector.Sweep()
	require.NoError(t, err)
	assert.Equal(t, []string{"gone.out"}, removed, "already-deleted file still counts")
}

func TestSweepIsIdempotent(t *testing.T) {
	fsys, _ := memFS(t, "a.out.copy")
	tracker := lifecycle.NewTracker()
	produced(t, tracker, "a.out.copy", lifecycle.Ephemeral)

	collector, err := reclaim.NewCollector(fsys, tracker, reclaim.Eager)
	require.NoError(t, err)

	removed, err := collector.Sweep()
	require.NoError(t, err)
	assert.Len(t, removed, 1)

	removed, err = collector.Sweep()
	require.NoError(t, err)
	assert.Empty(t, removed, "reclaimed outputs do not come back")
}

func TestAtEndPolicyDefersDeletion(t *testing.T) {
	fsys, backing := memFS(t, "a.out.copy")
	tracker := lifecycle.NewTracker()
	produced(t, tracker, "a.out.copy", lifecycle.Ephemeral)

	collector, err := reclaim.NewCollector(fsys, tracker, reclaim.AtEnd)
	require.NoError(t, err)

	removed, err := collector.Sweep()
	require.NoError(t, err)
	assert.Empty(t, removed, "AtEnd sweeps are no-ops until Finish")
	_, err = backing.Stat("a.out.copy")
	assert.NoError(t, err)

	removed, err = collector.Finish()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.out.copy"}, removed)
}

func TestNewCollectorDefaultsAndValidation(t *testing.T) {
	fsys, _ := memFS(t)
	tracker := lifecycle.NewTracker()

	_, err := reclaim.NewCollector(fsys, tracker, "")
	assert.NoError(t, err, "empty policy defaults to Eager")

	_, err = reclaim.NewCollector(fsys, tracker, reclaim.Policy("sometimes"))
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}
