package tombstone

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tombstones.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, path
}

func TestAddLoadRemove(t *testing.T) {
	ctx := context.Background()
	s, _ := openTestStore(t)

	require.NoError(t, s.Add(ctx, "tasks", "t1"))
	require.NoError(t, s.Add(ctx, "tasks", "t2"))
	require.NoError(t, s.Add(ctx, "goals", "g1"))
	// adding twice is a no-op
	require.NoError(t, s.Add(ctx, "tasks", "t1"))

	sets, err := s.Load(ctx)
	require.NoError(t, err)
	assert.True(t, sets["tasks"]["t1"])
	assert.True(t, sets["tasks"]["t2"])
	assert.True(t, sets["goals"]["g1"])
	assert.Len(t, sets["tasks"], 2)

	require.NoError(t, s.Remove(ctx, "tasks", "t1"))
	sets, err = s.Load(ctx)
	require.NoError(t, err)
	assert.False(t, sets["tasks"]["t1"])
	assert.True(t, sets["tasks"]["t2"])
}

func TestPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tombstones.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Add(ctx, "applications", "a1"))
	require.NoError(t, s.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	sets, err := s2.Load(ctx)
	require.NoError(t, err)
	assert.True(t, sets["applications"]["a1"])
}

func TestRecordSnapshotExpiresAfterThreshold(t *testing.T) {
	ctx := context.Background()
	s, _ := openTestStore(t)

	require.NoError(t, s.Add(ctx, "tasks", "t1"))

	absent := map[string]bool{}
	for i := 0; i < confirmThreshold-1; i++ {
		expired, err := s.RecordSnapshot(ctx, "tasks", absent)
		require.NoError(t, err)
		assert.Empty(t, expired, "pass %d should not expire yet", i+1)
	}

	expired, err := s.RecordSnapshot(ctx, "tasks", absent)
	require.NoError(t, err)
	assert.Equal(t, []string{"t1"}, expired)

	sets, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, sets["tasks"])
}

func TestRecordSnapshotResetsOnPresence(t *testing.T) {
	ctx := context.Background()
	s, _ := openTestStore(t)

	require.NoError(t, s.Add(ctx, "skills", "s1"))

	// two absence passes, then the server mentions the id again
	for i := 0; i < confirmThreshold-1; i++ {
		_, err := s.RecordSnapshot(ctx, "skills", map[string]bool{})
		require.NoError(t, err)
	}
	_, err := s.RecordSnapshot(ctx, "skills", map[string]bool{"s1": true})
	require.NoError(t, err)

	// counter restarted: the next two absences still do not expire it
	for i := 0; i < confirmThreshold-1; i++ {
		expired, err := s.RecordSnapshot(ctx, "skills", map[string]bool{})
		require.NoError(t, err)
		assert.Empty(t, expired)
	}

	expired, err := s.RecordSnapshot(ctx, "skills", map[string]bool{})
	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, expired)
}

func TestRecordSnapshotScopedToEntityType(t *testing.T) {
	ctx := context.Background()
	s, _ := openTestStore(t)

	require.NoError(t, s.Add(ctx, "tasks", "x1"))
	require.NoError(t, s.Add(ctx, "goals", "x1"))

	for i := 0; i < confirmThreshold; i++ {
		_, err := s.RecordSnapshot(ctx, "tasks", map[string]bool{})
		require.NoError(t, err)
	}

	sets, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, sets["tasks"])
	assert.True(t, sets["goals"]["x1"], "goal tombstone with the same id must be untouched")
}
