package persist

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManifestStore_PutGet(t *testing.T) {
	store := NewManifestStore(NewInMemoryBackend())
	manifest := NewRunManifest(context.Background(), "run-1", "HoeffdingCS", 0.05, time.Unix(0, 0).UTC())

	require.NoError(t, store.PutManifest("run-1", manifest))
	got, found, err := store.GetManifest("run-1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "run-1", got.RunID)
	assert.Equal(t, "HoeffdingCS", got.Method)
	assert.Equal(t, 0.05, got.Alpha)
}

func TestManifestStore_GetMissing(t *testing.T) {
	store := NewManifestStore(NewInMemoryBackend())
	_, found, err := store.GetManifest("nope")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestManifestStore_ListManifests(t *testing.T) {
	store := NewManifestStore(NewInMemoryBackend())
	require.NoError(t, store.PutManifest("r1", NewRunManifest(context.Background(), "r1", "HoeffdingCS", 0.05, time.Now())))
	require.NoError(t, store.PutManifest("r2", NewRunManifest(context.Background(), "r2", "EmpiricalBernsteinCS", 0.01, time.Now())))

	all, err := store.ListManifests()
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestNewRunManifest_DoesNotFailOutsideGitRepo(t *testing.T) {
	// GitCommit/GitBranch may be empty depending on the environment, but
	// construction itself must never error or panic.
	m := NewRunManifest(context.Background(), "run-x", "BernoulliMixtureCS", 0.05, time.Now())
	assert.Equal(t, "run-x", m.RunID)
}
