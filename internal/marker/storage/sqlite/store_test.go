package sqlite

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
	_ "modernc.org/sqlite"

	"github.com/TakashiYoshinaga/QuestArUcoMarkerTracking/internal/marker"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordPoseRequiresSession(t *testing.T) {
	t.Parallel()

	store := setupTestStore(t)
	err := store.RecordPose(1, "cube", marker.IdentityPose())
	assert.Error(t, err)
}

func TestSessionObservationsRoundTrip(t *testing.T) {
	t.Parallel()

	store := setupTestStore(t)

	sess, err := store.BeginSession("registry")
	require.NoError(t, err)
	require.NotEmpty(t, sess.SessionID)

	pose := marker.Pose{
		Position:    r3.Vec{X: 0.5, Y: -0.25, Z: -1.5},
		Orientation: r3.NewRotation(math.Pi/3, r3.Vec{Y: 1}),
	}
	require.NoError(t, store.RecordPose(3, "cube", pose))
	require.NoError(t, store.RecordPose(7, "sphere", marker.IdentityPose()))

	obs, err := store.SessionObservations(sess.SessionID)
	require.NoError(t, err)
	require.Len(t, obs, 2)

	assert.Equal(t, 3, obs[0].MarkerID)
	assert.Equal(t, "cube", obs[0].Target)
	got := obs[0].Pose()
	assert.InDelta(t, pose.Position.X, got.Position.X, 1e-9)
	assert.InDelta(t, pose.Position.Z, got.Position.Z, 1e-9)
	assert.True(t, got.Valid())
}

func TestEndSessionStampsAndDetaches(t *testing.T) {
	t.Parallel()

	store := setupTestStore(t)

	_, err := store.BeginSession("board")
	require.NoError(t, err)
	require.NoError(t, store.EndSession())

	sessions, err := store.Sessions()
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "board", sessions[0].Mode)
	require.NotNil(t, sessions[0].EndedAtNs)

	// Detached: further observations are rejected.
	assert.Error(t, store.RecordPose(1, "cube", marker.IdentityPose()))
}

func TestSessionsNewestFirst(t *testing.T) {
	t.Parallel()

	store := setupTestStore(t)

	for _, mode := range []string{"registry", "board"} {
		_, err := store.BeginSession(mode)
		require.NoError(t, err)
		require.NoError(t, store.EndSession())
	}

	sessions, err := store.Sessions()
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.GreaterOrEqual(t, sessions[0].StartedAtNs, sessions[1].StartedAtNs)
}
