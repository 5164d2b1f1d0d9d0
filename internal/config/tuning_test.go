package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tracker.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestDefaults(t *testing.T) {
	t.Parallel()

	cfg := EmptyTrackingConfig()
	assert.Equal(t, "registry", cfg.GetMode())
	assert.Equal(t, "a", cfg.GetToggleButton())
	assert.True(t, cfg.GetDebugSurface())
	assert.Equal(t, "ar_content", cfg.GetInitialVisibility())
	assert.Equal(t, 16*time.Millisecond, cfg.GetTickInterval())
	assert.Empty(t, cfg.GetDatabasePath())
	assert.Empty(t, cfg.GetPlotDir())
}

func TestLoadFromJSON(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `{
		"mode": "board",
		"board_target": "game_board",
		"toggle_button": "b",
		"debug_surface": false,
		"tick_interval": "33ms",
		"bindings": [
			{"marker_id": 1, "target": "cube"},
			{"marker_id": 2, "target": "sphere"},
			{"marker_id": 1, "target": "cone"}
		]
	}`)

	cfg, err := LoadTrackingConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "board", cfg.GetMode())
	assert.Equal(t, "game_board", cfg.GetBoardTarget())
	assert.Equal(t, "b", cfg.GetToggleButton())
	assert.False(t, cfg.GetDebugSurface())
	assert.Equal(t, 33*time.Millisecond, cfg.GetTickInterval())

	want := []MarkerBinding{
		{MarkerID: 1, Target: "cube"},
		{MarkerID: 2, Target: "sphere"},
		{MarkerID: 1, Target: "cone"},
	}
	if diff := cmp.Diff(want, cfg.Bindings); diff != "" {
		t.Errorf("bindings mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `{"database_path": "poses.db"}`)

	cfg, err := LoadTrackingConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "poses.db", cfg.GetDatabasePath())
	assert.Equal(t, "registry", cfg.GetMode())
	assert.True(t, cfg.GetDebugSurface())
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, `{"mode": "registry", "tick_interval": "16ms"}`)

	t.Setenv("TRACKER_TICK_INTERVAL", "8ms")
	t.Setenv("TRACKER_PLOT_DIR", "plots/run1")

	cfg, err := LoadTrackingConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 8*time.Millisecond, cfg.GetTickInterval())
	assert.Equal(t, "plots/run1", cfg.GetPlotDir())
	assert.Equal(t, "registry", cfg.GetMode())
}

func TestValidateRejectsBadValues(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		cfg  *TrackingConfig
	}{
		{"bad mode", &TrackingConfig{Mode: ptrString("both")}},
		{"bad visibility", &TrackingConfig{InitialVisibility: ptrString("hidden")}},
		{"bad tick interval", &TrackingConfig{TickInterval: ptrString("fast")}},
		{"board without target", &TrackingConfig{Mode: ptrString("board")}},
		{"negative marker id", &TrackingConfig{Bindings: []MarkerBinding{{MarkerID: -1, Target: "x"}}}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Error(t, tc.cfg.Validate())
		})
	}
}

func TestValidateAcceptsBoardWithTarget(t *testing.T) {
	t.Parallel()

	cfg := &TrackingConfig{
		Mode:         ptrString("board"),
		BoardTarget:  ptrString("board"),
		DebugSurface: ptrBool(false),
	}
	assert.NoError(t, cfg.Validate())
}

func TestLoadRejectsNonJSONExtension(t *testing.T) {
	t.Parallel()

	_, err := LoadTrackingConfig("tracker.yaml")
	assert.Error(t, err)
}
