// Package config loads the session configuration for the marker tracker:
// marker bindings, coordinator mode, display options and optional sink
// paths. Values come from a JSON file with environment-variable overrides;
// fields omitted everywhere fall back to the Get* defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

// MarkerBinding is one configuration entry mapping a marker ID to the
// named scene target it drives. The list is ordered; duplicates resolve to
// the later entry when the registry is built.
type MarkerBinding struct {
	MarkerID int    `json:"marker_id"`
	Target   string `json:"target"`
}

// TrackingConfig is the root session configuration. All scalar fields are
// pointers so a JSON file can set any subset and the environment can
// override individual values.
type TrackingConfig struct {
	// Mode selects the coordinator variant: "registry" or "board".
	Mode *string `json:"mode,omitempty" env:"TRACKER_MODE"`

	// BoardTarget names the single target driven in board mode.
	BoardTarget *string `json:"board_target,omitempty" env:"TRACKER_BOARD_TARGET"`

	// ToggleButton is the input control that flips the debug overlay.
	ToggleButton *string `json:"toggle_button,omitempty" env:"TRACKER_TOGGLE_BUTTON"`

	// DebugSurface exposes the detector result surface as an overlay.
	DebugSurface *bool `json:"debug_surface,omitempty" env:"TRACKER_DEBUG_SURFACE"`

	// InitialVisibility is "ar_content" or "debug_overlay".
	InitialVisibility *string `json:"initial_visibility,omitempty" env:"TRACKER_INITIAL_VISIBILITY"`

	// TickInterval is the scheduling tick period, a duration string
	// like "16ms".
	TickInterval *string `json:"tick_interval,omitempty" env:"TRACKER_TICK_INTERVAL"`

	// DatabasePath enables SQLite pose persistence when non-empty.
	DatabasePath *string `json:"database_path,omitempty" env:"TRACKER_DATABASE_PATH"`

	// PlotDir enables post-session trajectory plots when non-empty.
	PlotDir *string `json:"plot_dir,omitempty" env:"TRACKER_PLOT_DIR"`

	// Bindings is the ordered marker binding list.
	Bindings []MarkerBinding `json:"bindings,omitempty"`
}

// Pointer helpers for building configs in code and tests.
func ptrString(v string) *string { return &v }
func ptrBool(v bool) *bool       { return &v }

// EmptyTrackingConfig returns a config with every field unset. The Get*
// accessors supply the defaults.
func EmptyTrackingConfig() *TrackingConfig {
	return &TrackingConfig{}
}

// LoadTrackingConfig loads the configuration from a JSON file, then
// applies environment overrides. Pass an empty path to configure from the
// environment and defaults alone.
func LoadTrackingConfig(path string) (*TrackingConfig, error) {
	cfg := EmptyTrackingConfig()

	if path != "" {
		cleanPath := filepath.Clean(path)
		if ext := filepath.Ext(cleanPath); ext != ".json" {
			return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
		}
		data, err := os.ReadFile(cleanPath)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config JSON: %w", err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("apply environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the set fields for consistency.
func (c *TrackingConfig) Validate() error {
	if c.Mode != nil && *c.Mode != "registry" && *c.Mode != "board" {
		return fmt.Errorf("mode must be \"registry\" or \"board\", got %q", *c.Mode)
	}
	if c.InitialVisibility != nil &&
		*c.InitialVisibility != "ar_content" && *c.InitialVisibility != "debug_overlay" {
		return fmt.Errorf("initial_visibility must be \"ar_content\" or \"debug_overlay\", got %q",
			*c.InitialVisibility)
	}
	if c.TickInterval != nil && *c.TickInterval != "" {
		if _, err := time.ParseDuration(*c.TickInterval); err != nil {
			return fmt.Errorf("invalid tick_interval %q: %w", *c.TickInterval, err)
		}
	}
	if c.Mode != nil && *c.Mode == "board" && c.GetBoardTarget() == "" {
		return fmt.Errorf("board mode requires board_target")
	}
	for _, b := range c.Bindings {
		if b.MarkerID < 0 {
			return fmt.Errorf("marker_id must be non-negative, got %d", b.MarkerID)
		}
	}
	return nil
}

// GetMode returns the coordinator mode, defaulting to "registry".
func (c *TrackingConfig) GetMode() string {
	if c.Mode == nil {
		return "registry"
	}
	return *c.Mode
}

// GetBoardTarget returns the board target name, empty when unset.
func (c *TrackingConfig) GetBoardTarget() string {
	if c.BoardTarget == nil {
		return ""
	}
	return *c.BoardTarget
}

// GetToggleButton returns the toggle control name, defaulting to "a".
func (c *TrackingConfig) GetToggleButton() string {
	if c.ToggleButton == nil || *c.ToggleButton == "" {
		return "a"
	}
	return *c.ToggleButton
}

// GetDebugSurface reports whether the debug overlay is configured.
// Default true: the sample sessions ship with the overlay available.
func (c *TrackingConfig) GetDebugSurface() bool {
	if c.DebugSurface == nil {
		return true
	}
	return *c.DebugSurface
}

// GetInitialVisibility returns the starting display mode, defaulting to
// "ar_content".
func (c *TrackingConfig) GetInitialVisibility() string {
	if c.InitialVisibility == nil || *c.InitialVisibility == "" {
		return "ar_content"
	}
	return *c.InitialVisibility
}

// GetTickInterval parses the tick period, defaulting to 16ms (~60Hz).
func (c *TrackingConfig) GetTickInterval() time.Duration {
	if c.TickInterval == nil || *c.TickInterval == "" {
		return 16 * time.Millisecond
	}
	d, err := time.ParseDuration(*c.TickInterval)
	if err != nil {
		return 16 * time.Millisecond
	}
	return d
}

// GetDatabasePath returns the SQLite path, empty when persistence is off.
func (c *TrackingConfig) GetDatabasePath() string {
	if c.DatabasePath == nil {
		return ""
	}
	return *c.DatabasePath
}

// GetPlotDir returns the trajectory plot directory, empty when plotting
// is off.
func (c *TrackingConfig) GetPlotDir() string {
	if c.PlotDir == nil {
		return ""
	}
	return *c.PlotDir
}
