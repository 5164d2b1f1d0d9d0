package pipeline

import (
	"github.com/TakashiYoshinaga/QuestArUcoMarkerTracking/internal/marker"
)

// Visibility selects which of the two display modes is active.
type Visibility string

const (
	// VisibilityDebugOverlay shows the detector's annotated result
	// surface and hides all AR content.
	VisibilityDebugOverlay Visibility = "debug_overlay"

	// VisibilityARContent shows the bound scene targets and hides the
	// debug surface. This is the initial state unless configured
	// otherwise.
	VisibilityARContent Visibility = "ar_content"
)

// VisibilityController is the two-mode display state machine. Surface and
// target rendering are kept complementary: after any Apply exactly one of
// them is visible. Before the first Apply everything is hidden.
type VisibilityController struct {
	surface  *marker.ResultSurface // nil when no debug surface is configured
	registry *marker.Registry
	board    marker.Target // nil outside board mode

	state   Visibility
	applied bool
}

// NewVisibilityController wires the controller to the session's display
// surfaces. surface may be nil when no debug overlay is configured; board
// may be nil outside the fixed-board variant.
func NewVisibilityController(surface *marker.ResultSurface, reg *marker.Registry, board marker.Target) *VisibilityController {
	return &VisibilityController{surface: surface, registry: reg, board: board}
}

// HasDebugSurface reports whether a debug overlay is configured. The
// toggle input is ignored entirely when it is not.
func (v *VisibilityController) HasDebugSurface() bool {
	return v.surface != nil
}

// Apply switches to the given display mode, flipping the surface and every
// bound target's drawable parts as one atomic step from the tick routine's
// perspective.
func (v *VisibilityController) Apply(state Visibility) {
	showContent := state != VisibilityDebugOverlay

	if v.surface != nil {
		v.surface.SetEnabled(!showContent)
	}
	for _, t := range v.registry.Targets() {
		t.SetRenderEnabled(showContent)
	}
	if v.board != nil {
		v.board.SetRenderEnabled(showContent)
	}

	v.state = state
	v.applied = true
}

// Toggle flips between the two display modes.
func (v *VisibilityController) Toggle() {
	if v.state == VisibilityDebugOverlay {
		v.Apply(VisibilityARContent)
	} else {
		v.Apply(VisibilityDebugOverlay)
	}
}

// State returns the active display mode.
func (v *VisibilityController) State() Visibility {
	return v.state
}

// Applied reports whether a mode has been applied yet. False means the
// pre-activation default: everything hidden.
func (v *VisibilityController) Applied() bool {
	return v.applied
}
