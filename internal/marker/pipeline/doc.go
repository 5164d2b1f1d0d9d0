// Package pipeline implements the marker tracking coordinator: the
// cooperative startup sequencer (hardware wait, calibration, registry
// build) and the per-tick frame pipeline (anchor sync, detection, pose
// application, visibility).
//
// The coordinator is driven by an external tick source and never blocks:
// each call to Tick advances the startup state machine by at most one
// transition or processes at most one frame. All coordinator state is
// owned by the tick routine; collaborators are invoked synchronously and
// are assumed to complete within one tick.
package pipeline
