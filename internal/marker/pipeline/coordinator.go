package pipeline

import (
	"github.com/TakashiYoshinaga/QuestArUcoMarkerTracking/internal/marker"
)

// Mode selects the pose-application variant. The two historical
// near-duplicate coordinators (fixed board vs. marker registry) are
// collapsed into one component parameterised by this flag.
type Mode int

const (
	// ModeRegistry resolves every detected marker against the registry.
	ModeRegistry Mode = iota
	// ModeBoard drives a single designated board target.
	ModeBoard
)

// String returns the mode name for logging.
func (m Mode) String() string {
	if m == ModeBoard {
		return "board"
	}
	return "registry"
}

// BoardMarkerID is the marker identifier recorded for board-mode
// observations, which have no registry binding of their own.
const BoardMarkerID = -1

// Phase is a startup sequencer state.
type Phase string

const (
	PhaseWaitingForHardware Phase = "waiting_for_hardware"
	PhaseCalibrating        Phase = "calibrating"
	PhaseRegistryReady      Phase = "registry_ready"
	PhaseSteadyState        Phase = "steady_state"

	// PhaseFailed is terminal: a fatal configuration error was logged and
	// the session will never activate AR content.
	PhaseFailed Phase = "failed"
)

// Config holds the coordinator's collaborators and session configuration,
// supplied before startup and immutable for the session.
type Config struct {
	Camera   Camera
	Detector Detector

	// Input is optional; without it the visibility toggle never fires.
	Input        InputSource
	ToggleButton Button

	Mode     Mode
	Bindings []marker.Binding

	// BoardTarget is the single designated target for ModeBoard.
	BoardTarget marker.Target

	// EnableDebugSurface exposes the detector's result surface as a
	// toggleable overlay. When false the toggle check is skipped
	// entirely and the session stays in AR content mode.
	EnableDebugSurface bool

	// InitialVisibility overrides the default of VisibilityARContent.
	InitialVisibility Visibility

	// Observations, when set, receives every applied pose for
	// persistence. Recorder, when set, accumulates poses for
	// post-session plots. Both optional.
	Observations ObservationSink
	Recorder     PoseRecorder
}

// Stats counts coordinator activity since construction.
type Stats struct {
	Ticks           uint64
	FramesProcessed uint64
	FramesSkipped   uint64
	Toggles         uint64
}

// Coordinator sequences startup and runs the per-frame pipeline. It is
// driven by an external tick source; one call to Tick advances at most one
// startup transition or processes at most one frame.
type Coordinator struct {
	cfg Config

	phase    Phase
	scaled   marker.ScaledIntrinsics
	lastRes  marker.Resolution
	registry *marker.Registry
	anchor   *marker.Anchor
	surface  *marker.ResultSurface
	vis      *VisibilityController

	stats Stats
}

// New creates a coordinator in the waiting-for-hardware phase. Nothing is
// touched until the first Tick.
func New(cfg Config) *Coordinator {
	return &Coordinator{
		cfg:      cfg,
		phase:    PhaseWaitingForHardware,
		registry: marker.NewRegistry(),
		anchor:   marker.NewAnchor(),
	}
}

// Tick advances the coordinator by one scheduling tick.
func (c *Coordinator) Tick() {
	c.stats.Ticks++

	switch c.phase {
	case PhaseWaitingForHardware:
		c.tickWaiting()
	case PhaseCalibrating:
		c.tickCalibrate()
	case PhaseRegistryReady:
		c.tickActivate()
	case PhaseSteadyState:
		c.tickFrame()
	case PhaseFailed:
		// Terminal; the host is expected to be idling.
	}
}

// tickWaiting polls the camera once per tick until it streams. Missing
// collaborators are a fatal configuration error: log and halt, never
// reaching steady state.
func (c *Coordinator) tickWaiting() {
	if isNilInterface(c.cfg.Camera) {
		opsf("fatal: no camera subsystem configured, coordinator halted")
		c.phase = PhaseFailed
		return
	}
	if isNilInterface(c.cfg.Detector) {
		opsf("fatal: no detector configured, coordinator halted")
		c.phase = PhaseFailed
		return
	}
	if !c.cfg.Camera.IsStreaming() {
		tracef("waiting for camera stream")
		return
	}

	// The transition consumes this tick: calibration is read one tick
	// after the stream comes up, absorbing first-frame initialisation
	// artifacts from the hardware layer.
	diagf("camera streaming, calibrating next tick")
	c.phase = PhaseCalibrating
}

// tickCalibrate runs the three sequential startup steps: intrinsics
// scaling, detector initialisation with result-surface sizing, and the
// registry build.
func (c *Coordinator) tickCalibrate() {
	intr := c.cfg.Camera.Intrinsics()
	res := c.cfg.Camera.CurrentResolution()

	scaled, err := marker.ScaleIntrinsics(intr, res)
	if err != nil {
		opsf("fatal: %v, coordinator halted", err)
		c.phase = PhaseFailed
		return
	}

	if err := c.cfg.Detector.Initialize(scaled.Width, scaled.Height, scaled.Cx, scaled.Cy, scaled.Fx, scaled.Fy); err != nil {
		opsf("fatal: detector initialise: %v, coordinator halted", err)
		c.phase = PhaseFailed
		return
	}

	surface, err := marker.NewResultSurface(scaled.Resolution(), c.cfg.Detector.DownsampleFactor())
	if err != nil {
		opsf("fatal: %v, coordinator halted", err)
		c.phase = PhaseFailed
		return
	}

	c.registry.Rebuild(c.cfg.Bindings)

	c.scaled = scaled
	c.lastRes = res
	c.surface = surface

	w, h := surface.Size()
	diagf("calibrated: %dx%d fx=%.1f fy=%.1f cx=%.1f cy=%.1f, surface %dx%d, %d markers bound",
		scaled.Width, scaled.Height, scaled.Fx, scaled.Fy, scaled.Cx, scaled.Cy, w, h, c.registry.Len())
	c.phase = PhaseRegistryReady
}

// tickActivate applies the initial visibility and enables the frame
// pipeline.
func (c *Coordinator) tickActivate() {
	var overlay *marker.ResultSurface
	if c.cfg.EnableDebugSurface {
		overlay = c.surface
	}
	var board marker.Target
	if c.cfg.Mode == ModeBoard {
		board = c.cfg.BoardTarget
	}
	c.vis = NewVisibilityController(overlay, c.registry, board)

	initial := c.cfg.InitialVisibility
	if initial == "" {
		initial = VisibilityARContent
	}
	c.vis.Apply(initial)

	diagf("steady state: mode=%s visibility=%s", c.cfg.Mode, initial)
	c.phase = PhaseSteadyState
}

// tickFrame runs the fixed per-frame ordering: toggle check, anchor sync,
// detection, pose application, sinks. A camera or detector that is not
// ready this tick is an advisory early-exit, retried next tick.
func (c *Coordinator) tickFrame() {
	if !c.cfg.Camera.IsStreaming() || !c.cfg.Detector.IsReady() {
		c.stats.FramesSkipped++
		tracef("frame skipped: collaborators not ready")
		return
	}

	// 1. Toggle check. Skipped when no debug surface is configured.
	if c.vis.HasDebugSurface() && !isNilInterface(c.cfg.Input) {
		if c.cfg.Input.EdgeDown(c.cfg.ToggleButton) {
			c.vis.Toggle()
			c.stats.Toggles++
			diagf("visibility toggled to %s", c.vis.State())
		}
	}

	// 2. Anchor sync. Must precede pose application so marker poses are
	// relative to this frame's camera placement, not a stale one.
	c.anchor.Set(c.cfg.Camera.CurrentPose())

	// 2b. Stream resolution change: re-scale, re-initialise, recreate
	// the result surface.
	if res := c.cfg.Camera.CurrentResolution(); res != c.lastRes {
		if !c.rescale(res) {
			c.stats.FramesSkipped++
			return
		}
	}

	// 3. Detection. The surface is written for optional debug display;
	// its pixels are the detector's responsibility.
	c.cfg.Detector.Detect(c.cfg.Camera.CurrentImage(), c.surface)

	// 4. Pose application. Targets with no detected marker this frame
	// keep their last pose: transient detection loss must not pop.
	switch c.cfg.Mode {
	case ModeBoard:
		c.cfg.Detector.EstimateBoardPose(c.cfg.BoardTarget, c.anchor)
	default:
		c.cfg.Detector.EstimatePoses(c.registry, c.anchor)
	}

	c.sinkPoses()
	c.stats.FramesProcessed++
}

// rescale adapts the session to a changed stream resolution. Failure skips
// the frame but does not halt: the previous calibration stays active and
// the change is retried next tick.
func (c *Coordinator) rescale(res marker.Resolution) bool {
	scaled, err := marker.ScaleIntrinsics(c.cfg.Camera.Intrinsics(), res)
	if err != nil {
		opsf("rescale to %dx%d: %v", res.Width, res.Height, err)
		return false
	}
	if err := c.cfg.Detector.Initialize(scaled.Width, scaled.Height, scaled.Cx, scaled.Cy, scaled.Fx, scaled.Fy); err != nil {
		opsf("rescale detector initialise: %v", err)
		return false
	}
	c.surface.Resize(scaled.Resolution())
	c.scaled = scaled
	c.lastRes = res
	diagf("stream resolution changed to %dx%d, recalibrated", res.Width, res.Height)
	return true
}

// sinkPoses forwards the frame's applied poses to the optional
// persistence and monitoring sinks. Sink failures never fail a tick.
func (c *Coordinator) sinkPoses() {
	haveSink := !isNilInterface(c.cfg.Observations)
	haveRecorder := !isNilInterface(c.cfg.Recorder)
	if !haveSink && !haveRecorder {
		return
	}

	emit := func(id int, t marker.Target) {
		if haveRecorder {
			c.cfg.Recorder.Record(id, t.Pose())
		}
		if haveSink {
			if err := c.cfg.Observations.RecordPose(id, t.Name(), t.Pose()); err != nil {
				opsf("record pose for %s: %v", t.Name(), err)
			}
		}
	}

	if c.cfg.Mode == ModeBoard {
		if c.cfg.BoardTarget != nil {
			emit(BoardMarkerID, c.cfg.BoardTarget)
		}
		return
	}
	c.registry.Each(emit)
}

// Phase returns the current sequencer phase.
func (c *Coordinator) Phase() Phase {
	return c.phase
}

// Visibility returns the active display mode, or the empty string before
// activation.
func (c *Coordinator) Visibility() Visibility {
	if c.vis == nil {
		return ""
	}
	return c.vis.State()
}

// Scaled returns the active scaled calibration. Zero before calibration.
func (c *Coordinator) Scaled() marker.ScaledIntrinsics {
	return c.scaled
}

// Surface returns the detector result surface, nil before calibration.
func (c *Coordinator) Surface() *marker.ResultSurface {
	return c.surface
}

// Registry exposes the marker registry for inspection.
func (c *Coordinator) Registry() *marker.Registry {
	return c.registry
}

// Anchor exposes the camera anchor frame.
func (c *Coordinator) Anchor() *marker.Anchor {
	return c.anchor
}

// Stats returns a snapshot of the activity counters.
func (c *Coordinator) Stats() Stats {
	return c.stats
}
