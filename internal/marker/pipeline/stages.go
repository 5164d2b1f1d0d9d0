package pipeline

import (
	"image"
	"reflect"

	"github.com/TakashiYoshinaga/QuestArUcoMarkerTracking/internal/marker"
)

// Camera is the passthrough camera subsystem the coordinator polls. The
// driver itself lives outside this module; implementations must be
// non-blocking.
type Camera interface {
	// IsStreaming reports whether frames are currently being delivered.
	IsStreaming() bool

	// CurrentImage returns the latest delivered frame.
	CurrentImage() image.Image

	// CurrentResolution returns the resolution of the active stream,
	// which may differ from the calibration reference resolution.
	CurrentResolution() marker.Resolution

	// Intrinsics returns the sensor calibration snapshot.
	Intrinsics() marker.Intrinsics

	// CurrentPose returns the camera's live pose.
	CurrentPose() marker.Pose
}

// Detector is the opaque detect/estimate capability (corner detection,
// homography/PnP solving). It positions resolved targets itself; the
// coordinator only sequences the calls. Targets whose marker is not seen
// in a frame must be left at their last applied pose.
type Detector interface {
	// IsReady reports whether the detector can process a frame. Not-ready
	// is an expected transient condition, retried next tick.
	IsReady() bool

	// Initialize passes the scaled calibration to the detector. Called
	// once at startup and again after a stream resolution change.
	Initialize(width, height int, cx, cy, fx, fy float64) error

	// DownsampleFactor is the divisor the detector applies to the scaled
	// resolution when writing its annotated result surface.
	DownsampleFactor() int

	// Detect runs marker detection on the input frame. The annotated
	// output written to surface is the detector's responsibility.
	Detect(input image.Image, surface *marker.ResultSurface)

	// EstimatePoses resolves every detected marker against the registry
	// and places the bound targets relative to the anchor.
	EstimatePoses(reg *marker.Registry, anchor *marker.Anchor)

	// EstimateBoardPose places the single designated board target
	// relative to the anchor (fixed-board variant).
	EstimateBoardPose(target marker.Target, anchor *marker.Anchor)
}

// Button identifies a discrete input control.
type Button string

// ButtonA is the default visibility toggle control.
const ButtonA Button = "a"

// InputSource delivers discrete input edges, polled once per tick.
type InputSource interface {
	// EdgeDown reports a press-down edge for the button since the last
	// poll. Held buttons report false.
	EdgeDown(b Button) bool
}

// ObservationSink persists per-frame marker poses. Optional; failures are
// ops-logged and never fail a tick.
type ObservationSink interface {
	RecordPose(markerID int, target string, pose marker.Pose) error
}

// PoseRecorder accumulates applied poses for post-session visualisation.
// Optional.
type PoseRecorder interface {
	Record(markerID int, pose marker.Pose)
}

// isNilInterface reports whether an interface value is nil or wraps a nil
// pointer, which an == nil check misses.
func isNilInterface(i interface{}) bool {
	if i == nil {
		return true
	}
	v := reflect.ValueOf(i)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return v.IsNil()
	}
	return false
}
