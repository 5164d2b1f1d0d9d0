package sim

import (
	"image"

	"github.com/TakashiYoshinaga/QuestArUcoMarkerTracking/internal/marker"
)

// Detection is one scripted marker sighting: the marker's pose relative to
// the camera anchor.
type Detection struct {
	MarkerID int
	Pose     marker.Pose
}

// Detector replays a per-frame detection script. Frame N's detections are
// Script[N]; frames beyond the script see nothing. Like a real detector,
// it leaves targets whose marker is absent in a frame at their last
// applied pose.
type Detector struct {
	// Script holds the detections for each frame, indexed by the order
	// Detect is called.
	Script [][]Detection

	// Factor is the downsample factor reported to the coordinator.
	// Zero defaults to 2.
	Factor int

	initialized bool
	frame       int

	// InitCalls records every Initialize invocation for assertions.
	InitCalls []marker.ScaledIntrinsics
}

// IsReady reports whether Initialize has been called.
func (d *Detector) IsReady() bool {
	return d.initialized
}

// Initialize records the calibration handoff and readies the detector.
func (d *Detector) Initialize(width, height int, cx, cy, fx, fy float64) error {
	d.InitCalls = append(d.InitCalls, marker.ScaledIntrinsics{
		Fx: fx, Fy: fy, Cx: cx, Cy: cy, Width: width, Height: height,
	})
	d.initialized = true
	return nil
}

// DownsampleFactor returns the configured factor, defaulting to 2.
func (d *Detector) DownsampleFactor() int {
	if d.Factor == 0 {
		return 2
	}
	return d.Factor
}

// Detect advances the script by one frame. The surface pixels are left
// untouched; populating them is a real detector's concern, not part of the
// contract the coordinator depends on.
func (d *Detector) Detect(_ image.Image, _ *marker.ResultSurface) {
	d.frame++
}

// current returns the detections for the frame most recently passed to
// Detect.
func (d *Detector) current() []Detection {
	idx := d.frame - 1
	if idx < 0 || idx >= len(d.Script) {
		return nil
	}
	return d.Script[idx]
}

// EstimatePoses resolves the current frame's detections against the
// registry and places each bound target relative to the anchor. Unknown
// marker IDs are ignored; undetected targets are not moved.
func (d *Detector) EstimatePoses(reg *marker.Registry, anchor *marker.Anchor) {
	for _, det := range d.current() {
		target, ok := reg.Lookup(det.MarkerID)
		if !ok {
			continue
		}
		target.SetPose(anchor.Resolve(det.Pose))
	}
}

// EstimateBoardPose places the board target from the first detection of
// the current frame, if any.
func (d *Detector) EstimateBoardPose(target marker.Target, anchor *marker.Anchor) {
	dets := d.current()
	if len(dets) == 0 || target == nil {
		return
	}
	target.SetPose(anchor.Resolve(dets[0].Pose))
}
