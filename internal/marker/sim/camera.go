package sim

import (
	"image"

	"github.com/TakashiYoshinaga/QuestArUcoMarkerTracking/internal/marker"
)

// Camera simulates the passthrough camera subsystem. It reports
// not-streaming for WarmupPolls calls to IsStreaming, then delivers a
// fixed-size frame and a scriptable pose.
type Camera struct {
	intrinsics marker.Intrinsics
	resolution marker.Resolution
	frame      *image.Gray
	pose       marker.Pose

	// WarmupPolls is the number of IsStreaming calls answered false
	// before the stream comes up.
	WarmupPolls int

	// Dropout simulates a transient stream stall: while set, IsStreaming
	// reports false even after warm-up.
	Dropout bool

	polls int
}

// NewCamera creates a simulated camera delivering frames at the given
// runtime resolution with the given calibration.
func NewCamera(intr marker.Intrinsics, res marker.Resolution) *Camera {
	return &Camera{
		intrinsics: intr,
		resolution: res,
		frame:      image.NewGray(image.Rect(0, 0, res.Width, res.Height)),
		pose:       marker.IdentityPose(),
	}
}

// IsStreaming becomes true once WarmupPolls calls have been answered.
func (c *Camera) IsStreaming() bool {
	if c.polls < c.WarmupPolls {
		c.polls++
		return false
	}
	return !c.Dropout
}

// CurrentImage returns the simulated frame buffer.
func (c *Camera) CurrentImage() image.Image {
	return c.frame
}

// CurrentResolution returns the active stream resolution.
func (c *Camera) CurrentResolution() marker.Resolution {
	return c.resolution
}

// SetResolution switches the stream resolution mid-session, reallocating
// the frame buffer, to exercise the coordinator's rescale path.
func (c *Camera) SetResolution(res marker.Resolution) {
	c.resolution = res
	c.frame = image.NewGray(image.Rect(0, 0, res.Width, res.Height))
}

// Intrinsics returns the calibration snapshot.
func (c *Camera) Intrinsics() marker.Intrinsics {
	return c.intrinsics
}

// CurrentPose returns the scripted camera pose.
func (c *Camera) CurrentPose() marker.Pose {
	return c.pose
}

// SetPose scripts the camera pose for subsequent frames.
func (c *Camera) SetPose(p marker.Pose) {
	c.pose = p
}
