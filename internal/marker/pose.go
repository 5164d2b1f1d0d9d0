package marker

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// OrientationTolerance is the allowed deviation of a pose orientation's
// quaternion norm from unity before the pose is considered degenerate.
const OrientationTolerance = 1e-6

// Pose is a rigid placement: a position and a unit-quaternion orientation.
// Marker poses produced by the estimator are expressed relative to the
// camera anchor, never to a fixed world origin.
type Pose struct {
	Position    r3.Vec
	Orientation r3.Rotation
}

// IdentityPose returns the origin pose with no rotation.
func IdentityPose() Pose {
	return Pose{Orientation: r3.Rotation(quat.Number{Real: 1})}
}

// Valid reports whether the orientation is a unit quaternion within
// OrientationTolerance. A zero quaternion (uninitialised pose) is invalid.
func (p Pose) Valid() bool {
	return math.Abs(quat.Abs(quat.Number(p.Orientation))-1) <= OrientationTolerance
}

// Normalize returns the pose with its orientation scaled back to a unit
// quaternion. Poses accumulated through repeated composition drift slowly;
// callers that compose every frame should renormalise.
func (p Pose) Normalize() Pose {
	q := quat.Number(p.Orientation)
	n := quat.Abs(q)
	if n == 0 {
		return Pose{Position: p.Position, Orientation: r3.Rotation(quat.Number{Real: 1})}
	}
	return Pose{
		Position:    p.Position,
		Orientation: r3.Rotation(quat.Scale(1/n, q)),
	}
}

// Compose applies local on top of p: the result places local's frame inside
// p's frame. This is how an anchor-relative marker pose becomes a scene
// placement: scene = anchor.Compose(markerLocal).
func (p Pose) Compose(local Pose) Pose {
	return Pose{
		Position:    r3.Add(p.Position, p.Orientation.Rotate(local.Position)),
		Orientation: r3.Rotation(quat.Mul(quat.Number(p.Orientation), quat.Number(local.Orientation))),
	}.Normalize()
}

// Anchor is a freestanding coordinate frame created at startup and owned
// exclusively by the coordinator. It is overwritten every frame from the
// live camera pose before any marker pose is applied, so marker placements
// are always relative to the current frame's camera.
type Anchor struct {
	pose Pose
}

// NewAnchor creates an anchor at the identity pose.
func NewAnchor() *Anchor {
	return &Anchor{pose: IdentityPose()}
}

// Set overwrites the anchor's position and orientation.
func (a *Anchor) Set(p Pose) {
	a.pose = p
}

// Pose returns the anchor's current pose.
func (a *Anchor) Pose() Pose {
	return a.pose
}

// Resolve expresses a pose given relative to the anchor as an absolute
// scene placement.
func (a *Anchor) Resolve(local Pose) Pose {
	return a.pose.Compose(local)
}
