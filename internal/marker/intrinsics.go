package marker

import (
	"errors"
	"fmt"
)

// ErrZeroReferenceResolution indicates an intrinsics snapshot whose reference
// resolution has a zero dimension. Scaling would divide by zero, so this is a
// fatal configuration error for the session.
var ErrZeroReferenceResolution = errors.New("intrinsics reference resolution has a zero dimension")

// Intrinsics is an immutable snapshot of a camera's intrinsic calibration,
// captured once per session from the camera subsystem. Focal length and
// principal point are expressed in pixels at the reference resolution.
type Intrinsics struct {
	Fx, Fy float64 // focal length (px)
	Cx, Cy float64 // principal point (px)

	// Reference resolution the calibration was performed at.
	RefWidth  int
	RefHeight int
}

// Resolution is the pixel resolution reported by the active camera stream.
// It may differ from the calibration's reference resolution.
type Resolution struct {
	Width  int
	Height int
}

// ScaledIntrinsics is an intrinsics snapshot normalised to the resolution
// actually being delivered at runtime.
type ScaledIntrinsics struct {
	Fx, Fy float64
	Cx, Cy float64

	Width  int
	Height int
}

// Valid reports whether the snapshot satisfies the basic calibration
// invariants (positive focal length and reference dimensions).
func (in Intrinsics) Valid() bool {
	return in.Fx > 0 && in.Fy > 0 && in.RefWidth > 0 && in.RefHeight > 0
}

// ScaleIntrinsics normalises a calibration snapshot to the runtime stream
// resolution. The scale factor is computed independently per axis
// (runtimeW/refW, runtimeH/refH) and applied to both the focal length and
// the principal point, which keeps reprojection aspect-correct under
// non-uniform resolution changes such as letterboxing.
//
// When the runtime resolution equals the reference resolution the result is
// identical to the input (identity case).
func ScaleIntrinsics(in Intrinsics, rt Resolution) (ScaledIntrinsics, error) {
	if in.RefWidth == 0 || in.RefHeight == 0 {
		return ScaledIntrinsics{}, fmt.Errorf("scale intrinsics: %w (reference %dx%d)",
			ErrZeroReferenceResolution, in.RefWidth, in.RefHeight)
	}

	sx := float64(rt.Width) / float64(in.RefWidth)
	sy := float64(rt.Height) / float64(in.RefHeight)

	return ScaledIntrinsics{
		Fx:     in.Fx * sx,
		Fy:     in.Fy * sy,
		Cx:     in.Cx * sx,
		Cy:     in.Cy * sy,
		Width:  rt.Width,
		Height: rt.Height,
	}, nil
}

// Resolution returns the runtime resolution the scaled snapshot was
// normalised to.
func (s ScaledIntrinsics) Resolution() Resolution {
	return Resolution{Width: s.Width, Height: s.Height}
}
