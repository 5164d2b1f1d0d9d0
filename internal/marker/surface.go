package marker

import (
	"errors"
	"fmt"
	"image"
)

// ErrBadDownsample indicates a detector reported a non-positive downsample
// factor, which would make the result surface degenerate.
var ErrBadDownsample = errors.New("detector downsample factor must be positive")

// ResultSurface is the off-screen buffer the detector writes its annotated
// output into. It is sized to the scaled camera resolution divided by the
// detector's downsample factor and recreated whenever the scaled resolution
// changes. Populating the pixels is the detector's responsibility; the
// coordinator only owns sizing and the debug-display enabled flag.
type ResultSurface struct {
	img     *image.RGBA
	factor  int
	enabled bool
}

// NewResultSurface allocates a surface for the given scaled resolution and
// downsample factor. The surface starts disabled (hidden).
func NewResultSurface(scaled Resolution, factor int) (*ResultSurface, error) {
	if factor <= 0 {
		return nil, fmt.Errorf("result surface: %w (got %d)", ErrBadDownsample, factor)
	}
	s := &ResultSurface{factor: factor}
	s.allocate(scaled)
	return s, nil
}

func (s *ResultSurface) allocate(scaled Resolution) {
	w := scaled.Width / s.factor
	h := scaled.Height / s.factor
	s.img = image.NewRGBA(image.Rect(0, 0, w, h))
}

// Resize recreates the pixel buffer for a new scaled resolution. Prior
// contents are discarded; the enabled flag is preserved.
func (s *ResultSurface) Resize(scaled Resolution) {
	s.allocate(scaled)
}

// Image exposes the pixel buffer for the detector to write into.
func (s *ResultSurface) Image() *image.RGBA {
	return s.img
}

// Size returns the surface dimensions in pixels.
func (s *ResultSurface) Size() (w, h int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// SetEnabled toggles whether the surface is shown as a debug overlay.
func (s *ResultSurface) SetEnabled(enabled bool) {
	s.enabled = enabled
}

// Enabled reports whether the debug overlay is currently shown.
func (s *ResultSurface) Enabled() bool {
	return s.enabled
}
