package marker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScaleIntrinsicsIdentity(t *testing.T) {
	t.Parallel()

	in := Intrinsics{Fx: 600, Fy: 600, Cx: 320, Cy: 240, RefWidth: 640, RefHeight: 480}

	scaled, err := ScaleIntrinsics(in, Resolution{Width: 640, Height: 480})
	require.NoError(t, err)

	assert.Equal(t, in.Fx, scaled.Fx)
	assert.Equal(t, in.Fy, scaled.Fy)
	assert.Equal(t, in.Cx, scaled.Cx)
	assert.Equal(t, in.Cy, scaled.Cy)
	assert.Equal(t, 640, scaled.Width)
	assert.Equal(t, 480, scaled.Height)
}

func TestScaleIntrinsicsDoubledResolution(t *testing.T) {
	t.Parallel()

	in := Intrinsics{Fx: 600, Fy: 600, Cx: 320, Cy: 240, RefWidth: 640, RefHeight: 480}

	scaled, err := ScaleIntrinsics(in, Resolution{Width: 1280, Height: 960})
	require.NoError(t, err)

	assert.Equal(t, 1200.0, scaled.Fx)
	assert.Equal(t, 1200.0, scaled.Fy)
	assert.Equal(t, 640.0, scaled.Cx)
	assert.Equal(t, 480.0, scaled.Cy)
	assert.Equal(t, Resolution{Width: 1280, Height: 960}, scaled.Resolution())
}

func TestScaleIntrinsicsPerAxis(t *testing.T) {
	t.Parallel()

	// Letterboxed stream: width doubles, height stays. Each axis must be
	// scaled independently to keep reprojection aspect-correct.
	in := Intrinsics{Fx: 500, Fy: 520, Cx: 310, Cy: 245, RefWidth: 640, RefHeight: 480}

	scaled, err := ScaleIntrinsics(in, Resolution{Width: 1280, Height: 480})
	require.NoError(t, err)

	assert.Equal(t, 1000.0, scaled.Fx)
	assert.Equal(t, 520.0, scaled.Fy)
	assert.Equal(t, 620.0, scaled.Cx)
	assert.Equal(t, 245.0, scaled.Cy)
}

func TestScaleIntrinsicsRoundTrip(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		rt   Resolution
	}{
		{"upscale", Resolution{Width: 1920, Height: 1080}},
		{"downscale", Resolution{Width: 320, Height: 180}},
		{"non-uniform", Resolution{Width: 960, Height: 1080}},
	}

	in := Intrinsics{Fx: 611.5, Fy: 613.2, Cx: 322.7, Cy: 238.1, RefWidth: 640, RefHeight: 360}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			up, err := ScaleIntrinsics(in, tc.rt)
			require.NoError(t, err)

			// Scale back down by treating the runtime snapshot as a new
			// reference and asking for the original resolution.
			back, err := ScaleIntrinsics(Intrinsics{
				Fx: up.Fx, Fy: up.Fy, Cx: up.Cx, Cy: up.Cy,
				RefWidth: up.Width, RefHeight: up.Height,
			}, Resolution{Width: in.RefWidth, Height: in.RefHeight})
			require.NoError(t, err)

			assert.InDelta(t, in.Fx, back.Fx, 1e-9)
			assert.InDelta(t, in.Fy, back.Fy, 1e-9)
			assert.InDelta(t, in.Cx, back.Cx, 1e-9)
			assert.InDelta(t, in.Cy, back.Cy, 1e-9)
		})
	}
}

func TestScaleIntrinsicsZeroReference(t *testing.T) {
	t.Parallel()

	_, err := ScaleIntrinsics(Intrinsics{Fx: 600, Fy: 600, RefWidth: 0, RefHeight: 480},
		Resolution{Width: 640, Height: 480})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrZeroReferenceResolution)

	_, err = ScaleIntrinsics(Intrinsics{Fx: 600, Fy: 600, RefWidth: 640, RefHeight: 0},
		Resolution{Width: 640, Height: 480})
	assert.ErrorIs(t, err, ErrZeroReferenceResolution)
}

func TestIntrinsicsValid(t *testing.T) {
	t.Parallel()

	assert.True(t, Intrinsics{Fx: 600, Fy: 600, RefWidth: 640, RefHeight: 480}.Valid())
	assert.False(t, Intrinsics{Fx: 0, Fy: 600, RefWidth: 640, RefHeight: 480}.Valid())
	assert.False(t, Intrinsics{Fx: 600, Fy: 600, RefWidth: 640, RefHeight: 0}.Valid())
}
