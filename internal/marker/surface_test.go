package marker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultSurfaceSizing(t *testing.T) {
	t.Parallel()

	s, err := NewResultSurface(Resolution{Width: 1280, Height: 960}, 2)
	require.NoError(t, err)

	w, h := s.Size()
	assert.Equal(t, 640, w)
	assert.Equal(t, 480, h)
	assert.False(t, s.Enabled())
}

func TestResultSurfaceRejectsBadFactor(t *testing.T) {
	t.Parallel()

	_, err := NewResultSurface(Resolution{Width: 640, Height: 480}, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadDownsample)

	_, err = NewResultSurface(Resolution{Width: 640, Height: 480}, -1)
	assert.ErrorIs(t, err, ErrBadDownsample)
}

func TestResultSurfaceResizePreservesEnabled(t *testing.T) {
	t.Parallel()

	s, err := NewResultSurface(Resolution{Width: 640, Height: 480}, 1)
	require.NoError(t, err)

	s.SetEnabled(true)
	s.Resize(Resolution{Width: 1920, Height: 1080})

	w, h := s.Size()
	assert.Equal(t, 1920, w)
	assert.Equal(t, 1080, h)
	assert.True(t, s.Enabled())
}
