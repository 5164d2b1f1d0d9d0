package marker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestNodeVisibilityRecursesIntoChildren(t *testing.T) {
	t.Parallel()

	root := NewNode("board")
	root.AddChild(NewNode("frame")).AddChild(NewNode("label"))
	nested := NewNode("arm")
	nested.AddChild(NewNode("hand"))
	root.AddChild(nested)

	assert.False(t, root.AnyRendererEnabled())

	root.SetRenderEnabled(true)
	assert.True(t, root.AllRenderersEnabled())

	root.SetRenderEnabled(false)
	assert.False(t, root.AnyRendererEnabled())
}

func TestGroupNodeHasNoDrawablePart(t *testing.T) {
	t.Parallel()

	g := NewGroupNode("group")
	g.AddChild(NewNode("child"))

	g.SetRenderEnabled(true)
	assert.False(t, g.RenderEnabled())
	assert.True(t, g.AllRenderersEnabled())
}

func TestNodePoseRetained(t *testing.T) {
	t.Parallel()

	n := NewNode("cube")
	p := Pose{Position: r3.Vec{X: 1, Y: 2, Z: 3}, Orientation: IdentityPose().Orientation}
	n.SetPose(p)
	assert.Equal(t, p, n.Pose())
}
