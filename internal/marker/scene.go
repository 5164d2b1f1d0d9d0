package marker

// Target is an opaque ownership handle to a scene object driven by the
// coordinator. The coordinator assumes nothing about the underlying object
// model beyond pose assignment and the ability to toggle drawable parts.
type Target interface {
	// Name identifies the target for logging and persistence.
	Name() string

	// SetPose places the target. Called by the pose estimator; targets
	// whose marker was not resolved this frame are left untouched.
	SetPose(Pose)

	// Pose returns the last applied pose.
	Pose() Pose

	// SetRenderEnabled toggles every drawable part of the target,
	// recursing into sub-parts. All parts end up with the same flag.
	SetRenderEnabled(enabled bool)

	// RenderEnabled reports whether the target's own drawable part is
	// currently enabled.
	RenderEnabled() bool
}

// Node is a composite scene object: an optional drawable part plus any
// number of child nodes. It is the reference Target implementation used by
// the dev-mode wiring and the tests; a real renderer integration supplies
// its own Target.
type Node struct {
	name string
	pose Pose

	// hasRenderer is false for pure grouping nodes; such nodes still
	// propagate visibility to their children.
	hasRenderer   bool
	renderEnabled bool

	children []*Node
}

// NewNode creates a node with a drawable part, initially hidden.
func NewNode(name string) *Node {
	return &Node{name: name, pose: IdentityPose(), hasRenderer: true}
}

// NewGroupNode creates a node without a drawable part of its own.
func NewGroupNode(name string) *Node {
	return &Node{name: name, pose: IdentityPose()}
}

// AddChild attaches a child node and returns the parent for chaining.
func (n *Node) AddChild(child *Node) *Node {
	n.children = append(n.children, child)
	return n
}

// Name returns the node's identifier.
func (n *Node) Name() string { return n.name }

// SetPose places the node. Child nodes are positioned relative to their
// parent by the renderer, so only the root pose is stored here.
func (n *Node) SetPose(p Pose) { n.pose = p }

// Pose returns the last applied pose.
func (n *Node) Pose() Pose { return n.pose }

// SetRenderEnabled sets the enabled flag on this node's drawable part and
// every descendant's, depth first. From the caller's perspective the whole
// subtree flips atomically: nothing observes a partially applied state
// between ticks.
func (n *Node) SetRenderEnabled(enabled bool) {
	if n.hasRenderer {
		n.renderEnabled = enabled
	}
	for _, c := range n.children {
		c.SetRenderEnabled(enabled)
	}
}

// RenderEnabled reports the node's own drawable flag. Grouping nodes
// report false.
func (n *Node) RenderEnabled() bool { return n.renderEnabled }

// AllRenderersEnabled reports whether every drawable part in the subtree is
// enabled. A subtree with no drawable parts reports true.
func (n *Node) AllRenderersEnabled() bool {
	if n.hasRenderer && !n.renderEnabled {
		return false
	}
	for _, c := range n.children {
		if !c.AllRenderersEnabled() {
			return false
		}
	}
	return true
}

// AnyRendererEnabled reports whether any drawable part in the subtree is
// enabled.
func (n *Node) AnyRendererEnabled() bool {
	if n.hasRenderer && n.renderEnabled {
		return true
	}
	for _, c := range n.children {
		if c.AnyRendererEnabled() {
			return true
		}
	}
	return false
}
