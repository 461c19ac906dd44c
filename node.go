package animgraph

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// Node is the fundamental element of the playback tree. A single flat struct
// is used for all node kinds to avoid interface dispatch on the evaluate
// path; Kind tells which variant fields are meaningful.
//
// Nodes are owned by their Graph and recycled through its arena. A *Node
// must not be retained across frames once its state may be released; keep a
// Ref and resolve it with Graph.Lookup instead.
type Node struct {
	// Identity
	Name  string
	kind  NodeKind
	graph *Graph
	ref   Ref

	// Hierarchy
	parent   *Node
	children []*Node

	// Mixing
	weight float64
	speed  float64
	flags  dirtyFlags

	// Clip fields (NodeKindClip)
	clip *Clip
	time float64

	// Per-frame playback, written during Evaluate
	realSpeed    float64
	syncSpeed    float64
	syncActive   bool
	appliedSpeed float64

	// Blend fields (NodeKindBlend1D, NodeKindBlend2D)
	blend1D *Blend1D
	blend2D *Blend2D
	param   float64
	param2D r2.Vec

	// Sync group membership (non-owning)
	isSync    bool
	syncOwner *Node
	syncNodes []*Node

	// Layer fields (NodeKindLayer)
	layer *layerState

	// End-of-playback callback (nil by default)
	onEnd func(*Node)

	// Internal
	old      bool
	released bool
}

// nodeDefaults sets the field values shared by every freshly allocated or
// recycled node. Slice capacity is kept for reuse.
func nodeDefaults(n *Node, kind NodeKind, name string) {
	children := n.children[:0]
	syncNodes := n.syncNodes[:0]
	layer := n.layer
	g := n.graph
	ref := n.ref
	*n = Node{
		Name:      name,
		kind:      kind,
		graph:     g,
		ref:       ref,
		children:  children,
		syncNodes: syncNodes,
		weight:    1,
		speed:     1,
		realSpeed: 1,
	}
	if kind == NodeKindLayer {
		n.layer = layer
	}
}

// Kind returns the node variant.
func (n *Node) Kind() NodeKind {
	return n.kind
}

// Graph returns the owning graph.
func (n *Node) Graph() *Graph {
	return n.graph
}

// Ref returns a generation-checked reference to this node.
func (n *Node) Ref() Ref {
	return n.ref
}

// IsValid reports whether the node is live in a live graph.
func (n *Node) IsValid() bool {
	return !n.released && n.graph != nil && n.graph.valid
}

// IsOld reports whether the node is a retained zero-weight state waiting
// for reuse or release.
func (n *Node) IsOld() bool {
	return n.old
}

// IsPlaying reports whether a state contributes to the pose: it is live,
// not old, and its effective weight is above 0. A paused graph does not
// change the answer. Always false for structural kinds.
func (n *Node) IsPlaying() bool {
	if !n.kind.IsState() || n.released || n.parent == nil || n.frozen() {
		return false
	}
	return n.EffectiveWeight() > 0
}

// --- Tree access ---

// Parent returns the parent node, or nil for the root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at the given index.
func (n *Node) ChildAt(index int) *Node {
	return n.children[index]
}

// addChild appends child to this node's children.
// Panics if child is nil or already has a parent.
func (n *Node) addChild(child *Node) {
	if child == nil {
		panic("animgraph: cannot add nil child")
	}
	if child.parent != nil {
		panic("animgraph: child already has a parent")
	}
	if n.graph != nil && n.graph.debug {
		debugCheckReleased(n, "addChild (parent)")
		debugCheckReleased(child, "addChild (child)")
	}
	child.parent = n
	n.children = append(n.children, child)
	if n.graph != nil && n.graph.debug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
}

// removeChildByPtr removes child from n.children without clearing child.parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

// --- Weight and speed ---

// Weight returns the node's local weight. Children of a blend node resolve
// stale blend weights first.
func (n *Node) Weight() float64 {
	if p := n.parent; p != nil && p.flags&flagBlendParam != 0 {
		p.recalcWeights()
	}
	if n.kind == NodeKindLayer && n.layer.index == 0 {
		return 1
	}
	return n.weight
}

// SetWeight sets the local weight, clamped to [0, 1]. The base layer's
// weight is fixed at 1. Weights of blend children are overwritten whenever
// the blend parameter changes.
func (n *Node) SetWeight(w float64) {
	if !n.usable("SetWeight") {
		return
	}
	if n.kind == NodeKindLayer {
		if n.layer.index == 0 {
			return
		}
		n.layer.weightFade = nil
	}
	n.weight = clamp01(w)
}

// EffectiveWeight returns the product of local weights from this node up to
// its layer, including the layer weight.
func (n *Node) EffectiveWeight() float64 {
	w := 1.0
	for p := n; p != nil; p = p.parent {
		if p.kind == NodeKindLayers {
			break
		}
		w *= p.Weight()
	}
	return w
}

// Speed returns the node's playback speed multiplier.
func (n *Node) Speed() float64 {
	return n.speed
}

// SetSpeed sets the playback speed multiplier. Negative speeds play in
// reverse. Sync group members have their speed overridden each frame.
func (n *Node) SetSpeed(s float64) {
	if !n.usable("SetSpeed") {
		return
	}
	n.speed = s
}

// AppliedSpeed returns the speed the node actually advanced with during the
// last evaluation, including parent multipliers and sync correction.
func (n *Node) AppliedSpeed() float64 {
	return n.appliedSpeed
}

// --- Release ---

// release detaches the node from its parent, severs sync-group and callback
// references, and returns the subtree to the graph arena. Releasing twice
// is a no-op.
func (n *Node) release() {
	if n.released {
		return
	}
	if n.parent != nil {
		n.parent.removeChildByPtr(n)
		if l := n.parent.layer; l != nil {
			l.forget(n)
		}
	}
	n.releaseSubtree()
}

func (n *Node) releaseSubtree() {
	if n.syncOwner != nil {
		n.syncOwner.removeSyncMember(n)
	}
	for _, m := range n.syncNodes {
		m.syncOwner = nil
	}
	clear(n.syncNodes)
	n.syncNodes = n.syncNodes[:0]
	for _, child := range n.children {
		child.parent = nil
		child.releaseSubtree()
	}
	clear(n.children)
	n.children = n.children[:0]
	n.parent = nil
	n.onEnd = nil
	n.clip = nil
	n.blend1D = nil
	n.blend2D = nil
	n.old = false
	n.released = true
	if n.graph != nil {
		n.graph.arena.release(n)
	}
}

// usable reports whether a mutation may proceed. In debug mode, mutating a
// released node panics; in release mode it is a silent no-op.
func (n *Node) usable(op string) bool {
	if !n.released {
		return true
	}
	if n.graph != nil && n.graph.debug {
		debugCheckReleased(n, op)
	}
	return false
}
