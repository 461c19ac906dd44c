package animgraph

import (
	"strconv"
	"time"
)

const (
	defaultMaxOldStates = 8
	defaultFadeDuration = 0.25
)

// GraphConfig holds optional configuration for NewGraph. The zero value is
// usable.
type GraphConfig struct {
	// Name labels the graph in debug output and metrics.
	Name string
	// MaxOldStates is how many zero-weight states each layer keeps for reuse
	// before releasing the oldest. 0 means the default (8); a negative value
	// releases states as soon as they reach zero weight.
	MaxOldStates int
	// DefaultFadeDuration is the crossfade time in seconds used by FadeTo.
	// 0 means the default (0.25s); a negative value makes FadeTo behave
	// like Play.
	DefaultFadeDuration float64
	// Debug enables debug checks and per-frame stats on stderr.
	Debug bool
}

// Graph is the top-level object that owns the node tree, the node arena and
// the per-frame clock. It is not safe for concurrent use: every call must
// come from the goroutine driving Evaluate.
type Graph struct {
	name   string
	arena  arena
	root   *Node
	layers *Node
	post   *Node

	maxOld  int
	fade    float64
	debug   bool
	valid   bool
	playing bool

	dt    float64
	clock float64

	sink       EventSink
	port       OutputPort
	preUpdate  func(g *Graph, dt float64)
	postUpdate func(g *Graph, dt float64)

	pending []pendingCall
	samples []Sample
	stats   debugStats
}

// NewGraph creates a playing graph with a root, a layers container holding
// the base layer, and a post-processor.
func NewGraph(cfg GraphConfig) *Graph {
	g := &Graph{
		name:    cfg.Name,
		maxOld:  cfg.MaxOldStates,
		fade:    cfg.DefaultFadeDuration,
		debug:   cfg.Debug,
		valid:   true,
		playing: true,
	}
	if g.maxOld == 0 {
		g.maxOld = defaultMaxOldStates
	}
	if g.fade == 0 {
		g.fade = defaultFadeDuration
	}
	g.root = g.arena.alloc(g, NodeKindRoot, "root")
	g.layers = g.arena.alloc(g, NodeKindLayers, "layers")
	g.post = g.arena.alloc(g, NodeKindPostProcessor, "postprocessor")
	g.root.addChild(g.layers)
	g.root.addChild(g.post)
	g.Layer(0)
	return g
}

// Name returns the graph name.
func (g *Graph) Name() string {
	return g.name
}

// Root returns the root node.
func (g *Graph) Root() *Node {
	return g.root
}

// Layers returns the layers container node.
func (g *Graph) Layers() *Node {
	return g.layers
}

// PostProcessor returns the post-processor node.
func (g *Graph) PostProcessor() *Node {
	return g.post
}

// Layer returns the layer at index, creating it and every missing layer
// below it. Layer 0 is the base layer. Returns nil for a negative index or
// a destroyed graph.
func (g *Graph) Layer(index int) *Node {
	if index < 0 || !g.valid {
		return nil
	}
	for len(g.layers.children) <= index {
		i := len(g.layers.children)
		l := g.arena.alloc(g, NodeKindLayer, layerName(i))
		if l.layer == nil {
			l.layer = &layerState{}
		}
		*l.layer = layerState{index: i}
		g.layers.addChild(l)
	}
	return g.layers.children[index]
}

// NumLayers returns the number of layers, base layer included.
func (g *Graph) NumLayers() int {
	if !g.valid {
		return 0
	}
	return len(g.layers.children)
}

// Play plays content on the base layer. See Node.Play.
func (g *Graph) Play(c Content) *Node {
	if !g.valid {
		return nil
	}
	return g.Layer(0).Play(c)
}

// CrossFade crossfades content on the base layer. See Node.CrossFade.
func (g *Graph) CrossFade(c Content, duration float64) *Node {
	if !g.valid {
		return nil
	}
	return g.Layer(0).CrossFade(c, duration)
}

// FadeTo crossfades content on the base layer over the configured
// DefaultFadeDuration. See Node.FadeTo.
func (g *Graph) FadeTo(c Content) *Node {
	if !g.valid {
		return nil
	}
	return g.Layer(0).FadeTo(c)
}

// DefaultFadeDuration returns the crossfade time FadeTo uses.
func (g *Graph) DefaultFadeDuration() float64 {
	return g.fade
}

// Stop stops every layer and pauses the graph. States are kept for
// resumption; see Node.Stop.
func (g *Graph) Stop() {
	if !g.valid {
		return
	}
	for _, l := range g.layers.children {
		l.Stop()
	}
	g.playing = false
}

// Start resumes automatic updates after Stop or Pause.
func (g *Graph) Start() {
	if g.valid {
		g.playing = true
	}
}

// Pause halts automatic updates without touching weights.
func (g *Graph) Pause() {
	g.playing = false
}

// IsPlaying reports whether Update advances the graph.
func (g *Graph) IsPlaying() bool {
	return g.valid && g.playing
}

// IsValid reports whether the graph has not been destroyed.
func (g *Graph) IsValid() bool {
	return g.valid
}

// GetState returns the state representing content in any layer, old states
// included, or nil.
func (g *Graph) GetState(c Content) *Node {
	if !g.valid || c == nil {
		return nil
	}
	for _, l := range g.layers.children {
		for _, s := range l.children {
			if s.Content() == c {
				return s
			}
		}
	}
	return nil
}

// Lookup resolves a Ref, or returns nil when the node was released.
func (g *Graph) Lookup(r Ref) *Node {
	if !g.valid {
		return nil
	}
	return g.arena.get(r)
}

// DeltaTime returns the delta time of the last evaluation.
func (g *Graph) DeltaTime() float64 {
	return g.dt
}

// Clock returns the accumulated evaluated time.
func (g *Graph) Clock() float64 {
	return g.clock
}

// SetEventSink sets the receiver of timeline events. nil clears it.
func (g *Graph) SetEventSink(sink EventSink) {
	g.sink = sink
}

// SetOutput sets the port that receives samples after each evaluation. nil
// clears it.
func (g *Graph) SetOutput(port OutputPort) {
	g.port = port
}

// SetPreUpdate sets the hook run by the root at the start of each
// evaluation, before transitions and weights. nil clears it.
func (g *Graph) SetPreUpdate(fn func(g *Graph, dt float64)) {
	g.preUpdate = fn
}

// SetPostUpdate sets the hook run by the post-processor once the frame's
// weights, times and callbacks are final. nil clears it.
func (g *Graph) SetPostUpdate(fn func(g *Graph, dt float64)) {
	g.postUpdate = fn
}

// Destroy releases the whole tree. Destroying twice is a no-op.
func (g *Graph) Destroy() {
	if !g.valid {
		return
	}
	g.root.releaseSubtree()
	g.valid = false
	g.playing = false
	g.sink = nil
	g.port = nil
	g.preUpdate = nil
	g.postUpdate = nil
	clear(g.pending)
	g.pending = g.pending[:0]
	g.samples = nil
	g.arena.reset()
}

// newState builds a state subtree for content.
func (g *Graph) newState(c Content) *Node {
	switch c := c.(type) {
	case *Clip:
		return g.newClipNode(c)
	case *Blend1D:
		n := g.arena.alloc(g, NodeKindBlend1D, "blend1d")
		n.blend1D = c
		for _, e := range c.entries {
			child := g.newClipNode(e.Clip)
			n.addChild(child)
			if e.Sync {
				child.isSync = true
				n.syncState(child)
			}
		}
		n.flags |= flagBlendParam
		return n
	case *Blend2D:
		n := g.arena.alloc(g, NodeKindBlend2D, "blend2d")
		n.blend2D = c
		for _, e := range c.entries {
			child := g.newClipNode(e.Clip)
			n.addChild(child)
			if e.Sync {
				child.isSync = true
				n.syncState(child)
			}
		}
		n.flags |= flagBlendParam
		return n
	}
	panic("animgraph: unsupported content type")
}

func (g *Graph) newClipNode(c *Clip) *Node {
	n := g.arena.alloc(g, NodeKindClip, c.name)
	n.clip = c
	return n
}

// --- Frame evaluation ---

// Update evaluates the graph by dt seconds while it is playing.
func (g *Graph) Update(dt float64) {
	if g.IsPlaying() {
		g.Evaluate(dt)
	}
}

// Evaluate advances the graph by dt seconds regardless of IsPlaying, for
// manual stepping. Negative dt is treated as 0.
func (g *Graph) Evaluate(dt float64) {
	if !g.valid {
		return
	}
	var start time.Time
	if g.debug {
		start = time.Now()
	}
	if dt < 0 {
		if g.debug {
			debugWarn("graph %q: negative delta time %v treated as 0", g.name, dt)
		}
		dt = 0
	}
	g.dt = dt
	g.clock += dt

	if g.preUpdate != nil {
		g.preUpdate(g, dt)
	}

	for _, l := range g.layers.children {
		l.updateTransitions(dt)
	}

	g.resolve(g.root, 1)
	g.advance(g.root, dt)

	for _, l := range g.layers.children {
		l.collectOld(g.maxOld)
	}

	g.flushPending()

	if g.port != nil {
		g.samples = g.AppendSamples(g.samples[:0])
		for i := range g.samples {
			g.port.WriteSample(g.samples[i])
		}
	}

	if g.postUpdate != nil {
		g.postUpdate(g, dt)
	}

	if g.debug {
		g.stats.evaluateTime = time.Since(start)
		g.debugLog()
	}
}

// resolve walks the tree top-down, computing real speeds, recomputing stale
// blend weights and solving sync groups.
func (g *Graph) resolve(n *Node, parentSpeed float64) {
	n.realSpeed = parentSpeed * n.speed
	if n.flags&flagBlendParam != 0 {
		n.recalcWeights()
	}
	if n.flags&flagSync != 0 {
		n.solveSync(g.dt)
	}
	for _, c := range n.children {
		if c.old {
			continue
		}
		g.resolve(c, n.realSpeed)
	}
}

func layerName(i int) string {
	if i == 0 {
		return "base"
	}
	return "layer" + strconv.Itoa(i)
}
