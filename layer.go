package animgraph

// layerState is the transition machine and pool bookkeeping of one layer.
type layerState struct {
	index      int
	additive   bool
	mask       any
	target     *Node
	fades      []*weightFade
	weightFade *weightFade
	old        []*Node // oldest first
	stopped    bool    // old pool is not trimmed until the layer plays again
}

// LayerIndex returns the layer's index, or -1 for other kinds.
func (n *Node) LayerIndex() int {
	if n.kind != NodeKindLayer {
		return -1
	}
	return n.layer.index
}

// IsAdditive reports whether an overlay layer composes additively. false
// for other kinds.
func (n *Node) IsAdditive() bool {
	return n.kind == NodeKindLayer && n.layer.additive
}

// SetAdditive sets the additive flag of a layer. Returns false for other kinds.
func (n *Node) SetAdditive(additive bool) bool {
	if n.kind != NodeKindLayer || !n.usable("SetAdditive") {
		return false
	}
	n.layer.additive = additive
	return true
}

// Mask returns the layer mask, or nil for other kinds. The mask is opaque
// to the graph and handed to the compositor with every sample.
func (n *Node) Mask() any {
	if n.kind != NodeKindLayer {
		return nil
	}
	return n.layer.mask
}

// SetMask sets the layer mask. Returns false for other kinds.
func (n *Node) SetMask(mask any) bool {
	if n.kind != NodeKindLayer || !n.usable("SetMask") {
		return false
	}
	n.layer.mask = mask
	return true
}

// Target returns the state the layer last played or crossfaded to, or nil.
func (n *Node) Target() *Node {
	if n.kind != NodeKindLayer {
		return nil
	}
	return n.layer.target
}

// IsFading reports whether a layer has a state crossfade in flight.
func (n *Node) IsFading() bool {
	return n.kind == NodeKindLayer && len(n.layer.fades) > 0
}

// --- Transitions ---

// Play makes content the layer's only weighted state, immediately. An
// existing state for content is reused with its time preserved; otherwise a
// new one starts at time 0. Returns nil for non-layer kinds.
func (n *Node) Play(c Content) *Node {
	if n.kind != NodeKindLayer || c == nil || !n.usable("Play") {
		return nil
	}
	l := n.layer
	s := n.acquireState(c)
	l.fades = l.fades[:0]
	for _, child := range n.children {
		child.weight = 0
	}
	s.weight = 1
	l.target = s
	if l.index > 0 && l.fadingOut(n) {
		l.weightFade = nil
		n.weight = 1
	}
	return s
}

// CrossFade fades content in over duration seconds while every other
// weighted state of the layer fades out. A duration of 0 or less behaves
// like Play. Returns nil for non-layer kinds.
func (n *Node) CrossFade(c Content, duration float64) *Node {
	if duration <= 0 {
		return n.Play(c)
	}
	if n.kind != NodeKindLayer || c == nil || !n.usable("CrossFade") {
		return nil
	}
	l := n.layer
	s := n.acquireState(c)
	l.fades = l.fades[:0]
	for _, child := range n.children {
		if child.old {
			continue
		}
		to := 0.0
		if child == s {
			to = 1
		}
		if child.weight == to {
			continue
		}
		l.fades = append(l.fades, newWeightFade(child, to, duration))
	}
	l.target = s
	if l.index > 0 && l.fadingOut(n) {
		n.StartFade(1, duration)
	}
	return s
}

// FadeTo is CrossFade with the graph's DefaultFadeDuration.
func (n *Node) FadeTo(c Content) *Node {
	if n.kind != NodeKindLayer || n.graph == nil {
		return nil
	}
	return n.CrossFade(c, n.graph.fade)
}

// Stop sets every state weight of the layer to 0, cancels fades and clears
// the target. States become old but are not released, whatever the
// MaxOldStates limit, so Play or CrossFade can resume any of them with its
// time preserved. The limit applies again from the next Play or CrossFade.
func (n *Node) Stop() {
	if n.kind != NodeKindLayer || !n.usable("Stop") {
		return
	}
	l := n.layer
	l.stopped = true
	l.fades = l.fades[:0]
	l.target = nil
	for _, child := range n.children {
		child.weight = 0
	}
}

// StartFade fades the layer's own weight to target over duration seconds.
// A duration of 0 or less sets it immediately. No-op on the base layer and
// on other kinds.
func (n *Node) StartFade(target, duration float64) {
	if n.kind != NodeKindLayer || n.layer.index == 0 || !n.usable("StartFade") {
		return
	}
	target = clamp01(target)
	if duration <= 0 {
		n.layer.weightFade = nil
		n.weight = target
		return
	}
	n.layer.weightFade = newWeightFade(n, target, duration)
}

// fadingOut reports whether the layer weight is 0 or heading there.
func (l *layerState) fadingOut(n *Node) bool {
	if l.weightFade != nil {
		return l.weightFade.to == 0
	}
	return n.weight == 0
}

// acquireState returns the layer's state for c, waking it if old, or
// creates a new one.
func (n *Node) acquireState(c Content) *Node {
	n.layer.stopped = false
	for _, child := range n.children {
		if child.Content() == c {
			n.layer.wake(child)
			return child
		}
	}
	s := n.graph.newState(c)
	s.weight = 0
	n.addChild(s)
	return s
}

// updateTransitions advances state fades and the layer weight fade.
func (n *Node) updateTransitions(dt float64) {
	l := n.layer
	for i := 0; i < len(l.fades); {
		if l.fades[i].update(dt) {
			copy(l.fades[i:], l.fades[i+1:])
			l.fades[len(l.fades)-1] = nil
			l.fades = l.fades[:len(l.fades)-1]
			continue
		}
		i++
	}
	if l.weightFade != nil && l.weightFade.update(dt) {
		l.weightFade = nil
	}
}

func (l *layerState) isFading(s *Node) bool {
	for _, f := range l.fades {
		if f.target == s {
			return true
		}
	}
	return false
}

// collectOld moves zero-weight states that are neither the target nor
// fading into the old pool, then releases the oldest beyond maxOld unless
// the layer is stopped.
func (n *Node) collectOld(maxOld int) {
	l := n.layer
	for _, child := range n.children {
		if child.old || child == l.target || child.weight > 0 || l.isFading(child) {
			continue
		}
		child.old = true
		l.old = append(l.old, child)
	}
	for !l.stopped && len(l.old) > maxOld && len(l.old) > 0 {
		l.old[0].release()
	}
}

// wake moves s out of the old pool.
func (l *layerState) wake(s *Node) {
	if !s.old {
		return
	}
	s.old = false
	l.removeOld(s)
}

func (l *layerState) removeOld(s *Node) {
	for i, o := range l.old {
		if o == s {
			copy(l.old[i:], l.old[i+1:])
			l.old[len(l.old)-1] = nil
			l.old = l.old[:len(l.old)-1]
			return
		}
	}
}

// forget drops every reference the layer holds to a state being released.
func (l *layerState) forget(s *Node) {
	if l.target == s {
		l.target = nil
	}
	for i := 0; i < len(l.fades); {
		if l.fades[i].target == s {
			copy(l.fades[i:], l.fades[i+1:])
			l.fades[len(l.fades)-1] = nil
			l.fades = l.fades[:len(l.fades)-1]
			continue
		}
		i++
	}
	l.removeOld(s)
}

// youngCount and oldCount feed DebugInfo.
func (n *Node) youngCount() int { return len(n.children) - len(n.layer.old) }
func (n *Node) oldCount() int   { return len(n.layer.old) }
