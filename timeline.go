package animgraph

import "math"

// pendingCall is a timeline event or end callback raised during the advance
// pass. Dispatch is deferred until the traversal finishes so handlers may
// restructure the tree.
type pendingCall struct {
	event TimelineEvent
	ref   Ref
	end   bool
}

// advance moves every young state forward by dt seconds, scaled by real
// speed or sync correction, and queues crossed events and end callbacks.
func (g *Graph) advance(n *Node, dt float64) {
	if n.old {
		return
	}
	switch {
	case n.kind == NodeKindClip:
		g.advanceClip(n, dt)
	case n.kind.isComposite():
		track := n.onEnd != nil && !n.IsLooping()
		var before float64
		if track {
			before = n.NormalizedTime()
		}
		for _, c := range n.children {
			g.advance(c, dt)
		}
		n.appliedSpeed = n.realSpeed
		if track && crossedEnd(before, n.NormalizedTime()) {
			g.queueEnd(n)
		}
	default:
		for _, c := range n.children {
			g.advance(c, dt)
		}
		n.appliedSpeed = n.realSpeed
	}
}

func (g *Graph) advanceClip(n *Node, dt float64) {
	speed := n.realSpeed
	if n.syncActive && n.syncOwner != nil {
		speed = n.syncOwner.realSpeed * n.syncSpeed
	}
	n.syncActive = false
	n.appliedSpeed = speed

	localDt := dt * speed
	if localDt == 0 {
		return
	}
	length := n.clip.duration
	if length == 0 {
		// zero-length clips have no timeline to cross
		n.time += localDt
		return
	}
	p0 := n.time / length
	n.time += localDt
	p1 := n.time / length

	if len(n.clip.events) > 0 && g.sink != nil {
		if p1 > p0 {
			g.fireForward(n, p0, p1)
		} else {
			g.fireReverse(n, p0, p1)
		}
	}
	if !n.clip.loop && n.onEnd != nil && crossedEnd(p0, p1) {
		g.queueEnd(n)
	}
}

// fireForward queues every event position lap+t in [p0, p1), ascending.
func (g *Graph) fireForward(n *Node, p0, p1 float64) {
	first, last := 0.0, 0.0
	if n.clip.loop {
		first, last = math.Floor(p0), math.Floor(p1)
	}
	for lap := first; lap <= last; lap++ {
		for _, e := range n.clip.events {
			pos := lap + e.NormalizedTime
			if pos >= p1 {
				break
			}
			if pos >= p0 {
				g.queueEvent(n, EventMarker, e.Name, e.NormalizedTime)
			}
		}
	}
}

// fireReverse queues every event position lap+t in (p1, p0], descending.
func (g *Graph) fireReverse(n *Node, p0, p1 float64) {
	first, last := 0.0, 0.0
	if n.clip.loop {
		first, last = math.Floor(p0), math.Floor(p1)
	}
	events := n.clip.events
	for lap := first; lap >= last; lap-- {
		for i := len(events) - 1; i >= 0; i-- {
			e := events[i]
			pos := lap + e.NormalizedTime
			if pos <= p1 {
				break
			}
			if pos <= p0 {
				g.queueEvent(n, EventMarker, e.Name, e.NormalizedTime)
			}
		}
	}
}

// crossedEnd reports whether a non-looping advance from p0 to p1 reached the
// end going forward or the start going backward.
func crossedEnd(p0, p1 float64) bool {
	if p1 > p0 {
		return p0 < 1 && p1 >= 1
	}
	if p1 < p0 {
		return p0 > 0 && p1 <= 0
	}
	return false
}

func (g *Graph) queueEvent(n *Node, kind EventKind, name string, t float64) {
	g.pending = append(g.pending, pendingCall{
		event: g.timelineEvent(n, kind, name, t),
		ref:   n.ref,
	})
}

func (g *Graph) queueEnd(n *Node) {
	g.pending = append(g.pending, pendingCall{
		event: g.timelineEvent(n, EventEnd, n.Name, n.NormalizedTime()),
		ref:   n.ref,
		end:   true,
	})
}

func (g *Graph) timelineEvent(n *Node, kind EventKind, name string, t float64) TimelineEvent {
	return TimelineEvent{
		Kind:           kind,
		Name:           name,
		NormalizedTime: t,
		Node:           n.ref,
		Clip:           n.clip,
		Layer:          layerIndexOf(n),
		Weight:         n.EffectiveWeight(),
	}
}

// flushPending dispatches the calls queued by the advance pass. End
// callbacks are skipped for nodes released or cleared by an earlier handler.
func (g *Graph) flushPending() {
	for i := 0; i < len(g.pending); i++ {
		if !g.valid {
			break
		}
		p := g.pending[i]
		if p.end {
			n := g.arena.get(p.ref)
			if n == nil || n.onEnd == nil {
				continue
			}
			if g.sink != nil {
				g.sink.EmitEvent(p.event)
			}
			n.onEnd(n)
			continue
		}
		if g.sink != nil {
			g.sink.EmitEvent(p.event)
		}
	}
	clear(g.pending)
	g.pending = g.pending[:0]
}

// layerIndexOf returns the index of the layer holding n, or -1.
func layerIndexOf(n *Node) int {
	for p := n; p != nil; p = p.parent {
		if p.kind == NodeKindLayer {
			return p.layer.index
		}
	}
	return -1
}
