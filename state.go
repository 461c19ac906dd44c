package animgraph

import "math"

// Time returns the playback time in seconds. Clip time is unbounded: a
// looping clip that played three laps of a 1s clip reports 3. Blend and
// layer nodes aggregate their children. Non-state kinds return 0.
func (n *Node) Time() float64 {
	switch {
	case n.kind == NodeKindClip:
		return n.time
	case n.kind.isComposite():
		return n.aggregateTime()
	default:
		return 0
	}
}

// SetTime moves the playback position without firing events. On blend and
// layer nodes the position is applied to every child in normalized form.
func (n *Node) SetTime(t float64) {
	if !n.usable("SetTime") {
		return
	}
	switch {
	case n.kind == NodeKindClip:
		n.time = t
	case n.kind.isComposite():
		n.setAggregateTime(t)
	}
}

// NormalizedTime returns Time divided by Length, or 0 when Length is 0.
func (n *Node) NormalizedTime() float64 {
	l := n.Length()
	if l == 0 {
		return 0
	}
	return n.Time() / l
}

// SetNormalizedTime sets Time to v·Length.
func (n *Node) SetNormalizedTime(v float64) {
	if !n.usable("SetNormalizedTime") {
		return
	}
	switch {
	case n.kind == NodeKindClip:
		n.time = v * n.clip.duration
	case n.kind.isComposite():
		n.setChildrenNormalizedTime(v)
	}
}

// Length returns the clip duration, the weighted child length for blend and
// layer nodes, or 0 for non-state kinds.
func (n *Node) Length() float64 {
	switch {
	case n.kind == NodeKindClip:
		return n.clip.duration
	case n.kind.isComposite():
		return n.aggregateLength()
	default:
		return 0
	}
}

// IsLooping reports whether the state wraps at its end. Composite states
// loop when any child loops.
func (n *Node) IsLooping() bool {
	switch {
	case n.kind == NodeKindClip:
		return n.clip.loop
	case n.kind.isComposite():
		for _, c := range n.children {
			if !c.old && c.IsLooping() {
				return true
			}
		}
	}
	return false
}

// Phase returns the position a compositor samples at: the time wrapped into
// [0, Length) for looping states and clamped to [0, Length] otherwise.
func (n *Node) Phase() float64 {
	l := n.Length()
	if l <= 0 {
		return 0
	}
	t := n.Time()
	if n.IsLooping() {
		t = math.Mod(t, l)
		if t < 0 {
			t += l
		}
		return t
	}
	return math.Max(0, math.Min(t, l))
}

// Events returns the clip events of a clip node, or nil for other kinds.
func (n *Node) Events() []Event {
	if n.kind != NodeKindClip {
		return nil
	}
	return n.clip.events
}

// Clip returns the clip of a clip node, or nil for other kinds.
func (n *Node) Clip() *Clip {
	if n.kind != NodeKindClip {
		return nil
	}
	return n.clip
}

// Content returns the content a state was created from, or nil for
// structural kinds and blend children.
func (n *Node) Content() Content {
	switch n.kind {
	case NodeKindClip:
		return n.clip
	case NodeKindBlend1D:
		return n.blend1D
	case NodeKindBlend2D:
		return n.blend2D
	}
	return nil
}

// SetOnEnd registers the single end-of-playback callback, replacing any
// previous one. It fires once per pass when a non-looping state reaches the
// end (or the start, when playing in reverse). The callback runs after the
// evaluate traversal, so it may call Play or CrossFade.
func (n *Node) SetOnEnd(fn func(*Node)) {
	if !n.usable("SetOnEnd") || !n.kind.IsState() {
		return
	}
	n.onEnd = fn
}

// ClearOnEnd removes the end-of-playback callback.
func (n *Node) ClearOnEnd() {
	n.onEnd = nil
}

// HasOnEnd reports whether an end-of-playback callback is registered.
func (n *Node) HasOnEnd() bool {
	return n.onEnd != nil
}

// --- Aggregation over children (blend and layer nodes) ---

func (n *Node) aggregateLength() float64 {
	n.recalcWeights()

	var length, total float64
	for _, m := range n.syncNodes {
		w := m.Weight()
		if w == 0 {
			continue
		}
		l := m.Length()
		if l == 0 {
			continue
		}
		length += l * w
		total += w
	}
	if total > 0 {
		return length / total
	}

	for _, c := range n.children {
		if c.old {
			continue
		}
		w := c.weight
		total += w
		length += c.Length() * w
	}
	if total <= 0 {
		return 0
	}
	return length / total
}

func (n *Node) aggregateTime() float64 {
	n.recalcWeights()

	var length, total, weightedNT float64
	for _, m := range n.syncNodes {
		w := m.Weight()
		if w == 0 {
			continue
		}
		l := m.Length()
		if l == 0 {
			continue
		}
		length += l * w
		total += w
		weightedNT += m.Time() / l * w
	}

	if total < 0.01 {
		for _, c := range n.children {
			if c.old {
				continue
			}
			w := c.weight
			if w == 0 {
				continue
			}
			l := c.Length()
			if l == 0 {
				continue
			}
			length += l * w
			total += w
			weightedNT += c.Time() / l * w
		}
	}

	if total == 0 {
		return 0
	}
	return weightedNT * length / (total * total)
}

func (n *Node) setAggregateTime(t float64) {
	normalized := t
	if t != 0 {
		l := n.Length()
		if l == 0 {
			normalized = 0
		} else {
			normalized = t / l
		}
	}
	n.setChildrenNormalizedTime(normalized)
}

func (n *Node) setChildrenNormalizedTime(v float64) {
	for _, c := range n.children {
		if c.old {
			continue
		}
		if v == 0 {
			c.SetTime(0)
		} else {
			c.SetNormalizedTime(v)
		}
	}
}
