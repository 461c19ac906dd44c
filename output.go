package animgraph

// Sample is the per-frame playback state of one weighted clip leaf, the unit
// a compositor consumes to pose a skeleton.
type Sample struct {
	Node           Ref
	Clip           *Clip
	Layer          int
	Additive       bool
	Mask           any
	Weight         float64 // product of weights up to and including the layer
	LocalWeight    float64
	Time           float64 // Phase: wrapped or clamped sampling position
	NormalizedTime float64
	Speed          float64 // applied speed of the last evaluation
}

// OutputPort receives one Sample per clip leaf with a non-zero effective
// weight after every evaluation, layer by layer in index order.
type OutputPort interface {
	WriteSample(s Sample)
}

// TimelineEvent reports a crossed clip event or the end of a non-looping
// state.
type TimelineEvent struct {
	Kind           EventKind
	Name           string
	NormalizedTime float64
	Node           Ref
	Clip           *Clip // nil for end events of blend states
	Layer          int
	Weight         float64
}

// EventSink receives timeline events after the evaluate traversal.
type EventSink interface {
	EmitEvent(e TimelineEvent)
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(e TimelineEvent)

// EmitEvent calls f(e).
func (f EventSinkFunc) EmitEvent(e TimelineEvent) { f(e) }

// AppendSamples appends the current samples to dst and returns it. Old
// states and leaves with zero effective weight are skipped.
func (g *Graph) AppendSamples(dst []Sample) []Sample {
	if !g.valid {
		return dst
	}
	for _, l := range g.layers.children {
		lw := l.Weight()
		if lw == 0 {
			continue
		}
		for _, s := range l.children {
			if s.old {
				continue
			}
			dst = appendLeafSamples(dst, l, s, lw)
		}
	}
	return dst
}

func appendLeafSamples(dst []Sample, layer, n *Node, w float64) []Sample {
	w *= n.Weight()
	if w == 0 {
		return dst
	}
	if n.kind != NodeKindClip {
		for _, c := range n.children {
			dst = appendLeafSamples(dst, layer, c, w)
		}
		return dst
	}
	return append(dst, Sample{
		Node:           n.ref,
		Clip:           n.clip,
		Layer:          layer.layer.index,
		Additive:       layer.layer.additive,
		Mask:           layer.layer.mask,
		Weight:         w,
		LocalWeight:    n.weight,
		Time:           n.Phase(),
		NormalizedTime: n.NormalizedTime(),
		Speed:          n.appliedSpeed,
	})
}
