package animgraph

import "fmt"

// Blend1DEntry is one clip of a 1D blend space placed at Threshold. Sync
// entries join the blend node's sync group.
type Blend1DEntry struct {
	Clip      *Clip
	Threshold float64
	Sync      bool
}

// Blend1D is immutable content for a 1D blend space.
type Blend1D struct {
	entries []Blend1DEntry
}

// NewBlend1D validates entries (non-empty, non-nil clips, finite and strictly
// ascending thresholds) and returns the content.
func NewBlend1D(entries ...Blend1DEntry) (*Blend1D, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyBlend
	}
	for i, e := range entries {
		if e.Clip == nil {
			return nil, fmt.Errorf("animgraph: blend1d entry %d: %w", i, ErrNilClip)
		}
		if !isFinite(e.Threshold) {
			return nil, fmt.Errorf("animgraph: blend1d entry %d threshold %v: %w", i, e.Threshold, ErrInvalidThreshold)
		}
		if i > 0 && !(e.Threshold > entries[i-1].Threshold) {
			return nil, fmt.Errorf("animgraph: blend1d entry %d threshold %v after %v: %w",
				i, e.Threshold, entries[i-1].Threshold, ErrThresholdOrder)
		}
	}
	cp := make([]Blend1DEntry, len(entries))
	copy(cp, entries)
	return &Blend1D{entries: cp}, nil
}

func (b *Blend1D) contentKind() NodeKind { return NodeKindBlend1D }

// Entries returns the blend entries. The returned slice MUST NOT be mutated by the caller.
func (b *Blend1D) Entries() []Blend1DEntry { return b.entries }

// Parameter returns the 1D blend parameter. ok is false for other kinds.
func (n *Node) Parameter() (value float64, ok bool) {
	if n.kind != NodeKindBlend1D {
		return 0, false
	}
	return n.param, true
}

// SetParameter sets the 1D blend parameter and marks weights stale. Returns
// false for other kinds and for NaN or infinite values, which are ignored.
func (n *Node) SetParameter(v float64) bool {
	if n.kind != NodeKindBlend1D || !isFinite(v) || !n.usable("SetParameter") {
		return false
	}
	if n.param != v {
		n.param = v
		n.flags |= flagBlendParam
	}
	return true
}

// weights1D distributes weight between the two children bracketing the
// parameter; every other child gets 0.
func (n *Node) weights1D() {
	entries := n.blend1D.entries
	count := len(n.children)
	p := n.param

	for _, c := range n.children {
		c.weight = 0
	}
	if p <= entries[0].Threshold {
		n.children[0].weight = 1
		return
	}
	if p >= entries[count-1].Threshold {
		n.children[count-1].weight = 1
		return
	}
	for i := 1; i < count; i++ {
		lo, hi := entries[i-1].Threshold, entries[i].Threshold
		if p > lo && p <= hi {
			t := (p - lo) / (hi - lo)
			n.children[i-1].weight = 1 - t
			n.children[i].weight = t
			return
		}
	}
}
