package animgraph

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
)

// Blend2DEntry is one clip of a 2D blend space placed at Threshold.
type Blend2DEntry struct {
	Clip      *Clip
	Threshold r2.Vec
	Sync      bool
}

// Blend2D is immutable content for a 2D blend space. The pairwise gradient
// cache is built once at construction.
type Blend2D struct {
	mode       Blend2DMode
	entries    []Blend2DEntry
	cached     []r2.Vec // count*count, cached[i*count+j]
	magnitudes []float64
}

// NewBlend2D validates entries (non-empty, non-nil clips, finite and
// distinct thresholds) and precomputes the gradient cache for mode.
func NewBlend2D(mode Blend2DMode, entries ...Blend2DEntry) (*Blend2D, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyBlend
	}
	for i, e := range entries {
		if e.Clip == nil {
			return nil, fmt.Errorf("animgraph: blend2d entry %d: %w", i, ErrNilClip)
		}
		if !isFiniteVec(e.Threshold) {
			return nil, fmt.Errorf("animgraph: blend2d entry %d threshold %v: %w", i, e.Threshold, ErrInvalidThreshold)
		}
		for j := 0; j < i; j++ {
			if entries[j].Threshold == e.Threshold {
				return nil, fmt.Errorf("animgraph: blend2d entries %d and %d at %v: %w",
					j, i, e.Threshold, ErrDuplicateThreshold)
			}
		}
	}
	b := &Blend2D{mode: mode, entries: make([]Blend2DEntry, len(entries))}
	copy(b.entries, entries)
	b.buildCache()
	return b, nil
}

func (b *Blend2D) contentKind() NodeKind { return NodeKindBlend2D }

// Mode returns the blend mode.
func (b *Blend2D) Mode() Blend2DMode { return b.mode }

// Entries returns the blend entries. The returned slice MUST NOT be mutated by the caller.
func (b *Blend2D) Entries() []Blend2DEntry { return b.entries }

func (b *Blend2D) buildCache() {
	count := len(b.entries)
	b.cached = make([]r2.Vec, count*count)
	b.magnitudes = make([]float64, count)
	for i := range b.entries {
		b.magnitudes[i] = r2.Norm(b.entries[i].Threshold)
	}

	for i := 0; i < count; i++ {
		t0 := b.entries[i].Threshold
		m0 := b.magnitudes[i]
		for j := i + 1; j < count; j++ {
			t1 := b.entries[j].Threshold
			var v r2.Vec
			switch b.mode {
			case Blend2DDirectional:
				m1 := b.magnitudes[j]
				avg := (m0 + m1) * 0.5
				v = r2.Vec{X: (m1 - m0) / avg, Y: signedAngle(t0, t1)}
			default:
				v = r2.Sub(t1, t0)
			}
			v = invSquared(v)
			b.cached[i*count+j] = v
			b.cached[j*count+i] = r2.Scale(-1, v)
		}
	}
}

// Parameter2D returns the 2D blend parameter. ok is false for other kinds.
func (n *Node) Parameter2D() (value r2.Vec, ok bool) {
	if n.kind != NodeKindBlend2D {
		return r2.Vec{}, false
	}
	return n.param2D, true
}

// SetParameter2D sets the 2D blend parameter and marks weights stale.
// Returns false for other kinds and for non-finite vectors, which are ignored.
func (n *Node) SetParameter2D(v r2.Vec) bool {
	if n.kind != NodeKindBlend2D || !isFiniteVec(v) || !n.usable("SetParameter2D") {
		return false
	}
	if n.param2D != v {
		n.param2D = v
		n.flags |= flagBlendParam
	}
	return true
}

// weights2D runs gradient band interpolation: each child's weight is the
// smallest 1 - dot(feature, gradient) over every other sample, small values
// are cut to 0, and the result is normalized.
func (n *Node) weights2D() {
	b := n.blend2D
	count := len(n.children)
	p := n.param2D
	var total float64

	switch b.mode {
	case Blend2DDirectional:
		mag := r2.Norm(p)
		for i := 0; i < count; i++ {
			m0 := b.magnitudes[i]
			magDiff := mag - m0
			ang := signedAngle(b.entries[i].Threshold, p)
			w := 1.0
			for j := 0; j < count; j++ {
				if i == j {
					continue
				}
				avg := (m0 + b.magnitudes[j]) * 0.5
				v := r2.Vec{X: magDiff / avg, Y: ang}
				if d := 1 - r2.Dot(v, b.cached[i*count+j]); d < w {
					w = d
				}
			}
			if w < 0.01 {
				w = 0
			}
			n.children[i].weight = w
			total += w
		}
	default:
		for i := 0; i < count; i++ {
			v := r2.Sub(p, b.entries[i].Threshold)
			w := 1.0
			for j := 0; j < count; j++ {
				if i == j {
					continue
				}
				if d := 1 - r2.Dot(v, b.cached[i*count+j]); d < w {
					w = d
				}
			}
			if w < 0.01 {
				w = 0
			}
			n.children[i].weight = w
			total += w
		}
	}

	if total == 0 {
		n.nearestSampleWins(p)
		return
	}
	if total != 1 {
		inv := 1 / total
		for _, c := range n.children {
			c.weight *= inv
		}
	}
}

// nearestSampleWins is the defined fallback for a zero weight sum: the
// sample closest to the parameter takes full weight.
func (n *Node) nearestSampleWins(p r2.Vec) {
	best, bestDist := 0, -1.0
	for i, e := range n.blend2D.entries {
		d := r2.Norm2(r2.Sub(p, e.Threshold))
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
		n.children[i].weight = 0
	}
	n.children[best].weight = 1
	if n.graph != nil && n.graph.debug {
		debugWarn("blend2d %q: zero weight sum at %v, using nearest sample %d", n.Name, p, best)
	}
}
