package animgraph

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

var locomotion = []r2.Vec{
	{X: 0, Y: 0},
	{X: 0, Y: 1},
	{X: 0, Y: 2},
	{X: 0, Y: -1},
	{X: -1, Y: 0},
	{X: 1, Y: 0},
}

func newBlend2DState(t *testing.T, g *Graph, mode Blend2DMode, points []r2.Vec) *Node {
	t.Helper()
	entries := make([]Blend2DEntry, len(points))
	for i, p := range points {
		entries[i] = Blend2DEntry{Clip: mustClip(t, "c", 1, true), Threshold: p}
	}
	b, err := NewBlend2D(mode, entries...)
	if err != nil {
		t.Fatalf("NewBlend2D: %v", err)
	}
	return g.Play(b)
}

func TestBlend2DExactSample(t *testing.T) {
	for _, mode := range []Blend2DMode{Blend2DCartesian, Blend2DDirectional} {
		g := NewGraph(GraphConfig{})
		s := newBlend2DState(t, g, mode, locomotion)
		for i, p := range locomotion {
			s.SetParameter2D(p)
			for j, w := range childWeights(s) {
				want := 0.0
				if i == j {
					want = 1
				}
				if !approx(w, want) {
					t.Errorf("mode %d, param %v: child %d weight = %v, want %v", mode, p, j, w, want)
				}
			}
		}
	}
}

func TestBlend2DWeightsSumToOne(t *testing.T) {
	for _, mode := range []Blend2DMode{Blend2DCartesian, Blend2DDirectional} {
		g := NewGraph(GraphConfig{})
		s := newBlend2DState(t, g, mode, locomotion)
		for x := -2.0; x <= 2; x += 0.25 {
			for y := -2.0; y <= 3; y += 0.25 {
				s.SetParameter2D(r2.Vec{X: x, Y: y})
				sum := 0.0
				for _, w := range childWeights(s) {
					if w < 0 {
						t.Fatalf("mode %d, param (%v, %v): negative weight %v", mode, x, y, w)
					}
					sum += w
				}
				if !approx(sum, 1) {
					t.Fatalf("mode %d, param (%v, %v): weight sum = %v", mode, x, y, sum)
				}
			}
		}
	}
}

func TestBlend2DBetweenTwoSamples(t *testing.T) {
	g := NewGraph(GraphConfig{})
	s := newBlend2DState(t, g, Blend2DCartesian, []r2.Vec{{X: 0, Y: 0}, {X: 2, Y: 0}})
	s.SetParameter2D(r2.Vec{X: 0.5, Y: 0})

	w := childWeights(s)
	if !approx(w[0], 0.75) || !approx(w[1], 0.25) {
		t.Errorf("weights = %v, want [0.75 0.25]", w)
	}
}

func TestBlend2DNearestSampleFallback(t *testing.T) {
	g := NewGraph(GraphConfig{})
	s := newBlend2DState(t, g, Blend2DCartesian, locomotion)

	s.nearestSampleWins(r2.Vec{X: 0.9, Y: 0.2})

	// Raw weights: Weight() would recompute the stale blend.
	for i, c := range s.Children() {
		w := c.weight
		want := 0.0
		if i == 5 {
			want = 1
		}
		if w != want {
			t.Errorf("child %d weight = %v, want %v", i, w, want)
		}
	}
}

func TestBlend2DParameterAccessors(t *testing.T) {
	g := NewGraph(GraphConfig{})
	s := newBlend2DState(t, g, Blend2DDirectional, locomotion)
	p := r2.Vec{X: 0.3, Y: 0.4}
	if !s.SetParameter2D(p) {
		t.Fatal("SetParameter2D on a blend2d node should succeed")
	}
	if v, ok := s.Parameter2D(); !ok || v != p {
		t.Errorf("Parameter2D = %v, %v", v, ok)
	}
	if _, ok := s.Parameter(); ok {
		t.Error("Parameter on a blend2d node should report not applicable")
	}

	clip := g.Layer(1).Play(mustClip(t, "a", 1, true))
	if clip.SetParameter2D(p) {
		t.Error("SetParameter2D on a clip node should report not applicable")
	}
	if b := s.Content().(*Blend2D); b.Mode() != Blend2DDirectional || len(b.Entries()) != len(locomotion) {
		t.Errorf("content mode %v entries %d", b.Mode(), len(b.Entries()))
	}
}

func TestNewBlend2DErrors(t *testing.T) {
	a := mustClip(t, "a", 1, true)
	b := mustClip(t, "b", 1, true)

	if _, err := NewBlend2D(Blend2DCartesian); !errors.Is(err, ErrEmptyBlend) {
		t.Errorf("empty: err = %v", err)
	}
	_, err := NewBlend2D(Blend2DCartesian,
		Blend2DEntry{Clip: a, Threshold: r2.Vec{X: 1, Y: 1}},
		Blend2DEntry{Clip: b, Threshold: r2.Vec{X: 1, Y: 1}},
	)
	if !errors.Is(err, ErrDuplicateThreshold) {
		t.Errorf("duplicate: err = %v", err)
	}
	if _, err := NewBlend2D(Blend2DDirectional, Blend2DEntry{Threshold: r2.Vec{X: 1}}); !errors.Is(err, ErrNilClip) {
		t.Errorf("nil clip: err = %v", err)
	}
	// NaN != NaN, so a duplicate check alone would let these through.
	nan := r2.Vec{X: math.NaN(), Y: 0}
	_, err = NewBlend2D(Blend2DCartesian,
		Blend2DEntry{Clip: a, Threshold: nan},
		Blend2DEntry{Clip: b, Threshold: nan},
	)
	if !errors.Is(err, ErrInvalidThreshold) {
		t.Errorf("NaN threshold: err = %v", err)
	}
	if _, err := NewBlend2D(Blend2DDirectional, Blend2DEntry{Clip: a, Threshold: r2.Vec{Y: math.Inf(1)}}); !errors.Is(err, ErrInvalidThreshold) {
		t.Errorf("Inf threshold: err = %v", err)
	}
}

func TestSetParameter2DIgnoresNonFinite(t *testing.T) {
	g := NewGraph(GraphConfig{})
	a := mustClip(t, "a", 1, true)
	b := mustClip(t, "b", 1, true)
	blend, err := NewBlend2D(Blend2DCartesian,
		Blend2DEntry{Clip: a, Threshold: r2.Vec{}},
		Blend2DEntry{Clip: b, Threshold: r2.Vec{X: 1}},
	)
	if err != nil {
		t.Fatal(err)
	}
	s := g.Play(blend)
	s.SetParameter2D(r2.Vec{X: 1})
	if s.SetParameter2D(r2.Vec{X: math.NaN()}) {
		t.Error("SetParameter2D(NaN) = true, want false")
	}
	g.Evaluate(0.1)
	if w := s.ChildAt(1).Weight(); !approx(w, 1) {
		t.Errorf("weight = %v, want 1", w)
	}
}
