package animgraph

import (
	"math"
	"testing"
)

func TestWeightFadeReachesTarget(t *testing.T) {
	g := NewGraph(GraphConfig{})
	n := g.Play(mustClip(t, "a", 1, true))

	f := newWeightFade(n, 0, 1.0)

	// Run for full duration using exact halves to avoid float32 accumulation drift.
	if f.update(0.5) {
		t.Fatal("fade finished early")
	}
	if math.Abs(n.weight-0.5) > 1e-6 {
		t.Errorf("weight = %f, want ~0.5", n.weight)
	}
	if !f.update(0.5) {
		t.Fatal("expected done after full duration")
	}
	if n.weight != 0 {
		t.Errorf("weight = %v, want exactly 0", n.weight)
	}
	if !f.update(0.1) {
		t.Error("finished fade should stay done")
	}
}

func TestWeightFadeFromCurrentWeight(t *testing.T) {
	g := NewGraph(GraphConfig{})
	n := g.Play(mustClip(t, "a", 1, true))
	n.weight = 0.4

	f := newWeightFade(n, 1, 0.5)
	f.update(0.25)
	if math.Abs(n.weight-0.7) > 1e-6 {
		t.Errorf("weight = %f, want ~0.7", n.weight)
	}
}

func TestWeightFadeOvershootClamps(t *testing.T) {
	g := NewGraph(GraphConfig{})
	n := g.Play(mustClip(t, "a", 1, true))

	f := newWeightFade(n, 0, 0.25)
	if !f.update(10) {
		t.Fatal("large step should finish the fade")
	}
	if n.weight != 0 {
		t.Errorf("weight = %v, want 0", n.weight)
	}
}

func TestWeightFadeReleasedTarget(t *testing.T) {
	g := NewGraph(GraphConfig{})
	n := g.Play(mustClip(t, "a", 1, true))
	f := newWeightFade(n, 0, 1)
	n.release()

	if !f.update(0.1) {
		t.Error("fade of a released node should finish")
	}
}

func TestReleaseDropsLayerFades(t *testing.T) {
	g := NewGraph(GraphConfig{})
	a := g.Play(mustClip(t, "a", 1, true))
	g.CrossFade(mustClip(t, "b", 1, true), 1)
	layer := g.Layer(0)

	a.release()
	for _, f := range layer.layer.fades {
		if f.target == a {
			t.Fatal("released state still has a fade")
		}
	}
	if a.IsValid() {
		t.Error("released state should be invalid")
	}
	a.release()
}

func TestCrossFadeUpdateDoesNotAllocate(t *testing.T) {
	g := NewGraph(GraphConfig{})
	g.Play(mustClip(t, "a", 1, true))
	g.CrossFade(mustClip(t, "b", 1, true), 1000)

	allocs := testing.AllocsPerRun(100, func() {
		g.Evaluate(0.001)
	})
	if allocs != 0 {
		t.Errorf("Evaluate during a crossfade allocates %v times per run, want 0", allocs)
	}
}
