package animgraph

import "testing"

func TestArenaAllocRelease(t *testing.T) {
	var a arena
	n := a.alloc(nil, NodeKindClip, "a")
	ref := n.ref
	if a.get(ref) != n {
		t.Fatal("fresh ref should resolve")
	}
	if a.live() != 1 {
		t.Errorf("live = %d, want 1", a.live())
	}

	n.released = true
	a.release(n)
	if a.get(ref) != nil {
		t.Error("released ref should not resolve")
	}
	a.release(n)
	if len(a.free) != 1 {
		t.Errorf("double release: free = %d, want 1", len(a.free))
	}

	m := a.alloc(nil, NodeKindBlend1D, "b")
	if m != n {
		t.Error("alloc should recycle the released node")
	}
	if m.ref.index != ref.index || m.ref.gen == ref.gen {
		t.Errorf("recycled ref = %+v, old = %+v", m.ref, ref)
	}
	if m.released || m.kind != NodeKindBlend1D || m.Name != "b" || m.weight != 1 || m.speed != 1 {
		t.Errorf("recycled node not reset: %+v", m)
	}
}

func TestArenaGetRejectsUnknownRefs(t *testing.T) {
	var a arena
	a.alloc(nil, NodeKindClip, "a")
	if a.get(Ref{}) != nil {
		t.Error("zero ref should not resolve")
	}
	if a.get(Ref{index: 5, gen: 1}) != nil {
		t.Error("out of range ref should not resolve")
	}
}

func TestArenaRecyclesChildCapacity(t *testing.T) {
	g := NewGraph(GraphConfig{MaxOldStates: -1})
	b, err := NewBlend1D(
		Blend1DEntry{Clip: mustClip(t, "a", 1, true), Threshold: 0},
		Blend1DEntry{Clip: mustClip(t, "b", 1, true), Threshold: 1},
	)
	if err != nil {
		t.Fatal(err)
	}
	s := g.Play(b)
	g.Play(mustClip(t, "c", 1, true))
	g.Evaluate(0)

	if s.IsValid() {
		t.Fatal("blend state should be released")
	}
	if got := g.DebugInfo().FreeSlots; got != 3 {
		t.Errorf("FreeSlots = %d, want 3 (blend and two children)", got)
	}
	for _, child := range s.children[:cap(s.children)] {
		if child != nil {
			t.Fatal("released node should not retain child pointers")
		}
	}
}
