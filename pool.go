package animgraph

// arena owns every node of a graph. Slots are addressed by Ref; releasing a
// node bumps its slot generation and returns the slot to the free list, so
// old Refs stop resolving and the node struct is recycled by the next
// allocation.
type arena struct {
	slots []arenaSlot
	free  []uint32
}

type arenaSlot struct {
	node *Node
	gen  uint32
}

// alloc returns a reset node bound to g, reusing a released slot if any.
func (a *arena) alloc(g *Graph, kind NodeKind, name string) *Node {
	var n *Node
	if k := len(a.free); k > 0 {
		idx := a.free[k-1]
		a.free = a.free[:k-1]
		slot := &a.slots[idx]
		n = slot.node
		n.ref = Ref{index: idx, gen: slot.gen}
	} else {
		n = &Node{}
		idx := uint32(len(a.slots))
		a.slots = append(a.slots, arenaSlot{node: n, gen: 1})
		n.ref = Ref{index: idx, gen: 1}
	}
	n.graph = g
	nodeDefaults(n, kind, name)
	return n
}

// release invalidates n's slot. Releasing a node twice is a no-op.
func (a *arena) release(n *Node) {
	idx := n.ref.index
	if int(idx) >= len(a.slots) {
		return
	}
	slot := &a.slots[idx]
	if slot.node != n || slot.gen != n.ref.gen {
		return
	}
	slot.gen++
	if slot.gen == 0 {
		slot.gen = 1
	}
	a.free = append(a.free, idx)
}

// get resolves r, or returns nil when the slot was released since.
func (a *arena) get(r Ref) *Node {
	if r.gen == 0 || int(r.index) >= len(a.slots) {
		return nil
	}
	slot := &a.slots[r.index]
	if slot.gen != r.gen || slot.node.released {
		return nil
	}
	return slot.node
}

// live returns the number of allocated, unreleased slots.
func (a *arena) live() int {
	return len(a.slots) - len(a.free)
}

// reset drops every slot.
func (a *arena) reset() {
	clear(a.slots)
	a.slots = a.slots[:0]
	a.free = a.free[:0]
}
