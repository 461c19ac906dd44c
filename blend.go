package animgraph

// recalcWeights resolves stale blend weights. It is called transparently by
// every getter that depends on child weights.
func (n *Node) recalcWeights() {
	if n.flags&flagBlendParam == 0 {
		return
	}
	n.flags &^= flagBlendParam
	switch n.kind {
	case NodeKindBlend1D:
		n.weights1D()
	case NodeKindBlend2D:
		n.weights2D()
	}
}

// IsSync reports whether the state asked to join its parent's sync group.
func (n *Node) IsSync() bool {
	return n.isSync
}

// SyncOwner returns the node whose sync group currently holds n, or nil.
func (n *Node) SyncOwner() *Node {
	return n.syncOwner
}

// SyncGroup returns the members of the sync group owned by n. The returned
// slice MUST NOT be mutated by the caller.
func (n *Node) SyncGroup() []*Node {
	return n.syncNodes
}

// SetSync adds the state to, or removes it from, the sync group of its
// parent blend or layer node. Syncing a blend node flattens its own group
// into the parent's; unsyncing hands those members back.
func (n *Node) SetSync(sync bool) {
	if !n.usable("SetSync") || !n.kind.IsState() || n.kind == NodeKindLayer {
		return
	}
	if n.isSync == sync {
		return
	}
	n.isSync = sync
	p := n.parent
	if p == nil || !p.kind.isComposite() {
		return
	}
	if sync {
		p.syncState(n)
	} else {
		p.desyncState(n)
	}
}

// syncState adds state to n's sync group. Composite states are not members
// themselves: their members move into n's group instead.
func (n *Node) syncState(state *Node) {
	if state.kind.isComposite() {
		if state != n && len(state.syncNodes) > 0 {
			members := append([]*Node(nil), state.syncNodes...)
			for _, m := range members {
				n.syncState(m)
			}
		}
		return
	}
	if state.syncOwner == n {
		return
	}
	if state.syncOwner != nil {
		state.syncOwner.removeSyncMember(state)
	}
	n.syncNodes = append(n.syncNodes, state)
	state.syncOwner = n
	n.flags |= flagSync
}

// desyncState removes state from n's group. For a composite state, members
// that live in its subtree return to the composite's own group.
func (n *Node) desyncState(state *Node) {
	if !state.kind.isComposite() {
		if state.syncOwner == n {
			n.removeSyncMember(state)
		}
		return
	}
	for i := 0; i < len(n.syncNodes); {
		m := n.syncNodes[i]
		if isAncestor(state, m) {
			n.removeSyncMember(m)
			state.syncState(m)
			continue
		}
		i++
	}
}

func (n *Node) removeSyncMember(m *Node) {
	for i, s := range n.syncNodes {
		if s == m {
			copy(n.syncNodes[i:], n.syncNodes[i+1:])
			n.syncNodes[len(n.syncNodes)-1] = nil
			n.syncNodes = n.syncNodes[:len(n.syncNodes)-1]
			break
		}
	}
	m.syncOwner = nil
	if len(n.syncNodes) == 0 {
		n.flags &^= flagSync
	}
}

// isAncestor reports whether candidate is a strict ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node.parent; p != nil; p = p.parent {
		if p == candidate {
			return true
		}
	}
	return false
}
