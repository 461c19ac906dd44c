package animgraph

// syncMinWeight is the combined member weight below which the solver treats
// every member as if its weight were 1.
const syncMinWeight = 0.01

// solveSync gives each member of n's sync group a corrective speed for this
// frame so that all members land on the same normalized time. dt is the
// graph delta time; the group advances at n's real speed.
func (n *Node) solveSync(dt float64) {
	if n.Weight() == 0 || len(n.syncNodes) == 0 {
		return
	}
	delta := dt * n.realSpeed
	if delta == 0 {
		return
	}

	var total, weightedNT, weightedRate float64
	for _, m := range n.syncNodes {
		if m.frozen() {
			continue
		}
		w := m.Weight()
		if w == 0 {
			continue
		}
		l := m.Length()
		if l == 0 {
			continue
		}
		total += w
		w /= l
		weightedNT += m.Time() * w
		weightedRate += w
	}

	if total < syncMinWeight {
		for _, m := range n.syncNodes {
			l := m.Length()
			if l == 0 || m.frozen() {
				continue
			}
			total++
			inv := 1 / l
			weightedNT += m.Time() * inv
			weightedRate += inv
		}
	}
	if total == 0 {
		return
	}

	target := (weightedNT + delta*weightedRate) / total
	invDelta := 1 / delta
	for _, m := range n.syncNodes {
		l := m.Length()
		if l == 0 || m.frozen() {
			continue
		}
		m.syncSpeed = (target - m.Time()/l) * l * invDelta
		m.syncActive = true
		if n.graph != nil && n.graph.debug {
			debugCheckSyncSpeed(m)
		}
	}
}

// frozen reports whether n sits in an old state and so does not advance.
func (n *Node) frozen() bool {
	for p := n; p != nil && p.kind != NodeKindLayer; p = p.parent {
		if p.old {
			return true
		}
	}
	return false
}
