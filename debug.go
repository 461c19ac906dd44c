package animgraph

import (
	"fmt"
	"math"
	"os"
	"time"
)

// debugStats holds per-frame timing and pool metrics.
// Only populated when Graph.debug is true.
type debugStats struct {
	evaluateTime time.Duration
}

// DebugInfo is a snapshot of a graph's pool and playback state.
type DebugInfo struct {
	Name       string
	StateCount int // young and old states across all layers
	YoungCount int
	OldCount   int
	LayerCount int
	LiveNodes  int
	FreeSlots  int
	Clock      float64
	IsPlaying  bool
	IsValid    bool
}

// DebugInfo returns counts of states, layers and arena slots.
func (g *Graph) DebugInfo() DebugInfo {
	info := DebugInfo{
		Name:      g.name,
		Clock:     g.clock,
		IsPlaying: g.IsPlaying(),
		IsValid:   g.valid,
	}
	if !g.valid {
		return info
	}
	for _, l := range g.layers.children {
		info.YoungCount += l.youngCount()
		info.OldCount += l.oldCount()
	}
	info.StateCount = info.YoungCount + info.OldCount
	info.LayerCount = len(g.layers.children)
	info.LiveNodes = g.arena.live()
	info.FreeSlots = len(g.arena.free)
	return info
}

// SetDebugMode enables or disables debug checks and per-frame stats.
func (g *Graph) SetDebugMode(enabled bool) {
	g.debug = enabled
}

// IsDebugMode reports whether debug mode is on.
func (g *Graph) IsDebugMode() bool {
	return g.debug
}

// debugLog prints timing and pool stats to stderr.
func (g *Graph) debugLog() {
	if !g.debug {
		return
	}
	info := g.DebugInfo()
	_, _ = fmt.Fprintf(os.Stderr,
		"[animgraph] %s evaluate: %v | dt: %.4f | clock: %.3f\n",
		g.name, g.stats.evaluateTime, g.dt, g.clock)
	_, _ = fmt.Fprintf(os.Stderr,
		"[animgraph] %s states: %d (young %d, old %d) | layers: %d | free slots: %d\n",
		g.name, info.StateCount, info.YoungCount, info.OldCount, info.LayerCount, info.FreeSlots)
}

// debugCheckReleased panics with a descriptive message when a released node
// is used. Only called in debug mode; in release mode callers skip this
// entirely.
func debugCheckReleased(n *Node, op string) {
	if n.released {
		panic(fmt.Sprintf("animgraph debug: %s on released node %q (slot %d)", op, n.Name, n.ref.index))
	}
}

// debugCheckTreeDepth warns on stderr if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		debugWarn("tree depth %d exceeds %d (node %q)", depth, debugMaxTreeDepth, n.Name)
	}
}

// debugCheckChildCount warns on stderr if a node has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		debugWarn("node %q has %d children (threshold %d)", n.Name, len(n.children), debugMaxChildCount)
	}
}

// debugMaxSyncSpeed is the corrective speed above which a sync member is
// reported as jumping rather than converging.
const debugMaxSyncSpeed = 10

func debugCheckSyncSpeed(n *Node) {
	if math.IsNaN(n.syncSpeed) || math.Abs(n.syncSpeed) > debugMaxSyncSpeed {
		debugWarn("sync member %q corrective speed %.3f", n.Name, n.syncSpeed)
	}
}

func debugWarn(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, "[animgraph] warning: "+format+"\n", args...)
}
