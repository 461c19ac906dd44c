// Package metrics exports animgraph pool and playback statistics to
// Prometheus.
//
// Graphs are driven from a single game-loop goroutine while Prometheus
// scrapes from another, so the collector never reads a graph during a
// scrape. Call [Collector.Observe] from the game loop after updating; the
// scrape reports the last observed snapshot.
//
//	c := metrics.NewCollector("game", hero, enemy)
//	prometheus.MustRegister(c)
//
//	// each frame, after Update
//	c.Observe()
package metrics

import (
	"sync"

	"github.com/phanxgames/animgraph"
	"github.com/prometheus/client_golang/prometheus"
)

const subsystem = "animgraph"

// Collector is a prometheus.Collector over a set of graphs.
type Collector struct {
	mu        sync.Mutex
	graphs    []*animgraph.Graph
	snapshots []animgraph.DebugInfo

	states     *prometheus.Desc
	young      *prometheus.Desc
	old        *prometheus.Desc
	freeSlots  *prometheus.Desc
	playing    *prometheus.Desc
	clock      *prometheus.Desc
	layerCount *prometheus.Desc
}

// NewCollector creates a collector reporting under namespace for graphs.
func NewCollector(namespace string, graphs ...*animgraph.Graph) *Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(
			prometheus.BuildFQName(namespace, subsystem, name),
			help, []string{"graph"}, nil)
	}
	c := &Collector{
		states:     desc("states", "Number of states (young and old) across all layers."),
		young:      desc("young_states", "Number of states that are weighted, fading or targeted."),
		old:        desc("old_states", "Number of zero-weight states retained for reuse."),
		freeSlots:  desc("free_slots", "Number of released node slots awaiting reuse."),
		playing:    desc("playing", "1 if the graph advances on Update, 0 otherwise."),
		clock:      desc("clock_seconds", "Accumulated evaluated time."),
		layerCount: desc("layers", "Number of layers, base layer included."),
	}
	for _, g := range graphs {
		c.Add(g)
	}
	return c
}

// Add starts observing g. Adding a graph twice is a no-op.
func (c *Collector) Add(g *animgraph.Graph) {
	if g == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, have := range c.graphs {
		if have == g {
			return
		}
	}
	c.graphs = append(c.graphs, g)
	c.snapshots = append(c.snapshots, g.DebugInfo())
}

// Remove stops observing g.
func (c *Collector) Remove(g *animgraph.Graph) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, have := range c.graphs {
		if have == g {
			c.graphs = append(c.graphs[:i], c.graphs[i+1:]...)
			c.snapshots = append(c.snapshots[:i], c.snapshots[i+1:]...)
			return
		}
	}
}

// Observe snapshots every graph. Call it from the goroutine that drives the
// graphs.
func (c *Collector) Observe() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, g := range c.graphs {
		c.snapshots[i] = g.DebugInfo()
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.states
	ch <- c.young
	ch <- c.old
	ch <- c.freeSlots
	ch <- c.playing
	ch <- c.clock
	ch <- c.layerCount
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, info := range c.snapshots {
		if !info.IsValid {
			continue
		}
		playing := 0.0
		if info.IsPlaying {
			playing = 1
		}
		ch <- prometheus.MustNewConstMetric(c.states, prometheus.GaugeValue, float64(info.StateCount), info.Name)
		ch <- prometheus.MustNewConstMetric(c.young, prometheus.GaugeValue, float64(info.YoungCount), info.Name)
		ch <- prometheus.MustNewConstMetric(c.old, prometheus.GaugeValue, float64(info.OldCount), info.Name)
		ch <- prometheus.MustNewConstMetric(c.freeSlots, prometheus.GaugeValue, float64(info.FreeSlots), info.Name)
		ch <- prometheus.MustNewConstMetric(c.playing, prometheus.GaugeValue, playing, info.Name)
		ch <- prometheus.MustNewConstMetric(c.clock, prometheus.GaugeValue, info.Clock, info.Name)
		ch <- prometheus.MustNewConstMetric(c.layerCount, prometheus.GaugeValue, float64(info.LayerCount), info.Name)
	}
}
