package animgraph

import (
	"fmt"
	"math"
	"sort"
)

// Clip is the immutable playback description of one animation clip: its
// duration in seconds, loop flag and timeline events. Sampling bones is the
// compositor's job; the graph only reads these three values.
type Clip struct {
	name     string
	duration float64
	loop     bool
	events   []Event
}

// NewClip validates and returns a clip. Events are copied and sorted by
// normalized time.
func NewClip(name string, duration float64, loop bool, events ...Event) (*Clip, error) {
	if duration < 0 || math.IsNaN(duration) || math.IsInf(duration, 0) {
		return nil, fmt.Errorf("animgraph: clip %q duration %v: %w", name, duration, ErrInvalidDuration)
	}
	sorted := make([]Event, len(events))
	copy(sorted, events)
	for _, e := range sorted {
		if !(e.NormalizedTime >= 0 && e.NormalizedTime < 1) {
			return nil, fmt.Errorf("animgraph: clip %q event %q at %v: %w", name, e.Name, e.NormalizedTime, ErrEventRange)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].NormalizedTime < sorted[j].NormalizedTime
	})
	return &Clip{name: name, duration: duration, loop: loop, events: sorted}, nil
}

func (c *Clip) contentKind() NodeKind { return NodeKindClip }

// Name returns the clip name.
func (c *Clip) Name() string { return c.name }

// Duration returns the clip length in seconds.
func (c *Clip) Duration() float64 { return c.duration }

// IsLooping reports whether the clip wraps at its end.
func (c *Clip) IsLooping() bool { return c.loop }

// Events returns the clip events in ascending order. The returned slice MUST
// NOT be mutated by the caller.
func (c *Clip) Events() []Event { return c.events }
