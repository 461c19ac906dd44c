package animgraph

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// NodeKind distinguishes the behavior of a Node. Variant-specific accessors
// answer "not applicable" for kinds they do not belong to.
type NodeKind uint8

const (
	NodeKindRoot          NodeKind = iota // graph root; runs the pre-update hook
	NodeKindLayers                        // ordered container of layers
	NodeKindLayer                         // one layer and its transition state
	NodeKindPostProcessor                 // runs the post-update hook
	NodeKindClip                          // leaf playing one clip
	NodeKindBlend1D                       // children weighted by a scalar parameter
	NodeKindBlend2D                       // children weighted by a 2D parameter
)

func (k NodeKind) String() string {
	switch k {
	case NodeKindRoot:
		return "root"
	case NodeKindLayers:
		return "layers"
	case NodeKindLayer:
		return "layer"
	case NodeKindPostProcessor:
		return "postprocessor"
	case NodeKindClip:
		return "clip"
	case NodeKindBlend1D:
		return "blend1d"
	case NodeKindBlend2D:
		return "blend2d"
	default:
		return "unknown"
	}
}

// IsState reports whether nodes of this kind carry playback time.
func (k NodeKind) IsState() bool {
	return k >= NodeKindClip || k == NodeKindLayer
}

// isComposite reports whether time and length are aggregated over children.
func (k NodeKind) isComposite() bool {
	return k == NodeKindLayer || k == NodeKindBlend1D || k == NodeKindBlend2D
}

// Blend2DMode selects how 2D thresholds are compared with the parameter.
type Blend2DMode uint8

const (
	Blend2DCartesian   Blend2DMode = iota // gradient band interpolation in cartesian space
	Blend2DDirectional                    // gradient band interpolation in polar space
)

// dirtyFlags marks derived values a node must recompute before the next read.
type dirtyFlags uint8

const (
	flagBlendParam dirtyFlags = 1 << iota // blend weights are stale
	flagSync                              // node owns a sync group to solve each frame
)

// Event is a named marker on a clip timeline. NormalizedTime is in [0, 1).
type Event struct {
	NormalizedTime float64
	Name           string
}

// EventKind identifies what a TimelineEvent reports.
type EventKind uint8

const (
	EventMarker EventKind = iota // a clip event position was crossed
	EventEnd                     // a non-looping state finished a playback pass
)

// Ref is a generation-checked reference to a node. Refs of released nodes
// resolve to nil through Graph.Lookup. The zero Ref is never valid.
type Ref struct {
	index uint32
	gen   uint32
}

// IsZero reports whether r is the zero Ref.
func (r Ref) IsZero() bool {
	return r.gen == 0
}

// Content is something the graph can instantiate as a state: *Clip, *Blend1D
// or *Blend2D. Identity is pointer identity.
type Content interface {
	contentKind() NodeKind
}

var (
	// ErrEmptyBlend is returned when blend content has no entries.
	ErrEmptyBlend = errors.New("animgraph: blend has no entries")
	// ErrThresholdOrder is returned when 1D thresholds are not strictly ascending.
	ErrThresholdOrder = errors.New("animgraph: thresholds must be strictly ascending")
	// ErrInvalidThreshold is returned for NaN or infinite blend thresholds.
	ErrInvalidThreshold = errors.New("animgraph: threshold must be finite")
	// ErrDuplicateThreshold is returned when two 2D thresholds coincide.
	ErrDuplicateThreshold = errors.New("animgraph: duplicate 2D threshold")
	// ErrNilClip is returned when blend content references a nil clip.
	ErrNilClip = errors.New("animgraph: nil clip")
	// ErrInvalidDuration is returned for negative or non-finite clip durations.
	ErrInvalidDuration = errors.New("animgraph: invalid clip duration")
	// ErrEventRange is returned for clip events outside [0, 1).
	ErrEventRange = errors.New("animgraph: event time outside [0, 1)")
)

// signedAngle returns the signed angle in radians from a to b, or 0 when
// either vector is zero.
func signedAngle(a, b r2.Vec) float64 {
	if (a.X == 0 && a.Y == 0) || (b.X == 0 && b.Y == 0) {
		return 0
	}
	return math.Atan2(r2.Cross(a, b), r2.Dot(a, b))
}

// invSquared scales v by 1/|v|², the zero vector when |v| is 0.
func invSquared(v r2.Vec) r2.Vec {
	n2 := r2.Norm2(v)
	if n2 == 0 {
		return r2.Vec{}
	}
	return r2.Scale(1/n2, v)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func isFiniteVec(v r2.Vec) bool {
	return isFinite(v.X) && isFinite(v.Y)
}
