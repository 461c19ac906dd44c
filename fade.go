package animgraph

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// weightFade drives one node weight linearly toward a target. State fades
// write the state's weight; layer fades write the layer's own weight. Fades
// advance by unscaled graph time.
type weightFade struct {
	tween  *gween.Tween
	target *Node
	to     float64
	done   bool
}

// newWeightFade starts a linear fade of n's weight from its current value to
// `to` over duration seconds.
func newWeightFade(n *Node, to, duration float64) *weightFade {
	return &weightFade{
		tween:  gween.New(float32(n.weight), float32(to), float32(duration), ease.Linear),
		target: n,
		to:     to,
	}
}

// update advances the fade by dt seconds and writes the weight. Returns true
// once the target weight has been reached. A fade whose node was released
// finishes immediately without writing.
func (f *weightFade) update(dt float64) bool {
	if f.done {
		return true
	}
	if f.target.released {
		f.done = true
		return true
	}
	val, finished := f.tween.Update(float32(dt))
	if finished {
		f.target.weight = f.to
	} else {
		f.target.weight = clamp01(float64(val))
	}
	f.done = finished
	return finished
}
