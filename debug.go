package anim

import (
	"fmt"
	"time"
)

// debugStats holds per-frame timing and pool metrics.
// Only populated when Scene.debug is true.
type debugStats struct {
	mixTime       time.Duration
	transformTime time.Duration
	mixers        int
	pools         MixerStats
}

// debugLog writes timing and pool stats to the package logger at debug level.
func (s *Scene) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	logger.Debug().
		Dur("mix", stats.mixTime).
		Dur("transform", stats.transformTime).
		Dur("total", stats.mixTime+stats.transformTime).
		Int("mixers", stats.mixers).
		Int("actions", stats.pools.ActiveActions).
		Int("bindings", stats.pools.ActiveBindings).
		Int("ramps", stats.pools.ActiveRamps).
		Msg("frame")
}

// debugCheckDisposed panics with a descriptive message when a disposed node is
// used in a tree operation. Callers skip this entirely outside debug mode.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("anim debug: %s on disposed node %q (%s)", op, n.Name, n.UUID))
	}
}

// debugCheckTreeDepth warns if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		logger.Warn().Str("node", n.Name).Int("depth", depth).Int("threshold", debugMaxTreeDepth).
			Msg("tree depth exceeds threshold")
	}
}

// debugCheckChildCount warns if a node has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		logger.Warn().Str("node", n.Name).Int("children", len(n.children)).Int("threshold", debugMaxChildCount).
			Msg("child count exceeds threshold")
	}
}

// sumStats adds up pool occupancy across mixers.
func sumStats(mixers []*Mixer) MixerStats {
	var total MixerStats
	for _, m := range mixers {
		st := m.Stats()
		total.Actions += st.Actions
		total.ActiveActions += st.ActiveActions
		total.Bindings += st.Bindings
		total.ActiveBindings += st.ActiveBindings
		total.Ramps += st.Ramps
		total.ActiveRamps += st.ActiveRamps
	}
	return total
}
