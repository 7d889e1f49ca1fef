package anim

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Scene is the top-level object that owns the node tree, the mixers driving
// it and any free-running tweens.
type Scene struct {
	root   *Node
	store  EventStore
	debug  bool
	mixers []*Mixer
	tweens []*TweenGroup
	script *ScriptRunner
}

// NewScene creates a new scene with a pre-created root node.
func NewScene() *Scene {
	return &Scene{root: NewNode("root")}
}

// Root returns the scene's root node.
func (s *Scene) Root() *Node {
	return s.root
}

// NewMixer creates a mixer for root (the scene root when nil) and registers
// it so Update drives it. The scene's event store, if any, is attached
// before opts run.
func (s *Scene) NewMixer(root *Node, opts ...MixerOption) *Mixer {
	if root == nil {
		root = s.root
	}
	if s.store != nil {
		opts = append([]MixerOption{WithEventStore(s.store)}, opts...)
	}
	m := NewMixer(root, opts...)
	s.mixers = append(s.mixers, m)
	return m
}

// RemoveMixer stops every action of m and unregisters it.
func (s *Scene) RemoveMixer(m *Mixer) {
	for i, c := range s.mixers {
		if c == m {
			m.StopAllAction()
			copy(s.mixers[i:], s.mixers[i+1:])
			s.mixers[len(s.mixers)-1] = nil
			s.mixers = s.mixers[:len(s.mixers)-1]
			return
		}
	}
}

// Mixers returns the registered mixers. The returned slice MUST NOT be mutated.
func (s *Scene) Mixers() []*Mixer {
	return s.mixers
}

// AddTween registers a tween group to be advanced by Update. Finished groups
// are dropped automatically.
func (s *Scene) AddTween(g *TweenGroup) {
	s.tweens = append(s.tweens, g)
}

// Update advances the scene by one tick at the current ebiten TPS.
func (s *Scene) Update() {
	s.UpdateDelta(1.0 / float64(ebiten.TPS()))
}

// UpdateDelta advances every mixer and tween by dt seconds, then refreshes
// world transforms.
func (s *Scene) UpdateDelta(dt float64) {
	if s.script != nil {
		s.script.Step(s)
	}

	var stats debugStats
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	for _, m := range s.mixers {
		m.Update(dt)
	}
	s.updateTweens(float32(dt))

	if s.debug {
		stats.mixTime = time.Since(t0)
		t0 = time.Now()
	}

	s.root.UpdateWorld()

	if s.debug {
		stats.transformTime = time.Since(t0)
		stats.mixers = len(s.mixers)
		stats.pools = sumStats(s.mixers)
		s.debugLog(stats)
	}
}

func (s *Scene) updateTweens(dt float32) {
	live := s.tweens[:0]
	for _, g := range s.tweens {
		g.Update(dt)
		if !g.Done {
			live = append(live, g)
		}
	}
	for i := len(live); i < len(s.tweens); i++ {
		s.tweens[i] = nil
	}
	s.tweens = live
}

// SetEventStore sets the optional ECS bridge on the scene and every mixer
// it owns.
func (s *Scene) SetEventStore(store EventStore) {
	s.store = store
	for _, m := range s.mixers {
		m.SetEventStore(store)
	}
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-node
// access panics, tree depth and child count warnings are logged, and
// per-frame timing stats are logged at debug level.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
}

// globalDebug mirrors the most recently set Scene debug flag so that node
// operations (which lack a Scene pointer) can check it cheaply. Only valid
// with a single Scene.
var globalDebug bool
