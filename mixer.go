package anim

import (
	"errors"
	"fmt"
)

// ErrClipNotFound is returned when a clip name does not resolve.
var ErrClipNotFound = errors.New("anim: clip not found")

// clipActions indexes the actions of one clip.
type clipActions struct {
	knownActions []*Action
	actionByRoot map[string]*Action
}

// Mixer plays clips against a root node. It caches one Action per
// (clip, root) pair and one PropertyMixer per (root, track) pair, and on
// every Update ticks the active actions and writes the blended results back.
//
// A Mixer is not safe for concurrent use.
type Mixer struct {
	// OnFinished and OnLoop are called synchronously from inside Update.
	// They may play, stop or reschedule actions on this mixer; see Update
	// for how that interacts with the current tick.
	OnFinished func(FinishedEvent)
	OnLoop     func(LoopEvent)

	root      *Node
	time      float64
	timeScale float64
	accuIndex int
	store     EventStore

	actions       pool[*Action]
	actionsByClip map[string]*clipActions

	bindings       pool[*PropertyMixer]
	bindingsByRoot map[string]map[string]*PropertyMixer

	ramps pool[*controlRamp]
}

// MixerOption configures a Mixer.
type MixerOption func(*Mixer)

// WithTimeScale sets the global time scale applied to every Update.
func WithTimeScale(s float64) MixerOption {
	return func(m *Mixer) { m.timeScale = s }
}

// WithEventStore forwards finished and loop events to store.
func WithEventStore(store EventStore) MixerOption {
	return func(m *Mixer) { m.store = store }
}

// NewMixer creates a mixer driving root.
func NewMixer(root *Node, opts ...MixerOption) *Mixer {
	if root == nil {
		panic("anim: NewMixer with nil root")
	}
	m := &Mixer{
		root:           root,
		timeScale:      1,
		actionsByClip:  make(map[string]*clipActions),
		bindingsByRoot: make(map[string]map[string]*PropertyMixer),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Root returns the mixer's default root.
func (m *Mixer) Root() *Node { return m.root }

// Time returns the mixer clock.
func (m *Mixer) Time() float64 { return m.time }

// TimeScale returns the global time scale.
func (m *Mixer) TimeScale() float64 { return m.timeScale }

// SetTimeScale sets the global time scale. 0 freezes every action.
func (m *Mixer) SetTimeScale(s float64) { m.timeScale = s }

// SetEventStore sets the optional ECS bridge. Pass nil to detach.
func (m *Mixer) SetEventStore(store EventStore) { m.store = store }

// ClipAction returns the action for clip on root, creating it on first use.
// A nil root means the mixer root. The clip's own blend mode is used.
func (m *Mixer) ClipAction(clip *Clip, root Target) (*Action, error) {
	if clip == nil {
		return nil, errors.New("anim: ClipAction with nil clip")
	}
	return m.ClipActionMode(clip, root, clip.BlendMode)
}

// ClipActionByName looks the clip up by name, first in root's animations
// and then in the mixer root's and the mixer's cached clips.
func (m *Mixer) ClipActionByName(name string, root Target) (*Action, error) {
	clip := m.findClip(name, root)
	if clip == nil {
		return nil, fmt.Errorf("%w: %q", ErrClipNotFound, name)
	}
	return m.ClipActionMode(clip, root, clip.BlendMode)
}

// ClipActionMode is ClipAction with an explicit blend mode. An existing
// action for the same clip and root is only reused when its blend mode
// matches; otherwise a new action is created and becomes the cached one.
//
// Track paths are parsed here. A malformed path returns an error wrapping
// ErrInvalidTrackName and leaves the mixer unchanged.
func (m *Mixer) ClipActionMode(clip *Clip, root Target, mode BlendMode) (*Action, error) {
	if clip == nil {
		return nil, errors.New("anim: ClipAction with nil clip")
	}
	r := root
	if r == nil {
		r = m.root
	}
	rootUUID := r.targetUUID()

	var proto *Action
	if ca := m.actionsByClip[clip.UUID]; ca != nil {
		if existing := ca.actionByRoot[rootUUID]; existing != nil && existing.blendMode == mode {
			return existing, nil
		}
		proto = ca.knownActions[0]
	}

	if proto == nil {
		for _, track := range clip.Tracks {
			if _, err := ParseTrackName(track.Name); err != nil {
				return nil, fmt.Errorf("anim: clip %q: %w", clip.Name, err)
			}
		}
	}

	a := newAction(m, clip, root, mode)
	if err := m.bindAction(a, proto); err != nil {
		return nil, err
	}
	m.addInactiveAction(a, clip.UUID, rootUUID)
	return a, nil
}

// ExistingAction returns the cached action for clip on root, or nil. It
// never allocates.
func (m *Mixer) ExistingAction(clip *Clip, root Target) *Action {
	if clip == nil {
		return nil
	}
	return m.existingAction(clip.UUID, root)
}

// ExistingActionByName is ExistingAction with a clip name.
func (m *Mixer) ExistingActionByName(name string, root Target) *Action {
	clip := m.findClip(name, root)
	if clip == nil {
		return nil
	}
	return m.existingAction(clip.UUID, root)
}

func (m *Mixer) existingAction(clipUUID string, root Target) *Action {
	if root == nil {
		root = m.root
	}
	if ca := m.actionsByClip[clipUUID]; ca != nil {
		return ca.actionByRoot[root.targetUUID()]
	}
	return nil
}

func (m *Mixer) findClip(name string, root Target) *Clip {
	if n, ok := root.(*Node); ok && n != nil {
		if c := n.FindAnimation(name); c != nil {
			return c
		}
	}
	if c := m.root.FindAnimation(name); c != nil {
		return c
	}
	// cached clips are searched in pool order, active actions first
	for _, a := range m.actions.items {
		if a.clip.Name == name {
			return a.clip
		}
	}
	return nil
}

// StopAllAction stops every active action, walking the active set from the
// back so demotion never skips an element.
func (m *Mixer) StopAllAction() {
	for i := m.actions.active - 1; i >= 0; i-- {
		m.actions.items[i].Stop()
	}
}

// Update advances the mixer clock by dt (scaled by the mixer time scale),
// ticks every active action and applies every active property mixer.
//
// The number of active actions is read once before ticking. Actions started
// by an event callback are first ticked on the next Update; an action
// stopped by a callback may move a not-yet-ticked action into an already
// visited slot, and that action then misses this tick.
func (m *Mixer) Update(dt float64) {
	dt *= m.timeScale

	m.time += dt
	time := m.time

	direction := 0.0
	switch {
	case dt > 0:
		direction = 1
	case dt < 0:
		direction = -1
	}

	m.accuIndex ^= 1
	accuIndex := m.accuIndex

	n := m.actions.active
	for i := 0; i < n && i < len(m.actions.items); i++ {
		m.actions.items[i].update(time, dt, direction, accuIndex)
	}

	for i := 0; i < m.bindings.active; i++ {
		m.bindings.items[i].apply(accuIndex)
	}
}

// SetTime rewinds the mixer and every cached action to zero and then updates
// by t. Loop and finished events between the old and new time are not
// replayed.
func (m *Mixer) SetTime(t float64) {
	m.time = 0
	for _, a := range m.actions.items {
		a.time = 0
	}
	m.Update(t)
}

// UncacheClip deactivates and forgets every action of clip. A nil clip is a
// no-op.
func (m *Mixer) UncacheClip(clip *Clip) {
	if clip == nil {
		return
	}
	ca := m.actionsByClip[clip.UUID]
	if ca == nil {
		return
	}
	for _, a := range ca.knownActions {
		m.deactivateAction(a)
		m.actions.remove(a)
		a.byClipCacheIndex = -1
		m.removeInactiveBindingsForAction(a)
	}
	delete(m.actionsByClip, clip.UUID)
}

// UncacheRoot deactivates and forgets every action on root along with its
// property mixers. A nil root means the mixer root.
func (m *Mixer) UncacheRoot(root Target) {
	if root == nil {
		root = m.root
	}
	rootUUID := root.targetUUID()
	for _, ca := range m.actionsByClip {
		known := append([]*Action(nil), ca.knownActions...)
		for _, a := range known {
			if a.Root().targetUUID() == rootUUID {
				m.deactivateAction(a)
				m.removeInactiveAction(a)
			}
		}
	}
	for _, pm := range m.bindingsByRoot[rootUUID] {
		if pm.useCount == 0 {
			m.removeInactiveBinding(pm)
		}
	}
}

// UncacheAction deactivates and forgets the action for clip on root. A nil
// root means the mixer root.
func (m *Mixer) UncacheAction(clip *Clip, root Target) {
	if a := m.ExistingAction(clip, root); a != nil {
		m.deactivateAction(a)
		m.removeInactiveAction(a)
	}
}

// MixerStats reports pool occupancy.
type MixerStats struct {
	Actions        int
	ActiveActions  int
	Bindings       int
	ActiveBindings int
	Ramps          int
	ActiveRamps    int
}

// Stats returns the current pool occupancy.
func (m *Mixer) Stats() MixerStats {
	return MixerStats{
		Actions:        m.actions.len(),
		ActiveActions:  m.actions.active,
		Bindings:       m.bindings.len(),
		ActiveBindings: m.bindings.active,
		Ramps:          m.ramps.len(),
		ActiveRamps:    m.ramps.active,
	}
}

// --- Action lifecycle ---

func (m *Mixer) isActiveAction(a *Action) bool {
	return m.actions.isActive(a)
}

func (m *Mixer) activateAction(a *Action) {
	if m.isActiveAction(a) {
		return
	}
	if a.cacheIndex == -1 {
		// uncached earlier; bind and register again
		rootUUID := a.Root().targetUUID()
		var proto *Action
		if ca := m.actionsByClip[a.clip.UUID]; ca != nil {
			proto = ca.knownActions[0]
		}
		if err := m.bindAction(a, proto); err != nil {
			logger.Error().Err(err).Str("clip", a.clip.Name).Msg("cannot rebind action")
			return
		}
		m.addInactiveAction(a, a.clip.UUID, rootUUID)
	}

	for _, pm := range a.propertyMixes {
		if pm.useCount == 0 {
			m.bindings.activate(pm)
			pm.saveOriginalState()
		}
		pm.useCount++
	}
	m.actions.activate(a)
}

func (m *Mixer) deactivateAction(a *Action) {
	if !m.isActiveAction(a) {
		return
	}
	for _, pm := range a.propertyMixes {
		pm.useCount--
		if pm.useCount == 0 {
			pm.restoreOriginalState()
			m.bindings.deactivate(pm)
		}
	}
	m.actions.deactivate(a)
}

// bindAction attaches a property mixer and an interpolant to every track of
// a. Property mixers are shared per (root, track name); proto, when given,
// is another action of the same clip whose parsed paths are reused.
func (m *Mixer) bindAction(a *Action, proto *Action) error {
	root := a.Root()
	rootUUID := root.targetUUID()

	byName := m.bindingsByRoot[rootUUID]
	if byName == nil {
		byName = make(map[string]*PropertyMixer)
		m.bindingsByRoot[rootUUID] = byName
	}

	for i, track := range a.clip.Tracks {
		pm := byName[track.Name]
		switch {
		case pm != nil:
			pm.referenceCount++
			a.propertyMixes[i] = pm

		case a.propertyMixes[i] != nil:
			// the action kept its mixer while uncached
			pm = a.propertyMixes[i]
			if pm.cacheIndex == -1 {
				pm.referenceCount++
				m.addInactiveBinding(pm, rootUUID, track.Name)
			}

		default:
			var parsed *ParsedPath
			if proto != nil && proto.propertyMixes[i] != nil {
				p := proto.propertyMixes[i].binding.parsedPath()
				parsed = &p
			}
			b, err := newBinding(root, track.Name, parsed)
			if err != nil {
				return fmt.Errorf("anim: clip %q: %w", a.clip.Name, err)
			}
			pm = newPropertyMixer(b, rootUUID, track.Name, track.Kind, track.ValueSize())
			pm.referenceCount++
			m.addInactiveBinding(pm, rootUUID, track.Name)
			a.propertyMixes[i] = pm
		}
		a.interpolants[i] = track.createInterpolant(&pm.buffer, &a.settings)
	}
	return nil
}

func (m *Mixer) addInactiveAction(a *Action, clipUUID, rootUUID string) {
	ca := m.actionsByClip[clipUUID]
	if ca == nil {
		ca = &clipActions{actionByRoot: make(map[string]*Action)}
		m.actionsByClip[clipUUID] = ca
	}
	a.byClipCacheIndex = len(ca.knownActions)
	ca.knownActions = append(ca.knownActions, a)
	m.actions.add(a)
	ca.actionByRoot[rootUUID] = a
}

func (m *Mixer) removeInactiveAction(a *Action) {
	m.actions.remove(a)

	clipUUID := a.clip.UUID
	ca := m.actionsByClip[clipUUID]
	known := ca.knownActions
	last := len(known) - 1
	lastKnown := known[last]
	idx := a.byClipCacheIndex
	lastKnown.byClipCacheIndex = idx
	known[idx] = lastKnown
	known[last] = nil
	ca.knownActions = known[:last]
	a.byClipCacheIndex = -1

	rootUUID := a.Root().targetUUID()
	if ca.actionByRoot[rootUUID] == a {
		delete(ca.actionByRoot, rootUUID)
	}
	if len(ca.knownActions) == 0 {
		delete(m.actionsByClip, clipUUID)
	}

	m.removeInactiveBindingsForAction(a)
}

// --- Property mixer lifecycle ---

func (m *Mixer) addInactiveBinding(pm *PropertyMixer, rootUUID, trackName string) {
	byName := m.bindingsByRoot[rootUUID]
	if byName == nil {
		byName = make(map[string]*PropertyMixer)
		m.bindingsByRoot[rootUUID] = byName
	}
	byName[trackName] = pm
	m.bindings.add(pm)
}

func (m *Mixer) removeInactiveBinding(pm *PropertyMixer) {
	m.bindings.remove(pm)
	byName := m.bindingsByRoot[pm.rootUUID]
	if byName[pm.trackName] == pm {
		delete(byName, pm.trackName)
	}
	if len(byName) == 0 {
		delete(m.bindingsByRoot, pm.rootUUID)
	}
}

func (m *Mixer) removeInactiveBindingsForAction(a *Action) {
	for _, pm := range a.propertyMixes {
		pm.referenceCount--
		if pm.referenceCount == 0 {
			m.removeInactiveBinding(pm)
		}
	}
}

// --- Control ramps ---

func (m *Mixer) lendControlRamp() *controlRamp {
	if r, ok := m.ramps.lend(); ok {
		return r
	}
	r := newControlRamp()
	m.ramps.add(r)
	m.ramps.activate(r)
	return r
}

func (m *Mixer) takeBackControlRamp(r *controlRamp) {
	m.ramps.deactivate(r)
}
