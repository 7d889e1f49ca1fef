package anim

// EventType identifies a mixer event.
type EventType uint8

const (
	EventFinished EventType = iota // an action ran out of repetitions
	EventLoop                      // an action wrapped around its clip
)

// String returns the event type name.
func (t EventType) String() string {
	switch t {
	case EventFinished:
		return "finished"
	case EventLoop:
		return "loop"
	}
	return "unknown"
}

// FinishedEvent fires from inside Mixer.Update when an action reaches the
// end of its last repetition. Direction is +1 when it finished playing
// forwards and -1 when it finished playing backwards.
type FinishedEvent struct {
	Action    *Action
	Direction int
}

// LoopEvent fires from inside Mixer.Update when a repeating action wraps.
// LoopDelta is the signed number of wraps this tick.
type LoopEvent struct {
	Action    *Action
	LoopDelta int
}

// EventStore is the interface for optional ECS integration. When set on a
// Mixer, finished and loop events are forwarded to it after the callbacks.
type EventStore interface {
	EmitEvent(event MixerEvent)
}

// MixerEvent is the flattened form of FinishedEvent and LoopEvent handed to
// an EventStore. Only plain values are carried so stores can queue events
// past the current tick.
type MixerEvent struct {
	Type      EventType
	Clip      string
	Root      string
	Time      float64
	Direction int // EventFinished only
	LoopDelta int // EventLoop only
}

func (m *Mixer) dispatchFinished(e FinishedEvent) {
	if m.OnFinished != nil {
		m.OnFinished(e)
	}
	if m.store != nil {
		m.store.EmitEvent(MixerEvent{
			Type:      EventFinished,
			Clip:      e.Action.clip.Name,
			Root:      e.Action.Root().targetName(),
			Time:      m.time,
			Direction: e.Direction,
		})
	}
}

func (m *Mixer) dispatchLoop(e LoopEvent) {
	if m.OnLoop != nil {
		m.OnLoop(e)
	}
	if m.store != nil {
		m.store.EmitEvent(MixerEvent{
			Type:      EventLoop,
			Clip:      e.Action.clip.Name,
			Root:      e.Action.Root().targetName(),
			Time:      m.time,
			LoopDelta: e.LoopDelta,
		})
	}
}
