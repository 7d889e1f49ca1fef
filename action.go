package anim

import "math"

// RepeatForever makes a repeating action loop without limit.
const RepeatForever = math.MaxInt

// Action schedules playback of one Clip on one root. Actions are created by
// Mixer.ClipAction and stay cached until uncached; Play and Stop only move
// them between the mixer's active and inactive sets.
//
// Exported fields may be changed at any time; they take effect on the next
// Mixer.Update.
type Action struct {
	// Loop is the wrap policy; Repetitions bounds LoopRepeat and
	// LoopPingPong (RepeatForever by default).
	Loop        LoopMode
	Repetitions int

	// Weight scales this action's contribution before fades are applied.
	Weight float64
	// TimeScale scales clip time; 0 freezes, negative plays backwards.
	TimeScale float64

	// Enabled gates the contribution entirely; Paused freezes time while
	// still contributing.
	Enabled bool
	Paused  bool

	// ClampWhenFinished holds the last frame when the action finishes
	// instead of disabling it.
	ClampWhenFinished bool

	// ZeroSlopeAtStart and ZeroSlopeAtEnd pick flat tangents at the clip
	// ends for smooth tracks; otherwise natural (zero curvature) ends are used.
	ZeroSlopeAtStart bool
	ZeroSlopeAtEnd   bool

	mixer     *Mixer
	clip      *Clip
	localRoot Target
	blendMode BlendMode

	time      float64
	loopCount int
	startTime float64
	scheduled bool

	effectiveWeight    float64
	effectiveTimeScale float64

	weightRamp    *controlRamp
	timeScaleRamp *controlRamp

	settings      interpolantSettings
	interpolants  []Interpolant
	propertyMixes []*PropertyMixer

	cacheIndex       int
	byClipCacheIndex int
}

func newAction(m *Mixer, clip *Clip, localRoot Target, mode BlendMode) *Action {
	n := len(clip.Tracks)
	return &Action{
		Loop:               LoopRepeat,
		Repetitions:        RepeatForever,
		Weight:             1,
		TimeScale:          1,
		Enabled:            true,
		ZeroSlopeAtStart:   true,
		ZeroSlopeAtEnd:     true,
		mixer:              m,
		clip:               clip,
		localRoot:          localRoot,
		blendMode:          mode,
		loopCount:          -1,
		effectiveWeight:    1,
		effectiveTimeScale: 1,
		settings: interpolantSettings{
			endingStart: EndingZeroCurvature,
			endingEnd:   EndingZeroCurvature,
		},
		interpolants:     make([]Interpolant, n),
		propertyMixes:    make([]*PropertyMixer, n),
		cacheIndex:       -1,
		byClipCacheIndex: -1,
	}
}

func (a *Action) poolIndex() int     { return a.cacheIndex }
func (a *Action) setPoolIndex(i int) { a.cacheIndex = i }

// --- State & scheduling ---

// Play schedules the action on its mixer. Idempotent.
func (a *Action) Play() *Action {
	a.mixer.activateAction(a)
	return a
}

// Stop unschedules the action, restores untouched properties and resets its
// playback state.
func (a *Action) Stop() *Action {
	a.mixer.deactivateAction(a)
	return a.Reset()
}

// Reset rewinds the action and clears pause, scheduled start, fades and
// warps. The action stays scheduled if it was.
func (a *Action) Reset() *Action {
	a.Paused = false
	a.Enabled = true
	a.time = 0
	a.loopCount = -1
	a.scheduled = false
	return a.StopFading().StopWarping()
}

// IsRunning reports whether the action is scheduled, enabled, unpaused,
// moving and past any delayed start.
func (a *Action) IsRunning() bool {
	return a.Enabled && !a.Paused && a.TimeScale != 0 && !a.scheduled && a.mixer.isActiveAction(a)
}

// IsScheduled reports whether the action is in the mixer's active set. It
// may still be paused, disabled or waiting for its start time.
func (a *Action) IsScheduled() bool {
	return a.mixer.isActiveAction(a)
}

// StartAt delays the action until the mixer clock reaches t.
func (a *Action) StartAt(t float64) *Action {
	a.startTime = t
	a.scheduled = true
	return a
}

// SetLoop sets the loop mode and repetition count.
func (a *Action) SetLoop(mode LoopMode, repetitions int) *Action {
	a.Loop = mode
	a.Repetitions = repetitions
	return a
}

// Time returns the local clip time.
func (a *Action) Time() float64 { return a.time }

// SetTime moves the local clip time without firing events.
func (a *Action) SetTime(t float64) *Action {
	a.time = t
	return a
}

// LoopCount returns the number of completed loops, -1 before the first tick.
func (a *Action) LoopCount() int { return a.loopCount }

// --- Weight ---

// SetEffectiveWeight sets Weight, cancels any fade and, if enabled, makes the
// new weight effective immediately.
func (a *Action) SetEffectiveWeight(w float64) *Action {
	a.Weight = w
	if a.Enabled {
		a.effectiveWeight = w
	} else {
		a.effectiveWeight = 0
	}
	return a.StopFading()
}

// EffectiveWeight returns the weight used in the most recent update,
// including fade and enabled gating.
func (a *Action) EffectiveWeight() float64 { return a.effectiveWeight }

// FadeIn ramps the weight factor from 0 to 1 over duration.
func (a *Action) FadeIn(duration float64) *Action {
	return a.scheduleFading(duration, 0, 1)
}

// FadeOut ramps the weight factor from 1 to 0 over duration; the action is
// disabled when the fade completes.
func (a *Action) FadeOut(duration float64) *Action {
	return a.scheduleFading(duration, 1, 0)
}

// CrossFadeFrom fades out the given action while fading this one in. With
// warp, both time scales are ramped by the ratio of clip durations so the two
// clips reach their opposite ends together.
func (a *Action) CrossFadeFrom(out *Action, duration float64, warp bool) *Action {
	out.FadeOut(duration)
	a.FadeIn(duration)

	if warp {
		fadeInDuration := a.clip.Duration
		fadeOutDuration := out.clip.Duration
		startEndRatio := fadeOutDuration / fadeInDuration
		endStartRatio := fadeInDuration / fadeOutDuration

		out.Warp(1, startEndRatio, duration)
		a.Warp(endStartRatio, 1, duration)
	}
	return a
}

// CrossFadeTo is CrossFadeFrom seen from the outgoing action.
func (a *Action) CrossFadeTo(in *Action, duration float64, warp bool) *Action {
	return in.CrossFadeFrom(a, duration, warp)
}

func (a *Action) scheduleFading(duration, from, to float64) *Action {
	r := a.weightRamp
	if r == nil {
		r = a.mixer.lendControlRamp()
		a.weightRamp = r
	}
	r.set(a.mixer.time, duration, from, to)
	return a
}

// StopFading cancels a running fade and returns its ramp to the mixer.
func (a *Action) StopFading() *Action {
	if r := a.weightRamp; r != nil {
		a.weightRamp = nil
		a.mixer.takeBackControlRamp(r)
	}
	return a
}

// --- Time scale ---

// SetEffectiveTimeScale sets TimeScale, cancels any warp and, unless paused,
// makes the new scale effective immediately.
func (a *Action) SetEffectiveTimeScale(s float64) *Action {
	a.TimeScale = s
	if a.Paused {
		a.effectiveTimeScale = 0
	} else {
		a.effectiveTimeScale = s
	}
	return a.StopWarping()
}

// EffectiveTimeScale returns the time scale used in the most recent update,
// including warp and pause gating.
func (a *Action) EffectiveTimeScale() float64 { return a.effectiveTimeScale }

// SetDuration sets TimeScale so one clip pass lasts duration.
func (a *Action) SetDuration(duration float64) *Action {
	a.TimeScale = a.clip.Duration / duration
	return a.StopWarping()
}

// SyncWith copies time and time scale from other.
func (a *Action) SyncWith(other *Action) *Action {
	a.time = other.time
	a.TimeScale = other.TimeScale
	return a.StopWarping()
}

// Halt ramps the effective time scale down to zero over duration, then
// pauses the action.
func (a *Action) Halt(duration float64) *Action {
	return a.Warp(a.effectiveTimeScale, 0, duration)
}

// Warp ramps the effective time scale from start to end over duration. The
// ramp is stored relative to the current TimeScale.
func (a *Action) Warp(start, end, duration float64) *Action {
	r := a.timeScaleRamp
	if r == nil {
		r = a.mixer.lendControlRamp()
		a.timeScaleRamp = r
	}
	r.set(a.mixer.time, duration, start/a.TimeScale, end/a.TimeScale)
	return a
}

// StopWarping cancels a running warp and returns its ramp to the mixer.
func (a *Action) StopWarping() *Action {
	if r := a.timeScaleRamp; r != nil {
		a.timeScaleRamp = nil
		a.mixer.takeBackControlRamp(r)
	}
	return a
}

// --- Accessors ---

// Mixer returns the mixer that owns this action.
func (a *Action) Mixer() *Mixer { return a.mixer }

// Clip returns the clip this action plays.
func (a *Action) Clip() *Clip { return a.clip }

// Root returns the action's own root, or the mixer root when none was given.
func (a *Action) Root() Target {
	if a.localRoot != nil {
		return a.localRoot
	}
	return a.mixer.root
}

// BlendMode returns how this action composites into property mixers.
func (a *Action) BlendMode() BlendMode { return a.blendMode }

// --- Per-frame update ---

func (a *Action) update(time, deltaTime, timeDirection float64, accuIndex int) {
	if !a.Enabled {
		a.updateWeight(time)
		return
	}

	if a.scheduled {
		running := (time - a.startTime) * timeDirection
		if running < 0 || timeDirection == 0 {
			deltaTime = 0
		} else {
			a.scheduled = false
			deltaTime = timeDirection * running
		}
	}

	deltaTime *= a.updateTimeScale(time)
	clipTime := a.updateTime(deltaTime)

	weight := a.updateWeight(time)
	if weight <= 0 {
		return
	}

	switch a.blendMode {
	case BlendAdditive:
		for i, interp := range a.interpolants {
			interp.Evaluate(clipTime)
			a.propertyMixes[i].accumulateAdditive(weight)
		}
	default:
		for i, interp := range a.interpolants {
			interp.Evaluate(clipTime)
			a.propertyMixes[i].accumulate(accuIndex, weight)
		}
	}
}

func (a *Action) updateWeight(time float64) float64 {
	weight := 0.0
	if a.Enabled {
		weight = a.Weight
		if r := a.weightRamp; r != nil {
			v := r.evaluate(time)
			weight *= v
			if r.finished(time) {
				a.StopFading()
				if v == 0 {
					// faded out
					a.Enabled = false
				}
			}
		}
	}
	a.effectiveWeight = weight
	return weight
}

func (a *Action) updateTimeScale(time float64) float64 {
	timeScale := 0.0
	if !a.Paused {
		timeScale = a.TimeScale
		if r := a.timeScaleRamp; r != nil {
			timeScale *= r.evaluate(time)
			if r.finished(time) {
				a.StopWarping()
				if timeScale == 0 {
					// motion has halted
					a.Paused = true
				} else {
					a.TimeScale = timeScale
				}
			}
		}
	}
	a.effectiveTimeScale = timeScale
	return timeScale
}

// updateTime advances local time by deltaTime under the loop policy and
// returns the time to sample the clip at.
func (a *Action) updateTime(deltaTime float64) float64 {
	duration := a.clip.Duration
	t := a.time + deltaTime
	loopCount := a.loopCount
	pingPong := a.Loop == LoopPingPong

	if deltaTime == 0 {
		if loopCount == -1 {
			return t
		}
		if pingPong && loopCount&1 == 1 {
			return duration - t
		}
		return t
	}

	if a.Loop == LoopOnce {
		if loopCount == -1 {
			// just started
			a.loopCount = 0
			a.setEndings(true, true, false)
		}

		switch {
		case t >= duration:
			t = duration
		case t < 0:
			t = 0
		default:
			a.time = t
			return t
		}

		if a.ClampWhenFinished {
			a.Paused = true
		} else {
			a.Enabled = false
		}
		a.time = t
		direction := 1
		if deltaTime < 0 {
			direction = -1
		}
		a.mixer.dispatchFinished(FinishedEvent{Action: a, Direction: direction})
		return t
	}

	// LoopRepeat and LoopPingPong
	if loopCount == -1 {
		// just started
		if deltaTime >= 0 {
			loopCount = 0
			a.setEndings(true, a.Repetitions == 0, pingPong)
		} else {
			// when looping in reverse, the initial transition through zero
			// counts as a repetition, so loopCount stays at -1
			a.setEndings(a.Repetitions == 0, true, pingPong)
		}
	}

	if duration <= 0 {
		// a single-pose clip has nothing to wrap
		a.loopCount = loopCount
		a.time = 0
		return 0
	}

	if t >= duration || t < 0 {
		loopDelta := int(math.Floor(t / duration))
		t -= duration * float64(loopDelta)
		loopCount += absInt(loopDelta)

		pending := a.Repetitions - loopCount
		if pending <= 0 {
			if a.ClampWhenFinished {
				a.Paused = true
			} else {
				a.Enabled = false
			}
			direction := -1
			t = 0
			if deltaTime > 0 {
				direction = 1
				t = duration
			}
			a.time = t
			a.loopCount = loopCount
			a.mixer.dispatchFinished(FinishedEvent{Action: a, Direction: direction})
		} else {
			if pending == 1 {
				// entering the last round
				atStart := deltaTime < 0
				a.setEndings(atStart, !atStart, pingPong)
			} else {
				a.setEndings(false, false, pingPong)
			}
			a.loopCount = loopCount
			a.time = t
			a.mixer.dispatchLoop(LoopEvent{Action: a, LoopDelta: loopDelta})
		}
	} else {
		a.loopCount = loopCount
		a.time = t
	}

	if pingPong && loopCount&1 == 1 {
		// the "pong" pass plays backwards
		return duration - t
	}
	return t
}

func (a *Action) setEndings(atStart, atEnd, pingPong bool) {
	s := &a.settings
	if pingPong {
		s.endingStart = EndingZeroSlope
		s.endingEnd = EndingZeroSlope
		return
	}

	// LoopOnce passes atStart == atEnd == true
	switch {
	case !atStart:
		s.endingStart = EndingWrapAround
	case a.ZeroSlopeAtStart:
		s.endingStart = EndingZeroSlope
	default:
		s.endingStart = EndingZeroCurvature
	}
	switch {
	case !atEnd:
		s.endingEnd = EndingWrapAround
	case a.ZeroSlopeAtEnd:
		s.endingEnd = EndingZeroSlope
	default:
		s.endingEnd = EndingZeroCurvature
	}
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
