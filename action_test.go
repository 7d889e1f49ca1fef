package anim

import (
	"math"
	"testing"
)

func alphaClip(name string, duration, from, to float64) *Clip {
	return NewClip(name, duration, []*Track{
		NewNumberTrack(".alpha", []float64{0, duration}, []float64{from, to}),
	}, BlendNormal)
}

func mustAction(t *testing.T, m *Mixer, clip *Clip) *Action {
	t.Helper()
	a, err := m.ClipAction(clip, nil)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

// --- Loop policies ---

func TestActionLoopOnceFinishesOnce(t *testing.T) {
	n := NewNode("n")
	n.Alpha = 0.25
	m := NewMixer(n)
	a := mustAction(t, m, alphaClip("once", 1, 0, 1))
	a.SetLoop(LoopOnce, 1).Play()

	var finished []FinishedEvent
	m.OnFinished = func(e FinishedEvent) { finished = append(finished, e) }

	for i := 0; i < 5; i++ {
		m.Update(0.4)
	}

	if len(finished) != 1 {
		t.Fatalf("finished fired %d times, want 1", len(finished))
	}
	if finished[0].Action != a || finished[0].Direction != 1 {
		t.Errorf("event = %+v", finished[0])
	}
	if a.Time() != 1 {
		t.Errorf("Time = %v, want 1", a.Time())
	}
	if a.Enabled {
		t.Error("action should be disabled after finishing without clamp")
	}
	if n.Alpha != 0.25 {
		t.Errorf("Alpha = %v, want original 0.25 once the action stops contributing", n.Alpha)
	}
}

func TestActionZeroDurationPoseRepeats(t *testing.T) {
	n := NewNode("n")
	n.Alpha = 0.1
	m := NewMixer(n)
	pose := NewClip("pose", -1, []*Track{
		NewNumberTrack(".alpha", []float64{0}, []float64{0.9}),
	}, BlendNormal)
	if pose.Duration != 0 {
		t.Fatalf("Duration = %v, want 0", pose.Duration)
	}
	a := mustAction(t, m, pose)
	a.Play()

	events := 0
	m.OnFinished = func(FinishedEvent) { events++ }
	m.OnLoop = func(LoopEvent) { events++ }
	for i := 0; i < 4; i++ {
		m.Update(0.3)
		if !near(n.Alpha, 0.9) {
			t.Fatalf("tick %d: Alpha = %v, want pose 0.9", i, n.Alpha)
		}
	}

	if events != 0 {
		t.Errorf("got %d loop/finished events, want 0", events)
	}
	if !a.Enabled || a.Time() != 0 || a.LoopCount() != 0 {
		t.Errorf("enabled=%v time=%v loops=%d, want true 0 0", a.Enabled, a.Time(), a.LoopCount())
	}
}

func TestActionLoopOnceClampHoldsLastFrame(t *testing.T) {
	n := NewNode("n")
	m := NewMixer(n)
	a := mustAction(t, m, alphaClip("once", 1, 0, 0.8))
	a.SetLoop(LoopOnce, 1)
	a.ClampWhenFinished = true
	a.Play()

	count := 0
	m.OnFinished = func(FinishedEvent) { count++ }
	for i := 0; i < 6; i++ {
		m.Update(0.3)
	}

	if count != 1 {
		t.Errorf("finished fired %d times, want 1", count)
	}
	if !a.Paused || !a.Enabled {
		t.Error("clamped action should be paused and still enabled")
	}
	if !near(n.Alpha, 0.8) {
		t.Errorf("Alpha = %v, want 0.8 held", n.Alpha)
	}
}

func TestActionLoopRepeatCounts(t *testing.T) {
	n := NewNode("n")
	m := NewMixer(n)
	a := mustAction(t, m, alphaClip("rep", 1, 0, 1))
	a.SetLoop(LoopRepeat, 3).Play()

	loops, finished := 0, 0
	m.OnLoop = func(e LoopEvent) {
		loops++
		if e.LoopDelta != 1 {
			t.Errorf("LoopDelta = %d, want 1", e.LoopDelta)
		}
	}
	m.OnFinished = func(FinishedEvent) { finished++ }

	for i := 0; i < 20; i++ {
		m.Update(0.25)
	}

	if loops != 2 || finished != 1 {
		t.Errorf("loops=%d finished=%d, want 2 and 1", loops, finished)
	}
	if a.LoopCount() != 3 {
		t.Errorf("LoopCount = %d, want 3", a.LoopCount())
	}
}

func TestActionPingPongMirrors(t *testing.T) {
	n := NewNode("n")
	n.Alpha = 0
	m := NewMixer(n)
	a := mustAction(t, m, alphaClip("pp", 1000, 0, 360))
	a.SetLoop(LoopPingPong, 3).Play()

	steps := []float64{750, 1000, 1000, 1000}
	want := []float64{270, 90, 270, 0}
	for i, dt := range steps {
		m.Update(dt)
		if !near(n.Alpha, want[i]) {
			t.Errorf("step %d: value = %v, want %v", i, n.Alpha, want[i])
		}
	}
}

func TestActionReverseLoop(t *testing.T) {
	n := NewNode("n")
	m := NewMixer(n)
	a := mustAction(t, m, alphaClip("rev", 1, 0, 1))
	a.TimeScale = -1
	a.Play()

	var got []LoopEvent
	m.OnLoop = func(e LoopEvent) { got = append(got, e) }
	m.Update(0.25)

	if len(got) != 1 || got[0].LoopDelta != -1 {
		t.Fatalf("loop events = %+v, want one with LoopDelta -1", got)
	}
	if !near(a.Time(), 0.75) {
		t.Errorf("Time = %v, want 0.75", a.Time())
	}
	if !near(n.Alpha, 0.75) {
		t.Errorf("Alpha = %v, want 0.75", n.Alpha)
	}
}

func TestActionUpdateZeroIsIdempotent(t *testing.T) {
	n := NewNode("n")
	m := NewMixer(n)
	a := mustAction(t, m, alphaClip("c", 1, 0, 1))
	a.Play()
	m.Update(0.3)

	alpha, time, loops := n.Alpha, a.Time(), a.LoopCount()
	for i := 0; i < 3; i++ {
		m.Update(0)
	}
	if n.Alpha != alpha || a.Time() != time || a.LoopCount() != loops {
		t.Errorf("Update(0) changed state: alpha %v->%v time %v->%v loops %d->%d",
			alpha, n.Alpha, time, a.Time(), loops, a.LoopCount())
	}
}

// --- Weight ---

func TestActionFadeIn(t *testing.T) {
	n := NewNode("n")
	m := NewMixer(n)
	a := mustAction(t, m, alphaClip("c", 10, 1, 1))
	a.FadeIn(1).Play()

	steps := []float64{0.25, 0.25, 0.25, 0.5}
	want := []float64{0.25, 0.5, 0.75, 1}
	for i, dt := range steps {
		m.Update(dt)
		if !near(a.EffectiveWeight(), want[i]) {
			t.Errorf("step %d: weight = %v, want %v", i, a.EffectiveWeight(), want[i])
		}
	}
	if m.Stats().ActiveRamps != 0 {
		t.Error("finished fade should return its ramp")
	}
}

func TestActionFadeOut(t *testing.T) {
	n := NewNode("n")
	m := NewMixer(n)
	a := mustAction(t, m, alphaClip("c", 10, 1, 1))
	a.FadeOut(1).Play()

	steps := []float64{0.25, 0.25, 0.25, 0.5}
	want := []float64{0.75, 0.5, 0.25, 0}
	for i, dt := range steps {
		m.Update(dt)
		if !near(a.EffectiveWeight(), want[i]) {
			t.Errorf("step %d: weight = %v, want %v", i, a.EffectiveWeight(), want[i])
		}
	}
	if a.Enabled {
		t.Error("faded-out action should be disabled")
	}
}

func TestActionCrossFade(t *testing.T) {
	n := NewNode("n")
	m := NewMixer(n)
	out := mustAction(t, m, alphaClip("out", 10, 0, 0))
	in := mustAction(t, m, alphaClip("in", 10, 1, 1))
	out.Play()
	in.Play()
	in.CrossFadeFrom(out, 1, false)

	m.Update(0.5)
	if !near(out.EffectiveWeight(), 0.5) || !near(in.EffectiveWeight(), 0.5) {
		t.Errorf("mid fade: out=%v in=%v, want 0.5 each", out.EffectiveWeight(), in.EffectiveWeight())
	}
	if !near(n.Alpha, 0.5) {
		t.Errorf("Alpha = %v, want 0.5", n.Alpha)
	}

	m.Update(0.5)
	if !near(out.EffectiveWeight(), 0) || !near(in.EffectiveWeight(), 1) {
		t.Errorf("end of fade: out=%v in=%v", out.EffectiveWeight(), in.EffectiveWeight())
	}
}

func TestActionCrossFadeWarp(t *testing.T) {
	n := NewNode("n")
	m := NewMixer(n)
	out := mustAction(t, m, alphaClip("out", 1, 0, 0))
	in := mustAction(t, m, alphaClip("in", 2, 1, 1))
	out.Play()
	in.Play()
	out.CrossFadeTo(in, 1, true)

	m.Update(0.5)
	if !near(out.EffectiveTimeScale(), 0.75) {
		t.Errorf("out time scale = %v, want 0.75", out.EffectiveTimeScale())
	}
	if !near(in.EffectiveTimeScale(), 1.5) {
		t.Errorf("in time scale = %v, want 1.5", in.EffectiveTimeScale())
	}

	m.Update(0.6)
	if in.TimeScale != 1 || !near(out.TimeScale, 0.5) {
		t.Errorf("after warp: in=%v out=%v", in.TimeScale, out.TimeScale)
	}
}

func TestActionSetEffectiveWeightCancelsFade(t *testing.T) {
	n := NewNode("n")
	m := NewMixer(n)
	a := mustAction(t, m, alphaClip("c", 1, 0, 1))
	a.FadeIn(1).Play()
	a.SetEffectiveWeight(0.5)

	m.Update(0.1)
	if a.EffectiveWeight() != 0.5 {
		t.Errorf("weight = %v, want 0.5", a.EffectiveWeight())
	}
	if m.Stats().ActiveRamps != 0 {
		t.Error("SetEffectiveWeight should release the fade ramp")
	}
}

// --- Time scale ---

func TestActionHalt(t *testing.T) {
	n := NewNode("n")
	m := NewMixer(n)
	a := mustAction(t, m, alphaClip("c", 10, 0, 1))
	a.Play()
	m.Update(0.1)

	a.Halt(1)
	m.Update(0.5)
	if !near(a.EffectiveTimeScale(), 0.5) {
		t.Errorf("mid halt time scale = %v, want 0.5", a.EffectiveTimeScale())
	}
	m.Update(0.6)
	if !a.Paused || a.IsRunning() {
		t.Error("halted action should be paused")
	}
	if m.Stats().ActiveRamps != 0 {
		t.Error("finished warp should return its ramp")
	}
}

func TestActionSetDurationAndSync(t *testing.T) {
	n := NewNode("n")
	m := NewMixer(n)
	a := mustAction(t, m, alphaClip("a", 2, 0, 1))
	b := mustAction(t, m, alphaClip("b", 1, 0, 1))

	a.SetDuration(1)
	if a.TimeScale != 2 {
		t.Errorf("TimeScale = %v, want 2", a.TimeScale)
	}
	a.SetTime(0.4)
	b.SyncWith(a)
	if b.Time() != 0.4 || b.TimeScale != 2 {
		t.Errorf("SyncWith: time=%v scale=%v", b.Time(), b.TimeScale)
	}
}

func TestActionSetEffectiveTimeScalePaused(t *testing.T) {
	n := NewNode("n")
	m := NewMixer(n)
	a := mustAction(t, m, alphaClip("a", 1, 0, 1))
	a.Paused = true
	a.SetEffectiveTimeScale(3)
	if a.TimeScale != 3 || a.EffectiveTimeScale() != 0 {
		t.Errorf("TimeScale=%v effective=%v", a.TimeScale, a.EffectiveTimeScale())
	}
}

// --- Scheduling ---

func TestActionStartAt(t *testing.T) {
	n := NewNode("n")
	m := NewMixer(n)
	a := mustAction(t, m, alphaClip("c", 10, 0, 10))
	a.StartAt(1).Play()

	m.Update(0.5)
	if a.Time() != 0 {
		t.Errorf("Time = %v, want 0 before start", a.Time())
	}
	if a.IsRunning() || !a.IsScheduled() {
		t.Error("pending action should be scheduled but not running")
	}

	m.Update(0.75)
	if !near(a.Time(), 0.25) {
		t.Errorf("Time = %v, want 0.25 (elapsed since start)", a.Time())
	}
	if !a.IsRunning() {
		t.Error("action should be running after its start time")
	}
}

func TestActionStopResets(t *testing.T) {
	n := NewNode("n")
	n.Alpha = 0.4
	m := NewMixer(n)
	a := mustAction(t, m, alphaClip("c", 1, 0, 1))
	a.FadeIn(0.5).Play()
	m.Update(1.5)

	a.Stop()
	if a.Time() != 0 || a.LoopCount() != -1 {
		t.Errorf("Stop should rewind: time=%v loops=%d", a.Time(), a.LoopCount())
	}
	if a.IsScheduled() {
		t.Error("stopped action should not be scheduled")
	}
	if n.Alpha != 0.4 {
		t.Errorf("Alpha = %v, want original 0.4 restored", n.Alpha)
	}
	if m.Stats().ActiveRamps != 0 {
		t.Error("Stop should release ramps")
	}
}

func TestActionAccessors(t *testing.T) {
	n := NewNode("n")
	other := NewNode("other")
	m := NewMixer(n)
	clip := alphaClip("c", 1, 0, 1)

	a := mustAction(t, m, clip)
	if a.Mixer() != m || a.Clip() != clip || a.Root() != Target(n) || a.BlendMode() != BlendNormal {
		t.Error("accessors should report mixer, clip, mixer root and blend mode")
	}
	b, err := m.ClipAction(clip, other)
	if err != nil {
		t.Fatal(err)
	}
	if b.Root() != Target(other) {
		t.Error("Root should report the action's own root")
	}
}

func TestActionDisabledContributesNothing(t *testing.T) {
	n := NewNode("n")
	n.Alpha = 0.5
	m := NewMixer(n)
	a := mustAction(t, m, alphaClip("c", 1, 1, 1))
	a.Play()
	a.Enabled = false
	m.Update(0.1)
	if n.Alpha != 0.5 {
		t.Errorf("Alpha = %v, want untouched 0.5", n.Alpha)
	}
	if a.EffectiveWeight() != 0 {
		t.Errorf("EffectiveWeight = %v, want 0", a.EffectiveWeight())
	}
}
