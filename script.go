package anim

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// scriptStep is a single command in a playback script.
type scriptStep struct {
	Action      string  `yaml:"action"`
	Clip        string  `yaml:"clip,omitempty"`
	From        string  `yaml:"from,omitempty"`
	Root        string  `yaml:"root,omitempty"`
	Mixer       int     `yaml:"mixer,omitempty"`
	Duration    float64 `yaml:"duration,omitempty"`
	Warp        bool    `yaml:"warp,omitempty"`
	Start       float64 `yaml:"start,omitempty"`
	End         float64 `yaml:"end,omitempty"`
	Loop        string  `yaml:"loop,omitempty"`
	Repetitions *int    `yaml:"repetitions,omitempty"`
	Clamp       bool    `yaml:"clamp,omitempty"`
	Value       float64 `yaml:"value,omitempty"`
	Time        float64 `yaml:"time,omitempty"`
	Frames      int     `yaml:"frames,omitempty"`
}

// script is the top-level YAML structure for a playback script.
type script struct {
	Steps []scriptStep `yaml:"steps"`
}

var scriptActions = map[string]bool{
	"play": true, "stop": true, "fade_in": true, "fade_out": true,
	"cross_fade": true, "warp": true, "halt": true, "set_loop": true,
	"set_weight": true, "set_time_scale": true, "start_at": true,
	"stop_all": true, "wait": true, "seek": true,
}

// ScriptRunner sequences action commands across frames. Attach it to a Scene
// with SetScript, or call Step once per frame before updating the scene.
//
// Steps run back to back within a frame until a wait step is reached; a wait
// of N frames resumes on the N-th following frame.
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScript parses a YAML playback script.
//
//	steps:
//	  - {action: play, clip: walk}
//	  - {action: wait, frames: 30}
//	  - {action: cross_fade, from: walk, clip: run, duration: 0.5, warp: true}
func LoadScript(data []byte) (*ScriptRunner, error) {
	var sc script
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse playback script: %w", err)
	}
	if len(sc.Steps) == 0 {
		return nil, errors.New("parse playback script: no steps")
	}
	var errs []error
	for i, st := range sc.Steps {
		if !scriptActions[st.Action] {
			errs = append(errs, fmt.Errorf("step %d: unknown action %q", i, st.Action))
		}
		if st.Action == "set_loop" {
			if _, err := parseLoopMode(st.Loop); err != nil {
				errs = append(errs, fmt.Errorf("step %d: %w", i, err))
			}
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("parse playback script: %w", err)
	}
	return &ScriptRunner{steps: sc.Steps}, nil
}

// SetScript attaches a runner to the scene. The runner's Step is called at
// the start of every UpdateDelta.
func (s *Scene) SetScript(runner *ScriptRunner) {
	s.script = runner
}

// Done reports whether all steps have been executed.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// Step executes the next frame's worth of steps against s.
func (r *ScriptRunner) Step(s *Scene) {
	if r.done {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	for r.cursor < len(r.steps) {
		st := r.steps[r.cursor]
		r.cursor++
		if st.Action == "wait" {
			if st.Frames > 0 {
				r.waitCount = st.Frames - 1 // this frame counts as one
			}
			break
		}
		r.exec(s, st)
	}
	if r.cursor >= len(r.steps) && r.waitCount == 0 {
		r.done = true
	}
}

func (r *ScriptRunner) exec(s *Scene, st scriptStep) {
	m := r.mixer(s, st)
	if m == nil {
		return
	}
	if st.Action == "stop_all" {
		m.StopAllAction()
		return
	}
	if st.Action == "seek" {
		m.SetTime(st.Time)
		return
	}

	a := r.action(s, m, st.Clip, st)
	if a == nil {
		return
	}

	switch st.Action {
	case "play":
		a.Play()
	case "stop":
		a.Stop()
	case "fade_in":
		a.FadeIn(st.Duration).Play()
	case "fade_out":
		a.FadeOut(st.Duration)
	case "cross_fade":
		from := r.action(s, m, st.From, st)
		if from == nil {
			return
		}
		a.Reset().Play()
		a.CrossFadeFrom(from, st.Duration, st.Warp)
	case "warp":
		a.Warp(st.Start, st.End, st.Duration)
	case "halt":
		a.Halt(st.Duration)
	case "set_loop":
		mode, _ := parseLoopMode(st.Loop)
		reps := RepeatForever
		if st.Repetitions != nil {
			reps = *st.Repetitions
		}
		a.SetLoop(mode, reps)
		a.ClampWhenFinished = st.Clamp
	case "set_weight":
		a.SetEffectiveWeight(st.Value)
	case "set_time_scale":
		a.SetEffectiveTimeScale(st.Value)
	case "start_at":
		a.StartAt(m.Time() + st.Time).Play()
	}
}

func (r *ScriptRunner) mixer(s *Scene, st scriptStep) *Mixer {
	if st.Mixer < 0 || st.Mixer >= len(s.mixers) {
		logger.Warn().Int("mixer", st.Mixer).Str("action", st.Action).Msg("script: no such mixer")
		return nil
	}
	return s.mixers[st.Mixer]
}

func (r *ScriptRunner) action(s *Scene, m *Mixer, clip string, st scriptStep) *Action {
	var root Target
	if st.Root != "" {
		n := FindNode(s.root, st.Root)
		if n == nil {
			logger.Warn().Str("root", st.Root).Str("action", st.Action).Msg("script: root node not found")
			return nil
		}
		root = n
	}
	a, err := m.ClipActionByName(clip, root)
	if err != nil {
		logger.Warn().Err(err).Str("action", st.Action).Msg("script: skipping step")
		return nil
	}
	return a
}

func parseLoopMode(s string) (LoopMode, error) {
	switch strings.ToLower(s) {
	case "once":
		return LoopOnce, nil
	case "", "repeat":
		return LoopRepeat, nil
	case "pingpong", "ping_pong":
		return LoopPingPong, nil
	}
	return LoopRepeat, fmt.Errorf("unknown loop mode %q", s)
}
