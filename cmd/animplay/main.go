// Command animplay runs a YAML playback script against the demo rig without
// opening a window and logs every mixer event and the rig's final pose.
//
//	ANIMPLAY_SCRIPT=walk.yaml ANIMPLAY_WATCH=true animplay
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/phanxgames/anim"
	"github.com/phanxgames/anim/internal/demorig"
	"github.com/rs/zerolog"
)

// maxFrames bounds a run whose script never finishes on its own.
const maxFrames = 1 << 20

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log := newLogger(cfg.LogLevel)
	anim.SetLogger(log.With().Str("lib", "anim").Logger())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := play(cfg, log); err != nil {
		log.Error().Err(err).Msg("playback failed")
		if !cfg.Watch {
			os.Exit(1)
		}
	}
	if !cfg.Watch {
		return
	}

	w, err := newWatcher(cfg.Script)
	if err != nil {
		log.Fatal().Err(err).Msg("watch script")
	}
	defer w.Close()
	log.Info().Str("script", cfg.Script).Msg("watching for changes")

	for {
		select {
		case <-ctx.Done():
			return
		case err := <-w.Errors:
			log.Warn().Err(err).Msg("watcher error")
		case <-w.Events:
			if err := play(cfg, log); err != nil {
				log.Error().Err(err).Msg("playback failed")
			}
		}
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).With().Timestamp().Str("app", "animplay").Logger().Level(lvl)
}

// play runs the script from the start on a fresh scene.
func play(cfg config, log zerolog.Logger) error {
	data, err := os.ReadFile(cfg.Script)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	runner, err := anim.LoadScript(data)
	if err != nil {
		return err
	}

	scene := anim.NewScene()
	scene.SetDebugMode(log.GetLevel() <= zerolog.DebugLevel)
	rig := demorig.New(scene.Root())
	mixer := scene.NewMixer(rig.Hero)
	scene.SetScript(runner)

	frame := 0
	mixer.OnFinished = func(e anim.FinishedEvent) {
		log.Info().Int("frame", frame).Str("clip", e.Action.Clip().Name).
			Int("direction", e.Direction).Msg("finished")
	}
	mixer.OnLoop = func(e anim.LoopEvent) {
		log.Info().Int("frame", frame).Str("clip", e.Action.Clip().Name).
			Int("loopDelta", e.LoopDelta).Msg("loop")
	}

	limit := cfg.Frames
	if limit <= 0 {
		limit = maxFrames
	}
	dt := 1.0 / float64(cfg.TPS)
	for ; frame < limit; frame++ {
		scene.UpdateDelta(dt)
		if cfg.Frames <= 0 && runner.Done() {
			frame++
			break
		}
	}

	pos := rig.Hero.WorldPosition()
	arm := rig.UpperArm.Quaternion
	st := mixer.Stats()
	log.Info().
		Int("frames", frame).
		Float64("time", mixer.Time()).
		Str("label", rig.Hero.Label).
		Floats64("position", []float64{pos.X, pos.Y, pos.Z}).
		Floats64("arm", []float64{arm.X, arm.Y, arm.Z, arm.W}).
		Int("actions", st.ActiveActions).
		Int("bindings", st.ActiveBindings).
		Msg("done")
	return nil
}
