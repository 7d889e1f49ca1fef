package anim

import (
	"errors"
	"fmt"
)

// Clip is a named, fixed-duration bundle of keyframe tracks. Clips are
// shared read-only by every action that plays them; do not mutate a clip
// while actions built from it are cached in a mixer.
type Clip struct {
	Name      string
	UUID      string
	Duration  float64
	BlendMode BlendMode
	Tracks    []*Track
}

// NewClip creates a clip. A negative duration is recomputed from the tracks'
// last keyframe times.
func NewClip(name string, duration float64, tracks []*Track, mode BlendMode) *Clip {
	c := &Clip{
		Name:      name,
		UUID:      newUUID(),
		Duration:  duration,
		BlendMode: mode,
		Tracks:    tracks,
	}
	if duration < 0 {
		c.ResetDuration()
	}
	return c
}

// ResetDuration sets Duration to the latest last-keyframe time over all tracks.
func (c *Clip) ResetDuration() *Clip {
	duration := 0.0
	for _, t := range c.Tracks {
		if n := len(t.Times); n > 0 {
			duration = max(duration, t.Times[n-1])
		}
	}
	c.Duration = duration
	return c
}

// Validate checks every track and reports all problems found.
func (c *Clip) Validate() error {
	var errs []error
	if c.Duration < 0 {
		errs = append(errs, fmt.Errorf("anim: clip %q has negative duration", c.Name))
	}
	for _, t := range c.Tracks {
		if err := t.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Trim drops keys outside [0, Duration] on every track.
func (c *Clip) Trim() *Clip {
	for _, t := range c.Tracks {
		t.Trim(0, c.Duration)
	}
	return c
}

// Optimize removes redundant keys on every track.
func (c *Clip) Optimize() *Clip {
	for _, t := range c.Tracks {
		t.Optimize()
	}
	return c
}

// Clone returns a deep copy with a fresh UUID.
func (c *Clip) Clone() *Clip {
	tracks := make([]*Track, len(c.Tracks))
	for i, t := range c.Tracks {
		tracks[i] = t.Clone()
	}
	return &Clip{
		Name:      c.Name,
		UUID:      newUUID(),
		Duration:  c.Duration,
		BlendMode: c.BlendMode,
		Tracks:    tracks,
	}
}

// FindClip returns the first clip with the given name, or nil.
func FindClip(clips []*Clip, name string) *Clip {
	for _, c := range clips {
		if c.Name == name {
			return c
		}
	}
	return nil
}
