package anim

import (
	"fmt"
	"math"
)

// Track is a sequence of keyframes for one property path. Numeric kinds keep
// their samples in Values (ValueSize() floats per key, bools as 0 or 1);
// string tracks keep theirs in Labels.
type Track struct {
	Name          string
	Kind          ValueKind
	Times         []float64
	Values        []float64
	Labels        []string
	Interpolation Interpolation
}

// NewNumberTrack creates a track over scalars or raw numeric arrays. The value
// size is inferred as len(values)/len(times).
func NewNumberTrack(name string, times, values []float64) *Track {
	return &Track{Name: name, Kind: KindNumber, Times: times, Values: values, Interpolation: InterpolateLinear}
}

// NewVectorTrack creates a track over Vec2/Vec3 values laid out flat.
func NewVectorTrack(name string, times, values []float64) *Track {
	return &Track{Name: name, Kind: KindVector, Times: times, Values: values, Interpolation: InterpolateLinear}
}

// NewColorTrack creates a track over RGB triples laid out flat.
func NewColorTrack(name string, times, values []float64) *Track {
	return &Track{Name: name, Kind: KindColor, Times: times, Values: values, Interpolation: InterpolateLinear}
}

// NewQuaternionTrack creates a track over (x, y, z, w) quaternions laid out
// flat. Linear interpolation slerps between keys.
func NewQuaternionTrack(name string, times, values []float64) *Track {
	return &Track{Name: name, Kind: KindQuaternion, Times: times, Values: values, Interpolation: InterpolateLinear}
}

// NewBooleanTrack creates a discrete track over booleans.
func NewBooleanTrack(name string, times []float64, values []bool) *Track {
	nums := make([]float64, len(values))
	for i, v := range values {
		if v {
			nums[i] = 1
		}
	}
	return &Track{Name: name, Kind: KindBool, Times: times, Values: nums, Interpolation: InterpolateDiscrete}
}

// NewStringTrack creates a discrete track over strings.
func NewStringTrack(name string, times []float64, values []string) *Track {
	return &Track{Name: name, Kind: KindString, Times: times, Labels: values, Interpolation: InterpolateDiscrete}
}

// ValueSize returns the number of scalars per keyframe.
func (t *Track) ValueSize() int {
	if len(t.Times) == 0 {
		return 0
	}
	if t.Kind == KindString {
		return len(t.Labels) / len(t.Times)
	}
	return len(t.Values) / len(t.Times)
}

// sampleCount returns the number of stored scalars.
func (t *Track) sampleCount() int {
	if t.Kind == KindString {
		return len(t.Labels)
	}
	return len(t.Values)
}

// samples wraps the track's keyframe values in a valueBuffer without copying.
func (t *Track) samples() *valueBuffer {
	if t.Kind == KindString {
		return &valueBuffer{strs: t.Labels}
	}
	return &valueBuffer{nums: t.Values}
}

// Validate reports structural problems: empty or unsorted times, a value
// count that is not a multiple of the key count, or NaN values.
func (t *Track) Validate() error {
	if len(t.Times) == 0 {
		return fmt.Errorf("anim: track %q has no keyframes", t.Name)
	}
	if t.sampleCount()%len(t.Times) != 0 || t.sampleCount() == 0 {
		return fmt.Errorf("anim: track %q has %d values for %d keyframes", t.Name, t.sampleCount(), len(t.Times))
	}
	prev := math.Inf(-1)
	for i, tm := range t.Times {
		if math.IsNaN(tm) {
			return fmt.Errorf("anim: track %q time %d is NaN", t.Name, i)
		}
		if tm < prev {
			return fmt.Errorf("anim: track %q times out of order at key %d", t.Name, i)
		}
		prev = tm
	}
	for i, v := range t.Values {
		if math.IsNaN(v) {
			return fmt.Errorf("anim: track %q value %d is NaN", t.Name, i)
		}
	}
	if t.Kind == KindQuaternion && t.ValueSize() != 4 {
		return fmt.Errorf("anim: quaternion track %q has value size %d", t.Name, t.ValueSize())
	}
	return nil
}

// Shift moves every key by dt.
func (t *Track) Shift(dt float64) *Track {
	if dt != 0 {
		for i := range t.Times {
			t.Times[i] += dt
		}
	}
	return t
}

// Scale multiplies every key time by f.
func (t *Track) Scale(f float64) *Track {
	if f != 1 {
		for i := range t.Times {
			t.Times[i] *= f
		}
	}
	return t
}

// Trim drops keys outside [start, end], always keeping at least one key.
func (t *Track) Trim(start, end float64) *Track {
	n := len(t.Times)
	if n == 0 {
		return t
	}
	from, to := 0, n-1
	for from < n && t.Times[from] < start {
		from++
	}
	for to >= 0 && t.Times[to] > end {
		to--
	}
	to++
	if from >= to {
		// keep the key closest to the window
		from = min(from, n-1)
		to = from + 1
	}
	if from == 0 && to == n {
		return t
	}
	size := t.ValueSize()
	t.Times = t.Times[from:to]
	if t.Kind == KindString {
		t.Labels = t.Labels[from*size : to*size]
	} else {
		t.Values = t.Values[from*size : to*size]
	}
	return t
}

// Optimize removes keys that do not change the sampled curve: repeated
// times and keys whose value equals both neighbours (or, for discrete
// tracks, the previous key).
func (t *Track) Optimize() *Track {
	n := len(t.Times)
	if n < 3 {
		return t
	}
	size := t.ValueSize()
	buf := t.samples()
	smooth := t.Interpolation == InterpolateSmooth
	discrete := t.Interpolation == InterpolateDiscrete

	write := 1
	for i := 1; i < n-1; i++ {
		keep := false
		tm := t.Times[i]
		if tm != t.Times[i+1] && (i != 1 || tm != t.Times[0]) {
			if !smooth {
				prev := (write - 1) * size
				cur := i * size
				next := (i + 1) * size
				if discrete {
					keep = !buf.equalRange(prev, cur, size)
				} else {
					keep = !buf.equalRange(prev, cur, size) || !buf.equalRange(cur, next, size)
				}
			} else {
				keep = true
			}
		}
		if keep {
			if i != write {
				t.Times[write] = t.Times[i]
				buf.copyRange(write*size, i*size, size)
			}
			write++
		}
	}
	// last key always survives
	t.Times[write] = t.Times[n-1]
	buf.copyRange(write*size, (n-1)*size, size)
	write++

	t.Times = t.Times[:write]
	if t.Kind == KindString {
		t.Labels = t.Labels[:write*size]
	} else {
		t.Values = t.Values[:write*size]
	}
	return t
}

// Clone returns a deep copy of the track.
func (t *Track) Clone() *Track {
	c := *t
	c.Times = append([]float64(nil), t.Times...)
	c.Values = append([]float64(nil), t.Values...)
	c.Labels = append([]string(nil), t.Labels...)
	return &c
}

// createInterpolant builds the kernel for this track writing into result at
// offset 0. settings is shared with the owning action so ending changes take
// effect on the next evaluation.
func (t *Track) createInterpolant(result *valueBuffer, settings *interpolantSettings) Interpolant {
	base := interpolantBase{
		times:     t.Times,
		samples:   t.samples(),
		result:    result,
		valueSize: t.ValueSize(),
		settings:  settings,
	}
	if t.Kind.discrete() {
		return &discreteInterpolant{base}
	}
	switch t.Interpolation {
	case InterpolateDiscrete:
		return &discreteInterpolant{base}
	case InterpolateSmooth:
		if t.Kind != KindQuaternion {
			return &cubicInterpolant{interpolantBase: base}
		}
		return &quaternionInterpolant{base}
	default:
		if t.Kind == KindQuaternion {
			return &quaternionInterpolant{base}
		}
		return &linearInterpolant{base}
	}
}
