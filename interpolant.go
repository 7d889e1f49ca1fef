package anim

import "sort"

// Interpolant samples a keyframe track at an arbitrary time and writes the
// result into the buffer it was created for (offset 0, one value-size run).
// Times before the first key hold the first value; times after the last key
// hold the last value.
type Interpolant interface {
	Evaluate(t float64)
}

// interpolantSettings holds the extrapolation endings used by smooth
// interpolants. An action owns one instance shared by all its interpolants.
type interpolantSettings struct {
	endingStart Ending
	endingEnd   Ending
}

type interpolantBase struct {
	times     []float64
	samples   *valueBuffer
	result    *valueBuffer
	valueSize int
	settings  *interpolantSettings

	// cached is the last interval's upper key index, checked first on the
	// next lookup since playback is mostly monotonic.
	cached int
}

// seek finds i1 with times[i1-1] <= t < times[i1]. When t lies outside the
// keyed range the nearest end sample is copied to the result and ok is false.
func (b *interpolantBase) seek(t float64) (i1 int, ok bool) {
	n := len(b.times)
	if n == 0 {
		return 0, false
	}
	if t < b.times[0] {
		b.copySample(0)
		return 0, false
	}
	if t >= b.times[n-1] {
		b.copySample(n - 1)
		return 0, false
	}
	if c := b.cached; c > 0 && c < n && b.times[c-1] <= t && t < b.times[c] {
		return c, true
	}
	i1 = sort.Search(n, func(i int) bool { return b.times[i] > t })
	b.cached = i1
	return i1, true
}

func (b *interpolantBase) copySample(index int) {
	b.result.copyFrom(0, b.samples, index*b.valueSize, b.valueSize)
}

// discreteInterpolant holds the value of the preceding key.
type discreteInterpolant struct {
	interpolantBase
}

func (d *discreteInterpolant) Evaluate(t float64) {
	i1, ok := d.seek(t)
	if !ok {
		return
	}
	d.copySample(i1 - 1)
}

// linearInterpolant blends neighbouring keys componentwise.
type linearInterpolant struct {
	interpolantBase
}

func (l *linearInterpolant) Evaluate(t float64) {
	i1, ok := l.seek(t)
	if !ok {
		return
	}
	t0, t1 := l.times[i1-1], l.times[i1]
	stride := l.valueSize
	o1 := i1 * stride
	o0 := o1 - stride
	values := l.samples.nums
	result := l.result.nums

	w1 := (t - t0) / (t1 - t0)
	w0 := 1 - w1
	for i := 0; i < stride; i++ {
		result[i] = values[o0+i]*w0 + values[o1+i]*w1
	}
}

// quaternionInterpolant slerps between neighbouring quaternion keys.
type quaternionInterpolant struct {
	interpolantBase
}

func (q *quaternionInterpolant) Evaluate(t float64) {
	i1, ok := q.seek(t)
	if !ok {
		return
	}
	t0, t1 := q.times[i1-1], q.times[i1]
	stride := q.valueSize
	alpha := (t - t0) / (t1 - t0)
	offset := i1 * stride
	values := q.samples.nums
	result := q.result.nums
	for end := offset + stride; offset != end; offset += 4 {
		slerpFlat(result, 0, values, offset-stride, values, offset, alpha)
	}
}

// cubicInterpolant is a Catmull-Rom style spline whose end tangents follow
// the configured endings.
type cubicInterpolant struct {
	interpolantBase
}

func (c *cubicInterpolant) Evaluate(t float64) {
	i1, ok := c.seek(t)
	if !ok {
		return
	}
	times := c.times
	n := len(times)
	t0, t1 := times[i1-1], times[i1]

	iPrev, iNext := i1-2, i1+1
	var tPrev, tNext float64
	if iPrev < 0 {
		switch c.settings.endingStart {
		case EndingZeroSlope:
			iPrev = i1
			tPrev = 2*t0 - t1
		case EndingWrapAround:
			iPrev = n - 2
			tPrev = t0 + times[iPrev] - times[iPrev+1]
		default:
			iPrev = i1
			tPrev = t1
		}
	} else {
		tPrev = times[iPrev]
	}
	if iNext >= n {
		switch c.settings.endingEnd {
		case EndingZeroSlope:
			iNext = i1
			tNext = 2*t1 - t0
		case EndingWrapAround:
			iNext = 1
			tNext = t1 + times[1] - times[0]
		default:
			iNext = i1 - 1
			tNext = t0
		}
	} else {
		tNext = times[iNext]
	}

	halfDt := (t1 - t0) * 0.5
	wP := halfDt / (t0 - tPrev)
	wN := halfDt / (tNext - t1)

	stride := c.valueSize
	o1 := i1 * stride
	o0 := o1 - stride
	oP := iPrev * stride
	oN := iNext * stride

	p := (t - t0) / (t1 - t0)
	pp := p * p
	ppp := pp * p

	sP := -wP*ppp + 2*wP*pp - wP*p
	s0 := (1+wP)*ppp + (-1.5-2*wP)*pp + (-0.5+wP)*p + 1
	s1 := (-1-wN)*ppp + (1.5+wN)*pp + 0.5*p
	sN := wN*ppp - wN*pp

	values := c.samples.nums
	result := c.result.nums
	for i := 0; i < stride; i++ {
		result[i] = sP*values[oP+i] + s0*values[o0+i] + s1*values[o1+i] + sN*values[oN+i]
	}
}
