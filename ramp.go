package anim

// controlRamp is a two-key linear ramp over mixer time that drives fades
// and time warps. Ramps are pooled by the Mixer and lent to actions.
type controlRamp struct {
	start, end float64
	from, to   float64
	cacheIndex int
}

func newControlRamp() *controlRamp {
	return &controlRamp{cacheIndex: -1}
}

func (r *controlRamp) poolIndex() int     { return r.cacheIndex }
func (r *controlRamp) setPoolIndex(i int) { r.cacheIndex = i }

// set configures the ramp to go from `from` at time start to `to` at time
// start+duration.
func (r *controlRamp) set(start, duration, from, to float64) {
	r.start = start
	r.end = start + duration
	r.from = from
	r.to = to
}

// evaluate samples the ramp at mixer time t, holding the end values outside
// [start, end].
func (r *controlRamp) evaluate(t float64) float64 {
	switch {
	case t <= r.start:
		return r.from
	case t >= r.end:
		return r.to
	}
	p := (t - r.start) / (r.end - r.start)
	return r.from + (r.to-r.from)*p
}

// finished reports whether t lies strictly past the ramp's end.
func (r *controlRamp) finished(t float64) bool {
	return t > r.end
}
