package anim

type mixKind uint8

const (
	mixLerp   mixKind = iota // numeric weighted average
	mixSlerp                 // quaternion spherical blend
	mixSelect                // discrete: take the source when t >= 0.5
)

// Buffer regions, in units of valueSize:
//
//	[ incoming | accu0 | accu1 | orig | additive | work (quaternion only) ]
const (
	regionIncoming = 0
	regionOrig     = 3
	regionAdditive = 4
	regionWork     = 5
)

// PropertyMixer blends every contribution to one (root, track path) pair
// and is the only code that writes animated values back to the scene. It
// is shared by all actions bound to the same property.
type PropertyMixer struct {
	binding   binding
	rootUUID  string
	trackName string

	kind      ValueKind
	mix       mixKind
	valueSize int
	buffer    valueBuffer

	cumulativeWeight         float64
	cumulativeWeightAdditive float64

	// useCount counts active actions using this mixer; referenceCount counts
	// cached actions bound to it. referenceCount >= useCount >= 0.
	useCount       int
	referenceCount int

	cacheIndex int
}

func newPropertyMixer(b binding, rootUUID, trackName string, kind ValueKind, valueSize int) *PropertyMixer {
	p := &PropertyMixer{
		binding:    b,
		rootUUID:   rootUUID,
		trackName:  trackName,
		kind:       kind,
		valueSize:  valueSize,
		cacheIndex: -1,
	}
	regions := 5
	switch {
	case kind == KindQuaternion:
		p.mix = mixSlerp
		regions = 6
	case kind.discrete():
		p.mix = mixSelect
	default:
		p.mix = mixLerp
	}
	p.buffer = newValueBuffer(kind, valueSize*regions)
	return p
}

func (p *PropertyMixer) poolIndex() int     { return p.cacheIndex }
func (p *PropertyMixer) setPoolIndex(i int) { p.cacheIndex = i }

// UseCount returns how many active actions currently feed this mixer.
func (p *PropertyMixer) UseCount() int { return p.useCount }

// ReferenceCount returns how many cached actions are bound to this mixer.
func (p *PropertyMixer) ReferenceCount() int { return p.referenceCount }

// TrackName returns the track path this mixer is keyed by.
func (p *PropertyMixer) TrackName() string { return p.trackName }

// accumulate folds the incoming region into this frame's accu region with
// the given weight. The result is the running weighted average of all
// normal contributors, independent of order.
func (p *PropertyMixer) accumulate(accuIndex int, weight float64) {
	stride := p.valueSize
	offset := accuIndex*stride + stride

	current := p.cumulativeWeight
	if current == 0 {
		p.buffer.copyRange(offset, regionIncoming, stride)
		current = weight
	} else {
		current += weight
		p.mixRegion(offset, regionIncoming, weight/current)
	}
	p.cumulativeWeight = current
}

// accumulateAdditive folds the incoming region into the additive region.
func (p *PropertyMixer) accumulateAdditive(weight float64) {
	stride := p.valueSize
	offset := stride * regionAdditive

	if p.cumulativeWeightAdditive == 0 {
		p.setIdentity()
	}
	p.mixRegionAdditive(offset, regionIncoming, weight)
	p.cumulativeWeightAdditive += weight
}

// apply finalizes this frame's blend and writes it to the binding. Missing
// normal weight is filled with the original value, the additive region is
// composed on top, and the binding is only written when the result differs
// from the previous frame's.
func (p *PropertyMixer) apply(accuIndex int) {
	stride := p.valueSize
	offset := accuIndex*stride + stride

	weight := p.cumulativeWeight
	weightAdditive := p.cumulativeWeightAdditive

	p.cumulativeWeight = 0
	p.cumulativeWeightAdditive = 0

	if weight < 1 {
		p.mixRegion(offset, stride*regionOrig, 1-weight)
	}
	if weightAdditive > 0 {
		p.mixRegionAdditive(offset, stride*regionAdditive, 1)
	}

	if !p.buffer.equalRange(stride, stride+stride, stride) || bindingStale(p.binding) {
		p.binding.setValue(&p.buffer, offset, stride)
	}
}

// bindingStale reports whether b targets a set whose membership changed since
// it last resolved, in which case an unchanged value must still be written.
func bindingStale(b binding) bool {
	s, ok := b.(interface{ stale() bool })
	return ok && s.stale()
}

// saveOriginalState snapshots the live value into the orig region and seeds
// both accu regions with it.
func (p *PropertyMixer) saveOriginalState() {
	stride := p.valueSize
	orig := stride * regionOrig

	p.binding.getValue(&p.buffer, orig, stride)

	// accu0 and accu1 start as copies of the original
	p.buffer.copyRange(stride, orig, stride)
	p.buffer.copyRange(2*stride, orig, stride)

	p.setIdentity()
	p.cumulativeWeight = 0
	p.cumulativeWeightAdditive = 0
}

// restoreOriginalState writes the snapshot back to the binding.
func (p *PropertyMixer) restoreOriginalState() {
	p.binding.setValue(&p.buffer, p.valueSize*regionOrig, p.valueSize)
}

// setIdentity resets the additive region to the neutral element of the
// value kind. Discrete kinds have no neutral element, so they reuse the
// original value.
func (p *PropertyMixer) setIdentity() {
	stride := p.valueSize
	start := stride * regionAdditive
	switch p.mix {
	case mixSelect:
		p.buffer.copyRange(start, stride*regionOrig, stride)
	case mixSlerp:
		clear(p.buffer.nums[start : start+stride])
		p.buffer.nums[start+3] = 1
	default:
		clear(p.buffer.nums[start : start+stride])
	}
}

func (p *PropertyMixer) mixRegion(dst, src int, t float64) {
	stride := p.valueSize
	switch p.mix {
	case mixSelect:
		if t >= 0.5 {
			p.buffer.copyRange(dst, src, stride)
		}
	case mixSlerp:
		buf := p.buffer.nums
		slerpFlat(buf, dst, buf, dst, buf, src, t)
	default:
		buf := p.buffer.nums
		s := 1 - t
		for i := 0; i < stride; i++ {
			j := dst + i
			buf[j] = buf[j]*s + buf[src+i]*t
		}
	}
}

func (p *PropertyMixer) mixRegionAdditive(dst, src int, t float64) {
	stride := p.valueSize
	switch p.mix {
	case mixSelect:
		if t >= 0.5 {
			p.buffer.copyRange(dst, src, stride)
		}
	case mixSlerp:
		buf := p.buffer.nums
		work := regionWork * stride
		multiplyQuaternionsFlat(buf, work, buf, dst, buf, src)
		slerpFlat(buf, dst, buf, dst, buf, work, t)
	default:
		buf := p.buffer.nums
		for i := 0; i < stride; i++ {
			j := dst + i
			buf[j] += buf[src+i] * t
		}
	}
}
