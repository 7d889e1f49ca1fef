package anim

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
)

// valueBuffer is the flat storage shared by interpolants, bindings and
// property mixers. Numeric kinds (including bools as 0/1) live in nums;
// string tracks use strs. Exactly one of the two is non-nil.
type valueBuffer struct {
	nums []float64
	strs []string
}

func newValueBuffer(kind ValueKind, size int) valueBuffer {
	if kind == KindString {
		return valueBuffer{strs: make([]string, size)}
	}
	return valueBuffer{nums: make([]float64, size)}
}

func (b *valueBuffer) labels() bool { return b.strs != nil }

func (b *valueBuffer) len() int {
	if b.strs != nil {
		return len(b.strs)
	}
	return len(b.nums)
}

// copyRange copies n values from src to dst within the same buffer.
func (b *valueBuffer) copyRange(dst, src, n int) {
	if b.strs != nil {
		copy(b.strs[dst:dst+n], b.strs[src:src+n])
		return
	}
	copy(b.nums[dst:dst+n], b.nums[src:src+n])
}

// copyFrom copies n values at src in other into dst of b.
func (b *valueBuffer) copyFrom(dst int, other *valueBuffer, src, n int) {
	if b.strs != nil {
		copy(b.strs[dst:dst+n], other.strs[src:src+n])
		return
	}
	copy(b.nums[dst:dst+n], other.nums[src:src+n])
}

// equalRange reports whether the n values at a and b are identical.
func (b *valueBuffer) equalRange(x, y, n int) bool {
	if b.strs != nil {
		for i := 0; i < n; i++ {
			if b.strs[x+i] != b.strs[y+i] {
				return false
			}
		}
		return true
	}
	for i := 0; i < n; i++ {
		if b.nums[x+i] != b.nums[y+i] {
			return false
		}
	}
	return true
}

// slerpFlat writes the spherical interpolation between the quaternions at
// src0 and src1 into dst. All offsets index into flat (x, y, z, w) arrays.
func slerpFlat(dst []float64, dstOff int, src0 []float64, off0 int, src1 []float64, off1 int, t float64) {
	x0, y0, z0, w0 := src0[off0], src0[off0+1], src0[off0+2], src0[off0+3]
	x1, y1, z1, w1 := src1[off1], src1[off1+1], src1[off1+2], src1[off1+3]

	if t == 0 {
		dst[dstOff], dst[dstOff+1], dst[dstOff+2], dst[dstOff+3] = x0, y0, z0, w0
		return
	}
	if t == 1 {
		dst[dstOff], dst[dstOff+1], dst[dstOff+2], dst[dstOff+3] = x1, y1, z1, w1
		return
	}

	if w0 != w1 || x0 != x1 || y0 != y1 || z0 != z1 {
		s := 1 - t
		cos := x0*x1 + y0*y1 + z0*z1 + w0*w1
		dir := 1.0
		if cos < 0 {
			dir = -1
		}
		sqrSin := 1 - cos*cos

		// Skip the trig for nearly parallel inputs; the lerp below is
		// renormalized instead.
		if sqrSin > epsilon {
			sin := math.Sqrt(sqrSin)
			l := math.Atan2(sin, cos*dir)
			s = math.Sin(s*l) / sin
			t = math.Sin(t*l) / sin
		}

		tDir := t * dir
		x0 = x0*s + x1*tDir
		y0 = y0*s + y1*tDir
		z0 = z0*s + z1*tDir
		w0 = w0*s + w1*tDir

		if s == 1-t {
			f := 1 / math.Sqrt(x0*x0+y0*y0+z0*z0+w0*w0)
			x0 *= f
			y0 *= f
			z0 *= f
			w0 *= f
		}
	}

	dst[dstOff], dst[dstOff+1], dst[dstOff+2], dst[dstOff+3] = x0, y0, z0, w0
}

// multiplyQuaternionsFlat writes the Hamilton product src0 * src1 into dst.
func multiplyQuaternionsFlat(dst []float64, dstOff int, src0 []float64, off0 int, src1 []float64, off1 int) {
	a := quat.Number{Real: src0[off0+3], Imag: src0[off0], Jmag: src0[off0+1], Kmag: src0[off0+2]}
	b := quat.Number{Real: src1[off1+3], Imag: src1[off1], Jmag: src1[off1+1], Kmag: src1[off1+2]}
	p := quat.Mul(a, b)
	dst[dstOff], dst[dstOff+1], dst[dstOff+2], dst[dstOff+3] = p.Imag, p.Jmag, p.Kmag, p.Real
}

// epsilon matches the spacing of float64 values around 1.
const epsilon = 2.220446049250313e-16
