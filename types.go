package anim

import (
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// ArrayValue is implemented by composite property types that can be flattened
// into a contiguous run of float64 values. Bindings use it to read and write
// vectors, colors and quaternions in one call.
type ArrayValue interface {
	ToArray(dst []float64, offset int)
	FromArray(src []float64, offset int)
}

// Vec2 is a 2D vector used for texture offsets and repeats.
type Vec2 struct {
	X, Y float64
}

// ToArray writes X, Y into dst starting at offset.
func (v *Vec2) ToArray(dst []float64, offset int) {
	dst[offset] = v.X
	dst[offset+1] = v.Y
}

// FromArray reads X, Y from src starting at offset.
func (v *Vec2) FromArray(src []float64, offset int) {
	v.X = src[offset]
	v.Y = src[offset+1]
}

// Vec3 is a 3D vector used for positions and scales.
type Vec3 struct {
	X, Y, Z float64
}

// ToArray writes X, Y, Z into dst starting at offset.
func (v *Vec3) ToArray(dst []float64, offset int) {
	dst[offset] = v.X
	dst[offset+1] = v.Y
	dst[offset+2] = v.Z
}

// FromArray reads X, Y, Z from src starting at offset.
func (v *Vec3) FromArray(src []float64, offset int) {
	v.X = src[offset]
	v.Y = src[offset+1]
	v.Z = src[offset+2]
}

func (v Vec3) vec() r3.Vec { return r3.Vec{X: v.X, Y: v.Y, Z: v.Z} }

func vec3From(v r3.Vec) Vec3 { return Vec3{X: v.X, Y: v.Y, Z: v.Z} }

// Quat is a rotation quaternion stored as (X, Y, Z, W).
type Quat struct {
	X, Y, Z, W float64
}

// QuatIdentity is the rotation that leaves vectors unchanged.
var QuatIdentity = Quat{0, 0, 0, 1}

// ToArray writes X, Y, Z, W into dst starting at offset.
func (q *Quat) ToArray(dst []float64, offset int) {
	dst[offset] = q.X
	dst[offset+1] = q.Y
	dst[offset+2] = q.Z
	dst[offset+3] = q.W
}

// FromArray reads X, Y, Z, W from src starting at offset.
func (q *Quat) FromArray(src []float64, offset int) {
	q.X = src[offset]
	q.Y = src[offset+1]
	q.Z = src[offset+2]
	q.W = src[offset+3]
}

// QuatFromAxisAngle returns the rotation of angle radians about axis. The
// axis need not be normalized.
func QuatFromAxisAngle(axis Vec3, angle float64) Quat {
	return quatFrom(quat.Number(r3.NewRotation(angle, axis.vec())))
}

// Mul returns the Hamilton product q * o.
func (q Quat) Mul(o Quat) Quat {
	return quatFrom(quat.Mul(q.number(), o.number()))
}

// Normalize returns q scaled to unit length. A zero quaternion becomes the
// identity.
func (q Quat) Normalize() Quat {
	n := q.number()
	l := quat.Abs(n)
	if l == 0 {
		return QuatIdentity
	}
	return quatFrom(quat.Scale(1/l, n))
}

func (q Quat) number() quat.Number {
	return quat.Number{Real: q.W, Imag: q.X, Jmag: q.Y, Kmag: q.Z}
}

func quatFrom(n quat.Number) Quat {
	return Quat{X: n.Imag, Y: n.Jmag, Z: n.Kmag, W: n.Real}
}

// Color represents an RGBA color with components in [0, 1]. Tracks animate
// the RGB part; alpha is a separate scalar property.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default material color.
var ColorWhite = Color{1, 1, 1, 1}

// ToArray writes R, G, B into dst starting at offset.
func (c *Color) ToArray(dst []float64, offset int) {
	dst[offset] = c.R
	dst[offset+1] = c.G
	dst[offset+2] = c.B
}

// FromArray reads R, G, B from src starting at offset. Alpha is untouched.
func (c *Color) FromArray(src []float64, offset int) {
	c.R = src[offset]
	c.G = src[offset+1]
	c.B = src[offset+2]
}

// BlendMode selects how an action's contribution is composited into a
// property mixer.
type BlendMode uint8

const (
	BlendNormal   BlendMode = iota // weighted average with other normal contributors
	BlendAdditive                  // delta composed on top of the normal result
)

// LoopMode selects how an action wraps when it runs past its clip's end.
type LoopMode uint8

const (
	LoopOnce     LoopMode = iota // play once, then clamp or disable
	LoopRepeat                   // wrap back to the start
	LoopPingPong                 // alternate forward and backward passes
)

// Ending controls how smooth interpolants extrapolate slopes at the first
// and last keyframe.
type Ending uint8

const (
	EndingZeroCurvature Ending = iota // natural spline end (second derivative 0)
	EndingZeroSlope                   // tangent flattened at the end key
	EndingWrapAround                  // tangent continues from the opposite end
)

// Interpolation selects the keyframe interpolation kernel of a track.
type Interpolation uint8

const (
	InterpolateDiscrete Interpolation = iota // step to the preceding key
	InterpolateLinear                        // straight line (slerp for quaternions)
	InterpolateSmooth                        // cubic spline honouring endings
)

// ValueKind is the shape of the values a track carries.
type ValueKind uint8

const (
	KindNumber     ValueKind = iota // scalar or raw numeric array
	KindVector                      // Vec2/Vec3-like numeric tuple
	KindColor                       // RGB triple
	KindQuaternion                  // unit quaternion (x, y, z, w)
	KindBool                        // discrete boolean
	KindString                      // discrete string
)

func (k ValueKind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindVector:
		return "vector"
	case KindColor:
		return "color"
	case KindQuaternion:
		return "quaternion"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// discrete reports whether values of this kind cannot be averaged.
func (k ValueKind) discrete() bool {
	return k == KindBool || k == KindString
}
