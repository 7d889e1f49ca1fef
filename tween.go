package anim

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// tweenTarget is what a TweenGroup writes into. gone stops the group early;
// touched runs after every write so caches see the new values.
type tweenTarget interface {
	gone() bool
	touched()
}

func (n *Node) gone() bool { return n.IsDisposed() }

func (n *Node) touched() { n.MarkDirty() }

func (m *Material) gone() bool { return false }

func (m *Material) touched() { m.MarkNeedsUpdate() }

// fieldTween eases one float64 field.
type fieldTween struct {
	field *float64
	tw    *gween.Tween
}

// TweenGroup animates a few float64 fields of one Node or Material without
// going through a Mixer. Create one with the Tween* constructors and either
// call Update(dt) yourself or hand it to Scene.AddTween. A group over a
// disposed node stops at once.
//
// Tweens write straight to the fields, so a mixer animating the same
// property will overwrite them on its next apply.
type TweenGroup struct {
	target tweenTarget
	fields []fieldTween
	Done   bool
}

// goal pairs a field with the value it should reach.
type goal struct {
	field *float64
	to    float64
}

func newTweenGroup(target tweenTarget, duration float32, fn ease.TweenFunc, goals ...goal) *TweenGroup {
	g := &TweenGroup{target: target, fields: make([]fieldTween, len(goals))}
	for i, gl := range goals {
		g.fields[i] = fieldTween{
			field: gl.field,
			tw:    gween.New(float32(*gl.field), float32(gl.to), duration, fn),
		}
	}
	return g
}

// Update advances every field by dt seconds and notifies the target.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if g.target.gone() {
		g.Done = true
		return
	}

	done := true
	for _, f := range g.fields {
		v, finished := f.tw.Update(dt)
		*f.field = float64(v)
		done = done && finished
	}
	g.Done = done
	g.target.touched()
}

// TweenPosition animates node.Position to the given target.
func TweenPosition(node *Node, to Vec3, duration float32, fn ease.TweenFunc) *TweenGroup {
	p := &node.Position
	return newTweenGroup(node, duration, fn, goal{&p.X, to.X}, goal{&p.Y, to.Y}, goal{&p.Z, to.Z})
}

// TweenScale animates node.Scale to the given target.
func TweenScale(node *Node, to Vec3, duration float32, fn ease.TweenFunc) *TweenGroup {
	sc := &node.Scale
	return newTweenGroup(node, duration, fn, goal{&sc.X, to.X}, goal{&sc.Y, to.Y}, goal{&sc.Z, to.Z})
}

// TweenAlpha animates node.Alpha.
func TweenAlpha(node *Node, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(node, duration, fn, goal{&node.Alpha, to})
}

// TweenColor animates mat.Color and mat.Opacity toward to; the alpha
// component lands in Opacity.
func TweenColor(mat *Material, to Color, duration float32, fn ease.TweenFunc) *TweenGroup {
	c := &mat.Color
	return newTweenGroup(mat, duration, fn,
		goal{&c.R, to.R}, goal{&c.G, to.G}, goal{&c.B, to.B}, goal{&mat.Opacity, to.A})
}
