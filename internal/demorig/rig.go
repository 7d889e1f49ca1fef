// Package demorig builds the small character rig and clip set shared by the
// animplay CLI and the viewer example.
package demorig

import (
	"math"

	"github.com/phanxgames/anim"
)

// Rig is a hero node with a two-bone arm, a tinted material and a handful of
// clips registered in Hero.Animations.
type Rig struct {
	Hero     *anim.Node
	Body     *anim.Node
	UpperArm *anim.Node
	Forearm  *anim.Node
	Material *anim.Material
}

// New builds the rig under parent.
func New(parent *anim.Node) *Rig {
	r := &Rig{
		Hero:     anim.NewNode("hero"),
		Body:     anim.NewNode("body"),
		UpperArm: anim.NewNode("upperArm"),
		Forearm:  anim.NewNode("forearm"),
		Material: anim.NewMaterial("skin"),
	}
	parent.AddChild(r.Hero)
	r.Hero.AddChild(r.Body)
	r.Body.AddChild(r.UpperArm)
	r.UpperArm.AddChild(r.Forearm)

	r.UpperArm.SetPosition(0.5, 1.2, 0)
	r.Forearm.SetPosition(0.6, 0, 0)
	r.Body.Material = r.Material
	r.Hero.Skeleton = anim.NewSkeleton(r.UpperArm, r.Forearm)
	r.Hero.MorphTargetInfluences = []float64{0, 0}
	r.Hero.MorphTargetDictionary = map[string]int{"blink": 0, "smile": 1}

	r.Hero.Animations = []*anim.Clip{
		idle(), walk(), run(), wave(), blink(), tint(),
	}
	return r
}

func rot(deg float64) []float64 {
	q := anim.QuatFromAxisAngle(anim.Vec3{Z: 1}, deg*math.Pi/180)
	return []float64{q.X, q.Y, q.Z, q.W}
}

func concat(parts ...[]float64) []float64 {
	var out []float64
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func idle() *anim.Clip {
	return anim.NewClip("idle", -1, []*anim.Track{
		anim.NewVectorTrack("body.position", []float64{0, 1, 2}, []float64{0, 0, 0, 0, 0.05, 0, 0, 0, 0}),
		anim.NewStringTrack("hero.label", []float64{0}, []string{"idle"}),
	}, anim.BlendNormal)
}

func walk() *anim.Clip {
	return anim.NewClip("walk", -1, []*anim.Track{
		anim.NewVectorTrack("hero.position", []float64{0, 1}, []float64{0, 0, 0, 1.4, 0, 0}),
		anim.NewQuaternionTrack("upperArm.quaternion", []float64{0, 0.5, 1}, concat(rot(-20), rot(20), rot(-20))),
		anim.NewStringTrack("hero.label", []float64{0}, []string{"walk"}),
	}, anim.BlendNormal)
}

func run() *anim.Clip {
	return anim.NewClip("run", -1, []*anim.Track{
		anim.NewVectorTrack("hero.position", []float64{0, 0.6}, []float64{0, 0, 0, 2.4, 0, 0}),
		anim.NewQuaternionTrack("upperArm.quaternion", []float64{0, 0.3, 0.6}, concat(rot(-45), rot(45), rot(-45))),
		anim.NewStringTrack("hero.label", []float64{0}, []string{"run"}),
	}, anim.BlendNormal)
}

// wave is additive: it bends the forearm on top of whatever else plays.
func wave() *anim.Clip {
	return anim.NewClip("wave", -1, []*anim.Track{
		anim.NewQuaternionTrack(".bones[forearm].quaternion", []float64{0, 0.25, 0.5}, concat(rot(0), rot(60), rot(0))),
	}, anim.BlendAdditive)
}

func blink() *anim.Clip {
	return anim.NewClip("blink", -1, []*anim.Track{
		anim.NewNumberTrack("hero.morphTargetInfluences[blink]", []float64{0, 0.1, 0.2}, []float64{0, 1, 0}),
		anim.NewBooleanTrack("body.visible", []float64{0, 0.1, 0.2}, []bool{true, true, true}),
	}, anim.BlendNormal)
}

func tint() *anim.Clip {
	return anim.NewClip("tint", -1, []*anim.Track{
		anim.NewColorTrack("body.material.color", []float64{0, 1, 2}, []float64{1, 1, 1, 1, 0.6, 0.6, 1, 1, 1}),
		anim.NewNumberTrack("body.material.opacity", []float64{0, 1, 2}, []float64{1, 0.5, 1}),
	}, anim.BlendNormal)
}
