// Package anim is a keyframe animation blending engine for scene graphs
// driven by [Ebitengine] games.
//
// A [Mixer] plays [Clip]s against a root [Node]. Each clip/root pair gets one
// cached [Action] carrying its own time, time scale, weight and loop policy;
// any number of actions can run at once. Every frame the mixer samples each
// running action's tracks and blends the contributions per property, then
// writes the result back to the scene graph exactly once.
//
// # Quick start
//
//	scene := anim.NewScene()
//	hero := anim.NewNode("hero")
//	scene.Root().AddChild(hero)
//
//	walk := anim.NewClip("walk", -1, []*anim.Track{
//		anim.NewVectorTrack("hero.position", []float64{0, 1}, []float64{0, 0, 0, 10, 0, 0}),
//	}, anim.BlendNormal)
//
//	mixer := scene.NewMixer(nil)
//	action, err := mixer.ClipAction(walk, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	action.Play()
//
//	// each frame
//	scene.Update()
//
// # Track paths
//
// Tracks name their target property with a path of the form
//
//	nodeName.objectName[objectIndex].propertyName[propertyIndex]
//
// where every part but propertyName is optional. The object part understands
// "material", "materials", "bones" and "map"; any other name is looked up as
// a field. Malformed paths are rejected when the action is created. Paths
// that parse but do not resolve log a diagnostic and are skipped; they never
// stop the rest of the clip from playing.
//
// # Blending
//
// Normal actions contribute a weighted average; if the total weight on a
// property is below 1, the remainder comes from the property's value before
// any action touched it. Additive actions are composed on top. Quaternions
// blend with slerp; strings and booleans switch over at half weight.
//
// # Events
//
// [Mixer.OnFinished] and [Mixer.OnLoop] fire synchronously during
// [Mixer.Update]. An [EventStore] receives the same events in flattened
// form; the ecs submodule provides a Donburi-backed store.
//
// [Ebitengine]: https://ebitengine.org
package anim
