package anim

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// UpdateWorld recomputes world position, rotation and scale for n and its
// descendants. Only dirty subtrees are recomputed; a recomputed parent forces
// its children to recompute.
func (n *Node) UpdateWorld() {
	parentPos := Vec3{}
	parentRot := QuatIdentity
	parentScale := Vec3{1, 1, 1}
	if n.Parent != nil {
		parentPos = n.Parent.worldPosition
		parentRot = n.Parent.worldRotation
		parentScale = n.Parent.worldScale
	}
	updateWorldTransform(n, parentPos, parentRot, parentScale, false)
}

type worldFrame struct {
	node       *Node
	pos        Vec3
	rot        Quat
	scale      Vec3
	recomputed bool
}

// updateWorldTransform walks the subtree iteratively so deep rigs do not
// grow the goroutine stack.
func updateWorldTransform(root *Node, pos Vec3, rot Quat, scale Vec3, parentRecomputed bool) {
	stack := []worldFrame{{node: root, pos: pos, rot: rot, scale: scale, recomputed: parentRecomputed}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := f.node

		recompute := n.transformDirty || f.recomputed
		if recompute {
			local := mulVec(f.scale.vec(), n.Position.vec())
			rotated := r3.Rotation(f.rot.number()).Rotate(local)
			n.worldPosition = vec3From(r3.Add(f.pos.vec(), rotated))
			n.worldRotation = f.rot.Mul(n.Quaternion).Normalize()
			n.worldScale = vec3From(mulVec(f.scale.vec(), n.Scale.vec()))
			n.transformDirty = false
		}

		for _, child := range n.children {
			stack = append(stack, worldFrame{
				node:       child,
				pos:        n.worldPosition,
				rot:        n.worldRotation,
				scale:      n.worldScale,
				recomputed: recompute,
			})
		}
	}
}

// mulVec is the component-wise product of a and b.
func mulVec(a, b r3.Vec) r3.Vec {
	return r3.Vec{X: a.X * b.X, Y: a.Y * b.Y, Z: a.Z * b.Z}
}

// --- Transform property setters ---

// SetPosition sets the node's local position and marks it dirty.
func (n *Node) SetPosition(x, y, z float64) {
	n.Position = Vec3{x, y, z}
	n.transformDirty = true
}

// SetScale sets the node's local scale and marks it dirty.
func (n *Node) SetScale(x, y, z float64) {
	n.Scale = Vec3{x, y, z}
	n.transformDirty = true
}

// SetQuaternion sets the node's local rotation and marks it dirty.
func (n *Node) SetQuaternion(q Quat) {
	n.Quaternion = q
	n.transformDirty = true
}

// MarkDirty marks the node's world transform as stale, forcing recomputation
// on the next UpdateWorld. Bindings call this after writing a node property.
func (n *Node) MarkDirty() {
	n.transformDirty = true
}

// IsDirty reports whether the node's world transform is stale.
func (n *Node) IsDirty() bool {
	return n.transformDirty
}

// WorldPosition returns the position computed by the last UpdateWorld.
func (n *Node) WorldPosition() Vec3 { return n.worldPosition }

// WorldQuaternion returns the rotation computed by the last UpdateWorld.
func (n *Node) WorldQuaternion() Quat { return n.worldRotation }

// WorldScale returns the scale computed by the last UpdateWorld.
func (n *Node) WorldScale() Vec3 { return n.worldScale }
