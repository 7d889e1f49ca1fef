package anim

import (
	"slices"

	"github.com/google/uuid"
)

// nodeIDCounter is a plain counter; anim is single-threaded.
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

func newUUID() string {
	return uuid.NewString()
}

// Target is an action root: a single *Node or a *Group of nodes that share
// one set of playback state.
type Target interface {
	targetUUID() string
	targetName() string
}

// Node is the scene graph element animated by a Mixer. A single flat struct
// carries every animatable property so bindings resolve against one type.
//
// Properties are addressed by track paths such as "hero.position",
// "arm.quaternion", ".materials[0].opacity" or ".morphTargetInfluences[smile]".
type Node struct {
	// Identity
	ID   uint32
	UUID string
	Name string

	// Hierarchy
	Parent   *Node
	children []*Node

	// Transform (local)
	Position   Vec3
	Quaternion Quat
	Scale      Vec3

	// Computed by UpdateWorld
	worldPosition  Vec3
	worldRotation  Quat
	worldScale     Vec3
	transformDirty bool

	// Appearance
	Alpha   float64
	Visible bool
	Label   string

	// Attached resources
	Material  *Material
	Materials []*Material
	Skeleton  *Skeleton

	// Morph targets. MorphTargetDictionary maps target names to indices into
	// MorphTargetInfluences.
	MorphTargetInfluences []float64
	MorphTargetDictionary map[string]int

	// Animations lists clips that can be looked up by name from this node.
	Animations []*Clip

	// Metadata
	UserData any

	disposed bool
}

// NewNode creates a node with identity transform and full opacity.
func NewNode(name string) *Node {
	n := &Node{
		ID:             nextNodeID(),
		UUID:           newUUID(),
		Name:           name,
		Quaternion:     QuatIdentity,
		Scale:          Vec3{1, 1, 1},
		worldRotation:  QuatIdentity,
		worldScale:     Vec3{1, 1, 1},
		Alpha:          1,
		Visible:        true,
		transformDirty: true,
	}
	return n
}

func (n *Node) targetUUID() string { return n.UUID }
func (n *Node) targetName() string { return n.Name }

// FindAnimation returns the clip in n.Animations with the given name, or nil.
func (n *Node) FindAnimation(name string) *Clip {
	return FindClip(n.Animations, name)
}

// --- Hierarchy ---

// AddChild attaches child as the last child of n, detaching it from any
// previous parent. Panics on a nil child or when child is n or one of its
// ancestors.
func (n *Node) AddChild(child *Node) {
	n.insert(child, -1, "AddChild")
}

// AddChildAt is AddChild with an explicit position. When child is already
// under n the index counts siblings without child itself. An out-of-range
// index panics before anything is changed.
func (n *Node) AddChildAt(child *Node, index int) {
	n.insert(child, index, "AddChildAt")
}

// insert links child under n at index; a negative index appends.
func (n *Node) insert(child *Node, index int, op string) {
	if child == nil {
		panic("anim: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(n, op)
		debugCheckDisposed(child, op)
	}
	for p := n; p != nil; p = p.Parent {
		if p == child {
			panic("anim: adding child would create a cycle")
		}
	}
	limit := len(n.children)
	if child.Parent == n {
		limit--
	}
	if index > limit {
		panic("anim: child index out of range")
	}
	if old := child.Parent; old != nil {
		old.unlink(child)
	}

	if index < 0 {
		n.children = append(n.children, child)
	} else {
		n.children = slices.Insert(n.children, index, child)
	}
	child.Parent = n
	child.invalidateSubtree()

	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
}

// RemoveChild detaches child from n. Panics if n is not child's parent.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		panic("anim: child's parent is not this node")
	}
	n.unlink(child)
	child.Parent = nil
	child.invalidateSubtree()
}

// RemoveFromParent detaches n from its parent, if any.
func (n *Node) RemoveFromParent() {
	if p := n.Parent; p != nil {
		p.RemoveChild(n)
	}
}

// RemoveChildren detaches every child of n without disposing them.
func (n *Node) RemoveChildren() {
	for i, child := range n.children {
		child.Parent = nil
		child.invalidateSubtree()
		n.children[i] = nil
	}
	n.children = n.children[:0]
}

// Children returns the child list. The returned slice MUST NOT be mutated.
func (n *Node) Children() []*Node { return n.children }

// NumChildren returns len(Children()).
func (n *Node) NumChildren() int { return len(n.children) }

// ChildAt returns the i-th child.
func (n *Node) ChildAt(i int) *Node { return n.children[i] }

// Dispose detaches n and releases it and all of its descendants. Bindings
// that resolved to a disposed node keep writing to it harmlessly; uncache
// its actions to drop them.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.release()
}

func (n *Node) release() {
	for _, child := range n.children {
		child.Parent = nil
		child.release()
	}
	n.disposed = true
	n.ID = 0
	n.Parent, n.children = nil, nil
	n.Material, n.Materials, n.Skeleton = nil, nil, nil
	n.MorphTargetDictionary = nil
	n.Animations = nil
	n.UserData = nil
}

// IsDisposed reports whether Dispose has been called on n or an ancestor.
func (n *Node) IsDisposed() bool { return n.disposed }

// unlink drops child from n.children, leaving child.Parent untouched. The
// vacated tail slot is cleared so the backing array does not pin child.
func (n *Node) unlink(child *Node) {
	if i := slices.Index(n.children, child); i >= 0 {
		n.children = slices.Delete(n.children, i, i+1)
	}
}

// invalidateSubtree flags n and every descendant for a world-transform
// recompute.
func (n *Node) invalidateSubtree() {
	stack := []*Node{n}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = append(stack[:len(stack)-1], top.children...)
		top.transformDirty = true
	}
}
