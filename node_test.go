package anim

import "testing"

func expectPanic(t *testing.T, what string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: expected panic", what)
		}
	}()
	fn()
}

func childNames(n *Node) []string {
	var names []string
	for _, c := range n.Children() {
		names = append(names, c.Name)
	}
	return names
}

func sameNames(got []string, want ...string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestNewNode(t *testing.T) {
	n := NewNode("hero")
	switch {
	case n.ID == 0, n.UUID == "":
		t.Error("node needs an ID and a UUID")
	case n.Name != "hero":
		t.Errorf("Name = %q", n.Name)
	case n.Scale != (Vec3{1, 1, 1}), n.Quaternion != QuatIdentity:
		t.Errorf("transform not identity: scale=%v rot=%v", n.Scale, n.Quaternion)
	case n.Alpha != 1 || !n.Visible:
		t.Errorf("alpha=%v visible=%v, want opaque and visible", n.Alpha, n.Visible)
	case !n.IsDirty():
		t.Error("new node should need a world update")
	}

	other := NewNode("hero")
	if other.ID == n.ID || other.UUID == n.UUID {
		t.Error("nodes with the same name must still get distinct IDs")
	}
}

func TestNodeHierarchy(t *testing.T) {
	root := NewNode("root")
	a, b, c := NewNode("a"), NewNode("b"), NewNode("c")

	root.AddChild(a)
	root.AddChild(c)
	root.AddChildAt(b, 1)
	if got := childNames(root); !sameNames(got, "a", "b", "c") {
		t.Fatalf("children = %v", got)
	}
	if b.Parent != root || root.NumChildren() != 3 || root.ChildAt(2) != c {
		t.Error("links not set")
	}

	// Moving within the same parent.
	root.AddChildAt(a, 2)
	if got := childNames(root); !sameNames(got, "b", "c", "a") {
		t.Errorf("after move: %v", got)
	}

	// Reparenting.
	c.AddChild(a)
	if got := childNames(root); !sameNames(got, "b", "c") {
		t.Errorf("old parent keeps %v", got)
	}
	if a.Parent != c {
		t.Error("a should now belong to c")
	}

	root.RemoveChild(b)
	if b.Parent != nil || root.NumChildren() != 1 {
		t.Error("RemoveChild should unlink both ways")
	}
	a.RemoveFromParent()
	a.RemoveFromParent()
	if c.NumChildren() != 0 {
		t.Error("RemoveFromParent should detach")
	}

	root.AddChild(a)
	root.RemoveChildren()
	if root.NumChildren() != 0 || a.Parent != nil || c.Parent != nil {
		t.Error("RemoveChildren should detach everything")
	}
}

func TestNodeHierarchyPanics(t *testing.T) {
	root := NewNode("root")
	mid := NewNode("mid")
	leaf := NewNode("leaf")
	root.AddChild(mid)
	mid.AddChild(leaf)

	expectPanic(t, "nil child", func() { root.AddChild(nil) })
	expectPanic(t, "cycle", func() { leaf.AddChild(root) })
	expectPanic(t, "self", func() { root.AddChild(root) })
	expectPanic(t, "wrong parent", func() { root.RemoveChild(leaf) })

	loose := NewNode("loose")
	mid.AddChild(loose)
	expectPanic(t, "index", func() { root.AddChildAt(loose, 5) })
	if loose.Parent != mid || mid.NumChildren() != 2 {
		t.Error("a rejected AddChildAt must leave the tree unchanged")
	}
}

func TestNodeDispose(t *testing.T) {
	root := NewNode("root")
	mid := NewNode("mid")
	leaf := NewNode("leaf")
	root.AddChild(mid)
	mid.AddChild(leaf)
	mid.Material = NewMaterial("m")

	mid.Dispose()
	mid.Dispose()

	if !mid.IsDisposed() || !leaf.IsDisposed() {
		t.Error("subtree should be disposed")
	}
	if root.NumChildren() != 0 {
		t.Error("disposed node should leave its parent")
	}
	if mid.ID != 0 || mid.Material != nil || leaf.Parent != nil {
		t.Error("disposed node should release its references")
	}
	if mid.Name != "mid" {
		t.Error("Name survives disposal for diagnostics")
	}
}

func TestDebugModeRejectsDisposedNodes(t *testing.T) {
	s := NewScene()
	s.SetDebugMode(true)
	defer s.SetDebugMode(false)

	gone := NewNode("gone")
	gone.Dispose()
	expectPanic(t, "disposed child", func() { s.Root().AddChild(gone) })
}

func TestReparentMarksSubtreeDirty(t *testing.T) {
	root := NewNode("root")
	arm := NewNode("arm")
	hand := NewNode("hand")
	arm.AddChild(hand)
	arm.UpdateWorld()
	if arm.IsDirty() || hand.IsDirty() {
		t.Fatal("UpdateWorld should clean the subtree")
	}

	root.AddChild(arm)
	if !arm.IsDirty() || !hand.IsDirty() {
		t.Error("attaching should dirty the whole subtree")
	}
	root.UpdateWorld()
	root.RemoveChild(arm)
	if !hand.IsDirty() {
		t.Error("detaching should dirty the whole subtree")
	}
}

func TestFindAnimation(t *testing.T) {
	n := NewNode("n")
	walk := NewClip("walk", 1, nil, BlendNormal)
	n.Animations = []*Clip{NewClip("idle", 1, nil, BlendNormal), walk}

	if got := n.FindAnimation("walk"); got != walk {
		t.Errorf("FindAnimation(walk) = %v", got)
	}
	if got := n.FindAnimation("run"); got != nil {
		t.Errorf("FindAnimation(run) = %v, want nil", got)
	}
}

func TestGroupMembership(t *testing.T) {
	a, b := NewNode("a"), NewNode("b")
	g := NewGroup("pair", a, b, a)
	if len(g.Nodes()) != 2 {
		t.Fatalf("Nodes = %d, want duplicates ignored", len(g.Nodes()))
	}
	g.Remove(a)
	g.Remove(a)
	if len(g.Nodes()) != 1 || g.Nodes()[0] != b {
		t.Errorf("Nodes after Remove = %v", g.Nodes())
	}
	if g.targetName() != "pair" || g.targetUUID() == "" {
		t.Error("group identity")
	}
}
