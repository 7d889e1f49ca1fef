package anim

// Group lets one action drive several structurally identical nodes at once.
// Reads come from the first member; writes fan out to every member.
type Group struct {
	UUID  string
	Name  string
	nodes []*Node

	// version changes on every membership change so bindings can rebind.
	version uint64
}

// NewGroup creates a group over the given nodes.
func NewGroup(name string, nodes ...*Node) *Group {
	g := &Group{UUID: newUUID(), Name: name}
	for _, n := range nodes {
		g.Add(n)
	}
	return g
}

func (g *Group) targetUUID() string { return g.UUID }
func (g *Group) targetName() string { return g.Name }

// Add appends n unless it is already a member. Bindings over the group start
// writing to n on their next access.
func (g *Group) Add(n *Node) {
	for _, m := range g.nodes {
		if m == n {
			return
		}
	}
	g.nodes = append(g.nodes, n)
	g.version++
}

// Remove drops n from the group. No-op if n is not a member.
func (g *Group) Remove(n *Node) {
	for i, m := range g.nodes {
		if m == n {
			copy(g.nodes[i:], g.nodes[i+1:])
			g.nodes[len(g.nodes)-1] = nil
			g.nodes = g.nodes[:len(g.nodes)-1]
			g.version++
			return
		}
	}
}

// Nodes returns the members. The returned slice MUST NOT be mutated.
func (g *Group) Nodes() []*Node {
	return g.nodes
}
