package anim

import "slices"

// groupBinding fans one track path out over every member of a Group. Reads
// come from the first member; writes go to all of them.
type groupBinding struct {
	group    *Group
	path     string
	parsed   ParsedPath
	bound    bool
	version  uint64
	bindings []*PropertyBinding
}

func newGroupBinding(g *Group, path string, parsed *ParsedPath) (*groupBinding, error) {
	var p ParsedPath
	if parsed != nil {
		p = *parsed
	} else {
		var err error
		if p, err = ParseTrackName(path); err != nil {
			return nil, err
		}
	}
	return &groupBinding{group: g, path: path, parsed: p}, nil
}

func (b *groupBinding) parsedPath() ParsedPath { return b.parsed }

// Bind (re)creates per-member bindings for the group's current members and
// resolves each of them. Bindings of members that are still present are kept.
func (b *groupBinding) Bind() {
	members := b.group.Nodes()
	next := make([]*PropertyBinding, 0, len(members))
	for _, n := range members {
		var pb *PropertyBinding
		for _, existing := range b.bindings {
			if existing.root == n {
				pb = existing
				break
			}
		}
		if pb == nil {
			pb, _ = NewPropertyBinding(n, b.path, &b.parsed)
		}
		pb.Bind()
		next = append(next, pb)
	}
	for _, old := range b.bindings {
		if !slices.Contains(next, old) {
			old.Unbind()
		}
	}
	b.bindings = next
	b.version = b.group.version
	b.bound = true
}

// Unbind unbinds every member binding; the next access binds again.
func (b *groupBinding) Unbind() {
	for _, pb := range b.bindings {
		pb.Unbind()
	}
	b.bound = false
}

func (b *groupBinding) stale() bool {
	return !b.bound || b.version != b.group.version
}

// current binds on first use and again after the group's membership changed.
func (b *groupBinding) current() {
	if b.stale() {
		b.Bind()
	}
}

func (b *groupBinding) getValue(buf *valueBuffer, offset, size int) {
	b.current()
	if len(b.bindings) > 0 {
		b.bindings[0].getValue(buf, offset, size)
	}
}

func (b *groupBinding) setValue(buf *valueBuffer, offset, size int) {
	b.current()
	for _, pb := range b.bindings {
		pb.setValue(buf, offset, size)
	}
}
