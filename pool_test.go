package anim

import "testing"

type slot struct {
	name  string
	index int
}

func (s *slot) poolIndex() int     { return s.index }
func (s *slot) setPoolIndex(i int) { s.index = i }

func checkSlots(t *testing.T, p *pool[*slot]) {
	t.Helper()
	for i, s := range p.items {
		if s.index != i {
			t.Fatalf("%s at %d stores %d", s.name, i, s.index)
		}
	}
}

func TestPoolActivateDeactivate(t *testing.T) {
	var p pool[*slot]
	a, b, c := &slot{name: "a", index: -1}, &slot{name: "b", index: -1}, &slot{name: "c", index: -1}
	p.add(a)
	p.add(b)
	p.add(c)

	p.activate(c)
	if !p.isActive(c) || p.isActive(a) || p.active != 1 {
		t.Fatalf("after activate(c): active=%d items=%v", p.active, p.items)
	}
	p.activate(a)
	checkSlots(t, &p)

	p.deactivate(c)
	if p.isActive(c) || !p.isActive(a) || p.active != 1 {
		t.Fatalf("after deactivate(c): active=%d", p.active)
	}
	checkSlots(t, &p)

	p.remove(b)
	if b.index != -1 || p.len() != 2 {
		t.Errorf("remove: index=%d len=%d", b.index, p.len())
	}
	if p.isActive(b) {
		t.Error("removed element reports active")
	}
	checkSlots(t, &p)
}

func TestPoolLend(t *testing.T) {
	var p pool[*slot]
	if _, ok := p.lend(); ok {
		t.Fatal("empty pool should not lend")
	}
	s := &slot{name: "r", index: -1}
	p.add(s)
	got, ok := p.lend()
	if !ok || got != s || !p.isActive(s) {
		t.Fatal("lend should activate the first inactive element")
	}
	if _, ok := p.lend(); ok {
		t.Error("fully lent pool should not lend")
	}
	p.deactivate(s)
	if got, ok := p.lend(); !ok || got != s {
		t.Error("returned element should be lent again")
	}
}
