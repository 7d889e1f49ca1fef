package anim

// pooled is implemented by elements that remember their slot in a pool.
type pooled interface {
	poolIndex() int
	setPoolIndex(int)
}

// pool is an arena split into an active prefix [0, active) and an inactive
// suffix. Promotion and demotion swap with the boundary element, so every
// move is O(1) and each element's stored index stays correct. Elements not
// in the pool carry index -1.
type pool[T pooled] struct {
	items  []T
	active int
}

// len returns the total number of pooled elements.
func (p *pool[T]) len() int { return len(p.items) }

// isActive reports whether x sits in the active prefix of this pool.
func (p *pool[T]) isActive(x T) bool {
	i := x.poolIndex()
	return i >= 0 && i < p.active
}

// add appends x as inactive.
func (p *pool[T]) add(x T) {
	x.setPoolIndex(len(p.items))
	p.items = append(p.items, x)
}

// activate moves inactive x to the end of the active prefix.
func (p *pool[T]) activate(x T) {
	prev := x.poolIndex()
	first := p.active
	p.active++
	p.swap(prev, first)
}

// deactivate moves active x to the start of the inactive suffix.
func (p *pool[T]) deactivate(x T) {
	prev := x.poolIndex()
	p.active--
	last := p.active
	p.swap(prev, last)
}

// remove drops inactive x by moving the last element into its slot.
func (p *pool[T]) remove(x T) {
	i := x.poolIndex()
	last := len(p.items) - 1
	lastItem := p.items[last]
	lastItem.setPoolIndex(i)
	p.items[i] = lastItem
	var zero T
	p.items[last] = zero
	p.items = p.items[:last]
	x.setPoolIndex(-1)
}

// lend returns the first inactive element and activates it, or ok=false
// when every element is in use.
func (p *pool[T]) lend() (x T, ok bool) {
	if p.active < len(p.items) {
		x = p.items[p.active]
		p.active++
		return x, true
	}
	return x, false
}

func (p *pool[T]) swap(i, j int) {
	if i == j {
		return
	}
	a, b := p.items[i], p.items[j]
	a.setPoolIndex(j)
	p.items[j] = a
	b.setPoolIndex(i)
	p.items[i] = b
}
