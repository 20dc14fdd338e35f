package spine_model

// indexPool hands out slot indices in [0, capacity). Freed indices are reused first.
type indexPool struct {
	free []uint32
}

func newIndexPool(capacity int) *indexPool {
	p := &indexPool{free: make([]uint32, capacity)}
	for i := range p.free {
		p.free[i] = uint32(capacity - 1 - i)
	}
	return p
}

func (p *indexPool) pop() (uint32, bool) {
	n := len(p.free)
	if n == 0 {
		return 0, false
	}
	i := p.free[n-1]
	p.free = p.free[:n-1]
	return i, true
}

func (p *indexPool) push(i uint32) {
	p.free = append(p.free, i)
}

func (p *indexPool) remaining() int {
	return len(p.free)
}
