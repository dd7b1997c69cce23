package model

import "sync"

var changeSets = newChangeSetPool()

// changeSet collects the indices of cells that flip during a tick
type changeSet struct {
	indices []int
}

func (c *changeSet) add(i int) {
	c.indices = append(c.indices, i)
}

// changeSetPool reuses tick change buffers between generations
type changeSetPool struct {
	pool sync.Pool
}

func newChangeSetPool() *changeSetPool {
	return &changeSetPool{
		pool: sync.Pool{
			New: func() interface{} {
				return &changeSet{}
			},
		},
	}
}

// Get retrieves an empty change set sized for a grid with the given edge
func (p *changeSetPool) Get(edgeSize int) *changeSet {
	c := p.pool.Get().(*changeSet)
	if cap(c.indices) < edgeSize {
		c.indices = make([]int, 0, edgeSize)
	}
	return c
}

// Put returns a change set to the pool, clearing its contents
func (p *changeSetPool) Put(c *changeSet) {
	if c == nil {
		return
	}
	c.indices = c.indices[:0]
	p.pool.Put(c)
}
