package tree

import (
	"sync"

	hexlens "github.com/hexlens/hexlens"
	"github.com/hexlens/hexlens/catalog"
)

// Cache keys nodes by ValueHandle identity so the integration layer
// can invalidate them explicitly when the host reports process state
// changes, instead of relying on object lifetimes.
type Cache struct {
	mu    sync.Mutex
	nodes map[hexlens.ValueHandle]*Node
}

func NewCache() *Cache {
	return &Cache{nodes: make(map[hexlens.ValueHandle]*Node)}
}

// Node returns the cached node for h, creating an unpopulated one on
// first sight.
func (c *Cache) Node(h hexlens.ValueHandle, mem hexlens.Memory, entry *catalog.Entry, platform hexlens.Platform) *Node {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n, ok := c.nodes[h]; ok {
		return n
	}
	n := NewNode(h, mem, entry, platform)
	c.nodes[h] = n
	return n
}

// Invalidate drops the decoded state of the node for h, if any.
func (c *Cache) Invalidate(h hexlens.ValueHandle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n, ok := c.nodes[h]; ok {
		n.Update()
	}
}

// InvalidateAll drops the decoded state of every cached node.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, n := range c.nodes {
		n.Update()
	}
}

// Len reports the number of cached nodes.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.nodes)
}
