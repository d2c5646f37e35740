package memory

// prefixNode is one rune of a cached prefix. A node holds a result only when
// the prefix ending at it has been queried and not invalidated since.
type prefixNode struct {
	children map[rune]*prefixNode
	ids      []string
	cached   bool
}

func newPrefixNode() *prefixNode {
	return &prefixNode{children: make(map[rune]*prefixNode)}
}

// PrefixCache is a trie-shaped cache of prefix query results.
//
// Shaping the cache like the name trie makes invalidation O(len(name)): the
// cached prefixes that can contain a name are exactly the nodes on that
// name's path.
type PrefixCache struct {
	root    *prefixNode
	entries int
}

// NewPrefixCache creates an empty prefix cache
func NewPrefixCache() *PrefixCache {
	return &PrefixCache{root: newPrefixNode()}
}

// Get returns a copy of the cached IDs for prefix
func (c *PrefixCache) Get(prefix string) ([]string, bool) {
	n := c.root
	for _, r := range prefix {
		child, ok := n.children[r]
		if !ok {
			return nil, false
		}
		n = child
	}
	if !n.cached {
		return nil, false
	}
	return clone(n.ids), true
}

// Put stores a copy of ids as the result for prefix
func (c *PrefixCache) Put(prefix string, ids []string) {
	n := c.root
	for _, r := range prefix {
		child, ok := n.children[r]
		if !ok {
			child = newPrefixNode()
			n.children[r] = child
		}
		n = child
	}
	if !n.cached {
		c.entries++
	}
	n.ids = clone(ids)
	n.cached = true
}

// InvalidateForName clears the cached result of every prefix of name
func (c *PrefixCache) InvalidateForName(name string) {
	n := c.root
	c.drop(n)
	for _, r := range name {
		child, ok := n.children[r]
		if !ok {
			return
		}
		n = child
		c.drop(n)
	}
}

func (c *PrefixCache) drop(n *prefixNode) {
	if n.cached {
		n.cached = false
		n.ids = nil
		c.entries--
	}
}

// Clear removes all cached entries
func (c *PrefixCache) Clear() {
	c.root = newPrefixNode()
	c.entries = 0
}

// Len returns the number of cached prefixes
func (c *PrefixCache) Len() int {
	return c.entries
}
