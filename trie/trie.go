// Package trie implements the name index behind prefix search.
//
// Keys are walked rune by rune. Two storage modes trade memory for search
// speed:
//
//   - NodeStoring: every node on a name's path (the root included) holds the
//     ID, so Search is O(len(prefix)) plus copying the result.
//   - Subtree: only the node where a name ends holds the ID, and Search
//     collects IDs by traversing the subtree below the prefix.
//
// The mode is fixed at construction. Switching modes means building a new
// trie.
package trie

import (
	"fmt"
	"iter"
	"sort"
	"strings"
)

// Mode selects where IDs are stored in the trie
type Mode int

const (
	// NodeStoring keeps the ID set at every node along a name's path
	NodeStoring Mode = iota
	// Subtree keeps IDs only at end-of-word nodes
	Subtree
)

// String returns the config spelling of the mode
func (m Mode) String() string {
	switch m {
	case NodeStoring:
		return "node"
	case Subtree:
		return "subtree"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses "node" or "subtree"
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "node", "nodes", "node-storing":
		return NodeStoring, nil
	case "subtree":
		return Subtree, nil
	default:
		return 0, fmt.Errorf("unknown trie mode %q (use 'node' or 'subtree')", s)
	}
}

type node struct {
	children map[rune]*node
	// ends holds the IDs whose full name ends at this node
	ends map[string]struct{}
	// through holds the IDs whose name passes through this node (NodeStoring only)
	through map[string]struct{}
}

func newNode() *node {
	return &node{children: make(map[rune]*node)}
}

func (n *node) isEnd() bool {
	return len(n.ends) > 0
}

func (n *node) empty() bool {
	return len(n.children) == 0 && len(n.ends) == 0 && len(n.through) == 0
}

func add(set *map[string]struct{}, id string) {
	if *set == nil {
		*set = make(map[string]struct{})
	}
	(*set)[id] = struct{}{}
}

// Trie maps normalized names to the IDs of the items carrying them
type Trie struct {
	root  *node
	mode  Mode
	prune bool
	nodes int
}

// Option configures a Trie
type Option func(*Trie)

// WithPruning makes Delete detach branches that no longer lead to any ID.
// Without it emptied nodes stay in place and are reused by later inserts.
func WithPruning() Option {
	return func(t *Trie) {
		t.prune = true
	}
}

// New creates an empty trie in the given mode
func New(mode Mode, opts ...Option) *Trie {
	t := &Trie{
		root: newNode(),
		mode: mode,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Mode returns the storage mode chosen at construction
func (t *Trie) Mode() Mode {
	return t.mode
}

// Pruning reports whether Delete detaches emptied branches
func (t *Trie) Pruning() bool {
	return t.prune
}

// NodeCount returns the number of nodes below the root
func (t *Trie) NodeCount() int {
	return t.nodes
}

// Insert records id under name
func (t *Trie) Insert(name, id string) {
	n := t.root
	if t.mode == NodeStoring {
		add(&n.through, id)
	}
	for _, r := range name {
		child, ok := n.children[r]
		if !ok {
			child = newNode()
			n.children[r] = child
			t.nodes++
		}
		n = child
		if t.mode == NodeStoring {
			add(&n.through, id)
		}
	}
	add(&n.ends, id)
}

func (t *Trie) find(prefix string) *node {
	n := t.root
	for _, r := range prefix {
		child, ok := n.children[r]
		if !ok {
			return nil
		}
		n = child
	}
	return n
}

// Search returns the sorted IDs of every name starting with prefix
func (t *Trie) Search(prefix string) []string {
	n := t.find(prefix)
	if n == nil {
		return []string{}
	}

	var ids []string
	if t.mode == NodeStoring {
		ids = make([]string, 0, len(n.through))
		for id := range n.through {
			ids = append(ids, id)
		}
	} else {
		ids = make([]string, 0)
		stack := []*node{n}
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for id := range cur.ends {
				ids = append(ids, id)
			}
			for _, child := range cur.children {
				stack = append(stack, child)
			}
		}
	}
	sort.Strings(ids)
	return ids
}

// Contains reports whether id is recorded under exactly name
func (t *Trie) Contains(name, id string) bool {
	n := t.find(name)
	if n == nil {
		return false
	}
	_, ok := n.ends[id]
	return ok
}

// Delete removes id from name's path. It is a no-op unless id is recorded
// under exactly name.
func (t *Trie) Delete(name, id string) {
	path := make([]*node, 1, len(name)+1)
	keys := make([]rune, 0, len(name))
	path[0] = t.root

	n := t.root
	for _, r := range name {
		child, ok := n.children[r]
		if !ok {
			return
		}
		n = child
		path = append(path, n)
		keys = append(keys, r)
	}

	if _, ok := n.ends[id]; !ok {
		return
	}
	delete(n.ends, id)
	if t.mode == NodeStoring {
		for _, p := range path {
			delete(p.through, id)
		}
	}

	if !t.prune {
		return
	}
	for i := len(path) - 1; i > 0; i-- {
		if !path[i].empty() {
			break
		}
		delete(path[i-1].children, keys[i-1])
		t.nodes--
	}
}

// All yields every (name, id) pair recorded at an end-of-word node, in
// lexical order of name and then id
func (t *Trie) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		var buf []rune
		var walk func(n *node) bool
		walk = func(n *node) bool {
			if n.isEnd() {
				ids := make([]string, 0, len(n.ends))
				for id := range n.ends {
					ids = append(ids, id)
				}
				sort.Strings(ids)
				name := string(buf)
				for _, id := range ids {
					if !yield(name, id) {
						return false
					}
				}
			}
			runes := make([]rune, 0, len(n.children))
			for r := range n.children {
				runes = append(runes, r)
			}
			sort.Slice(runes, func(i, j int) bool { return runes[i] < runes[j] })
			for _, r := range runes {
				buf = append(buf, r)
				ok := walk(n.children[r])
				buf = buf[:len(buf)-1]
				if !ok {
					return false
				}
			}
			return true
		}
		walk(t.root)
	}
}
