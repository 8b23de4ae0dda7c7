package aspen

// Node is one element of a resolved tree. A single flat struct is used for
// all kinds to avoid interface dispatch on the hot path; Kind selects which
// content fields are meaningful.
//
// Nodes are owned exclusively by the Tree that created them and addressed by
// arena index, never by pointer across trees. A tree is immutable once
// resolved except for the geometry written by the layout bridge and, on a
// transition's merged tree only, the render values written each tick by the
// scheduler.
type Node struct {
	// Identity
	Identity Identity
	Kind     NodeKind

	// Resolved content
	Style  Style
	Text   string
	Vector []Vec2

	// Hierarchy (arena indices)
	parent   int
	children []int

	// Computed geometry. Absent (zero, HasLayout false) until the layout
	// bridge runs.
	Layout    Rect
	HasLayout bool

	// Current render values. At steady state these equal the style values;
	// during a transition the scheduler writes interpolated values here. The
	// renderer consumes them as-is and performs no interpolation.
	Opacity  float64
	Rotation float64
	ScaleX   float64
	ScaleY   float64

	// Ghost marks an outgoing node retained in a merged tree only to fade
	// out (removed or cross-faded away). Ghosts are not in the identity
	// index and are dropped when their transition completes.
	Ghost bool
}

// Parent returns the arena index of the node's parent, or -1 for the root.
func (n *Node) Parent() int { return n.parent }

// ChildIndices returns the arena indices of the node's children.
// The returned slice MUST NOT be mutated by the caller.
func (n *Node) ChildIndices() []int { return n.children }

// Tree is an arena of resolved nodes for one resolution pass. Identity
// lookups go through a side index so that "the same logical node across two
// trees" is a value comparison, not a pointer comparison.
type Tree struct {
	DocumentID string

	nodes []Node
	index map[Identity]int
	root  int
}

// newTree creates an empty tree for a document.
func newTree(documentID string) *Tree {
	return &Tree{
		DocumentID: documentID,
		index:      make(map[Identity]int),
		root:       -1,
	}
}

// add appends a node under the given parent (-1 for the root) and records it
// in the identity index. Returns the arena index and false if the identity
// already exists in this tree (the node is still added, but unindexed).
func (t *Tree) add(parent int, n Node) (int, bool) {
	n.parent = parent
	i := len(t.nodes)
	t.nodes = append(t.nodes, n)
	if parent >= 0 {
		t.nodes[parent].children = append(t.nodes[parent].children, i)
	} else {
		t.root = i
	}
	if _, dup := t.index[n.Identity]; dup {
		return i, false
	}
	t.index[n.Identity] = i
	return i, true
}

// addGhost appends an unindexed outgoing node under the given parent. A
// ghost never claims an occupied root slot; the live root always wins it.
func (t *Tree) addGhost(parent int, n Node) int {
	n.parent = parent
	n.Ghost = true
	i := len(t.nodes)
	t.nodes = append(t.nodes, n)
	if parent >= 0 {
		t.nodes[parent].children = append(t.nodes[parent].children, i)
	} else if t.root < 0 {
		t.root = i
	}
	return i
}

// Len returns the number of nodes in the arena.
func (t *Tree) Len() int { return len(t.nodes) }

// Root returns the arena index of the root node, or -1 for an empty tree.
func (t *Tree) Root() int { return t.root }

// Node returns the node at an arena index. The pointer stays valid for the
// life of the tree once resolution has completed.
func (t *Tree) Node(i int) *Node { return &t.nodes[i] }

// Lookup returns the arena index for an identity.
func (t *Tree) Lookup(id Identity) (int, bool) {
	i, ok := t.index[id]
	return i, ok
}

// Walk visits every node in pre-order (parents before children), which is
// also ascending arena order for trees built by Resolve.
func (t *Tree) Walk(fn func(i int, n *Node)) {
	if t.root < 0 {
		return
	}
	t.walk(t.root, fn)
}

func (t *Tree) walk(i int, fn func(int, *Node)) {
	fn(i, &t.nodes[i])
	for _, c := range t.nodes[i].children {
		t.walk(c, fn)
	}
}

// Clone deep-copies the tree, including geometry and render values. Used to
// snapshot the current interpolated state when a transition is superseded.
func (t *Tree) Clone() *Tree {
	out := &Tree{
		DocumentID: t.DocumentID,
		nodes:      make([]Node, len(t.nodes)),
		index:      make(map[Identity]int, len(t.index)),
		root:       t.root,
	}
	copy(out.nodes, t.nodes)
	for i := range out.nodes {
		n := &out.nodes[i]
		if len(n.children) > 0 {
			n.children = append([]int(nil), n.children...)
		}
		if len(n.Vector) > 0 {
			n.Vector = append([]Vec2(nil), n.Vector...)
		}
	}
	for k, v := range t.index {
		out.index[k] = v
	}
	return out
}

// dropGhosts unlinks every ghost subtree in place. Called when a transition
// completes; the arena slots stay allocated (the arena is discarded with the
// transition) but ghosts become unreachable.
func (t *Tree) dropGhosts() {
	for i := range t.nodes {
		n := &t.nodes[i]
		if len(n.children) == 0 {
			continue
		}
		kept := n.children[:0]
		for _, c := range n.children {
			if !t.nodes[c].Ghost {
				kept = append(kept, c)
			}
		}
		n.children = kept
	}
}
