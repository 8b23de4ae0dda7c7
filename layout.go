package aspen

// MeasureFunc reports the content size of one node given the available
// space. The oracle calls it re-entrantly during its own layout pass; the
// call is synchronous, never a new async operation.
type MeasureFunc func(availW, availH float64) (w, h float64)

// LayoutRequest is the flattened, parent-indexed view of a tree handed to
// the oracle: arrays and indices, not pointers. Order is a pre-order
// traversal, so a parent's index is always smaller than its children's.
type LayoutRequest struct {
	IDs      []Identity
	Kinds    []NodeKind
	Styles   []Style
	Texts    []string
	Parents  []int32       // -1 for the root
	Measures []MeasureFunc // nil for nodes without measured content
}

// Len returns the number of nodes in the request.
func (r *LayoutRequest) Len() int { return len(r.Parents) }

// LayoutFailure marks one subtree the oracle could not lay out. The bridge
// collapses the subtree to zero size; the rest of the tree is unaffected.
type LayoutFailure struct {
	Index   int32
	Message string
}

// LayoutResult carries the oracle's geometry, indexed like the request.
type LayoutResult struct {
	Rects    []Rect
	Failures []LayoutFailure
}

// Oracle turns styled constraints into concrete geometry. Layout is a
// blocking call assumed to complete within a frame budget; there is no
// timeout or cancellation mid-call.
type Oracle interface {
	Layout(req *LayoutRequest) (*LayoutResult, error)
}

// Bridge flattens resolved trees into layout requests, invokes the oracle,
// and writes the returned rectangles back onto each node by index.
//
// The previous request and result are retained: when a tree flattens to an
// identical request, the oracle call is skipped and the cached geometry is
// applied directly. This is an optimization, not a correctness requirement,
// and it is what makes ComputeLayout idempotent for unchanged input.
type Bridge struct {
	oracle Oracle

	// MeasureText supplies content sizes for text nodes. When nil, a fixed
	// character-cell metric is used.
	MeasureText func(n *Node, availW, availH float64) (w, h float64)

	prevReq    *LayoutRequest
	prevResult *LayoutResult
}

// NewBridge creates a layout bridge over the given oracle.
func NewBridge(o Oracle) *Bridge {
	return &Bridge{oracle: o}
}

// Default character-cell metric for text nodes without a host measurer.
const (
	defaultGlyphWidth = 8
	defaultLineHeight = 16
)

// ComputeLayout computes geometry for every node of the tree. Failures are
// returned as diagnostics; the affected subtrees collapse to zero size and
// the rest of the tree keeps its geometry.
func (b *Bridge) ComputeLayout(t *Tree) []Diagnostic {
	req, arena := b.flatten(t)

	result := b.prevResult
	if b.prevReq == nil || !requestsEqual(b.prevReq, req) {
		var err error
		result, err = b.oracle.Layout(req)
		if err != nil {
			// Whole-call failure: treat as a failure of the root subtree.
			result = &LayoutResult{
				Rects:    make([]Rect, req.Len()),
				Failures: []LayoutFailure{{Index: 0, Message: err.Error()}},
			}
		}
		b.prevReq = req
		b.prevResult = result
	}

	var sink diagSink
	for i, rect := range result.Rects {
		n := t.Node(arena[i])
		n.Layout = rect
		n.HasLayout = true
	}
	for _, f := range result.Failures {
		sink.add(SeverityError, req.IDs[f.Index], ErrOracleFailure,
			"subtree collapsed to zero size: %s", f.Message)
		b.collapse(t, req, result, arena, f.Index)
	}
	return sink.drain()
}

// Invalidate drops the cached request so the next ComputeLayout always asks
// the oracle. Used after mid-transition re-seating mutates node geometry.
func (b *Bridge) Invalidate() {
	b.prevReq = nil
	b.prevResult = nil
}

// flatten builds the pre-order request and the request-index to arena-index
// mapping.
func (b *Bridge) flatten(t *Tree) (*LayoutRequest, []int) {
	n := t.Len()
	req := &LayoutRequest{
		IDs:      make([]Identity, 0, n),
		Kinds:    make([]NodeKind, 0, n),
		Styles:   make([]Style, 0, n),
		Texts:    make([]string, 0, n),
		Parents:  make([]int32, 0, n),
		Measures: make([]MeasureFunc, 0, n),
	}
	arena := make([]int, 0, n)
	reqIndex := make(map[int]int32, n)

	t.Walk(func(i int, node *Node) {
		idx := int32(len(req.Parents))
		reqIndex[i] = idx
		parent := int32(-1)
		if node.Parent() >= 0 {
			parent = reqIndex[node.Parent()]
		}
		req.IDs = append(req.IDs, node.Identity)
		req.Kinds = append(req.Kinds, node.Kind)
		req.Styles = append(req.Styles, node.Style)
		req.Texts = append(req.Texts, node.Text)
		req.Parents = append(req.Parents, parent)
		req.Measures = append(req.Measures, b.measureFor(node))
		arena = append(arena, i)
	})
	return req, arena
}

// measureFor registers the measurement closure for nodes with dynamically
// measured content, keyed by node identity through the request row.
func (b *Bridge) measureFor(node *Node) MeasureFunc {
	if node.Kind == KindVector && len(node.Vector) > 0 {
		var maxX, maxY float64
		for _, p := range node.Vector {
			if p.X > maxX {
				maxX = p.X
			}
			if p.Y > maxY {
				maxY = p.Y
			}
		}
		return func(availW, availH float64) (float64, float64) {
			return maxX, maxY
		}
	}
	if node.Kind != KindText {
		return nil
	}
	if b.MeasureText != nil {
		n := node
		return func(availW, availH float64) (float64, float64) {
			return b.MeasureText(n, availW, availH)
		}
	}
	text := node.Text
	return func(availW, availH float64) (float64, float64) {
		w := float64(len([]rune(text)) * defaultGlyphWidth)
		if availW > 0 && w > availW {
			w = availW
		}
		return w, defaultLineHeight
	}
}

// collapse zeroes the geometry of a failed request index and all its
// descendants, in the request, the cached result, and the tree.
func (b *Bridge) collapse(t *Tree, req *LayoutRequest, result *LayoutResult, arena []int, root int32) {
	failed := make([]bool, req.Len())
	failed[root] = true
	for i := int(root); i < req.Len(); i++ {
		p := req.Parents[i]
		if i != int(root) && (p < 0 || !failed[p]) {
			continue
		}
		failed[i] = true
		result.Rects[i] = Rect{}
		n := t.Node(arena[i])
		n.Layout = Rect{}
		n.HasLayout = true
	}
}

// requestsEqual compares two requests field by field, ignoring measurement
// closures (they are derived from the compared content).
func requestsEqual(a, c *LayoutRequest) bool {
	if a.Len() != c.Len() {
		return false
	}
	for i := range a.Parents {
		if a.Parents[i] != c.Parents[i] ||
			a.Kinds[i] != c.Kinds[i] ||
			a.IDs[i] != c.IDs[i] ||
			a.Texts[i] != c.Texts[i] ||
			a.Styles[i] != c.Styles[i] {
			return false
		}
	}
	return true
}
