package aspen

import (
	"errors"
	"fmt"
	"testing"
)

// stackOracle is a deterministic test oracle: every node gets its fixed
// width/height (10 when auto) and children stack vertically inside their
// parent. It records calls so tests can observe request reuse.
type stackOracle struct {
	calls    int
	lastReq  *LayoutRequest
	failNode string // identity node id whose subtree should fail
}

func (o *stackOracle) Layout(req *LayoutRequest) (*LayoutResult, error) {
	o.calls++
	o.lastReq = req
	result := &LayoutResult{Rects: make([]Rect, req.Len())}
	cursor := make([]float64, req.Len())
	for i := 0; i < req.Len(); i++ {
		if o.failNode != "" && req.IDs[i].Node == o.failNode {
			result.Failures = append(result.Failures, LayoutFailure{
				Index:   int32(i),
				Message: "malformed constraints",
			})
		}
		w := req.Styles[i].Width.Resolve(1000, -1)
		h := req.Styles[i].Height.Resolve(1000, -1)
		if w < 0 || h < 0 {
			if m := req.Measures[i]; m != nil {
				mw, mh := m(1000, 1000)
				if w < 0 {
					w = mw
				}
				if h < 0 {
					h = mh
				}
			} else {
				if w < 0 {
					w = 10
				}
				if h < 0 {
					h = 10
				}
			}
		}
		var x, y float64
		if p := req.Parents[i]; p >= 0 {
			x = result.Rects[p].X
			y = result.Rects[p].Y + cursor[p]
			cursor[p] += h
		}
		result.Rects[i] = Rect{X: x, Y: y, Width: w, Height: h}
	}
	return result, nil
}

func resolveFixture(t *testing.T) *Tree {
	t.Helper()
	doc := loadTestDoc(t, buttonDoc)
	tree, diags := Resolve(doc, "main", nil, nil)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	return tree
}

func TestComputeLayoutAppliesGeometry(t *testing.T) {
	tree := resolveFixture(t)
	bridge := NewBridge(&stackOracle{})

	diags := bridge.ComputeLayout(tree)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	tree.Walk(func(i int, n *Node) {
		if !n.HasLayout {
			t.Errorf("%s has no geometry after ComputeLayout", n.Identity)
		}
	})
	bi, _ := tree.Lookup(Identity{Node: "button"})
	if got := tree.Node(bi).Layout.Width; got != 120 {
		t.Errorf("button width = %v, want 120", got)
	}
}

func TestFlattenIsPreOrder(t *testing.T) {
	tree := resolveFixture(t)
	oracle := &stackOracle{}
	bridge := NewBridge(oracle)
	bridge.ComputeLayout(tree)

	req := oracle.lastReq
	if req.Parents[0] != -1 {
		t.Fatalf("root parent = %d, want -1", req.Parents[0])
	}
	for i := 1; i < req.Len(); i++ {
		if req.Parents[i] < 0 || int(req.Parents[i]) >= i {
			t.Errorf("row %d: parent index %d is not strictly before the child", i, req.Parents[i])
		}
	}
}

func TestComputeLayoutIdempotent(t *testing.T) {
	tree := resolveFixture(t)
	oracle := &stackOracle{}
	bridge := NewBridge(oracle)

	bridge.ComputeLayout(tree)
	first := make(map[Identity]Rect)
	tree.Walk(func(i int, n *Node) { first[n.Identity] = n.Layout })

	bridge.ComputeLayout(tree)
	if oracle.calls != 1 {
		t.Errorf("oracle called %d times for unchanged input, want 1", oracle.calls)
	}
	tree.Walk(func(i int, n *Node) {
		if n.Layout != first[n.Identity] {
			t.Errorf("%s geometry changed on unchanged input", n.Identity)
		}
	})
}

func TestComputeLayoutRecomputesOnChange(t *testing.T) {
	doc := loadTestDoc(t, buttonDoc)
	oracle := &stackOracle{}
	bridge := NewBridge(oracle)

	a, _ := Resolve(doc, "main", nil, nil)
	bridge.ComputeLayout(a)

	b, _ := Resolve(doc, "main", &Context{Text: map[string]string{"title": "longer text"}}, nil)
	bridge.ComputeLayout(b)

	if oracle.calls != 2 {
		t.Errorf("oracle called %d times for changed text, want 2", oracle.calls)
	}
}

func TestMeasureCallbackForText(t *testing.T) {
	tree := resolveFixture(t)
	bridge := NewBridge(&stackOracle{})
	measured := 0
	bridge.MeasureText = func(n *Node, availW, availH float64) (float64, float64) {
		measured++
		return float64(len(n.Text)) * 7, 14
	}

	bridge.ComputeLayout(tree)
	if measured == 0 {
		t.Fatal("measurement callback never invoked")
	}
	ti, _ := tree.Lookup(Identity{Node: "title"})
	n := tree.Node(ti)
	if n.Layout.Width != float64(len("hello"))*7 {
		t.Errorf("text width = %v, want measured %v", n.Layout.Width, float64(len("hello"))*7)
	}
}

func TestOracleFailureCollapsesSubtree(t *testing.T) {
	tree := resolveFixture(t)
	bridge := NewBridge(&stackOracle{failNode: "button"})

	diags := bridge.ComputeLayout(tree)
	if len(diags) != 1 || !errors.Is(diags[0], ErrOracleFailure) {
		t.Fatalf("diagnostics = %v, want one ErrOracleFailure", diags)
	}

	bi, _ := tree.Lookup(Identity{Node: "button"})
	if got := tree.Node(bi).Layout; got != (Rect{}) {
		t.Errorf("failed subtree rect = %v, want zero", got)
	}
	ii, ok := tree.Lookup(Identity{Node: "buttonIcon", Path: "button"})
	if !ok {
		t.Fatal("buttonIcon missing")
	}
	if got := tree.Node(ii).Layout; got != (Rect{}) {
		t.Errorf("failed subtree descendant rect = %v, want zero", got)
	}
	// The rest of the tree keeps its geometry.
	ti, _ := tree.Lookup(Identity{Node: "title"})
	if tree.Node(ti).Layout == (Rect{}) {
		t.Error("unrelated subtree collapsed too")
	}
}

func TestWholeCallFailureCollapsesRoot(t *testing.T) {
	tree := resolveFixture(t)
	bridge := NewBridge(failingOracle{})

	diags := bridge.ComputeLayout(tree)
	if len(diags) != 1 || !errors.Is(diags[0], ErrOracleFailure) {
		t.Fatalf("diagnostics = %v, want one ErrOracleFailure", diags)
	}
	tree.Walk(func(i int, n *Node) {
		if n.Layout != (Rect{}) {
			t.Errorf("%s rect = %v, want zero", n.Identity, n.Layout)
		}
	})
}

type failingOracle struct{}

func (failingOracle) Layout(req *LayoutRequest) (*LayoutResult, error) {
	return nil, fmt.Errorf("oracle exploded")
}
