package aspen

import (
	"math"
	"testing"
)

func movingButton(x float64) *Tree {
	t := newTree("doc")
	r, _ := t.add(-1, steady("root", KindFrame, Rect{Width: 640, Height: 480}))
	t.add(r, steady("btn", KindFrame, Rect{X: x, Y: 0, Width: 40, Height: 40}))
	return t
}

func TestTransitionLifecycle(t *testing.T) {
	tr, err := BuildTransition(movingButton(0), movingButton(100), testCfg())
	if err != nil {
		t.Fatalf("BuildTransition: %v", err)
	}
	if tr.State() != TransitionCreated {
		t.Fatalf("initial state = %v, want created", tr.State())
	}

	if !tr.Tick(500) {
		t.Fatal("tick during the run should request a render")
	}
	if tr.State() != TransitionRunning {
		t.Fatalf("state after partial tick = %v, want running", tr.State())
	}

	tr.Tick(500)
	if tr.State() != TransitionCompleted {
		t.Fatalf("state after full duration = %v, want completed", tr.State())
	}
	if tr.Tick(500) {
		t.Error("completed transition should not request renders")
	}
}

func TestSupersededTransitionStopsTicking(t *testing.T) {
	tr, _ := BuildTransition(movingButton(0), movingButton(100), testCfg())
	tr.Tick(250)
	tr.supersede()

	if tr.State() != TransitionSuperseded {
		t.Fatalf("state = %v, want superseded", tr.State())
	}
	bi, _ := tr.Tree().Lookup(Identity{Node: "btn"})
	before := tr.Tree().Node(bi).Layout.X
	if tr.Tick(250) {
		t.Error("superseded transition should not request renders")
	}
	if got := tr.Tree().Node(bi).Layout.X; got != before {
		t.Errorf("superseded transition kept animating: %v -> %v", before, got)
	}
}

func TestSnapshotCapturesInterpolatedState(t *testing.T) {
	tr, _ := BuildTransition(movingButton(0), movingButton(100), testCfg())
	tr.Tick(250)
	tr.Tick(250)

	snap := tr.Snapshot()
	bi, ok := snap.Lookup(Identity{Node: "btn"})
	if !ok {
		t.Fatal("btn missing from snapshot")
	}
	if got := snap.Node(bi).Layout.X; math.Abs(got-50) > 0.5 {
		t.Errorf("snapshot x = %v, want the in-flight value ~50", got)
	}

	// The snapshot is detached: further ticks do not touch it.
	tr.Tick(250)
	if got := snap.Node(bi).Layout.X; math.Abs(got-50) > 0.5 {
		t.Errorf("snapshot mutated by a later tick: %v", got)
	}
}

func TestSnapshotKeepsFadingGhosts(t *testing.T) {
	from := movingButton(0)
	to := newTree("doc")
	to.add(-1, steady("root", KindFrame, Rect{Width: 640, Height: 480}))

	tr, _ := BuildTransition(from, to, testCfg())
	tr.Tick(250)

	snap := tr.Snapshot()
	kids := snap.Node(snap.Root()).ChildIndices()
	if len(kids) != 1 {
		t.Fatalf("snapshot children = %d, want the mid-fade ghost", len(kids))
	}
	ghost := snap.Node(kids[0])
	if !ghost.Ghost {
		t.Error("snapshot child lost its ghost marker")
	}
	if math.Abs(ghost.Opacity-0.75) > 0.01 {
		t.Errorf("snapshot ghost opacity = %v, want the in-flight ~0.75", ghost.Opacity)
	}
}

// A node mid-fade when its transition is superseded keeps fading from its
// current opacity instead of vanishing with the old transition.
func TestSupersessionContinuesGhostFade(t *testing.T) {
	gone := newTree("doc")
	gone.add(-1, steady("root", KindFrame, Rect{Width: 640, Height: 480}))

	first, _ := BuildTransition(movingButton(0), gone, testCfg())
	first.Tick(250)
	snap := first.Snapshot()
	first.supersede()

	still := newTree("doc")
	still.add(-1, steady("root", KindFrame, Rect{Width: 640, Height: 480}))
	second, err := BuildTransition(snap, still, testCfg())
	if err != nil {
		t.Fatalf("BuildTransition from snapshot: %v", err)
	}

	kids := second.Tree().Node(second.Tree().Root()).ChildIndices()
	if len(kids) != 1 {
		t.Fatalf("merged children = %d, want the carried ghost", len(kids))
	}
	ghost := second.Tree().Node(kids[0])
	if !ghost.Ghost {
		t.Fatal("carried node should stay a ghost")
	}
	if math.Abs(ghost.Opacity-0.75) > 0.01 {
		t.Errorf("ghost opacity at handoff = %v, want ~0.75", ghost.Opacity)
	}

	second.Tick(500)
	if math.Abs(ghost.Opacity-0.375) > 0.01 {
		t.Errorf("ghost opacity at 50%% of the resumed fade = %v, want ~0.375", ghost.Opacity)
	}
}

// A superseding state that restores a node mid-fade resumes it from its
// current opacity rather than re-entering at 0.
func TestSupersessionRevivesFadingNode(t *testing.T) {
	gone := newTree("doc")
	gone.add(-1, steady("root", KindFrame, Rect{Width: 640, Height: 480}))

	first, _ := BuildTransition(movingButton(0), gone, testCfg())
	first.Tick(250)
	snap := first.Snapshot()
	first.supersede()

	second, err := BuildTransition(snap, movingButton(0), testCfg())
	if err != nil {
		t.Fatalf("BuildTransition from snapshot: %v", err)
	}

	bi, ok := second.Tree().Lookup(Identity{Node: "btn"})
	if !ok {
		t.Fatal("restored node missing from merged tree")
	}
	n := second.Tree().Node(bi)
	if n.Ghost {
		t.Error("restored node should be live, not a ghost")
	}
	if math.Abs(n.Opacity-0.75) > 0.01 {
		t.Errorf("restored node opacity at tick 0 = %v, want the in-flight ~0.75", n.Opacity)
	}

	var fade *Control
	for _, c := range second.Controls() {
		if c.Attribute() == AttrOpacity && c.node == bi {
			fade = c
		}
	}
	if fade == nil {
		t.Fatal("restored node has no opacity control")
	}
	if math.Abs(fade.From()-0.75) > 0.01 || fade.To() != 1 {
		t.Errorf("opacity control %v -> %v, want ~0.75 -> 1", fade.From(), fade.To())
	}
}

// Handing a snapshot to the next BuildTransition means the superseding
// transition starts exactly where the superseded one was, so the rendered
// value never jumps.
func TestSupersessionContinuity(t *testing.T) {
	first, _ := BuildTransition(movingButton(0), movingButton(100), testCfg())
	first.Tick(250)
	first.Tick(250)

	snap := first.Snapshot()
	first.supersede()

	second, err := BuildTransition(snap, movingButton(0), testCfg())
	if err != nil {
		t.Fatalf("BuildTransition from snapshot: %v", err)
	}

	var xCtrl *Control
	for _, c := range second.Controls() {
		if c.Attribute() == AttrX {
			xCtrl = c
		}
	}
	if xCtrl == nil {
		t.Fatal("no x control on the superseding transition")
	}
	if math.Abs(xCtrl.From()-50) > 0.5 || xCtrl.To() != 0 {
		t.Errorf("superseding control %v -> %v, want ~50 -> 0", xCtrl.From(), xCtrl.To())
	}

	bi, _ := second.Tree().Lookup(Identity{Node: "btn"})
	if got := second.Tree().Node(bi).Layout.X; math.Abs(got-50) > 0.5 {
		t.Errorf("merged tree starts at %v, want the superseded value ~50", got)
	}
}

func TestSizeDriftTracksSeatedBaseline(t *testing.T) {
	from := newTree("doc")
	from.add(-1, steady("box", KindFrame, Rect{Width: 100, Height: 100}))
	to := newTree("doc")
	to.add(-1, steady("box", KindFrame, Rect{Width: 200, Height: 100}))

	tr, _ := BuildTransition(from, to, testCfg())
	tr.markSeated()
	if got := tr.sizeDrift(); got != 0 {
		t.Fatalf("drift before any tick = %v, want 0", got)
	}

	tr.Tick(250)
	if got := tr.sizeDrift(); math.Abs(got-25) > 0.5 {
		t.Errorf("drift at 25%% = %v, want ~25", got)
	}

	tr.markSeated()
	if got := tr.sizeDrift(); got != 0 {
		t.Errorf("drift after re-seat = %v, want 0", got)
	}
}
