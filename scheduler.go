package aspen

// TransitionState is the lifecycle of a transition.
//
//	Created -> Running -> Completed | Superseded
type TransitionState uint8

const (
	TransitionCreated TransitionState = iota
	TransitionRunning
	TransitionCompleted
	TransitionSuperseded
)

// String returns the state name used in logs.
func (s TransitionState) String() string {
	switch s {
	case TransitionCreated:
		return "created"
	case TransitionRunning:
		return "running"
	case TransitionCompleted:
		return "completed"
	case TransitionSuperseded:
		return "superseded"
	default:
		return "unknown"
	}
}

// Transition is the merged tree plus the animation controls bridging two
// steady states. Exactly one transition is active per engine root; a new
// state change supersedes it, capturing the current interpolated tree as the
// next transition's starting point so nothing snaps.
type Transition struct {
	from, to *Tree
	merged   *Tree
	controls []*Control
	swaps    []contentSwap
	state    TransitionState
	duration float32

	// Re-seating bookkeeping: the size-control values at the last time
	// positions were seated against fresh layout results.
	seated map[*Control]float64
}

// State returns the transition's lifecycle state.
func (t *Transition) State() TransitionState { return t.state }

// Tree returns the merged tree the renderer should draw while the transition
// runs. Geometry and per-node opacity/transform are already concrete.
func (t *Transition) Tree() *Tree { return t.merged }

// Target returns the destination tree that persists as the steady state once
// the transition completes.
func (t *Transition) Target() *Tree { return t.to }

// Controls returns the transition's animation controls.
// The returned slice MUST NOT be mutated by the caller.
func (t *Transition) Controls() []*Control { return t.controls }

// Tick advances every control by dt milliseconds, writes interpolated values
// into the merged tree, and applies any content switches whose threshold has
// passed. Returns true while a re-render is needed; when every control is
// done the transition moves to Completed and faded ghosts are dropped.
func (t *Transition) Tick(dtMillis float64) bool {
	if t.state == TransitionCompleted || t.state == TransitionSuperseded {
		return false
	}
	t.state = TransitionRunning

	dt := float32(dtMillis / 1000)
	allDone := true
	for _, c := range t.controls {
		c.Update(dt)
		c.apply(t.merged)
		if !c.Done() {
			allDone = false
		}
	}
	for i := range t.swaps {
		s := &t.swaps[i]
		if s.ctrl.Value() >= s.ctrl.To() {
			t.merged.Node(s.node).Text = s.text
		}
	}

	if allDone {
		t.state = TransitionCompleted
		t.merged.dropGhosts()
	}
	return true
}

// Snapshot captures the current interpolated tree as a standalone tree. When
// a running transition is superseded, this becomes the new transition's from
// tree, which is what guarantees that the value at the moment of supersession
// equals the new starting value (no visible snap). Mid-fade ghosts are kept:
// the superseding transition continues their fade from the current opacity,
// or revives them when its destination restores the node.
func (t *Transition) Snapshot() *Tree {
	return t.merged.Clone()
}

// supersede marks the transition replaced by a newer state change.
func (t *Transition) supersede() {
	t.state = TransitionSuperseded
}

// sizeDrift returns how far any size control has moved since the last seat.
func (t *Transition) sizeDrift() float64 {
	var max float64
	for _, c := range t.controls {
		if c.attr != AttrWidth && c.attr != AttrHeight {
			continue
		}
		last, ok := t.seated[c]
		if !ok {
			last = c.from
		}
		d := c.value - last
		if d < 0 {
			d = -d
		}
		if d > max {
			max = d
		}
	}
	return max
}

// markSeated records the current size-control values as the seating baseline.
func (t *Transition) markSeated() {
	if t.seated == nil {
		t.seated = make(map[*Control]float64)
	}
	for _, c := range t.controls {
		if c.attr == AttrWidth || c.attr == AttrHeight {
			t.seated[c] = c.value
		}
	}
}
