package aspen

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Engine drives the full pipeline for one document root: resolve a view
// against the current context, compute layout, and bridge state changes with
// animated transitions. All entry points must run on a single goroutine; the
// engine is cooperative and frame-driven with no background work.
type Engine struct {
	provider DocumentProvider
	rootID   string
	cfg      *Config
	logger   *log.Logger
	id       uuid.UUID

	bridge       *Bridge
	reseatBridge *Bridge

	current *Tree       // committed steady state
	active  *Transition // at most one; a new state change replaces it
	sink    diagSink
}

// NewEngine creates an engine for one document root. cfg may be nil for the
// defaults. The engine logs transition lifecycle events at debug level,
// tagged with a per-engine id so multiple roots can be told apart.
func NewEngine(p DocumentProvider, rootID string, o Oracle, cfg *Config) *Engine {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	e := &Engine{
		provider:     p,
		rootID:       rootID,
		cfg:          cfg,
		id:           uuid.New(),
		bridge:       NewBridge(o),
		reseatBridge: NewBridge(o),
	}
	e.logger = log.NewWithOptions(os.Stderr, log.Options{Level: log.WarnLevel}).
		With("engine", e.id.String()[:8], "doc", p.DocumentID())
	return e
}

// SetLogger replaces the engine's logger.
func (e *Engine) SetLogger(l *log.Logger) {
	e.logger = l.With("engine", e.id.String()[:8], "doc", e.provider.DocumentID())
}

// SetMeasureText installs the host's text measurement callback. The oracle
// calls it re-entrantly and synchronously during layout.
func (e *Engine) SetMeasureText(fn func(n *Node, availW, availH float64) (w, h float64)) {
	e.bridge.MeasureText = fn
	e.reseatBridge.MeasureText = fn
}

// ID returns the engine's instance id.
func (e *Engine) ID() uuid.UUID { return e.id }

// Tree returns the tree the renderer should draw right now: the active
// transition's merged tree while animating, otherwise the committed steady
// state. May be nil before the first Apply.
func (e *Engine) Tree() *Tree {
	if e.active != nil {
		return e.active.Tree()
	}
	return e.current
}

// Transitioning reports whether a transition is in flight.
func (e *Engine) Transitioning() bool { return e.active != nil }

// DrainDiagnostics hands the host every diagnostic accumulated since the
// last call, without interrupting rendering.
func (e *Engine) DrainDiagnostics() []Diagnostic {
	return e.sink.drain()
}

// Apply resolves the root view under ctx and commits the result. The first
// call establishes the steady state; later calls build an animated
// transition from the currently rendered values (superseding any running
// transition from its current interpolated tree, never from its original
// source). A transition that cannot be built falls back to an unanimated
// cut.
func (e *Engine) Apply(ctx *Context) {
	tree, diags := Resolve(e.provider, e.rootID, ctx, e.cfg)
	e.collect(diags)

	// Idempotence short-circuit: skip layout and transition building when
	// nothing resolved differently from the committed tree.
	if e.active == nil && e.current != nil && treesEqual(e.current, tree) {
		return
	}

	e.collect(e.bridge.ComputeLayout(tree))

	if e.current == nil {
		e.current = tree
		e.logger.Debug("initial tree committed", "nodes", tree.Len())
		return
	}

	from := e.current
	if e.active != nil {
		from = e.active.Snapshot()
		e.active.supersede()
		e.logger.Debug("transition superseded", "state", e.active.State())
		e.active = nil
	}

	tr, err := BuildTransition(from, tree, e.cfg)
	if err != nil {
		e.sink.add(SeverityError, Identity{Node: e.rootID}, err,
			"transition not built; cutting to new state")
		e.logger.Debug("transition fallback cut", "err", err)
		e.current = tree
		return
	}
	tr.markSeated()
	e.active = tr
	e.current = tree
	e.logger.Debug("transition built",
		"controls", len(tr.controls), "nodes", tr.merged.Len())
}

// Tick advances the active transition by dtMillis on the host frame clock.
// Returns true while a re-render is needed. When animated sizes have drifted
// past the configured threshold since the last seat, positions are re-seated
// against fresh layout results before the next frame.
func (e *Engine) Tick(dtMillis float64) bool {
	t := e.active
	if t == nil {
		return false
	}
	needs := t.Tick(dtMillis)

	if t.State() == TransitionRunning && t.sizeDrift() > e.cfg.ReseatThreshold {
		e.reseat(t)
	}
	if t.State() == TransitionCompleted {
		e.current = t.Target()
		e.active = nil
		e.logger.Debug("transition completed")
	}
	return needs
}

// reseat recomputes layout with the transition's current animated sizes and
// retargets in-flight position controls from their current interpolated
// values, so sibling layout perturbations mid-animation track fresh geometry
// instead of tweening toward stale positions.
func (e *Engine) reseat(t *Transition) {
	scratch := t.Target().Clone()

	for _, c := range t.controls {
		if c.attr != AttrWidth && c.attr != AttrHeight {
			continue
		}
		id := t.merged.Node(c.node).Identity
		si, ok := scratch.Lookup(id)
		if !ok {
			continue
		}
		n := scratch.Node(si)
		if c.attr == AttrWidth {
			n.Style.Width = Fixed(c.value)
		} else {
			n.Style.Height = Fixed(c.value)
		}
	}

	e.reseatBridge.Invalidate()
	e.collect(e.reseatBridge.ComputeLayout(scratch))

	// Which merged nodes animate position already.
	animated := make(map[int]uint8, len(t.controls))
	for _, c := range t.controls {
		switch c.attr {
		case AttrX:
			animated[c.node] |= 1
		case AttrY:
			animated[c.node] |= 2
		}
	}

	for _, c := range t.controls {
		if c.attr != AttrX && c.attr != AttrY {
			continue
		}
		id := t.merged.Node(c.node).Identity
		si, ok := scratch.Lookup(id)
		if !ok {
			continue
		}
		r := scratch.Node(si).Layout
		target := r.X
		if c.attr == AttrY {
			target = r.Y
		}
		if target != c.to {
			c.Retarget(target)
		}
	}

	// Nodes with no position controls follow the fresh layout directly.
	t.merged.Walk(func(i int, n *Node) {
		if n.Ghost {
			return
		}
		si, ok := scratch.Lookup(n.Identity)
		if !ok {
			return
		}
		r := scratch.Node(si).Layout
		if animated[i]&1 == 0 {
			n.Layout.X = r.X
		}
		if animated[i]&2 == 0 {
			n.Layout.Y = r.Y
		}
	})

	t.markSeated()
	e.logger.Debug("transition re-seated")
}

func (e *Engine) collect(diags []Diagnostic) {
	for _, d := range diags {
		e.sink.diags = append(e.sink.diags, d)
		e.logger.Debug("diagnostic", "node", d.Node.String(), "msg", d.Message)
	}
}

// treesEqual reports whether two trees resolve to identical content
// (identity, kind, style, text, structure). Geometry is ignored; equal
// content implies equal geometry under an idempotent oracle.
func treesEqual(a, b *Tree) bool {
	if a.Len() != b.Len() || a.Root() != b.Root() {
		return false
	}
	for i := 0; i < a.Len(); i++ {
		an, bn := a.Node(i), b.Node(i)
		if an.Identity != bn.Identity ||
			an.Kind != bn.Kind ||
			an.Style != bn.Style ||
			an.Text != bn.Text ||
			an.parent != bn.parent ||
			len(an.children) != len(bn.children) ||
			len(an.Vector) != len(bn.Vector) {
			return false
		}
		for j := range an.children {
			if an.children[j] != bn.children[j] {
				return false
			}
		}
		for j := range an.Vector {
			if an.Vector[j] != bn.Vector[j] {
				return false
			}
		}
	}
	return true
}
