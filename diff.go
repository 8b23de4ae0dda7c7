package aspen

import "github.com/tanema/gween/ease"

// BuildTransition diffs two resolved trees of the same document and builds
// the merged tree plus animation controls that bridge them.
//
// Nodes are matched by identity wherever both trees contain them. Matched
// same-kind nodes get one control per changed animatable attribute. Matched
// nodes of different kinds become a cross-fade pair retained side by side, as
// do vector nodes whose path data changed (paths have no meaningful
// in-between). Nodes only in from stay as fading ghosts at their last
// geometry; nodes only in to enter pre-faded at opacity 0. List content
// matches strictly by item key, so removing one item never slides its later
// siblings into false matches.
//
// When from is a superseded snapshot, its mid-fade ghosts keep fading from
// their current opacity, and a ghost whose node the destination restores
// resumes as a live node at that opacity instead of re-entering at 0.
//
// Trees from different documents fail with ErrMismatchedRoot; the caller
// falls back to an unanimated cut.
func BuildTransition(from, to *Tree, cfg *Config) (*Transition, error) {
	if from == nil || to == nil || from.Root() < 0 || to.Root() < 0 {
		return nil, ErrMismatchedRoot
	}
	if from.DocumentID != to.DocumentID {
		return nil, ErrMismatchedRoot
	}

	c := cfg
	if c == nil {
		c = DefaultConfig()
	}
	b := &transitionBuilder{
		from:     from,
		to:       to,
		merged:   newTree(to.DocumentID),
		duration: float32(c.DurationMillis / 1000),
		easing:   easingByName(c.Easing),
		spring:   c.springParams(),
		useSpring: c.Spring.Enabled,
	}
	for i := 0; i < from.Len(); i++ {
		if n := from.Node(i); n.Ghost {
			if b.ghosts == nil {
				b.ghosts = make(map[Identity]int)
			}
			b.ghosts[n.Identity] = i
		}
	}

	// Roots of the same document always pair, whatever their identity: a
	// document has exactly one root element per generation.
	b.build(to.Root(), from.Root(), -1)

	tr := &Transition{
		from:     from,
		to:       to,
		merged:   b.merged,
		controls: b.controls,
		swaps:    b.swaps,
		state:    TransitionCreated,
		duration: b.duration,
	}
	return tr, nil
}

type transitionBuilder struct {
	from, to  *Tree
	merged    *Tree
	duration  float32
	easing    ease.TweenFunc
	spring    SpringParams
	useSpring bool

	// ghosts indexes the from tree's unindexed fading nodes by identity, so
	// a superseded snapshot's ghosts can pair with restored nodes.
	ghosts map[Identity]int

	controls []*Control
	swaps    []contentSwap
}

// contentSwap switches a text node's content at the threshold of a discrete
// control instead of interpolating glyphs.
type contentSwap struct {
	ctrl *Control
	node int
	text string
}

// build merges the to-subtree rooted at toIdx under mergedParent. fromIdx is
// the matched counterpart in the from tree, or -1 when the node is new.
func (b *transitionBuilder) build(toIdx, fromIdx, mergedParent int) int {
	tn := b.to.Node(toIdx)

	if fromIdx < 0 {
		// Appearing node: insert pre-faded and animate in.
		m := b.copyTarget(tn)
		m.Opacity = 0
		mi, _ := b.merged.add(mergedParent, m)
		b.addControl(newTween(mi, AttrOpacity, 0, tn.Opacity, b.duration, b.easing))
		b.buildChildren(toIdx, -1, mi)
		return mi
	}

	fn := b.from.Node(fromIdx)
	if fn.Kind != tn.Kind {
		return b.crossFade(toIdx, fromIdx, mergedParent)
	}
	if tn.Kind == KindVector && !vectorsEqual(fn.Vector, tn.Vector) {
		return b.crossFade(toIdx, fromIdx, mergedParent)
	}

	// Same-kind match: the merged node carries the destination content but
	// starts rendering at the source's current values.
	m := b.copyTarget(tn)
	m.Opacity = fn.Opacity
	m.Rotation = fn.Rotation
	m.ScaleX = fn.ScaleX
	m.ScaleY = fn.ScaleY
	if fn.HasLayout {
		m.Layout = fn.Layout
	}
	if tn.Kind == KindText && fn.Text != tn.Text {
		m.Text = fn.Text
	}
	mi, _ := b.merged.add(mergedParent, m)
	b.matchControls(mi, fn, tn)
	b.buildChildren(toIdx, fromIdx, mi)
	return mi
}

// buildChildren merges the children of a to-node, pairing each by identity
// against the whole from tree and appending ghosts for from-children that no
// longer exist anywhere in to. Ghosts can pair too: a fading node the
// destination brings back matches its own ghost and resumes live.
func (b *transitionBuilder) buildChildren(toIdx, fromIdx, mergedParent int) {
	tn := b.to.Node(toIdx)
	for _, tc := range tn.ChildIndices() {
		child := b.to.Node(tc)
		fi := -1
		if j, ok := b.from.Lookup(child.Identity); ok {
			fi = j
		} else if j, ok := b.ghosts[child.Identity]; ok {
			fi = j
		}
		b.build(tc, fi, mergedParent)
	}

	if fromIdx < 0 {
		return
	}
	fn := b.from.Node(fromIdx)
	for _, fc := range fn.ChildIndices() {
		child := b.from.Node(fc)
		_, stillThere := b.to.Lookup(child.Identity)
		if child.Ghost {
			// A ghost the destination restores was paired above and resumes
			// as a live node; any other ghost keeps fading out from its
			// current opacity.
			if _, indexed := b.from.Lookup(child.Identity); stillThere && !indexed {
				continue
			}
		} else if stillThere {
			continue
		}
		// Disappearing node: keep it at its last geometry with no target
		// movement, fade it out, and drop it on completion.
		gi := b.ghostSubtree(fc, mergedParent)
		b.addControl(newTween(gi, AttrOpacity, child.Opacity, 0, b.duration, b.easing))
	}
}

// crossFade handles a matched pair whose content kind changed: both nodes
// stay in the merged tree overlapping, the old fades out while the new fades
// in over the same duration, and the faded ghost is removed on completion.
func (b *transitionBuilder) crossFade(toIdx, fromIdx, mergedParent int) int {
	fn := b.from.Node(fromIdx)
	tn := b.to.Node(toIdx)

	// The merged tree has a single root slot, so an outgoing root cannot be
	// retained side by side; a root kind change cuts and fades the new root in.
	if mergedParent >= 0 {
		gi := b.ghostSubtree(fromIdx, mergedParent)
		b.addControl(newTween(gi, AttrOpacity, fn.Opacity, 0, b.duration, b.easing))
	}

	m := b.copyTarget(tn)
	m.Opacity = 0
	mi, _ := b.merged.add(mergedParent, m)
	b.addControl(newTween(mi, AttrOpacity, 0, tn.Opacity, b.duration, b.easing))
	b.buildChildren(toIdx, -1, mi)
	return mi
}

// matchControls creates one control per animatable attribute that actually
// changes between the matched pair. Position and size come from layout
// geometry, rotation and scale from the decomposed transform, opacity from
// the paint. Text content changes switch at the halfway threshold.
func (b *transitionBuilder) matchControls(mi int, fn, tn *Node) {
	if fn.HasLayout && tn.HasLayout {
		b.geometry(mi, AttrX, fn.Layout.X, tn.Layout.X)
		b.geometry(mi, AttrY, fn.Layout.Y, tn.Layout.Y)
		b.geometry(mi, AttrWidth, fn.Layout.Width, tn.Layout.Width)
		b.geometry(mi, AttrHeight, fn.Layout.Height, tn.Layout.Height)
	}
	if fn.Rotation != tn.Rotation {
		b.addControl(newTween(mi, AttrRotation, fn.Rotation, tn.Rotation, b.duration, b.easing))
	}
	if fn.ScaleX != tn.ScaleX {
		b.addControl(newTween(mi, AttrScaleX, fn.ScaleX, tn.ScaleX, b.duration, b.easing))
	}
	if fn.ScaleY != tn.ScaleY {
		b.addControl(newTween(mi, AttrScaleY, fn.ScaleY, tn.ScaleY, b.duration, b.easing))
	}
	if fn.Opacity != tn.Opacity {
		b.addControl(newTween(mi, AttrOpacity, fn.Opacity, tn.Opacity, b.duration, b.easing))
	}
	if tn.Kind == KindText && fn.Text != tn.Text {
		ctrl := newDiscrete(mi, AttrText, 0, 1, b.duration, 0.5)
		b.addControl(ctrl)
		b.swaps = append(b.swaps, contentSwap{ctrl: ctrl, node: mi, text: tn.Text})
	}
}

// geometry adds a position/size control, spring-driven when configured.
func (b *transitionBuilder) geometry(mi int, attr Attr, from, to float64) {
	if from == to {
		return
	}
	if b.useSpring {
		b.addControl(newSpring(mi, attr, from, to, b.spring))
		return
	}
	b.addControl(newTween(mi, attr, from, to, b.duration, b.easing))
}

// ghostSubtree deep-copies a from-subtree into the merged tree as unindexed
// ghosts that keep their last known geometry.
func (b *transitionBuilder) ghostSubtree(fromIdx, mergedParent int) int {
	fn := b.from.Node(fromIdx)
	m := *fn
	m.children = nil
	if len(fn.Vector) > 0 {
		m.Vector = append([]Vec2(nil), fn.Vector...)
	}
	gi := b.merged.addGhost(mergedParent, m)
	for _, c := range fn.ChildIndices() {
		b.ghostSubtree(c, gi)
	}
	return gi
}

// copyTarget copies a to-node into merged-node form (children rebuilt by the
// caller, render values defaulting to the destination's).
func (b *transitionBuilder) copyTarget(tn *Node) Node {
	m := *tn
	m.children = nil
	if len(tn.Vector) > 0 {
		m.Vector = append([]Vec2(nil), tn.Vector...)
	}
	return m
}

func (b *transitionBuilder) addControl(c *Control) {
	b.controls = append(b.controls, c)
}

func vectorsEqual(a, b []Vec2) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
