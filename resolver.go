package aspen

import "strconv"

// defaultMaxDepth caps resolution recursion when no config is supplied.
// Documents are trees, so the cap only guards against pathological nesting.
const defaultMaxDepth = 64

// Resolve converts a raw document view plus the active customization context
// into a concrete tree of resolved nodes, following component and variant
// references. The returned diagnostics describe every recoverable problem
// encountered; a non-nil tree is always returned. Resolving the same view and
// context twice yields structurally identical trees.
func Resolve(p DocumentProvider, rootID string, ctx *Context, cfg *Config) (*Tree, []Diagnostic) {
	maxDepth := defaultMaxDepth
	if cfg != nil && cfg.MaxDepth > 0 {
		maxDepth = cfg.MaxDepth
	}
	r := &resolver{
		provider: p,
		ctx:      ctx,
		maxDepth: maxDepth,
		tree:     newTree(p.DocumentID()),
	}

	view, err := p.View(rootID)
	if err != nil || view == nil {
		r.sink.add(SeverityError, Identity{Node: rootID}, ErrMissingNode,
			"root view %q not found", rootID)
		r.placeholder(-1, rootID, "", "")
		return r.tree, r.sink.drain()
	}
	r.resolveView(-1, view, "", "", 0)
	if r.tree.Root() < 0 {
		// Root pruned by a visibility binding: keep an empty placeholder so
		// downstream stages always have a tree to work with.
		r.placeholder(-1, rootID, "", "")
	}
	return r.tree, r.sink.drain()
}

type resolver struct {
	provider DocumentProvider
	ctx      *Context
	maxDepth int
	tree     *Tree
	sink     diagSink
}

// resolveView resolves one raw view into the arena under parent. path is the
// instantiation path accumulated through component instances and list items;
// key is the list item key for this subtree's root (empty outside lists).
func (r *resolver) resolveView(parent int, view *View, path, key string, depth int) {
	if depth > r.maxDepth {
		r.sink.add(SeverityError, Identity{Node: view.ID, Path: path, Key: key}, ErrDepthExceeded,
			"resolution deeper than %d levels", r.maxDepth)
		r.placeholder(parent, view.ID, path, key)
		return
	}
	if !r.ctx.visible(view.ID) {
		return
	}

	if view.Component != nil {
		r.resolveInstance(parent, view, path, key, depth)
		return
	}

	idx := r.addNode(parent, view, view.Style, path, key)

	if view.ListContent {
		if gen := r.ctx.generator(view.ID); gen != nil {
			r.spliceContent(idx, view, path, gen, depth)
			return
		}
		// No generator supplied: a list node renders empty rather than
		// exposing its static design-time children.
		return
	}

	for _, child := range view.Children {
		r.resolveView(idx, child, path, "", depth+1)
	}
}

// resolveInstance resolves a component instance: pick the variant matching
// the context's selections (default variant when nothing matches), then
// resolve the chosen definition in place of the instance with the instance's
// overrides applied on top. Overrides always win.
func (r *resolver) resolveInstance(parent int, view *View, path, key string, depth int) {
	ref := view.Component
	id := Identity{Node: view.ID, Path: path, Key: key}

	selectors := map[string]string(nil)
	if r.ctx != nil {
		selectors = r.ctx.Variants
	}
	def, ok, err := r.provider.ComponentDefinition(ref.SetID, selectors)
	if err != nil || def == nil {
		r.sink.add(SeverityError, id, ErrMissingNode,
			"component set %q has no definition", ref.SetID)
		r.placeholder(parent, view.ID, path, key)
		return
	}
	if !ok && len(selectors) > 0 {
		r.sink.add(SeverityWarning, id, ErrUnresolvedVariant,
			"no variant of %q matches the active selection; using default", ref.SetID)
	}

	style := def.Style.merge(ref.StyleOverride)
	text := def.Text
	if ref.HasText {
		text = ref.TextOverride
	}

	// The instance node keeps the instance's id; everything inside the
	// definition is namespaced by the instance so that two instances of the
	// same component stay distinct across tree generations.
	shadow := *def
	shadow.ID = view.ID
	shadow.Style = style
	shadow.Text = text
	idx := r.addNode(parent, &shadow, style, path, key)

	childPath := view.ID
	if path != "" {
		childPath = path + "/" + view.ID
	}
	for _, child := range def.Children {
		r.resolveView(idx, child, childPath, "", depth+1)
	}
}

// spliceContent fills a list/grid node from its content generator,
// preserving caller-supplied item keys (positional index when absent).
func (r *resolver) spliceContent(parent int, view *View, path string, gen ContentGenerator, depth int) {
	base := view.ID
	if path != "" {
		base = path + "/" + view.ID
	}
	for i := 0; ; i++ {
		item := gen(view.ID, i)
		if item == nil {
			return
		}
		if item.View == nil {
			r.sink.add(SeverityWarning, Identity{Node: view.ID, Path: path}, ErrMissingNode,
				"content generator returned item %d with no view", i)
			continue
		}
		itemKey := item.Key
		if itemKey == "" {
			itemKey = strconv.Itoa(i)
		}
		r.resolveItem(parent, item.View, base, itemKey, depth+1)
	}
}

// resolveItem resolves one generated list item. The item's root carries the
// item key; descendants are namespaced by key through the path so that items
// with identical internal structure stay unique.
func (r *resolver) resolveItem(parent int, view *View, basePath, itemKey string, depth int) {
	if depth > r.maxDepth {
		r.sink.add(SeverityError, Identity{Node: view.ID, Path: basePath, Key: itemKey}, ErrDepthExceeded,
			"resolution deeper than %d levels", r.maxDepth)
		return
	}
	if view.Component != nil {
		r.resolveInstance(parent, view, basePath, itemKey, depth)
		return
	}
	idx := r.addNode(parent, view, view.Style, basePath, itemKey)
	childPath := basePath + "[" + itemKey + "]"
	for _, child := range view.Children {
		r.resolveView(idx, child, childPath, "", depth+1)
	}
}

// addNode appends a resolved node for view with the given effective style.
func (r *resolver) addNode(parent int, view *View, style Style, path, key string) int {
	if view.Transform != nil {
		style.Rotation, style.ScaleX, style.ScaleY = decomposeTransform(*view.Transform)
	}
	n := Node{
		Identity: Identity{Node: view.ID, Path: path, Key: key},
		Kind:     view.Kind,
		Style:    style,
		Text:     r.ctx.textFor(view.ID, view.Text),
		Opacity:  style.Opacity,
		Rotation: style.Rotation,
		ScaleX:   style.ScaleX,
		ScaleY:   style.ScaleY,
	}
	if len(view.Vector) > 0 {
		n.Vector = append([]Vec2(nil), view.Vector...)
	}
	idx, unique := r.tree.add(parent, n)
	if !unique {
		r.sink.add(SeverityWarning, n.Identity, ErrDuplicateIdentity,
			"duplicate identity in one tree; node excluded from matching")
	}
	return idx
}

// placeholder substitutes an empty zero-sized frame for a subtree that could
// not be resolved.
func (r *resolver) placeholder(parent int, nodeID, path, key string) int {
	style := DefaultStyle()
	style.Width = Fixed(0)
	style.Height = Fixed(0)
	n := Node{
		Identity: Identity{Node: nodeID, Path: path, Key: key},
		Kind:     KindFrame,
		Style:    style,
		Opacity:  1,
		ScaleX:   1,
		ScaleY:   1,
	}
	idx, _ := r.tree.add(parent, n)
	return idx
}
