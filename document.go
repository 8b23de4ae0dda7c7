package aspen

// View is one node of a raw, unresolved document: the form a design document
// arrives in before variants are chosen and customizations applied. Views are
// acyclic by construction (a document is a tree) and owned by the provider;
// the resolver never mutates them.
type View struct {
	ID       string
	Name     string
	Kind     NodeKind
	Style    Style
	Text     string
	Vector   []Vec2 // polyline points for KindVector, in local space
	Children []*View

	// Transform optionally carries a raw affine matrix [a, b, c, d, tx, ty]
	// from the document source. The resolver decomposes it into the style's
	// rotation and scale so transitions can animate them independently.
	Transform *[6]float64

	// Component is non-nil when this view is an instance of a component set.
	// The resolver replaces the instance with the chosen variant's definition
	// and applies the instance's overrides on top.
	Component *InstanceRef

	// ListContent marks a node whose children come from a content generator
	// at resolution time. Static children are ignored for such nodes.
	ListContent bool
}

// InstanceRef records a component instance: which set it instantiates and the
// overrides the document author recorded on the instance.
type InstanceRef struct {
	SetID         string
	TextOverride  string
	HasText       bool
	StyleOverride StyleOverride
}

// DocumentProvider supplies raw views and component definitions. It must be
// side-effect-free and return consistent data within one resolution pass.
type DocumentProvider interface {
	// DocumentID identifies the document; trees resolved from different
	// documents cannot be diffed into a transition.
	DocumentID() string

	// View returns the raw view for a node id, or an error if the id is
	// unknown.
	View(id string) (*View, error)

	// ComponentDefinition returns the variant of a component set matching the
	// given selectors exactly. When no variant matches (or selectors are
	// empty), it returns the set's default variant and ok=false.
	ComponentDefinition(setID string, selectors map[string]string) (view *View, ok bool, err error)
}

// ListItem is one generated entry for a list/grid content node. Key is the
// caller-supplied identity key preserved across tree generations; when empty
// the resolver falls back to the positional index.
type ListItem struct {
	Key  string
	View *View
}

// ContentGenerator produces list/grid content for a node. It is called with
// ascending indices starting at zero and returns nil to terminate. It must be
// a pure function of (nodeID, index) within one resolution pass.
type ContentGenerator func(nodeID string, index int) *ListItem

// Context carries everything a resolution pass customizes: parameter
// bindings, active variant selections, and content generators for list/grid
// nodes. A Context is scoped to one document root; there is no process-wide
// interaction state.
type Context struct {
	// Text binds replacement strings to text node ids.
	Text map[string]string

	// Visible binds visibility flags to node ids. A node bound to false is
	// pruned with its whole subtree at resolution time.
	Visible map[string]bool

	// Variants maps variant property names to the selected value, applied to
	// every component instance whose set declares the property.
	Variants map[string]string

	// Content maps list/grid node ids to their generators.
	Content map[string]ContentGenerator
}

// textFor returns the bound text for a node id, or fallback when unbound.
func (c *Context) textFor(id, fallback string) string {
	if c == nil || c.Text == nil {
		return fallback
	}
	if s, ok := c.Text[id]; ok {
		return s
	}
	return fallback
}

// visible reports whether a node id is visible under this context.
func (c *Context) visible(id string) bool {
	if c == nil || c.Visible == nil {
		return true
	}
	if v, ok := c.Visible[id]; ok {
		return v
	}
	return true
}

// generator returns the content generator for a node id, if any.
func (c *Context) generator(id string) ContentGenerator {
	if c == nil || c.Content == nil {
		return nil
	}
	return c.Content[id]
}
