package aspen

import (
	"encoding/json"
	"fmt"
)

// Document is an in-memory DocumentProvider loaded from the JSON document
// format. The CLI, the examples, and the tests all share it; production
// hosts typically implement DocumentProvider against their own source.
type Document struct {
	id         string
	rootID     string
	views      map[string]*View
	components map[string]*componentSet
}

type componentSet struct {
	id       string
	variants []variant
	def      int
}

type variant struct {
	selectors map[string]string
	view      *View
}

// LoadDocument parses a JSON design document.
func LoadDocument(data []byte) (*Document, error) {
	var raw jsonDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	if raw.ID == "" {
		return nil, fmt.Errorf("parse document: missing id")
	}
	if raw.Root == nil {
		return nil, fmt.Errorf("parse document: missing root view")
	}

	d := &Document{
		id:         raw.ID,
		views:      make(map[string]*View),
		components: make(map[string]*componentSet),
	}
	root, err := raw.Root.toView()
	if err != nil {
		return nil, err
	}
	d.rootID = root.ID
	d.register(root)

	for setID, rawSet := range raw.Components {
		set := &componentSet{id: setID, def: -1}
		for i, rv := range rawSet.Variants {
			view, err := rv.View.toView()
			if err != nil {
				return nil, err
			}
			set.variants = append(set.variants, variant{
				selectors: rv.Selectors,
				view:      view,
			})
			if rv.Default || set.def < 0 {
				set.def = i
			}
		}
		if set.def < 0 {
			return nil, fmt.Errorf("parse document: component set %q has no variants", setID)
		}
		d.components[setID] = set
	}
	return d, nil
}

// register indexes a view subtree by node id.
func (d *Document) register(v *View) {
	d.views[v.ID] = v
	for _, c := range v.Children {
		d.register(c)
	}
}

// RootID returns the document's root view id.
func (d *Document) RootID() string { return d.rootID }

// DocumentID implements DocumentProvider.
func (d *Document) DocumentID() string { return d.id }

// View implements DocumentProvider.
func (d *Document) View(id string) (*View, error) {
	v, ok := d.views[id]
	if !ok {
		return nil, fmt.Errorf("document %s: %w: %q", d.id, ErrMissingNode, id)
	}
	return v, nil
}

// ComponentDefinition implements DocumentProvider. A variant matches when
// every selector it declares equals the active selection exactly; with no
// exact match the set's default variant is returned with ok=false.
func (d *Document) ComponentDefinition(setID string, selectors map[string]string) (*View, bool, error) {
	set, found := d.components[setID]
	if !found {
		return nil, false, fmt.Errorf("document %s: %w: component set %q", d.id, ErrMissingNode, setID)
	}
	for _, v := range set.variants {
		if len(v.selectors) == 0 {
			continue
		}
		match := true
		for prop, want := range v.selectors {
			if selectors[prop] != want {
				match = false
				break
			}
		}
		if match {
			return v.view, true, nil
		}
	}
	return set.variants[set.def].view, false, nil
}

// --- JSON wire format ---

type jsonDocument struct {
	ID         string                    `json:"id"`
	Root       *jsonView                 `json:"root"`
	Components map[string]jsonComponents `json:"components,omitempty"`
}

type jsonComponents struct {
	Variants []jsonVariant `json:"variants"`
}

type jsonVariant struct {
	Selectors map[string]string `json:"selectors,omitempty"`
	Default   bool              `json:"default,omitempty"`
	View      *jsonView         `json:"view"`
}

type jsonView struct {
	ID        string        `json:"id"`
	Name      string        `json:"name,omitempty"`
	Kind      string        `json:"kind,omitempty"`
	Text      string        `json:"text,omitempty"`
	List      bool          `json:"list,omitempty"`
	Vector    [][2]float64  `json:"vector,omitempty"`
	Transform *[6]float64   `json:"transform,omitempty"`
	Style     jsonStyle     `json:"style,omitempty"`
	Component *jsonInstance `json:"component,omitempty"`
	Children  []*jsonView   `json:"children,omitempty"`
}

type jsonInstance struct {
	Set     string     `json:"set"`
	Text    *string    `json:"text,omitempty"`
	Opacity *float64   `json:"opacity,omitempty"`
	Fill    *jsonColor `json:"fill,omitempty"`
}

type jsonStyle struct {
	Width     *jsonDim   `json:"width,omitempty"`
	Height    *jsonDim   `json:"height,omitempty"`
	MinWidth  *jsonDim   `json:"min_width,omitempty"`
	MinHeight *jsonDim   `json:"min_height,omitempty"`
	MaxWidth  *jsonDim   `json:"max_width,omitempty"`
	MaxHeight *jsonDim   `json:"max_height,omitempty"`
	Direction string     `json:"direction,omitempty"`
	Justify   string     `json:"justify,omitempty"`
	Align     string     `json:"align,omitempty"`
	Gap       float64    `json:"gap,omitempty"`
	Padding   float64    `json:"padding,omitempty"`
	Grow      float64    `json:"grow,omitempty"`
	Fill      *jsonColor `json:"fill,omitempty"`
	Opacity   *float64   `json:"opacity,omitempty"`
	Rotation  float64    `json:"rotation,omitempty"`
}

type jsonDim struct {
	Px  *float64 `json:"px,omitempty"`
	Pct *float64 `json:"pct,omitempty"`
}

type jsonColor struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a,omitempty"`
}

func (v *jsonView) toView() (*View, error) {
	if v.ID == "" {
		return nil, fmt.Errorf("parse document: view missing id")
	}
	kind, err := parseKind(v.Kind)
	if err != nil {
		return nil, fmt.Errorf("parse document: view %q: %w", v.ID, err)
	}
	out := &View{
		ID:          v.ID,
		Name:        v.Name,
		Kind:        kind,
		Text:        v.Text,
		ListContent: v.List,
		Style:       v.Style.toStyle(),
		Transform:   v.Transform,
	}
	for _, p := range v.Vector {
		out.Vector = append(out.Vector, Vec2{X: p[0], Y: p[1]})
	}
	if v.Component != nil {
		ref := &InstanceRef{SetID: v.Component.Set}
		if v.Component.Text != nil {
			ref.HasText = true
			ref.TextOverride = *v.Component.Text
		}
		ref.StyleOverride.Opacity = v.Component.Opacity
		if v.Component.Fill != nil {
			c := v.Component.Fill.toColor()
			ref.StyleOverride.Fill = &c
		}
		out.Component = ref
	}
	for _, child := range v.Children {
		cv, err := child.toView()
		if err != nil {
			return nil, err
		}
		out.Children = append(out.Children, cv)
	}
	return out, nil
}

func (s jsonStyle) toStyle() Style {
	out := DefaultStyle()
	out.Width = s.Width.toDim()
	out.Height = s.Height.toDim()
	out.MinWidth = s.MinWidth.toDim()
	out.MinHeight = s.MinHeight.toDim()
	out.MaxWidth = s.MaxWidth.toDim()
	out.MaxHeight = s.MaxHeight.toDim()
	if s.Direction == "column" {
		out.Direction = Column
	}
	switch s.Justify {
	case "end":
		out.Justify = JustifyEnd
	case "center":
		out.Justify = JustifyCenter
	case "space-between":
		out.Justify = JustifySpaceBetween
	}
	switch s.Align {
	case "end":
		out.Align = AlignEnd
	case "center":
		out.Align = AlignCenter
	case "stretch":
		out.Align = AlignStretch
	}
	out.Gap = s.Gap
	out.Padding = EdgeAll(s.Padding)
	out.Grow = s.Grow
	if s.Fill != nil {
		out.Fill = s.Fill.toColor()
	}
	if s.Opacity != nil {
		out.Opacity = *s.Opacity
	}
	out.Rotation = s.Rotation
	return out
}

func (d *jsonDim) toDim() Dim {
	if d == nil {
		return Auto()
	}
	if d.Px != nil {
		return Fixed(*d.Px)
	}
	if d.Pct != nil {
		return Percent(*d.Pct)
	}
	return Auto()
}

func (c *jsonColor) toColor() Color {
	a := c.A
	if a == 0 {
		a = 1
	}
	return Color{R: c.R, G: c.G, B: c.B, A: a}
}

func parseKind(s string) (NodeKind, error) {
	switch s {
	case "", "frame":
		return KindFrame, nil
	case "text":
		return KindText, nil
	case "vector":
		return KindVector, nil
	case "embedded":
		return KindEmbedded, nil
	default:
		return KindFrame, fmt.Errorf("unknown kind %q", s)
	}
}
