package aspen

// Unit specifies how a Dim is interpreted.
type Unit uint8

const (
	UnitAuto    Unit = iota // size determined by content/grow
	UnitFixed               // absolute pixels
	UnitPercent             // percentage of parent's available space
)

// Dim is a dimension that can be fixed, percentage, or auto.
type Dim struct {
	Amount float64
	Unit   Unit
}

// Auto returns a Dim computed from content or grow factors.
func Auto() Dim {
	return Dim{Unit: UnitAuto}
}

// Fixed returns a Dim representing an absolute pixel count.
func Fixed(v float64) Dim {
	return Dim{Amount: v, Unit: UnitFixed}
}

// Percent returns a Dim representing a percentage of available space.
// The value is on a 0-100 scale (50.0 = 50%).
func Percent(p float64) Dim {
	return Dim{Amount: p, Unit: UnitPercent}
}

// Resolve computes the concrete value given available space.
// For UnitAuto, returns the fallback value.
func (d Dim) Resolve(available, fallback float64) float64 {
	switch d.Unit {
	case UnitFixed:
		return d.Amount
	case UnitPercent:
		return available * d.Amount / 100.0
	default:
		return fallback
	}
}

// IsAuto reports whether this Dim should be computed from content/grow.
func (d Dim) IsAuto() bool {
	return d.Unit == UnitAuto
}

// Direction specifies the main axis for laying out children.
type Direction uint8

const (
	Row    Direction = iota // children laid out left-to-right
	Column                  // children laid out top-to-bottom
)

// Justify specifies how children are distributed along the main axis.
type Justify uint8

const (
	JustifyStart        Justify = iota // pack at start
	JustifyEnd                         // pack at end
	JustifyCenter                      // center children
	JustifySpaceBetween                // even space between, none at edges
)

// Align specifies how children are positioned on the cross axis.
type Align uint8

const (
	AlignStart   Align = iota // align to start of cross axis
	AlignEnd                  // align to end of cross axis
	AlignCenter               // center on cross axis
	AlignStretch              // stretch to fill cross axis
)

// Edges is spacing on four sides.
type Edges struct {
	Top, Right, Bottom, Left float64
}

// EdgeAll creates Edges with the same value on all sides.
func EdgeAll(v float64) Edges {
	return Edges{Top: v, Right: v, Bottom: v, Left: v}
}

// Horizontal returns Left + Right.
func (e Edges) Horizontal() float64 { return e.Left + e.Right }

// Vertical returns Top + Bottom.
func (e Edges) Vertical() float64 { return e.Top + e.Bottom }

// Style carries the layout constraints and paint attributes of one node.
// Layout fields feed the oracle; paint fields feed the renderer and the
// transition builder's animatable attribute set.
type Style struct {
	// Sizing
	Width     Dim
	Height    Dim
	MinWidth  Dim
	MinHeight Dim
	MaxWidth  Dim
	MaxHeight Dim

	// Container properties
	Direction Direction
	Justify   Justify
	Align     Align
	Gap       float64
	Padding   Edges

	// Item properties
	Grow float64

	// Paint
	Fill     Color
	Opacity  float64
	Rotation float64 // radians, about the node origin
	ScaleX   float64
	ScaleY   float64
}

// DefaultStyle returns a Style with the zero-transform defaults every
// resolved node starts from.
func DefaultStyle() Style {
	return Style{
		Width:   Auto(),
		Height:  Auto(),
		Align:   AlignStart,
		Fill:    ColorWhite,
		Opacity: 1,
		ScaleX:  1,
		ScaleY:  1,
	}
}

// merge overlays the non-zero fields of an override onto a base style.
// Instance-level overrides always win over the variant's base style.
func (s Style) merge(o StyleOverride) Style {
	out := s
	if o.Width != nil {
		out.Width = *o.Width
	}
	if o.Height != nil {
		out.Height = *o.Height
	}
	if o.Fill != nil {
		out.Fill = *o.Fill
	}
	if o.Opacity != nil {
		out.Opacity = *o.Opacity
	}
	if o.Rotation != nil {
		out.Rotation = *o.Rotation
	}
	return out
}

// StyleOverride is a sparse style recorded on a component instance. Nil
// fields leave the variant's base value untouched.
type StyleOverride struct {
	Width    *Dim
	Height   *Dim
	Fill     *Color
	Opacity  *float64
	Rotation *float64
}
