package aspen

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default paint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// Vec2 is a 2D vector used for positions, offsets, sizes, and directions
// throughout the API.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// NodeKind identifies what a resolved node draws. The set is closed so that
// the differ can match on it exhaustively.
type NodeKind uint8

const (
	KindFrame    NodeKind = iota // container with a fill, lays out children
	KindText                     // measured text content
	KindVector                   // path geometry
	KindEmbedded                 // host-supplied content slot
)

// String returns the lowercase kind name used in logs and CLI output.
func (k NodeKind) String() string {
	switch k {
	case KindFrame:
		return "frame"
	case KindText:
		return "text"
	case KindVector:
		return "vector"
	case KindEmbedded:
		return "embedded"
	default:
		return "unknown"
	}
}

// Identity is the stable key for one logical element across tree generations.
// Node is the document node id, Path the instantiation path accumulated while
// descending through component instances, and Key the list item key for nodes
// spliced in by a content generator (positional index when the caller supplies
// none). Identities are unique within one tree; equal identities across two
// trees of the same document denote the same logical element.
type Identity struct {
	Node string
	Path string
	Key  string
}

// String formats the identity for logs and diagnostics.
func (id Identity) String() string {
	s := id.Node
	if id.Path != "" {
		s = id.Path + "/" + s
	}
	if id.Key != "" {
		s += "[" + id.Key + "]"
	}
	return s
}
