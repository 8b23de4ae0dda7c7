package aspen

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// whitePixel is a 1x1 white image scaled up for solid-color frames.
var whitePixel *ebiten.Image

func init() {
	whitePixel = ebiten.NewImage(1, 1)
	whitePixel.Fill(color.White)
}

// Render draws a committed tree (steady-state or mid-transition merged tree)
// onto the target image. Geometry, opacity, and transforms are already
// concrete values; rendering performs no interpolation. Opacity composes
// down the tree so a fading ancestor fades its whole subtree.
func Render(target *ebiten.Image, t *Tree) {
	if t == nil || t.Root() < 0 {
		return
	}
	renderNode(target, t, t.Root(), 1.0)
}

func renderNode(target *ebiten.Image, t *Tree, i int, parentAlpha float64) {
	n := t.Node(i)
	alpha := parentAlpha * n.Opacity
	if alpha <= 0 {
		return
	}

	switch n.Kind {
	case KindFrame, KindEmbedded:
		drawRect(target, n, alpha)
	case KindText:
		drawRect(target, n, alpha)
		ebitenutil.DebugPrintAt(target, n.Text, int(n.Layout.X), int(n.Layout.Y))
	case KindVector:
		drawVector(target, n, alpha)
	}

	for _, c := range n.ChildIndices() {
		renderNode(target, t, c, alpha)
	}
}

// drawRect fills the node's rectangle with its fill color, applying scale
// and rotation about the rectangle center.
func drawRect(target *ebiten.Image, n *Node, alpha float64) {
	w := n.Layout.Width * n.ScaleX
	h := n.Layout.Height * n.ScaleY
	if w <= 0 || h <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(-w/2, -h/2)
	op.GeoM.Rotate(n.Rotation)
	op.GeoM.Translate(n.Layout.X+n.Layout.Width/2, n.Layout.Y+n.Layout.Height/2)

	fill := n.Style.Fill
	a := float32(alpha * fill.A)
	op.ColorScale.Scale(float32(fill.R)*a, float32(fill.G)*a, float32(fill.B)*a, a)
	target.DrawImage(whitePixel, op)
}

// drawVector strokes the node's polyline in node-local space.
func drawVector(target *ebiten.Image, n *Node, alpha float64) {
	if len(n.Vector) < 2 {
		return
	}
	fill := n.Style.Fill
	a := alpha * fill.A
	col := color.RGBA{
		R: uint8(fill.R * a * 255),
		G: uint8(fill.G * a * 255),
		B: uint8(fill.B * a * 255),
		A: uint8(a * 255),
	}
	for i := 1; i < len(n.Vector); i++ {
		p0, p1 := n.Vector[i-1], n.Vector[i]
		vector.StrokeLine(target,
			float32(n.Layout.X+p0.X*n.ScaleX), float32(n.Layout.Y+p0.Y*n.ScaleY),
			float32(n.Layout.X+p1.X*n.ScaleX), float32(n.Layout.Y+p1.Y*n.ScaleY),
			1, col, true)
	}
}
