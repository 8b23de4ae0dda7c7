package aspen

import "math"

// identityTransform is the identity affine matrix.
var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// composeTransform builds the local affine matrix for a node's current
// render values: scale, then rotate, then translate to the layout position.
//
//	Matrix layout: [a, b, c, d, tx, ty]
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func composeTransform(n *Node) [6]float64 {
	sin, cos := math.Sincos(n.Rotation)
	return [6]float64{
		cos * n.ScaleX,
		sin * n.ScaleX,
		-sin * n.ScaleY,
		cos * n.ScaleY,
		n.Layout.X,
		n.Layout.Y,
	}
}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child.
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// decomposeTransform extracts rotation and scale from an affine matrix so
// the transition builder can animate them independently instead of lerping
// matrix cells. Skew is not representable in node styles and is discarded.
func decomposeTransform(m [6]float64) (rotation, scaleX, scaleY float64) {
	rotation = math.Atan2(m[1], m[0])
	scaleX = math.Hypot(m[0], m[1])
	det := m[0]*m[3] - m[2]*m[1]
	if scaleX != 0 {
		scaleY = det / scaleX
	}
	return rotation, scaleX, scaleY
}
