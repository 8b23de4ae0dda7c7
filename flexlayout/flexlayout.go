// Package flexlayout is the built-in layout oracle: a single-pass row/column
// flexbox solver over the flattened request the layout bridge produces. It
// resolves fixed/percent/auto dimensions, distributes leftover main-axis
// space by grow factor, and positions children by justify/align with padding
// and gaps. Auto-sized leaves with measured content (text, vector bounds)
// call back into the request's measurement functions synchronously.
package flexlayout

import (
	"fmt"
	"math"

	"github.com/phanxgames/aspen"
)

// Oracle lays out trees inside a fixed viewport.
type Oracle struct {
	Width  float64
	Height float64
}

// New creates an oracle for the given viewport size.
func New(width, height float64) *Oracle {
	return &Oracle{Width: width, Height: height}
}

// Layout computes absolute rectangles for every request row. Subtrees with
// contradictory constraints are reported as failures and zeroed; the rest of
// the tree is laid out normally.
func (o *Oracle) Layout(req *aspen.LayoutRequest) (*aspen.LayoutResult, error) {
	n := req.Len()
	result := &aspen.LayoutResult{Rects: make([]aspen.Rect, n)}
	if n == 0 {
		return result, nil
	}

	s := &solver{
		req:      req,
		children: make([][]int, n),
		w:        make([]float64, n),
		h:        make([]float64, n),
		x:        make([]float64, n),
		y:        make([]float64, n),
		failed:   make([]bool, n),
		result:   result,
	}
	for i := 1; i < n; i++ {
		p := req.Parents[i]
		if p < 0 || int(p) >= i {
			return nil, fmt.Errorf("flexlayout: request is not parent-indexed pre-order at row %d", i)
		}
		s.children[p] = append(s.children[p], i)
	}

	s.measure(0, o.Width, o.Height)
	s.place(0, 0, 0)

	for i := 0; i < n; i++ {
		if !s.failed[i] {
			result.Rects[i] = aspen.Rect{X: s.x[i], Y: s.y[i], Width: s.w[i], Height: s.h[i]}
		}
	}
	return result, nil
}

type solver struct {
	req      *aspen.LayoutRequest
	children [][]int
	w, h     []float64
	x, y     []float64
	failed   []bool
	result   *aspen.LayoutResult
}

// fail marks a subtree as collapsed to zero size.
func (s *solver) fail(i int, format string, args ...any) {
	s.result.Failures = append(s.result.Failures, aspen.LayoutFailure{
		Index:   int32(i),
		Message: fmt.Sprintf(format, args...),
	})
	s.collapse(i)
}

func (s *solver) collapse(i int) {
	s.failed[i] = true
	s.w[i], s.h[i] = 0, 0
	for _, c := range s.children[i] {
		s.collapse(c)
	}
}

// measure computes the size of node i within the available space, measuring
// children first for auto dimensions and then distributing leftover
// main-axis space by grow factor.
func (s *solver) measure(i int, availW, availH float64) {
	st := s.req.Styles[i]

	if !s.validBounds(st, availW, availH) {
		s.fail(i, "min size exceeds max size")
		return
	}

	w := st.Width.Resolve(availW, -1)
	h := st.Height.Resolve(availH, -1)

	innerW := pick(w, availW) - st.Padding.Horizontal()
	innerH := pick(h, availH) - st.Padding.Vertical()
	innerW = math.Max(innerW, 0)
	innerH = math.Max(innerH, 0)

	var contentW, contentH float64
	if len(s.children[i]) == 0 {
		if m := s.req.Measures[i]; m != nil && (w < 0 || h < 0) {
			contentW, contentH = m(innerW, innerH)
		}
	} else {
		contentW, contentH = s.measureChildren(i, st, innerW, innerH)
	}

	if w < 0 {
		w = contentW + st.Padding.Horizontal()
	}
	if h < 0 {
		h = contentH + st.Padding.Vertical()
	}
	w, h = s.clamp(st, w, h, availW, availH)
	s.w[i], s.h[i] = w, h

	s.grow(i, st)
}

// measureChildren measures each child against the inner box and returns the
// content extent along both axes (main-axis sum plus gaps, cross-axis max).
func (s *solver) measureChildren(i int, st aspen.Style, innerW, innerH float64) (float64, float64) {
	var mainSum, crossMax float64
	for k, c := range s.children[i] {
		s.measure(c, innerW, innerH)
		var main, cross float64
		if st.Direction == aspen.Row {
			main, cross = s.w[c], s.h[c]
		} else {
			main, cross = s.h[c], s.w[c]
		}
		mainSum += main
		if k > 0 {
			mainSum += st.Gap
		}
		crossMax = math.Max(crossMax, cross)
	}
	if st.Direction == aspen.Row {
		return mainSum, crossMax
	}
	return crossMax, mainSum
}

// grow distributes leftover main-axis space among children by grow factor.
func (s *solver) grow(i int, st aspen.Style) {
	kids := s.children[i]
	if len(kids) == 0 {
		return
	}
	var used, totalGrow float64
	for k, c := range kids {
		if st.Direction == aspen.Row {
			used += s.w[c]
		} else {
			used += s.h[c]
		}
		if k > 0 {
			used += st.Gap
		}
		totalGrow += s.req.Styles[c].Grow
	}
	var inner float64
	if st.Direction == aspen.Row {
		inner = s.w[i] - st.Padding.Horizontal()
	} else {
		inner = s.h[i] - st.Padding.Vertical()
	}
	extra := inner - used
	if extra <= 0 || totalGrow <= 0 {
		return
	}
	for _, c := range kids {
		g := s.req.Styles[c].Grow
		if g <= 0 {
			continue
		}
		share := extra * g / totalGrow
		if st.Direction == aspen.Row {
			s.w[c] += share
		} else {
			s.h[c] += share
		}
	}
}

// place assigns absolute positions. Children are packed along the main axis
// per justify and aligned on the cross axis per align (stretch resizes the
// child's cross dimension to fill).
func (s *solver) place(root int, x, y float64) {
	s.x[root], s.y[root] = x, y
	if s.failed[root] {
		return
	}
	st := s.req.Styles[root]
	kids := s.children[root]
	if len(kids) == 0 {
		return
	}

	innerX := x + st.Padding.Left
	innerY := y + st.Padding.Top
	innerW := math.Max(s.w[root]-st.Padding.Horizontal(), 0)
	innerH := math.Max(s.h[root]-st.Padding.Vertical(), 0)

	var innerMain, innerCross float64
	if st.Direction == aspen.Row {
		innerMain, innerCross = innerW, innerH
	} else {
		innerMain, innerCross = innerH, innerW
	}

	var used float64
	for k, c := range kids {
		if st.Direction == aspen.Row {
			used += s.w[c]
		} else {
			used += s.h[c]
		}
		if k > 0 {
			used += st.Gap
		}
	}
	free := innerMain - used

	offset, between := 0.0, st.Gap
	switch st.Justify {
	case aspen.JustifyEnd:
		offset = free
	case aspen.JustifyCenter:
		offset = free / 2
	case aspen.JustifySpaceBetween:
		if len(kids) > 1 && free > 0 {
			between = st.Gap + free/float64(len(kids)-1)
		}
	}

	cursor := offset
	for _, c := range kids {
		var main, cross float64
		if st.Direction == aspen.Row {
			main, cross = s.w[c], s.h[c]
		} else {
			main, cross = s.h[c], s.w[c]
		}

		crossPos := 0.0
		switch st.Align {
		case aspen.AlignEnd:
			crossPos = innerCross - cross
		case aspen.AlignCenter:
			crossPos = (innerCross - cross) / 2
		case aspen.AlignStretch:
			cross = innerCross
			if st.Direction == aspen.Row {
				s.h[c] = cross
			} else {
				s.w[c] = cross
			}
		}

		var cx, cy float64
		if st.Direction == aspen.Row {
			cx, cy = innerX+cursor, innerY+crossPos
		} else {
			cx, cy = innerX+crossPos, innerY+cursor
		}
		s.place(c, cx, cy)
		cursor += main + between
	}
}

// validBounds checks min/max constraints for contradiction, the oracle's
// malformed-constraint failure mode.
func (s *solver) validBounds(st aspen.Style, availW, availH float64) bool {
	minW := st.MinWidth.Resolve(availW, 0)
	maxW := st.MaxWidth.Resolve(availW, math.Inf(1))
	minH := st.MinHeight.Resolve(availH, 0)
	maxH := st.MaxHeight.Resolve(availH, math.Inf(1))
	return minW <= maxW && minH <= maxH
}

// clamp applies min/max constraints to a computed size.
func (s *solver) clamp(st aspen.Style, w, h, availW, availH float64) (float64, float64) {
	minW := st.MinWidth.Resolve(availW, 0)
	maxW := st.MaxWidth.Resolve(availW, math.Inf(1))
	minH := st.MinHeight.Resolve(availH, 0)
	maxH := st.MaxHeight.Resolve(availH, math.Inf(1))
	w = math.Min(math.Max(w, minW), maxW)
	h = math.Min(math.Max(h, minH), maxH)
	return w, h
}

// pick returns v when resolved (>= 0), otherwise the fallback.
func pick(v, fallback float64) float64 {
	if v >= 0 {
		return v
	}
	return fallback
}
