package aspen

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Attr names one animatable attribute of a node. Position and size come from
// the layout rectangle; rotation and scale are decomposed from the node's
// transform; opacity covers fades and cross-fades.
type Attr uint8

const (
	AttrX Attr = iota
	AttrY
	AttrWidth
	AttrHeight
	AttrRotation
	AttrScaleX
	AttrScaleY
	AttrOpacity
	// AttrText drives a discrete content switch; the transition applies the
	// replacement string when the control crosses its threshold.
	AttrText
)

// String returns the attribute name used in logs and CLI output.
func (a Attr) String() string {
	switch a {
	case AttrX:
		return "x"
	case AttrY:
		return "y"
	case AttrWidth:
		return "width"
	case AttrHeight:
		return "height"
	case AttrRotation:
		return "rotation"
	case AttrScaleX:
		return "scaleX"
	case AttrScaleY:
		return "scaleY"
	case AttrOpacity:
		return "opacity"
	case AttrText:
		return "text"
	default:
		return "unknown"
	}
}

// ControlKind selects how a control interpolates.
type ControlKind uint8

const (
	// ControlTween interpolates over a fixed duration with an easing curve.
	ControlTween ControlKind = iota
	// ControlSpring integrates a damped spring toward the target.
	ControlSpring
	// ControlDiscrete switches from source to target at a threshold fraction
	// of the duration. Used for values with no meaningful in-between.
	ControlDiscrete
)

// SpringParams configures spring controls. Damping 0 means critically damped
// for the given stiffness and mass.
type SpringParams struct {
	Stiffness float64
	Damping   float64
	Mass      float64
}

// DefaultSpring is the spring used when a config supplies none.
var DefaultSpring = SpringParams{Stiffness: 300, Mass: 1}

// springRestDelta and springRestSpeed define when a spring counts as settled.
const (
	springRestDelta = 0.05
	springRestSpeed = 0.05
)

// Control animates one attribute of one merged-tree node from a source to a
// target value. Created by the transition builder, advanced each tick by the
// scheduler, and discarded when its transition completes or is superseded.
type Control struct {
	node int // arena index in the merged tree
	attr Attr
	kind ControlKind

	from, to float64
	value    float64
	done     bool

	// Tween / discrete state
	tween     *gween.Tween
	easing    ease.TweenFunc
	duration  float32
	elapsed   float32
	threshold float32

	// Spring state
	spring   SpringParams
	velocity float64
}

// newTween creates a duration-based control.
func newTween(node int, attr Attr, from, to float64, duration float32, fn ease.TweenFunc) *Control {
	if fn == nil {
		fn = ease.Linear
	}
	return &Control{
		node:     node,
		attr:     attr,
		kind:     ControlTween,
		from:     from,
		to:       to,
		value:    from,
		easing:   fn,
		duration: duration,
		tween:    gween.New(float32(from), float32(to), duration, fn),
	}
}

// newSpring creates a spring-based control.
func newSpring(node int, attr Attr, from, to float64, p SpringParams) *Control {
	if p.Stiffness <= 0 {
		p = DefaultSpring
	}
	if p.Mass <= 0 {
		p.Mass = 1
	}
	return &Control{
		node:   node,
		attr:   attr,
		kind:   ControlSpring,
		from:   from,
		to:     to,
		value:  from,
		spring: p,
	}
}

// newDiscrete creates a switch-at-threshold control. threshold is a fraction
// of duration in [0, 1].
func newDiscrete(node int, attr Attr, from, to float64, duration, threshold float32) *Control {
	return &Control{
		node:      node,
		attr:      attr,
		kind:      ControlDiscrete,
		from:      from,
		to:        to,
		value:     from,
		duration:  duration,
		threshold: threshold,
	}
}

// Attr returns the attribute this control animates.
func (c *Control) Attribute() Attr { return c.attr }

// From and To return the control's endpoints.
func (c *Control) From() float64 { return c.from }
func (c *Control) To() float64   { return c.to }

// Value returns the current interpolated value.
func (c *Control) Value() float64 { return c.value }

// Done reports whether the control has reached its target.
func (c *Control) Done() bool { return c.done }

// Update advances the control by dt seconds and returns the interpolated
// value. Zero-distance controls complete on their first update.
func (c *Control) Update(dt float32) float64 {
	if c.done {
		return c.value
	}
	if c.from == c.to {
		c.value = c.to
		c.done = true
		return c.value
	}

	switch c.kind {
	case ControlTween:
		c.elapsed += dt
		v, finished := c.tween.Update(dt)
		c.value = float64(v)
		if finished {
			c.value = c.to
			c.done = true
		}
	case ControlSpring:
		c.stepSpring(float64(dt))
	case ControlDiscrete:
		c.elapsed += dt
		if c.elapsed >= c.duration*c.threshold {
			c.value = c.to
		}
		if c.elapsed >= c.duration {
			c.done = true
		}
	}
	return c.value
}

// stepSpring advances the spring with semi-implicit Euler integration,
// substepping so large frame deltas stay stable.
func (c *Control) stepSpring(dt float64) {
	damping := c.spring.Damping
	if damping <= 0 {
		damping = 2 * math.Sqrt(c.spring.Stiffness*c.spring.Mass)
	}
	const maxStep = 1.0 / 120.0
	for dt > 0 {
		h := dt
		if h > maxStep {
			h = maxStep
		}
		dt -= h
		accel := (-c.spring.Stiffness*(c.value-c.to) - damping*c.velocity) / c.spring.Mass
		c.velocity += accel * h
		c.value += c.velocity * h
	}
	if math.Abs(c.value-c.to) < springRestDelta && math.Abs(c.velocity) < springRestSpeed {
		c.value = c.to
		c.velocity = 0
		c.done = true
	}
}

// Retarget points an in-flight control at a new target, starting from the
// current interpolated value rather than the original source. Tween controls
// keep their remaining duration; spring controls keep their velocity. This is
// what keeps superseded and re-seated animations from snapping.
func (c *Control) Retarget(to float64) {
	c.to = to
	c.from = c.value
	c.done = false
	switch c.kind {
	case ControlTween:
		remaining := c.duration - c.elapsed
		if remaining <= 0 {
			remaining = minRetargetDuration
		}
		c.duration = remaining
		c.elapsed = 0
		c.tween = gween.New(float32(c.value), float32(to), remaining, c.easing)
	case ControlDiscrete:
		c.elapsed = 0
	}
	if c.value == c.to {
		c.done = true
	}
}

// minRetargetDuration keeps a retargeted tween from degenerating to an
// instant jump when its original time is already spent.
const minRetargetDuration = 1.0 / 60.0

// apply writes the control's current value onto its node in the merged tree.
func (c *Control) apply(t *Tree) {
	n := t.Node(c.node)
	switch c.attr {
	case AttrX:
		n.Layout.X = c.value
	case AttrY:
		n.Layout.Y = c.value
	case AttrWidth:
		n.Layout.Width = c.value
	case AttrHeight:
		n.Layout.Height = c.value
	case AttrRotation:
		n.Rotation = c.value
	case AttrScaleX:
		n.ScaleX = c.value
	case AttrScaleY:
		n.ScaleY = c.value
	case AttrOpacity:
		n.Opacity = c.value
	}
}
