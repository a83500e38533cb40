package knob

import (
	"fmt"
	"sort"
)

// Interpolation selects how an AnimationCurve blends between the two
// keyframes bracketing a sample time.
type Interpolation int

const (
	Constant   Interpolation = iota // step function, holds the left key
	Linear                          // straight blend between keys
	Cubic                           // Hermite blend using each key's own tangents
	CatmullRom                      // Hermite blend with tangents derived from neighbors
)

func (i Interpolation) String() string {
	switch i {
	case Constant:
		return "constant"
	case Linear:
		return "linear"
	case Cubic:
		return "cubic"
	case CatmullRom:
		return "catmull-rom"
	default:
		return "unknown"
	}
}

// Tangent is one half of a keyframe's tangent pair: a control sample at
// an offset time with its own value.
type Tangent struct {
	Time  float64
	Value Value
}

// KeyFrame is a single (time, value, tangent-pair) sample on a curve.
// The time is fixed at insertion; value and tangents may be edited and
// any edit raises the owning curve's change notification.
type KeyFrame struct {
	time  float64
	value Value
	left  Tangent
	right Tangent
	curve *AnimationCurve
}

// Time returns the sample time. It never changes after insertion.
func (k *KeyFrame) Time() float64 { return k.time }

// Value returns the sample value.
func (k *KeyFrame) Value() Value { return k.value }

// LeftTangent returns the incoming tangent.
func (k *KeyFrame) LeftTangent() Tangent { return k.left }

// RightTangent returns the outgoing tangent.
func (k *KeyFrame) RightTangent() Tangent { return k.right }

// SetValue replaces the sample value and notifies the owning curve.
func (k *KeyFrame) SetValue(v Value) {
	k.value = v
	k.curve.changed()
}

// SetTangents replaces both tangents and notifies the owning curve.
func (k *KeyFrame) SetTangents(left, right Tangent) {
	k.left = left
	k.right = right
	k.curve.changed()
}

// AnimationCurve is the ordered keyframe set for one knob dimension.
// Keys are kept sorted by strictly increasing time; inserting at an
// existing time overwrites that key. A curve with fewer than two keys
// is not animated.
type AnimationCurve struct {
	interp   Interpolation
	keys     []*KeyFrame
	onChange func()
}

// NewAnimationCurve creates an empty curve with the given interpolation.
func NewAnimationCurve(interp Interpolation) *AnimationCurve {
	return &AnimationCurve{interp: interp}
}

// Interpolation returns the curve's blend mode.
func (c *AnimationCurve) Interpolation() Interpolation { return c.interp }

// SetInterpolation changes the blend mode and notifies.
func (c *AnimationCurve) SetInterpolation(interp Interpolation) {
	c.interp = interp
	c.changed()
}

// setOnChange installs the owning knob's change hook.
func (c *AnimationCurve) setOnChange(fn func()) { c.onChange = fn }

func (c *AnimationCurve) changed() {
	if c.onChange != nil {
		c.onChange()
	}
}

// AddControlPoint inserts a keyframe at time t. If a key already exists
// at exactly t, its value is overwritten and its tangents reset. The
// returned key stays owned by the curve.
func (c *AnimationCurve) AddControlPoint(t float64, v Value) *KeyFrame {
	idx := sort.Search(len(c.keys), func(i int) bool { return c.keys[i].time >= t })
	if idx < len(c.keys) && c.keys[idx].time == t {
		k := c.keys[idx]
		k.value = v
		k.left = Tangent{}
		k.right = Tangent{}
		c.changed()
		return k
	}
	k := &KeyFrame{time: t, value: v, curve: c}
	c.keys = append(c.keys, nil)
	copy(c.keys[idx+1:], c.keys[idx:])
	c.keys[idx] = k
	c.changed()
	return k
}

// SetStartAndEnd seeds the curve with its two boundary keys.
func (c *AnimationCurve) SetStartAndEnd(t0 float64, v0 Value, t1 float64, v1 Value) {
	c.AddControlPoint(t0, v0)
	c.AddControlPoint(t1, v1)
}

// Keys returns the keyframes in time order. The slice is shared; do not
// reorder it.
func (c *AnimationCurve) Keys() []*KeyFrame { return c.keys }

// KeyCount returns the number of keyframes.
func (c *AnimationCurve) KeyCount() int { return len(c.keys) }

// IsAnimated reports whether the curve has enough keys to interpolate.
func (c *AnimationCurve) IsAnimated() bool { return len(c.keys) >= 2 }

// ValueAt samples the curve at time t. Outside the key range the value
// clamps to the nearest boundary key; there is no extrapolation.
// Calling ValueAt on a curve with fewer than two keys is a caller bug.
func (c *AnimationCurve) ValueAt(t float64) Value {
	if len(c.keys) < 2 {
		panic(fmt.Sprintf("knob: ValueAt on a curve with %d key(s)", len(c.keys)))
	}
	if t <= c.keys[0].time {
		return c.keys[0].value
	}
	last := len(c.keys) - 1
	if t >= c.keys[last].time {
		return c.keys[last].value
	}

	// Locate the bracketing pair k0, k1 with k0.time <= t < k1.time.
	i1 := sort.Search(len(c.keys), func(i int) bool { return c.keys[i].time > t })
	i0 := i1 - 1
	k0, k1 := c.keys[i0], c.keys[i1]

	switch c.interp {
	case Constant:
		return k0.value
	case Linear:
		u := (t - k0.time) / (k1.time - k0.time)
		f := k0.value.Float() + (k1.value.Float()-k0.value.Float())*u
		return numberOfKind(k0.value.Kind(), f)
	case Cubic:
		m0 := c.explicitSlope(k0, k0.right)
		m1 := c.explicitSlope(k1, k1.left)
		return hermite(k0, k1, m0, m1, t)
	case CatmullRom:
		m0 := c.catmullSlope(i0)
		m1 := c.catmullSlope(i1)
		return hermite(k0, k1, m0, m1, t)
	}
	panic(fmt.Sprintf("knob: unknown interpolation %d", c.interp))
}

// explicitSlope derives a Hermite slope from a key's tangent control
// sample. A zero tangent (never set) yields a flat slope.
func (c *AnimationCurve) explicitSlope(k *KeyFrame, tan Tangent) float64 {
	if tan.Value.IsNil() || tan.Time == k.time {
		return 0
	}
	return (tan.Value.Float() - k.value.Float()) / (tan.Time - k.time)
}

// catmullSlope derives the slope at key index i from its neighbors.
// Boundary keys use the one-sided difference toward their single
// neighbor.
func (c *AnimationCurve) catmullSlope(i int) float64 {
	prev, next := i-1, i+1
	if prev < 0 {
		prev = i
	}
	if next > len(c.keys)-1 {
		next = i
	}
	kp, kn := c.keys[prev], c.keys[next]
	if kn.time == kp.time {
		return 0
	}
	return (kn.value.Float() - kp.value.Float()) / (kn.time - kp.time)
}

// hermite evaluates the cubic Hermite basis between k0 and k1 with
// endpoint slopes m0, m1 (slopes are per unit of time).
func hermite(k0, k1 *KeyFrame, m0, m1 float64, t float64) Value {
	dt := k1.time - k0.time
	u := (t - k0.time) / dt
	u2 := u * u
	u3 := u2 * u
	h00 := 2*u3 - 3*u2 + 1
	h10 := u3 - 2*u2 + u
	h01 := -2*u3 + 3*u2
	h11 := u3 - u2
	f := h00*k0.value.Float() + h10*dt*m0 + h01*k1.value.Float() + h11*dt*m1
	return numberOfKind(k0.value.Kind(), f)
}

// clone copies the curve's keys without carrying the change hook; the
// new owner installs its own.
func (c *AnimationCurve) clone() *AnimationCurve {
	out := &AnimationCurve{interp: c.interp, keys: make([]*KeyFrame, len(c.keys))}
	for i, k := range c.keys {
		out.keys[i] = &KeyFrame{
			time:  k.time,
			value: k.value,
			left:  k.left,
			right: k.right,
			curve: out,
		}
	}
	return out
}
