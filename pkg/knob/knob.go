package knob

import (
	"fmt"
	"sort"
)

// Reason qualifies why a value changed, so the holder and listeners can
// tell user edits apart from programmatic ones and project restoration.
type Reason int

const (
	UserEdited Reason = iota
	PluginEdited
	StartupRestoration
)

func (r Reason) String() string {
	switch r {
	case UserEdited:
		return "user-edited"
	case PluginEdited:
		return "plugin-edited"
	case StartupRestoration:
		return "startup-restoration"
	default:
		return "unknown"
	}
}

// Listener receives knob change notifications. Fields are optional;
// nil callbacks are skipped. All callbacks fire synchronously, in
// registration order, on the mutating goroutine.
type Listener struct {
	ValueChanged      func(dimension int, v Value)
	VisibilityChanged func(visible bool)
	EnabledChanged    func(enabled bool)
	MinMaxChanged     func(mini, maxi Value, index int)
	IncrementChanged  func(incr Value, index int)
	DecimalsChanged   func(decimals, index int)
	Populated         func()
	ShouldOpenFile    func()
}

// Knob is the contract shared by every parameter variant. Concrete
// variants embed *Base, which supplies everything except the four
// variant hooks (type name, animatability, hash contribution and the
// serialization payload). External variants embed *Base as well; the
// unexported hooks keep the dispatch set closed to implementations
// built on it.
type Knob interface {
	// Identity.
	TypeName() string
	Description() string
	Name() string
	SetName(name string)
	Dimension() int
	Holder() *Holder

	// Value access. Dimension indexes must be < Dimension(); violating
	// that panics, as does reading a dimension that was never set.
	SetValue(v Value, dimension int)
	SetValueAtTime(time float64, v Value, dimension int)
	Value(dimension int) Value
	ValueAtTime(time float64, dimension int) Value
	Curve(dimension int) *AnimationCurve
	Keys(dimension int) []*KeyFrame
	CanAnimate() bool

	// Snapshotting and persistence.
	CloneValue(other Knob)
	Serialize() (string, error)
	RestoreFromString(s string) error

	// Invalidation.
	HashVector() []uint64

	// Hierarchy (Group/Tab nesting).
	Parent() Knob
	SetParent(parent Knob)
	DetermineHierarchySize() int

	// Flags and layout hints.
	SetVisible(visible bool)
	IsVisible() bool
	SetEnabled(enabled bool)
	IsEnabled() bool
	SetInsignificant(insignificant bool)
	IsInsignificant() bool
	TurnOffUndoRedo()
	CanBeUndone() bool
	TurnOffNewLine()
	OnNewLine() bool
	SetSpacingBetweenItems(spacing int)
	SpacingBetweenItems() int
	SetHintToolTip(hint string)
	HintToolTip() string

	AddListener(l Listener)

	// Variant hooks.
	fillHashVector()
	restorePayload(data []byte) error
	cloneExtraData(other Knob)
	processNewValue()
	base() *Base
}

// Base carries the state and behavior common to all knob variants. It
// is created through newBase with a back-reference to the concrete
// variant so that shared entry points dispatch to the variant hooks.
type Base struct {
	self        Knob
	holder      *Holder
	description string
	name        string
	dimension   int
	index       int // position in the holder arena
	parent      int // arena index of the parent knob, -1 when top-level

	values map[int]Value
	curves map[int]*AnimationCurve
	hash   []uint64

	visible       bool
	enabled       bool
	canUndo       bool
	insignificant bool
	newLine       bool
	itemSpacing   int
	tooltip       string

	listeners []Listener
}

// newBase wires a variant into its holder. The description doubles as
// the initial scripting name. Dimension must be >= 1.
func newBase(self Knob, holder *Holder, description string, dimension int) *Base {
	if dimension < 1 {
		panic(fmt.Sprintf("knob: dimension %d < 1 for %q", dimension, description))
	}
	b := &Base{
		self:        self,
		holder:      holder,
		description: description,
		name:        description,
		dimension:   dimension,
		parent:      -1,
		values:      make(map[int]Value),
		curves:      make(map[int]*AnimationCurve),
		visible:     true,
		enabled:     true,
		canUndo:     true,
		newLine:     true,
	}
	b.index = holder.addKnob(self)
	return b
}

func (b *Base) checkDimension(dimension int) {
	if dimension < 0 || dimension >= b.dimension {
		panic(fmt.Sprintf("knob: dimension index %d out of range for %q (dimension %d)",
			dimension, b.name, b.dimension))
	}
}

// Description returns the display label. It is fixed at construction.
func (b *Base) Description() string { return b.description }

// Name returns the stable scripting identifier. It defaults to the
// description until SetName is called.
func (b *Base) Name() string { return b.name }

// SetName overrides the scripting identifier.
func (b *Base) SetName(name string) { b.name = name }

// Dimension returns the number of independent channels.
func (b *Base) Dimension() int { return b.dimension }

// Holder returns the owning holder.
func (b *Base) Holder() *Holder { return b.holder }

// AddListener registers a change observer.
func (b *Base) AddListener(l Listener) { b.listeners = append(b.listeners, l) }

// SetValue stores the static (non-animated) value for one dimension and
// runs the full propagation chain: store, hash, notify, holder
// evaluate. If the dimension is animated this does not touch the curve;
// SetValueAtTime is the distinct entry point for keyed values.
func (b *Base) SetValue(v Value, dimension int) {
	b.setValueInternal(v, dimension, UserEdited)
}

func (b *Base) setValueInternal(v Value, dimension int, reason Reason) {
	b.checkDimension(dimension)
	b.values[dimension] = v
	b.self.processNewValue()
	b.updateHash()
	b.emitValueChanged(dimension, v)
	b.holder.OnValueChanged(b.self, reason)
}

// SetValueAtTime inserts (or overwrites) a keyframe at the given time
// for one dimension, creating the dimension's curve on first use.
// Calling it on an unanimatable knob is a caller bug and panics.
func (b *Base) SetValueAtTime(time float64, v Value, dimension int) {
	b.checkDimension(dimension)
	if !b.self.CanAnimate() {
		panic(fmt.Sprintf("knob: %q (%s) cannot animate", b.name, b.self.TypeName()))
	}
	// AddControlPoint runs the curve-changed chain, which covers the
	// hash/notify/evaluate pipeline.
	b.curveForWrite(dimension).AddControlPoint(time, v)
}

// curveForWrite returns the dimension's curve, creating it with Linear
// interpolation on first animation request.
func (b *Base) curveForWrite(dimension int) *AnimationCurve {
	c, ok := b.curves[dimension]
	if !ok {
		c = NewAnimationCurve(Linear)
		dim := dimension
		c.setOnChange(func() { b.curveChanged(dim) })
		b.curves[dimension] = c
	}
	return c
}

// curveChanged propagates a keyframe edit upward: hash, notify,
// holder evaluate. The reported value is the knob's current static
// value for the dimension, or nil if only keys exist.
func (b *Base) curveChanged(dimension int) {
	b.self.processNewValue()
	b.updateHash()
	b.emitValueChanged(dimension, b.values[dimension])
	b.holder.OnValueChanged(b.self, UserEdited)
}

// Value returns the static value for a dimension. Reading a dimension
// that was never set is a caller bug and panics.
func (b *Base) Value(dimension int) Value {
	b.checkDimension(dimension)
	v, ok := b.values[dimension]
	if !ok {
		panic(fmt.Sprintf("knob: %q dimension %d has never been set", b.name, dimension))
	}
	return v
}

// ValueAtTime returns the animated value if the dimension has a curve
// with at least two keys, and the static value otherwise.
func (b *Base) ValueAtTime(time float64, dimension int) Value {
	b.checkDimension(dimension)
	if c, ok := b.curves[dimension]; ok && c.IsAnimated() {
		return c.ValueAt(time)
	}
	return b.Value(dimension)
}

// Curve returns the dimension's curve, or nil if it was never animated.
func (b *Base) Curve(dimension int) *AnimationCurve {
	b.checkDimension(dimension)
	return b.curves[dimension]
}

// Keys returns the dimension's keyframes in time order, empty if the
// dimension is not animated.
func (b *Base) Keys(dimension int) []*KeyFrame {
	b.checkDimension(dimension)
	c, ok := b.curves[dimension]
	if !ok {
		return nil
	}
	return c.Keys()
}

// CloneValue copies another knob's static values, curves and extra data
// into this one, bypassing the notify pipeline entirely. It exists so a
// render thread can snapshot the live parameter set without perturbing
// it. The other knob must be the corresponding knob of an equivalent
// parameter set: same name, same type, same dimension.
func (b *Base) CloneValue(other Knob) {
	if other.Name() != b.name {
		panic(fmt.Sprintf("knob: CloneValue between %q and %q", b.name, other.Name()))
	}
	if other.TypeName() != b.self.TypeName() || other.Dimension() != b.dimension {
		panic(fmt.Sprintf("knob: CloneValue between mismatched knobs %q (%s/%d vs %s/%d)",
			b.name, b.self.TypeName(), b.dimension, other.TypeName(), other.Dimension()))
	}
	ob := other.base()
	b.values = make(map[int]Value, len(ob.values))
	for d, v := range ob.values {
		b.values[d] = v
	}
	b.curves = make(map[int]*AnimationCurve, len(ob.curves))
	for d, c := range ob.curves {
		nc := c.clone()
		dim := d
		nc.setOnChange(func() { b.curveChanged(dim) })
		b.curves[d] = nc
	}
	b.self.cloneExtraData(other)
	b.hash = append([]uint64(nil), ob.hash...)
}

func (b *Base) base() *Base { return b }

// RestoreFromString rebuilds the knob's value state from a serialized
// payload. On a malformed payload the prior state is left intact and an
// error is returned. A successful restore runs the normal propagation
// chain with the StartupRestoration reason.
func (b *Base) RestoreFromString(s string) error {
	if err := b.self.restorePayload([]byte(s)); err != nil {
		return fmt.Errorf("restore %q: %w", b.name, err)
	}
	b.self.processNewValue()
	b.updateHash()
	for d := range b.values {
		b.emitValueChanged(d, b.values[d])
	}
	b.holder.OnValueChanged(b.self, StartupRestoration)
	return nil
}

// HashVector returns the knob's current hash contribution.
func (b *Base) HashVector() []uint64 { return b.hash }

// updateHash recomputes the hash vector through the variant hook.
func (b *Base) updateHash() {
	b.hash = b.hash[:0]
	b.self.fillHashVector()
}

// appendHash is used by the variant fillHashVector implementations.
func (b *Base) appendHash(words ...uint64) {
	b.hash = append(b.hash, words...)
}

// hashValuesAndKeys is the common hash contribution: every set static
// value plus every keyframe (time and value), in dimension order.
func (b *Base) hashValuesAndKeys() {
	for _, d := range b.sortedDimensions() {
		b.hash = appendValueHash(b.hash, b.values[d])
	}
	for d := 0; d < b.dimension; d++ {
		c, ok := b.curves[d]
		if !ok {
			continue
		}
		for _, k := range c.Keys() {
			b.hash = appendFloatHash(b.hash, k.Time())
			b.hash = appendValueHash(b.hash, k.Value())
		}
	}
}

func (b *Base) sortedDimensions() []int {
	dims := make([]int, 0, len(b.values))
	for d := range b.values {
		dims = append(dims, d)
	}
	sort.Ints(dims)
	return dims
}

// Parent returns the containing Group/Tab knob, or nil.
func (b *Base) Parent() Knob {
	if b.parent < 0 {
		return nil
	}
	return b.holder.KnobAt(b.parent)
}

// SetParent records the containing knob. Relations are stored as arena
// indices; the holder stays the sole owner. Adopting an ancestor (or
// self) would close a parent cycle and panics.
func (b *Base) SetParent(parent Knob) {
	if parent == nil {
		b.parent = -1
		return
	}
	for p, steps := parent, 0; p != nil && steps <= b.holder.KnobCount(); p, steps = p.Parent(), steps+1 {
		if p.base() == b {
			panic(fmt.Sprintf("knob: parenting %q under %q would create a hierarchy cycle",
				b.name, parent.Name()))
		}
	}
	b.parent = parent.base().index
}

// DetermineHierarchySize counts the ancestor chain depth, used by the
// presentation layer for indentation. The walk is bounded by the arena
// size; exceeding it means the parent links were corrupted behind
// SetParent's back.
func (b *Base) DetermineHierarchySize() int {
	n := 0
	for p := b.Parent(); p != nil; p = p.Parent() {
		n++
		if n > b.holder.KnobCount() {
			panic(fmt.Sprintf("knob: %q has a cyclic ancestor chain", b.name))
		}
	}
	return n
}

// SetVisible toggles GUI visibility. Cosmetic: no hash, no evaluate.
func (b *Base) SetVisible(visible bool) {
	b.visible = visible
	for _, l := range b.listeners {
		if l.VisibilityChanged != nil {
			l.VisibilityChanged(visible)
		}
	}
}

// IsVisible reports GUI visibility.
func (b *Base) IsVisible() bool { return b.visible }

// SetEnabled toggles GUI editability. Cosmetic: no hash, no evaluate.
func (b *Base) SetEnabled(enabled bool) {
	b.enabled = enabled
	for _, l := range b.listeners {
		if l.EnabledChanged != nil {
			l.EnabledChanged(enabled)
		}
	}
}

// IsEnabled reports GUI editability.
func (b *Base) IsEnabled() bool { return b.enabled }

// SetInsignificant marks the knob so its value changes never force a
// re-evaluation.
func (b *Base) SetInsignificant(insignificant bool) { b.insignificant = insignificant }

// IsInsignificant reports whether changes skip re-evaluation.
func (b *Base) IsInsignificant() bool { return b.insignificant }

// TurnOffUndoRedo excludes the knob's edits from the undo stack.
func (b *Base) TurnOffUndoRedo() { b.canUndo = false }

// CanBeUndone reports whether edits are pushed on the undo stack.
func (b *Base) CanBeUndone() bool { return b.canUndo }

// TurnOffNewLine lays the knob out on the same row as its predecessor.
func (b *Base) TurnOffNewLine() { b.newLine = false }

// OnNewLine reports the row layout hint.
func (b *Base) OnNewLine() bool { return b.newLine }

// SetSpacingBetweenItems sets the layout spacing hint in pixels.
func (b *Base) SetSpacingBetweenItems(spacing int) { b.itemSpacing = spacing }

// SpacingBetweenItems returns the layout spacing hint.
func (b *Base) SpacingBetweenItems() int { return b.itemSpacing }

// SetHintToolTip sets the hover help text.
func (b *Base) SetHintToolTip(hint string) { b.tooltip = hint }

// HintToolTip returns the hover help text.
func (b *Base) HintToolTip() string { return b.tooltip }

func (b *Base) emitValueChanged(dimension int, v Value) {
	for _, l := range b.listeners {
		if l.ValueChanged != nil {
			l.ValueChanged(dimension, v)
		}
	}
}

func (b *Base) emitMinMaxChanged(mini, maxi Value, index int) {
	for _, l := range b.listeners {
		if l.MinMaxChanged != nil {
			l.MinMaxChanged(mini, maxi, index)
		}
	}
}

func (b *Base) emitIncrementChanged(incr Value, index int) {
	for _, l := range b.listeners {
		if l.IncrementChanged != nil {
			l.IncrementChanged(incr, index)
		}
	}
}

func (b *Base) emitDecimalsChanged(decimals, index int) {
	for _, l := range b.listeners {
		if l.DecimalsChanged != nil {
			l.DecimalsChanged(decimals, index)
		}
	}
}

func (b *Base) emitPopulated() {
	for _, l := range b.listeners {
		if l.Populated != nil {
			l.Populated()
		}
	}
}

func (b *Base) emitShouldOpenFile() {
	for _, l := range b.listeners {
		if l.ShouldOpenFile != nil {
			l.ShouldOpenFile()
		}
	}
}

// Default variant hooks; variants override the ones they need.

func (b *Base) cloneExtraData(other Knob) {}

func (b *Base) processNewValue() {}
