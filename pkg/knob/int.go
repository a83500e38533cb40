package knob

import (
	"fmt"
	"math"

	json "github.com/goccy/go-json"
)

// Sentinel defaults used to pad sparse per-index range arrays so they
// stay index-aligned with the knob dimension. Project files written
// against these defaults depend on them; treat each as a contract.
const (
	intMinSentinel     = math.MinInt32
	intMaxSentinel     = math.MaxInt32
	intIncrSentinel    = 1
	displayMinSentinel = 0
	displayMaxSentinel = 99
)

// IntKnob is an integer parameter with optional per-dimension range,
// display range and slider increment.
type IntKnob struct {
	*Base
	minimums    []int
	maximums    []int
	increments  []int
	displayMins []int
	displayMaxs []int
	sliderOff   bool
}

// NewInt creates an integer knob owned by h.
func NewInt(h *Holder, description string, dimension int) *IntKnob {
	k := &IntKnob{}
	k.Base = newBase(k, h, description, dimension)
	return k
}

func (k *IntKnob) TypeName() string { return "Int" }

func (k *IntKnob) CanAnimate() bool { return true }

func (k *IntKnob) fillHashVector() { k.hashValuesAndKeys() }

// Set is the typed convenience for SetValue.
func (k *IntKnob) Set(value, dimension int) { k.SetValue(IntValue(value), dimension) }

// Get is the typed convenience for Value.
func (k *IntKnob) Get(dimension int) int { return k.Value(dimension).Int() }

// DisableSlider hides the slider widget for this knob.
func (k *IntKnob) DisableSlider() { k.sliderOff = true }

// IsSliderDisabled reports the slider hint.
func (k *IntKnob) IsSliderDisabled() bool { return k.sliderOff }

// fillSparseInt writes value at index, padding any unset lower indices
// with the sentinel so the array stays aligned with the dimension.
func fillSparseInt(s []int, index, sentinel, value int) []int {
	if index < len(s) {
		s[index] = value
		return s
	}
	for len(s) < index {
		s = append(s, sentinel)
	}
	return append(s, value)
}

// SetMinimum sets the hard lower bound for one index; gaps fill with
// the int minimum sentinel.
func (k *IntKnob) SetMinimum(mini, index int) {
	k.minimums = fillSparseInt(k.minimums, index, intMinSentinel, mini)
	maxi := displayMaxSentinel
	if index < len(k.maximums) {
		maxi = k.maximums[index]
	}
	k.emitMinMaxChanged(IntValue(mini), IntValue(maxi), index)
}

// SetMaximum sets the hard upper bound for one index; gaps fill with
// the int maximum sentinel.
func (k *IntKnob) SetMaximum(maxi, index int) {
	k.maximums = fillSparseInt(k.maximums, index, intMaxSentinel, maxi)
	mini := displayMaxSentinel
	if index < len(k.minimums) {
		mini = k.minimums[index]
	}
	k.emitMinMaxChanged(IntValue(mini), IntValue(maxi), index)
}

// SetDisplayMinimum sets the slider lower bound; gaps fill with 0.
func (k *IntKnob) SetDisplayMinimum(mini, index int) {
	k.displayMins = fillSparseInt(k.displayMins, index, displayMinSentinel, mini)
}

// SetDisplayMaximum sets the slider upper bound; gaps fill with 99.
func (k *IntKnob) SetDisplayMaximum(maxi, index int) {
	k.displayMaxs = fillSparseInt(k.displayMaxs, index, displayMaxSentinel, maxi)
}

// SetIncrement sets the slider step for one index; gaps fill with 1.
// The increment must be positive.
func (k *IntKnob) SetIncrement(incr, index int) {
	if incr <= 0 {
		panic(fmt.Sprintf("knob: %q increment %d must be > 0", k.Name(), incr))
	}
	k.increments = fillSparseInt(k.increments, index, intIncrSentinel, incr)
	k.emitIncrementChanged(IntValue(incr), index)
}

// SetIncrements replaces the whole increment array.
func (k *IntKnob) SetIncrements(incr []int) {
	for i, v := range incr {
		if v <= 0 {
			panic(fmt.Sprintf("knob: %q increment %d at index %d must be > 0", k.Name(), v, i))
		}
	}
	k.increments = append([]int(nil), incr...)
	for i, v := range k.increments {
		k.emitIncrementChanged(IntValue(v), i)
	}
}

// SetMinimumsAndMaximums replaces both bound arrays. The slices must
// have the same length.
func (k *IntKnob) SetMinimumsAndMaximums(minis, maxis []int) {
	if len(minis) != len(maxis) {
		panic(fmt.Sprintf("knob: %q minimums (%d) and maximums (%d) differ in length",
			k.Name(), len(minis), len(maxis)))
	}
	k.minimums = append([]int(nil), minis...)
	k.maximums = append([]int(nil), maxis...)
	for i := range maxis {
		k.emitMinMaxChanged(IntValue(minis[i]), IntValue(maxis[i]), i)
	}
}

// SetDisplayMinimumsAndMaximums replaces both display bound arrays.
func (k *IntKnob) SetDisplayMinimumsAndMaximums(minis, maxis []int) {
	k.displayMins = append([]int(nil), minis...)
	k.displayMaxs = append([]int(nil), maxis...)
}

// Minimums returns the hard lower bounds.
func (k *IntKnob) Minimums() []int { return k.minimums }

// Maximums returns the hard upper bounds.
func (k *IntKnob) Maximums() []int { return k.maximums }

// Increments returns the slider steps.
func (k *IntKnob) Increments() []int { return k.increments }

// DisplayMinimums returns the slider lower bounds.
func (k *IntKnob) DisplayMinimums() []int { return k.displayMins }

// DisplayMaximums returns the slider upper bounds.
func (k *IntKnob) DisplayMaximums() []int { return k.displayMaxs }

type intPayload struct {
	Values      map[int]int64        `json:"values"`
	Curves      map[int]curvePayload `json:"curves,omitempty"`
	Minimums    []int                `json:"min,omitempty"`
	Maximums    []int                `json:"max,omitempty"`
	Increments  []int                `json:"incr,omitempty"`
	DisplayMins []int                `json:"dmin,omitempty"`
	DisplayMaxs []int                `json:"dmax,omitempty"`
}

func (k *IntKnob) Serialize() (string, error) {
	p := intPayload{
		Values:      make(map[int]int64, len(k.values)),
		Curves:      encodeCurves(k.curves),
		Minimums:    k.minimums,
		Maximums:    k.maximums,
		Increments:  k.increments,
		DisplayMins: k.displayMins,
		DisplayMaxs: k.displayMaxs,
	}
	for d, v := range k.values {
		p.Values[d] = int64(v.Int())
	}
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("serialize %q: %w", k.Name(), err)
	}
	return string(data), nil
}

func (k *IntKnob) restorePayload(data []byte) error {
	var p intPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	k.values = make(map[int]Value, len(p.Values))
	for d, v := range p.Values {
		k.values[d] = IntValue(int(v))
	}
	decodeCurves(k.Base, p.Curves, KindInt)
	k.minimums = p.Minimums
	k.maximums = p.Maximums
	k.increments = p.Increments
	k.displayMins = p.DisplayMins
	k.displayMaxs = p.DisplayMaxs
	return nil
}
