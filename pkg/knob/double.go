package knob

import (
	"fmt"
	"math"

	json "github.com/goccy/go-json"
)

// Sentinel defaults for sparse DoubleKnob range arrays.
const (
	doubleMinSentinel  = -math.MaxFloat64
	doubleMaxSentinel  = math.MaxFloat64
	doubleIncrSentinel = 0.1
	decimalsSentinel   = 3
)

// DoubleKnob is a floating-point parameter with optional per-dimension
// range, display range, slider increment and decimal count.
type DoubleKnob struct {
	*Base
	minimums    []float64
	maximums    []float64
	increments  []float64
	displayMins []float64
	displayMaxs []float64
	decimals    []int
	sliderOff   bool
}

// NewDouble creates a floating-point knob owned by h.
func NewDouble(h *Holder, description string, dimension int) *DoubleKnob {
	k := &DoubleKnob{}
	k.Base = newBase(k, h, description, dimension)
	return k
}

func (k *DoubleKnob) TypeName() string { return "Double" }

func (k *DoubleKnob) CanAnimate() bool { return true }

func (k *DoubleKnob) fillHashVector() { k.hashValuesAndKeys() }

// Set is the typed convenience for SetValue.
func (k *DoubleKnob) Set(value float64, dimension int) { k.SetValue(DoubleValue(value), dimension) }

// Get is the typed convenience for Value.
func (k *DoubleKnob) Get(dimension int) float64 { return k.Value(dimension).Double() }

// DisableSlider hides the slider widget for this knob.
func (k *DoubleKnob) DisableSlider() { k.sliderOff = true }

// IsSliderDisabled reports the slider hint.
func (k *DoubleKnob) IsSliderDisabled() bool { return k.sliderOff }

func fillSparseFloat(s []float64, index int, sentinel, value float64) []float64 {
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
// the most negative double.
func (k *DoubleKnob) SetMinimum(mini float64, index int) {
	k.minimums = fillSparseFloat(k.minimums, index, doubleMinSentinel, mini)
	maxi := float64(displayMaxSentinel)
	if index < len(k.maximums) {
		maxi = k.maximums[index]
	}
	k.emitMinMaxChanged(DoubleValue(mini), DoubleValue(maxi), index)
}

// SetMaximum sets the hard upper bound for one index; gaps fill with
// the most positive double.
func (k *DoubleKnob) SetMaximum(maxi float64, index int) {
	k.maximums = fillSparseFloat(k.maximums, index, doubleMaxSentinel, maxi)
	mini := float64(displayMaxSentinel)
	if index < len(k.minimums) {
		mini = k.minimums[index]
	}
	k.emitMinMaxChanged(DoubleValue(mini), DoubleValue(maxi), index)
}

// SetDisplayMinimum sets the slider lower bound; gaps fill with 0.
func (k *DoubleKnob) SetDisplayMinimum(mini float64, index int) {
	k.displayMins = fillSparseFloat(k.displayMins, index, displayMinSentinel, mini)
}

// SetDisplayMaximum sets the slider upper bound; gaps fill with 99.
func (k *DoubleKnob) SetDisplayMaximum(maxi float64, index int) {
	k.displayMaxs = fillSparseFloat(k.displayMaxs, index, displayMaxSentinel, maxi)
}

// SetIncrement sets the slider step for one index; gaps fill with 0.1.
// The increment must be positive.
func (k *DoubleKnob) SetIncrement(incr float64, index int) {
	if incr <= 0 {
		panic(fmt.Sprintf("knob: %q increment %g must be > 0", k.Name(), incr))
	}
	k.increments = fillSparseFloat(k.increments, index, doubleIncrSentinel, incr)
	k.emitIncrementChanged(DoubleValue(incr), index)
}

// SetIncrements replaces the whole increment array.
func (k *DoubleKnob) SetIncrements(incr []float64) {
	for i, v := range incr {
		if v <= 0 {
			panic(fmt.Sprintf("knob: %q increment %g at index %d must be > 0", k.Name(), v, i))
		}
	}
	k.increments = append([]float64(nil), incr...)
	for i, v := range k.increments {
		k.emitIncrementChanged(DoubleValue(v), i)
	}
}

// SetDecimals sets the displayed decimal count for one index; gaps
// fill with 3.
func (k *DoubleKnob) SetDecimals(decimals, index int) {
	k.decimals = fillSparseInt(k.decimals, index, decimalsSentinel, decimals)
	k.emitDecimalsChanged(decimals, index)
}

// SetDecimalsAll replaces the whole decimal count array.
func (k *DoubleKnob) SetDecimalsAll(decimals []int) {
	k.decimals = append([]int(nil), decimals...)
	for i, v := range k.decimals {
		k.emitDecimalsChanged(v, i)
	}
}

// SetMinimumsAndMaximums replaces both bound arrays. The slices must
// have the same length.
func (k *DoubleKnob) SetMinimumsAndMaximums(minis, maxis []float64) {
	if len(minis) != len(maxis) {
		panic(fmt.Sprintf("knob: %q minimums (%d) and maximums (%d) differ in length",
			k.Name(), len(minis), len(maxis)))
	}
	k.minimums = append([]float64(nil), minis...)
	k.maximums = append([]float64(nil), maxis...)
	for i := range maxis {
		k.emitMinMaxChanged(DoubleValue(minis[i]), DoubleValue(maxis[i]), i)
	}
}

// SetDisplayMinimumsAndMaximums replaces both display bound arrays.
func (k *DoubleKnob) SetDisplayMinimumsAndMaximums(minis, maxis []float64) {
	k.displayMins = append([]float64(nil), minis...)
	k.displayMaxs = append([]float64(nil), maxis...)
}

// Minimums returns the hard lower bounds.
func (k *DoubleKnob) Minimums() []float64 { return k.minimums }

// Maximums returns the hard upper bounds.
func (k *DoubleKnob) Maximums() []float64 { return k.maximums }

// Increments returns the slider steps.
func (k *DoubleKnob) Increments() []float64 { return k.increments }

// Decimals returns the displayed decimal counts.
func (k *DoubleKnob) Decimals() []int { return k.decimals }

// DisplayMinimums returns the slider lower bounds.
func (k *DoubleKnob) DisplayMinimums() []float64 { return k.displayMins }

// DisplayMaximums returns the slider upper bounds.
func (k *DoubleKnob) DisplayMaximums() []float64 { return k.displayMaxs }

type doublePayload struct {
	Values      map[int]float64      `json:"values"`
	Curves      map[int]curvePayload `json:"curves,omitempty"`
	Minimums    []float64            `json:"min,omitempty"`
	Maximums    []float64            `json:"max,omitempty"`
	Increments  []float64            `json:"incr,omitempty"`
	DisplayMins []float64            `json:"dmin,omitempty"`
	DisplayMaxs []float64            `json:"dmax,omitempty"`
	Decimals    []int                `json:"decimals,omitempty"`
}

func (k *DoubleKnob) Serialize() (string, error) {
	p := doublePayload{
		Values:      make(map[int]float64, len(k.values)),
		Curves:      encodeCurves(k.curves),
		Minimums:    k.minimums,
		Maximums:    k.maximums,
		Increments:  k.increments,
		DisplayMins: k.displayMins,
		DisplayMaxs: k.displayMaxs,
		Decimals:    k.decimals,
	}
	for d, v := range k.values {
		p.Values[d] = v.Double()
	}
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("serialize %q: %w", k.Name(), err)
	}
	return string(data), nil
}

func (k *DoubleKnob) restorePayload(data []byte) error {
	var p doublePayload
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	k.values = make(map[int]Value, len(p.Values))
	for d, v := range p.Values {
		k.values[d] = DoubleValue(v)
	}
	decodeCurves(k.Base, p.Curves, KindDouble)
	k.minimums = p.Minimums
	k.maximums = p.Maximums
	k.increments = p.Increments
	k.displayMins = p.DisplayMins
	k.displayMaxs = p.DisplayMaxs
	k.decimals = p.Decimals
	return nil
}
