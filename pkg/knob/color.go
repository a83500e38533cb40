package knob

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// ColorKnob is a color parameter with one double channel per
// dimension, each following the [0,1] convention. Dimension 1 is
// gray-scale, 3 is RGB and 4 is RGBA; 2 makes no sense and dimensions
// above 4 are unsupported.
type ColorKnob struct {
	*Base
}

// NewColor creates a color knob owned by h. Dimension must be 1, 3
// or 4.
func NewColor(h *Holder, description string, dimension int) *ColorKnob {
	if dimension == 2 || dimension > 4 {
		panic(fmt.Sprintf("knob: color %q dimension %d must be 1, 3 or 4", description, dimension))
	}
	k := &ColorKnob{}
	k.Base = newBase(k, h, description, dimension)
	return k
}

func (k *ColorKnob) TypeName() string { return "Color" }

func (k *ColorKnob) CanAnimate() bool { return true }

func (k *ColorKnob) fillHashVector() { k.hashValuesAndKeys() }

// Set is the typed convenience for SetValue.
func (k *ColorKnob) Set(value float64, dimension int) { k.SetValue(DoubleValue(value), dimension) }

// Get is the typed convenience for Value.
func (k *ColorKnob) Get(dimension int) float64 { return k.Value(dimension).Double() }

// SetRGBA sets all four channels. The knob must have dimension 4.
func (k *ColorKnob) SetRGBA(r, g, b, a float64) {
	vals := []float64{r, g, b, a}
	for d, v := range vals {
		k.SetValue(DoubleValue(v), d)
	}
}

type colorPayload struct {
	Values map[int]float64      `json:"values"`
	Curves map[int]curvePayload `json:"curves,omitempty"`
}

func (k *ColorKnob) Serialize() (string, error) {
	p := colorPayload{
		Values: make(map[int]float64, len(k.values)),
		Curves: encodeCurves(k.curves),
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

func (k *ColorKnob) restorePayload(data []byte) error {
	var p colorPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	k.values = make(map[int]Value, len(p.Values))
	for d, v := range p.Values {
		k.values[d] = DoubleValue(v)
	}
	decodeCurves(k.Base, p.Curves, KindDouble)
	return nil
}
