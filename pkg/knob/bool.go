package knob

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// BoolKnob is a checkbox parameter. It does not animate.
type BoolKnob struct {
	*Base
}

// NewBool creates a boolean knob owned by h.
func NewBool(h *Holder, description string, dimension int) *BoolKnob {
	k := &BoolKnob{}
	k.Base = newBase(k, h, description, dimension)
	return k
}

func (k *BoolKnob) TypeName() string { return "Bool" }

func (k *BoolKnob) CanAnimate() bool { return false }

func (k *BoolKnob) fillHashVector() { k.hashValuesAndKeys() }

// Set is the typed convenience for SetValue.
func (k *BoolKnob) Set(value bool, dimension int) { k.SetValue(BoolValue(value), dimension) }

// Get is the typed convenience for Value.
func (k *BoolKnob) Get(dimension int) bool { return k.Value(dimension).Bool() }

type boolPayload struct {
	Values map[int]bool `json:"values"`
}

func (k *BoolKnob) Serialize() (string, error) {
	p := boolPayload{Values: make(map[int]bool, len(k.values))}
	for d, v := range k.values {
		p.Values[d] = v.Bool()
	}
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("serialize %q: %w", k.Name(), err)
	}
	return string(data), nil
}

func (k *BoolKnob) restorePayload(data []byte) error {
	var p boolPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	k.values = make(map[int]Value, len(p.Values))
	for d, v := range p.Values {
		k.values[d] = BoolValue(v)
	}
	return nil
}
