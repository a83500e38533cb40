package knob

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// StringKnob is a single-line text parameter. It does not animate.
type StringKnob struct {
	*Base
}

// NewString creates a text knob owned by h.
func NewString(h *Holder, description string, dimension int) *StringKnob {
	k := &StringKnob{}
	k.Base = newBase(k, h, description, dimension)
	return k
}

func (k *StringKnob) TypeName() string { return "String" }

func (k *StringKnob) CanAnimate() bool { return false }

func (k *StringKnob) fillHashVector() { k.hashValuesAndKeys() }

// Set is the typed convenience for SetValue.
func (k *StringKnob) Set(value string, dimension int) { k.SetValue(StringValue(value), dimension) }

// Get is the typed convenience for Value.
func (k *StringKnob) Get(dimension int) string { return k.Value(dimension).Str() }

type stringPayload struct {
	Values map[int]string `json:"values"`
}

func serializeStrings(name string, values map[int]Value) (string, error) {
	p := stringPayload{Values: make(map[int]string, len(values))}
	for d, v := range values {
		p.Values[d] = v.Str()
	}
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("serialize %q: %w", name, err)
	}
	return string(data), nil
}

func restoreStrings(data []byte) (map[int]Value, error) {
	var p stringPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	values := make(map[int]Value, len(p.Values))
	for d, v := range p.Values {
		values[d] = StringValue(v)
	}
	return values, nil
}

func (k *StringKnob) Serialize() (string, error) {
	return serializeStrings(k.Name(), k.values)
}

func (k *StringKnob) restorePayload(data []byte) error {
	values, err := restoreStrings(data)
	if err != nil {
		return err
	}
	k.values = values
	return nil
}

// RichTextKnob is a multi-line formatted text parameter.
type RichTextKnob struct {
	*Base
}

// NewRichText creates a rich text knob owned by h.
func NewRichText(h *Holder, description string, dimension int) *RichTextKnob {
	k := &RichTextKnob{}
	k.Base = newBase(k, h, description, dimension)
	return k
}

func (k *RichTextKnob) TypeName() string { return "RichText" }

func (k *RichTextKnob) CanAnimate() bool { return false }

func (k *RichTextKnob) fillHashVector() { k.hashValuesAndKeys() }

// Set is the typed convenience for SetValue.
func (k *RichTextKnob) Set(value string, dimension int) { k.SetValue(StringValue(value), dimension) }

// Get is the typed convenience for Value.
func (k *RichTextKnob) Get(dimension int) string { return k.Value(dimension).Str() }

func (k *RichTextKnob) Serialize() (string, error) {
	return serializeStrings(k.Name(), k.values)
}

func (k *RichTextKnob) restorePayload(data []byte) error {
	values, err := restoreStrings(data)
	if err != nil {
		return err
	}
	k.values = values
	return nil
}
