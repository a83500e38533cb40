// Package preset loads parameter set descriptions from YAML documents
// and materializes them into a knob holder through the factory. Presets
// are how plugin bundles and project templates declare their knobs
// without going through the scripting engine.
package preset

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/chazu/lumen/pkg/knob"
)

// KeySpec is one keyframe of a preset curve.
type KeySpec struct {
	Time  float64 `yaml:"time"`
	Value float64 `yaml:"value"`
}

// CurveSpec describes the animation of one knob dimension.
type CurveSpec struct {
	Dimension int       `yaml:"dimension"`
	Interp    string    `yaml:"interp"`
	Keys      []KeySpec `yaml:"keys"`
}

// KnobSpec describes one knob of a preset. Values carries one entry per
// dimension; scalar typing follows the knob type (numbers for Int and
// Double, booleans for Bool, strings for the text variants).
type KnobSpec struct {
	Type          string      `yaml:"type"`
	Name          string      `yaml:"name"`
	Label         string      `yaml:"label"`
	Dimension     int         `yaml:"dimension"`
	Hint          string      `yaml:"hint"`
	Insignificant bool        `yaml:"insignificant"`
	Values        []any       `yaml:"values"`
	Curves        []CurveSpec `yaml:"curves"`
	Entries       []string    `yaml:"entries"`
	EntriesHelp   []string    `yaml:"entriesHelp"`
	Min           []float64   `yaml:"min"`
	Max           []float64   `yaml:"max"`
	Increment     []float64   `yaml:"increment"`
	Decimals      []int       `yaml:"decimals"`
	Group         string      `yaml:"group"`
}

// Preset is a named, ordered parameter set description.
type Preset struct {
	Name  string     `yaml:"name"`
	Knobs []KnobSpec `yaml:"knobs"`
}

// Parse decodes a YAML preset document and checks the parts that must
// hold before Apply can run.
func Parse(data []byte) (*Preset, error) {
	var p Preset
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("preset: %w", err)
	}
	for i, ks := range p.Knobs {
		if ks.Type == "" {
			return nil, fmt.Errorf("preset %q: knob %d: type is required", p.Name, i)
		}
		if ks.Name == "" {
			return nil, fmt.Errorf("preset %q: knob %d (%s): name is required", p.Name, i, ks.Type)
		}
		if ks.Dimension < 0 {
			return nil, fmt.Errorf("preset %q: knob %q: negative dimension", p.Name, ks.Name)
		}
		if len(ks.EntriesHelp) > 0 && len(ks.EntriesHelp) != len(ks.Entries) {
			return nil, fmt.Errorf("preset %q: knob %q: %d help strings for %d entries",
				p.Name, ks.Name, len(ks.EntriesHelp), len(ks.Entries))
		}
	}
	return &p, nil
}

// Apply materializes the preset into the holder. The whole load runs
// inside one startup-restoration bracket, so downstream listeners see a
// single coalesced change. On error the holder may hold a partial
// parameter set; callers should discard it.
func (p *Preset) Apply(f *knob.Factory, h *knob.Holder) error {
	h.BeginValuesChanged(knob.StartupRestoration)
	defer h.EndValuesChanged(knob.StartupRestoration)

	for i := range p.Knobs {
		if err := p.Knobs[i].apply(f, h); err != nil {
			return fmt.Errorf("preset %q: knob %q: %w", p.Name, p.Knobs[i].Name, err)
		}
	}

	// Grouping runs after creation so a group can be declared in any
	// order relative to its members.
	for i := range p.Knobs {
		ks := &p.Knobs[i]
		if ks.Group == "" {
			continue
		}
		g, ok := h.KnobByName(ks.Group).(*knob.GroupKnob)
		if !ok {
			return fmt.Errorf("preset %q: knob %q: group %q not found", p.Name, ks.Name, ks.Group)
		}
		g.AddKnob(h.KnobByName(ks.Name))
	}
	return nil
}

func (ks *KnobSpec) apply(f *knob.Factory, h *knob.Holder) error {
	dims := ks.Dimension
	if dims == 0 {
		dims = 1
	}
	label := ks.Label
	if label == "" {
		label = ks.Name
	}

	k, err := f.Create(ks.Type, h, label, dims)
	if err != nil {
		return err
	}
	k.SetName(ks.Name)
	if ks.Hint != "" {
		k.SetHintToolTip(ks.Hint)
	}
	if ks.Insignificant {
		k.SetInsignificant(true)
	}

	if cb, ok := k.(*knob.ComboBoxKnob); ok && len(ks.Entries) > 0 {
		cb.Populate(ks.Entries, ks.EntriesHelp)
	}

	if len(ks.Values) > dims {
		return fmt.Errorf("%d values for %d dimensions", len(ks.Values), dims)
	}
	for d, raw := range ks.Values {
		v, err := scalarValue(k, raw)
		if err != nil {
			return fmt.Errorf("value %d: %w", d, err)
		}
		k.SetValue(v, d)
	}

	for _, cs := range ks.Curves {
		if err := applyCurve(k, cs); err != nil {
			return err
		}
	}

	return applyRanges(k, ks)
}

func applyCurve(k knob.Knob, cs CurveSpec) error {
	if !k.CanAnimate() {
		return fmt.Errorf("%s knobs cannot animate", k.TypeName())
	}
	if cs.Dimension < 0 || cs.Dimension >= k.Dimension() {
		return fmt.Errorf("curve dimension %d out of range", cs.Dimension)
	}
	for _, key := range cs.Keys {
		v, err := scalarValue(k, key.Value)
		if err != nil {
			return fmt.Errorf("curve key at %g: %w", key.Time, err)
		}
		k.SetValueAtTime(key.Time, v, cs.Dimension)
	}
	if cs.Interp != "" {
		interp, err := parseInterp(cs.Interp)
		if err != nil {
			return err
		}
		if c := k.Curve(cs.Dimension); c != nil {
			c.SetInterpolation(interp)
		}
	}
	return nil
}

func applyRanges(k knob.Knob, ks *KnobSpec) error {
	hasRanges := len(ks.Min) > 0 || len(ks.Max) > 0 || len(ks.Increment) > 0 || len(ks.Decimals) > 0
	if !hasRanges {
		return nil
	}
	switch target := k.(type) {
	case *knob.IntKnob:
		for d, v := range ks.Min {
			target.SetMinimum(int(v), d)
		}
		for d, v := range ks.Max {
			target.SetMaximum(int(v), d)
		}
		for d, v := range ks.Increment {
			target.SetIncrement(int(v), d)
		}
		if len(ks.Decimals) > 0 {
			return fmt.Errorf("Int knobs have no decimals")
		}
	case *knob.DoubleKnob:
		for d, v := range ks.Min {
			target.SetMinimum(v, d)
		}
		for d, v := range ks.Max {
			target.SetMaximum(v, d)
		}
		for d, v := range ks.Increment {
			target.SetIncrement(v, d)
		}
		for d, v := range ks.Decimals {
			target.SetDecimals(v, d)
		}
	default:
		return fmt.Errorf("%s knobs have no value range", k.TypeName())
	}
	return nil
}

// scalarValue coerces a decoded YAML scalar to the kind the knob
// stores. yaml.v3 decodes untagged scalars as int, float64, bool or
// string.
func scalarValue(k knob.Knob, raw any) (knob.Value, error) {
	switch k.(type) {
	case *knob.DoubleKnob, *knob.ColorKnob:
		f, ok := asFloat(raw)
		if !ok {
			return knob.Value{}, fmt.Errorf("expected number, got %T", raw)
		}
		return knob.DoubleValue(f), nil
	case *knob.IntKnob, *knob.ComboBoxKnob:
		f, ok := asFloat(raw)
		if !ok {
			return knob.Value{}, fmt.Errorf("expected number, got %T", raw)
		}
		return knob.IntValue(int(f)), nil
	case *knob.BoolKnob:
		b, ok := raw.(bool)
		if !ok {
			return knob.Value{}, fmt.Errorf("expected bool, got %T", raw)
		}
		return knob.BoolValue(b), nil
	case *knob.StringKnob, *knob.RichTextKnob, *knob.FileKnob, *knob.OutputFileKnob:
		s, ok := raw.(string)
		if !ok {
			return knob.Value{}, fmt.Errorf("expected string, got %T", raw)
		}
		return knob.StringValue(s), nil
	}
	return knob.Value{}, fmt.Errorf("%s knobs hold no values", k.TypeName())
}

func asFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}

func parseInterp(name string) (knob.Interpolation, error) {
	switch name {
	case "constant":
		return knob.Constant, nil
	case "linear":
		return knob.Linear, nil
	case "cubic":
		return knob.Cubic, nil
	case "catmull-rom":
		return knob.CatmullRom, nil
	}
	return 0, fmt.Errorf("unknown interpolation %q", name)
}
