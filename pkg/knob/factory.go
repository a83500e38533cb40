package knob

import (
	"fmt"
	"sort"
)

// Builder constructs a knob of one type inside a holder. Plugins
// supply additional builders at startup through Factory.Register.
type Builder func(h *Holder, description string, dimension int) Knob

// Factory maps stable type-name strings to knob constructors. It
// drives file- and plugin-defined parameter creation. The registry is
// populated once at startup and read-only afterwards; pass it
// explicitly to whatever constructs knobs instead of relying on a
// process global.
type Factory struct {
	builders map[string]Builder
}

// NewFactory creates a factory with every built-in variant registered.
func NewFactory() *Factory {
	f := &Factory{builders: make(map[string]Builder)}
	builtins := map[string]Builder{
		"Int":        func(h *Holder, d string, n int) Knob { return NewInt(h, d, n) },
		"Double":     func(h *Holder, d string, n int) Knob { return NewDouble(h, d, n) },
		"Bool":       func(h *Holder, d string, n int) Knob { return NewBool(h, d, n) },
		"String":     func(h *Holder, d string, n int) Knob { return NewString(h, d, n) },
		"RichText":   func(h *Holder, d string, n int) Knob { return NewRichText(h, d, n) },
		"Color":      func(h *Holder, d string, n int) Knob { return NewColor(h, d, n) },
		"ComboBox":   func(h *Holder, d string, n int) Knob { return NewComboBox(h, d, n) },
		"InputFile":  func(h *Holder, d string, n int) Knob { return NewFile(h, d, n) },
		"OutputFile": func(h *Holder, d string, n int) Knob { return NewOutputFile(h, d, n) },
		"Button":     func(h *Holder, d string, n int) Knob { return NewButton(h, d, n) },
		"Separator":  func(h *Holder, d string, n int) Knob { return NewSeparator(h, d, n) },
		"Group":      func(h *Holder, d string, n int) Knob { return NewGroup(h, d, n) },
		"Tab":        func(h *Holder, d string, n int) Knob { return NewTab(h, d, n) },
	}
	for name, b := range builtins {
		f.builders[name] = b
	}
	return f
}

// Register adds a plugin-supplied builder. Registering over an
// existing type name is refused so plugins cannot shadow built-ins.
func (f *Factory) Register(typeName string, b Builder) error {
	if _, ok := f.builders[typeName]; ok {
		return fmt.Errorf("knob type %q already registered", typeName)
	}
	f.builders[typeName] = b
	return nil
}

// Create instantiates a knob by type name. An unknown name is a
// recoverable lookup failure, not a crash: the project file may have
// been written with a plugin that is not loaded.
func (f *Factory) Create(typeName string, h *Holder, description string, dimension int) (Knob, error) {
	b, ok := f.builders[typeName]
	if !ok {
		return nil, fmt.Errorf("unknown knob type %q", typeName)
	}
	return b(h, description, dimension), nil
}

// TypeNames returns the registered type names, sorted.
func (f *Factory) TypeNames() []string {
	names := make([]string, 0, len(f.builders))
	for n := range f.builders {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
