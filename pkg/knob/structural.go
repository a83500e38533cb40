package knob

import "fmt"

// Structural knobs carry no render-affecting value: their hash
// contribution is empty and they serialize to the empty string.

// ButtonKnob triggers an action in the presentation layer.
type ButtonKnob struct {
	*Base
}

// NewButton creates a button knob owned by h.
func NewButton(h *Holder, description string, dimension int) *ButtonKnob {
	k := &ButtonKnob{}
	k.Base = newBase(k, h, description, dimension)
	return k
}

func (k *ButtonKnob) TypeName() string { return "Button" }

func (k *ButtonKnob) CanAnimate() bool { return false }

func (k *ButtonKnob) fillHashVector() {}

func (k *ButtonKnob) Serialize() (string, error) { return "", nil }

func (k *ButtonKnob) restorePayload(data []byte) error { return nil }

// SeparatorKnob is a horizontal rule in the parameter panel.
type SeparatorKnob struct {
	*Base
}

// NewSeparator creates a separator knob owned by h.
func NewSeparator(h *Holder, description string, dimension int) *SeparatorKnob {
	k := &SeparatorKnob{}
	k.Base = newBase(k, h, description, dimension)
	return k
}

func (k *SeparatorKnob) TypeName() string { return "Separator" }

func (k *SeparatorKnob) CanAnimate() bool { return false }

func (k *SeparatorKnob) fillHashVector() {}

func (k *SeparatorKnob) Serialize() (string, error) { return "", nil }

func (k *SeparatorKnob) restorePayload(data []byte) error { return nil }

// GroupKnob is a collapsible container of child knobs. Children are
// referenced by arena index; the holder remains their sole owner.
type GroupKnob struct {
	*Base
	children []int
}

// NewGroup creates a group knob owned by h.
func NewGroup(h *Holder, description string, dimension int) *GroupKnob {
	k := &GroupKnob{}
	k.Base = newBase(k, h, description, dimension)
	return k
}

func (k *GroupKnob) TypeName() string { return "Group" }

func (k *GroupKnob) CanAnimate() bool { return false }

func (k *GroupKnob) fillHashVector() {}

func (k *GroupKnob) Serialize() (string, error) { return "", nil }

func (k *GroupKnob) restorePayload(data []byte) error { return nil }

// AddKnob appends a child. Both knobs must live in the same holder.
func (k *GroupKnob) AddKnob(child Knob) {
	if child.Holder() != k.Holder() {
		panic(fmt.Sprintf("knob: group %q and child %q belong to different holders",
			k.Name(), child.Name()))
	}
	child.SetParent(k)
	k.children = append(k.children, child.base().index)
}

// Children returns the child knobs in insertion order.
func (k *GroupKnob) Children() []Knob {
	out := make([]Knob, 0, len(k.children))
	for _, idx := range k.children {
		out = append(out, k.Holder().KnobAt(idx))
	}
	return out
}

// childIndices exposes the raw arena indices for validation.
func (k *GroupKnob) childIndices() []int { return k.children }

// TabKnob is a tabbed container of child knobs, keyed by tab name with
// stable tab order.
type TabKnob struct {
	*Base
	tabOrder []string
	tabs     map[string][]int
}

// NewTab creates a tab knob owned by h.
func NewTab(h *Holder, description string, dimension int) *TabKnob {
	k := &TabKnob{tabs: make(map[string][]int)}
	k.Base = newBase(k, h, description, dimension)
	return k
}

func (k *TabKnob) TypeName() string { return "Tab" }

func (k *TabKnob) CanAnimate() bool { return false }

func (k *TabKnob) fillHashVector() {}

func (k *TabKnob) Serialize() (string, error) { return "", nil }

func (k *TabKnob) restorePayload(data []byte) error { return nil }

// AddTab registers an empty tab. Adding an existing tab is a no-op.
func (k *TabKnob) AddTab(name string) {
	if _, ok := k.tabs[name]; ok {
		return
	}
	k.tabs[name] = nil
	k.tabOrder = append(k.tabOrder, name)
}

// AddKnob appends a child to the named tab, creating the tab if
// needed. Both knobs must live in the same holder.
func (k *TabKnob) AddKnob(tabName string, child Knob) {
	if child.Holder() != k.Holder() {
		panic(fmt.Sprintf("knob: tab %q and child %q belong to different holders",
			k.Name(), child.Name()))
	}
	k.AddTab(tabName)
	child.SetParent(k)
	k.tabs[tabName] = append(k.tabs[tabName], child.base().index)
}

// TabNames returns the tab names in creation order.
func (k *TabKnob) TabNames() []string { return k.tabOrder }

// Knobs returns the named tab's children in insertion order.
func (k *TabKnob) Knobs(tabName string) []Knob {
	out := make([]Knob, 0, len(k.tabs[tabName]))
	for _, idx := range k.tabs[tabName] {
		out = append(out, k.Holder().KnobAt(idx))
	}
	return out
}
