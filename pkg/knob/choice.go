package knob

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// ComboBoxKnob is an enumerated choice parameter. Its value is an
// integer index into the entry list supplied by Populate.
type ComboBoxKnob struct {
	*Base
	entries     []string
	entriesHelp []string
}

// NewComboBox creates a choice knob owned by h.
func NewComboBox(h *Holder, description string, dimension int) *ComboBoxKnob {
	k := &ComboBoxKnob{}
	k.Base = newBase(k, h, description, dimension)
	return k
}

func (k *ComboBoxKnob) TypeName() string { return "ComboBox" }

func (k *ComboBoxKnob) CanAnimate() bool { return false }

// fillHashVector covers the active index and the entry texts, since a
// changed entry list can change what the index selects.
func (k *ComboBoxKnob) fillHashVector() {
	k.hashValuesAndKeys()
	for _, e := range k.entries {
		k.hash = appendStringHash(k.hash, e)
	}
}

// Populate installs the entry list and optional per-entry help.
// Call it right after construction. The help list must be empty or the
// same length as the entries.
func (k *ComboBoxKnob) Populate(entries, entriesHelp []string) {
	if len(entriesHelp) != 0 && len(entriesHelp) != len(entries) {
		panic(fmt.Sprintf("knob: %q entries help length %d != entries length %d",
			k.Name(), len(entriesHelp), len(entries)))
	}
	k.entries = append([]string(nil), entries...)
	k.entriesHelp = append([]string(nil), entriesHelp...)
	k.emitPopulated()
}

// Entries returns the choice texts.
func (k *ComboBoxKnob) Entries() []string { return k.entries }

// EntriesHelp returns the per-entry help texts.
func (k *ComboBoxKnob) EntriesHelp() []string { return k.entriesHelp }

// ActiveEntry returns the selected index.
func (k *ComboBoxKnob) ActiveEntry() int { return k.Value(0).Int() }

// ActiveEntryText returns the selected entry's text.
func (k *ComboBoxKnob) ActiveEntryText() string { return k.entries[k.ActiveEntry()] }

type comboBoxPayload struct {
	Values map[int]int64 `json:"values"`
}

func (k *ComboBoxKnob) Serialize() (string, error) {
	p := comboBoxPayload{Values: make(map[int]int64, len(k.values))}
	for d, v := range k.values {
		p.Values[d] = int64(v.Int())
	}
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("serialize %q: %w", k.Name(), err)
	}
	return string(data), nil
}

func (k *ComboBoxKnob) restorePayload(data []byte) error {
	var p comboBoxPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	k.values = make(map[int]Value, len(p.Values))
	for d, v := range p.Values {
		k.values[d] = IntValue(int(v))
	}
	return nil
}

// cloneExtraData carries the entry lists so a snapshot can resolve its
// active entry text without the live knob.
func (k *ComboBoxKnob) cloneExtraData(other Knob) {
	o := other.(*ComboBoxKnob)
	k.entries = append([]string(nil), o.entries...)
	k.entriesHelp = append([]string(nil), o.entriesHelp...)
}
