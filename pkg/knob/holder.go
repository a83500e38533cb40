package knob

import (
	"fmt"
	"hash/fnv"
)

// Evaluator receives the side effect of a knob change, typically a
// request to re-render the owning node. significant is false when the
// changed knob is marked insignificant, so the evaluation may be
// skipped or down-prioritized.
type Evaluator interface {
	Evaluate(k Knob, significant bool)
}

// Holder owns the knobs of one node. Ownership is exclusive: knobs are
// stored in the holder's arena and live exactly as long as it does.
// The holder brackets batches of value changes and forwards each change
// to its evaluator.
type Holder struct {
	evaluator Evaluator
	knobs     []Knob
	depth     int // begin/end bracket nesting; only the outer pair acts

	// Optional bracket hooks, fired when the outermost bracket opens
	// and closes. The downstream engine uses them to coalesce work
	// around multi-knob edits.
	onBegin func(Reason)
	onEnd   func(Reason)
}

// NewHolder creates an empty holder. evaluator may be nil for holders
// that only store values (e.g. render-thread snapshots).
func NewHolder(evaluator Evaluator) *Holder {
	return &Holder{evaluator: evaluator}
}

// SetBracketHooks installs the outer begin/end observers.
func (h *Holder) SetBracketHooks(onBegin, onEnd func(Reason)) {
	h.onBegin = onBegin
	h.onEnd = onEnd
}

// addKnob appends a knob to the arena and returns its index. Called by
// newBase only.
func (h *Holder) addKnob(k Knob) int {
	h.knobs = append(h.knobs, k)
	return len(h.knobs) - 1
}

// Knobs returns the owned knobs in creation order. The slice is
// shared; do not reorder it.
func (h *Holder) Knobs() []Knob { return h.knobs }

// KnobCount returns the number of owned knobs.
func (h *Holder) KnobCount() int { return len(h.knobs) }

// KnobAt returns the knob at the given arena index.
func (h *Holder) KnobAt(index int) Knob { return h.knobs[index] }

// KnobByName returns the knob with the given scripting name, or nil.
func (h *Holder) KnobByName(name string) Knob {
	for _, k := range h.knobs {
		if k.Name() == name {
			return k
		}
	}
	return nil
}

// BeginValuesChanged opens a change bracket. Reentrant calls inside an
// already-open bracket are no-ops for the inner pair.
func (h *Holder) BeginValuesChanged(reason Reason) {
	h.depth++
	if h.depth == 1 && h.onBegin != nil {
		h.onBegin(reason)
	}
}

// EndValuesChanged closes the innermost bracket.
func (h *Holder) EndValuesChanged(reason Reason) {
	if h.depth == 0 {
		return
	}
	h.depth--
	if h.depth == 0 && h.onEnd != nil {
		h.onEnd(reason)
	}
}

// Bracketed reports whether a change bracket is currently open.
func (h *Holder) Bracketed() bool { return h.depth > 0 }

// OnValueChanged is the single entry point every knob calls after a
// mutation. If no bracket is open it synthesizes one around the call;
// explicit bracketing of multi-knob edits avoids that per-change cost.
// The evaluation itself always runs before this returns: a mutation's
// propagation chain completes synchronously.
func (h *Holder) OnValueChanged(k Knob, reason Reason) {
	auto := h.depth == 0
	if auto {
		h.BeginValuesChanged(reason)
	}
	if h.evaluator != nil {
		h.evaluator.Evaluate(k, !k.IsInsignificant())
	}
	if auto {
		h.EndValuesChanged(reason)
	}
}

// CloneKnobs copies every knob value of other into this holder,
// bypassing the notify pipeline. The two holders must hold exactly the
// same ordered knob set; anything else is a caller bug. Used to
// snapshot a node's parameters before a background render.
func (h *Holder) CloneKnobs(other *Holder) {
	if len(other.knobs) != len(h.knobs) {
		panic(fmt.Sprintf("knob: CloneKnobs between holders with %d and %d knobs",
			len(h.knobs), len(other.knobs)))
	}
	for i, k := range h.knobs {
		k.CloneValue(other.knobs[i])
	}
}

// InvalidateHash recomputes every knob's hash contribution. Called
// when structural state changed without going through SetValue, e.g.
// after restoring a project or reordering inputs.
func (h *Holder) InvalidateHash() {
	for _, k := range h.knobs {
		k.base().updateHash()
	}
}

// ContentHash folds all knob hash vectors into a single word, in knob
// creation order. Equal hashes mean the node's output can be reused.
func (h *Holder) ContentHash() uint64 {
	hash := fnv.New64a()
	var buf [8]byte
	for _, k := range h.knobs {
		for _, w := range k.HashVector() {
			buf[0] = byte(w)
			buf[1] = byte(w >> 8)
			buf[2] = byte(w >> 16)
			buf[3] = byte(w >> 24)
			buf[4] = byte(w >> 32)
			buf[5] = byte(w >> 40)
			buf[6] = byte(w >> 48)
			buf[7] = byte(w >> 56)
			hash.Write(buf[:])
		}
	}
	return hash.Sum64()
}
