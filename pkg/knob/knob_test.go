package knob

import (
	"fmt"
	"testing"
)

// recordingEvaluator captures Evaluate calls so tests can assert on
// the propagation chain.
type recordingEvaluator struct {
	calls []string
}

func (r *recordingEvaluator) Evaluate(k Knob, significant bool) {
	r.calls = append(r.calls, fmt.Sprintf("%s:%t", k.Name(), significant))
}

func mustPanic(t *testing.T, msg string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: expected panic", msg)
		}
	}()
	fn()
}

func TestKnobNameDefaultsToDescription(t *testing.T) {
	h := NewHolder(nil)
	k := NewDouble(h, "Blur Size", 1)
	if k.Name() != "Blur Size" {
		t.Errorf("name = %q, want description", k.Name())
	}
	k.SetName("blurSize")
	if k.Name() != "blurSize" || k.Description() != "Blur Size" {
		t.Error("SetName must not touch the description")
	}
}

func TestKnobDimensionContract(t *testing.T) {
	h := NewHolder(nil)
	mustPanic(t, "zero dimension", func() { NewDouble(h, "bad", 0) })

	k := NewDouble(h, "size", 2)
	mustPanic(t, "out-of-range set", func() { k.SetValue(DoubleValue(1), 2) })
	mustPanic(t, "negative get", func() { k.Value(-1) })
	mustPanic(t, "unset dimension read", func() { k.Value(1) })
}

func TestSetValuePropagationOrder(t *testing.T) {
	ev := &recordingEvaluator{}
	h := NewHolder(ev)
	k := NewDouble(h, "size", 1)

	var order []string
	k.AddListener(Listener{
		ValueChanged: func(dim int, v Value) {
			// The hash must already reflect the new value when the
			// notification fires.
			order = append(order, fmt.Sprintf("notify:%d:%s:hashlen=%d", dim, v, len(k.HashVector())))
		},
	})

	k.Set(2.5, 0)

	if len(order) != 1 || order[0] != "notify:0:2.5:hashlen=1" {
		t.Errorf("listener order = %v", order)
	}
	if len(ev.calls) != 1 || ev.calls[0] != "size:true" {
		t.Errorf("evaluator calls = %v", ev.calls)
	}
}

func TestSetValueCallOrderPreserved(t *testing.T) {
	h := NewHolder(nil)
	k := NewInt(h, "count", 1)

	var seen []int
	k.AddListener(Listener{ValueChanged: func(dim int, v Value) { seen = append(seen, v.Int()) }})

	for i := 1; i <= 4; i++ {
		k.Set(i, 0)
	}
	for i, v := range seen {
		if v != i+1 {
			t.Fatalf("notifications out of order: %v", seen)
		}
	}
}

func TestInsignificantKnobEvaluatesFalse(t *testing.T) {
	ev := &recordingEvaluator{}
	h := NewHolder(ev)

	cosmetic := NewDouble(h, "preview gamma", 1)
	cosmetic.SetInsignificant(true)
	cosmetic.Set(2.2, 0)

	normal := NewDouble(h, "size", 1)
	normal.Set(3, 0)

	if len(ev.calls) != 2 {
		t.Fatalf("evaluate calls = %d, want 2", len(ev.calls))
	}
	if ev.calls[0] != "preview gamma:false" {
		t.Errorf("insignificant call = %q, want significant=false", ev.calls[0])
	}
	if ev.calls[1] != "size:true" {
		t.Errorf("default call = %q, want significant=true", ev.calls[1])
	}
}

func TestSetValueAtTimeCreatesCurve(t *testing.T) {
	h := NewHolder(nil)
	k := NewDouble(h, "size", 2)

	k.SetValueAtTime(0, DoubleValue(1), 1)
	k.SetValueAtTime(10, DoubleValue(5), 1)

	if k.Curve(0) != nil {
		t.Error("dimension 0 should have no curve")
	}
	keys := k.Keys(1)
	if len(keys) != 2 {
		t.Fatalf("key count = %d, want 2", len(keys))
	}
	if got := k.ValueAtTime(5, 1).Double(); got != 3 {
		t.Errorf("animated value = %g, want 3", got)
	}
}

func TestValueAtTimeFallsBackToStatic(t *testing.T) {
	h := NewHolder(nil)
	k := NewDouble(h, "size", 1)
	k.Set(7, 0)

	if got := k.ValueAtTime(123, 0).Double(); got != 7 {
		t.Errorf("static fallback = %g, want 7", got)
	}

	// A single key is "not animated": still the static value.
	k.SetValueAtTime(1, DoubleValue(9), 0)
	if got := k.ValueAtTime(123, 0).Double(); got != 7 {
		t.Errorf("1-key fallback = %g, want 7", got)
	}
}

func TestSetValueDoesNotTouchCurve(t *testing.T) {
	h := NewHolder(nil)
	k := NewDouble(h, "size", 1)
	k.SetValueAtTime(0, DoubleValue(1), 0)
	k.SetValueAtTime(10, DoubleValue(2), 0)

	k.Set(100, 0) // distinct entry point: base value only

	if got := k.ValueAtTime(0, 0).Double(); got != 1 {
		t.Errorf("animated value after SetValue = %g, want 1", got)
	}
	if got := k.Value(0).Double(); got != 100 {
		t.Errorf("static value = %g, want 100", got)
	}
}

func TestUnanimatableSetValueAtTimePanics(t *testing.T) {
	h := NewHolder(nil)
	k := NewString(h, "label", 1)
	mustPanic(t, "string knob animation", func() {
		k.SetValueAtTime(0, StringValue("x"), 0)
	})
}

func TestKeyFrameEditReachesEvaluator(t *testing.T) {
	ev := &recordingEvaluator{}
	h := NewHolder(ev)
	k := NewDouble(h, "size", 1)
	k.SetValueAtTime(0, DoubleValue(1), 0)
	k.SetValueAtTime(10, DoubleValue(2), 0)

	before := len(ev.calls)
	k.Keys(0)[0].SetValue(DoubleValue(5))
	if len(ev.calls) != before+1 {
		t.Errorf("keyframe edit produced %d evaluations, want 1", len(ev.calls)-before)
	}
}

func TestHierarchySize(t *testing.T) {
	h := NewHolder(nil)
	outer := NewGroup(h, "outer", 1)
	inner := NewGroup(h, "inner", 1)
	leaf := NewDouble(h, "size", 1)

	outer.AddKnob(inner)
	inner.AddKnob(leaf)

	if got := leaf.DetermineHierarchySize(); got != 2 {
		t.Errorf("hierarchy size = %d, want 2", got)
	}
	if got := inner.DetermineHierarchySize(); got != 1 {
		t.Errorf("hierarchy size = %d, want 1", got)
	}
	if outer.Parent() != nil {
		t.Error("top-level knob must have no parent")
	}
	if leaf.Parent() != Knob(inner) {
		t.Error("leaf parent should be inner group")
	}
}

func TestCloneValueBypassesNotify(t *testing.T) {
	evA := &recordingEvaluator{}
	a := NewHolder(evA)
	src := NewDouble(a, "size", 2)
	src.Set(1, 0)
	src.Set(2, 1)
	src.SetValueAtTime(0, DoubleValue(1), 0)
	src.SetValueAtTime(10, DoubleValue(3), 0)

	evB := &recordingEvaluator{}
	b := NewHolder(evB)
	dst := NewDouble(b, "size", 2)

	dst.CloneValue(src)

	if len(evB.calls) != 0 {
		t.Errorf("CloneValue must not evaluate, got %v", evB.calls)
	}
	if dst.Get(0) != 1 || dst.Get(1) != 2 {
		t.Error("static values not cloned")
	}
	if got := dst.ValueAtTime(5, 0).Double(); got != 2 {
		t.Errorf("cloned curve value = %g, want 2", got)
	}

	// The clone is private: editing it must not touch the source.
	dst.Keys(0)[0].SetValue(DoubleValue(100))
	if got := src.ValueAtTime(0, 0).Double(); got != 1 {
		t.Errorf("source curve changed by clone edit: %g", got)
	}
}

func TestCloneValueNameMismatchPanics(t *testing.T) {
	h := NewHolder(nil)
	a := NewDouble(h, "size", 1)
	b := NewDouble(h, "radius", 1)
	mustPanic(t, "clone across names", func() { a.CloneValue(b) })
}

func TestVisibilityAndEnabledNotifications(t *testing.T) {
	ev := &recordingEvaluator{}
	h := NewHolder(ev)
	k := NewDouble(h, "size", 1)

	var events []string
	k.AddListener(Listener{
		VisibilityChanged: func(v bool) { events = append(events, fmt.Sprintf("visible=%t", v)) },
		EnabledChanged:    func(e bool) { events = append(events, fmt.Sprintf("enabled=%t", e)) },
	})

	k.SetVisible(false)
	k.SetEnabled(false)

	if len(events) != 2 || events[0] != "visible=false" || events[1] != "enabled=false" {
		t.Errorf("events = %v", events)
	}
	if len(ev.calls) != 0 {
		t.Errorf("cosmetic changes must not evaluate, got %v", ev.calls)
	}
	if k.IsVisible() || k.IsEnabled() {
		t.Error("flags not stored")
	}
}

func TestUndoAndLayoutFlags(t *testing.T) {
	h := NewHolder(nil)
	k := NewDouble(h, "size", 1)

	if !k.CanBeUndone() || !k.OnNewLine() {
		t.Error("defaults: undoable, on new line")
	}
	k.TurnOffUndoRedo()
	k.TurnOffNewLine()
	k.SetSpacingBetweenItems(12)
	k.SetHintToolTip("the blur radius")

	if k.CanBeUndone() || k.OnNewLine() {
		t.Error("flags not cleared")
	}
	if k.SpacingBetweenItems() != 12 || k.HintToolTip() != "the blur radius" {
		t.Error("layout hints not stored")
	}
}

func TestHierarchyCycleRejected(t *testing.T) {
	h := NewHolder(nil)
	a := NewGroup(h, "a", 1)
	b := NewGroup(h, "b", 1)
	a.AddKnob(b)

	// Mutual adoption would close a parent cycle.
	mustPanic(t, "mutual adoption", func() { b.AddKnob(a) })
	// The refused adoption must leave no trace.
	if len(b.Children()) != 0 {
		t.Error("refused child was recorded")
	}
	if a.Parent() != nil {
		t.Error("refused parent link was recorded")
	}

	mustPanic(t, "self adoption", func() { a.AddKnob(a) })
	mustPanic(t, "self parent", func() { a.SetParent(a) })

	// A deeper chain: tab -> group -> leaf, then the group tries to
	// swallow the tab.
	tab := NewTab(h, "pages", 1)
	tab.AddKnob("Main", a)
	mustPanic(t, "ancestor adoption", func() { a.AddKnob(tab) })

	// Legitimate depths still resolve.
	if got := b.DetermineHierarchySize(); got != 2 {
		t.Errorf("depth = %d, want 2", got)
	}
}

func TestCorruptedParentChainPanics(t *testing.T) {
	// Links forged behind SetParent's back must fail loudly instead of
	// spinning the ancestor walk forever.
	h := NewHolder(nil)
	a := NewGroup(h, "a", 1)
	b := NewGroup(h, "b", 1)
	a.base().parent = b.base().index
	b.base().parent = a.base().index

	mustPanic(t, "cyclic ancestor chain", func() { a.DetermineHierarchySize() })
}
