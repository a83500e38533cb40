package knob

import "testing"

// roundTrip serializes src and restores it into dst.
func roundTrip(t *testing.T, src, dst Knob) {
	t.Helper()
	s, err := src.Serialize()
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if err := dst.RestoreFromString(s); err != nil {
		t.Fatalf("restore: %v", err)
	}
}

func TestIntRoundTrip(t *testing.T) {
	h := NewHolder(nil)
	src := NewInt(h, "count", 2)
	src.Set(3, 0)
	src.Set(-7, 1)
	src.SetMinimum(0, 0)
	src.SetIncrement(2, 1)
	src.SetValueAtTime(0, IntValue(1), 0)
	src.SetValueAtTime(8, IntValue(9), 0)

	dst := NewInt(NewHolder(nil), "count", 2)
	roundTrip(t, src, dst)

	if dst.Get(0) != 3 || dst.Get(1) != -7 {
		t.Error("values not restored")
	}
	if got := dst.Minimums(); len(got) != 1 || got[0] != 0 {
		t.Errorf("minimums = %v", got)
	}
	if got := dst.Increments(); len(got) != 2 || got[1] != 2 {
		t.Errorf("increments = %v", got)
	}
	if got := dst.ValueAtTime(4, 0).Int(); got != 5 {
		t.Errorf("restored curve at 4 = %d, want 5", got)
	}
}

func TestDoubleRoundTrip(t *testing.T) {
	h := NewHolder(nil)
	src := NewDouble(h, "size", 1)
	src.Set(2.25, 0)
	src.SetDecimals(4, 0)
	src.SetValueAtTime(0, DoubleValue(0), 0)
	src.SetValueAtTime(1, DoubleValue(1), 0)

	dst := NewDouble(NewHolder(nil), "size", 1)
	roundTrip(t, src, dst)

	if dst.Get(0) != 2.25 {
		t.Errorf("value = %g", dst.Get(0))
	}
	if got := dst.Decimals(); len(got) != 1 || got[0] != 4 {
		t.Errorf("decimals = %v", got)
	}
	if got := dst.ValueAtTime(0.5, 0).Double(); got != 0.5 {
		t.Errorf("restored curve midpoint = %g", got)
	}
}

func TestBoolAndStringRoundTrip(t *testing.T) {
	h := NewHolder(nil)

	b := NewBool(h, "enabled", 1)
	b.Set(true, 0)
	b2 := NewBool(NewHolder(nil), "enabled", 1)
	roundTrip(t, b, b2)
	if !b2.Get(0) {
		t.Error("bool not restored")
	}

	s := NewString(h, "label", 1)
	s.Set("hello; world", 0)
	s2 := NewString(NewHolder(nil), "label", 1)
	roundTrip(t, s, s2)
	if s2.Get(0) != "hello; world" {
		t.Error("string not restored")
	}

	r := NewRichText(h, "notes", 1)
	r.Set("<b>bold</b>\nline two", 0)
	r2 := NewRichText(NewHolder(nil), "notes", 1)
	roundTrip(t, r, r2)
	if r2.Get(0) != "<b>bold</b>\nline two" {
		t.Error("rich text not restored")
	}
}

func TestColorRoundTrip(t *testing.T) {
	h := NewHolder(nil)
	src := NewColor(h, "tint", 4)
	src.SetRGBA(0.1, 0.2, 0.3, 1)
	src.SetValueAtTime(0, DoubleValue(0), 3)
	src.SetValueAtTime(10, DoubleValue(1), 3)

	dst := NewColor(NewHolder(nil), "tint", 4)
	roundTrip(t, src, dst)

	for d, want := range []float64{0.1, 0.2, 0.3, 1} {
		if got := dst.Get(d); got != want {
			t.Errorf("channel %d = %g, want %g", d, got, want)
		}
	}
	if got := dst.ValueAtTime(5, 3).Double(); got != 0.5 {
		t.Errorf("restored alpha curve = %g", got)
	}
}

func TestComboBoxRoundTrip(t *testing.T) {
	h := NewHolder(nil)
	src := NewComboBox(h, "operator", 1)
	src.Populate([]string{"over", "add", "multiply"}, nil)
	src.SetValue(IntValue(2), 0)

	dst := NewComboBox(NewHolder(nil), "operator", 1)
	dst.Populate([]string{"over", "add", "multiply"}, nil)
	roundTrip(t, src, dst)

	if dst.ActiveEntry() != 2 || dst.ActiveEntryText() != "multiply" {
		t.Errorf("active entry = %d (%q)", dst.ActiveEntry(), dst.ActiveEntryText())
	}
}

func TestFileRoundTrip(t *testing.T) {
	h := NewHolder(nil)
	src := NewFile(h, "input", 1)
	src.SetFiles([]string{"shot.0001.exr", "shot.0002.exr"})

	dst := NewFile(NewHolder(nil), "input", 1)
	roundTrip(t, src, dst)

	// processNewValue runs on restore, so the sequence is rebuilt.
	if dst.FrameCount() != 2 {
		t.Errorf("frame count = %d, want 2", dst.FrameCount())
	}
	if got := dst.RandomFrameName(2, false); got != "shot.0002.exr" {
		t.Errorf("frame 2 = %q", got)
	}
}

func TestRestoreMalformedLeavesStateIntact(t *testing.T) {
	h := NewHolder(nil)
	k := NewDouble(h, "size", 1)
	k.Set(4.5, 0)

	if err := k.RestoreFromString("{not json"); err == nil {
		t.Fatal("expected parse error")
	}
	if got := k.Get(0); got != 4.5 {
		t.Errorf("value after failed restore = %g, want 4.5", got)
	}
}

func TestStructuralKnobsSerializeEmpty(t *testing.T) {
	h := NewHolder(nil)
	for _, k := range []Knob{
		NewButton(h, "render", 1),
		NewSeparator(h, "sep", 1),
		NewGroup(h, "grp", 1),
		NewTab(h, "tabs", 1),
	} {
		s, err := k.Serialize()
		if err != nil {
			t.Fatalf("%s: serialize: %v", k.TypeName(), err)
		}
		if s != "" {
			t.Errorf("%s serializes to %q, want empty", k.TypeName(), s)
		}
		if len(k.HashVector()) != 0 {
			t.Errorf("%s must contribute no hash words", k.TypeName())
		}
	}
}
