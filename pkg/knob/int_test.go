package knob

import (
	"math"
	"testing"
)

func TestIntSparseMinimumFill(t *testing.T) {
	h := NewHolder(nil)
	k := NewInt(h, "size", 3)

	k.SetMinimum(0, 0)
	k.SetMinimum(-10, 2)

	mins := k.Minimums()
	if len(mins) != 3 {
		t.Fatalf("minimums length = %d, want 3", len(mins))
	}
	if mins[0] != 0 {
		t.Errorf("minimums[0] = %d, want 0", mins[0])
	}
	if mins[1] != math.MinInt32 {
		t.Errorf("minimums[1] = %d, want the int minimum sentinel", mins[1])
	}
	if mins[2] != -10 {
		t.Errorf("minimums[2] = %d, want -10", mins[2])
	}

	// Overwrite in place once the index exists.
	k.SetMinimum(5, 1)
	if k.Minimums()[1] != 5 || len(k.Minimums()) != 3 {
		t.Error("in-place overwrite failed")
	}
}

func TestIntSparseFillSentinels(t *testing.T) {
	h := NewHolder(nil)
	k := NewInt(h, "size", 4)

	k.SetMaximum(100, 1)
	if got := k.Maximums(); len(got) != 2 || got[0] != math.MaxInt32 {
		t.Errorf("maximums = %v, want [max-sentinel 100]", got)
	}

	k.SetIncrement(5, 2)
	if got := k.Increments(); len(got) != 3 || got[0] != 1 || got[1] != 1 || got[2] != 5 {
		t.Errorf("increments = %v, want [1 1 5]", got)
	}

	k.SetDisplayMinimum(-5, 1)
	if got := k.DisplayMinimums(); len(got) != 2 || got[0] != 0 {
		t.Errorf("display minimums = %v, want [0 -5]", got)
	}

	k.SetDisplayMaximum(50, 1)
	if got := k.DisplayMaximums(); len(got) != 2 || got[0] != 99 {
		t.Errorf("display maximums = %v, want [99 50]", got)
	}
}

func TestIntIncrementMustBePositive(t *testing.T) {
	h := NewHolder(nil)
	k := NewInt(h, "size", 1)
	mustPanic(t, "zero increment", func() { k.SetIncrement(0, 0) })
}

func TestIntMinMaxNotifications(t *testing.T) {
	h := NewHolder(nil)
	k := NewInt(h, "size", 1)

	var got []string
	k.AddListener(Listener{
		MinMaxChanged: func(mini, maxi Value, index int) {
			got = append(got, mini.String()+".."+maxi.String())
		},
		IncrementChanged: func(incr Value, index int) {
			got = append(got, "incr="+incr.String())
		},
	})

	k.SetMinimum(0, 0)
	k.SetMaximum(10, 0)
	k.SetIncrement(2, 0)

	want := []string{"0..99", "0..10", "incr=2"}
	if len(got) != len(want) {
		t.Fatalf("notifications = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("notification %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestIntBulkSettersLengthContract(t *testing.T) {
	h := NewHolder(nil)
	k := NewInt(h, "size", 2)
	mustPanic(t, "mismatched bulk bounds", func() {
		k.SetMinimumsAndMaximums([]int{0}, []int{1, 2})
	})
	k.SetMinimumsAndMaximums([]int{0, 0}, []int{10, 20})
	if k.Maximums()[1] != 20 {
		t.Error("bulk bounds not stored")
	}
}

func TestDoubleSparseFillSentinels(t *testing.T) {
	h := NewHolder(nil)
	k := NewDouble(h, "size", 3)

	k.SetIncrement(0.5, 2)
	incr := k.Increments()
	if len(incr) != 3 || incr[0] != 0.1 || incr[1] != 0.1 || incr[2] != 0.5 {
		t.Errorf("increments = %v, want [0.1 0.1 0.5]", incr)
	}

	k.SetDecimals(6, 1)
	if got := k.Decimals(); len(got) != 2 || got[0] != 3 || got[1] != 6 {
		t.Errorf("decimals = %v, want [3 6]", got)
	}

	k.SetMinimum(-1, 1)
	mins := k.Minimums()
	if len(mins) != 2 || mins[0] != -math.MaxFloat64 || mins[1] != -1 {
		t.Errorf("minimums = %v", mins)
	}
}

func TestDoubleDecimalsNotification(t *testing.T) {
	h := NewHolder(nil)
	k := NewDouble(h, "size", 1)

	var got []int
	k.AddListener(Listener{DecimalsChanged: func(d, index int) { got = append(got, d) }})
	k.SetDecimals(4, 0)
	k.SetDecimalsAll([]int{2})

	if len(got) != 2 || got[0] != 4 || got[1] != 2 {
		t.Errorf("decimals notifications = %v", got)
	}
}
