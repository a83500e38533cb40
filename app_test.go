package main

import (
	"testing"
)

// TestE2EBlurExample exercises the full pipeline: Lisp source → engine →
// holder → knob states. This is the same path that the frontend Evaluate
// binding takes, but without a GUI runtime.
func TestE2EBlurExample(t *testing.T) {
	app := NewApp()

	result := app.Evaluate(demoSource)
	if len(result.Errors) != 0 {
		t.Fatalf("eval errors: %v", result.Errors)
	}
	if len(result.Knobs) != 3 {
		t.Fatalf("expected 3 knobs, got %d", len(result.Knobs))
	}

	var size, mix *KnobState
	for i := range result.Knobs {
		switch result.Knobs[i].Name {
		case "size":
			size = &result.Knobs[i]
		case "mix":
			mix = &result.Knobs[i]
		}
	}
	if size == nil || mix == nil {
		t.Fatal("expected knobs named size and mix")
	}
	if size.Type != "Double" || size.Dimension != 2 {
		t.Errorf("size = %s/%d", size.Type, size.Dimension)
	}
	if size.Hint == "" {
		t.Error("size hint missing")
	}
	if size.Animated[0] || size.Animated[1] {
		t.Error("size should not be animated")
	}
	if !mix.Animated[0] {
		t.Error("mix should be animated")
	}
	if result.ContentHash == "" {
		t.Error("content hash missing")
	}
}

func TestE2ESaveAndRestore(t *testing.T) {
	app := NewApp()
	if result := app.Evaluate(demoSource); len(result.Errors) != 0 {
		t.Fatalf("eval errors: %v", result.Errors)
	}

	hashBefore := app.ContentHash()
	payloads, err := app.SaveProject()
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	// Perturb, then restore: the content hash must come back.
	if err := app.SetValue("size", 42.0, 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	if app.ContentHash() == hashBefore {
		t.Fatal("hash did not track the edit")
	}
	if err := app.RestoreProject(payloads); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if app.ContentHash() != hashBefore {
		t.Error("hash not restored")
	}
}

func TestE2ESchedulerSeesEdits(t *testing.T) {
	app := NewApp()
	if result := app.Evaluate(demoSource); len(result.Errors) != 0 {
		t.Fatalf("eval errors: %v", result.Errors)
	}

	before := app.scheduler.renders
	if err := app.SetValue("size", 7.5, 1); err != nil {
		t.Fatalf("set: %v", err)
	}
	if app.scheduler.renders != before+1 {
		t.Errorf("renders = %d, want %d", app.scheduler.renders, before+1)
	}
}

func TestE2ELoadPreset(t *testing.T) {
	app := NewApp()

	doc := `
name: demo
knobs:
  - type: Double
    name: size
    values: [2.5]
  - type: Bool
    name: enabled
    values: [true]
`
	result := app.LoadPreset(doc)
	if len(result.Errors) != 0 {
		t.Fatalf("preset errors: %v", result.Errors)
	}
	if len(result.Knobs) != 2 {
		t.Fatalf("expected 2 knobs, got %d", len(result.Knobs))
	}
	if result.ContentHash == "" {
		t.Error("content hash missing")
	}
}
