package main

import (
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// 1. Empty editor: empty string -> 0 knobs, 0 errors.
// ---------------------------------------------------------------------------

func TestE2EEmptySource(t *testing.T) {
	app := NewApp()
	result := app.Evaluate("")

	if len(result.Errors) != 0 {
		t.Errorf("expected 0 errors for empty source, got %d", len(result.Errors))
	}
	if len(result.Knobs) != 0 {
		t.Errorf("expected 0 knobs for empty source, got %d", len(result.Knobs))
	}
	// Ensure slices are non-nil (JSON should serialize as [] not null).
	if result.Knobs == nil {
		t.Error("Knobs should be non-nil empty slice, got nil")
	}
	if result.Errors == nil {
		t.Error("Errors should be non-nil empty slice, got nil")
	}
}

// ---------------------------------------------------------------------------
// 2. Syntax error mid-expression: unmatched parens -> eval error, 0 knobs,
//    and the previous parameter set survives.
// ---------------------------------------------------------------------------

func TestE2ESyntaxErrorKeepsCurrentSet(t *testing.T) {
	app := NewApp()
	if result := app.Evaluate(demoSource); len(result.Errors) != 0 {
		t.Fatalf("setup eval errors: %v", result.Errors)
	}
	hashBefore := app.ContentHash()

	// Valid code on line 1, broken code on line 2 so line info is meaningful.
	result := app.Evaluate("(+ 1 2)\n(knob :type \"Double\"")
	if len(result.Errors) == 0 {
		t.Fatal("expected at least one eval error for unmatched parens")
	}
	if len(result.Knobs) != 0 {
		t.Errorf("expected 0 knobs on syntax error, got %d", len(result.Knobs))
	}
	if result.Errors[0].Message == "" {
		t.Error("syntax error should have a non-empty message")
	}

	// The failed evaluation must not replace the holder.
	if app.ContentHash() != hashBefore {
		t.Error("current parameter set was replaced by a failed evaluation")
	}
}

// ---------------------------------------------------------------------------
// 3. Runtime script error: setting a knob that does not exist -> eval
//    error carrying the builtin's message.
// ---------------------------------------------------------------------------

func TestE2EUnknownKnobError(t *testing.T) {
	app := NewApp()
	result := app.Evaluate(`(set-value "missing" 1.0)`)

	if len(result.Errors) == 0 {
		t.Fatal("expected eval error")
	}
	if !strings.Contains(result.Errors[0].Message, "missing") {
		t.Errorf("error should name the knob, got: %s", result.Errors[0].Message)
	}
}

// ---------------------------------------------------------------------------
// 4. Frontend bindings before any evaluation: clean errors, no panics.
// ---------------------------------------------------------------------------

func TestE2EBindingsWithoutHolder(t *testing.T) {
	app := NewApp()

	if err := app.SetValue("size", 1.0, 0); err == nil {
		t.Error("SetValue without a holder should fail")
	}
	if err := app.SetKey("size", 0, 1.0, 0); err == nil {
		t.Error("SetKey without a holder should fail")
	}
	if _, err := app.SaveProject(); err == nil {
		t.Error("SaveProject without a holder should fail")
	}
	if err := app.RestoreProject(nil); err == nil {
		t.Error("RestoreProject without a holder should fail")
	}
	if app.ContentHash() != "" {
		t.Error("ContentHash without a holder should be empty")
	}
}

// ---------------------------------------------------------------------------
// 5. Stale UI input: out-of-range dimension index -> error, not a crash.
// ---------------------------------------------------------------------------

func TestE2EBadDimensionFromFrontend(t *testing.T) {
	app := NewApp()
	if result := app.Evaluate(demoSource); len(result.Errors) != 0 {
		t.Fatalf("setup eval errors: %v", result.Errors)
	}

	err := app.SetValue("size", 1.0, 9)
	if err == nil {
		t.Fatal("expected error for out-of-range dimension")
	}
	if !strings.Contains(err.Error(), "out of range") {
		t.Errorf("error = %v", err)
	}

	if err := app.SetKey("filter", 0, 1.0, 0); err == nil {
		t.Error("keyframing an unanimatable knob should fail")
	}
}

// ---------------------------------------------------------------------------
// 6. Restore with a payload for a knob that no longer exists: skipped,
//    the rest restores.
// ---------------------------------------------------------------------------

func TestE2ERestoreSkipsUnknownKnobs(t *testing.T) {
	app := NewApp()
	if result := app.Evaluate(demoSource); len(result.Errors) != 0 {
		t.Fatalf("setup eval errors: %v", result.Errors)
	}
	payloads, err := app.SaveProject()
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	hashBefore := app.ContentHash()

	if err := app.SetValue("mix", 0.25, 0); err != nil {
		t.Fatalf("set: %v", err)
	}

	payloads["ghost"] = `{"name":"ghost"}`
	if err := app.RestoreProject(payloads); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if app.ContentHash() != hashBefore {
		t.Error("restore with a ghost payload did not recover the state")
	}
}

// ---------------------------------------------------------------------------
// 7. Malformed preset: parse errors surface, nothing replaces the
//    current set.
// ---------------------------------------------------------------------------

func TestE2EMalformedPreset(t *testing.T) {
	app := NewApp()
	if result := app.Evaluate(demoSource); len(result.Errors) != 0 {
		t.Fatalf("setup eval errors: %v", result.Errors)
	}
	hashBefore := app.ContentHash()

	result := app.LoadPreset("knobs:\n  - name: size\n")
	if len(result.Errors) == 0 {
		t.Fatal("expected preset error")
	}
	if app.ContentHash() != hashBefore {
		t.Error("failed preset load replaced the parameter set")
	}
}

// ---------------------------------------------------------------------------
// 8. Re-evaluation is deterministic: same source, same content hash.
// ---------------------------------------------------------------------------

func TestE2EReEvaluateSameHash(t *testing.T) {
	app := NewApp()
	r1 := app.Evaluate(demoSource)
	if len(r1.Errors) != 0 {
		t.Fatalf("eval errors: %v", r1.Errors)
	}
	r2 := app.Evaluate(demoSource)
	if len(r2.Errors) != 0 {
		t.Fatalf("eval errors: %v", r2.Errors)
	}
	if r1.ContentHash != r2.ContentHash {
		t.Errorf("hashes differ across identical evaluations: %s vs %s", r1.ContentHash, r2.ContentHash)
	}
}

// ---------------------------------------------------------------------------
// 9. SetText is typed: text lands only in string-valued knobs, and a
//    refused write leaves the set serializable.
// ---------------------------------------------------------------------------

func TestE2ESetTextTypeGuard(t *testing.T) {
	app := NewApp()
	result := app.Evaluate(`
(knob :type "Double" :name "size" :default 1.0)
(knob :type "String" :name "label" :default "x")
`)
	if len(result.Errors) != 0 {
		t.Fatalf("setup eval errors: %v", result.Errors)
	}

	err := app.SetText("size", "oops", 0)
	if err == nil {
		t.Fatal("writing text into a Double knob should fail")
	}
	if !strings.Contains(err.Error(), "does not take text") {
		t.Errorf("error = %v", err)
	}

	// The refused write must not have corrupted the typed state.
	if _, err := app.SaveProject(); err != nil {
		t.Fatalf("save after refused SetText: %v", err)
	}

	hashBefore := app.ContentHash()
	if err := app.SetText("label", "hello", 0); err != nil {
		t.Fatalf("SetText on a String knob: %v", err)
	}
	if app.ContentHash() == hashBefore {
		t.Error("accepted text write did not reach the hash")
	}
}

// ---------------------------------------------------------------------------
// 10. A script closing a group cycle is a script error; the app neither
//     hangs nor keeps the broken set.
// ---------------------------------------------------------------------------

func TestE2EGroupCycleIsRejected(t *testing.T) {
	app := NewApp()
	result := app.Evaluate(`
(knob :type "Group" :name "a")
(knob :type "Group" :name "b")
(group-add "a" "b")
(group-add "b" "a")
`)
	if len(result.Errors) == 0 {
		t.Fatal("expected eval error for group cycle")
	}
	if !strings.Contains(result.Errors[0].Message, "cycle") {
		t.Errorf("error = %s", result.Errors[0].Message)
	}
	if len(result.Knobs) != 0 {
		t.Errorf("expected no knob states on failed evaluation, got %d", len(result.Knobs))
	}
}
