package main

import (
	"context"
	"fmt"
	"log"

	"github.com/chazu/lumen/pkg/engine"
	"github.com/chazu/lumen/pkg/knob"
	"github.com/chazu/lumen/pkg/preset"
)

// renderScheduler receives every significant parameter change and
// stands in for the node's render queue. Insignificant changes (overlay
// colors and the like) only refresh the viewer.
type renderScheduler struct {
	renders   uint64
	refreshes uint64
}

func (r *renderScheduler) Evaluate(k knob.Knob, significant bool) {
	if significant {
		r.renders++
		log.Printf("render: knob %q changed (hash words: %d)", k.Name(), len(k.HashVector()))
		return
	}
	r.refreshes++
	log.Printf("refresh: knob %q changed", k.Name())
}

// App is the backend binding layer. It owns the scripting engine, the
// knob type registry and the node's current parameter set.
type App struct {
	ctx       context.Context
	engine    *engine.Engine
	factory   *knob.Factory
	scheduler *renderScheduler
	holder    *knob.Holder
}

// KnobState is the JSON-serializable view of one knob sent to the
// frontend. Payload carries the knob's serialized value state; the
// frontend treats it as opaque and hands it back on restore.
type KnobState struct {
	Name      string `json:"name"`
	Label     string `json:"label"`
	Type      string `json:"type"`
	Dimension int    `json:"dimension"`
	Visible   bool   `json:"visible"`
	Enabled   bool   `json:"enabled"`
	Hint      string `json:"hint,omitempty"`
	Depth     int    `json:"depth"`
	Animated  []bool `json:"animated"`
	Payload   string `json:"payload,omitempty"`
}

// EvalErrorData is a JSON-serializable eval error for the frontend.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result returned to the frontend.
type EvalResult struct {
	Knobs       []KnobState     `json:"knobs"`
	Errors      []EvalErrorData `json:"errors"`
	ContentHash string          `json:"contentHash"`
}

// NewApp creates a new App with an engine, the built-in knob registry
// and a render scheduler wired into every holder the engine produces.
func NewApp() *App {
	factory := knob.NewFactory()
	scheduler := &renderScheduler{}
	return &App{
		engine:    engine.NewEngine(factory, scheduler),
		factory:   factory,
		scheduler: scheduler,
	}
}

// startup saves the frontend context for later runtime calls.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

// Evaluate takes Lisp source and returns the resulting parameter set.
// On success the holder it produced becomes the app's current one.
// This is the primary binding called by the frontend editor.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{
		Knobs:  []KnobState{},
		Errors: []EvalErrorData{},
	}

	h, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		log.Printf("Evaluate fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{
			Line:    0,
			Col:     0,
			Message: err.Error(),
		})
		return result
	}

	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}

	a.holder = h
	result.Knobs = a.knobStates()
	result.ContentHash = fmt.Sprintf("%016x", h.ContentHash())
	return result
}

// LoadPreset materializes a YAML preset document into a fresh parameter
// set, replacing the current one on success.
func (a *App) LoadPreset(doc string) EvalResult {
	result := EvalResult{
		Knobs:  []KnobState{},
		Errors: []EvalErrorData{},
	}

	p, err := preset.Parse([]byte(doc))
	if err != nil {
		log.Printf("LoadPreset parse error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}

	h := knob.NewHolder(a.scheduler)
	if err := p.Apply(a.factory, h); err != nil {
		log.Printf("LoadPreset apply error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}

	a.holder = h
	result.Knobs = a.knobStates()
	result.ContentHash = fmt.Sprintf("%016x", h.ContentHash())
	return result
}

// SetValue writes one dimension of a named knob from the frontend.
// The scalar arrives as a float64 (the JSON number type) and is coerced
// to the knob's value kind.
func (a *App) SetValue(name string, value float64, dimension int) error {
	k, err := a.lookup(name)
	if err != nil {
		return err
	}
	return protect(func() {
		switch target := k.(type) {
		case *knob.DoubleKnob:
			target.Set(value, dimension)
		case *knob.ColorKnob:
			target.Set(value, dimension)
		case *knob.IntKnob:
			target.Set(int(value), dimension)
		case *knob.ComboBoxKnob:
			target.SetValue(knob.IntValue(int(value)), dimension)
		case *knob.BoolKnob:
			target.Set(value != 0, dimension)
		default:
			panic(fmt.Sprintf("knob %q (%s) does not take numbers", name, k.TypeName()))
		}
	})
}

// SetText writes one dimension of a string-valued knob. Non-string
// variants refuse the write; storing text in a numeric knob would
// corrupt its typed state.
func (a *App) SetText(name, value string, dimension int) error {
	k, err := a.lookup(name)
	if err != nil {
		return err
	}
	return protect(func() {
		switch k.(type) {
		case *knob.StringKnob, *knob.RichTextKnob, *knob.FileKnob, *knob.OutputFileKnob:
			k.SetValue(knob.StringValue(value), dimension)
		default:
			panic(fmt.Sprintf("knob %q (%s) does not take text", name, k.TypeName()))
		}
	})
}

// SetKey inserts a keyframe on a named knob from the timeline.
func (a *App) SetKey(name string, time, value float64, dimension int) error {
	k, err := a.lookup(name)
	if err != nil {
		return err
	}
	return protect(func() {
		switch k.(type) {
		case *knob.IntKnob:
			k.SetValueAtTime(time, knob.IntValue(int(value)), dimension)
		default:
			k.SetValueAtTime(time, knob.DoubleValue(value), dimension)
		}
	})
}

// SaveProject serializes every knob's value state, keyed by knob name.
// Structural knobs serialize to the empty string and are skipped.
func (a *App) SaveProject() (map[string]string, error) {
	if a.holder == nil {
		return nil, fmt.Errorf("no parameter set loaded")
	}
	out := make(map[string]string)
	for _, k := range a.holder.Knobs() {
		s, err := k.Serialize()
		if err != nil {
			return nil, fmt.Errorf("serialize %q: %w", k.Name(), err)
		}
		if s == "" {
			continue
		}
		out[k.Name()] = s
	}
	return out, nil
}

// RestoreProject feeds saved payloads back into the current parameter
// set. Payloads for knobs that no longer exist are skipped with a log
// line, matching what happens when a project references an unloaded
// plugin.
func (a *App) RestoreProject(payloads map[string]string) error {
	if a.holder == nil {
		return fmt.Errorf("no parameter set loaded")
	}
	a.holder.BeginValuesChanged(knob.StartupRestoration)
	defer a.holder.EndValuesChanged(knob.StartupRestoration)

	for name, payload := range payloads {
		k := a.holder.KnobByName(name)
		if k == nil {
			log.Printf("RestoreProject: skipping unknown knob %q", name)
			continue
		}
		if err := k.RestoreFromString(payload); err != nil {
			return err
		}
	}
	return nil
}

// ContentHash returns the current parameter set's render cache key.
func (a *App) ContentHash() string {
	if a.holder == nil {
		return ""
	}
	return fmt.Sprintf("%016x", a.holder.ContentHash())
}

func (a *App) lookup(name string) (knob.Knob, error) {
	if a.holder == nil {
		return nil, fmt.Errorf("no parameter set loaded")
	}
	k := a.holder.KnobByName(name)
	if k == nil {
		return nil, fmt.Errorf("no knob named %q", name)
	}
	return k, nil
}

func (a *App) knobStates() []KnobState {
	states := make([]KnobState, 0, a.holder.KnobCount())
	for _, k := range a.holder.Knobs() {
		animated := make([]bool, k.Dimension())
		for d := 0; d < k.Dimension(); d++ {
			c := k.Curve(d)
			animated[d] = c != nil && c.IsAnimated()
		}
		payload, err := k.Serialize()
		if err != nil {
			log.Printf("knobStates: serialize %q: %v", k.Name(), err)
		}
		states = append(states, KnobState{
			Name:      k.Name(),
			Label:     k.Description(),
			Type:      k.TypeName(),
			Dimension: k.Dimension(),
			Visible:   k.IsVisible(),
			Enabled:   k.IsEnabled(),
			Hint:      k.HintToolTip(),
			Depth:     k.DetermineHierarchySize(),
			Animated:  animated,
			Payload:   payload,
		})
	}
	return states
}

// protect converts knob contract panics from frontend input into
// errors. A bad dimension index from a stale UI must not crash the app.
func protect(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	fn()
	return nil
}
