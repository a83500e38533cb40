// Package engine provides the Lisp scripting driver for Lumen's
// parameter system. It wraps zygomys in a sandboxed environment and
// produces a populated knob.Holder from user source code.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/chazu/lumen/pkg/knob"
	zygo "github.com/glycerine/zygomys/zygo"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Engine wraps the zygomys interpreter for parameter scripting.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandboxed environment for determinism.
type Engine struct {
	mu         sync.Mutex
	generation uint64
	factory    *knob.Factory
	evaluator  knob.Evaluator
}

// NewEngine creates an engine. The factory supplies the knob type
// registry used by the `knob` builtin; the evaluator is attached to
// every holder the engine produces, so script edits reach the render
// scheduler the same way interactive edits do. Either may be nil.
func NewEngine(factory *knob.Factory, evaluator knob.Evaluator) *Engine {
	if factory == nil {
		factory = knob.NewFactory()
	}
	return &Engine{factory: factory, evaluator: evaluator}
}

// Evaluate takes Lisp source code and produces a new holder populated
// with the knobs the script defines. Each call creates a fresh zygomys
// sandbox for deterministic evaluation.
//
// Return semantics:
//   - On success: returns holder + nil errors + nil error
//   - On parse/eval failure: returns nil holder + eval errors + nil error
//   - On fatal failure (timeout, panic): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*knob.Holder, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		h, evalErrs, err := e.evaluate(source)
		ch <- evalResult{holder: h, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, gen, &e.mu, &e.generation)
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*knob.Holder, []EvalError, error) {
	h := knob.NewHolder(e.evaluator)

	// Empty source is a valid program that produces an empty holder.
	if strings.TrimSpace(source) == "" {
		return h, nil, nil
	}

	// Sandbox mode prevents user code from accessing the filesystem or
	// syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	registerBuiltins(env, e.factory, h)

	// The whole script runs inside one bracket so the begin/end hooks
	// fire once per evaluation, not once per set.
	h.BeginValuesChanged(knob.PluginEdited)
	defer h.EndValuesChanged(knob.PluginEdited)

	err := env.LoadString(preprocessSource(source))
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	_, err = env.Run()
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	return h, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
// It attempts to extract line number information from the error message.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	// zygomys formats parse errors as "Error on line N: <details>\n"
	if m := linePattern.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		detail := strings.TrimSpace(m[2])
		return []EvalError{{
			Line:    line,
			Col:     0,
			Message: detail,
		}}
	}

	if m := linePatternShort.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		detail := strings.TrimSpace(m[2])
		return []EvalError{{
			Line:    line,
			Col:     0,
			Message: detail,
		}}
	}

	// Fallback: no line info available.
	return []EvalError{{
		Line:    0,
		Col:     0,
		Message: strings.TrimSpace(msg),
	}}
}
