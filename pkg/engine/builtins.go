package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/lumen/pkg/knob"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms Lumen Lisp source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: set-value -> set_value
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpKnobRef wraps a knob so it can be returned from `knob` and passed
// to the setter builtins in place of a name string.
type sexpKnobRef struct {
	k knob.Knob
}

func (r *sexpKnobRef) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(knob %q)", r.k.Name())
}
func (r *sexpKnobRef) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value — treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts an int from a Sexp, rounding floats toward zero.
func toInt(s zygo.Sexp) (int, error) {
	f, err := toFloat64(s)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toBool extracts a bool from a Sexp.
func toBool(s zygo.Sexp) (bool, error) {
	if b, ok := s.(*zygo.SexpBool); ok {
		return b.Val, nil
	}
	return false, fmt.Errorf("expected bool, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_linear) and plain strings ("linear").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toInterpolation converts a keyword or string to a knob.Interpolation.
func toInterpolation(s zygo.Sexp) (knob.Interpolation, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return 0, fmt.Errorf("expected interpolation keyword: %w", err)
	}
	switch name {
	case "constant":
		return knob.Constant, nil
	case "linear":
		return knob.Linear, nil
	case "cubic":
		return knob.Cubic, nil
	case "catmull-rom", "catmull_rom":
		return knob.CatmullRom, nil
	}
	return 0, fmt.Errorf("invalid interpolation %q, expected constant/linear/cubic/catmull-rom", name)
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// toStringSlice converts a Lisp list of strings to a Go slice.
func toStringSlice(s zygo.Sexp) ([]string, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		str, err := toString(item)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		out = append(out, str)
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Knob resolution and value coercion
// ---------------------------------------------------------------------------

// resolveKnob turns a builtin argument into a knob: either a reference
// returned by the `knob` builtin, or a name string looked up in the holder.
func resolveKnob(h *knob.Holder, s zygo.Sexp) (knob.Knob, error) {
	if ref, ok := s.(*sexpKnobRef); ok {
		return ref.k, nil
	}
	name, err := toString(s)
	if err != nil {
		return nil, fmt.Errorf("expected knob reference or name: %w", err)
	}
	k := h.KnobByName(name)
	if k == nil {
		return nil, fmt.Errorf("no knob named %q", name)
	}
	return k, nil
}

// coerceValue converts a Sexp to a knob.Value of the kind the target
// knob stores, so scripts can write integer literals into Double knobs
// and vice versa.
func coerceValue(k knob.Knob, s zygo.Sexp) (knob.Value, error) {
	switch k.(type) {
	case *knob.DoubleKnob, *knob.ColorKnob:
		f, err := toFloat64(s)
		if err != nil {
			return knob.Value{}, err
		}
		return knob.DoubleValue(f), nil
	case *knob.IntKnob, *knob.ComboBoxKnob:
		i, err := toInt(s)
		if err != nil {
			return knob.Value{}, err
		}
		return knob.IntValue(i), nil
	case *knob.BoolKnob:
		b, err := toBool(s)
		if err != nil {
			return knob.Value{}, err
		}
		return knob.BoolValue(b), nil
	case *knob.StringKnob, *knob.RichTextKnob, *knob.FileKnob, *knob.OutputFileKnob:
		str, err := toString(s)
		if err != nil {
			return knob.Value{}, err
		}
		return knob.StringValue(str), nil
	}
	return knob.Value{}, fmt.Errorf("knob %q (%s) does not hold values", k.Name(), k.TypeName())
}

// valueToSexp converts a knob.Value back into a zygomys value.
func valueToSexp(v knob.Value) zygo.Sexp {
	switch v.Kind() {
	case knob.KindBool:
		return &zygo.SexpBool{Val: v.Bool()}
	case knob.KindInt:
		return &zygo.SexpInt{Val: int64(v.Int())}
	case knob.KindDouble:
		return &zygo.SexpFloat{Val: v.Double()}
	case knob.KindString:
		return &zygo.SexpStr{S: v.Str()}
	}
	return zygo.SexpNull
}

// capture runs fn and converts a contract panic from the knob layer
// into a script-level error. Script input is untrusted; a bad dimension
// index must not kill the evaluation.
func capture(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	fn()
	return nil
}

// dimArg reads the optional :dim keyword, defaulting to 0.
func dimArg(pa kwArgs) (int, error) {
	v, ok := pa.kw["dim"]
	if !ok {
		return 0, nil
	}
	return toInt(v)
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs all parameter DSL builtins into a zygomys
// environment. The builtins operate on the provided holder, populating
// it during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, f *knob.Factory, h *knob.Holder) {

	// -----------------------------------------------------------------------
	// (knob :type "Double" :name "size" :label "Size" :dims 2
	//       :default 1.0 :hint "Blur radius" :insignificant false)
	// -----------------------------------------------------------------------
	env.AddFunction("knob", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)

		tv, ok := pa.kw["type"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("knob: :type is required")
		}
		typeName, err := toString(tv)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("knob: type: %w", err)
		}

		knobName := ""
		if v, ok := pa.kw["name"]; ok {
			if knobName, err = toString(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("knob: name: %w", err)
			}
		}
		label := knobName
		if v, ok := pa.kw["label"]; ok {
			if label, err = toString(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("knob: label: %w", err)
			}
		}
		dims := 1
		if v, ok := pa.kw["dims"]; ok {
			if dims, err = toInt(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("knob: dims: %w", err)
			}
		}

		var k knob.Knob
		if cerr := capture(func() {
			k, err = f.Create(typeName, h, label, dims)
		}); cerr != nil {
			return zygo.SexpNull, fmt.Errorf("knob: %w", cerr)
		}
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("knob: %w", err)
		}
		if knobName != "" {
			k.SetName(knobName)
		}

		if v, ok := pa.kw["hint"]; ok {
			hint, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("knob: hint: %w", err)
			}
			k.SetHintToolTip(hint)
		}
		if v, ok := pa.kw["insignificant"]; ok {
			ins, err := toBool(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("knob: insignificant: %w", err)
			}
			k.SetInsignificant(ins)
		}
		if v, ok := pa.kw["default"]; ok {
			val, err := coerceValue(k, v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("knob: default: %w", err)
			}
			if cerr := capture(func() {
				for d := 0; d < k.Dimension(); d++ {
					k.SetValue(val, d)
				}
			}); cerr != nil {
				return zygo.SexpNull, fmt.Errorf("knob: default: %w", cerr)
			}
		}

		return &sexpKnobRef{k: k}, nil
	})

	// -----------------------------------------------------------------------
	// (set-value "size" 2.5 :dim 0)
	// -----------------------------------------------------------------------
	env.AddFunction("set_value", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 2 {
			return zygo.SexpNull, fmt.Errorf("set-value requires a knob and a value")
		}
		k, err := resolveKnob(h, pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("set-value: %w", err)
		}
		val, err := coerceValue(k, pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("set-value: %q: %w", k.Name(), err)
		}
		dim, err := dimArg(pa)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("set-value: dim: %w", err)
		}
		if cerr := capture(func() { k.SetValue(val, dim) }); cerr != nil {
			return zygo.SexpNull, fmt.Errorf("set-value: %w", cerr)
		}
		return &sexpKnobRef{k: k}, nil
	})

	// -----------------------------------------------------------------------
	// (set-key "size" :time 5 :value 1.0 :dim 0 :interp :catmull-rom)
	// -----------------------------------------------------------------------
	env.AddFunction("set_key", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("set-key requires a knob")
		}
		k, err := resolveKnob(h, pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("set-key: %w", err)
		}
		tv, ok := pa.kw["time"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("set-key: :time is required")
		}
		t, err := toFloat64(tv)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("set-key: time: %w", err)
		}
		vv, ok := pa.kw["value"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("set-key: :value is required")
		}
		val, err := coerceValue(k, vv)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("set-key: %q: %w", k.Name(), err)
		}
		dim, err := dimArg(pa)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("set-key: dim: %w", err)
		}
		if cerr := capture(func() { k.SetValueAtTime(t, val, dim) }); cerr != nil {
			return zygo.SexpNull, fmt.Errorf("set-key: %w", cerr)
		}
		if iv, ok := pa.kw["interp"]; ok {
			interp, err := toInterpolation(iv)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("set-key: interp: %w", err)
			}
			k.Curve(dim).SetInterpolation(interp)
		}
		return &sexpKnobRef{k: k}, nil
	})

	// -----------------------------------------------------------------------
	// (get-value "size" :dim 0 :time 5)
	// -----------------------------------------------------------------------
	env.AddFunction("get_value", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("get-value requires a knob")
		}
		k, err := resolveKnob(h, pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("get-value: %w", err)
		}
		dim, err := dimArg(pa)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("get-value: dim: %w", err)
		}
		var v knob.Value
		read := func() { v = k.Value(dim) }
		if tv, ok := pa.kw["time"]; ok {
			t, err := toFloat64(tv)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("get-value: time: %w", err)
			}
			read = func() { v = k.ValueAtTime(t, dim) }
		}
		if cerr := capture(read); cerr != nil {
			return zygo.SexpNull, fmt.Errorf("get-value: %w", cerr)
		}
		return valueToSexp(v), nil
	})

	// -----------------------------------------------------------------------
	// (populate "operator" (list "over" "add") (list "A over B" "A plus B"))
	// -----------------------------------------------------------------------
	env.AddFunction("populate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 2 {
			return zygo.SexpNull, fmt.Errorf("populate requires a knob and an entry list")
		}
		k, err := resolveKnob(h, pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("populate: %w", err)
		}
		cb, ok := k.(*knob.ComboBoxKnob)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("populate: %q is a %s, not a ComboBox", k.Name(), k.TypeName())
		}
		entries, err := toStringSlice(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("populate: entries: %w", err)
		}
		var help []string
		if len(pa.positional) >= 3 {
			if help, err = toStringSlice(pa.positional[2]); err != nil {
				return zygo.SexpNull, fmt.Errorf("populate: help: %w", err)
			}
		}
		if len(help) > 0 && len(help) != len(entries) {
			return zygo.SexpNull, fmt.Errorf("populate: %d help strings for %d entries", len(help), len(entries))
		}
		cb.Populate(entries, help)
		return &sexpKnobRef{k: k}, nil
	})

	// -----------------------------------------------------------------------
	// (set-range "size" :min 0 :max 10 :dim 0)
	// -----------------------------------------------------------------------
	env.AddFunction("set_range", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("set-range requires a knob")
		}
		k, err := resolveKnob(h, pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("set-range: %w", err)
		}
		dim, err := dimArg(pa)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("set-range: dim: %w", err)
		}
		switch target := k.(type) {
		case *knob.IntKnob:
			if v, ok := pa.kw["min"]; ok {
				mini, err := toInt(v)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("set-range: min: %w", err)
				}
				target.SetMinimum(mini, dim)
			}
			if v, ok := pa.kw["max"]; ok {
				maxi, err := toInt(v)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("set-range: max: %w", err)
				}
				target.SetMaximum(maxi, dim)
			}
		case *knob.DoubleKnob:
			if v, ok := pa.kw["min"]; ok {
				mini, err := toFloat64(v)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("set-range: min: %w", err)
				}
				target.SetMinimum(mini, dim)
			}
			if v, ok := pa.kw["max"]; ok {
				maxi, err := toFloat64(v)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("set-range: max: %w", err)
				}
				target.SetMaximum(maxi, dim)
			}
		default:
			return zygo.SexpNull, fmt.Errorf("set-range: %q (%s) has no value range", k.Name(), k.TypeName())
		}
		return &sexpKnobRef{k: k}, nil
	})

	// -----------------------------------------------------------------------
	// (set-increment "size" 0.5 :dim 0)
	// -----------------------------------------------------------------------
	env.AddFunction("set_increment", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 2 {
			return zygo.SexpNull, fmt.Errorf("set-increment requires a knob and a step")
		}
		k, err := resolveKnob(h, pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("set-increment: %w", err)
		}
		dim, err := dimArg(pa)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("set-increment: dim: %w", err)
		}
		var cerr error
		switch target := k.(type) {
		case *knob.IntKnob:
			incr, err := toInt(pa.positional[1])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("set-increment: %w", err)
			}
			cerr = capture(func() { target.SetIncrement(incr, dim) })
		case *knob.DoubleKnob:
			incr, err := toFloat64(pa.positional[1])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("set-increment: %w", err)
			}
			cerr = capture(func() { target.SetIncrement(incr, dim) })
		default:
			return zygo.SexpNull, fmt.Errorf("set-increment: %q (%s) has no slider step", k.Name(), k.TypeName())
		}
		if cerr != nil {
			return zygo.SexpNull, fmt.Errorf("set-increment: %w", cerr)
		}
		return &sexpKnobRef{k: k}, nil
	})

	// -----------------------------------------------------------------------
	// (set-decimals "size" 2 :dim 0)
	// -----------------------------------------------------------------------
	env.AddFunction("set_decimals", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 2 {
			return zygo.SexpNull, fmt.Errorf("set-decimals requires a knob and a digit count")
		}
		k, err := resolveKnob(h, pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("set-decimals: %w", err)
		}
		d, ok := k.(*knob.DoubleKnob)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("set-decimals: %q is a %s, not a Double", k.Name(), k.TypeName())
		}
		n, err := toInt(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("set-decimals: %w", err)
		}
		dim, err := dimArg(pa)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("set-decimals: dim: %w", err)
		}
		d.SetDecimals(n, dim)
		return &sexpKnobRef{k: k}, nil
	})

	// -----------------------------------------------------------------------
	// (set-visible "size" false) / (set-enabled "size" false)
	// -----------------------------------------------------------------------
	env.AddFunction("set_visible", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return setFlag(h, "set-visible", args, func(k knob.Knob, on bool) { k.SetVisible(on) })
	})
	env.AddFunction("set_enabled", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return setFlag(h, "set-enabled", args, func(k knob.Knob, on bool) { k.SetEnabled(on) })
	})

	// -----------------------------------------------------------------------
	// (set-files "input" (list "shot.0001.exr" "shot.0002.exr"))
	// -----------------------------------------------------------------------
	env.AddFunction("set_files", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 2 {
			return zygo.SexpNull, fmt.Errorf("set-files requires a knob and a file list")
		}
		k, err := resolveKnob(h, pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("set-files: %w", err)
		}
		fk, ok := k.(*knob.FileKnob)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("set-files: %q is a %s, not an InputFile", k.Name(), k.TypeName())
		}
		files, err := toStringSlice(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("set-files: %w", err)
		}
		fk.SetFiles(files)
		return &sexpKnobRef{k: k}, nil
	})

	// -----------------------------------------------------------------------
	// (group-add "transform" "size" "center")
	// -----------------------------------------------------------------------
	env.AddFunction("group_add", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 2 {
			return zygo.SexpNull, fmt.Errorf("group-add requires a group and at least one knob")
		}
		k, err := resolveKnob(h, pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("group-add: %w", err)
		}
		g, ok := k.(*knob.GroupKnob)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("group-add: %q is a %s, not a Group", k.Name(), k.TypeName())
		}
		for _, arg := range pa.positional[1:] {
			child, err := resolveKnob(h, arg)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("group-add: %w", err)
			}
			if cerr := capture(func() { g.AddKnob(child) }); cerr != nil {
				return zygo.SexpNull, fmt.Errorf("group-add: %w", cerr)
			}
		}
		return &sexpKnobRef{k: k}, nil
	})

	// -----------------------------------------------------------------------
	// (tab-add "pages" "Main" "size" "center")
	// -----------------------------------------------------------------------
	env.AddFunction("tab_add", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 2 {
			return zygo.SexpNull, fmt.Errorf("tab-add requires a tab knob and a tab name")
		}
		k, err := resolveKnob(h, pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("tab-add: %w", err)
		}
		tab, ok := k.(*knob.TabKnob)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("tab-add: %q is a %s, not a Tab", k.Name(), k.TypeName())
		}
		tabName, err := toString(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("tab-add: tab name: %w", err)
		}
		tab.AddTab(tabName)
		for _, arg := range pa.positional[2:] {
			child, err := resolveKnob(h, arg)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("tab-add: %w", err)
			}
			if cerr := capture(func() { tab.AddKnob(tabName, child) }); cerr != nil {
				return zygo.SexpNull, fmt.Errorf("tab-add: %w", cerr)
			}
		}
		return &sexpKnobRef{k: k}, nil
	})
}

// setFlag factors the shared shape of set-visible and set-enabled.
func setFlag(h *knob.Holder, builtin string, args []zygo.Sexp, set func(knob.Knob, bool)) (zygo.Sexp, error) {
	pa := parseArgs(args)
	if len(pa.positional) < 2 {
		return zygo.SexpNull, fmt.Errorf("%s requires a knob and a bool", builtin)
	}
	k, err := resolveKnob(h, pa.positional[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("%s: %w", builtin, err)
	}
	on, err := toBool(pa.positional[1])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("%s: %w", builtin, err)
	}
	set(k, on)
	return &sexpKnobRef{k: k}, nil
}
