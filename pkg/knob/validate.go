package knob

import "fmt"

// ValidationSeverity indicates whether a validation finding corrupts
// rendering or is merely advisory.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // value state is unusable
	SeverityWarning                           // advisory
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding on a holder's
// parameter set.
type ValidationError struct {
	KnobName string             // which knob has the problem ("" if holder-level)
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.KnobName == "" {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] knob %q: %s", e.Severity, e.KnobName, e.Message)
}

// Validate runs structural checks over the holder's knobs after a
// project restore: curve ordering, combobox indices, hierarchy
// references. An empty slice means the parameter set is consistent.
// Read-only; never mutates any knob.
func (h *Holder) Validate() []ValidationError {
	var errs []ValidationError
	errs = append(errs, h.validateCurves()...)
	errs = append(errs, h.validateChoices()...)
	errs = append(errs, h.validateRanges()...)
	errs = append(errs, h.validateHierarchy()...)
	return errs
}

// validateRanges reports static values sitting outside their declared
// minimum/maximum. Out-of-range values still render (setters never
// clamp), so these are warnings, not errors.
func (h *Holder) validateRanges() []ValidationError {
	var errs []ValidationError
	outside := func(name string, d int, v, mini, maxi Value) {
		if v.Less(mini) || maxi.Less(v) {
			errs = append(errs, ValidationError{
				KnobName: name,
				Severity: SeverityWarning,
				Message: fmt.Sprintf("dimension %d: value %s outside range %s..%s",
					d, v, mini, maxi),
			})
		}
	}
	for _, k := range h.knobs {
		switch t := k.(type) {
		case *IntKnob:
			for d := range t.values {
				mini, maxi := intMinSentinel, intMaxSentinel
				if d < len(t.minimums) {
					mini = t.minimums[d]
				}
				if d < len(t.maximums) {
					maxi = t.maximums[d]
				}
				outside(t.Name(), d, t.values[d], IntValue(mini), IntValue(maxi))
			}
		case *DoubleKnob:
			for d := range t.values {
				mini, maxi := doubleMinSentinel, doubleMaxSentinel
				if d < len(t.minimums) {
					mini = t.minimums[d]
				}
				if d < len(t.maximums) {
					maxi = t.maximums[d]
				}
				outside(t.Name(), d, t.values[d], DoubleValue(mini), DoubleValue(maxi))
			}
		}
	}
	return errs
}

// validateCurves checks the strictly-increasing key time invariant.
func (h *Holder) validateCurves() []ValidationError {
	var errs []ValidationError
	for _, k := range h.knobs {
		for d := 0; d < k.Dimension(); d++ {
			c := k.Curve(d)
			if c == nil {
				continue
			}
			keys := c.Keys()
			for i := 1; i < len(keys); i++ {
				if keys[i].Time() <= keys[i-1].Time() {
					errs = append(errs, ValidationError{
						KnobName: k.Name(),
						Severity: SeverityError,
						Message: fmt.Sprintf("dimension %d: key times not strictly increasing at %g",
							d, keys[i].Time()),
					})
				}
			}
		}
	}
	return errs
}

// validateChoices checks that every combobox active index resolves to
// an entry.
func (h *Holder) validateChoices() []ValidationError {
	var errs []ValidationError
	for _, k := range h.knobs {
		cb, ok := k.(*ComboBoxKnob)
		if !ok {
			continue
		}
		v, set := cb.values[0]
		if !set {
			continue
		}
		idx := v.Int()
		if idx < 0 || idx >= len(cb.Entries()) {
			errs = append(errs, ValidationError{
				KnobName: cb.Name(),
				Severity: SeverityError,
				Message: fmt.Sprintf("active entry %d outside entries list of length %d",
					idx, len(cb.Entries())),
			})
		}
	}
	return errs
}

// validateHierarchy checks parent and child arena references.
func (h *Holder) validateHierarchy() []ValidationError {
	var errs []ValidationError
	for i, k := range h.knobs {
		b := k.base()
		if b.parent >= len(h.knobs) {
			errs = append(errs, ValidationError{
				KnobName: k.Name(),
				Severity: SeverityError,
				Message:  fmt.Sprintf("parent index %d outside arena of %d knobs", b.parent, len(h.knobs)),
			})
		}
		if b.parent == i {
			errs = append(errs, ValidationError{
				KnobName: k.Name(),
				Severity: SeverityError,
				Message:  "knob is its own parent",
			})
		}
		// Walk raw parent indices with a step bound so a cyclic chain
		// is reported instead of looping.
		steps := 0
		for p := b.parent; p >= 0 && p < len(h.knobs); p = h.knobs[p].base().parent {
			steps++
			if steps > len(h.knobs) {
				errs = append(errs, ValidationError{
					KnobName: k.Name(),
					Severity: SeverityError,
					Message:  "cyclic ancestor chain",
				})
				break
			}
		}
		switch g := k.(type) {
		case *GroupKnob:
			for _, c := range g.childIndices() {
				if c < 0 || c >= len(h.knobs) {
					errs = append(errs, ValidationError{
						KnobName: k.Name(),
						Severity: SeverityError,
						Message:  fmt.Sprintf("child index %d outside arena of %d knobs", c, len(h.knobs)),
					})
				} else if c == i {
					errs = append(errs, ValidationError{
						KnobName: k.Name(),
						Severity: SeverityError,
						Message:  "group contains itself",
					})
				}
			}
		case *TabKnob:
			for _, tab := range g.TabNames() {
				for _, c := range g.tabs[tab] {
					if c < 0 || c >= len(h.knobs) {
						errs = append(errs, ValidationError{
							KnobName: k.Name(),
							Severity: SeverityError,
							Message: fmt.Sprintf("tab %q child index %d outside arena of %d knobs",
								tab, c, len(h.knobs)),
						})
					}
				}
			}
		}
	}
	return errs
}
