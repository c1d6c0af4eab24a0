package reactor

import (
	"fmt"

	"github.com/chazu/cubetree/pkg/geom"
)

// MaxCoordinate bounds the absolute value of every coordinate. Within it
// the volume of any region, and so any tree total, fits in an int64:
// (2*MaxCoordinate+1)^3 is about 8.0e18.
const MaxCoordinate = 1_000_000

// ValidationSeverity indicates whether a validation finding blocks a
// reboot or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks the reboot
	SeverityWarning                           // informational
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

// ValidationError describes a single validation finding. Step is the
// zero-based index of the offending step.
type ValidationError struct {
	Step     int
	Message  string
	Severity ValidationSeverity
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] step %d: %s", e.Severity, e.Step+1, e.Message)
}

// ValidationWarning describes a non-blocking advisory finding.
type ValidationWarning struct {
	Step    int
	Message string
}

func (w ValidationWarning) String() string {
	return fmt.Sprintf("step %d: %s", w.Step+1, w.Message)
}

// ValidationResult bundles blocking errors and advisory warnings.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// OK reports whether the sequence may be rebooted.
func (r ValidationResult) OK() bool {
	return len(r.Errors) == 0
}

// Validate runs the structural checks and returns the blocking errors.
// An empty slice means every step describes a well-formed region.
func Validate(steps []Step) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateIntervals(steps)...)
	errs = append(errs, validateRange(steps)...)
	return errs
}

// ValidateAll runs every tier and separates errors from warnings.
func ValidateAll(steps []Step) ValidationResult {
	var result ValidationResult
	result.Errors = Validate(steps)
	result.Warnings = append(result.Warnings, warnLeadingOff(steps)...)
	result.Warnings = append(result.Warnings, warnRepeated(steps)...)
	return result
}

// validateIntervals rejects regions with low > high on any axis.
func validateIntervals(steps []Step) []ValidationError {
	var errs []ValidationError
	for i, step := range steps {
		for _, axis := range [...]geom.Axis{geom.AxisX, geom.AxisY, geom.AxisZ} {
			iv := step.Region.Interval(axis)
			if iv.IsEmpty() {
				errs = append(errs, ValidationError{
					Step:     i,
					Message:  fmt.Sprintf("%s range %s is inverted", axis, iv),
					Severity: SeverityError,
				})
			}
		}
	}
	return errs
}

// validateRange rejects coordinates beyond MaxCoordinate.
func validateRange(steps []Step) []ValidationError {
	var errs []ValidationError
	for i, step := range steps {
		for _, axis := range [...]geom.Axis{geom.AxisX, geom.AxisY, geom.AxisZ} {
			iv := step.Region.Interval(axis)
			if abs(iv.Low) > MaxCoordinate || abs(iv.High) > MaxCoordinate {
				errs = append(errs, ValidationError{
					Step:     i,
					Message:  fmt.Sprintf("%s range %s exceeds ±%d", axis, iv, MaxCoordinate),
					Severity: SeverityError,
				})
			}
		}
	}
	return errs
}

// warnLeadingOff flags off steps issued before anything was turned on.
func warnLeadingOff(steps []Step) []ValidationWarning {
	var warnings []ValidationWarning
	for i, step := range steps {
		if step.On {
			break
		}
		warnings = append(warnings, ValidationWarning{
			Step:    i,
			Message: "off step before any on step has no effect",
		})
	}
	return warnings
}

// warnRepeated flags a step identical to the one before it.
func warnRepeated(steps []Step) []ValidationWarning {
	var warnings []ValidationWarning
	for i := 1; i < len(steps); i++ {
		if steps[i] == steps[i-1] {
			warnings = append(warnings, ValidationWarning{
				Step:    i,
				Message: "step repeats the previous step",
			})
		}
	}
	return warnings
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
