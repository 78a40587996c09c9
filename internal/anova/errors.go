package anova

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDesign indicates fewer than two conditions, fewer than two
	// samples per condition, or ragged condition columns.
	ErrInvalidDesign = errors.New("invalid design")
	// ErrInsufficientData indicates a condition cannot support a variance.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrZeroVariance indicates a constant condition, which leaves FMax undefined.
	ErrZeroVariance = errors.New("zero variance")
	// ErrZeroDegreesOfFreedom guards the mean-square and quantile divisions.
	ErrZeroDegreesOfFreedom = errors.New("zero degrees of freedom")
	// ErrZeroMeanSquare guards the F ratio division.
	ErrZeroMeanSquare = errors.New("zero within-condition mean square")
	// ErrInvalidQuantile indicates an alpha/tail combination outside (0,1).
	ErrInvalidQuantile = errors.New("invalid quantile")
	// ErrInvalidTailTest indicates a tail count other than 1 or 2.
	ErrInvalidTailTest = errors.New("invalid tail test")
	// ErrNonFiniteValue indicates a NaN or infinite measurement.
	ErrNonFiniteValue = errors.New("non-finite value")
	// ErrInvalidOptions indicates an out-of-range configuration value.
	ErrInvalidOptions = errors.New("invalid options")
)

// StageError reports the pipeline step that failed and why.
type StageError struct {
	State State
	Err   error
}

func (e *StageError) Error() string {
	if e == nil {
		return "anova failed"
	}
	return fmt.Sprintf("%s: %v", e.State.Step(), e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// FailedStep returns the step name carried by a StageError in err's chain,
// or "" when there is none.
func FailedStep(err error) string {
	var se *StageError
	if errors.As(err, &se) {
		return se.State.Step()
	}
	return ""
}

// IsInputError reports whether err stems from the data or configuration
// rather than from an internal failure.
func IsInputError(err error) bool {
	for _, target := range []error{
		ErrInvalidDesign, ErrInsufficientData, ErrZeroVariance,
		ErrZeroDegreesOfFreedom, ErrZeroMeanSquare, ErrInvalidQuantile,
		ErrInvalidTailTest, ErrNonFiniteValue, ErrInvalidOptions,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func conditionLabel(i int, name string) string {
	if name == "" {
		return fmt.Sprintf("condition %d", i+1)
	}
	return fmt.Sprintf("condition %d (%q)", i+1, name)
}
