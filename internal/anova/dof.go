package anova

import "fmt"

// DegreesOfFreedom for the between (A), within (SA) and total (T) sources.
// A + SA == T always holds.
type DegreesOfFreedom struct {
	A  int
	SA int
	T  int
}

// ComputeDegreesOfFreedom derives the degrees of freedom from table shape.
func ComputeDegreesOfFreedom(numConditions, sampSize int) (DegreesOfFreedom, error) {
	if numConditions < MinConditions {
		return DegreesOfFreedom{}, fmt.Errorf("%w: need at least %d conditions, got %d", ErrInvalidDesign, MinConditions, numConditions)
	}
	if sampSize < MinSampleSize {
		return DegreesOfFreedom{}, fmt.Errorf("%w: need at least %d samples per condition, got %d", ErrInvalidDesign, MinSampleSize, sampSize)
	}
	return DegreesOfFreedom{
		A:  numConditions - 1,
		SA: numConditions * (sampSize - 1),
		T:  numConditions*sampSize - 1,
	}, nil
}
