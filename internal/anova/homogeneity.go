package anova

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
)

// DefaultFMaxThreshold is the FMax value at or above which the equal
// variance assumption is considered violated.
const DefaultFMaxThreshold = 3.0

// HomogeneityResult is the outcome of the FMax test. Eligible is false when
// the F-test must not be run; that is an outcome, not an error.
type HomogeneityResult struct {
	FMax         float64
	Threshold    float64
	Eligible     bool
	MaxVariance  float64
	MinVariance  float64
	MaxCondition int // 0-based index of the largest variance
	MinCondition int // 0-based index of the smallest variance
}

// CheckHomogeneity computes FMax = max/min over variances, rounded to two
// decimals in every precision mode, and classifies the dataset as eligible
// iff FMax < threshold. A threshold <= 0 selects DefaultFMaxThreshold.
func CheckHomogeneity(variances []float64, threshold float64, p Precision) (HomogeneityResult, error) {
	if threshold <= 0 {
		threshold = DefaultFMaxThreshold
	}
	if len(variances) < MinConditions {
		return HomogeneityResult{}, fmt.Errorf("%w: FMax needs at least %d variances, got %d", ErrInsufficientData, MinConditions, len(variances))
	}
	maxV, err := stats.Max(variances)
	if err != nil {
		return HomogeneityResult{}, fmt.Errorf("%w: %v", ErrInsufficientData, err)
	}
	minV, err := stats.Min(variances)
	if err != nil {
		return HomogeneityResult{}, fmt.Errorf("%w: %v", ErrInsufficientData, err)
	}
	maxIdx, minIdx := -1, -1
	for i, v := range variances {
		if math.IsNaN(v) || v < 0 {
			return HomogeneityResult{}, fmt.Errorf("%w: variance %g in condition %d", ErrInsufficientData, v, i+1)
		}
		if maxIdx < 0 && v == maxV {
			maxIdx = i
		}
		if minIdx < 0 && v == minV {
			minIdx = i
		}
	}
	if minV == 0 {
		return HomogeneityResult{}, fmt.Errorf("%w in condition %d", ErrZeroVariance, minIdx+1)
	}

	// FMax gates the F-test, so it is always compared at reported precision.
	fmax := Round(maxV / minV)
	return HomogeneityResult{
		FMax:         fmax,
		Threshold:    threshold,
		Eligible:     fmax < threshold,
		MaxVariance:  maxV,
		MinVariance:  minV,
		MaxCondition: maxIdx,
		MinCondition: minIdx,
	}, nil
}
