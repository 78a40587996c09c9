package anova

import "fmt"

// BasicRatios are the bracket terms of the one-way decomposition:
// Y = sum of squared observations, A = sum of squared condition totals / n,
// T = squared grand total / (a*n).
type BasicRatios struct {
	Y float64
	A float64
	T float64
}

// ComputeBasicRatios derives Y, A and T from the column summaries. Each is
// rounded independently under PrecisionStage.
func ComputeBasicRatios(summaries []ColumnSummary, sampSize int, p Precision) (BasicRatios, error) {
	a := len(summaries)
	if a < MinConditions {
		return BasicRatios{}, fmt.Errorf("%w: need at least %d conditions, got %d", ErrInvalidDesign, MinConditions, a)
	}
	if sampSize < MinSampleSize {
		return BasicRatios{}, fmt.Errorf("%w: need at least %d samples per condition, got %d", ErrInvalidDesign, MinSampleSize, sampSize)
	}
	var y, totalsSq, grand float64
	for _, s := range summaries {
		y += s.SumSquares
		totalsSq += s.Sum * s.Sum
		grand += s.Sum
	}
	return BasicRatios{
		Y: p.round(y),
		A: p.round(totalsSq / float64(sampSize)),
		T: p.round(grand * grand / float64(a*sampSize)),
	}, nil
}
