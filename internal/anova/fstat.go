package anova

import "fmt"

// ComputeF returns MS_A / MS_SA.
func ComputeF(ms MeanSquares, p Precision) (float64, error) {
	if ms.SA == 0 {
		return 0, fmt.Errorf("%w: MS_SA is 0 (MS_A = %g)", ErrZeroMeanSquare, ms.A)
	}
	return p.round(ms.A / ms.SA), nil
}
