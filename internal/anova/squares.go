package anova

import "fmt"

// SumOfSquares partitions total variability into between (A) and within (SA).
type SumOfSquares struct {
	A  float64
	SA float64
	T  float64
}

// MeanSquares are sums of squares normalized by their degrees of freedom.
type MeanSquares struct {
	A  float64
	SA float64
	T  float64
}

// ComputeSumOfSquares derives SS_A = A-T, SS_SA = Y-A and SS_T = Y-T.
func ComputeSumOfSquares(r BasicRatios, p Precision) SumOfSquares {
	return SumOfSquares{
		A:  p.round(r.A - r.T),
		SA: p.round(r.Y - r.A),
		T:  p.round(r.Y - r.T),
	}
}

// ComputeMeanSquares divides each sum of squares by its degrees of freedom.
func ComputeMeanSquares(ss SumOfSquares, df DegreesOfFreedom, p Precision) (MeanSquares, error) {
	for _, d := range []struct {
		name string
		v    int
	}{{"df_A", df.A}, {"df_SA", df.SA}, {"df_T", df.T}} {
		if d.v <= 0 {
			return MeanSquares{}, fmt.Errorf("%w: %s = %d", ErrZeroDegreesOfFreedom, d.name, d.v)
		}
	}
	return MeanSquares{
		A:  p.round(ss.A / float64(df.A)),
		SA: p.round(ss.SA / float64(df.SA)),
		T:  p.round(ss.T / float64(df.T)),
	}, nil
}
