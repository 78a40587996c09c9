package anova

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mathext"
)

// Quantiler inverts a two-parameter F cumulative distribution.
type Quantiler interface {
	// Quantile returns x such that P(F(d1, d2) <= x) = prob.
	Quantile(d1, d2, prob float64) (float64, error)
}

// FDistribution is the default Quantiler. It inverts the regularized
// incomplete beta function: if I_x(d1/2, d2/2) = prob then
// F = d2*x / (d1*(1-x)).
type FDistribution struct{}

// Quantile implements Quantiler.
func (FDistribution) Quantile(d1, d2, prob float64) (float64, error) {
	if !(d1 > 0) || !(d2 > 0) {
		return 0, fmt.Errorf("%w: F(%g, %g)", ErrZeroDegreesOfFreedom, d1, d2)
	}
	if !(prob > 0 && prob < 1) {
		return 0, fmt.Errorf("%w: probability %g is outside (0,1)", ErrInvalidQuantile, prob)
	}
	x := mathext.InvRegIncBeta(d1/2, d2/2, prob)
	if math.IsNaN(x) || x >= 1 {
		return 0, fmt.Errorf("%w: no finite F(%g, %g) quantile at %g", ErrInvalidQuantile, d1, d2, prob)
	}
	return d2 * x / (d1 * (1 - x)), nil
}

// Quantile returns 1 - alpha/tailTest, the cumulative probability at which
// the critical value is read. tailTest divides alpha: 1 uses alpha as is,
// 2 halves it.
func Quantile(alpha float64, tailTest int) (float64, error) {
	if tailTest != 1 && tailTest != 2 {
		return 0, fmt.Errorf("%w: %d (use 1 or 2)", ErrInvalidTailTest, tailTest)
	}
	q := 1 - alpha/float64(tailTest)
	if !(q > 0 && q < 1) {
		return 0, fmt.Errorf("%w: alpha %g with a %d-tailed test gives %g", ErrInvalidQuantile, alpha, tailTest, q)
	}
	return q, nil
}

// CriticalValue looks up the F(df_A, df_SA) quantile for alpha and
// tailTest. It returns the critical value and the quantile used. A nil
// Quantiler selects FDistribution.
func CriticalValue(qf Quantiler, alpha float64, tailTest int, df DegreesOfFreedom, p Precision) (float64, float64, error) {
	if qf == nil {
		qf = FDistribution{}
	}
	q, err := Quantile(alpha, tailTest)
	if err != nil {
		return 0, 0, err
	}
	if df.A <= 0 || df.SA <= 0 {
		return 0, q, fmt.Errorf("%w: df_A = %d, df_SA = %d", ErrZeroDegreesOfFreedom, df.A, df.SA)
	}
	x, err := qf.Quantile(float64(df.A), float64(df.SA), q)
	if err != nil {
		return 0, q, err
	}
	return p.round(x), q, nil
}
