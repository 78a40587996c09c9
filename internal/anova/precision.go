package anova

import (
	"fmt"
	"math"
	"strings"

	"github.com/montanaflynn/stats"
)

// Precision selects how intermediate values are rounded.
type Precision string

const (
	// PrecisionStage rounds every derived value to two decimals before the
	// next step consumes it. Results match historical worksheets exactly.
	PrecisionStage Precision = "stage"
	// PrecisionFull carries full precision through the chain; rounding is
	// left to the output boundary.
	PrecisionFull Precision = "full"
)

// Decimals is the number of decimals kept by rounding.
const Decimals = 2

// ParsePrecision accepts "stage" (aliases "round", "legacy") or "full".
func ParsePrecision(s string) (Precision, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "stage", "round", "legacy":
		return PrecisionStage, nil
	case "full", "exact":
		return PrecisionFull, nil
	default:
		return "", fmt.Errorf("%w: unknown precision %q (use stage|full)", ErrInvalidOptions, s)
	}
}

func (p Precision) round(x float64) float64 {
	if p == PrecisionFull {
		return x
	}
	return Round(x)
}

// Round rounds half away from zero to Decimals places. NaN and infinities
// pass through unchanged.
func Round(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	r, err := stats.Round(x, Decimals)
	if err != nil {
		return x
	}
	return r
}
