package anova

// Verdict classifies a computed F against the critical F.
type Verdict string

const (
	Significant    Verdict = "significant"
	NotSignificant Verdict = "not_significant"
)

// FResult carries the test statistic, its critical value and the verdict.
type FResult struct {
	Calculated float64
	Critical   float64
	Quantile   float64
	Verdict    Verdict
}

// Decide returns Significant iff fCalc is strictly greater than fCrit.
func Decide(fCalc, fCrit float64) Verdict {
	if fCalc > fCrit {
		return Significant
	}
	return NotSignificant
}

// Phrase renders the verdict as it appears in reports.
func (v Verdict) Phrase() string {
	switch v {
	case Significant:
		return "Significant"
	case NotSignificant:
		return "Not significant"
	default:
		return string(v)
	}
}
