package anova

import (
	"fmt"

	"go.uber.org/zap"
)

// Status distinguishes a significance verdict from the advisory outcome.
type Status string

const (
	StatusDecided    Status = "decided"
	StatusIneligible Status = "ineligible"
)

// AdvisoryMessage explains an ineligible result.
const AdvisoryMessage = "Samples do not meet homogeneity of variance assumption. Test is not appropriate for this sample."

// Options configures a pipeline run. Start from DefaultOptions.
type Options struct {
	// Alpha is the significance level, in (0,1).
	Alpha float64
	// TailTest is 1 or 2 and divides Alpha for the critical-value lookup.
	TailTest int
	// FMaxThreshold is the eligibility bound; FMax must be strictly below it.
	FMaxThreshold float64
	Precision     Precision
	// Quantiler inverts the F distribution. Nil selects FDistribution.
	Quantiler Quantiler
	// Logger receives stage transitions at debug level. Nil disables logging.
	Logger *zap.Logger
}

// DefaultOptions returns alpha 0.05, one-tailed, FMax < 3.0, per-stage rounding.
func DefaultOptions() Options {
	return Options{
		Alpha:         0.05,
		TailTest:      1,
		FMaxThreshold: DefaultFMaxThreshold,
		Precision:     PrecisionStage,
	}
}

// Validate checks every configured value.
func (o Options) Validate() error {
	if !(o.Alpha > 0 && o.Alpha < 1) {
		return fmt.Errorf("%w: alpha must be in (0,1), got %g", ErrInvalidOptions, o.Alpha)
	}
	if _, err := Quantile(o.Alpha, o.TailTest); err != nil {
		return err
	}
	if o.FMaxThreshold < 1 {
		return fmt.Errorf("%w: FMax threshold must be >= 1, got %g", ErrInvalidOptions, o.FMaxThreshold)
	}
	if _, err := ParsePrecision(string(o.Precision)); err != nil {
		return err
	}
	return nil
}

func (o Options) withDefaults() Options {
	if o.FMaxThreshold == 0 {
		o.FMaxThreshold = DefaultFMaxThreshold
	}
	if p, err := ParsePrecision(string(o.Precision)); err == nil {
		o.Precision = p
	}
	if o.Quantiler == nil {
		o.Quantiler = FDistribution{}
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// Result is the outcome of one pipeline run. The decomposition fields and F
// are nil when the homogeneity check rules the dataset ineligible.
type Result struct {
	State     State
	Status    Status
	Trace     []State
	Alpha     float64
	TailTest  int
	Precision Precision

	NumConditions int
	SampleSize    int
	Summaries     []ColumnSummary
	Homogeneity   HomogeneityResult
	Message       string

	Ratios           *BasicRatios
	SumOfSquares     *SumOfSquares
	DegreesOfFreedom *DegreesOfFreedom
	MeanSquares      *MeanSquares
	F                *FResult
}

// Eligible reports whether the F-test ran.
func (r *Result) Eligible() bool { return r != nil && r.Status == StatusDecided }

// Significant reports a decided, significant result.
func (r *Result) Significant() bool {
	return r.Eligible() && r.F != nil && r.F.Verdict == Significant
}

// Run executes the pipeline over t in a single pass. Failures are returned
// as *StageError; an ineligible dataset returns a Result with
// Status == StatusIneligible and a nil error.
func Run(t *Table, opt Options) (*Result, error) {
	opt = opt.withDefaults()
	log := opt.Logger
	if err := opt.Validate(); err != nil {
		return nil, &StageError{State: StateLoaded, Err: err}
	}
	if t == nil {
		return nil, &StageError{State: StateLoaded, Err: fmt.Errorf("%w: nil table", ErrInvalidDesign)}
	}

	p := opt.Precision
	res := &Result{
		State:         StateLoaded,
		Trace:         []State{StateLoaded},
		Alpha:         opt.Alpha,
		TailTest:      opt.TailTest,
		Precision:     p,
		NumConditions: t.NumConditions(),
		SampleSize:    t.SampleSize(),
	}
	advance := func(s State) {
		res.State = s
		res.Trace = append(res.Trace, s)
		log.Debug("anova step complete", zap.String("state", s.String()))
	}
	fail := func(s State, err error) (*Result, error) {
		log.Debug("anova step failed", zap.String("step", s.Step()), zap.Error(err))
		return nil, &StageError{State: s, Err: err}
	}

	summaries, err := Summarize(t, p)
	if err != nil {
		return fail(StateSummarized, err)
	}
	res.Summaries = summaries
	advance(StateSummarized)

	hom, err := CheckHomogeneity(Variances(summaries), opt.FMaxThreshold, p)
	if err != nil {
		return fail(StateHomogeneityChecked, err)
	}
	res.Homogeneity = hom
	advance(StateHomogeneityChecked)
	if !hom.Eligible {
		res.Status = StatusIneligible
		res.Message = AdvisoryMessage
		advance(StateIneligible)
		log.Info("homogeneity of variance not met",
			zap.Float64("fmax", hom.FMax), zap.Float64("threshold", hom.Threshold))
		return res, nil
	}

	ratios, err := ComputeBasicRatios(summaries, res.SampleSize, p)
	if err != nil {
		return fail(StateRatiosComputed, err)
	}
	res.Ratios = &ratios
	advance(StateRatiosComputed)

	ss := ComputeSumOfSquares(ratios, p)
	res.SumOfSquares = &ss
	advance(StateSSComputed)

	df, err := ComputeDegreesOfFreedom(res.NumConditions, res.SampleSize)
	if err != nil {
		return fail(StateDFComputed, err)
	}
	res.DegreesOfFreedom = &df
	advance(StateDFComputed)

	ms, err := ComputeMeanSquares(ss, df, p)
	if err != nil {
		return fail(StateMSComputed, err)
	}
	res.MeanSquares = &ms
	advance(StateMSComputed)

	fCalc, err := ComputeF(ms, p)
	if err != nil {
		return fail(StateFComputed, err)
	}
	advance(StateFComputed)

	fCrit, q, err := CriticalValue(opt.Quantiler, opt.Alpha, opt.TailTest, df, p)
	if err != nil {
		return fail(StateCriticalValueComputed, err)
	}
	advance(StateCriticalValueComputed)

	verdict := Decide(fCalc, fCrit)
	res.F = &FResult{Calculated: fCalc, Critical: fCrit, Quantile: q, Verdict: verdict}
	res.Status = StatusDecided
	res.Message = fmt.Sprintf("%s at the %g level.", verdict.Phrase(), opt.Alpha)
	advance(StateDecided)
	log.Info("anova decided",
		zap.Float64("f_calculated", fCalc), zap.Float64("f_critical", fCrit),
		zap.String("verdict", string(verdict)))
	return res, nil
}
