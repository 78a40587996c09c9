package report

import (
	"github.com/KaramelBytes/anova-cli/internal/anova"
)

// ConditionRecord is one condition's summary as written to reports.
type ConditionRecord struct {
	Name     string  `json:"name" yaml:"name"`
	N        int     `json:"n" yaml:"n"`
	Sum      float64 `json:"sum" yaml:"sum"`
	Mean     float64 `json:"mean" yaml:"mean"`
	Variance float64 `json:"variance" yaml:"variance"`
}

// SourceRow is one line of the ANOVA source table.
type SourceRow struct {
	Source string   `json:"source" yaml:"source"`
	SS     float64  `json:"ss" yaml:"ss"`
	DF     int      `json:"df" yaml:"df"`
	MS     float64  `json:"ms" yaml:"ms"`
	F      *float64 `json:"f,omitempty" yaml:"f,omitempty"`
}

// Record is the serialized outcome of a run. Every float is rounded to two
// decimals; the F fields are omitted when the dataset was ineligible.
type Record struct {
	RunID         string            `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Dataset       string            `json:"dataset" yaml:"dataset"`
	Status        string            `json:"status" yaml:"status"`
	State         string            `json:"state" yaml:"state"`
	Conditions    int               `json:"conditions" yaml:"conditions"`
	SampleSize    int               `json:"sample_size" yaml:"sample_size"`
	Alpha         float64           `json:"alpha" yaml:"alpha"`
	TailTest      int               `json:"tail_test" yaml:"tail_test"`
	Precision     string            `json:"precision" yaml:"precision"`
	FMax          float64           `json:"fmax" yaml:"fmax"`
	FMaxThreshold float64           `json:"fmax_threshold" yaml:"fmax_threshold"`
	Eligible      bool              `json:"eligible" yaml:"eligible"`
	Message       string            `json:"message" yaml:"message"`
	Summaries     []ConditionRecord `json:"summaries" yaml:"summaries"`

	FCalculated *float64    `json:"f_calculated,omitempty" yaml:"f_calculated,omitempty"`
	FCritical   *float64    `json:"f_critical,omitempty" yaml:"f_critical,omitempty"`
	Verdict     string      `json:"verdict,omitempty" yaml:"verdict,omitempty"`
	SourceTable []SourceRow `json:"source_table,omitempty" yaml:"source_table,omitempty"`
}

// NewRecord flattens res into a Record.
func NewRecord(name, runID string, res *anova.Result) Record {
	rec := Record{
		RunID:         runID,
		Dataset:       name,
		Status:        string(res.Status),
		State:         res.State.String(),
		Conditions:    res.NumConditions,
		SampleSize:    res.SampleSize,
		Alpha:         res.Alpha,
		TailTest:      res.TailTest,
		Precision:     string(res.Precision),
		FMax:          anova.Round(res.Homogeneity.FMax),
		FMaxThreshold: res.Homogeneity.Threshold,
		Eligible:      res.Homogeneity.Eligible,
		Message:       res.Message,
	}
	for _, s := range res.Summaries {
		rec.Summaries = append(rec.Summaries, ConditionRecord{
			Name:     s.Condition,
			N:        s.N,
			Sum:      anova.Round(s.Sum),
			Mean:     anova.Round(s.Mean),
			Variance: anova.Round(s.Variance),
		})
	}
	if res.F == nil {
		return rec
	}
	fc, ft := anova.Round(res.F.Calculated), anova.Round(res.F.Critical)
	rec.FCalculated = &fc
	rec.FCritical = &ft
	rec.Verdict = string(res.F.Verdict)
	rec.SourceTable = sourceRows(res)
	return rec
}

func sourceRows(res *anova.Result) []SourceRow {
	if res.SumOfSquares == nil || res.DegreesOfFreedom == nil || res.MeanSquares == nil || res.F == nil {
		return nil
	}
	ss, df, ms := res.SumOfSquares, res.DegreesOfFreedom, res.MeanSquares
	f := anova.Round(res.F.Calculated)
	return []SourceRow{
		{Source: "Between (A)", SS: anova.Round(ss.A), DF: df.A, MS: anova.Round(ms.A), F: &f},
		{Source: "Within (S/A)", SS: anova.Round(ss.SA), DF: df.SA, MS: anova.Round(ms.SA)},
		{Source: "Total", SS: anova.Round(ss.T), DF: df.T, MS: anova.Round(ms.T)},
	}
}
