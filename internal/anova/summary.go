package anova

import (
	"fmt"

	"github.com/montanaflynn/stats"
)

// ColumnSummary holds the per-condition quantities later steps consume.
// Sum and SumSquares are exact; Mean and Variance follow the precision mode.
type ColumnSummary struct {
	Condition  string
	N          int
	Sum        float64
	SumSquares float64
	Mean       float64
	Variance   float64
}

// Summarize computes a ColumnSummary for every condition of t.
func Summarize(t *Table, p Precision) ([]ColumnSummary, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil table", ErrInvalidDesign)
	}
	return SummarizeColumns(t.conditions, t.columns, p)
}

// SummarizeColumns is Summarize over raw columns. The sample variance uses
// an n-1 denominator, so every column needs at least two values.
func SummarizeColumns(names []string, columns [][]float64, p Precision) ([]ColumnSummary, error) {
	out := make([]ColumnSummary, 0, len(columns))
	for i, col := range columns {
		var name string
		if i < len(names) {
			name = names[i]
		}
		label := conditionLabel(i, name)
		if len(col) < MinSampleSize {
			return nil, fmt.Errorf("%w: %s has %d values, variance needs at least %d", ErrInsufficientData, label, len(col), MinSampleSize)
		}
		sum, err := stats.Sum(col)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInsufficientData, label, err)
		}
		mean, err := stats.Mean(col)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInsufficientData, label, err)
		}
		variance, err := stats.SampleVariance(col)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInsufficientData, label, err)
		}
		var sq float64
		for _, v := range col {
			sq += v * v
		}
		out = append(out, ColumnSummary{
			Condition:  name,
			N:          len(col),
			Sum:        sum,
			SumSquares: sq,
			Mean:       p.round(mean),
			Variance:   p.round(variance),
		})
	}
	return out, nil
}

// Variances extracts the variance of each summary in order.
func Variances(summaries []ColumnSummary) []float64 {
	out := make([]float64, len(summaries))
	for i, s := range summaries {
		out[i] = s.Variance
	}
	return out
}
