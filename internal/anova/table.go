package anova

import (
	"fmt"
	"math"
)

const (
	// MinConditions is the smallest number of levels a one-way design accepts.
	MinConditions = 2
	// MinSampleSize is the smallest per-condition sample a variance accepts.
	MinSampleSize = 2
)

// Table is an immutable, balanced one-factor dataset: an identifier column
// followed by one numeric column per condition.
type Table struct {
	idName     string
	ids        []string
	conditions []string
	columns    [][]float64
}

// NewTable validates the design and copies the inputs. ids may be nil.
func NewTable(idName string, ids []string, conditions []string, columns [][]float64) (*Table, error) {
	if len(conditions) != len(columns) {
		return nil, fmt.Errorf("%w: %d condition names for %d columns", ErrInvalidDesign, len(conditions), len(columns))
	}
	if len(columns) < MinConditions {
		return nil, fmt.Errorf("%w: need at least %d conditions, got %d", ErrInvalidDesign, MinConditions, len(columns))
	}
	n := len(columns[0])
	for i, col := range columns {
		if len(col) != n {
			return nil, fmt.Errorf("%w: %s has %d values, expected %d", ErrInvalidDesign, conditionLabel(i, conditions[i]), len(col), n)
		}
	}
	if n < MinSampleSize {
		return nil, fmt.Errorf("%w: need at least %d samples per condition, got %d", ErrInvalidDesign, MinSampleSize, n)
	}
	if ids != nil && len(ids) != n {
		return nil, fmt.Errorf("%w: %d row identifiers for %d rows", ErrInvalidDesign, len(ids), n)
	}

	t := &Table{
		idName:     idName,
		conditions: append([]string(nil), conditions...),
		columns:    make([][]float64, len(columns)),
	}
	if ids != nil {
		t.ids = append([]string(nil), ids...)
	}
	for i, col := range columns {
		for row, v := range col {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: %s, row %d", ErrNonFiniteValue, conditionLabel(i, conditions[i]), row+1)
			}
		}
		t.columns[i] = append([]float64(nil), col...)
	}
	return t, nil
}

// NumConditions returns the number of condition columns (a).
func (t *Table) NumConditions() int { return len(t.columns) }

// SampleSize returns the per-condition row count (n).
func (t *Table) SampleSize() int {
	if len(t.columns) == 0 {
		return 0
	}
	return len(t.columns[0])
}

// IDName returns the identifier column header.
func (t *Table) IDName() string { return t.idName }

// IDs returns a copy of the row identifiers, or nil.
func (t *Table) IDs() []string { return append([]string(nil), t.ids...) }

// Conditions returns a copy of the condition names.
func (t *Table) Conditions() []string { return append([]string(nil), t.conditions...) }

// Column returns a copy of condition i's measurements.
func (t *Table) Column(i int) []float64 {
	if i < 0 || i >= len(t.columns) {
		return nil
	}
	return append([]float64(nil), t.columns[i]...)
}
