package anova

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTableCopiesInput(t *testing.T) {
	ids := []string{"s1", "s2", "s3"}
	a := []float64{1, 2, 3}
	b := []float64{4, 5, 6}
	tbl, err := NewTable("Sample", ids, []string{"A", "B"}, [][]float64{a, b})
	require.NoError(t, err)

	a[0] = 100
	ids[0] = "changed"
	assert.Equal(t, []float64{1, 2, 3}, tbl.Column(0))
	assert.Equal(t, "s1", tbl.IDs()[0])
	assert.Equal(t, 2, tbl.NumConditions())
	assert.Equal(t, 3, tbl.SampleSize())
	assert.Equal(t, "Sample", tbl.IDName())
	assert.Equal(t, []string{"A", "B"}, tbl.Conditions())
	assert.Nil(t, tbl.Column(5))

	col := tbl.Column(1)
	col[0] = -1
	assert.Equal(t, 4.0, tbl.Column(1)[0])
}

func TestNewTableRejectsInvalidDesign(t *testing.T) {
	cases := []struct {
		name       string
		conditions []string
		columns    [][]float64
		ids        []string
		want       error
	}{
		{"single condition", []string{"A"}, [][]float64{{1, 2}}, nil, ErrInvalidDesign},
		{"ragged columns", []string{"A", "B"}, [][]float64{{1, 2, 3}, {1, 2}}, nil, ErrInvalidDesign},
		{"one sample", []string{"A", "B"}, [][]float64{{1}, {2}}, nil, ErrInvalidDesign},
		{"name mismatch", []string{"A"}, [][]float64{{1, 2}, {3, 4}}, nil, ErrInvalidDesign},
		{"id mismatch", []string{"A", "B"}, [][]float64{{1, 2}, {3, 4}}, []string{"x"}, ErrInvalidDesign},
		{"nan", []string{"A", "B"}, [][]float64{{1, math.NaN()}, {3, 4}}, nil, ErrNonFiniteValue},
		{"inf", []string{"A", "B"}, [][]float64{{1, 2}, {3, math.Inf(-1)}}, nil, ErrNonFiniteValue},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewTable("", tc.ids, tc.conditions, tc.columns)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestStateNames(t *testing.T) {
	assert.Equal(t, "homogeneity_checked", StateHomogeneityChecked.String())
	assert.Equal(t, "critical value", StateCriticalValueComputed.Step())
	assert.False(t, StateFComputed.Terminal())
	b, err := StateDecided.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "decided", string(b))
}
