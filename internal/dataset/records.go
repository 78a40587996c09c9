package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/KaramelBytes/anova-cli/internal/anova"
)

// fromRecords turns a header and raw rows into a Dataset. Column 0 is the
// row identifier; the remaining (or selected) columns are conditions.
func fromRecords(name string, header []string, rows [][]string, opt Options) (*Dataset, error) {
	header = cleanHeader(header)
	if len(header) < 2 {
		return nil, fmt.Errorf("%w: %s has %d column(s); expected an identifier column followed by conditions", ErrNoConditions, name, len(header))
	}
	idxs, err := conditionIndexes(header, opt.Conditions)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(idxs))
	for i, idx := range idxs {
		names[i] = safeName(header[idx], idx)
	}

	ds := &Dataset{Name: name}
	maxRows := opt.MaxRows
	if maxRows <= 0 {
		maxRows = math.MaxInt
	}
	cols := make([][]float64, len(idxs))
	var ids []string
	for i, rec := range rows {
		if blankRow(rec) {
			ds.Skipped++
			continue
		}
		ds.Rows++
		if ds.Processed >= maxRows {
			continue
		}
		ds.Processed++
		rowNum := i + 2
		for j, idx := range idxs {
			v := cell(rec, idx)
			if v == "" {
				return nil, &CellError{Row: rowNum, Column: names[j], Err: ErrMissingValue}
			}
			x, ok := parseNumeric(v, opt)
			if !ok {
				return nil, &CellError{Row: rowNum, Column: names[j], Value: v, Err: ErrNotNumeric}
			}
			cols[j] = append(cols[j], x)
		}
		ids = append(ids, cell(rec, 0))
	}
	if ds.Processed < ds.Rows {
		ds.Warnings = append(ds.Warnings, fmt.Sprintf("processed only %d/%d rows due to MaxRows", ds.Processed, ds.Rows))
	}

	t, err := anova.NewTable(header[0], ids, names, cols)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	ds.Table = t
	return ds, nil
}

func conditionIndexes(header []string, want []string) ([]int, error) {
	if len(want) == 0 {
		idxs := make([]int, 0, len(header)-1)
		for i := 1; i < len(header); i++ {
			idxs = append(idxs, i)
		}
		return idxs, nil
	}
	byName := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(h)
		if _, dup := byName[key]; !dup {
			byName[key] = i
		}
	}
	idxs := make([]int, 0, len(want))
	seen := map[int]struct{}{}
	for _, w := range want {
		idx, ok := byName[strings.ToLower(strings.TrimSpace(w))]
		if !ok {
			return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownColumn, w, strings.Join(header[1:], ", "))
		}
		if idx == 0 {
			return nil, fmt.Errorf("%w: %q is the identifier column", ErrUnknownColumn, w)
		}
		if _, dup := seen[idx]; dup {
			continue
		}
		seen[idx] = struct{}{}
		idxs = append(idxs, idx)
	}
	return idxs, nil
}

func cleanHeader(h []string) []string {
	out := make([]string, len(h))
	for i, s := range h {
		if i == 0 {
			s = strings.TrimPrefix(s, "\uFEFF")
		}
		out[i] = strings.TrimSpace(s)
	}
	// drop trailing unnamed columns left by spreadsheet exports
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return out
}

func cell(rec []string, idx int) string {
	if idx >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[idx])
}

func blankRow(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func safeName(s string, idx int) string {
	if s == "" {
		return fmt.Sprintf("Column%d", idx+1)
	}
	return s
}

func parseNumeric(s string, opt Options) (float64, bool) {
	raw := strings.TrimSpace(s)
	if strings.Contains(raw, "%") {
		raw = strings.ReplaceAll(raw, "%", "")
	}
	// Normalize spaces
	raw = strings.ReplaceAll(raw, " ", " ")
	raw = strings.TrimSpace(raw)
	// Decide decimal separator
	dec := opt.DecimalSeparator
	thou := opt.ThousandsSeparator
	if dec == 0 {
		cpos := strings.LastIndex(raw, ",")
		dpos := strings.LastIndex(raw, ".")
		if cpos >= 0 && dpos >= 0 {
			if cpos > dpos {
				dec = ','
				thou = '.'
			} else {
				dec = '.'
				thou = ','
			}
		} else if cpos >= 0 {
			dec = ','
		} else {
			dec = '.'
		}
	}
	// Remove thousands separators if they differ from decimal
	if thou == 0 {
		for _, sep := range []rune{',', '.', ' '} {
			if sep != dec {
				raw = strings.ReplaceAll(raw, string(sep), "")
			}
		}
	} else if thou != dec {
		raw = strings.ReplaceAll(raw, string(thou), "")
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
