package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/anova-cli/internal/anova"
)

var scenarioRows = []string{
	"Subject,A,B",
	"s1,1,4",
	"s2,2,5",
	"s3,3,6",
}

func writeFile(t *testing.T, name string, lines []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadCSV(t *testing.T) {
	path := writeFile(t, "scenario.csv", scenarioRows)
	ds, err := Load(path, DefaultOptions())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ds.Name != "scenario.csv" {
		t.Fatalf("name = %q", ds.Name)
	}
	tbl := ds.Table
	if tbl.NumConditions() != 2 || tbl.SampleSize() != 3 {
		t.Fatalf("shape = %dx%d, want 2x3", tbl.NumConditions(), tbl.SampleSize())
	}
	if got := tbl.Conditions(); got[0] != "A" || got[1] != "B" {
		t.Fatalf("conditions = %v", got)
	}
	if tbl.IDName() != "Subject" || tbl.IDs()[2] != "s3" {
		t.Fatalf("ids = %s %v", tbl.IDName(), tbl.IDs())
	}
	if got := tbl.Column(1); got[0] != 4 || got[2] != 6 {
		t.Fatalf("column B = %v", got)
	}
	if ds.Rows != 3 || ds.Processed != 3 || ds.Skipped != 0 || len(ds.Warnings) != 0 {
		t.Fatalf("counts = %+v", ds)
	}
}

func TestLoadCSVLocaleAndSniff(t *testing.T) {
	path := writeFile(t, "locale.csv", []string{
		"id;Low;High",
		"a;1.000,5;10%",
		"b;2,25;20%",
		";;",
		"c;3;30%",
	})
	opt := DefaultOptions()
	opt.DecimalSeparator = ','
	opt.ThousandsSeparator = '.'
	ds, err := Load(path, opt)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	low := ds.Table.Column(0)
	if low[0] != 1000.5 || low[1] != 2.25 || low[2] != 3 {
		t.Fatalf("Low = %v", low)
	}
	if high := ds.Table.Column(1); high[2] != 30 {
		t.Fatalf("High = %v", high)
	}
	if ds.Skipped != 1 {
		t.Fatalf("skipped = %d, want 1", ds.Skipped)
	}
}

func TestLoadTSVByExtension(t *testing.T) {
	path := writeFile(t, "scenario.tsv", []string{
		"Subject\tA\tB",
		"s1\t1\t4",
		"s2\t2\t5",
	})
	ds, err := Load(path, DefaultOptions())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ds.Table.SampleSize() != 2 {
		t.Fatalf("sample size = %d", ds.Table.SampleSize())
	}
}

func TestLoadConditionSelection(t *testing.T) {
	path := writeFile(t, "three.csv", []string{
		"id,A,B,C",
		"1,1,4,7",
		"2,2,5,8",
	})
	opt := DefaultOptions()
	opt.Conditions = []string{"c", "A"}
	ds, err := Load(path, opt)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := ds.Table.Conditions()
	if len(got) != 2 || got[0] != "C" || got[1] != "A" {
		t.Fatalf("conditions = %v", got)
	}
	if col := ds.Table.Column(0); col[0] != 7 {
		t.Fatalf("first column = %v", col)
	}

	opt.Conditions = []string{"D"}
	if _, err := Load(path, opt); !errors.Is(err, ErrUnknownColumn) {
		t.Fatalf("expected ErrUnknownColumn, got %v", err)
	}
	opt.Conditions = []string{"id", "A"}
	if _, err := Load(path, opt); !errors.Is(err, ErrUnknownColumn) {
		t.Fatalf("expected identifier rejection, got %v", err)
	}
}

func TestLoadCellErrors(t *testing.T) {
	cases := []struct {
		name    string
		lines   []string
		wantErr error
		row     int
		column  string
	}{
		{"not numeric", []string{"id,A,B", "1,1,2", "2,x,3"}, ErrNotNumeric, 3, "A"},
		{"missing", []string{"id,A,B", "1,1,", "2,2,3"}, ErrMissingValue, 2, "B"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, "bad.csv", tc.lines)
			_, err := Load(path, DefaultOptions())
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			var ce *CellError
			if !errors.As(err, &ce) {
				t.Fatalf("expected *CellError, got %T", err)
			}
			if ce.Row != tc.row || ce.Column != tc.column {
				t.Fatalf("cell = row %d column %q", ce.Row, ce.Column)
			}
		})
	}
}

func TestLoadDesignErrors(t *testing.T) {
	path := writeFile(t, "single.csv", []string{"id,A", "1,1", "2,2"})
	if _, err := Load(path, DefaultOptions()); !errors.Is(err, anova.ErrInvalidDesign) {
		t.Fatalf("expected ErrInvalidDesign for one condition, got %v", err)
	}
	path = writeFile(t, "idonly.csv", []string{"id", "1"})
	if _, err := Load(path, DefaultOptions()); !errors.Is(err, ErrNoConditions) {
		t.Fatalf("expected ErrNoConditions, got %v", err)
	}
	path = writeFile(t, "empty.csv", nil)
	if _, err := Load(path, DefaultOptions()); !errors.Is(err, ErrNoConditions) {
		t.Fatalf("expected ErrNoConditions for empty file, got %v", err)
	}
	if _, err := Load("data.json", DefaultOptions()); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestLoadMaxRows(t *testing.T) {
	path := writeFile(t, "many.csv", []string{"id,A,B", "1,1,4", "2,2,5", "3,3,6", "4,4,7"})
	opt := DefaultOptions()
	opt.MaxRows = 3
	ds, err := Load(path, opt)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ds.Table.SampleSize() != 3 || ds.Rows != 4 {
		t.Fatalf("sample size %d rows %d", ds.Table.SampleSize(), ds.Rows)
	}
	if len(ds.Warnings) != 1 || !strings.Contains(ds.Warnings[0], "3/4") {
		t.Fatalf("warnings = %v", ds.Warnings)
	}
}

func TestLoadReaderSniffsTabs(t *testing.T) {
	in := "id\tA\tB\n1\t1\t4\n2\t2\t5\n"
	ds, err := LoadReader(strings.NewReader(in), "body", Options{})
	if err != nil {
		t.Fatalf("LoadReader: %v", err)
	}
	if ds.Table.NumConditions() != 2 {
		t.Fatalf("conditions = %v", ds.Table.Conditions())
	}
}

func writeXLSXFixture(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	fill := func(sheet string, rows [][]any) {
		for r, row := range rows {
			for c, v := range row {
				cell, err := excelize.CoordinatesToCellName(c+1, r+1)
				if err != nil {
					t.Fatalf("cell name: %v", err)
				}
				if err := f.SetCellValue(sheet, cell, v); err != nil {
					t.Fatalf("set %s: %v", cell, err)
				}
			}
		}
	}
	fill("Sheet1", [][]any{{"notes"}, {"see Data"}})
	if _, err := f.NewSheet("Data"); err != nil {
		t.Fatalf("new sheet: %v", err)
	}
	fill("Data", [][]any{
		{"Subject", "A", "B"},
		{"s1", 1, 4},
		{"s2", 2, "5,0"},
		{"s3", 3.5, 6},
	})
	path := filepath.Join(t.TempDir(), "scenario.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save xlsx: %v", err)
	}
	return path
}

func TestLoadXLSXSheetSelection(t *testing.T) {
	path := writeXLSXFixture(t)

	opt := DefaultOptions()
	opt.SheetName = "data"
	byName, err := Load(path, opt)
	if err != nil {
		t.Fatalf("Load by name: %v", err)
	}
	if byName.Name != "scenario.xlsx (sheet: Data)" {
		t.Fatalf("name = %q", byName.Name)
	}
	a := byName.Table.Column(0)
	if a[2] != 3.5 {
		t.Fatalf("A = %v", a)
	}
	if b := byName.Table.Column(1); b[1] != 5 {
		t.Fatalf("B = %v", b)
	}

	opt = DefaultOptions()
	opt.SheetIndex = 2
	byIndex, err := Load(path, opt)
	if err != nil {
		t.Fatalf("Load by index: %v", err)
	}
	if byIndex.Table.SampleSize() != 3 {
		t.Fatalf("sample size = %d", byIndex.Table.SampleSize())
	}

	opt.SheetIndex = 5
	if _, err := Load(path, opt); err == nil || !strings.Contains(err.Error(), "out of range") {
		t.Fatalf("expected range error, got %v", err)
	}
	opt = DefaultOptions()
	opt.SheetName = "Missing"
	if _, err := Load(path, opt); err == nil || !strings.Contains(err.Error(), "Available sheets: Sheet1, Data") {
		t.Fatalf("expected sheet list, got %v", err)
	}
	// first sheet has a single column
	if _, err := Load(path, DefaultOptions()); !errors.Is(err, ErrNoConditions) {
		t.Fatalf("expected ErrNoConditions on notes sheet, got %v", err)
	}
}

func TestParseNumeric(t *testing.T) {
	cases := []struct {
		in   string
		opt  Options
		want float64
		ok   bool
	}{
		{"1,234.5", Options{}, 1234.5, true},
		{"1.234,5", Options{}, 1234.5, true},
		{"2,5", Options{}, 2.5, true},
		{"-3", Options{}, -3, true},
		{"12%", Options{}, 12, true},
		{"1 000", Options{DecimalSeparator: '.', ThousandsSeparator: ' '}, 1000, true},
		{"abc", Options{}, 0, false},
		{"NaN", Options{}, 0, false},
		{"Inf", Options{}, 0, false},
	}
	for _, tc := range cases {
		got, ok := parseNumeric(tc.in, tc.opt)
		if ok != tc.ok || (ok && got != tc.want) {
			t.Errorf("parseNumeric(%q) = %v, %v; want %v, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}
