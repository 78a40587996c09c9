package dataset

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/anova-cli/internal/anova"
)

// Options controls how a table file is read and coerced to numbers.
type Options struct {
	// MaxRows limits data rows read; 0 means unlimited.
	MaxRows int
	// Delimiter for CSV. If 0, auto-detects among ',', ';', '\t'.
	Delimiter rune
	// Numeric parsing locale. If DecimalSeparator is 0, auto-detect per value.
	DecimalSeparator   rune
	ThousandsSeparator rune // optional; if 0, strip common separators (',' '.' space)
	// XLSX sheet selection. SheetName wins over SheetIndex (1-based).
	SheetName  string
	SheetIndex int
	// Conditions selects and orders condition columns by header name.
	// Empty means every column after the identifier.
	Conditions []string
}

// DefaultOptions returns reasonable defaults for loading a dataset.
func DefaultOptions() Options {
	return Options{
		MaxRows:    100000,
		SheetIndex: 1,
	}
}

// Dataset is a loaded table plus notes about how it was read.
type Dataset struct {
	Name      string
	Table     *anova.Table
	Rows      int // data rows seen
	Processed int // data rows kept
	Skipped   int // blank rows ignored
	Warnings  []string
}

// Loader reads one table format.
type Loader interface {
	CanLoad(path string) bool
	Load(path string, opt Options) (*Dataset, error)
}

var registry []Loader

// Register adds a loader to the registry. Later registrations do not
// override earlier ones for the same extension.
func Register(l Loader) {
	registry = append(registry, l)
}

// Load selects a loader by file name and reads the dataset.
func Load(path string, opt Options) (*Dataset, error) {
	for _, l := range registry {
		if l.CanLoad(path) {
			return l.Load(path, opt)
		}
	}
	return nil, fmt.Errorf("%w: %q (use .csv, .tsv, .txt or .xlsx)", ErrUnsupportedFormat, filepath.Ext(path))
}

// Supported reports whether some registered loader accepts path.
func Supported(path string) bool {
	for _, l := range registry {
		if l.CanLoad(path) {
			return true
		}
	}
	return false
}

func init() {
	Register(csvLoader{})
	Register(xlsxLoader{})
}

func hasExt(path string, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}
