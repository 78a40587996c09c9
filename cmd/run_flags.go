package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KaramelBytes/anova-cli/internal/anova"
	"github.com/KaramelBytes/anova-cli/internal/dataset"
	"github.com/KaramelBytes/anova-cli/internal/project"
	"github.com/KaramelBytes/anova-cli/internal/report"
	"github.com/KaramelBytes/anova-cli/internal/utils"
)

// runFlags are shared by analyze and analyze-batch. Zero values defer to
// project overrides, then to the global configuration.
type runFlags struct {
	project     string
	description string

	alpha         float64
	tail          int
	fmaxThreshold float64
	precision     string
	format        string

	delimiter  string
	decimal    string
	thousands  string
	maxRows    int
	sheetName  string
	sheetIndex int
	conditions []string
}

func (f *runFlags) register(c *cobra.Command, projectHelp string) {
	fl := c.Flags()
	fl.StringVarP(&f.project, "project", "p", "", projectHelp)
	fl.StringVar(&f.description, "desc", "", "description when attaching to project")
	fl.Float64Var(&f.alpha, "alpha", 0, "significance level in (0,1) (default from config: 0.05)")
	fl.IntVar(&f.tail, "tail", 0, "tail test: 1 or 2 (default from config: 1)")
	fl.Float64Var(&f.fmaxThreshold, "fmax-threshold", 0, "samples qualify when FMax is strictly below this value (default 3.0)")
	fl.StringVar(&f.precision, "precision", "", "rounding: 'stage' rounds every step to 2 dp, 'full' rounds only the report")
	fl.StringVarP(&f.format, "format", "f", "", "report format: markdown|html|json|yaml (default from config)")
	fl.StringVar(&f.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab'")
	fl.StringVar(&f.decimal, "decimal", "", "decimal separator for numbers: '.'|'comma' (auto-detect if omitted)")
	fl.StringVar(&f.thousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space' (auto-detect if omitted)")
	fl.IntVar(&f.maxRows, "max-rows", 0, "maximum rows to process (0 = config default)")
	fl.StringVar(&f.sheetName, "sheet-name", "", "XLSX: sheet name to analyze")
	fl.IntVar(&f.sheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	fl.StringSliceVar(&f.conditions, "conditions", nil, "condition columns to compare, in order (default: every column after the first)")
}

func (f *runFlags) anovaOptions(p *project.Project) (anova.Options, error) {
	opt := settings().AnovaOptions()
	opt = p.Apply(opt)
	if f.alpha != 0 {
		opt.Alpha = f.alpha
	}
	if f.tail != 0 {
		opt.TailTest = f.tail
	}
	if f.fmaxThreshold != 0 {
		opt.FMaxThreshold = f.fmaxThreshold
	}
	if f.precision != "" {
		prec, err := anova.ParsePrecision(f.precision)
		if err != nil {
			return opt, err
		}
		opt.Precision = prec
	}
	opt.Logger = logger
	if err := opt.Validate(); err != nil {
		return opt, err
	}
	return opt, nil
}

func (f *runFlags) datasetOptions() (dataset.Options, error) {
	opt := dataset.DefaultOptions()
	opt.MaxRows = settings().MaxRows
	if f.maxRows > 0 {
		opt.MaxRows = f.maxRows
	}
	if f.delimiter != "" {
		switch f.delimiter {
		case ",":
			opt.Delimiter = ','
		case "\t", "tab":
			opt.Delimiter = '\t'
		case ";":
			opt.Delimiter = ';'
		default:
			return opt, fmt.Errorf("unsupported --delimiter: %s", f.delimiter)
		}
	}
	// Locale separators
	switch strings.ToLower(strings.TrimSpace(f.decimal)) {
	case ",", "comma":
		opt.DecimalSeparator = ','
	case ".", "dot":
		opt.DecimalSeparator = '.'
	case "":
	default:
		return opt, fmt.Errorf("unsupported --decimal: %s (use '.'|'comma')", f.decimal)
	}
	switch strings.ToLower(strings.TrimSpace(f.thousands)) {
	case ",":
		opt.ThousandsSeparator = ','
	case ".":
		opt.ThousandsSeparator = '.'
	case "space", " ":
		opt.ThousandsSeparator = ' '
	case "":
	default:
		return opt, fmt.Errorf("unsupported --thousands: %s (use ','|'.'|'space')", f.thousands)
	}
	opt.SheetName = f.sheetName
	opt.SheetIndex = f.sheetIndex
	opt.Conditions = f.conditions
	return opt, nil
}

func (f *runFlags) reportFormat() (report.Format, error) {
	s := settings().ReportFormat
	if f.format != "" {
		s = f.format
	}
	return report.ParseFormat(s)
}

func (f *runFlags) loadProject() (*project.Project, error) {
	if f.project == "" {
		return nil, nil
	}
	return resolveProject(f.project)
}

// analysis is one file carried through load, test and render.
type analysis struct {
	Path    string
	Dataset *dataset.Dataset
	Result  *anova.Result
	RunID   string
	Body    []byte
}

func analyzeFile(path string, dopt dataset.Options, aopt anova.Options, format report.Format) (*analysis, error) {
	ds, err := dataset.Load(path, dopt)
	if err != nil {
		return nil, err
	}
	logger.Debug("dataset loaded", zap.String("file", ds.Name),
		zap.Int("conditions", ds.Table.NumConditions()), zap.Int("samples", ds.Table.SampleSize()))
	res, err := anova.Run(ds.Table, aopt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ds.Name, err)
	}
	runID := uuid.NewString()
	body, err := report.Render(format, ds.Name, runID, res)
	if err != nil {
		return nil, err
	}
	return &analysis{Path: path, Dataset: ds, Result: res, RunID: runID, Body: body}, nil
}

// attach writes the report under the project's reports/ directory and
// records the run. The caller saves the project.
func (f *runFlags) attach(p *project.Project, a *analysis, format report.Format) (string, bool, error) {
	base := strings.TrimSuffix(filepath.Base(a.Path), filepath.Ext(a.Path))
	if f.sheetName != "" {
		base += "__sheet-" + utils.Slug(f.sheetName, "sheet")
	}
	rel, bumped, err := p.AttachReport(base, format.Ext(), a.Body)
	if err != nil {
		return "", false, err
	}
	abs, err := filepath.Abs(a.Path)
	if err != nil {
		abs = a.Path
	}
	desc := f.description
	if desc == "" {
		desc = "ANOVA report"
	}
	run := project.RunFromRecord(abs, desc, report.NewRecord(a.Dataset.Name, a.RunID, a.Result))
	run.Report = rel
	p.AddRun(run)
	return rel, bumped, nil
}

// outcomeLine is the one-line status printed per analysis.
func outcomeLine(a *analysis) string {
	res := a.Result
	if !res.Eligible() {
		return fmt.Sprintf("⚠ %s: ineligible (FMax %.2f >= %.2f)", a.Dataset.Name, res.Homogeneity.FMax, res.Homogeneity.Threshold)
	}
	return fmt.Sprintf("✓ %s: %s (F %.2f vs F-tabled %.2f)", a.Dataset.Name, res.Message, res.F.Calculated, res.F.Critical)
}

func printWarnings(a *analysis) {
	for _, w := range a.Dataset.Warnings {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %s: %s\n", a.Dataset.Name, w)
	}
}
