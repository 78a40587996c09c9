package report

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/anova-cli/internal/anova"
)

// Markdown renders res as a plain-text report with bracketed sections.
func Markdown(name string, res *anova.Result) string {
	var b strings.Builder
	b.WriteString("[ANOVA SUMMARY]\n")
	if name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", name))
	}
	b.WriteString(fmt.Sprintf("Conditions: %d\n", res.NumConditions))
	b.WriteString(fmt.Sprintf("Samples per condition: %d\n", res.SampleSize))
	b.WriteString(fmt.Sprintf("Alpha: %g (%s)\n", res.Alpha, tailName(res.TailTest)))
	b.WriteString(fmt.Sprintf("Precision: %s\n\n", res.Precision))

	b.WriteString("[CONDITIONS]\n")
	for _, s := range res.Summaries {
		b.WriteString(fmt.Sprintf("- %s: n %d, sum %s, mean %s, variance %s\n",
			safeName(s.Condition), s.N, num(s.Sum), num(s.Mean), num(s.Variance)))
	}
	b.WriteString("\n")

	h := res.Homogeneity
	b.WriteString("[HOMOGENEITY OF VARIANCE]\n")
	if h.Eligible {
		b.WriteString(fmt.Sprintf("FMax: %s < %s.\n", num(h.FMax), num(h.Threshold)))
		b.WriteString("Samples meet homogeneity of variance assumption.\n\n")
	} else {
		b.WriteString(fmt.Sprintf("FMax: %s >= %s.\n", num(h.FMax), num(h.Threshold)))
		b.WriteString("Samples do not meet homogeneity of variance assumption.\n")
		b.WriteString("Test is not appropriate for this sample.\n\n")
	}

	if r := res.Ratios; r != nil {
		b.WriteString("[BASIC RATIOS]\n")
		b.WriteString(fmt.Sprintf("[Y] = %s\n[A] = %s\n[T] = %s\n\n", num(r.Y), num(r.A), num(r.T)))
	}

	if rows := sourceRows(res); len(rows) > 0 {
		b.WriteString("[SOURCE TABLE]\n\n")
		b.WriteString("| Source | SS | df | MS | F |\n")
		b.WriteString("|---|---|---|---|---|\n")
		for _, row := range rows {
			f := ""
			if row.F != nil {
				f = num(*row.F)
			}
			b.WriteString(fmt.Sprintf("| %s | %s | %d | %s | %s |\n", row.Source, num(row.SS), row.DF, num(row.MS), f))
		}
		b.WriteString("\n")
	}

	b.WriteString("[RESULT]\n")
	if res.F != nil {
		b.WriteString(fmt.Sprintf("F-calculated: %s\n", num(res.F.Calculated)))
		b.WriteString(fmt.Sprintf("F-tabled: %s\n", num(res.F.Critical)))
		b.WriteString(res.Message + "\n")
	} else {
		b.WriteString("Assumptions for homogeneity of variance not met.\n")
		b.WriteString("This test is not appropriate for these samples.\n")
	}
	return b.String()
}

func num(x float64) string {
	return fmt.Sprintf("%.2f", anova.Round(x))
}

func tailName(tail int) string {
	if tail == 2 {
		return "two-tailed"
	}
	return "one-tailed"
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return strings.ReplaceAll(s, "\n", " ")
}
