package project

import (
	"time"

	"github.com/KaramelBytes/anova-cli/internal/report"
)

// Run records one analysis attached to a project.
type Run struct {
	ID          string    `json:"id"`
	Dataset     string    `json:"dataset"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	FMax        float64   `json:"fmax"`
	Eligible    bool      `json:"eligible"`
	Alpha       float64   `json:"alpha"`
	TailTest    int       `json:"tail_test"`
	FCalculated *float64  `json:"f_calculated,omitempty"`
	FCritical   *float64  `json:"f_critical,omitempty"`
	Verdict     string    `json:"verdict,omitempty"`
	Report      string    `json:"report"`
	CreatedAt   time.Time `json:"created_at"`
}

// RunFromRecord copies the outcome fields of rec.
func RunFromRecord(datasetPath, description string, rec report.Record) *Run {
	return &Run{
		ID:          rec.RunID,
		Dataset:     datasetPath,
		Name:        rec.Dataset,
		Description: description,
		Status:      rec.Status,
		FMax:        rec.FMax,
		Eligible:    rec.Eligible,
		Alpha:       rec.Alpha,
		TailTest:    rec.TailTest,
		FCalculated: rec.FCalculated,
		FCritical:   rec.FCritical,
		Verdict:     rec.Verdict,
	}
}

// Outcome is a one-word summary for listings.
func (r *Run) Outcome() string {
	if r.Verdict != "" {
		return r.Verdict
	}
	return r.Status
}
