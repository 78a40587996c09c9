package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/anova-cli/internal/anova"
	"github.com/KaramelBytes/anova-cli/internal/utils"
)

const (
	projectFileName = "project.json"
	reportsDirName  = "reports"
)

// Project is an experiment directory that collects analysis runs.
type Project struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Runs        map[string]*Run `json:"runs"`
	Config      *ProjectConfig  `json:"config"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Not serialized: on-disk location of the project.json
	rootDir string `json:"-"`
}

// ProjectConfig holds per-project overrides. Nil or zero fields inherit
// from the global configuration.
type ProjectConfig struct {
	Alpha         *float64 `json:"alpha,omitempty"`
	TailTest      int      `json:"tail_test,omitempty"`
	FMaxThreshold *float64 `json:"fmax_threshold,omitempty"`
	Precision     string   `json:"precision,omitempty"`
}

// NewProject constructs an in-memory project. Call Save() to persist.
func NewProject(name, description, rootDir string) *Project {
	return &Project{
		Name:        name,
		Description: description,
		Runs:        make(map[string]*Run),
		// Leave Config fields empty to inherit from global defaults unless explicitly set per project.
		Config:    &ProjectConfig{},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
		rootDir:   rootDir,
	}
}

// LoadProject loads a project.json from the provided directory.
func LoadProject(dir string) (*Project, error) {
	path := filepath.Join(dir, projectFileName)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("project not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read project: %w", err)
	}
	var p Project
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("parse project: %w", err)
	}
	if p.Config == nil {
		p.Config = &ProjectConfig{}
	}
	p.rootDir = dir
	return &p, nil
}

// FindRoot returns the nearest directory at or above start that holds a
// project file. An empty start means the working directory.
func FindRoot(start string) (string, error) {
	return utils.FindUp(start, projectFileName)
}

// Exists reports whether dir holds a project file.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, projectFileName))
	return err == nil
}

// RootDir returns the on-disk project directory path.
func (p *Project) RootDir() string { return p.rootDir }

// ReportsDir returns the directory holding attached reports.
func (p *Project) ReportsDir() string { return filepath.Join(p.rootDir, reportsDirName) }

// Save writes project.json using atomic write.
func (p *Project) Save() error {
	if p.rootDir == "" {
		return errors.New("project root directory not set")
	}
	if err := utils.EnsureDir(p.rootDir); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	p.UpdatedAt = time.Now()
	data, err := utils.JSONIndent(p)
	if err != nil {
		return err
	}
	return utils.WriteAtomic(filepath.Join(p.rootDir, projectFileName), data)
}

// Apply overlays the project's overrides onto opt.
func (p *Project) Apply(opt anova.Options) anova.Options {
	if p == nil || p.Config == nil {
		return opt
	}
	c := p.Config
	if c.Alpha != nil {
		opt.Alpha = *c.Alpha
	}
	if c.TailTest != 0 {
		opt.TailTest = c.TailTest
	}
	if c.FMaxThreshold != nil {
		opt.FMaxThreshold = *c.FMaxThreshold
	}
	if c.Precision != "" {
		opt.Precision = anova.Precision(c.Precision)
		if prec, err := anova.ParsePrecision(c.Precision); err == nil {
			opt.Precision = prec
		}
	}
	return opt
}

// ClearConfig drops every override.
func (p *Project) ClearConfig() {
	p.Config = &ProjectConfig{}
	p.UpdatedAt = time.Now()
}

// AttachReport writes a rendered report under reports/ without overwriting
// an earlier one and returns the path relative to the project root.
func (p *Project) AttachReport(base, ext string, data []byte) (string, bool, error) {
	dir := p.ReportsDir()
	if err := utils.EnsureDir(dir); err != nil {
		return "", false, fmt.Errorf("ensure reports dir: %w", err)
	}
	path, bumped := utils.UniquePath(dir, base, ext)
	if err := utils.WriteAtomic(path, data); err != nil {
		return "", false, fmt.Errorf("write report: %w", err)
	}
	rel, err := filepath.Rel(p.rootDir, path)
	if err != nil {
		rel = path
	}
	return rel, bumped, nil
}

// AddRun assigns r an ID and timestamp and records it.
func (p *Project) AddRun(r *Run) string {
	if p.Runs == nil {
		p.Runs = make(map[string]*Run)
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	p.Runs[r.ID] = r
	p.UpdatedAt = time.Now()
	return r.ID
}

// SortedRuns returns runs oldest first, ties broken by ID.
func (p *Project) SortedRuns() []*Run {
	out := make([]*Run, 0, len(p.Runs))
	for _, r := range p.Runs {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
