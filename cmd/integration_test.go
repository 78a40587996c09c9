package cmd

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/KaramelBytes/anova-cli/internal/project"
)

const scenarioCSV = "Subject,Condition1,Condition2\ns1,2,8\ns2,4,10\ns3,6,12\n"

// resetFlags restores every flag to its default so invocations do not leak
// values into each other.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// execCmd runs the root command with args and returns its error.
func execCmd(args ...string) error {
	resetFlags(rootCmd)
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

// runCmd is a helper to execute the root command with args.
func runCmd(t *testing.T, args ...string) {
	t.Helper()
	if err := execCmd(args...); err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
}

// captureStdout runs the command and returns what it printed.
func captureStdout(t *testing.T, args ...string) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	old := os.Stdout
	os.Stdout = w
	done := make(chan string)
	go func() {
		b, _ := io.ReadAll(r)
		done <- string(b)
	}()
	runErr := execCmd(args...)
	w.Close()
	os.Stdout = old
	out := <-done
	if runErr != nil {
		t.Fatalf("command %v failed: %v\n%s", args, runErr, out)
	}
	return out
}

func isolatedHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func writeData(t *testing.T, dir, name, content string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestCLI_AnalyzeWritesJSONReport(t *testing.T) {
	home := isolatedHome(t)
	data := writeData(t, home, "scores.csv", scenarioCSV)
	out := filepath.Join(home, "scores.json")

	runCmd(t, "analyze", data, "-o", out, "-f", "json")

	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	var rec map[string]any
	if err := json.Unmarshal(b, &rec); err != nil {
		t.Fatalf("parse report: %v", err)
	}
	if rec["verdict"] != "significant" || rec["f_critical"] != 7.71 || rec["f_calculated"] != 13.5 {
		t.Fatalf("report = %s", b)
	}
	if rec["message"] != "Significant at the 0.05 level." {
		t.Fatalf("message = %v", rec["message"])
	}
}

func TestCLI_AnalyzeIneligiblePrintsAdvisory(t *testing.T) {
	home := isolatedHome(t)
	data := writeData(t, home, "spread.csv", "id,low,high\n1,1,0\n2,2,5\n3,3,10\n")

	out := captureStdout(t, "analyze", data)
	if !strings.Contains(out, "Test is not appropriate for this sample.") {
		t.Fatalf("missing advisory:\n%s", out)
	}
	if strings.Contains(out, "F-calculated") {
		t.Fatalf("ineligible report should not include F values:\n%s", out)
	}
}

func TestCLI_AnalyzeFlagsOverrideConfig(t *testing.T) {
	home := isolatedHome(t)
	data := writeData(t, home, "scores.csv", scenarioCSV)
	runCmd(t, "config", "set", "tail_test", "2")

	out := captureStdout(t, "analyze", data)
	if !strings.Contains(out, "F-tabled: 12.22") {
		t.Fatalf("config tail not applied:\n%s", out)
	}
	out = captureStdout(t, "analyze", data, "--tail", "1", "--alpha", "0.01")
	if !strings.Contains(out, "Alpha: 0.01 (one-tailed)") || !strings.Contains(out, "F-tabled: 21.20") {
		t.Fatalf("flags not applied:\n%s", out)
	}
}

func TestCLI_AnalyzeErrors(t *testing.T) {
	home := isolatedHome(t)
	constant := writeData(t, home, "constant.csv", "id,A,B,C\n1,1,2,5\n2,2,3,5\n3,3,4,5\n")
	good := writeData(t, home, "scores.csv", scenarioCSV)

	err := execCmd("analyze", constant)
	if err == nil || !strings.Contains(err.Error(), "homogeneity") || !strings.Contains(err.Error(), "condition 3") {
		t.Fatalf("expected homogeneity failure naming condition 3, got %v", err)
	}
	if err := execCmd("analyze", good, "--alpha", "1.5"); err == nil {
		t.Fatalf("expected alpha validation error")
	}
	if err := execCmd("analyze", good, "--tail", "3"); err == nil {
		t.Fatalf("expected tail validation error")
	}
	if err := execCmd("analyze", filepath.Join(home, "scores.json")); err == nil {
		t.Fatalf("expected unsupported format error")
	}
}

func TestCLI_ProjectOverridesAndRuns(t *testing.T) {
	home := isolatedHome(t)
	data := writeData(t, home, "scores.csv", scenarioCSV)

	runCmd(t, "init", "trial", "-d", "pilot")
	runCmd(t, "project", "set", "-p", "trial", "--tail", "2")
	runCmd(t, "analyze", data, "-p", "trial", "-f", "json", "--desc", "first pass")

	dir, err := resolveProjectDirByName("trial")
	if err != nil {
		t.Fatalf("resolve project: %v", err)
	}
	p, err := project.LoadProject(dir)
	if err != nil {
		t.Fatalf("load project: %v", err)
	}
	runs := p.SortedRuns()
	if len(runs) != 1 {
		t.Fatalf("runs = %d, want 1", len(runs))
	}
	r := runs[0]
	if r.TailTest != 2 || r.FCritical == nil || *r.FCritical != 12.22 || r.Verdict != "significant" {
		t.Fatalf("run = %+v", r)
	}
	if r.Report != filepath.Join("reports", "scores.json") || r.Description != "first pass" {
		t.Fatalf("run report = %s (%s)", r.Report, r.Description)
	}
	if _, err := os.Stat(filepath.Join(dir, r.Report)); err != nil {
		t.Fatalf("report missing: %v", err)
	}

	out := captureStdout(t, "list", "--runs", "-p", "trial")
	if !strings.Contains(out, "[significant]") || !strings.Contains(out, "F 13.50 vs 12.22") {
		t.Fatalf("list output:\n%s", out)
	}
	out = captureStdout(t, "list", "--projects")
	if !strings.Contains(out, "- trial (1 runs)") {
		t.Fatalf("projects output:\n%s", out)
	}

	if err := execCmd("project", "set", "-p", "trial", "--alpha", "2"); err == nil {
		t.Fatalf("expected invalid alpha override to fail")
	}
	runCmd(t, "project", "set", "-p", "trial", "--clear")
	p, err = project.LoadProject(dir)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if p.Config.TailTest != 0 || p.Config.Alpha != nil {
		t.Fatalf("overrides not cleared: %+v", p.Config)
	}
}

func TestCLI_InitRefusesExistingProject(t *testing.T) {
	isolatedHome(t)
	runCmd(t, "init", "dup")
	if err := execCmd("init", "dup"); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("expected already exists error, got %v", err)
	}
}

func TestCLI_ConfigSetAndShow(t *testing.T) {
	home := isolatedHome(t)
	runCmd(t, "config", "set", "alpha", "0.01")
	b, err := os.ReadFile(filepath.Join(home, ".anova", "config.yaml"))
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if !strings.Contains(string(b), "alpha: 0.01") {
		t.Fatalf("saved config:\n%s", b)
	}
	out := captureStdout(t, "config", "show")
	if !strings.Contains(out, "alpha: 0.01") || !strings.Contains(out, "fmax_threshold: 3") {
		t.Fatalf("show output:\n%s", out)
	}
	if err := execCmd("config", "set", "precision", "half"); err == nil {
		t.Fatalf("expected precision validation error")
	}
	if err := execCmd("config", "set", "colour", "blue"); err == nil {
		t.Fatalf("expected unknown key error")
	}
}
