package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/anova-cli/internal/project"
)

var (
	listProjects bool
	listRuns     bool
	listProjName string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects or the runs recorded in a project",
	RunE: func(cmd *cobra.Command, args []string) error {
		if listProjects == listRuns { // either both true or both false
			return fmt.Errorf("specify exactly one of --projects or --runs")
		}
		if listProjects {
			return listAllProjects()
		}
		p, err := resolveProject(listProjName)
		if err != nil {
			return err
		}
		runs := p.SortedRuns()
		if len(runs) == 0 {
			fmt.Println("(no runs)")
			return nil
		}
		for _, r := range runs {
			line := fmt.Sprintf("- %s: %s [%s] FMax %.2f", r.ID, r.Name, r.Outcome(), r.FMax)
			if r.FCalculated != nil && r.FCritical != nil {
				line += fmt.Sprintf(", F %.2f vs %.2f at %g", *r.FCalculated, *r.FCritical, r.Alpha)
			}
			if r.Report != "" {
				line += " -> " + r.Report
			}
			fmt.Println(line)
		}
		return nil
	},
}

func listAllProjects() error {
	root, err := defaultProjectsDir()
	if err != nil {
		return err
	}
	dirs, err := os.ReadDir(root)
	if err != nil {
		return err
	}
	found := false
	for _, e := range dirs {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(root, e.Name())
		if !project.Exists(dir) {
			continue
		}
		p, err := project.LoadProject(dir)
		if err != nil {
			fmt.Printf("- %s (unreadable: %v)\n", e.Name(), err)
		} else {
			fmt.Printf("- %s (%d runs)\n", e.Name(), len(p.Runs))
		}
		found = true
	}
	if !found {
		fmt.Println("(no projects)")
	}
	return nil
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listProjects, "projects", false, "list projects")
	listCmd.Flags().BoolVar(&listRuns, "runs", false, "list runs in a project")
	listCmd.Flags().StringVarP(&listProjName, "project", "p", "", "project name or path for --runs (default: project containing the working directory)")
}
