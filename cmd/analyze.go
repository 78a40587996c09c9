package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	anaFlags      runFlags
	anaOutputPath string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Run the FMax check and one-way ANOVA F-test on a CSV/TSV/XLSX table",
	Long: `Reads a table whose first column identifies the row and whose remaining
columns hold one condition each, then reports the homogeneity check and, when the
samples qualify, the F-test decision.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		p, err := anaFlags.loadProject()
		if err != nil {
			return err
		}
		aopt, err := anaFlags.anovaOptions(p)
		if err != nil {
			return err
		}
		dopt, err := anaFlags.datasetOptions()
		if err != nil {
			return err
		}
		format, err := anaFlags.reportFormat()
		if err != nil {
			return err
		}

		a, err := analyzeFile(path, dopt, aopt, format)
		if err != nil {
			return err
		}
		printWarnings(a)

		// Decide where to write: --output path, or attach to project, or stdout
		written := false
		if anaOutputPath != "" {
			if err := os.WriteFile(anaOutputPath, a.Body, 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Printf("✓ Wrote report to %s\n", anaOutputPath)
			written = true
		}
		if p != nil {
			rel, bumped, err := anaFlags.attach(p, a, format)
			if err != nil {
				return err
			}
			if err := p.Save(); err != nil {
				return err
			}
			if bumped {
				fmt.Printf("⚠ Detected existing report, wrote %s to avoid overwrite.\n", rel)
			}
			fmt.Printf("✓ Added run to project '%s' as %s\n", p.Name, rel)
			written = true
		}
		if !written {
			fmt.Println(string(a.Body))
			return nil
		}
		fmt.Println(outcomeLine(a))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	anaFlags.register(analyzeCmd, "project name to attach the report")
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the report")
}
