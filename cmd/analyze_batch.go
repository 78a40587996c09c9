package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	abFlags runFlags
	abJobs  int
	abQuiet bool
)

var analyzeBatchCmd = &cobra.Command{
	Use:   "analyze-batch <files...>",
	Short: "Analyze multiple CSV/TSV/XLSX tables concurrently with optional project attachment",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files := expandInputs(args)
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}

		p, err := abFlags.loadProject()
		if err != nil {
			return err
		}
		aopt, err := abFlags.anovaOptions(p)
		if err != nil {
			return err
		}
		dopt, err := abFlags.datasetOptions()
		if err != nil {
			return err
		}
		format, err := abFlags.reportFormat()
		if err != nil {
			return err
		}
		jobs := settings().BatchJobs
		if abJobs > 0 {
			jobs = abJobs
		}

		total := len(files)
		results := make([]*analysis, total)
		errs := make([]error, total)
		var g errgroup.Group
		g.SetLimit(jobs)
		for i, path := range files {
			i, path := i, path
			g.Go(func() error {
				results[i], errs[i] = analyzeFile(path, dopt, aopt, format)
				return nil
			})
		}
		_ = g.Wait()
		logger.Debug("batch complete", zap.Int("files", total), zap.Int("jobs", jobs))

		failed := 0
		for i, path := range files {
			if !abQuiet {
				fmt.Printf("[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			if errs[i] != nil {
				failed++
				fmt.Fprintf(os.Stderr, "✗ %s: %v\n", path, errs[i])
				continue
			}
			a := results[i]
			printWarnings(a)
			if p != nil {
				rel, bumped, err := abFlags.attach(p, a, format)
				if err != nil {
					failed++
					fmt.Fprintf(os.Stderr, "✗ %s: %v\n", path, err)
					continue
				}
				if bumped && !abQuiet {
					fmt.Printf("⚠ Detected existing report, writing to %s to avoid overwrite.\n", filepath.Base(rel))
				}
			} else if !abQuiet {
				fmt.Println(string(a.Body))
			}
			if !abQuiet {
				fmt.Println(outcomeLine(a))
			}
		}
		if p != nil {
			if err := p.Save(); err != nil {
				return err
			}
			if !abQuiet {
				fmt.Printf("✓ Added %d run(s) to project '%s'\n", total-failed, p.Name)
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d files failed", failed, total)
		}
		return nil
	},
}

// expandInputs resolves globs, keeps literal paths that exist, and returns
// a sorted, de-duplicated list.
func expandInputs(args []string) []string {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files
}

func init() {
	rootCmd.AddCommand(analyzeBatchCmd)
	abFlags.register(analyzeBatchCmd, "project name to attach reports")
	analyzeBatchCmd.Flags().IntVarP(&abJobs, "jobs", "j", 0, "files analyzed concurrently (default from config: 4)")
	analyzeBatchCmd.Flags().BoolVar(&abQuiet, "quiet", false, "suppress progress and non-essential output")
}
