package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/anova-cli/internal/anova"
)

var (
	psProject   string
	psClear     bool
	psAlpha     float64
	psTail      int
	psThreshold float64
	psPrecision string
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage per-project settings",
}

var projectSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set or clear a project's alpha, tail, FMax threshold or precision overrides",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if psProject == "" {
			return fmt.Errorf("--project is required")
		}
		p, err := resolveProject(psProject)
		if err != nil {
			return err
		}
		if psClear {
			p.ClearConfig()
			if err := p.Save(); err != nil {
				return err
			}
			fmt.Printf("✓ Cleared project overrides for %s\n", p.Name)
			return nil
		}
		if psAlpha == 0 && psTail == 0 && psThreshold == 0 && psPrecision == "" {
			return fmt.Errorf("nothing to set: use --alpha, --tail, --fmax-threshold, --precision or --clear")
		}

		next := *p.Config
		if psAlpha != 0 {
			a := psAlpha
			next.Alpha = &a
		}
		if psTail != 0 {
			next.TailTest = psTail
		}
		if psThreshold != 0 {
			thr := psThreshold
			next.FMaxThreshold = &thr
		}
		if psPrecision != "" {
			prec, err := anova.ParsePrecision(psPrecision)
			if err != nil {
				return err
			}
			next.Precision = string(prec)
		}
		// validate against the effective options before persisting
		saved := p.Config
		p.Config = &next
		if err := p.Apply(settings().AnovaOptions()).Validate(); err != nil {
			p.Config = saved
			return err
		}
		if err := p.Save(); err != nil {
			return err
		}
		fmt.Printf("✓ Set project overrides for %s: %s\n", p.Name, describeOverrides(p.Config.Alpha, p.Config.TailTest, p.Config.FMaxThreshold, p.Config.Precision))
		return nil
	},
}

func describeOverrides(alpha *float64, tail int, thr *float64, prec string) string {
	var parts []string
	if alpha != nil {
		parts = append(parts, fmt.Sprintf("alpha=%g", *alpha))
	}
	if tail != 0 {
		parts = append(parts, fmt.Sprintf("tail=%d", tail))
	}
	if thr != nil {
		parts = append(parts, fmt.Sprintf("fmax_threshold=%g", *thr))
	}
	if prec != "" {
		parts = append(parts, "precision="+prec)
	}
	if len(parts) == 0 {
		return "(none)"
	}
	return strings.Join(parts, ", ")
}

func init() {
	rootCmd.AddCommand(projectCmd)
	projectCmd.AddCommand(projectSetCmd)

	projectSetCmd.Flags().StringVarP(&psProject, "project", "p", "", "project name")
	projectSetCmd.Flags().BoolVar(&psClear, "clear", false, "clear every override")
	projectSetCmd.Flags().Float64Var(&psAlpha, "alpha", 0, "significance level override in (0,1)")
	projectSetCmd.Flags().IntVar(&psTail, "tail", 0, "tail test override: 1 or 2")
	projectSetCmd.Flags().Float64Var(&psThreshold, "fmax-threshold", 0, "FMax threshold override (>= 1)")
	projectSetCmd.Flags().StringVar(&psPrecision, "precision", "", "precision override: stage|full")
}
