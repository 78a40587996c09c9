package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/anova-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set anova configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded (showing built-in defaults)")
		}
		c := settings()
		fmt.Printf("alpha: %g\n", c.Alpha)
		fmt.Printf("tail_test: %d\n", c.TailTest)
		fmt.Printf("fmax_threshold: %g\n", c.FMaxThreshold)
		fmt.Printf("precision: %s\n", c.Precision)
		fmt.Printf("report_format: %s\n", c.ReportFormat)
		fmt.Printf("max_rows: %d\n", c.MaxRows)
		fmt.Printf("batch_jobs: %d\n", c.BatchJobs)
		fmt.Printf("projects_dir: %s\n", c.ProjectsDir)
		fmt.Printf("log_level: %s\n", c.LogLevel)
		fmt.Printf("serve_addr: %s\n", c.ServeAddr)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		if err := cfgpkg.Set(cfg, key, val); err != nil {
			return err
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Println("Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
