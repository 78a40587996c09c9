package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/anova-cli/internal/anova"
	"github.com/KaramelBytes/anova-cli/internal/logging"
	"github.com/KaramelBytes/anova-cli/internal/report"
)

// EnvPrefix prefixes every environment override, e.g. ANOVA_ALPHA.
const EnvPrefix = "ANOVA"

// Global configuration structure.
type Global struct {
	Alpha         float64 `mapstructure:"alpha" yaml:"alpha"`
	TailTest      int     `mapstructure:"tail_test" yaml:"tail_test"`
	FMaxThreshold float64 `mapstructure:"fmax_threshold" yaml:"fmax_threshold"`
	Precision     string  `mapstructure:"precision" yaml:"precision"`
	ReportFormat  string  `mapstructure:"report_format" yaml:"report_format"`
	MaxRows       int     `mapstructure:"max_rows" yaml:"max_rows"`
	BatchJobs     int     `mapstructure:"batch_jobs" yaml:"batch_jobs"`
	ProjectsDir   string  `mapstructure:"projects_dir" yaml:"projects_dir"`
	LogLevel      string  `mapstructure:"log_level" yaml:"log_level"`
	ServeAddr     string  `mapstructure:"serve_addr" yaml:"serve_addr"`
}

// Dir returns ~/.anova.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".anova"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.anova/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Defaults returns the built-in configuration. ProjectsDir is left empty
// and resolved by Load.
func Defaults() *Global {
	opt := anova.DefaultOptions()
	return &Global{
		Alpha:         opt.Alpha,
		TailTest:      opt.TailTest,
		FMaxThreshold: opt.FMaxThreshold,
		Precision:     string(opt.Precision),
		ReportFormat:  string(report.FormatMarkdown),
		MaxRows:       100000,
		BatchJobs:     4,
		LogLevel:      "warn",
		ServeAddr:     "127.0.0.1:8080",
	}
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env (.env included) > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	// .env is optional; variables already set in the process win.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	def := Defaults()
	v.SetDefault("alpha", def.Alpha)
	v.SetDefault("tail_test", def.TailTest)
	v.SetDefault("fmax_threshold", def.FMaxThreshold)
	v.SetDefault("precision", def.Precision)
	v.SetDefault("report_format", def.ReportFormat)
	v.SetDefault("max_rows", def.MaxRows)
	v.SetDefault("batch_jobs", def.BatchJobs)
	v.SetDefault("projects_dir", "")
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("serve_addr", def.ServeAddr)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	// Resolve projects_dir default: ~/.anova/projects
	if c.ProjectsDir == "" {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		c.ProjectsDir = filepath.Join(dir, "projects")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks every field against the ranges the commands accept.
func (c *Global) Validate() error {
	opt := c.AnovaOptions()
	if err := opt.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := report.ParseFormat(c.ReportFormat); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.MaxRows < 0 {
		return fmt.Errorf("config: max_rows must be >= 0, got %d", c.MaxRows)
	}
	if c.BatchJobs < 1 {
		return fmt.Errorf("config: batch_jobs must be >= 1, got %d", c.BatchJobs)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// AnovaOptions maps the test parameters onto pipeline options.
func (c *Global) AnovaOptions() anova.Options {
	opt := anova.DefaultOptions()
	opt.Alpha = c.Alpha
	opt.TailTest = c.TailTest
	opt.FMaxThreshold = c.FMaxThreshold
	opt.Precision = anova.Precision(c.Precision)
	if p, err := anova.ParsePrecision(c.Precision); err == nil {
		opt.Precision = p
	}
	return opt
}

// Keys lists the settable configuration keys.
func Keys() []string {
	keys := []string{"alpha", "tail_test", "fmax_threshold", "precision", "report_format",
		"max_rows", "batch_jobs", "projects_dir", "log_level", "serve_addr"}
	sort.Strings(keys)
	return keys
}

// Set assigns one key from its string form and validates the result. On
// error c is left unchanged.
func Set(c *Global, key, value string) error {
	next := *c
	value = strings.TrimSpace(value)
	var err error
	switch strings.ToLower(key) {
	case "alpha":
		next.Alpha, err = strconv.ParseFloat(value, 64)
	case "tail_test", "tail":
		next.TailTest, err = strconv.Atoi(value)
	case "fmax_threshold":
		next.FMaxThreshold, err = strconv.ParseFloat(value, 64)
	case "precision":
		var p anova.Precision
		p, err = anova.ParsePrecision(value)
		next.Precision = string(p)
	case "report_format", "format":
		var f report.Format
		f, err = report.ParseFormat(value)
		next.ReportFormat = string(f)
	case "max_rows":
		next.MaxRows, err = strconv.Atoi(value)
	case "batch_jobs", "jobs":
		next.BatchJobs, err = strconv.Atoi(value)
	case "projects_dir":
		next.ProjectsDir = value
	case "log_level":
		next.LogLevel = strings.ToLower(value)
	case "serve_addr":
		next.ServeAddr = value
	default:
		return fmt.Errorf("unknown key: %s (valid: %s)", key, strings.Join(Keys(), ", "))
	}
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}
