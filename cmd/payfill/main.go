// Package main provides the CLI entry point for payfill.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mortadamoghazy/Integrated-Project/pkg/payfill"
	"github.com/mortadamoghazy/Integrated-Project/pkg/payfill/config"
	"github.com/mortadamoghazy/Integrated-Project/pkg/payfill/models"
	"github.com/mortadamoghazy/Integrated-Project/pkg/payfill/output"
)

var (
	configPath string
	outputPath string
	reportPath string
	pretty     bool
	dryRun     bool
	noRules    bool
	reset      bool
	logLevel   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "payfill [workbook.xlsx]",
		Short: "Fill a payroll report sheet from raw source data",
		Long: `payfill reads raw payroll rows from a workbook's source sheet, normalizes
field labels, matches them against the destination template, and writes the
values back with highlighting. A JSON report of writes and skipped rows is
produced for every run.`,
		Args: cobra.ExactArgs(1),
		RunE: run,
	}

	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML config file (default: built-in layout)")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Save the filled workbook to this path instead of in place")
	rootCmd.Flags().StringVar(&reportPath, "report", "", "Write the JSON run report to this path (default: stdout)")
	rootCmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print the JSON report")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Plan the writes without modifying the workbook")
	rootCmd.Flags().BoolVar(&noRules, "no-rules", false, "Skip saved custom mapping rules")
	rootCmd.Flags().BoolVar(&reset, "reset", false, "Clear the destination data and saved rules, then refill")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	workbook := args[0]

	if reset && dryRun {
		return errors.New("--reset cannot be combined with --dry-run")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	opts := payfill.Options{
		DryRun:     dryRun,
		OutputPath: outputPath,
		Logger:     logger,
	}
	if noRules {
		apply := false
		opts.ApplyRules = &apply
	}

	var report *models.RunReport
	if reset {
		report, err = payfill.Reset(workbook, cfg, opts)
	} else {
		report, err = payfill.Fill(workbook, cfg, opts)
	}
	if err != nil {
		return err
	}

	jsonData, err := output.ToJSON(report, pretty)
	if err != nil {
		return fmt.Errorf("serialize report: %w", err)
	}
	if reportPath != "" {
		if err := os.WriteFile(reportPath, jsonData, 0644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		return nil
	}
	fmt.Println(string(jsonData))
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	switch level {
	case "debug":
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		zc.Development = true
	case "", "info":
		zc.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	case "warn":
		zc.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	case "error":
		zc.Level = zap.NewAtomicLevelAt(zapcore.ErrorLevel)
	default:
		return nil, fmt.Errorf("unknown log level %q", level)
	}
	return zc.Build()
}
