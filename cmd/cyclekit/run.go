package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/c360studio/cyclekit/config"
	"github.com/c360studio/cyclekit/derive"
	"github.com/c360studio/cyclekit/export"
	"github.com/c360studio/cyclekit/metrics"
	"github.com/c360studio/cyclekit/pipeline"
	"github.com/c360studio/cyclekit/rules"
	"github.com/c360studio/cyclekit/source"
)

func runCommand(configPath, logLevel *string) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Harmonize all configured cycles and write the merged table",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogger(*logLevel)
			cfg, err := config.LoadFromFile(*configPath)
			if err != nil {
				return err
			}
			return harmonize(cfg, logger, nil)
		},
	}
}

// harmonize executes one full run: load rules, process every cycle, merge,
// write outputs. Shared by run and watch.
func harmonize(cfg *config.Config, logger *slog.Logger, collect *metrics.Collector) error {
	files, err := cfg.RuleFiles()
	if err != nil {
		return err
	}
	set, err := rules.Load(files...)
	if err != nil {
		return err
	}

	opts := []pipeline.Option{pipeline.WithLogger(logger)}
	if collect != nil {
		opts = append(opts, pipeline.WithMetrics(collect))
	}
	runner, err := pipeline.New(set, derive.DefaultRegistry, opts...)
	if err != nil {
		return err
	}

	extracts := make([]*source.Extract, 0, len(cfg.Cycles))
	for _, cy := range cfg.Cycles {
		e, err := source.ReadCSV(cy.Name, cy.Path)
		if err != nil {
			return fmt.Errorf("cycle %s: %w", cy.Name, err)
		}
		extracts = append(extracts, e)
	}

	merged, reports, err := runner.RunAll(extracts...)
	if err != nil {
		return err
	}

	format, err := export.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	if err := export.WriteTableFile(cfg.Output.Table, merged, format); err != nil {
		return err
	}
	logger.Info("wrote harmonized table",
		slog.String("path", cfg.Output.Table),
		slog.Int("rows", merged.Rows()),
		slog.Int("variables", len(merged.Columns())))

	if cfg.Output.Report != "" {
		if err := export.WriteReportsFile(cfg.Output.Report, reports); err != nil {
			return err
		}
		logger.Info("wrote run report", slog.String("path", cfg.Output.Report))
	}
	return nil
}
