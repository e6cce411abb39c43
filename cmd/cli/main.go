package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"mlprep/adapters/algorithms"
	"mlprep/adapters/excel"
	"mlprep/app"
	"mlprep/domain/preprocessing"
	"mlprep/internal"
	"mlprep/internal/config"
	"mlprep/internal/container"
	apperrors "mlprep/internal/errors"
	pipeline "mlprep/internal/preprocessing"
	"mlprep/internal/report"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:          "mlprep",
		Short:        "Preprocess tabular datasets for machine learning",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newPreprocessCmd(),
		newProfileCmd(),
		newApplyCmd(),
		newAlgorithmsCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// cliOptions are the flags shared by commands that run the pipeline
type cliOptions struct {
	strict    bool
	maxLabels int
}

func (o *cliOptions) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.strict, "strict", false, "Fail on rows whose length differs from the header instead of dropping them")
	cmd.Flags().IntVar(&o.maxLabels, "max-labels", 0, "Largest label count treated as multiclass (default from MULTICLASS_MAX_LABELS)")
}

func newPreprocessCmd() *cobra.Command {
	var opts cliOptions
	var reportPath string

	cmd := &cobra.Command{
		Use:   "preprocess [data-file]",
		Short: "Run the preprocessing pipeline and print the processed dataset as JSON",
		Long: `Read a .csv or .xlsx file, profile and sanitize it, resolve the label
column and encode every cell as a number.

Example: mlprep preprocess data.csv --report report.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreprocess(cmd.Context(), cmd.OutOrStdout(), args[0], reportPath, opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&reportPath, "report", "", "Also write an HTML report to this path")
	return cmd
}

func newProfileCmd() *cobra.Command {
	var opts cliOptions

	cmd := &cobra.Command{
		Use:   "profile [data-file]",
		Short: "Print the column profile and label summary as markdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfile(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	opts.register(cmd)
	return cmd
}

func newApplyCmd() *cobra.Command {
	var opts cliOptions

	cmd := &cobra.Command{
		Use:   "apply [data-file]",
		Short: "Preprocess a file and run every registered algorithm on it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	opts.register(cmd)
	return cmd
}

func newAlgorithmsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "algorithms",
		Short: "List registered algorithms in run order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range algorithms.NewDefaultRegistry().Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

// loadConfig reads the environment and applies command-line overrides
func loadConfig(opts cliOptions) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if opts.strict {
		cfg.Pipeline.MalformedRowPolicy = config.MalformedRowStrict
	}
	if opts.maxLabels > 0 {
		cfg.Pipeline.MulticlassMaxLabels = opts.maxLabels
	}
	return cfg, nil
}

func newService(cfg *config.Config, logger *internal.Logger) (*app.MachineLearningService, error) {
	pipelineOpts, err := container.PipelineOptions(cfg.Pipeline)
	if err != nil {
		return nil, err
	}
	return app.NewMachineLearningService(
		pipeline.New(pipelineOpts, logger),
		algorithms.NewDefaultRegistry(),
		app.ServiceConfig{
			MaxRows:     cfg.Upload.MaxRows,
			Timeout:     cfg.Algorithms.Timeout,
			Concurrency: cfg.Algorithms.Concurrency,
		},
		logger,
	), nil
}

// process reads path and runs the pipeline on it
func process(ctx context.Context, path string, opts cliOptions) (*preprocessing.ProcessedDataset, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	logger := container.NewLogger(cfg.Logging)

	raw, err := excel.NewDataReader(excel.DefaultReaderConfig(), logger).ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	svc, err := newService(cfg, logger)
	if err != nil {
		return nil, err
	}
	return svc.Preprocess(ctx, raw)
}

func runPreprocess(ctx context.Context, out io.Writer, path, reportPath string, opts cliOptions) error {
	dataset, err := process(ctx, path, opts)
	if err != nil {
		return err
	}

	if reportPath != "" {
		md := report.Markdown(report.Input{Source: filepath.Base(path), Dataset: dataset})
		page := report.HTML("Preprocessing report: "+filepath.Base(path), md)
		if err := os.WriteFile(reportPath, page, 0o644); err != nil {
			return apperrors.Wrapf(err, "writing report %s", reportPath)
		}
	}

	return writeJSON(out, dataset)
}

func runProfile(ctx context.Context, out io.Writer, path string, opts cliOptions) error {
	dataset, err := process(ctx, path, opts)
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, report.Markdown(report.Input{Source: filepath.Base(path), Dataset: dataset}))
	return err
}

func runApply(ctx context.Context, out io.Writer, path string, opts cliOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	logger := container.NewLogger(cfg.Logging)

	raw, err := excel.NewDataReader(excel.DefaultReaderConfig(), logger).ReadFile(ctx, path)
	if err != nil {
		return err
	}
	svc, err := newService(cfg, logger)
	if err != nil {
		return err
	}

	result, err := svc.ApplyML(ctx, raw)
	if err != nil {
		return err
	}

	md := report.Markdown(report.Input{
		Source:   filepath.Base(path),
		Dataset:  result.Dataset,
		Results:  result.Results,
		Failures: result.Failures,
	})
	fmt.Fprintf(out, "Run %s\n\n", result.RunID)
	_, err = io.WriteString(out, strings.TrimRight(md, "\n")+"\n")
	return err
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
