package container

import (
	"context"
	"fmt"
	"os"

	"mlprep/adapters/algorithms"
	"mlprep/adapters/excel"
	"mlprep/app"
	"mlprep/internal"
	"mlprep/internal/config"
	"mlprep/internal/preprocessing"
	"mlprep/internal/profiling"
	"mlprep/ui"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Preprocessing and algorithms
	Pipeline  *preprocessing.Pipeline
	Registry  *algorithms.Registry
	Reader    *excel.DataReader
	MLService *app.MachineLearningService

	// HTTP
	Server   *ui.Server
	Profiler *profiling.Server // nil unless PPROF_ENABLED
}

// New creates a new dependency injection container
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	c := &Container{
		Config: cfg,
		Logger: NewLogger(cfg.Logging),
	}

	if err := c.initPipeline(); err != nil {
		return nil, err
	}
	c.initServices()
	c.initHTTP()

	c.Logger.Info("Container initialized: algorithms=%v policy=%s", c.Registry.Names(), cfg.Pipeline.MalformedRowPolicy)
	return c, nil
}

// NewLogger builds the application logger from logging config
func NewLogger(cfg config.LoggingConfig) *internal.Logger {
	level := internal.ParseLogLevel(cfg.Level)
	if cfg.Format == "console" {
		return internal.NewConsoleLogger(level, os.Stderr)
	}
	return internal.NewLogger(level)
}

// PipelineOptions maps the pipeline config onto preprocessing options
func PipelineOptions(cfg config.PipelineConfig) (preprocessing.Options, error) {
	opts := preprocessing.DefaultOptions()
	policy, err := preprocessing.ParseMalformedRowPolicy(cfg.MalformedRowPolicy)
	if err != nil {
		return preprocessing.Options{}, err
	}
	opts.MalformedRowPolicy = policy
	if cfg.MulticlassMaxLabels > 0 {
		opts.MulticlassMaxLabels = cfg.MulticlassMaxLabels
	}
	return opts, nil
}

// initPipeline initializes the preprocessing pipeline and the algorithm registry
func (c *Container) initPipeline() error {
	opts, err := PipelineOptions(c.Config.Pipeline)
	if err != nil {
		return fmt.Errorf("failed to configure pipeline: %w", err)
	}
	c.Pipeline = preprocessing.New(opts, c.Logger)
	c.Registry = algorithms.NewDefaultRegistry()
	c.Reader = excel.NewDataReader(excel.DefaultReaderConfig(), c.Logger)
	return nil
}

// initServices initializes application services
func (c *Container) initServices() {
	c.MLService = app.NewMachineLearningService(c.Pipeline, c.Registry, app.ServiceConfig{
		MaxRows:     c.Config.Upload.MaxRows,
		Timeout:     c.Config.Algorithms.Timeout,
		Concurrency: c.Config.Algorithms.Concurrency,
	}, c.Logger)
}

// initHTTP initializes the API server and, when enabled, the pprof server
func (c *Container) initHTTP() {
	c.Server = ui.NewServer(c.Config, c.MLService, c.Reader, c.Logger)
	if c.Config.Profiling.Enabled {
		c.Profiler = profiling.NewServer(c.Config.Profiling.Port, c.Logger)
	}
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	if c.Profiler != nil {
		if err := c.Profiler.Shutdown(ctx); err != nil {
			c.Logger.Warn("Profiler shutdown failed: %v", err)
		}
	}
	if c.Server != nil {
		return c.Server.Shutdown(ctx)
	}
	return nil
}
