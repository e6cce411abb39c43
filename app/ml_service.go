package app

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"mlprep/domain/algorithm"
	"mlprep/domain/core"
	"mlprep/domain/preprocessing"
	"mlprep/internal"
	"mlprep/internal/errors"
	"mlprep/internal/evaluation"
	"mlprep/ports"
)

// ServiceConfig bounds one ApplyML call
type ServiceConfig struct {
	MaxRows     int           // data rows accepted per upload, 0 disables the check
	Timeout     time.Duration // per algorithm
	Concurrency int           // algorithms running at once
}

// MachineLearningService preprocesses uploads and runs every registered algorithm on them
type MachineLearningService struct {
	preprocessor ports.PreprocessorPort
	registry     ports.AlgorithmRegistry
	config       ServiceConfig
	logger       *internal.Logger
}

// ApplyResult is the outcome of one upload
type ApplyResult struct {
	RunID      core.RunID                      `json:"run_id"`
	Dataset    *preprocessing.ProcessedDataset `json:"dataset"`
	Results    []algorithm.Result              `json:"results"`
	Failures   []algorithm.Failure             `json:"failures"`
	StartedAt  core.Timestamp                  `json:"started_at"`
	DurationMs int64                           `json:"duration_ms"`
}

// NewMachineLearningService creates the service. A nil logger discards output.
func NewMachineLearningService(preprocessor ports.PreprocessorPort, registry ports.AlgorithmRegistry, config ServiceConfig, logger *internal.Logger) *MachineLearningService {
	if config.Concurrency <= 0 {
		config.Concurrency = 1
	}
	if logger == nil {
		logger = internal.Discard()
	}
	return &MachineLearningService{
		preprocessor: preprocessor,
		registry:     registry,
		config:       config,
		logger:       logger,
	}
}

// Algorithms returns the registered algorithm names in run order
func (s *MachineLearningService) Algorithms() []string {
	return s.registry.Names()
}

// Preprocess enforces the row limit and runs the preprocessing pipeline
func (s *MachineLearningService) Preprocess(ctx context.Context, raw preprocessing.RawDataset) (*preprocessing.ProcessedDataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.config.MaxRows > 0 && len(raw.DataRows()) > s.config.MaxRows {
		return nil, errors.StageFailed(errors.StageUpload, errors.CodeInputTooLarge,
			fmt.Errorf("%w: %d data rows, limit is %d", core.ErrInputTooLarge, len(raw.DataRows()), s.config.MaxRows))
	}
	return s.preprocessor.Run(raw)
}

// ApplyML preprocesses raw, then runs every registered algorithm on the result.
// A preprocessing failure aborts the call. Algorithm failures are logged and
// reported in Failures without affecting the other algorithms; every
// successful result is returned, in registration order.
func (s *MachineLearningService) ApplyML(ctx context.Context, raw preprocessing.RawDataset) (*ApplyResult, error) {
	started := core.Now()
	runID := core.NewRunID()
	logger := s.logger.With("run_id", runID.String())

	dataset, err := s.Preprocess(ctx, raw)
	if err != nil {
		logger.Error("[MLService] preprocessing failed: %v", err)
		return nil, err
	}

	names := s.registry.Names()
	outcomes := s.runAll(ctx, names, dataset, logger)

	result := &ApplyResult{
		RunID:     runID,
		Dataset:   dataset,
		Results:   make([]algorithm.Result, 0, len(names)),
		Failures:  make([]algorithm.Failure, 0),
		StartedAt: started,
	}
	for i, o := range outcomes {
		if o.err != nil {
			failed := errors.StageFailed(errors.StageAlgorithm, errors.CodeAlgorithmFailed, o.err)
			logger.Error("[MLService] %v", failed)
			result.Failures = append(result.Failures, algorithm.Failure{
				AlgorithmName: names[i],
				Code:          failed.Code,
				Error:         o.err.Error(),
				DurationMs:    o.durationMs,
			})
			continue
		}
		result.Results = append(result.Results, o.result)
	}
	result.DurationMs = started.Since()

	logger.Info("[MLService] run finished in %dms: %d succeeded, %d failed",
		result.DurationMs, len(result.Results), len(result.Failures))
	return result, nil
}

type outcome struct {
	result     algorithm.Result
	err        error
	durationMs int64
}

// runAll runs every named algorithm and waits for all of them.
// outcomes[i] belongs to names[i].
func (s *MachineLearningService) runAll(ctx context.Context, names []string, dataset *preprocessing.ProcessedDataset, logger *internal.Logger) []outcome {
	outcomes := make([]outcome, len(names))
	sem := semaphore.NewWeighted(int64(s.config.Concurrency))

	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()

			if err := sem.Acquire(ctx, 1); err != nil {
				outcomes[i] = outcome{err: core.NewAlgorithmError(name, err)}
				return
			}
			defer sem.Release(1)

			start := time.Now()
			res, err := s.runOne(ctx, name, dataset, logger)
			elapsed := time.Since(start).Milliseconds()
			if err != nil {
				outcomes[i] = outcome{err: err, durationMs: elapsed}
				return
			}
			res.DurationMs = elapsed
			outcomes[i] = outcome{result: res, durationMs: elapsed}
		}(i, name)
	}
	wg.Wait()

	return outcomes
}

// runOne fits, predicts and scores one algorithm under its own timeout.
// Fit and Predict run through callWithContext, so the timeout holds even for
// an algorithm that never looks at ctx. A panic inside the algorithm becomes an error.
func (s *MachineLearningService) runOne(ctx context.Context, name string, dataset *preprocessing.ProcessedDataset, logger *internal.Logger) (res algorithm.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Debug("[MLService] algorithm %s panic stack: %s", name, debug.Stack())
			err = core.NewAlgorithmError(name, fmt.Errorf("panic: %v", r))
		}
	}()

	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	algo, err := s.registry.Get(name)
	if err != nil {
		return algorithm.Result{}, err
	}

	features := dataset.FeatureMatrix()
	if features == nil {
		return algorithm.Result{}, core.NewAlgorithmError(name, fmt.Errorf("dataset has no feature columns"))
	}

	logger.Debug("[MLService] fitting %s on %d rows", name, dataset.RowCount())
	model, err := callWithContext(ctx, name, logger, func() (ports.Model, error) {
		return algo.Fit(ctx, dataset)
	})
	if err != nil {
		return algorithm.Result{}, core.NewAlgorithmError(name, err)
	}
	if model == nil {
		return algorithm.Result{}, core.NewAlgorithmError(name, fmt.Errorf("fit returned no model"))
	}

	predictions, err := callWithContext(ctx, name, logger, func() ([]float64, error) {
		return model.Predict(ctx, features)
	})
	if err != nil {
		return algorithm.Result{}, core.NewAlgorithmError(name, err)
	}
	if err := ctx.Err(); err != nil {
		return algorithm.Result{}, core.NewAlgorithmError(name, err)
	}

	scores, err := evaluation.Score(dataset.Label, dataset.Labels(), predictions)
	if err != nil {
		return algorithm.Result{}, core.NewAlgorithmError(name, err)
	}

	return algorithm.Result{
		AlgorithmName: name,
		Predictions:   predictions,
		Scores:        scores,
		CompletedAt:   core.Now(),
	}, nil
}

// callWithContext runs fn on its own goroutine and returns when fn does or
// ctx is done, whichever comes first. An abandoned fn keeps running until it
// returns on its own; its result is discarded.
func callWithContext[T any](ctx context.Context, name string, logger *internal.Logger, fn func() (T, error)) (T, error) {
	var (
		value T
		err   error
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				logger.Debug("[MLService] algorithm %s panic stack: %s", name, debug.Stack())
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		value, err = fn()
	}()

	select {
	case <-done:
		return value, err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
