// Package preprocessing turns an uploaded table into a numeric, labeled
// dataset: profile columns, drop bad rows, encode the label and the features.
//
// A Pipeline holds configuration only. Run keeps every intermediate value on
// the stack, so one Pipeline can serve concurrent uploads without locking.
package preprocessing

import (
	stderrors "errors"
	"fmt"
	"strings"

	"mlprep/adapters/datareadiness/coercer"
	"mlprep/domain/core"
	domain "mlprep/domain/preprocessing"
	"mlprep/internal"
	"mlprep/internal/errors"
)

// MalformedRowPolicy decides what happens to rows whose length differs from the header
type MalformedRowPolicy string

const (
	// DropMalformedRows removes such rows and counts them in the sanitize report
	DropMalformedRows MalformedRowPolicy = "drop"
	// RejectMalformedRows fails the run on the first such row
	RejectMalformedRows MalformedRowPolicy = "strict"
)

// ParseMalformedRowPolicy accepts "drop" or "strict" in any case
func ParseMalformedRowPolicy(s string) (MalformedRowPolicy, error) {
	switch MalformedRowPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case DropMalformedRows:
		return DropMalformedRows, nil
	case RejectMalformedRows:
		return RejectMalformedRows, nil
	default:
		return "", fmt.Errorf("unknown malformed row policy %q", s)
	}
}

// Options configures a Pipeline
type Options struct {
	MalformedRowPolicy  MalformedRowPolicy
	MulticlassMaxLabels int
	LabelColumnNames    []string
	Coercion            coercer.CoercionConfig
}

// DefaultOptions returns the standard pipeline configuration
func DefaultOptions() Options {
	return Options{
		MalformedRowPolicy:  DropMalformedRows,
		MulticlassMaxLabels: domain.DefaultMulticlassMaxLabels,
		LabelColumnNames:    domain.DefaultLabelColumnNames,
		Coercion:            coercer.DefaultCoercionConfig(),
	}
}

// Pipeline sequences the profiler, sanitizer, label resolver and encoder
type Pipeline struct {
	policy    MalformedRowPolicy
	profiler  *ColumnProfiler
	sanitizer *RowSanitizer
	resolver  *LabelResolver
	encoder   *FeatureEncoder
	logger    *internal.Logger
}

// New creates a pipeline. A nil logger discards output.
func New(opts Options, logger *internal.Logger) *Pipeline {
	if logger == nil {
		logger = internal.Discard()
	}
	if opts.MalformedRowPolicy == "" {
		opts.MalformedRowPolicy = DropMalformedRows
	}
	c := coercer.NewTypeCoercer(opts.Coercion)
	return &Pipeline{
		policy:    opts.MalformedRowPolicy,
		profiler:  NewColumnProfiler(c),
		sanitizer: NewRowSanitizer(c),
		resolver:  NewLabelResolver(opts.LabelColumnNames, opts.MulticlassMaxLabels),
		encoder:   NewFeatureEncoder(c),
		logger:    logger,
	}
}

// Run processes one raw dataset. Columns are profiled after sanitization so
// unique values and statistics only describe rows that reach the encoder.
// Errors are *errors.AppError values naming the failing stage.
func (p *Pipeline) Run(raw domain.RawDataset) (*domain.ProcessedDataset, error) {
	if len(raw) < 2 {
		return nil, errors.StageFailed(errors.StageValidate, errors.CodeEmptyInput,
			fmt.Errorf("%w: need a header and at least one data row, got %d rows", core.ErrEmptyInput, len(raw)))
	}

	header := raw.Header()
	if len(header) == 0 {
		return nil, errors.StageFailed(errors.StageLabel, errors.CodeLabelResolution,
			fmt.Errorf("%w: header is empty", core.ErrLabelResolution))
	}
	if err := checkUniqueHeader(header); err != nil {
		return nil, errors.StageFailed(errors.StageValidate, errors.CodeDuplicateColumn, err)
	}

	wellFormed, malformed, err := p.splitMalformed(header, raw.DataRows())
	if err != nil {
		return nil, errors.StageFailed(errors.StageValidate, errors.CodeMalformedRow, err)
	}

	rows, report := p.sanitizer.Sanitize(wellFormed)
	report.InputRows += malformed
	report.MalformedDropped = malformed
	if len(rows) == 0 {
		return nil, errors.StageFailed(errors.StageSanitize, errors.CodeEmptyDataset,
			fmt.Errorf("%w: %d malformed, %d incomplete, %d duplicate rows removed",
				core.ErrEmptyDataset, report.MalformedDropped, report.NullDropped, report.DuplicatesDropped))
	}
	p.logger.Debug("[Pipeline] sanitized %d rows -> %d (malformed=%d null=%d duplicate=%d)",
		report.InputRows, report.OutputRows, report.MalformedDropped, report.NullDropped, report.DuplicatesDropped)

	profile, err := p.profiler.Profile(header, rows)
	if err != nil {
		return nil, errors.StageFailed(errors.StageProfile, numericFailureCode(err), err)
	}
	p.logger.Debug("[Pipeline] profiled %d columns: numeric=%v categorical=%v",
		len(profile.Columns), profile.NumericColumns(), profile.CategoricalColumns())

	label, classes, err := p.resolver.Resolve(header, rows)
	if err != nil {
		return nil, errors.StageFailed(errors.StageLabel, errors.CodeLabelResolution, err)
	}
	p.logger.Debug("[Pipeline] label column %q (index %d): %d classes, %s",
		label.ColumnName, label.ColumnIndex, len(label.UniqueLabels), label.ClassificationType)

	encoded, err := p.encoder.Encode(header, rows, profile, label, classes)
	if err != nil {
		return nil, errors.StageFailed(errors.StageEncode, numericFailureCode(err), err)
	}

	processed := &domain.ProcessedDataset{
		Header:      append([]string(nil), header...),
		Rows:        encoded,
		Label:       label,
		Profile:     profile,
		Sanitize:    report,
		Fingerprint: core.ComputeDatasetFingerprint(header, encoded),
	}

	p.logger.Info("[Pipeline] processed %d rows x %d columns, label=%q type=%s fingerprint=%s",
		processed.RowCount(), len(header), label.ColumnName, label.ClassificationType, processed.Fingerprint.Short())
	return processed, nil
}

// splitMalformed separates rows whose length differs from the header.
// Under RejectMalformedRows the first such row is an error.
func (p *Pipeline) splitMalformed(header []string, rows [][]string) ([][]string, int, error) {
	wellFormed := make([][]string, 0, len(rows))
	malformed := 0
	for i, row := range rows {
		if len(row) == len(header) {
			wellFormed = append(wellFormed, row)
			continue
		}
		err := core.NewMalformedRowError(i+1, len(row), len(header))
		if p.policy == RejectMalformedRows {
			return nil, 0, err
		}
		p.logger.Warn("[Pipeline] dropping %v", err)
		malformed++
	}
	return wellFormed, malformed, nil
}

func numericFailureCode(err error) string {
	if stderrors.Is(err, core.ErrNonFiniteValue) {
		return errors.CodeNonFiniteValue
	}
	return errors.CodeInternalError
}

// Run processes raw with default options and no logging
func Run(raw domain.RawDataset) (*domain.ProcessedDataset, error) {
	return New(DefaultOptions(), nil).Run(raw)
}
