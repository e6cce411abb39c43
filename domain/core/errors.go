package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Input errors
	ErrEmptyInput      = errors.New("dataset is empty")
	ErrInputTooLarge   = errors.New("dataset exceeds size limit")
	ErrMalformedRow    = errors.New("row length does not match header")
	ErrDuplicateColumn = errors.New("duplicate column name")

	// Pipeline errors
	ErrEmptyDataset     = errors.New("no rows left after sanitization")
	ErrLabelResolution  = errors.New("label column could not be resolved")
	ErrUnknownColumn    = errors.New("column not found in profile")
	ErrValueNotProfiled = errors.New("value not present in column profile")
	ErrNonFiniteValue   = errors.New("value is not a finite number")
	ErrUnsupportedInput = errors.New("unsupported input format")

	// Algorithm errors
	ErrAlgorithmFailed         = errors.New("algorithm failed")
	ErrAlgorithmNotImplemented = fmt.Errorf("%w: not implemented", ErrAlgorithmFailed)
	ErrUnknownAlgorithm        = errors.New("unknown algorithm")
	ErrDuplicateAlgorithm      = errors.New("algorithm already registered")
)

// Error constructors with context
func NewMalformedRowError(row, got, want int) error {
	return fmt.Errorf("%w: row %d has %d cells, header has %d", ErrMalformedRow, row, got, want)
}

func NewDuplicateColumnError(name string, first, second int) error {
	return fmt.Errorf("%w: %q at positions %d and %d", ErrDuplicateColumn, name, first, second)
}

func NewAlgorithmError(name string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrAlgorithmFailed, name, err)
}

// Error checking helpers
func IsInputError(err error) bool {
	return errors.Is(err, ErrEmptyInput) ||
		errors.Is(err, ErrInputTooLarge) ||
		errors.Is(err, ErrMalformedRow) ||
		errors.Is(err, ErrDuplicateColumn) ||
		errors.Is(err, ErrUnsupportedInput)
}

func IsPipelineError(err error) bool {
	return errors.Is(err, ErrEmptyDataset) ||
		errors.Is(err, ErrLabelResolution) ||
		errors.Is(err, ErrUnknownColumn) ||
		errors.Is(err, ErrValueNotProfiled) ||
		errors.Is(err, ErrNonFiniteValue)
}

func IsAlgorithmError(err error) bool {
	return errors.Is(err, ErrAlgorithmFailed) ||
		errors.Is(err, ErrUnknownAlgorithm)
}
