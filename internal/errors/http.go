package errors

import (
	stderrors "errors"
	"net/http"

	"mlprep/domain/core"
)

var codeStatus = map[string]int{
	CodeConfigInvalid:   http.StatusInternalServerError,
	CodeInvalidInput:    http.StatusBadRequest,
	CodeNotFound:        http.StatusNotFound,
	CodeInternalError:   http.StatusInternalServerError,
	CodeEmptyInput:      http.StatusBadRequest,
	CodeInputTooLarge:   http.StatusRequestEntityTooLarge,
	CodeMalformedRow:    http.StatusUnprocessableEntity,
	CodeDuplicateColumn: http.StatusUnprocessableEntity,
	CodeEmptyDataset:    http.StatusUnprocessableEntity,
	CodeLabelResolution: http.StatusUnprocessableEntity,
	CodeNonFiniteValue:  http.StatusUnprocessableEntity,
}

// HTTPStatus maps an error to the status code a handler should answer with.
// Plain errors wrapping an input sentinel are client errors; anything else is a 500.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		if status, ok := codeStatus[appErr.Code]; ok {
			return status
		}
	}
	switch {
	case stderrors.Is(err, core.ErrInputTooLarge):
		return http.StatusRequestEntityTooLarge
	case core.IsInputError(err):
		return http.StatusBadRequest
	case core.IsPipelineError(err):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
