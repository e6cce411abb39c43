package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"mlprep/domain/core"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"empty input", StageFailed(StageValidate, CodeEmptyInput, core.ErrEmptyInput), http.StatusBadRequest},
		{"too large", StageFailed(StageUpload, CodeInputTooLarge, core.ErrInputTooLarge), http.StatusRequestEntityTooLarge},
		{"malformed", StageFailed(StageValidate, CodeMalformedRow, core.ErrMalformedRow), http.StatusUnprocessableEntity},
		{"empty dataset", StageFailed(StageSanitize, CodeEmptyDataset, core.ErrEmptyDataset), http.StatusUnprocessableEntity},
		{"label", StageFailed(StageLabel, CodeLabelResolution, core.ErrLabelResolution), http.StatusUnprocessableEntity},
		{"non-finite", StageFailed(StageEncode, CodeNonFiniteValue, core.ErrNonFiniteValue), http.StatusUnprocessableEntity},
		{"plain non-finite", fmt.Errorf("encode: %w", core.ErrNonFiniteValue), http.StatusUnprocessableEntity},
		{"wrapped app error", Wrap(StageFailed(StageSanitize, CodeEmptyDataset, core.ErrEmptyDataset), "upload"), http.StatusUnprocessableEntity},
		{"plain unsupported input", fmt.Errorf("read: %w", core.ErrUnsupportedInput), http.StatusBadRequest},
		{"plain too large", fmt.Errorf("read: %w", core.ErrInputTooLarge), http.StatusRequestEntityTooLarge},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
