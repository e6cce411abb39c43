package ui

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"mlprep/domain/core"
	"mlprep/domain/preprocessing"
	apperrors "mlprep/internal/errors"
)

// uploadRequest is the JSON upload body: row 0 is the header.
// Cells may be strings, numbers, booleans or null.
type uploadRequest struct {
	File [][]interface{} `json:"file"`
}

// readDataset decodes the request body as a multipart file upload or a JSON table
func (s *Server) readDataset(c *gin.Context) (preprocessing.RawDataset, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		return s.readMultipart(c)
	}
	return readJSON(c)
}

func (s *Server) readMultipart(c *gin.Context) (preprocessing.RawDataset, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		if isBodyTooLarge(err) {
			return nil, tooLarge(s.config.Upload.MaxBytes)
		}
		return nil, apperrors.StageFailed(apperrors.StageUpload, apperrors.CodeEmptyInput,
			fmt.Errorf("%w: multipart field \"file\" is required", core.ErrEmptyInput))
	}

	f, err := fileHeader.Open()
	if err != nil {
		return nil, apperrors.StageFailed(apperrors.StageUpload, apperrors.CodeInternalError, err)
	}
	defer f.Close()

	raw, err := s.reader.Read(c.Request.Context(), f, fileHeader.Filename)
	if err != nil {
		if isBodyTooLarge(err) {
			return nil, tooLarge(s.config.Upload.MaxBytes)
		}
		return nil, apperrors.StageFailed(apperrors.StageUpload, apperrors.CodeInvalidInput, err)
	}
	s.logger.Debug("[Server] read %q: %d rows", fileHeader.Filename, len(raw))
	return raw, nil
}

func readJSON(c *gin.Context) (preprocessing.RawDataset, error) {
	decoder := json.NewDecoder(c.Request.Body)
	decoder.UseNumber()

	var req uploadRequest
	if err := decoder.Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if stderrors.As(err, &maxErr) {
			return nil, tooLarge(maxErr.Limit)
		}
		return nil, apperrors.StageFailed(apperrors.StageUpload, apperrors.CodeInvalidInput,
			fmt.Errorf("%w: invalid JSON body: %v", core.ErrUnsupportedInput, err))
	}
	if req.File == nil {
		return nil, apperrors.StageFailed(apperrors.StageUpload, apperrors.CodeEmptyInput,
			fmt.Errorf("%w: field \"file\" is required", core.ErrEmptyInput))
	}

	raw := make(preprocessing.RawDataset, len(req.File))
	for r, row := range req.File {
		cells := make([]string, len(row))
		for c, cell := range row {
			value, err := cellString(cell)
			if err != nil {
				return nil, apperrors.StageFailed(apperrors.StageUpload, apperrors.CodeInvalidInput,
					fmt.Errorf("%w: row %d column %d: %v", core.ErrUnsupportedInput, r, c, err))
			}
			cells[c] = value
		}
		raw[r] = cells
	}
	return raw, nil
}

// cellString turns a decoded JSON cell into its raw string. null becomes "".
func cellString(cell interface{}) (string, error) {
	switch v := cell.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		return "", fmt.Errorf("unsupported cell type %T", cell)
	}
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return stderrors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large")
}

func tooLarge(limit int64) error {
	return apperrors.StageFailed(apperrors.StageUpload, apperrors.CodeInputTooLarge,
		fmt.Errorf("%w: request body exceeds %d bytes", core.ErrInputTooLarge, limit))
}
