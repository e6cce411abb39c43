package ui

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"mlprep/app"
	"mlprep/domain/algorithm"
	"mlprep/domain/preprocessing"
	apperrors "mlprep/internal/errors"
	"mlprep/internal/report"
)

// datasetResponse is the processed dataset as returned to clients
type datasetResponse struct {
	Fingerprint        string                           `json:"fingerprint"`
	Header             []string                         `json:"header"`
	Label              preprocessing.LabelInfo          `json:"label"`
	ClassificationType preprocessing.ClassificationType `json:"classification_type"`
	Columns            []preprocessing.ColumnProfile    `json:"columns"`
	Sanitize           preprocessing.SanitizeReport     `json:"sanitize"`
	Rows               [][]float64                      `json:"rows"`
}

// uploadResponse adds the algorithm outcomes of one run
type uploadResponse struct {
	RunID string `json:"run_id"`
	datasetResponse
	Results    []algorithm.Result  `json:"results"`
	Failures   []algorithm.Failure `json:"failures"`
	DurationMs int64               `json:"duration_ms"`
}

type errorBody struct {
	Code    string `json:"code"`
	Stage   string `json:"stage,omitempty"`
	Message string `json:"message"`
}

func newDatasetResponse(d *preprocessing.ProcessedDataset) datasetResponse {
	resp := datasetResponse{
		Fingerprint:        d.Fingerprint.String(),
		Header:             d.Header,
		Label:              d.Label,
		ClassificationType: d.Label.ClassificationType,
		Sanitize:           d.Sanitize,
		Rows:               d.Rows,
	}
	if d.Profile != nil {
		resp.Columns = d.Profile.Columns
	}
	return resp
}

func newUploadResponse(r *app.ApplyResult) uploadResponse {
	return uploadResponse{
		RunID:           r.RunID.String(),
		datasetResponse: newDatasetResponse(r.Dataset),
		Results:         r.Results,
		Failures:        r.Failures,
		DurationMs:      r.DurationMs,
	}
}

// handleUpload preprocesses the upload and runs every registered algorithm on it
func (s *Server) handleUpload(c *gin.Context) {
	raw, err := s.readDataset(c)
	if err != nil {
		s.writeError(c, err)
		return
	}

	result, err := s.service.ApplyML(c.Request.Context(), raw)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, newUploadResponse(result))
}

// handlePreprocess runs the pipeline only
func (s *Server) handlePreprocess(c *gin.Context) {
	raw, err := s.readDataset(c)
	if err != nil {
		s.writeError(c, err)
		return
	}

	dataset, err := s.service.Preprocess(c.Request.Context(), raw)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respond(c, newDatasetResponse(dataset))
}

func (s *Server) handleAlgorithms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"algorithms": s.service.Algorithms()})
}

// handleDownloadReport serves the static report page
func (s *Server) handleDownloadReport(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", report.PlaceholderHTML())
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"algorithms": len(s.service.Algorithms()),
	})
}

// respond encodes body before writing the status, so a body that cannot be
// encoded (a NaN prediction, say) becomes an error response instead of an empty 200.
func (s *Server) respond(c *gin.Context, body interface{}) {
	data, err := json.Marshal(body)
	if err != nil {
		s.writeError(c, apperrors.StageFailed(apperrors.StageRespond, apperrors.CodeInternalError, err))
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

// writeError answers with {"error": {code, stage, message}}
func (s *Server) writeError(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	code := apperrors.GetCode(err)
	if code == "UNKNOWN" {
		code = apperrors.CodeInternalError
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("[Server] %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	}

	c.AbortWithStatusJSON(status, gin.H{"error": errorBody{
		Code:    code,
		Stage:   apperrors.GetStage(err),
		Message: err.Error(),
	}})
}
