package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/heritagehub/heritage-hub/internal/core/domain"
)

const defaultMaxUploadBytes = 20 << 20

type analyzeRequest struct {
	Text   string            `json:"text"`
	Blocks []domain.OCRBlock `json:"blocks"`
}

type analyzeResponse struct {
	Status            string                `json:"status"`
	ExtractedText     string                `json:"extracted_text"`
	NIGOErrors        []domain.Finding      `json:"nigo_errors"`
	NIGOStatus        domain.NIGOStatus     `json:"nigo_status"`
	ConfidenceScore   float64               `json:"confidence_score"`
	TotalChecks       int                   `json:"total_checks"`
	PassedChecks      int                   `json:"passed_checks"`
	ConfidenceLevel   domain.ConfidenceTier `json:"confidence_level"`
	Review            domain.ReviewMode     `json:"review"`
	TotalAccountValue float64               `json:"total_account_value"`
}

func newAnalyzeResponse(a *domain.DocumentAnalysis) analyzeResponse {
	findings := a.Check.Errors
	if findings == nil {
		findings = []domain.Finding{}
	}
	return analyzeResponse{
		Status:            "success",
		ExtractedText:     a.ExtractedText,
		NIGOErrors:        findings,
		NIGOStatus:        a.Check.NIGOStatus,
		ConfidenceScore:   a.Check.ConfidenceScore,
		TotalChecks:       a.Check.TotalChecks,
		PassedChecks:      a.Check.PassedChecks,
		ConfidenceLevel:   a.ConfidenceLevel,
		Review:            a.Review,
		TotalAccountValue: a.TotalAccountValue,
	}
}

// analyzeDocument checks either an uploaded file or a JSON transcript.
func (rt *Router) analyzeDocument(w http.ResponseWriter, r *http.Request) {
	var (
		analysis *domain.DocumentAnalysis
		err      error
	)
	if isJSONRequest(r) {
		var req analyzeRequest
		if err := decodeJSON(r, &req, true); err != nil {
			writeError(w, r, err)
			return
		}
		analysis, err = rt.svc.Analyzer.AnalyzeTranscript(r.Context(), domain.Transcript{Text: req.Text, Blocks: req.Blocks})
	} else {
		file, uploadErr := rt.readUpload(w, r)
		if uploadErr != nil {
			writeError(w, r, uploadErr)
			return
		}
		analysis, err = rt.svc.Analyzer.AnalyzeFile(r.Context(), file)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	if rt.metrics != nil {
		rt.metrics.RecordCheck(serviceName, *analysis)
	}
	writeJSON(w, http.StatusOK, newAnalyzeResponse(analysis))
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	if rt.svc.Ingestor == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "asynchronous ingest is disabled"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, rt.maxUploadBytes())
	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, uploadError(err))
		return
	}
	defer file.Close()

	doc, err := rt.svc.Ingestor.Upload(
		r.Context(),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
	)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusAccepted, doc)
}

func (rt *Router) getDocument(w http.ResponseWriter, r *http.Request) {
	if rt.svc.Documents == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "asynchronous ingest is disabled"})
		return
	}

	doc, err := rt.svc.Documents.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (rt *Router) maxUploadBytes() int64 {
	if rt.cfg.APIMaxUploadBytes > 0 {
		return rt.cfg.APIMaxUploadBytes
	}
	return defaultMaxUploadBytes
}

// readUpload reads the multipart field "file" into memory.
func (rt *Router) readUpload(w http.ResponseWriter, r *http.Request) (domain.File, error) {
	r.Body = http.MaxBytesReader(w, r.Body, rt.maxUploadBytes())
	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		return domain.File{}, uploadError(err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return domain.File{}, uploadError(err)
	}
	return domain.File{
		Name:     fileHeader.Filename,
		MimeType: fileHeader.Header.Get("Content-Type"),
		Data:     data,
	}, nil
}

func uploadError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return domain.WrapError(domain.ErrInvalidInput, "read upload", fmt.Errorf("file exceeds %d bytes", tooLarge.Limit))
	}
	return invalidInput("read upload", "multipart field 'file' is required")
}

// decodeJSON reads a JSON body into dst. An empty body is accepted only when
// required is false.
func decodeJSON(r *http.Request, dst any, required bool) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF) && !required:
		return nil
	case errors.Is(err, io.EOF):
		return invalidInput("decode request", "request body is required")
	default:
		return domain.WrapError(domain.ErrInvalidInput, "decode request", fmt.Errorf("invalid json: %s", strings.TrimSpace(err.Error())))
	}
}
