package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/matzehuels/chartdot/pkg/buildinfo"
	cderrors "github.com/matzehuels/chartdot/pkg/errors"
	"github.com/matzehuels/chartdot/pkg/io"
	"github.com/matzehuels/chartdot/pkg/pipeline"
)

// renderFormats are the formats the API serves, with their content types.
var renderFormats = map[string]string{
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatJSON: "application/json",
}

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: buildinfo.Version})
}

// handleRender converts the JSON model in the request body.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatDOT
	}
	contentType, ok := renderFormats[format]
	if !ok {
		s.writeError(w, r, cderrors.New(cderrors.ErrCodeInvalidInput,
			"format %q not served over HTTP (want dot, svg or json)", format))
		return
	}

	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	c, err := io.ReadJSON(body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	logger := s.cfg.Logger.With("request_id", requestIDFrom(r.Context()))
	result, err := s.cfg.Runner.Execute(r.Context(), c, pipeline.Options{
		Formats: []string{format},
		Refresh: r.URL.Query().Get("refresh") == "true",
		Now:     s.cfg.Now,
		Logger:  logger,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	cacheStatus := "MISS"
	if result.CacheInfo.RenderHit {
		cacheStatus = "HIT"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Cache", cacheStatus)
	w.Header().Set("X-Chart-States", strconv.Itoa(result.Stats.StateCount))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

// statusFor maps an error to an HTTP status code.
func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	switch cderrors.GetCode(err) {
	case cderrors.ErrCodeInvalidInput, cderrors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case cderrors.ErrCodeInvalidModel, cderrors.ErrCodeCyclicModel, cderrors.ErrCodeStateNotFound:
		return http.StatusUnprocessableEntity
	case cderrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	if cderrors.IsClientError(err) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := string(cderrors.GetCode(err))
	if status == http.StatusRequestEntityTooLarge {
		code = string(cderrors.ErrCodeInvalidInput)
	}

	msg := cderrors.UserMessage(err)
	if status >= http.StatusInternalServerError {
		s.cfg.Logger.Error("render failed", "error", err, "request_id", requestIDFrom(r.Context()))
		msg = "internal error"
	}

	writeJSON(w, status, errorResponse{
		Error:     msg,
		Code:      code,
		RequestID: requestIDFrom(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
