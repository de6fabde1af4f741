package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/chartpack/pkg/buildinfo"
	"github.com/matzehuels/chartpack/pkg/chart"
	"github.com/matzehuels/chartpack/pkg/dataview"
	"github.com/matzehuels/chartpack/pkg/errors"
	"github.com/matzehuels/chartpack/pkg/pipeline"
	"github.com/matzehuels/chartpack/pkg/visual"
)

// RenderRequest is the body of the render and objects routes.
type RenderRequest struct {
	DataView *dataview.DataView `json:"dataView"`
	Width    float64            `json:"width,omitempty"`
	Height   float64            `json:"height,omitempty"`
	Locale   string             `json:"locale,omitempty"`
	Palette  []string           `json:"palette,omitempty"`
	Scale    float64            `json:"scale,omitempty"`
	Refresh  bool               `json:"refresh,omitempty"`
}

// RenderResponse is returned by the render route for format=json.
type RenderResponse struct {
	Visual   string                  `json:"visual"`
	DataHash string                  `json:"dataHash"`
	CacheHit bool                    `json:"cacheHit"`
	Warnings []errors.Warning        `json:"warnings"`
	Legend   []chart.LegendDataPoint `json:"legend"`
	Report   visual.Report           `json:"report"`
	Stats    pipeline.Stats          `json:"stats"`
}

// VisualInfo describes one registered visual.
type VisualInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Objects     []string `json:"objects"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Get().Version,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.stats.Snapshot())
}

func (s *Server) handleVisuals(w http.ResponseWriter, r *http.Request) {
	infos := s.runner.Registry.Infos()
	out := make([]VisualInfo, 0, len(infos))
	for _, info := range infos {
		out = append(out, VisualInfo{
			Name:        info.Name,
			Description: info.Description,
			Objects:     info.Schema.Names(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts, ok := s.decodeOptions(w, r)
	if !ok {
		return
	}
	f := r.URL.Query().Get("format")
	if f == "" {
		f = pipeline.FormatSVG
	}
	opts.Formats = []string{f}

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("X-Data-Hash", res.DataHash)
	w.Header().Set("X-Cache", cacheStatus(res.CacheHit))
	w.Header().Set("X-Warning-Count", strconv.Itoa(len(res.Warnings)))

	if f == pipeline.FormatJSON {
		writeJSON(w, http.StatusOK, RenderResponse{
			Visual:   opts.Visual,
			DataHash: res.DataHash,
			CacheHit: res.CacheHit,
			Warnings: res.Warnings,
			Legend:   res.Legend,
			Report:   res.Report,
			Stats:    res.Stats,
		})
		return
	}
	w.Header().Set("Content-Type", contentTypes[f])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[f])
}

func (s *Server) handleObjects(w http.ResponseWriter, r *http.Request) {
	opts, ok := s.decodeOptions(w, r)
	if !ok {
		return
	}
	instances, err := s.runner.Objects(r.Context(), opts, chi.URLParam(r, "object"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, instances)
}

// decodeOptions reads the request body into render options for the
// visual named in the path. On failure the error response is written.
func (s *Server) decodeOptions(w http.ResponseWriter, r *http.Request) (pipeline.Options, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	var req RenderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return pipeline.Options{}, false
	}
	return pipeline.Options{
		Visual:   chi.URLParam(r, "type"),
		DataView: req.DataView,
		Width:    req.Width,
		Height:   req.Height,
		Locale:   req.Locale,
		Palette:  req.Palette,
		Scale:    req.Scale,
		Refresh:  req.Refresh,
		Logger:   loggerFrom(r.Context(), s.logger),
	}, true
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(errors.GetCode(err))
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	logger := loggerFrom(r.Context(), s.logger)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "error", err)
	} else {
		logger.Debug("request rejected", "error", err)
	}
	writeJSON(w, status, ErrorResponse{Code: code, Message: errors.UserMessage(err)})
}

func statusOf(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidData, errors.ErrCodeInvalidDataView,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case errors.ErrCodeInvalidVisual, errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case errors.ErrCodeNetwork:
		return http.StatusBadGateway
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
