// Package chi is the HTTP transport for the classification API.
package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/trinetra-labs/trinetra/internal/domain"
	"github.com/trinetra-labs/trinetra/internal/domain/verdict"
	channelrepo "github.com/trinetra-labs/trinetra/internal/repository/channel"
	resultrepo "github.com/trinetra-labs/trinetra/internal/repository/result"
	channeluc "github.com/trinetra-labs/trinetra/internal/usecase/channel"
	classifyuc "github.com/trinetra-labs/trinetra/internal/usecase/classify"
	exportuc "github.com/trinetra-labs/trinetra/internal/usecase/export"
	healthuc "github.com/trinetra-labs/trinetra/internal/usecase/health"
	monitoruc "github.com/trinetra-labs/trinetra/internal/usecase/monitor"
)

// ErrorCode identifies an API error class for clients.
type ErrorCode string

// API error codes.
const (
	CodeBadRequest       ErrorCode = "bad_request"
	CodeValidationFailed ErrorCode = "validation_failed"
	CodeChannelNotFound  ErrorCode = "channel_not_found"
	CodeAlertNotFound    ErrorCode = "alert_not_found"
	CodeUnauthorized     ErrorCode = "unauthorized"
	CodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the classification, channel, and alert endpoints.
type Server struct {
	classify      *classifyuc.Service
	channels      *channeluc.Service
	monitor       *monitoruc.Service
	export        *exportuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	classify *classifyuc.Service,
	channels *channeluc.Service,
	monitor *monitoruc.Service,
	export *exportuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		classify: classify,
		channels: channels,
		monitor:  monitor,
		export:   export,
		health:   health,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrChannelNotFound, http.StatusNotFound, CodeChannelNotFound),
		sentinelHandler(domain.ErrAlertNotFound, http.StatusNotFound, CodeAlertNotFound),
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, CodeValidationFailed),
	}
	return s
}

// Register mounts all routes on the router.
func (s *Server) Register(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/classify", s.Classify)
		r.Route("/channels", func(r chi.Router) {
			r.Post("/", s.AddChannel)
			r.Get("/", s.ListChannels)
			r.Route("/{id}", func(r chi.Router) {
				r.Delete("/", s.RemoveChannel)
				r.Post("/scan", s.ScanChannel)
				r.Get("/results", s.ListResults)
				r.Get("/export", s.ExportResults)
			})
		})
		r.Get("/alerts", s.ListAlerts)
		r.Post("/alerts/{id}/dismiss", s.DismissAlert)
	})
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

type classifyRequest struct {
	Text string `json:"text"`
}

type classifyResponse struct {
	Category           string   `json:"category"`
	Confidence         float64  `json:"confidence"`
	MatchedTerms       []string `json:"matched_terms"`
	CategoriesMatched  int      `json:"categories_matched"`
	HighSignal         bool     `json:"high_signal"`
	SemanticLabel      string   `json:"semantic_label"`
	SemanticConfidence float64  `json:"semantic_confidence"`
}

func classifyToResponse(res verdict.Result) classifyResponse {
	return classifyResponse{
		Category:           string(res.Category()),
		Confidence:         res.Confidence(),
		MatchedTerms:       res.Evidence().Terms(),
		CategoriesMatched:  res.Evidence().CategoriesMatched(),
		HighSignal:         res.Evidence().HasHighSignal(),
		SemanticLabel:      string(res.SemanticLabel()),
		SemanticConfidence: res.SemanticConfidence(),
	}
}

// Classify handles POST /api/v1/classify.
func (s *Server) Classify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	res, err := s.classify.Classify(r.Context(), req.Text)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, classifyToResponse(res))
}

type addChannelRequest struct {
	Link string `json:"link"`
	Name string `json:"name"`
}

// AddChannel handles POST /api/v1/channels.
func (s *Server) AddChannel(w http.ResponseWriter, r *http.Request) {
	var req addChannelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	ch, err := s.channels.Add(r.Context(), req.Link, req.Name)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.Header().Set("Location", "/api/v1/channels/"+ch.ID)
	writeJSON(w, http.StatusCreated, ch)
}

type channelListResponse struct {
	Items []channelrepo.Channel `json:"items"`
	Total int                   `json:"total"`
}

// ListChannels handles GET /api/v1/channels.
func (s *Server) ListChannels(w http.ResponseWriter, r *http.Request) {
	channels, err := s.channels.List(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, channelListResponse{Items: channels, Total: len(channels)})
}

// RemoveChannel handles DELETE /api/v1/channels/{id}.
func (s *Server) RemoveChannel(w http.ResponseWriter, r *http.Request) {
	if err := s.channels.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type scanMessage struct {
	ID     int64     `json:"id"`
	Sender int64     `json:"sender_id"`
	Date   time.Time `json:"date"`
	Text   string    `json:"text"`
}

type scanRequest struct {
	Messages []scanMessage `json:"messages"`
}

// ScanChannel handles POST /api/v1/channels/{id}/scan. The message batch
// comes from the ingestion side; this endpoint classifies and persists
// it in one pass.
func (s *Server) ScanChannel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if _, err := s.channels.Get(r.Context(), id); err != nil {
		s.handleDomainError(w, err)
		return
	}

	var req scanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.Messages) == 0 {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "messages must not be empty")
		return
	}

	msgs := make([]domain.Message, len(req.Messages))
	for i, m := range req.Messages {
		msgs[i] = domain.Message{ID: m.ID, Sender: m.Sender, Date: m.Date, Text: m.Text}
	}

	summary, err := s.monitor.Scan(r.Context(), id, msgs)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

type resultListResponse struct {
	Items []resultrepo.Record `json:"items"`
	Total int                 `json:"total"`
}

// ListResults handles GET /api/v1/channels/{id}/results.
func (s *Server) ListResults(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if _, err := s.channels.Get(r.Context(), id); err != nil {
		s.handleDomainError(w, err)
		return
	}

	limit, err := queryLimit(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}

	records, err := s.monitor.Results(r.Context(), id, limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resultListResponse{Items: records, Total: len(records)})
}

// ExportResults handles GET /api/v1/channels/{id}/export.
func (s *Server) ExportResults(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if _, err := s.channels.Get(r.Context(), id); err != nil {
		s.handleDomainError(w, err)
		return
	}

	limit, err := queryLimit(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "results_"+id+".csv"))
	if err := s.export.WriteCSV(r.Context(), w, id, limit); err != nil {
		// Headers are already out; all we can do is log.
		s.logger.Error("csv export failed", zap.String("channel_id", id), zap.Error(err))
	}
}

type alertListResponse struct {
	Items []resultrepo.Alert `json:"items"`
	Total int                `json:"total"`
}

// ListAlerts handles GET /api/v1/alerts.
func (s *Server) ListAlerts(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	switch status {
	case "", resultrepo.AlertStatusNew, resultrepo.AlertStatusDismissed:
	default:
		writeError(w, http.StatusBadRequest, CodeValidationFailed,
			fmt.Sprintf("status must be %q or %q", resultrepo.AlertStatusNew, resultrepo.AlertStatusDismissed))
		return
	}

	alerts, err := s.monitor.Alerts(r.Context(), status)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, alertListResponse{Items: alerts, Total: len(alerts)})
}

// DismissAlert handles POST /api/v1/alerts/{id}/dismiss.
func (s *Server) DismissAlert(w http.ResponseWriter, r *http.Request) {
	if err := s.monitor.DismissAlert(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func queryLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, fmt.Errorf("limit must be a positive integer")
	}
	return limit, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrChannelNotFound,
		domain.ErrAlertNotFound,
		domain.ErrInvalidInput,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
