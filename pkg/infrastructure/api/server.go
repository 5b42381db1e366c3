// Package api serves the utilization queries over HTTP as JSON.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/felixgeelhaar/loadline/pkg/application"
	"github.com/felixgeelhaar/loadline/pkg/domain/capacity"
)

// QueryService answers the three read queries.
type QueryService interface {
	Forecast(ctx context.Context, q application.Query) (*application.ForecastReport, error)
	Bottlenecks(ctx context.Context, q application.Query) (*application.BottleneckReport, error)
	Balancing(ctx context.Context, q application.Query) (*application.BalancingReport, error)
}

// Error codes returned in error bodies.
const (
	CodeInvalidRange = "invalid_range"
	CodeUpstreamData = "upstream_data"
	CodeInternal     = "internal"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Server is the HTTP API server.
type Server struct {
	addr    string
	service QueryService
	logger  zerolog.Logger
	server  *http.Server
}

// NewServer creates a new API server.
func NewServer(addr string, service QueryService, logger zerolog.Logger) *Server {
	return &Server{
		addr:    addr,
		service: service,
		logger:  logger,
	}
}

// Handler returns the routed handler without starting a listener.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/forecast", s.handleForecast)
	mux.HandleFunc("GET /api/bottlenecks", s.handleBottlenecks)
	mux.HandleFunc("GET /api/balancing", s.handleBalancing)

	return mux
}

// Start listens on the configured address until Shutdown is called.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	s.logger.Info().Str("addr", s.addr).Msg("api server starting")
	err := s.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	q, ok := s.parseQuery(w, r, true)
	if !ok {
		return
	}
	report, err := s.service.Forecast(r.Context(), q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleBottlenecks(w http.ResponseWriter, r *http.Request) {
	q, ok := s.parseQuery(w, r, false)
	if !ok {
		return
	}
	report, err := s.service.Bottlenecks(r.Context(), q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleBalancing(w http.ResponseWriter, r *http.Request) {
	q, ok := s.parseQuery(w, r, false)
	if !ok {
		return
	}
	report, err := s.service.Balancing(r.Context(), q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

// parseQuery reads startDate, endDate, months and, when allowed,
// resourceIds. It writes the error response itself on failure.
func (s *Server) parseQuery(w http.ResponseWriter, r *http.Request, withResources bool) (application.Query, bool) {
	values := r.URL.Query()
	params := application.QueryParams{
		StartDate: values.Get("startDate"),
		EndDate:   values.Get("endDate"),
		Months:    values.Get("months"),
	}
	if withResources {
		params.ResourceIDs = values.Get("resourceIds")
	}
	q, err := params.Query()
	if err != nil {
		s.writeError(w, r, err)
		return application.Query{}, false
	}
	return q, true
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := http.StatusInternalServerError, ErrorResponse{Error: "internal server error", Code: CodeInternal}
	switch {
	case errors.Is(err, capacity.ErrInvalidRange):
		status, body = http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: CodeInvalidRange}
	case errors.Is(err, capacity.ErrUpstreamData):
		status, body = http.StatusBadGateway, ErrorResponse{Error: err.Error(), Code: CodeUpstreamData}
	}

	s.logger.Warn().Err(err).Str("path", r.URL.Path).Int("status", status).Msg("request failed")
	s.writeJSON(w, status, body)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Msg("encode response")
	}
}
