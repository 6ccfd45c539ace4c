package oracled

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/GoSim-25-26J-441/routesearch/internal/oracle/oraclev1"
	"github.com/GoSim-25-26J-441/routesearch/pkg/errors"
	"github.com/GoSim-25-26J-441/routesearch/pkg/logger"
)

// maxBodyBytes bounds a request body; 12 points need well under 1 KiB.
const maxBodyBytes = 1 << 20

type HTTPServer struct {
	router  chi.Router
	limiter *RateLimiter
}

// NewHTTPServer builds the HTTP routes. When gatherer is non-nil its
// metrics are exposed on /metrics.
func NewHTTPServer(gatherer prometheus.Gatherer) *HTTPServer {
	s := &HTTPServer{router: chi.NewRouter()}

	s.router.Use(middleware.RequestID)
	s.router.Use(s.recoverer)
	s.router.Use(s.rateLimit)
	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, http.StatusNotFound, "not found")
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	s.router.Get("/healthz", s.handleHealthz)
	s.router.Get(oraclev1.PathHealth, s.handleHealth)
	s.router.Post(oraclev1.PathCalculateDistance, s.handleCalculateDistance)
	if gatherer != nil {
		s.router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	return s
}

func (s *HTTPServer) Handler() http.Handler {
	return s.router
}

func (s *HTTPServer) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleHealth is the liveness probe polled by clients before a run
func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, oraclev1.HealthResponse{Status: oraclev1.HealthyStatus})
}

// handleCalculateDistance handles POST /calculate_distance
func (s *HTTPServer) handleCalculateDistance(w http.ResponseWriter, r *http.Request) {
	var req oraclev1.CalculateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	route, err := req.Route()
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	length, err := evaluate(TransportHTTP, middleware.GetReqID(r.Context()), route)
	if err != nil {
		s.writeError(w, httpStatus(err), errors.UserMessage(err))
		return
	}
	s.writeJSON(w, http.StatusOK, oraclev1.NewCalculateResponse(length))
}

func httpStatus(err error) int {
	if errors.Is(err, errors.ErrCodeInvalidInput) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// recoverer turns a handler panic into a JSON 500
func (s *HTTPServer) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.Error("handler panic", "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()), "panic", rec)
				s.writeError(w, http.StatusInternalServerError, fmt.Sprintf("internal error: %v", rec))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *HTTPServer) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", "error", err)
	}
}

func (s *HTTPServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, oraclev1.ErrorResponse{Error: message})
}
