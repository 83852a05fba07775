package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wgomg/rezumat/internal/utils"
)

const (
	requestIDHeader    = "X-Request-ID"
	maxRequestIDLength = 64
)

// validRequestID accepts a uuid or a short token of letters, digits, '-',
// '_' and '.'.
func validRequestID(reqID string) bool {
	if _, err := uuid.Parse(reqID); err == nil {
		return true
	}
	if reqID == "" || len(reqID) > maxRequestIDLength {
		return false
	}
	for _, c := range reqID {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-', c == '_', c == '.':
		default:
			return false
		}
	}
	return true
}

// requestIDMiddleware reuses a well-formed caller X-Request-ID or assigns
// a new one.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(requestIDHeader)
		if !validRequestID(reqID) {
			reqID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, reqID)
		next.ServeHTTP(w, r.WithContext(utils.WithRequestID(r.Context(), reqID)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(logger *utils.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Info(utils.RequestID(r.Context()), "%s %s %d - %v", r.Method, r.URL.Path, rec.status, time.Since(start))
		})
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+requestIDHeader)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// NewRouter wires the summarizer endpoints. gatherer backs /metrics and may
// be nil to leave the endpoint out.
func NewRouter(logger *utils.Logger, handler *Handler, gatherer prometheus.Gatherer) *mux.Router {
	r := mux.NewRouter()

	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(logger))
	r.Use(corsMiddleware)

	r.HandleFunc("/summarize", handler.HandleSummarize).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/health", handler.HandleHealth).Methods(http.MethodGet)
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	return r
}
