package web

import (
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// HTTPProtocolMiddleware prevents HTTP/3 QUIC protocol issues in cloud environments.
// Browsers are told not to attempt HTTP/3, which breaks long-lived SSE connections behind some proxies.
func HTTPProtocolMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Alt-Svc", "clear")

		if strings.HasPrefix(r.URL.Path, "/events") {
			// Force HTTP/1.1 semantics for SSE
			w.Header().Set("Connection", "keep-alive")
			w.Header().Set("X-Force-HTTP1", "true")
		}

		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status while staying flushable for SSE
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Flush() {
	if f, ok := s.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// RequestLogger logs every request with its status and duration
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		entry := logrus.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start),
		})
		if strings.HasPrefix(r.URL.Path, "/health") {
			entry.Debug("Request handled")
			return
		}
		entry.Info("Request handled")
	})
}

// WrapMuxWithMiddleware wraps an HTTP mux with the protocol and logging middleware
func WrapMuxWithMiddleware(mux *http.ServeMux) http.Handler {
	return RequestLogger(HTTPProtocolMiddleware(mux))
}
