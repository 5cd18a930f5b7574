package middleware

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"time"

	"agrorelay/internal/logger"

	"github.com/google/uuid"
)

// RequestIDHeader carries the id assigned to every request.
const RequestIDHeader = "X-Request-ID"

// statusRecorder captures the response status for logging. It forwards
// Flush and Hijack so MJPEG streams and WebSocket upgrades keep working.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("hijacking not supported")
	}
	return h.Hijack()
}

// LoggingMiddleware tags each request with an id and logs method, path,
// status and duration once the handler returns.
func LoggingMiddleware(next http.Handler, logger *logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		defer func() {
			if p := recover(); p != nil {
				logger.Error("[%s] panic serving %s %s: %v", requestID, r.Method, r.URL.Path, p)
				http.Error(rec, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			if rec.status >= http.StatusInternalServerError {
				logger.Error("[%s] %s %s -> %d (%v)", requestID, r.Method, r.URL.Path, rec.status, time.Since(start))
				return
			}
			logger.Info("[%s] %s %s -> %d (%v)", requestID, r.Method, r.URL.Path, rec.status, time.Since(start))
		}()

		next.ServeHTTP(rec, r)
	})
}
