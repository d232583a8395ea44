package middleware

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// RequestIDHeader carries the id assigned to each request.
const RequestIDHeader = "X-Request-ID"

// AccessLog emits one line per request:
//
//	<client-ip> - "<method> <path> <proto>" <status> <duration>s
func AccessLog(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := r.Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = uuid.New().String()
			}
			w.Header().Set(RequestIDHeader, requestID)

			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r)

			logger.Info(FormatAccessLine(r, rec.status, time.Since(start)), "request_id", requestID)
		})
	}
}

// FormatAccessLine renders the access log message for a finished request.
func FormatAccessLine(r *http.Request, status int, elapsed time.Duration) string {
	return fmt.Sprintf(`%s - "%s %s %s" %d %.4fs`,
		clientIP(r), r.Method, r.URL.RequestURI(), r.Proto, status, elapsed.Seconds())
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
