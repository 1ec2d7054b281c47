// internal/middleware/logging.go
package middleware

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// LogMiddleware logs every HTTP request with its method, path, duration,
// and remote address. WebSocket upgrades pass through it too, so the log
// shows a long-duration entry per connection when it finally closes.
func LogMiddleware(logger *logrus.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			logger.WithFields(logrus.Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
				"remote":   r.RemoteAddr,
			}).Info("HTTP Request")
		})
	}
}
