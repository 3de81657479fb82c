package middleware

import (
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"moodiary/internal/adapters/http/perf"
)

// DefaultSlowRequestMs is the warn threshold when MOODIARY_SLOW_REQUEST_MS
// is unset.
const DefaultSlowRequestMs = 200

func slowRequestThreshold() float64 {
	if v := os.Getenv("MOODIARY_SLOW_REQUEST_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return float64(n)
		}
	}
	return DefaultSlowRequestMs
}

var requestSeq uint64

// statusWriter captures the response status for the request log.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

// Timing returns middleware that logs request duration and feeds the perf
// collector. Requests under /static/ are not recorded. Requests over the
// slow threshold log at WARN, the rest at DEBUG.
func Timing(collector *perf.Collector) func(http.Handler) http.Handler {
	threshold := slowRequestThreshold()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/static/") {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			seq := atomic.AddUint64(&requestSeq, 1)
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			elapsed := float64(time.Since(start).Microseconds()) / 1000.0
			level := slog.LevelDebug
			event := "request"
			if elapsed >= threshold {
				level = slog.LevelWarn
				event = "slow_request"
			}
			slog.Log(r.Context(), level, event,
				"request_id", seq,
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"duration_ms", elapsed,
			)

			if collector != nil {
				collector.Record(perf.Entry{
					Kind:       perf.KindRequest,
					Path:       r.Method + " " + r.URL.Path,
					StatusCode: sw.status,
					DurationMs: elapsed,
					Timestamp:  start,
				})
			}
		})
	}
}
