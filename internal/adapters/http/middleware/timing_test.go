package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"moodiary/internal/adapters/http/perf"
)

func timedHandler(collector *perf.Collector, status int) http.Handler {
	return Timing(collector)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))
}

func TestTiming_RecordsRequestEntry(t *testing.T) {
	collector := perf.NewCollector(100)
	handler := timedHandler(collector, http.StatusOK)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/members", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/notices", nil))

	if got := collector.TotalRecorded(); got != 2 {
		t.Errorf("TotalRecorded = %d, want 2", got)
	}
	snap := collector.Snapshot(time.Time{}, 10)
	if len(snap.SlowestPaths) != 2 {
		t.Errorf("expected two distinct paths, got %+v", snap.SlowestPaths)
	}
}

func TestTiming_StaticAssetsNotRecorded(t *testing.T) {
	collector := perf.NewCollector(100)
	handler := timedHandler(collector, http.StatusOK)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/static/style.css", nil))

	if collector.TotalRecorded() != 0 {
		t.Errorf("TotalRecorded = %d, want 0 for static assets", collector.TotalRecorded())
	}
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}

func TestTiming_CapturesErrorStatus(t *testing.T) {
	collector := perf.NewCollector(100)
	handler := timedHandler(collector, http.StatusNotFound)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/missing", nil))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
	snap := collector.Snapshot(time.Time{}, 10)
	if len(snap.SlowestPaths) != 1 || snap.SlowestPaths[0].Path != "GET /missing" {
		t.Errorf("expected entry for GET /missing, got %+v", snap.SlowestPaths)
	}
}
