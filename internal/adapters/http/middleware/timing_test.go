package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type observed struct {
	method, route string
	status        int
}

func recordInto(out *[]observed) RequestObserver {
	return func(method, route string, status int, _ time.Duration) {
		*out = append(*out, observed{method, route, status})
	}
}

// TestTiming_ReportsMuxPattern verifies the matched pattern, not the raw path, is reported.
func TestTiming_ReportsMuxPattern(t *testing.T) {
	var got []observed
	mux := http.NewServeMux()
	mux.HandleFunc("GET /events/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	handler := Timing(time.Second, recordInto(&got))(mux)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/events/abc-123", nil))

	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
	if len(got) != 1 || got[0].route != "GET /events/{id}" || got[0].status != http.StatusNotFound {
		t.Errorf("observed = %+v", got)
	}
}

// TestTiming_Unmatched verifies requests without a pattern share one label.
func TestTiming_Unmatched(t *testing.T) {
	var got []observed
	handler := Timing(time.Second, recordInto(&got))(http.NotFoundHandler())
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/wp-login.php", nil))
	if len(got) != 1 || got[0].route != "unmatched" {
		t.Errorf("observed = %+v", got)
	}
}

// TestTiming_SkipsAssets verifies static assets and uploads are excluded.
func TestTiming_SkipsAssets(t *testing.T) {
	var got []observed
	handler := Timing(time.Second, recordInto(&got))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	for _, p := range []string{"/static/style.css", "/uploads/a.png"} {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest("GET", p, nil))
		if rr.Code != http.StatusOK {
			t.Errorf("%s: status = %d", p, rr.Code)
		}
	}
	if len(got) != 0 {
		t.Errorf("observed = %+v, want none", got)
	}
}

// TestTiming_NilObserver verifies middleware works without an observer.
func TestTiming_NilObserver(t *testing.T) {
	handler := Timing(0, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
	if rr.Code != http.StatusTeapot {
		t.Errorf("status = %d, want 418", rr.Code)
	}
}
