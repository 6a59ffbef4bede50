package nrscope_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	No "github.com/crenna/nrscope/obvy"
)

func TestNewStatsInternal(t *testing.T) {
	s := No.NewStatsInternal()

	if s.Registry == nil {
		t.Fatal("expected a private registry")
	}

	t.Run("Recompute counter increments", func(t *testing.T) {
		s.RecRecompute()
		s.RecRecompute()
		if got := testutil.ToFloat64(s.Recomputes); got != 2 {
			t.Errorf("got %v recomputes, want 2", got)
		}
	})

	t.Run("Websocket frame counter increments", func(t *testing.T) {
		s.RecWSFrame()
		if got := testutil.ToFloat64(s.WSFrames); got != 1 {
			t.Errorf("got %v frames, want 1", got)
		}
	})

	t.Run("HTTP responses count by code and method", func(t *testing.T) {
		s.RecWWW("200", "GET")
		s.RecWWW("200", "GET")
		s.RecWWW("404", "GET")

		if got := testutil.ToFloat64(s.WWW.WithLabelValues("200", "GET")); got != 2 {
			t.Errorf("got %v 200 responses, want 2", got)
		}
		if got := testutil.ToFloat64(s.WWW.WithLabelValues("404", "GET")); got != 1 {
			t.Errorf("got %v 404 responses, want 1", got)
		}
	})
}

func TestStatsHandler(t *testing.T) {
	s := No.NewStatsInternal()
	s.RecRecompute()
	s.RecCompTimer(0.0001)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	s.Handler().ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d", resp.Code, http.StatusOK)
	}

	body := resp.Body.String()
	for _, metric := range []string{
		"nrscope_recomputes_total",
		"nrscope_recompute_duration_seconds",
	} {
		if !strings.Contains(body, metric) {
			t.Errorf("expected %q in the metrics exposition", metric)
		}
	}
}
