package metrics

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func TestServerExposesRegisteredCollectorsOnMetricsPath(t *testing.T) {
	FeedReconnects.WithLabelValues("ticker").Inc()

	s := NewServer(":0", testLogger())
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	s.server.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body, err := io.ReadAll(rec.Result().Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !strings.Contains(string(body), "mmcore_feed_reconnects_total") {
		t.Fatalf("/metrics body missing mmcore_feed_reconnects_total:\n%s", body)
	}
}

func TestServerStopWithoutStartIsSafe(t *testing.T) {
	s := NewServer(":0", testLogger())
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("Stop before Start returned error: %v", err)
	}
}
