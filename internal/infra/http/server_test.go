//go:build !integration

package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"terabox-leech-bot/internal/config"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := zerolog.New(io.Discard)
	s := NewServer(config.HealthConfig{Host: "127.0.0.1", Port: 0}, "test", &logger)
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	t.Run("health returns OK", func(t *testing.T) {
		t.Parallel()
		resp, err := http.Get(srv.URL + "/health")
		if err != nil {
			t.Fatalf("GET /health: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		body, _ := io.ReadAll(resp.Body)
		if string(body) != "OK" {
			t.Errorf("body = %q, want OK", body)
		}
	})

	t.Run("healthz returns JSON status", func(t *testing.T) {
		t.Parallel()
		resp, err := http.Get(srv.URL + "/healthz")
		if err != nil {
			t.Fatalf("GET /healthz: %v", err)
		}
		defer resp.Body.Close()
		var out struct {
			Status        string `json:"status"`
			Service       string `json:"service"`
			Version       string `json:"version"`
			UptimeSeconds int64  `json:"uptime_seconds"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if out.Status != "ok" || out.Service != "terabox-leech-bot" || out.Version != "test" {
			t.Errorf("unexpected payload %+v", out)
		}
	})

	t.Run("metrics endpoint responds", func(t *testing.T) {
		t.Parallel()
		resp, err := http.Get(srv.URL + "/metrics")
		if err != nil {
			t.Fatalf("GET /metrics: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("status = %d", resp.StatusCode)
		}
	})
}
