package server

import (
	"context"
	"github.com/Geniuskaa/hackathon_registration/internal/config"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type testRoutes struct{}

func (testRoutes) Register(r chi.Router) {
	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pong"))
	})
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
}

func newTestServer(t *testing.T, origins string) *Server {
	t.Helper()
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{Name: "test_total", Help: "test"}))

	conf := &config.Entity{App: config.Application{CorsOrigins: origins}}
	s := NewServer(context.Background(), zaptest.NewLogger(t), chi.NewRouter(), conf)
	s.Init(zap.NewAtomicLevel(), reg, testRoutes{})
	return s
}

func TestRoutesAndMetrics(t *testing.T) {
	s := newTestServer(t, "*")

	tests := []struct {
		path       string
		wantStatus int
		wantBody   string
	}{
		{path: "/ping", wantStatus: http.StatusOK, wantBody: "pong"},
		{path: "/metrics", wantStatus: http.StatusOK, wantBody: "test_total"},
		{path: "/boom", wantStatus: http.StatusInternalServerError, wantBody: "Something going wrong..."},
		{path: "/missing", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("body = %q, want it to contain %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name    string
		origins string
		origin  string
		want    string
	}{
		{name: "any origin", origins: "*", origin: "http://localhost:8080", want: "*"},
		{name: "listed origin", origins: "https://vibe.example, http://localhost:8080", origin: "http://localhost:8080", want: "http://localhost:8080"},
		{name: "unlisted origin", origins: "https://vibe.example", origin: "http://evil.example", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, tt.origins)
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, req)

			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.want {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestShutdownBeforeStart(t *testing.T) {
	s := newTestServer(t, "*")
	if err := s.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown error = %v", err)
	}
}
