package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

type fakeCaps struct {
	data, ai  bool
	customers int
}

func (f fakeCaps) DataLoaded() bool { return f.data }
func (f fakeCaps) AIEnabled() bool  { return f.ai }
func (f fakeCaps) Customers() int   { return f.customers }

func serve(t *testing.T, h *HealthHandler, path string) (int, map[string]interface{}) {
	t.Helper()
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))

	var body map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return rr.Code, body
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		db         error
		caps       fakeCaps
		wantCode   int
		wantStatus string
	}{
		{"all ok", nil, fakeCaps{data: true, ai: true}, http.StatusOK, "healthy"},
		{"no model", nil, fakeCaps{data: true}, http.StatusOK, "degraded"},
		{"no dataset", nil, fakeCaps{ai: true}, http.StatusOK, "degraded"},
		{"db down", errors.New("closed"), fakeCaps{data: true, ai: true}, http.StatusServiceUnavailable, "unhealthy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := serve(t, NewHealthHandler(fakePinger{tt.db}, tt.caps), "/api/health")
			if code != tt.wantCode {
				t.Errorf("status code = %d, want %d", code, tt.wantCode)
			}
			if body["status"] != tt.wantStatus {
				t.Errorf("status = %v, want %s", body["status"], tt.wantStatus)
			}
		})
	}
}

func TestConfig(t *testing.T) {
	code, body := serve(t, NewHealthHandler(fakePinger{}, fakeCaps{data: true, customers: 3}), "/api/config")
	if code != http.StatusOK {
		t.Fatalf("status code = %d", code)
	}
	if body["ai_enabled"] != false || body["data_loaded"] != true || body["customers"] != float64(3) {
		t.Errorf("unexpected config %v", body)
	}
}
