package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCORS(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	tests := []struct {
		name        string
		allowed     []string
		method      string
		origin      string
		wantCode    int
		wantOrigin  string
		wantCredits string
	}{
		{"same origin", []string{"https://ui.example"}, http.MethodPost, "", http.StatusOK, "", ""},
		{"explicit origin", []string{"https://ui.example"}, http.MethodPost, "https://ui.example", http.StatusOK, "https://ui.example", "true"},
		{"wildcard", []string{"*"}, http.MethodPost, "https://other.example", http.StatusOK, "https://other.example", ""},
		{"rejected origin", []string{"https://ui.example"}, http.MethodPost, "https://evil.example", http.StatusOK, "", ""},
		{"preflight", []string{"https://ui.example"}, http.MethodOptions, "https://ui.example", http.StatusNoContent, "https://ui.example", "true"},
		{"rejected preflight", []string{"https://ui.example"}, http.MethodOptions, "https://evil.example", http.StatusForbidden, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/chat", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rr := httptest.NewRecorder()
			CORS(tt.allowed)(ok).ServeHTTP(rr, req)

			if rr.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rr.Code, tt.wantCode)
			}
			if got := rr.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("allow-origin = %q, want %q", got, tt.wantOrigin)
			}
			if got := rr.Header().Get("Access-Control-Allow-Credentials"); got != tt.wantCredits {
				t.Errorf("allow-credentials = %q, want %q", got, tt.wantCredits)
			}
		})
	}
}
