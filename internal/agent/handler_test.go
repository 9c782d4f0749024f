package agent

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ashureev/apex-collect/internal/identity"
	"github.com/ashureev/apex-collect/internal/prompt"
	"github.com/go-chi/chi/v5"
)

type testClient struct {
	t      *testing.T
	router http.Handler
	cookie *http.Cookie
}

func newTestRouter(t *testing.T, svc *Service) *testClient {
	t.Helper()
	r := chi.NewRouter()
	r.Use(identity.Middleware(identity.NewSigner("test-secret", true)))
	NewHandler(svc).RegisterRoutes(r)
	return &testClient{t: t, router: r}
}

func (c *testClient) post(path, body string) (int, map[string]any) {
	c.t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	rr := httptest.NewRecorder()
	c.router.ServeHTTP(rr, req)

	for _, ck := range rr.Result().Cookies() {
		if ck.Name == identity.SessionCookieName {
			c.cookie = ck
		}
	}

	var out map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		c.t.Fatalf("decode %s response: %v", path, err)
	}
	return rr.Code, out
}

func TestHandlerConversationFlow(t *testing.T) {
	gen := &fakeGenerator{}
	svc, _ := newTestService(t, gen, true)
	client := newTestRouter(t, svc)

	code, body := client.post("/find_customer", `{"customer_name":"jane doe"}`)
	if code != http.StatusOK || body["customer_found"] != true {
		t.Fatalf("find_customer = %d %v", code, body)
	}
	if body["response"] != prompt.CustomerFound("Jane Doe") {
		t.Errorf("unexpected lookup reply %q", body["response"])
	}

	code, body = client.post("/chat", `{"text":"Who is this?"}`)
	if code != http.StatusOK || body["response"] != "Let's talk about your balance." {
		t.Fatalf("chat = %d %v", code, body)
	}
	if gen.callCount() != 1 {
		t.Fatalf("model called %d times, want 1", gen.callCount())
	}
}

func TestHandlerFindCustomerMiss(t *testing.T) {
	svc, _ := newTestService(t, &fakeGenerator{}, true)
	client := newTestRouter(t, svc)

	code, body := client.post("/find_customer", `{"customer_name":"Nobody"}`)
	if code != http.StatusOK || body["customer_found"] != false {
		t.Fatalf("find_customer = %d %v", code, body)
	}

	code, body = client.post("/chat", `{"text":"hi"}`)
	if code != http.StatusOK || body["response"] != prompt.MsgSessionLost {
		t.Fatalf("chat = %d %v", code, body)
	}
}

func TestHandlerFindCustomerBlankName(t *testing.T) {
	svc, _ := newTestService(t, &fakeGenerator{}, true)
	client := newTestRouter(t, svc)

	for _, body := range []string{`{"customer_name":"  "}`, `{}`, `not json`} {
		code, out := client.post("/find_customer", body)
		if code != http.StatusBadRequest || out["response"] != prompt.MsgNameRequired {
			t.Errorf("body %q: got %d %v", body, code, out)
		}
		if _, ok := out["customer_found"]; ok {
			t.Errorf("body %q: customer_found should be omitted", body)
		}
	}
}

func TestHandlerWithoutDataset(t *testing.T) {
	svc, _ := newTestService(t, &fakeGenerator{}, false)
	client := newTestRouter(t, svc)

	code, body := client.post("/find_customer", `{"customer_name":"Jane Doe"}`)
	if code != http.StatusInternalServerError || body["response"] != prompt.MsgLookupDataError {
		t.Fatalf("find_customer = %d %v", code, body)
	}
	code, body = client.post("/chat", `{"text":"hi"}`)
	if code != http.StatusInternalServerError || body["response"] != prompt.MsgChatDataError {
		t.Fatalf("chat = %d %v", code, body)
	}
}

func TestHandlerChatInvalidBodyIsEmptyInput(t *testing.T) {
	gen := &fakeGenerator{}
	svc, _ := newTestService(t, gen, true)
	client := newTestRouter(t, svc)
	client.post("/find_customer", `{"customer_name":"Jane Doe"}`)

	code, body := client.post("/chat", `{"text":`)
	if code != http.StatusOK || body["response"] != prompt.MsgEmptyInput {
		t.Fatalf("chat = %d %v", code, body)
	}
	if gen.callCount() != 0 {
		t.Error("model must not be called for an unreadable body")
	}
}

func TestHandlerSessionsAreIsolated(t *testing.T) {
	svc, _ := newTestService(t, &fakeGenerator{}, true)
	first := newTestRouter(t, svc)
	second := &testClient{t: t, router: first.router}

	first.post("/find_customer", `{"customer_name":"Jane Doe"}`)
	code, body := second.post("/chat", `{"text":"hi"}`)
	if code != http.StatusOK || body["response"] != prompt.MsgSessionLost {
		t.Fatalf("second session should not see the first customer, got %v", body)
	}
}
