package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/ihuusa2/ihu-usa-sub002/internal/domain"
	"github.com/ihuusa2/ihu-usa-sub002/internal/middleware"
)

// call runs h with a JSON body and the given chi URL params (name, value
// pairs) and decodes the JSON response.
func call(t *testing.T, h http.HandlerFunc, method string, body any, params ...string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, "/", &buf)
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(params); i += 2 {
		rctx.URLParams.Add(params[i], params[i+1])
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if p, ok := principalFor(t); ok {
		ctx = middleware.ContextWithPrincipal(ctx, p)
	}
	rr := httptest.NewRecorder()
	h(rr, req.WithContext(ctx))
	out := map[string]any{}
	if rr.Body.Len() > 0 && rr.Header().Get("Content-Type") == "application/json" {
		if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
			t.Fatalf("decode response %q: %v", rr.Body.String(), err)
		}
	}
	return rr, out
}

var principals = map[string]middleware.Principal{}

func principalFor(t *testing.T) (middleware.Principal, bool) {
	p, ok := principals[t.Name()]
	return p, ok
}

func signInAs(t *testing.T, u *domain.User) {
	t.Helper()
	principals[t.Name()] = middleware.Principal{UserID: u.ID, Email: u.Email, Role: u.Role}
	t.Cleanup(func() { delete(principals, t.Name()) })
}

func errorCode(t *testing.T, body map[string]any) string {
	t.Helper()
	envelope, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("response has no error envelope: %v", body)
	}
	code, _ := envelope["code"].(string)
	return code
}

func fieldErrors(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	fields, ok := body["errors"].(map[string]any)
	if !ok {
		t.Fatalf("response has no field errors: %v", body)
	}
	return fields
}
