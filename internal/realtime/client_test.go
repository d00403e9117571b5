package realtime

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ifor-lux/luxconsole/internal/config"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.New()
	cfg.DatabaseURL = srv.URL
	cfg.DatabaseSecret = "test-secret"

	client, err := NewClient(cfg, nil)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return client
}

// TestNewClientRequiresDatabaseURL verifies the admin features stay
// cleanly disabled without a configured database.
func TestNewClientRequiresDatabaseURL(t *testing.T) {
	cfg := config.New()
	if _, err := NewClient(cfg, nil); err != ErrNotConfigured {
		t.Errorf("NewClient() error = %v, want ErrNotConfigured", err)
	}
}

// TestNodeAddressing verifies the {path}.json?auth= shape of every request.
func TestNodeAddressing(t *testing.T) {
	var gotPath, gotAuth string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.URL.Query().Get("auth")
		io.WriteString(w, "null")
	}))

	var out map[string]any
	if err := client.Get(context.Background(), "users", &out); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if gotPath != "/users.json" {
		t.Errorf("path = %q, want /users.json", gotPath)
	}
	if gotAuth != "test-secret" {
		t.Errorf("auth = %q, want test-secret", gotAuth)
	}
	if out != nil {
		t.Errorf("null node decoded to %v, want untouched nil", out)
	}
}

// TestPushReturnsGeneratedKey verifies push decodes the server-assigned key.
func TestPushReturnsGeneratedKey(t *testing.T) {
	var gotMethod string
	var gotBody map[string]any
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		json.NewDecoder(r.Body).Decode(&gotBody)
		io.WriteString(w, `{"name":"-NxA1b2C3"}`)
	}))

	key, err := client.Push(context.Background(), "notifications", map[string]string{"title": "hi"})
	if err != nil {
		t.Fatalf("Push() error = %v", err)
	}
	if gotMethod != http.MethodPost {
		t.Errorf("method = %q, want POST", gotMethod)
	}
	if key != "-NxA1b2C3" {
		t.Errorf("key = %q, want -NxA1b2C3", key)
	}
	if gotBody["title"] != "hi" {
		t.Errorf("body = %v, want title hi", gotBody)
	}
}

// TestErrorResponseCarriesMessage verifies the database's error field is
// surfaced.
func TestErrorResponseCarriesMessage(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"error":"Permission denied"}`)
	}))

	err := client.Set(context.Background(), "app_update", map[string]string{})
	if err == nil {
		t.Fatal("Set() error = nil, want permission failure")
	}
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("Set() error type = %T, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized || apiErr.Message != "Permission denied" {
		t.Errorf("APIError = %+v", apiErr)
	}
}

// TestUpdatePatchesFields verifies a field patch goes out as PATCH with
// only the named fields.
func TestUpdatePatchesFields(t *testing.T) {
	var gotMethod string
	var gotBody map[string]any
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		json.NewDecoder(r.Body).Decode(&gotBody)
		io.WriteString(w, `{}`)
	}))

	err := client.Update(context.Background(), "users/abc", map[string]any{"username": "new"})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if gotMethod != http.MethodPatch {
		t.Errorf("method = %q, want PATCH", gotMethod)
	}
	if len(gotBody) != 1 || gotBody["username"] != "new" {
		t.Errorf("body = %v, want single username field", gotBody)
	}
}
