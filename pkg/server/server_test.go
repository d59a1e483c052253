package server_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/flumotion/depgraph/pkg/config"
	"github.com/flumotion/depgraph/pkg/server"
)

func newTestServer(t *testing.T) (*server.Server, func()) {
	t.Helper()
	s, err := server.New(server.DefaultConfig(), config.Default())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s, func() {}
}

func do(t *testing.T, s *server.Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewBuffer(b)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestServer_AddWorkerThenSchedule(t *testing.T) {
	s, cleanup := newTestServer(t)
	defer cleanup()

	rec := do(t, s, http.MethodPost, "/api/v1/workers", map[string]any{"name": "w1"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(t, s, http.MethodPost, "/api/v1/components", map[string]any{"name": "a", "flow": "f1", "worker": "w1"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(t, s, http.MethodGet, "/api/v1/schedule", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var entries []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(entries) != 1 || entries[0]["kind"] != "WORKER" {
		t.Fatalf("expected a single WORKER entry, got %v", entries)
	}
}

func TestServer_AddWorkerTwiceIsIdempotent(t *testing.T) {
	s, cleanup := newTestServer(t)
	defer cleanup()

	do(t, s, http.MethodPost, "/api/v1/workers", map[string]any{"name": "w1"})
	rec := do(t, s, http.MethodPost, "/api/v1/workers", map[string]any{"name": "w1"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected idempotent 201, got %d", rec.Code)
	}
}

func TestServer_AddComponentDuplicateConflicts(t *testing.T) {
	s, cleanup := newTestServer(t)
	defer cleanup()

	body := map[string]any{"name": "a", "flow": "f1"}
	do(t, s, http.MethodPost, "/api/v1/components", body)
	rec := do(t, s, http.MethodPost, "/api/v1/components", body)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestServer_RemoveUnknownWorkerNotFound(t *testing.T) {
	s, cleanup := newTestServer(t)
	defer cleanup()

	rec := do(t, s, http.MethodDelete, "/api/v1/workers/ghost", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestServer_InvalidSourceSchemaRejected(t *testing.T) {
	s, cleanup := newTestServer(t)
	defer cleanup()

	body := map[string]any{"name": "a", "flow": "f1", "config": map[string]any{"source": 42}}
	rec := do(t, s, http.MethodPost, "/api/v1/components", body)
	if rec.Code != http.StatusPreconditionFailed {
		t.Fatalf("expected 412, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestServer_HealthEndpoints(t *testing.T) {
	s, cleanup := newTestServer(t)
	defer cleanup()

	for _, path := range []string{"/health", "/health/live", "/health/ready"} {
		rec := do(t, s, http.MethodGet, path, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}
