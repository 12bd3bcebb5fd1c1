package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexbridge/src/core/domain"
	"lexbridge/src/infra/config"
	"lexbridge/src/infra/logger"
)

// stubRepo backs the router tests with in-memory storage.
type stubRepo struct {
	recs      map[string]domain.Record
	clock     int64
	healthErr error
}

func newStubRepo() *stubRepo {
	return &stubRepo{recs: make(map[string]domain.Record)}
}

func (s *stubRepo) Health(ctx context.Context) error       { return s.healthErr }
func (s *stubRepo) EnsureSchema(ctx context.Context) error { return nil }

func (s *stubRepo) Upsert(ctx context.Context, rec domain.Record) error {
	s.clock++
	rec.UpdatedAt = time.Unix(s.clock, 0)
	s.recs[rec.ID] = rec
	return nil
}

func (s *stubRepo) List(ctx context.Context, store string) ([]json.RawMessage, error) {
	var matched []domain.Record
	for _, rec := range s.recs {
		if rec.Store == store {
			matched = append(matched, rec)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].UpdatedAt.After(matched[j].UpdatedAt)
	})
	out := make([]json.RawMessage, 0, len(matched))
	for _, rec := range matched {
		out = append(out, rec.Content)
	}
	return out, nil
}

func (s *stubRepo) Delete(ctx context.Context, id string) error {
	delete(s.recs, id)
	return nil
}

func (s *stubRepo) ExportAll(ctx context.Context) (map[string][]json.RawMessage, error) {
	out := make(map[string][]json.RawMessage)
	for _, rec := range s.recs {
		out[rec.Store] = append(out[rec.Store], rec.Content)
	}
	return out, nil
}

func testConfig(dbURL string) *config.Config {
	return &config.Config{
		Server:   config.ServerConfig{Host: "127.0.0.1", Port: 0},
		Database: config.DatabaseConfig{URL: dbURL, Environment: "development"},
		Log:      config.LogConfig{Level: "error", Format: "text"},
	}
}

func testServer(t *testing.T, repo *stubRepo, dbURL string) *Server {
	t.Helper()
	return New(testConfig(dbURL), logger.Discard(), repo)
}

func do(s *Server, method, path string, body []byte) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestStoreLifecycle(t *testing.T) {
	s := testServer(t, newStubRepo(), "postgres://u:p@localhost/records")

	// Create
	rec := do(s, http.MethodPost, "/api/legislators", []byte(`{"id":"a1","name":"X"}`))
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		Success bool   `json:"success"`
		ID      string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.True(t, created.Success)
	assert.Equal(t, "a1", created.ID)

	// Read back
	rec = do(s, http.MethodGet, "/api/legislators", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "X", listed[0]["name"])

	// Delete, twice: both report success
	for i := 0; i < 2; i++ {
		rec = do(s, http.MethodDelete, "/api/legislators/a1", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"success":true,"id":"a1"}`, rec.Body.String())
	}

	// Gone
	rec = do(s, http.MethodGet, "/api/legislators", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestUpsertWithoutIDIsRejected(t *testing.T) {
	s := testServer(t, newStubRepo(), "postgres://u:p@localhost/records")

	rec := do(s, http.MethodPost, "/api/legislators", []byte(`{"name":"X"}`))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Kind    string `json:"error"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "validation_error", body.Kind)
	assert.NotEmpty(t, body.Message)
}

func TestExportEndpoint(t *testing.T) {
	s := testServer(t, newStubRepo(), "postgres://u:p@localhost/records")

	seed := []struct {
		path    string
		payload string
	}{
		{"/api/legislators", `{"id":"a1","name":"X"}`},
		{"/api/legislators", `{"id":"a2","name":"Y"}`},
		{"/api/committees", `{"id":"c1","name":"Budget"}`},
	}
	for _, item := range seed {
		rec := do(s, http.MethodPost, item.path, []byte(item.payload))
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := do(s, http.MethodGet, "/api/system/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var snap struct {
		Version   string                       `json:"version"`
		Timestamp time.Time                    `json:"timestamp"`
		Data      map[string][]json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, "1.0", snap.Version)
	assert.False(t, snap.Timestamp.IsZero())
	assert.Len(t, snap.Data["legislators"], 2)
	assert.Len(t, snap.Data["committees"], 1)
}

func TestHealthEndpoint(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		s := testServer(t, newStubRepo(), "postgres://u:p@localhost/records")

		rec := do(s, http.MethodGet, "/api/health", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "ok", body["status"])
		assert.Equal(t, "connected", body["database"])
		assert.Equal(t, Version, body["version"])
		assert.Equal(t, "development", body["environment"])
	})

	t.Run("unconfigured database", func(t *testing.T) {
		s := testServer(t, newStubRepo(), "")

		rec := do(s, http.MethodGet, "/api/health", nil)
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "error", body["status"])
		assert.Equal(t, "missing_configuration", body["reason"])
	})

	t.Run("placeholder configuration", func(t *testing.T) {
		s := testServer(t, newStubRepo(), "${{Postgres.DATABASE_URL}}")

		rec := do(s, http.MethodGet, "/api/health", nil)
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), "placeholder_configuration")
	})
}

func TestUnknownRouteReturnsJSON(t *testing.T) {
	s := testServer(t, newStubRepo(), "postgres://u:p@localhost/records")

	rec := do(s, http.MethodPut, "/api/legislators/a1", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "not_found")
}
