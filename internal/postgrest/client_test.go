package postgrest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestGetJSON_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"l1","sl_id":"SL-001"}]`))
	}))
	defer srv.Close()

	c := New(srv.URL, "key")
	var dest []map[string]any
	err := c.GetJSON(context.Background(), "official_lights", nil, &dest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dest) != 1 || dest[0]["id"] != "l1" {
		t.Fatalf("unexpected result: %+v", dest)
	}
}

func TestGetJSON_AuthHeaders(t *testing.T) {
	var gotAPIKey, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAPIKey = r.Header.Get("apikey")
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := New(srv.URL, "anon-key-123")
	var dest []map[string]any
	if err := c.GetJSON(context.Background(), "reports", nil, &dest); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAPIKey != "anon-key-123" {
		t.Fatalf("expected apikey header, got %q", gotAPIKey)
	}
	if gotAuth != "Bearer anon-key-123" {
		t.Fatalf("expected 'Bearer anon-key-123', got %q", gotAuth)
	}
}

func TestGetJSON_TablePathAndQuery(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := New(srv.URL, "key")
	q := NewQuery().Select("id").Limit(10)
	var dest []map[string]any
	if err := c.GetJSON(context.Background(), "reports", q.Values(), &dest); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/reports" {
		t.Fatalf("unexpected path: %q", gotPath)
	}
	// url.Values.Encode sorts keys alphabetically
	if gotQuery != "limit=10&select=id" {
		t.Fatalf("unexpected query: %q", gotQuery)
	}
}

func TestGetJSON_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(400)
		w.Write([]byte(`{"message":"bad filter"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "key")
	var dest []map[string]any
	err := c.GetJSON(context.Background(), "reports", nil, &dest)
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != 400 {
		t.Fatalf("expected status 400, got %d", apiErr.StatusCode)
	}
	if apiErr.Body != `{"message":"bad filter"}` {
		t.Fatalf("unexpected body: %q", apiErr.Body)
	}
}

func TestGetJSON_RetryOn5xx(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(503)
			w.Write([]byte(`service unavailable`))
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := New(srv.URL, "key")
	var dest []map[string]any
	start := time.Now()
	err := c.GetJSON(context.Background(), "reports", nil, &dest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 900*time.Millisecond {
		t.Fatalf("expected ~1s backoff before retry, got %v", elapsed)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 calls, got %d", calls.Load())
	}
}

func TestGetJSON_RateLimit_RetryAfter(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(429)
			w.Write([]byte(`rate limited`))
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := New(srv.URL, "key")
	var dest []map[string]any
	err := c.GetJSON(context.Background(), "reports", nil, &dest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 calls, got %d", calls.Load())
	}
}

func TestPostJSON_InsertsRow(t *testing.T) {
	var gotMethod, gotPrefer string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPrefer = r.Header.Get("Prefer")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(201)
	}))
	defer srv.Close()

	c := New(srv.URL, "key")
	err := c.PostJSON(context.Background(), "reports", map[string]string{"light_id": "l1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotMethod != http.MethodPost {
		t.Fatalf("expected POST, got %s", gotMethod)
	}
	if gotPrefer != "return=minimal" {
		t.Fatalf("expected Prefer return=minimal, got %q", gotPrefer)
	}
	if gotBody["light_id"] != "l1" {
		t.Fatalf("unexpected body: %+v", gotBody)
	}
}

func TestPostJSON_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(409)
		w.Write([]byte(`duplicate key`))
	}))
	defer srv.Close()

	c := New(srv.URL, "key")
	err := c.PostJSON(context.Background(), "reports", map[string]string{"id": "r1"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != 409 {
		t.Fatalf("expected 409 *APIError, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected 1 call, got %d", calls.Load())
	}
}
