package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type fakeStore struct {
	counts map[string]int64
	keys   []string
	err    error
}

func newFakeStore() *fakeStore {
	return &fakeStore{counts: map[string]int64{}}
}

func (f *fakeStore) IncrWithTTL(_ context.Context, key string, _ time.Duration) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.counts[key]++
	f.keys = append(f.keys, key)
	return f.counts[key], nil
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func loginRequest(ip, email string) *http.Request {
	r := httptest.NewRequest("POST", "/auth/", strings.NewReader(`{"username":"`+email+`","password":"x"}`))
	r.RemoteAddr = ip + ":51234"
	return r
}

func TestAuthRateLimitDisabledPolicyPassesThrough(t *testing.T) {
	store := newFakeStore()
	policy := NewAuthRateLimitPolicy("login", 0, 5, 5)
	handler := AuthRateLimit(policy, store, testLogger())(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("10.0.0.1", "ana@example.com"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(store.keys) != 0 {
		t.Fatalf("disabled policy must not touch the store, got %v", store.keys)
	}
}

func TestAuthRateLimitNilStorePassesThrough(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", time.Minute, 1, 1)
	handler := AuthRateLimit(policy, nil, testLogger())(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("10.0.0.1", "ana@example.com"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthRateLimitBlocksByIP(t *testing.T) {
	store := newFakeStore()
	policy := NewAuthRateLimitPolicy("login", time.Minute, 2, 0)
	handler := AuthRateLimit(policy, store, testLogger())(okHandler())

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, loginRequest("10.0.0.1", "ana@example.com"))
		if rec.Code != http.StatusOK {
			t.Fatalf("attempt %d: expected 200, got %d", i+1, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("10.0.0.1", "ana@example.com"))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}

	// A different IP is counted separately.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("10.0.0.2", "ana@example.com"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for a fresh ip, got %d", rec.Code)
	}

	if store.keys[0] != "rl:ip:login:10.0.0.1" {
		t.Fatalf("unexpected ip key %q", store.keys[0])
	}
}

func TestAuthRateLimitBlocksByEmail(t *testing.T) {
	store := newFakeStore()
	policy := NewAuthRateLimitPolicy("login", time.Minute, 0, 1)
	handler := AuthRateLimit(policy, store, testLogger())(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("10.0.0.1", "Ana@Example.com"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	// Same address from a different IP and with different casing still
	// counts against the same bucket.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("10.0.0.9", "ana@example.com"))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}

	if !strings.HasPrefix(store.keys[0], "rl:email:login:") {
		t.Fatalf("unexpected email key %q", store.keys[0])
	}
	if strings.Contains(store.keys[0], "ana@example.com") {
		t.Fatal("the raw address must never reach the store")
	}
}

func TestAuthRateLimitLeavesBodyReadable(t *testing.T) {
	store := newFakeStore()
	policy := NewAuthRateLimitPolicy("login", time.Minute, 0, 5)

	var seenBody string
	handler := AuthRateLimit(policy, store, testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body failed: %v", err)
		}
		seenBody = string(body)
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("10.0.0.1", "ana@example.com"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(seenBody, "ana@example.com") {
		t.Fatalf("downstream handler must still see the body, got %q", seenBody)
	}
}

func TestAuthRateLimitStoreFailure(t *testing.T) {
	store := newFakeStore()
	store.err = errors.New("redis down")
	policy := NewAuthRateLimitPolicy("login", time.Minute, 1, 0)
	handler := AuthRateLimit(policy, store, testLogger())(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("10.0.0.1", "ana@example.com"))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 on store failure, got %d", rec.Code)
	}
}
