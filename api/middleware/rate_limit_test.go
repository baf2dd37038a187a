package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	pkgerrors "github.com/angelmondragon/foodbridge-backend/pkg/errors"
	pkgredis "github.com/angelmondragon/foodbridge-backend/pkg/redis"
)

func TestRateLimit_AllowsUnderLimit(t *testing.T) {
	store := newFakeRateStore()
	policy := NewRateLimitPolicy("donations", time.Minute, 2, 2)
	handler := RateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/donations", strings.NewReader(`{"food_type":"Rice"}`))
	req.RemoteAddr = "1.2.3.4:5678"
	req = req.WithContext(WithDonorID(req.Context(), "donor-1"))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if store.counts["ip:donations:1.2.3.4"] != 1 || store.counts["donor:donations:donor-1"] != 1 {
		t.Fatalf("unexpected counters %+v", store.counts)
	}
}

func TestRateLimit_DonorLimitTriggers(t *testing.T) {
	store := newFakeRateStore()
	store.resetIn = 12*time.Second + 300*time.Millisecond
	policy := NewRateLimitPolicy("donations", time.Minute, 0, 2)
	handler := RateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/donations", nil)
		req.RemoteAddr = "1.2.3.4:5678"
		req = req.WithContext(WithDonorID(req.Context(), "busy-donor"))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		switch {
		case i < 2 && rec.Code != http.StatusOK:
			t.Fatalf("expected success before limit, got %d", rec.Code)
		case i >= 2:
			if rec.Code != http.StatusTooManyRequests {
				t.Fatalf("expected 429, got %d", rec.Code)
			}
			var payload struct {
				Error struct {
					Code    string         `json:"code"`
					Details map[string]any `json:"details"`
				} `json:"error"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
				t.Fatalf("decode error: %v", err)
			}
			if payload.Error.Code != string(pkgerrors.CodeRateLimit) {
				t.Fatalf("unexpected code: %s", payload.Error.Code)
			}
			if payload.Error.Details["scope"] != "donor" {
				t.Fatalf("unexpected details: %+v", payload.Error.Details)
			}
			if got := rec.Header().Get("Retry-After"); got != "13" {
				t.Fatalf("expected Retry-After 13, got %q", got)
			}
		}
	}
}

func TestRateLimit_IPLimitTriggers(t *testing.T) {
	store := newFakeRateStore()
	policy := NewRateLimitPolicy("donations", time.Minute, 1, 0)
	handler := RateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/donations", nil)
		req.Header.Set("X-Forwarded-For", "5.6.7.8, 10.0.0.1")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if i == 0 && rec.Code != http.StatusOK {
			t.Fatalf("expected success, got %d", rec.Code)
		}
		if i == 1 && rec.Code != http.StatusTooManyRequests {
			t.Fatalf("expected 429, got %d", rec.Code)
		}
	}
	if store.counts["ip:donations:5.6.7.8"] != 2 {
		t.Fatalf("expected forwarded ip to be counted, got %+v", store.counts)
	}
}

func TestRateLimit_StoreFailureIsDependencyError(t *testing.T) {
	store := newFakeRateStore()
	store.err = errors.New("redis down")
	policy := NewRateLimitPolicy("donations", time.Minute, 1, 1)
	handler := RateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/donations", nil)
	req.RemoteAddr = "1.2.3.4:5678"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != pkgerrors.MetadataFor(pkgerrors.CodeDependency).HTTPStatus {
		t.Fatalf("expected dependency status, got %d", rec.Code)
	}
}

func TestRateLimit_DisabledPolicyPassesThrough(t *testing.T) {
	handler := RateLimit(NewRateLimitPolicy("donations", 0, 1, 1), newFakeRateStore(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/donations", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected passthrough, got %d", rec.Code)
	}
}

type fakeRateStore struct {
	mu     sync.Mutex
	counts  map[string]int64
	resetIn time.Duration
	err     error
}

func newFakeRateStore() *fakeRateStore {
	return &fakeRateStore{counts: map[string]int64{}}
}

func (f *fakeRateStore) FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (pkgredis.Window, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return pkgredis.Window{}, f.err
	}
	f.counts[scope]++
	return pkgredis.Window{Allowed: f.counts[scope] <= limit, Count: f.counts[scope], ResetIn: f.resetIn}, nil
}

func TestRetryAfterSeconds(t *testing.T) {
	cases := []struct {
		resetIn, window time.Duration
		want            int
	}{
		{resetIn: 30 * time.Second, window: time.Minute, want: 30},
		{resetIn: 1500 * time.Millisecond, window: time.Minute, want: 2},
		{resetIn: 0, window: time.Minute, want: 60},
		{resetIn: time.Millisecond, window: time.Minute, want: 1},
	}
	for _, tc := range cases {
		if got := retryAfterSeconds(tc.resetIn, tc.window); got != tc.want {
			t.Fatalf("retryAfterSeconds(%v, %v) = %d, want %d", tc.resetIn, tc.window, got, tc.want)
		}
	}
}
