package kit

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRateLimiter_BlocksOverLimitPerKey(t *testing.T) {
	rl := NewRateLimiter(2, 60, func(r *http.Request) string {
		return r.Header.Get("X-User-Id")
	})
	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(user string) int {
		req := httptest.NewRequest(http.MethodPost, "/cart/items", nil)
		req.Header.Set("X-User-Id", user)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 2; i++ {
		if code := do("u1"); code != http.StatusOK {
			t.Fatalf("request %d: status %d, want 200", i, code)
		}
	}
	if code := do("u1"); code != http.StatusTooManyRequests {
		t.Fatalf("over-limit request: status %d, want 429", code)
	}

	// A different key has its own budget.
	if code := do("u2"); code != http.StatusOK {
		t.Fatalf("other user: status %d, want 200", code)
	}
}

func TestRateLimiter_NilKeyFnFallsBackToIP(t *testing.T) {
	rl := NewRateLimiter(1, 60, nil)
	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request: status %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: status %d, want 429", rec.Code)
	}
}
