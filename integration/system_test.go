//go:build integration
// +build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"testing"
	"time"
)

var baseURL = getenv("E2E_BASE_URL", "http://localhost:8080")

func TestSystem_E2E_ShopFlow(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	waitReady(t, ctx, baseURL+"/readyz")

	userID := fmt.Sprintf("e2e_%d_%d", time.Now().Unix(), rand.Intn(100000))

	var entry struct {
		Options []struct {
			ID    string `json:"id"`
			Price int64  `json:"price"`
		} `json:"options"`
	}
	doJSON(t, http.MethodGet, baseURL+"/products", "", nil, &entry, 200)
	if len(entry.Options) == 0 {
		t.Fatalf("expected non-empty catalog")
	}
	optID := entry.Options[0].ID

	doJSON(t, http.MethodPost, baseURL+"/cart/items", userID,
		map[string]any{"option_id": optID}, nil, 201)
	doJSON(t, http.MethodPost, baseURL+"/cart/items", userID,
		map[string]any{"option_id": optID}, nil, 201)

	var sum struct {
		Total int64 `json:"total"`
	}
	doJSON(t, http.MethodGet, baseURL+"/cart", userID, nil, &sum, 200)
	if want := 2 * entry.Options[0].Price; sum.Total != want {
		t.Fatalf("total = %d, want %d", sum.Total, want)
	}

	if os.Getenv("E2E_RESTART_API") == "1" {
		restartAPIContainer(t, ctx)
		waitReady(t, ctx, baseURL+"/readyz")

		// The cart must survive a process restart.
		doJSON(t, http.MethodGet, baseURL+"/cart", userID, nil, &sum, 200)
		if want := 2 * entry.Options[0].Price; sum.Total != want {
			t.Fatalf("total after restart = %d, want %d", sum.Total, want)
		}
	}

	var rcpt struct {
		OrderID string `json:"order_id"`
		Total   int64  `json:"total"`
	}
	doJSON(t, http.MethodPost, baseURL+"/checkout", userID, nil, &rcpt, 201)
	if rcpt.OrderID == "" || rcpt.Total != sum.Total {
		t.Fatalf("bad receipt: %+v", rcpt)
	}

	doJSON(t, http.MethodGet, baseURL+"/cart", userID, nil, &sum, 200)
	if sum.Total != 0 {
		t.Fatalf("cart not empty after checkout, total = %d", sum.Total)
	}
}

func waitReady(t *testing.T, ctx context.Context, url string) {
	t.Helper()
	client := &http.Client{Timeout: 2 * time.Second}

	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		resp, err := client.Do(req)
		if err == nil && resp != nil && resp.StatusCode == 200 {
			_ = resp.Body.Close()
			return
		}
		if resp != nil {
			_ = resp.Body.Close()
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("service not ready: %s", url)
}

func doJSON(t *testing.T, method, url, userID string, body any, out any, want int) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, url, r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set("X-User-Id", userID)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if resp.StatusCode != want {
		t.Fatalf("%s %s: status %d, want %d (body: %s)", method, url, resp.StatusCode, want, raw)
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			t.Fatalf("unmarshal %s: %v", raw, err)
		}
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
