package diag

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bimakw/arbiscan-bot/internal/domain/entities"
	"github.com/bimakw/arbiscan-bot/internal/domain/registry"
)

func TestHealthz(t *testing.T) {
	reg := &registry.BestTradeRegistry{}
	srv := NewServer(":0", reg)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	srv.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["status"] != "ok" {
		t.Fatalf("status field = %q, want ok", body["status"])
	}
}

func TestBestTradeEndpoint(t *testing.T) {
	reg := &registry.BestTradeRegistry{}
	reg.TryUpdate(entities.BestTrade{ProfitUSDC: 42.5, BuyFee: 500})

	srv := NewServer(":0", reg)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/debug/best-trade", nil)
	srv.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["profit_usdc"].(float64) != 42.5 {
		t.Fatalf("profit_usdc = %v, want 42.5", body["profit_usdc"])
	}
	if body["non_initial"].(bool) != true {
		t.Fatalf("non_initial = %v, want true", body["non_initial"])
	}
}
