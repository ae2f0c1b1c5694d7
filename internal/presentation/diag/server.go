// Package diag implements C12: a small chi-routed HTTP server exposing
// liveness and the current best-trade snapshot, grounded on the teacher's
// cmd/api/main.go router setup and health_handler.go.
package diag

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/bimakw/arbiscan-bot/internal/domain/registry"
)

const version = "0.1.0"

// NewServer builds the diagnostics HTTP server. It is not started here;
// callers own ListenAndServe/Shutdown the way the teacher's main did.
func NewServer(addr string, reg *registry.BestTradeRegistry) *http.Server {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))

	r.Get("/healthz", healthHandler)
	r.Get("/debug/best-trade", bestTradeHandler(reg))

	return &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version,
	})
}

func bestTradeHandler(reg *registry.BestTradeRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		trade := reg.Snapshot()
		writeJSON(w, http.StatusOK, map[string]any{
			"profit_usdc":    trade.ProfitUSDC,
			"buy_dex":        trade.BuyDex.Hex(),
			"sell_dex":       trade.SellDex.Hex(),
			"buy_token_in":   trade.BuyTokenIn.Hex(),
			"buy_token_out":  trade.BuyTokenOut.Hex(),
			"sell_token_in":  trade.SellTokenIn.Hex(),
			"sell_token_out": trade.SellTokenOut.Hex(),
			"buy_fee":        trade.BuyFee,
			"sell_fee":       trade.SellFee,
			"non_initial":    trade.IsNonInitial(),
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
