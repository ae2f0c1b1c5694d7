package registry

import (
	"testing"

	"github.com/bimakw/arbiscan-bot/internal/domain/entities"
)

func TestTryUpdateAppliesHigherProfit(t *testing.T) {
	var r BestTradeRegistry

	if ok := r.TryUpdate(entities.BestTrade{ProfitUSDC: 10}); !ok {
		t.Fatal("expected first update to apply")
	}
	if got := r.CurrentProfit(); got != 10 {
		t.Fatalf("profit = %v, want 10", got)
	}

	if ok := r.TryUpdate(entities.BestTrade{ProfitUSDC: 25}); !ok {
		t.Fatal("expected higher-profit update to apply")
	}
	if got := r.CurrentProfit(); got != 25 {
		t.Fatalf("profit = %v, want 25", got)
	}
}

func TestTryUpdateRejectsLowerOrEqualProfit(t *testing.T) {
	var r BestTradeRegistry
	r.TryUpdate(entities.BestTrade{ProfitUSDC: 25})

	before := r.Snapshot()

	if ok := r.TryUpdate(entities.BestTrade{ProfitUSDC: 10}); ok {
		t.Fatal("expected lower-profit update to be rejected")
	}
	if ok := r.TryUpdate(entities.BestTrade{ProfitUSDC: 25}); ok {
		t.Fatal("expected equal-profit update to be rejected")
	}

	after := r.Snapshot()
	if before != after {
		t.Fatalf("registry mutated on a rejected update: before=%+v after=%+v", before, after)
	}
}

func TestTryUpdateNoDecay(t *testing.T) {
	var r BestTradeRegistry
	r.TryUpdate(entities.BestTrade{ProfitUSDC: 100})
	r.TryUpdate(entities.BestTrade{ProfitUSDC: 1})
	if got := r.CurrentProfit(); got != 100 {
		t.Fatalf("profit decayed: got %v, want 100", got)
	}
}
