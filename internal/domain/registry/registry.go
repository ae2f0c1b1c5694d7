// Package registry implements the best-trade registry (C8): a process-wide
// slot holding the currently-best opportunity, guarded by a reader-writer
// lock and updated under a monotonic rule.
package registry

import (
	"sync"

	"github.com/bimakw/arbiscan-bot/internal/domain/entities"
)

// BestTradeRegistry holds the shared BestTrade slot. Its zero value is
// ready to use: an all-zero BestTrade with ProfitUSDC 0.
type BestTradeRegistry struct {
	mu    sync.RWMutex
	trade entities.BestTrade
}

// Snapshot returns a copy of the current slot. Used by C9's producer loop
// and the diagnostics server; never held across an RPC call.
func (r *BestTradeRegistry) Snapshot() entities.BestTrade {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.trade
}

// CurrentProfit is the read-lock check C6 performs before doing the
// expensive work of assembling a full candidate record.
func (r *BestTradeRegistry) CurrentProfit() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.trade.ProfitUSDC
}

// TryUpdate installs candidate iff its profit strictly exceeds the current
// slot's profit. Returns whether the update was applied. There is no
// downward update path and no decay: once a profit is recorded, lower
// candidates are discarded for the life of the process (spec.md open
// question 3).
func (r *BestTradeRegistry) TryUpdate(candidate entities.BestTrade) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if candidate.ProfitUSDC <= r.trade.ProfitUSDC {
		return false
	}
	r.trade = candidate
	return true
}
