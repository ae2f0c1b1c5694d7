// Package services implements the per-block scan pipeline: tier
// classification (C4), the pair scanner (C6), and the scan orchestrator
// (C7), generic over a dex.VenueAdapter.
package services

import "math"

// TierUnknown is returned for NaN or negative liquidity inputs; it is
// treated as "do not scan" by the pair scanner's tier gate
// (tier >= TierUnknown).
const TierUnknown uint8 = 5

// ClassifyTier maps min-liquidity (USDC) to a tier index 0-5, per spec.md
// 4.4. It is total on finite, non-NaN inputs and monotone on [0, inf).
func ClassifyTier(liqUSDC float64) uint8 {
	if math.IsNaN(liqUSDC) || liqUSDC < 0 {
		return TierUnknown
	}
	switch {
	case liqUSDC >= 1_000_000:
		return 4
	case liqUSDC >= 200_000:
		return 3
	case liqUSDC >= 50_000:
		return 2
	case liqUSDC >= 20_000:
		return 1
	default:
		return 0
	}
}
