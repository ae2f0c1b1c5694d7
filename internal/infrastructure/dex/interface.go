// Package dex implements the per-venue on-chain adapters (C1 pool reads, C2
// USDC normalization, C3 quoter calls) for Camelot V3, PancakeSwap V3 and
// Uniswap V3. Calldata is hand-packed from function selectors, following the
// teacher's manual-ABI-encoding idiom rather than generated bindings.
package dex

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/bimakw/arbiscan-bot/internal/domain/entities"
)

// VenueAdapter is the capability set the re-architecture guidance collapses
// the three near-identical scan pipelines onto: C6/C7 are written once,
// generic over this interface.
type VenueAdapter interface {
	DEXType() entities.DEXType
	RouterAddress() common.Address

	// ReadPoolState implements C1 for this venue.
	ReadPoolState(ctx context.Context, poolAddress common.Address) (entities.PoolState, error)

	// Normalize implements C2: given a pool already read via ReadPoolState,
	// it returns the USDC-denominated price/liquidity and the venue's
	// WETH/USDC reference price.
	Normalize(ctx context.Context, native entities.PoolState) (usdcPrice, usdcLiquidity, wethUSDCPrice float64, err error)

	// Quote implements C3. direction selects which leg of the round trip is
	// being simulated; the adapter swaps (tokenIn, tokenOut) and their
	// decimals when the caller's order doesn't match the direction's WETH
	// constraint, per spec.md 4.3 step 1. fee carries the pool's fee tier as
	// read by ReadPoolState; the Camelot adapter ignores it (its pools
	// report no fee) and the other adapters treat nil as fee 0.
	// effectiveFee reports whatever fee the venue used.
	Quote(ctx context.Context, tokenIn common.Address, decIn uint8, tokenOut common.Address, decOut uint8, amountInWhole float64, fee *uint32, direction entities.Direction) (amountOutWhole float64, effectiveFee uint32, err error)
}
