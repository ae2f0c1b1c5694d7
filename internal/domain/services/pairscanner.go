package services

import (
	"context"
	"fmt"
	"math"

	"github.com/ethereum/go-ethereum/common"

	"github.com/bimakw/arbiscan-bot/internal/config"
	"github.com/bimakw/arbiscan-bot/internal/domain/entities"
	"github.com/bimakw/arbiscan-bot/internal/domain/registry"
	"github.com/bimakw/arbiscan-bot/internal/infrastructure/dex"
	"github.com/bimakw/arbiscan-bot/internal/logging"
)

// alwaysOverwriteLocalBest preserves a known source quirk (spec.md open
// question 2): the per-amount "is this better than the local best so far"
// comparison is dead in the original, so the last simulated amount always
// becomes the pair's local best regardless of its profit. The registry
// write-time guard below is unaffected and stays live.
const alwaysOverwriteLocalBest = true

// PairScanner implements C6: per block, per pair, it reads both pools,
// normalizes to USDC, classifies the tier, directions the trade by cheaper
// side, simulates a round trip across the tier's test amounts, and
// conditionally writes the candidate into the shared registry.
type PairScanner struct {
	VenueA dex.VenueAdapter
	VenueB dex.VenueAdapter
	WETH   common.Address
	Config *config.Config
	Reg    *registry.BestTradeRegistry
}

type localBest struct {
	profit     float64
	amountWETH float64
	buyOut     float64
	buyFee     uint32
	sellFee    uint32
	buyAdapter dex.VenueAdapter
	sellAdapter dex.VenueAdapter
	buyState   entities.PoolState
	sellState  entities.PoolState
}

// ScanPair runs one pair's scan for the current block. A non-nil error means
// a pool read or USDC normalization failed; the caller (C7) logs and
// swallows it. A quoter (simulation) failure ends the amount ladder early
// and is not returned as an error.
func (s *PairScanner) ScanPair(ctx context.Context, pair entities.PairTuple) error {
	stateA, err := s.VenueA.ReadPoolState(ctx, pair.VenueAPool)
	if err != nil {
		return fmt.Errorf("pair %s venue A: %w", pair.PairName, err)
	}
	stateB, err := s.VenueB.ReadPoolState(ctx, pair.VenueBPool)
	if err != nil {
		return fmt.Errorf("pair %s venue B: %w", pair.PairName, err)
	}

	priceA, liqA, _, err := s.VenueA.Normalize(ctx, stateA)
	if err != nil {
		return fmt.Errorf("pair %s venue A normalize: %w", pair.PairName, err)
	}
	priceB, liqB, wethUSDC, err := s.VenueB.Normalize(ctx, stateB)
	if err != nil {
		return fmt.Errorf("pair %s venue B normalize: %w", pair.PairName, err)
	}

	minLiq := math.Min(liqA, liqB)
	tier := ClassifyTier(minLiq)
	// Unknown-liquidity candidates (NaN/negative, TierUnknown) never scan;
	// every other tier (0-4) scans unconditionally. ClassifyTier never
	// returns a value >= 6, so a literal "tier < 6" gate would also let
	// tier 5 through; this check stops it.
	if tier >= TierUnknown {
		return nil
	}

	if s.Config.PriceDiffGateEnabled {
		if threshold, ok := config.PriceDiffThreshold(tier); ok {
			maxPrice := math.Max(priceA, priceB)
			diffPct := math.Abs(priceA-priceB) / maxPrice
			if diffPct < threshold {
				return nil
			}
		}
	}

	if s.Config.SimulationLoggingEnabled {
		maxPrice := math.Max(priceA, priceB)
		diffPct := math.Abs(priceA-priceB) / maxPrice
		logging.PriceLiquidity(pair.PairName, string(s.VenueA.DEXType()), string(s.VenueB.DEXType()),
			pair.VenueAPool.Hex(), pair.VenueBPool.Hex(), minLiq, priceA, priceB, diffPct)
	}

	buyIsA := priceA < priceB
	buyAdapter, sellAdapter := s.VenueB, s.VenueA
	buyState, sellState := stateB, stateA
	if buyIsA {
		buyAdapter, sellAdapter = s.VenueA, s.VenueB
		buyState, sellState = stateA, stateB
	}

	tc := s.Config.TradeConfigForTier(tier)

	var best *localBest
	for i := uint32(0); i < tc.StepCount; i++ {
		amountUSDC := tc.StartAmount + tc.Step*float64(i)
		amountWETH := amountUSDC / wethUSDC

		buyOut, buyFee, err := buyAdapter.Quote(ctx, buyState.Token0, buyState.Token0Decimals, buyState.Token1, buyState.Token1Decimals, amountWETH, &buyState.Fee, entities.DirectionBuy)
		if err != nil {
			break
		}
		sellOut, sellFee, err := sellAdapter.Quote(ctx, sellState.Token0, sellState.Token0Decimals, sellState.Token1, sellState.Token1Decimals, buyOut, &sellState.Fee, entities.DirectionSell)
		if err != nil {
			break
		}

		profit := sellOut*wethUSDC - amountUSDC

		if s.Config.SimulationLoggingEnabled {
			logging.Simulation(string(buyAdapter.DEXType()), string(sellAdapter.DEXType()), pair.PairName, tier, amountUSDC, amountWETH, buyOut, sellOut, profit)
		}

		if alwaysOverwriteLocalBest {
			best = &localBest{
				profit:      profit,
				amountWETH:  amountWETH,
				buyOut:      buyOut,
				buyFee:      buyFee,
				sellFee:     sellFee,
				buyAdapter:  buyAdapter,
				sellAdapter: sellAdapter,
				buyState:    buyState,
				sellState:   sellState,
			}
		}
	}

	if best == nil {
		return nil
	}
	if best.profit <= s.Reg.CurrentProfit() {
		return nil
	}

	buyToken, _ := best.buyState.NonWETHToken(s.WETH)
	_, sellNonWETHDec := best.sellState.NonWETHToken(s.WETH)
	buyWETHDec := wethSideDecimals(best.buyState, s.WETH)

	candidate := entities.BestTrade{
		ProfitUSDC:   best.profit,
		BuyDex:       best.buyAdapter.RouterAddress(),
		SellDex:      best.sellAdapter.RouterAddress(),
		BuyTokenIn:   s.WETH,
		BuyTokenOut:  buyToken,
		SellTokenIn:  buyToken,
		SellTokenOut: s.WETH,
		BuyFee:       best.buyFee,
		SellFee:      best.sellFee,
		BuyAmount:    weiAmountSaturating(best.amountWETH, buyWETHDec),
		SellAmount:   weiAmountSaturating(best.buyOut, sellNonWETHDec),
	}

	s.Reg.TryUpdate(candidate)
	return nil
}

func wethSideDecimals(state entities.PoolState, weth common.Address) uint8 {
	if state.Token0 == weth {
		return state.Token0Decimals
	}
	return state.Token1Decimals
}
