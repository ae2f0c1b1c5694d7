// Package logging configures the process-wide zerolog logger. Every
// component logs through this package instead of fmt.Printf/log.Printf,
// replacing the original's println!/eprintln! call sites and the bespoke
// emoji-annotated simulation/fee log files with structured events.
package logging

import (
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	once   sync.Once
	logger zerolog.Logger

	// simMu serializes simulation/fee log events the way the source's
	// LOG_MUTEX serialized writes to liquidity_price.log/simulation.log/
	// fee.log: one process-wide mutex guarding the slow path.
	simMu sync.Mutex
)

// Init configures the global logger. format is "json" for production or
// anything else for a human-readable console writer.
func Init(format string) {
	once.Do(func() {
		var w = os.Stdout
		if format == "json" {
			logger = zerolog.New(w).With().Timestamp().Logger()
			return
		}
		logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
			With().Timestamp().Logger()
	})
}

// L returns the configured logger, initializing a console logger as a
// fallback if Init was never called.
func L() zerolog.Logger {
	Init("console")
	return logger
}

// Simulation logs one trade simulation event, gated by the caller on
// IS_SIMULATION_LOGGING_ENABLED, mirroring the source's is_logging check
// around log_simulation.
func Simulation(buyDex, sellDex, pairName string, tier uint8, amountUSDC, amountWETH, buyOut, sellOut, profitUSDC float64) {
	simMu.Lock()
	defer simMu.Unlock()
	L().Info().
		Str("event", "simulation").
		Str("buy_dex", buyDex).
		Str("sell_dex", sellDex).
		Str("pair", pairName).
		Uint8("tier", tier).
		Float64("amount_usdc", amountUSDC).
		Float64("amount_weth", amountWETH).
		Float64("buy_out", buyOut).
		Float64("sell_out", sellOut).
		Float64("profit_usdc", profitUSDC).
		Msg("trade simulation")
}

// PriceLiquidity logs one per-block price/liquidity observation for a pair,
// gated by the caller on the same flag the source used for
// log_price_liquidity.
func PriceLiquidity(pairName, venueA, venueB string, poolA, poolB string, minLiquidity, priceA, priceB, priceDiffPct float64) {
	simMu.Lock()
	defer simMu.Unlock()
	L().Info().
		Str("event", "price_liquidity").
		Str("pair", pairName).
		Str("venue_a", venueA).
		Str("pool_a", poolA).
		Str("venue_b", venueB).
		Str("pool_b", poolB).
		Float64("min_liquidity_usdc", minLiquidity).
		Float64("price_a", priceA).
		Float64("price_b", priceB).
		Float64("price_diff_pct", priceDiffPct).
		Msg("price/liquidity observation")
}
