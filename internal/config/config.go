// Package config loads process configuration: the required RPC endpoint,
// optional feature flags, and per-tier trade-simulation parameters. Defaults
// and env var names are ported from the original config module.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
)

// ChainID is the only chain this scanner supports.
const ChainID = 42161

// Well-known Arbitrum addresses, ported verbatim from the source config.
var (
	WETHAddress = common.HexToAddress("0x82aF49447D8a07e3bd95BD0d56f35241523fBab1")

	UniswapV3FactoryAddress = common.HexToAddress("0x1F98431c8aD98523631AE4a59f267346ea31F984")

	UniswapV3SwapRouterAddress    = common.HexToAddress("0xE592427A0AEce92De3Edee1F18E0157C05861564")
	PancakeswapV3SwapRouterAddress = common.HexToAddress("0x1b81D678ffb9C0263b24A97847620C99d213eB14")
	CamelotV3SwapRouterAddress    = common.HexToAddress("0x1F721E2E82F6676FCE4eA07A5958cF098D339e18")

	UniswapV3QuoterAddress    = common.HexToAddress("0xb27308f9F90D607463bb33eA1BeBb41C27CE5AB6")
	PancakeswapV3QuoterAddress = common.HexToAddress("0xB048Bbc1Ee6b733FFfCFb9e9CeF7375518e25997")
	CamelotV3QuoterAddress    = common.HexToAddress("0x0Fc73040b26E9bC8514fA028D998E73A254Fa76E")

	// Reference WETH/USDC pools used by the price normalizer (C2), one per
	// venue, so liquidity/price can be restated in USDC terms.
	CamelotWETHUSDCPool    = common.HexToAddress("0xb1026b8e7276e7ac75410f1fcbbe21796e8f7526")
	PancakeswapWETHUSDCPool = common.HexToAddress("0x7fcdc35463e3770c2fb992716cd070b63540b947")
	UniswapWETHUSDCPool    = common.HexToAddress("0xC6962004f452bE9203591991D15f6b388e09E8D0")
)

// IPCCycleTime is the producer loop's broadcast period.
const IPCCycleTime = 200 * time.Millisecond

// V3FeeTiers are the only fee() values Uniswap/PancakeSwap pools may report.
var V3FeeTiers = []uint32{100, 500, 3000, 10000}

// TierPriceDiff holds the commented-out-by-default gating thresholds, one
// per tier 0-4, preserved so ENABLE_PRICE_DIFF_GATE can switch them on.
var TierPriceDiff = [5]float64{0.035, 0.016, 0.014, 0.011, 0.004}

// TradeConfig is a tier's test-amount ladder: start_amount, step, and how
// many steps to take.
type TradeConfig struct {
	StartAmount float64
	Step        float64
	StepCount   uint32
}

var defaultTradeConfigs = map[uint8]TradeConfig{
	0: {StartAmount: 50, Step: 50, StepCount: 4},
	1: {StartAmount: 100, Step: 100, StepCount: 5},
	2: {StartAmount: 300, Step: 100, StepCount: 5},
	3: {StartAmount: 500, Step: 150, StepCount: 4},
	4: {StartAmount: 1000, Step: 1250, StepCount: 4},
}

var fallbackTradeConfig = TradeConfig{StartAmount: 1, Step: 1, StepCount: 4}

// Config is the fully-resolved process configuration.
type Config struct {
	WSRPCURL string

	SimulationLoggingEnabled bool
	PriceDiffGateEnabled     bool

	RedisAddr string

	IPCShmPath   string
	DiagHTTPAddr string
	PairCatalogPath string

	LogFormat string

	tradeConfigs map[uint8]TradeConfig
}

// NewDefault returns a Config with the default trade-amount ladders and
// every flag at its zero value, bypassing the environment entirely. Used by
// tests that exercise TradeConfigForTier without going through Load.
func NewDefault() *Config {
	cfg := &Config{tradeConfigs: make(map[uint8]TradeConfig, len(defaultTradeConfigs))}
	for tier, def := range defaultTradeConfigs {
		cfg.tradeConfigs[tier] = def
	}
	return cfg
}

// Load reads an optional .env file (a missing file is not an error) and then
// the process environment, matching the original's dotenv().ok() + env::var
// idiom. WS_RPC_URL is the only value whose absence is fatal.
func Load() (*Config, error) {
	_ = godotenv.Load()

	wsURL := os.Getenv("WS_RPC_URL")
	if wsURL == "" {
		return nil, fmt.Errorf("config: WS_RPC_URL must be set")
	}

	cfg := &Config{
		WSRPCURL:                 wsURL,
		SimulationLoggingEnabled: parseBoolEnv("IS_SIMULATION_LOGGING_ENABLED"),
		PriceDiffGateEnabled:     parseBoolEnv("ENABLE_PRICE_DIFF_GATE"),
		RedisAddr:                os.Getenv("REDIS_ADDR"),
		IPCShmPath:               getEnvOr("IPC_SHM_PATH", "/tmp/arbiscan_bot.shm"),
		DiagHTTPAddr:             getEnvOr("DIAG_HTTP_ADDR", ":8090"),
		PairCatalogPath:          getEnvOr("PAIR_CATALOG_PATH", "data.json"),
		LogFormat:                getEnvOr("LOG_FORMAT", "console"),
	}

	cfg.tradeConfigs = make(map[uint8]TradeConfig, len(defaultTradeConfigs))
	for tier, def := range defaultTradeConfigs {
		cfg.tradeConfigs[tier] = loadTradeConfig(tier, def)
	}

	return cfg, nil
}

func parseBoolEnv(key string) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return false
	}
	return toLower(v) == "true"
}

func toLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

func getEnvOr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func loadTradeConfig(tier uint8, def TradeConfig) TradeConfig {
	suffix := fmt.Sprintf("_TIER%d", tier)

	startAmount := def.StartAmount
	if v, ok := os.LookupEnv("START_AMOUNT" + suffix); ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			startAmount = parsed
		} else {
			startAmount = fallbackTradeConfig.StartAmount
		}
	}

	step := def.Step
	if v, ok := os.LookupEnv("STEP" + suffix); ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			step = parsed
		} else {
			step = fallbackTradeConfig.Step
		}
	}

	stepCount := def.StepCount
	if v, ok := os.LookupEnv("STEP_NUMBER" + suffix); ok {
		if parsed, err := strconv.ParseUint(v, 10, 32); err == nil {
			stepCount = uint32(parsed)
		} else {
			stepCount = fallbackTradeConfig.StepCount
		}
	}

	return TradeConfig{StartAmount: startAmount, Step: step, StepCount: stepCount}
}

// TradeConfigForTier returns a tier's test-amount ladder. Tiers outside
// [0,4] (including the "unknown/negative" tier 5) get the 1/1/4 fallback,
// matching the source's `_ => "1"` arms.
func (c *Config) TradeConfigForTier(tier uint8) TradeConfig {
	if tc, ok := c.tradeConfigs[tier]; ok {
		return tc
	}
	return fallbackTradeConfig
}

// PriceDiffThreshold returns the gating threshold for a tier 0-4. Only
// consulted when PriceDiffGateEnabled is true.
func PriceDiffThreshold(tier uint8) (float64, bool) {
	if tier > 4 {
		return 0, false
	}
	return TierPriceDiff[tier], true
}
