// Command scanner runs the Arbitrum cross-venue arbitrage opportunity
// scanner: three independent per-block orchestrators (Camelot-Uniswap,
// Camelot-PancakeSwap, PancakeSwap-Uniswap) feeding one shared best-trade
// registry, broadcast over shared memory every 200ms.
package main

import (
	"context"
	"math/big"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/bimakw/arbiscan-bot/internal/config"
	"github.com/bimakw/arbiscan-bot/internal/domain/catalog"
	"github.com/bimakw/arbiscan-bot/internal/domain/entities"
	"github.com/bimakw/arbiscan-bot/internal/domain/registry"
	"github.com/bimakw/arbiscan-bot/internal/domain/services"
	"github.com/bimakw/arbiscan-bot/internal/infrastructure/cache"
	"github.com/bimakw/arbiscan-bot/internal/infrastructure/dex"
	"github.com/bimakw/arbiscan-bot/internal/infrastructure/ethereum"
	"github.com/bimakw/arbiscan-bot/internal/infrastructure/ipc"
	"github.com/bimakw/arbiscan-bot/internal/logging"
	"github.com/bimakw/arbiscan-bot/internal/presentation/diag"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logging.Init(cfg.LogFormat)
	log := logging.L()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	eth, err := ethereum.NewClient(cfg.WSRPCURL, big.NewInt(config.ChainID))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to RPC endpoint")
	}
	defer eth.Close()
	log.Info().Str("chain_id", eth.ChainID().String()).Msg("connected to ethereum rpc")

	var cacheClient cache.Cache
	if cfg.RedisAddr != "" {
		redisCache, err := cache.NewRedisCache(cfg.RedisAddr, "", 0)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, falling back to in-memory cache")
			cacheClient = cache.NewInMemoryCache()
		} else {
			cacheClient = redisCache
			log.Info().Str("addr", cfg.RedisAddr).Msg("connected to redis")
		}
	} else {
		cacheClient = cache.NewInMemoryCache()
	}

	camelot := dex.NewCachingAdapter(dex.NewCamelotV3Adapter(eth, config.WETHAddress), cacheClient)
	uniswap := dex.NewCachingAdapter(dex.NewUniswapV3Adapter(eth, config.WETHAddress), cacheClient)
	pancake := dex.NewCachingAdapter(dex.NewPancakeV3Adapter(eth, config.WETHAddress), cacheClient)

	cats, err := catalog.Load(cfg.PairCatalogPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load pair catalog")
	}
	log.Info().
		Int("camelot_uniswap", len(cats.CamelotUniswap)).
		Int("camelot_pancakeswap", len(cats.CamelotPancakeswap)).
		Int("pancakeswap_uniswap", len(cats.PancakeswapUniswap)).
		Msg("loaded pair catalog")

	reg := &registry.BestTradeRegistry{}

	orchestrators := []*services.Orchestrator{
		{
			Eth:   eth,
			Label: "camelot-uniswap",
			Pairs: cats.CamelotUniswap,
			Scanner: &services.PairScanner{
				VenueA: camelot, VenueB: uniswap, WETH: config.WETHAddress, Config: cfg, Reg: reg,
			},
		},
		{
			Eth:   eth,
			Label: "camelot-pancakeswap",
			Pairs: cats.CamelotPancakeswap,
			Scanner: &services.PairScanner{
				VenueA: camelot, VenueB: pancake, WETH: config.WETHAddress, Config: cfg, Reg: reg,
			},
		},
		{
			Eth:   eth,
			Label: "pancakeswap-uniswap",
			Pairs: cats.PancakeswapUniswap,
			Scanner: &services.PairScanner{
				VenueA: pancake, VenueB: uniswap, WETH: config.WETHAddress, Config: cfg, Reg: reg,
			},
		},
	}

	for _, o := range orchestrators {
		o := o
		go func() {
			if err := o.Run(ctx); err != nil && ctx.Err() == nil {
				log.Error().Err(err).Str("orchestrator", o.Label).Msg("orchestrator stopped")
			}
		}()
	}

	ring, err := ipc.OpenRing(cfg.IPCShmPath, ipc.DefaultSlotCount, entities.OpportunityContainerCapacity)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open ipc ring")
	}
	defer ring.Close()

	publisher := ipc.NewPublisher(ctx, ring)
	go ipc.Run(ctx, reg, publisher)

	diagServer := diag.NewServer(cfg.DiagHTTPAddr, reg)
	go func() {
		log.Info().Str("addr", cfg.DiagHTTPAddr).Msg("starting diagnostics server")
		if err := diagServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("diagnostics server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = diagServer.Shutdown(shutdownCtx)
}
