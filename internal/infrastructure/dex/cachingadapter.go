package dex

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/bimakw/arbiscan-bot/internal/domain/entities"
	"github.com/bimakw/arbiscan-bot/internal/infrastructure/cache"
)

// DefaultPoolStateTTL is well under a typical Arbitrum block interval, so a
// cache hit within the same block is equivalent to a fresh read for every
// profit computation downstream.
const DefaultPoolStateTTL = 1 * time.Second

// CachingAdapter wraps a VenueAdapter with C11's pool-state cache. ReadPoolState
// is the only call routed through the cache; Normalize and Quote always hit
// the chain, since they depend on state that's already been read this call.
type CachingAdapter struct {
	inner   VenueAdapter
	cache   cache.Cache
	ttl     time.Duration
	current atomic.Uint64
}

func NewCachingAdapter(inner VenueAdapter, c cache.Cache) *CachingAdapter {
	return &CachingAdapter{inner: inner, cache: c, ttl: DefaultPoolStateTTL}
}

// SetCurrentBlock is called once per block, before fan-out starts, by the
// scan orchestrator. A cache entry fetched at a different block number is
// treated as a miss regardless of its TTL.
func (a *CachingAdapter) SetCurrentBlock(block uint64) {
	a.current.Store(block)
}

func (a *CachingAdapter) DEXType() entities.DEXType        { return a.inner.DEXType() }
func (a *CachingAdapter) RouterAddress() common.Address    { return a.inner.RouterAddress() }

func (a *CachingAdapter) ReadPoolState(ctx context.Context, poolAddress common.Address) (entities.PoolState, error) {
	block := a.current.Load()
	key := cache.PoolStateKey(a.inner.DEXType(), poolAddress.Hex())

	if cached, err := a.cache.GetPoolState(ctx, key); err == nil && cached != nil && cached.FetchedAtBlock == block {
		return *cached, nil
	}

	state, err := a.inner.ReadPoolState(ctx, poolAddress)
	if err != nil {
		return entities.PoolState{}, err
	}
	state.FetchedAtBlock = block

	_ = a.cache.SetPoolState(ctx, key, &state, a.ttl)
	return state, nil
}

func (a *CachingAdapter) Normalize(ctx context.Context, native entities.PoolState) (float64, float64, float64, error) {
	return a.inner.Normalize(ctx, native)
}

func (a *CachingAdapter) Quote(ctx context.Context, tokenIn common.Address, decIn uint8, tokenOut common.Address, decOut uint8, amountInWhole float64, fee *uint32, direction entities.Direction) (float64, uint32, error) {
	return a.inner.Quote(ctx, tokenIn, decIn, tokenOut, decOut, amountInWhole, fee, direction)
}
