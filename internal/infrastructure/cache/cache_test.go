package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/bimakw/arbiscan-bot/internal/domain/entities"
)

func TestInMemoryCacheHitMiss(t *testing.T) {
	c := NewInMemoryCache()
	ctx := context.Background()
	key := PoolStateKey(entities.DEXCamelotV3, "0xabc")

	got, err := c.GetPoolState(ctx, key)
	if err != nil {
		t.Fatalf("GetPoolState: %v", err)
	}
	if got != nil {
		t.Fatal("expected miss on empty cache")
	}

	state := &entities.PoolState{Price: 123}
	if err := c.SetPoolState(ctx, key, state, time.Minute); err != nil {
		t.Fatalf("SetPoolState: %v", err)
	}

	got, err = c.GetPoolState(ctx, key)
	if err != nil {
		t.Fatalf("GetPoolState: %v", err)
	}
	if got == nil || got.Price != 123 {
		t.Fatalf("expected hit with price 123, got %+v", got)
	}
}

func TestInMemoryCacheExpires(t *testing.T) {
	c := NewInMemoryCache()
	ctx := context.Background()
	key := PoolStateKey(entities.DEXUniswapV3, "0xdef")

	if err := c.SetPoolState(ctx, key, &entities.PoolState{}, -time.Second); err != nil {
		t.Fatalf("SetPoolState: %v", err)
	}

	got, err := c.GetPoolState(ctx, key)
	if err != nil {
		t.Fatalf("GetPoolState: %v", err)
	}
	if got != nil {
		t.Fatal("expected expired entry to be treated as a miss")
	}
}

func TestInMemoryCacheDelete(t *testing.T) {
	c := NewInMemoryCache()
	ctx := context.Background()
	key := PoolStateKey(entities.DEXPancakeswapV3, "0x123")

	c.SetPoolState(ctx, key, &entities.PoolState{}, time.Minute)
	if err := c.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	got, _ := c.GetPoolState(ctx, key)
	if got != nil {
		t.Fatal("expected miss after delete")
	}
}

// TestInMemoryCacheConcurrentAccess mirrors the shared-instance, multi-goroutine
// use in cmd/scanner/main.go: one InMemoryCache driven by three orchestrators'
// per-pair fan-out. Run with -race to catch unsynchronized map access.
func TestInMemoryCacheConcurrentAccess(t *testing.T) {
	c := NewInMemoryCache()
	ctx := context.Background()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				key := PoolStateKey(entities.DEXCamelotV3, fmt.Sprintf("0x%d", i%5))
				_ = c.SetPoolState(ctx, key, &entities.PoolState{Price: float64(g)}, time.Minute)
				_, _ = c.GetPoolState(ctx, key)
				if i%10 == 0 {
					_ = c.Delete(ctx, key)
				}
			}
		}(g)
	}
	wg.Wait()
}
