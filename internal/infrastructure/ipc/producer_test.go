package ipc

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bimakw/arbiscan-bot/internal/domain/entities"
	"github.com/bimakw/arbiscan-bot/internal/domain/registry"
)

// TestProducerBroadcastsNonInitialTrade is spec scenario S5: a trade with
// zero profit but a non-zero fee still satisfies the broadcast predicate.
func TestProducerBroadcastsNonInitialTrade(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ring.shm")
	ring, err := OpenRing(path, 4, entities.OpportunityContainerCapacity)
	if err != nil {
		t.Fatalf("OpenRing: %v", err)
	}
	defer ring.Close()

	reg := &registry.BestTradeRegistry{}
	reg.TryUpdate(entities.BestTrade{ProfitUSDC: 0, BuyFee: 500})

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	publisher := NewPublisher(ctx, ring)
	go Run(ctx, reg, publisher)

	<-ctx.Done()
	// Give the publisher goroutine a moment to drain the last tick.
	time.Sleep(50 * time.Millisecond)

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	seq := binary.LittleEndian.Uint64(raw[24:32])
	if seq == 0 {
		t.Fatal("expected at least one broadcast for a non-initial trade")
	}
}

func TestProducerSkipsInitialTrade(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ring.shm")
	ring, err := OpenRing(path, 4, entities.OpportunityContainerCapacity)
	if err != nil {
		t.Fatalf("OpenRing: %v", err)
	}
	defer ring.Close()

	reg := &registry.BestTradeRegistry{}

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	publisher := NewPublisher(ctx, ring)
	go Run(ctx, reg, publisher)

	<-ctx.Done()
	time.Sleep(50 * time.Millisecond)

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	seq := binary.LittleEndian.Uint64(raw[24:32])
	if seq != 0 {
		t.Fatalf("expected no broadcast for the initial (zero) trade, got seq %d", seq)
	}
}
