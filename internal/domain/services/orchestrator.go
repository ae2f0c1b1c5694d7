package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/rs/zerolog"

	"github.com/bimakw/arbiscan-bot/internal/domain/entities"
	"github.com/bimakw/arbiscan-bot/internal/infrastructure/ethereum"
	"github.com/bimakw/arbiscan-bot/internal/logging"
)

// Orchestrator implements C7: it subscribes to new block headers on its
// ethereum client and, on each head, fans out the pair catalog across
// goroutines (at most MaxConcurrency at once when it is set), one
// PairScanner.ScanPair call per pair. Blocks are processed strictly in arrival order: the next
// head's fan-out does not start until the current one has drained.
type Orchestrator struct {
	Eth     *ethereum.Client
	Scanner *PairScanner
	Pairs   []entities.PairTuple
	Label   string // e.g. "camelot-uniswap", used only for log lines

	// MaxConcurrency bounds how many pairs scan at once per block. Zero
	// means unbounded (one goroutine per pair).
	MaxConcurrency int
}

// Run blocks until ctx is canceled or the head subscription errors out.
func (o *Orchestrator) Run(ctx context.Context) error {
	headCh := make(chan *types.Header, 16)
	sub, err := o.Eth.SubscribeNewHead(ctx, headCh)
	if err != nil {
		return fmt.Errorf("%w: %v", entities.ErrSubscription, err)
	}
	defer sub.Unsubscribe()

	log := logging.L().With().Str("orchestrator", o.Label).Logger()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-sub.Err():
			return fmt.Errorf("%w: %v", entities.ErrSubscription, err)
		case head := <-headCh:
			o.scanBlock(ctx, head.Number.Uint64(), log)
		}
	}
}

// blockSetter is implemented by dex.CachingAdapter; orchestrators driving an
// uncached adapter simply skip this step.
type blockSetter interface {
	SetCurrentBlock(uint64)
}

func (o *Orchestrator) scanBlock(ctx context.Context, blockNumber uint64, log zerolog.Logger) {
	if s, ok := o.Scanner.VenueA.(blockSetter); ok {
		s.SetCurrentBlock(blockNumber)
	}
	if s, ok := o.Scanner.VenueB.(blockSetter); ok {
		s.SetCurrentBlock(blockNumber)
	}

	limit := o.MaxConcurrency
	if limit <= 0 {
		limit = len(o.Pairs)
	}
	if limit == 0 {
		return
	}
	sem := make(chan struct{}, limit)

	var wg sync.WaitGroup
	for _, pair := range o.Pairs {
		wg.Add(1)
		go func(p entities.PairTuple) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if err := o.Scanner.ScanPair(ctx, p); err != nil {
				log.Debug().Err(err).Uint64("block", blockNumber).Str("pair", p.PairName).Msg("pair scan failed")
			}
		}(pair)
	}
	wg.Wait()
}
