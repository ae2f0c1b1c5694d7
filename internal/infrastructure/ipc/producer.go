package ipc

import (
	"context"
	"sync"
	"time"

	"github.com/bimakw/arbiscan-bot/internal/config"
	"github.com/bimakw/arbiscan-bot/internal/domain/entities"
	"github.com/bimakw/arbiscan-bot/internal/domain/registry"
	"github.com/bimakw/arbiscan-bot/internal/logging"
)

// Publisher queues encoded opportunities and writes them into the ring from
// a dedicated goroutine, mirroring the source's run_publisher_thread plus
// its mpsc::channel()'s unbounded queue: back-pressure is deliberately
// absent (spec.md 4.9/5) since the producer must never block on ring I/O,
// so the queue is a plain growable slice rather than a fixed-capacity Go
// channel.
type Publisher struct {
	ring   *Ring
	mu     sync.Mutex
	cond   *sync.Cond
	queue  [][]byte
	closed bool
}

// NewPublisher starts the dedicated writer goroutine. It exits once ctx is
// canceled.
func NewPublisher(ctx context.Context, ring *Ring) *Publisher {
	p := &Publisher{ring: ring}
	p.cond = sync.NewCond(&p.mu)
	go p.watchCancel(ctx)
	go p.run()
	return p
}

func (p *Publisher) watchCancel(ctx context.Context) {
	<-ctx.Done()
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.cond.Broadcast()
}

// enqueue appends msg to the unbounded queue. Never blocks.
func (p *Publisher) enqueue(msg []byte) {
	p.mu.Lock()
	p.queue = append(p.queue, msg)
	p.mu.Unlock()
	p.cond.Signal()
}

func (p *Publisher) run() {
	log := logging.L()
	for {
		p.mu.Lock()
		for len(p.queue) == 0 && !p.closed {
			p.cond.Wait()
		}
		if len(p.queue) == 0 && p.closed {
			p.mu.Unlock()
			return
		}
		msg := p.queue[0]
		p.queue = p.queue[1:]
		p.mu.Unlock()

		if err := p.ring.Publish(msg); err != nil {
			log.Error().Err(err).Msg("ipc publisher: ring write failed")
		}
	}
}

// Run is the producer loop (C9): every config.IPCCycleTime it snapshots the
// registry and, iff the trade is non-initial, encodes it and hands it to
// the publisher goroutine. Blocks until ctx is canceled.
func Run(ctx context.Context, reg *registry.BestTradeRegistry, publisher *Publisher) {
	ticker := time.NewTicker(config.IPCCycleTime)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			trade := reg.Snapshot()
			if !trade.IsNonInitial() {
				continue
			}
			opp := entities.PackTrade(trade)
			publisher.enqueue(opp.Encode())
		}
	}
}
