// Package indexer drives the block-by-block indexing loop for one contract.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/goodnatureofminers/whisper-indexer/internal/clock"
)

// Phase is the observable state of a Poller.
type Phase string

const (
	PhaseStopped  Phase = "stopped"
	PhaseAtTip    Phase = "at_tip"
	PhaseFetching Phase = "fetching"
	PhaseBackoff  Phase = "backoff"
)

var errTipUnavailable = errors.New("chain tip unavailable")

// ErrStopping is returned by Start while a stopped loop has not exited yet.
var ErrStopping = errors.New("poller is stopping")

// Poller fetches blocks in strictly increasing height order, applies them and advances the
// checkpoint. One goroutine owns the loop; Stop is observed only between iterations.
type Poller struct {
	cfg     Config
	fetcher Fetcher
	parser  Parser
	store   Store
	tips    TipPublisher
	metrics Metrics
	logger  *zap.Logger
	sleep   clock.Sleeper

	running  atomic.Bool
	stopping atomic.Bool
	tip      atomic.Uint64
	next     atomic.Uint64
	phase    atomic.Value

	mu   sync.Mutex
	done chan struct{}
}

// NewPoller builds a Poller. tips may be nil.
func NewPoller(
	cfg Config,
	fetcher Fetcher,
	parser Parser,
	store Store,
	tips TipPublisher,
	metrics Metrics,
	logger *zap.Logger,
) (*Poller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid poller config: %w", err)
	}
	if fetcher == nil || parser == nil || store == nil {
		return nil, errors.New("poller fetcher, parser and store are required")
	}
	if metrics == nil {
		return nil, errors.New("poller metrics is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &Poller{
		cfg:     cfg,
		fetcher: fetcher,
		parser:  parser,
		store:   store,
		tips:    tips,
		metrics: metrics,
		logger:  logger.Named("poller").With(zap.String("contract", cfg.Contract)),
		sleep:   clock.SleepWithContext,
	}
	p.phase.Store(PhaseStopped)
	return p, nil
}

// Start resolves the first height and launches the loop. It is a no-op while running and
// fails with ErrStopping between Stop and the loop exit.
func (p *Poller) Start(ctx context.Context) error {
	if !p.running.CompareAndSwap(false, true) {
		if p.stopping.Load() {
			return ErrStopping
		}
		return nil
	}

	start, err := p.resolveStart(ctx)
	if err != nil {
		p.running.Store(false)
		return fmt.Errorf("resolve start height: %w", err)
	}

	done := make(chan struct{})
	p.mu.Lock()
	p.done = done
	p.mu.Unlock()

	p.stopping.Store(false)
	p.next.Store(start)
	p.logger.Info("poller started", zap.Uint64("height", start), zap.Uint64("tip", p.tip.Load()))

	go p.loop(ctx, done)
	return nil
}

// Stop asks the loop to exit before its next iteration. In-flight work always completes.
func (p *Poller) Stop() {
	p.stopping.Store(true)
}

// Done is closed when the loop started by the most recent Start exits.
func (p *Poller) Done() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return p.done
}

// Running reports whether the loop is active.
func (p *Poller) Running() bool {
	return p.running.Load()
}

// Phase returns the current loop phase.
func (p *Poller) Phase() Phase {
	return p.phase.Load().(Phase)
}

// NextHeight returns the next height the loop will process.
func (p *Poller) NextHeight() uint64 {
	return p.next.Load()
}

// Tip returns the cached chain tip.
func (p *Poller) Tip() uint64 {
	return p.tip.Load()
}

func (p *Poller) resolveStart(ctx context.Context) (uint64, error) {
	checkpoint, ok, err := p.store.Checkpoint(ctx)
	if err != nil {
		return 0, fmt.Errorf("read checkpoint: %w", err)
	}
	tip := p.refreshTip(ctx)

	switch {
	case ok:
		p.metrics.SetCheckpoint(checkpoint)
		return checkpoint + 1, nil
	case p.cfg.StartHeight > 0:
		return p.cfg.StartHeight, nil
	case tip > 0:
		return tip, nil
	default:
		return 0, errTipUnavailable
	}
}

func (p *Poller) loop(ctx context.Context, done chan struct{}) {
	defer func() {
		p.setPhase(PhaseStopped)
		p.running.Store(false)
		close(done)
		p.logger.Info("poller stopped", zap.Uint64("next_height", p.next.Load()))
	}()

	sinceRefresh := 0
	for {
		if p.stopping.Load() || ctx.Err() != nil {
			return
		}
		if err := p.run(ctx, &sinceRefresh); err != nil {
			if ctx.Err() != nil {
				return
			}
			p.logger.Warn("block iteration failed, retrying same height",
				zap.Uint64("height", p.next.Load()),
				zap.Duration("sleep", p.cfg.ErrorDelay),
				zap.Error(err),
			)
			p.setPhase(PhaseBackoff)
			if sleepErr := p.sleep(ctx, p.cfg.ErrorDelay); sleepErr != nil {
				return
			}
		}
	}
}

// run performs one iteration. A returned error leaves the next height unchanged.
func (p *Poller) run(ctx context.Context, sinceRefresh *int) error {
	if *sinceRefresh >= p.cfg.TipRefreshEvery {
		p.refreshTip(ctx)
		*sinceRefresh = 0
	}

	height := p.next.Load()
	if height > p.tip.Load() {
		p.setPhase(PhaseAtTip)
		p.logger.Debug("at tip, idling", zap.Uint64("height", height), zap.Duration("sleep", p.cfg.IdleInterval))
		if err := p.sleep(ctx, p.cfg.IdleInterval); err != nil {
			return err
		}
		p.refreshTip(ctx)
		*sinceRefresh = 0
		return nil
	}

	p.setPhase(PhaseFetching)
	started := time.Now()
	block, err := p.fetcher.FetchBlockWithRetry(ctx, height)
	if err != nil {
		p.metrics.ObserveBlock(err, 0, started)
		return fmt.Errorf("fetch block %d: %w", height, err)
	}

	if block == nil {
		if err := p.advance(ctx, height); err != nil {
			return err
		}
		p.metrics.ObserveSkipped(height)
		p.logger.Debug("block unavailable after retries, skipping", zap.Uint64("height", height))
	} else {
		stats, err := p.parser.Apply(ctx, block, p.store)
		if err != nil {
			p.metrics.ObserveBlock(err, 0, started)
			return fmt.Errorf("apply block %d: %w", height, err)
		}
		if err := p.advance(ctx, height); err != nil {
			return err
		}
		p.metrics.ObserveBlock(nil, stats.Stored, started)
		for reason, n := range stats.Dropped() {
			p.metrics.ObserveDropped(reason, n)
		}
		p.logBlock(height, stats.Stored, started)
	}

	*sinceRefresh++
	return p.sleep(ctx, p.cfg.Interval(height+1, p.tip.Load()))
}

// advance persists height as processed and moves the loop to height+1.
func (p *Poller) advance(ctx context.Context, height uint64) error {
	if err := p.store.SetCheckpoint(ctx, height); err != nil {
		p.metrics.ObserveBlock(err, 0, time.Now())
		return fmt.Errorf("set checkpoint %d: %w", height, err)
	}
	p.metrics.SetCheckpoint(height)
	p.next.Store(height + 1)
	return nil
}

func (p *Poller) refreshTip(ctx context.Context) uint64 {
	if tip := p.fetcher.LatestHeight(ctx); tip > 0 {
		p.tip.Store(tip)
	}
	tip := p.tip.Load()
	p.metrics.SetTip(tip)
	if p.tips != nil && tip > 0 {
		if err := p.tips.PublishTip(ctx, tip); err != nil {
			p.logger.Debug("publish tip failed", zap.Uint64("tip", tip), zap.Error(err))
		}
	}
	return tip
}

func (p *Poller) setPhase(phase Phase) {
	p.phase.Store(phase)
	p.metrics.SetPhase(string(phase))
}

func (p *Poller) logBlock(height uint64, stored int, started time.Time) {
	fields := []zap.Field{
		zap.Uint64("height", height),
		zap.Int("stored", stored),
		zap.Duration("took", time.Since(started)),
	}
	if stored > 0 {
		p.logger.Info("block indexed", fields...)
		return
	}
	p.logger.Debug("block indexed", fields...)
}
