package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/whisper-indexer/internal/whisper/model"
	"go.uber.org/zap"
)

// Drop reasons reported in Stats.
const (
	ReasonMalformed       = "malformed"
	ReasonUnrecognized    = "unrecognized"
	ReasonForeignStandard = "foreign_standard"
	ReasonUnhandled       = "unhandled"
	ReasonUnmatched       = "unmatched"
)

// Stats summarises one Apply call. Stored is informational and never drives control flow.
type Stats struct {
	Stored          int
	Malformed       int
	Unrecognized    int
	ForeignStandard int
	Unhandled       int
	Unmatched       int
}

// Dropped returns the non-zero drop counters keyed by reason.
func (s Stats) Dropped() map[string]int {
	out := make(map[string]int, 5)
	for reason, n := range map[string]int{
		ReasonMalformed:       s.Malformed,
		ReasonUnrecognized:    s.Unrecognized,
		ReasonForeignStandard: s.ForeignStandard,
		ReasonUnhandled:       s.Unhandled,
		ReasonUnmatched:       s.Unmatched,
	} {
		if n > 0 {
			out[reason] = n
		}
	}
	return out
}

// Parser extracts whisper events emitted by one contract and writes them to a Sink.
type Parser struct {
	contract string
	recorder Recorder
	logger   *zap.Logger
}

// NewParser builds a Parser for the given contract account. recorder may be nil.
func NewParser(contract string, recorder Recorder, logger *zap.Logger) (*Parser, error) {
	if contract == "" {
		return nil, errors.New("contract is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{
		contract: contract,
		recorder: recorder,
		logger:   logger,
	}, nil
}

// Apply decodes every event the contract logged in block and stores it in sink.
// Undecodable lines are skipped and counted; a sink error aborts the block and is returned.
func (p *Parser) Apply(ctx context.Context, block *model.Block, sink Sink) (Stats, error) {
	var stats Stats
	if block == nil {
		return stats, nil
	}

	for _, shard := range block.Shards {
		for _, outcome := range shard.ReceiptExecutionOutcomes {
			if outcome.ExecutionOutcome.Outcome.ExecutorID != p.contract {
				continue
			}
			txHash := outcome.TransactionHash()
			for _, line := range outcome.ExecutionOutcome.Outcome.Logs {
				if err := p.applyLine(ctx, block, txHash, line, sink, &stats); err != nil {
					return stats, err
				}
			}
		}
	}
	return stats, nil
}

func (p *Parser) applyLine(ctx context.Context, block *model.Block, txHash, line string, sink Sink, stats *Stats) error {
	decoded, err := Decode(line)
	if err != nil {
		p.countDecodeError(err, block.Height(), txHash, stats)
		return nil
	}
	stats.Malformed += decoded.Invalid

	for _, item := range decoded.Items {
		stored, err := p.dispatch(ctx, block, txHash, item.Event, sink)
		if err != nil {
			return fmt.Errorf("store %s event in tx %s: %w", item.Event.Tag(), txHash, err)
		}
		if !stored {
			stats.Unhandled++
			p.logger.Debug("event has no projection, skipping",
				zap.Uint64("height", block.Height()),
				zap.String("tx_hash", txHash),
				zap.String("event", string(item.Event.Tag())),
			)
			continue
		}
		stats.Stored++
		p.record(ctx, block, txHash, decoded.Version, item)
	}
	return nil
}

func (p *Parser) countDecodeError(err error, height uint64, txHash string, stats *Stats) {
	reason := ReasonMalformed
	switch {
	case errors.Is(err, ErrNotEvent):
		stats.Unmatched++
		return
	case errors.Is(err, ErrUnknownEvent):
		stats.Unrecognized++
		reason = ReasonUnrecognized
	case errors.Is(err, ErrForeignStandard):
		stats.ForeignStandard++
		reason = ReasonForeignStandard
	default:
		stats.Malformed++
	}
	p.logger.Debug("skipping log line",
		zap.Uint64("height", height),
		zap.String("tx_hash", txHash),
		zap.String("reason", reason),
		zap.Error(err),
	)
}

// dispatch projects ev into the sink. It reports false for events with no projection.
func (p *Parser) dispatch(ctx context.Context, block *model.Block, txHash string, ev Event, sink Sink) (bool, error) {
	switch e := ev.(type) {
	case MessageSent:
		return true, sink.SaveMessage(ctx, messageRow(block, txHash, e.Tag(), e, nil))
	case MessageSentWithPayment:
		amount := e.Amount
		return true, sink.SaveMessage(ctx, messageRow(block, txHash, e.Tag(), e.MessageSent, &amount))
	case KeyRegistered:
		return true, sink.SaveProfile(ctx, model.Profile{
			AccountID:    e.AccountID,
			PublicKey:    e.PublicKey,
			KeyVersion:   e.KeyVersion,
			DisplayName:  e.DisplayName,
			RegisteredAt: block.Timestamp(),
			UpdatedAt:    block.Timestamp(),
		})
	case GroupCreated:
		return false, nil
	default:
		return false, fmt.Errorf("no dispatch for event %T", ev)
	}
}

func messageRow(block *model.Block, txHash string, tag model.EventType, m MessageSent, amount *string) model.Message {
	return model.Message{
		TxHash:              txHash,
		BlockHeight:         block.Height(),
		Timestamp:           block.Timestamp(),
		EventType:           tag,
		Sender:              m.From,
		Recipient:           m.To,
		EncryptedBody:       m.EncryptedBody,
		Nonce:               m.Nonce,
		RecipientKeyVersion: m.RecipientKeyVersion,
		ReplyTo:             m.ReplyTo,
		Amount:              amount,
	}
}

func (p *Parser) record(ctx context.Context, block *model.Block, txHash, version string, item Item) {
	if p.recorder == nil {
		return
	}
	rec := model.EventRecord{
		BlockHeight:    block.Height(),
		BlockTimestamp: nanosToTime(block.Timestamp()),
		TxHash:         txHash,
		ExecutorID:     p.contract,
		EventType:      item.Event.Tag(),
		Version:        version,
		Payload:        item.Raw,
	}
	switch e := item.Event.(type) {
	case MessageSent:
		rec.Account, rec.Counterparty = e.From, e.To
	case MessageSentWithPayment:
		rec.Account, rec.Counterparty = e.From, e.To
	case KeyRegistered:
		rec.Account = e.AccountID
	case GroupCreated:
		rec.Account = e.Creator
	}
	if err := p.recorder.Record(ctx, rec); err != nil {
		p.logger.Warn("archive event failed", zap.Uint64("height", rec.BlockHeight), zap.Error(err))
	}
}

func nanosToTime(ns uint64) time.Time {
	if ns > 1<<63-1 {
		ns = 1<<63 - 1
	}
	return time.Unix(0, int64(ns)).UTC()
}
