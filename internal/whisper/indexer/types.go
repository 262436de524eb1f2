package indexer

import (
	"context"
	"time"

	"github.com/goodnatureofminers/whisper-indexer/internal/whisper/events"
	"github.com/goodnatureofminers/whisper-indexer/internal/whisper/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Fetcher interface {
		FetchBlockWithRetry(ctx context.Context, height uint64) (*model.Block, error)
		LatestHeight(ctx context.Context) uint64
	}
	Parser interface {
		Apply(ctx context.Context, block *model.Block, sink events.Sink) (events.Stats, error)
	}
	Store interface {
		SaveMessage(ctx context.Context, m model.Message) error
		SaveProfile(ctx context.Context, p model.Profile) error
		Checkpoint(ctx context.Context) (uint64, bool, error)
		SetCheckpoint(ctx context.Context, height uint64) error
	}
	TipPublisher interface {
		PublishTip(ctx context.Context, height uint64) error
	}
	Metrics interface {
		ObserveBlock(err error, stored int, started time.Time)
		ObserveSkipped(height uint64)
		ObserveDropped(reason string, n int)
		SetTip(height uint64)
		SetCheckpoint(height uint64)
		SetPhase(phase string)
	}
)
