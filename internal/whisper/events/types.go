package events

import (
	"context"

	"github.com/goodnatureofminers/whisper-indexer/internal/whisper/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Sink persists projected events. Both writes must be idempotent.
	Sink interface {
		SaveMessage(ctx context.Context, m model.Message) error
		SaveProfile(ctx context.Context, p model.Profile) error
	}
	// Recorder receives a copy of every stored event. Failures never affect indexing.
	Recorder interface {
		Record(ctx context.Context, rec model.EventRecord) error
	}
)
