package transport

import (
	"context"
	"time"

	"github.com/goodnatureofminers/whisper-indexer/internal/whisper/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Store interface {
		ListMessages(ctx context.Context, q model.MessageQuery) (model.MessagePage, error)
		ListConversations(ctx context.Context, account string, limit int) ([]model.Conversation, error)
		Profile(ctx context.Context, account string) (model.Profile, bool, error)
		SearchProfiles(ctx context.Context, prefix string, limit int) ([]model.Profile, error)
		Checkpoint(ctx context.Context) (uint64, bool, error)
		Ping(ctx context.Context) error
	}
	TipSource interface {
		Tip(ctx context.Context) (uint64, bool, error)
	}
	Metrics interface {
		Observe(route string, code int, started time.Time)
	}
)
