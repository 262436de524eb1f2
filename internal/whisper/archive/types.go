package archive

import (
	"context"

	"github.com/goodnatureofminers/whisper-indexer/internal/whisper/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Inserter interface {
		InsertEvents(ctx context.Context, records []model.EventRecord) error
	}
)
