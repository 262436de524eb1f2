package model

import "time"

// EventRecord is an archived copy of a stored event.
type EventRecord struct {
	BlockHeight    uint64
	BlockTimestamp time.Time
	TxHash         string
	ExecutorID     string
	EventType      EventType
	Version        string
	Account        string
	Counterparty   string
	Payload        string
}
