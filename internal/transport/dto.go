package transport

import (
	"strconv"

	"github.com/goodnatureofminers/whisper-indexer/internal/whisper/model"
)

// Nanosecond timestamps exceed the safe integer range of JSON clients, so they are sent as strings.

type messageJSON struct {
	ID                  int64   `json:"id"`
	TxHash              string  `json:"tx_hash"`
	BlockHeight         uint64  `json:"block_height"`
	Timestamp           string  `json:"timestamp"`
	EventType           string  `json:"event_type"`
	Sender              string  `json:"sender"`
	Recipient           string  `json:"recipient"`
	EncryptedBody       string  `json:"encrypted_body"`
	Nonce               string  `json:"nonce"`
	RecipientKeyVersion uint32  `json:"recipient_key_version"`
	ReplyTo             *string `json:"reply_to,omitempty"`
	Amount              *string `json:"amount,omitempty"`
}

type messagesResponse struct {
	Messages   []messageJSON `json:"messages"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

type conversationJSON struct {
	Counterparty  string `json:"counterparty"`
	LastTimestamp string `json:"last_timestamp"`
	LastHeight    uint64 `json:"last_height"`
	MessageCount  uint64 `json:"message_count"`
}

type conversationsResponse struct {
	Conversations []conversationJSON `json:"conversations"`
}

type profileJSON struct {
	AccountID    string  `json:"account_id"`
	PublicKey    string  `json:"public_key"`
	KeyVersion   uint32  `json:"key_version"`
	DisplayName  *string `json:"display_name,omitempty"`
	RegisteredAt string  `json:"registered_at"`
	UpdatedAt    string  `json:"updated_at"`
}

type profilesResponse struct {
	Profiles []profileJSON `json:"profiles"`
}

type healthResponse struct {
	Status         string  `json:"status"`
	LastCheckpoint *uint64 `json:"last_checkpoint"`
	Tip            *uint64 `json:"tip"`
	Lag            *uint64 `json:"lag"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toMessageJSON(m model.Message) messageJSON {
	return messageJSON{
		ID:                  m.ID,
		TxHash:              m.TxHash,
		BlockHeight:         m.BlockHeight,
		Timestamp:           strconv.FormatUint(m.Timestamp, 10),
		EventType:           string(m.EventType),
		Sender:              m.Sender,
		Recipient:           m.Recipient,
		EncryptedBody:       m.EncryptedBody,
		Nonce:               m.Nonce,
		RecipientKeyVersion: m.RecipientKeyVersion,
		ReplyTo:             m.ReplyTo,
		Amount:              m.Amount,
	}
}

func toConversationJSON(c model.Conversation) conversationJSON {
	return conversationJSON{
		Counterparty:  c.Counterparty,
		LastTimestamp: strconv.FormatUint(c.LastTimestamp, 10),
		LastHeight:    c.LastHeight,
		MessageCount:  c.MessageCount,
	}
}

func toProfileJSON(p model.Profile) profileJSON {
	return profileJSON{
		AccountID:    p.AccountID,
		PublicKey:    p.PublicKey,
		KeyVersion:   p.KeyVersion,
		DisplayName:  p.DisplayName,
		RegisteredAt: strconv.FormatUint(p.RegisteredAt, 10),
		UpdatedAt:    strconv.FormatUint(p.UpdatedAt, 10),
	}
}
