// Package events decodes whisper contract logs into typed domain events and applies them to a sink.
package events

import "github.com/goodnatureofminers/whisper-indexer/internal/whisper/model"

const (
	// Marker prefixes log lines carrying a structured event.
	Marker = "EVENT_JSON:"
	// Standard is the envelope standard emitted by the whisper contract.
	Standard = "whisper"
)

// Event is one decoded whisper event. The set of implementations is closed.
type Event interface {
	Tag() model.EventType
	isEvent()
}

// MessageSent is an encrypted message from one account to another.
type MessageSent struct {
	From                string
	To                  string
	EncryptedBody       string
	Nonce               string
	RecipientKeyVersion uint32
	ReplyTo             *string
}

// MessageSentWithPayment is a message carrying a NEAR transfer.
type MessageSentWithPayment struct {
	MessageSent
	// Amount is a yoctoNEAR decimal string.
	Amount string
}

// KeyRegistered publishes or rotates the public key of an account.
type KeyRegistered struct {
	AccountID   string
	PublicKey   string
	KeyVersion  uint32
	DisplayName *string
}

// GroupCreated announces a group conversation.
type GroupCreated struct {
	GroupID string
	Creator string
	Name    *string
	Members []string
}

func (MessageSent) Tag() model.EventType            { return model.EventMessageSent }
func (MessageSentWithPayment) Tag() model.EventType { return model.EventMessageSentWithPayment }
func (KeyRegistered) Tag() model.EventType          { return model.EventKeyRegistered }
func (GroupCreated) Tag() model.EventType           { return model.EventGroupCreated }

func (MessageSent) isEvent()            {}
func (MessageSentWithPayment) isEvent() {}
func (KeyRegistered) isEvent()          {}
func (GroupCreated) isEvent()           {}

// KnownTags lists every event tag Decode understands.
var KnownTags = []model.EventType{
	model.EventMessageSent,
	model.EventMessageSentWithPayment,
	model.EventKeyRegistered,
	model.EventGroupCreated,
}
