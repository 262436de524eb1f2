package model

// EventType is the tag of a whisper event.
type EventType string

const (
	EventMessageSent            EventType = "message_sent"
	EventMessageSentWithPayment EventType = "message_sent_with_payment"
	EventKeyRegistered          EventType = "key_registered"
	EventGroupCreated           EventType = "group_created"
)

// Message is the persisted projection of message events.
// (TxHash, EventType, Sender, Recipient) is its natural key.
type Message struct {
	ID                  int64
	TxHash              string
	BlockHeight         uint64
	Timestamp           uint64
	EventType           EventType
	Sender              string
	Recipient           string
	EncryptedBody       string
	Nonce               string
	RecipientKeyVersion uint32
	ReplyTo             *string
	// Amount is a yoctoNEAR decimal string, set only for paid messages.
	Amount *string
}

// MessageKey is the dedup key of a message.
type MessageKey struct {
	TxHash    string
	EventType EventType
	Sender    string
	Recipient string
}

// Key returns the natural key of the message.
func (m Message) Key() MessageKey {
	return MessageKey{
		TxHash:    m.TxHash,
		EventType: m.EventType,
		Sender:    m.Sender,
		Recipient: m.Recipient,
	}
}

// Conversation summarises messages exchanged with one counterparty.
type Conversation struct {
	Counterparty  string
	LastTimestamp uint64
	LastHeight    uint64
	MessageCount  uint64
}
