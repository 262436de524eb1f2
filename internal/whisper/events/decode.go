package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/goodnatureofminers/whisper-indexer/internal/whisper/model"
	"github.com/sugawarayuuta/sonnet"
)

// maxKeyVersion is the largest key version the sinks can store.
const maxKeyVersion = math.MaxInt32

var (
	// ErrNotEvent marks a log line without the event marker.
	ErrNotEvent = errors.New("log line is not an event")
	// ErrMalformed marks a line or item that is not valid JSON or fails schema validation.
	ErrMalformed = errors.New("malformed event")
	// ErrForeignStandard marks an envelope of another standard.
	ErrForeignStandard = errors.New("foreign event standard")
	// ErrUnknownEvent marks an envelope with an unrecognized event tag.
	ErrUnknownEvent = errors.New("unknown event")
)

// Decoded is the validated content of one event log line.
type Decoded struct {
	Version string
	Tag     model.EventType
	Items   []Item
	// Invalid counts data items skipped because they failed validation.
	Invalid int
}

// Item is one decoded data entry together with its raw JSON.
type Item struct {
	Event Event
	Raw   string
}

type envelope struct {
	Standard string            `json:"standard"`
	Version  string            `json:"version"`
	Event    string            `json:"event"`
	Data     []json.RawMessage `json:"data"`
}

type messageData struct {
	From                string  `json:"from"`
	To                  string  `json:"to"`
	EncryptedBody       string  `json:"encrypted_body"`
	Nonce               string  `json:"nonce"`
	RecipientKeyVersion *uint32 `json:"recipient_key_version"`
	ReplyTo             *string `json:"reply_to"`
	Amount              *string `json:"amount"`
}

type keyRegisteredData struct {
	AccountID   string  `json:"account_id"`
	PublicKey   string  `json:"public_key"`
	KeyVersion  *uint32 `json:"key_version"`
	DisplayName *string `json:"display_name"`
}

type groupCreatedData struct {
	GroupID string   `json:"group_id"`
	Creator string   `json:"creator"`
	Name    *string  `json:"name"`
	Members []string `json:"members"`
}

// Decode parses a contract log line. A whole-line failure is reported as an error wrapping
// one of the package sentinels; per-item validation failures are counted in Decoded.Invalid.
func Decode(line string) (Decoded, error) {
	body, ok := strings.CutPrefix(line, Marker)
	if !ok {
		return Decoded{}, ErrNotEvent
	}

	var env envelope
	if err := sonnet.Unmarshal([]byte(body), &env); err != nil {
		return Decoded{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if env.Standard != Standard {
		return Decoded{}, fmt.Errorf("%w: %q", ErrForeignStandard, env.Standard)
	}

	tag := model.EventType(env.Event)
	decodeItem, err := itemDecoder(tag)
	if err != nil {
		return Decoded{}, err
	}

	out := Decoded{
		Version: env.Version,
		Tag:     tag,
		Items:   make([]Item, 0, len(env.Data)),
	}
	for _, raw := range env.Data {
		ev, err := decodeItem(raw)
		if err != nil {
			out.Invalid++
			continue
		}
		out.Items = append(out.Items, Item{Event: ev, Raw: string(raw)})
	}
	return out, nil
}

func itemDecoder(tag model.EventType) (func(json.RawMessage) (Event, error), error) {
	switch tag {
	case model.EventMessageSent:
		return decodeMessageSent, nil
	case model.EventMessageSentWithPayment:
		return decodeMessageSentWithPayment, nil
	case model.EventKeyRegistered:
		return decodeKeyRegistered, nil
	case model.EventGroupCreated:
		return decodeGroupCreated, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, tag)
	}
}

func decodeMessage(raw json.RawMessage) (messageData, error) {
	var d messageData
	if err := sonnet.Unmarshal(raw, &d); err != nil {
		return d, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	switch {
	case d.From == "":
		return d, fmt.Errorf("%w: missing from", ErrMalformed)
	case d.To == "":
		return d, fmt.Errorf("%w: missing to", ErrMalformed)
	case d.EncryptedBody == "":
		return d, fmt.Errorf("%w: missing encrypted_body", ErrMalformed)
	case d.Nonce == "":
		return d, fmt.Errorf("%w: missing nonce", ErrMalformed)
	case d.RecipientKeyVersion == nil:
		return d, fmt.Errorf("%w: missing recipient_key_version", ErrMalformed)
	case *d.RecipientKeyVersion > maxKeyVersion:
		return d, fmt.Errorf("%w: recipient_key_version %d out of range", ErrMalformed, *d.RecipientKeyVersion)
	}
	return d, nil
}

func (d messageData) event() MessageSent {
	return MessageSent{
		From:                d.From,
		To:                  d.To,
		EncryptedBody:       d.EncryptedBody,
		Nonce:               d.Nonce,
		RecipientKeyVersion: *d.RecipientKeyVersion,
		ReplyTo:             d.ReplyTo,
	}
}

func decodeMessageSent(raw json.RawMessage) (Event, error) {
	d, err := decodeMessage(raw)
	if err != nil {
		return nil, err
	}
	return d.event(), nil
}

func decodeMessageSentWithPayment(raw json.RawMessage) (Event, error) {
	d, err := decodeMessage(raw)
	if err != nil {
		return nil, err
	}
	if d.Amount == nil || !isDecimal(*d.Amount) {
		return nil, fmt.Errorf("%w: amount must be a decimal string", ErrMalformed)
	}
	return MessageSentWithPayment{MessageSent: d.event(), Amount: *d.Amount}, nil
}

func decodeKeyRegistered(raw json.RawMessage) (Event, error) {
	var d keyRegisteredData
	if err := sonnet.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	switch {
	case d.AccountID == "":
		return nil, fmt.Errorf("%w: missing account_id", ErrMalformed)
	case d.PublicKey == "":
		return nil, fmt.Errorf("%w: missing public_key", ErrMalformed)
	case d.KeyVersion == nil:
		return nil, fmt.Errorf("%w: missing key_version", ErrMalformed)
	case *d.KeyVersion > maxKeyVersion:
		return nil, fmt.Errorf("%w: key_version %d out of range", ErrMalformed, *d.KeyVersion)
	}
	return KeyRegistered{
		AccountID:   d.AccountID,
		PublicKey:   d.PublicKey,
		KeyVersion:  *d.KeyVersion,
		DisplayName: d.DisplayName,
	}, nil
}

func decodeGroupCreated(raw json.RawMessage) (Event, error) {
	var d groupCreatedData
	if err := sonnet.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if d.GroupID == "" || d.Creator == "" {
		return nil, fmt.Errorf("%w: missing group_id or creator", ErrMalformed)
	}
	return GroupCreated{
		GroupID: d.GroupID,
		Creator: d.Creator,
		Name:    d.Name,
		Members: d.Members,
	}, nil
}

func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
