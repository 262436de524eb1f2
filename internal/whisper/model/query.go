package model

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// DefaultPageLimit applies when a query leaves the limit unset.
	DefaultPageLimit = 50
	// MaxPageLimit caps every list query.
	MaxPageLimit = 200
)

// ErrInvalidCursor is returned for cursors that were not produced by Cursor.Encode.
var ErrInvalidCursor = errors.New("invalid cursor")

// MessageQuery selects messages exchanged between two accounts, newest first.
type MessageQuery struct {
	AccountA string
	AccountB string
	// After continues a previous page. Nil starts from the newest message.
	After *Cursor
	Limit int
}

// MessagePage is one page of a MessageQuery.
type MessagePage struct {
	Messages []Message
	// Next is nil on the last page.
	Next *Cursor
}

// Cursor is a keyset position in the (timestamp, id) ordering of messages.
type Cursor struct {
	Timestamp uint64
	ID        int64
}

// CursorAfter returns the cursor pointing past m.
func CursorAfter(m Message) *Cursor {
	return &Cursor{Timestamp: m.Timestamp, ID: m.ID}
}

// Encode returns the opaque string form of c.
func (c Cursor) Encode() string {
	raw := strconv.FormatUint(c.Timestamp, 10) + ":" + strconv.FormatInt(c.ID, 10)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// ParseCursor decodes a string produced by Cursor.Encode. An empty string yields nil.
func ParseCursor(s string) (*Cursor, error) {
	if s == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	ts, id, ok := strings.Cut(string(raw), ":")
	if !ok {
		return nil, ErrInvalidCursor
	}
	c := &Cursor{}
	if c.Timestamp, err = strconv.ParseUint(ts, 10, 64); err != nil {
		return nil, fmt.Errorf("%w: timestamp: %v", ErrInvalidCursor, err)
	}
	if c.ID, err = strconv.ParseInt(id, 10, 64); err != nil {
		return nil, fmt.Errorf("%w: id: %v", ErrInvalidCursor, err)
	}
	return c, nil
}

// Before reports whether m sorts strictly after c in newest-first order.
func (c Cursor) Before(m Message) bool {
	if m.Timestamp != c.Timestamp {
		return m.Timestamp < c.Timestamp
	}
	return m.ID < c.ID
}

// ClampLimit maps a requested page size into [1, MaxPageLimit], using DefaultPageLimit for zero.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultPageLimit
	case limit > MaxPageLimit:
		return MaxPageLimit
	default:
		return limit
	}
}
