// Package memory keeps whisper messages, profiles and the checkpoint in process memory.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/goodnatureofminers/whisper-indexer/internal/whisper/model"
)

// Repository satisfies the same sink, checkpoint and read contract as the postgres repository.
type Repository struct {
	mu         sync.RWMutex
	nextID     int64
	messages   []model.Message
	keys       map[model.MessageKey]struct{}
	profiles   map[string]model.Profile
	checkpoint uint64
	hasCheck   bool
}

func NewRepository() *Repository {
	return &Repository{
		keys:     make(map[model.MessageKey]struct{}),
		profiles: make(map[string]model.Profile),
	}
}

// SaveMessage stores m unless a message with the same natural key exists.
func (r *Repository) SaveMessage(_ context.Context, m model.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := m.Key()
	if _, ok := r.keys[key]; ok {
		return nil
	}
	r.nextID++
	m.ID = r.nextID
	r.keys[key] = struct{}{}
	r.messages = append(r.messages, m)
	return nil
}

// SaveProfile upserts p. RegisteredAt of an existing profile is kept.
func (r *Repository) SaveProfile(_ context.Context, p model.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.profiles[p.AccountID]; ok {
		p.RegisteredAt = prev.RegisteredAt
	}
	r.profiles[p.AccountID] = p
	return nil
}

func (r *Repository) Checkpoint(context.Context) (uint64, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.checkpoint, r.hasCheck, nil
}

func (r *Repository) SetCheckpoint(_ context.Context, height uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkpoint = height
	r.hasCheck = true
	return nil
}

func (r *Repository) Ping(context.Context) error { return nil }

// ListMessages returns messages between q.AccountA and q.AccountB, newest first.
func (r *Repository) ListMessages(_ context.Context, q model.MessageQuery) (model.MessagePage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []model.Message
	for _, m := range r.messages {
		if !between(m, q.AccountA, q.AccountB) {
			continue
		}
		if q.After != nil && !q.After.Before(m) {
			continue
		}
		matched = append(matched, m)
	}
	sortNewestFirst(matched)

	var page model.MessagePage
	limit := model.ClampLimit(q.Limit)
	if len(matched) > limit {
		matched = matched[:limit]
		page.Next = model.CursorAfter(matched[limit-1])
	}
	page.Messages = matched
	return page, nil
}

// ListConversations returns the counterparties of account ordered by latest activity.
func (r *Repository) ListConversations(_ context.Context, account string, limit int) ([]model.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byCounterparty := make(map[string]*model.Conversation)
	for _, m := range r.messages {
		var other string
		switch account {
		case m.Sender:
			other = m.Recipient
		case m.Recipient:
			other = m.Sender
		default:
			continue
		}
		c, ok := byCounterparty[other]
		if !ok {
			c = &model.Conversation{Counterparty: other}
			byCounterparty[other] = c
		}
		c.MessageCount++
		c.LastTimestamp = max(c.LastTimestamp, m.Timestamp)
		c.LastHeight = max(c.LastHeight, m.BlockHeight)
	}

	out := make([]model.Conversation, 0, len(byCounterparty))
	for _, c := range byCounterparty {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastTimestamp != out[j].LastTimestamp {
			return out[i].LastTimestamp > out[j].LastTimestamp
		}
		return out[i].Counterparty < out[j].Counterparty
	})
	if limit = model.ClampLimit(limit); len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *Repository) Profile(_ context.Context, account string) (model.Profile, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[account]
	return p, ok, nil
}

// SearchProfiles returns profiles whose account id starts with prefix, ordered by account id.
func (r *Repository) SearchProfiles(_ context.Context, prefix string, limit int) ([]model.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []model.Profile
	for id, p := range r.profiles {
		if strings.HasPrefix(id, prefix) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountID < out[j].AccountID })
	if limit = model.ClampLimit(limit); len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func between(m model.Message, a, b string) bool {
	return (m.Sender == a && m.Recipient == b) || (m.Sender == b && m.Recipient == a)
}

func sortNewestFirst(msgs []model.Message) {
	sort.Slice(msgs, func(i, j int) bool {
		if msgs[i].Timestamp != msgs[j].Timestamp {
			return msgs[i].Timestamp > msgs[j].Timestamp
		}
		return msgs[i].ID > msgs[j].ID
	})
}
