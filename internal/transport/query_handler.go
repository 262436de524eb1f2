// Package transport exposes the read-only whisper query API over HTTP.
package transport

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	gwruntime "github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/rs/cors"
	"github.com/sugawarayuuta/sonnet"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/whisper-indexer/internal/whisper/model"
)

const (
	routeMessages      = "/v1/messages"
	routeConversations = "/v1/conversations/{account}"
	routeProfile       = "/v1/profiles/{account}"
	routeProfiles      = "/v1/profiles"
	routeHealth        = "/v1/health"
)

const (
	StatusOK          = "ok"
	StatusUnavailable = "unavailable"
)

var errBadRequest = errors.New("bad request")

// QueryHandler serves messages, conversations, profiles and indexer health.
type QueryHandler struct {
	store   Store
	tips    TipSource
	metrics Metrics
	logger  *zap.Logger
}

// NewQueryHandler builds a QueryHandler. tips may be nil when no tip cache is configured.
func NewQueryHandler(store Store, tips TipSource, metrics Metrics, logger *zap.Logger) (*QueryHandler, error) {
	if store == nil {
		return nil, errors.New("store is required")
	}
	if metrics == nil {
		return nil, errors.New("metrics is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueryHandler{
		store:   store,
		tips:    tips,
		metrics: metrics,
		logger:  logger.Named("query"),
	}, nil
}

// Register adds the query routes to mux.
func (h *QueryHandler) Register(mux *gwruntime.ServeMux) error {
	routes := []struct {
		pattern string
		handler func(*http.Request, map[string]string) (int, any)
	}{
		{routeMessages, h.listMessages},
		{routeConversations, h.listConversations},
		{routeProfile, h.profile},
		{routeProfiles, h.searchProfiles},
		{routeHealth, h.health},
	}
	for _, rt := range routes {
		if err := mux.HandlePath(http.MethodGet, rt.pattern, h.observed(rt.pattern, rt.handler)); err != nil {
			return err
		}
	}
	return nil
}

// Handler returns the routes behind a permissive CORS policy.
func (h *QueryHandler) Handler() (http.Handler, error) {
	mux := gwruntime.NewServeMux()
	if err := h.Register(mux); err != nil {
		return nil, err
	}
	return cors.Default().Handler(mux), nil
}

func (h *QueryHandler) observed(route string, fn func(*http.Request, map[string]string) (int, any)) gwruntime.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, params map[string]string) {
		start := time.Now()
		code, body := fn(r, params)
		h.writeJSON(w, code, body)
		h.metrics.Observe(route, code, start)
	}
}

func (h *QueryHandler) writeJSON(w http.ResponseWriter, code int, body any) {
	payload, err := sonnet.Marshal(body)
	if err != nil {
		h.logger.Error("encode response", zap.Error(err))
		code = http.StatusInternalServerError
		payload = []byte(`{"error":"internal error"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(payload)
}

func (h *QueryHandler) fail(op string, err error) (int, any) {
	if errors.Is(err, errBadRequest) || errors.Is(err, model.ErrInvalidCursor) {
		return http.StatusBadRequest, errorResponse{Error: err.Error()}
	}
	h.logger.Error("query failed", zap.String("op", op), zap.Error(err))
	return http.StatusInternalServerError, errorResponse{Error: "internal error"}
}

func (h *QueryHandler) listMessages(r *http.Request, _ map[string]string) (int, any) {
	q := r.URL.Query()
	a, b := strings.TrimSpace(q.Get("account_a")), strings.TrimSpace(q.Get("account_b"))
	if a == "" || b == "" {
		return h.fail("list_messages", badRequest("account_a and account_b are required"))
	}
	limit, err := parseLimit(q.Get("limit"))
	if err != nil {
		return h.fail("list_messages", err)
	}
	cursor, err := model.ParseCursor(q.Get("cursor"))
	if err != nil {
		return h.fail("list_messages", err)
	}

	page, err := h.store.ListMessages(r.Context(), model.MessageQuery{AccountA: a, AccountB: b, After: cursor, Limit: limit})
	if err != nil {
		return h.fail("list_messages", err)
	}

	resp := messagesResponse{Messages: make([]messageJSON, 0, len(page.Messages))}
	for _, m := range page.Messages {
		resp.Messages = append(resp.Messages, toMessageJSON(m))
	}
	if page.Next != nil {
		resp.NextCursor = page.Next.Encode()
	}
	return http.StatusOK, resp
}

func (h *QueryHandler) listConversations(r *http.Request, params map[string]string) (int, any) {
	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		return h.fail("list_conversations", err)
	}
	conversations, err := h.store.ListConversations(r.Context(), params["account"], limit)
	if err != nil {
		return h.fail("list_conversations", err)
	}

	resp := conversationsResponse{Conversations: make([]conversationJSON, 0, len(conversations))}
	for _, c := range conversations {
		resp.Conversations = append(resp.Conversations, toConversationJSON(c))
	}
	return http.StatusOK, resp
}

func (h *QueryHandler) profile(r *http.Request, params map[string]string) (int, any) {
	p, found, err := h.store.Profile(r.Context(), params["account"])
	if err != nil {
		return h.fail("profile", err)
	}
	if !found {
		return http.StatusNotFound, errorResponse{Error: "profile not found"}
	}
	return http.StatusOK, toProfileJSON(p)
}

func (h *QueryHandler) searchProfiles(r *http.Request, _ map[string]string) (int, any) {
	q := r.URL.Query()
	prefix := strings.TrimSpace(q.Get("q"))
	if prefix == "" {
		return h.fail("search_profiles", badRequest("q is required"))
	}
	limit, err := parseLimit(q.Get("limit"))
	if err != nil {
		return h.fail("search_profiles", err)
	}
	profiles, err := h.store.SearchProfiles(r.Context(), prefix, limit)
	if err != nil {
		return h.fail("search_profiles", err)
	}

	resp := profilesResponse{Profiles: make([]profileJSON, 0, len(profiles))}
	for _, p := range profiles {
		resp.Profiles = append(resp.Profiles, toProfileJSON(p))
	}
	return http.StatusOK, resp
}

func (h *QueryHandler) health(r *http.Request, _ map[string]string) (int, any) {
	ctx := r.Context()
	resp := healthResponse{Status: StatusOK}

	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warn("storage ping failed", zap.Error(err))
		resp.Status = StatusUnavailable
		return http.StatusServiceUnavailable, resp
	}

	if height, found, err := h.store.Checkpoint(ctx); err != nil {
		h.logger.Warn("read checkpoint", zap.Error(err))
	} else if found {
		resp.LastCheckpoint = &height
	}
	if tip, found := h.tip(ctx); found {
		resp.Tip = &tip
		if resp.LastCheckpoint != nil {
			lag := uint64(0)
			if tip > *resp.LastCheckpoint {
				lag = tip - *resp.LastCheckpoint
			}
			resp.Lag = &lag
		}
	}
	return http.StatusOK, resp
}

func (h *QueryHandler) tip(ctx context.Context) (uint64, bool) {
	if h.tips == nil {
		return 0, false
	}
	tip, found, err := h.tips.Tip(ctx)
	if err != nil {
		h.logger.Warn("read tip", zap.Error(err))
		return 0, false
	}
	return tip, found
}

func parseLimit(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, badRequest("limit must be a non-negative integer")
	}
	return model.ClampLimit(limit), nil
}

func badRequest(msg string) error {
	return &requestError{msg: msg}
}

type requestError struct{ msg string }

func (e *requestError) Error() string        { return e.msg }
func (e *requestError) Is(target error) bool { return target == errBadRequest }
