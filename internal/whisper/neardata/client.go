// Package neardata fetches NEAR blocks from a neardata-style REST API.
package neardata

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sugawarayuuta/sonnet"
	"go.uber.org/ratelimit"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/whisper-indexer/internal/clock"
	"github.com/goodnatureofminers/whisper-indexer/internal/whisper/model"
)

// Config controls the upstream client.
type Config struct {
	BaseURL string
	// MaxAttempts bounds FetchBlockWithRetry.
	MaxAttempts int
	// BaseDelay is the first retry delay; it doubles per attempt.
	BaseDelay time.Duration
	// RequestsPerSecond paces outbound requests. Zero disables pacing.
	RequestsPerSecond int
	Timeout           time.Duration
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = defaultMaxAttempts
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = defaultBaseDelay
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	return c
}

// Client fetches blocks and tracks the last known chain tip.
type Client struct {
	baseURL     string
	http        Doer
	limiter     ratelimit.Limiter
	metrics     Metrics
	logger      *zap.Logger
	sleep       clock.Sleeper
	maxAttempts int
	baseDelay   time.Duration

	lastTip atomic.Uint64
}

// NewClient builds a Client. When doer is nil an *http.Client with cfg.Timeout is used.
func NewClient(cfg Config, doer Doer, metrics Metrics, logger *zap.Logger) (*Client, error) {
	if metrics == nil {
		return nil, errors.New("neardata metrics is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg = cfg.withDefaults()
	if doer == nil {
		doer = &http.Client{Timeout: cfg.Timeout}
	}

	limiter := ratelimit.NewUnlimited()
	if cfg.RequestsPerSecond > 0 {
		limiter = ratelimit.New(cfg.RequestsPerSecond)
	}

	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		http:        doer,
		limiter:     limiter,
		metrics:     metrics,
		logger:      logger.Named("neardata"),
		sleep:       clock.SleepWithContext,
		maxAttempts: cfg.MaxAttempts,
		baseDelay:   cfg.BaseDelay,
	}, nil
}

// FetchBlock performs one request for the block at height.
// It returns (nil, nil) when the service reports no data for the height and an error only
// for transport failures.
func (c *Client) FetchBlock(ctx context.Context, height uint64) (block *model.Block, err error) {
	started := time.Now()
	defer func() {
		c.metrics.Observe(opFetchBlock, outcomeOf(block, err), started)
	}()

	body, ok, err := c.get(ctx, "/block/"+strconv.FormatUint(height, 10))
	if err != nil || !ok {
		return nil, err
	}
	block, err = decodeBlock(body)
	if err != nil {
		c.logger.Debug("undecodable block body treated as missing", zap.Uint64("height", height), zap.Error(err))
		return nil, nil
	}
	return block, nil
}

// FetchBlockWithRetry calls FetchBlock up to MaxAttempts times, sleeping BaseDelay*2^attempt
// between attempts, and returns the last outcome.
func (c *Client) FetchBlockWithRetry(ctx context.Context, height uint64) (*model.Block, error) {
	var (
		block *model.Block
		err   error
	)
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		block, err = c.FetchBlock(ctx, height)
		if err == nil && block != nil {
			return block, nil
		}
		if attempt == c.maxAttempts-1 {
			break
		}
		delay := clock.Backoff(c.baseDelay, attempt)
		c.logger.Debug("block fetch retry",
			zap.Uint64("height", height),
			zap.Int("attempt", attempt+1),
			zap.Duration("sleep", delay),
			zap.Error(err),
		)
		if sleepErr := c.sleep(ctx, delay); sleepErr != nil {
			if err == nil {
				err = sleepErr
			}
			return nil, fmt.Errorf("fetch block %d: %w", height, err)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("fetch block %d: %w", height, err)
	}
	return nil, nil
}

// LatestHeight returns the height of the latest final block. On any failure it returns the
// last known value, which starts at zero.
func (c *Client) LatestHeight(ctx context.Context) uint64 {
	started := time.Now()
	block, err := c.latestBlock(ctx)
	c.metrics.Observe(opLatestHeight, outcomeOf(block, err), started)
	if err != nil || block == nil {
		c.logger.Warn("latest height unavailable, using last known tip",
			zap.Uint64("tip", c.lastTip.Load()),
			zap.Error(err),
		)
		return c.lastTip.Load()
	}
	c.lastTip.Store(block.Height())
	return block.Height()
}

func (c *Client) latestBlock(ctx context.Context) (*model.Block, error) {
	body, ok, err := c.get(ctx, "/last_block/final")
	if err != nil || !ok {
		return nil, err
	}
	block, err := decodeBlock(body)
	if err != nil {
		return nil, err
	}
	if block == nil || block.Height() == 0 {
		return nil, nil
	}
	return block, nil
}

// get returns the body of a 2xx response. ok is false for any other status.
func (c *Client) get(ctx context.Context, path string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.limiter.Take()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, false, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", path, err)
	}
	return body, true, nil
}

type errorEnvelope struct {
	Error json.RawMessage `json:"error"`
}

// decodeBlock returns (nil, nil) for a null body or an explicit error payload.
func decodeBlock(body []byte) (*model.Block, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return nil, nil
	}

	var env errorEnvelope
	if err := sonnet.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode block: %w", err)
	}
	if len(env.Error) > 0 && !bytes.Equal(env.Error, []byte("null")) {
		return nil, nil
	}

	var block model.Block
	if err := sonnet.Unmarshal(body, &block); err != nil {
		return nil, fmt.Errorf("decode block: %w", err)
	}
	return &block, nil
}

func outcomeOf(block *model.Block, err error) string {
	switch {
	case err != nil:
		return OutcomeError
	case block == nil:
		return OutcomeMissing
	default:
		return OutcomeData
	}
}
