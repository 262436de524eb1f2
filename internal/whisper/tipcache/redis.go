// Package tipcache shares the latest observed chain height between the indexer and the query API.
package tipcache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL bounds how long a published tip stays visible without a refresh.
const DefaultTTL = 10 * time.Minute

// Key returns the redis key holding the tip for contract.
func Key(contract string) string {
	return "whisper:tip:" + contract
}

type Redis struct {
	client Client
	key    string
	ttl    time.Duration
	close  func() error
}

// NewRedis connects to the redis server at url and verifies the connection.
func NewRedis(ctx context.Context, url, contract string) (*Redis, error) {
	if contract == "" {
		return nil, errors.New("contract is required")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	rdb := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &Redis{client: rdb, key: Key(contract), ttl: DefaultTTL, close: rdb.Close}, nil
}

func (r *Redis) Close() error {
	if r.close == nil {
		return nil
	}
	return r.close()
}

// PublishTip stores height as the current tip.
func (r *Redis) PublishTip(ctx context.Context, height uint64) error {
	if err := r.client.Set(ctx, r.key, strconv.FormatUint(height, 10), r.ttl).Err(); err != nil {
		return fmt.Errorf("set tip: %w", err)
	}
	return nil
}

// Tip returns the last published tip. found is false when none is stored or it expired.
func (r *Redis) Tip(ctx context.Context) (height uint64, found bool, err error) {
	val, err := r.client.Get(ctx, r.key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get tip: %w", err)
	}
	height, err = strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("parse tip %q: %w", val, err)
	}
	return height, true, nil
}
