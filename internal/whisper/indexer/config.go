package indexer

import (
	"errors"
	"time"
)

const (
	defaultPollInterval     = time.Second
	defaultCatchUpInterval  = 50 * time.Millisecond
	defaultIdleInterval     = 2 * time.Second
	defaultErrorDelay       = 5 * time.Second
	defaultCatchUpThreshold = 100
	defaultTipRefreshEvery  = 20
)

// Config controls the polling cadence of a Poller.
type Config struct {
	Contract string
	// StartHeight is used only when no checkpoint exists. Zero means start at the chain tip.
	StartHeight uint64
	// PollInterval is the steady-state sleep near the tip.
	PollInterval time.Duration
	// CatchUpInterval is the sleep while more than CatchUpThreshold blocks behind.
	CatchUpInterval time.Duration
	// IdleInterval is the sleep once the next height is beyond the cached tip.
	IdleInterval time.Duration
	// ErrorDelay is the sleep before retrying a height that failed.
	ErrorDelay       time.Duration
	CatchUpThreshold uint64
	// TipRefreshEvery is the number of processed heights between tip refreshes.
	TipRefreshEvery int
}

// DefaultConfig returns the stock cadence for contract.
func DefaultConfig(contract string) Config {
	return Config{
		Contract:         contract,
		PollInterval:     defaultPollInterval,
		CatchUpInterval:  defaultCatchUpInterval,
		IdleInterval:     defaultIdleInterval,
		ErrorDelay:       defaultErrorDelay,
		CatchUpThreshold: defaultCatchUpThreshold,
		TipRefreshEvery:  defaultTipRefreshEvery,
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch {
	case c.Contract == "":
		return errors.New("contract is required")
	case c.PollInterval <= 0:
		return errors.New("poll interval must be positive")
	case c.CatchUpInterval <= 0:
		return errors.New("catch-up interval must be positive")
	case c.IdleInterval <= 0:
		return errors.New("idle interval must be positive")
	case c.ErrorDelay <= 0:
		return errors.New("error delay must be positive")
	case c.TipRefreshEvery <= 0:
		return errors.New("tip refresh period must be positive")
	}
	return nil
}

// Interval returns the sleep after processing up to current given the cached tip.
func (c Config) Interval(current, tip uint64) time.Duration {
	switch {
	case current > tip:
		return c.IdleInterval
	case tip-current > c.CatchUpThreshold:
		return c.CatchUpInterval
	default:
		return c.PollInterval
	}
}
