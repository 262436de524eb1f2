package neardata

import "time"

const (
	// DefaultBaseURL is the public mainnet neardata endpoint.
	DefaultBaseURL = "https://mainnet.neardata.xyz/v0"

	defaultMaxAttempts = 3
	defaultBaseDelay   = 500 * time.Millisecond
	defaultTimeout     = 30 * time.Second

	maxBodyBytes = 64 << 20
)

// Request outcomes reported to Metrics.
const (
	OutcomeData    = "data"
	OutcomeMissing = "missing"
	OutcomeError   = "error"
)

const (
	opFetchBlock   = "fetch_block"
	opLatestHeight = "latest_height"
)
