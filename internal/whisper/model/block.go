// Package model defines domain models for whisper event indexing.
package model

// Block is a NEAR block as served by the neardata API. Only the fields the
// indexer reads are decoded.
type Block struct {
	Block  BlockView `json:"block"`
	Shards []Shard   `json:"shards"`
}

// BlockView wraps the block header.
type BlockView struct {
	Header BlockHeader `json:"header"`
}

// BlockHeader identifies a block.
type BlockHeader struct {
	Height uint64 `json:"height"`
	// Timestamp is nanoseconds since the unix epoch, used only as an ordering token.
	Timestamp uint64 `json:"timestamp"`
	Hash      string `json:"hash"`
}

// Shard groups the receipt execution outcomes of one shard chunk.
type Shard struct {
	ShardID                  uint64                    `json:"shard_id"`
	ReceiptExecutionOutcomes []ReceiptExecutionOutcome `json:"receipt_execution_outcomes"`
}

// ReceiptExecutionOutcome carries the logs emitted by one contract call.
type ReceiptExecutionOutcome struct {
	TxHash           *string          `json:"tx_hash"`
	ExecutionOutcome ExecutionOutcome `json:"execution_outcome"`
}

// ExecutionOutcome is the outcome of executing a receipt.
type ExecutionOutcome struct {
	ID      string  `json:"id"`
	Outcome Outcome `json:"outcome"`
}

// Outcome holds the executor identity and its ordered log lines.
type Outcome struct {
	ExecutorID string   `json:"executor_id"`
	Logs       []string `json:"logs"`
}

// Height returns the block height.
func (b *Block) Height() uint64 {
	return b.Block.Header.Height
}

// Timestamp returns the block timestamp in nanoseconds.
func (b *Block) Timestamp() uint64 {
	return b.Block.Header.Timestamp
}

// TransactionHash prefers the explicit transaction hash and falls back to the outcome id.
func (o ReceiptExecutionOutcome) TransactionHash() string {
	if o.TxHash != nil && *o.TxHash != "" {
		return *o.TxHash
	}
	return o.ExecutionOutcome.ID
}
