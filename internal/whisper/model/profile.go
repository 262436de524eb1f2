package model

// Profile is the persisted projection of key registrations, keyed by account.
type Profile struct {
	AccountID   string
	PublicKey   string
	KeyVersion  uint32
	DisplayName *string
	// RegisteredAt is the block timestamp (ns) of the first registration and never changes.
	RegisteredAt uint64
	UpdatedAt    uint64
}
