package models

import "github.com/google/uuid"

// Side is the direction of a swap relative to the tracked token.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Trade is a single normalized swap event for the tracked token.
// Amounts are decimal-adjusted (never raw lamport/integer units) and both
// magnitudes are strictly positive; the parser rejects anything else.
// Note: no transport (json tags kept for the stream/API payloads only).
type Trade struct {
	ID          string  `json:"id"`
	Signature   string  `json:"signature"`
	Timestamp   int64   `json:"timestamp"` // ms since epoch, event time
	Wallet      string  `json:"wallet"`
	Side        Side    `json:"side"`
	TokenAmount float64 `json:"tokenAmount"`
	SolAmount   float64 `json:"solAmount"`
	Price       float64 `json:"price"` // SOL per token
	Source      string  `json:"source"`
}

// NewTradeID returns a process-local unique trade identifier.
func NewTradeID() string { return uuid.NewString() }
