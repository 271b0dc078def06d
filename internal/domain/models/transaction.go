package models

// WSOLMint is the wrapped SOL mint address. Swaps frequently settle in
// WSOL token legs instead of the native leg.
const WSOLMint = "So11111111111111111111111111111111111111112"

// LamportsPerSOL converts raw native amounts to SOL.
const LamportsPerSOL = 1e9

// RawTokenAmount is an integer token amount with its decimal scale.
type RawTokenAmount struct {
	TokenAmount string `json:"tokenAmount"`
	Decimals    int    `json:"decimals"`
}

// SwapLeg is one side of a structured swap event.
type SwapLeg struct {
	UserAccount    string         `json:"userAccount"`
	TokenAccount   string         `json:"tokenAccount"`
	RawTokenAmount RawTokenAmount `json:"rawTokenAmount"`
	Mint           string         `json:"mint"`
}

// NativeLeg is the native currency side of a structured swap event.
// Amount is a lamport string.
type NativeLeg struct {
	Account string `json:"account"`
	Amount  string `json:"amount"`
}

// SwapEvent is the structured swap representation emitted by traditional
// DEX programs. Some venues leave it empty and only report transfers.
type SwapEvent struct {
	NativeInput  *NativeLeg `json:"nativeInput,omitempty"`
	NativeOutput *NativeLeg `json:"nativeOutput,omitempty"`
	TokenInputs  []SwapLeg  `json:"tokenInputs"`
	TokenOutputs []SwapLeg  `json:"tokenOutputs"`
}

// TokenTransfer is one decimal-adjusted token movement between accounts.
type TokenTransfer struct {
	FromUserAccount  string  `json:"fromUserAccount"`
	ToUserAccount    string  `json:"toUserAccount"`
	FromTokenAccount string  `json:"fromTokenAccount"`
	ToTokenAccount   string  `json:"toTokenAccount"`
	TokenAmount      float64 `json:"tokenAmount"`
	Mint             string  `json:"mint"`
	TokenStandard    string  `json:"tokenStandard"`
}

// NativeTransfer is one lamport movement between accounts.
type NativeTransfer struct {
	FromUserAccount string `json:"fromUserAccount"`
	ToUserAccount   string `json:"toUserAccount"`
	Amount          int64  `json:"amount"`
}

// TransactionEvents holds the optional structured events of a transaction.
type TransactionEvents struct {
	Swap *SwapEvent `json:"swap,omitempty"`
}

// EnhancedTransaction is one raw transaction record as delivered by the
// upstream indexer, via pull or webhook push.
type EnhancedTransaction struct {
	Signature       string             `json:"signature"`
	Timestamp       int64              `json:"timestamp"` // unix seconds
	Type            string             `json:"type"`
	Source          string             `json:"source"`
	Fee             int64              `json:"fee"`
	FeePayer        string             `json:"feePayer"`
	Events          *TransactionEvents `json:"events,omitempty"`
	TokenTransfers  []TokenTransfer    `json:"tokenTransfers,omitempty"`
	NativeTransfers []NativeTransfer   `json:"nativeTransfers,omitempty"`
	Description     string             `json:"description,omitempty"`
}
