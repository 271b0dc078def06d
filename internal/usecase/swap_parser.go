package usecase

import (
	"math"
	"strconv"

	"TapeFeed/internal/domain/models"
)

// Strategy labels reported in metrics and diagnostics.
const (
	StrategySwapEvent      = "swap_event"
	StrategyTokenTransfers = "token_transfers"
)

// ParseStrategy converts one raw transaction into a trade, or nil when the
// record is not recognizable under this strategy.
type ParseStrategy func(tx *models.EnhancedTransaction, mint, pool string) *models.Trade

// SwapParser normalizes raw transaction records into trades. Strategies are
// tried in order and the first non-nil result wins. Parsing never fails:
// ambiguous records resolve to nil and are dropped by the caller.
type SwapParser struct {
	strategies []ParseStrategy
}

// NewSwapParser creates a parser with the default strategy chain:
// structured swap events first, raw token transfers as fallback.
func NewSwapParser() *SwapParser {
	return &SwapParser{
		strategies: []ParseStrategy{
			parseFromSwapEvent,
			parseFromTokenTransfers,
		},
	}
}

// Parse converts tx into a trade for the tracked mint, or nil.
// pool should be the pool address when known, the mint otherwise.
func (p *SwapParser) Parse(tx *models.EnhancedTransaction, mint, pool string) *models.Trade {
	if tx == nil || mint == "" {
		return nil
	}
	if pool == "" {
		pool = mint
	}
	for _, strategy := range p.strategies {
		if t := strategy(tx, mint, pool); t != nil {
			return t
		}
	}
	return nil
}

// StrategyName reports which strategy would accept tx, for metrics.
func (p *SwapParser) StrategyName(tx *models.EnhancedTransaction, mint, pool string) string {
	if pool == "" {
		pool = mint
	}
	if parseFromSwapEvent(tx, mint, pool) != nil {
		return StrategySwapEvent
	}
	return StrategyTokenTransfers
}

// parseFromSwapEvent handles records with a structured swap event
// (traditional DEX programs). Direction follows the SOL/WSOL flow: SOL in
// and tracked token out is a buy, token in and SOL out is a sell.
func parseFromSwapEvent(tx *models.EnhancedTransaction, mint, pool string) *models.Trade {
	if tx.Events == nil || tx.Events.Swap == nil {
		return nil
	}
	swap := tx.Events.Swap

	nativeIn := parseLamports(swap.NativeInput)
	nativeOut := parseLamports(swap.NativeOutput)
	wsolIn := findWSOLAmount(swap.TokenInputs)
	wsolOut := findWSOLAmount(swap.TokenOutputs)

	solGoingIn := nativeIn > 0 || wsolIn > 0
	solComingOut := nativeOut > 0 || wsolOut > 0

	tokenInOutput := findLegByMint(swap.TokenOutputs, mint)
	tokenInInput := findLegByMint(swap.TokenInputs, mint)

	var side models.Side
	var leg *models.SwapLeg
	var solAmount float64

	switch {
	case tokenInOutput != nil && solGoingIn:
		side = models.SideBuy
		leg = tokenInOutput
		if nativeIn > 0 {
			solAmount = float64(nativeIn) / models.LamportsPerSOL
		} else {
			solAmount = wsolIn
		}
	case tokenInInput != nil && solComingOut:
		side = models.SideSell
		leg = tokenInInput
		if nativeOut > 0 {
			solAmount = float64(nativeOut) / models.LamportsPerSOL
		} else {
			solAmount = wsolOut
		}
	default:
		return nil
	}

	if solAmount == 0 {
		return nil
	}

	tokenAmount := adjustRawAmount(leg.RawTokenAmount)
	if tokenAmount == 0 {
		return nil
	}

	return &models.Trade{
		ID:          models.NewTradeID(),
		Signature:   tx.Signature,
		Timestamp:   tx.Timestamp * 1000,
		Wallet:      tx.FeePayer,
		Side:        side,
		TokenAmount: tokenAmount,
		SolAmount:   solAmount,
		Price:       solAmount / tokenAmount,
		Source:      tx.Source,
	}
}

// parseFromTokenTransfers handles venues that omit structured swap events
// and only report raw transfer legs. Direction is inferred from the tracked
// token's flow relative to the pool, falling back to the WSOL flow, and the
// SOL side falls back to the largest WSOL transfer for routed swaps. The
// last fallback is a best-effort approximation, not exact for multi-hop
// aggregator routes.
func parseFromTokenTransfers(tx *models.EnhancedTransaction, mint, pool string) *models.Trade {
	transfers := tx.TokenTransfers
	if len(transfers) == 0 {
		return nil
	}

	var tokenTransfer *models.TokenTransfer
	var wsolTransfers []models.TokenTransfer
	for i := range transfers {
		switch transfers[i].Mint {
		case mint:
			if tokenTransfer == nil {
				tokenTransfer = &transfers[i]
			}
		case models.WSOLMint:
			wsolTransfers = append(wsolTransfers, transfers[i])
		}
	}
	if tokenTransfer == nil {
		return nil
	}

	var side models.Side
	wallet := tx.FeePayer

	switch {
	case tokenTransfer.FromUserAccount == pool:
		// Token leaves the pool, a wallet is buying.
		side = models.SideBuy
		wallet = tokenTransfer.ToUserAccount
	case tokenTransfer.ToUserAccount == pool:
		side = models.SideSell
		wallet = tokenTransfer.FromUserAccount
	default:
		// Routed through an intermediary: read direction off the WSOL flow.
		for i := range wsolTransfers {
			if wsolTransfers[i].ToUserAccount == pool {
				side = models.SideBuy
				wallet = wsolTransfers[i].FromUserAccount
				break
			}
			if wsolTransfers[i].FromUserAccount == pool {
				side = models.SideSell
				wallet = wsolTransfers[i].ToUserAccount
				break
			}
		}
		if side == "" {
			return nil
		}
	}

	tokenAmount := tokenTransfer.TokenAmount

	// Sum the WSOL legs touching the pool in the trade's direction.
	var solAmount float64
	for _, wsol := range wsolTransfers {
		if side == models.SideBuy && wsol.ToUserAccount == pool {
			solAmount += wsol.TokenAmount
		} else if side == models.SideSell && wsol.FromUserAccount == pool {
			solAmount += wsol.TokenAmount
		}
	}

	// No WSOL leg touched the pool directly; approximate with the largest
	// WSOL transfer in the record.
	if solAmount == 0 {
		for _, wsol := range wsolTransfers {
			solAmount = math.Max(solAmount, wsol.TokenAmount)
		}
	}

	if tokenAmount == 0 || solAmount == 0 {
		return nil
	}

	return &models.Trade{
		ID:          models.NewTradeID(),
		Signature:   tx.Signature,
		Timestamp:   tx.Timestamp * 1000,
		Wallet:      wallet,
		Side:        side,
		TokenAmount: tokenAmount,
		SolAmount:   solAmount,
		Price:       solAmount / tokenAmount,
		Source:      tx.Source,
	}
}

func parseLamports(leg *models.NativeLeg) int64 {
	if leg == nil || leg.Amount == "" {
		return 0
	}
	n, err := strconv.ParseInt(leg.Amount, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func findWSOLAmount(legs []models.SwapLeg) float64 {
	for i := range legs {
		if legs[i].Mint == models.WSOLMint {
			return adjustRawAmount(legs[i].RawTokenAmount)
		}
	}
	return 0
}

func findLegByMint(legs []models.SwapLeg, mint string) *models.SwapLeg {
	for i := range legs {
		if legs[i].Mint == mint {
			return &legs[i]
		}
	}
	return nil
}

func adjustRawAmount(raw models.RawTokenAmount) float64 {
	n, err := strconv.ParseInt(raw.TokenAmount, 10, 64)
	if err != nil || n <= 0 {
		return 0
	}
	return float64(n) / math.Pow10(raw.Decimals)
}
