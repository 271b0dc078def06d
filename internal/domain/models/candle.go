package models

import "github.com/google/uuid"

// Fee policy: 1% of SOL volume total, split between creator and protocol.
const (
	FeeTotalRate    = 0.01
	FeeCreatorRate  = 0.003
	FeeProtocolRate = 0.007
)

// Fees is the fee breakdown derived from candle volume.
type Fees struct {
	Total    float64 `json:"total"`
	Creator  float64 `json:"creator"`
	Protocol float64 `json:"protocol"`
}

// FeesForVolume derives the fee split for a SOL volume.
func FeesForVolume(volume float64) Fees {
	return Fees{
		Total:    volume * FeeTotalRate,
		Creator:  volume * FeeCreatorRate,
		Protocol: volume * FeeProtocolRate,
	}
}

// PriceBar is one OHLCV sample from the external chart feed.
// Time is in unix seconds; the bucket it belongs to starts at Time*1000 ms.
type PriceBar struct {
	Time   int64   `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// Candle aggregates trade activity within one fixed time window.
// A candle is mutable while current and immutable once sealed; sealed
// candles are appended to an ordered history and never touched again.
type Candle struct {
	ID           string  `json:"id"`
	CandleNumber int     `json:"candleNumber"`
	StartTime    int64   `json:"startTime"` // ms
	EndTime      int64   `json:"endTime"`   // StartTime + duration
	Open         float64 `json:"open"`
	High         float64 `json:"high"`
	Low          float64 `json:"low"`
	Close        float64 `json:"close"`
	Volume       float64 `json:"volume"`
	BuyVolume    float64 `json:"buyVolume"`
	SellVolume   float64 `json:"sellVolume"`
	TradeCount   int     `json:"tradeCount"`
	BuyCount     int     `json:"buyCount"`
	SellCount    int     `json:"sellCount"`
	Trades       []Trade `json:"trades"`
	Fees         Fees    `json:"fees"`
}

// Printable reports whether the candle carries usable price levels.
// Degenerate buckets (zero open or close) still seal to preserve
// seriality but must not be rendered downstream.
func (c *Candle) Printable() bool {
	return c.Open != 0 && c.Close != 0
}

// NewCandleID returns a process-local unique candle identifier.
func NewCandleID() string { return uuid.NewString() }
