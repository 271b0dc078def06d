package models

// Stream message types sent over the live trade channel (SSE or WebSocket).
const (
	StreamTypeConnected = "connected"
	StreamTypeRecent    = "recent"
	StreamTypeTrade     = "trade"
	StreamTypeCandle    = "candle"
	StreamTypePing      = "ping"
)

// StreamMessage is the envelope for every message on the live channel.
// Exactly one payload field is set, matching Type.
type StreamMessage struct {
	Type      string  `json:"type"`
	Timestamp int64   `json:"timestamp,omitempty"`
	Trade     *Trade  `json:"trade,omitempty"`
	Trades    []Trade `json:"trades,omitempty"`
	Candle    *Candle `json:"candle,omitempty"`
}

// ConnectedMessage builds the connection acknowledgement.
func ConnectedMessage(now int64) StreamMessage {
	return StreamMessage{Type: StreamTypeConnected, Timestamp: now}
}

// RecentMessage builds the replay batch sent to a new subscriber.
func RecentMessage(trades []Trade) StreamMessage {
	return StreamMessage{Type: StreamTypeRecent, Trades: trades}
}

// TradeMessage wraps a single published trade.
func TradeMessage(t *Trade) StreamMessage {
	return StreamMessage{Type: StreamTypeTrade, Trade: t}
}

// CandleMessage wraps a sealed candle.
func CandleMessage(c *Candle) StreamMessage {
	return StreamMessage{Type: StreamTypeCandle, Candle: c}
}

// PingMessage builds a heartbeat.
func PingMessage(now int64) StreamMessage {
	return StreamMessage{Type: StreamTypePing, Timestamp: now}
}
