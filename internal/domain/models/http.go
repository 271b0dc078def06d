package models

// ChartRequest queries the OHLCV feed for a token. Time bounds accept
// RFC3339 or unix seconds; empty means unbounded.
type ChartRequest struct {
	Token    string `param:"token" validate:"required"`
	Type     string `query:"type" default:"30s"`
	TimeFrom string `query:"time_from"`
	TimeTo   string `query:"time_to"`
}

// ChartResponse is the ordered candle payload.
type ChartResponse struct {
	Candles   []PriceBar `json:"candles"`
	Count     int        `json:"count"`
	Timeframe string     `json:"timeframe"`
}

// TradesRequest queries recent normalized trades for a token.
type TradesRequest struct {
	Token string `param:"token" validate:"required"`
	Pool  string `query:"pool"`
	Limit int    `query:"limit" default:"100" validate:"gte=1,lte=100"`
}

// TradesResponse is the ordered trade payload.
type TradesResponse struct {
	Trades []Trade `json:"trades"`
	Count  int     `json:"count"`
	Token  string  `json:"token"`
}

// IngestResponse reports webhook batch processing counts.
type IngestResponse struct {
	Success   bool `json:"success"`
	Processed int  `json:"processed"`
	Total     int  `json:"total"`
}

// RegisterWebhookRequest registers a webhook for a token.
type RegisterWebhookRequest struct {
	TokenAddress string `json:"tokenAddress" validate:"required"`
	PoolAddress  string `json:"poolAddress"`
	WebhookURL   string `json:"webhookUrl" validate:"required,url"`
}

// RegisterWebhookResponse confirms webhook registration.
type RegisterWebhookResponse struct {
	Success      bool   `json:"success"`
	WebhookID    string `json:"webhookId"`
	TokenAddress string `json:"tokenAddress"`
	WebhookURL   string `json:"webhookUrl"`
}

// DeleteWebhookResponse confirms webhook removal.
type DeleteWebhookResponse struct {
	Success          bool   `json:"success"`
	DeletedWebhookID string `json:"deletedWebhookId,omitempty"`
	Message          string `json:"message,omitempty"`
}
