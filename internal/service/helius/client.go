package helius

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"TapeFeed/internal/domain/models"
	"TapeFeed/internal/service/metrics"
	xhttp "TapeFeed/pkg/http"
	"TapeFeed/pkg/logger"
)

// ErrMissingAPIKey distinguishes a configuration error from an upstream
// failure at the request boundary.
var ErrMissingAPIKey = errors.New("helius api key not configured")

const defaultBaseURL = "https://api.helius.xyz/v0"

// Client talks to the Helius enhanced transaction and webhook APIs. It is
// both the pull-path trade source and the webhook registry admin.
type Client struct {
	apiKey  string
	baseURL string
	http    *xhttp.Client
	log     *logger.Logger
}

// New creates a Helius client. baseURL may be empty to use the default.
func New(apiKey, baseURL string, timeout time.Duration, log *logger.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    xhttp.NewClient(xhttp.WithTimeout(timeout)),
		log:     log,
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool { return c.apiKey != "" }

// RecentSwaps fetches recent SWAP transactions for an address. Swaps
// execute against pools, so callers should pass the pool address when
// they have one.
func (c *Client) RecentSwaps(ctx context.Context, address string, limit int) ([]models.EnhancedTransaction, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	start := time.Now()
	var txs []models.EnhancedTransaction
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    fmt.Sprintf("%s/addresses/%s/transactions", c.baseURL, address),
		QueryParams: map[string][]string{
			"api-key": {c.apiKey},
			"limit":   {strconv.Itoa(limit)},
			"type":    {"SWAP"},
		},
		Headers: map[string]string{"Accept": "application/json"},
	}, &txs)
	metrics.UpstreamLatency.WithLabelValues("helius_transactions").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamErrors.WithLabelValues("helius_transactions").Inc()
		return nil, fmt.Errorf("fetch transactions: %w", err)
	}

	c.log.Debug("fetched transactions",
		logger.String("address", address),
		logger.Int("count", len(txs)),
	)
	return txs, nil
}

type createWebhookRequest struct {
	WebhookURL       string   `json:"webhookURL"`
	TransactionTypes []string `json:"transactionTypes"`
	AccountAddresses []string `json:"accountAddresses"`
	WebhookType      string   `json:"webhookType"`
	TxnStatus        string   `json:"txnStatus"`
}

// ListWebhooks returns all webhooks registered under the API key.
func (c *Client) ListWebhooks(ctx context.Context) ([]models.Webhook, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	var hooks []models.Webhook
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         c.baseURL + "/webhooks",
		QueryParams: map[string][]string{"api-key": {c.apiKey}},
	}, &hooks)
	if err != nil {
		metrics.UpstreamErrors.WithLabelValues("helius_webhooks").Inc()
		return nil, fmt.Errorf("list webhooks: %w", err)
	}
	return hooks, nil
}

// CreateWebhook registers an enhanced webhook for the given addresses.
func (c *Client) CreateWebhook(ctx context.Context, callbackURL string, addresses []string) (*models.Webhook, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	var hook models.Webhook
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodPost,
		URL:         c.baseURL + "/webhooks",
		QueryParams: map[string][]string{"api-key": {c.apiKey}},
		Body: createWebhookRequest{
			WebhookURL:       callbackURL,
			TransactionTypes: []string{"SWAP", "TRANSFER"},
			AccountAddresses: addresses,
			WebhookType:      "enhanced",
			TxnStatus:        "success",
		},
	}, &hook)
	if err != nil {
		metrics.UpstreamErrors.WithLabelValues("helius_webhooks").Inc()
		return nil, fmt.Errorf("create webhook: %w", err)
	}

	c.log.Info("created webhook",
		logger.String("webhook_id", hook.WebhookID),
		logger.Strings("addresses", addresses),
	)
	return &hook, nil
}

// DeleteWebhook removes a webhook by ID.
func (c *Client) DeleteWebhook(ctx context.Context, webhookID string) error {
	if c.apiKey == "" {
		return ErrMissingAPIKey
	}

	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodDelete,
		URL:         fmt.Sprintf("%s/webhooks/%s", c.baseURL, webhookID),
		QueryParams: map[string][]string{"api-key": {c.apiKey}},
	}, nil)
	if err != nil {
		metrics.UpstreamErrors.WithLabelValues("helius_webhooks").Inc()
		return fmt.Errorf("delete webhook: %w", err)
	}
	return nil
}
