package tracker

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"TapeFeed/internal/domain/models"
	drepo "TapeFeed/internal/domain/repository"
	"TapeFeed/internal/service/metrics"
	xhttp "TapeFeed/pkg/http"
	"TapeFeed/pkg/logger"
)

// ErrMissingAPIKey distinguishes a configuration error from an upstream
// failure at the request boundary.
var ErrMissingAPIKey = errors.New("tracker api key not configured")

const defaultBaseURL = "https://data.solanatracker.io"

// Client fetches OHLCV bars from the Solana Tracker chart API.
type Client struct {
	apiKey  string
	baseURL string
	http    *xhttp.Client
	log     *logger.Logger
}

// New creates a chart feed client. baseURL may be empty to use the default.
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

// The upstream names the field "oclhv", not "ohlcv".
type chartResponse struct {
	OCLHV []models.PriceBar `json:"oclhv"`
	Error string            `json:"error,omitempty"`
}

// FetchBars fetches OHLCV bars for token at the given timeframe, sorted
// chronologically. from/to are optional unix-second bounds, zero means
// unbounded.
func (c *Client) FetchBars(ctx context.Context, token string, tf drepo.Timeframe, from, to int64) ([]models.PriceBar, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	params := map[string][]string{
		"type":           {string(tf)},
		"removeOutliers": {"true"},
		"marketCapChart": {"false"},
		"smartPools":     {"true"},
		"liveCache":      {"true"},
	}
	if from > 0 {
		params["time_from"] = []string{strconv.FormatInt(from, 10)}
	}
	if to > 0 {
		params["time_to"] = []string{strconv.FormatInt(to, 10)}
	}

	start := time.Now()
	var resp chartResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         fmt.Sprintf("%s/chart/%s", c.baseURL, token),
		QueryParams: params,
		Headers: map[string]string{
			"x-api-key": c.apiKey,
			"Accept":    "application/json",
		},
	}, &resp)
	metrics.UpstreamLatency.WithLabelValues("tracker_chart").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamErrors.WithLabelValues("tracker_chart").Inc()
		return nil, fmt.Errorf("fetch chart: %w", err)
	}
	if resp.Error != "" {
		metrics.UpstreamErrors.WithLabelValues("tracker_chart").Inc()
		return nil, fmt.Errorf("chart api: %s", resp.Error)
	}

	bars := resp.OCLHV
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time < bars[j].Time })

	c.log.Debug("fetched chart",
		logger.String("token", token),
		logger.String("timeframe", string(tf)),
		logger.Int("bars", len(bars)),
	)
	return bars, nil
}
