package trends

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/valyala/fasthttp"

	"stress-index/pkg/keywords"
	"stress-index/pkg/logger"
)

// ClientConfig configures the HTTP trends adapter
type ClientConfig struct {
	BaseURL         string        // one or more comma-separated endpoints
	APIKey          string        // sent as bearer token when set
	HostLanguage    string        // hl parameter
	TimezoneOffset  int           // tz parameter, minutes
	Timeout         time.Duration // per request
	MaxRetries      int
	RetryDelay      time.Duration
	Pacing          time.Duration // gap between consecutive calls
	BreakerFailures int
	BreakerReset    time.Duration

	// Dial overrides the TCP dialer, mainly for in-memory test servers
	Dial fasthttp.DialFunc
}

// DefaultClientConfig mirrors the reference provider settings
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		HostLanguage:    DefaultHostLanguage,
		TimezoneOffset:  DefaultTimezoneOffset,
		Timeout:         30 * time.Second,
		MaxRetries:      2,
		RetryDelay:      time.Second,
		Pacing:          2 * time.Second,
		BreakerFailures: 5,
		BreakerReset:    time.Minute,
	}
}

// ClientStats is a snapshot of the client's counters
type ClientStats struct {
	TotalRequests  uint64 `json:"total_requests"`
	FailedRequests uint64 `json:"failed_requests"`
	EmptyResults   uint64 `json:"empty_results"`
	BreakerState   string `json:"breaker_state"`
	LastError      string `json:"last_error,omitempty"`
}

// Client fetches interest-over-time series from an HTTP trends API
type Client struct {
	config  ClientConfig
	urlPool *URLPool
	http    *fasthttp.Client
	parser  *TimelineParser
	retry   *Retry
	breaker *CircuitBreaker
	pacer   *Pacer
	log     *logger.Logger

	totalRequests  uint64
	failedRequests uint64
	emptyResults   uint64
	lastError      atomic.Value
}

func NewClient(config ClientConfig) *Client {
	defaults := DefaultClientConfig()
	if config.HostLanguage == "" {
		config.HostLanguage = defaults.HostLanguage
	}
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = defaults.RetryDelay
	}
	if config.BreakerReset <= 0 {
		config.BreakerReset = defaults.BreakerReset
	}

	return &Client{
		config:  config,
		urlPool: NewURLPool(config.BaseURL),
		http: &fasthttp.Client{
			ReadTimeout:         config.Timeout,
			WriteTimeout:        config.Timeout,
			MaxConnsPerHost:     16,
			MaxIdleConnDuration: 90 * time.Second,
			Dial:                config.Dial,
		},
		parser:  NewTimelineParser(),
		retry:   NewRetry(config.MaxRetries, config.RetryDelay),
		breaker: NewCircuitBreaker(config.BreakerFailures, config.BreakerReset),
		pacer:   NewPacer(config.Pacing),
		log:     logger.GetLogger().WithComponent("trends_client"),
	}
}

// Fetch implements Source. Every failure is reported in the result.
func (c *Client) Fetch(ctx context.Context, q Query) FetchResult {
	q = q.WithDefaults()
	q.Keyword = keywords.Normalize(q.Keyword)
	if q.Keyword == "" {
		return ErrorResult(q, fmt.Errorf("empty keyword"))
	}

	atomic.AddUint64(&c.totalRequests, 1)
	start := time.Now()

	var result FetchResult
	err := c.pacer.Execute(ctx, func() error {
		return c.breaker.Execute(func() error {
			return c.retry.Execute(ctx, func() error {
				r, err := c.doFetch(q)
				if err != nil {
					return err
				}
				result = r
				return nil
			})
		})
	})

	if err != nil {
		atomic.AddUint64(&c.failedRequests, 1)
		c.lastError.Store(err.Error())
		c.log.WithError(err).WithFields(map[string]interface{}{
			"keyword":  q.Keyword,
			"severity": ClassifyError(err).String(),
		}).Warn("Trends query failed")
		return ErrorResult(q, err)
	}

	if result.Status == StatusNoSignal {
		atomic.AddUint64(&c.emptyResults, 1)
	}
	c.log.WithFields(map[string]interface{}{
		"keyword":     q.Keyword,
		"status":      result.Status.String(),
		"rows":        result.Table.Len(),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("Trends query completed")
	return result
}

func (c *Client) doFetch(q Query) (FetchResult, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	baseURL := c.urlPool.Next()
	if baseURL == "" {
		return FetchResult{}, ErrNoEndpoint
	}

	req.SetRequestURI(c.buildURL(baseURL, q))
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("User-Agent", "stress-index/1.0")
	req.Header.Set("Accept", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	if err := c.http.DoTimeout(req, resp, c.config.Timeout); err != nil {
		return FetchResult{}, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		body := resp.Body()
		return FetchResult{}, &HTTPError{StatusCode: resp.StatusCode(), Body: string(body[:min(len(body), 200)])}
	}

	table, err := c.parser.ParseResponse(resp.Body())
	if err != nil {
		return FetchResult{}, err
	}
	return DataResult(q, table), nil
}

func (c *Client) buildURL(baseURL string, q Query) string {
	params := url.Values{}
	params.Set("keyword", q.Keyword)
	params.Set("timeframe", q.Timeframe)
	params.Set("geo", q.Geo)
	params.Set("hl", c.config.HostLanguage)
	params.Set("tz", strconv.Itoa(c.config.TimezoneOffset))

	sep := "?"
	if strings.Contains(baseURL, "?") {
		sep = "&"
	}
	return baseURL + sep + params.Encode()
}

// Stats returns the client's counters
func (c *Client) Stats() ClientStats {
	stats := ClientStats{
		TotalRequests:  atomic.LoadUint64(&c.totalRequests),
		FailedRequests: atomic.LoadUint64(&c.failedRequests),
		EmptyResults:   atomic.LoadUint64(&c.emptyResults),
		BreakerState:   c.breaker.State().String(),
	}
	if v, ok := c.lastError.Load().(string); ok {
		stats.LastError = v
	}
	return stats
}
