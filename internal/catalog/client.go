package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/industrialpartner/storefront-backend/pkg/config"
	pkgerrors "github.com/industrialpartner/storefront-backend/pkg/errors"
	"github.com/industrialpartner/storefront-backend/pkg/logger"
	"github.com/industrialpartner/storefront-backend/pkg/metrics"
)

const (
	endpointManufacturers = "manufacturers"
	endpointItems         = "items"
	endpointItemDetail    = "item_detail"
	endpointQuotes        = "quotes"
	endpointRequestInfo   = "quote_request_info"
	endpointAddon         = "quote_addon"
)

var errLoggerRequired = errors.New("catalog logger is required")

// Client talks to the remote catalog/quote API. Listing calls degrade to
// empty pages on failure; detail and quote calls surface typed upstream
// errors carrying the remote status.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logger.Logger
	metrics    *metrics.UpstreamMetrics

	retryAttempts  uint64
	retryBaseDelay time.Duration
}

// NewClient validates the upstream configuration and builds the client.
func NewClient(cfg config.UpstreamConfig, logg *logger.Logger, m *metrics.UpstreamMetrics) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("upstream base url is required")
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	attempts := cfg.RetryAttempts
	if attempts < 0 {
		attempts = 0
	}
	baseDelay := cfg.RetryBaseDelay
	if baseDelay <= 0 {
		baseDelay = 100 * time.Millisecond
	}

	return &Client{
		baseURL:        base,
		httpClient:     &http.Client{Timeout: timeout},
		logger:         logg,
		metrics:        m,
		retryAttempts:  uint64(attempts),
		retryBaseDelay: baseDelay,
	}, nil
}

// Manufacturers fetches one page of the manufacturer listing for a brand
// letter. Failures read as an empty page.
func (c *Client) Manufacturers(ctx context.Context, brandName string, page int) (Page, error) {
	query := url.Values{}
	if brandName != "" {
		query.Set("brand_name", brandName)
	}
	query.Set("page", strconv.Itoa(normalizePage(page)))
	return c.listing(ctx, endpointManufacturers, "/manufacturer", query)
}

// Items fetches one page of the item listing for the given filters.
// Failures read as an empty page.
func (c *Client) Items(ctx context.Context, q ItemsQuery) (Page, error) {
	query := url.Values{}
	if q.ManufacturerID != "" {
		query.Set("manufacturer_id", q.ManufacturerID)
	}
	if q.ManufacturerLookup != "" {
		query.Set("manufacturer_lookup", q.ManufacturerLookup)
	}
	if q.Manufacturer != "" {
		query.Set("manufacturer", q.Manufacturer)
	}
	if q.SimpleType != "" {
		query.Set("simpletype", q.SimpleType)
	}
	if q.PartNumber != "" {
		query.Set("part_number", q.PartNumber)
	}
	query.Set("page", strconv.Itoa(normalizePage(q.Page)))
	return c.listing(ctx, endpointItems, "/items", query)
}

// ItemDetail fetches one item record. Transport failures and non-2xx
// responses surface as upstream errors; callers decide how to render them.
func (c *Client) ItemDetail(ctx context.Context, itemID string) (Record, error) {
	status, body, err := c.get(ctx, endpointItemDetail, "/items/"+url.PathEscape(itemID), nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "fetching item detail")
	}
	if status < 200 || status >= 300 {
		return nil, pkgerrors.Upstream(status, nil, "fetching item detail").
			WithDetails(map[string]any{"item_id": itemID, "upstream_status": status})
	}

	var record Record
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "decoding item detail")
	}
	return record, nil
}

// CreateQuote posts a quote request and returns the generated quote id.
// Never retried: quote creation is not idempotent.
func (c *Client) CreateQuote(ctx context.Context, payload QuotePayload) (string, error) {
	status, body, err := c.post(ctx, endpointQuotes, "/quotes", payload)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "submitting quote")
	}
	if status < 200 || status >= 300 {
		return "", pkgerrors.Upstream(status, nil, "submitting quote").
			WithDetails(map[string]any{"upstream_status": status})
	}

	var resp QuoteResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "decoding quote response")
	}
	if resp.QuoteID == "" {
		return "", pkgerrors.New(pkgerrors.CodeUpstream, "quote response missing QuoteID")
	}
	return resp.QuoteID, nil
}

// RequestInfo posts the follow-up call correlating requester details with a
// created quote.
func (c *Client) RequestInfo(ctx context.Context, quoteID string, payload RequestInfoPayload) error {
	payload.QuoteID = quoteID
	status, _, err := c.post(ctx, endpointRequestInfo, "/quotes/request-info/"+url.PathEscape(quoteID), payload)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "submitting quote request-info")
	}
	if status < 200 || status >= 300 {
		return pkgerrors.Upstream(status, nil, "submitting quote request-info").
			WithDetails(map[string]any{"quote_id": quoteID, "upstream_status": status})
	}
	return nil
}

// QuoteAddon posts the optional qualification form for a created quote.
func (c *Client) QuoteAddon(ctx context.Context, quoteID string, payload AddonPayload) error {
	status, _, err := c.post(ctx, endpointAddon, "/quotes/addon/"+url.PathEscape(quoteID), payload)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "submitting quote addon")
	}
	if status < 200 || status >= 300 {
		return pkgerrors.Upstream(status, nil, "submitting quote addon").
			WithDetails(map[string]any{"quote_id": quoteID, "upstream_status": status})
	}
	return nil
}

func (c *Client) listing(ctx context.Context, endpoint, path string, query url.Values) (Page, error) {
	status, body, err := c.get(ctx, endpoint, path, query)
	if err != nil {
		c.logger.Warn(c.logger.WithField(ctx, "endpoint", endpoint), "catalog listing unavailable, serving empty page")
		return emptyPage(), nil
	}
	if status < 200 || status >= 300 {
		ctx = c.logger.WithFields(ctx, map[string]any{"endpoint": endpoint, "upstream_status": status})
		c.logger.Warn(ctx, "catalog listing returned non-success status")
		return emptyPage(), nil
	}

	var page Page
	if err := json.Unmarshal(body, &page); err != nil {
		c.logger.Error(ctx, "decoding catalog listing", err)
		return emptyPage(), nil
	}
	if page.Items == nil {
		page.Items = []Record{}
	}
	return page, nil
}

// get issues an idempotent GET with bounded exponential retry on transport
// errors and 5xx responses.
func (c *Client) get(ctx context.Context, endpoint, path string, query url.Values) (int, []byte, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var status int
	var body []byte
	start := time.Now()
	err := retry.Do(ctx, retry.WithMaxRetries(c.retryAttempts, retry.NewExponential(c.retryBaseDelay)), func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return err
		}
		status, body, err = c.roundTrip(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		if status >= 500 {
			return retry.RetryableError(fmt.Errorf("upstream status %d", status))
		}
		return nil
	})
	c.observe(endpoint, start, err)
	if err != nil {
		if status >= 500 {
			// Retries exhausted on a 5xx; report the status, not the wrapper.
			return status, body, nil
		}
		return 0, nil, err
	}
	return status, body, nil
}

// post issues a single non-retried JSON POST.
func (c *Client) post(ctx context.Context, endpoint, path string, payload any) (int, []byte, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("encoding payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	status, body, err := c.roundTrip(req)
	c.observe(endpoint, start, err)
	return status, body, err
}

func (c *Client) roundTrip(req *http.Request) (int, []byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := readBody(resp)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}

func (c *Client) observe(endpoint string, start time.Time, err error) {
	c.metrics.ObserveDuration(endpoint, time.Since(start))
	if err != nil {
		c.metrics.IncFailure(endpoint)
		return
	}
	c.metrics.IncSuccess(endpoint)
}

func readBody(resp *http.Response) ([]byte, error) {
	// Remote listing payloads top out well under this; anything bigger is a
	// malfunctioning upstream.
	const maxBodyBytes = 8 << 20
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return body, nil
}

func emptyPage() Page {
	return Page{Items: []Record{}}
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}
