// Package alphavantage implements the Alpha Vantage quote and company
// overview sources. Both share one Client; the API signals invalid
// symbols, bad keys and rate limiting inside an HTTP 200 body, so the
// client inspects every payload for the error envelope before handing it
// to an extractor.
package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"stockcollector/internal/quote"
	"stockcollector/internal/source"
)

const (
	defaultEndpoint = "https://www.alphavantage.co/query"
	placeholderKey  = "YOUR_API_KEY"
)

// errorKeys are the top-level keys the API uses to signal failure despite
// returning HTTP 200: Error Message for invalid symbols or keys, Note and
// Information for rate-limit rejections.
var errorKeys = []string{"Error Message", "Note", "Information"}

// Client issues requests against the Alpha Vantage query endpoint.
type Client struct {
	apiKey   string
	client   *http.Client
	endpoint string
}

// NewClient creates a Client. A missing or placeholder API key is only a
// warning: the run proceeds and fails per-request instead of refusing to
// start.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 30 * time.Second},
		endpoint: defaultEndpoint,
	}
	for _, o := range opts {
		o(c)
	}
	if apiKey == "" || apiKey == placeholderKey || apiKey == "demo" {
		slog.Warn("alphavantage: missing or placeholder API key, requests will fail until one is provided")
	}
	return c
}

// Option configures a Client.
type Option func(*Client)

// WithClient sets the HTTP client.
func WithClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithEndpoint overrides the default query endpoint.
func WithEndpoint(ep string) Option {
	return func(c *Client) { c.endpoint = ep }
}

// WithTimeout sets the per-request timeout on the underlying client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.client.Timeout = d }
}

// query performs one API call and returns the raw body after checking both
// the HTTP status and the in-band error envelope.
func (c *Client) query(ctx context.Context, function, symbol string, extra url.Values) ([]byte, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol cannot be empty")
	}

	params := url.Values{}
	params.Set("function", function)
	params.Set("symbol", strings.ToUpper(symbol))
	params.Set("apikey", c.apiKey)
	for k, vs := range extra {
		for _, v := range vs {
			params.Add(k, v)
		}
	}

	req, err := http.NewRequestWithContext(ctx, "GET", c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("alphavantage returned HTTP %d for %s", res.StatusCode, symbol)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("parse alphavantage response for %s: %w", symbol, err)
	}
	for _, key := range errorKeys {
		if raw, ok := envelope[key]; ok {
			var msg string
			_ = json.Unmarshal(raw, &msg)
			return nil, fmt.Errorf("alphavantage rejected %s (%s): %s", symbol, key, msg)
		}
	}

	return body, nil
}

// globalQuoteResponse is the GLOBAL_QUOTE envelope. The API keys every
// field with a numeric prefix.
type globalQuoteResponse struct {
	GlobalQuote struct {
		Symbol        string `json:"01. symbol"`
		Price         string `json:"05. price"`
		Volume        string `json:"06. volume"`
		Change        string `json:"09. change"`
		ChangePercent string `json:"10. change percent"`
	} `json:"Global Quote"`
}

// ParseQuote extracts a canonical record from a GLOBAL_QUOTE payload. A
// missing or empty envelope means the endpoint does not recognize the
// symbol. Name, market cap and P/E are structurally unavailable on this
// endpoint and stay at the absent marker.
func ParseQuote(payload []byte, symbol string) (quote.Record, error) {
	var resp globalQuoteResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return quote.Record{}, fmt.Errorf("parse global quote for %s: %w", symbol, err)
	}

	q := resp.GlobalQuote
	if q.Symbol == "" && q.Price == "" {
		return quote.Record{}, fmt.Errorf("empty Global Quote envelope for %s", symbol)
	}

	rec := quote.New(symbol, quote.SourceAPIQuote)
	if q.Price != "" {
		rec.Price = q.Price
	}
	if q.Change != "" {
		rec.Change = q.Change
	}
	if q.ChangePercent != "" {
		rec.ChangePercent = q.ChangePercent
	}
	if q.Volume != "" {
		rec.Volume = q.Volume
	}
	return rec, nil
}

// overviewResponse carries the company overview fields this pipeline uses.
type overviewResponse struct {
	Symbol    string `json:"Symbol"`
	Name      string `json:"Name"`
	MarketCap string `json:"MarketCapitalization"`
	PERatio   string `json:"PERatio"`
}

// ParseOverview extracts a canonical record from an OVERVIEW payload. The
// API answers unknown symbols with an empty object, which is a failure —
// a record with every field absent must never reach the output. Price,
// change and volume are structurally unavailable on this endpoint and stay
// at the absent marker.
func ParseOverview(payload []byte, symbol string) (quote.Record, error) {
	var resp overviewResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return quote.Record{}, fmt.Errorf("parse overview for %s: %w", symbol, err)
	}

	if resp.Symbol == "" {
		return quote.Record{}, fmt.Errorf("empty overview payload for %s", symbol)
	}

	rec := quote.New(symbol, quote.SourceAPIOverview)
	if resp.Name != "" {
		rec.Name = resp.Name
	}
	if resp.MarketCap != "" {
		rec.MarketCap = resp.MarketCap
	}
	if resp.PERatio != "" {
		rec.PERatio = resp.PERatio
	}
	return rec, nil
}

// QuoteSource exposes the GLOBAL_QUOTE endpoint as a collectable source.
type QuoteSource struct {
	Client *Client
}

var _ source.Source = (*QuoteSource)(nil)

func (s *QuoteSource) Name() string { return string(quote.SourceAPIQuote) }

func (s *QuoteSource) Quote(ctx context.Context, symbol string) (quote.Record, error) {
	payload, err := s.Client.query(ctx, "GLOBAL_QUOTE", symbol, nil)
	if err != nil {
		return quote.Record{}, source.FetchError(err)
	}
	rec, err := ParseQuote(payload, symbol)
	if err != nil {
		return quote.Record{}, source.ExtractError(err)
	}
	return rec, nil
}

// OverviewSource exposes the OVERVIEW endpoint as a collectable source.
type OverviewSource struct {
	Client *Client
}

var _ source.Source = (*OverviewSource)(nil)

func (s *OverviewSource) Name() string { return string(quote.SourceAPIOverview) }

func (s *OverviewSource) Quote(ctx context.Context, symbol string) (quote.Record, error) {
	payload, err := s.Client.query(ctx, "OVERVIEW", symbol, nil)
	if err != nil {
		return quote.Record{}, source.FetchError(err)
	}
	rec, err := ParseOverview(payload, symbol)
	if err != nil {
		return quote.Record{}, source.ExtractError(err)
	}
	return rec, nil
}
