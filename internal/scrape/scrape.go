// Package scrape implements the Yahoo Finance HTML quote source. Fields
// are located by structural markers (fin-streamer data attributes and
// semantic data-test cells) rather than positional offsets, since the
// third-party page layout reorders elements between releases.
package scrape

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"stockcollector/internal/quote"
	"stockcollector/internal/source"
)

const (
	defaultEndpoint = "https://finance.yahoo.com/quote"
	userAgent       = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"
)

// Scraper fetches quote pages over a single cookie-carrying client so the
// session persists across symbols within one run.
type Scraper struct {
	client   *http.Client
	endpoint string
}

var _ source.Source = (*Scraper)(nil)

// New creates a Scraper with the given options applied.
func New(opts ...Option) *Scraper {
	jar, _ := cookiejar.New(nil)
	s := &Scraper{
		client:   &http.Client{Jar: jar, Timeout: 10 * time.Second},
		endpoint: defaultEndpoint,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Option configures a Scraper.
type Option func(*Scraper)

// WithClient sets the HTTP client. The client should have a cookie jar.
func WithClient(c *http.Client) Option {
	return func(s *Scraper) { s.client = c }
}

// WithEndpoint overrides the default quote page endpoint.
func WithEndpoint(ep string) Option {
	return func(s *Scraper) { s.endpoint = strings.TrimRight(ep, "/") }
}

// WithTimeout sets the per-request timeout on the underlying client.
func WithTimeout(d time.Duration) Option {
	return func(s *Scraper) { s.client.Timeout = d }
}

// Name returns the source identifier.
func (s *Scraper) Name() string { return string(quote.SourceScrape) }

// Quote fetches and extracts one symbol. Failures are classified so the
// collector can log whether the fetch or the extraction gave out.
func (s *Scraper) Quote(ctx context.Context, symbol string) (quote.Record, error) {
	markup, err := s.fetch(ctx, symbol)
	if err != nil {
		return quote.Record{}, source.FetchError(err)
	}
	rec, err := Parse(markup, symbol)
	if err != nil {
		return quote.Record{}, source.ExtractError(err)
	}
	return rec, nil
}

// fetch issues a single GET for the symbol's quote page. Anything other
// than HTTP 200 is a failure; there is no retry and no cache.
func (s *Scraper) fetch(ctx context.Context, symbol string) ([]byte, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol cannot be empty")
	}

	reqURL := fmt.Sprintf("%s/%s", s.endpoint, strings.ToUpper(symbol))
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	res, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo returned HTTP %d for %s", res.StatusCode, symbol)
	}

	return io.ReadAll(res.Body)
}

// Parse extracts a canonical record from quote page markup. Price is
// required: a missing marker or non-numeric text fails the whole record.
// The remaining fields are individually optional and fall back to the
// absent marker when their marker is not present.
func Parse(markup []byte, symbol string) (quote.Record, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(markup))
	if err != nil {
		return quote.Record{}, fmt.Errorf("parse markup for %s: %w", symbol, err)
	}

	rec := quote.New(symbol, quote.SourceScrape)

	price, ok := streamerValue(doc, symbol, "regularMarketPrice")
	if !ok {
		return quote.Record{}, fmt.Errorf("price marker not found for %s", symbol)
	}
	if _, err := strconv.ParseFloat(strings.ReplaceAll(price, ",", ""), 64); err != nil {
		return quote.Record{}, fmt.Errorf("unparseable price %q for %s", price, symbol)
	}
	rec.Price = price

	if v, ok := streamerValue(doc, symbol, "regularMarketChange"); ok {
		rec.Change = v
	}
	if v, ok := streamerValue(doc, symbol, "regularMarketChangePercent"); ok {
		rec.ChangePercent = v
	}
	if v, ok := streamerValue(doc, symbol, "regularMarketVolume"); ok {
		rec.Volume = v
	}
	if v, ok := cellValue(doc, "MARKET_CAP-value"); ok {
		rec.MarketCap = v
	}
	if v, ok := cellValue(doc, "PE_RATIO-value"); ok {
		rec.PERatio = v
	}

	// Company name sits in the page heading as "Name (SYMBOL)".
	if heading := strings.TrimSpace(doc.Find("h1").First().Text()); heading != "" {
		name, _, _ := strings.Cut(heading, "(")
		if name = strings.TrimSpace(name); name != "" {
			rec.Name = name
		}
	}

	return rec, nil
}

// streamerValue reads the text of the fin-streamer element tagged with the
// given data-field for the symbol.
func streamerValue(doc *goquery.Document, symbol, field string) (string, bool) {
	sel := fmt.Sprintf(`fin-streamer[data-field=%q][data-symbol=%q]`, field, strings.ToUpper(symbol))
	text := strings.TrimSpace(doc.Find(sel).First().Text())
	return text, text != ""
}

// cellValue reads the text of the summary-table cell tagged with the given
// data-test attribute.
func cellValue(doc *goquery.Document, test string) (string, bool) {
	sel := fmt.Sprintf(`td[data-test=%q]`, test)
	text := strings.TrimSpace(doc.Find(sel).First().Text())
	return text, text != ""
}
