package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"stockcollector/internal/quote"
	"stockcollector/internal/source"
)

const samplePage = `<!DOCTYPE html>
<html><head><title>Apple Inc. (AAPL)</title></head><body>
<h1>Apple Inc. (AAPL)</h1>
<fin-streamer data-field="regularMarketPrice" data-symbol="AAPL">189.84</fin-streamer>
<fin-streamer data-field="regularMarketChange" data-symbol="AAPL">+1.23</fin-streamer>
<fin-streamer data-field="regularMarketChangePercent" data-symbol="AAPL">(+0.65%)</fin-streamer>
<fin-streamer data-field="regularMarketVolume" data-symbol="AAPL">52,164,536</fin-streamer>
<table>
<tr><td>Market Cap</td><td data-test="MARKET_CAP-value">2.95T</td></tr>
<tr><td>PE Ratio (TTM)</td><td data-test="PE_RATIO-value">31.24</td></tr>
</table>
</body></html>`

// newTestServer returns a mock quote page server and a Scraper configured
// to use it.
func newTestServer(t *testing.T, status int, body string) (*httptest.Server, *Scraper) {
	t.Helper()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			t.Error("expected a User-Agent header on scrape requests")
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))

	s := New(
		WithClient(ts.Client()),
		WithEndpoint(ts.URL),
	)

	return ts, s
}

func TestQuote(t *testing.T) {
	ts, s := newTestServer(t, http.StatusOK, samplePage)
	defer ts.Close()

	rec, err := s.Quote(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.Symbol != "AAPL" {
		t.Errorf("expected symbol AAPL, got %q", rec.Symbol)
	}
	if rec.Name != "Apple Inc." {
		t.Errorf("expected name 'Apple Inc.', got %q", rec.Name)
	}
	if rec.Price != "189.84" {
		t.Errorf("expected price 189.84, got %q", rec.Price)
	}
	if rec.Change != "+1.23" {
		t.Errorf("expected change +1.23, got %q", rec.Change)
	}
	if rec.Volume != "52,164,536" {
		t.Errorf("expected volume 52,164,536, got %q", rec.Volume)
	}
	if rec.MarketCap != "2.95T" {
		t.Errorf("expected market cap 2.95T, got %q", rec.MarketCap)
	}
	if rec.PERatio != "31.24" {
		t.Errorf("expected P/E 31.24, got %q", rec.PERatio)
	}
	if rec.Source != quote.SourceScrape {
		t.Errorf("expected source scrape, got %q", rec.Source)
	}
	if rec.CollectedAt.IsZero() {
		t.Error("expected CollectedAt to be set")
	}
}

func TestQuote_HTTPError(t *testing.T) {
	ts, s := newTestServer(t, http.StatusTooManyRequests, "blocked")
	defer ts.Close()

	_, err := s.Quote(context.Background(), "AAPL")
	if err == nil {
		t.Fatal("expected error for HTTP 429")
	}
	if kind := source.KindOf(err); kind != source.KindFetch {
		t.Errorf("expected fetch failure, got %q", kind)
	}
}

func TestQuote_MissingPrice(t *testing.T) {
	page := `<html><body><h1>Apple Inc. (AAPL)</h1></body></html>`
	ts, s := newTestServer(t, http.StatusOK, page)
	defer ts.Close()

	_, err := s.Quote(context.Background(), "AAPL")
	if err == nil {
		t.Fatal("expected error when price marker is missing")
	}
	if kind := source.KindOf(err); kind != source.KindExtract {
		t.Errorf("expected extract failure, got %q", kind)
	}
}

func TestQuote_EmptySymbol(t *testing.T) {
	s := New()
	_, err := s.Quote(context.Background(), "")
	if err == nil {
		t.Fatal("expected error for empty symbol")
	}
}

func TestParse_UnparseablePrice(t *testing.T) {
	page := `<html><body>
<fin-streamer data-field="regularMarketPrice" data-symbol="AAPL">--</fin-streamer>
</body></html>`

	_, err := Parse([]byte(page), "AAPL")
	if err == nil {
		t.Fatal("expected error for non-numeric price text")
	}
}

func TestParse_OptionalFieldsAbsent(t *testing.T) {
	page := `<html><body>
<fin-streamer data-field="regularMarketPrice" data-symbol="MSFT">411.22</fin-streamer>
</body></html>`

	rec, err := Parse([]byte(page), "MSFT")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.Price != "411.22" {
		t.Errorf("expected price 411.22, got %q", rec.Price)
	}
	for field, got := range map[string]string{
		"name":       rec.Name,
		"change":     rec.Change,
		"volume":     rec.Volume,
		"market_cap": rec.MarketCap,
		"pe_ratio":   rec.PERatio,
	} {
		if got != quote.NotAvailable {
			t.Errorf("expected %s to be the absent marker, got %q", field, got)
		}
	}
}

func TestParse_IgnoresOtherSymbolsMarkers(t *testing.T) {
	// Quote pages embed streamers for related tickers; only the requested
	// symbol's markers count.
	page := `<html><body>
<fin-streamer data-field="regularMarketPrice" data-symbol="MSFT">411.22</fin-streamer>
</body></html>`

	_, err := Parse([]byte(page), "AAPL")
	if err == nil {
		t.Fatal("expected error: price marker belongs to a different symbol")
	}
}

func TestName(t *testing.T) {
	s := New()
	if s.Name() != "scrape" {
		t.Errorf("expected source name 'scrape', got %q", s.Name())
	}
}
