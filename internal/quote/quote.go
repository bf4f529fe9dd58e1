// Package quote defines the canonical record shape both collection
// pipelines produce.
package quote

import (
	"strings"
	"time"
)

// NotAvailable marks a field the source does not supply. Consumers rely on
// it to tell "not reported by this source" apart from a reported zero, so
// it is never replaced by an empty string or a zero value.
const NotAvailable = "N/A"

// Source identifies which pipeline produced a record.
type Source string

const (
	SourceScrape      Source = "scrape"
	SourceAPIQuote    Source = "api-quote"
	SourceAPIOverview Source = "api-overview"
)

// Record is one collected quote. Numeric fields are carried as text so the
// source formatting survives untouched across the CSV boundary; extractors
// validate required numerics before accepting a value.
type Record struct {
	Symbol        string
	Name          string
	Price         string
	Change        string
	ChangePercent string
	Volume        string
	MarketCap     string
	PERatio       string
	CollectedAt   time.Time
	Source        Source
}

// New returns a Record for symbol with every optional field pre-set to
// NotAvailable, so extractors only overwrite what their source supplies.
// CollectedAt is the extraction time, not the batch start time.
func New(symbol string, src Source) Record {
	return Record{
		Symbol:        strings.ToUpper(strings.TrimSpace(symbol)),
		Name:          NotAvailable,
		Price:         NotAvailable,
		Change:        NotAvailable,
		ChangePercent: NotAvailable,
		Volume:        NotAvailable,
		MarketCap:     NotAvailable,
		PERatio:       NotAvailable,
		CollectedAt:   time.Now(),
		Source:        src,
	}
}
