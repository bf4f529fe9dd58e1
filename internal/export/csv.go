// Package export serializes batch results to CSV files.
package export

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"stockcollector/internal/quote"
)

const (
	timestampFormat = "20060102_150405"
	dateTimeFormat  = "2006-01-02 15:04:05"
	defaultPrefix   = "stocks_data"
)

var header = []string{
	"symbol", "name", "price", "change", "change_percent",
	"volume", "market_cap", "pe_ratio", "collected_at", "source",
}

// Writer persists batch results under Dir. Prefix names the default files;
// it falls back to "stocks_data" when empty.
type Writer struct {
	Dir    string
	Prefix string
}

// Export writes one CSV row per record and returns the resolved output
// path. An empty filename derives <prefix>_<YYYYMMDD_HHMMSS>.csv from the
// wall clock at export time. The output directory is created if missing.
// Absent markers are written literally, never as empty cells.
func (w *Writer) Export(records []quote.Record, filename string) (string, error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir %s: %w", w.Dir, err)
	}

	if filename == "" {
		prefix := w.Prefix
		if prefix == "" {
			prefix = defaultPrefix
		}
		filename = fmt.Sprintf("%s_%s.csv", prefix, time.Now().Format(timestampFormat))
	}
	path := filepath.Join(w.Dir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	cw := csv.NewWriter(f)
	if err := cw.Write(header); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	for _, r := range records {
		row := []string{
			r.Symbol, r.Name, r.Price, r.Change, r.ChangePercent,
			r.Volume, r.MarketCap, r.PERatio,
			r.CollectedAt.Format(dateTimeFormat), string(r.Source),
		}
		if err := cw.Write(row); err != nil {
			return "", fmt.Errorf("write %s: %w", path, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}

	slog.Info("exported records", "path", path, "count", len(records))
	return path, nil
}
