package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"stockcollector/internal/alphavantage"
	"stockcollector/internal/collector"
	"stockcollector/internal/config"
	"stockcollector/internal/export"
	"stockcollector/internal/quote"
	"stockcollector/internal/scrape"
	"stockcollector/internal/source"
)

func main() {
	cfg := config.Load()

	var (
		symbolsCSV string
		sourcesCSV string
		apiKey     string
		outputDir  string
	)
	flag.StringVar(&symbolsCSV, "symbols", strings.Join(cfg.Symbols, ","), "comma-separated ticker symbols")
	flag.StringVar(&sourcesCSV, "sources", strings.Join(cfg.Sources, ","), "sources to run: scrape, api, api-quote, api-overview")
	flag.StringVar(&apiKey, "api-key", cfg.APIKey, "Alpha Vantage API key")
	flag.StringVar(&outputDir, "output", cfg.OutputDir, "output directory for CSV files")
	flag.Parse()

	symbols := splitList(symbolsCSV)
	if len(symbols) == 0 {
		slog.Error("no symbols provided")
		os.Exit(1)
	}

	registry := source.NewRegistry()
	registry.Register(scrape.New(scrape.WithTimeout(cfg.Timeout)))
	apiClient := alphavantage.NewClient(apiKey)
	registry.Register(&alphavantage.QuoteSource{Client: apiClient})
	registry.Register(&alphavantage.OverviewSource{Client: apiClient})

	// Each pipeline gets its own export prefix; both Alpha Vantage
	// endpoints land in the same file.
	pipelines := make(map[string][]source.Source)
	for _, name := range expandSources(splitList(sourcesCSV)) {
		src, err := registry.Get(name)
		if err != nil {
			slog.Error("unknown source", "name", name, "available", registry.Names())
			os.Exit(1)
		}
		prefix := "stocks_data"
		if strings.HasPrefix(name, "api") {
			prefix = "stocks_api_data"
		}
		pipelines[prefix] = append(pipelines[prefix], src)
	}
	if len(pipelines) == 0 {
		slog.Error("no sources selected")
		os.Exit(1)
	}

	// Pipelines run in parallel; each is internally sequential so the
	// per-source pacing holds.
	g, ctx := errgroup.WithContext(context.Background())
	for prefix, sources := range pipelines {
		prefix, sources := prefix, sources
		g.Go(func() error {
			var records []quote.Record
			for _, src := range sources {
				col := collector.New(src, collector.WithDelay(cfg.MinDelay, cfg.MaxDelay))
				records = append(records, col.Collect(ctx, symbols)...)
			}
			if len(records) == 0 {
				slog.Warn("no records collected", "pipeline", prefix)
				return nil
			}
			w := &export.Writer{Dir: outputDir, Prefix: prefix}
			path, err := w.Export(records, "")
			if err != nil {
				return err
			}
			slog.Info("pipeline finished", "pipeline", prefix, "records", len(records), "path", path)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		slog.Error("export failed", "error", err)
		os.Exit(1)
	}
}

// expandSources resolves the "api" shorthand to both Alpha Vantage
// endpoints.
func expandSources(names []string) []string {
	var out []string
	for _, name := range names {
		if name == "api" {
			out = append(out, string(quote.SourceAPIQuote), string(quote.SourceAPIOverview))
			continue
		}
		out = append(out, name)
	}
	return out
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
