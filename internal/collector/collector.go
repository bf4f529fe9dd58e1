// Package collector runs one batch pass over a symbol list against a
// single source. Symbols are processed strictly sequentially with a
// randomized pause between requests: the pause throttles request rate
// against the remote source, which is why the loop is never concurrent.
package collector

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"stockcollector/internal/quote"
	"stockcollector/internal/source"
)

type Collector struct {
	src      source.Source
	minDelay time.Duration
	maxDelay time.Duration
	rng      *rand.Rand
}

// New creates a Collector for src with the given options applied. The
// default pause between requests is a uniform draw from 1–3 seconds.
func New(src source.Source, opts ...Option) *Collector {
	c := &Collector{
		src:      src,
		minDelay: time.Second,
		maxDelay: 3 * time.Second,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, o := range opts {
		o(c)
	}
	if c.minDelay > c.maxDelay {
		c.minDelay = c.maxDelay
	}
	return c
}

// Option configures a Collector.
type Option func(*Collector)

// WithDelay sets the bounds of the randomized inter-request pause. A zero
// max disables pacing.
func WithDelay(min, max time.Duration) Option {
	return func(c *Collector) {
		c.minDelay = min
		c.maxDelay = max
	}
}

// WithRand sets the random source used to draw pauses.
func WithRand(rng *rand.Rand) Option {
	return func(c *Collector) { c.rng = rng }
}

// Collect attempts every symbol exactly once, in order, and returns the
// records of the symbols that succeeded, input order preserved. A failed
// symbol is logged and skipped; no symbol-level failure ever aborts the
// batch. There is no retry within a batch.
func (c *Collector) Collect(ctx context.Context, symbols []string) []quote.Record {
	records := make([]quote.Record, 0, len(symbols))

	for i, symbol := range symbols {
		if i > 0 {
			if err := c.pause(ctx); err != nil {
				slog.Warn("batch interrupted", "source", c.src.Name(), "error", err)
				return records
			}
		}

		slog.Info("collecting symbol", "source", c.src.Name(), "symbol", symbol)
		rec, err := c.src.Quote(ctx, symbol)
		if err != nil {
			slog.Error("symbol skipped", "source", c.src.Name(), "symbol", symbol,
				"kind", string(source.KindOf(err)), "error", err)
			continue
		}
		records = append(records, rec)
	}

	return records
}

// pause blocks for a uniform random delay within the configured bounds, or
// until the context is canceled.
func (c *Collector) pause(ctx context.Context) error {
	if c.maxDelay <= 0 {
		return nil
	}
	d := c.minDelay
	if span := c.maxDelay - c.minDelay; span > 0 {
		d += time.Duration(c.rng.Int63n(int64(span) + 1))
	}

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
