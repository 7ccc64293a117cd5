package freebusy

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/samber/mo"

	"github.com/gatherkit/scheduling/availability"
	"github.com/gatherkit/scheduling/interval"
)

// Source supplies the busy periods of one participant within a window,
// typically by querying a connected calendar provider. Implementations must
// return only periods overlapping the window; returning a nil slice means
// the participant has no known conflicts.
type Source interface {
	FreeBusy(ctx context.Context, participantID string, window interval.Interval) ([]availability.BusyPeriod, error)
}

// ResultMap records the per-participant outcome of a collection round:
// mo.Ok with the fetched busy periods, or mo.Err with the fetch failure.
type ResultMap map[string]mo.Result[[]availability.BusyPeriod]

// Collector gathers free/busy data for a whole group and assembles the
// availability request the grid builder consumes.
type Collector struct {
	source Source
	logger *slog.Logger
}

// NewCollector creates a collector reading from the given source. A nil
// logger disables logging.
func NewCollector(source Source, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Collector{source: source, logger: logger}
}

// Collect fetches busy periods for every participant and builds an
// availability request over the window. A participant whose fetch fails
// contributes no busy data: absence of calendar data is treated as free, so
// one broken provider connection degrades that participant to assumed-free
// instead of blocking the whole group. The per-participant outcomes are
// returned alongside the request so callers can surface partial failures.
//
// Collect returns early with the context error when ctx is cancelled.
func (c *Collector) Collect(ctx context.Context, participantIDs []string, window interval.Interval, slotDuration time.Duration) (availability.Request, ResultMap, error) {
	results := make(ResultMap, len(participantIDs))
	busyPeriods := make(map[string][]availability.BusyPeriod, len(participantIDs))

	for _, id := range participantIDs {
		if err := ctx.Err(); err != nil {
			return availability.Request{}, results, err
		}

		periods, err := c.source.FreeBusy(ctx, id, window)
		if err != nil {
			c.logger.Warn("free/busy fetch failed, assuming participant free",
				"participant", id,
				"window", window.String(),
				"error", err)
			results[id] = mo.Err[[]availability.BusyPeriod](err)
			continue
		}

		results[id] = mo.Ok(periods)
		busyPeriods[id] = periods
		c.logger.Debug("fetched free/busy data",
			"participant", id,
			"periods", len(periods))
	}

	req := availability.Request{
		WindowStart:  window.Start,
		WindowEnd:    window.End,
		SlotDuration: slotDuration,
		BusyPeriods:  busyPeriods,
	}
	return req, results, nil
}
