package availability

import (
	"github.com/gatherkit/scheduling/interval"
)

// Engine computes group availability grids. The zero-configuration engine is
// a pure function over its inputs and is safe for concurrent use; an engine
// built with NewEngineWithConfig may additionally cache results.
type Engine struct {
	cache  *resultCache
	config EngineConfig
}

// NewEngine creates an engine with caching disabled.
func NewEngine() *Engine {
	return &Engine{config: DefaultEngineConfig}
}

// NewEngineWithConfig creates an engine with custom configuration.
func NewEngineWithConfig(config EngineConfig) *Engine {
	e := &Engine{config: config}
	if config.CacheEnabled {
		e.cache = newResultCache(config.CacheConfig)
	}
	return e
}

// Close releases the cache cleanup goroutine, if any.
func (e *Engine) Close() {
	if e.cache != nil {
		e.cache.Close()
	}
}

// CacheStats reports cache occupancy. Zero stats when caching is disabled.
func (e *Engine) CacheStats() CacheStats {
	if e.cache == nil {
		return CacheStats{}
	}
	return e.cache.Stats()
}

// ComputeAvailability partitions the request window into slots of
// req.SlotDuration and labels each one with whether the whole group is free
// during it. The returned slots tile [WindowStart, WindowEnd) exactly, with
// no gaps and no overlaps; when the window is not a multiple of the slot
// duration the final slot is truncated to end at WindowEnd.
//
// A slot is available only if no busy period of any participant overlaps it
// (half-open overlap: busy.Start < slot.End && busy.End > slot.Start). One
// busy participant makes the slot unavailable for the whole group.
func (e *Engine) ComputeAvailability(req Request) ([]Slot, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if e.cache != nil {
		if slots, ok := e.cache.Get(req); ok {
			return slots, nil
		}
	}

	slots := buildGrid(req)

	if e.cache != nil {
		e.cache.Set(req, slots)
	}
	return slots, nil
}

// buildGrid walks the window in SlotDuration steps and classifies each slot.
func buildGrid(req Request) []Slot {
	windowStart := req.WindowStart.UTC()
	windowEnd := req.WindowEnd.UTC()

	// Preallocate: window/duration slots, plus one for a truncated remainder.
	capacity := int(windowEnd.Sub(windowStart)/req.SlotDuration) + 1
	slots := make([]Slot, 0, capacity)

	for cursor := windowStart; cursor.Before(windowEnd); cursor = cursor.Add(req.SlotDuration) {
		end := cursor.Add(req.SlotDuration)
		if end.After(windowEnd) {
			// Truncate the final slot; never overflow past the window.
			end = windowEnd
		}
		slot := interval.Interval{Start: cursor, End: end}
		slots = append(slots, Slot{
			Interval:  slot,
			Available: groupFree(slot, req.BusyPeriods),
		})
	}
	return slots
}

// groupFree reports whether no participant has a busy period overlapping the
// slot. An empty busy map means free: participants without calendar data are
// assumed available rather than blocking the group.
func groupFree(slot interval.Interval, busyPeriods map[string][]BusyPeriod) bool {
	for _, periods := range busyPeriods {
		for _, busy := range periods {
			if busy.Overlaps(slot) {
				return false
			}
		}
	}
	return true
}
