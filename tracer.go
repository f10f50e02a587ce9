package gui

import (
	"time"

	"go.uber.org/zap"
)

// PassStats summarizes one ComputeLayout call.
type PassStats struct {
	Processed int // elements popped
	Resolved  int // resolver runs (cache misses)
	CacheHits int
	Remaining int // elements still dirty when the pass stopped
	Relabels  int // order-index relabels since the engine was created
	Duration  time.Duration
}

// Tracer observes layout passes. Implementations must not mutate the engine.
type Tracer interface {
	PassStart(width, height float32, dirty int)
	Element(id ElementID, kind string, cacheHit bool)
	PassEnd(stats PassStats)
}

// NopTracer ignores every event.
type NopTracer struct{}

// PassStart does nothing.
func (NopTracer) PassStart(float32, float32, int) {}

// Element does nothing.
func (NopTracer) Element(ElementID, string, bool) {}

// PassEnd does nothing.
func (NopTracer) PassEnd(PassStats) {}

// ZapTracer logs pass events at debug level.
type ZapTracer struct {
	log *zap.Logger
}

// NewZapTracer returns a tracer writing to log.
func NewZapTracer(log *zap.Logger) *ZapTracer {
	return &ZapTracer{log: log}
}

// PassStart logs the viewport and the number of queued elements.
func (t *ZapTracer) PassStart(width, height float32, dirty int) {
	t.log.Debug("layout pass start",
		zap.Float32("width", width),
		zap.Float32("height", height),
		zap.Int("dirty", dirty))
}

// Element logs one processed element and whether the cache answered it.
func (t *ZapTracer) Element(id ElementID, kind string, cacheHit bool) {
	t.log.Debug("layout element",
		zap.Uint32("id", uint32(id)),
		zap.String("kind", kind),
		zap.Bool("cache_hit", cacheHit))
}

// PassEnd logs the pass statistics.
func (t *ZapTracer) PassEnd(stats PassStats) {
	t.log.Debug("layout pass end",
		zap.Int("processed", stats.Processed),
		zap.Int("resolved", stats.Resolved),
		zap.Int("cache_hits", stats.CacheHits),
		zap.Int("remaining", stats.Remaining),
		zap.Int("relabels", stats.Relabels),
		zap.Duration("duration", stats.Duration))
}
