// Package telemetry periodically samples runtime statistics into InfluxDB.
//
// The sampler reads access-gateway counters and the device/entity population
// on a fixed interval and hands them to a Sink. It is deliberately thin: all
// batching and delivery concerns live in the sink.
package telemetry

import (
	"context"
	"time"

	"github.com/nerrad567/gray-logic-runtime/internal/ecs"
)

// defaultInterval is used when the configured sample interval is not positive.
const defaultInterval = 15 * time.Second

// Sink receives sampled runtime statistics. *influxdb.Client satisfies it.
type Sink interface {
	WriteGatewaySample(siteID string, queueDepth int, processed, faulted uint64, busy time.Duration)
	WriteRegistrySample(siteID string, devices, entities int)
}

// Logger is the subset of logging the sampler needs.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

// Sampler drives the periodic collection loop.
type Sampler struct {
	rt       *ecs.Runtime
	sink     Sink
	siteID   string
	interval time.Duration
	logger   Logger
}

// NewSampler creates a sampler for the given runtime and sink.
// A non-positive interval falls back to the default.
func NewSampler(rt *ecs.Runtime, sink Sink, siteID string, interval time.Duration, logger Logger) *Sampler {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Sampler{
		rt:       rt,
		sink:     sink,
		siteID:   siteID,
		interval: interval,
		logger:   logger,
	}
}

// Run samples on the configured interval until ctx is cancelled.
// It always returns nil; sampling failures are logged, not fatal.
func (s *Sampler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.sample(ctx)
		}
	}
}

// sample collects one round of statistics and forwards it to the sink.
func (s *Sampler) sample(ctx context.Context) {
	stats := s.rt.Stats()
	s.sink.WriteGatewaySample(s.siteID, stats.QueueDepth, stats.UnitsProcessed, stats.UnitsFaulted, stats.BusyTime)

	// Population counts need a unit of work; bound the wait so a busy
	// gateway delays the sample instead of wedging the loop.
	countCtx, cancel := context.WithTimeout(ctx, s.interval)
	defer cancel()

	counts, err := ecs.Submit(countCtx, s.rt, func(tx *ecs.Tx) ([2]int, error) {
		return [2]int{tx.Index().Len(), tx.Storage().Len()}, nil
	})
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("telemetry population sample failed", "error", err)
		}
		return
	}

	s.sink.WriteRegistrySample(s.siteID, counts[0], counts[1])

	if s.logger != nil {
		s.logger.Debug("telemetry sample written",
			"queue_depth", stats.QueueDepth,
			"units_processed", stats.UnitsProcessed,
			"devices", counts[0],
		)
	}
}
