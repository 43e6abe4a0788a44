package metrics

import (
	"context"
	"time"
)

// NopCollector — no-op реализация Collector.
type NopCollector struct{}

// NewNopCollector создаёт NopCollector.
func NewNopCollector() *NopCollector {
	return &NopCollector{}
}

// RecordCollection ничего не делает.
func (c *NopCollector) RecordCollection(Shard, int, int) {}

// RecordPlan ничего не делает.
func (c *NopCollector) RecordPlan(Shard, int, int) {}

// RecordRun ничего не делает.
func (c *NopCollector) RecordRun(Shard, time.Duration, int) {}

// Push всегда возвращает nil.
func (c *NopCollector) Push(context.Context) error {
	return nil
}
