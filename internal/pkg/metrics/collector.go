// Package metrics собирает метрики шарда и отправляет их в Prometheus Pushgateway.
//
// NewCollector выбирает реализацию по конфигурации: PrometheusCollector
// или NopCollector при отключённых метриках.
package metrics

import (
	"context"
	"strconv"
	"time"
)

// Роли шарда для label "role".
const (
	RoleRegular = "regular"
	RolePinned  = "pinned"
)

// Shard — метки шарда для всех метрик.
type Shard struct {
	Index int
	Count int
	Role  string
}

func (s Shard) indexLabel() string {
	return strconv.Itoa(s.Index)
}

func (s Shard) roleLabel() string {
	if s.Role == "" {
		return RoleRegular
	}
	return s.Role
}

// Collector определяет интерфейс для сбора метрик шарда.
type Collector interface {
	// RecordCollection записывает число собранных идентификаторов
	// и число оставшихся после удаления родительских.
	RecordCollection(shard Shard, collected, filtered int)

	// RecordPlan записывает число групп и назначенных шарду тестов.
	RecordPlan(shard Shard, groups, assigned int)

	// RecordRun записывает длительность и код выхода раннера.
	RecordRun(shard Shard, duration time.Duration, exitCode int)

	// Push отправляет метрики в Pushgateway.
	// Ошибки отправки логируются и не возвращаются: метрики не влияют на код выхода.
	Push(ctx context.Context) error
}
