// Package shard связывает сбор, разбиение и построение команды
// в один план для текущего шарда.
package shard

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Kargones/testshard/internal/config"
	"github.com/Kargones/testshard/internal/discovery"
	"github.com/Kargones/testshard/internal/invocation"
	"github.com/Kargones/testshard/internal/partition"
	"github.com/Kargones/testshard/internal/pkg/logging"
	"github.com/Kargones/testshard/internal/pkg/metrics"
	"github.com/Kargones/testshard/internal/pkg/tracing"
)

// Outcome — результат подготовки шарда.
type Outcome struct {
	Collection *discovery.Collection
	Assignment *partition.Assignment
	Plan       *invocation.RunPlan

	// Warnings — предупреждения конфигурации и построения команды.
	Warnings []string
}

// Empty сообщает, что шарду нечего запускать.
func (o *Outcome) Empty() bool {
	return o.Plan.Empty()
}

// Planner готовит план шарда: сбор, разбиение, сборка команды.
type Planner struct {
	exec    discovery.Executor
	metrics metrics.Collector
	logger  logging.Logger
	report  io.Writer
}

// NewPlanner создаёт Planner. Диагностика (SHARD_DEBUG, сырой вывод
// коллектора, сводка) пишется в report.
func NewPlanner(exec discovery.Executor, collector metrics.Collector, logger logging.Logger, report io.Writer) *Planner {
	if collector == nil {
		collector = metrics.NewNopCollector()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if report == nil {
		report = io.Discard
	}
	return &Planner{
		exec:    exec,
		metrics: collector,
		logger:  logger,
		report:  report,
	}
}

// MetricsShard возвращает метки метрик для роли.
func MetricsShard(role partition.Role) metrics.Shard {
	s := metrics.Shard{Index: role.ShardIndex, Count: role.ShardCount, Role: metrics.RoleRegular}
	if role.Pinned {
		s.Role = metrics.RolePinned
	}
	return s
}

// Prepare собирает тесты для фильтра роли, выбирает тесты шарда
// и строит команду раннера.
//
// Пустой результат сбора не является ошибкой: план пуст, сырой вывод
// коллектора печатается в report. Ошибка сбора возвращается как есть
// (*discovery.CollectionError или ошибка запуска), её вывод также печатается.
func (p *Planner) Prepare(ctx context.Context, s config.Settings) (*Outcome, error) {
	log := p.logger.With("shard_index", s.ShardIndex, "shard_count", s.ShardCount)
	out := &Outcome{Warnings: append([]string(nil), s.Warnings...)}
	for _, w := range s.Warnings {
		log.Warn(w)
	}

	decoder, err := discovery.NewDecoder(s.CollectEncoding)
	if err != nil {
		return nil, fmt.Errorf("кодировка вывода коллектора: %w", err)
	}
	collector := discovery.NewCollector(s.Invocation.Runner, p.exec, decoder, log)

	collectCtx, span := tracing.StartSpan(ctx, "discovery.collect",
		attribute.String("shard.filter", s.Role.Filter),
		attribute.Bool("shard.pinned", s.Role.Pinned),
	)
	col, err := collector.Collect(collectCtx, s.Role.Filter)
	if col != nil {
		span.SetAttributes(attribute.Int("tests.collected", len(col.IDs)))
	}
	tracing.EndSpan(span, err)
	if err != nil {
		var colErr *discovery.CollectionError
		if errors.As(err, &colErr) {
			p.printf("Сбор тестов завершился с кодом %d\n", colErr.Code)
			p.printRaw(colErr.Output)
		}
		return nil, err
	}
	out.Collection = col

	if s.Debug {
		p.printCollection(col)
	}

	_, span = tracing.StartSpan(ctx, "partition.plan",
		attribute.String("shard.group_by", string(s.GroupBy)),
		attribute.Int("shard.slot", s.Role.Slot),
		attribute.Int("shard.slots", s.Role.Slots),
	)
	out.Assignment = partition.Assign(col.IDs, s.Role, s.GroupBy)
	span.SetAttributes(
		attribute.Int("tests.filtered", len(out.Assignment.Filtered)),
		attribute.Int("tests.assigned", len(out.Assignment.Tests)),
	)
	tracing.EndSpan(span, nil)

	groups := 0
	if out.Assignment.Groups != nil {
		groups = out.Assignment.Groups.Len()
	}
	mshard := MetricsShard(s.Role)
	p.metrics.RecordCollection(mshard, len(col.IDs), len(out.Assignment.Filtered))
	p.metrics.RecordPlan(mshard, groups, len(out.Assignment.Tests))

	if s.Debug {
		p.printGroups(out.Assignment)
	}

	plan, warn := invocation.Build(s.Invocation, s.Role, out.Assignment.Tests)
	plan.Collected = len(out.Assignment.Filtered)
	if warn != nil {
		log.Warn("EXTRA_ARGS передан раннеру одной строкой", "error", warn.Err.Error())
		out.Warnings = append(out.Warnings, warn.Error())
	}
	out.Plan = plan

	if col.Empty() {
		p.printf("Тесты не найдены (фильтр %q), запускать нечего\n", s.Role.Filter)
		p.printRaw(col.Raw)
		return out, nil
	}

	p.printf("Собрано тестов: %d, шард %d/%d запускает %d\n",
		len(out.Assignment.Filtered), s.ShardIndex, s.ShardCount, len(plan.Tests))
	log.Info("План шарда готов",
		"collected", len(col.IDs),
		"filtered", len(out.Assignment.Filtered),
		"groups", groups,
		"assigned", len(plan.Tests),
	)
	return out, nil
}
