package metrics

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/Kargones/testshard/internal/pkg/logging"
	"github.com/Kargones/testshard/internal/pkg/urlutil"
)

const namespace = "testshard"

// Индекс шарда попадает в grouping key Pushgateway, а не в метки метрик:
// push отклоняет метрики, метки которых совпадают с grouping key.
var shardLabels = []string{"role"}

// PrometheusCollector реализует Collector поверх собственного registry.
// Метрики отправляются в Pushgateway при вызове Push().
type PrometheusCollector struct {
	config   Config
	logger   logging.Logger
	registry *prometheus.Registry

	collected   *prometheus.GaugeVec
	filtered    *prometheus.GaugeVec
	groups      *prometheus.GaugeVec
	assigned    *prometheus.GaugeVec
	runDuration *prometheus.HistogramVec
	runExitCode *prometheus.GaugeVec

	instance string

	mu    sync.Mutex
	shard string
}

// NewPrometheusCollector создаёт PrometheusCollector и регистрирует метрики:
//   - testshard_collected_tests, testshard_filtered_tests (gauge)
//   - testshard_groups, testshard_assigned_tests (gauge)
//   - testshard_run_duration_seconds (histogram)
//   - testshard_run_exit_code (gauge)
func NewPrometheusCollector(config Config, logger logging.Logger) (*PrometheusCollector, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	instance := config.InstanceLabel
	if instance == "" {
		hostname, err := os.Hostname()
		if err != nil {
			logger.Warn("не удалось получить hostname для instance label, используется 'unknown'",
				"error", err.Error())
			hostname = "unknown"
		}
		instance = hostname
	}

	gauge := func(name, help string) *prometheus.GaugeVec {
		return prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, shardLabels)
	}

	c := &PrometheusCollector{
		config:      config,
		logger:      logger,
		registry:    prometheus.NewRegistry(),
		collected:   gauge("collected_tests", "Test identifiers reported by the collector"),
		filtered:    gauge("filtered_tests", "Test identifiers left after parent removal"),
		groups:      gauge("groups", "Groups built for round-robin assignment"),
		assigned:    gauge("assigned_tests", "Tests assigned to this shard"),
		runExitCode: gauge("run_exit_code", "Exit code of the test runner"),
		runDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of the test runner process in seconds",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200, 1800, 3600},
		}, shardLabels),
		instance: instance,
	}

	for _, m := range []prometheus.Collector{
		c.collected, c.filtered, c.groups, c.assigned, c.runDuration, c.runExitCode,
	} {
		if err := c.registry.Register(m); err != nil {
			return nil, fmt.Errorf("ошибка регистрации метрики: %w", err)
		}
	}
	return c, nil
}

func (c *PrometheusCollector) labels(shard Shard) []string {
	c.mu.Lock()
	c.shard = shard.indexLabel()
	c.mu.Unlock()
	return []string{shard.roleLabel()}
}

// RecordCollection записывает результат сбора.
func (c *PrometheusCollector) RecordCollection(shard Shard, collected, filtered int) {
	lv := c.labels(shard)
	c.collected.WithLabelValues(lv...).Set(float64(collected))
	c.filtered.WithLabelValues(lv...).Set(float64(filtered))
}

// RecordPlan записывает результат разбиения.
func (c *PrometheusCollector) RecordPlan(shard Shard, groups, assigned int) {
	lv := c.labels(shard)
	c.groups.WithLabelValues(lv...).Set(float64(groups))
	c.assigned.WithLabelValues(lv...).Set(float64(assigned))
}

// RecordRun записывает результат запуска раннера.
func (c *PrometheusCollector) RecordRun(shard Shard, duration time.Duration, exitCode int) {
	lv := c.labels(shard)
	c.runDuration.WithLabelValues(lv...).Observe(duration.Seconds())
	c.runExitCode.WithLabelValues(lv...).Set(float64(exitCode))

	c.logger.Debug("metrics: запуск записан",
		"shard", shard.Index,
		"role", lv[0],
		"duration_ms", duration.Milliseconds(),
		"exit_code", exitCode,
	)
}

// Push отправляет метрики в Pushgateway с группировкой по instance и shard,
// чтобы параллельные шарды не перезаписывали друг друга.
func (c *PrometheusCollector) Push(ctx context.Context) error {
	if ctx.Err() != nil {
		c.logger.Debug("metrics: отправка отменена")
		return nil
	}

	pusher := push.New(c.config.PushgatewayURL, c.config.JobName).
		Gatherer(c.registry).
		Grouping("instance", c.instance)

	c.mu.Lock()
	shard := c.shard
	c.mu.Unlock()
	if shard != "" {
		pusher = pusher.Grouping("shard", shard)
	}

	pushCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	if err := pusher.PushContext(pushCtx); err != nil {
		c.logger.Error("ошибка отправки метрик в Pushgateway",
			"error", err.Error(),
			"url", urlutil.MaskURL(c.config.PushgatewayURL),
			"job", c.config.JobName,
		)
		return nil
	}

	c.logger.Info("метрики отправлены в Pushgateway",
		"url", urlutil.MaskURL(c.config.PushgatewayURL),
		"job", c.config.JobName,
		"instance", c.instance,
	)
	return nil
}

// Registry возвращает внутренний registry. Используется в тестах.
func (c *PrometheusCollector) Registry() *prometheus.Registry {
	return c.registry
}
