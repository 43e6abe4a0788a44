package di

import (
	"io"

	"github.com/Kargones/testshard/internal/command"
	"github.com/Kargones/testshard/internal/config"
	"github.com/Kargones/testshard/internal/pkg/logging"
	"github.com/Kargones/testshard/internal/pkg/metrics"
	"github.com/Kargones/testshard/internal/pkg/output"
	"github.com/Kargones/testshard/internal/pkg/tracing"
)

// App содержит инициализированные зависимости приложения.
// Создаётся через Wire DI в InitializeApp().
//
// При добавлении новых зависимостей:
// 1. Добавить поле в App struct
// 2. Создать провайдер в providers.go
// 3. Добавить провайдер в ProviderSet в wire.go
// 4. Перегенерировать wire_gen.go: go generate ./internal/di/...
type App struct {
	// Config содержит конфигурацию, загруженную через config.Load().
	Config *config.Config

	// Logger пишет в stderr или в файл с ротацией.
	Logger logging.Logger

	// OutputWriter форматирует результаты команд по SHARD_OUTPUT_FORMAT.
	OutputWriter output.Writer

	// TraceID коррелирует логи и span-ы одного запуска.
	TraceID string

	// MetricsCollector — PrometheusCollector или NopCollector.
	MetricsCollector metrics.Collector

	// TracerShutdown отправляет буферизированные span-ы. Nop при отключённом трейсинге.
	TracerShutdown tracing.ShutdownFunc

	// NewExecutor создаёт runner.Runner для проверенной конфигурации шарда.
	NewExecutor command.ExecutorFactory
}

// Env собирает зависимости обработчика команды.
func (a *App) Env(stdout io.Writer) *command.Env {
	return &command.Env{
		Config:      a.Config,
		Logger:      a.Logger.With("trace_id", a.TraceID),
		Metrics:     a.MetricsCollector,
		NewExecutor: a.NewExecutor,
		Stdout:      stdout,
		Output:      a.OutputWriter,
		TraceID:     a.TraceID,
	}
}
