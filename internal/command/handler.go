// Package command предоставляет интерфейс и реестр команд приложения.
// Обработчики регистрируются в init() своих пакетов; main подключает
// их blank import-ом.
package command

import (
	"context"
	"io"

	"github.com/Kargones/testshard/internal/config"
	"github.com/Kargones/testshard/internal/pkg/logging"
	"github.com/Kargones/testshard/internal/pkg/metrics"
	"github.com/Kargones/testshard/internal/pkg/output"
	"github.com/Kargones/testshard/internal/util/runner"
)

// Handler определяет интерфейс обработчика команды.
type Handler interface {
	// Name возвращает имя команды для регистрации в реестре (kebab-case).
	Name() string

	// Description возвращает описание команды для вывода в help.
	Description() string

	// Execute выполняет команду. Код выхода процесса определяется
	// ошибкой через apperrors.ExitCode.
	Execute(ctx context.Context, env *Env) error
}

// Executor запускает дочерние процессы. Реализуется *runner.Runner.
type Executor interface {
	Output(ctx context.Context, argv []string) (*runner.Result, error)
	Run(ctx context.Context, argv []string) (*runner.Result, error)
}

// ExecutorFactory создаёт Executor для проверенной конфигурации шарда.
type ExecutorFactory func(s config.Settings) Executor

// Env — зависимости, доступные обработчику.
type Env struct {
	Config  *config.Config
	Logger  logging.Logger
	Metrics metrics.Collector

	// NewExecutor создаёт исполнитель процессов для шарда.
	NewExecutor ExecutorFactory

	// Stdout получает результат команды и диагностику шарда.
	Stdout io.Writer

	// Output форматирует результат команды по SHARD_OUTPUT_FORMAT.
	Output output.Writer

	TraceID string
}

// Log возвращает логгер или NopLogger, если он не задан.
func (e *Env) Log() logging.Logger {
	if e.Logger == nil {
		return logging.NewNopLogger()
	}
	return e.Logger
}

// Collector возвращает сборщик метрик или NopCollector.
func (e *Env) Collector() metrics.Collector {
	if e.Metrics == nil {
		return metrics.NewNopCollector()
	}
	return e.Metrics
}

// Writer возвращает Writer результата. Без заданного Output формат
// берётся из конфигурации.
func (e *Env) Writer() output.Writer {
	if e.Output != nil {
		return e.Output
	}
	if e.Config == nil {
		return output.NewTextWriter()
	}
	return output.NewWriter(e.Config.OutputFormat)
}

// TextOutput сообщает, что результат выводится для человека.
// В машиночитаемых форматах stdout содержит только документ результата.
func (e *Env) TextOutput() bool {
	_, ok := e.Writer().(*output.TextWriter)
	return ok
}
