package di

import (
	"log/slog"
	"os"

	"github.com/Kargones/testshard/internal/command"
	"github.com/Kargones/testshard/internal/config"
	"github.com/Kargones/testshard/internal/pkg/logging"
	"github.com/Kargones/testshard/internal/pkg/metrics"
	"github.com/Kargones/testshard/internal/pkg/output"
	"github.com/Kargones/testshard/internal/pkg/tracing"
	"github.com/Kargones/testshard/internal/util/runner"
)

// ProvideLogger создаёт Logger по настройкам SHARD_LOG_*.
// Пустые значения заменяются значениями по умолчанию. nil Config даёт
// логгер по умолчанию (info, text, stderr).
func ProvideLogger(cfg *config.Config) logging.Logger {
	logCfg := logging.DefaultConfig()
	if cfg == nil {
		return logging.NewLogger(logCfg)
	}

	s := cfg.LoggingSettings()
	if s.Level != "" {
		logCfg.Level = s.Level
	}
	if s.Format != "" {
		logCfg.Format = s.Format
	}
	if s.Output != "" {
		logCfg.Output = s.Output
	}
	if s.FilePath != "" {
		logCfg.FilePath = s.FilePath
	}
	// Нулевой размер и возраст для lumberjack смысла не имеют.
	if s.MaxSize > 0 {
		logCfg.MaxSize = s.MaxSize
	}
	if s.MaxBackups > 0 {
		logCfg.MaxBackups = s.MaxBackups
	}
	if s.MaxAge > 0 {
		logCfg.MaxAge = s.MaxAge
	}
	logCfg.Compress = s.Compress

	return logging.NewLogger(logCfg)
}

// ProvideOutputWriter создаёт Writer по SHARD_OUTPUT_FORMAT.
func ProvideOutputWriter(cfg *config.Config) output.Writer {
	if cfg == nil || cfg.OutputFormat == "" {
		return output.NewWriter(output.FormatText)
	}
	return output.NewWriter(cfg.OutputFormat)
}

// ProvideTraceID генерирует trace_id (32 hex-символа) для запуска.
func ProvideTraceID() string {
	return tracing.GenerateTraceID()
}

// ProvideMetricsCollector создаёт Collector по SHARD_METRICS_*.
// При ошибке конфигурации возвращает NopCollector и логирует ошибку:
// метрики не должны мешать запуску тестов.
func ProvideMetricsCollector(cfg *config.Config, logger logging.Logger) metrics.Collector {
	if cfg == nil {
		return metrics.NewNopCollector()
	}

	collector, err := metrics.NewCollector(cfg.MetricsSettings(), logger)
	if err != nil {
		logger.Error("ошибка создания MetricsCollector, используется NopCollector",
			slog.String("error", err.Error()),
		)
		return metrics.NewNopCollector()
	}
	return collector
}

// ProvideTracerProvider инициализирует OTel TracerProvider по SHARD_TRACING_*.
// При отключённом трейсинге или ошибке возвращает nop shutdown.
func ProvideTracerProvider(cfg *config.Config, logger logging.Logger) tracing.ShutdownFunc {
	if cfg == nil {
		return tracing.NewNopTracerProvider()
	}

	shutdown, err := tracing.NewTracerProvider(cfg.TracingSettings(), logger)
	if err != nil {
		logger.Error("ошибка инициализации tracing, используется nop provider",
			slog.String("error", err.Error()),
		)
		return tracing.NewNopTracerProvider()
	}
	return shutdown
}

// ProvideExecutorFactory возвращает фабрику runner.Runner: рабочий каталог
// и пауза перед SIGKILL берутся из Settings, раннер пишет в stdout и stderr процесса.
func ProvideExecutorFactory(logger logging.Logger) command.ExecutorFactory {
	return func(s config.Settings) command.Executor {
		r := runner.New(s.WorkDir, logger)
		if s.GracePeriod > 0 {
			r.GracePeriod = s.GracePeriod
		}
		r.Stdout = os.Stdout
		r.Stderr = os.Stderr
		return r
	}
}
