// Package config читает конфигурацию шарда из переменных окружения
// (и необязательного YAML-файла) и проверяет её до начала работы.
package config

import (
	"time"

	"github.com/Kargones/testshard/internal/constants"
	"github.com/Kargones/testshard/internal/pkg/logging"
	"github.com/Kargones/testshard/internal/pkg/metrics"
	"github.com/Kargones/testshard/internal/pkg/tracing"
)

// Config — сырая конфигурация в том виде, в каком она прочитана cleanenv.
// Значения шарда хранятся строками: различие «не задано» и «некорректно»
// проверяется в Settings().
//
// Незаданная переменная получает env-default, переменная с пустым значением
// остаётся пустой и отключает соответствующий флаг раннера.
type Config struct {
	// Command — команда по умолчанию, если не передана аргументом.
	Command string `yaml:"command" env:"SHARD_COMMAND" env-default:"shard-run"`

	// DryRun — показать план вместо запуска раннера. Строка разбирается
	// как HEADLESS: пустое значение равно false.
	DryRun string `yaml:"dryRun" env:"SHARD_DRY_RUN" env-default:"false"`

	// OutputFormat — text, json или yaml.
	OutputFormat string `yaml:"outputFormat" env:"SHARD_OUTPUT_FORMAT" env-default:"text"`

	// Debug — "1" печатает собранные идентификаторы и группы.
	Debug string `yaml:"debug" env:"SHARD_DEBUG"`

	// WorkDir — рабочий каталог для сбора и запуска.
	WorkDir string `yaml:"workDir" env:"SHARD_WORKDIR"`

	Shard   ShardConfig   `yaml:"shard"`
	Runner  RunnerConfig  `yaml:"runner"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Tracing TracingConfig `yaml:"tracing"`
}

// ShardConfig — позиция шарда и закреплённая группа.
type ShardConfig struct {
	Index string `yaml:"index" env:"SHARD_INDEX" env-description:"Индекс текущего шарда, с нуля"`
	Count string `yaml:"count" env:"SHARD_COUNT" env-description:"Общее количество шардов"`

	// GroupMark — маркер закреплённой группы. Пусто — группы нет.
	GroupMark string `yaml:"groupMark" env:"GROUP_MARK" env-description:"Маркер закреплённой группы"`

	// GroupShardIndex — индекс закреплённого шарда. Пусто — 0.
	GroupShardIndex string `yaml:"groupShardIndex" env:"GROUP_SHARD_INDEX"`

	// GroupWorkers — число воркеров на закреплённом шарде.
	GroupWorkers string `yaml:"groupWorkers" env:"GROUP_WORKERS"`

	// GroupBy — none, module или class.
	GroupBy string `yaml:"groupBy" env:"GROUP_BY" env-default:"module"`
}

// RunnerConfig — параметры тестового раннера.
type RunnerConfig struct {
	Executable string `yaml:"executable" env:"SHARD_RUNNER" env-default:"pytest"`

	// CollectEncoding — кодовая страница для вывода сбора, если он не UTF-8.
	CollectEncoding string `yaml:"collectEncoding" env:"SHARD_COLLECT_ENCODING" env-default:"windows-1251"`

	// GracePeriod — пауза между SIGTERM и SIGKILL при остановке шарда.
	GracePeriod time.Duration `yaml:"gracePeriod" env:"SHARD_GRACE_PERIOD" env-default:"10s"`

	Xdist       string `yaml:"xdist" env:"XDIST" env-default:"auto"`
	BaseURL     string `yaml:"baseUrl" env:"BASE_URL" env-default:"https://www.saucedemo.com"`
	Browser     string `yaml:"browser" env:"BROWSER"`
	Marker      string `yaml:"marker" env:"MARKER" env-default:"regression"`
	Headless    string `yaml:"headless" env:"HEADLESS"`
	Reruns      string `yaml:"reruns" env:"RERUNS" env-default:"1"`
	RerunsDelay string `yaml:"rerunsDelay" env:"RERUNS_DELAY" env-default:"1"`
	ExtraArgs   string `yaml:"extraArgs" env:"EXTRA_ARGS" env-default:"--alluredir allure-results" env-description:"Дополнительные аргументы раннера"`
}

// LoggingConfig содержит настройки логирования.
type LoggingConfig struct {
	Level      string `yaml:"level" env:"SHARD_LOG_LEVEL" env-default:"info"`
	Format     string `yaml:"format" env:"SHARD_LOG_FORMAT" env-default:"text"`
	Output     string `yaml:"output" env:"SHARD_LOG_OUTPUT" env-default:"stderr"`
	FilePath   string `yaml:"filePath" env:"SHARD_LOG_FILE_PATH" env-default:"testshard.log"`
	MaxSize    int    `yaml:"maxSize" env:"SHARD_LOG_MAX_SIZE" env-default:"100"`
	MaxBackups int    `yaml:"maxBackups" env:"SHARD_LOG_MAX_BACKUPS" env-default:"3"`
	MaxAge     int    `yaml:"maxAge" env:"SHARD_LOG_MAX_AGE" env-default:"7"`
	Compress   bool   `yaml:"compress" env:"SHARD_LOG_COMPRESS" env-default:"true"`
}

// MetricsConfig содержит настройки отправки метрик в Pushgateway.
type MetricsConfig struct {
	Enabled        bool          `yaml:"enabled" env:"SHARD_METRICS_ENABLED" env-default:"false"`
	PushgatewayURL string        `yaml:"pushgatewayUrl" env:"SHARD_METRICS_PUSHGATEWAY_URL"`
	JobName        string        `yaml:"jobName" env:"SHARD_METRICS_JOB_NAME" env-default:"testshard"`
	Timeout        time.Duration `yaml:"timeout" env:"SHARD_METRICS_TIMEOUT" env-default:"10s"`
	InstanceLabel  string        `yaml:"instanceLabel" env:"SHARD_METRICS_INSTANCE"`
}

// TracingConfig содержит настройки экспорта трейсов.
type TracingConfig struct {
	Enabled      bool          `yaml:"enabled" env:"SHARD_TRACING_ENABLED" env-default:"false"`
	Endpoint     string        `yaml:"endpoint" env:"SHARD_TRACING_ENDPOINT"`
	ServiceName  string        `yaml:"serviceName" env:"SHARD_TRACING_SERVICE_NAME" env-default:"testshard"`
	Environment  string        `yaml:"environment" env:"SHARD_TRACING_ENVIRONMENT" env-default:"ci"`
	Insecure     bool          `yaml:"insecure" env:"SHARD_TRACING_INSECURE" env-default:"true"`
	Timeout      time.Duration `yaml:"timeout" env:"SHARD_TRACING_TIMEOUT" env-default:"5s"`
	SamplingRate float64       `yaml:"samplingRate" env:"SHARD_TRACING_SAMPLING_RATE" env-default:"1.0"`
}

// DebugEnabled сообщает, включена ли диагностика SHARD_DEBUG=1.
func (c *Config) DebugEnabled() bool {
	return c.Debug == "1"
}

// LoggingSettings конвертирует настройки в logging.Config.
// SHARD_DEBUG=1 принудительно включает уровень debug.
func (c *Config) LoggingSettings() logging.Config {
	lc := logging.Config{
		Level:      c.Logging.Level,
		Format:     c.Logging.Format,
		Output:     c.Logging.Output,
		FilePath:   c.Logging.FilePath,
		MaxSize:    c.Logging.MaxSize,
		MaxBackups: c.Logging.MaxBackups,
		MaxAge:     c.Logging.MaxAge,
		Compress:   c.Logging.Compress,
	}
	if c.DebugEnabled() {
		lc.Level = logging.LevelDebug
	}
	return lc
}

// MetricsSettings конвертирует настройки в metrics.Config.
func (c *Config) MetricsSettings() metrics.Config {
	return metrics.Config{
		Enabled:        c.Metrics.Enabled,
		PushgatewayURL: c.Metrics.PushgatewayURL,
		JobName:        c.Metrics.JobName,
		Timeout:        c.Metrics.Timeout,
		InstanceLabel:  c.Metrics.InstanceLabel,
	}
}

// TracingSettings конвертирует настройки в tracing.Config.
func (c *Config) TracingSettings() tracing.Config {
	return tracing.Config{
		Enabled:      c.Tracing.Enabled,
		Endpoint:     c.Tracing.Endpoint,
		ServiceName:  c.Tracing.ServiceName,
		Version:      constants.Version,
		Environment:  c.Tracing.Environment,
		Insecure:     c.Tracing.Insecure,
		Timeout:      c.Tracing.Timeout,
		SamplingRate: c.Tracing.SamplingRate,
	}
}
