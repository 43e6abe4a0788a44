// Package output форматирует результаты команд в text, JSON и YAML.
package output

// StatusSuccess и StatusError — возможные значения поля Status в Result.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Result — структурированный результат команды для SHARD_OUTPUT_FORMAT.
type Result struct {
	Status  string `json:"status" yaml:"status"`
	Command string `json:"command" yaml:"command"`

	// Data — payload команды. Если Data реализует TextRenderer,
	// текстовый вывод делегируется ему.
	Data any `json:"data,omitempty" yaml:"data,omitempty"`

	Error    *ErrorInfo `json:"error,omitempty" yaml:"error,omitempty"`
	Metadata *Metadata  `json:"metadata,omitempty" yaml:"metadata,omitempty"`

	// DryRun — план показан вместо запуска раннера.
	DryRun bool `json:"dry_run,omitempty" yaml:"dry_run,omitempty"`

	// Warnings — некритичные проблемы конфигурации и сборки команды.
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// ErrorInfo — машиночитаемый код и описание ошибки.
// Message не должен содержать секретов.
type ErrorInfo struct {
	Code    string `json:"code" yaml:"code"`
	Message string `json:"message" yaml:"message"`
}

// Metadata — метаданные выполнения команды.
type Metadata struct {
	DurationMs int64  `json:"duration_ms" yaml:"duration_ms"`
	TraceID    string `json:"trace_id,omitempty" yaml:"trace_id,omitempty"`
	APIVersion string `json:"api_version" yaml:"api_version"`
}
