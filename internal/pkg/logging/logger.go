// Package logging предоставляет интерфейс и реализации для структурированного логирования.
package logging

// Logger определяет интерфейс для структурированного логирования.
// Реализации: SlogAdapter и NopLogger.
//
// Все методы принимают сообщение и опциональные key-value пары:
//
//	logger.Info("Шард запущен", "shard", 1, "tests", 12)
//
// ВАЖНО: Logger пишет только в stderr или файл, никогда в stdout.
// stdout занят выводом плана и самим тестовым раннером.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	// With возвращает новый Logger с добавленными атрибутами.
	//
	//	logger.With("trace_id", traceID).Info("Сбор тестов")
	With(args ...any) Logger
}
