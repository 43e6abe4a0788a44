package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger создаёт Logger согласно config.
// Output "file" пишет в файл с ротацией через lumberjack, иначе логи идут в stderr.
func NewLogger(config Config) Logger {
	var w io.Writer = os.Stderr

	switch config.Output {
	case OutputFile:
		w = newLumberjackWriter(config)
	case OutputStderr, "":
	default:
		_, _ = fmt.Fprintf(os.Stderr, //nolint:errcheck // bootstrap stderr
			"WARNING: неизвестный вывод логов %q, используется stderr\n", config.Output)
	}

	return NewLoggerWithWriter(config, w)
}

// newLumberjackWriter создаёт writer с ротацией. Каталог файла создаётся при необходимости.
// При пустом FilePath или ошибке создания каталога возвращает os.Stderr.
func newLumberjackWriter(config Config) io.Writer {
	if config.FilePath == "" {
		_, _ = os.Stderr.WriteString("WARNING: вывод логов в файл, но путь не задан, используется stderr\n") //nolint:errcheck // bootstrap stderr
		return os.Stderr
	}

	if dir := filepath.Dir(config.FilePath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, //nolint:errcheck // bootstrap stderr
				"WARNING: не удалось создать каталог логов %q: %v, используется stderr\n", dir, err)
			return os.Stderr
		}
	}

	return &lumberjack.Logger{
		Filename:   config.FilePath,
		MaxSize:    config.MaxSize,
		MaxBackups: config.MaxBackups,
		MaxAge:     config.MaxAge,
		Compress:   config.Compress,
	}
}

// NewLoggerWithWriter создаёт Logger, пишущий в w.
func NewLoggerWithWriter(config Config, w io.Writer) Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(config.Level)}

	var handler slog.Handler
	if strings.EqualFold(config.Format, FormatJSON) {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return NewSlogAdapter(slog.New(handler))
}

// parseLevel конвертирует строковый уровень в slog.Level.
// Неизвестное значение даёт slog.LevelInfo.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn, "warning":
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
