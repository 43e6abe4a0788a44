// Package main — точка входа testshard: сбор, разбиение и запуск тестов одного шарда.
//
// Команда берётся из первого аргумента, затем из SHARD_COMMAND, по умолчанию shard-run.
// Код выхода процесса равен коду раннера тестов. При ошибке сбора это код
// коллектора, при ошибке конфигурации 2.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Kargones/testshard/internal/command"
	"github.com/Kargones/testshard/internal/config"
	"github.com/Kargones/testshard/internal/constants"
	"github.com/Kargones/testshard/internal/di"
	"github.com/Kargones/testshard/internal/pkg/apperrors"
	"github.com/Kargones/testshard/internal/pkg/tracing"
	"github.com/Kargones/testshard/internal/util/runner"

	// Команды: blank import для self-registration через init()
	_ "github.com/Kargones/testshard/internal/command/handlers/help"
	_ "github.com/Kargones/testshard/internal/command/handlers/shardplan"
	_ "github.com/Kargones/testshard/internal/command/handlers/shardrun"
	_ "github.com/Kargones/testshard/internal/command/handlers/version"
)

const (
	shutdownTimeout = 5 * time.Second
	pushTimeout     = 10 * time.Second
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run содержит основную логику и возвращает код выхода.
// os.Exit вызывается только в main, чтобы отработали defer-ы
// (завершение трейсинга, остановка обработки сигналов).
func run(args []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), runner.InterruptSignals()...)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Не удалось загрузить конфигурацию: %v\n", err)
		return apperrors.ExitCode(err)
	}
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		cfg.Command = strings.TrimSpace(args[0])
	}
	if cfg.Command == "" {
		cfg.Command = constants.ActShardRun
	}

	app, err := di.InitializeApp(cfg)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Не удалось инициализировать приложение: %v\n", err)
		return constants.ExitFailure
	}
	l := app.Logger.With("trace_id", app.TraceID, "command", cfg.Command)
	l.Debug("Информация о сборке",
		slog.String("version", constants.Version),
		slog.String("commit_hash", constants.PreCommitHash),
	)

	ctx = tracing.WithTraceID(ctx, app.TraceID)
	ctx = tracing.ContextWithOTelTraceID(ctx, app.TraceID)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.TracerShutdown(shutdownCtx); err != nil {
			l.Error("ошибка завершения tracing", slog.String("error", err.Error()))
		}
	}()

	handler, ok := command.Get(cfg.Command)
	if !ok {
		err := apperrors.NewAppError(apperrors.ErrCommandNotFound,
			fmt.Sprintf("неизвестная команда %q, доступны: %s", cfg.Command, strings.Join(command.Names(), ", ")), nil)
		l.Error("Неизвестная команда",
			slog.String("error", err.Error()),
			slog.String(constants.MsgErrProcessing, constants.MsgAppExit),
		)
		_, _ = fmt.Fprintln(stderr, err.Message)
		return apperrors.ExitCode(err)
	}

	ctx, span := tracing.StartSpan(ctx, cfg.Command,
		attribute.String("command", cfg.Command),
		attribute.String("trace_id", app.TraceID),
	)
	execErr := handler.Execute(ctx, app.Env(stdout))
	tracing.EndSpan(span, execErr)

	// Метрики отправляются и после отмены по сигналу.
	pushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), pushTimeout)
	_ = app.MetricsCollector.Push(pushCtx)
	cancel()

	if execErr != nil {
		code := apperrors.ExitCode(execErr)
		l.Error("Ошибка выполнения команды",
			slog.String("error", execErr.Error()),
			slog.Int("exit_code", code),
			slog.String(constants.MsgErrProcessing, constants.MsgAppExit),
		)
		return code
	}
	return constants.ExitOK
}
