// Package shardrun реализует команду shard-run: сбор тестов, выбор
// тестов шарда и запуск раннера с передачей его кода выхода.
package shardrun

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Kargones/testshard/internal/command"
	"github.com/Kargones/testshard/internal/constants"
	"github.com/Kargones/testshard/internal/pkg/apperrors"
	"github.com/Kargones/testshard/internal/pkg/tracing"
	"github.com/Kargones/testshard/internal/shard"
)

func init() {
	command.Register(&Handler{})
}

// Handler обрабатывает команду shard-run.
type Handler struct{}

// Name возвращает имя команды.
func (h *Handler) Name() string {
	return constants.ActShardRun
}

// Description возвращает описание команды для вывода в help.
func (h *Handler) Description() string {
	return "Собрать тесты, выбрать тесты шарда и запустить их"
}

// Execute выполняет шард.
//
// Пустой шард завершается без ошибки. Ненулевой код раннера возвращается
// как *command.RunnerFailure. При SHARD_DRY_RUN план выводится вместо запуска.
func (h *Handler) Execute(ctx context.Context, env *command.Env) error {
	start := time.Now()
	log := env.Log()

	s, err := env.Config.Settings()
	if err != nil {
		return err
	}
	exec := env.NewExecutor(s)

	// В машиночитаемом dry-run stdout содержит только документ с планом.
	report := env.Stdout
	if s.DryRun && !env.TextOutput() {
		report = nil
	}

	out, err := shard.NewPlanner(exec, env.Collector(), log, report).Prepare(ctx, s)
	if err != nil {
		return err
	}

	if s.DryRun {
		result := out.Result(constants.ActShardRun, true, start, env.TraceID)
		if err := env.Writer().Write(env.Stdout, result); err != nil {
			return apperrors.NewAppError(apperrors.ErrOutputFormat, "не удалось вывести план", err)
		}
		return nil
	}

	if out.Empty() {
		log.Info("Шарду нечего запускать", "collected", out.Plan.Collected)
		return nil
	}

	_, _ = fmt.Fprintf(env.Stdout, "Запуск: %s\n", out.Plan.CommandLine())

	runCtx, span := tracing.StartSpan(ctx, "runner.run",
		attribute.Int("tests.assigned", len(out.Plan.Tests)),
		attribute.Bool("shard.pinned", s.Role.Pinned),
	)
	res, err := exec.Run(runCtx, out.Plan.Args)
	if err != nil {
		tracing.EndSpan(span, err)
		return err
	}
	span.SetAttributes(attribute.Int("process.exit_code", res.ExitCode))

	env.Collector().RecordRun(shard.MetricsShard(s.Role), res.Duration, res.ExitCode)
	log.Info("Раннер завершён",
		"exit_code", res.ExitCode,
		"duration", res.Duration.Round(time.Millisecond).String(),
	)

	if res.ExitCode != constants.ExitOK {
		failure := &command.RunnerFailure{Code: res.ExitCode}
		tracing.EndSpan(span, failure)
		return failure
	}
	tracing.EndSpan(span, nil)
	return nil
}
