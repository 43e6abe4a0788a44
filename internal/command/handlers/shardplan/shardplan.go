// Package shardplan реализует команду shard-plan: план шарда без запуска тестов.
package shardplan

import (
	"context"
	"time"

	"github.com/Kargones/testshard/internal/command"
	"github.com/Kargones/testshard/internal/constants"
	"github.com/Kargones/testshard/internal/pkg/apperrors"
	"github.com/Kargones/testshard/internal/shard"
)

func init() {
	command.Register(&Handler{})
}

// Handler обрабатывает команду shard-plan.
type Handler struct{}

// Name возвращает имя команды.
func (h *Handler) Name() string {
	return constants.ActShardPlan
}

// Description возвращает описание команды для вывода в help.
func (h *Handler) Description() string {
	return "Показать тесты и команду шарда без запуска"
}

// Execute собирает тесты и выводит план в формате SHARD_OUTPUT_FORMAT.
// Диагностика планировщика в машиночитаемых форматах не печатается,
// чтобы stdout оставался одним документом.
func (h *Handler) Execute(ctx context.Context, env *command.Env) error {
	start := time.Now()

	s, err := env.Config.Settings()
	if err != nil {
		return err
	}

	report := env.Stdout
	if !env.TextOutput() {
		report = nil
	}

	out, err := shard.NewPlanner(env.NewExecutor(s), env.Collector(), env.Log(), report).Prepare(ctx, s)
	if err != nil {
		return err
	}

	result := out.Result(constants.ActShardPlan, false, start, env.TraceID)
	if err := env.Writer().Write(env.Stdout, result); err != nil {
		return apperrors.NewAppError(apperrors.ErrOutputFormat, "не удалось вывести план", err)
	}
	return nil
}
