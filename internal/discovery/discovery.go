// Package discovery собирает идентификаторы тестов через режим
// "только сбор" тестового раннера и отделяет их от служебного вывода.
package discovery

import (
	"context"
	"fmt"

	"github.com/Kargones/testshard/internal/constants"
	"github.com/Kargones/testshard/internal/partition"
	"github.com/Kargones/testshard/internal/pkg/logging"
	"github.com/Kargones/testshard/internal/util/runner"
)

// Executor выполняет процесс и возвращает его вывод.
// Реализуется *runner.Runner.
type Executor interface {
	Output(ctx context.Context, argv []string) (*runner.Result, error)
}

// Collection — результат сбора.
type Collection struct {
	// Filter — выражение маркеров, переданное коллектору.
	Filter string `json:"filter,omitempty" yaml:"filter,omitempty"`

	// Args — полная команда сбора.
	Args []string `json:"args" yaml:"args"`

	// IDs — идентификаторы в порядке вывода коллектора.
	IDs []partition.TestID `json:"ids" yaml:"ids"`

	// Rejected — отброшенные непустые строки.
	Rejected []Rejected `json:"rejected,omitempty" yaml:"rejected,omitempty"`

	// Raw — stdout и stderr коллектора для диагностики.
	Raw string `json:"-" yaml:"-"`

	// ExitCode — код выхода коллектора (0 или 5).
	ExitCode int `json:"exit_code" yaml:"exit_code"`
}

// Empty сообщает, что идентификаторов не найдено.
func (c *Collection) Empty() bool {
	return len(c.IDs) == 0
}

// Collector запускает `<runner> --collect-only -q [-m filter]`.
type Collector struct {
	runner  string
	exec    Executor
	decoder *Decoder
	logger  logging.Logger
}

// NewCollector создаёт Collector для исполняемого файла runnerExe.
func NewCollector(runnerExe string, exec Executor, decoder *Decoder, logger logging.Logger) *Collector {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Collector{
		runner:  runnerExe,
		exec:    exec,
		decoder: decoder,
		logger:  logger,
	}
}

// Args возвращает команду сбора для выражения маркеров filter.
func (c *Collector) Args(filter string) []string {
	args := []string{c.runner, "--collect-only", "-q"}
	if filter != "" {
		args = append(args, "-m", filter)
	}
	return args
}

// Collect запускает коллектор и классифицирует его вывод.
//
// Код 5 (тесты не найдены) трактуется как пустой результат.
// Другой ненулевой код возвращается как *CollectionError.
// Если процесс не удалось запустить, возвращается ошибка apperrors.ErrRunnerStart.
func (c *Collector) Collect(ctx context.Context, filter string) (*Collection, error) {
	args := c.Args(filter)
	log := c.logger.With("filter", filter)
	log.Debug("Сбор тестов", "args", runner.MaskArgs(args))

	res, err := c.exec.Output(ctx, args)
	if err != nil {
		return nil, fmt.Errorf("сбор тестов: %w", err)
	}

	stdout := c.decode(res.Stdout)
	stderr := c.decode(res.Stderr)
	raw := stdout
	if stderr != "" {
		raw = stdout + "\n" + stderr
	}

	col := &Collection{
		Filter:   filter,
		Args:     args,
		IDs:      []partition.TestID{},
		Raw:      raw,
		ExitCode: res.ExitCode,
	}

	switch res.ExitCode {
	case constants.ExitOK:
	case constants.ExitNoTestsCollected:
		log.Info("Коллектор не нашёл тестов")
		return col, nil
	default:
		log.Error("Сбор тестов завершился ошибкой",
			"exit_code", res.ExitCode,
			"output", runner.TrimOut([]byte(raw)),
		)
		return nil, &CollectionError{Code: res.ExitCode, Output: raw, Args: args}
	}

	col.IDs, col.Rejected = ParseOutput(stdout)
	log.Debug("Сбор завершён", "ids", len(col.IDs), "rejected", len(col.Rejected))
	return col, nil
}

func (c *Collector) decode(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	s, err := c.decoder.Decode(b)
	if err != nil {
		c.logger.Warn("Не удалось перекодировать вывод коллектора", "error", err.Error())
	}
	return s
}
