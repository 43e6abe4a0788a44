package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Kargones/testshard/internal/discovery"
	"github.com/Kargones/testshard/internal/invocation"
	"github.com/Kargones/testshard/internal/partition"
	"github.com/Kargones/testshard/internal/pkg/apperrors"
	"github.com/Kargones/testshard/internal/pkg/output"
)

// Settings — проверенная конфигурация шарда. Создаётся один раз
// и дальше передаётся по значению; пакеты discovery, partition и
// invocation окружение не читают.
type Settings struct {
	ShardIndex int
	ShardCount int
	Pinned     partition.Pinned
	GroupBy    partition.GroupBy
	Role       partition.Role
	Invocation invocation.Options

	Debug        bool
	DryRun       bool
	OutputFormat string

	WorkDir         string
	CollectEncoding string
	GracePeriod     time.Duration

	// Warnings — некритичные замечания, обнаруженные при проверке.
	Warnings []string
}

func invalid(format string, args ...any) error {
	return apperrors.NewAppError(apperrors.ErrConfigInvalid, fmt.Sprintf(format, args...), nil)
}

// requiredInt разбирает обязательное целое; отсутствие и ошибка разбора
// дают разные сообщения.
func requiredInt(name, raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, invalid("не задана обязательная переменная %s", name)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.NewAppError(apperrors.ErrConfigInvalid,
			fmt.Sprintf("некорректное значение %s=%q", name, raw), err)
	}
	return v, nil
}

// Settings проверяет конфигурацию и строит Settings.
// Ошибки имеют код apperrors.ErrConfigInvalid (код выхода 2).
func (c *Config) Settings() (Settings, error) {
	var s Settings
	var err error

	if s.ShardIndex, err = requiredInt("SHARD_INDEX", c.Shard.Index); err != nil {
		return Settings{}, err
	}
	if s.ShardCount, err = requiredInt("SHARD_COUNT", c.Shard.Count); err != nil {
		return Settings{}, err
	}

	s.Pinned.Marker = strings.TrimSpace(c.Shard.GroupMark)
	s.Pinned.Workers = strings.TrimSpace(c.Shard.GroupWorkers)
	if s.Pinned.Active() {
		raw := strings.TrimSpace(c.Shard.GroupShardIndex)
		if raw == "" {
			s.Warnings = append(s.Warnings,
				"GROUP_MARK задан без GROUP_SHARD_INDEX, закреплённая группа выполняется на шарде 0")
		} else if s.Pinned.ShardIndex, err = strconv.Atoi(raw); err != nil {
			return Settings{}, apperrors.NewAppError(apperrors.ErrConfigInvalid,
				fmt.Sprintf("некорректное значение GROUP_SHARD_INDEX=%q", raw), err)
		}
	}

	s.Role, err = partition.ResolveRole(s.ShardIndex, s.ShardCount, s.Pinned)
	if err != nil {
		return Settings{}, apperrors.NewAppError(apperrors.ErrConfigInvalid,
			"некорректная позиция шарда", err)
	}

	s.GroupBy, err = partition.ParseGroupBy(c.Shard.GroupBy)
	if err != nil {
		s.Warnings = append(s.Warnings, fmt.Sprintf("GROUP_BY: %v, используется %s", err, s.GroupBy))
	}

	s.OutputFormat = strings.ToLower(strings.TrimSpace(c.OutputFormat))
	if s.OutputFormat == "" {
		s.OutputFormat = output.FormatText
	}
	if !output.ValidFormat(s.OutputFormat) {
		return Settings{}, invalid("неизвестный формат вывода SHARD_OUTPUT_FORMAT=%q (допустимо: text, json, yaml)", c.OutputFormat)
	}

	s.CollectEncoding = strings.TrimSpace(c.Runner.CollectEncoding)
	if _, err := discovery.NewDecoder(s.CollectEncoding); err != nil {
		return Settings{}, apperrors.NewAppError(apperrors.ErrConfigInvalid,
			"некорректное значение SHARD_COLLECT_ENCODING", err)
	}

	executable := strings.TrimSpace(c.Runner.Executable)
	if executable == "" {
		return Settings{}, invalid("SHARD_RUNNER не может быть пустым")
	}

	s.Invocation = invocation.Options{
		Runner:        executable,
		Workers:       strings.TrimSpace(c.Runner.Xdist),
		PinnedWorkers: s.Pinned.Workers,
		BaseURL:       strings.TrimSpace(c.Runner.BaseURL),
		Browser:       strings.TrimSpace(c.Runner.Browser),
		Marker:        strings.TrimSpace(c.Runner.Marker),
		Headless:      strings.TrimSpace(c.Runner.Headless),
		Reruns:        strings.TrimSpace(c.Runner.Reruns),
		RerunsDelay:   strings.TrimSpace(c.Runner.RerunsDelay),
		ExtraArgs:     strings.TrimSpace(c.Runner.ExtraArgs),
	}

	s.Debug = c.DebugEnabled()
	s.DryRun = invocation.Truthy(c.DryRun)
	s.WorkDir = strings.TrimSpace(c.WorkDir)
	s.GracePeriod = c.Runner.GracePeriod
	return s, nil
}
