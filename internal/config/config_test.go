package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kargones/testshard/internal/constants"
	"github.com/Kargones/testshard/internal/partition"
	"github.com/Kargones/testshard/internal/pkg/apperrors"
	"github.com/Kargones/testshard/internal/pkg/logging"
)

var knownKeys = []string{
	"SHARD_COMMAND", "SHARD_DRY_RUN", "SHARD_OUTPUT_FORMAT", "SHARD_DEBUG", "SHARD_WORKDIR",
	"SHARD_INDEX", "SHARD_COUNT", "GROUP_MARK", "GROUP_SHARD_INDEX", "GROUP_WORKERS", "GROUP_BY",
	"SHARD_RUNNER", "SHARD_COLLECT_ENCODING", "SHARD_GRACE_PERIOD",
	"XDIST", "BASE_URL", "BROWSER", "MARKER", "HEADLESS", "RERUNS", "RERUNS_DELAY", "EXTRA_ARGS",
	"SHARD_LOG_LEVEL", "SHARD_LOG_FORMAT", "SHARD_LOG_OUTPUT", "SHARD_LOG_FILE_PATH",
	"SHARD_METRICS_ENABLED", "SHARD_METRICS_PUSHGATEWAY_URL", "SHARD_TRACING_ENABLED", "SHARD_TRACING_ENDPOINT",
	constants.EnvConfigFile,
}

// clearEnv убирает все известные переменные на время теста.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range knownKeys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func setEnv(t *testing.T, kv map[string]string) {
	t.Helper()
	for k, v := range kv {
		t.Setenv(k, v)
	}
}

func loadSettings(t *testing.T) (Settings, error) {
	t.Helper()
	cfg, err := Load()
	require.NoError(t, err)
	return cfg.Settings()
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, constants.ActShardRun, cfg.Command)
	assert.Equal(t, "text", cfg.OutputFormat)
	assert.Equal(t, "pytest", cfg.Runner.Executable)
	assert.Equal(t, "auto", cfg.Runner.Xdist)
	assert.Equal(t, "https://www.saucedemo.com", cfg.Runner.BaseURL)
	assert.Equal(t, "regression", cfg.Runner.Marker)
	assert.Equal(t, "1", cfg.Runner.Reruns)
	assert.Equal(t, "1", cfg.Runner.RerunsDelay)
	assert.Equal(t, "--alluredir allure-results", cfg.Runner.ExtraArgs)
	assert.Equal(t, "module", cfg.Shard.GroupBy)
	assert.Equal(t, "windows-1251", cfg.Runner.CollectEncoding)
	assert.Equal(t, 10*time.Second, cfg.Runner.GracePeriod)
	assert.Equal(t, "false", cfg.DryRun)
	assert.False(t, cfg.DebugEnabled())
}

func TestLoad_EmptyValueDisablesDefault(t *testing.T) {
	clearEnv(t)
	setEnv(t, map[string]string{"MARKER": "", "XDIST": ""})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.Runner.Marker)
	assert.Empty(t, cfg.Runner.Xdist)
}

func TestLoad_FromFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "shard.yaml")
	content := `
outputFormat: json
shard:
  index: "2"
  count: "4"
  groupMark: serial
  groupShardIndex: "3"
  groupBy: class
runner:
  executable: /opt/venv/bin/pytest
  marker: smoke
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv(constants.EnvConfigFile, path)
	t.Setenv("GROUP_WORKERS", "2")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, "2", cfg.Shard.Index)
	assert.Equal(t, "serial", cfg.Shard.GroupMark)
	assert.Equal(t, "class", cfg.Shard.GroupBy)
	assert.Equal(t, "/opt/venv/bin/pytest", cfg.Runner.Executable)
	assert.Equal(t, "smoke", cfg.Runner.Marker)
	assert.Equal(t, "2", cfg.Shard.GroupWorkers, "переменная окружения дополняет файл")
	assert.Equal(t, "auto", cfg.Runner.Xdist, "незаданное значение получает default")
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(constants.EnvConfigFile, filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := Load()
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrConfigLoad))
	assert.Equal(t, constants.ExitConfig, apperrors.ExitCode(err))
}

func TestSettings_Regular(t *testing.T) {
	clearEnv(t)
	setEnv(t, map[string]string{
		"SHARD_INDEX":   " 1 ",
		"SHARD_COUNT":   "3",
		"BROWSER":       "firefox",
		"HEADLESS":      "true",
		"SHARD_DEBUG":   "1",
		"SHARD_WORKDIR": "/srv/tests",
	})

	s, err := loadSettings(t)
	require.NoError(t, err)

	assert.Equal(t, 1, s.ShardIndex)
	assert.Equal(t, 3, s.ShardCount)
	assert.False(t, s.Pinned.Active())
	assert.Equal(t, partition.Role{ShardIndex: 1, ShardCount: 3, Slot: 1, Slots: 3}, s.Role)
	assert.Equal(t, partition.GroupByModule, s.GroupBy)
	assert.True(t, s.Debug)
	assert.Equal(t, "/srv/tests", s.WorkDir)
	assert.Equal(t, "pytest", s.Invocation.Runner)
	assert.Equal(t, "auto", s.Invocation.Workers)
	assert.Equal(t, "firefox", s.Invocation.Browser)
	assert.Equal(t, "true", s.Invocation.Headless)
	assert.Equal(t, "regression", s.Invocation.Marker)
	assert.Equal(t, "text", s.OutputFormat)
	assert.Empty(t, s.Warnings)
}

func TestSettings_DryRun(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"", false},
		{"false", false},
		{"0", false},
		{"true", true},
		{"YES", true},
		{"1", true},
	}
	for _, tt := range tests {
		t.Run("SHARD_DRY_RUN="+tt.value, func(t *testing.T) {
			clearEnv(t)
			setEnv(t, map[string]string{"SHARD_INDEX": "0", "SHARD_COUNT": "1", "SHARD_DRY_RUN": tt.value})

			s, err := loadSettings(t)
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.DryRun)
		})
	}
}

func TestSettings_Pinned(t *testing.T) {
	clearEnv(t)
	setEnv(t, map[string]string{
		"SHARD_INDEX":       "2",
		"SHARD_COUNT":       "3",
		"GROUP_MARK":        "serial",
		"GROUP_SHARD_INDEX": "0",
		"GROUP_WORKERS":     "2",
	})

	s, err := loadSettings(t)
	require.NoError(t, err)
	assert.Equal(t, partition.Pinned{Marker: "serial", ShardIndex: 0, Workers: "2"}, s.Pinned)
	assert.False(t, s.Role.Pinned)
	assert.Equal(t, 1, s.Role.Slot)
	assert.Equal(t, 2, s.Role.Slots)
	assert.Equal(t, "not serial", s.Role.Filter)
	assert.Equal(t, "2", s.Invocation.PinnedWorkers)
}

func TestSettings_PinnedIndexDefaultsToZero(t *testing.T) {
	clearEnv(t)
	setEnv(t, map[string]string{
		"SHARD_INDEX": "0",
		"SHARD_COUNT": "2",
		"GROUP_MARK":  "serial",
	})

	s, err := loadSettings(t)
	require.NoError(t, err)
	assert.True(t, s.Role.Pinned)
	assert.Equal(t, "serial", s.Role.Filter)
	require.Len(t, s.Warnings, 1)
	assert.Contains(t, s.Warnings[0], "GROUP_SHARD_INDEX")
}

func TestSettings_UnknownGroupByFallsBack(t *testing.T) {
	clearEnv(t)
	setEnv(t, map[string]string{
		"SHARD_INDEX": "0",
		"SHARD_COUNT": "1",
		"GROUP_BY":    "package",
	})

	s, err := loadSettings(t)
	require.NoError(t, err)
	assert.Equal(t, partition.GroupByModule, s.GroupBy)
	require.Len(t, s.Warnings, 1)
	assert.Contains(t, s.Warnings[0], "GROUP_BY")
}

func TestSettings_Errors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		message string
	}{
		{
			name:    "нет SHARD_INDEX",
			env:     map[string]string{"SHARD_COUNT": "2"},
			message: "не задана обязательная переменная SHARD_INDEX",
		},
		{
			name:    "пустой SHARD_COUNT",
			env:     map[string]string{"SHARD_INDEX": "0", "SHARD_COUNT": "  "},
			message: "не задана обязательная переменная SHARD_COUNT",
		},
		{
			name:    "нечисловой SHARD_INDEX",
			env:     map[string]string{"SHARD_INDEX": "first", "SHARD_COUNT": "2"},
			message: "некорректное значение SHARD_INDEX",
		},
		{
			name:    "нечисловой SHARD_COUNT",
			env:     map[string]string{"SHARD_INDEX": "0", "SHARD_COUNT": "2.5"},
			message: "некорректное значение SHARD_COUNT",
		},
		{
			name:    "индекс вне диапазона",
			env:     map[string]string{"SHARD_INDEX": "3", "SHARD_COUNT": "3"},
			message: "некорректная позиция шарда",
		},
		{
			name:    "нулевое количество",
			env:     map[string]string{"SHARD_INDEX": "0", "SHARD_COUNT": "0"},
			message: "некорректная позиция шарда",
		},
		{
			name: "нечисловой GROUP_SHARD_INDEX",
			env: map[string]string{"SHARD_INDEX": "0", "SHARD_COUNT": "2",
				"GROUP_MARK": "serial", "GROUP_SHARD_INDEX": "last"},
			message: "некорректное значение GROUP_SHARD_INDEX",
		},
		{
			name: "закреплённый шард вне диапазона",
			env: map[string]string{"SHARD_INDEX": "0", "SHARD_COUNT": "2",
				"GROUP_MARK": "serial", "GROUP_SHARD_INDEX": "5"},
			message: "некорректная позиция шарда",
		},
		{
			name: "единственный шард закреплён",
			env: map[string]string{"SHARD_INDEX": "0", "SHARD_COUNT": "1",
				"GROUP_MARK": "serial", "GROUP_SHARD_INDEX": "0"},
			message: "некорректная позиция шарда",
		},
		{
			name:    "неизвестный формат вывода",
			env:     map[string]string{"SHARD_INDEX": "0", "SHARD_COUNT": "1", "SHARD_OUTPUT_FORMAT": "xml"},
			message: "неизвестный формат вывода",
		},
		{
			name:    "неизвестная кодировка",
			env:     map[string]string{"SHARD_INDEX": "0", "SHARD_COUNT": "1", "SHARD_COLLECT_ENCODING": "klingon-8"},
			message: "SHARD_COLLECT_ENCODING",
		},
		{
			name:    "пустой раннер",
			env:     map[string]string{"SHARD_INDEX": "0", "SHARD_COUNT": "1", "SHARD_RUNNER": ""},
			message: "SHARD_RUNNER",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			setEnv(t, tt.env)

			_, err := loadSettings(t)
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, apperrors.ErrConfigInvalid))
			assert.Equal(t, constants.ExitConfig, apperrors.ExitCode(err))
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestLoggingSettings_DebugForcesLevel(t *testing.T) {
	cfg := &Config{Debug: "1", Logging: LoggingConfig{Level: "warn"}}
	assert.Equal(t, logging.LevelDebug, cfg.LoggingSettings().Level)

	cfg.Debug = "true"
	assert.Equal(t, "warn", cfg.LoggingSettings().Level)
}

func TestTracingSettings_CarriesVersion(t *testing.T) {
	cfg := &Config{Tracing: TracingConfig{Enabled: true, Endpoint: "http://otel:4318"}}
	tc := cfg.TracingSettings()
	assert.Equal(t, constants.Version, tc.Version)
	assert.True(t, tc.Enabled)
}

func TestUsage_ListsVariables(t *testing.T) {
	usage := Usage()
	for _, name := range []string{"SHARD_INDEX", "SHARD_COUNT", "GROUP_MARK", "EXTRA_ARGS"} {
		assert.Contains(t, usage, name)
	}
}
