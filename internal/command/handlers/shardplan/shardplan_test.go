package shardplan

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Kargones/testshard/internal/command"
	"github.com/Kargones/testshard/internal/config"
	"github.com/Kargones/testshard/internal/constants"
	"github.com/Kargones/testshard/internal/util/runner"
)

type collectOnly struct {
	stdout  string
	runUsed bool
}

func (c *collectOnly) Output(context.Context, []string) (*runner.Result, error) {
	return &runner.Result{Stdout: []byte(c.stdout)}, nil
}

func (c *collectOnly) Run(context.Context, []string) (*runner.Result, error) {
	c.runUsed = true
	return &runner.Result{}, nil
}

func planConfig(format string) *config.Config {
	return &config.Config{
		OutputFormat: format,
		Shard: config.ShardConfig{
			Index:           "0",
			Count:           "2",
			GroupMark:       "serial",
			GroupShardIndex: "0",
			GroupWorkers:    "2",
		},
		Runner: config.RunnerConfig{
			Executable:      "pytest",
			CollectEncoding: "utf-8",
			Xdist:           "auto",
			Marker:          "regression",
		},
	}
}

func execute(t *testing.T, cfg *config.Config, exec *collectOnly) string {
	t.Helper()
	var stdout bytes.Buffer
	env := &command.Env{
		Config:      cfg,
		NewExecutor: func(config.Settings) command.Executor { return exec },
		Stdout:      &stdout,
	}
	require.NoError(t, (&Handler{}).Execute(context.Background(), env))
	return stdout.String()
}

func TestHandler_Registered(t *testing.T) {
	_, ok := command.Get(constants.ActShardPlan)
	assert.True(t, ok)
}

func TestExecute_Text(t *testing.T) {
	exec := &collectOnly{stdout: "tests/test_serial.py::test_a\ntests/test_serial.py::test_b\n"}
	out := execute(t, planConfig("text"), exec)

	assert.False(t, exec.runUsed)
	assert.Contains(t, out, "shard-plan: success")
	assert.Contains(t, out, "Шард 0/2 (закреплённый)")
	assert.Contains(t, out, "Фильтр сбора: serial")
	assert.Contains(t, out, "Тесты: 2 из 2")
	assert.Contains(t, out, "Команда: pytest -q -n 2 --dist loadgroup")
}

func TestExecute_YAMLWithoutDiagnostics(t *testing.T) {
	exec := &collectOnly{stdout: "tests/test_serial.py::test_a\n"}
	out := execute(t, planConfig("yaml"), exec)

	var result struct {
		Command string `yaml:"command"`
		Data    struct {
			Pinned bool     `yaml:"pinned"`
			Tests  []string `yaml:"tests"`
			Args   []string `yaml:"args"`
		} `yaml:"data"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &result), out)
	assert.Equal(t, constants.ActShardPlan, result.Command)
	assert.True(t, result.Data.Pinned)
	assert.Equal(t, []string{"tests/test_serial.py::test_a"}, result.Data.Tests)
	assert.NotContains(t, out, "Собрано тестов")
}

func TestExecute_EmptyPlan(t *testing.T) {
	exec := &collectOnly{stdout: ""}
	out := execute(t, planConfig("text"), exec)

	assert.Contains(t, out, "Тесты: 0 из 0")
	assert.NotContains(t, out, "Команда:")
}
