package shardrun

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kargones/testshard/internal/command"
	"github.com/Kargones/testshard/internal/config"
	"github.com/Kargones/testshard/internal/constants"
	"github.com/Kargones/testshard/internal/pkg/apperrors"
	"github.com/Kargones/testshard/internal/pkg/metrics"
	"github.com/Kargones/testshard/internal/util/runner"
)

const collectOutput = `tests/login/test_login.py::test_valid
tests/checkout/test_cart.py::TestCart::test_add
tests/menu/test_menu.py::test_logout

3 tests collected in 0.01s
`

type fakeExecutor struct {
	collect  *runner.Result
	run      *runner.Result
	runErr   error
	runCalls [][]string
}

func (f *fakeExecutor) Output(_ context.Context, _ []string) (*runner.Result, error) {
	return f.collect, nil
}

func (f *fakeExecutor) Run(_ context.Context, argv []string) (*runner.Result, error) {
	f.runCalls = append(f.runCalls, argv)
	return f.run, f.runErr
}

type runRecorder struct {
	metrics.NopCollector
	shard    metrics.Shard
	exitCode int
	calls    int
}

func (r *runRecorder) RecordRun(s metrics.Shard, _ time.Duration, exitCode int) {
	r.shard = s
	r.exitCode = exitCode
	r.calls++
}

func baseConfig(index, count string) *config.Config {
	return &config.Config{
		OutputFormat: "text",
		Shard: config.ShardConfig{
			Index:   index,
			Count:   count,
			GroupBy: "module",
		},
		Runner: config.RunnerConfig{
			Executable:      "pytest",
			CollectEncoding: "utf-8",
			Marker:          "regression",
			Reruns:          "1",
		},
	}
}

func newEnv(cfg *config.Config, exec *fakeExecutor, m metrics.Collector) (*command.Env, *bytes.Buffer) {
	var stdout bytes.Buffer
	return &command.Env{
		Config:  cfg,
		Metrics: m,
		NewExecutor: func(config.Settings) command.Executor {
			return exec
		},
		Stdout:  &stdout,
		TraceID: "trace",
	}, &stdout
}

func TestHandler_Registered(t *testing.T) {
	h, ok := command.Get(constants.ActShardRun)
	require.True(t, ok)
	assert.IsType(t, &Handler{}, h)
}

func TestExecute_RunsAssignedTests(t *testing.T) {
	exec := &fakeExecutor{
		collect: &runner.Result{Stdout: []byte(collectOutput)},
		run:     &runner.Result{ExitCode: 0, Duration: time.Second},
	}
	rec := &runRecorder{}
	env, stdout := newEnv(baseConfig("1", "2"), exec, rec)

	require.NoError(t, (&Handler{}).Execute(context.Background(), env))

	require.Len(t, exec.runCalls, 1)
	assert.Equal(t, []string{
		"pytest", "-q", "-m", "regression", "--reruns", "1",
		"tests/checkout/test_cart.py::TestCart::test_add",
	}, exec.runCalls[0])
	assert.Contains(t, stdout.String(), "Запуск: pytest -q -m regression")
	assert.Equal(t, 1, rec.calls)
	assert.Equal(t, metrics.Shard{Index: 1, Count: 2, Role: metrics.RoleRegular}, rec.shard)
}

func TestExecute_PropagatesRunnerExitCode(t *testing.T) {
	exec := &fakeExecutor{
		collect: &runner.Result{Stdout: []byte(collectOutput)},
		run:     &runner.Result{ExitCode: 1},
	}
	rec := &runRecorder{}
	env, _ := newEnv(baseConfig("0", "1"), exec, rec)

	err := (&Handler{}).Execute(context.Background(), env)
	require.Error(t, err)

	var failure *command.RunnerFailure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, 1, apperrors.ExitCode(err))
	assert.Equal(t, 1, rec.exitCode)
}

func TestExecute_SignalExitCode(t *testing.T) {
	exec := &fakeExecutor{
		collect: &runner.Result{Stdout: []byte(collectOutput)},
		run:     &runner.Result{ExitCode: 143},
	}
	env, _ := newEnv(baseConfig("0", "1"), exec, nil)

	err := (&Handler{}).Execute(context.Background(), env)
	assert.Equal(t, 143, apperrors.ExitCode(err))
}

func TestExecute_EmptyShardSkipsRunner(t *testing.T) {
	exec := &fakeExecutor{
		collect: &runner.Result{Stdout: []byte("tests/test_one.py::test_one\n")},
	}
	env, _ := newEnv(baseConfig("1", "2"), exec, nil)

	require.NoError(t, (&Handler{}).Execute(context.Background(), env))
	assert.Empty(t, exec.runCalls)
}

func TestExecute_NoTestsCollected(t *testing.T) {
	exec := &fakeExecutor{
		collect: &runner.Result{Stdout: []byte("no tests ran in 0.01s\n"), ExitCode: 5},
	}
	env, stdout := newEnv(baseConfig("0", "2"), exec, nil)

	require.NoError(t, (&Handler{}).Execute(context.Background(), env))
	assert.Empty(t, exec.runCalls)
	assert.Contains(t, stdout.String(), "no tests ran in 0.01s")
}

func TestExecute_CollectionFailure(t *testing.T) {
	exec := &fakeExecutor{
		collect: &runner.Result{Stdout: []byte("ERROR: file or directory not found: tests\n"), ExitCode: 4},
	}
	env, _ := newEnv(baseConfig("0", "2"), exec, nil)

	err := (&Handler{}).Execute(context.Background(), env)
	require.Error(t, err)
	assert.Equal(t, 4, apperrors.ExitCode(err))
	assert.Empty(t, exec.runCalls)
}

func TestExecute_ConfigError(t *testing.T) {
	exec := &fakeExecutor{}
	env, _ := newEnv(baseConfig("", "2"), exec, nil)

	err := (&Handler{}).Execute(context.Background(), env)
	require.Error(t, err)
	assert.Equal(t, constants.ExitConfig, apperrors.ExitCode(err))
	assert.Empty(t, exec.runCalls)
}

func TestExecute_RunnerStartFailure(t *testing.T) {
	exec := &fakeExecutor{
		collect: &runner.Result{Stdout: []byte(collectOutput)},
		runErr:  apperrors.NewAppError(apperrors.ErrRunnerStart, "не удалось запустить", errors.New("exec: not found")),
	}
	env, _ := newEnv(baseConfig("0", "1"), exec, nil)

	err := (&Handler{}).Execute(context.Background(), env)
	assert.Equal(t, constants.ExitStartFailed, apperrors.ExitCode(err))
}

func TestExecute_DryRunJSON(t *testing.T) {
	exec := &fakeExecutor{
		collect: &runner.Result{Stdout: []byte(collectOutput)},
	}
	cfg := baseConfig("0", "2")
	cfg.DryRun = "true"
	cfg.OutputFormat = "json"
	env, stdout := newEnv(cfg, exec, nil)

	require.NoError(t, (&Handler{}).Execute(context.Background(), env))
	assert.Empty(t, exec.runCalls)

	var result struct {
		Command string `json:"command"`
		DryRun  bool   `json:"dry_run"`
		Data    struct {
			Tests     []string `json:"tests"`
			Collected int      `json:"collected"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &result), stdout.String())
	assert.Equal(t, constants.ActShardRun, result.Command)
	assert.True(t, result.DryRun)
	assert.Equal(t, 3, result.Data.Collected)
	assert.Equal(t, []string{
		"tests/login/test_login.py::test_valid",
		"tests/menu/test_menu.py::test_logout",
	}, result.Data.Tests)
}
