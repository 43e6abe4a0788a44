// Package runner запускает внешние процессы: сбор тестов и сам тестовый раннер.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/Kargones/testshard/internal/constants"
	"github.com/Kargones/testshard/internal/pkg/apperrors"
	"github.com/Kargones/testshard/internal/pkg/logging"
	"github.com/Kargones/testshard/internal/pkg/urlutil"
)

const maxConsoleOut = 2048

// DefaultGracePeriod — время между SIGTERM и SIGKILL при отмене контекста.
const DefaultGracePeriod = 10 * time.Second

// Result — итог выполнения процесса.
type Result struct {
	// Stdout и Stderr заполняются только в Output.
	Stdout []byte
	Stderr []byte

	ExitCode int
	Duration time.Duration
}

// Combined возвращает stdout и stderr одной строкой.
func (r *Result) Combined() string {
	if len(r.Stderr) == 0 {
		return string(r.Stdout)
	}
	if len(r.Stdout) == 0 {
		return string(r.Stderr)
	}
	return string(r.Stdout) + "\n" + string(r.Stderr)
}

// Runner запускает процессы в рабочем каталоге WorkDir.
// Дочерний процесс получает собственную группу процессов, и при отмене
// контекста сигнал получает вся группа (воркеры раннера в том числе).
type Runner struct {
	WorkDir string

	// Env — дополнительные переменные окружения "KEY=VALUE" поверх os.Environ().
	Env []string

	// Stdout и Stderr — потоки для Run. По умолчанию os.Stdout и os.Stderr.
	Stdout io.Writer
	Stderr io.Writer

	GracePeriod time.Duration

	logger logging.Logger
}

// New создаёт Runner с потоками текущего процесса.
func New(workDir string, logger logging.Logger) *Runner {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Runner{
		WorkDir:     workDir,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		GracePeriod: DefaultGracePeriod,
		logger:      logger,
	}
}

// Output выполняет argv и возвращает захваченный вывод.
// Ошибка возвращается только если процесс не удалось запустить;
// ненулевой код выхода передаётся через Result.ExitCode.
func (r *Runner) Output(ctx context.Context, argv []string) (*Result, error) {
	var stdout, stderr bytes.Buffer
	res, err := r.execute(ctx, argv, &stdout, &stderr)
	if err != nil {
		return res, err
	}
	res.Stdout = stdout.Bytes()
	res.Stderr = stderr.Bytes()

	r.logger.Debug("Вывод процесса",
		"exit_code", res.ExitCode,
		"stdout", TrimOut(res.Stdout),
		"stderr", TrimOut(res.Stderr),
	)
	return res, nil
}

// Run выполняет argv с потоками Stdout/Stderr и блокируется до завершения.
func (r *Runner) Run(ctx context.Context, argv []string) (*Result, error) {
	stdout, stderr := r.Stdout, r.Stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return r.execute(ctx, argv, stdout, stderr)
}

func (r *Runner) execute(ctx context.Context, argv []string, stdout, stderr io.Writer) (*Result, error) {
	if len(argv) == 0 || argv[0] == "" {
		return &Result{ExitCode: constants.ExitStartFailed},
			apperrors.NewAppError(apperrors.ErrRunnerStart, "не указан исполняемый файл", nil)
	}

	r.logger.Info("Параметры запуска",
		"executable", argv[0],
		"workdir", r.WorkDir,
		"args", MaskArgs(argv[1:]),
	)

	// #nosec G204 - argv собирается из конфигурации, оболочка не используется
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = r.WorkDir
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if len(r.Env) > 0 {
		cmd.Env = appendEnviron(r.Env...)
	}
	setProcessGroup(cmd)
	cmd.Cancel = func() error {
		r.logger.Warn("Контекст отменён, завершение группы процессов", "pid", cmd.Process.Pid)
		return killProcessGroup(cmd, terminateSignal())
	}
	cmd.WaitDelay = r.gracePeriod()

	start := time.Now()
	if err := cmd.Start(); err != nil {
		r.logger.Error("Ошибка при запуске", "executable", argv[0], "error", err.Error())
		return &Result{ExitCode: constants.ExitStartFailed},
			apperrors.NewAppError(apperrors.ErrRunnerStart,
				fmt.Sprintf("не удалось запустить %s", argv[0]), err)
	}

	waitErr := cmd.Wait()
	// Воркеры могли пережить лидера группы.
	if ctx.Err() != nil {
		_ = killProcessGroupWithSIGKILL(cmd)
	}

	res := &Result{
		ExitCode: exitCode(cmd, waitErr),
		Duration: time.Since(start),
	}
	r.logger.Debug("Процесс завершён",
		"executable", argv[0],
		"exit_code", res.ExitCode,
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

func (r *Runner) gracePeriod() time.Duration {
	if r.GracePeriod <= 0 {
		return DefaultGracePeriod
	}
	return r.GracePeriod
}

// exitCode вычисляет код выхода. Завершение по сигналу даёт 128+номер сигнала.
func exitCode(cmd *exec.Cmd, waitErr error) int {
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		if code, ok := getExitCodeFromError(exitErr); ok {
			return code
		}
		return exitErr.ExitCode()
	}
	if cmd.ProcessState != nil {
		if code := cmd.ProcessState.ExitCode(); code >= 0 {
			return code
		}
	}
	if waitErr != nil {
		return constants.ExitFailure
	}
	return constants.ExitOK
}

// InterruptSignals возвращает сигналы, по которым отменяется корневой контекст.
func InterruptSignals() []os.Signal {
	return getInterruptSignals()
}

// MaskArgs маскирует учётные данные в URL-аргументах для логирования.
func MaskArgs(args []string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = urlutil.MaskUserinfo(a)
	}
	return out
}

// CommandLine склеивает argv для вывода пользователю.
func CommandLine(argv []string) string {
	return strings.Join(MaskArgs(argv), " ")
}

func appendEnviron(kv ...string) []string {
	env := os.Environ()
	for _, newVar := range kv {
		eqIndex := strings.Index(newVar, "=")
		if eqIndex == -1 {
			continue
		}
		key := newVar[:eqIndex]
		found := false
		for i, v := range env {
			if strings.HasPrefix(v, key+"=") {
				env[i] = newVar
				found = true
				break
			}
		}
		if !found {
			env = append(env, newVar)
		}
	}
	return env
}

// TrimOut обрезает вывод команды.
func TrimOut(b []byte) string {
	if len(b) < maxConsoleOut {
		return string(b)
	}
	return string(b[:1020]) + "\n********\n" + string(b[len(b)-1020:])
}
