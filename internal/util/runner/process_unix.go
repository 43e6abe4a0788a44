//go:build unix

package runner

import (
	"os"
	"os/exec"
	"syscall"
)

// setProcessGroup запускает команду в собственной группе процессов.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// killProcessGroup отправляет сигнал всей группе.
// При Setpgid идентификатор группы совпадает с PID лидера.
func killProcessGroup(cmd *exec.Cmd, sig os.Signal) error {
	if cmd.Process == nil {
		return nil
	}
	sigVal, ok := sig.(syscall.Signal)
	if !ok {
		return cmd.Process.Signal(sig)
	}
	if err := syscall.Kill(-cmd.Process.Pid, sigVal); err != nil {
		return cmd.Process.Signal(sig)
	}
	return nil
}

// killProcessGroupWithSIGKILL отправляет SIGKILL всей группе.
func killProcessGroupWithSIGKILL(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
}

func terminateSignal() os.Signal {
	return syscall.SIGTERM
}

// getExitCodeFromError извлекает код выхода из WaitStatus.
func getExitCodeFromError(exitErr *exec.ExitError) (int, bool) {
	ws, ok := exitErr.Sys().(syscall.WaitStatus)
	if !ok {
		return 0, false
	}
	if ws.Signaled() {
		return 128 + int(ws.Signal()), true
	}
	return ws.ExitStatus(), true
}

func getInterruptSignals() []os.Signal {
	return []os.Signal{syscall.SIGINT, syscall.SIGTERM}
}
