//go:build !unix

package runner

import (
	"os"
	"os/exec"
)

// setProcessGroup на платформах без групп процессов ничего не делает.
func setProcessGroup(_ *exec.Cmd) {}

func killProcessGroup(cmd *exec.Cmd, _ os.Signal) error {
	if cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}

func killProcessGroupWithSIGKILL(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}

func terminateSignal() os.Signal {
	return os.Kill
}

func getExitCodeFromError(exitErr *exec.ExitError) (int, bool) {
	if exitErr.ProcessState != nil {
		return exitErr.ProcessState.ExitCode(), true
	}
	return 0, false
}

func getInterruptSignals() []os.Signal {
	return []os.Signal{os.Interrupt}
}
