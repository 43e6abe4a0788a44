package command

import "fmt"

// RunnerFailure — раннер тестов завершился с ненулевым кодом.
// Код раннера становится кодом выхода шарда без изменений.
type RunnerFailure struct {
	Code int
}

// Error реализует интерфейс error.
func (e *RunnerFailure) Error() string {
	return fmt.Sprintf("раннер тестов завершился с кодом %d", e.Code)
}

// ExitCode возвращает код выхода раннера.
func (e *RunnerFailure) ExitCode() int {
	return e.Code
}
