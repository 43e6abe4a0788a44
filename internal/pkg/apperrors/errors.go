// Package apperrors предоставляет структурированные ошибки приложения
// и отображение ошибок на коды выхода процесса.
// Переименован из errors чтобы избежать конфликта со стандартной библиотекой.
package apperrors

import (
	"errors"
	"fmt"

	"github.com/Kargones/testshard/internal/constants"
)

// Коды ошибок в иерархическом формате: CATEGORY.SPECIFIC_ERROR.
// Позволяет grep по категориям: `grep "CONFIG\."` для всех config ошибок.
const (
	// Category: CONFIG — ошибки загрузки и проверки конфигурации.
	ErrConfigLoad    = "CONFIG.LOAD_FAILED"
	ErrConfigInvalid = "CONFIG.INVALID"

	// Category: COMMAND — ошибки выбора команды.
	ErrCommandNotFound = "COMMAND.NOT_FOUND"

	// Category: COLLECTION — ошибки сбора тестов.
	ErrCollection = "COLLECTION.FAILED"

	// Category: RUNNER — ошибки запуска процессов.
	ErrRunnerStart = "RUNNER.START_FAILED"

	// Category: OUTPUT — ошибки форматирования вывода.
	ErrOutputFormat = "OUTPUT.FORMAT_FAILED"
)

// AppError представляет структурированную ошибку приложения.
// Реализует error interface и поддерживает wrapping через Unwrap().
//
// Пример использования:
//
//	return apperrors.NewAppError(apperrors.ErrConfigInvalid,
//	    "SHARD_COUNT должен быть положительным целым",
//	    err)
type AppError struct {
	// Code — машиночитаемый код ошибки в формате CATEGORY.SPECIFIC.
	Code string `json:"code"`

	// Message — человекочитаемое описание ошибки.
	Message string `json:"message"`

	// Cause — wrapped оригинальная ошибка. Не сериализуется.
	Cause error `json:"-"`
}

// Error реализует интерфейс error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap возвращает wrapped ошибку для errors.Is/As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// ExitCode возвращает код выхода процесса для категории ошибки.
func (e *AppError) ExitCode() int {
	switch e.Code {
	case ErrConfigLoad, ErrConfigInvalid, ErrCommandNotFound:
		return constants.ExitConfig
	case ErrRunnerStart:
		return constants.ExitStartFailed
	default:
		return constants.ExitFailure
	}
}

// NewAppError создаёт новый AppError с заданным кодом, сообщением и причиной.
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// ExitCoder реализуют ошибки, которые несут собственный код выхода процесса:
// ошибка сбора тестов и ненулевой код раннера.
type ExitCoder interface {
	ExitCode() int
}

// ExitCode возвращает код выхода процесса для err.
// nil → 0. Ближайшая в цепочке ошибка с ExitCode() определяет результат,
// иначе 1.
func ExitCode(err error) int {
	if err == nil {
		return constants.ExitOK
	}
	var coder ExitCoder
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	return constants.ExitFailure
}

// HasCode проверяет, есть ли в цепочке err AppError с кодом code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	for err != nil {
		if !errors.As(err, &appErr) {
			return false
		}
		if appErr.Code == code {
			return true
		}
		err = appErr.Cause
	}
	return false
}
