package discovery

import (
	"fmt"
	"strings"

	"github.com/Kargones/testshard/internal/pkg/apperrors"
)

// CollectionError — коллектор завершился с ненулевым кодом.
// Код выхода коллектора становится кодом выхода шарда.
type CollectionError struct {
	Code   int
	Output string
	Args   []string
}

// Error реализует интерфейс error.
func (e *CollectionError) Error() string {
	return fmt.Sprintf("сбор тестов (%s) завершился с кодом %d", strings.Join(e.Args, " "), e.Code)
}

// ExitCode возвращает код выхода коллектора.
func (e *CollectionError) ExitCode() int {
	return e.Code
}

// Unwrap позволяет находить ошибку по коду apperrors.ErrCollection.
func (e *CollectionError) Unwrap() error {
	return apperrors.NewAppError(apperrors.ErrCollection,
		fmt.Sprintf("коллектор вернул код %d", e.Code), nil)
}
