package output

import (
	"io"
	"strings"
)

// Поддерживаемые форматы вывода.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Writer форматирует result и записывает в w.
type Writer interface {
	Write(w io.Writer, result *Result) error
}

// TextRenderer реализуют payload-ы с собственным текстовым представлением.
type TextRenderer interface {
	WriteText(w io.Writer) error
}

// ValidFormat сообщает, поддерживается ли формат (без учёта регистра).
func ValidFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatText, FormatJSON, FormatYAML, "yml":
		return true
	default:
		return false
	}
}

// NewWriter создаёт Writer по формату. Неизвестный формат даёт TextWriter.
func NewWriter(format string) Writer {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatJSON:
		return NewJSONWriter()
	case FormatYAML, "yml":
		return NewYAMLWriter()
	default:
		return NewTextWriter()
	}
}
