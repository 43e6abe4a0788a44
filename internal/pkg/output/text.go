package output

import (
	"encoding/json"
	"fmt"
	"io"
)

const summaryDivider = "══════════════════════════════════════════════════════"

// TextWriter форматирует Result в человекочитаемый текст.
type TextWriter struct{}

// NewTextWriter создаёт новый TextWriter.
func NewTextWriter() *TextWriter {
	return &TextWriter{}
}

// Write форматирует result в текст и записывает в w.
func (t *TextWriter) Write(w io.Writer, result *Result) error {
	if result == nil {
		return nil
	}

	header := result.Status
	if result.DryRun {
		header += " (dry-run)"
	}
	if _, err := fmt.Fprintf(w, "%s: %s\n", result.Command, header); err != nil {
		return err
	}

	if result.Error != nil {
		if _, err := fmt.Fprintf(w, "Ошибка [%s]: %s\n", result.Error.Code, result.Error.Message); err != nil {
			return err
		}
	}

	if err := writeData(w, result.Data); err != nil {
		return err
	}

	return t.writeSummary(w, result)
}

func writeData(w io.Writer, data any) error {
	if data == nil {
		return nil
	}
	if r, ok := data.(TextRenderer); ok {
		return r.WriteText(w)
	}
	dataJSON, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("не удалось сериализовать Data: %w", err)
	}
	_, err = fmt.Fprintf(w, "Data: %s\n", dataJSON)
	return err
}

// writeSummary выводит время выполнения и предупреждения.
func (t *TextWriter) writeSummary(w io.Writer, result *Result) error {
	hasDuration := result.Metadata != nil && result.Metadata.DurationMs > 0
	if !hasDuration && len(result.Warnings) == 0 {
		return nil
	}

	if _, err := fmt.Fprintf(w, "\n%s\n", summaryDivider); err != nil {
		return err
	}
	if hasDuration {
		if _, err := fmt.Fprintf(w, "⏱️  Время выполнения: %s\n", formatDuration(result.Metadata.DurationMs)); err != nil {
			return err
		}
	}
	if len(result.Warnings) > 0 {
		if _, err := fmt.Fprintf(w, "⚠️  Предупреждений: %d\n", len(result.Warnings)); err != nil {
			return err
		}
		for _, warn := range result.Warnings {
			if _, err := fmt.Fprintf(w, "   • %s\n", warn); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintf(w, "%s\n", summaryDivider)
	return err
}

// formatDuration форматирует миллисекунды: "150мс", "2.5с", "3м 5с".
func formatDuration(ms int64) string {
	if ms < 1000 {
		return fmt.Sprintf("%dмс", ms)
	}
	sec := ms / 1000
	if sec < 60 {
		return fmt.Sprintf("%.1fс", float64(ms)/1000)
	}
	return fmt.Sprintf("%dм %dс", sec/60, sec%60)
}
