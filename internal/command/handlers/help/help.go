// Package help реализует команду help: список команд и переменных окружения.
package help

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Kargones/testshard/internal/command"
	"github.com/Kargones/testshard/internal/config"
	"github.com/Kargones/testshard/internal/constants"
	"github.com/Kargones/testshard/internal/pkg/output"
)

func init() {
	command.Register(&Handler{})
}

// CommandInfo описывает одну команду.
type CommandInfo struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// Data содержит список команд и описание переменных окружения.
type Data struct {
	Commands    []CommandInfo `json:"commands" yaml:"commands"`
	Environment string        `json:"environment" yaml:"environment"`
}

// WriteText выводит справку в человекочитаемом виде.
func (d *Data) WriteText(w io.Writer) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s — сбор, разбиение и запуск тестов одного шарда\n", constants.AppName)
	fmt.Fprintf(&sb, "\nИспользование: %s [команда]\n\nКоманды:\n", constants.AppName)

	maxLen := 0
	for _, c := range d.Commands {
		maxLen = max(maxLen, len(c.Name))
	}
	for _, c := range d.Commands {
		fmt.Fprintf(&sb, "  %-*s  %s\n", maxLen, c.Name, c.Description)
	}

	if d.Environment != "" {
		sb.WriteString("\n")
		sb.WriteString(strings.TrimRight(d.Environment, "\n"))
		sb.WriteString("\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func buildData() *Data {
	handlers := command.All()
	data := &Data{
		Commands:    make([]CommandInfo, 0, len(handlers)),
		Environment: config.Usage(),
	}
	for _, h := range handlers {
		data.Commands = append(data.Commands, CommandInfo{
			Name:        h.Name(),
			Description: h.Description(),
		})
	}
	return data
}

// Handler обрабатывает команду help.
type Handler struct{}

// Name возвращает имя команды.
func (h *Handler) Name() string {
	return constants.ActHelp
}

// Description возвращает описание команды для вывода в help.
func (h *Handler) Description() string {
	return "Список команд и переменных окружения"
}

// Execute выводит справку.
func (h *Handler) Execute(_ context.Context, env *command.Env) error {
	start := time.Now()
	data := buildData()

	if env.TextOutput() {
		return data.WriteText(env.Stdout)
	}

	return env.Writer().Write(env.Stdout, &output.Result{
		Status:  output.StatusSuccess,
		Command: constants.ActHelp,
		Data:    data,
		Metadata: &output.Metadata{
			DurationMs: time.Since(start).Milliseconds(),
			TraceID:    env.TraceID,
			APIVersion: constants.APIVersion,
		},
	})
}
