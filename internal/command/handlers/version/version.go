// Package version реализует команду version: версия, коммит и версия Go.
package version

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/Kargones/testshard/internal/command"
	"github.com/Kargones/testshard/internal/constants"
	"github.com/Kargones/testshard/internal/pkg/output"
)

func init() {
	command.Register(&Handler{})
}

// Data содержит информацию о версии приложения.
type Data struct {
	Version   string   `json:"version" yaml:"version"`
	GoVersion string   `json:"go_version" yaml:"go_version"`
	Commit    string   `json:"commit" yaml:"commit"`
	Commands  []string `json:"commands" yaml:"commands"`
}

// WriteText выводит версию в человекочитаемом виде.
func (d *Data) WriteText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s version %s\n  Go:     %s\n  Commit: %s\n",
		constants.AppName, d.Version, d.GoVersion, d.Commit)
	return err
}

// buildData подставляет "dev" и "unknown" вместо пустых значений.
func buildData(version, commit string) *Data {
	if version == "" {
		version = "dev"
	}
	if commit == "" {
		commit = "unknown"
	}
	return &Data{
		Version:   version,
		GoVersion: runtime.Version(),
		Commit:    commit,
		Commands:  command.Names(),
	}
}

// Handler обрабатывает команду version.
type Handler struct{}

// Name возвращает имя команды.
func (h *Handler) Name() string {
	return constants.ActVersion
}

// Description возвращает описание команды для вывода в help.
func (h *Handler) Description() string {
	return "Вывод информации о версии"
}

// Execute выводит версию. Текстовый формат компактный, без metadata.
func (h *Handler) Execute(_ context.Context, env *command.Env) error {
	start := time.Now()
	data := buildData(constants.Version, constants.PreCommitHash)

	if env.TextOutput() {
		return data.WriteText(env.Stdout)
	}

	result := &output.Result{
		Status:  output.StatusSuccess,
		Command: constants.ActVersion,
		Data:    data,
		Metadata: &output.Metadata{
			DurationMs: time.Since(start).Milliseconds(),
			TraceID:    env.TraceID,
			APIVersion: constants.APIVersion,
		},
	}
	return env.Writer().Write(env.Stdout, result)
}
