// Package invocation собирает командную строку тестового раннера для шарда.
package invocation

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/shlex"

	"github.com/Kargones/testshard/internal/partition"
	"github.com/Kargones/testshard/internal/pkg/urlutil"
)

// Options — параметры раннера. Пустая строка означает «флаг не передавать».
type Options struct {
	Runner        string
	Workers       string
	PinnedWorkers string
	BaseURL       string
	Browser       string
	Marker        string
	Headless      string
	Reruns        string
	RerunsDelay   string
	ExtraArgs     string
}

// TokenizeWarning — EXTRA_ARGS не удалось разобрать по правилам оболочки,
// строка передана раннеру одним аргументом.
type TokenizeWarning struct {
	Raw string
	Err error
}

// Error реализует интерфейс error.
func (w *TokenizeWarning) Error() string {
	return fmt.Sprintf("не удалось разобрать EXTRA_ARGS %q: %v", w.Raw, w.Err)
}

// Unwrap возвращает ошибку токенизатора.
func (w *TokenizeWarning) Unwrap() error {
	return w.Err
}

// RunPlan — план запуска шарда.
type RunPlan struct {
	ShardIndex int                `json:"shard_index" yaml:"shard_index"`
	ShardCount int                `json:"shard_count" yaml:"shard_count"`
	Pinned     bool               `json:"pinned" yaml:"pinned"`
	Filter     string             `json:"filter,omitempty" yaml:"filter,omitempty"`
	Collected  int                `json:"collected" yaml:"collected"`
	Tests      []partition.TestID `json:"tests" yaml:"tests"`
	Args       []string           `json:"args" yaml:"args"`
}

// Empty сообщает, что шарду нечего запускать.
func (p *RunPlan) Empty() bool {
	return len(p.Tests) == 0
}

// CommandLine возвращает команду одной строкой с замаскированными учётными данными.
func (p *RunPlan) CommandLine() string {
	masked := make([]string, len(p.Args))
	for i, a := range p.Args {
		masked[i] = urlutil.MaskUserinfo(a)
	}
	return strings.Join(masked, " ")
}

// WriteText выводит план в человекочитаемом виде.
func (p *RunPlan) WriteText(w io.Writer) error {
	role := "обычный"
	if p.Pinned {
		role = "закреплённый"
	}
	if _, err := fmt.Fprintf(w, "Шард %d/%d (%s)\n", p.ShardIndex, p.ShardCount, role); err != nil {
		return err
	}
	if p.Filter != "" {
		if _, err := fmt.Fprintf(w, "Фильтр сбора: %s\n", p.Filter); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "Тесты: %d из %d\n", len(p.Tests), p.Collected); err != nil {
		return err
	}
	for _, id := range p.Tests {
		if _, err := fmt.Fprintf(w, "  - %s\n", id); err != nil {
			return err
		}
	}
	if p.Empty() {
		return nil
	}
	_, err := fmt.Fprintf(w, "Команда: %s\n", p.CommandLine())
	return err
}

// Build собирает команду раннера в фиксированном порядке:
//
//	<runner> -q [-n W [--dist loadgroup]] [--base-url U] [--browser B]
//	[-m MARKER] [--headless] [--reruns R] [--reruns-delay D] [EXTRA_ARGS...] tests...
//
// На закреплённом шарде W берётся из PinnedWorkers (если задан), --dist loadgroup
// добавляется при заданном W, а -m не передаётся: отбор уже сделан при сборе.
// Если EXTRA_ARGS не разбирается, строка добавляется целиком и возвращается
// предупреждение.
func Build(opts Options, role partition.Role, tests []partition.TestID) (*RunPlan, *TokenizeWarning) {
	args := []string{opts.Runner, "-q"}

	workers := opts.Workers
	if role.Pinned && opts.PinnedWorkers != "" {
		workers = opts.PinnedWorkers
	}
	if workers != "" {
		args = append(args, "-n", workers)
		if role.Pinned {
			args = append(args, "--dist", "loadgroup")
		}
	}

	if opts.BaseURL != "" {
		args = append(args, "--base-url", opts.BaseURL)
	}
	if opts.Browser != "" {
		args = append(args, "--browser", opts.Browser)
	}
	if opts.Marker != "" && !role.Pinned {
		args = append(args, "-m", opts.Marker)
	}
	if Truthy(opts.Headless) {
		args = append(args, "--headless")
	}
	if opts.Reruns != "" {
		args = append(args, "--reruns", opts.Reruns)
	}
	if opts.RerunsDelay != "" {
		args = append(args, "--reruns-delay", opts.RerunsDelay)
	}

	extra, warn := SplitArgs(opts.ExtraArgs)
	args = append(args, extra...)
	args = append(args, partition.Strings(tests)...)

	plan := &RunPlan{
		ShardIndex: role.ShardIndex,
		ShardCount: role.ShardCount,
		Pinned:     role.Pinned,
		Filter:     role.Filter,
		Tests:      tests,
		Args:       args,
	}
	if plan.Tests == nil {
		plan.Tests = []partition.TestID{}
	}
	return plan, warn
}

// SplitArgs разбирает строку по правилам кавычек оболочки.
// При ошибке возвращает исходную строку одним токеном и предупреждение.
func SplitArgs(s string) ([]string, *TokenizeWarning) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	tokens, err := shlex.Split(s)
	if err != nil {
		return []string{s}, &TokenizeWarning{Raw: s, Err: err}
	}
	return tokens, nil
}

// Truthy возвращает false для пустой строки и значений 0, false, no, off
// (без учёта регистра), иначе true.
func Truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "0", "false", "no", "off":
		return false
	default:
		return true
	}
}
