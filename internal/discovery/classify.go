package discovery

import (
	"regexp"
	"strings"

	"github.com/Kargones/testshard/internal/partition"
)

// RuleKind — тип правила классификации.
type RuleKind int

const (
	// Exclude — строка является шумом коллектора.
	Exclude RuleKind = iota
	// Include — строка является идентификатором теста или путём к файлу.
	Include
)

func (k RuleKind) String() string {
	if k == Include {
		return "include"
	}
	return "exclude"
}

// Rule — именованное правило классификации строки вывода коллектора.
// Match получает строку без начальных и конечных пробелов.
type Rule struct {
	Name   string
	Reason string
	Kind   RuleKind
	Match  func(line string) bool
}

// fallbackRule — результат, когда ни одно правило не сработало.
var fallbackRule = Rule{
	Name:   "no-match",
	Reason: "строка не похожа на идентификатор теста",
	Kind:   Exclude,
}

var (
	summaryRe         = regexp.MustCompile(`^\d+(/\d+)?\s+tests?\s+(collected|selected|deselected)`)
	warningLocationRe = regexp.MustCompile(`^(\S+)\.py:\d+:\s*\w*(Warning|Error)\b`)
)

// isWarningLocation распознаёт строки вида "path.py:12: SomeWarning: ...".
// Путь с "::" принадлежит идентификатору теста: текст параметра может
// выглядеть как место предупреждения.
func isWarningLocation(s string) bool {
	m := warningLocationRe.FindStringSubmatch(s)
	if m == nil {
		return false
	}
	return !strings.Contains(m[1], partition.Separator)
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// rules — упорядоченная таблица. Исключения идут раньше включений,
// первое сработавшее правило определяет результат.
var rules = []Rule{
	{
		Name:   "blank",
		Reason: "пустая строка",
		Kind:   Exclude,
		Match:  func(s string) bool { return s == "" },
	},
	{
		Name:   "warning-prefix",
		Reason: "строка предупреждения",
		Kind:   Exclude,
		Match: func(s string) bool {
			return hasAnyPrefix(strings.ToLower(s), "warning:", "pytestwarning", "deprecationwarning")
		},
	},
	{
		Name:   "error-prefix",
		Reason: "строка ошибки",
		Kind:   Exclude,
		Match: func(s string) bool {
			return hasAnyPrefix(strings.ToLower(s), "error:", "error ")
		},
	},
	{
		Name:   "no-tests",
		Reason: "сообщение об отсутствии тестов",
		Kind:   Exclude,
		Match: func(s string) bool {
			low := strings.ToLower(s)
			return strings.Contains(low, "no tests ran") || strings.Contains(low, "no tests collected")
		},
	},
	{
		Name:   "summary",
		Reason: "итоговая строка коллектора",
		Kind:   Exclude,
		Match:  summaryRe.MatchString,
	},
	{
		Name:   "banner",
		Reason: "разделитель секции",
		Kind:   Exclude,
		Match:  func(s string) bool { return hasAnyPrefix(s, "==", "--") },
	},
	{
		Name:   "warning-location",
		Reason: "место предупреждения в файле",
		Kind:   Exclude,
		Match:  isWarningLocation,
	},
	{
		Name:   "node-id",
		Reason: "идентификатор вида module::test",
		Kind:   Include,
		Match:  func(s string) bool { return strings.Contains(s, partition.Separator) },
	},
	{
		Name:   "unix-path",
		Reason: "путь к .py файлу",
		Kind:   Include,
		Match: func(s string) bool {
			return strings.Contains(s, "/") && strings.HasSuffix(s, ".py")
		},
	},
	{
		Name:   "windows-path",
		Reason: "путь к .py файлу в стиле Windows",
		Kind:   Include,
		Match: func(s string) bool {
			return strings.Contains(s, `\`) && strings.HasSuffix(s, ".py")
		},
	},
	{
		Name:   "test-path",
		Reason: "путь содержит каталог или файл тестов",
		Kind:   Include,
		Match: func(s string) bool {
			return strings.Contains(s, "tests/") ||
				strings.Contains(s, "/test_") ||
				strings.Contains(s, `\test_`)
		},
	},
}

// Rules возвращает копию таблицы правил в порядке применения.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// Classify возвращает решение по строке и сработавшее правило.
func Classify(line string) (bool, Rule) {
	s := strings.TrimSpace(line)
	for _, r := range rules {
		if r.Match(s) {
			return r.Kind == Include, r
		}
	}
	return false, fallbackRule
}

// ClassifyLine сообщает, является ли строка идентификатором теста.
func ClassifyLine(line string) bool {
	ok, _ := Classify(line)
	return ok
}

// Rejected — отброшенная строка вывода и правило, которое её отбросило.
type Rejected struct {
	Line string `json:"line" yaml:"line"`
	Rule string `json:"rule" yaml:"rule"`
}

// ParseOutput разбирает вывод коллектора построчно.
// Пустые строки пропускаются без записи в rejected. Порядок сохраняется.
func ParseOutput(out string) (ids []partition.TestID, rejected []Rejected) {
	ids = []partition.TestID{}
	for _, raw := range strings.Split(out, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		ok, rule := Classify(line)
		if ok {
			ids = append(ids, partition.TestID(line))
			continue
		}
		rejected = append(rejected, Rejected{Line: line, Rule: rule.Name})
	}
	return ids, rejected
}
