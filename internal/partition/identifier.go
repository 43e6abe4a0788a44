package partition

import "strings"

// Separator разделяет части идентификатора: модуль, класс, функцию.
const Separator = "::"

// TestID — идентификатор одного исполняемого теста в формате коллектора,
// например "tests/login/test_login.py::TestLogin::test_valid".
type TestID string

// Strings конвертирует идентификаторы в аргументы командной строки.
func Strings(ids []TestID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

// RemoveParents удаляет идентификатор p, если среди остальных есть c,
// начинающийся с p + Separator. Родитель означает «всё внутри», и запуск
// вместе с дочерним приводит к повторному выполнению тех же тестов.
// Порядок оставшихся идентификаторов сохраняется.
//
// Результат совпадает с попарным сравнением O(n²), но вместо него для
// каждого идентификатора перебираются его собственные префиксы перед
// вхождениями Separator.
func RemoveParents(ids []TestID) []TestID {
	parents := make(map[TestID]struct{})
	for _, id := range ids {
		s := string(id)
		for from := 0; from < len(s); {
			i := strings.Index(s[from:], Separator)
			if i < 0 {
				break
			}
			pos := from + i
			parents[TestID(s[:pos])] = struct{}{}
			from = pos + 1
		}
	}

	out := make([]TestID, 0, len(ids))
	for _, id := range ids {
		if _, isParent := parents[id]; isParent {
			continue
		}
		out = append(out, id)
	}
	return out
}
