package partition

import (
	"fmt"
	"strings"
)

// GroupBy задаёт гранулярность группировки для обычных шардов.
type GroupBy string

const (
	// GroupByNone — каждый идентификатор сам по себе группа.
	GroupByNone GroupBy = "none"
	// GroupByModule — группа на файл (модуль) тестов.
	GroupByModule GroupBy = "module"
	// GroupByClass — группа на класс; функции вне класса группируются по модулю.
	GroupByClass GroupBy = "class"
)

// DefaultGroupBy используется при пустом GROUP_BY.
const DefaultGroupBy = GroupByModule

// ParseGroupBy разбирает значение GROUP_BY без учёта регистра.
// Пустая строка означает DefaultGroupBy.
func ParseGroupBy(s string) (GroupBy, error) {
	switch GroupBy(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultGroupBy, nil
	case GroupByNone:
		return GroupByNone, nil
	case GroupByModule:
		return GroupByModule, nil
	case GroupByClass:
		return GroupByClass, nil
	default:
		return DefaultGroupBy, fmt.Errorf("неизвестный режим группировки %q (допустимо: none, module, class)", s)
	}
}

// KeyFor возвращает ключ группы для идентификатора.
// Суффикс параметризации ("[...]") в последнем сегменте не участвует
// в разбиении, т.к. может содержать Separator.
func KeyFor(id TestID, by GroupBy) string {
	s := string(id)
	if by == GroupByNone {
		return s
	}

	head := s
	if sep := strings.Index(s, Separator); sep >= 0 {
		if br := strings.IndexByte(s, '['); br > sep {
			head = s[:br]
		}
	}
	parts := strings.Split(head, Separator)

	if by == GroupByClass && len(parts) >= 3 {
		return parts[0] + Separator + parts[1]
	}
	return parts[0]
}

// Group — непустой упорядоченный набор идентификаторов с общим ключом.
type Group struct {
	Key     string   `json:"key" yaml:"key"`
	Members []TestID `json:"members" yaml:"members"`
}

// Groups — упорядоченное отображение ключ → группа.
// Группы идут в порядке первого появления ключа, участники группы
// в порядке обнаружения.
type Groups struct {
	order []*Group
	index map[string]int
}

// NewGroups создаёт пустой набор групп.
func NewGroups() *Groups {
	return &Groups{index: make(map[string]int)}
}

// Add добавляет идентификатор в группу key, создавая её при первом обращении.
func (g *Groups) Add(key string, id TestID) {
	if i, ok := g.index[key]; ok {
		g.order[i].Members = append(g.order[i].Members, id)
		return
	}
	g.index[key] = len(g.order)
	g.order = append(g.order, &Group{Key: key, Members: []TestID{id}})
}

// Len возвращает количество групп.
func (g *Groups) Len() int {
	return len(g.order)
}

// Get возвращает группу по ключу.
func (g *Groups) Get(key string) (*Group, bool) {
	i, ok := g.index[key]
	if !ok {
		return nil, false
	}
	return g.order[i], true
}

// Keys возвращает ключи в порядке первого появления.
func (g *Groups) Keys() []string {
	keys := make([]string, len(g.order))
	for i, grp := range g.order {
		keys[i] = grp.Key
	}
	return keys
}

// All возвращает группы в порядке первого появления.
// Срез новый, но группы общие с Groups.
func (g *Groups) All() []*Group {
	out := make([]*Group, len(g.order))
	copy(out, g.order)
	return out
}

// BuildGroups раскладывает идентификаторы по группам согласно by.
func BuildGroups(ids []TestID, by GroupBy) *Groups {
	groups := NewGroups()
	for _, id := range ids {
		groups.Add(KeyFor(id, by), id)
	}
	return groups
}
