package partition

// Assignment — результат разбиения для одного шарда.
type Assignment struct {
	Role    Role
	GroupBy GroupBy

	// Filtered — идентификаторы после удаления родительских, в порядке обнаружения.
	Filtered []TestID

	// Groups — группировка Filtered. Nil для закреплённого шарда и GroupByNone.
	Groups *Groups

	// Tests — идентификаторы, назначенные текущему шарду.
	Tests []TestID
}

// Empty сообщает, что шарду нечего запускать.
func (a *Assignment) Empty() bool {
	return len(a.Tests) == 0
}

// Assign разбивает идентификаторы для шарда role.
//
// Закреплённый шард получает все идентификаторы: сбор уже ограничен маркером,
// а группы распределяет по воркерам сам раннер. Обычный шард получает
// группы с номером g, для которых g mod Slots == Slot, в порядке появления.
// При GroupByNone то же правило применяется к позиции каждого идентификатора.
func Assign(ids []TestID, role Role, by GroupBy) *Assignment {
	a := &Assignment{
		Role:     role,
		GroupBy:  by,
		Filtered: RemoveParents(ids),
		Tests:    []TestID{},
	}

	if role.Pinned {
		a.Tests = append(a.Tests, a.Filtered...)
		return a
	}
	if role.Slots <= 0 {
		return a
	}

	if by == GroupByNone {
		for i, id := range a.Filtered {
			if i%role.Slots == role.Slot {
				a.Tests = append(a.Tests, id)
			}
		}
		return a
	}

	a.Groups = BuildGroups(a.Filtered, by)
	for i, grp := range a.Groups.All() {
		if i%role.Slots == role.Slot {
			a.Tests = append(a.Tests, grp.Members...)
		}
	}
	return a
}
