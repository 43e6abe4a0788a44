package shard

import (
	"fmt"
	"strings"

	"github.com/Kargones/testshard/internal/discovery"
	"github.com/Kargones/testshard/internal/partition"
)

func (p *Planner) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.report, format, args...)
}

// printRaw печатает вывод коллектора для диагностики.
func (p *Planner) printRaw(raw string) {
	raw = strings.TrimRight(raw, "\r\n")
	if raw == "" {
		p.printf("(вывод коллектора пуст)\n")
		return
	}
	p.printf("--- вывод коллектора ---\n%s\n------------------------\n", raw)
}

// printCollection печатает идентификаторы и отброшенные строки с именем правила.
func (p *Planner) printCollection(col *discovery.Collection) {
	p.printf("[debug] команда сбора: %s\n", strings.Join(col.Args, " "))
	p.printf("[debug] собрано идентификаторов: %d\n", len(col.IDs))
	for _, id := range col.IDs {
		p.printf("[debug]   %s\n", id)
	}
	if len(col.Rejected) == 0 {
		return
	}
	p.printf("[debug] отброшено строк: %d\n", len(col.Rejected))
	for _, r := range col.Rejected {
		p.printf("[debug]   (%s) %s\n", r.Rule, r.Line)
	}
}

// printGroups печатает группы и назначение шарду.
func (p *Planner) printGroups(a *partition.Assignment) {
	p.printf("[debug] после удаления родительских: %d\n", len(a.Filtered))
	if a.Role.Pinned {
		p.printf("[debug] закреплённый шард: все %d тестов, фильтр %q\n", len(a.Tests), a.Role.Filter)
		return
	}
	if a.Groups == nil {
		p.printf("[debug] группировка %s: слот %d из %d, тестов %d\n",
			a.GroupBy, a.Role.Slot, a.Role.Slots, len(a.Tests))
		return
	}
	p.printf("[debug] группировка %s: групп %d, слот %d из %d\n",
		a.GroupBy, a.Groups.Len(), a.Role.Slot, a.Role.Slots)
	for i, g := range a.Groups.All() {
		mark := " "
		if i%a.Role.Slots == a.Role.Slot {
			mark = "*"
		}
		p.printf("[debug] %s [%d] %s (%d)\n", mark, i, g.Key, len(g.Members))
	}
}
