package partition

import (
	"errors"
	"fmt"
	"strings"
)

// Ошибки позиции шарда. Все они означают некорректную конфигурацию.
var (
	// ErrShardCount — количество шардов меньше единицы.
	ErrShardCount = errors.New("количество шардов должно быть положительным")

	// ErrShardIndex — индекс шарда вне [0, count).
	ErrShardIndex = errors.New("индекс шарда вне диапазона")

	// ErrPinnedIndex — индекс закреплённого шарда вне [0, count).
	ErrPinnedIndex = errors.New("индекс закреплённого шарда вне диапазона")

	// ErrPinnedOnly — закреплённый шард оказался единственным, и тестам
	// без маркера негде выполняться.
	ErrPinnedOnly = errors.New("закреплённой группе нужен хотя бы один обычный шард")
)

// Pinned описывает закреплённую группу: все тесты с маркером Marker
// выполняются только на шарде ShardIndex.
type Pinned struct {
	// Marker — имя маркера; пустая строка отключает закреплённую группу.
	Marker string
	// ShardIndex — индекс шарда, который выполняет закреплённую группу.
	ShardIndex int
	// Workers — число воркеров раннера на закреплённом шарде.
	// Пустая строка — использовать общее значение.
	Workers string
}

// Active сообщает, настроена ли закреплённая группа.
func (p Pinned) Active() bool {
	return p.Marker != ""
}

// Role — позиция текущего шарда в разбиении.
type Role struct {
	ShardIndex int `json:"shard_index" yaml:"shard_index"`
	ShardCount int `json:"shard_count" yaml:"shard_count"`

	// Pinned — текущий шард выполняет закреплённую группу целиком.
	Pinned bool `json:"pinned" yaml:"pinned"`

	// Slot и Slots — номер шарда среди обычных и их количество.
	// Закреплённый шард в нумерацию слотов не входит.
	Slot  int `json:"slot" yaml:"slot"`
	Slots int `json:"slots" yaml:"slots"`

	// Filter — выражение маркеров для сбора тестов; пустое — без фильтра.
	Filter string `json:"filter,omitempty" yaml:"filter,omitempty"`
}

// ResolveRole определяет позицию шарда shardIndex из shardCount.
//
// Без закреплённой группы Slot = shardIndex, Slots = shardCount.
// С закреплённой группой закреплённый шард собирает только тесты с маркером,
// а остальные собирают "not <маркер>" и делят тесты между shardCount-1 слотами,
// пропуская индекс закреплённого шарда. Так объединение обычных шардов
// покрывает все тесты без маркера.
func ResolveRole(shardIndex, shardCount int, pinned Pinned) (Role, error) {
	if shardCount < 1 {
		return Role{}, fmt.Errorf("%w: %d", ErrShardCount, shardCount)
	}
	if shardIndex < 0 || shardIndex >= shardCount {
		return Role{}, fmt.Errorf("%w: %d не входит в [0, %d)", ErrShardIndex, shardIndex, shardCount)
	}

	role := Role{
		ShardIndex: shardIndex,
		ShardCount: shardCount,
		Slot:       shardIndex,
		Slots:      shardCount,
	}
	if !pinned.Active() {
		return role, nil
	}

	if pinned.ShardIndex < 0 || pinned.ShardIndex >= shardCount {
		return Role{}, fmt.Errorf("%w: %d не входит в [0, %d)", ErrPinnedIndex, pinned.ShardIndex, shardCount)
	}
	if shardCount < 2 {
		return Role{}, ErrPinnedOnly
	}

	if shardIndex == pinned.ShardIndex {
		role.Pinned = true
		role.Slot = -1
		role.Slots = 0
		role.Filter = pinned.Marker
		return role, nil
	}

	role.Filter = ExcludeMarker(pinned.Marker)
	role.Slots = shardCount - 1
	if shardIndex > pinned.ShardIndex {
		role.Slot = shardIndex - 1
	}
	return role, nil
}

// ExcludeMarker строит выражение, исключающее маркер.
// Составное выражение берётся в скобки, чтобы "not" относился ко всему выражению.
func ExcludeMarker(marker string) string {
	marker = strings.TrimSpace(marker)
	if strings.ContainsAny(marker, " \t") {
		return "not (" + marker + ")"
	}
	return "not " + marker
}
