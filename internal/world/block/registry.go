package block

import (
	"errors"
	"fmt"
	"sort"
)

// BlockID представляет идентификатор типа блока.
// Типы ограничены 16 битами, так же их кодирует protocol.
type BlockID uint16

// Константы ID блоков.
// Числа совпадают с классической нумерацией, на которую опираются каталоги правил.
const (
	// Базовые типы блоков
	AirBlockID   BlockID = 0 // Воздух, «нет блока»
	StoneBlockID BlockID = 1
	GrassBlockID BlockID = 2
	DirtBlockID  BlockID = 3

	// Блоки с ориентацией и вариантами
	LogBlockID         BlockID = 17 // Бревно: порода в битах 0-1, ось в битах 2-3
	WoolBlockID        BlockID = 35 // Шерсть: 16 цветов
	TorchBlockID       BlockID = 50
	OakStairsBlockID   BlockID = 53
	LadderBlockID      BlockID = 65
	StoneStairsBlockID BlockID = 67
)

// Rule описывает, как меняются данные блока одного типа
type Rule struct {
	ID   BlockID
	Name string

	// Mask - биты данных, участвующие в повороте и отражении.
	// Остальные биты сохраняются как есть.
	Mask int32

	// Rotations - орбиты поворота на 90° по часовой стрелке
	Rotations [][]int32

	// Flips - отображения данных под маской для каждой оси
	Flips map[FlipDirection]map[int32]int32

	// CycleMask и CycleStates задают перебор значений: (data & CycleMask) по модулю CycleStates
	CycleMask   int32
	CycleStates int32
}

// rotate сдвигает данные по орбите на step позиций (1 или -1)
func (r *Rule) rotate(data int32, step int) int32 {
	if data < 0 {
		return data
	}
	value := data & r.Mask
	for _, orbit := range r.Rotations {
		for i, v := range orbit {
			if v != value {
				continue
			}
			n := len(orbit)
			next := orbit[((i+step)%n+n)%n]
			return data&^r.Mask | next
		}
	}
	return data
}

// flip отражает данные вдоль оси dir
func (r *Rule) flip(data int32, dir FlipDirection) int32 {
	if data < 0 {
		return data
	}
	mapping, ok := r.Flips[dir]
	if !ok {
		return data
	}
	next, ok := mapping[data&r.Mask]
	if !ok {
		return data
	}
	return data&^r.Mask | next
}

// cycle сдвигает перебираемую часть данных на increment
func (r *Rule) cycle(data int32, increment int) int32 {
	if data < 0 || r.CycleStates <= 0 {
		return data
	}
	value := data & r.CycleMask
	if value >= r.CycleStates {
		return data
	}
	states := int(r.CycleStates)
	next := int32(((int(value)+increment)%states + states) % states)
	return data&^r.CycleMask | next
}

// validate проверяет согласованность правила
func (r *Rule) validate() error {
	var errs []error
	seen := make(map[int32]int)
	for i, orbit := range r.Rotations {
		if len(orbit) == 0 {
			errs = append(errs, fmt.Errorf("block %d: rotation orbit %d is empty", r.ID, i))
		}
		for _, v := range orbit {
			if v&^r.Mask != 0 {
				errs = append(errs, fmt.Errorf("block %d: rotation value %d outside mask %#x", r.ID, v, r.Mask))
			}
			if prev, dup := seen[v]; dup {
				errs = append(errs, fmt.Errorf("block %d: rotation value %d in orbits %d and %d", r.ID, v, prev, i))
			}
			seen[v] = i
		}
	}
	for dir, mapping := range r.Flips {
		for from, to := range mapping {
			if from&^r.Mask != 0 || to&^r.Mask != 0 {
				errs = append(errs, fmt.Errorf("block %d: flip %s %d->%d outside mask %#x", r.ID, dir, from, to, r.Mask))
			}
		}
	}
	if r.CycleStates > 0 && (r.CycleStates-1)&^r.CycleMask != 0 {
		errs = append(errs, fmt.Errorf("block %d: %d cycle states do not fit mask %#x", r.ID, r.CycleStates, r.CycleMask))
	}
	return errors.Join(errs...)
}

// RuleTable хранит правила по типам блоков и реализует Transform.
// Для неизвестных типов и для шаблонов (data < 0) данные возвращаются без изменений.
type RuleTable struct {
	rules map[BlockID]*Rule
}

// NewRuleTable создаёт пустую таблицу правил
func NewRuleTable() *RuleTable {
	return &RuleTable{rules: make(map[BlockID]*Rule)}
}

// Register добавляет правило в таблицу, заменяя предыдущее для того же типа
func (rt *RuleTable) Register(rule Rule) {
	r := rule
	rt.rules[r.ID] = &r
}

// Get возвращает правило для указанного ID
func (rt *RuleTable) Get(id BlockID) (Rule, bool) {
	r, exists := rt.rules[id]
	if !exists {
		return Rule{}, false
	}
	return *r, true
}

// Has проверяет, есть ли правило для типа
func (rt *RuleTable) Has(id BlockID) bool {
	_, exists := rt.rules[id]
	return exists
}

// Len возвращает количество правил
func (rt *RuleTable) Len() int {
	return len(rt.rules)
}

// IDs возвращает отсортированный список типов с правилами
func (rt *RuleTable) IDs() []BlockID {
	ids := make([]BlockID, 0, len(rt.rules))
	for id := range rt.rules {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Validate проверяет все правила и возвращает объединённую ошибку
func (rt *RuleTable) Validate() error {
	var errs []error
	for _, id := range rt.IDs() {
		if err := rt.rules[id].validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Rotate90 поворачивает данные на шаг вперёд по орбите
func (rt *RuleTable) Rotate90(id BlockID, data int32) int32 {
	if r, ok := rt.rules[id]; ok {
		return r.rotate(data, 1)
	}
	return data
}

// Rotate90Reverse поворачивает данные на шаг назад по орбите
func (rt *RuleTable) Rotate90Reverse(id BlockID, data int32) int32 {
	if r, ok := rt.rules[id]; ok {
		return r.rotate(data, -1)
	}
	return data
}

// Cycle сдвигает перебираемую часть данных на increment по модулю CycleStates
func (rt *RuleTable) Cycle(id BlockID, data int32, increment int) int32 {
	if r, ok := rt.rules[id]; ok {
		return r.cycle(data, increment)
	}
	return data
}

// Flip без оси разворачивает блок на 180°
func (rt *RuleTable) Flip(id BlockID, data int32) int32 {
	return rt.Rotate90(id, rt.Rotate90(id, data))
}

// FlipDirection отражает данные по таблице оси dir
func (rt *RuleTable) FlipDirection(id BlockID, data int32, dir FlipDirection) int32 {
	if r, ok := rt.rules[id]; ok {
		return r.flip(data, dir)
	}
	return data
}

var _ Transform = (*RuleTable)(nil)
