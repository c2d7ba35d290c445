package block

import (
	"fmt"
	"iter"
)

// AnyData - упакованное значение данных, совпадающее с любыми данными того же типа.
// Раскладывается как mask == 0x0000, data == 0x7fff.
const AnyData int32 = -1

// dataBits - маска значимых битов данных и маски шаблона
const dataBits = 0x7fff

// Identity представляет блок: тип и вспомогательное значение данных.
//
// Data >= 0 - конкретное значение (ориентация, цвет и т.п.).
// Data < 0 - шаблон: младшие 15 бит хранят данные, старшие 16 бит -
// инвертированную маску. Знак служит признаком шаблона, отдельного тега нет.
type Identity struct {
	Type BlockID // Идентификатор типа блока, не больше 0xffff
	Data int32   // Данные или упакованный шаблон
}

// NewIdentity создаёт блок указанного типа с данными 0
func NewIdentity(t BlockID) Identity {
	return NewIdentityData(t, 0)
}

// NewIdentityData создаёт блок с указанными типом и данными без проверок
func NewIdentityData(t BlockID, data int32) Identity {
	return Identity{Type: t, Data: data}
}

// Wildcard создаёт шаблон блока, совпадающий с любыми данными,
// у которых биты под маской равны битам data.
// От data и mask используются только младшие 15 бит.
func Wildcard(t BlockID, data, mask int) Identity {
	return NewIdentityData(t, packWildcard(int32(data&dataBits), int32(mask&dataBits)))
}

// packWildcard объединяет данные и инвертированную маску.
// Старший бит инвертированной 15-битной маски всегда 1, поэтому результат отрицателен.
func packWildcard(data15, mask15 int32) int32 {
	return data15 | (^mask15 << 16)
}

// unpackWildcard восстанавливает 15-битные маску и данные из упакованного значения
func unpackWildcard(packed int32) (data15, mask15 int32) {
	return packed & dataBits, (^packed >> 16) & dataBits
}

// GetType возвращает тип блока
func (b Identity) GetType() BlockID {
	return b.Type
}

// SetType устанавливает тип блока
func (b *Identity) SetType(t BlockID) {
	b.Type = t
}

// GetData возвращает сырое значение данных
func (b Identity) GetData() int32 {
	return b.Data
}

// SetData устанавливает сырое значение данных
func (b *Identity) SetData(data int32) {
	b.Data = data
}

// IsAir возвращает true, если блок является воздухом
func (b Identity) IsAir() bool {
	return b.Type == AirBlockID
}

// IsWildcard возвращает true, если данные блока являются шаблоном
func (b Identity) IsWildcard() bool {
	return b.Data < 0
}

// Equals проверяет точное совпадение типа и сырых данных.
// Значения, не являющиеся Identity, всегда не равны.
func (b Identity) Equals(other any) bool {
	switch o := other.(type) {
	case Identity:
		return b == o
	case *Identity:
		return o != nil && b == *o
	default:
		return false
	}
}

// EqualsFuzzy проверяет совпадение с учётом шаблонов с любой стороны.
// Отношение коммутативно: a.EqualsFuzzy(b) == b.EqualsFuzzy(a).
func (b Identity) EqualsFuzzy(other Identity) bool {
	if b.Type != other.Type {
		return false
	}
	if b.Data == other.Data {
		return true
	}

	// Универсальный шаблон с другой стороны проверяем от его имени,
	// иначе пара (-5, -1) давала бы разный ответ в зависимости от порядка.
	if b.Data < 0 && other.Data != AnyData {
		return matchData(b.Data, other.Data)
	}
	if other.Data < 0 {
		return matchData(other.Data, b.Data)
	}

	return false
}

// matchData проверяет, допускает ли шаблон pattern значение candidate.
func matchData(pattern, candidate int32) bool {
	if pattern == AnyData {
		return true
	}

	// Два разных шаблона не совпадают никогда: без этого правила
	// EqualsFuzzy перестал бы быть коммутативным
	if candidate < 0 {
		return false
	}

	data, mask := unpackWildcard(pattern)
	return data&mask == candidate&mask
}

// Rotate90 поворачивает блок на 90° и возвращает новые данные
func (b *Identity) Rotate90(t Transform) int32 {
	b.Data = t.Rotate90(b.Type, b.Data)
	return b.Data
}

// Rotate90Reverse поворачивает блок на -90° и возвращает новые данные
func (b *Identity) Rotate90Reverse(t Transform) int32 {
	b.Data = t.Rotate90Reverse(b.Type, b.Data)
	return b.Data
}

// CycleData перебирает значения данных вперёд (1) или назад (-1)
func (b *Identity) CycleData(t Transform, increment int) int32 {
	b.Data = t.Cycle(b.Type, b.Data, increment)
	return b.Data
}

// Flip отражает блок и возвращает его же для цепочек вызовов
func (b *Identity) Flip(t Transform) *Identity {
	b.Data = t.Flip(b.Type, b.Data)
	return b
}

// FlipDirection отражает блок вдоль указанной оси
func (b *Identity) FlipDirection(t Transform, dir FlipDirection) *Identity {
	b.Data = t.FlipDirection(b.Type, b.Data, dir)
	return b
}

// InIterable проверяет, совпадает ли какой-либо элемент последовательности с блоком.
//
// Deprecated: используйте EqualsFuzzy напрямую.
func (b Identity) InIterable(seq iter.Seq[Identity]) bool {
	for other := range seq {
		if other.EqualsFuzzy(b) {
			return true
		}
	}
	return false
}

// String возвращает запись вида "тип:данные", "тип:данные/маска" или "тип:*"
func (b Identity) String() string {
	p := DecodeData(b.Data)
	switch p.Kind {
	case KindAny:
		return fmt.Sprintf("%d:*", b.Type)
	case KindWildcard:
		return fmt.Sprintf("%d:%d/%#x", b.Type, p.Data, p.Mask)
	default:
		return fmt.Sprintf("%d:%d", b.Type, b.Data)
	}
}
