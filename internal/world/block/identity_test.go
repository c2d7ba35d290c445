package block

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fourWay - тестовое преобразование: поворот по орбите 0->1->2->3->0,
// отражение меняет 0<->2, перебор сдвигает по модулю 4
type fourWay struct {
	calls []string
}

func (f *fourWay) Rotate90(_ BlockID, data int32) int32 {
	f.calls = append(f.calls, "rotate90")
	return (data + 1) % 4
}

func (f *fourWay) Rotate90Reverse(_ BlockID, data int32) int32 {
	f.calls = append(f.calls, "rotate90Reverse")
	return (data + 3) % 4
}

func (f *fourWay) Cycle(_ BlockID, data int32, increment int) int32 {
	f.calls = append(f.calls, "cycle")
	return ((data+int32(increment))%4 + 4) % 4
}

func (f *fourWay) Flip(_ BlockID, data int32) int32 {
	f.calls = append(f.calls, "flip")
	return (data + 2) % 4
}

func (f *fourWay) FlipDirection(_ BlockID, data int32, dir FlipDirection) int32 {
	f.calls = append(f.calls, "flip:"+dir.String())
	if dir == FlipUpDown {
		return data
	}
	return (data + 2) % 4
}

// fixedTransform всегда возвращает одно и то же значение
type fixedTransform struct {
	NopTransform
	value int32
}

func (f fixedTransform) Rotate90Reverse(_ BlockID, _ int32) int32 { return f.value }
func (f fixedTransform) Cycle(_ BlockID, _ int32, _ int) int32 { return f.value }

func TestIdentityConstruction(t *testing.T) {
	b := NewIdentity(StoneBlockID)
	assert.Equal(t, StoneBlockID, b.GetType(), "Тип должен совпадать")
	assert.Equal(t, int32(0), b.GetData(), "Данные по умолчанию должны быть 0")

	b = NewIdentityData(WoolBlockID, 14)
	assert.Equal(t, WoolBlockID, b.GetType())
	assert.Equal(t, int32(14), b.GetData())

	// Данные сохраняются без проверок
	b = NewIdentityData(WoolBlockID, 1<<20)
	assert.Equal(t, int32(1<<20), b.GetData())

	b.SetType(DirtBlockID)
	b.SetData(3)
	assert.Equal(t, NewIdentityData(DirtBlockID, 3), b)
}

func TestIsAir(t *testing.T) {
	assert.True(t, NewIdentity(AirBlockID).IsAir(), "Воздух должен определяться как воздух")
	assert.False(t, NewIdentity(AirBlockID+1).IsAir(), "Камень не является воздухом")
	assert.True(t, NewIdentityData(AirBlockID, 7).IsAir(), "Данные не влияют на IsAir")
}

func TestWildcardIsNegative(t *testing.T) {
	for _, mask := range []int{0, 1, 0x0f, 0x4000, 0x7fff} {
		b := Wildcard(WoolBlockID, 5, mask)
		assert.True(t, b.IsWildcard(), "Шаблон с маской %#x должен быть отрицательным", mask)
	}
}

func TestWildcardDiscardsHighBits(t *testing.T) {
	a := Wildcard(WoolBlockID, 5, 0x0f)
	b := Wildcard(WoolBlockID, 5|0x18000, 0x0f|0x7f0000)
	assert.Equal(t, a, b, "Биты старше 15-го должны отбрасываться")

	c := Wildcard(WoolBlockID, -1, -1)
	data, mask := unpackWildcard(c.Data)
	assert.Equal(t, int32(0x7fff), data)
	assert.Equal(t, int32(0x7fff), mask)
}

func TestWildcardRoundTrip(t *testing.T) {
	// Полный перебор данных для нескольких масок и масок для нескольких данных
	samples := []int32{0, 1, 5, 0x0f, 0x0100, 0x4000, 0x5555, 0x7ffe, 0x7fff}

	for _, mask := range samples {
		for data := int32(0); data <= dataBits; data++ {
			d, m := unpackWildcard(Wildcard(StoneBlockID, int(data), int(mask)).Data)
			if d != data || m != mask {
				t.Fatalf("data=%#x mask=%#x: получено data=%#x mask=%#x", data, mask, d, m)
			}
		}
	}
	for _, data := range samples {
		for mask := int32(0); mask <= dataBits; mask++ {
			d, m := unpackWildcard(Wildcard(StoneBlockID, int(data), int(mask)).Data)
			if d != data || m != mask {
				t.Fatalf("data=%#x mask=%#x: получено data=%#x mask=%#x", data, mask, d, m)
			}
		}
	}
}

func TestEquals(t *testing.T) {
	a := NewIdentityData(WoolBlockID, 3)

	assert.True(t, a.Equals(NewIdentityData(WoolBlockID, 3)))
	assert.True(t, a.Equals(&Identity{Type: WoolBlockID, Data: 3}), "Указатель на равный блок тоже равен")
	assert.False(t, a.Equals(NewIdentityData(WoolBlockID, 4)))
	assert.False(t, a.Equals(NewIdentityData(StoneBlockID, 3)))

	// Шаблоны сравниваются как сырые числа
	assert.False(t, a.Equals(Wildcard(WoolBlockID, 3, 0x0f)))
	assert.False(t, NewIdentityData(WoolBlockID, AnyData).Equals(a))

	// Значения другого вида не равны и не вызывают ошибок
	assert.False(t, a.Equals(nil))
	assert.False(t, a.Equals((*Identity)(nil)))
	assert.False(t, a.Equals("35:3"))
	assert.False(t, a.Equals(int32(3)))
}

func TestEqualsFuzzyMaskSelectivity(t *testing.T) {
	w := Wildcard(WoolBlockID, 5, 0x000f)

	assert.True(t, w.EqualsFuzzy(NewIdentityData(WoolBlockID, 5)))
	assert.True(t, w.EqualsFuzzy(NewIdentityData(WoolBlockID, 0x7ff5)))
	assert.False(t, w.EqualsFuzzy(NewIdentityData(WoolBlockID, 6)))
	assert.False(t, w.EqualsFuzzy(NewIdentityData(StoneBlockID, 5)), "Другой тип не совпадает")

	// Та же проверка с шаблоном справа
	assert.True(t, NewIdentityData(WoolBlockID, 0x7ff5).EqualsFuzzy(w))
	assert.False(t, NewIdentityData(WoolBlockID, 6).EqualsFuzzy(w))
}

func TestEqualsFuzzyUniversal(t *testing.T) {
	universal := NewIdentityData(LogBlockID, AnyData)

	for _, data := range []int32{0, 1, 7, 0x7fff, 1 << 20} {
		assert.True(t, universal.EqualsFuzzy(NewIdentityData(LogBlockID, data)), "data=%d", data)
		assert.True(t, NewIdentityData(LogBlockID, data).EqualsFuzzy(universal), "data=%d", data)
	}
	assert.False(t, universal.EqualsFuzzy(NewIdentity(StoneBlockID)), "Другой тип не совпадает")

	// Универсальный шаблон допускает и другие шаблоны, в обоих порядках
	other := Wildcard(LogBlockID, 4, 0x0c)
	assert.True(t, universal.EqualsFuzzy(other))
	assert.True(t, other.EqualsFuzzy(universal))
}

func TestOnlyMinusOneIsUniversal(t *testing.T) {
	// Нулевая маска из Wildcard допускает любые конкретные данные...
	zeroMask := Wildcard(WoolBlockID, 0x7fff, 0x0000)
	require.NotEqual(t, AnyData, zeroMask.Data, "Wildcard не может дать -1")

	for data := int32(0); data <= dataBits; data += 97 {
		assert.True(t, zeroMask.EqualsFuzzy(NewIdentityData(WoolBlockID, data)))
	}

	// ...но не другие шаблоны
	assert.False(t, zeroMask.EqualsFuzzy(Wildcard(WoolBlockID, 5, 0x0f)))
	assert.False(t, Wildcard(WoolBlockID, 5, 0x0f).EqualsFuzzy(zeroMask))
	assert.False(t, zeroMask.EqualsFuzzy(Wildcard(WoolBlockID, 0, 0)))
}

func TestEqualsFuzzyTwoWildcards(t *testing.T) {
	a := Wildcard(WoolBlockID, 5, 0x0f)
	b := Wildcard(WoolBlockID, 5, 0x07)

	assert.True(t, a.EqualsFuzzy(a), "Одинаковые шаблоны совпадают")
	assert.False(t, a.EqualsFuzzy(b), "Разные шаблоны не совпадают")
	assert.False(t, b.EqualsFuzzy(a), "Разные шаблоны не совпадают")
}

func TestEqualsFuzzyConcreteRefinesExact(t *testing.T) {
	types := []BlockID{StoneBlockID, WoolBlockID}
	values := []int32{0, 1, 5, 15, 0x7fff, 0x8000, 1 << 30}

	for _, ta := range types {
		for _, tb := range types {
			for _, da := range values {
				for _, db := range values {
					a, b := NewIdentityData(ta, da), NewIdentityData(tb, db)
					assert.Equal(t, a.Equals(b), a.EqualsFuzzy(b), "%s vs %s", a, b)
				}
			}
		}
	}
}

func TestEqualsFuzzyCommutative(t *testing.T) {
	var ids []Identity
	for _, typ := range []BlockID{StoneBlockID, WoolBlockID} {
		ids = append(ids,
			NewIdentityData(typ, 0),
			NewIdentityData(typ, 5),
			NewIdentityData(typ, 6),
			NewIdentityData(typ, 0x7ff5),
			NewIdentityData(typ, AnyData),
			NewIdentityData(typ, -2),
			NewIdentityData(typ, -5),
			NewIdentityData(typ, -1<<31),
			Wildcard(typ, 5, 0x0f),
			Wildcard(typ, 5, 0x07),
			Wildcard(typ, 6, 0x0f),
			Wildcard(typ, 0x7fff, 0),
			Wildcard(typ, 0, 0x7fff),
		)
	}

	for _, a := range ids {
		for _, b := range ids {
			require.Equal(t, a.EqualsFuzzy(b), b.EqualsFuzzy(a), "%s vs %s", a, b)
		}
	}
}

func TestEqualsFuzzyDifferingNegativesNeverMatch(t *testing.T) {
	negatives := []int32{-2, -3, -5, -1 << 31, Wildcard(0, 5, 0x0f).Data, Wildcard(0, 0x7fff, 0).Data}

	for _, da := range negatives {
		for _, db := range negatives {
			if da == db {
				continue
			}
			a, b := NewIdentityData(WoolBlockID, da), NewIdentityData(WoolBlockID, db)
			assert.False(t, a.EqualsFuzzy(b), "%d vs %d", da, db)
		}
	}
}

func TestTransformDelegation(t *testing.T) {
	tr := &fourWay{}
	b := NewIdentityData(OakStairsBlockID, 0)

	assert.Equal(t, int32(1), b.Rotate90(tr))
	assert.Equal(t, int32(1), b.Data, "Данные должны обновиться")

	assert.Equal(t, int32(0), b.Rotate90Reverse(tr))
	assert.Equal(t, int32(3), b.CycleData(tr, -1))
	assert.Equal(t, int32(3), b.Data)

	same := b.Flip(tr)
	assert.Same(t, &b, same, "Flip должен возвращать тот же блок")
	assert.Equal(t, int32(1), b.Data)

	b.FlipDirection(tr, FlipWestEast).FlipDirection(tr, FlipUpDown)
	assert.Equal(t, int32(3), b.Data)

	assert.Equal(t, []string{
		"rotate90", "rotate90Reverse", "cycle", "flip", "flip:west_east", "flip:up_down",
	}, tr.calls)
}

func TestTransformResultStoredVerbatim(t *testing.T) {
	b := NewIdentityData(OakStairsBlockID, 2)

	// Значения вне 16 бит не усекаются
	tr := fixedTransform{value: 0x12345}
	assert.Equal(t, int32(0x12345), b.Rotate90Reverse(tr))
	assert.Equal(t, int32(0x12345), b.Data)

	tr.value = -7
	assert.Equal(t, int32(-7), b.CycleData(tr, 1))

	// Отсутствие правила - данные без изменений
	b.Rotate90(NopTransform{})
	assert.Equal(t, int32(-7), b.Data)
}

func TestRotate90FourTimesIsIdentity(t *testing.T) {
	tr := &fourWay{}
	for data := int32(0); data < 4; data++ {
		b := NewIdentityData(OakStairsBlockID, data)
		for i := 0; i < 4; i++ {
			b.Rotate90(tr)
		}
		assert.Equal(t, data, b.Data)
	}
}

func TestInIterable(t *testing.T) {
	set := []Identity{
		NewIdentity(StoneBlockID),
		Wildcard(WoolBlockID, 5, 0x0f),
	}

	assert.True(t, NewIdentity(StoneBlockID).InIterable(slices.Values(set)))
	assert.True(t, NewIdentityData(WoolBlockID, 0x25).InIterable(slices.Values(set)))
	assert.False(t, NewIdentityData(WoolBlockID, 6).InIterable(slices.Values(set)))
	assert.False(t, NewIdentity(DirtBlockID).InIterable(slices.Values(set)))
	assert.False(t, NewIdentity(StoneBlockID).InIterable(slices.Values([]Identity(nil))))
}

func TestIdentityString(t *testing.T) {
	assert.Equal(t, "35:14", NewIdentityData(WoolBlockID, 14).String())
	assert.Equal(t, "35:*", NewIdentityData(WoolBlockID, AnyData).String())
	assert.Equal(t, "35:5/0xf", Wildcard(WoolBlockID, 5, 0x0f).String())
}
