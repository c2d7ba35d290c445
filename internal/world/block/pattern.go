package block

// PatternKind различает конкретные данные и шаблоны
type PatternKind uint8

const (
	KindConcrete PatternKind = iota // Конкретное значение данных
	KindWildcard                    // Шаблон (маска + данные)
	KindAny                         // Универсальный шаблон -1
)

// String возвращает строковое представление вида шаблона
func (k PatternKind) String() string {
	switch k {
	case KindConcrete:
		return "concrete"
	case KindWildcard:
		return "wildcard"
	case KindAny:
		return "any"
	default:
		return "unknown"
	}
}

// DataPattern - разобранное представление поля данных.
// Сериализуется всегда упакованное целое, DataPattern лишь удобный вид.
type DataPattern struct {
	Kind PatternKind
	Data int32 // Конкретное значение или 15-битные данные шаблона
	Mask int32 // 15-битная маска, только для шаблонов
}

// DecodeData разбирает упакованное значение данных
func DecodeData(data int32) DataPattern {
	switch {
	case data == AnyData:
		d, m := unpackWildcard(data)
		return DataPattern{Kind: KindAny, Data: d, Mask: m}
	case data < 0:
		d, m := unpackWildcard(data)
		return DataPattern{Kind: KindWildcard, Data: d, Mask: m}
	default:
		return DataPattern{Kind: KindConcrete, Data: data}
	}
}

// Encode упаковывает шаблон обратно в целое значение данных
func (p DataPattern) Encode() int32 {
	switch p.Kind {
	case KindAny:
		return AnyData
	case KindWildcard:
		return packWildcard(p.Data&dataBits, p.Mask&dataBits)
	default:
		return p.Data
	}
}

// Matches проверяет, допускает ли шаблон значение candidate.
// Для конкретных данных это обычное равенство.
func (p DataPattern) Matches(candidate int32) bool {
	if p.Kind == KindConcrete {
		return p.Data == candidate
	}
	return matchData(p.Encode(), candidate)
}
