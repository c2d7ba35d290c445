package block

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownFlipDirection возвращается при разборе неизвестного направления отражения
var ErrUnknownFlipDirection = errors.New("unknown flip direction")

// FlipDirection задаёт ось отражения блока
type FlipDirection uint8

const (
	FlipNorthSouth FlipDirection = iota // Север <-> юг
	FlipWestEast                        // Запад <-> восток
	FlipUpDown                          // Верх <-> низ
)

// FlipDirections перечисляет все допустимые направления
var FlipDirections = []FlipDirection{FlipNorthSouth, FlipWestEast, FlipUpDown}

// String возвращает строковое представление направления
func (d FlipDirection) String() string {
	switch d {
	case FlipNorthSouth:
		return "north_south"
	case FlipWestEast:
		return "west_east"
	case FlipUpDown:
		return "up_down"
	default:
		return fmt.Sprintf("FlipDirection(%d)", uint8(d))
	}
}

// ParseFlipDirection разбирает направление по имени
func ParseFlipDirection(s string) (FlipDirection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "north_south", "ns":
		return FlipNorthSouth, nil
	case "west_east", "we":
		return FlipWestEast, nil
	case "up_down", "ud":
		return FlipUpDown, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFlipDirection, s)
	}
}

// Transform определяет правила поворота, отражения и перебора данных
// для каждого типа блока. Identity не знает, как поворачивается конкретный тип,
// и принимает результат как есть.
type Transform interface {
	// Rotate90 возвращает данные после поворота на 90° по часовой стрелке
	Rotate90(id BlockID, data int32) int32

	// Rotate90Reverse возвращает данные после поворота на 90° против часовой стрелки
	Rotate90Reverse(id BlockID, data int32) int32

	// Cycle возвращает данные, сдвинутые на increment позиций
	Cycle(id BlockID, data int32, increment int) int32

	// Flip возвращает данные после отражения без указания оси
	Flip(id BlockID, data int32) int32

	// FlipDirection возвращает данные после отражения вдоль оси dir
	FlipDirection(id BlockID, data int32, dir FlipDirection) int32
}

// NopTransform оставляет данные без изменений для любых операций
type NopTransform struct{}

func (NopTransform) Rotate90(_ BlockID, data int32) int32 { return data }
func (NopTransform) Rotate90Reverse(_ BlockID, data int32) int32 { return data }
func (NopTransform) Cycle(_ BlockID, data int32, _ int) int32 { return data }
func (NopTransform) Flip(_ BlockID, data int32) int32 { return data }
func (NopTransform) FlipDirection(_ BlockID, data int32, _ FlipDirection) int32 {
	return data
}
