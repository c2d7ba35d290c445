// Package catalog загружает правила поворота, отражения и перебора данных
// блоков из YAML и собирает из них block.RuleTable.
package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/annel0/blockedit/internal/logging"
	"github.com/annel0/blockedit/internal/world/block"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultCatalog []byte

// File - корневая структура YAML-каталога
type File struct {
	Blocks []BlockEntry `yaml:"blocks"`
}

// BlockEntry описывает правила одного типа блока
type BlockEntry struct {
	ID          uint16    `yaml:"id"`
	Name        string    `yaml:"name"`
	Mask        int32     `yaml:"mask"`
	Rotate      [][]int32 `yaml:"rotate"`
	Flip        FlipEntry `yaml:"flip"`
	CycleMask   int32     `yaml:"cycle_mask"`
	CycleStates int32     `yaml:"cycle_states"`
}

// FlipEntry задаёт отображения данных по осям отражения
type FlipEntry struct {
	NorthSouth map[int32]int32 `yaml:"north_south"`
	WestEast   map[int32]int32 `yaml:"west_east"`
	UpDown     map[int32]int32 `yaml:"up_down"`
}

// Rule преобразует запись каталога в правило
func (e BlockEntry) Rule() block.Rule {
	r := block.Rule{
		ID:          block.BlockID(e.ID),
		Name:        e.Name,
		Mask:        e.Mask,
		Rotations:   e.Rotate,
		CycleMask:   e.CycleMask,
		CycleStates: e.CycleStates,
	}

	flips := map[block.FlipDirection]map[int32]int32{
		block.FlipNorthSouth: e.Flip.NorthSouth,
		block.FlipWestEast:   e.Flip.WestEast,
		block.FlipUpDown:     e.Flip.UpDown,
	}
	for dir, mapping := range flips {
		if len(mapping) == 0 {
			continue
		}
		if r.Flips == nil {
			r.Flips = make(map[block.FlipDirection]map[int32]int32)
		}
		r.Flips[dir] = mapping
	}
	return r
}

// Parse разбирает YAML-каталог и проверяет правила
func Parse(data []byte) (*block.RuleTable, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("ошибка разбора каталога: %w", err)
	}

	table := block.NewRuleTable()
	for _, entry := range f.Blocks {
		if table.Has(block.BlockID(entry.ID)) {
			return nil, fmt.Errorf("блок %d (%s) описан в каталоге дважды", entry.ID, entry.Name)
		}
		table.Register(entry.Rule())
	}

	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("некорректный каталог: %w", err)
	}
	return table, nil
}

// Load читает каталог из файла
func Load(path string) (*block.RuleTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения каталога %s: %w", path, err)
	}

	table, err := Parse(data)
	if err != nil {
		return nil, err
	}

	logging.GetCatalogLogger().Info("Загружен каталог %s: %d типов блоков", path, table.Len())
	return table, nil
}

// Default возвращает встроенный каталог
func Default() *block.RuleTable {
	table, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("встроенный каталог повреждён: %v", err))
	}
	return table
}

// LoadOrDefault читает каталог из path или возвращает встроенный, если path пуст
func LoadOrDefault(path string) (*block.RuleTable, error) {
	if path == "" {
		logging.GetCatalogLogger().Debug("Путь к каталогу не задан, используется встроенный")
		return Default(), nil
	}
	return Load(path)
}
