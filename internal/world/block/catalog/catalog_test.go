package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/annel0/blockedit/internal/world/block"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	rt := Default()

	for _, id := range []block.BlockID{
		block.AirBlockID, block.StoneBlockID, block.LogBlockID, block.WoolBlockID,
		block.TorchBlockID, block.OakStairsBlockID, block.LadderBlockID, block.StoneStairsBlockID,
	} {
		assert.True(t, rt.Has(id), "Встроенный каталог должен описывать блок %d", id)
	}
	assert.NoError(t, rt.Validate())
}

func TestDefaultCatalogRotations(t *testing.T) {
	rt := Default()

	// Каждый ориентируемый блок возвращается в исходное состояние за четыре поворота
	for _, id := range []block.BlockID{block.TorchBlockID, block.OakStairsBlockID, block.LadderBlockID, block.LogBlockID} {
		for data := int32(0); data < 16; data++ {
			b := block.NewIdentityData(id, data)
			for i := 0; i < 4; i++ {
				b.Rotate90(rt)
			}
			assert.Equal(t, data, b.Data, "block=%d data=%d", id, data)
		}
	}

	// Факел на восточной стене после поворота по часовой стрелке смотрит на юг
	assert.Equal(t, int32(3), rt.Rotate90(block.TorchBlockID, 1))
	// Напольный факел не вращается
	assert.Equal(t, int32(5), rt.Rotate90(block.TorchBlockID, 5))
	// Бревно: порода сохраняется, ось меняется
	assert.Equal(t, int32(8|2), rt.Rotate90(block.LogBlockID, 4|2))
	// Лестница на северной стене после поворота смотрит на восток
	assert.Equal(t, int32(5), rt.Rotate90(block.LadderBlockID, 2))
}

func TestDefaultCatalogFlipAndCycle(t *testing.T) {
	rt := Default()

	assert.Equal(t, int32(4), rt.FlipDirection(block.OakStairsBlockID, 0, block.FlipUpDown))
	assert.Equal(t, int32(3), rt.FlipDirection(block.LadderBlockID, 2, block.FlipNorthSouth))
	assert.Equal(t, int32(2), rt.FlipDirection(block.TorchBlockID, 1, block.FlipWestEast))

	assert.Equal(t, int32(15), rt.Cycle(block.WoolBlockID, 0, -1))
	assert.Equal(t, int32(4|3), rt.Cycle(block.LogBlockID, 4|2, 1), "Перебор породы не трогает ось")
}

func TestParse(t *testing.T) {
	data := []byte(`
blocks:
  - id: 200
    name: door
    mask: 3
    rotate:
      - [0, 1, 2, 3]
    flip:
      west_east: {0: 2, 2: 0}
    cycle_mask: 4
    cycle_states: 2
`)
	rt, err := Parse(data)
	require.NoError(t, err)

	r, ok := rt.Get(200)
	require.True(t, ok)
	assert.Equal(t, "door", r.Name)
	assert.Equal(t, int32(3), r.Mask)
	assert.Equal(t, [][]int32{{0, 1, 2, 3}}, r.Rotations)
	assert.Equal(t, map[int32]int32{0: 2, 2: 0}, r.Flips[block.FlipWestEast])
	assert.NotContains(t, r.Flips, block.FlipUpDown)
	assert.Equal(t, int32(1), rt.Rotate90(200, 0))
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte("blocks: [oops"))
	assert.Error(t, err)

	_, err = Parse([]byte(`
blocks:
  - id: 1
  - id: 1
`))
	assert.ErrorContains(t, err, "дважды")

	_, err = Parse([]byte(`
blocks:
  - id: 5
    mask: 1
    rotate:
      - [0, 2]
`))
	assert.ErrorContains(t, err, "outside mask")
}

func TestLoadOrDefault(t *testing.T) {
	rt, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.True(t, rt.Has(block.OakStairsBlockID))

	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("blocks:\n  - id: 9\n    name: custom\n"), 0644))

	rt, err = LoadOrDefault(path)
	require.NoError(t, err)
	assert.Equal(t, []block.BlockID{9}, rt.IDs())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
