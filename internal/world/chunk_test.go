package world

import (
	"testing"

	"github.com/annel0/voxel-pathing/internal/vec"
	"github.com/annel0/voxel-pathing/internal/world/block"
	"github.com/stretchr/testify/assert"
)

func TestChunkCreateAndGetBlock(t *testing.T) {
	coords := vec.Vec2{X: 5, Y: 10}
	chunk := NewChunk(coords)

	assert.Equal(t, coords, chunk.Coords, "Координаты чанка должны совпадать")
	assert.Equal(t, Air, chunk.Get(3, 64, 4), "Новый чанк должен быть заполнен воздухом")
	assert.False(t, chunk.HasChanges(), "Новый чанк не должен иметь изменений")

	chunk.Set(3, 64, 4, NewState(block.StoneBlockID))
	assert.Equal(t, block.StoneBlockID, chunk.Get(3, 64, 4).ID, "Ожидался StoneBlockID")
	assert.True(t, chunk.HasChanges(), "После Set чанк должен иметь изменения")

	chunk.ClearChanges()
	assert.False(t, chunk.HasChanges(), "Изменения должны быть сброшены")
}

func TestChunkOutOfBounds(t *testing.T) {
	chunk := NewChunk(vec.Vec2{})

	chunk.Set(0, -1, 0, NewState(block.StoneBlockID))
	chunk.Set(0, Height, 0, NewState(block.StoneBlockID))
	assert.False(t, chunk.HasChanges(), "Запись вне мира должна игнорироваться")
	assert.Equal(t, Air, chunk.Get(0, -5, 0), "Ниже мира должен читаться воздух")
	assert.Equal(t, Air, chunk.Get(0, Height+3, 0), "Выше мира должен читаться воздух")
}

func TestChunkHighestSolid(t *testing.T) {
	chunk := NewChunk(vec.Vec2{})
	assert.Equal(t, -1, chunk.HighestSolid(1, 1), "Пустая колонка не имеет твёрдых блоков")

	chunk.Set(1, 10, 1, NewState(block.DirtBlockID))
	chunk.Set(1, 11, 1, NewState(block.TallGrassBlockID))
	assert.Equal(t, 10, chunk.HighestSolid(1, 1), "Трава проходима и не считается поверхностью")
}

func TestVoxelStateFlowing(t *testing.T) {
	assert.False(t, VoxelState{ID: block.WaterBlockID}.IsFlowing(), "Источник воды не течёт")
	assert.True(t, VoxelState{ID: block.WaterBlockID, Level: 3}.IsFlowing(), "Вода с уровнем течёт")
	assert.False(t, VoxelState{ID: block.StoneBlockID, Level: 3}.IsFlowing(), "Камень не может течь")
	assert.True(t, Air.IsAir())
}
