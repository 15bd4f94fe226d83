package implementations

import (
	"testing"

	"github.com/annel0/voxel-pathing/internal/world/block"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogueRegistered(t *testing.T) {
	require.NoError(t, Verify(), "Весь каталог блоков должен быть зарегистрирован")
}

func TestBlockProperties(t *testing.T) {
	air := block.PropertiesOf(block.AirBlockID)
	assert.True(t, air.Passable, "Воздух должен быть проходимым")
	assert.False(t, air.FullCube, "Воздух не является полным кубом")

	sand := block.PropertiesOf(block.SandBlockID)
	assert.True(t, sand.Falling, "Песок должен падать")
	assert.True(t, sand.FullCube)

	bedrock := block.PropertiesOf(block.BedrockBlockID)
	assert.True(t, bedrock.Unbreakable(), "Бедрок нельзя сломать")

	water := block.PropertiesOf(block.WaterBlockID)
	assert.True(t, water.Liquid && water.Water)

	table := block.PropertiesOf(block.CraftingTableBlockID)
	assert.True(t, table.Costly, "Верстак должен быть дорогим для разрушения")

	assert.True(t, block.PropertiesOf(block.CactusBlockID).AvoidWalkingInto)
	assert.True(t, block.PropertiesOf(block.IceBlockID).AvoidBreaking)
}

func TestUnknownBlockIsSolid(t *testing.T) {
	props := block.PropertiesOf(block.BlockID(4242))
	assert.Equal(t, "Unknown", props.Name)
	assert.True(t, props.FullCube, "Неизвестный блок считается сплошным")
}
