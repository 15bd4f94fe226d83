// Package implementations регистрирует каталог блоков при импорте.
//
// Регистрация разнесена по файлам семейств блоков (air.go, stone.go, dirt.go,
// water.go, tree.go, cactus.go); этот файл проверяет, что каталог полон.
package implementations

import (
	"fmt"

	"github.com/annel0/voxel-pathing/internal/world/block"
)

// Catalogue - все блоки, которые обязаны быть зарегистрированы
var Catalogue = []block.BlockID{
	block.AirBlockID, block.StoneBlockID, block.GrassBlockID, block.WaterBlockID,
	block.SandBlockID, block.DirtBlockID, block.GravelBlockID, block.CobblestoneBlockID,
	block.BedrockBlockID, block.LavaBlockID, block.IceBlockID, block.SoulSandBlockID,
	block.GlassBlockID, block.PlanksBlockID, block.ObsidianBlockID, block.NetherrackBlockID,
	block.MagmaBlockID,
	block.FlowerBlockID, block.TreeBlockID, block.CactusBlockID, block.TallGrassBlockID,
	block.LeavesBlockID, block.SnowLayerBlockID, block.TorchBlockID,
	block.ChestBlockID, block.DoorBlockID, block.CraftingTableBlockID, block.LadderBlockID,
	block.VineBlockID, block.SlabBlockID,
	block.PortalBlockID, block.SpawnerBlockID, block.FireBlockID, block.WebBlockID,
	block.InfestedBlockID,
}

// Verify возвращает ошибку, если какой-то блок каталога не зарегистрирован
func Verify() error {
	for _, id := range Catalogue {
		if !block.IsValidBlockID(id) {
			return fmt.Errorf("блок %d не зарегистрирован", id)
		}
	}
	return nil
}
