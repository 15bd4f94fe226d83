package implementations

import "github.com/annel0/voxel-pathing/internal/world/block"

// Проходимые блоки: воздух и всё, сквозь что можно идти
func init() {
	block.Register(block.AirBlockID, block.NewStatic(block.AirBlockID, block.Properties{
		Name:        "Air",
		Passable:    true,
		Replaceable: true,
	}))
	block.Register(block.FlowerBlockID, block.NewStatic(block.FlowerBlockID, block.Properties{
		Name:        "Flower",
		Passable:    true,
		Replaceable: true,
	}))
	block.Register(block.TallGrassBlockID, block.NewStatic(block.TallGrassBlockID, block.Properties{
		Name:        "TallGrass",
		Passable:    true,
		Replaceable: true,
		Tool:        block.ToolShears,
	}))
	block.Register(block.TorchBlockID, block.NewStatic(block.TorchBlockID, block.Properties{
		Name:     "Torch",
		Passable: true,
	}))
	// Снег толщиной в один слой не мешает ни идти, ни ставить блоки
	block.Register(block.SnowLayerBlockID, block.NewStatic(block.SnowLayerBlockID, block.Properties{
		Name:        "SnowLayer",
		Passable:    true,
		Replaceable: true,
		Hardness:    0.1,
		Tool:        block.ToolShovel,
	}))
}
