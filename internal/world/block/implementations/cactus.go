package implementations

import "github.com/annel0/voxel-pathing/internal/world/block"

// Опасные блоки: их нельзя задевать при движении
func init() {
	block.Register(block.CactusBlockID, block.NewStatic(block.CactusBlockID, block.Properties{
		Name:             "Cactus",
		Hardness:         0.4,
		AvoidWalkingInto: true,
	}))
	block.Register(block.FireBlockID, block.NewStatic(block.FireBlockID, block.Properties{
		Name:             "Fire",
		Replaceable:      true,
		AvoidWalkingInto: true,
	}))
	block.Register(block.WebBlockID, block.NewStatic(block.WebBlockID, block.Properties{
		Name:             "Web",
		Hardness:         4.0,
		Tool:             block.ToolShears,
		RequiresTool:     true,
		AvoidWalkingInto: true,
	}))
	block.Register(block.PortalBlockID, block.NewStatic(block.PortalBlockID, block.Properties{
		Name:             "Portal",
		Hardness:         -1,
		AvoidWalkingInto: true,
	}))
	block.Register(block.SpawnerBlockID, block.NewStatic(block.SpawnerBlockID, block.Properties{
		Name:         "Spawner",
		StandOn:      true,
		Hardness:     5.0,
		Tool:         block.ToolPickaxe,
		RequiresTool: true,
	}))
}
