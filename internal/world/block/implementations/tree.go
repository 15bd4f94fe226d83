package implementations

import "github.com/annel0/voxel-pathing/internal/world/block"

// Деревянные блоки: добываются топором
func init() {
	wood := func(id block.BlockID, name string, hardness float64, costly bool) {
		block.Register(id, block.NewStatic(id, block.Properties{
			Name:     name,
			FullCube: true,
			Hardness: hardness,
			Tool:     block.ToolAxe,
			Costly:   costly,
		}))
	}

	wood(block.TreeBlockID, "Log", 2.0, false)
	wood(block.PlanksBlockID, "Planks", 2.0, false)
	// Верстак ломать можно, но в десять раз дороже
	wood(block.CraftingTableBlockID, "CraftingTable", 2.5, true)

	block.Register(block.LeavesBlockID, block.NewStatic(block.LeavesBlockID, block.Properties{
		Name:     "Leaves",
		StandOn:  true,
		Hardness: 0.2,
		Tool:     block.ToolShears,
	}))
	block.Register(block.ChestBlockID, block.NewStatic(block.ChestBlockID, block.Properties{
		Name:     "Chest",
		StandOn:  true,
		Hardness: 2.5,
		Tool:     block.ToolAxe,
	}))
	block.Register(block.DoorBlockID, block.NewStatic(block.DoorBlockID, block.Properties{
		Name:     "Door",
		Hardness: 3.0,
		Tool:     block.ToolAxe,
	}))
	block.Register(block.LadderBlockID, block.NewStatic(block.LadderBlockID, block.Properties{
		Name:      "Ladder",
		Climbable: true,
		Hardness:  0.4,
		Tool:      block.ToolAxe,
	}))
	block.Register(block.VineBlockID, block.NewStatic(block.VineBlockID, block.Properties{
		Name:        "Vine",
		Passable:    true,
		Climbable:   true,
		Replaceable: true,
		Hardness:    0.2,
		Tool:        block.ToolShears,
	}))
	block.Register(block.SlabBlockID, block.NewStatic(block.SlabBlockID, block.Properties{
		Name:         "Slab",
		StandOn:      true,
		Hardness:     2.0,
		Tool:         block.ToolPickaxe,
		RequiresTool: true,
	}))
	block.Register(block.GlassBlockID, block.NewStatic(block.GlassBlockID, block.Properties{
		Name:     "Glass",
		StandOn:  true,
		Hardness: 0.3,
	}))
}
