package implementations

import "github.com/annel0/voxel-pathing/internal/world/block"

// Каменные блоки: добываются киркой
func init() {
	stone := func(id block.BlockID, name string, hardness float64) {
		block.Register(id, block.NewStatic(id, block.Properties{
			Name:         name,
			FullCube:     true,
			Hardness:     hardness,
			Tool:         block.ToolPickaxe,
			RequiresTool: true,
		}))
	}

	stone(block.StoneBlockID, "Stone", 1.5)
	stone(block.CobblestoneBlockID, "Cobblestone", 2.0)
	stone(block.NetherrackBlockID, "Netherrack", 0.4)
	stone(block.ObsidianBlockID, "Obsidian", 50)

	block.Register(block.BedrockBlockID, block.NewStatic(block.BedrockBlockID, block.Properties{
		Name:     "Bedrock",
		FullCube: true,
		Hardness: -1,
	}))
	// Магма - полный куб, но стоять на ней нельзя
	block.Register(block.MagmaBlockID, block.NewStatic(block.MagmaBlockID, block.Properties{
		Name:         "Magma",
		FullCube:     true,
		Hot:          true,
		Hardness:     0.5,
		Tool:         block.ToolPickaxe,
		RequiresTool: true,
	}))
	// Лёд при разрушении превращается в воду
	block.Register(block.IceBlockID, block.NewStatic(block.IceBlockID, block.Properties{
		Name:          "Ice",
		FullCube:      true,
		Hardness:      0.5,
		Tool:          block.ToolPickaxe,
		AvoidBreaking: true,
	}))
	block.Register(block.InfestedBlockID, block.NewStatic(block.InfestedBlockID, block.Properties{
		Name:          "InfestedStone",
		FullCube:      true,
		Hardness:      0.75,
		AvoidBreaking: true,
	}))
}
