package implementations

import "github.com/annel0/voxel-pathing/internal/world/block"

// Рыхлые блоки: добываются лопатой
func init() {
	block.Register(block.DirtBlockID, block.NewStatic(block.DirtBlockID, block.Properties{
		Name:     "Dirt",
		FullCube: true,
		Hardness: 0.5,
		Tool:     block.ToolShovel,
	}))
	block.Register(block.GrassBlockID, block.NewStatic(block.GrassBlockID, block.Properties{
		Name:     "Grass",
		FullCube: true,
		Hardness: 0.6,
		Tool:     block.ToolShovel,
	}))
	// Песок и гравий падают, если под ними пусто
	block.Register(block.SandBlockID, block.NewStatic(block.SandBlockID, block.Properties{
		Name:     "Sand",
		FullCube: true,
		Falling:  true,
		Hardness: 0.5,
		Tool:     block.ToolShovel,
	}))
	block.Register(block.GravelBlockID, block.NewStatic(block.GravelBlockID, block.Properties{
		Name:     "Gravel",
		FullCube: true,
		Falling:  true,
		Hardness: 0.6,
		Tool:     block.ToolShovel,
	}))
	block.Register(block.SoulSandBlockID, block.NewStatic(block.SoulSandBlockID, block.Properties{
		Name:     "SoulSand",
		FullCube: true,
		Slow:     true,
		Hardness: 0.5,
		Tool:     block.ToolShovel,
	}))
}
