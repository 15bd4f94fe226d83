package implementations

import "github.com/annel0/voxel-pathing/internal/world/block"

// Жидкости. Уровень течения хранится в состоянии вокселя, а не в свойствах блока.
func init() {
	block.Register(block.WaterBlockID, block.NewStatic(block.WaterBlockID, block.Properties{
		Name:     "Water",
		Passable: true,
		Liquid:   true,
		Water:    true,
		Hardness: 100,
	}))
	block.Register(block.LavaBlockID, block.NewStatic(block.LavaBlockID, block.Properties{
		Name:             "Lava",
		Passable:         true,
		Liquid:           true,
		Lava:             true,
		Hardness:         100,
		AvoidWalkingInto: true,
	}))
}
