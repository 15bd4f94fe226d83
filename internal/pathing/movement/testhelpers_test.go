package movement

import (
	"github.com/annel0/voxel-pathing/internal/config"
	"github.com/annel0/voxel-pathing/internal/inventory"
	"github.com/annel0/voxel-pathing/internal/vec"
	"github.com/annel0/voxel-pathing/internal/world"
	"github.com/annel0/voxel-pathing/internal/world/block"
)

const floorY = 63

// origin - ячейка, в которой стоит агент в тестовых мирах
var origin = vec.Vec3{X: 0, Y: floorY + 1, Z: 0}

// newFlatWorld создаёт каменную площадку толщиной в четыре блока под origin
func newFlatWorld() *world.Map {
	w := world.NewMap()
	w.Fill(vec.Vec3{X: -16, Y: floorY - 3, Z: -16}, vec.Vec3{X: 16, Y: floorY, Z: 16}, world.NewState(block.StoneBlockID))
	return w
}

func set(w *world.Map, pos vec.Vec3, id block.BlockID) {
	w.Set(pos, world.NewState(id))
}

// newHotbar возвращает панель с киркой, лопатой, топором и землёй
func newHotbar(throwaway bool) *inventory.Hotbar {
	h := inventory.NewHotbar()
	h.SetSlot(0, inventory.Slot{Kind: inventory.ItemTool, Tool: inventory.Tool{Kind: block.ToolPickaxe, Speed: 4}})
	h.SetSlot(1, inventory.Slot{Kind: inventory.ItemTool, Tool: inventory.Tool{Kind: block.ToolShovel, Speed: 4}})
	h.SetSlot(2, inventory.Slot{Kind: inventory.ItemTool, Tool: inventory.Tool{Kind: block.ToolAxe, Speed: 4}})
	if throwaway {
		h.SetSlot(3, inventory.Slot{Kind: inventory.ItemBlock, Block: block.DirtBlockID, Count: 64})
	}
	return h
}

func newCtx(w world.Accessor, throwaway bool, mutate ...func(*config.Pathing)) *CalculationContext {
	cfg := config.DefaultPathing()
	for _, fn := range mutate {
		fn(&cfg)
	}
	return NewContext(cfg, w, newHotbar(throwaway), nil)
}
