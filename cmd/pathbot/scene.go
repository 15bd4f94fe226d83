package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/annel0/voxel-pathing/internal/inventory"
	"github.com/annel0/voxel-pathing/internal/pathing/goals"
	"github.com/annel0/voxel-pathing/internal/vec"
	"github.com/annel0/voxel-pathing/internal/world"
	"github.com/annel0/voxel-pathing/internal/world/block"
)

// sceneFlags описывают генерируемый мир и начальную позицию
type sceneFlags struct {
	seed   int64
	radius int
	startX int
	startZ int
}

// buildScene генерирует мир вокруг стартовой колонки и находит ячейку ног на поверхности
func buildScene(f sceneFlags) (*world.Map, vec.Vec3, error) {
	m := world.NewMap()
	gen := world.NewWorldGenerator(f.seed)
	center := vec.Vec2{X: f.startX, Y: f.startZ}.ToChunkCoords()
	gen.Generate(m, center, f.radius)

	feet, ok := m.SurfaceAt(f.startX, f.startZ)
	if !ok {
		return nil, vec.Vec3{}, fmt.Errorf("нет поверхности в колонке %d,%d", f.startX, f.startZ)
	}
	return m, feet, nil
}

// defaultHotbar - кирка, лопата и запас блоков для установки
func defaultHotbar() *inventory.Hotbar {
	h := inventory.NewHotbar()
	h.SetSlot(0, inventory.Slot{Kind: inventory.ItemTool, Tool: inventory.Tool{Kind: block.ToolPickaxe, Speed: 4}})
	h.SetSlot(1, inventory.Slot{Kind: inventory.ItemTool, Tool: inventory.Tool{Kind: block.ToolShovel, Speed: 4}})
	h.SetSlot(2, inventory.Slot{Kind: inventory.ItemBlock, Block: block.DirtBlockID, Count: 64})
	h.SetSlot(3, inventory.Slot{Kind: inventory.ItemBlock, Block: block.CobblestoneBlockID, Count: 64})
	return h
}

// parseGoal разбирает цель вида:
//
//	block:x,y,z  two:x,y,z  near:x,y,z,r  xz:x,z
//
// Несколько целей через ';' образуют AnyOf.
func parseGoal(s string) (goals.Goal, error) {
	parts := strings.Split(s, ";")
	if len(parts) > 1 {
		children := make([]goals.Goal, 0, len(parts))
		for _, p := range parts {
			g, err := parseGoal(p)
			if err != nil {
				return goals.Goal{}, err
			}
			children = append(children, g)
		}
		return goals.AnyOf(children...), nil
	}

	kind, args, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return goals.Goal{}, fmt.Errorf("цель %q: ожидается вид:координаты", s)
	}
	nums, err := parseInts(args)
	if err != nil {
		return goals.Goal{}, fmt.Errorf("цель %q: %w", s, err)
	}

	want := map[string]int{"block": 3, "two": 3, "near": 4, "xz": 2}
	n, known := want[kind]
	if !known {
		return goals.Goal{}, fmt.Errorf("цель %q: неизвестный вид %q", s, kind)
	}
	if len(nums) != n {
		return goals.Goal{}, fmt.Errorf("цель %q: ожидается %d чисел, получено %d", s, n, len(nums))
	}

	switch kind {
	case "block":
		return goals.Block(vec.Vec3{X: nums[0], Y: nums[1], Z: nums[2]}), nil
	case "two":
		return goals.TwoBlocks(vec.Vec3{X: nums[0], Y: nums[1], Z: nums[2]}), nil
	case "near":
		return goals.Near(vec.Vec3{X: nums[0], Y: nums[1], Z: nums[2]}, nums[3]), nil
	default:
		return goals.XZ(nums[0], nums[1]), nil
	}
}

func parseInts(s string) ([]int, error) {
	fields := strings.Split(s, ",")
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("не число %q", f)
		}
		out = append(out, v)
	}
	return out, nil
}
