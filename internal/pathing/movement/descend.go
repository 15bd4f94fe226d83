package movement

import (
	"github.com/annel0/voxel-pathing/internal/vec"
	"github.com/annel0/voxel-pathing/internal/world"
)

// NewDescend создаёт шаг с уступа на один блок вниз
func NewDescend(src, dest vec.Vec3) *Movement {
	return &Movement{
		Type:             TypeDescend,
		Src:              src,
		Dest:             dest,
		positionsToBreak: []vec.Vec3{dest.Up(2), dest.Up(), dest},
		positionsToPlace: []vec.Vec3{dest.Down()},
	}
}

func (m *Movement) descendCost(ctx *CalculationContext) float64 {
	w := ctx.World
	if !CanWalkOn(w, m.Dest.Down()) || isClimbable(w, m.Dest) {
		return CostInf
	}
	walk := WalkOffBlockCost * slowFloorMultiplier(w, m.Src.Down())

	fall := FallCost(1)
	if CenterAfterFallCost > fall {
		fall = CenterAfterFallCost
	}
	return walk + fall + totalTopDown(ctx, m.positionsToBreak)
}

// NewFall создаёт шаг с уступа с падением на несколько блоков
func NewFall(src, dest vec.Vec3) *Movement {
	m := &Movement{
		Type: TypeFall,
		Src:  src,
		Dest: dest,
	}
	// Колонка от уровня головы у источника до точки приземления
	for y := src.Y + 1; y >= dest.Y; y-- {
		m.positionsToBreak = append(m.positionsToBreak, vec.Vec3{X: dest.X, Y: y, Z: dest.Z})
	}
	m.positionsToPlace = []vec.Vec3{dest.Down()}
	return m
}

func (m *Movement) fallCost(ctx *CalculationContext) float64 {
	w := ctx.World
	if isClimbable(w, m.Src.Down()) {
		return CostInf
	}
	height := m.Src.Y - m.Dest.Y
	if height < 1 || len(m.positionsToBreak) < 2 {
		return CostInf
	}

	bucket := 0.0
	if !isWater(w, m.Dest) {
		if !CanWalkOn(w, m.Dest.Down()) {
			return CostInf
		}
		if height > ctx.MaxFallHeightNoWater {
			if !ctx.HasWaterBucket || height > ctx.MaxFallHeightWithWater {
				return CostInf
			}
			bucket = PlaceOneBlockCost
		}
	}

	// Ломать можно только две верхние ячейки колонки
	frontTwo := MiningDuration(ctx, m.positionsToBreak[0], true) + MiningDuration(ctx, m.positionsToBreak[1], false)
	if IsInf(frontTwo) {
		return CostInf
	}
	for _, pos := range m.positionsToBreak[2:] {
		if !CanWalkThrough(w, pos) {
			return CostInf
		}
	}
	return WalkOffBlockCost + FallCost(height) + CenterAfterFallCost + bucket + frontTwo
}

// NewDownward создаёт спуск сквозь пол на один блок вниз
func NewDownward(src vec.Vec3) *Movement {
	dest := src.Down()
	return &Movement{
		Type:             TypeDownward,
		Src:              src,
		Dest:             dest,
		positionsToBreak: []vec.Vec3{dest},
		positionsToPlace: []vec.Vec3{dest.Down()},
	}
}

func (m *Movement) downwardCost(ctx *CalculationContext) float64 {
	if !CanWalkOn(ctx.World, m.Dest.Down()) {
		return CostInf
	}
	return FallCost(1) + MiningDuration(ctx, m.Dest, false)
}

// descendOrFall выбирает между шагом вниз и падением, просматривая колонку
// под соседней ячейкой. Возвращает nil, если безопасного приземления нет.
func descendOrFall(ctx *CalculationContext, src vec.Vec3, dir vec.Direction) *Movement {
	w := ctx.World
	dest := src.Offset(dir)
	if !CanWalkThrough(w, dest.Down(2)) {
		return NewDescend(src, dest.Down())
	}

	for fallHeight := 3; ; fallHeight++ {
		onto := dest.Down(fallHeight)
		if onto.Y < world.MinY {
			return nil
		}
		state := w.Get(onto)
		if state.Props().Water {
			return NewFall(src, onto)
		}
		if canWalkThrough(w, onto, state) {
			continue
		}
		if canWalkOn(w, onto, state) {
			// fallHeight = 4 означает приземление на 3 блока ниже
			if (ctx.HasWaterBucket && fallHeight <= ctx.MaxFallHeightWithWater+1) || fallHeight <= ctx.MaxFallHeightNoWater+1 {
				return NewFall(src, onto.Up())
			}
		}
		return nil
	}
}

// totalTopDown суммирует добычу ячеек, перечисленных сверху вниз;
// верхняя учитывает падающие блоки над собой
func totalTopDown(ctx *CalculationContext, positions []vec.Vec3) float64 {
	sum := 0.0
	for i, pos := range positions {
		sum += MiningDuration(ctx, pos, i == 0)
		if IsInf(sum) {
			return CostInf
		}
	}
	return sum
}
