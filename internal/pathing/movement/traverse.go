package movement

import "github.com/annel0/voxel-pathing/internal/vec"

// NewTraverse создаёт шаг на соседнюю ячейку того же уровня
func NewTraverse(src vec.Vec3, dir vec.Direction) *Movement {
	dest := src.Offset(dir)
	m := &Movement{
		Type:             TypeTraverse,
		Src:              src,
		Dest:             dest,
		positionsToBreak: []vec.Vec3{dest.Up(), dest},
		positionsToPlace: []vec.Vec3{dest.Down()},
	}
	// Ставить опору можно к любой боковой грани, кроме стороны источника.
	// Грань снизу (dest.down(2)) не используется.
	for _, d := range vec.Horizontals {
		if d == dir.Opposite() {
			continue
		}
		m.against = append(m.against, dest.Offset(d).Down())
	}
	return m
}

func (m *Movement) traverseCost(ctx *CalculationContext) float64 {
	w := ctx.World
	head, feet := m.Dest.Up(), m.Dest
	floor := m.Dest.Down()
	floorState := w.Get(floor)

	water := isWater(w, head) || isWater(w, feet)
	wc := WalkOneBlockCost
	if water {
		wc = WalkOneInWaterCost
	}

	if canWalkOn(w, floor, floorState) {
		slow := floorState.Props().Slow
		if slow {
			wc *= WalkOneInWaterCost / WalkOneBlockCost
		}
		if CanWalkThrough(w, head) && CanWalkThrough(w, feet) {
			if !water && !slow {
				return SprintOneBlockCost
			}
			return wc
		}
		return wc + totalTopDown(ctx, m.positionsToBreak)
	}

	// Мост: нужно поставить блок опоры
	if isClimbable(w, m.Src.Down()) {
		return CostInf
	}
	if !isReplaceable(floorState) || !ctx.HasThrowaway {
		return CostInf
	}
	mining := totalTopDown(ctx, m.positionsToBreak)
	if IsInf(mining) {
		return CostInf
	}
	for _, against := range m.against {
		if CanPlaceAgainst(w, against) {
			return wc + PlaceOneBlockCost + mining
		}
	}
	// Остаётся ставить блок, пятясь на корточках, к блоку под источником
	if isSlow(w, m.Src.Down()) || !CanPlaceAgainst(w, m.Src.Down()) {
		return CostInf
	}
	wc *= SneakOneBlockCost / WalkOneBlockCost
	return wc + PlaceOneBlockCost + mining
}
