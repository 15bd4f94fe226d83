package movement

import "github.com/annel0/voxel-pathing/internal/vec"

// NewAscend создаёт прыжок на блок вверх в направлении dir
func NewAscend(src vec.Vec3, dir vec.Direction) *Movement {
	dest := src.Offset(dir).Up()
	placeAt := dest.Down()
	m := &Movement{
		Type:             TypeAscend,
		Src:              src,
		Dest:             dest,
		positionsToBreak: []vec.Vec3{src.Up(2), dest.Up(), dest},
		positionsToPlace: []vec.Vec3{placeAt},
	}
	for _, d := range vec.Horizontals {
		if d == dir.Opposite() {
			continue
		}
		m.against = append(m.against, placeAt.Offset(d))
	}
	m.against = append(m.against, placeAt.Down())
	return m
}

func (m *Movement) ascendCost(ctx *CalculationContext) float64 {
	w := ctx.World
	if isClimbable(w, m.Src.Down()) {
		return CostInf
	}

	placeAt := m.Dest.Down()
	placeState := w.Get(placeAt)
	placing := false
	if !canWalkOn(w, placeAt, placeState) {
		if !ctx.HasThrowaway || !isReplaceable(placeState) {
			return CostInf
		}
		for _, against := range m.against {
			if CanPlaceAgainst(w, against) {
				placing = true
				break
			}
		}
		if !placing {
			return CostInf
		}
	}

	// Если над головой песок, а под ним не песок, то после добычи src.up(2)
	// песок упадёт в проём
	if w.Get(m.Src.Up(3)).Props().Falling && !w.Get(m.Src.Up(2)).Props().Falling {
		return CostInf
	}

	walk := WalkOneBlockCost * slowFloorMultiplier(w, placeAt)
	total := JumpOneBlockCost
	if walk > total {
		total = walk
	}
	if placing {
		total += PlaceOneBlockCost
	}

	total += MiningDuration(ctx, m.Src.Up(2), true)
	total += MiningDuration(ctx, m.Dest.Up(), true)
	total += MiningDuration(ctx, m.Dest, false)
	return total
}
