package movement

import (
	"math"

	"github.com/annel0/voxel-pathing/internal/vec"
)

// NewDiagonal создаёт диагональный шаг в направлении d1+d2
func NewDiagonal(src vec.Vec3, d1, d2 vec.Direction) *Movement {
	a := src.Offset(d1)
	b := src.Offset(d2)
	dest := a.Offset(d2)
	return &Movement{
		Type:             TypeDiagonal,
		Src:              src,
		Dest:             dest,
		positionsToBreak: []vec.Vec3{dest.Up(), dest},
		positionsToPlace: []vec.Vec3{dest.Down()},
		cornerA:          [2]vec.Vec3{a, a.Up()},
		cornerB:          [2]vec.Vec3{b, b.Up()},
	}
}

func (m *Movement) diagonalCost(ctx *CalculationContext) float64 {
	w := ctx.World
	if !CanWalkThrough(w, m.Dest) || !CanWalkThrough(w, m.Dest.Up()) {
		return CostInf
	}
	if !CanWalkOn(w, m.Dest.Down()) {
		return CostInf
	}
	if isHot(w, m.Dest.Down()) || isHot(w, m.cornerA[0].Down()) || isHot(w, m.cornerB[0].Down()) {
		return CostInf
	}
	for _, pos := range []vec.Vec3{m.cornerA[0], m.cornerA[1], m.cornerB[0], m.cornerB[1]} {
		if AvoidWalkingInto(w.Get(pos)) {
			return CostInf
		}
	}

	multiplier := WalkOneBlockCost
	slow := isSlow(w, m.Dest.Down()) || isSlow(w, m.Src.Down())
	if slow {
		multiplier *= WalkOneInWaterCost / WalkOneBlockCost
	}

	aBlocked := !CanWalkThrough(w, m.cornerA[0]) || !CanWalkThrough(w, m.cornerA[1])
	bBlocked := !CanWalkThrough(w, m.cornerB[0]) || !CanWalkThrough(w, m.cornerB[1])
	mining := 0.0
	switch {
	case aBlocked && bBlocked:
		return CostInf
	case aBlocked:
		mining = MiningDuration(ctx, m.cornerA[1], true) + MiningDuration(ctx, m.cornerA[0], false)
	case bBlocked:
		mining = MiningDuration(ctx, m.cornerB[1], true) + MiningDuration(ctx, m.cornerB[0], false)
	}
	if IsInf(mining) {
		return CostInf
	}

	water := isWater(w, m.Src) || isWater(w, m.Dest)
	if water {
		multiplier *= WalkOneInWaterCost / WalkOneBlockCost
	}
	if !aBlocked && !bBlocked && !water && !slow {
		multiplier = SprintOneBlockCost
	}
	return multiplier*math.Sqrt2 + mining
}
