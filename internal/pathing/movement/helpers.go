package movement

import (
	"github.com/annel0/voxel-pathing/internal/vec"
	"github.com/annel0/voxel-pathing/internal/world"
)

// Предикаты над миром. Все читают только переданный Accessor.

// CanWalkThrough возвращает true, если в ячейке может находиться агент
func CanWalkThrough(w world.Accessor, pos vec.Vec3) bool {
	return canWalkThrough(w, pos, w.Get(pos))
}

func canWalkThrough(w world.Accessor, pos vec.Vec3, state world.VoxelState) bool {
	if state.IsAir() {
		return true
	}
	props := state.Props()
	if props.AvoidWalkingInto {
		return false
	}
	if state.IsFlowing() {
		return false
	}
	if props.Liquid {
		// В толще жидкости не стоим
		if w.Get(pos.Up()).Props().Liquid {
			return false
		}
	}
	return props.Passable || props.Climbable
}

// CanWalkOn возвращает true, если на блоке можно стоять, не проваливаясь.
// Вода считается опорой, только если над ней тоже вода: агент всплывает.
func CanWalkOn(w world.Accessor, pos vec.Vec3) bool {
	return canWalkOn(w, pos, w.Get(pos))
}

func canWalkOn(w world.Accessor, pos vec.Vec3, state world.VoxelState) bool {
	if state.IsAir() {
		return false
	}
	props := state.Props()
	if props.Climbable || props.StandOn {
		return true
	}
	if props.Water {
		return w.Get(pos.Up()).Props().Water
	}
	if props.Hot || props.Lava {
		return false
	}
	return props.FullCube
}

// CanPlaceAgainst возвращает true, если к блоку можно приставить новый
func CanPlaceAgainst(w world.Accessor, pos vec.Vec3) bool {
	return w.Get(pos).Props().FullCube
}

// isReplaceable - ячейку можно занять блоком без предварительной добычи
func isReplaceable(state world.VoxelState) bool {
	props := state.Props()
	return state.IsAir() || (props.Replaceable && !props.Water)
}

// AvoidBreaking возвращает true для блоков, которые нельзя ломать:
// лёд и заражённый камень, а также всё, что касается жидкости сбоку или сверху.
func AvoidBreaking(w world.Accessor, pos vec.Vec3, state world.VoxelState) bool {
	if state.Props().AvoidBreaking {
		return true
	}
	if w.Get(pos.Up()).Props().Liquid {
		return true
	}
	for _, dir := range vec.Horizontals {
		if w.Get(pos.Offset(dir)).Props().Liquid {
			return true
		}
	}
	return false
}

// AvoidWalkingInto возвращает true для опасных блоков
func AvoidWalkingInto(state world.VoxelState) bool {
	return state.Props().AvoidWalkingInto
}

func isWater(w world.Accessor, pos vec.Vec3) bool {
	return w.Get(pos).Props().Water
}

func isSlow(w world.Accessor, pos vec.Vec3) bool {
	return w.Get(pos).Props().Slow
}

func isClimbable(w world.Accessor, pos vec.Vec3) bool {
	return w.Get(pos).Props().Climbable
}

func isHot(w world.Accessor, pos vec.Vec3) bool {
	return w.Get(pos).Props().Hot
}

// MiningDuration возвращает время добычи блока в тиках: 0, если ломать не нужно,
// CostInf, если ломать нельзя. При includeFalling добавляется стоимость
// падающих блоков над ячейкой.
func MiningDuration(ctx *CalculationContext, pos vec.Vec3, includeFalling bool) float64 {
	return miningDuration(ctx, pos, ctx.World.Get(pos), includeFalling)
}

func miningDuration(ctx *CalculationContext, pos vec.Vec3, state world.VoxelState, includeFalling bool) float64 {
	if state.IsAir() || canWalkThrough(ctx.World, pos, state) {
		// Ломать не будем, поэтому падающие блоки выше не важны
		return 0
	}
	props := state.Props()
	if !ctx.AllowBreak || props.Liquid || props.Unbreakable() {
		return CostInf
	}
	if AvoidBreaking(ctx.World, pos, state) {
		return CostInf
	}

	m := 1.0
	if props.Costly {
		m = 10
	}
	effectiveness := ctx.Tools.BestToolEffectiveness(state)
	if effectiveness <= 0 {
		return CostInf
	}
	result := m / effectiveness

	if includeFalling {
		up := pos.Up()
		above := ctx.World.Get(up)
		if above.Props().Falling {
			result += miningDuration(ctx, up, above, true)
		}
	}
	return result
}

// slowFloorMultiplier возвращает множитель ходьбы по песку душ
func slowFloorMultiplier(w world.Accessor, floor vec.Vec3) float64 {
	if isSlow(w, floor) {
		return WalkOneInWaterCost / WalkOneBlockCost
	}
	return 1
}

// nearHazard возвращает true, если рядом с ячейкой (или в ней) есть опасный блок
func nearHazard(w world.Accessor, pos vec.Vec3) bool {
	for dy := -1; dy <= 2; dy++ {
		center := pos.Up(dy)
		if AvoidWalkingInto(w.Get(center)) {
			return true
		}
		for _, dir := range vec.Horizontals {
			if AvoidWalkingInto(w.Get(center.Offset(dir))) {
				return true
			}
		}
	}
	return false
}
