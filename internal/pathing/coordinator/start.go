package coordinator

import (
	"math"
	"slices"

	"github.com/annel0/voxel-pathing/internal/pathing/movement"
	"github.com/annel0/voxel-pathing/internal/vec"
)

// sneakReach - насколько далеко от центра соседней ячейки агент может стоять на её краю
const sneakReach = 0.8

// pathStart возвращает ячейку, с которой разумно начинать поиск.
// Агент, стоящий на краю блока над пустотой, стартует с ячейки этого блока;
// агент в прыжке над опорой стартует на ячейку ниже.
func (c *Coordinator) pathStart() vec.Vec3 {
	pos := c.env.Agent.Position()
	feet := pos.Floor()
	w := c.env.World
	if movement.CanWalkOn(w, feet.Down()) {
		return feet
	}

	if !c.env.Agent.OnGround() {
		if movement.CanWalkOn(w, feet.Down(2)) {
			return feet.Down()
		}
		return feet
	}

	closest := make([]vec.Vec3, 0, 9)
	for dx := -1; dx <= 1; dx++ {
		for dz := -1; dz <= 1; dz++ {
			closest = append(closest, vec.Vec3{X: feet.X + dx, Y: feet.Y, Z: feet.Z + dz})
		}
	}
	dist := func(v vec.Vec3) float64 {
		dx := float64(v.X) + 0.5 - pos.X
		dz := float64(v.Z) + 0.5 - pos.Z
		return dx*dx + dz*dz
	}
	slices.SortStableFunc(closest, func(a, b vec.Vec3) int {
		da, db := dist(a), dist(b)
		switch {
		case da < db:
			return -1
		case da > db:
			return 1
		}
		return 0
	})

	for _, cand := range closest[:4] {
		if math.Abs(float64(cand.X)+0.5-pos.X) > sneakReach && math.Abs(float64(cand.Z)+0.5-pos.Z) > sneakReach {
			continue
		}
		if movement.CanWalkOn(w, cand.Down()) && movement.CanWalkThrough(w, cand) && movement.CanWalkThrough(w, cand.Up()) {
			return cand
		}
	}
	return feet
}
