package movement

import (
	"math"

	"github.com/annel0/voxel-pathing/internal/vec"
)

// NewStraight создаёт прямое перемещение по одному уровню.
// Такие перемещения появляются только при сжатии пути.
func NewStraight(src, dest vec.Vec3) *Movement {
	return &Movement{
		Type: TypeStraight,
		Src:  src,
		Dest: vec.Vec3{X: dest.X, Y: src.Y, Z: dest.Z},
	}
}

// OctileLength возвращает длину пути по сетке с диагоналями между двумя колонками
func OctileLength(src, dest vec.Vec3) float64 {
	dx := math.Abs(float64(dest.X - src.X))
	dz := math.Abs(float64(dest.Z - src.Z))
	return math.Max(dx, dz) + (math.Sqrt2-1)*math.Min(dx, dz)
}

func (m *Movement) straightCost(ctx *CalculationContext) float64 {
	w := ctx.World
	if m.Src == m.Dest {
		return CostInf
	}
	perBlock := SprintOneBlockCost
	for _, cell := range supercover(m.Src, m.Dest) {
		floor := cell.Down()
		if !CanWalkThrough(w, cell) || !CanWalkThrough(w, cell.Up()) || !CanWalkOn(w, floor) || isHot(w, floor) {
			return CostInf
		}
		if isWater(w, cell) || isWater(w, cell.Up()) || isSlow(w, floor) {
			perBlock = WalkOneInWaterCost
		}
	}
	return OctileLength(m.Src, m.Dest) * perBlock
}

// supercover возвращает все колонки, которые задевает отрезок между центрами src и dest.
// При прохождении через угол в результат попадают обе соседние ячейки.
func supercover(src, dest vec.Vec3) []vec.Vec3 {
	dx, dz := dest.X-src.X, dest.Z-src.Z
	nx, nz := abs(dx), abs(dz)
	sx, sz := sign(dx), sign(dz)

	x, z, y := src.X, src.Z, src.Y
	cells := make([]vec.Vec3, 0, nx+nz+1)
	cells = append(cells, src)
	for ix, iz := 0, 0; ix < nx || iz < nz; {
		d := (1+2*ix)*nz - (1+2*iz)*nx
		switch {
		case d == 0:
			cells = append(cells, vec.Vec3{X: x + sx, Y: y, Z: z}, vec.Vec3{X: x, Y: y, Z: z + sz})
			x += sx
			z += sz
			ix++
			iz++
		case d < 0:
			x += sx
			ix++
		default:
			z += sz
			iz++
		}
		cells = append(cells, vec.Vec3{X: x, Y: y, Z: z})
	}
	return cells
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
