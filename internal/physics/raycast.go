package physics

import (
	"math"

	"github.com/annel0/voxel-pathing/internal/vec"
)

// Hit - результат трассировки луча
type Hit struct {
	Cell   vec.Vec3 // ячейка, в которую попал луч
	Normal vec.Vec3 // нормаль грани попадания; нулевая, если луч начался внутри ячейки
	Dist   float64
}

// Adjacent возвращает ячейку перед гранью попадания
func (h Hit) Adjacent() vec.Vec3 {
	return h.Cell.Add(h.Normal)
}

// Raycast идёт по ячейкам вдоль луча (обход Amanatides–Woo) до первой ячейки,
// для которой hit вернёт true, но не дальше maxDist. dir должен быть ненулевым.
func Raycast(origin, dir vec.Vec3Float, maxDist float64, hit func(vec.Vec3) bool) (Hit, bool) {
	length := math.Sqrt(dir.X*dir.X + dir.Y*dir.Y + dir.Z*dir.Z)
	if length == 0 {
		return Hit{}, false
	}
	d := [3]float64{dir.X / length, dir.Y / length, dir.Z / length}
	o := [3]float64{origin.X, origin.Y, origin.Z}
	cell := [3]int{int(math.Floor(o[0])), int(math.Floor(o[1])), int(math.Floor(o[2]))}

	var step [3]int
	var tMax, tDelta [3]float64
	for i := 0; i < 3; i++ {
		switch {
		case d[i] > 0:
			step[i] = 1
			tMax[i] = (float64(cell[i]+1) - o[i]) / d[i]
			tDelta[i] = 1 / d[i]
		case d[i] < 0:
			step[i] = -1
			tMax[i] = (float64(cell[i]) - o[i]) / d[i]
			tDelta[i] = -1 / d[i]
		default:
			tMax[i] = math.Inf(1)
			tDelta[i] = math.Inf(1)
		}
	}

	toVec := func(c [3]int) vec.Vec3 { return vec.Vec3{X: c[0], Y: c[1], Z: c[2]} }
	if hit(toVec(cell)) {
		return Hit{Cell: toVec(cell)}, true
	}

	for {
		axis := 0
		if tMax[1] < tMax[axis] {
			axis = 1
		}
		if tMax[2] < tMax[axis] {
			axis = 2
		}
		t := tMax[axis]
		if t > maxDist {
			return Hit{}, false
		}
		cell[axis] += step[axis]
		tMax[axis] += tDelta[axis]

		if hit(toVec(cell)) {
			var normal [3]int
			normal[axis] = -step[axis]
			return Hit{Cell: toVec(cell), Normal: toVec(normal), Dist: t}, true
		}
	}
}
