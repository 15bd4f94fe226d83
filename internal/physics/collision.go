package physics

import (
	"math"

	"github.com/annel0/voxel-pathing/internal/vec"
)

// collisionEpsilon - зазор, чтобы стоящий вплотную коллайдер не задевал соседние ячейки
const collisionEpsilon = 1e-7

// BoxCollider - вертикальный прямоугольный коллайдер, привязанный к точке ступней
type BoxCollider struct {
	HalfWidth float64 // половина ширины по X и Z
	Height    float64 // высота от ступней
}

// NewBoxCollider создаёт новый коллайдер с указанными размерами
func NewBoxCollider(width, height float64) *BoxCollider {
	return &BoxCollider{
		HalfWidth: width / 2,
		Height:    height,
	}
}

// AgentCollider - размеры агента: 0.6 × 1.8
func AgentCollider() *BoxCollider {
	return NewBoxCollider(0.6, 1.8)
}

// Cells возвращает все ячейки, которые пересекает коллайдер, стоящий в pos
func (bc *BoxCollider) Cells(pos vec.Vec3Float) []vec.Vec3 {
	minY := int(math.Floor(pos.Y + collisionEpsilon))
	maxY := int(math.Floor(pos.Y + bc.Height - collisionEpsilon))
	var cells []vec.Vec3
	for y := minY; y <= maxY; y++ {
		cells = bc.layer(cells, pos, y)
	}
	return cells
}

// Support возвращает ячейки непосредственно под ступнями коллайдера
func (bc *BoxCollider) Support(pos vec.Vec3Float) []vec.Vec3 {
	return bc.layer(nil, pos, int(math.Floor(pos.Y-2*collisionEpsilon)))
}

func (bc *BoxCollider) layer(dst []vec.Vec3, pos vec.Vec3Float, y int) []vec.Vec3 {
	minX := int(math.Floor(pos.X - bc.HalfWidth + collisionEpsilon))
	maxX := int(math.Floor(pos.X + bc.HalfWidth - collisionEpsilon))
	minZ := int(math.Floor(pos.Z - bc.HalfWidth + collisionEpsilon))
	maxZ := int(math.Floor(pos.Z + bc.HalfWidth - collisionEpsilon))
	for x := minX; x <= maxX; x++ {
		for z := minZ; z <= maxZ; z++ {
			dst = append(dst, vec.Vec3{X: x, Y: y, Z: z})
		}
	}
	return dst
}

// Intersects проверяет, пересекает ли коллайдер ячейку cell
func (bc *BoxCollider) Intersects(pos vec.Vec3Float, cell vec.Vec3) bool {
	for _, c := range bc.Cells(pos) {
		if c == cell {
			return true
		}
	}
	return false
}

// CanMoveToPosition проверяет, может ли коллайдер встать в newPos.
// solid сообщает, является ли ячейка препятствием.
func CanMoveToPosition(newPos vec.Vec3Float, collider *BoxCollider, solid func(vec.Vec3) bool) bool {
	for _, cell := range collider.Cells(newPos) {
		if solid(cell) {
			return false
		}
	}
	return true
}

// HasSupport проверяет, стоит ли коллайдер хотя бы одним углом на препятствии
func HasSupport(pos vec.Vec3Float, collider *BoxCollider, solid func(vec.Vec3) bool) bool {
	for _, cell := range collider.Support(pos) {
		if solid(cell) {
			return true
		}
	}
	return false
}
