package movement

import (
	"fmt"
	"math"

	"github.com/annel0/voxel-pathing/internal/vec"
	"github.com/annel0/voxel-pathing/internal/world"
)

// Type - вид перемещения
type Type uint8

const (
	TypeTraverse Type = iota
	TypeAscend
	TypeDescend
	TypeFall
	TypeDownward
	TypeDiagonal
	TypeStraight
)

var typeNames = [...]string{
	TypeTraverse: "Traverse",
	TypeAscend:   "Ascend",
	TypeDescend:  "Descend",
	TypeFall:     "Fall",
	TypeDownward: "Downward",
	TypeDiagonal: "Diagonal",
	TypeStraight: "Straight",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", t)
}

// Movement - перемещение между двумя ячейками: скелет при поиске,
// после сборки пути несёт переопределённую стоимость.
type Movement struct {
	Type Type
	Src  vec.Vec3
	Dest vec.Vec3

	positionsToBreak []vec.Vec3 // сверху вниз
	positionsToPlace []vec.Vec3
	against          []vec.Vec3 // грани, к которым можно приставить блок опоры

	// Для диагонали: две пары угловых ячеек (ноги, голова)
	cornerA [2]vec.Vec3
	cornerB [2]vec.Vec3

	cost    float64
	costSet bool
}

// CalculateCost вычисляет стоимость перемещения в тиках по снимку ctx.
// Результат неотрицателен или равен CostInf.
func (m *Movement) CalculateCost(ctx *CalculationContext) float64 {
	var cost float64
	switch m.Type {
	case TypeTraverse:
		cost = m.traverseCost(ctx)
	case TypeAscend:
		cost = m.ascendCost(ctx)
	case TypeDescend:
		cost = m.descendCost(ctx)
	case TypeFall:
		cost = m.fallCost(ctx)
	case TypeDownward:
		cost = m.downwardCost(ctx)
	case TypeDiagonal:
		cost = m.diagonalCost(ctx)
	case TypeStraight:
		cost = m.straightCost(ctx)
	default:
		return CostInf
	}
	if math.IsNaN(cost) || cost < 0 || IsInf(cost) {
		return CostInf
	}
	if ctx.Avoidance && nearHazard(ctx.World, m.Dest) {
		cost *= ctx.AvoidanceCoefficient
	}
	return cost
}

// Override закрепляет стоимость, вычисленную при сборке пути
func (m *Movement) Override(cost float64) {
	m.cost = cost
	m.costSet = true
}

// Cost возвращает закреплённую стоимость или CostInf, если она не задана
func (m *Movement) Cost() float64 {
	if !m.costSet {
		return CostInf
	}
	return m.cost
}

// PositionsToBreak возвращает все ячейки, которые, возможно, придётся сломать
func (m *Movement) PositionsToBreak() []vec.Vec3 {
	return m.positionsToBreak
}

// PositionsToPlace возвращает ячейки, куда, возможно, придётся поставить блок
func (m *Movement) PositionsToPlace() []vec.Vec3 {
	return m.positionsToPlace
}

// ToBreak возвращает ячейки, которые сейчас мешают перемещению
func (m *Movement) ToBreak(w world.Accessor) []vec.Vec3 {
	var result []vec.Vec3
	if m.Type == TypeDiagonal {
		// Ломаем только ту пару углов, которую учла стоимость
		aBlocked := !CanWalkThrough(w, m.cornerA[0]) || !CanWalkThrough(w, m.cornerA[1])
		bBlocked := !CanWalkThrough(w, m.cornerB[0]) || !CanWalkThrough(w, m.cornerB[1])
		switch {
		case aBlocked && !bBlocked:
			result = blockedOf(w, result, m.cornerA[1], m.cornerA[0])
		case bBlocked && !aBlocked:
			result = blockedOf(w, result, m.cornerB[1], m.cornerB[0])
		}
	}
	return blockedOf(w, result, m.positionsToBreak...)
}

func blockedOf(w world.Accessor, dst []vec.Vec3, positions ...vec.Vec3) []vec.Vec3 {
	for _, pos := range positions {
		if !CanWalkThrough(w, pos) {
			dst = append(dst, pos)
		}
	}
	return dst
}

// ToPlace возвращает ячейки опоры, которые сейчас нужно достроить
func (m *Movement) ToPlace(w world.Accessor) []vec.Vec3 {
	var result []vec.Vec3
	for _, pos := range m.positionsToPlace {
		if !CanWalkOn(w, pos) {
			result = append(result, pos)
		}
	}
	return result
}

// ToWalkInto возвращает угловые ячейки диагонали, в которые упрётся агент
func (m *Movement) ToWalkInto(w world.Accessor) []vec.Vec3 {
	if m.Type != TypeDiagonal {
		return nil
	}
	var result []vec.Vec3
	for _, pos := range []vec.Vec3{m.cornerA[0], m.cornerA[1], m.cornerB[0], m.cornerB[1]} {
		if !CanWalkThrough(w, pos) {
			result = append(result, pos)
		}
	}
	return result
}

// PlaceAgainst выбирает грань для установки блока опоры place.
// back == true означает установку с отступлением назад к блоку под src.
func (m *Movement) PlaceAgainst(w world.Accessor, place vec.Vec3) (against vec.Vec3, back bool, ok bool) {
	for _, candidate := range m.against {
		if CanPlaceAgainst(w, candidate) {
			return candidate, false, true
		}
	}
	if m.Type == TypeTraverse && place == m.Dest.Down() && CanPlaceAgainst(w, m.Src.Down()) {
		return m.Src.Down(), true, true
	}
	return vec.Vec3{}, false, false
}

// SprintEligible возвращает true, если перемещение можно пройти бегом
func (m *Movement) SprintEligible(w world.Accessor) bool {
	switch m.Type {
	case TypeTraverse:
		return CanWalkOn(w, m.Dest.Down()) &&
			CanWalkThrough(w, m.Dest) && CanWalkThrough(w, m.Dest.Up()) &&
			!isWater(w, m.Dest) && !isWater(w, m.Dest.Up()) &&
			!isSlow(w, m.Dest.Down())
	case TypeDiagonal:
		return len(m.ToWalkInto(w)) == 0 &&
			!isWater(w, m.Src) && !isWater(w, m.Dest) &&
			!isSlow(w, m.Src.Down()) && !isSlow(w, m.Dest.Down())
	case TypeStraight:
		for _, cell := range supercover(m.Src, m.Dest) {
			if isWater(w, cell) || isWater(w, cell.Up()) || isSlow(w, cell.Down()) {
				return false
			}
		}
		return true
	}
	return false
}

// NeedsJump возвращает true для перемещений с подъёмом
func (m *Movement) NeedsJump() bool {
	return m.Dest.Y > m.Src.Y
}

func (m *Movement) String() string {
	return fmt.Sprintf("%s(%d,%d,%d -> %d,%d,%d)", m.Type,
		m.Src.X, m.Src.Y, m.Src.Z, m.Dest.X, m.Dest.Y, m.Dest.Z)
}
