// Package goals описывает цели навигации: предикат достижения и эвристику.
//
// Goal - размеченное объединение вариантов (Kind). Все операции перебирают
// варианты исчерпывающим switch; цель неизменяема после создания.
package goals

import (
	"fmt"
	"math"
	"strings"

	"github.com/annel0/voxel-pathing/internal/pathing/movement"
	"github.com/annel0/voxel-pathing/internal/vec"
)

// Kind - вариант цели
type Kind uint8

const (
	KindBlock     Kind = iota // ровно одна ячейка
	KindTwoBlocks             // ноги или голова в ячейке
	KindNear                  // в пределах радиуса от ячейки
	KindXZ                    // любая высота в колонке
	KindAnyOf                 // любая из вложенных целей
)

// Goal - цель навигации
type Goal struct {
	Kind     Kind
	Pos      vec.Vec3
	Range    int
	Children []Goal
}

// Block создаёт цель «стоять ногами в ячейке»
func Block(pos vec.Vec3) Goal {
	return Goal{Kind: KindBlock, Pos: pos}
}

// TwoBlocks создаёт цель «ноги или голова в ячейке»
func TwoBlocks(pos vec.Vec3) Goal {
	return Goal{Kind: KindTwoBlocks, Pos: pos}
}

// Near создаёт цель «не дальше r блоков от ячейки»
func Near(pos vec.Vec3, r int) Goal {
	if r < 0 {
		r = 0
	}
	return Goal{Kind: KindNear, Pos: pos, Range: r}
}

// XZ создаёт цель «в колонке x, z на любой высоте»
func XZ(x, z int) Goal {
	return Goal{Kind: KindXZ, Pos: vec.Vec3{X: x, Z: z}}
}

// AnyOf создаёт составную цель
func AnyOf(children ...Goal) Goal {
	cp := make([]Goal, len(children))
	copy(cp, children)
	return Goal{Kind: KindAnyOf, Children: cp}
}

// IsInGoal возвращает true, если ячейка удовлетворяет цели
func (g Goal) IsInGoal(pos vec.Vec3) bool {
	switch g.Kind {
	case KindBlock:
		return pos == g.Pos
	case KindTwoBlocks:
		return pos.X == g.Pos.X && pos.Z == g.Pos.Z && (pos.Y == g.Pos.Y || pos.Y == g.Pos.Y-1)
	case KindNear:
		d := pos.Sub(g.Pos)
		return d.X*d.X+d.Y*d.Y+d.Z*d.Z <= g.Range*g.Range
	case KindXZ:
		return pos.X == g.Pos.X && pos.Z == g.Pos.Z
	case KindAnyOf:
		for _, child := range g.Children {
			if child.IsInGoal(pos) {
				return true
			}
		}
		return false
	}
	return false
}

// Heuristic оценивает оставшуюся стоимость пути от ячейки до цели в тиках
func (g Goal) Heuristic(pos vec.Vec3) float64 {
	switch g.Kind {
	case KindBlock, KindNear:
		return xzHeuristic(pos.X-g.Pos.X, pos.Z-g.Pos.Z) + yHeuristic(g.Pos.Y, pos.Y)
	case KindTwoBlocks:
		dy := pos.Y - g.Pos.Y
		if dy < 0 {
			// Снизу достаточно дотянуться головой
			dy++
		}
		return xzHeuristic(pos.X-g.Pos.X, pos.Z-g.Pos.Z) + yHeuristic(0, dy)
	case KindXZ:
		return xzHeuristic(pos.X-g.Pos.X, pos.Z-g.Pos.Z)
	case KindAnyOf:
		if len(g.Children) == 0 {
			return 0
		}
		best := math.Inf(1)
		for _, child := range g.Children {
			if h := child.Heuristic(pos); h < best {
				best = h
			}
		}
		return best
	}
	return 0
}

// xzHeuristic - октильное расстояние по горизонтали, пройденное бегом
func xzHeuristic(dx, dz int) float64 {
	x := math.Abs(float64(dx))
	z := math.Abs(float64(dz))
	var straight, diagonal float64
	if x < z {
		straight = z - x
		diagonal = x
	} else {
		straight = x - z
		diagonal = z
	}
	return (diagonal*math.Sqrt2 + straight) * movement.SprintOneBlockCost
}

// yHeuristic - стоимость смены высоты: вниз падаем, вверх прыгаем
func yHeuristic(goalY, currentY int) float64 {
	switch {
	case currentY > goalY:
		return movement.FallNBlocksCost[2] / 2 * float64(currentY-goalY)
	case currentY < goalY:
		return float64(goalY-currentY) * movement.JumpOneBlockCost
	}
	return 0
}

// Representative возвращает ячейку, которую цель олицетворяет, если такая есть
func (g Goal) Representative() (vec.Vec3, bool) {
	switch g.Kind {
	case KindBlock, KindTwoBlocks, KindNear:
		return g.Pos, true
	}
	return vec.Vec3{}, false
}

// Simplify заменяет цель на колонку XZ, если её ячейка не загружена:
// высота цели в незагруженной области не имеет смысла для эвристики.
// Вложенные цели упрощаются по отдельности.
func (g Goal) Simplify(loaded func(vec.Vec3) bool) Goal {
	if g.Kind == KindAnyOf {
		children := make([]Goal, len(g.Children))
		for i, child := range g.Children {
			children[i] = child.Simplify(loaded)
		}
		return Goal{Kind: KindAnyOf, Children: children}
	}
	if pos, ok := g.Representative(); ok && !loaded(pos) {
		return XZ(pos.X, pos.Z)
	}
	return g
}

// Equal сравнивает цели структурно
func (g Goal) Equal(other Goal) bool {
	if g.Kind != other.Kind || g.Pos != other.Pos || g.Range != other.Range || len(g.Children) != len(other.Children) {
		return false
	}
	for i := range g.Children {
		if !g.Children[i].Equal(other.Children[i]) {
			return false
		}
	}
	return true
}

func (g Goal) String() string {
	switch g.Kind {
	case KindBlock:
		return fmt.Sprintf("Block{%d,%d,%d}", g.Pos.X, g.Pos.Y, g.Pos.Z)
	case KindTwoBlocks:
		return fmt.Sprintf("TwoBlocks{%d,%d,%d}", g.Pos.X, g.Pos.Y, g.Pos.Z)
	case KindNear:
		return fmt.Sprintf("Near{%d,%d,%d r=%d}", g.Pos.X, g.Pos.Y, g.Pos.Z, g.Range)
	case KindXZ:
		return fmt.Sprintf("XZ{%d,%d}", g.Pos.X, g.Pos.Z)
	case KindAnyOf:
		parts := make([]string, len(g.Children))
		for i, child := range g.Children {
			parts[i] = child.String()
		}
		return "AnyOf[" + strings.Join(parts, ", ") + "]"
	}
	return "Unknown"
}
