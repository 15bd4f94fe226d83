package movement

import "github.com/annel0/voxel-pathing/internal/vec"

// Move - элемент каталога перемещений
type Move struct {
	Name  string
	apply func(ctx *CalculationContext, src vec.Vec3) *Movement
}

// Apply создаёт скелет перемещения из src или nil, если оно неприменимо
func (mv Move) Apply(ctx *CalculationContext, src vec.Vec3) *Movement {
	return mv.apply(ctx, src)
}

func traverse(dir vec.Direction) func(*CalculationContext, vec.Vec3) *Movement {
	return func(_ *CalculationContext, src vec.Vec3) *Movement { return NewTraverse(src, dir) }
}

func ascend(dir vec.Direction) func(*CalculationContext, vec.Vec3) *Movement {
	return func(_ *CalculationContext, src vec.Vec3) *Movement { return NewAscend(src, dir) }
}

func fallFamily(dir vec.Direction) func(*CalculationContext, vec.Vec3) *Movement {
	return func(ctx *CalculationContext, src vec.Vec3) *Movement { return descendOrFall(ctx, src, dir) }
}

func diagonal(d1, d2 vec.Direction) func(*CalculationContext, vec.Vec3) *Movement {
	return func(_ *CalculationContext, src vec.Vec3) *Movement { return NewDiagonal(src, d1, d2) }
}

// Moves - каталог в фиксированном порядке. При равной стоимости выигрывает
// перемещение с меньшим индексом.
var Moves = [...]Move{
	{"TraverseNorth", traverse(vec.North)},
	{"TraverseSouth", traverse(vec.South)},
	{"TraverseEast", traverse(vec.East)},
	{"TraverseWest", traverse(vec.West)},
	{"AscendNorth", ascend(vec.North)},
	{"AscendSouth", ascend(vec.South)},
	{"AscendEast", ascend(vec.East)},
	{"AscendWest", ascend(vec.West)},
	{"DescendNorth", fallFamily(vec.North)},
	{"DescendSouth", fallFamily(vec.South)},
	{"DescendEast", fallFamily(vec.East)},
	{"DescendWest", fallFamily(vec.West)},
	{"Downward", func(_ *CalculationContext, src vec.Vec3) *Movement { return NewDownward(src) }},
	{"DiagonalNorthEast", diagonal(vec.North, vec.East)},
	{"DiagonalNorthWest", diagonal(vec.North, vec.West)},
	{"DiagonalSouthEast", diagonal(vec.South, vec.East)},
	{"DiagonalSouthWest", diagonal(vec.South, vec.West)},
}

// Generate перечисляет скелеты перемещений из src в порядке каталога.
// Стоимость не вычисляется.
func Generate(ctx *CalculationContext, src vec.Vec3) []*Movement {
	return AppendGenerated(make([]*Movement, 0, len(Moves)), ctx, src)
}

// AppendGenerated дописывает скелеты в dst, позволяя переиспользовать срез
func AppendGenerated(dst []*Movement, ctx *CalculationContext, src vec.Vec3) []*Movement {
	for _, mv := range Moves {
		if m := mv.Apply(ctx, src); m != nil {
			dst = append(dst, m)
		}
	}
	return dst
}

// Find ищет в каталоге перемещение из src в dest и возвращает первое совпадение
func Find(ctx *CalculationContext, src, dest vec.Vec3) *Movement {
	for _, mv := range Moves {
		if m := mv.Apply(ctx, src); m != nil && m.Dest == dest {
			return m
		}
	}
	return nil
}
