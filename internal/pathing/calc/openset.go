package calc

import (
	"math"

	"github.com/annel0/voxel-pathing/internal/vec"
)

// tieEpsilon - значения f, отличающиеся меньше чем на эту величину, считаются равными
const tieEpsilon = 1e-9

// node - запись арены поиска. Ссылка на предыдущий узел хранится индексом.
type node struct {
	pos       vec.Vec3
	g         float64
	h         float64
	prev      int32
	heapIndex int
	closed    bool
}

func (n *node) f() float64 {
	return n.g + n.h
}

// openSet - двоичная куча индексов арены, упорядоченная по f.
// При равных f первым идёт узел с большим g, затем с меньшим индексом.
type openSet struct {
	arena *[]node
	items []int32
}

func (o *openSet) Len() int { return len(o.items) }

func (o *openSet) Less(i, j int) bool {
	ai, bi := o.items[i], o.items[j]
	a, b := &(*o.arena)[ai], &(*o.arena)[bi]
	fa, fb := a.f(), b.f()
	if math.Abs(fa-fb) >= tieEpsilon {
		return fa < fb
	}
	if a.g != b.g {
		return a.g > b.g
	}
	return ai < bi
}

func (o *openSet) Swap(i, j int) {
	o.items[i], o.items[j] = o.items[j], o.items[i]
	(*o.arena)[o.items[i]].heapIndex = i
	(*o.arena)[o.items[j]].heapIndex = j
}

func (o *openSet) Push(x any) {
	idx := x.(int32)
	(*o.arena)[idx].heapIndex = len(o.items)
	o.items = append(o.items, idx)
}

func (o *openSet) Pop() any {
	old := o.items
	n := len(old)
	idx := old[n-1]
	o.items = old[:n-1]
	(*o.arena)[idx].heapIndex = -1
	return idx
}
