package calc

import (
	"fmt"
	"time"

	"github.com/annel0/voxel-pathing/internal/vec"
)

// ResultKind - исход поиска
type ResultKind uint8

const (
	Success        ResultKind = iota // цель достигнута
	PartialTimeout                   // время вышло, возвращена лучшая частичная цепочка
	Cancelled                        // поиск отменён
	NoPath                           // открытое множество исчерпано
)

func (k ResultKind) String() string {
	switch k {
	case Success:
		return "Success"
	case PartialTimeout:
		return "PartialTimeout"
	case Cancelled:
		return "Cancelled"
	case NoPath:
		return "NoPath"
	}
	return fmt.Sprintf("ResultKind(%d)", k)
}

// ChainNode - ячейка цепочки и накопленная до неё стоимость
type ChainNode struct {
	Pos vec.Vec3
	G   float64
}

// Result - итог поиска. Арена узлов после извлечения цепочки не сохраняется.
type Result struct {
	Kind            ResultKind
	Chain           []ChainNode // от старта к концу; пустая, если пути нет
	NodesConsidered int
	Duration        time.Duration
}

// Found возвращает true, если цепочка содержит хотя бы одно перемещение
func (r Result) Found() bool {
	return len(r.Chain) > 1
}

// Positions возвращает ячейки цепочки
func (r Result) Positions() []vec.Vec3 {
	return chainPositions(r.Chain)
}

func chainPositions(chain []ChainNode) []vec.Vec3 {
	if len(chain) == 0 {
		return nil
	}
	out := make([]vec.Vec3, len(chain))
	for i, n := range chain {
		out[i] = n.Pos
	}
	return out
}
