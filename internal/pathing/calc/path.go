package calc

import (
	"github.com/annel0/voxel-pathing/internal/pathing/goals"
	"github.com/annel0/voxel-pathing/internal/pathing/movement"
	"github.com/annel0/voxel-pathing/internal/vec"
)

// costEpsilon - допуск при сравнении стоимостей сжатого участка и исходных шагов
const costEpsilon = 1e-9

// Path - путь из позиций и связывающих их перемещений.
// movements[i] ведёт из positions[i] в positions[i+1].
type Path struct {
	positions []vec.Vec3
	gs        []float64
	movements []*movement.Movement

	goal     goals.Goal
	ctx      *movement.CalculationContext
	numNodes int

	assembled bool
	truncated bool
}

// NewPath строит путь из цепочки поиска и сжимает прямые участки на одном уровне.
// Перемещения появляются только после Assemble.
func NewPath(chain []ChainNode, goal goals.Goal, ctx *movement.CalculationContext, numNodes int) *Path {
	p := &Path{
		goal:     goal,
		ctx:      ctx,
		numNodes: numNodes,
	}
	kept := compress(chain, ctx)
	p.positions = make([]vec.Vec3, len(kept))
	p.gs = make([]float64, len(kept))
	for i, k := range kept {
		p.positions[i] = chain[k].Pos
		p.gs[i] = chain[k].G
	}
	return p
}

// Assemble собирает путь из результата поиска. Возвращает nil, если
// после проверки по текущему миру не осталось ни одного перемещения.
func Assemble(res Result, goal goals.Goal, ctx *movement.CalculationContext) *Path {
	if !res.Found() {
		return nil
	}
	return NewPath(res.Chain, goal, ctx, res.NodesConsidered).Assemble()
}

// compress возвращает индексы цепочки, остающиеся после сжатия.
// Идёт от конца к началу: участок на одном уровне заменяется прямым перемещением,
// если оно проходимо и не дороже суммы шагов.
func compress(chain []ChainNode, ctx *movement.CalculationContext) []int {
	if len(chain) == 0 {
		return nil
	}
	kept := make([]int, 0, len(chain))
	straightSrc, straightDest := -1, -1
	for i := len(chain) - 1; i >= 0; i-- {
		if straightDest >= 0 && canCompress(chain[i], chain[straightDest], ctx) {
			straightSrc = i
			continue
		}
		if straightSrc >= 0 {
			kept = append(kept, straightSrc)
		}
		kept = append(kept, i)
		straightSrc = -1
		straightDest = i
	}
	if straightSrc >= 0 {
		kept = append(kept, straightSrc)
	}
	for l, r := 0, len(kept)-1; l < r; l, r = l+1, r-1 {
		kept[l], kept[r] = kept[r], kept[l]
	}
	return kept
}

func canCompress(src, dest ChainNode, ctx *movement.CalculationContext) bool {
	if ctx.Avoidance || src.Pos.Y != dest.Pos.Y {
		return false
	}
	cost := movement.NewStraight(src.Pos, dest.Pos).CalculateCost(ctx)
	return !movement.IsInf(cost) && cost <= dest.G-src.G+costEpsilon
}

// Assemble связывает соседние позиции перемещениями по текущему миру.
// Стоимость каждого перемещения - минимум из свежей и запланированной.
// Первая несвязуемая пара обрезает путь. Повторная сборка - ошибка программиста.
func (p *Path) Assemble() *Path {
	if p.assembled {
		panic("calc: path already assembled")
	}
	p.assembled = true
	p.movements = make([]*movement.Movement, 0, len(p.positions))
	for i := 0; i+1 < len(p.positions); i++ {
		m := p.bind(p.positions[i], p.positions[i+1], p.gs[i+1]-p.gs[i])
		if m == nil {
			p.positions = p.positions[:i+1]
			p.gs = p.gs[:i+1]
			p.truncated = true
			break
		}
		p.movements = append(p.movements, m)
	}
	if len(p.movements) == 0 {
		return nil
	}
	return p
}

func (p *Path) bind(src, dest vec.Vec3, planned float64) *movement.Movement {
	if m := movement.Find(p.ctx, src, dest); m != nil {
		if fresh := m.CalculateCost(p.ctx); !movement.IsInf(fresh) {
			m.Override(min(fresh, planned))
			return m
		}
		return nil
	}
	if p.ctx.Avoidance || src.Y != dest.Y {
		return nil
	}
	m := movement.NewStraight(src, dest)
	fresh := m.CalculateCost(p.ctx)
	if movement.IsInf(fresh) {
		return nil
	}
	m.Override(min(fresh, planned))
	return m
}

func (p *Path) mustBeAssembled() {
	if !p.assembled {
		panic("calc: path is not assembled")
	}
}

// Positions возвращает позиции пути. Паникует до сборки.
func (p *Path) Positions() []vec.Vec3 {
	p.mustBeAssembled()
	return p.positions
}

// Movements возвращает перемещения пути. Паникует до сборки.
func (p *Path) Movements() []*movement.Movement {
	p.mustBeAssembled()
	return p.movements
}

// Goal возвращает цель, к которой строился путь
func (p *Path) Goal() goals.Goal { return p.goal }

// Context возвращает снимок, по которому путь собран
func (p *Path) Context() *movement.CalculationContext { return p.ctx }

// NumNodesConsidered - число узлов, созданных поиском
func (p *Path) NumNodesConsidered() int { return p.numNodes }

// IsAssembled возвращает true после Assemble
func (p *Path) IsAssembled() bool { return p.assembled }

// Truncated возвращает true, если путь обрезан при сборке или по границе загрузки
func (p *Path) Truncated() bool { return p.truncated }

// Src возвращает начало пути
func (p *Path) Src() vec.Vec3 { return p.positions[0] }

// Dest возвращает конец пути
func (p *Path) Dest() vec.Vec3 { return p.positions[len(p.positions)-1] }

// Length возвращает число позиций
func (p *Path) Length() int { return len(p.positions) }

// IndexOf возвращает индекс позиции в пути или -1
func (p *Path) IndexOf(pos vec.Vec3) int {
	for i, q := range p.positions {
		if q == pos {
			return i
		}
	}
	return -1
}

// TotalCost суммирует закреплённые стоимости всех перемещений
func (p *Path) TotalCost() float64 {
	return p.TicksRemainingFrom(0)
}

// TicksRemainingFrom суммирует стоимости перемещений начиная с movements[i]
func (p *Path) TicksRemainingFrom(i int) float64 {
	p.mustBeAssembled()
	if i < 0 {
		i = 0
	}
	sum := 0.0
	for _, m := range p.movements[min(i, len(p.movements)):] {
		sum += m.Cost()
	}
	return sum
}

// CutoffAtLoadedChunks обрезает путь перед первой позицией, для которой loaded
// возвращает false. Если от пути не остаётся ни одного перемещения, путь не меняется.
func (p *Path) CutoffAtLoadedChunks(loaded func(vec.Vec3) bool) *Path {
	p.mustBeAssembled()
	for i, pos := range p.positions {
		if loaded(pos) {
			continue
		}
		if i < 2 {
			return p
		}
		return p.cutoff(i - 1)
	}
	return p
}

// cutoff возвращает копию пути, заканчивающуюся позицией last
func (p *Path) cutoff(last int) *Path {
	return &Path{
		positions: p.positions[:last+1:last+1],
		gs:        p.gs[:last+1:last+1],
		movements: p.movements[:last:last],
		goal:      p.goal,
		ctx:       p.ctx,
		numNodes:  p.numNodes,
		assembled: true,
		truncated: true,
	}
}
