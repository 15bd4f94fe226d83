package calc

import (
	"container/heap"
	"context"
	"sync/atomic"
	"time"

	"github.com/annel0/voxel-pathing/internal/pathing/goals"
	"github.com/annel0/voxel-pathing/internal/pathing/movement"
	"github.com/annel0/voxel-pathing/internal/vec"
	"github.com/annel0/voxel-pathing/internal/world"
)

const (
	// MinPartialDistance - минимальное удаление (в блоках) частичного пути от старта
	MinPartialDistance = 5
	// MinImprovement - на сколько должна уменьшиться стоимость, чтобы узел обновился
	MinImprovement = 0.01

	deadlineCheckInterval = 64
	snapshotInterval      = 256
)

// Finder - ограниченный по времени A* от стартовой ячейки к цели.
// Один Finder выполняет ровно один поиск.
type Finder struct {
	start   vec.Vec3
	goal    goals.Goal
	ctx     *movement.CalculationContext
	timeout time.Duration

	cancelled  atomic.Bool
	started    atomic.Bool
	bestSoFar  atomic.Pointer[[]vec.Vec3]
	mostRecent atomic.Pointer[[]vec.Vec3]
}

// NewFinder создаёт поиск. timeout ≤ 0 означает отсутствие мягкого дедлайна.
func NewFinder(start vec.Vec3, goal goals.Goal, ctx *movement.CalculationContext, timeout time.Duration) *Finder {
	return &Finder{
		start:   start,
		goal:    goal,
		ctx:     ctx,
		timeout: timeout,
	}
}

// Start возвращает стартовую ячейку поиска
func (f *Finder) Start() vec.Vec3 { return f.start }

// Goal возвращает цель поиска
func (f *Finder) Goal() goals.Goal { return f.goal }

// Context возвращает снимок, по которому считаются стоимости
func (f *Finder) Context() *movement.CalculationContext { return f.ctx }

// Cancel просит поиск остановиться. Безопасен из любой горутины.
func (f *Finder) Cancel() {
	f.cancelled.Store(true)
}

// IsCancelled возвращает true после Cancel
func (f *Finder) IsCancelled() bool {
	return f.cancelled.Load()
}

// BestPathSoFar возвращает последний опубликованный лучший частичный путь.
// Значение может отставать от текущего состояния поиска.
func (f *Finder) BestPathSoFar() []vec.Vec3 {
	if p := f.bestSoFar.Load(); p != nil {
		return *p
	}
	return nil
}

// PathToMostRecentNodeConsidered возвращает путь до последнего раскрытого узла
func (f *Finder) PathToMostRecentNodeConsidered() []vec.Vec3 {
	if p := f.mostRecent.Load(); p != nil {
		return *p
	}
	return nil
}

type search struct {
	arena []node
	index map[vec.Vec3]int32
	open  openSet
}

func (s *search) add(pos vec.Vec3, g, h float64, prev int32) int32 {
	idx := int32(len(s.arena))
	s.arena = append(s.arena, node{pos: pos, g: g, h: h, prev: prev, heapIndex: -1})
	s.index[pos] = idx
	return idx
}

func (s *search) chain(idx int32) []ChainNode {
	if idx < 0 {
		return nil
	}
	n := 0
	for i := idx; i >= 0; i = s.arena[i].prev {
		n++
	}
	out := make([]ChainNode, n)
	for i := idx; i >= 0; i = s.arena[i].prev {
		n--
		out[n] = ChainNode{Pos: s.arena[i].pos, G: s.arena[i].g}
	}
	return out
}

func (s *search) positions(idx int32) []vec.Vec3 {
	return chainPositions(s.chain(idx))
}

// Calculate выполняет поиск. Отмена ctx переносится на флаг отмены.
// Повторный вызов возвращает Cancelled без поиска.
func (f *Finder) Calculate(ctx context.Context) Result {
	began := time.Now()
	if !f.started.CompareAndSwap(false, true) {
		return Result{Kind: Cancelled}
	}
	stop := context.AfterFunc(ctx, f.Cancel)
	defer stop()

	s := &search{
		arena: make([]node, 0, 1024),
		index: make(map[vec.Vec3]int32, 1024),
	}
	s.open.arena = &s.arena

	weight := f.ctx.HeuristicWeight
	if weight <= 0 {
		weight = 1
	}
	heuristic := func(pos vec.Vec3) float64 {
		return f.goal.Heuristic(pos) * weight
	}

	root := s.add(f.start, 0, heuristic(f.start), -1)
	heap.Push(&s.open, root)

	var deadline time.Time
	if f.timeout > 0 {
		deadline = began.Add(f.timeout)
	}

	best := int32(-1)
	expansions := 0
	neighbors := make([]*movement.Movement, 0, len(movement.Moves))

	finish := func(kind ResultKind, idx int32) Result {
		return Result{
			Kind:            kind,
			Chain:           s.chain(idx),
			NodesConsidered: len(s.arena),
			Duration:        time.Since(began),
		}
	}

	for s.open.Len() > 0 {
		if f.cancelled.Load() {
			return finish(Cancelled, best)
		}
		if !deadline.IsZero() && expansions%deadlineCheckInterval == 0 && time.Now().After(deadline) {
			return finish(PartialTimeout, best)
		}

		idx := heap.Pop(&s.open).(int32)
		cur := &s.arena[idx]
		cur.closed = true
		expansions++

		pos, g := cur.pos, cur.g
		if f.goal.IsInGoal(pos) {
			return finish(Success, idx)
		}
		if s.betterPartial(idx, best, f.start) {
			best = idx
		}
		if expansions%snapshotInterval == 0 {
			recent := s.positions(idx)
			f.mostRecent.Store(&recent)
			if best >= 0 {
				bestPath := s.positions(best)
				f.bestSoFar.Store(&bestPath)
			}
		}

		neighbors = movement.AppendGenerated(neighbors[:0], f.ctx, pos)
		for _, m := range neighbors {
			if !world.InBounds(m.Dest.Y) {
				continue
			}
			cost := m.CalculateCost(f.ctx)
			if movement.IsInf(cost) {
				continue
			}
			if f.ctx.IsFavored(m.Dest) {
				cost *= f.ctx.FavorCoefficient
			}
			tentative := g + cost

			ni, seen := s.index[m.Dest]
			if !seen {
				ni = s.add(m.Dest, tentative, heuristic(m.Dest), idx)
				heap.Push(&s.open, ni)
				continue
			}
			nb := &s.arena[ni]
			if nb.closed || nb.g-tentative <= MinImprovement {
				continue
			}
			nb.g = tentative
			nb.prev = idx
			if nb.heapIndex >= 0 {
				heap.Fix(&s.open, nb.heapIndex)
			} else {
				heap.Push(&s.open, ni)
			}
		}
	}
	return finish(NoPath, -1)
}

// betterPartial проверяет, лучше ли раскрытый узел idx текущего кандидата best
// на роль конца частичного пути: дальше MinPartialDistance, меньше f, при равенстве больше g.
func (s *search) betterPartial(idx, best int32, start vec.Vec3) bool {
	n := &s.arena[idx]
	if n.pos.DistanceTo(start) < MinPartialDistance*MinPartialDistance {
		return false
	}
	if best < 0 {
		return true
	}
	b := &s.arena[best]
	fn, fb := n.f(), b.f()
	if fn < fb-tieEpsilon {
		return true
	}
	return fn <= fb+tieEpsilon && n.g > b.g
}
