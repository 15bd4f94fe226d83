// Package coordinator управляет участками пути: текущим, который исполняется,
// и следующим, который планируется заранее, пока текущий ещё идёт.
// Поиск выполняется в фоновой горутине, одновременно не больше одного.
package coordinator

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/annel0/voxel-pathing/internal/config"
	"github.com/annel0/voxel-pathing/internal/eventbus"
	"github.com/annel0/voxel-pathing/internal/observability"
	"github.com/annel0/voxel-pathing/internal/pathing/calc"
	"github.com/annel0/voxel-pathing/internal/pathing/goals"
	"github.com/annel0/voxel-pathing/internal/pathing/movement"
	"github.com/annel0/voxel-pathing/internal/pathing/path"
	"github.com/annel0/voxel-pathing/internal/vec"
	"github.com/annel0/voxel-pathing/internal/world"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	// ErrNoGoal - цель не задана
	ErrNoGoal = errors.New("coordinator: цель не задана")
	// ErrBusy - поиск уже выполняется
	ErrBusy = errors.New("coordinator: поиск уже выполняется")
)

// EventSink принимает события координатора
type EventSink interface {
	PathEvent(ev eventbus.PathEvent)
}

// SinkFunc адаптирует функцию к EventSink
type SinkFunc func(ev eventbus.PathEvent)

func (f SinkFunc) PathEvent(ev eventbus.PathEvent) { f(ev) }

type nopSink struct{}

func (nopSink) PathEvent(eventbus.PathEvent) {}

// Option настраивает координатор
type Option func(*Coordinator)

// WithEventSink задаёт получателя событий
func WithEventSink(sink EventSink) Option {
	return func(c *Coordinator) { c.sink = sink }
}

// WithTracer задаёт трейсер для спанов поиска
func WithTracer(t trace.Tracer) Option {
	return func(c *Coordinator) { c.tracer = t }
}

// Coordinator - оркестратор навигации. Tick вызывается из потока тиков;
// SetGoalAndPath, Replan, Cancel, Snapshot и State можно вызывать из любой
// горутины: все они берут planMu.
type Coordinator struct {
	sink   EventSink
	tracer trace.Tracer

	rootCtx    context.Context
	rootCancel context.CancelFunc
	wg         sync.WaitGroup

	// planMu охраняет текущий и следующий участки, цель и флаги состояния.
	// Порядок захвата: planMu снаружи, calcMu внутри.
	planMu          sync.Mutex
	env             path.Env
	goal            goals.Goal
	hasGoal         bool
	atGoal          bool
	failed          bool
	pending         bool
	planAheadFailed bool
	generation      uint64
	segmentStart    vec.Vec3
	current         *path.Executor
	next            *calc.Path
	events          []eventbus.PathEvent

	// calcMu охраняет выполняющийся поиск
	calcMu     sync.Mutex
	inProgress *calc.Finder
	searchID   string

	emitMu sync.Mutex

	searches    atomic.Int64
	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

// New создаёт координатор поверх окружения агента
func New(env path.Env, opts ...Option) *Coordinator {
	c := &Coordinator{
		env:  env,
		sink: nopSink{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.tracer == nil {
		c.tracer = observability.Tracer()
	}
	c.rootCtx, c.rootCancel = context.WithCancel(context.Background())
	return c
}

// SetSettings заменяет настройки для следующих поисков и участков
func (c *Coordinator) SetSettings(cfg config.Pathing) {
	c.planMu.Lock()
	c.env.Settings = cfg
	c.planMu.Unlock()
}

// Goal возвращает текущую цель
func (c *Coordinator) Goal() (goals.Goal, bool) {
	c.planMu.Lock()
	defer c.planMu.Unlock()
	return c.goal, c.hasGoal
}

// SetGoalAndPath задаёт цель и запускает поиск от текущей позиции агента.
// Та же цель при уже идущей навигации ничего не меняет. Если поиск по старой
// цели ещё выполняется, он отменяется, а новый стартует на одном из следующих тиков.
func (c *Coordinator) SetGoalAndPath(g goals.Goal) {
	c.planMu.Lock()
	defer c.flush()
	defer c.planMu.Unlock()

	if c.hasGoal && c.goal.Equal(g) && !c.failed && (c.current != nil || c.pending || c.calculating()) {
		return
	}
	c.goal = g
	c.hasGoal = true
	c.resetLocked()
	c.pending = true
	c.tryStartLocked()
}

// Replan отбрасывает участки и ищет путь заново к той же цели
func (c *Coordinator) Replan() error {
	c.planMu.Lock()
	defer c.flush()
	defer c.planMu.Unlock()

	if !c.hasGoal {
		return ErrNoGoal
	}
	if c.calculating() {
		return ErrBusy
	}
	c.resetLocked()
	c.pending = true
	c.tryStartLocked()
	return nil
}

// Cancel сбрасывает цель и оба участка, отпускает все органы управления
// и отменяет выполняющийся поиск.
func (c *Coordinator) Cancel() {
	c.planMu.Lock()
	defer c.flush()
	defer c.planMu.Unlock()

	c.queue(eventbus.PathEvent{Kind: eventbus.Canceled})
	c.resetLocked()
	c.hasGoal = false
	c.goal = goals.Goal{}
}

// resetLocked отбрасывает участки и отменяет поиск. Результат отменённого
// поиска будет проигнорирован по номеру поколения.
func (c *Coordinator) resetLocked() {
	c.generation++
	c.calcMu.Lock()
	if c.inProgress != nil {
		c.inProgress.Cancel()
	}
	c.calcMu.Unlock()
	c.current = nil
	c.next = nil
	c.atGoal = false
	c.failed = false
	c.pending = false
	c.planAheadFailed = false
	if c.env.Actuator != nil {
		c.env.Actuator.ClearAll()
	}
}

// Close отменяет поиск и дожидается завершения фоновых горутин
func (c *Coordinator) Close() {
	c.planMu.Lock()
	c.generation++
	c.calcMu.Lock()
	if c.inProgress != nil {
		c.inProgress.Cancel()
	}
	c.calcMu.Unlock()
	c.planMu.Unlock()
	c.rootCancel()
	c.wg.Wait()
}

// Wait дожидается завершения выполняющегося поиска
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

// Tick продвигает навигацию на один тик
func (c *Coordinator) Tick() {
	c.planMu.Lock()
	c.tickLocked()
	c.planMu.Unlock()
	c.flush()
}

func (c *Coordinator) tickLocked() {
	if c.pending {
		c.tryStartLocked()
	}
	if c.current == nil {
		return
	}

	safe := c.current.Tick()
	if c.current.Done() {
		c.segmentEndedLocked()
		return
	}

	if safe && c.next != nil && c.env.Agent.OnGround() {
		if idx := c.next.IndexOf(c.feet()); idx >= 0 {
			// перемещение только что закончилось: сразу переходим на следующий участок
			c.queue(eventbus.PathEvent{Kind: eventbus.SplicingOntoNextEarly})
			c.promoteLocked(idx)
			return
		}
	}
	if c.next != nil && c.current.Path().Dest() == c.next.Dest() {
		c.next = nil
	}

	c.calcMu.Lock()
	defer c.calcMu.Unlock()
	if c.inProgress != nil || c.next != nil || c.planAheadFailed {
		return
	}
	cur := c.current.Path()
	if c.goal.IsInGoal(cur.Dest()) {
		return
	}
	// текущее перемещение не учитываем: длинное последнее перемещение не должно задерживать планирование
	if cur.TicksRemainingFrom(c.current.Cursor()+1) < float64(c.env.Settings.PlanningLookaheadTicks) {
		c.startSearchLocked(cur.Dest(), false)
	}
}

// segmentEndedLocked решает, что делать после окончания текущего участка
func (c *Coordinator) segmentEndedLocked() {
	c.current = nil
	c.planAheadFailed = false
	feet := c.feet()
	if c.goal.IsInGoal(feet) {
		c.atGoal = true
		c.next = nil
		c.queue(eventbus.PathEvent{Kind: eventbus.AtGoal})
		return
	}

	start := c.pathStart()
	c.segmentStart = start
	if c.next != nil && c.next.IndexOf(feet) < 0 && c.next.IndexOf(start) < 0 {
		c.queue(eventbus.PathEvent{Kind: eventbus.DiscardNext})
		c.next = nil
	}
	if c.next != nil {
		idx := c.next.IndexOf(feet)
		if idx < 0 {
			idx = c.next.IndexOf(start)
		}
		c.queue(eventbus.PathEvent{Kind: eventbus.ContinuingOntoPlannedNext})
		c.promoteLocked(idx)
		return
	}

	c.calcMu.Lock()
	defer c.calcMu.Unlock()
	if c.inProgress != nil {
		c.queue(eventbus.PathEvent{Kind: eventbus.PathFinishedNextStillCalculating})
		return
	}
	c.startSearchLocked(start, true)
}

// promoteLocked делает следующий участок текущим начиная с позиции idx
// и сразу исполняет один тик, чтобы не терять его.
func (c *Coordinator) promoteLocked(idx int) {
	c.current = path.NewExecutorFrom(c.next, c.env, idx)
	c.next = nil
	c.planAheadFailed = false
	c.current.Tick()
	if c.current.Done() {
		c.segmentEndedLocked()
	}
}

// tryStartLocked запускает отложенный поиск, если ни один не выполняется
func (c *Coordinator) tryStartLocked() {
	if !c.hasGoal {
		c.pending = false
		return
	}
	c.calcMu.Lock()
	defer c.calcMu.Unlock()
	if c.inProgress != nil {
		return
	}
	c.pending = false

	start := c.pathStart()
	c.segmentStart = start
	if c.goal.IsInGoal(start) || c.goal.IsInGoal(c.feet()) {
		c.atGoal = true
		c.queue(eventbus.PathEvent{Kind: eventbus.AtGoal})
		return
	}
	c.startSearchLocked(start, true)
}

// startSearchLocked запускает фоновый поиск: основной от позиции агента
// или следующего участка от конца текущего. Вызывается под обоими замками.
func (c *Coordinator) startSearchLocked(start vec.Vec3, primary bool) {
	if c.inProgress != nil {
		return
	}
	goal := c.goal.Simplify(func(pos vec.Vec3) bool { return world.IsLoaded(c.env.World, pos) })

	var favored []vec.Vec3
	if c.current != nil {
		favored = c.current.Path().Positions()
	}
	settings := c.env.Settings
	ctx := movement.NewContext(settings, c.env.World, c.env.Inventory, favored)

	timeout := time.Duration(settings.PathTimeoutMs) * time.Millisecond
	if !primary {
		timeout = time.Duration(settings.PlanAheadTimeoutMs) * time.Millisecond
	}

	finder := calc.NewFinder(start, goal, ctx, timeout)
	id := uuid.NewString()
	c.inProgress = finder
	c.searchID = id
	c.searches.Add(1)
	kind := eventbus.CalcStarted
	if !primary {
		kind = eventbus.NextSegmentCalcStarted
	}
	c.queue(eventbus.PathEvent{Kind: kind, SearchID: id, Goal: goal.String()})

	job := search{
		finder:     finder,
		id:         id,
		goal:       goal,
		generation: c.generation,
		primary:    primary,
		cutoff:     settings.CutoffAtLoadBoundary,
	}
	c.wg.Add(1)
	go c.run(job)
}

type search struct {
	finder     *calc.Finder
	id         string
	goal       goals.Goal
	generation uint64
	primary    bool
	cutoff     bool
}

func (c *Coordinator) run(job search) {
	defer c.wg.Done()

	n := c.inFlight.Add(1)
	for {
		peak := c.maxInFlight.Load()
		if n <= peak || c.maxInFlight.CompareAndSwap(peak, n) {
			break
		}
	}

	start := job.finder.Start()
	ctx, span := c.tracer.Start(c.rootCtx, "pathing.search", trace.WithAttributes(
		attribute.String("search.id", job.id),
		attribute.String("search.goal", job.goal.String()),
		attribute.Bool("search.primary", job.primary),
		attribute.IntSlice("search.start", []int{start.X, start.Y, start.Z}),
	))
	res := job.finder.Calculate(ctx)
	c.inFlight.Add(-1)

	var p *calc.Path
	if res.Kind != calc.Cancelled {
		p = calc.Assemble(res, job.goal, job.finder.Context())
		if p != nil && job.cutoff {
			p = p.CutoffAtLoadedChunks(func(pos vec.Vec3) bool { return world.IsLoaded(c.env.World, pos) })
		}
	}

	span.SetAttributes(
		attribute.String("search.result", res.Kind.String()),
		attribute.Int("search.nodes", res.NodesConsidered),
		attribute.Int64("search.duration_ms", res.Duration.Milliseconds()),
	)
	if p != nil {
		span.SetAttributes(
			attribute.Int("path.movements", len(p.Movements())),
			attribute.Float64("path.cost", p.TotalCost()),
			attribute.Bool("path.truncated", p.Truncated()),
		)
	} else if res.Kind != calc.Cancelled {
		span.SetStatus(codes.Error, "путь не найден")
	}

	c.planMu.Lock()
	c.completeLocked(job, res, p)
	c.calcMu.Lock()
	if c.inProgress == job.finder {
		c.inProgress = nil
	}
	c.calcMu.Unlock()
	c.planMu.Unlock()
	span.End()
	c.flush()
}

// completeLocked устанавливает результат поиска текущим или следующим участком
func (c *Coordinator) completeLocked(job search, res calc.Result, p *calc.Path) {
	if job.generation != c.generation {
		// цель сменилась или навигация отменена
		return
	}
	ev := eventbus.PathEvent{SearchID: job.id, Result: res.Kind.String(), Nodes: res.NodesConsidered}
	if p != nil {
		ev.Movements = len(p.Movements())
		ev.Cost = p.TotalCost()
	}

	if c.current == nil {
		switch {
		case p != nil && p.IndexOf(c.segmentStart) >= 0:
			c.current = path.NewExecutorFrom(p, c.env, p.IndexOf(c.segmentStart))
			ev.Kind = eventbus.CalcFinishedNowExecuting
			c.queue(ev)
		case p != nil:
			// участок начинается не там, где стоит агент: ищем заново
			ev.Kind = eventbus.DiscardNext
			ev.Detail = "участок начинается не с позиции агента"
			c.queue(ev)
			c.pending = true
		case res.Kind != calc.Cancelled && !job.primary:
			// участок закончился раньше, чем поиск следующего: агент стоит не там,
			// откуда шёл этот поиск, поэтому ищем заново от его позиции
			ev.Kind = eventbus.NextCalcFailed
			c.queue(ev)
			c.pending = true
		case res.Kind != calc.Cancelled:
			ev.Kind = eventbus.CalcFailed
			c.failed = true
			c.queue(ev)
		}
		return
	}

	if c.next != nil {
		return
	}
	switch {
	case p != nil && p.Src() == c.current.Path().Dest():
		c.next = p
		ev.Kind = eventbus.NextSegmentCalcFinished
		c.queue(ev)
	case p != nil:
		ev.Kind = eventbus.DiscardNext
		ev.Detail = "следующий участок не продолжает текущий"
		c.queue(ev)
	case res.Kind != calc.Cancelled:
		c.planAheadFailed = true
		ev.Kind = eventbus.NextCalcFailed
		c.queue(ev)
	}
}

// calculating сообщает, выполняется ли поиск. Вызывается под planMu.
func (c *Coordinator) calculating() bool {
	c.calcMu.Lock()
	defer c.calcMu.Unlock()
	return c.inProgress != nil
}

func (c *Coordinator) feet() vec.Vec3 {
	return c.env.Agent.Position().Floor()
}

// stateLocked выводит состояние из участков и флагов
func (c *Coordinator) stateLocked(inProgress bool) State {
	switch {
	case !c.hasGoal:
		return NoGoal
	case c.atGoal:
		return AtGoal
	case c.failed:
		return Failed
	case c.current == nil && (inProgress || c.pending):
		return Calculating
	case c.current == nil:
		return NoPath
	case inProgress:
		return PlanningAhead
	}
	return Executing
}

// State возвращает текущее состояние
func (c *Coordinator) State() State {
	c.planMu.Lock()
	defer c.planMu.Unlock()
	return c.stateLocked(c.calculating())
}

// queue копит событие до flush. inProgress меняется только под обоими
// замками, поэтому под planMu его можно читать без calcMu.
func (c *Coordinator) queue(ev eventbus.PathEvent) {
	if ev.Goal == "" && c.hasGoal {
		ev.Goal = c.goal.String()
	}
	if ev.State == "" {
		ev.State = c.stateLocked(c.inProgress != nil).String()
	}
	c.events = append(c.events, ev)
}

// flush отправляет накопленные события вне planMu, сохраняя их порядок
func (c *Coordinator) flush() {
	c.emitMu.Lock()
	defer c.emitMu.Unlock()
	c.planMu.Lock()
	events := c.events
	c.events = nil
	c.planMu.Unlock()
	for _, ev := range events {
		c.sink.PathEvent(ev)
	}
}
