package coordinator

import (
	"context"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/annel0/voxel-pathing/internal/config"
	"github.com/annel0/voxel-pathing/internal/control"
	"github.com/annel0/voxel-pathing/internal/eventbus"
	"github.com/annel0/voxel-pathing/internal/inventory"
	"github.com/annel0/voxel-pathing/internal/pathing/calc"
	"github.com/annel0/voxel-pathing/internal/pathing/goals"
	"github.com/annel0/voxel-pathing/internal/pathing/movement"
	"github.com/annel0/voxel-pathing/internal/pathing/path"
	"github.com/annel0/voxel-pathing/internal/sim"
	"github.com/annel0/voxel-pathing/internal/vec"
	"github.com/annel0/voxel-pathing/internal/world"
	"github.com/annel0/voxel-pathing/internal/world/block"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const floorY = 63

var origin = vec.Vec3{X: 0, Y: floorY + 1, Z: 0}

type fakeAgent struct {
	pos    vec.Vec3Float
	ground bool
}

func (a *fakeAgent) Position() vec.Vec3Float { return a.pos }
func (a *fakeAgent) OnGround() bool          { return a.ground }

func (a *fakeAgent) stand(c vec.Vec3) {
	a.pos = vec.Vec3Float{X: float64(c.X) + 0.5, Y: float64(c.Y), Z: float64(c.Z) + 0.5}
	a.ground = true
}

// eventLog запоминает события координатора
type eventLog struct {
	mu     sync.Mutex
	events []eventbus.PathEvent
}

func (l *eventLog) PathEvent(ev eventbus.PathEvent) {
	l.mu.Lock()
	l.events = append(l.events, ev)
	l.mu.Unlock()
}

func (l *eventLog) kinds() []eventbus.PathEventKind {
	l.mu.Lock()
	defer l.mu.Unlock()
	kinds := make([]eventbus.PathEventKind, len(l.events))
	for i, ev := range l.events {
		kinds[i] = ev.Kind
	}
	return kinds
}

// endlessFloor - бесконечная каменная равнина
type endlessFloor struct{}

func (endlessFloor) Get(pos vec.Vec3) world.VoxelState {
	if pos.Y == floorY || pos.Y == floorY-1 {
		return world.NewState(block.StoneBlockID)
	}
	return world.Air
}

// limitedWorld считает загруженными только ячейки с X <= maxX
type limitedWorld struct {
	*world.Map
	maxX int
}

func (l limitedWorld) IsLoaded(pos vec.Vec3) bool { return pos.X <= l.maxX }

func stone() world.VoxelState { return world.NewState(block.StoneBlockID) }

func newFlatWorld() *world.Map {
	w := world.NewMap()
	w.Fill(vec.Vec3{X: -16, Y: floorY - 3, Z: -16}, vec.Vec3{X: 16, Y: floorY, Z: 16}, stone())
	return w
}

// newStairsWorld строит лестницу вдоль +X: на колонке x=k агент стоит на высоте 64+k
func newStairsWorld(steps int) *world.Map {
	w := newFlatWorld()
	for k := 1; k <= steps; k++ {
		w.Fill(vec.Vec3{X: k, Y: floorY + 1, Z: -2}, vec.Vec3{X: k, Y: floorY + k, Z: 2}, stone())
	}
	return w
}

func stair(k int) vec.Vec3 { return vec.Vec3{X: k, Y: floorY + 1 + k, Z: 0} }

func newHotbar() *inventory.Hotbar {
	h := inventory.NewHotbar()
	h.SetSlot(0, inventory.Slot{Kind: inventory.ItemTool, Tool: inventory.Tool{Kind: block.ToolPickaxe, Speed: 4}})
	h.SetSlot(1, inventory.Slot{Kind: inventory.ItemBlock, Block: block.DirtBlockID, Count: 32})
	return h
}

type fixture struct {
	c        *Coordinator
	agent    *fakeAgent
	recorder *control.Recorder
	log      *eventLog
	env      path.Env
}

func newFixture(t *testing.T, w world.Accessor, mutate func(*config.Pathing), opts ...Option) *fixture {
	t.Helper()
	cfg := config.DefaultPathing()
	if mutate != nil {
		mutate(&cfg)
	}
	f := &fixture{agent: &fakeAgent{}, recorder: control.NewRecorder(), log: &eventLog{}}
	f.agent.stand(origin)
	f.env = path.Env{World: w, Agent: f.agent, Actuator: f.recorder, Inventory: newHotbar(), Settings: cfg}
	f.c = New(f.env, append([]Option{WithEventSink(f.log)}, opts...)...)
	t.Cleanup(f.c.Close)
	return f
}

// assemble собирает путь через заданные ячейки со стоимостями каталога
func assemble(t *testing.T, env path.Env, cells ...vec.Vec3) *calc.Path {
	t.Helper()
	ctx := movement.NewContext(env.Settings, env.World, env.Inventory, nil)
	chain := []calc.ChainNode{{Pos: cells[0]}}
	g := 0.0
	for i := 1; i < len(cells); i++ {
		m := movement.Find(ctx, cells[i-1], cells[i])
		require.NotNil(t, m, "Нет перемещения %v -> %v", cells[i-1], cells[i])
		g += m.CalculateCost(ctx)
		chain = append(chain, calc.ChainNode{Pos: cells[i], G: g})
	}
	p := calc.NewPath(chain, goals.Block(cells[len(cells)-1]), ctx, len(cells)).Assemble()
	require.NotNil(t, p)
	require.Len(t, p.Positions(), len(cells))
	return p
}

func stairs(from, to int) []vec.Vec3 {
	cells := make([]vec.Vec3, 0, to-from+1)
	for k := from; k <= to; k++ {
		cells = append(cells, stair(k))
	}
	return cells
}

func TestInitialState(t *testing.T) {
	f := newFixture(t, newFlatWorld(), nil)
	assert.Equal(t, NoGoal, f.c.State())
	assert.ErrorIs(t, f.c.Replan(), ErrNoGoal)
	f.c.Tick()
	assert.Equal(t, NoGoal, f.c.State())
	assert.Empty(t, f.log.kinds())
}

func TestGoalSatisfiedAtStart(t *testing.T) {
	f := newFixture(t, newFlatWorld(), nil)

	f.c.SetGoalAndPath(goals.Near(origin, 2))

	assert.Equal(t, AtGoal, f.c.State())
	snap := f.c.Snapshot()
	assert.Zero(t, snap.Searches, "Поиск не запускается")
	assert.False(t, snap.Calculating)
	assert.Equal(t, []eventbus.PathEventKind{eventbus.AtGoal}, f.log.kinds())
}

func TestSearchInstallsCurrentSegment(t *testing.T) {
	f := newFixture(t, newFlatWorld(), nil)
	goal := origin.Add(vec.Vec3{X: 6, Z: 2})

	f.c.SetGoalAndPath(goals.Block(goal))
	f.c.Wait()

	assert.Equal(t, Executing, f.c.State())
	snap := f.c.Snapshot()
	require.NotEmpty(t, snap.Current)
	assert.Equal(t, origin, snap.Current[0])
	assert.Equal(t, goal, snap.Current[len(snap.Current)-1])
	assert.NotEmpty(t, snap.SearchID)
	assert.Equal(t, []eventbus.PathEventKind{eventbus.CalcStarted, eventbus.CalcFinishedNowExecuting}, f.log.kinds())

	// та же цель не перезапускает поиск
	f.c.SetGoalAndPath(goals.Block(goal))
	f.c.Wait()
	assert.Equal(t, int64(1), f.c.Snapshot().Searches)
}

func TestUnreachableGoalFails(t *testing.T) {
	w := newFlatWorld()
	// комната 5x5 со стенами в три блока
	for _, x := range []int{-3, 3} {
		w.Fill(vec.Vec3{X: x, Y: floorY + 1, Z: -3}, vec.Vec3{X: x, Y: floorY + 3, Z: 3}, stone())
	}
	for _, z := range []int{-3, 3} {
		w.Fill(vec.Vec3{X: -3, Y: floorY + 1, Z: z}, vec.Vec3{X: 3, Y: floorY + 3, Z: z}, stone())
	}
	f := newFixture(t, w, func(p *config.Pathing) {
		p.AllowBreak = false
		p.AllowPlace = false
	})

	f.c.SetGoalAndPath(goals.Block(origin.Add(vec.Vec3{X: 8})))
	f.c.Wait()

	assert.Equal(t, Failed, f.c.State())
	assert.Equal(t, []eventbus.PathEventKind{eventbus.CalcStarted, eventbus.CalcFailed}, f.log.kinds())

	// без новой цели состояние не меняется
	for i := 0; i < 5; i++ {
		f.c.Tick()
	}
	assert.Equal(t, Failed, f.c.State())
	assert.Equal(t, int64(1), f.c.Snapshot().Searches)

	f.c.SetGoalAndPath(goals.Block(origin.Add(vec.Vec3{X: 2, Z: 2})))
	f.c.Wait()
	assert.Equal(t, Executing, f.c.State())
}

func TestCancelClearsEverything(t *testing.T) {
	f := newFixture(t, endlessFloor{}, func(p *config.Pathing) {
		p.PathTimeoutMs = 10_000
	})

	f.c.SetGoalAndPath(goals.Block(vec.Vec3{X: 100_000, Y: floorY + 1}))
	assert.Equal(t, Calculating, f.c.State())
	clears := f.recorder.Clears()

	f.c.Cancel()
	f.c.Wait()

	assert.Equal(t, NoGoal, f.c.State())
	assert.Greater(t, f.recorder.Clears(), clears, "Органы управления отпущены")
	snap := f.c.Snapshot()
	assert.Empty(t, snap.Current)
	assert.Empty(t, snap.Next)
	assert.False(t, snap.Calculating)

	kinds := f.log.kinds()
	assert.Contains(t, kinds, eventbus.Canceled)
	assert.NotContains(t, kinds, eventbus.CalcFailed, "Отмена не считается неудачей")
}

func TestSplicesOntoNextEarly(t *testing.T) {
	f := newFixture(t, newStairsWorld(8), nil)
	current := assemble(t, f.env, stairs(0, 3)...)
	next := assemble(t, f.env, stairs(1, 6)...)

	f.c.goal = goals.Block(stair(6))
	f.c.hasGoal = true
	f.c.current = path.NewExecutor(current, f.env)
	f.c.next = next
	// агент уже стоит в конце первого перемещения
	f.agent.stand(stair(1))

	f.c.Tick()

	snap := f.c.Snapshot()
	assert.Equal(t, next.Positions(), snap.Current, "Следующий участок стал текущим")
	assert.Zero(t, snap.Cursor, "Исполнение продолжается с позиции агента")
	assert.Empty(t, snap.Next)
	assert.Zero(t, snap.Searches)
	assert.Equal(t, []eventbus.PathEventKind{eventbus.SplicingOntoNextEarly}, f.log.kinds())
}

func TestContinuesOntoPlannedNext(t *testing.T) {
	f := newFixture(t, newStairsWorld(8), nil)
	current := assemble(t, f.env, stairs(0, 1)...)
	next := assemble(t, f.env, stairs(1, 3)...)

	f.c.goal = goals.Block(stair(3))
	f.c.hasGoal = true
	f.c.current = path.NewExecutor(current, f.env)
	f.c.next = next
	f.agent.stand(stair(1))

	f.c.Tick()

	snap := f.c.Snapshot()
	assert.Equal(t, Executing, snap.State)
	assert.Equal(t, next.Positions(), snap.Current)
	assert.Empty(t, snap.Next)
	assert.Equal(t, []eventbus.PathEventKind{eventbus.ContinuingOntoPlannedNext}, f.log.kinds())
}

func TestDiscardsNextNotCoveringAgent(t *testing.T) {
	f := newFixture(t, newStairsWorld(8), nil)
	current := assemble(t, f.env, stairs(0, 1)...)
	next := assemble(t, f.env, stairs(2, 4)...)

	f.c.goal = goals.Block(stair(4))
	f.c.hasGoal = true
	f.c.current = path.NewExecutor(current, f.env)
	f.c.next = next
	f.agent.stand(stair(1))

	f.c.Tick()
	f.c.Wait()

	assert.Equal(t, []eventbus.PathEventKind{
		eventbus.DiscardNext,
		eventbus.CalcStarted,
		eventbus.CalcFinishedNowExecuting,
	}, f.log.kinds())
	snap := f.c.Snapshot()
	require.NotEmpty(t, snap.Current)
	assert.Equal(t, stair(1), snap.Current[0], "Новый поиск идёт от позиции агента")
}

func TestSingleSearchInFlight(t *testing.T) {
	f := newFixture(t, endlessFloor{}, func(p *config.Pathing) {
		p.PathTimeoutMs = 20
		p.PlanAheadTimeoutMs = 20
	})

	stop := make(chan struct{})
	var observer sync.WaitGroup
	observer.Add(1)
	go func() {
		defer observer.Done()
		for {
			select {
			case <-stop:
				return
			default:
				_ = f.c.Snapshot()
			}
		}
	}()

	for i := 0; i < 300; i++ {
		if i%3 == 0 {
			f.c.SetGoalAndPath(goals.Block(vec.Vec3{X: 50 + i, Y: floorY + 1, Z: i % 11}))
		}
		f.c.Tick()
		if i%7 == 0 {
			f.c.Cancel()
		}
		if i%50 == 0 {
			time.Sleep(5 * time.Millisecond)
		}
	}
	close(stop)
	observer.Wait()
	f.c.Close()

	snap := f.c.Snapshot()
	assert.Greater(t, snap.Searches, int64(1))
	assert.Equal(t, int32(1), snap.MaxInFlight, "Одновременно не больше одного поиска")
}

func TestSearchSpanRecorded(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	f := newFixture(t, newFlatWorld(), nil, WithTracer(tp.Tracer("test")))
	f.c.SetGoalAndPath(goals.Block(origin.Add(vec.Vec3{X: 4})))
	f.c.Wait()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "pathing.search", spans[0].Name())
	attrs := map[string]string{}
	for _, kv := range spans[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, calc.Success.String(), attrs["search.result"])
	assert.Equal(t, "true", attrs["search.primary"])
	assert.Equal(t, "1", attrs["path.movements"])
}

func TestPathStartSnapping(t *testing.T) {
	w := world.NewMap()
	w.Set(vec.Vec3{X: 0, Y: floorY, Z: 0}, stone())
	f := newFixture(t, w, nil)

	// стоит на краю блока, ступни над пустотой
	f.agent.pos = vec.Vec3Float{X: 1.2, Y: floorY + 1, Z: 0.5}
	f.agent.ground = true
	assert.Equal(t, origin, f.c.pathStart())

	// в прыжке над блоком
	f.agent.pos = vec.Vec3Float{X: 0.5, Y: floorY + 2.3, Z: 0.5}
	f.agent.ground = false
	assert.Equal(t, origin, f.c.pathStart())

	f.agent.stand(origin)
	assert.Equal(t, origin, f.c.pathStart())
}

// drive крутит тики координатора и симулятора до цели или отказа
func drive(t *testing.T, c *Coordinator, a *sim.Agent, maxTicks int) State {
	t.Helper()
	for i := 0; i < maxTicks; i++ {
		switch st := c.State(); st {
		case AtGoal, Failed:
			return st
		}
		c.Tick()
		a.Step()
		if c.Snapshot().Calculating {
			time.Sleep(time.Millisecond)
		}
	}
	return c.State()
}

func newSimCoordinator(t *testing.T, w world.Accessor, m *world.Map, mutate func(*config.Pathing)) (*Coordinator, *sim.Agent, *eventLog) {
	t.Helper()
	cfg := config.DefaultPathing()
	if mutate != nil {
		mutate(&cfg)
	}
	h := newHotbar()
	a := sim.NewAgent(m, h, origin)
	log := &eventLog{}
	c := New(path.Env{World: w, Agent: a, Actuator: a, Inventory: h, Settings: cfg}, WithEventSink(log))
	t.Cleanup(c.Close)
	return c, a, log
}

func TestDrivesAgentToGoal(t *testing.T) {
	w := newFlatWorld()
	goal := origin.Add(vec.Vec3{X: 8, Z: 3})
	c, a, log := newSimCoordinator(t, w, w, nil)

	c.SetGoalAndPath(goals.Block(goal))
	require.Equal(t, AtGoal, drive(t, c, a, 2000))

	assert.Equal(t, goal, a.Feet())
	kinds := log.kinds()
	assert.Equal(t, eventbus.CalcStarted, kinds[0])
	assert.Contains(t, kinds, eventbus.CalcFinishedNowExecuting)
	assert.Equal(t, eventbus.AtGoal, kinds[len(kinds)-1])
}

func TestPlansAheadAcrossLoadBoundary(t *testing.T) {
	m := newStairsWorld(8)
	w := limitedWorld{Map: m, maxX: 4}
	c, a, log := newSimCoordinator(t, w, m, func(p *config.Pathing) {
		p.CutoffAtLoadBoundary = true
		p.PlanningLookaheadTicks = 1_000_000
		p.AllowBreak = false
		p.AllowPlace = false
	})

	c.SetGoalAndPath(goals.Block(stair(8)))
	c.Wait()
	snap := c.Snapshot()
	require.NotEmpty(t, snap.Current)
	assert.Equal(t, stair(4), snap.Current[len(snap.Current)-1], "Первый участок обрезан на границе загрузки")

	require.Equal(t, AtGoal, drive(t, c, a, 3000))
	assert.Equal(t, stair(8), a.Feet())
	assert.Equal(t, int64(2), c.Snapshot().Searches)
	assert.Contains(t, log.kinds(), eventbus.NextSegmentCalcStarted)
}

func TestBusSinkReceivesEvents(t *testing.T) {
	bus := eventbus.NewMemoryBus(8)
	var mu sync.Mutex
	var got []eventbus.PathEventKind
	_, err := bus.Subscribe(context.Background(), eventbus.Filter{Types: []string{eventbus.PathEventType}}, func(_ context.Context, env *eventbus.Envelope) {
		ev, err := eventbus.DecodePathEvent(env)
		if err == nil {
			mu.Lock()
			got = append(got, ev.Kind)
			mu.Unlock()
		}
	})
	require.NoError(t, err)

	f := newFixture(t, newFlatWorld(), nil, WithEventSink(eventbus.PathSink{Bus: bus, Source: "coordinator"}))
	f.c.SetGoalAndPath(goals.Block(origin))
	f.c.Cancel()
	require.NoError(t, bus.Close())

	assert.Equal(t, []eventbus.PathEventKind{eventbus.AtGoal, eventbus.Canceled}, got)
}

// Участок обрывается, пока ещё идёт поиск следующего, и этот поиск не находит пути:
// координатор не должен считать это окончательной неудачей.
func TestPlanAheadFailureAfterSegmentEndedReplansFromAgent(t *testing.T) {
	w := newStairsWorld(8)
	f := newFixture(t, w, func(p *config.Pathing) {
		p.AllowBreak = false
		p.AllowPlace = false
	})
	current := assemble(t, f.env, stairs(0, 3)...)

	// замуровываем конец участка: выйти из stair(3) нельзя, а его середина непроходима
	w.Fill(vec.Vec3{X: 2, Y: floorY + 4, Z: -1}, vec.Vec3{X: 4, Y: floorY + 6, Z: 1}, stone())
	w.Set(stair(3), world.Air)
	w.Set(stair(3).Up(), world.Air)

	f.agent.stand(stair(1))
	f.c.goal = goals.Block(stair(6))
	f.c.hasGoal = true
	f.c.current = path.NewExecutorFrom(current, f.env, 1)

	f.c.planMu.Lock()
	f.c.calcMu.Lock()
	f.c.startSearchLocked(stair(3), false)
	f.c.calcMu.Unlock()
	f.c.tickLocked()
	f.c.planMu.Unlock()
	f.c.flush()
	f.c.Wait()

	assert.Equal(t, []eventbus.PathEventKind{
		eventbus.NextSegmentCalcStarted,
		eventbus.PathFinishedNextStillCalculating,
		eventbus.NextCalcFailed,
	}, f.log.kinds())
	assert.Equal(t, Calculating, f.c.State())

	f.c.Tick()
	f.c.Wait()

	kinds := f.log.kinds()
	assert.NotContains(t, kinds, eventbus.CalcFailed)
	assert.Equal(t, []eventbus.PathEventKind{eventbus.CalcStarted, eventbus.CalcFinishedNowExecuting}, kinds[3:])
	assert.Equal(t, Executing, f.c.State())
	snap := f.c.Snapshot()
	require.NotEmpty(t, snap.Current)
	assert.Equal(t, stair(1), snap.Current[0], "Поиск идёт от позиции агента")
	assert.Equal(t, stair(6), snap.Current[len(snap.Current)-1])
}

// Мир меняется посреди участка: исполнитель отказывает, координатор
// отбрасывает остаток и ищет путь заново от ступней агента.
func TestRecoversFromWorldChangeMidPath(t *testing.T) {
	m := newStairsWorld(8)
	c, a, log := newSimCoordinator(t, m, m, func(p *config.Pathing) {
		p.AllowBreak = false
		p.AllowPlace = false
	})

	c.SetGoalAndPath(goals.Block(stair(8)))
	c.Wait()
	require.Equal(t, Executing, c.State())

	var blocked vec.Vec3
	walled, replanned := false, false
	for i := 0; i < 3000; i++ {
		if st := c.State(); st == AtGoal || st == Failed {
			break
		}
		c.Tick()
		if walled && !replanned && c.Snapshot().Searches == 2 {
			replanned = true
			feet := a.Feet()
			c.Wait()
			snap := c.Snapshot()
			require.NotEmpty(t, snap.Current)
			assert.Equal(t, feet, snap.Current[0], "Новый поиск идёт от ступней агента")
			assert.NotContains(t, snap.Current, blocked)
		}
		a.Step()

		if !walled {
			snap := c.Snapshot()
			idx := slices.Index(snap.Current, a.Feet())
			if idx >= 2 && idx+2 < len(snap.Current)-1 {
				blocked = snap.Current[idx+2]
				m.Set(blocked, stone())
				walled = true
			}
		}
		if c.Snapshot().Calculating {
			time.Sleep(time.Millisecond)
		}
	}

	require.True(t, walled, "Агент прошёл середину участка")
	require.True(t, replanned, "Поиск перезапущен после отказа")
	require.Equal(t, AtGoal, c.State())
	assert.Equal(t, stair(8), a.Feet())

	kinds := log.kinds()
	assert.NotContains(t, kinds, eventbus.CalcFailed)
	assert.Equal(t, 2, countKind(kinds, eventbus.CalcStarted))
	assert.Equal(t, eventbus.AtGoal, kinds[len(kinds)-1])
}

func countKind(kinds []eventbus.PathEventKind, kind eventbus.PathEventKind) int {
	n := 0
	for _, k := range kinds {
		if k == kind {
			n++
		}
	}
	return n
}

// Цель меняют из другой горутины, пока крутятся тики, как это делает REST API
func TestGoalChangesFromOtherGoroutine(t *testing.T) {
	f := newFixture(t, newFlatWorld(), nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			f.c.SetGoalAndPath(goals.Block(origin.Add(vec.Vec3{X: 2 + i%5, Z: i % 3})))
			_ = f.c.Replan()
			if i%10 == 9 {
				f.c.Cancel()
			}
		}
		f.c.SetGoalAndPath(goals.Block(origin.Add(vec.Vec3{X: 6})))
	}()
	for running := true; running; {
		select {
		case <-done:
			running = false
		default:
			f.c.Tick()
		}
	}
	f.c.Tick()
	f.c.Wait()
	f.c.Tick()
	f.c.Wait()

	assert.Equal(t, Executing, f.c.State())
	snap := f.c.Snapshot()
	require.NotEmpty(t, snap.Current)
	assert.Equal(t, origin.Add(vec.Vec3{X: 6}), snap.Current[len(snap.Current)-1])
	assert.Equal(t, int32(1), snap.MaxInFlight)
}
