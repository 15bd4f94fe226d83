package calc

import (
	"container/heap"
	"context"
	"math"
	"testing"
	"time"

	"github.com/annel0/voxel-pathing/internal/config"
	"github.com/annel0/voxel-pathing/internal/inventory"
	"github.com/annel0/voxel-pathing/internal/pathing/goals"
	"github.com/annel0/voxel-pathing/internal/pathing/movement"
	"github.com/annel0/voxel-pathing/internal/vec"
	"github.com/annel0/voxel-pathing/internal/world"
	"github.com/annel0/voxel-pathing/internal/world/block"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const floorY = 63

var origin = vec.Vec3{X: 0, Y: floorY + 1, Z: 0}

func newFlatWorld() *world.Map {
	w := world.NewMap()
	w.Fill(vec.Vec3{X: -16, Y: floorY - 3, Z: -16}, vec.Vec3{X: 16, Y: floorY, Z: 16}, world.NewState(block.StoneBlockID))
	return w
}

// endlessFloor - бесконечная каменная равнина, на которой поиск никогда не исчерпывается
type endlessFloor struct{}

func (endlessFloor) Get(pos vec.Vec3) world.VoxelState {
	if pos.Y <= floorY && pos.Y >= floorY-1 {
		return world.NewState(block.StoneBlockID)
	}
	return world.Air
}

func newCtx(w world.Accessor, favored []vec.Vec3, mutate ...func(*config.Pathing)) *movement.CalculationContext {
	cfg := config.DefaultPathing()
	for _, fn := range mutate {
		fn(&cfg)
	}
	h := inventory.NewHotbar()
	h.SetSlot(0, inventory.Slot{Kind: inventory.ItemTool, Tool: inventory.Tool{Kind: block.ToolPickaxe, Speed: 4}})
	return movement.NewContext(cfg, w, h, favored)
}

func noBreak(cfg *config.Pathing) { cfg.AllowBreak = false }

func find(t *testing.T, ctx *movement.CalculationContext, goal goals.Goal) Result {
	t.Helper()
	res := NewFinder(origin, goal, ctx, 5*time.Second).Calculate(context.Background())
	require.Equal(t, Success, res.Kind, "Поиск должен дойти до цели")
	require.True(t, res.Found())
	return res
}

func TestFlatRunCompressesToOneMovement(t *testing.T) {
	w := newFlatWorld()
	ctx := newCtx(w, nil)
	dest := origin.Add(vec.Vec3{X: 10})

	res := find(t, ctx, goals.Block(dest))
	require.Len(t, res.Chain, 11, "Десять шагов на восток")

	path := Assemble(res, goals.Block(dest), ctx)
	require.NotNil(t, path)
	require.Len(t, path.Movements(), 1, "Прямой участок сжимается в одно перемещение")

	m := path.Movements()[0]
	assert.Equal(t, movement.TypeStraight, m.Type)
	assert.Equal(t, origin, m.Src)
	assert.Equal(t, dest, m.Dest)
	assert.InDelta(t, 10*movement.WalkOneBlockCost*movement.SprintMultiplier, m.Cost(), 1e-9)
	assert.Equal(t, []vec.Vec3{origin, dest}, path.Positions())
	assert.False(t, path.Truncated())
}

func TestDiagonalPreferredOverTwoTraverses(t *testing.T) {
	w := newFlatWorld()
	ctx := newCtx(w, nil)
	dest := origin.Add(vec.Vec3{X: 1, Z: -1})

	res := find(t, ctx, goals.Block(dest))
	require.Len(t, res.Chain, 2, "Один диагональный шаг вместо двух прямых")
	assert.InDelta(t, movement.SprintOneBlockCost*math.Sqrt2, res.Chain[1].G, 1e-9)

	path := Assemble(res, goals.Block(dest), ctx)
	require.NotNil(t, path)
	require.Len(t, path.Movements(), 1)
	assert.Equal(t, movement.TypeDiagonal, path.Movements()[0].Type)
}

func TestPathCostMatchesSearchCost(t *testing.T) {
	w := newFlatWorld()
	w.Fill(vec.Vec3{X: 5, Y: floorY + 1, Z: -2}, vec.Vec3{X: 8, Y: floorY + 1, Z: 2}, world.NewState(block.StoneBlockID))
	ctx := newCtx(w, nil, noBreak)
	goal := goals.Block(vec.Vec3{X: 7, Y: floorY + 2, Z: 0})

	res := find(t, ctx, goal)
	path := Assemble(res, goal, ctx)
	require.NotNil(t, path)

	types := make([]movement.Type, 0, len(path.Movements()))
	for _, m := range path.Movements() {
		types = append(types, m.Type)
	}
	assert.Equal(t, []movement.Type{movement.TypeStraight, movement.TypeAscend, movement.TypeStraight}, types)
	assert.InDelta(t, res.Chain[len(res.Chain)-1].G, path.TotalCost(), 1e-6, "Сумма стоимостей перемещений равна g конца цепочки")
	assert.Equal(t, path.TotalCost(), path.TicksRemainingFrom(0))
	assert.InDelta(t, path.Movements()[2].Cost(), path.TicksRemainingFrom(2), 1e-12)
	assert.Zero(t, path.TicksRemainingFrom(3))
}

func TestCompressionNeverIncreasesCost(t *testing.T) {
	w := newFlatWorld()
	w.Fill(vec.Vec3{X: 3, Y: floorY + 1, Z: -5}, vec.Vec3{X: 3, Y: floorY + 2, Z: 5}, world.NewState(block.StoneBlockID))
	ctx := newCtx(w, nil, noBreak)
	goal := goals.Block(vec.Vec3{X: 6, Y: floorY + 1, Z: 0})

	res := find(t, ctx, goal)
	uncompressed := 0.0
	for i := 0; i+1 < len(res.Chain); i++ {
		m := movement.Find(ctx, res.Chain[i].Pos, res.Chain[i+1].Pos)
		require.NotNil(t, m, "Каждый шаг цепочки соответствует перемещению каталога")
		uncompressed += m.CalculateCost(ctx)
	}

	path := Assemble(res, goal, ctx)
	require.NotNil(t, path)
	assert.LessOrEqual(t, path.TotalCost(), uncompressed+1e-9)
	assert.LessOrEqual(t, path.Length(), len(res.Chain))
	assert.Equal(t, origin, path.Src())
	assert.Equal(t, goal.Pos, path.Dest())
}

func TestUnreachableGoalTerminates(t *testing.T) {
	w := newFlatWorld()
	stone := world.NewState(block.StoneBlockID)
	w.Fill(vec.Vec3{X: -2, Y: floorY + 1, Z: -2}, vec.Vec3{X: 2, Y: floorY + 2, Z: -2}, stone)
	w.Fill(vec.Vec3{X: -2, Y: floorY + 1, Z: 2}, vec.Vec3{X: 2, Y: floorY + 2, Z: 2}, stone)
	w.Fill(vec.Vec3{X: -2, Y: floorY + 1, Z: -2}, vec.Vec3{X: -2, Y: floorY + 2, Z: 2}, stone)
	w.Fill(vec.Vec3{X: 2, Y: floorY + 1, Z: -2}, vec.Vec3{X: 2, Y: floorY + 2, Z: 2}, stone)
	ctx := newCtx(w, nil, noBreak, func(cfg *config.Pathing) { cfg.AllowPlace = false })

	timeout := 2 * time.Second
	res := NewFinder(origin, goals.Block(vec.Vec3{X: 10, Y: floorY + 1, Z: 0}), ctx, timeout).Calculate(context.Background())
	assert.Equal(t, NoPath, res.Kind, "Из замкнутой комнаты выхода нет")
	assert.Empty(t, res.Chain)
	assert.False(t, res.Found())
	assert.Less(t, res.Duration, timeout)
	assert.Nil(t, Assemble(res, goals.Block(origin), ctx))
}

func TestTimeoutReturnsPartialPath(t *testing.T) {
	ctx := newCtx(endlessFloor{}, nil)
	far := vec.Vec3{X: 1_000_000, Y: floorY + 1, Z: 0}

	res := NewFinder(origin, goals.Block(far), ctx, 50*time.Millisecond).Calculate(context.Background())
	require.Equal(t, PartialTimeout, res.Kind)
	require.True(t, res.Found(), "Должен вернуться частичный путь")

	end := res.Chain[len(res.Chain)-1].Pos
	assert.GreaterOrEqual(t, end.DistanceTo(origin), float64(MinPartialDistance*MinPartialDistance))
	assert.Less(t, res.Duration, 2*time.Second)
	assert.Equal(t, origin, res.Chain[0].Pos)
}

func TestContextCancellation(t *testing.T) {
	ctx := newCtx(endlessFloor{}, nil)
	finder := NewFinder(origin, goals.Block(vec.Vec3{X: 1_000_000, Y: floorY + 1}), ctx, 0)

	cctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	res := finder.Calculate(cctx)

	assert.Equal(t, Cancelled, res.Kind)
	assert.True(t, finder.IsCancelled())
	assert.NotEmpty(t, finder.PathToMostRecentNodeConsidered(), "Снимок публикуется во время поиска")
	assert.NotEmpty(t, finder.BestPathSoFar())

	again := finder.Calculate(context.Background())
	assert.Equal(t, Cancelled, again.Kind, "Finder выполняет только один поиск")
	assert.Zero(t, again.NodesConsidered)
}

func TestCancelFromAnotherGoroutine(t *testing.T) {
	ctx := newCtx(endlessFloor{}, nil)
	finder := NewFinder(origin, goals.Block(vec.Vec3{X: -1_000_000, Y: floorY + 1}), ctx, 0)

	done := make(chan Result, 1)
	go func() { done <- finder.Calculate(context.Background()) }()
	time.Sleep(10 * time.Millisecond)
	finder.Cancel()

	select {
	case res := <-done:
		assert.Equal(t, Cancelled, res.Kind)
	case <-time.After(5 * time.Second):
		t.Fatal("Поиск не остановился после Cancel")
	}
}

func TestFavoredCellsLowerCost(t *testing.T) {
	w := newFlatWorld()
	favored := make([]vec.Vec3, 0, 10)
	for x := 1; x <= 10; x++ {
		favored = append(favored, origin.Add(vec.Vec3{X: x}))
	}
	ctx := newCtx(w, favored)
	dest := favored[len(favored)-1]

	res := find(t, ctx, goals.Block(dest))
	expected := 10 * movement.SprintOneBlockCost * ctx.FavorCoefficient
	assert.InDelta(t, expected, res.Chain[len(res.Chain)-1].G, 1e-9)

	path := Assemble(res, goals.Block(dest), ctx)
	require.NotNil(t, path)
	assert.Len(t, path.Movements(), 10, "Прямая дороже суммы льготных шагов и не сжимается")
	assert.InDelta(t, expected, path.TotalCost(), 1e-9)
}

func TestGoalAtStart(t *testing.T) {
	ctx := newCtx(newFlatWorld(), nil)
	res := NewFinder(origin, goals.Block(origin), ctx, time.Second).Calculate(context.Background())
	assert.Equal(t, Success, res.Kind)
	assert.Len(t, res.Chain, 1)
	assert.False(t, res.Found())
	assert.Nil(t, Assemble(res, goals.Block(origin), ctx))
}

func TestOpenSetTieBreak(t *testing.T) {
	arena := []node{
		{g: 1, h: 4, heapIndex: -1},
		{g: 3, h: 2, heapIndex: -1},
		{g: 3, h: 2 + 1e-12, heapIndex: -1},
		{g: 0, h: 4.5, heapIndex: -1},
		{g: 2, h: 2, heapIndex: -1},
	}
	open := openSet{arena: &arena}
	for i := range arena {
		heap.Push(&open, int32(i))
	}

	order := make([]int32, 0, len(arena))
	for open.Len() > 0 {
		order = append(order, heap.Pop(&open).(int32))
	}
	// при f≈5 первым идёт больший g, при равных g меньший индекс
	assert.Equal(t, []int32{4, 3, 1, 2, 0}, order)
	for i := range arena {
		assert.Equal(t, -1, arena[i].heapIndex)
	}
}

func TestOpenSetFix(t *testing.T) {
	arena := []node{
		{g: 5, h: 5, heapIndex: -1},
		{g: 4, h: 4, heapIndex: -1},
	}
	open := openSet{arena: &arena}
	heap.Push(&open, int32(0))
	heap.Push(&open, int32(1))

	arena[0].g = 1
	heap.Fix(&open, arena[0].heapIndex)
	assert.Equal(t, int32(0), heap.Pop(&open).(int32))
}

func TestPathPanicsBeforeAssembly(t *testing.T) {
	ctx := newCtx(newFlatWorld(), nil)
	chain := []ChainNode{{Pos: origin}, {Pos: origin.Offset(vec.East), G: movement.SprintOneBlockCost}}
	p := NewPath(chain, goals.Block(chain[1].Pos), ctx, 2)

	assert.False(t, p.IsAssembled())
	assert.Panics(t, func() { p.Positions() })
	assert.Panics(t, func() { p.Movements() })

	require.NotNil(t, p.Assemble())
	assert.NotPanics(t, func() { p.Positions() })
	assert.Panics(t, func() { p.Assemble() }, "Повторная сборка - ошибка")
}

// stepChain - цепочка: два шага на восток и подъём на ступень
func stepChain(w *world.Map) []ChainNode {
	set := func(pos vec.Vec3) { w.Set(pos, world.NewState(block.StoneBlockID)) }
	step := origin.Add(vec.Vec3{X: 2})
	set(step)

	ctx := newCtx(w, nil)
	a := origin.Offset(vec.East)
	b := step.Up()
	g1 := movement.NewTraverse(origin, vec.East).CalculateCost(ctx)
	g2 := g1 + movement.NewAscend(a, vec.East).CalculateCost(ctx)
	return []ChainNode{{Pos: origin}, {Pos: a, G: g1}, {Pos: b, G: g2}}
}

func TestAssembleTruncatesOnChangedWorld(t *testing.T) {
	w := newFlatWorld()
	chain := stepChain(w)
	w.Set(chain[2].Pos.Up(), world.NewState(block.StoneBlockID))

	ctx := newCtx(w, nil, noBreak)
	p := NewPath(chain, goals.Block(chain[2].Pos), ctx, 3).Assemble()
	require.NotNil(t, p)
	assert.True(t, p.Truncated(), "Подъём заблокирован после поиска")
	assert.Equal(t, []vec.Vec3{origin, chain[1].Pos}, p.Positions())
	require.Len(t, p.Movements(), 1)
	assert.Equal(t, movement.TypeTraverse, p.Movements()[0].Type)
}

func TestAssembleKeepsCheaperPlannedCost(t *testing.T) {
	w := newFlatWorld()
	chain := stepChain(w)
	chain[1].G /= 2
	chain[2].G = chain[1].G + 1

	ctx := newCtx(w, nil)
	p := NewPath(chain, goals.Block(chain[2].Pos), ctx, 3).Assemble()
	require.NotNil(t, p)
	require.Len(t, p.Movements(), 2)
	assert.InDelta(t, chain[1].G, p.Movements()[0].Cost(), 1e-12)
	assert.InDelta(t, 1.0, p.Movements()[1].Cost(), 1e-12)
}

func TestAssembleFailsWhenFirstMovementBlocked(t *testing.T) {
	w := newFlatWorld()
	ctx := newCtx(w, nil, noBreak)
	dest := origin.Add(vec.Vec3{X: 10})
	res := find(t, ctx, goals.Block(dest))

	w.Set(origin.Offset(vec.East), world.NewState(block.StoneBlockID))
	assert.Nil(t, Assemble(res, goals.Block(dest), ctx), "Без единого перемещения путь не собирается")
}

func TestCutoffAtLoadedChunks(t *testing.T) {
	w := newFlatWorld()
	chain := stepChain(w)
	p := NewPath(chain, goals.Block(chain[2].Pos), newCtx(w, nil), 3).Assemble()
	require.NotNil(t, p)
	require.Equal(t, 3, p.Length())

	assert.Same(t, p, p.CutoffAtLoadedChunks(func(vec.Vec3) bool { return true }))

	cut := p.CutoffAtLoadedChunks(func(pos vec.Vec3) bool { return pos.X < 2 })
	assert.True(t, cut.Truncated())
	assert.Equal(t, []vec.Vec3{origin, chain[1].Pos}, cut.Positions())
	assert.Len(t, cut.Movements(), 1)
	assert.Equal(t, 3, p.Length(), "Исходный путь не меняется")

	assert.Same(t, p, p.CutoffAtLoadedChunks(func(pos vec.Vec3) bool { return pos.X < 1 }),
		"Путь без перемещений после обрезки не обрезается")
	assert.Equal(t, 1, p.IndexOf(chain[1].Pos))
	assert.Equal(t, -1, p.IndexOf(vec.Vec3{X: 100}))
}
