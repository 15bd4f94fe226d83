package movement

import (
	"testing"

	"github.com/annel0/voxel-pathing/internal/inventory"
	"github.com/annel0/voxel-pathing/internal/vec"
	"github.com/annel0/voxel-pathing/internal/world"
	"github.com/annel0/voxel-pathing/internal/world/block"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inventoryWaterBucket() inventory.Slot {
	return inventory.Slot{Kind: inventory.ItemWaterBucket}
}

func TestGenerateCatalogueOrder(t *testing.T) {
	w := newFlatWorld()
	ctx := newCtx(w, false)

	moves := Generate(ctx, origin)
	require.Len(t, moves, len(Moves), "На толстом полу применимы все перемещения")

	expected := []Type{
		TypeTraverse, TypeTraverse, TypeTraverse, TypeTraverse,
		TypeAscend, TypeAscend, TypeAscend, TypeAscend,
		TypeDescend, TypeDescend, TypeDescend, TypeDescend,
		TypeDownward,
		TypeDiagonal, TypeDiagonal, TypeDiagonal, TypeDiagonal,
	}
	for i, m := range moves {
		assert.Equal(t, expected[i], m.Type, "Порядок каталога нарушен на %d (%s)", i, Moves[i].Name)
		assert.Equal(t, origin, m.Src)
	}
	assert.Equal(t, origin.Offset(vec.North), moves[0].Dest)
}

func TestGenerateSkipsFallWithoutLanding(t *testing.T) {
	w := world.NewMap()
	set(w, origin.Down(), block.StoneBlockID)

	moves := Generate(newCtx(w, false), origin)
	for _, m := range moves {
		assert.NotEqual(t, TypeFall, m.Type, "Без земли внизу падение не создаётся")
		assert.NotEqual(t, TypeDescend, m.Type)
	}
}

// Для любого перемещения в сгенерированном мире стоимость неотрицательна или бесконечна
func TestCostIsNonNegativeOrInf(t *testing.T) {
	w := world.NewMap()
	world.NewWorldGenerator(99).Generate(w, vec.Vec2{}, 1)

	withBlocks := newCtx(w, true)
	without := newCtx(w, false)
	checked := 0
	for x := -12; x < 28; x += 3 {
		for z := -12; z < 28; z += 3 {
			surface, ok := w.SurfaceAt(x, z)
			require.True(t, ok)
			for _, ctx := range []*CalculationContext{withBlocks, without} {
				for _, m := range Generate(ctx, surface) {
					cost := m.CalculateCost(ctx)
					assert.False(t, cost != cost, "Стоимость не может быть NaN: %s", m)
					assert.True(t, cost >= 0, "Стоимость не может быть отрицательной: %s = %v", m, cost)
					checked++
				}
			}
		}
	}
	assert.Greater(t, checked, 1000)
}

func TestFindPrefersLowestOrdinal(t *testing.T) {
	w := newFlatWorld()
	ctx := newCtx(w, false)

	m := Find(ctx, origin, origin.Offset(vec.West))
	require.NotNil(t, m)
	assert.Equal(t, TypeTraverse, m.Type)
	assert.Nil(t, Find(ctx, origin, origin.Add(vec.Vec3{X: 5})), "Несмежные ячейки каталог не связывает")
}

func TestOverride(t *testing.T) {
	m := NewTraverse(origin, vec.North)
	assert.True(t, IsInf(m.Cost()), "До сборки стоимость не задана")
	m.Override(1.5)
	assert.Equal(t, 1.5, m.Cost())
	assert.Equal(t, "Traverse(0,64,0 -> 0,64,-1)", m.String())
}
