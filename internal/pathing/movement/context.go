package movement

import (
	"github.com/annel0/voxel-pathing/internal/config"
	"github.com/annel0/voxel-pathing/internal/inventory"
	"github.com/annel0/voxel-pathing/internal/vec"
	"github.com/annel0/voxel-pathing/internal/world"
)

// CalculationContext - неизменяемый снимок всего, что читает модель стоимости
// во время одного поиска. Живые настройки после создания не читаются.
type CalculationContext struct {
	World world.Accessor
	Tools inventory.ToolSet

	AllowBreak     bool
	AllowPlace     bool
	HasThrowaway   bool
	HasWaterBucket bool

	MaxFallHeightNoWater   int
	MaxFallHeightWithWater int

	Avoidance            bool
	AvoidanceCoefficient float64

	HeuristicWeight  float64
	FavorCoefficient float64
	favored          map[vec.Vec3]struct{}
}

// NewContext снимает настройки, инструменты и множество предпочитаемых ячеек.
// oracle может быть nil: тогда у агента нет ни инструментов, ни блоков.
func NewContext(cfg config.Pathing, w world.Accessor, oracle inventory.Oracle, favored []vec.Vec3) *CalculationContext {
	ctx := &CalculationContext{
		World:                  w,
		AllowBreak:             cfg.AllowBreak,
		AllowPlace:             cfg.AllowPlace,
		MaxFallHeightNoWater:   cfg.MaxFallHeightNoWater,
		MaxFallHeightWithWater: cfg.MaxFallHeightWithWater,
		Avoidance:              cfg.Avoidance,
		AvoidanceCoefficient:   cfg.AvoidanceCoefficient,
		HeuristicWeight:        cfg.HeuristicWeight,
		FavorCoefficient:       cfg.FavorCoefficient,
	}
	if oracle != nil {
		ctx.Tools = oracle.Tools()
		ctx.HasThrowaway = cfg.AllowPlace && oracle.HasThrowaway()
		ctx.HasWaterBucket = oracle.HasWaterBucket()
	}
	if ctx.HeuristicWeight <= 0 {
		ctx.HeuristicWeight = 1
	}
	if ctx.FavorCoefficient <= 0 || ctx.FavorCoefficient > 1 {
		ctx.FavorCoefficient = 1
	}
	if ctx.AvoidanceCoefficient < 1 {
		ctx.AvoidanceCoefficient = 1
	}
	if len(favored) > 0 {
		ctx.favored = make(map[vec.Vec3]struct{}, len(favored))
		for _, pos := range favored {
			ctx.favored[pos] = struct{}{}
		}
	}
	return ctx
}

// IsFavored возвращает true для ячеек предыдущего пути
func (c *CalculationContext) IsFavored(pos vec.Vec3) bool {
	_, ok := c.favored[pos]
	return ok
}

// FavoredCount возвращает размер множества предпочитаемых ячеек
func (c *CalculationContext) FavoredCount() int {
	return len(c.favored)
}
