package movement

import "math"

// Стоимости измеряются в тиках (20 тиков в секунду).
const (
	WalkOneBlockCost    = 20 / 4.317
	WalkOneInWaterCost  = 20 / 2.2
	SneakOneBlockCost   = 20 / 1.3
	SprintMultiplier    = 4.317 / 5.612
	SprintOneBlockCost  = WalkOneBlockCost * SprintMultiplier
	PlaceOneBlockCost   = 20.0
	WalkOffBlockCost    = WalkOneBlockCost * 0.8
	CenterAfterFallCost = WalkOneBlockCost - WalkOffBlockCost

	// MaxFallTable - наибольшая высота падения в таблице
	MaxFallTable = 256
)

// CostInf означает, что перемещение невозможно. Больше любой конечной суммы стоимостей.
var CostInf = math.Inf(1)

var (
	// FallNBlocksCost[n] - время падения на n блоков
	FallNBlocksCost = generateFallNBlocksCost()

	// JumpOneBlockCost - прыжок на блок вверх: подъём на 1.25 блока минус запас в 0.25
	JumpOneBlockCost = distanceToTicks(1.25) - distanceToTicks(0.25)
)

// IsInf возвращает true для бесконечной стоимости
func IsInf(cost float64) bool {
	return math.IsInf(cost, 1)
}

func generateFallNBlocksCost() [MaxFallTable + 1]float64 {
	var costs [MaxFallTable + 1]float64
	for i := range costs {
		costs[i] = distanceToTicks(float64(i))
	}
	return costs
}

// velocity возвращает пройденное за тик расстояние при свободном падении
func velocity(ticks int) float64 {
	return (math.Pow(0.98, float64(ticks)) - 1) * -3.92
}

// distanceToTicks возвращает дробное число тиков, за которое тело пролетит distance блоков
func distanceToTicks(distance float64) float64 {
	if distance == 0 {
		return 0
	}
	remaining := distance
	ticks := 0
	for {
		fall := velocity(ticks)
		if remaining <= fall {
			return float64(ticks) + remaining/fall
		}
		remaining -= fall
		ticks++
	}
}

// FallCost возвращает стоимость падения на n блоков, ограниченную таблицей
func FallCost(n int) float64 {
	if n < 0 {
		return 0
	}
	if n > MaxFallTable {
		return CostInf
	}
	return FallNBlocksCost[n]
}
