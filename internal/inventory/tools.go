package inventory

import (
	"math"

	"github.com/annel0/voxel-pathing/internal/world"
	"github.com/annel0/voxel-pathing/internal/world/block"
)

// HandSpeed - скорость добычи голой рукой
const HandSpeed = 1.0

// Tool описывает инструмент в инвентаре
type Tool struct {
	Kind  block.ToolKind
	Speed float64 // множитель скорости добычи подходящих блоков
}

// ToolSet - неизменяемый снимок инструментов агента на время одного поиска
type ToolSet struct {
	Tools []Tool
}

// NewToolSet копирует переданные инструменты в новый снимок
func NewToolSet(tools ...Tool) ToolSet {
	cp := make([]Tool, len(tools))
	copy(cp, tools)
	return ToolSet{Tools: cp}
}

// bestFor возвращает наибольшую скорость подходящего инструмента
func (ts ToolSet) bestFor(kind block.ToolKind) (float64, bool) {
	speed, found := HandSpeed, false
	if kind == block.ToolNone {
		return speed, false
	}
	for _, tool := range ts.Tools {
		if tool.Kind == kind && tool.Speed > 0 {
			found = true
			if tool.Speed > speed {
				speed = tool.Speed
			}
		}
	}
	return speed, found
}

// BestToolEffectiveness возвращает долю блока, добываемую за один тик лучшим инструментом.
// Блок нулевой твёрдости ломается мгновенно (+Inf), неразрушаемый - никогда (0).
func (ts ToolSet) BestToolEffectiveness(state world.VoxelState) float64 {
	props := state.Props()
	if props.Unbreakable() {
		return 0
	}
	if props.Hardness == 0 {
		return math.Inf(1)
	}

	speed, hasTool := ts.bestFor(props.Tool)
	divisor := 30.0
	if props.RequiresTool && !hasTool {
		divisor = 100.0
	}
	return speed / props.Hardness / divisor
}
