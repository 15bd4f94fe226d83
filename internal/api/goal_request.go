package api

import (
	"fmt"

	"github.com/annel0/voxel-pathing/internal/pathing/goals"
	"github.com/annel0/voxel-pathing/internal/vec"
)

// Виды целей в запросах API
const (
	GoalKindBlock     = "block"
	GoalKindTwoBlocks = "two_blocks"
	GoalKindNear      = "near"
	GoalKindXZ        = "xz"
	GoalKindAnyOf     = "any_of"
)

// maxGoalDepth ограничивает вложенность any_of
const maxGoalDepth = 4

// GoalRequest - JSON-описание цели
type GoalRequest struct {
	Kind     string        `json:"kind" binding:"required"`
	X        int           `json:"x"`
	Y        int           `json:"y"`
	Z        int           `json:"z"`
	Range    int           `json:"range,omitempty"`
	Children []GoalRequest `json:"children,omitempty"`
}

// Goal преобразует запрос в цель навигации
func (r GoalRequest) Goal() (goals.Goal, error) {
	return r.goal(0)
}

func (r GoalRequest) goal(depth int) (goals.Goal, error) {
	pos := vec.Vec3{X: r.X, Y: r.Y, Z: r.Z}
	switch r.Kind {
	case GoalKindBlock:
		return goals.Block(pos), nil
	case GoalKindTwoBlocks:
		return goals.TwoBlocks(pos), nil
	case GoalKindNear:
		if r.Range < 0 {
			return goals.Goal{}, fmt.Errorf("отрицательный радиус %d", r.Range)
		}
		return goals.Near(pos, r.Range), nil
	case GoalKindXZ:
		return goals.XZ(r.X, r.Z), nil
	case GoalKindAnyOf:
		if depth >= maxGoalDepth {
			return goals.Goal{}, fmt.Errorf("слишком глубокая вложенность %s", GoalKindAnyOf)
		}
		if len(r.Children) == 0 {
			return goals.Goal{}, fmt.Errorf("%s без вложенных целей", GoalKindAnyOf)
		}
		children := make([]goals.Goal, 0, len(r.Children))
		for i, child := range r.Children {
			g, err := child.goal(depth + 1)
			if err != nil {
				return goals.Goal{}, fmt.Errorf("children[%d]: %w", i, err)
			}
			children = append(children, g)
		}
		return goals.AnyOf(children...), nil
	default:
		return goals.Goal{}, fmt.Errorf("неизвестный вид цели %q", r.Kind)
	}
}
