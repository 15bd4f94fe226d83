package coordinator

import (
	"github.com/annel0/voxel-pathing/internal/pathing/calc"
	"github.com/annel0/voxel-pathing/internal/vec"
)

// Snapshot - согласованный срез состояния для наблюдателей
type Snapshot struct {
	State          State      `json:"state"`
	Goal           string     `json:"goal,omitempty"`
	SearchID       string     `json:"search_id,omitempty"`
	Calculating    bool       `json:"calculating"`
	Current        []vec.Vec3 `json:"current,omitempty"`
	Cursor         int        `json:"cursor"`
	Movement       string     `json:"movement,omitempty"`
	MovementStatus string     `json:"movement_status,omitempty"`
	TicksRemaining float64    `json:"ticks_remaining"`
	ToBreak        []vec.Vec3 `json:"to_break,omitempty"`
	ToPlace        []vec.Vec3 `json:"to_place,omitempty"`
	Next           []vec.Vec3 `json:"next,omitempty"`
	BestSoFar      []vec.Vec3 `json:"best_so_far,omitempty"`
	Searches       int64      `json:"searches"`
	MaxInFlight    int32      `json:"max_in_flight"`
}

// Snapshot снимает состояние координатора. Живые снимки поиска могут отставать.
func (c *Coordinator) Snapshot() Snapshot {
	c.planMu.Lock()
	defer c.planMu.Unlock()

	c.calcMu.Lock()
	finder := c.inProgress
	searchID := c.searchID
	c.calcMu.Unlock()

	s := Snapshot{
		State:       c.stateLocked(finder != nil),
		SearchID:    searchID,
		Calculating: finder != nil,
		Searches:    c.searches.Load(),
		MaxInFlight: c.maxInFlight.Load(),
	}
	if c.hasGoal {
		s.Goal = c.goal.String()
	}
	if c.current != nil {
		s.Current = c.current.Path().Positions()
		s.Cursor = c.current.Cursor()
		s.MovementStatus = c.current.Status().String()
		s.TicksRemaining = c.current.TicksRemaining()
		if m := c.current.Current(); m != nil {
			s.Movement = m.String()
		}
		s.ToBreak = c.current.ToBreak()
		s.ToPlace = c.current.ToPlace()
	}
	if c.next != nil {
		s.Next = c.next.Positions()
	}
	if finder != nil {
		s.BestSoFar = finder.BestPathSoFar()
	}
	return s
}

// CurrentPath возвращает исполняемый участок или nil
func (c *Coordinator) CurrentPath() *calc.Path {
	c.planMu.Lock()
	defer c.planMu.Unlock()
	if c.current == nil {
		return nil
	}
	return c.current.Path()
}
