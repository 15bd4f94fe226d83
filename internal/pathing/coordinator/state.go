package coordinator

// State - состояние координатора навигации
type State uint8

const (
	NoGoal State = iota
	NoPath
	Calculating
	Executing
	PlanningAhead
	AtGoal
	Failed
)

func (s State) String() string {
	switch s {
	case NoGoal:
		return "NoGoal"
	case NoPath:
		return "NoPath"
	case Calculating:
		return "Calculating"
	case Executing:
		return "Executing"
	case PlanningAhead:
		return "PlanningAhead"
	case AtGoal:
		return "AtGoal"
	case Failed:
		return "Failed"
	}
	return "Unknown"
}

// MarshalText отдаёт состояние строкой в JSON
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
