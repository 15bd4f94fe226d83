package vec

// Direction - горизонтальное направление.
// Порядок констант фиксирован: на нём держится порядок перебора ходов.
type Direction uint8

const (
	North Direction = iota // -Z
	South                  // +Z
	East                   // +X
	West                   // -X
)

// Horizontals - все горизонтальные направления в каноническом порядке
var Horizontals = [4]Direction{North, South, East, West}

// Vec возвращает единичное смещение направления
func (d Direction) Vec() Vec3 {
	switch d {
	case North:
		return Vec3{Z: -1}
	case South:
		return Vec3{Z: 1}
	case East:
		return Vec3{X: 1}
	case West:
		return Vec3{X: -1}
	default:
		return Vec3{}
	}
}

// Opposite возвращает противоположное направление
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	default:
		return East
	}
}

// String возвращает имя направления
func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case South:
		return "south"
	case East:
		return "east"
	case West:
		return "west"
	default:
		return "unknown"
	}
}
