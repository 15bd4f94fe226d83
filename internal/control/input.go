package control

// Input - вид управляющего воздействия агента
type Input uint8

const (
	MoveForward Input = iota
	MoveBack
	MoveLeft
	MoveRight
	Jump
	Sneak
	Sprint
	ClickLeft  // ломать блок
	ClickRight // ставить блок
	inputCount
)

// AllInputs перечисляет все виды воздействий
var AllInputs = [...]Input{MoveForward, MoveBack, MoveLeft, MoveRight, Jump, Sneak, Sprint, ClickLeft, ClickRight}

var inputNames = [...]string{
	MoveForward: "MoveForward",
	MoveBack:    "MoveBack",
	MoveLeft:    "MoveLeft",
	MoveRight:   "MoveRight",
	Jump:        "Jump",
	Sneak:       "Sneak",
	Sprint:      "Sprint",
	ClickLeft:   "ClickLeft",
	ClickRight:  "ClickRight",
}

func (i Input) String() string {
	if i < inputCount {
		return inputNames[i]
	}
	return "Unknown"
}

// Actuator принимает намерения исполнителя пути. Вызывается только из потока тиков.
type Actuator interface {
	SetRotationTarget(yaw, pitch float64)
	SetInput(input Input, pressed bool)
	IsSneaking() bool
	IsSprinting() bool
	// ClearAll отпускает все воздействия
	ClearAll()
}
