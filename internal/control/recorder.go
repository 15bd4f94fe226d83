package control

import "sync"

// Recorder - Actuator, запоминающий текущее состояние и число нажатий.
// Используется симулятором и тестами.
type Recorder struct {
	mu       sync.RWMutex
	pressed  [inputCount]bool
	presses  [inputCount]int
	rotation Rotation
	rotated  bool
	clears   int
}

// NewRecorder создаёт Recorder с отпущенными воздействиями
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) SetRotationTarget(yaw, pitch float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rotation = Rotation{Yaw: yaw, Pitch: pitch}
	r.rotated = true
}

func (r *Recorder) SetInput(input Input, pressed bool) {
	if input >= inputCount {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if pressed {
		// Удержание считается одним нажатием
		if !r.pressed[input] {
			r.presses[input]++
		}
	}
	r.pressed[input] = pressed
}

func (r *Recorder) IsSneaking() bool {
	return r.Pressed(Sneak)
}

func (r *Recorder) IsSprinting() bool {
	return r.Pressed(Sprint)
}

func (r *Recorder) ClearAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pressed = [inputCount]bool{}
	r.clears++
}

// Pressed возвращает true, если воздействие сейчас удерживается
func (r *Recorder) Pressed(input Input) bool {
	if input >= inputCount {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.pressed[input]
}

// Presses возвращает число нажатий воздействия за всё время
func (r *Recorder) Presses(input Input) int {
	if input >= inputCount {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.presses[input]
}

// Rotation возвращает последний заданный поворот и признак того, что он задавался
func (r *Recorder) Rotation() (Rotation, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rotation, r.rotated
}

// Clears возвращает число вызовов ClearAll
func (r *Recorder) Clears() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.clears
}
