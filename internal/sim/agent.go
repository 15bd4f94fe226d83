// Package sim - упрощённая кинематика агента для демонстрации и тестов движка навигации.
// Агент принимает воздействия как control.Actuator и двигается по world.Map.
package sim

import (
	"math"
	"sync"

	"github.com/annel0/voxel-pathing/internal/control"
	"github.com/annel0/voxel-pathing/internal/inventory"
	"github.com/annel0/voxel-pathing/internal/physics"
	"github.com/annel0/voxel-pathing/internal/vec"
	"github.com/annel0/voxel-pathing/internal/world"
)

// Скорости в блоках за тик и параметры гравитации
const (
	WalkSpeed    = 4.317 / 20
	SprintSpeed  = 5.612 / 20
	SneakSpeed   = 1.3 / 20
	WaterSpeed   = 2.2 / 20
	Gravity      = 0.08
	Drag         = 0.98
	JumpVelocity = 0.42
	MaxFallSpeed = 3.92
	Reach        = 4.5

	verticalStep = 0.5
	groundEps    = 1e-6
)

// Agent - кинематическая модель агента
type Agent struct {
	mu sync.RWMutex

	world    *world.Map
	hotbar   *inventory.Hotbar
	collider *physics.BoxCollider

	pos      vec.Vec3Float
	vy       float64
	onGround bool
	rotation control.Rotation

	pressed   map[control.Input]bool
	prevRight bool

	breaking      vec.Vec3
	breakProgress float64
	isBreaking    bool

	ticks  int
	broken int
	placed int
}

// NewAgent ставит агента в центр ячейки feet
func NewAgent(w *world.Map, hotbar *inventory.Hotbar, feet vec.Vec3) *Agent {
	a := &Agent{
		world:    w,
		hotbar:   hotbar,
		collider: physics.AgentCollider(),
		pressed:  make(map[control.Input]bool),
	}
	a.Teleport(feet)
	return a
}

// Teleport переносит агента в центр ячейки feet и гасит скорость
func (a *Agent) Teleport(feet vec.Vec3) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pos = vec.Vec3Float{X: float64(feet.X) + 0.5, Y: float64(feet.Y), Z: float64(feet.Z) + 0.5}
	a.vy = 0
	a.onGround = physics.HasSupport(a.pos, a.collider, a.solid)
}

func (a *Agent) SetRotationTarget(yaw, pitch float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rotation = control.Rotation{Yaw: control.NormalizeYaw(yaw), Pitch: math.Max(-90, math.Min(90, pitch))}
}

func (a *Agent) SetInput(input control.Input, pressed bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pressed[input] = pressed
}

func (a *Agent) IsSneaking() bool { return a.Pressed(control.Sneak) }

func (a *Agent) IsSprinting() bool { return a.Pressed(control.Sprint) }

func (a *Agent) ClearAll() {
	a.mu.Lock()
	defer a.mu.Unlock()
	clear(a.pressed)
}

// Pressed возвращает true, если воздействие удерживается
func (a *Agent) Pressed(input control.Input) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.pressed[input]
}

// Position возвращает координаты ступней
func (a *Agent) Position() vec.Vec3Float {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.pos
}

// Feet возвращает ячейку, в которой стоят ступни
func (a *Agent) Feet() vec.Vec3 {
	return a.Position().Floor()
}

func (a *Agent) OnGround() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.onGround
}

// Rotation возвращает текущее направление взгляда
func (a *Agent) Rotation() control.Rotation {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.rotation
}

// Stats - счётчики симуляции
type Stats struct {
	Ticks  int
	Broken int
	Placed int
}

func (a *Agent) Stats() Stats {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return Stats{Ticks: a.ticks, Broken: a.broken, Placed: a.placed}
}

// Step продвигает симуляцию на один тик: взаимодействие с блоками, вертикаль, горизонталь
func (a *Agent) Step() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ticks++
	a.interact()
	a.moveVertical()
	a.moveHorizontal()
	a.onGround = a.grounded()
}

// solid сообщает, упирается ли коллайдер в ячейку
func (a *Agent) solid(c vec.Vec3) bool {
	st := a.world.Get(c)
	if st.IsAir() {
		return false
	}
	p := st.Props()
	return !p.Passable && !p.Liquid && !p.Climbable
}

func (a *Agent) inWater() bool {
	return a.world.Get(a.pos.Floor()).Props().Water
}

func (a *Agent) grounded() bool {
	if a.vy > 0 {
		return false
	}
	frac := a.pos.Y - math.Floor(a.pos.Y)
	if frac > groundEps && frac < 1-groundEps {
		return false
	}
	return physics.HasSupport(a.pos, a.collider, a.solid)
}

func (a *Agent) eyeHeight() float64 {
	if a.pressed[control.Sneak] {
		return control.SneakEyeHeight
	}
	return control.EyeHeight
}

func (a *Agent) moveVertical() {
	water := a.inWater()
	switch {
	case a.pressed[control.Jump] && water:
		a.vy = 0.1
	case a.pressed[control.Jump] && a.onGround:
		a.vy = JumpVelocity
	case a.onGround:
		a.vy = 0
	}

	remaining := a.vy
	for remaining != 0 {
		step := math.Max(-verticalStep, math.Min(verticalStep, remaining))
		trial := a.pos
		trial.Y += step
		if physics.CanMoveToPosition(trial, a.collider, a.solid) {
			a.pos = trial
			remaining -= step
			if math.Abs(remaining) < 1e-12 {
				remaining = 0
			}
			continue
		}
		if step < 0 {
			// Упёрлись в пол: встаём на верхнюю грань блока
			a.pos.Y = math.Floor(trial.Y) + 1
		}
		a.vy = 0
		remaining = 0
	}

	if water {
		a.vy = math.Max(a.vy*0.8-0.02, -0.1)
		return
	}
	a.vy = math.Max((a.vy-Gravity)*Drag, -MaxFallSpeed)
}

func (a *Agent) moveHorizontal() {
	forward, strafe := 0.0, 0.0
	if a.pressed[control.MoveForward] {
		forward++
	}
	if a.pressed[control.MoveBack] {
		forward--
	}
	if a.pressed[control.MoveRight] {
		strafe++
	}
	if a.pressed[control.MoveLeft] {
		strafe--
	}
	if forward == 0 && strafe == 0 {
		return
	}

	speed := WalkSpeed
	switch {
	case a.inWater():
		speed = WaterSpeed
	case a.pressed[control.Sneak]:
		speed = SneakSpeed
	case a.pressed[control.Sprint] && forward > 0:
		speed = SprintSpeed
	}

	yaw := a.rotation.Yaw * math.Pi / 180
	fx, fz := -math.Sin(yaw), math.Cos(yaw)
	rx, rz := -math.Cos(yaw), -math.Sin(yaw)
	dx := forward*fx + strafe*rx
	dz := forward*fz + strafe*rz
	norm := math.Hypot(dx, dz)
	dx, dz = dx/norm*speed, dz/norm*speed

	a.tryMove(vec.Vec3Float{X: dx})
	a.tryMove(vec.Vec3Float{Z: dz})
}

// tryMove сдвигает агента по одной оси, если не мешают блоки.
// Крадущийся агент на земле не сходит с края.
func (a *Agent) tryMove(delta vec.Vec3Float) {
	if delta.X == 0 && delta.Z == 0 {
		return
	}
	trial := a.pos.Add(delta)
	if !physics.CanMoveToPosition(trial, a.collider, a.solid) {
		return
	}
	if a.pressed[control.Sneak] && a.onGround && !physics.HasSupport(trial, a.collider, a.solid) {
		return
	}
	a.pos = trial
}

func (a *Agent) raycast(hit func(vec.Vec3) bool) (physics.Hit, bool) {
	eye := a.pos
	eye.Y += a.eyeHeight()
	return physics.Raycast(eye, a.rotation.Direction(), Reach, hit)
}

func (a *Agent) interact() {
	if a.pressed[control.ClickLeft] {
		a.mine()
	} else {
		a.isBreaking = false
		a.breakProgress = 0
	}

	right := a.pressed[control.ClickRight]
	if right && !a.prevRight {
		a.place()
	}
	a.prevRight = right
}

func (a *Agent) targetable(c vec.Vec3) bool {
	st := a.world.Get(c)
	return !st.IsAir() && !st.Props().Liquid
}

func (a *Agent) mine() {
	hit, ok := a.raycast(a.targetable)
	if !ok {
		a.isBreaking = false
		return
	}
	if !a.isBreaking || a.breaking != hit.Cell {
		a.breaking = hit.Cell
		a.breakProgress = 0
		a.isBreaking = true
	}
	st := a.world.Get(hit.Cell)
	props := st.Props()
	if props.Hardness < 0 {
		return
	}
	speed := a.hotbar.Tools().BestToolEffectiveness(st)
	if props.Costly {
		speed /= 10
	}
	a.breakProgress += speed
	if a.breakProgress >= 1-1e-9 {
		a.world.Set(hit.Cell, world.Air)
		a.isBreaking = false
		a.breakProgress = 0
		a.broken++
	}
}

func (a *Agent) place() {
	hit, ok := a.raycast(a.targetable)
	if !ok || hit.Normal == (vec.Vec3{}) {
		return
	}
	target := hit.Adjacent()
	st := a.world.Get(target)
	if !st.IsAir() && !st.Props().Replaceable {
		return
	}
	if a.collider.Intersects(a.pos, target) {
		return
	}
	id, ok := a.hotbar.TakeSelectedBlock()
	if !ok {
		return
	}
	a.world.Set(target, world.NewState(id))
	a.placed++
}
