package path

import (
	"math"

	"github.com/annel0/voxel-pathing/internal/config"
	"github.com/annel0/voxel-pathing/internal/control"
	"github.com/annel0/voxel-pathing/internal/inventory"
	"github.com/annel0/voxel-pathing/internal/pathing/calc"
	"github.com/annel0/voxel-pathing/internal/pathing/movement"
	"github.com/annel0/voxel-pathing/internal/vec"
	"github.com/annel0/voxel-pathing/internal/world"
)

// centerTolerance - горизонтальное отклонение от центра ячейки, при котором агент не идёт дальше
const centerTolerance = 0.15

// backPlaceOffset - насколько агент должен выйти за край блока под src, чтобы увидеть его грань
const backPlaceOffset = 0.6

// Agent - наблюдаемое состояние агента
type Agent interface {
	// Position возвращает координаты ступней
	Position() vec.Vec3Float
	OnGround() bool
}

// Env - всё, с чем исполнитель взаимодействует снаружи
type Env struct {
	World     world.Accessor
	Agent     Agent
	Actuator  control.Actuator
	Inventory inventory.Oracle
	Settings  config.Pathing
}

// Executor потактово ведёт агента по собранному пути.
// Восстановлением после отказа не занимается: отказ сообщается наверх.
type Executor struct {
	path      *calc.Path
	movements []*movement.Movement
	env       Env

	cursor    int
	status    Status
	ticks     int
	clickHeld bool
}

// NewExecutor создаёт исполнитель, начинающий с первого перемещения
func NewExecutor(p *calc.Path, env Env) *Executor {
	return NewExecutorFrom(p, env, 0)
}

// NewExecutorFrom создаёт исполнитель, начинающий с перемещения start.
// Используется при переходе на следующий участок с середины.
func NewExecutorFrom(p *calc.Path, env Env, start int) *Executor {
	movements := p.Movements()
	if start < 0 {
		start = 0
	}
	if start > len(movements) {
		start = len(movements)
	}
	e := &Executor{
		path:      p,
		movements: movements,
		env:       env,
		cursor:    start,
		status:    Waiting,
	}
	if start == len(movements) {
		e.status = Success
	}
	return e
}

// Path возвращает исполняемый путь
func (e *Executor) Path() *calc.Path { return e.path }

// Cursor возвращает индекс текущего перемещения
func (e *Executor) Cursor() int { return e.cursor }

// Status возвращает состояние текущего (или последнего) перемещения
func (e *Executor) Status() Status { return e.status }

// Current возвращает текущее перемещение или nil, если путь пройден
func (e *Executor) Current() *movement.Movement {
	if e.cursor >= len(e.movements) {
		return nil
	}
	return e.movements[e.cursor]
}

// Finished возвращает true, если все перемещения выполнены
func (e *Executor) Finished() bool {
	return e.cursor >= len(e.movements)
}

// Failed возвращает true после отказа перемещения
func (e *Executor) Failed() bool {
	return e.status == Failed || e.status == Unreachable
}

// Done возвращает true, если исполнитель больше ничего не сделает
func (e *Executor) Done() bool {
	return e.Finished() || e.Failed()
}

// TicksRemaining оценивает оставшееся время исполнения
func (e *Executor) TicksRemaining() float64 {
	return e.path.TicksRemainingFrom(e.cursor)
}

// ToBreak возвращает ячейки, которые текущее перемещение ещё должно сломать
func (e *Executor) ToBreak() []vec.Vec3 {
	if m := e.Current(); m != nil {
		return m.ToBreak(e.env.World)
	}
	return nil
}

// ToPlace возвращает ячейки, куда текущее перемещение ещё должно поставить блок
func (e *Executor) ToPlace() []vec.Vec3 {
	if m := e.Current(); m != nil {
		return m.ToPlace(e.env.World)
	}
	return nil
}

// ToWalkInto возвращает ячейки, в которые агент упрётся
func (e *Executor) ToWalkInto() []vec.Vec3 {
	if m := e.Current(); m != nil {
		return m.ToWalkInto(e.env.World)
	}
	return nil
}

// Tick продвигает текущее перемещение на один тик.
// Возвращает true, если на этом тике перемещение успешно завершилось:
// в этот момент безопасно переключиться на другой путь.
func (e *Executor) Tick() bool {
	if e.Done() {
		return false
	}
	m := e.movements[e.cursor]

	if e.status == Waiting {
		e.status = Preparing
	}
	if e.status == Preparing {
		if st := e.prepare(m); st != Running {
			e.fail(st)
			return false
		}
		e.status = Running
	}

	switch st := e.run(m); st {
	case Success:
		e.advance()
		return true
	case Failed, Unreachable:
		e.fail(st)
	}
	return false
}

// prepare проверяет выполнимость перемещения перед стартом
func (e *Executor) prepare(m *movement.Movement) Status {
	if len(m.ToPlace(e.env.World)) > 0 && !e.hasThrowaway() {
		return Unreachable
	}
	if movement.IsInf(m.CalculateCost(e.path.Context())) {
		return Failed
	}
	return Running
}

func (e *Executor) hasThrowaway() bool {
	return e.env.Inventory != nil && e.env.Inventory.HasThrowaway()
}

func (e *Executor) timeoutTicks(m *movement.Movement) float64 {
	return m.Cost() + float64(e.env.Settings.MovementTimeoutTicks)
}

func (e *Executor) run(m *movement.Movement) Status {
	e.ticks++
	if float64(e.ticks) > e.timeoutTicks(m) {
		return Failed
	}

	pos := e.env.Agent.Position()
	if distToSegment(pos, feetPoint(m.Src), feetPoint(m.Dest)) > e.env.Settings.MaxDistFromPath {
		return Failed
	}

	w := e.env.World
	toBreak := m.ToBreak(w)
	toPlace := m.ToPlace(w)
	if pos.Floor() == m.Dest && len(toBreak) == 0 && len(toPlace) == 0 && e.grounded(pos) {
		return Success
	}

	act := e.env.Actuator
	if len(toBreak) > 0 {
		e.releaseClick(control.ClickRight)
		act.SetInput(control.MoveForward, false)
		act.SetInput(control.Sprint, false)
		e.look(pos, toBreak[0].Center(), false)
		act.SetInput(control.ClickLeft, true)
		return Running
	}
	act.SetInput(control.ClickLeft, false)

	if len(toPlace) > 0 {
		return e.place(m, toPlace[0], pos)
	}
	e.releaseClick(control.ClickRight)
	act.SetInput(control.Sneak, false)
	act.SetInput(control.MoveBack, false)
	e.walk(m, pos)
	return Running
}

// place ставит блок опоры. Блок обязателен только для моста и подъёма.
func (e *Executor) place(m *movement.Movement, target vec.Vec3, pos vec.Vec3Float) Status {
	if m.Type != movement.TypeTraverse && m.Type != movement.TypeAscend {
		return Failed
	}
	if e.env.Inventory == nil || !e.env.Inventory.SelectThrowaway() {
		return Unreachable
	}
	against, back, ok := m.PlaceAgainst(e.env.World, target)
	if !ok {
		return Failed
	}

	act := e.env.Actuator
	act.SetInput(control.Sprint, false)
	act.SetInput(control.MoveForward, false)
	act.SetInput(control.Sneak, true)
	face := faceCenter(against, target)
	e.look(pos, face, true)

	if back {
		// Отходим спиной за край, пока грань блока под src не окажется перед глазами
		dir := target.Sub(against)
		src := feetPoint(m.Src)
		offset := (pos.X-src.X)*float64(dir.X) + (pos.Z-src.Z)*float64(dir.Z)
		if offset < backPlaceOffset {
			e.releaseClick(control.ClickRight)
			act.SetInput(control.MoveBack, true)
			return Running
		}
		act.SetInput(control.MoveBack, false)
	}
	e.pulseClick(control.ClickRight)
	return Running
}

func (e *Executor) walk(m *movement.Movement, pos vec.Vec3Float) {
	act := e.env.Actuator
	dest := feetPoint(m.Dest)
	e.env.Actuator.SetRotationTarget(control.CalcRotation(
		vec.Vec3Float{X: pos.X, Z: pos.Z},
		vec.Vec3Float{X: dest.X, Z: dest.Z},
	).Yaw, 0)

	far := math.Hypot(dest.X-pos.X, dest.Z-pos.Z) > centerTolerance
	act.SetInput(control.MoveForward, far)
	act.SetInput(control.Sprint, far && m.SprintEligible(e.env.World))
	act.SetInput(control.Jump, m.NeedsJump() && pos.Floor().Y < m.Dest.Y && e.env.Agent.OnGround())
}

// look поворачивает взгляд агента на точку
func (e *Executor) look(pos, target vec.Vec3Float, sneaking bool) {
	eye := control.EyeHeight
	if sneaking {
		eye = control.SneakEyeHeight
	}
	rot := control.CalcRotation(vec.Vec3Float{X: pos.X, Y: pos.Y + eye, Z: pos.Z}, target)
	e.env.Actuator.SetRotationTarget(rot.Yaw, rot.Pitch)
}

// pulseClick чередует нажатие и отпускание: каждое нажатие - одно действие
func (e *Executor) pulseClick(in control.Input) {
	e.clickHeld = !e.clickHeld
	e.env.Actuator.SetInput(in, e.clickHeld)
}

func (e *Executor) releaseClick(in control.Input) {
	if e.clickHeld {
		e.env.Actuator.SetInput(in, false)
		e.clickHeld = false
	}
}

func (e *Executor) grounded(pos vec.Vec3Float) bool {
	if e.env.Agent.OnGround() {
		return true
	}
	props := e.env.World.Get(pos.Floor()).Props()
	return props.Water || props.Climbable
}

func (e *Executor) advance() {
	act := e.env.Actuator
	act.SetInput(control.Jump, false)
	act.SetInput(control.Sneak, false)
	act.SetInput(control.ClickLeft, false)
	e.releaseClick(control.ClickRight)
	e.cursor++
	e.ticks = 0
	if e.cursor >= len(e.movements) {
		e.status = Success
		act.ClearAll()
		return
	}
	e.status = Waiting
}

func (e *Executor) fail(st Status) {
	e.status = st
	e.clickHeld = false
	e.env.Actuator.ClearAll()
}

// feetPoint - точка ступней агента, стоящего в центре ячейки
func feetPoint(v vec.Vec3) vec.Vec3Float {
	return vec.Vec3Float{X: float64(v.X) + 0.5, Y: float64(v.Y), Z: float64(v.Z) + 0.5}
}

// faceCenter - центр грани блока against, обращённой к ячейке target
func faceCenter(against, target vec.Vec3) vec.Vec3Float {
	a, t := against.Center(), target.Center()
	return vec.Vec3Float{X: (a.X + t.X) / 2, Y: (a.Y + t.Y) / 2, Z: (a.Z + t.Z) / 2}
}

func distToSegment(p, a, b vec.Vec3Float) float64 {
	ab := b.Sub(a)
	ap := p.Sub(a)
	lenSq := ab.X*ab.X + ab.Y*ab.Y + ab.Z*ab.Z
	t := 0.0
	if lenSq > 0 {
		t = (ap.X*ab.X + ap.Y*ab.Y + ap.Z*ab.Z) / lenSq
		t = math.Max(0, math.Min(1, t))
	}
	closest := a.Add(ab.Mul(t))
	d := p.Sub(closest)
	return math.Sqrt(d.X*d.X + d.Y*d.Y + d.Z*d.Z)
}
