package vec

// Vec3 представляет трехмерный вектор с целочисленными координатами.
// Используется как адрес вокселя (ячейки) мира: Y - высота.
type Vec3 struct {
	X int
	Y int
	Z int
}

// Vec3Float представляет трехмерный вектор с плавающими координатами
type Vec3Float struct {
	X float64
	Y float64
	Z float64
}

// ColumnXZ возвращает колонку (X, Z), игнорируя высоту
func (v Vec3) ColumnXZ() Vec2 {
	return Vec2{
		X: v.X,
		Y: v.Z,
	}
}

// DistanceTo возвращает квадрат расстояния до другого вектора
func (v Vec3) DistanceTo(other Vec3) float64 {
	dx := v.X - other.X
	dy := v.Y - other.Y
	dz := v.Z - other.Z
	return float64(dx*dx + dy*dy + dz*dz)
}

// Equals проверяет равенство векторов
func (v Vec3) Equals(other Vec3) bool {
	return v.X == other.X && v.Y == other.Y && v.Z == other.Z
}

// Add складывает два вектора
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{
		X: v.X + other.X,
		Y: v.Y + other.Y,
		Z: v.Z + other.Z,
	}
}

// Sub вычитает вектор
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{
		X: v.X - other.X,
		Y: v.Y - other.Y,
		Z: v.Z - other.Z,
	}
}

// Up возвращает ячейку на n блоков выше (по умолчанию на один)
func (v Vec3) Up(n ...int) Vec3 {
	d := 1
	if len(n) > 0 {
		d = n[0]
	}
	return Vec3{X: v.X, Y: v.Y + d, Z: v.Z}
}

// Down возвращает ячейку на n блоков ниже (по умолчанию на один)
func (v Vec3) Down(n ...int) Vec3 {
	d := 1
	if len(n) > 0 {
		d = n[0]
	}
	return Vec3{X: v.X, Y: v.Y - d, Z: v.Z}
}

// Offset сдвигает ячейку в горизонтальном направлении
func (v Vec3) Offset(dir Direction) Vec3 {
	off := dir.Vec()
	return Vec3{X: v.X + off.X, Y: v.Y, Z: v.Z + off.Z}
}

// Center возвращает центр блока
func (v Vec3) Center() Vec3Float {
	return Vec3Float{X: float64(v.X) + 0.5, Y: float64(v.Y) + 0.5, Z: float64(v.Z) + 0.5}
}

// ToFloat переводит ячейку в координаты её минимального угла
func (v Vec3) ToFloat() Vec3Float {
	return Vec3Float{X: float64(v.X), Y: float64(v.Y), Z: float64(v.Z)}
}
