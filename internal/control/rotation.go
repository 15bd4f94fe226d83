package control

import (
	"math"

	"github.com/annel0/voxel-pathing/internal/vec"
)

// Высота глаз агента над ступнями
const (
	EyeHeight      = 1.62
	SneakEyeHeight = 1.54
)

// Rotation - направление взгляда в градусах.
// Yaw 0 смотрит на +Z, 90 - на -X; положительный Pitch смотрит вниз.
type Rotation struct {
	Yaw   float64
	Pitch float64
}

// CalcRotation возвращает поворот, при котором взгляд из from направлен в to
func CalcRotation(from, to vec.Vec3Float) Rotation {
	d := to.Sub(from)
	hyp := math.Hypot(d.X, d.Z)
	return Rotation{
		Yaw:   NormalizeYaw(math.Atan2(d.Z, d.X)*180/math.Pi - 90),
		Pitch: -math.Atan2(d.Y, hyp) * 180 / math.Pi,
	}
}

// Direction возвращает единичный вектор взгляда
func (r Rotation) Direction() vec.Vec3Float {
	yaw := r.Yaw * math.Pi / 180
	pitch := r.Pitch * math.Pi / 180
	return vec.Vec3Float{
		X: -math.Sin(yaw) * math.Cos(pitch),
		Y: -math.Sin(pitch),
		Z: math.Cos(yaw) * math.Cos(pitch),
	}
}

// NormalizeYaw приводит угол к диапазону (-180, 180]
func NormalizeYaw(yaw float64) float64 {
	yaw = math.Mod(yaw, 360)
	if yaw <= -180 {
		yaw += 360
	} else if yaw > 180 {
		yaw -= 360
	}
	return yaw
}
