package world

import "github.com/annel0/voxel-pathing/internal/vec"

// Границы мира по высоте
const (
	MinY   = 0
	Height = 256
)

// Accessor - единственный способ, которым движок навигации читает мир.
// Реализация обязана быть безопасной для одновременного чтения из потока тиков
// и из потока поиска пути. Незагруженные и лежащие вне мира ячейки читаются как Air.
type Accessor interface {
	Get(pos vec.Vec3) VoxelState
}

// LoadChecker - необязательное расширение Accessor: сообщает, загружена ли ячейка
type LoadChecker interface {
	IsLoaded(pos vec.Vec3) bool
}

// InBounds проверяет, лежит ли высота внутри мира
func InBounds(y int) bool {
	return y >= MinY && y < Height
}

// IsLoaded возвращает true, если ячейка загружена. Миры без LoadChecker
// считаются загруженными целиком.
func IsLoaded(w Accessor, pos vec.Vec3) bool {
	if lc, ok := w.(LoadChecker); ok {
		return lc.IsLoaded(pos)
	}
	return true
}
