package world

import (
	"sync"

	"github.com/annel0/voxel-pathing/internal/vec"
)

// Map - потокобезопасный мир в памяти, разбитый на чанки.
// Реализует Accessor и LoadChecker; отсутствующий чанк считается незагруженным.
type Map struct {
	chunks map[vec.Vec2]*Chunk // Загруженные чанки
	mu     sync.RWMutex        // Мьютекс для карты чанков
}

// NewMap создаёт пустой мир без загруженных чанков
func NewMap() *Map {
	return &Map{
		chunks: make(map[vec.Vec2]*Chunk),
	}
}

func (m *Map) chunkAt(pos vec.Vec3) *Chunk {
	coords := pos.ColumnXZ().ToChunkCoords()

	m.mu.RLock()
	chunk := m.chunks[coords]
	m.mu.RUnlock()
	return chunk
}

// Get возвращает состояние ячейки; незагруженные ячейки читаются как Air
func (m *Map) Get(pos vec.Vec3) VoxelState {
	if !InBounds(pos.Y) {
		return Air
	}
	chunk := m.chunkAt(pos)
	if chunk == nil {
		return Air
	}
	local := pos.ColumnXZ().LocalInChunk()
	return chunk.Get(local.X, pos.Y, local.Y)
}

// IsLoaded возвращает true, если чанк ячейки загружен
func (m *Map) IsLoaded(pos vec.Vec3) bool {
	return m.chunkAt(pos) != nil
}

// Set устанавливает состояние ячейки, при необходимости загружая пустой чанк
func (m *Map) Set(pos vec.Vec3, state VoxelState) {
	if !InBounds(pos.Y) {
		return
	}
	chunk := m.LoadChunk(pos.ColumnXZ().ToChunkCoords())
	local := pos.ColumnXZ().LocalInChunk()
	chunk.Set(local.X, pos.Y, local.Y, state)
}

// Fill заполняет прямоугольный объём между двумя углами включительно
func (m *Map) Fill(from, to vec.Vec3, state VoxelState) {
	minX, maxX := order(from.X, to.X)
	minY, maxY := order(from.Y, to.Y)
	minZ, maxZ := order(from.Z, to.Z)
	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			for z := minZ; z <= maxZ; z++ {
				m.Set(vec.Vec3{X: x, Y: y, Z: z}, state)
			}
		}
	}
}

// LoadChunk возвращает чанк, создавая пустой при отсутствии
func (m *Map) LoadChunk(coords vec.Vec2) *Chunk {
	m.mu.Lock()
	defer m.mu.Unlock()

	chunk, ok := m.chunks[coords]
	if !ok {
		chunk = NewChunk(coords)
		m.chunks[coords] = chunk
	}
	return chunk
}

// PutChunk устанавливает готовый (например, сгенерированный) чанк
func (m *Map) PutChunk(chunk *Chunk) {
	m.mu.Lock()
	m.chunks[chunk.Coords] = chunk
	m.mu.Unlock()
}

// UnloadChunk выгружает чанк; его ячейки снова читаются как Air
func (m *Map) UnloadChunk(coords vec.Vec2) {
	m.mu.Lock()
	delete(m.chunks, coords)
	m.mu.Unlock()
}

// ChunkCount возвращает число загруженных чанков
func (m *Map) ChunkCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.chunks)
}

// SurfaceAt возвращает первую проходимую ячейку над верхним твёрдым блоком колонки
func (m *Map) SurfaceAt(x, z int) (vec.Vec3, bool) {
	pos := vec.Vec3{X: x, Z: z}
	chunk := m.chunkAt(pos)
	if chunk == nil {
		return vec.Vec3{}, false
	}
	local := pos.ColumnXZ().LocalInChunk()
	top := chunk.HighestSolid(local.X, local.Y)
	if top < 0 || top+1 >= Height {
		return vec.Vec3{}, false
	}
	return vec.Vec3{X: x, Y: top + 1, Z: z}, true
}

func order(a, b int) (int, int) {
	if a > b {
		return b, a
	}
	return a, b
}
