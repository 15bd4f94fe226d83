package world

import (
	"sync"

	"github.com/annel0/voxel-pathing/internal/vec"
)

// Chunk представляет колонну мира размером 16x16 блоков на всю высоту
type Chunk struct {
	Coords vec.Vec2 // Координаты чанка в мире (X, Z)

	// Blocks[y][x][z]
	Blocks [Height][16][16]VoxelState

	ChangeCounter int          // Счетчик изменений
	Mu            sync.RWMutex // Мьютекс для безопасного доступа
}

// NewChunk создаёт новый пустой (заполненный воздухом) чанк
func NewChunk(coords vec.Vec2) *Chunk {
	return &Chunk{
		Coords: coords,
	}
}

// Get возвращает состояние по локальным координатам.
// Высота за пределами мира читается как воздух.
func (c *Chunk) Get(x, y, z int) VoxelState {
	if !InBounds(y) {
		return Air
	}
	c.Mu.RLock()
	defer c.Mu.RUnlock()

	return c.Blocks[y][x][z]
}

// Set устанавливает состояние по локальным координатам
func (c *Chunk) Set(x, y, z int, state VoxelState) {
	if !InBounds(y) {
		return
	}
	c.Mu.Lock()
	defer c.Mu.Unlock()

	c.Blocks[y][x][z] = state
	c.ChangeCounter++
}

// HasChanges возвращает true, если в чанке есть изменения
func (c *Chunk) HasChanges() bool {
	c.Mu.RLock()
	defer c.Mu.RUnlock()

	return c.ChangeCounter > 0
}

// ClearChanges сбрасывает счетчик изменений
func (c *Chunk) ClearChanges() {
	c.Mu.Lock()
	defer c.Mu.Unlock()

	c.ChangeCounter = 0
}

// HighestSolid возвращает высоту верхнего непроходимого блока колонки или -1
func (c *Chunk) HighestSolid(x, z int) int {
	c.Mu.RLock()
	defer c.Mu.RUnlock()

	for y := Height - 1; y >= MinY; y-- {
		if !c.Blocks[y][x][z].Props().Passable {
			return y
		}
	}
	return -1
}
