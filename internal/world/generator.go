package world

import (
	"math/rand"

	"github.com/annel0/voxel-pathing/internal/util"
	"github.com/annel0/voxel-pathing/internal/vec"
	"github.com/annel0/voxel-pathing/internal/world/block"
)

// BiomeType представляет тип биома
type BiomeType int

const (
	BiomePlains BiomeType = iota
	BiomeDesert
	BiomeForest
	BiomeMountains
	BiomeWater
)

// Константы генерации
const (
	SeaLevel      = 62 // Уровень моря
	BaseHeight    = 56 // Минимальная высота поверхности
	HeightRange   = 24 // Разброс высоты поверхности
	SoilDepth     = 3  // Толщина почвы над камнем
	MountainStart = 0.75
)

// WorldGenerator генерирует ландшафт мира
type WorldGenerator struct {
	Seed          int64   // Сид для генерации шума
	NoiseScale    float64 // Масштаб основного шума (высота)
	BiomeScale    float64 // Масштаб шума биомов
	ForestDensity float64 // Плотность лесов (от 0 до 1)

	height *util.Noise
	biome  *util.Noise
}

// NewWorldGenerator создаёт новый генератор мира
func NewWorldGenerator(seed int64) *WorldGenerator {
	return &WorldGenerator{
		Seed:          seed,
		NoiseScale:    0.03, // Настройка сглаженности ландшафта
		BiomeScale:    0.01, // Настройка размера биомов
		ForestDensity: 0.02, // 2% шанс появления деревьев на равнинах
		height:        util.NewNoise(seed),
		biome:         util.NewNoise(seed + 42),
	}
}

// SurfaceHeight возвращает высоту верхнего твёрдого блока колонки
func (wg *WorldGenerator) SurfaceHeight(x, z int) int {
	h := wg.height.Noise2D(float64(x)*wg.NoiseScale, float64(z)*wg.NoiseScale)
	return BaseHeight + int(h*HeightRange)
}

// GenerateChunk генерирует чанк по его координатам
func (wg *WorldGenerator) GenerateChunk(coords vec.Vec2) *Chunk {
	chunk := NewChunk(coords)

	// Для каждого чанка создаем уникальный сид на основе глобального сида и координат
	chunkSeed := wg.Seed + int64(coords.X*31) + int64(coords.Y*17)
	rng := rand.New(rand.NewSource(chunkSeed))

	globalStartX := coords.X << 4
	globalStartZ := coords.Y << 4

	for x := 0; x < 16; x++ {
		for z := 0; z < 16; z++ {
			globalX := globalStartX + x
			globalZ := globalStartZ + z

			top := wg.SurfaceHeight(globalX, globalZ)
			heightValue := float64(top-BaseHeight) / HeightRange
			biomeValue := wg.biome.Noise2D(float64(globalX)*wg.BiomeScale, float64(globalZ)*wg.BiomeScale)
			biome := wg.getBiomeType(top, heightValue, biomeValue)

			wg.fillColumn(chunk, x, z, top, biome)

			// Объекты ставим только на сушу и не у края чанка, чтобы листва не выходила за его пределы
			if biome == BiomeWater || x < 2 || x > 13 || z < 2 || z > 13 {
				continue
			}
			switch {
			case biome == BiomeForest && rng.Float64() < 0.08:
				wg.placeTree(chunk, x, top+1, z, rng)
			case biome == BiomePlains && rng.Float64() < wg.ForestDensity:
				wg.placeTree(chunk, x, top+1, z, rng)
			case biome == BiomeDesert && rng.Float64() < 0.02:
				for i := 1; i <= 1+rng.Intn(3); i++ {
					chunk.Blocks[top+i][x][z] = NewState(block.CactusBlockID)
				}
			case biome == BiomePlains && rng.Float64() < 0.1:
				chunk.Blocks[top+1][x][z] = NewState(block.TallGrassBlockID)
			}
		}
	}

	return chunk
}

// fillColumn заполняет колонку: бедрок, камень, почва и вода до уровня моря
func (wg *WorldGenerator) fillColumn(chunk *Chunk, x, z, top int, biome BiomeType) {
	chunk.Blocks[0][x][z] = NewState(block.BedrockBlockID)
	for y := 1; y <= top; y++ {
		var id block.BlockID
		switch {
		case y <= top-SoilDepth:
			id = block.StoneBlockID
		case y < top:
			id = wg.getSoilBlockForBiome(biome)
		default:
			id = wg.getSurfaceBlockForBiome(biome)
		}
		chunk.Blocks[y][x][z] = NewState(id)
	}
	for y := top + 1; y <= SeaLevel; y++ {
		chunk.Blocks[y][x][z] = NewState(block.WaterBlockID)
	}
}

// placeTree ставит ствол высотой 4-6 блоков с шапкой листвы
func (wg *WorldGenerator) placeTree(chunk *Chunk, x, y, z int, rng *rand.Rand) {
	treeHeight := 4 + rng.Intn(3)
	if y+treeHeight+1 >= Height {
		return
	}
	for i := 0; i < treeHeight; i++ {
		chunk.Blocks[y+i][x][z] = NewState(block.TreeBlockID)
	}
	crown := y + treeHeight - 2
	for dy := 0; dy < 3; dy++ {
		for dx := -2; dx <= 2; dx++ {
			for dz := -2; dz <= 2; dz++ {
				if dx*dx+dz*dz > 5 {
					continue
				}
				cell := &chunk.Blocks[crown+dy][x+dx][z+dz]
				if cell.IsAir() {
					*cell = NewState(block.LeavesBlockID)
				}
			}
		}
	}
	chunk.Blocks[y+treeHeight][x][z] = NewState(block.LeavesBlockID)
}

// getSurfaceBlockForBiome возвращает верхний блок для указанного биома
func (wg *WorldGenerator) getSurfaceBlockForBiome(biome BiomeType) block.BlockID {
	switch biome {
	case BiomeDesert:
		return block.SandBlockID
	case BiomeMountains:
		return block.StoneBlockID
	case BiomeWater:
		return block.GravelBlockID
	default:
		return block.GrassBlockID
	}
}

// getSoilBlockForBiome возвращает блок почвы под поверхностью
func (wg *WorldGenerator) getSoilBlockForBiome(biome BiomeType) block.BlockID {
	switch biome {
	case BiomeDesert:
		return block.SandBlockID
	case BiomeMountains:
		return block.StoneBlockID
	default:
		return block.DirtBlockID
	}
}

// getBiomeType определяет тип биома на основе высоты и шума биомов
func (wg *WorldGenerator) getBiomeType(top int, heightValue, biomeValue float64) BiomeType {
	// Под водой
	if top < SeaLevel {
		return BiomeWater
	}

	// Горные биомы на возвышенностях
	if heightValue > MountainStart {
		return BiomeMountains
	}

	if biomeValue < 0.35 {
		return BiomeDesert
	} else if biomeValue > 0.65 {
		return BiomeForest
	}

	return BiomePlains
}

// Generate загружает в мир квадрат чанков радиуса radius вокруг центра
func (wg *WorldGenerator) Generate(m *Map, center vec.Vec2, radius int) {
	for cx := center.X - radius; cx <= center.X+radius; cx++ {
		for cz := center.Y - radius; cz <= center.Y+radius; cz++ {
			m.PutChunk(wg.GenerateChunk(vec.Vec2{X: cx, Y: cz}))
		}
	}
}
