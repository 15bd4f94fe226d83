package world

import (
	"github.com/annel0/voxel-pathing/internal/world/block"
	// Каталог блоков регистрируется при импорте
	_ "github.com/annel0/voxel-pathing/internal/world/block/implementations"
)

// VoxelState описывает содержимое одной ячейки мира
type VoxelState struct {
	ID    block.BlockID // Идентификатор типа блока
	Level uint8         // Уровень жидкости: 0 - источник, >0 - течение
}

// Air - состояние пустой ячейки. Его же возвращают запросы к незагруженным областям.
var Air = VoxelState{ID: block.AirBlockID}

// NewState создаёт состояние блока без уровня жидкости
func NewState(id block.BlockID) VoxelState {
	return VoxelState{ID: id}
}

// Props возвращает физические свойства блока
func (s VoxelState) Props() block.Properties {
	return block.PropertiesOf(s.ID)
}

// IsAir возвращает true для пустой ячейки
func (s VoxelState) IsAir() bool {
	return s.ID == block.AirBlockID
}

// IsFlowing возвращает true для текущей (не источника) жидкости
func (s VoxelState) IsFlowing() bool {
	return s.Level != 0 && s.Props().Liquid
}
