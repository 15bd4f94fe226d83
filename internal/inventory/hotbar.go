package inventory

import (
	"sync"

	"github.com/annel0/voxel-pathing/internal/world/block"
)

// HotbarSize - количество слотов панели быстрого доступа
const HotbarSize = 9

// ItemKind определяет тип предмета в слоте
type ItemKind uint8

const (
	ItemEmpty ItemKind = iota
	ItemTool
	ItemBlock
	ItemWaterBucket
)

// Slot - содержимое одного слота
type Slot struct {
	Kind  ItemKind
	Tool  Tool
	Block block.BlockID
	Count int
}

// DefaultThrowaway - блоки, которые не жалко ставить под ноги
var DefaultThrowaway = []block.BlockID{
	block.DirtBlockID,
	block.CobblestoneBlockID,
	block.NetherrackBlockID,
	block.StoneBlockID,
}

// Hotbar - простая панель быстрого доступа, реализующая Oracle
type Hotbar struct {
	mu        sync.RWMutex
	slots     [HotbarSize]Slot
	selected  int
	throwaway map[block.BlockID]bool
}

// NewHotbar создаёт пустую панель со стандартным списком расходных блоков
func NewHotbar() *Hotbar {
	h := &Hotbar{
		throwaway: make(map[block.BlockID]bool, len(DefaultThrowaway)),
	}
	for _, id := range DefaultThrowaway {
		h.throwaway[id] = true
	}
	return h
}

// SetSlot кладёт предмет в слот; индексы вне панели игнорируются
func (h *Hotbar) SetSlot(i int, slot Slot) {
	if i < 0 || i >= HotbarSize {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.slots[i] = slot
}

// Slot возвращает копию содержимого слота
func (h *Hotbar) Slot(i int) Slot {
	if i < 0 || i >= HotbarSize {
		return Slot{}
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.slots[i]
}

// Selected возвращает индекс активного слота
func (h *Hotbar) Selected() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.selected
}

// Select делает слот активным
func (h *Hotbar) Select(i int) {
	if i < 0 || i >= HotbarSize {
		return
	}
	h.mu.Lock()
	h.selected = i
	h.mu.Unlock()
}

// Tools возвращает снимок всех инструментов панели
func (h *Hotbar) Tools() ToolSet {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var tools []Tool
	for _, s := range h.slots {
		if s.Kind == ItemTool {
			tools = append(tools, s.Tool)
		}
	}
	return NewToolSet(tools...)
}

func (h *Hotbar) isThrowaway(s Slot) bool {
	return s.Kind == ItemBlock && s.Count > 0 && h.throwaway[s.Block]
}

// HasThrowaway возвращает true, если в панели есть расходные блоки
func (h *Hotbar) HasThrowaway() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, s := range h.slots {
		if h.isThrowaway(s) {
			return true
		}
	}
	return false
}

// SelectThrowaway выбирает первый слот с расходными блоками
func (h *Hotbar) SelectThrowaway() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.isThrowaway(h.slots[h.selected]) {
		return true
	}
	for i, s := range h.slots {
		if h.isThrowaway(s) {
			h.selected = i
			return true
		}
	}
	return false
}

// HasWaterBucket возвращает true, если в панели есть ведро воды
func (h *Hotbar) HasWaterBucket() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, s := range h.slots {
		if s.Kind == ItemWaterBucket {
			return true
		}
	}
	return false
}

// TakeSelectedBlock забирает один блок из активного слота.
// Возвращает ID блока и false, если в активном слоте нет блоков.
func (h *Hotbar) TakeSelectedBlock() (block.BlockID, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s := &h.slots[h.selected]
	if s.Kind != ItemBlock || s.Count <= 0 {
		return block.AirBlockID, false
	}
	s.Count--
	id := s.Block
	if s.Count == 0 {
		*s = Slot{}
	}
	return id, true
}

// AddBlocks кладёт блоки в первый подходящий или пустой слот.
// Возвращает false, если места нет.
func (h *Hotbar) AddBlocks(id block.BlockID, count int) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i := range h.slots {
		if h.slots[i].Kind == ItemBlock && h.slots[i].Block == id {
			h.slots[i].Count += count
			return true
		}
	}
	for i := range h.slots {
		if h.slots[i].Kind == ItemEmpty {
			h.slots[i] = Slot{Kind: ItemBlock, Block: id, Count: count}
			return true
		}
	}
	return false
}
