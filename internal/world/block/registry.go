package block

// Регистр заполняется только из init(), после старта он читается без блокировок
// (в том числе из потока поиска пути).
var registry = make(map[BlockID]BlockBehavior)

// Register добавляет поведение блока в регистр
func Register(id BlockID, behavior BlockBehavior) {
	registry[id] = behavior
}

// Get возвращает поведение для указанного ID
func Get(id BlockID) (BlockBehavior, bool) {
	behavior, exists := registry[id]
	return behavior, exists
}

// IsValidBlockID проверяет, является ли ID допустимым идентификатором блока
func IsValidBlockID(id BlockID) bool {
	_, exists := Get(id)
	return exists
}

// BlockID представляет идентификатор блока
type BlockID uint16

// Константы ID блоков
const (
	// Базовые типы блоков
	AirBlockID         BlockID = iota // 0
	StoneBlockID                      // 1
	GrassBlockID                      // 2
	WaterBlockID                      // 3
	SandBlockID                       // 4
	DirtBlockID                       // 5
	GravelBlockID                     // 6
	CobblestoneBlockID                // 7
	BedrockBlockID                    // 8
	LavaBlockID                       // 9
	IceBlockID                        // 10
	SoulSandBlockID                   // 11
	GlassBlockID                      // 12
	PlanksBlockID                     // 13
	ObsidianBlockID                   // 14
	NetherrackBlockID                 // 15
	MagmaBlockID                      // 16

	// Для возможности расширения, оставляем большие промежутки между категориями

	// Декоративные блоки (начиная с 100)
	FlowerBlockID    BlockID = 100 // Цветок
	TreeBlockID      BlockID = 101 // Ствол дерева
	CactusBlockID    BlockID = 102 // Кактус
	TallGrassBlockID BlockID = 103 // Высокая трава
	LeavesBlockID    BlockID = 104 // Листва
	SnowLayerBlockID BlockID = 105 // Слой снега
	TorchBlockID     BlockID = 106 // Факел

	// Интерактивные блоки (начиная с 200)
	ChestBlockID         BlockID = 200 // Сундук
	DoorBlockID          BlockID = 201 // Дверь
	CraftingTableBlockID BlockID = 202 // Верстак
	LadderBlockID        BlockID = 203 // Лестница
	VineBlockID          BlockID = 204 // Лоза
	SlabBlockID          BlockID = 205 // Нижняя плита

	// Специальные блоки (начиная с 1000)
	PortalBlockID   BlockID = 1000 // Портал
	SpawnerBlockID  BlockID = 1001 // Спаунер
	FireBlockID     BlockID = 1002 // Огонь
	WebBlockID      BlockID = 1003 // Паутина
	InfestedBlockID BlockID = 1004 // Заражённый камень
)
