package block

// ToolKind определяет класс инструмента, эффективного против блока
type ToolKind uint8

const (
	ToolNone ToolKind = iota
	ToolPickaxe
	ToolShovel
	ToolAxe
	ToolShears
)

// Properties описывает физические свойства блока, важные для навигации.
// Все поля неизменяемы после регистрации.
type Properties struct {
	Name string

	Passable    bool // сквозь блок можно пройти (воздух, цветы, факелы)
	FullCube    bool // полный куб: на нём можно стоять и к нему можно приставить блок
	StandOn     bool // на блоке можно стоять, хотя это не полный куб (стекло, сундук, плита)
	Replaceable bool // поставленный блок просто заменит этот (трава, снег)
	Climbable   bool // лестница или лоза

	Liquid bool
	Water  bool
	Lava   bool

	Falling bool // падает, если под ним пусто (песок, гравий)
	Slow    bool // замедляет ходьбу (песок душ)
	Hot     bool // обжигает стоящего (магма)

	Hardness     float64 // < 0 - неразрушаемый
	Tool         ToolKind
	RequiresTool bool // без подходящего инструмента добывается втрое дольше
	Costly       bool // ломать можно, но нежелательно (верстак)

	AvoidBreaking    bool // ломать нельзя: лёд превращается в воду, заражённый камень
	AvoidWalkingInto bool // опасно задевать: кактус, огонь, паутина, лава, портал
}

// Unbreakable возвращает true, если блок невозможно сломать
func (p Properties) Unbreakable() bool {
	return p.Hardness < 0
}

// BlockBehavior определяет поведение блока
type BlockBehavior interface {
	ID() BlockID
	Name() string
	Properties() Properties
}

// staticBehavior - поведение блока, полностью заданное набором свойств
type staticBehavior struct {
	id    BlockID
	props Properties
}

// NewStatic создаёт поведение блока из набора свойств
func NewStatic(id BlockID, props Properties) BlockBehavior {
	return &staticBehavior{id: id, props: props}
}

func (b *staticBehavior) ID() BlockID            { return b.id }
func (b *staticBehavior) Name() string           { return b.props.Name }
func (b *staticBehavior) Properties() Properties { return b.props }

// unknownProperties - свойства незарегистрированного блока: считаем его обычным камнем
var unknownProperties = Properties{
	Name:     "Unknown",
	FullCube: true,
	Hardness: 1.5,
	Tool:     ToolPickaxe,
}

// PropertiesOf возвращает свойства блока по ID
func PropertiesOf(id BlockID) Properties {
	if behavior, ok := Get(id); ok {
		return behavior.Properties()
	}
	return unknownProperties
}
