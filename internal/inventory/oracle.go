package inventory

// Oracle - источник сведений об инвентаре для модели стоимости и исполнителя
type Oracle interface {
	// Tools возвращает снимок инструментов
	Tools() ToolSet
	// HasThrowaway сообщает, есть ли блоки для строительства мостов
	HasThrowaway() bool
	// SelectThrowaway делает блок для строительства активным; false, если его нет
	SelectThrowaway() bool
	// HasWaterBucket сообщает, есть ли ведро воды
	HasWaterBucket() bool
}
