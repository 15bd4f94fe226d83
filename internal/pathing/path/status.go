package path

import "fmt"

// Status - состояние исполнения одного перемещения
type Status uint8

const (
	Waiting     Status = iota // перемещение ещё не начато
	Preparing                 // проверка выполнимости перед стартом
	Running                   // агент выполняет перемещение
	Success                   // агент в точке назначения
	Failed                    // перемещение стало невыполнимым
	Unreachable               // не хватает ресурса (блоков для моста)
)

var statusNames = [...]string{
	Waiting:     "Waiting",
	Preparing:   "Preparing",
	Running:     "Running",
	Success:     "Success",
	Failed:      "Failed",
	Unreachable: "Unreachable",
}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("Status(%d)", s)
}

// Terminal возвращает true для завершающих состояний
func (s Status) Terminal() bool {
	return s == Success || s == Failed || s == Unreachable
}
