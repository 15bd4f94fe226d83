package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/annel0/voxel-pathing/internal/logging"
	"github.com/google/uuid"
)

// PathEventType - EventType конверта с событием навигации
const PathEventType = "PathEvent"

// PathEventKind - вид события координатора навигации
type PathEventKind string

const (
	CalcStarted                      PathEventKind = "calc_started"
	CalcFinishedNowExecuting         PathEventKind = "calc_finished_now_executing"
	CalcFailed                       PathEventKind = "calc_failed"
	NextSegmentCalcStarted           PathEventKind = "next_segment_calc_started"
	NextSegmentCalcFinished          PathEventKind = "next_segment_calc_finished"
	NextCalcFailed                   PathEventKind = "next_calc_failed"
	ContinuingOntoPlannedNext        PathEventKind = "continuing_onto_planned_next"
	SplicingOntoNextEarly            PathEventKind = "splicing_onto_next_early"
	DiscardNext                      PathEventKind = "discard_next"
	PathFinishedNextStillCalculating PathEventKind = "path_finished_next_still_calculating"
	AtGoal                           PathEventKind = "at_goal"
	Canceled                         PathEventKind = "canceled"
)

// Failure сообщает, описывает ли событие неудачу
func (k PathEventKind) Failure() bool {
	return k == CalcFailed || k == NextCalcFailed
}

// PathEvent - полезная нагрузка конверта PathEvent
type PathEvent struct {
	Kind      PathEventKind `json:"kind"`
	SearchID  string        `json:"search_id,omitempty"`
	Goal      string        `json:"goal,omitempty"`
	State     string        `json:"state,omitempty"`
	Result    string        `json:"result,omitempty"`
	Nodes     int           `json:"nodes,omitempty"`
	Movements int           `json:"movements,omitempty"`
	Cost      float64       `json:"cost,omitempty"`
	Detail    string        `json:"detail,omitempty"`
}

// NewEnvelope упаковывает payload в JSON и заполняет служебные поля
func NewEnvelope(source, eventType string, priority int, payload any) (*Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("сериализация %s: %w", eventType, err)
	}
	return &Envelope{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Source:    source,
		EventType: eventType,
		Version:   1,
		Priority:  priority,
		Payload:   data,
	}, nil
}

// NewPathEnvelope создаёт конверт PathEvent. Неудачи и терминальные события
// получают высокий приоритет и не отбрасываются при переполнении.
func NewPathEnvelope(source string, ev PathEvent) (*Envelope, error) {
	priority := 3
	if ev.Kind.Failure() || ev.Kind == AtGoal || ev.Kind == Canceled {
		priority = 7
	}
	env, err := NewEnvelope(source, PathEventType, priority, ev)
	if err != nil {
		return nil, err
	}
	env.CorrelationID = ev.SearchID
	return env, nil
}

// DecodePathEvent извлекает PathEvent из конверта
func DecodePathEvent(env *Envelope) (PathEvent, error) {
	var ev PathEvent
	if env.EventType != PathEventType {
		return ev, fmt.Errorf("неожиданный тип события %q", env.EventType)
	}
	if err := json.Unmarshal(env.Payload, &ev); err != nil {
		return ev, fmt.Errorf("разбор PathEvent: %w", err)
	}
	return ev, nil
}

// PathSink публикует события навигации в шину; без Bus - в глобальную.
// Ошибки публикации только пишутся в лог: потеря события не должна останавливать тик.
type PathSink struct {
	Bus    EventBus
	Source string
}

// PathEvent упаковывает событие и отправляет его в шину
func (s PathSink) PathEvent(ev PathEvent) {
	bus := s.Bus
	if bus == nil {
		bus = Global()
	}
	if bus == nil {
		return
	}
	env, err := NewPathEnvelope(s.Source, ev)
	if err == nil {
		err = bus.Publish(context.Background(), env)
	}
	if err != nil {
		logging.Warn("[EventBus] событие %s потеряно: %v", ev.Kind, err)
	}
}
