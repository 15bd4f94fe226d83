package eventbus

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsExporter публикует метрики шины и счётчик событий навигации по видам.
// Значения Stats читаются в момент сбора, отдельного цикла обновления нет.
type MetricsExporter struct {
	bus        EventBus
	reg        prometheus.Registerer
	sub        Subscription
	collectors []prometheus.Collector

	pathEvents *prometheus.CounterVec
}

// NewMetricsExporter регистрирует метрики в reg и подписывается на PathEvent.
func NewMetricsExporter(bus EventBus, reg prometheus.Registerer) (*MetricsExporter, error) {
	me := &MetricsExporter{
		bus: bus,
		reg: reg,
		pathEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pathing",
			Name:      "events_total",
			Help:      "События координатора навигации по видам.",
		}, []string{"kind"}),
	}

	me.collectors = []prometheus.Collector{
		me.pathEvents,
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: "eventbus",
			Name:      "messages_published_total",
			Help:      "Общее число опубликованных сообщений.",
		}, func() float64 { return float64(bus.Metrics().Published) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: "eventbus",
			Name:      "messages_consumed_total",
			Help:      "Общее число доставленных сообщений подписчикам.",
		}, func() float64 { return float64(bus.Metrics().Consumed) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: "eventbus",
			Name:      "messages_dropped_total",
			Help:      "Сообщений, отброшенных из-за ошибок или ограничения back-pressure.",
		}, func() float64 { return float64(bus.Metrics().Dropped) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "eventbus",
			Name:      "messages_inflight",
			Help:      "Количество сообщений, находящихся в очереди (не доставленных).",
		}, func() float64 { return float64(bus.Metrics().InFlight) }),
	}

	for i, c := range me.collectors {
		if err := reg.Register(c); err != nil {
			for _, done := range me.collectors[:i] {
				reg.Unregister(done)
			}
			return nil, fmt.Errorf("регистрация метрик eventbus: %w", err)
		}
	}

	sub, err := bus.Subscribe(context.Background(), Filter{Types: []string{PathEventType}}, func(ctx context.Context, ev *Envelope) {
		pe, err := DecodePathEvent(ev)
		if err != nil {
			return
		}
		me.pathEvents.WithLabelValues(string(pe.Kind)).Inc()
	})
	if err != nil {
		me.Close()
		return nil, fmt.Errorf("подписка экспортера: %w", err)
	}
	me.sub = sub
	return me, nil
}

// PathEvents возвращает счётчик событий навигации
func (m *MetricsExporter) PathEvents() *prometheus.CounterVec { return m.pathEvents }

// Close отписывается от шины и снимает метрики с регистрации.
func (m *MetricsExporter) Close() {
	if m.sub != nil {
		m.sub.Unsubscribe()
		m.sub = nil
	}
	for _, c := range m.collectors {
		m.reg.Unregister(c)
	}
}
