package eventbus

import (
	"context"

	"github.com/annel0/voxel-pathing/internal/logging"
)

// StartLoggingListener подписывается на все события и пишет их в лог компонента eventbus.
// Функция неблокирующая.
func StartLoggingListener(bus EventBus) (Subscription, error) {
	return StartLoggingListenerWith(bus, logging.GetComponentLogger("eventbus"))
}

// StartLoggingListenerWith - то же с явным логгером.
func StartLoggingListenerWith(bus EventBus, log *logging.Logger) (Subscription, error) {
	sub, err := bus.Subscribe(context.Background(), Filter{}, func(ctx context.Context, ev *Envelope) {
		if ev.EventType != PathEventType {
			log.Debug("[EventBus] %s %s src=%s prio=%d size=%dB", ev.ID, ev.EventType, ev.Source, ev.Priority, len(ev.Payload))
			return
		}
		pe, err := DecodePathEvent(ev)
		if err != nil {
			log.Warn("[EventBus] %s: %v", ev.ID, err)
			return
		}
		if pe.Kind.Failure() {
			log.Warn("[Pathing] %s search=%s goal=%s nodes=%d %s", pe.Kind, pe.SearchID, pe.Goal, pe.Nodes, pe.Detail)
			return
		}
		log.Info("[Pathing] %s search=%s goal=%s state=%s movements=%d cost=%.1f", pe.Kind, pe.SearchID, pe.Goal, pe.State, pe.Movements, pe.Cost)
	})
	if err != nil {
		return nil, err
	}
	log.Debug("LoggingListener: подписка на все события активирована")
	return sub, nil
}
