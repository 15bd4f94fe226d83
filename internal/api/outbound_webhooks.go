package api

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/annel0/voxel-pathing/internal/eventbus"
	"github.com/annel0/voxel-pathing/internal/logging"
)

// OutboundWebhook - подписка внешнего сервиса на события навигации
type OutboundWebhook struct {
	ID           uint64     `json:"id"`
	Name         string     `json:"name" binding:"required"`
	URL          string     `json:"url" binding:"required"`
	Secret       string     `json:"secret,omitempty"`
	Kinds        []string   `json:"kinds" binding:"required"` // виды PathEvent или "*"
	Active       bool       `json:"active"`
	TimeoutSec   int        `json:"timeout"`
	RetryCount   int        `json:"retry_count"`
	CreatedAt    time.Time  `json:"created_at"`
	LastUsed     *time.Time `json:"last_used,omitempty"`
	FailureCount int        `json:"failure_count"`
}

// OutboundWebhookEvent - тело запроса к webhook'у
type OutboundWebhookEvent struct {
	EventID   string             `json:"event_id"`
	Timestamp int64              `json:"timestamp"`
	Source    string             `json:"source"`
	Event     eventbus.PathEvent `json:"event"`
}

// OutboundWebhookManager пересылает события навигации из шины на внешние URL
type OutboundWebhookManager struct {
	mu       sync.RWMutex
	webhooks map[uint64]*OutboundWebhook
	nextID   uint64

	client     *http.Client
	sub        eventbus.Subscription
	wg         sync.WaitGroup
	retryDelay time.Duration
	log        *logging.Logger

	// qmu защищает queue от отправки после закрытия
	qmu    sync.RWMutex
	queue  chan OutboundWebhookEvent
	closed bool
}

// NewOutboundWebhookManager подписывается на PathEvent в шине и запускает отправителя
func NewOutboundWebhookManager(bus eventbus.EventBus, log *logging.Logger) (*OutboundWebhookManager, error) {
	if log == nil {
		log = logging.GetAPILogger()
	}
	owm := &OutboundWebhookManager{
		webhooks:   make(map[uint64]*OutboundWebhook),
		nextID:     1,
		client:     &http.Client{Timeout: 30 * time.Second},
		queue:      make(chan OutboundWebhookEvent, 256),
		retryDelay: time.Second,
		log:        log,
	}

	sub, err := bus.Subscribe(context.Background(), eventbus.Filter{Types: []string{eventbus.PathEventType}}, owm.onEnvelope)
	if err != nil {
		return nil, err
	}
	owm.sub = sub

	owm.wg.Add(1)
	go owm.eventWorker()
	return owm, nil
}

func (owm *OutboundWebhookManager) onEnvelope(_ context.Context, env *eventbus.Envelope) {
	ev, err := eventbus.DecodePathEvent(env)
	if err != nil {
		owm.log.Warn("webhook: %v", err)
		return
	}
	if !owm.anySubscribed(string(ev.Kind)) {
		return
	}
	event := OutboundWebhookEvent{
		EventID:   env.ID,
		Timestamp: env.Timestamp.Unix(),
		Source:    env.Source,
		Event:     ev,
	}

	owm.qmu.RLock()
	defer owm.qmu.RUnlock()
	if owm.closed {
		return
	}
	select {
	case owm.queue <- event:
	default:
		owm.log.Warn("⚠️ Очередь webhook'ов переполнена, событие %s пропущено", ev.Kind)
	}
}

// AddWebhook регистрирует webhook и возвращает его копию с присвоенным ID
func (owm *OutboundWebhookManager) AddWebhook(webhook OutboundWebhook) OutboundWebhook {
	owm.mu.Lock()
	defer owm.mu.Unlock()

	webhook.ID = owm.nextID
	owm.nextID++
	webhook.CreatedAt = time.Now()
	webhook.Active = true
	if webhook.TimeoutSec <= 0 {
		webhook.TimeoutSec = 10
	}
	if webhook.RetryCount < 0 {
		webhook.RetryCount = 0
	}

	owm.webhooks[webhook.ID] = &webhook
	return webhook
}

// GetWebhooks возвращает копии webhook'ов, упорядоченные по ID
func (owm *OutboundWebhookManager) GetWebhooks() []OutboundWebhook {
	owm.mu.RLock()
	defer owm.mu.RUnlock()

	out := make([]OutboundWebhook, 0, len(owm.webhooks))
	for _, w := range owm.webhooks {
		out = append(out, *w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// GetWebhook возвращает копию webhook'а по ID
func (owm *OutboundWebhookManager) GetWebhook(id uint64) (OutboundWebhook, bool) {
	owm.mu.RLock()
	defer owm.mu.RUnlock()

	w, ok := owm.webhooks[id]
	if !ok {
		return OutboundWebhook{}, false
	}
	return *w, true
}

// DeleteWebhook удаляет webhook
func (owm *OutboundWebhookManager) DeleteWebhook(id uint64) bool {
	owm.mu.Lock()
	defer owm.mu.Unlock()

	if _, ok := owm.webhooks[id]; !ok {
		return false
	}
	delete(owm.webhooks, id)
	return true
}

// Close отписывается от шины и дожидается отправки очереди
func (owm *OutboundWebhookManager) Close() {
	owm.sub.Unsubscribe()

	owm.qmu.Lock()
	if owm.closed {
		owm.qmu.Unlock()
		return
	}
	owm.closed = true
	close(owm.queue)
	owm.qmu.Unlock()

	owm.wg.Wait()
	owm.client.CloseIdleConnections()
}

func (owm *OutboundWebhookManager) eventWorker() {
	defer owm.wg.Done()
	for event := range owm.queue {
		owm.processEvent(event)
	}
}

func (owm *OutboundWebhookManager) processEvent(event OutboundWebhookEvent) {
	owm.mu.RLock()
	targets := make([]OutboundWebhook, 0)
	for _, w := range owm.webhooks {
		if w.Active && isSubscribed(w.Kinds, string(event.Event.Kind)) {
			targets = append(targets, *w)
		}
	}
	owm.mu.RUnlock()

	for _, w := range targets {
		ok := owm.sendToWebhook(w, event)

		owm.mu.Lock()
		if stored, exists := owm.webhooks[w.ID]; exists {
			now := time.Now()
			stored.LastUsed = &now
			if !ok {
				stored.FailureCount++
			}
		}
		owm.mu.Unlock()
	}
}

func (owm *OutboundWebhookManager) anySubscribed(kind string) bool {
	owm.mu.RLock()
	defer owm.mu.RUnlock()
	for _, w := range owm.webhooks {
		if w.Active && isSubscribed(w.Kinds, kind) {
			return true
		}
	}
	return false
}

func isSubscribed(kinds []string, kind string) bool {
	for _, k := range kinds {
		if k == kind || k == "*" {
			return true
		}
	}
	return false
}

// sendToWebhook отправляет событие с повторами; true при ответе 2xx
func (owm *OutboundWebhookManager) sendToWebhook(webhook OutboundWebhook, event OutboundWebhookEvent) bool {
	body, err := json.Marshal(event)
	if err != nil {
		owm.log.Error("❌ Ошибка маршалинга события для webhook %s: %v", webhook.Name, err)
		return false
	}

	for attempt := 0; attempt <= webhook.RetryCount; attempt++ {
		if attempt > 0 {
			time.Sleep(time.Duration(attempt) * owm.retryDelay)
		}
		status, err := owm.post(webhook, event, body)
		if err != nil {
			owm.log.Warn("⚠️ Попытка %d/%d для webhook %s: %v", attempt+1, webhook.RetryCount+1, webhook.Name, err)
			continue
		}
		if status >= 200 && status < 300 {
			owm.log.Debug("Событие %s отправлено в webhook %s", event.Event.Kind, webhook.Name)
			return true
		}
		owm.log.Warn("⚠️ Webhook %s вернул статус %d на попытке %d", webhook.Name, status, attempt+1)
	}
	return false
}

func (owm *OutboundWebhookManager) post(webhook OutboundWebhook, event OutboundWebhookEvent, body []byte) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(webhook.TimeoutSec)*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhook.URL, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "voxel-pathing/1.0")
	req.Header.Set("X-Event-Kind", string(event.Event.Kind))
	if webhook.Secret != "" {
		req.Header.Set("X-Webhook-Signature", generateSignature(body, webhook.Secret))
	}

	resp, err := owm.client.Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}

// generateSignature считает HMAC-SHA256 тела запроса
func generateSignature(data []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(data)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

// PathEventKinds перечисляет виды событий, на которые можно подписаться
func PathEventKinds() []string {
	kinds := []eventbus.PathEventKind{
		eventbus.CalcStarted,
		eventbus.CalcFinishedNowExecuting,
		eventbus.CalcFailed,
		eventbus.NextSegmentCalcStarted,
		eventbus.NextSegmentCalcFinished,
		eventbus.NextCalcFailed,
		eventbus.ContinuingOntoPlannedNext,
		eventbus.SplicingOntoNextEarly,
		eventbus.DiscardNext,
		eventbus.PathFinishedNextStillCalculating,
		eventbus.AtGoal,
		eventbus.Canceled,
	}
	out := make([]string, len(kinds))
	for i, k := range kinds {
		out[i] = string(k)
	}
	return out
}
