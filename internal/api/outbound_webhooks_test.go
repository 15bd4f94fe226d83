package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/annel0/voxel-pathing/internal/eventbus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type received struct {
	event     OutboundWebhookEvent
	signature string
	kind      string
}

func TestWebhookReceivesSubscribedPathEvents(t *testing.T) {
	got := make(chan received, 8)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var ev OutboundWebhookEvent
		if json.Unmarshal(body, &ev) == nil {
			got <- received{event: ev, signature: r.Header.Get("X-Webhook-Signature"), kind: r.Header.Get("X-Event-Kind")}
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	bus := eventbus.NewMemoryBus(16)
	defer bus.Close()

	owm, err := NewOutboundWebhookManager(bus, quietLogger())
	require.NoError(t, err)
	defer owm.Close()

	hook := owm.AddWebhook(OutboundWebhook{
		Name:   "monitor",
		URL:    srv.URL,
		Secret: "s3cret",
		Kinds:  []string{string(eventbus.AtGoal)},
	})
	assert.Equal(t, uint64(1), hook.ID)

	sink := eventbus.PathSink{Bus: bus, Source: "test"}
	sink.PathEvent(eventbus.PathEvent{Kind: eventbus.CalcStarted, SearchID: "a"})
	sink.PathEvent(eventbus.PathEvent{Kind: eventbus.AtGoal, SearchID: "b"})

	select {
	case r := <-got:
		assert.Equal(t, eventbus.AtGoal, r.event.Event.Kind)
		assert.Equal(t, "b", r.event.Event.SearchID)
		assert.Equal(t, "test", r.event.Source)
		assert.Equal(t, string(eventbus.AtGoal), r.kind)
		assert.Contains(t, r.signature, "sha256=")
	case <-time.After(2 * time.Second):
		t.Fatal("webhook не получил событие")
	}

	select {
	case r := <-got:
		t.Fatalf("лишнее событие %s", r.event.Event.Kind)
	case <-time.After(100 * time.Millisecond):
	}

	stored, ok := owm.GetWebhook(hook.ID)
	require.True(t, ok)
	assert.Zero(t, stored.FailureCount)
}

func TestWebhookFailureCounted(t *testing.T) {
	calls := make(chan struct{}, 8)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls <- struct{}{}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	bus := eventbus.NewMemoryBus(16)
	defer bus.Close()

	owm, err := NewOutboundWebhookManager(bus, quietLogger())
	require.NoError(t, err)
	owm.retryDelay = time.Millisecond

	hook := owm.AddWebhook(OutboundWebhook{Name: "flaky", URL: srv.URL, Kinds: []string{"*"}, RetryCount: 1})

	env, err := eventbus.NewPathEnvelope("test", eventbus.PathEvent{Kind: eventbus.CalcFailed})
	require.NoError(t, err)
	require.NoError(t, bus.Publish(context.Background(), env))

	for i := 0; i < 2; i++ {
		select {
		case <-calls:
		case <-time.After(2 * time.Second):
			t.Fatalf("попытка %d не выполнена", i+1)
		}
	}

	// Close дожидается обработки очереди
	owm.Close()
	stored, ok := owm.GetWebhook(hook.ID)
	require.True(t, ok)
	assert.Equal(t, 1, stored.FailureCount)
	assert.NotNil(t, stored.LastUsed)
}

func TestWebhookEndpoints(t *testing.T) {
	bus := eventbus.NewMemoryBus(4)
	defer bus.Close()
	owm, err := NewOutboundWebhookManager(bus, quietLogger())
	require.NoError(t, err)
	defer owm.Close()

	rs, _ := newTestServer(t, &fakeNavigator{}, owm)

	rec := do(t, rs, http.MethodPost, "/api/webhooks", map[string]any{
		"name":  "ci",
		"url":   "http://127.0.0.1:1/hook",
		"kinds": []string{"at_goal"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, rs, http.MethodGet, "/api/webhooks", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"ci"`)

	assert.Equal(t, http.StatusOK, do(t, rs, http.MethodGet, "/api/webhooks/1", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, rs, http.MethodGet, "/api/webhooks/x", nil).Code)
	assert.Equal(t, http.StatusOK, do(t, rs, http.MethodDelete, "/api/webhooks/1", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, rs, http.MethodDelete, "/api/webhooks/1", nil).Code)

	rec = do(t, rs, http.MethodPost, "/api/webhooks", map[string]any{"name": "no-url"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, rs, http.MethodGet, "/api/events/kinds", nil)
	assert.Contains(t, rec.Body.String(), "splicing_onto_next_early")
}
