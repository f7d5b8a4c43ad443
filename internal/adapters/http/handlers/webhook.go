package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/livekit/protocol/auth"
	lkproto "github.com/livekit/protocol/livekit"
	"github.com/livekit/server-sdk-go/v2/webhook"
	"google.golang.org/protobuf/encoding/protojson"

	"github.com/hallworld/hallgate/internal/adapters/metrics"
	"github.com/hallworld/hallgate/internal/ports"
)

// WebhookHandler receives LiveKit server webhooks and fans room and
// participant lifecycle events out to call-notify subscribers.
type WebhookHandler struct {
	provider auth.KeyProvider
	notifier ports.CallNotifier
}

// NewWebhookHandler builds a webhook receiver that verifies signatures
// against the given credentials. With empty credentials the receiver
// stays mounted but rejects every delivery.
func NewWebhookHandler(apiKey, apiSecret string, notifier ports.CallNotifier) *WebhookHandler {
	var provider auth.KeyProvider
	if apiKey != "" && apiSecret != "" {
		provider = auth.NewSimpleKeyProvider(apiKey, apiSecret)
	}

	return &WebhookHandler{
		provider: provider,
		notifier: notifier,
	}
}

// Receive handles POST /webhooks/livekit. The signature is verified
// before the payload is parsed, so an unverifiable delivery is rejected
// without looking inside it.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	if h.provider == nil {
		respondError(w, "webhooks are not configured", http.StatusServiceUnavailable)
		return
	}

	data, err := webhook.Receive(r, h.provider)
	if err != nil {
		log.Printf("webhook verification failed: %v", err)
		respondError(w, "could not verify webhook", http.StatusUnauthorized)
		return
	}

	event := &lkproto.WebhookEvent{}
	unmarshal := protojson.UnmarshalOptions{DiscardUnknown: true}
	if err := unmarshal.Unmarshal(data, event); err != nil {
		log.Printf("webhook payload unmarshal failed: %v", err)
		respondError(w, "malformed webhook payload", http.StatusBadRequest)
		return
	}

	metrics.WebhookEventsTotal.WithLabelValues(event.GetEvent()).Inc()

	switch event.GetEvent() {
	case webhook.EventRoomStarted, webhook.EventRoomFinished,
		webhook.EventParticipantJoined, webhook.EventParticipantLeft:
		h.notifier.NotifyAll(callEventFromWebhook(event))
	}

	respondJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

func callEventFromWebhook(event *lkproto.WebhookEvent) *ports.CallEvent {
	at := time.Now().UTC()
	if ts := event.GetCreatedAt(); ts > 0 {
		at = time.Unix(ts, 0).UTC()
	}

	return &ports.CallEvent{
		Type:   event.GetEvent(),
		Room:   event.GetRoom().GetName(),
		Caller: event.GetParticipant().GetIdentity(),
		At:     at,
	}
}
