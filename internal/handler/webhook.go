package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/santabot/santa-server-go/internal/audit"
	"github.com/santabot/santa-server-go/internal/queue"
)

// Deduper remembers recently seen update ids. A false result means the id
// was already delivered inside the TTL window.
type Deduper interface {
	MarkUpdateSeen(ctx context.Context, updateID int64, ttl time.Duration) (bool, error)
}

// WebhookHandler is the intake endpoint. It does no session work at all:
// the raw body goes on the queue and the response returns immediately, so
// the chat platform never waits on the database.
type WebhookHandler struct {
	queue     *queue.Queue
	deduper   Deduper
	dedupeTTL time.Duration
}

func NewWebhookHandler(q *queue.Queue, deduper Deduper, dedupeTTL time.Duration) *WebhookHandler {
	return &WebhookHandler{
		queue:     q,
		deduper:   deduper,
		dedupeTTL: dedupeTTL,
	}
}

// updateIDProbe reads just enough of the payload to dedupe on.
type updateIDProbe struct {
	UpdateID int64 `json:"update_id"`
}

func (h *WebhookHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Warn().Err(err).Msg("webhook: failed to read body")
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "Failed to read request body",
		})
		return
	}

	if h.dropDuplicate(r.Context(), body) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
		return
	}

	h.queue.Enqueue(body)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// dropDuplicate is best effort: a broken dedupe store never blocks intake,
// the worst case is the worker seeing an update twice.
func (h *WebhookHandler) dropDuplicate(ctx context.Context, body []byte) bool {
	if h.deduper == nil {
		return false
	}

	var probe updateIDProbe
	if err := json.Unmarshal(body, &probe); err != nil || probe.UpdateID == 0 {
		return false
	}

	fresh, err := h.deduper.MarkUpdateSeen(ctx, probe.UpdateID, h.dedupeTTL)
	if err != nil {
		log.Warn().Err(err).Int64("update_id", probe.UpdateID).Msg("webhook: dedupe check failed, accepting update")
		return false
	}
	if fresh {
		return false
	}

	log.Debug().Int64("update_id", probe.UpdateID).Msg("webhook: dropping duplicate update")
	audit.Log(ctx, audit.Event{
		Type:    audit.EventUpdateDropped,
		Details: map[string]any{"reason": "duplicate", "update_id": probe.UpdateID},
	})
	return true
}
