package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"

	"github.com/hirensai111/Nible/internal/triggers"
)

// RequestUpdated handles the requests/{requestId} update trigger. Both
// watchers of that trigger run here, registered exactly once: the status
// transition notifier and the status sync propagator. A watcher error
// returns 500 so the platform redelivers the event; redelivery is safe
// because both watchers tolerate re-runs.
func (h *Handler) RequestUpdated(w http.ResponseWriter, r *http.Request) {
	ev, ok := h.decodeEvent(w, r, map[string]string{
		"requestId": chi.URLParam(r, "requestId"),
	})
	if !ok {
		return
	}

	if err := h.statusNotifier.HandleRequestUpdated(r.Context(), ev); err != nil {
		h.logger.Error().Err(err).Str("event_id", ev.ID).Msg("status notifier failed")
		h.Error(w, http.StatusInternalServerError, "handler failed")
		return
	}

	if err := h.statusSync.HandleRequestUpdated(r.Context(), ev); err != nil {
		h.logger.Error().Err(err).Str("event_id", ev.ID).Msg("status sync failed")
		h.Error(w, http.StatusInternalServerError, "handler failed")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// MessageCreated handles the conversations/{conversationId}/messages/{messageId}
// creation trigger. Fan-out isolates its own failures, so this always
// acknowledges the delivery.
func (h *Handler) MessageCreated(w http.ResponseWriter, r *http.Request) {
	ev, ok := h.decodeEvent(w, r, map[string]string{
		"conversationId": chi.URLParam(r, "conversationId"),
		"messageId":      chi.URLParam(r, "messageId"),
	})
	if !ok {
		return
	}

	if err := h.messageFanout.HandleMessageCreated(r.Context(), ev); err != nil {
		h.logger.Error().Err(err).Str("event_id", ev.ID).Msg("message fanout failed")
		h.Error(w, http.StatusInternalServerError, "handler failed")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// decodeEvent reads a change event from the request body. Path parameters
// override anything in the body; deliveries without an id get a ulid for
// log correlation. A malformed body is the caller's bug, not a transient
// failure, so it gets 400 rather than a retryable status.
func (h *Handler) decodeEvent(w http.ResponseWriter, r *http.Request, params map[string]string) (triggers.ChangeEvent, bool) {
	var ev triggers.ChangeEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid event body")
		return triggers.ChangeEvent{}, false
	}

	ev.Params = params
	if ev.ID == "" {
		ev.ID = ulid.Make().String()
	}

	return ev, true
}
