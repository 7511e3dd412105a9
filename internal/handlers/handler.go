package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/hirensai111/Nible/internal/store"
	"github.com/hirensai111/Nible/internal/triggers"
)

// Handler contains shared dependencies for all HTTP handlers.
type Handler struct {
	store          store.DocumentStore
	statusNotifier *triggers.StatusTransitionNotifier
	messageFanout  *triggers.MessageFanoutNotifier
	statusSync     *triggers.StatusSyncPropagator
	logger         zerolog.Logger
}

// NewHandler creates a new Handler with the given collaborators.
func NewHandler(
	st store.DocumentStore,
	statusNotifier *triggers.StatusTransitionNotifier,
	messageFanout *triggers.MessageFanoutNotifier,
	statusSync *triggers.StatusSyncPropagator,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		store:          st,
		statusNotifier: statusNotifier,
		messageFanout:  messageFanout,
		statusSync:     statusSync,
		logger:         logger,
	}
}

// JSON sends a JSON response with the given status code.
func (h *Handler) JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Error sends a JSON error response with the given status code.
func (h *Handler) Error(w http.ResponseWriter, status int, message string) {
	h.JSON(w, status, map[string]string{"error": message})
}
