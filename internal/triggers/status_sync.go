package triggers

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/hirensai111/Nible/internal/metrics"
	"github.com/hirensai111/Nible/internal/models"
	"github.com/hirensai111/Nible/internal/store"
)

// StatusSyncPropagator mirrors a request's status into the requestStatus
// field of every conversation that references it. It runs on every status
// write, not just tracked transitions, so any status value stays mirrored.
type StatusSyncPropagator struct {
	store  store.DocumentStore
	logger zerolog.Logger
}

// NewStatusSyncPropagator creates the propagator with its store.
func NewStatusSyncPropagator(st store.DocumentStore, logger zerolog.Logger) *StatusSyncPropagator {
	return &StatusSyncPropagator{
		store:  st,
		logger: logger.With().Str("component", "status_sync").Logger(),
	}
}

// HandleRequestUpdated rewrites requestStatus on every conversation linked
// to the request, in one atomic batch. A commit failure is returned so the
// platform redelivers; re-running writes the same value, so redelivery is
// safe. With zero matching conversations no commit is attempted.
func (p *StatusSyncPropagator) HandleRequestUpdated(ctx context.Context, ev ChangeEvent) error {
	requestID := ev.Param("requestId")

	if !ev.After.Exists || len(ev.After.Fields) == 0 {
		p.logger.Warn().Str("request_id", requestID).Msg("no after snapshot")
		return nil
	}

	status := ev.After.Fields.Str("status")
	if status == "" {
		p.logger.Warn().Str("request_id", requestID).Msg("no status on request")
		return nil
	}

	docs, err := p.store.QueryEqual(ctx, models.CollectionConversations, "requestId", requestID)
	if err != nil {
		return fmt.Errorf("query conversations for %s: %w", requestID, err)
	}
	if len(docs) == 0 {
		p.logger.Debug().Str("request_id", requestID).Msg("no conversations to sync")
		return nil
	}

	batch := p.store.Batch()
	for _, doc := range docs {
		batch.Update(models.CollectionConversations, doc.ID, store.Fields{"requestStatus": status})
	}
	if err := batch.Commit(ctx); err != nil {
		return fmt.Errorf("sync commit for %s: %w", requestID, err)
	}

	p.logger.Info().
		Str("request_id", requestID).
		Str("status", status).
		Int("conversations", len(docs)).
		Msg("request status synced")
	metrics.SyncCommits.Inc()
	metrics.ConversationsSynced.Add(float64(len(docs)))

	return nil
}
