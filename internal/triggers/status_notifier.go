package triggers

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/hirensai111/Nible/internal/metrics"
	"github.com/hirensai111/Nible/internal/models"
	"github.com/hirensai111/Nible/internal/push"
	"github.com/hirensai111/Nible/internal/store"
)

// StatusTransitionNotifier watches request updates and notifies the
// requester when the status crosses into accepted or picked_up. Triggers
// are edge-triggered: a write that re-saves the same status fires nothing.
type StatusTransitionNotifier struct {
	tokens *TokenResolver
	sender push.Sender
	logger zerolog.Logger
}

// NewStatusTransitionNotifier creates the notifier with its collaborators.
func NewStatusTransitionNotifier(st store.DocumentStore, sender push.Sender, logger zerolog.Logger) *StatusTransitionNotifier {
	return &StatusTransitionNotifier{
		tokens: NewTokenResolver(st),
		sender: sender,
		logger: logger.With().Str("component", "status_notifier").Logger(),
	}
}

// HandleRequestUpdated inspects a request's before/after status and sends
// at most one notification to the requester. A store read failure is
// returned so the platform redelivers; a send failure is logged and
// swallowed so the triggering write never fails on delivery.
func (n *StatusTransitionNotifier) HandleRequestUpdated(ctx context.Context, ev ChangeEvent) error {
	requestID := ev.Param("requestId")
	before := models.RequestFromFields(requestID, ev.Before.Fields)
	after := models.RequestFromFields(requestID, ev.After.Fields)

	if before.Status != models.StatusAccepted && after.Status == models.StatusAccepted {
		return n.notify(ctx, after.UserID, push.RequestAccepted(requestID))
	}

	if before.Status != models.StatusPickedUp && after.Status == models.StatusPickedUp {
		return n.notify(ctx, after.UserID, push.RequestPickedUp(requestID, after.DiningHall))
	}

	return nil
}

func (n *StatusTransitionNotifier) notify(ctx context.Context, userID string, p *push.Payload) error {
	kind := p.Data["type"]

	token, err := n.tokens.Token(ctx, userID)
	if err != nil {
		return err
	}
	if token == "" {
		n.logger.Info().Str("user_id", userID).Str("type", kind).Msg("no FCM token, skipping")
		metrics.NotificationsSkipped.WithLabelValues(kind).Inc()
		return nil
	}

	p.Token = token
	receipt, err := n.sender.Send(ctx, p)
	if err != nil {
		n.logger.Error().Err(err).Str("user_id", userID).Str("type", kind).Msg("notification send failed")
		metrics.NotificationFailures.WithLabelValues(kind).Inc()
		return nil
	}

	n.logger.Info().Str("user_id", userID).Str("type", kind).Str("receipt", receipt).Msg("notification sent")
	metrics.NotificationsSent.WithLabelValues(kind).Inc()
	return nil
}
