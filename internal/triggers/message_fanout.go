package triggers

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/hirensai111/Nible/internal/metrics"
	"github.com/hirensai111/Nible/internal/models"
	"github.com/hirensai111/Nible/internal/push"
	"github.com/hirensai111/Nible/internal/store"
)

const notifyTypeNewMessage = "new_message"

// MessageFanoutNotifier watches newly created chat messages and sends one
// notification per conversation participant, excluding the sender.
type MessageFanoutNotifier struct {
	store  store.DocumentStore
	tokens *TokenResolver
	sender push.Sender
	logger zerolog.Logger
}

// NewMessageFanoutNotifier creates the notifier with its collaborators.
func NewMessageFanoutNotifier(st store.DocumentStore, sender push.Sender, logger zerolog.Logger) *MessageFanoutNotifier {
	return &MessageFanoutNotifier{
		store:  st,
		tokens: NewTokenResolver(st),
		sender: sender,
		logger: logger.With().Str("component", "message_fanout").Logger(),
	}
}

// HandleMessageCreated fans a new message out to every participant except
// its sender. Each recipient's resolve-and-send is independent: a missing
// token or a failed send for one recipient never blocks the others.
// Failures are logged, never returned; a lost notification is preferable to
// repeated fan-out on redelivery.
func (n *MessageFanoutNotifier) HandleMessageCreated(ctx context.Context, ev ChangeEvent) error {
	conversationID := ev.Param("conversationId")
	messageID := ev.Param("messageId")
	logger := n.logger.With().Str("conversation_id", conversationID).Str("message_id", messageID).Logger()

	if !ev.After.Exists || len(ev.After.Fields) == 0 {
		logger.Warn().Msg("no message data in event")
		return nil
	}
	msg := models.MessageFromFields(messageID, conversationID, ev.After.Fields)

	convDoc, err := n.store.Get(ctx, models.CollectionConversations, conversationID)
	if err != nil {
		logger.Error().Err(err).Msg("conversation load failed")
		return nil
	}
	conv := models.ConversationFromFields(convDoc.ID, convDoc.Fields)
	if !convDoc.Exists || len(conv.Participants) == 0 {
		logger.Warn().Msg("no conversation data or participants")
		return nil
	}

	locationSuffix, err := n.locationSuffix(ctx, conv.RequestID)
	if err != nil {
		logger.Error().Err(err).Msg("request lookup failed")
		return nil
	}

	senderName, err := n.tokens.DisplayName(ctx, msg.SenderID)
	if err != nil {
		logger.Error().Err(err).Msg("sender lookup failed")
		return nil
	}

	recipients := recipientsOf(conv.Participants, msg.SenderID)

	var wg sync.WaitGroup
	for _, recipientID := range recipients {
		wg.Add(1)
		go func(recipientID string) {
			defer wg.Done()
			n.notifyRecipient(ctx, logger, recipientID, msg, senderName, locationSuffix)
		}(recipientID)
	}
	wg.Wait()

	return nil
}

// locationSuffix loads the linked request for display context. The suffix
// is empty when the conversation has no request; a request without a dining
// hall falls back to "Pickup".
func (n *MessageFanoutNotifier) locationSuffix(ctx context.Context, requestID string) (string, error) {
	if requestID == "" {
		return "", nil
	}
	doc, err := n.store.Get(ctx, models.CollectionRequests, requestID)
	if err != nil {
		return "", err
	}
	if !doc.Exists {
		return "", nil
	}
	hall := models.RequestFromFields(doc.ID, doc.Fields).DiningHall
	if hall == "" {
		hall = "Pickup"
	}
	return fmt.Sprintf(" (%s)", hall), nil
}

func (n *MessageFanoutNotifier) notifyRecipient(ctx context.Context, logger zerolog.Logger, recipientID string, msg models.Message, senderName, locationSuffix string) {
	token, err := n.tokens.Token(ctx, recipientID)
	if err != nil {
		logger.Error().Err(err).Str("recipient_id", recipientID).Msg("token lookup failed")
		metrics.NotificationFailures.WithLabelValues(notifyTypeNewMessage).Inc()
		return
	}
	if token == "" {
		logger.Info().Str("recipient_id", recipientID).Msg("no FCM token, skipping")
		metrics.NotificationsSkipped.WithLabelValues(notifyTypeNewMessage).Inc()
		return
	}

	p := push.NewMessage(msg.ConversationID, msg.ID, msg.SenderID, senderName, locationSuffix, msg.Text)
	p.Token = token

	receipt, err := n.sender.Send(ctx, p)
	if err != nil {
		logger.Error().Err(err).Str("recipient_id", recipientID).Msg("notification send failed")
		metrics.NotificationFailures.WithLabelValues(notifyTypeNewMessage).Inc()
		return
	}

	logger.Info().Str("recipient_id", recipientID).Str("receipt", receipt).Msg("message notification sent")
	metrics.NotificationsSent.WithLabelValues(notifyTypeNewMessage).Inc()
}

// recipientsOf returns participants minus the sender, deduplicated,
// preserving first-seen order.
func recipientsOf(participants []string, senderID string) []string {
	seen := make(map[string]bool, len(participants))
	out := make([]string, 0, len(participants))
	for _, id := range participants {
		if id == senderID || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
