package push

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// FCMSender delivers payloads through Firebase Cloud Messaging.
type FCMSender struct {
	client *messaging.Client
}

// NewFCMSender initializes the Firebase app and messaging client.
// Credentials come from GOOGLE_APPLICATION_CREDENTIALS; projectID may be
// empty when the credentials file carries it.
func NewFCMSender(ctx context.Context, projectID string) (*FCMSender, error) {
	var conf *firebase.Config
	if projectID != "" {
		conf = &firebase.Config{ProjectID: projectID}
	}

	app, err := firebase.NewApp(ctx, conf)
	if err != nil {
		return nil, fmt.Errorf("firebase init: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("messaging client: %w", err)
	}

	return &FCMSender{client: client}, nil
}

// Send delivers one payload with high priority on both platforms.
func (s *FCMSender) Send(ctx context.Context, p *Payload) (string, error) {
	msg := &messaging.Message{
		Token: p.Token,
		Notification: &messaging.Notification{
			Title: p.Title,
			Body:  p.Body,
		},
		Data: p.Data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID:   p.Channel(),
				ClickAction: clickAction,
				Tag:         p.GroupKey,
				Color:       p.Color,
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{"apns-priority": "10"},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
				},
			},
		},
	}

	return s.client.Send(ctx, msg)
}

// LogSender logs payloads instead of delivering them. Used in development
// when no Firebase credentials are configured.
type LogSender struct {
	logger zerolog.Logger
}

// NewLogSender creates a log-only sender.
func NewLogSender(logger zerolog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send logs the payload and returns a synthetic receipt id.
func (s *LogSender) Send(ctx context.Context, p *Payload) (string, error) {
	receipt := "dry-run/" + uuid.NewString()
	s.logger.Info().
		Str("token", p.Token).
		Str("title", p.Title).
		Str("body", p.Body).
		Str("channel", p.Channel()).
		Str("receipt", receipt).
		Msg("dry-run notification")
	return receipt, nil
}
