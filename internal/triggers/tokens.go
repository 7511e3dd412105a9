package triggers

import (
	"context"

	"github.com/hirensai111/Nible/internal/models"
	"github.com/hirensai111/Nible/internal/store"
)

// TokenResolver looks up a user's current device push token. A user with
// no registered device is a normal outcome, not an error.
type TokenResolver struct {
	store store.DocumentStore
}

// NewTokenResolver creates a resolver reading from the given store.
func NewTokenResolver(st store.DocumentStore) *TokenResolver {
	return &TokenResolver{store: st}
}

// Token returns the user's FCM token, or "" when the user does not exist
// or has no token registered.
func (r *TokenResolver) Token(ctx context.Context, userID string) (string, error) {
	doc, err := r.store.Get(ctx, models.CollectionUsers, userID)
	if err != nil {
		return "", err
	}
	if !doc.Exists {
		return "", nil
	}
	return models.UserFromFields(doc.ID, doc.Fields).FCMToken, nil
}

// DisplayName returns the user's display name, or "" when the user does
// not exist or has no name set.
func (r *TokenResolver) DisplayName(ctx context.Context, userID string) (string, error) {
	doc, err := r.store.Get(ctx, models.CollectionUsers, userID)
	if err != nil {
		return "", err
	}
	if !doc.Exists {
		return "", nil
	}
	return models.UserFromFields(doc.ID, doc.Fields).Name, nil
}
