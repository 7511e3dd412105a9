package models

import (
	"github.com/hirensai111/Nible/internal/store"
)

// Collection names in the document store.
const (
	CollectionRequests      = "requests"
	CollectionConversations = "conversations"
	CollectionUsers         = "users"
)

// Request statuses that drive notifications. Other values exist (the
// request lifecycle is owned by the app) but only these two fire pushes.
const (
	StatusAccepted = "accepted"
	StatusPickedUp = "picked_up"
)

// Request represents a delivery request document.
type Request struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	UserID     string `json:"userId"`     // owning requester
	DiningHall string `json:"diningHall"` // free-text pickup location
}

// RequestFromFields decodes the fields a trigger reads from a request document.
func RequestFromFields(id string, f store.Fields) Request {
	return Request{
		ID:         id,
		Status:     f.Str("status"),
		UserID:     f.Str("userId"),
		DiningHall: f.Str("diningHall"),
	}
}

// Conversation represents a chat conversation document. RequestStatus is a
// mirrored copy of the linked request's status; this service is its only
// writer.
type Conversation struct {
	ID            string   `json:"id"`
	RequestID     string   `json:"requestId,omitempty"`
	Participants  []string `json:"participants"`
	RequestStatus string   `json:"requestStatus,omitempty"`
}

// ConversationFromFields decodes the fields a trigger reads from a
// conversation document.
func ConversationFromFields(id string, f store.Fields) Conversation {
	return Conversation{
		ID:            id,
		RequestID:     f.Str("requestId"),
		Participants:  f.StrSlice("participants"),
		RequestStatus: f.Str("requestStatus"),
	}
}

// Message represents a chat message. Messages are immutable; this service
// only ever sees them as creation-event payloads.
type Message struct {
	ID             string `json:"id"`
	ConversationID string `json:"conversationId"`
	SenderID       string `json:"senderId"`
	Text           string `json:"text"`
}

// MessageFromFields decodes a message creation payload.
func MessageFromFields(id, conversationID string, f store.Fields) Message {
	return Message{
		ID:             id,
		ConversationID: conversationID,
		SenderID:       f.Str("senderId"),
		Text:           f.Str("text"),
	}
}

// User represents an app user document. FCMToken is empty when the user has
// no registered device.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	FCMToken string `json:"fcmToken,omitempty"`
}

// UserFromFields decodes the fields a trigger reads from a user document.
func UserFromFields(id string, f store.Fields) User {
	return User{
		ID:       id,
		Name:     f.Str("name"),
		FCMToken: f.Str("fcmToken"),
	}
}
