package push

import (
	"fmt"
)

// maxBodyLen caps notification bodies; longer text is cut to 97 characters
// plus a 3-character ellipsis.
const maxBodyLen = 100

// Fallback copy when optional source fields are absent.
const (
	defaultLocation    = "Unknown location"
	defaultMessageText = "New message"
	defaultSenderName  = "Someone"
)

// chatAccentColor is the Hokie maroon used for chat notification icons.
const chatAccentColor = "#7D2F00"

// RequestAccepted composes the notification sent to a requester when a
// courier accepts their request.
func RequestAccepted(requestID string) *Payload {
	return &Payload{
		Title:    "Request Accepted 🎉",
		Body:     "A delivery person has accepted your request!",
		Category: CategoryStatusUpdate,
		Data: map[string]string{
			"requestId":    requestID,
			"type":         "request_accepted",
			"click_action": clickAction,
		},
	}
}

// RequestPickedUp composes the notification sent to a requester when their
// food has been picked up. diningHall may be empty.
func RequestPickedUp(requestID, diningHall string) *Payload {
	if diningHall == "" {
		diningHall = defaultLocation
	}
	return &Payload{
		Title:    "Food Picked Up 🍔",
		Body:     fmt.Sprintf("Your food has been picked up from %s!", diningHall),
		Category: CategoryStatusUpdate,
		Data: map[string]string{
			"requestId":    requestID,
			"type":         "request_picked_up",
			"click_action": clickAction,
		},
	}
}

// NewMessage composes the notification sent to a conversation participant
// for a newly created chat message. locationSuffix is " (DiningHall)" style
// display context, already formatted, possibly empty. otherUserId duplicates
// the sender id; the mobile client uses it to open the right conversation.
func NewMessage(conversationID, messageID, senderID, senderName, locationSuffix, text string) *Payload {
	if senderName == "" {
		senderName = defaultSenderName
	}
	if text == "" {
		text = defaultMessageText
	}
	return &Payload{
		Title:    fmt.Sprintf("Message from %s%s", senderName, locationSuffix),
		Body:     TruncateBody(text),
		Category: CategoryChatMessage,
		GroupKey: "chat_" + conversationID,
		Color:    chatAccentColor,
		Data: map[string]string{
			"conversationId": conversationID,
			"messageId":      messageID,
			"senderId":       senderID,
			"otherUserId":    senderID,
			"type":           "new_message",
			"click_action":   clickAction,
		},
	}
}

// TruncateBody limits text to maxBodyLen characters. Text over the limit is
// cut to 97 characters and suffixed with "...", so the result is exactly 100.
func TruncateBody(text string) string {
	runes := []rune(text)
	if len(runes) <= maxBodyLen {
		return text
	}
	return string(runes[:maxBodyLen-3]) + "..."
}
