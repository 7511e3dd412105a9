package push

import (
	"context"
)

// Category routes a notification to a platform channel so grouping and
// sound behavior differ between status updates and chat messages.
type Category string

const (
	CategoryStatusUpdate Category = "status_update"
	CategoryChatMessage  Category = "chat_message"
)

// Android notification channels, one per category.
const (
	ChannelRequestUpdates = "request_updates"
	ChannelChatMessages   = "chat_messages"
)

// clickAction is attached to every payload so the Flutter shell routes
// notification taps through its handler.
const clickAction = "FLUTTER_NOTIFICATION_CLICK"

// Payload is a recipient-ready notification. Token addresses one device;
// Data carries client-side routing metadata.
type Payload struct {
	Token    string
	Title    string
	Body     string
	Data     map[string]string
	Category Category
	GroupKey string // collapses related notifications, empty to disable
	Color    string // accent color hint, empty for platform default
}

// Channel returns the Android channel id for the payload's category.
func (p *Payload) Channel() string {
	if p.Category == CategoryChatMessage {
		return ChannelChatMessages
	}
	return ChannelRequestUpdates
}

// Sender delivers a composed payload to a single device. It returns an
// opaque delivery receipt id. All notifications are time-sensitive; senders
// deliver with high priority.
type Sender interface {
	Send(ctx context.Context, p *Payload) (string, error)
}
