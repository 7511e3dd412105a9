// Package triggers implements the document-change handlers: status
// transition notifications, chat message fan-out, and request status
// mirroring into conversations.
//
// The hosting platform delivers change events at least once and in no
// guaranteed order, so every handler is stateless and safe to re-run.
package triggers

import (
	"github.com/hirensai111/Nible/internal/store"
)

// Snapshot is one side of a document change. Exists is false for the
// before side of a creation event.
type Snapshot struct {
	Exists bool         `json:"exists"`
	Fields store.Fields `json:"fields"`
}

// ChangeEvent is a before/after snapshot of a changed or created document,
// plus the path parameters of the trigger that matched it.
type ChangeEvent struct {
	ID     string            `json:"id"` // delivery id, for log correlation
	Params map[string]string `json:"params"`
	Before Snapshot          `json:"before"`
	After  Snapshot          `json:"after"`
}

// Param returns the named path parameter, or "".
func (e ChangeEvent) Param(key string) string {
	return e.Params[key]
}
