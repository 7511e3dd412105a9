package triggers

import (
	"context"
	"errors"
	"testing"

	"github.com/hirensai111/Nible/internal/store"
)

func TestAcceptedTransitionNotifiesRequester(t *testing.T) {
	st := newMemStore()
	seedUser(st, "u1", "Alice", "tok1")
	sender := newFakeSender()
	n := NewStatusTransitionNotifier(st, sender, nopLogger())

	ev := requestUpdate("r1",
		store.Fields{"status": "requested", "userId": "u1"},
		store.Fields{"status": "accepted", "userId": "u1"},
	)
	if err := n.HandleRequestUpdated(context.Background(), ev); err != nil {
		t.Fatal(err)
	}

	sent := sender.sentTo("tok1")
	if len(sent) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(sent))
	}
	p := sent[0]
	if p.Data["type"] != "request_accepted" {
		t.Errorf("expected type request_accepted, got %q", p.Data["type"])
	}
	if p.Data["requestId"] != "r1" {
		t.Errorf("expected requestId r1, got %q", p.Data["requestId"])
	}
	if p.Channel() != "request_updates" {
		t.Errorf("expected request_updates channel, got %q", p.Channel())
	}
}

func TestPickedUpTransitionIncludesDiningHall(t *testing.T) {
	st := newMemStore()
	seedUser(st, "u1", "Alice", "tok1")
	sender := newFakeSender()
	n := NewStatusTransitionNotifier(st, sender, nopLogger())

	ev := requestUpdate("r1",
		store.Fields{"status": "accepted", "userId": "u1"},
		store.Fields{"status": "picked_up", "userId": "u1", "diningHall": "Owens"},
	)
	if err := n.HandleRequestUpdated(context.Background(), ev); err != nil {
		t.Fatal(err)
	}

	sent := sender.sentTo("tok1")
	if len(sent) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(sent))
	}
	if sent[0].Data["type"] != "request_picked_up" {
		t.Errorf("expected type request_picked_up, got %q", sent[0].Data["type"])
	}
	if want := "Your food has been picked up from Owens!"; sent[0].Body != want {
		t.Errorf("expected body %q, got %q", want, sent[0].Body)
	}
}

func TestPickedUpWithoutDiningHallFallsBack(t *testing.T) {
	st := newMemStore()
	seedUser(st, "u1", "", "tok1")
	sender := newFakeSender()
	n := NewStatusTransitionNotifier(st, sender, nopLogger())

	ev := requestUpdate("r1",
		store.Fields{"status": "accepted", "userId": "u1"},
		store.Fields{"status": "picked_up", "userId": "u1"},
	)
	if err := n.HandleRequestUpdated(context.Background(), ev); err != nil {
		t.Fatal(err)
	}

	sent := sender.sentTo("tok1")
	if len(sent) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(sent))
	}
	if want := "Your food has been picked up from Unknown location!"; sent[0].Body != want {
		t.Errorf("expected body %q, got %q", want, sent[0].Body)
	}
}

func TestUntrackedTransitionsFireNothing(t *testing.T) {
	st := newMemStore()
	seedUser(st, "u1", "Alice", "tok1")
	sender := newFakeSender()
	n := NewStatusTransitionNotifier(st, sender, nopLogger())

	tests := []struct {
		name           string
		before, after  string
	}{
		{"same status resave", "accepted", "accepted"},
		{"picked_up resave", "picked_up", "picked_up"},
		{"untracked target", "requested", "delivered"},
		{"leaving accepted", "accepted", "requested"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := requestUpdate("r1",
				store.Fields{"status": tt.before, "userId": "u1"},
				store.Fields{"status": tt.after, "userId": "u1"},
			)
			if err := n.HandleRequestUpdated(context.Background(), ev); err != nil {
				t.Fatal(err)
			}
			if sender.count() != 0 {
				t.Fatalf("expected no notifications, got %d", sender.count())
			}
		})
	}
}

func TestMissingTokenSkipsWithoutError(t *testing.T) {
	st := newMemStore()
	seedUser(st, "u1", "Alice", "")
	sender := newFakeSender()
	n := NewStatusTransitionNotifier(st, sender, nopLogger())

	ev := requestUpdate("r1",
		store.Fields{"status": "requested", "userId": "u1"},
		store.Fields{"status": "accepted", "userId": "u1"},
	)
	if err := n.HandleRequestUpdated(context.Background(), ev); err != nil {
		t.Fatal(err)
	}
	if sender.count() != 0 {
		t.Fatalf("expected no notifications, got %d", sender.count())
	}
}

func TestSendFailureIsSwallowed(t *testing.T) {
	st := newMemStore()
	seedUser(st, "u1", "Alice", "tok1")
	sender := newFakeSender()
	sender.failTokens["tok1"] = true
	n := NewStatusTransitionNotifier(st, sender, nopLogger())

	ev := requestUpdate("r1",
		store.Fields{"status": "requested", "userId": "u1"},
		store.Fields{"status": "accepted", "userId": "u1"},
	)
	if err := n.HandleRequestUpdated(context.Background(), ev); err != nil {
		t.Fatalf("send failure must not propagate, got %v", err)
	}
}

func TestStoreFailurePropagates(t *testing.T) {
	st := newMemStore()
	st.getErr = errors.New("store down")
	sender := newFakeSender()
	n := NewStatusTransitionNotifier(st, sender, nopLogger())

	ev := requestUpdate("r1",
		store.Fields{"status": "requested", "userId": "u1"},
		store.Fields{"status": "accepted", "userId": "u1"},
	)
	if err := n.HandleRequestUpdated(context.Background(), ev); err == nil {
		t.Fatal("expected store failure to propagate for redelivery")
	}
}
