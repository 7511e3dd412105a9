package triggers

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/hirensai111/Nible/internal/models"
	"github.com/hirensai111/Nible/internal/push"
	"github.com/hirensai111/Nible/internal/store"
)

// memStore is an in-memory DocumentStore for handler tests.
type memStore struct {
	mu        sync.Mutex
	docs      map[string]map[string]store.Fields // collection -> id -> fields
	commits   int
	getErr    error
	commitErr error
}

func newMemStore() *memStore {
	return &memStore{docs: make(map[string]map[string]store.Fields)}
}

func (s *memStore) set(collection, id string, fields store.Fields) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.docs[collection] == nil {
		s.docs[collection] = make(map[string]store.Fields)
	}
	s.docs[collection][id] = fields
}

func (s *memStore) get(collection, id string) store.Fields {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.docs[collection][id]
}

func (s *memStore) Close()                         {}
func (s *memStore) Ping(ctx context.Context) error { return nil }

func (s *memStore) Get(ctx context.Context, collection, id string) (store.Document, error) {
	if s.getErr != nil {
		return store.Document{}, s.getErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fields, ok := s.docs[collection][id]
	if !ok {
		return store.Document{ID: id}, nil
	}
	return store.Document{ID: id, Exists: true, Fields: fields}, nil
}

func (s *memStore) QueryEqual(ctx context.Context, collection, field, value string) ([]store.Document, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var docs []store.Document
	for id, fields := range s.docs[collection] {
		if fields.Str(field) == value {
			docs = append(docs, store.Document{ID: id, Exists: true, Fields: fields})
		}
	}
	return docs, nil
}

func (s *memStore) Batch() store.WriteBatch {
	return &memBatch{store: s}
}

type memBatch struct {
	store *memStore
	ops   []batchUpdate
}

type batchUpdate struct {
	collection, id string
	fields         store.Fields
}

func (b *memBatch) Update(collection, id string, fields store.Fields) {
	b.ops = append(b.ops, batchUpdate{collection, id, fields})
}

func (b *memBatch) Commit(ctx context.Context) error {
	if b.store.commitErr != nil {
		return b.store.commitErr
	}
	b.store.mu.Lock()
	defer b.store.mu.Unlock()
	b.store.commits++
	for _, op := range b.ops {
		dst := b.store.docs[op.collection][op.id]
		if dst == nil {
			continue
		}
		for k, v := range op.fields {
			dst[k] = v
		}
	}
	return nil
}

// fakeSender records sent payloads; tokens in failTokens reject the send.
type fakeSender struct {
	mu         sync.Mutex
	sent       []*push.Payload
	failTokens map[string]bool
}

func newFakeSender() *fakeSender {
	return &fakeSender{failTokens: make(map[string]bool)}
}

func (s *fakeSender) Send(ctx context.Context, p *push.Payload) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failTokens[p.Token] {
		return "", errors.New("delivery rejected")
	}
	s.sent = append(s.sent, p)
	return "receipt-1", nil
}

func (s *fakeSender) sentTo(token string) []*push.Payload {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*push.Payload
	for _, p := range s.sent {
		if p.Token == token {
			out = append(out, p)
		}
	}
	return out
}

func (s *fakeSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

func nopLogger() zerolog.Logger {
	return zerolog.Nop()
}

func seedUser(s *memStore, id, name, token string) {
	fields := store.Fields{}
	if name != "" {
		fields["name"] = name
	}
	if token != "" {
		fields["fcmToken"] = token
	}
	s.set(models.CollectionUsers, id, fields)
}

func requestUpdate(requestID string, before, after store.Fields) ChangeEvent {
	return ChangeEvent{
		ID:     "evt-1",
		Params: map[string]string{"requestId": requestID},
		Before: Snapshot{Exists: before != nil, Fields: before},
		After:  Snapshot{Exists: after != nil, Fields: after},
	}
}

func messageCreated(conversationID, messageID string, fields store.Fields) ChangeEvent {
	return ChangeEvent{
		ID:     "evt-2",
		Params: map[string]string{"conversationId": conversationID, "messageId": messageID},
		After:  Snapshot{Exists: fields != nil, Fields: fields},
	}
}

func TestTokenResolverMissingUser(t *testing.T) {
	st := newMemStore()
	r := NewTokenResolver(st)

	token, err := r.Token(context.Background(), "nobody")
	if err != nil {
		t.Fatal(err)
	}
	if token != "" {
		t.Fatalf("expected empty token, got %q", token)
	}
}

func TestTokenResolverMissingToken(t *testing.T) {
	st := newMemStore()
	seedUser(st, "u1", "Alice", "")
	r := NewTokenResolver(st)

	token, err := r.Token(context.Background(), "u1")
	if err != nil {
		t.Fatal(err)
	}
	if token != "" {
		t.Fatalf("expected empty token, got %q", token)
	}
}
