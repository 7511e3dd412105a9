package store

import (
	"context"
)

// Fields holds a document's decoded field map. Documents are schemaless;
// typed accessors live in the models package.
type Fields map[string]any

// Document is a single document read from a collection. Exists is false
// when the id was not found; Fields is nil in that case.
type Document struct {
	ID     string
	Exists bool
	Fields Fields
}

// Str returns the named field as a string, or "" when absent or not a string.
func (f Fields) Str(key string) string {
	if f == nil {
		return ""
	}
	s, _ := f[key].(string)
	return s
}

// StrSlice returns the named field as a string slice. JSON decoding yields
// []any, so both representations are accepted.
func (f Fields) StrSlice(key string) []string {
	if f == nil {
		return nil
	}
	switch v := f[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// DocumentStore defines the narrow document-store surface the trigger
// handlers consume. Both PostgresStore and SQLiteStore implement this
// interface.
type DocumentStore interface {
	// Connection management
	Close()
	Ping(ctx context.Context) error

	// Get reads one document by id. A missing document is not an error:
	// the returned Document has Exists == false.
	Get(ctx context.Context, collection, id string) (Document, error)

	// QueryEqual returns every document in collection whose field equals
	// value exactly. No ordering is guaranteed.
	QueryEqual(ctx context.Context, collection, field, value string) ([]Document, error)

	// Batch starts a write batch. Updates queued on the batch are applied
	// atomically by Commit: all of them or none.
	Batch() WriteBatch
}

// WriteBatch accumulates field updates and applies them in one atomic commit.
type WriteBatch interface {
	// Update queues a merge of fields into the identified document.
	// Fields not named in the update are left untouched.
	Update(collection, id string, fields Fields)

	// Commit applies every queued update in a single transaction.
	// Committing an empty batch is a no-op.
	Commit(ctx context.Context) error
}

// batchOp is one queued update, shared by both backends.
type batchOp struct {
	collection string
	id         string
	fields     Fields
}
