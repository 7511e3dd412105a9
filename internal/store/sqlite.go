package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hirensai111/Nible/internal/metrics"
)

// SQLiteStore handles SQLite-backed document storage. It is the default
// backend when no DATABASE_URL is configured.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
// If dbPath is empty, defaults to "./data/nible.db".
func NewSQLiteStore(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		dbPath = "./data/nible.db"
	}

	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db}

	if err := store.initSchema(ctx); err != nil {
		return nil, err
	}

	return store, nil
}

// initSchema creates the documents table if it doesn't exist.
func (s *SQLiteStore) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		collection TEXT NOT NULL,
		id         TEXT NOT NULL,
		fields     TEXT NOT NULL DEFAULT '{}',
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (collection, id)
	);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() {
	s.db.Close()
}

// Ping checks the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Get reads one document by collection and id.
func (s *SQLiteStore) Get(ctx context.Context, collection, id string) (Document, error) {
	start := time.Now()
	defer func() {
		metrics.StoreLatency.WithLabelValues("sqlite", "get").Observe(time.Since(start).Seconds())
	}()

	var raw string
	err := s.db.QueryRowContext(ctx, `
		SELECT fields FROM documents WHERE collection = ? AND id = ?
	`, collection, id).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{ID: id}, nil
		}
		return Document{}, err
	}

	var fields Fields
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return Document{}, err
	}
	return Document{ID: id, Exists: true, Fields: fields}, nil
}

// QueryEqual returns every document in collection whose field equals value.
func (s *SQLiteStore) QueryEqual(ctx context.Context, collection, field, value string) ([]Document, error) {
	start := time.Now()
	defer func() {
		metrics.StoreLatency.WithLabelValues("sqlite", "query").Observe(time.Since(start).Seconds())
	}()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, fields FROM documents
		WHERE collection = ? AND json_extract(fields, '$.' || ?) = ?
	`, collection, field, value)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}
		var fields Fields
		if err := json.Unmarshal([]byte(raw), &fields); err != nil {
			return nil, err
		}
		docs = append(docs, Document{ID: id, Exists: true, Fields: fields})
	}
	return docs, rows.Err()
}

// Set upserts a full document. Used by seeding and tests; the trigger
// handlers only read and batch-update.
func (s *SQLiteStore) Set(ctx context.Context, collection, id string, fields Fields) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (collection, id, fields)
		VALUES (?, ?, ?)
		ON CONFLICT (collection, id)
		DO UPDATE SET fields = excluded.fields, updated_at = CURRENT_TIMESTAMP
	`, collection, id, string(raw))
	return err
}

// Batch starts a write batch backed by a single transaction.
func (s *SQLiteStore) Batch() WriteBatch {
	return &sqliteBatch{store: s}
}

type sqliteBatch struct {
	store *SQLiteStore
	ops   []batchOp
}

func (b *sqliteBatch) Update(collection, id string, fields Fields) {
	b.ops = append(b.ops, batchOp{collection: collection, id: id, fields: fields})
}

// Commit applies all queued updates inside one transaction, merging each
// update's fields into the stored JSON via json_patch.
func (b *sqliteBatch) Commit(ctx context.Context) error {
	if len(b.ops) == 0 {
		return nil
	}

	start := time.Now()
	defer func() {
		metrics.StoreLatency.WithLabelValues("sqlite", "commit").Observe(time.Since(start).Seconds())
	}()

	tx, err := b.store.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, op := range b.ops {
		raw, err := json.Marshal(op.fields)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE documents
			SET fields = json_patch(fields, ?), updated_at = CURRENT_TIMESTAMP
			WHERE collection = ? AND id = ?
		`, string(raw), op.collection, op.id); err != nil {
			return err
		}
	}

	return tx.Commit()
}
