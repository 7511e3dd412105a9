package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hirensai111/Nible/internal/metrics"
)

// PostgresStore handles PostgreSQL-backed document storage. Documents are
// rows in a single table keyed by (collection, id) with a jsonb field map.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL store with a connection pool
// and ensures the documents table exists.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, err
	}

	s := &PostgresStore{pool: pool}
	if err := s.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// initSchema creates the documents table if it doesn't exist. Statements
// run one at a time; pgx's extended protocol rejects multi-statement Exec.
func (s *PostgresStore) initSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			collection TEXT NOT NULL,
			id         TEXT NOT NULL,
			fields     JSONB NOT NULL DEFAULT '{}'::jsonb,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (collection, id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_request_id
			ON documents ((fields->>'requestId'))
			WHERE collection = 'conversations'`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping checks the database connection.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Get reads one document by collection and id.
func (s *PostgresStore) Get(ctx context.Context, collection, id string) (Document, error) {
	start := time.Now()
	defer func() {
		metrics.StoreLatency.WithLabelValues("postgres", "get").Observe(time.Since(start).Seconds())
	}()

	var raw []byte
	err := s.pool.QueryRow(ctx, `
		SELECT fields FROM documents WHERE collection = $1 AND id = $2
	`, collection, id).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Document{ID: id}, nil
		}
		return Document{}, err
	}

	var fields Fields
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Document{}, err
	}
	return Document{ID: id, Exists: true, Fields: fields}, nil
}

// QueryEqual returns every document in collection whose field equals value.
func (s *PostgresStore) QueryEqual(ctx context.Context, collection, field, value string) ([]Document, error) {
	start := time.Now()
	defer func() {
		metrics.StoreLatency.WithLabelValues("postgres", "query").Observe(time.Since(start).Seconds())
	}()

	rows, err := s.pool.Query(ctx, `
		SELECT id, fields FROM documents
		WHERE collection = $1 AND fields->>$2 = $3
	`, collection, field, value)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}
		var fields Fields
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, err
		}
		docs = append(docs, Document{ID: id, Exists: true, Fields: fields})
	}
	return docs, rows.Err()
}

// Set upserts a full document. Used by seeding and admin tooling; the
// trigger handlers only read and batch-update.
func (s *PostgresStore) Set(ctx context.Context, collection, id string, fields Fields) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO documents (collection, id, fields)
		VALUES ($1, $2, $3)
		ON CONFLICT (collection, id)
		DO UPDATE SET fields = EXCLUDED.fields, updated_at = now()
	`, collection, id, raw)
	return err
}

// Batch starts a write batch backed by a single transaction.
func (s *PostgresStore) Batch() WriteBatch {
	return &pgBatch{store: s}
}

type pgBatch struct {
	store *PostgresStore
	ops   []batchOp
}

func (b *pgBatch) Update(collection, id string, fields Fields) {
	b.ops = append(b.ops, batchOp{collection: collection, id: id, fields: fields})
}

// Commit applies all queued updates inside one transaction, merging each
// update's fields into the stored jsonb.
func (b *pgBatch) Commit(ctx context.Context) error {
	if len(b.ops) == 0 {
		return nil
	}

	start := time.Now()
	defer func() {
		metrics.StoreLatency.WithLabelValues("postgres", "commit").Observe(time.Since(start).Seconds())
	}()

	tx, err := b.store.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, op := range b.ops {
		raw, err := json.Marshal(op.fields)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `
			UPDATE documents
			SET fields = fields || $3::jsonb, updated_at = now()
			WHERE collection = $1 AND id = $2
		`, op.collection, op.id, raw); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
