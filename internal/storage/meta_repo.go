package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// MetaRepo stores the embedding model pin per collection.
type MetaRepo struct {
	db *sql.DB
}

// NewMetaRepo creates a new MetaRepo.
func NewMetaRepo(db *sql.DB) *MetaRepo {
	return &MetaRepo{db: db}
}

// Get returns the pin for a collection, or ErrNotFound.
func (r *MetaRepo) Get(ctx context.Context, collection string) (*IndexMeta, error) {
	var meta IndexMeta
	var createdAt string

	err := r.db.QueryRowContext(ctx,
		"SELECT collection, embedding_model, dimension, fingerprint, created_at FROM index_meta WHERE collection = ?",
		collection,
	).Scan(&meta.Collection, &meta.EmbeddingModel, &meta.Dimension, &meta.Fingerprint, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query index meta: %w", err)
	}

	meta.CreatedAt, err = time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	return &meta, nil
}

// Put inserts or replaces the pin for meta.Collection.
func (r *MetaRepo) Put(ctx context.Context, meta *IndexMeta) error {
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO index_meta (collection, embedding_model, dimension, fingerprint, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(collection) DO UPDATE SET
			embedding_model = excluded.embedding_model,
			dimension = excluded.dimension,
			fingerprint = excluded.fingerprint,
			created_at = excluded.created_at`,
		meta.Collection, meta.EmbeddingModel, meta.Dimension, meta.Fingerprint, meta.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert index meta: %w", err)
	}
	return nil
}
