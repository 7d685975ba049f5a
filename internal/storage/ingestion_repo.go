package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultIngestionLimit is used by List when limit is not positive.
const DefaultIngestionLimit = 50

// IngestionRepo stores the ingestion history.
type IngestionRepo struct {
	db *sql.DB
}

// NewIngestionRepo creates a new IngestionRepo.
func NewIngestionRepo(db *sql.DB) *IngestionRepo {
	return &IngestionRepo{db: db}
}

// Insert records an ingestion run. ID and CreatedAt are filled in when empty.
func (r *IngestionRepo) Insert(ctx context.Context, rec *Ingestion) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO ingestions (id, pdf_name, pages_total, pages_processed, pages_degraded, chunks_added, status, error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.PDFName, rec.PagesTotal, rec.PagesProcessed, rec.PagesDegraded,
		rec.ChunksAdded, rec.Status, rec.Error, rec.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to insert ingestion: %w", err)
	}
	return nil
}

// List returns the most recent ingestions first.
func (r *IngestionRepo) List(ctx context.Context, limit int) ([]Ingestion, error) {
	if limit <= 0 {
		limit = DefaultIngestionLimit
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, pdf_name, pages_total, pages_processed, pages_degraded, chunks_added, status, error, created_at
		 FROM ingestions ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query ingestions: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var out []Ingestion
	for rows.Next() {
		var rec Ingestion
		var createdAt string
		if err := rows.Scan(&rec.ID, &rec.PDFName, &rec.PagesTotal, &rec.PagesProcessed,
			&rec.PagesDegraded, &rec.ChunksAdded, &rec.Status, &rec.Error, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan ingestion: %w", err)
		}
		rec.CreatedAt, err = time.Parse(timeLayout, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return out, nil
}

// DeleteByPDF removes the history of one document.
func (r *IngestionRepo) DeleteByPDF(ctx context.Context, pdfName string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM ingestions WHERE pdf_name = ?", pdfName); err != nil {
		return fmt.Errorf("failed to delete ingestions: %w", err)
	}
	return nil
}
