package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"imagescraper/internal/domain"
)

// HistoryStore records fetch outcomes in PostgreSQL for auditing. Only
// outcomes are kept, never payloads; the request path never reads it back.
type HistoryStore struct {
	db *pgxpool.Pool
}

func NewHistoryStore(connStr string) (*HistoryStore, error) {
	db, err := pgxpool.New(context.Background(), connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	return &HistoryStore{db: db}, nil
}

func (s *HistoryStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// RecordFetch inserts one audit row for an attempted operation.
func (s *HistoryStore) RecordFetch(ctx context.Context, rec domain.FetchRecord) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO fetch_history (url, operation, outcome, bytes, detail, created_at)
		 VALUES ($1, $2, $3, $4, $5, NOW())`,
		rec.URL, rec.Operation, rec.Outcome, rec.Bytes, rec.Detail,
	)
	return err
}

func (s *HistoryStore) Close() {
	s.db.Close()
}
