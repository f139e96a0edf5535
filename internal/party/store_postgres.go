package party

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"nirvachan/internal/platform/postgres"
	"nirvachan/pkg/platform/sentinel"
)

// PostgresStore persists parties in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Insert(ctx context.Context, name string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO parties (name) VALUES ($1) RETURNING id`, name).Scan(&id)
	if err != nil {
		if postgres.IsUniqueViolation(err, postgres.ConstraintPartiesName) {
			return 0, fmt.Errorf("insert party: %w", sentinel.ErrConflict)
		}
		return 0, fmt.Errorf("insert party: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) FindByName(ctx context.Context, name string) (Party, error) {
	var p Party
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name FROM parties WHERE name = $1`, name).Scan(&p.ID, &p.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Party{}, sentinel.ErrNotFound
		}
		return Party{}, fmt.Errorf("find party by name: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]Party, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM parties ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list parties: %w", err)
	}
	defer rows.Close()

	var parties []Party
	for rows.Next() {
		var p Party
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, fmt.Errorf("scan party: %w", err)
		}
		parties = append(parties, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate parties: %w", err)
	}
	return parties, nil
}
