package voter

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"nirvachan/internal/platform/postgres"
	"nirvachan/pkg/platform/sentinel"
)

// PostgresStore persists voters in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Create inserts the voter and fills in the assigned ID. Duplicate
// national_id, civic_card_id, or user_id hits a unique constraint and comes
// back as sentinel.ErrConflict; two concurrent registrations with the same
// identifier can never both succeed.
func (s *PostgresStore) Create(ctx context.Context, v *Voter) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO voters (user_id, national_id, civic_card_id, address, nationality, state, verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, registered_at
	`, v.UserID, v.NationalID, v.CivicCardID, v.Address, v.Nationality, v.State, v.Verified).
		Scan(&v.ID, &v.RegisteredAt)
	if err != nil {
		if postgres.IsUniqueViolation(err, "") {
			return fmt.Errorf("create voter: %w", sentinel.ErrConflict)
		}
		return fmt.Errorf("create voter: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id int64) (Voter, error) {
	return scanVoter(s.db.QueryRowContext(ctx, selectVoter+` WHERE id = $1`, id), "find voter by id")
}

func (s *PostgresStore) FindByUserID(ctx context.Context, userID int64) (Voter, error) {
	return scanVoter(s.db.QueryRowContext(ctx, selectVoter+` WHERE user_id = $1`, userID), "find voter by user id")
}

func (s *PostgresStore) List(ctx context.Context) ([]Voter, error) {
	rows, err := s.db.QueryContext(ctx, selectVoter+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list voters: %w", err)
	}
	defer rows.Close()

	var voters []Voter
	for rows.Next() {
		var v Voter
		if err := rows.Scan(&v.ID, &v.UserID, &v.NationalID, &v.CivicCardID,
			&v.Address, &v.Nationality, &v.State, &v.Verified, &v.RegisteredAt); err != nil {
			return nil, fmt.Errorf("scan voter: %w", err)
		}
		voters = append(voters, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate voters: %w", err)
	}
	return voters, nil
}

const selectVoter = `
	SELECT id, user_id, national_id, civic_card_id, address, nationality, state, verified, registered_at
	FROM voters`

func scanVoter(row *sql.Row, op string) (Voter, error) {
	var v Voter
	err := row.Scan(&v.ID, &v.UserID, &v.NationalID, &v.CivicCardID,
		&v.Address, &v.Nationality, &v.State, &v.Verified, &v.RegisteredAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Voter{}, sentinel.ErrNotFound
		}
		return Voter{}, fmt.Errorf("%s: %w", op, err)
	}
	return v, nil
}
