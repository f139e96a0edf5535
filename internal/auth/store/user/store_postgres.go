package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"nirvachan/internal/auth/models"
	"nirvachan/internal/platform/postgres"
	"nirvachan/pkg/platform/sentinel"
)

// PostgresStore persists users in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Create inserts the user and fills in the assigned ID. A duplicate email
// surfaces as sentinel.ErrConflict via the users_email_key constraint; there
// is deliberately no pre-check, concurrent registrations race on the insert.
func (s *PostgresStore) Create(ctx context.Context, u *models.User) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (name, email, password_hash, role, gender, date_of_birth)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, u.Name, u.Email, u.PasswordHash, u.Role, u.Gender, u.DateOfBirth).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if postgres.IsUniqueViolation(err, postgres.ConstraintUsersEmail) {
			return fmt.Errorf("create user: %w", sentinel.ErrConflict)
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id int64) (models.User, error) {
	return s.scanOne(s.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, role, gender, date_of_birth, created_at
		FROM users WHERE id = $1
	`, id), "find user by id")
}

func (s *PostgresStore) FindByEmailAndRole(ctx context.Context, email, role string) (models.User, error) {
	return s.scanOne(s.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, role, gender, date_of_birth, created_at
		FROM users WHERE lower(email) = lower($1) AND role = $2
	`, email, role), "find user by email")
}

func (s *PostgresStore) scanOne(row *sql.Row, op string) (models.User, error) {
	var u models.User
	var dob sql.NullTime
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Gender, &dob, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, sentinel.ErrNotFound
		}
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}
	if dob.Valid {
		u.DateOfBirth = dob.Time
	}
	return u, nil
}
