package candidate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"nirvachan/pkg/platform/sentinel"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const selectCandidate = `
	SELECT c.id, c.name, c.party_id, COALESCE(p.name, ''),
	       c.gender, c.dob, c.national_id, c.status, c.verified, c.election_id
	FROM candidates c
	LEFT JOIN parties p ON p.id = c.party_id`

func (s *PostgresStore) Create(ctx context.Context, c Candidate) (Candidate, error) {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO candidates (election_id, party_id, name, gender, dob, national_id, status, verified)
		 VALUES ($1, $2, $3, $4, $5, $6, COALESCE(NULLIF($7, ''), 'Active'), $8)
		 RETURNING id, status`,
		c.ElectionID, c.PartyID, c.Name, c.Gender, nullDate(c.DOB), c.NationalID, c.Status, c.Verified,
	).Scan(&c.ID, &c.Status)
	if err != nil {
		return Candidate{}, fmt.Errorf("insert candidate: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id int64) (Candidate, error) {
	row := s.db.QueryRowContext(ctx, selectCandidate+` WHERE c.id = $1`, id)
	c, err := scanCandidate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Candidate{}, sentinel.ErrNotFound
	}
	if err != nil {
		return Candidate{}, fmt.Errorf("scan candidate: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) ListByElection(ctx context.Context, electionID int64) ([]Candidate, error) {
	rows, err := s.db.QueryContext(ctx, selectCandidate+` WHERE c.election_id = $1 ORDER BY c.id`, electionID)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	defer rows.Close()

	var out []Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Update(ctx context.Context, c Candidate) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE candidates
		 SET name = $2, party_id = $3, gender = $4, dob = $5,
		     national_id = $6, status = $7, verified = $8
		 WHERE id = $1`,
		c.ID, c.Name, c.PartyID, c.Gender, nullDate(c.DOB), c.NationalID, c.Status, c.Verified)
	if err != nil {
		return fmt.Errorf("update candidate: %w", err)
	}
	return requireRow(res)
}

func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM candidates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete candidate: %w", err)
	}
	return requireRow(res)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCandidate(row scanner) (Candidate, error) {
	var (
		c   Candidate
		dob sql.NullTime
	)
	err := row.Scan(&c.ID, &c.Name, &c.PartyID, &c.PartyName,
		&c.Gender, &dob, &c.NationalID, &c.Status, &c.Verified, &c.ElectionID)
	if err != nil {
		return Candidate{}, err
	}
	if dob.Valid {
		c.DOB = dob.Time
	}
	return c, nil
}

// nullDate maps the zero time to SQL NULL for the nullable dob column.
func nullDate(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
