package election

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"nirvachan/pkg/platform/sentinel"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const selectElection = `SELECT id, title, type, date, region, status FROM elections`

func (s *PostgresStore) Create(ctx context.Context, e Election) (Election, error) {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO elections (title, type, date, region, status)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		e.Title, e.Type, e.Date, e.Region, e.Status,
	).Scan(&e.ID)
	if err != nil {
		return Election{}, fmt.Errorf("insert election: %w", err)
	}
	return e, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id int64) (Election, error) {
	row := s.db.QueryRowContext(ctx, selectElection+` WHERE id = $1`, id)
	return scanElection(row)
}

func (s *PostgresStore) LatestByType(ctx context.Context, electionType string) (Election, error) {
	row := s.db.QueryRowContext(ctx,
		selectElection+` WHERE type = $1 ORDER BY date DESC, id DESC LIMIT 1`, electionType)
	return scanElection(row)
}

func (s *PostgresStore) List(ctx context.Context) ([]Election, error) {
	rows, err := s.db.QueryContext(ctx, selectElection+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list elections: %w", err)
	}
	defer rows.Close()

	var out []Election
	for rows.Next() {
		var e Election
		if err := rows.Scan(&e.ID, &e.Title, &e.Type, &e.Date, &e.Region, &e.Status); err != nil {
			return nil, fmt.Errorf("scan election: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ListWithCandidates decodes a single left join into nested election values,
// so elections without candidates still appear with an empty ballot.
func (s *PostgresStore) ListWithCandidates(ctx context.Context) ([]WithCandidates, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT e.id, e.title, e.type, e.date, e.region, e.status,
		        c.id, c.name, p.name
		 FROM elections e
		 LEFT JOIN candidates c ON c.election_id = e.id
		 LEFT JOIN parties p ON p.id = c.party_id
		 ORDER BY e.id, c.id`)
	if err != nil {
		return nil, fmt.Errorf("list elections with candidates: %w", err)
	}
	defer rows.Close()

	var out []WithCandidates
	for rows.Next() {
		var (
			e         Election
			candID    sql.NullInt64
			candName  sql.NullString
			partyName sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.Title, &e.Type, &e.Date, &e.Region, &e.Status,
			&candID, &candName, &partyName); err != nil {
			return nil, fmt.Errorf("scan election row: %w", err)
		}
		if len(out) == 0 || out[len(out)-1].ID != e.ID {
			out = append(out, WithCandidates{Election: e})
		}
		if candID.Valid {
			last := &out[len(out)-1]
			last.Candidates = append(last.Candidates, CandidateSummary{
				ID:        candID.Int64,
				Name:      candName.String,
				PartyName: partyName.String,
			})
		}
	}
	return out, rows.Err()
}

func (s *PostgresStore) Update(ctx context.Context, e Election) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE elections SET title = $2, type = $3, date = $4, region = $5, status = $6 WHERE id = $1`,
		e.ID, e.Title, e.Type, e.Date, e.Region, e.Status)
	if err != nil {
		return fmt.Errorf("update election: %w", err)
	}
	return requireRow(res)
}

func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM elections WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete election: %w", err)
	}
	return requireRow(res)
}

func scanElection(row *sql.Row) (Election, error) {
	var e Election
	err := row.Scan(&e.ID, &e.Title, &e.Type, &e.Date, &e.Region, &e.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return Election{}, sentinel.ErrNotFound
	}
	if err != nil {
		return Election{}, fmt.Errorf("scan election: %w", err)
	}
	return e, nil
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
