package vote

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"nirvachan/internal/platform/postgres"
	"nirvachan/pkg/platform/sentinel"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const selectVote = `SELECT id, voter_id, candidate_id, election_id, cast_at FROM votes`

// Insert relies on the unique (voter_id, election_id) index. The database
// decides the duplicate race; callers see sentinel.ErrConflict for the loser.
func (s *PostgresStore) Insert(ctx context.Context, v Vote) (Vote, error) {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO votes (voter_id, candidate_id, election_id)
		 VALUES ($1, $2, $3)
		 RETURNING id, cast_at`,
		v.VoterID, v.CandidateID, v.ElectionID,
	).Scan(&v.ID, &v.CastAt)
	if err != nil {
		if postgres.IsUniqueViolation(err, postgres.ConstraintVotesOnePerPair) {
			return Vote{}, sentinel.ErrConflict
		}
		return Vote{}, fmt.Errorf("insert vote: %w", err)
	}
	return v, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id int64) (Vote, error) {
	return scanVote(s.db.QueryRowContext(ctx, selectVote+` WHERE id = $1`, id))
}

func (s *PostgresStore) FindByVoterAndElection(ctx context.Context, voterID, electionID int64) (Vote, error) {
	return scanVote(s.db.QueryRowContext(ctx,
		selectVote+` WHERE voter_id = $1 AND election_id = $2`, voterID, electionID))
}

func (s *PostgresStore) ListByElection(ctx context.Context, electionID int64) ([]Vote, error) {
	rows, err := s.db.QueryContext(ctx, selectVote+` WHERE election_id = $1 ORDER BY id`, electionID)
	if err != nil {
		return nil, fmt.Errorf("list votes: %w", err)
	}
	defer rows.Close()

	var out []Vote
	for rows.Next() {
		var v Vote
		if err := rows.Scan(&v.ID, &v.VoterID, &v.CandidateID, &v.ElectionID, &v.CastAt); err != nil {
			return nil, fmt.Errorf("scan vote: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM votes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete vote: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func scanVote(row *sql.Row) (Vote, error) {
	var v Vote
	err := row.Scan(&v.ID, &v.VoterID, &v.CandidateID, &v.ElectionID, &v.CastAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Vote{}, sentinel.ErrNotFound
	}
	if err != nil {
		return Vote{}, fmt.Errorf("scan vote: %w", err)
	}
	return v, nil
}
