package tally

import (
	"context"
	"database/sql"
	"fmt"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Leaderboard left-joins the ledger so candidates without votes show up with
// a zero count. Ties break on candidate id so the order is deterministic.
func (s *PostgresStore) Leaderboard(ctx context.Context, electionID int64) ([]Row, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT c.id, c.name, COALESCE(p.name, ''), COUNT(v.id)
		 FROM candidates c
		 LEFT JOIN parties p ON p.id = c.party_id
		 LEFT JOIN votes v ON v.candidate_id = c.id
		 WHERE c.election_id = $1
		 GROUP BY c.id, c.name, p.name
		 ORDER BY COUNT(v.id) DESC, c.id ASC`,
		electionID)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.CandidateID, &r.Name, &r.PartyName, &r.Votes); err != nil {
			return nil, fmt.Errorf("scan leaderboard row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
