package election

import "time"

// Election lifecycle statuses. Status is written by administrative flows; the
// voting core only reads it, and only StatusOngoing accepts votes.
const (
	StatusUpcoming  = "Upcoming"
	StatusOngoing   = "Ongoing"
	StatusCompleted = "Completed"
)

// Election is a scheduled contest.
type Election struct {
	ID     int64
	Title  string
	Type   string
	Date   time.Time
	Region string
	Status string
}

// CandidateSummary is the nested candidate shape returned alongside an
// election listing.
type CandidateSummary struct {
	ID        int64
	Name      string
	PartyName string
}

// WithCandidates is an election with its ballot, decoded from a structured
// join rather than any delimiter-based serialization.
type WithCandidates struct {
	Election
	Candidates []CandidateSummary
}
