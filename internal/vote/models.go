package vote

import "time"

// Vote is one ballot in the ledger. The (VoterID, ElectionID) pair is unique
// at the storage layer; that constraint, not any application check, is what
// makes a vote exactly-once.
type Vote struct {
	ID          int64
	VoterID     int64
	CandidateID int64
	ElectionID  int64
	CastAt      time.Time
}
