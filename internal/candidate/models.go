package candidate

import "time"

// Candidate statuses. Storage defaults new rows to Active; Withdrawn keeps
// the row (and any votes already cast for it) without deleting history.
const (
	StatusActive    = "Active"
	StatusWithdrawn = "Withdrawn"
)

// Candidate is a ballot entry for one election. PartyID is nil for
// independents; PartyName is populated on reads that join the party table.
// DOB's zero value means the filing did not declare a date of birth.
type Candidate struct {
	ID         int64
	Name       string
	PartyID    *int64
	PartyName  string
	Gender     string
	DOB        time.Time
	NationalID string
	Status     string
	Verified   bool
	ElectionID int64
}
