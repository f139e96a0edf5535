package voter

import "time"

// Voter links a user account to a verified civic identity. Created once at
// registration and kept for the life of the system.
type Voter struct {
	ID           int64
	UserID       int64
	NationalID   string
	CivicCardID  string
	Address      string
	Nationality  string
	State        string
	Verified     bool
	RegisteredAt time.Time
}
