package audit

import "time"

// Event is emitted from domain logic to capture integrity-relevant actions.
// Keep it transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time
	ActorID   int64
	Action    Action
	RequestID string
	ClientIP  string
	UserAgent string
	Detail    string
}

// Action labels what happened. The vote trail is the reason this table
// exists: disputes about an election are settled from here.
type Action string

const (
	ActionUserCreated      Action = "user_created"
	ActionLogin            Action = "login"
	ActionLoginFailed      Action = "login_failed"
	ActionLogout           Action = "logout"
	ActionVoterRegistered  Action = "voter_registered"
	ActionVoteCast         Action = "vote_cast"
	ActionElectionCreated  Action = "election_created"
	ActionCandidateCreated Action = "candidate_created"
)
