package postgres

// Constraint names the write paths translate into domain errors. Keep these in
// sync with the schema below.
const (
	ConstraintUsersEmail      = "users_email_key"
	ConstraintVotersUser      = "voters_user_id_key"
	ConstraintVotersNational  = "voters_national_id_key"
	ConstraintVotersCivicCard = "voters_civic_card_id_key"
	ConstraintPartiesName     = "parties_name_key"
	ConstraintVotesOnePerPair = "votes_voter_id_election_id_key"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    role TEXT NOT NULL DEFAULT 'voter',
    gender TEXT NOT NULL DEFAULT '',
    date_of_birth DATE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS voters (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL UNIQUE REFERENCES users(id),
    national_id TEXT NOT NULL UNIQUE,
    civic_card_id TEXT NOT NULL UNIQUE,
    address TEXT NOT NULL,
    nationality TEXT NOT NULL,
    state TEXT NOT NULL,
    verified BOOLEAN NOT NULL DEFAULT FALSE,
    registered_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS parties (
    id BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS elections (
    id BIGSERIAL PRIMARY KEY,
    title TEXT NOT NULL,
    type TEXT NOT NULL,
    date DATE NOT NULL,
    region TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'Upcoming'
        CHECK (status IN ('Upcoming', 'Ongoing', 'Completed'))
);

CREATE TABLE IF NOT EXISTS candidates (
    id BIGSERIAL PRIMARY KEY,
    election_id BIGINT NOT NULL REFERENCES elections(id),
    party_id BIGINT REFERENCES parties(id),
    name TEXT NOT NULL,
    gender TEXT NOT NULL DEFAULT '',
    dob DATE,
    national_id TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT 'Active',
    verified BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE INDEX IF NOT EXISTS idx_candidates_election_id ON candidates(election_id);

-- votes is append-only in normal operation. The UNIQUE(voter_id, election_id)
-- constraint is the exactly-once guarantee: concurrent casts race on the
-- insert, and the storage engine lets exactly one win.
CREATE TABLE IF NOT EXISTS votes (
    id BIGSERIAL PRIMARY KEY,
    voter_id BIGINT NOT NULL REFERENCES voters(id),
    candidate_id BIGINT NOT NULL REFERENCES candidates(id),
    election_id BIGINT NOT NULL REFERENCES elections(id),
    cast_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (voter_id, election_id)
);

CREATE INDEX IF NOT EXISTS idx_votes_election_id ON votes(election_id);
CREATE INDEX IF NOT EXISTS idx_votes_candidate_id ON votes(candidate_id);

CREATE TABLE IF NOT EXISTS audit_events (
    id BIGSERIAL PRIMARY KEY,
    occurred_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    actor_id BIGINT NOT NULL DEFAULT 0,
    action TEXT NOT NULL,
    request_id TEXT NOT NULL DEFAULT '',
    client_ip TEXT NOT NULL DEFAULT '',
    user_agent TEXT NOT NULL DEFAULT '',
    detail TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_audit_events_actor_id ON audit_events(actor_id);
`
