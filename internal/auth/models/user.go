package models

import "time"

// Roles recognized by the identity gate. Election and candidate management
// require RoleAdmin; everything vote-related requires RoleVoter.
const (
	RoleVoter = "voter"
	RoleAdmin = "admin"
)

// User is the immutable identity anchor created at registration. It is never
// deleted while dependent voter or vote rows exist.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string `json:"-"` // Never serialize - contains bcrypt hash
	Role         string
	Gender       string
	DateOfBirth  time.Time
	CreatedAt    time.Time
}
