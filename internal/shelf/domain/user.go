package domain

import "time"

// DefaultRole is assigned to every self-registered user.
const DefaultRole = "USER"

type User struct {
	ID           int64
	Email        string // unique, case-sensitive as stored
	PasswordHash string // PHC argon2id or bcrypt
	RoleID       int64
	Role         string // role name, joined on read
	CreatedAt    time.Time
}

type Role struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// Authorities are the role derived grants bound to an authenticated
// request, e.g. "ROLE_USER".
func (u User) Authorities() []string {
	if u.Role == "" {
		return nil
	}
	return []string{"ROLE_" + u.Role}
}
