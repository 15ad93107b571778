package domain

import "time"

type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string // argon2id PHC string, or bcrypt for imported accounts
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
