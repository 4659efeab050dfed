package entity

import "time"

// PendingUser is a staged registration waiting for its email code.
// There is at most one per email.
type PendingUser struct {
	Email        string    `db:"email"`
	FullName     string    `db:"full_name"`
	Phone        string    `db:"phone"`
	PasswordHash string    `db:"password"`
	Photo        *string   `db:"photo"`
	CreatedAt    time.Time `db:"created_at"`
}
