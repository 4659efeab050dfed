package entity

import "time"

// User is a verified account. Verified only ever moves from false to true.
type User struct {
	ID           int64     `db:"id"`
	FullName     string    `db:"full_name"`
	Email        string    `db:"email"`
	Phone        string    `db:"phone"`
	PasswordHash string    `db:"password"`
	Photo        *string   `db:"photo"`
	Verified     bool      `db:"verified"`
	CreatedAt    time.Time `db:"created_at"`
}
