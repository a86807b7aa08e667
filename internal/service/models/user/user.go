package user

import "time"

// User represents a registered identity. Password holds the bcrypt hash,
// never the plaintext.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
