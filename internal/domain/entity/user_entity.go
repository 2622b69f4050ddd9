package entity

import (
	"time"
)

// User is the aggregate root for the account domain.
// Password always holds a bcrypt hash; the plaintext never leaves the
// registration/login request scope.
type User struct {
	ID        string
	Name      string
	Email     string
	Password  string
	CreatedAt time.Time
}
