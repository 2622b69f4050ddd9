package entity

import (
	"time"
)

// Review is a visitor review left by a registered user.
// Rating is constrained to [1,5] both by validation and by the store.
type Review struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Name        string    `json:"name"`
	Image       string    `json:"image,omitempty"`
	Description string    `json:"description"`
	Rating      int       `json:"rating"`
	CreatedAt   time.Time `json:"createdAt"`
}
