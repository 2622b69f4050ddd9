package repository

import (
	"context"
	"errors"

	"github.com/careview/careview/internal/domain/entity"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned when a create would violate the email
// uniqueness constraint.
var ErrDuplicateEmail = errors.New("email already registered")

// UserRepository defines user persistence operations.
// Emails are stored lowercase; callers normalize before lookup.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}
