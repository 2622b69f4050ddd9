package repository

import (
	"context"

	"github.com/careview/careview/internal/domain/entity"
)

// ReviewRepository defines review persistence operations.
// List returns reviews ordered by creation time descending.
type ReviewRepository interface {
	Create(ctx context.Context, r *entity.Review) error
	List(ctx context.Context, limit, offset int) ([]entity.Review, error)
	Count(ctx context.Context) (int64, error)
}
