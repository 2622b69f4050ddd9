package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/careview/careview/internal/domain/entity"
	"github.com/careview/careview/internal/domain/repository"
)

type ReviewRepository struct {
	pool *pgxpool.Pool
}

func NewReviewRepository(pool *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

func (r *ReviewRepository) Create(ctx context.Context, rev *entity.Review) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO reviews (user_id, name, image, description, rating)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, rev.UserID, rev.Name, rev.Image, rev.Description, rev.Rating)

	return row.Scan(&rev.ID, &rev.CreatedAt)
}

func (r *ReviewRepository) List(ctx context.Context, limit, offset int) ([]entity.Review, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, name, image, description, rating, created_at
		FROM reviews
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := make([]entity.Review, 0, limit)
	for rows.Next() {
		var rev entity.Review
		if err := rows.Scan(&rev.ID, &rev.UserID, &rev.Name, &rev.Image,
			&rev.Description, &rev.Rating, &rev.CreatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, rev)
	}
	return reviews, rows.Err()
}

func (r *ReviewRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM reviews`).Scan(&n)
	return n, err
}

var _ repository.ReviewRepository = (*ReviewRepository)(nil)
