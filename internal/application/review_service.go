package application

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/careview/careview/internal/domain/entity"
	"github.com/careview/careview/internal/domain/repository"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// Publisher publishes JSON-encoded events. Satisfied by helpers.RabbitPublisher.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// ReviewCreatedEvent is emitted to the events queue after a review is stored.
type ReviewCreatedEvent struct {
	ReviewID  string    `json:"reviewId"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"createdAt"`
}

// ReviewService implements review submission and the public feed.
type ReviewService struct {
	Reviews repository.ReviewRepository
	Events  Publisher // nil disables event publishing
	Logger  *logrus.Logger
}

func NewReviewService(reviews repository.ReviewRepository, events Publisher, logger *logrus.Logger) *ReviewService {
	return &ReviewService{Reviews: reviews, Events: events, Logger: logger}
}

// CreateReviewInput is the validated submission payload. The owning user
// always comes from the verified token, never from the client body.
type CreateReviewInput struct {
	Name        string
	Image       string
	Description string
	Rating      int
}

// Create persists a review owned by userID and publishes a created event.
// A publish failure is logged but does not fail the request; the review is
// already durable at that point.
func (s *ReviewService) Create(ctx context.Context, userID string, in CreateReviewInput) (*entity.Review, error) {
	rev := &entity.Review{
		UserID:      userID,
		Name:        in.Name,
		Image:       in.Image,
		Description: in.Description,
		Rating:      in.Rating,
	}
	if err := s.Reviews.Create(ctx, rev); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	if s.Events != nil {
		ev := ReviewCreatedEvent{
			ReviewID:  rev.ID,
			UserID:    rev.UserID,
			Name:      rev.Name,
			Rating:    rev.Rating,
			CreatedAt: rev.CreatedAt,
		}
		if err := s.Events.PublishJSON(ctx, ev); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("review_id", rev.ID).Warn("review event publish failed")
		}
	}
	return rev, nil
}

// ReviewPage is one page of the public feed plus pagination totals.
type ReviewPage struct {
	Reviews      []entity.Review
	CurrentPage  int
	TotalPages   int
	TotalReviews int64
}

// List returns reviews ordered by creation time descending.
// Non-positive page/limit fall back to page 1 and the default size.
func (s *ReviewService) List(ctx context.Context, page, limit int) (*ReviewPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	total, err := s.Reviews.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count reviews: %w", err)
	}

	offset := (page - 1) * limit
	reviews, err := s.Reviews.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return &ReviewPage{
		Reviews:      reviews,
		CurrentPage:  page,
		TotalPages:   totalPages,
		TotalReviews: total,
	}, nil
}
