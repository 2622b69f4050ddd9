package application

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careview/careview/internal/domain/entity"
)

type memReviewRepo struct {
	mu      sync.Mutex
	reviews []entity.Review
	clock   time.Time
}

func (m *memReviewRepo) Create(_ context.Context, r *entity.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.ID = uuid.NewString()
	// strictly increasing timestamps so ordering is deterministic
	m.clock = m.clock.Add(time.Second)
	r.CreatedAt = m.clock
	m.reviews = append(m.reviews, *r)
	return nil
}

func (m *memReviewRepo) List(_ context.Context, limit, offset int) ([]entity.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sorted := make([]entity.Review, len(m.reviews))
	copy(sorted, m.reviews)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].CreatedAt.After(sorted[j].CreatedAt) })
	if offset >= len(sorted) {
		return []entity.Review{}, nil
	}
	end := offset + limit
	if end > len(sorted) {
		end = len(sorted)
	}
	return sorted[offset:end], nil
}

func (m *memReviewRepo) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.reviews)), nil
}

type capturePublisher struct {
	mu     sync.Mutex
	events []any
}

func (p *capturePublisher) PublishJSON(_ context.Context, body any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, body)
	return nil
}

func seedReviews(t *testing.T, svc *ReviewService, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := svc.Create(context.Background(), "user-1", CreateReviewInput{
			Name:        fmt.Sprintf("Visitor %d", i),
			Description: fmt.Sprintf("visit number %d", i),
			Rating:      (i % 5) + 1,
		})
		require.NoError(t, err)
	}
}

func TestList_Pagination(t *testing.T) {
	t.Parallel()

	svc := NewReviewService(&memReviewRepo{clock: time.Unix(1_700_000_000, 0)}, nil, nil)
	seedReviews(t, svc, 25)

	page, err := svc.List(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, int64(25), page.TotalReviews)
	assert.Len(t, page.Reviews, 10)

	// newest first, strictly descending
	for i := 1; i < len(page.Reviews); i++ {
		assert.True(t, page.Reviews[i-1].CreatedAt.After(page.Reviews[i].CreatedAt),
			"reviews must be ordered by creation time descending")
	}
	assert.Equal(t, "Visitor 24", page.Reviews[0].Name)

	last, err := svc.List(context.Background(), 3, 10)
	require.NoError(t, err)
	assert.Len(t, last.Reviews, 5)
}

func TestList_Defaults(t *testing.T) {
	t.Parallel()

	svc := NewReviewService(&memReviewRepo{clock: time.Unix(1_700_000_000, 0)}, nil, nil)
	seedReviews(t, svc, 3)

	page, err := svc.List(context.Background(), 0, -5)
	require.NoError(t, err)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, 1, page.TotalPages)
	assert.Len(t, page.Reviews, 3)
}

func TestList_LimitCap(t *testing.T) {
	t.Parallel()

	svc := NewReviewService(&memReviewRepo{clock: time.Unix(1_700_000_000, 0)}, nil, nil)
	seedReviews(t, svc, 5)

	page, err := svc.List(context.Background(), 1, 10_000)
	require.NoError(t, err)
	assert.Equal(t, 1, page.TotalPages)
}

func TestCreate_PublishesEvent(t *testing.T) {
	t.Parallel()

	pub := &capturePublisher{}
	svc := NewReviewService(&memReviewRepo{clock: time.Unix(1_700_000_000, 0)}, pub, nil)

	rev, err := svc.Create(context.Background(), "user-9", CreateReviewInput{
		Name:        "Alice",
		Description: "Great visit",
		Rating:      5,
	})
	require.NoError(t, err)
	require.Len(t, pub.events, 1)

	ev, ok := pub.events[0].(ReviewCreatedEvent)
	require.True(t, ok)
	assert.Equal(t, rev.ID, ev.ReviewID)
	assert.Equal(t, "user-9", ev.UserID)
	assert.Equal(t, 5, ev.Rating)
}

func TestCreate_OwnerComesFromCaller(t *testing.T) {
	t.Parallel()

	svc := NewReviewService(&memReviewRepo{clock: time.Unix(1_700_000_000, 0)}, nil, nil)

	rev, err := svc.Create(context.Background(), "token-user", CreateReviewInput{
		Name:        "Alice",
		Description: "Great visit",
		Rating:      4,
	})
	require.NoError(t, err)
	assert.Equal(t, "token-user", rev.UserID)
}
