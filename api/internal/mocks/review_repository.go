package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"tablebooker/api/internal/domain"
)

type ReviewRepository struct {
	mock.Mock
}

func NewReviewRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *ReviewRepository {
	m := &ReviewRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *ReviewRepository) CreateReview(ctx context.Context, review *domain.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *ReviewRepository) GetReview(ctx context.Context, id int) (*domain.Review, error) {
	args := m.Called(ctx, id)
	review, _ := args.Get(0).(*domain.Review)
	return review, args.Error(1)
}

func (m *ReviewRepository) UpdateReview(ctx context.Context, review *domain.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *ReviewRepository) DeleteReview(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ReviewRepository) ReplyToReview(ctx context.Context, id int, reply string, at time.Time) error {
	args := m.Called(ctx, id, reply, at)
	return args.Error(0)
}

func (m *ReviewRepository) ListRestaurantReviews(ctx context.Context, restaurantID, limit, offset int) ([]domain.Review, error) {
	args := m.Called(ctx, restaurantID, limit, offset)
	reviews, _ := args.Get(0).([]domain.Review)
	return reviews, args.Error(1)
}

func (m *ReviewRepository) ListCustomerReviews(ctx context.Context, customerID string) ([]domain.Review, error) {
	args := m.Called(ctx, customerID)
	reviews, _ := args.Get(0).([]domain.Review)
	return reviews, args.Error(1)
}

func (m *ReviewRepository) RatingCounts(ctx context.Context, restaurantID int) ([]domain.RatingCount, error) {
	args := m.Called(ctx, restaurantID)
	counts, _ := args.Get(0).([]domain.RatingCount)
	return counts, args.Error(1)
}
