package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tablebooker/api/internal/domain"
	"tablebooker/events"
)

type EventPublisher struct {
	mock.Mock
}

func NewEventPublisher(t interface {
	mock.TestingT
	Cleanup(func())
}) *EventPublisher {
	m := &EventPublisher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *EventPublisher) PublishBooking(ctx context.Context, msg events.BookingMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *EventPublisher) PublishReview(ctx context.Context, msg events.ReviewMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

type Leaderboard struct {
	mock.Mock
}

func NewLeaderboard(t interface {
	mock.TestingT
	Cleanup(func())
}) *Leaderboard {
	m := &Leaderboard{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *Leaderboard) TopMembers(ctx context.Context, key string, limit int) ([]domain.ScoredMember, error) {
	args := m.Called(ctx, key, limit)
	members, _ := args.Get(0).([]domain.ScoredMember)
	return members, args.Error(1)
}
