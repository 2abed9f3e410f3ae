package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tablebooker/events"
)

type Notifier struct {
	mock.Mock
}

func NewNotifier(t interface {
	mock.TestingT
	Cleanup(func())
}) *Notifier {
	m := &Notifier{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *Notifier) BookingConfirmed(ctx context.Context, msg events.BookingMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}
