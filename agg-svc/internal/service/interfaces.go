package service

import (
	"context"

	"github.com/segmentio/kafka-go"

	"tablebooker/agg-svc/internal/domain"
	"tablebooker/agg-svc/internal/storage"
	"tablebooker/events"
)

type StoreInterface interface {
	RefreshRating(ctx context.Context, restaurantID int) (domain.Rating, error)
	AdjustPopularity(ctx context.Context, restaurantID int, date string, delta float64) error
	Claim(ctx context.Context, eventID string) (bool, error)
	Release(ctx context.Context, eventID string) error
}

// Notifier tells a customer their booking went through.
type Notifier interface {
	BookingConfirmed(ctx context.Context, msg events.BookingMessage) error
}

type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, messages ...kafka.Message) error
}

type ConsumerInterface interface {
	Start(ctx context.Context)
	Handle(ctx context.Context, message kafka.Message) error
}

var (
	_ StoreInterface    = (*storage.Store)(nil)
	_ Notifier          = (*LogNotifier)(nil)
	_ MessageReader     = (*kafka.Reader)(nil)
	_ ConsumerInterface = (*Consumer)(nil)
)
