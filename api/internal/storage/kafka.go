package storage

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/segmentio/kafka-go"

	"tablebooker/events"
)

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaPublisher writes domain events keyed by restaurant so each
// restaurant's events stay ordered within a partition.
type KafkaPublisher struct {
	Writer MessageWriter
}

func NewKafkaPublisher(writer MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{Writer: writer}
}

func (p *KafkaPublisher) PublishBooking(ctx context.Context, msg events.BookingMessage) error {
	return p.write(ctx, events.TopicBookings, msg.RestaurantID, msg)
}

func (p *KafkaPublisher) PublishReview(ctx context.Context, msg events.ReviewMessage) error {
	return p.write(ctx, events.TopicReviews, msg.RestaurantID, msg)
}

func (p *KafkaPublisher) write(ctx context.Context, topic string, restaurantID int, msg interface{}) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return p.Writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(strconv.Itoa(restaurantID)),
		Value: payload,
	})
}
