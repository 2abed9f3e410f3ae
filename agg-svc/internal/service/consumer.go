package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"tablebooker/events"
)

const (
	readBackoff     = time.Second
	processAttempts = 3
)

type Consumer struct {
	Reader   MessageReader
	Store    StoreInterface
	Notifier Notifier
	Logger   logrus.FieldLogger
	Backoff  time.Duration
}

func NewConsumer(reader MessageReader, store StoreInterface, notifier Notifier, logger logrus.FieldLogger) *Consumer {
	return &Consumer{
		Reader:   reader,
		Store:    store,
		Notifier: notifier,
		Logger:   logger,
		Backoff:  readBackoff,
	}
}

// Start consumes until ctx is done. An offset is committed once its message
// is handled, or after the last failed attempt so one bad event cannot stall
// the partition.
func (c *Consumer) Start(ctx context.Context) {
	c.Logger.Info("aggregation consumer started")
	defer c.Logger.Info("aggregation consumer stopped")
	for {
		message, err := c.Reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.Logger.WithError(err).Warn("fetch message failed")
			if !c.wait(ctx) {
				return
			}
			continue
		}

		if !c.process(ctx, message) {
			return
		}
		if err := c.Reader.CommitMessages(ctx, message); err != nil {
			if ctx.Err() != nil {
				return
			}
			c.Logger.WithError(err).WithField("offset", message.Offset).Warn("commit message failed")
		}
	}
}

// process runs Handle until it succeeds or the attempts run out. It returns
// false when ctx ends first, leaving the message uncommitted.
func (c *Consumer) process(ctx context.Context, message kafka.Message) bool {
	for attempt := 1; ; attempt++ {
		err := c.Handle(ctx, message)
		if err == nil {
			return true
		}
		logger := c.Logger.WithError(err).WithFields(logrus.Fields{
			"topic":     message.Topic,
			"partition": message.Partition,
			"offset":    message.Offset,
			"attempt":   attempt,
		})
		if attempt >= processAttempts {
			logger.Error("process message failed, skipping")
			return true
		}
		logger.Warn("process message failed, retrying")
		if !c.wait(ctx) {
			return false
		}
	}
}

func (c *Consumer) wait(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(c.Backoff):
		return true
	}
}

// Handle routes one message by topic. Malformed payloads are skipped.
func (c *Consumer) Handle(ctx context.Context, message kafka.Message) error {
	logger := c.Logger.WithFields(logrus.Fields{"topic": message.Topic, "offset": message.Offset})

	switch message.Topic {
	case events.TopicReviews:
		var msg events.ReviewMessage
		if err := json.Unmarshal(message.Value, &msg); err != nil || msg.RestaurantID <= 0 {
			logger.WithError(err).Warn("malformed review message skipped")
			return nil
		}
		return c.ProcessReview(ctx, msg)
	case events.TopicBookings:
		var msg events.BookingMessage
		if err := json.Unmarshal(message.Value, &msg); err != nil || msg.RestaurantID <= 0 || msg.Date == "" {
			logger.WithError(err).Warn("malformed booking message skipped")
			return nil
		}
		return c.ProcessBooking(ctx, msg)
	default:
		logger.Warn("message from unexpected topic skipped")
		return nil
	}
}

func (c *Consumer) ProcessReview(ctx context.Context, msg events.ReviewMessage) error {
	switch msg.Type {
	case events.TypeReviewCreated, events.TypeReviewUpdated, events.TypeReviewDeleted:
	default:
		c.Logger.WithField("type", msg.Type).Debug("review event ignored")
		return nil
	}

	return c.once(ctx, msg.ID, func() error {
		rating, err := c.Store.RefreshRating(ctx, msg.RestaurantID)
		if err != nil {
			return err
		}
		c.Logger.WithFields(logrus.Fields{
			"restaurant_id": rating.RestaurantID,
			"avg_rating":    rating.AvgRating,
			"review_count":  rating.ReviewCount,
			"event":         msg.Type,
		}).Info("restaurant rating refreshed")
		return nil
	})
}

func (c *Consumer) ProcessBooking(ctx context.Context, msg events.BookingMessage) error {
	var delta float64
	switch {
	case msg.Type == events.TypeBookingCreated:
		delta = 1
	case msg.Type == events.TypeBookingCancelled:
		delta = -1
	case msg.Type == events.TypeBookingStatusChanged && msg.Status == "cancelled":
		delta = -1
	default:
		c.Logger.WithFields(logrus.Fields{"type": msg.Type, "status": msg.Status}).Debug("booking event ignored")
		return nil
	}

	return c.once(ctx, msg.ID, func() error {
		if msg.Type == events.TypeBookingCreated && c.Notifier != nil {
			if err := c.Notifier.BookingConfirmed(ctx, msg); err != nil {
				c.Logger.WithError(err).WithField("booking_id", msg.BookingID).Warn("booking confirmation failed")
			}
		}
		if err := c.Store.AdjustPopularity(ctx, msg.RestaurantID, msg.Date, delta); err != nil {
			return err
		}
		c.Logger.WithFields(logrus.Fields{
			"booking_id":    msg.BookingID,
			"restaurant_id": msg.RestaurantID,
			"date":          msg.Date,
			"delta":         delta,
		}).Info("booking popularity updated")
		return nil
	})
}

// once runs fn unless another delivery of the event got there first. A
// failed run releases the claim so the next attempt can take it again.
func (c *Consumer) once(ctx context.Context, eventID string, fn func() error) error {
	if eventID == "" {
		return fn()
	}

	claimed, err := c.Store.Claim(ctx, eventID)
	if err != nil {
		c.Logger.WithError(err).WithField("event_id", eventID).Warn("event claim failed, processing anyway")
		return fn()
	}
	if !claimed {
		c.Logger.WithField("event_id", eventID).Info("duplicate event skipped")
		return nil
	}

	if err := fn(); err != nil {
		if releaseErr := c.Store.Release(ctx, eventID); releaseErr != nil {
			c.Logger.WithError(releaseErr).WithField("event_id", eventID).Warn("event claim release failed")
		}
		return fmt.Errorf("event %s: %w", eventID, err)
	}
	return nil
}
