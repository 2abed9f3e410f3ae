package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"tablebooker/events"
)

// LogNotifier records confirmations in the log. Email delivery lives outside
// this service.
type LogNotifier struct {
	Logger logrus.FieldLogger
}

func (n *LogNotifier) BookingConfirmed(ctx context.Context, msg events.BookingMessage) error {
	n.Logger.WithFields(logrus.Fields{
		"booking_id":    msg.BookingID,
		"restaurant_id": msg.RestaurantID,
		"customer_id":   msg.CustomerID,
		"date":          msg.Date,
		"time":          msg.Time,
		"guests":        msg.Guests,
	}).Info("booking confirmation sent")
	return nil
}
