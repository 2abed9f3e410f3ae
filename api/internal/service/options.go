package service

import (
	"time"

	"github.com/sirupsen/logrus"
)

type CacheTTL struct {
	Availability time.Duration
	Bookings     time.Duration
	Restaurant   time.Duration
}

var DefaultCacheTTL = CacheTTL{
	Availability: 5 * time.Minute,
	Bookings:     2 * time.Minute,
	Restaurant:   10 * time.Minute,
}

type settings struct {
	now            func() time.Time
	dispatch       func(func())
	logger         logrus.FieldLogger
	ttl            CacheTTL
	publishTimeout time.Duration
	qr             QRGenerator
}

type Option func(*settings)

func newSettings(opts []Option) settings {
	s := settings{
		now:            time.Now,
		dispatch:       func(fn func()) { go fn() },
		logger:         logrus.StandardLogger(),
		ttl:            DefaultCacheTTL,
		publishTimeout: 5 * time.Second,
		qr:             DefaultQRGenerator{},
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

func WithClock(now func() time.Time) Option {
	return func(s *settings) { s.now = now }
}

// WithDispatcher replaces the goroutine used for post-commit side effects.
func WithDispatcher(dispatch func(func())) Option {
	return func(s *settings) { s.dispatch = dispatch }
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *settings) { s.logger = logger }
}

func WithCacheTTL(ttl CacheTTL) Option {
	return func(s *settings) { s.ttl = ttl }
}

func WithPublishTimeout(timeout time.Duration) Option {
	return func(s *settings) { s.publishTimeout = timeout }
}

func WithQRGenerator(qr QRGenerator) Option {
	return func(s *settings) { s.qr = qr }
}
