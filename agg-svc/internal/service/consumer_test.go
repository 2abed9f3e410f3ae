package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tablebooker/agg-svc/internal/domain"
	"tablebooker/agg-svc/internal/mocks"
	"tablebooker/agg-svc/internal/service"
	"tablebooker/events"
)

func newConsumer(t *testing.T) (*service.Consumer, *mocks.StoreInterface, *mocks.Notifier, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	store := mocks.NewStoreInterface(t)
	notifier := mocks.NewNotifier(t)
	return service.NewConsumer(nil, store, notifier, logger), store, notifier, hook
}

func encode(t *testing.T, topic string, v interface{}) kafka.Message {
	t.Helper()
	payload, err := json.Marshal(v)
	require.NoError(t, err)
	return kafka.Message{Topic: topic, Value: payload}
}

func TestConsumer_ProcessReview(t *testing.T) {
	tests := []struct {
		name       string
		msg        events.ReviewMessage
		setupStore func(*mocks.StoreInterface)
		wantErr    bool
	}{
		{
			name: "created",
			msg:  events.ReviewMessage{ID: "ev-1", Type: events.TypeReviewCreated, RestaurantID: 10, Rating: 5},
			setupStore: func(store *mocks.StoreInterface) {
				store.On("Claim", mock.Anything, "ev-1").Return(true, nil).Once()
				store.On("RefreshRating", mock.Anything, 10).
					Return(domain.Rating{RestaurantID: 10, AvgRating: 4.5, ReviewCount: 2}, nil).Once()
			},
		},
		{
			name: "deleted",
			msg:  events.ReviewMessage{ID: "ev-2", Type: events.TypeReviewDeleted, RestaurantID: 10},
			setupStore: func(store *mocks.StoreInterface) {
				store.On("Claim", mock.Anything, "ev-2").Return(true, nil).Once()
				store.On("RefreshRating", mock.Anything, 10).Return(domain.Rating{RestaurantID: 10}, nil).Once()
			},
		},
		{
			name: "refresh error releases claim",
			msg:  events.ReviewMessage{ID: "ev-3", Type: events.TypeReviewUpdated, RestaurantID: 10},
			setupStore: func(store *mocks.StoreInterface) {
				store.On("Claim", mock.Anything, "ev-3").Return(true, nil).Once()
				store.On("RefreshRating", mock.Anything, 10).Return(domain.Rating{}, errors.New("db connection failed")).Once()
				store.On("Release", mock.Anything, "ev-3").Return(nil).Once()
			},
			wantErr: true,
		},
		{
			name: "duplicate delivery",
			msg:  events.ReviewMessage{ID: "ev-4", Type: events.TypeReviewCreated, RestaurantID: 10},
			setupStore: func(store *mocks.StoreInterface) {
				store.On("Claim", mock.Anything, "ev-4").Return(false, nil).Once()
			},
		},
		{
			name: "claim unavailable still processes",
			msg:  events.ReviewMessage{ID: "ev-5", Type: events.TypeReviewCreated, RestaurantID: 10},
			setupStore: func(store *mocks.StoreInterface) {
				store.On("Claim", mock.Anything, "ev-5").Return(false, errors.New("redis down")).Once()
				store.On("RefreshRating", mock.Anything, 10).Return(domain.Rating{RestaurantID: 10}, nil).Once()
			},
		},
		{
			name:       "unknown type",
			msg:        events.ReviewMessage{ID: "ev-6", Type: "review_flagged", RestaurantID: 10},
			setupStore: func(*mocks.StoreInterface) {},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			consumer, store, _, _ := newConsumer(t)
			testCase.setupStore(store)

			err := consumer.ProcessReview(context.Background(), testCase.msg)

			if testCase.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestConsumer_ProcessBooking(t *testing.T) {
	created := events.BookingMessage{
		ID: "bk-1", Type: events.TypeBookingCreated, BookingID: 7, RestaurantID: 3,
		Date: "2026-06-02", Time: "19:00", Guests: 4, Status: "confirmed",
	}

	t.Run("created notifies and counts", func(t *testing.T) {
		consumer, store, notifier, _ := newConsumer(t)
		store.On("Claim", mock.Anything, "bk-1").Return(true, nil).Once()
		notifier.On("BookingConfirmed", mock.Anything, created).Return(nil).Once()
		store.On("AdjustPopularity", mock.Anything, 3, "2026-06-02", 1.0).Return(nil).Once()

		assert.NoError(t, consumer.ProcessBooking(context.Background(), created))
	})

	t.Run("notification failure does not block counting", func(t *testing.T) {
		consumer, store, notifier, hook := newConsumer(t)
		store.On("Claim", mock.Anything, "bk-1").Return(true, nil).Once()
		notifier.On("BookingConfirmed", mock.Anything, created).Return(errors.New("smtp down")).Once()
		store.On("AdjustPopularity", mock.Anything, 3, "2026-06-02", 1.0).Return(nil).Once()

		assert.NoError(t, consumer.ProcessBooking(context.Background(), created))

		var warned bool
		for _, entry := range hook.AllEntries() {
			if entry.Level == logrus.WarnLevel && entry.Message == "booking confirmation failed" {
				warned = true
			}
		}
		assert.True(t, warned)
	})

	t.Run("cancelled decrements", func(t *testing.T) {
		consumer, store, _, _ := newConsumer(t)
		msg := created
		msg.ID, msg.Type, msg.Status = "bk-2", events.TypeBookingCancelled, "cancelled"
		store.On("Claim", mock.Anything, "bk-2").Return(true, nil).Once()
		store.On("AdjustPopularity", mock.Anything, 3, "2026-06-02", -1.0).Return(nil).Once()

		assert.NoError(t, consumer.ProcessBooking(context.Background(), msg))
	})

	t.Run("owner cancellation decrements", func(t *testing.T) {
		consumer, store, _, _ := newConsumer(t)
		msg := created
		msg.ID, msg.Type, msg.Status = "bk-3", events.TypeBookingStatusChanged, "cancelled"
		store.On("Claim", mock.Anything, "bk-3").Return(true, nil).Once()
		store.On("AdjustPopularity", mock.Anything, 3, "2026-06-02", -1.0).Return(nil).Once()

		assert.NoError(t, consumer.ProcessBooking(context.Background(), msg))
	})

	t.Run("completion is ignored", func(t *testing.T) {
		consumer, _, _, _ := newConsumer(t)
		msg := created
		msg.Type, msg.Status = events.TypeBookingStatusChanged, "completed"

		assert.NoError(t, consumer.ProcessBooking(context.Background(), msg))
	})

	t.Run("store failure surfaces", func(t *testing.T) {
		consumer, store, notifier, _ := newConsumer(t)
		store.On("Claim", mock.Anything, "bk-1").Return(true, nil).Once()
		notifier.On("BookingConfirmed", mock.Anything, created).Return(nil).Once()
		store.On("AdjustPopularity", mock.Anything, 3, "2026-06-02", 1.0).Return(errors.New("redis error")).Once()
		store.On("Release", mock.Anything, "bk-1").Return(nil).Once()

		err := consumer.ProcessBooking(context.Background(), created)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "bk-1")
	})
}

func TestConsumer_HandleSkipsMalformed(t *testing.T) {
	tests := []struct {
		name    string
		message kafka.Message
	}{
		{name: "bad review json", message: kafka.Message{Topic: events.TopicReviews, Value: []byte("{")}},
		{name: "review without restaurant", message: kafka.Message{Topic: events.TopicReviews, Value: []byte(`{"type":"review_created"}`)}},
		{name: "bad booking json", message: kafka.Message{Topic: events.TopicBookings, Value: []byte("not json")}},
		{name: "booking without date", message: kafka.Message{Topic: events.TopicBookings, Value: []byte(`{"type":"booking_created","restaurant_id":3}`)}},
		{name: "unknown topic", message: kafka.Message{Topic: "orders", Value: []byte(`{}`)}},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			consumer, store, _, hook := newConsumer(t)

			assert.NoError(t, consumer.Handle(context.Background(), testCase.message))
			require.NotNil(t, hook.LastEntry())
			assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
			store.AssertNotCalled(t, "Claim", mock.Anything, mock.Anything)
		})
	}
}

func TestConsumer_HandleRoutesByTopic(t *testing.T) {
	consumer, store, _, _ := newConsumer(t)
	store.On("Claim", mock.Anything, "ev-9").Return(true, nil).Once()
	store.On("RefreshRating", mock.Anything, 4).Return(domain.Rating{RestaurantID: 4}, nil).Once()

	message := encode(t, events.TopicReviews, events.ReviewMessage{ID: "ev-9", Type: events.TypeReviewCreated, RestaurantID: 4})

	assert.NoError(t, consumer.Handle(context.Background(), message))
}

type scriptedReader struct {
	mu        sync.Mutex
	messages  []kafka.Message
	errs      []error
	committed []int64
	drained   chan struct{}
}

func (r *scriptedReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.errs) > 0 {
		err := r.errs[0]
		r.errs = r.errs[1:]
		r.mu.Unlock()
		return kafka.Message{}, err
	}
	if len(r.messages) > 0 {
		msg := r.messages[0]
		r.messages = r.messages[1:]
		r.mu.Unlock()
		return msg, nil
	}
	r.mu.Unlock()

	select {
	case r.drained <- struct{}{}:
	default:
	}
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *scriptedReader) CommitMessages(_ context.Context, messages ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, msg := range messages {
		r.committed = append(r.committed, msg.Offset)
	}
	return nil
}

func (r *scriptedReader) commits() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.committed...)
}

// runUntilDrained starts the consumer and stops it once every scripted
// message has been fetched.
func runUntilDrained(t *testing.T, consumer *service.Consumer, reader *scriptedReader) {
	t.Helper()
	consumer.Reader = reader
	consumer.Backoff = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		consumer.Start(ctx)
		close(done)
	}()

	select {
	case <-reader.drained:
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not drain the reader")
	}
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop after cancel")
	}
}

func TestConsumer_StartCommitsHandledMessages(t *testing.T) {
	consumer, store, _, _ := newConsumer(t)
	review := encode(t, events.TopicReviews, events.ReviewMessage{ID: "ev-1", Type: events.TypeReviewCreated, RestaurantID: 4})
	review.Offset = 10
	garbage := kafka.Message{Topic: events.TopicBookings, Value: []byte("garbage"), Offset: 11}
	reader := &scriptedReader{
		messages: []kafka.Message{review, garbage},
		errs:     []error{errors.New("broker unavailable")},
		drained:  make(chan struct{}, 1),
	}
	store.On("Claim", mock.Anything, "ev-1").Return(true, nil).Once()
	store.On("RefreshRating", mock.Anything, 4).Return(domain.Rating{RestaurantID: 4}, nil).Once()

	runUntilDrained(t, consumer, reader)

	assert.Equal(t, []int64{10, 11}, reader.commits())
}

func TestConsumer_StartRetriesFailedMessage(t *testing.T) {
	consumer, store, _, hook := newConsumer(t)
	review := encode(t, events.TopicReviews, events.ReviewMessage{ID: "ev-2", Type: events.TypeReviewUpdated, RestaurantID: 6})
	review.Offset = 20
	reader := &scriptedReader{messages: []kafka.Message{review}, drained: make(chan struct{}, 1)}

	store.On("Claim", mock.Anything, "ev-2").Return(true, nil).Twice()
	store.On("RefreshRating", mock.Anything, 6).Return(domain.Rating{}, errors.New("deadlock detected")).Once()
	store.On("Release", mock.Anything, "ev-2").Return(nil).Once()
	store.On("RefreshRating", mock.Anything, 6).Return(domain.Rating{RestaurantID: 6, ReviewCount: 1}, nil).Once()

	runUntilDrained(t, consumer, reader)

	assert.Equal(t, []int64{20}, reader.commits())
	var retried bool
	for _, entry := range hook.AllEntries() {
		if entry.Message == "process message failed, retrying" {
			retried = true
		}
	}
	assert.True(t, retried)
}

func TestConsumer_StartSkipsAfterLastAttempt(t *testing.T) {
	consumer, store, _, hook := newConsumer(t)
	booking := encode(t, events.TopicBookings, events.BookingMessage{
		ID: "ev-3", Type: events.TypeBookingCancelled, RestaurantID: 2, Date: "2026-06-02",
	})
	booking.Offset = 30
	reader := &scriptedReader{messages: []kafka.Message{booking}, drained: make(chan struct{}, 1)}

	store.On("Claim", mock.Anything, "ev-3").Return(true, nil).Times(3)
	store.On("AdjustPopularity", mock.Anything, 2, "2026-06-02", -1.0).Return(errors.New("redis down")).Times(3)
	store.On("Release", mock.Anything, "ev-3").Return(nil).Times(3)

	runUntilDrained(t, consumer, reader)

	assert.Equal(t, []int64{30}, reader.commits())
	last := hook.LastEntry()
	require.NotNil(t, last)
	assert.Equal(t, "aggregation consumer stopped", last.Message)
	var skipped bool
	for _, entry := range hook.AllEntries() {
		if entry.Message == "process message failed, skipping" {
			skipped = true
			assert.Equal(t, logrus.ErrorLevel, entry.Level)
		}
	}
	assert.True(t, skipped)
}
