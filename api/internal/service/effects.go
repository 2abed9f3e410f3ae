package service

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// background runs fn outside the request. Failures are logged and dropped.
func (s settings) background(action string, fields logrus.Fields, fn func(ctx context.Context) error) {
	s.dispatch(func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.publishTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			s.logger.WithFields(fields).WithError(err).Warnf("%s failed", action)
		}
	})
}

// Background runs post-commit side effects on goroutines it keeps count of,
// so shutdown can wait for them before closing the publisher.
type Background struct {
	wg sync.WaitGroup
}

// Go is a dispatcher for WithDispatcher.
func (b *Background) Go(fn func()) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		fn()
	}()
}

// Wait blocks until every dispatched task has returned or ctx is done.
func (b *Background) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s settings) invalidate(ctx context.Context, cache Cache, keys ...string) {
	if err := cache.Delete(ctx, keys...); err != nil {
		s.logger.WithError(err).WithField("keys", keys).Warn("cache invalidation failed")
	}
}

func (s settings) cached(ctx context.Context, cache Cache, key string, dst interface{}) bool {
	found, err := cache.GetJSON(ctx, key, dst)
	if err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("cache read failed")
		return false
	}
	return found
}

func (s settings) store(ctx context.Context, cache Cache, key string, value interface{}, ttl time.Duration) {
	if err := cache.SetJSON(ctx, key, value, ttl); err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("cache write failed")
	}
}

type noopCache struct{}

func (noopCache) GetJSON(context.Context, string, interface{}) (bool, error) { return false, nil }

func (noopCache) SetJSON(context.Context, string, interface{}, time.Duration) error { return nil }

func (noopCache) Delete(context.Context, ...string) error { return nil }

func (noopCache) Version(context.Context, string) (int64, error) { return 0, nil }

func (noopCache) BumpVersion(context.Context, string) error { return nil }

func cacheOrNoop(cache Cache) Cache {
	if cache == nil {
		return noopCache{}
	}
	return cache
}
