package service_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tablebooker/api/internal/service"
)

func TestBackground_WaitDrainsTasks(t *testing.T) {
	tasks := &service.Background{}
	release := make(chan struct{})
	var finished atomic.Int32

	for i := 0; i < 3; i++ {
		tasks.Go(func() {
			<-release
			finished.Add(1)
		})
	}

	short, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, tasks.Wait(short), context.DeadlineExceeded)

	close(release)
	ctx, cancelWait := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancelWait()
	require.NoError(t, tasks.Wait(ctx))
	assert.Equal(t, int32(3), finished.Load())
}

func TestBackground_WaitWithNothingPending(t *testing.T) {
	tasks := &service.Background{}
	assert.NoError(t, tasks.Wait(context.Background()))
}
