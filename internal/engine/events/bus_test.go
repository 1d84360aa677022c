package events_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/polibrief/newscrawl/internal/engine/events"
)

func TestBusPublishesToAllHandlers(t *testing.T) {
	t.Parallel()

	bus := events.NewBus()

	var got []events.Event
	for range 3 {
		bus.Subscribe(events.HandlerFunc(func(_ context.Context, evt events.Event) {
			got = append(got, evt)
		}))
	}

	evt := events.Event{URL: "https://example.com", Items: 2, Err: errors.New("boom")}
	bus.PublishURLDone(context.Background(), evt)

	assert.Len(t, got, 3)
	assert.Equal(t, evt, got[0])
	assert.Equal(t, 3, bus.HandlerCount())
}

func TestBusConcurrentPublish(t *testing.T) {
	t.Parallel()

	const publishers = 16

	bus := events.NewBus()

	var (
		mu    sync.Mutex
		count int
	)
	bus.Subscribe(events.HandlerFunc(func(_ context.Context, _ events.Event) {
		mu.Lock()
		count++
		mu.Unlock()
	}))

	var wg sync.WaitGroup
	for range publishers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bus.PublishURLDone(context.Background(), events.Event{URL: "u"})
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, publishers, count)
}

func TestBusNoHandlers(t *testing.T) {
	t.Parallel()

	bus := events.NewBus()
	bus.PublishURLDone(context.Background(), events.Event{URL: "https://example.com"})
	assert.Equal(t, 0, bus.HandlerCount())
}
