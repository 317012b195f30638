package events

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"restaurant-seating-backend/internal/model"
)

// mockPublisher is a mock implementation of the Publisher interface.
type mockPublisher struct {
	mu          sync.Mutex
	PublishFunc func(ctx context.Context, ev Event) error
	published   []Event
	closed      bool
}

func (m *mockPublisher) Publish(ctx context.Context, ev Event) error {
	m.mu.Lock()
	m.published = append(m.published, ev)
	m.mu.Unlock()
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, ev)
	}
	return nil
}

func (m *mockPublisher) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockPublisher) ids() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.published))
	for _, ev := range m.published {
		out = append(out, ev.Reservation.ID)
	}
	return out
}

func event(id string) Event {
	return NewReservationEvent(TypeReservationCreated, model.Reservation{ID: id, Status: model.StatusConfirmed}, time.Now())
}

func TestDispatcher_QueuesBeforeStart(t *testing.T) {
	target := &mockPublisher{}
	d := NewDispatcher(1, 2, target, nil)

	require.NoError(t, d.Publish(context.Background(), event("res_1")))

	select {
	case ev := <-d.jobs:
		assert.Equal(t, "res_1", ev.Reservation.ID)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event to be queued")
	}
}

func TestDispatcher_DeliversAndDrainsOnClose(t *testing.T) {
	target := &mockPublisher{}
	d := NewDispatcher(2, 8, target, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	for i := 0; i < 5; i++ {
		require.NoError(t, d.Publish(ctx, event(fmt.Sprintf("res_%d", i))))
	}
	require.NoError(t, d.Close())

	assert.ElementsMatch(t, []string{"res_0", "res_1", "res_2", "res_3", "res_4"}, target.ids())
	assert.True(t, target.closed)

	assert.ErrorIs(t, d.Publish(ctx, event("res_late")), ErrDispatcherClosed)
	assert.NoError(t, d.Close(), "closing twice is harmless")
}

func TestDispatcher_LogsDeliveryFailure(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	var wg sync.WaitGroup
	wg.Add(1)
	target := &mockPublisher{PublishFunc: func(ctx context.Context, ev Event) error {
		defer wg.Done()
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		return fmt.Errorf("channel closed")
	}}
	d := NewDispatcher(1, 1, target, zap.New(core))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	require.NoError(t, d.Publish(ctx, event("res_1")))
	wg.Wait()
	require.NoError(t, d.Close())

	entries := logs.FilterMessage("failed to deliver event").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "res_1", entries[0].ContextMap()["reservationId"])
}

func TestDispatcher_PublishHonoursContext(t *testing.T) {
	d := NewDispatcher(1, 1, &mockPublisher{}, nil)
	require.NoError(t, d.Publish(context.Background(), event("res_1")))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, d.Publish(ctx, event("res_2")), context.DeadlineExceeded, "queue is full and no worker runs")
}
