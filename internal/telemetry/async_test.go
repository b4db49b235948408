package telemetry

import (
	"context"
	"sync"
	"testing"
	"time"

	"talent-screen/backend/internal/telemetry/domain"
)

// mockEventEmitter implements EventEmitter for tests.
type mockEventEmitter struct {
	mu      sync.Mutex
	events  []*domain.Event
	emitErr error
	delay   time.Duration
}

func (m *mockEventEmitter) Emit(ctx context.Context, event *domain.Event) error {
	if m.delay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(m.delay):
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return m.emitErr
}

func (m *mockEventEmitter) getEvents() []*domain.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.events
}

func TestEmitAsync_NilEmitter(t *testing.T) {
	event := &domain.Event{UserID: "user-1", EventType: "test"}
	// Should not panic
	EmitAsync(nil, context.Background(), event)
}

func TestEmitAsync_NilEvent(t *testing.T) {
	emitter := &mockEventEmitter{}
	EmitAsync(emitter, context.Background(), nil)
	time.Sleep(10 * time.Millisecond)
	if events := emitter.getEvents(); len(events) != 0 {
		t.Errorf("expected 0 events, got %d", len(events))
	}
}

func TestEmitAsync_SuccessfulEmit(t *testing.T) {
	emitter := &mockEventEmitter{}
	event := &domain.Event{
		UserID:    "user-1",
		EventType: "login_success",
		Source:    "test",
	}

	EmitAsync(emitter, context.Background(), event)
	time.Sleep(100 * time.Millisecond)

	events := emitter.getEvents()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].UserID != "user-1" {
		t.Errorf("event user_id = %q, want %q", events[0].UserID, "user-1")
	}
	if events[0].EventType != "login_success" {
		t.Errorf("event type = %q, want %q", events[0].EventType, "login_success")
	}
}

func TestEmitAsync_UsesBackgroundContext(t *testing.T) {
	emitter := &mockEventEmitter{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // request context already cancelled

	EmitAsync(emitter, ctx, &domain.Event{EventType: "test"})
	time.Sleep(100 * time.Millisecond)

	if events := emitter.getEvents(); len(events) != 1 {
		t.Errorf("expected 1 event (context.Background used), got %d", len(events))
	}
}

func TestEmitAsync_ErrorHandling(t *testing.T) {
	emitter := &mockEventEmitter{emitErr: context.DeadlineExceeded}
	// Should not panic on error; it is logged only.
	EmitAsync(emitter, context.Background(), &domain.Event{EventType: "test"})
	time.Sleep(100 * time.Millisecond)
}

func TestEmitAsync_ConcurrentAccess(t *testing.T) {
	emitter := &mockEventEmitter{}
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			EmitAsync(emitter, context.Background(), &domain.Event{EventType: "test"})
		}()
	}
	wg.Wait()
	time.Sleep(200 * time.Millisecond)

	if events := emitter.getEvents(); len(events) != 10 {
		t.Errorf("expected 10 events, got %d", len(events))
	}
}
