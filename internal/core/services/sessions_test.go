package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/branchseek/branchseek/internal/core/domain"
)

func newRunningSession(t *testing.T, r *SessionRegistry) string {
	t.Helper()
	req := baseRequest()
	return r.Create(req)
}

func TestSessionRegistry_PublishWithoutSubscribers(t *testing.T) {
	r := NewSessionRegistry(time.Minute)
	id := newRunningSession(t, r)

	// Fire-and-forget: no subscribers means the event is dropped, and
	// a later subscriber sees nothing of it.
	r.Publish(id, domain.NewEvent(domain.EventInfo, "dropped", nil))

	ch, cancel, err := r.Subscribe(id)
	require.NoError(t, err)
	defer cancel()

	select {
	case ev := <-ch:
		t.Fatalf("expected no replay, got %s event", ev.Kind)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSessionRegistry_FanOut(t *testing.T) {
	r := NewSessionRegistry(time.Minute)
	id := newRunningSession(t, r)

	ch1, cancel1, err := r.Subscribe(id)
	require.NoError(t, err)
	defer cancel1()
	ch2, cancel2, err := r.Subscribe(id)
	require.NoError(t, err)
	defer cancel2()

	for i := 0; i < 3; i++ {
		r.Publish(id, domain.NewEvent(domain.EventProgress, string(rune('a'+i)), nil))
	}

	for _, ch := range []<-chan domain.ProgressEvent{ch1, ch2} {
		for i := 0; i < 3; i++ {
			select {
			case ev := <-ch:
				assert.Equal(t, string(rune('a'+i)), ev.Message, "events arrive in publish order")
			case <-time.After(time.Second):
				t.Fatal("timed out waiting for fanned-out event")
			}
		}
	}
}

func TestSessionRegistry_UnsubscribeDetachesOnly(t *testing.T) {
	r := NewSessionRegistry(time.Minute)
	id := newRunningSession(t, r)

	ch1, cancel1, err := r.Subscribe(id)
	require.NoError(t, err)
	ch2, cancel2, err := r.Subscribe(id)
	require.NoError(t, err)
	defer cancel2()

	cancel1()
	// Cancel is idempotent.
	cancel1()

	_, open := <-ch1
	assert.False(t, open, "cancelled subscriber channel is closed")

	r.Publish(id, domain.NewEvent(domain.EventInfo, "still flowing", nil))

	select {
	case ev := <-ch2:
		assert.Equal(t, "still flowing", ev.Message)
	case <-time.After(time.Second):
		t.Fatal("remaining subscriber should keep receiving")
	}

	// The session itself is untouched.
	_, err = r.Status(id)
	assert.NoError(t, err)
}

func TestSessionRegistry_SlowSubscriberDoesNotBlockPublish(t *testing.T) {
	r := NewSessionRegistry(time.Minute)
	id := newRunningSession(t, r)

	_, cancel, err := r.Subscribe(id)
	require.NoError(t, err)
	defer cancel()

	done := make(chan struct{})
	go func() {
		// Publish far more than the subscriber buffer without draining.
		for i := 0; i < subscriberBuffer*3; i++ {
			r.Publish(id, domain.NewEvent(domain.EventProgress, "x", nil))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}

func TestSessionRegistry_AppendResultsEnforcesCap(t *testing.T) {
	r := NewSessionRegistry(time.Minute)
	req := baseRequest()
	req.MaxResults = 3
	id := r.Create(req)

	batch := []domain.SearchResult{
		contentResult("main", "a.go", 1),
		contentResult("main", "b.go", 2),
	}

	total := r.AppendResults(id, batch)
	assert.Equal(t, 2, total)

	// Second batch would overflow; it is truncated, never split below
	// the cap.
	total = r.AppendResults(id, batch)
	assert.Equal(t, 3, total)

	results, err := r.Snapshot(id)
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestSessionRegistry_SnapshotIsACopy(t *testing.T) {
	r := NewSessionRegistry(time.Minute)
	id := newRunningSession(t, r)

	r.AppendResults(id, []domain.SearchResult{contentResult("main", "a.go", 1)})

	snap, err := r.Snapshot(id)
	require.NoError(t, err)
	snap[0].FilePath = "mutated.go"

	again, err := r.Snapshot(id)
	require.NoError(t, err)
	assert.Equal(t, "a.go", again[0].FilePath)
}

func TestSessionRegistry_LingerTeardown(t *testing.T) {
	r := NewSessionRegistry(30 * time.Millisecond)
	id := newRunningSession(t, r)

	ch, cancel, err := r.Subscribe(id)
	require.NoError(t, err)
	defer cancel()

	r.Finish(id, domain.SessionCompleted)

	// During the linger window the session is still observable.
	status, err := r.Status(id)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionCompleted, status)

	// After it, subscribers get a Close event and the channel closes.
	var sawClose bool
	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev, open := <-ch:
			if !open {
				assert.True(t, sawClose, "Close event precedes channel close")
				_, err = r.Status(id)
				assert.ErrorIs(t, err, domain.ErrSessionNotFound)
				return
			}
			if ev.Kind == domain.EventClose {
				sawClose = true
			}
		case <-deadline:
			t.Fatal("session was not torn down after the linger window")
		}
	}
}

func TestSessionRegistry_UnknownSession(t *testing.T) {
	r := NewSessionRegistry(time.Minute)

	_, _, err := r.Subscribe("nope")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	_, err = r.Snapshot("nope")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	// Publishing into the void is harmless.
	r.Publish("nope", domain.NewEvent(domain.EventInfo, "x", nil))
}
