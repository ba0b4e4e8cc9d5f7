package services

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/branchseek/branchseek/internal/core/domain"
	"github.com/branchseek/branchseek/internal/logger"
)

const (
	// DefaultLingerWindow is how long a session outlives its terminal
	// state so late subscribers can still observe the completion event.
	DefaultLingerWindow = 5 * time.Second

	// subscriberBuffer is the per-subscriber event buffer. A subscriber
	// that falls this far behind has events dropped for it rather than
	// stalling the orchestrator.
	subscriberBuffer = 64
)

// SessionRegistry owns all live search sessions: their progress streams,
// subscriber sets and aggregated results. It is constructor-injected
// into the orchestrator and the transport adapters; there is exactly one
// per process wiring, never a package-level singleton.
//
// Event delivery is fire-and-forget: publishing to a session with zero
// subscribers drops the event. There is no buffering or replay for late
// joiners.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*session
	linger   time.Duration
}

// session is one in-flight or recently completed search.
type session struct {
	mu          sync.Mutex
	id          string
	request     domain.SearchRequest
	status      domain.SessionStatus
	aggregated  []domain.SearchResult
	subscribers map[int]chan domain.ProgressEvent
	nextSubID   int
}

// NewSessionRegistry creates a registry. A non-positive linger window
// falls back to DefaultLingerWindow.
func NewSessionRegistry(linger time.Duration) *SessionRegistry {
	if linger <= 0 {
		linger = DefaultLingerWindow
	}
	return &SessionRegistry{
		sessions: make(map[string]*session),
		linger:   linger,
	}
}

// Create registers a new running session and returns its ID.
func (r *SessionRegistry) Create(req domain.SearchRequest) string {
	s := &session{
		id:          uuid.NewString(),
		request:     req,
		status:      domain.SessionRunning,
		subscribers: make(map[int]chan domain.ProgressEvent),
	}

	r.mu.Lock()
	r.sessions[s.id] = s
	r.mu.Unlock()

	return s.id
}

// Subscribe attaches a listener to a session's progress stream and
// returns the event channel plus a detach function. Detaching never
// affects the session itself.
func (r *SessionRegistry) Subscribe(sessionID string) (<-chan domain.ProgressEvent, func(), error) {
	r.mu.RLock()
	s, ok := r.sessions[sessionID]
	r.mu.RUnlock()
	if !ok {
		return nil, nil, domain.ErrSessionNotFound
	}

	ch := make(chan domain.ProgressEvent, subscriberBuffer)

	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = ch
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, live := s.subscribers[id]; live {
			delete(s.subscribers, id)
			close(ch)
		}
		s.mu.Unlock()
	}

	return ch, cancel, nil
}

// Publish delivers an event to every current subscriber of a session, in
// publish order. Unknown sessions and sessions without subscribers drop
// the event silently.
func (r *SessionRegistry) Publish(sessionID string, event domain.ProgressEvent) {
	r.mu.RLock()
	s, ok := r.sessions[sessionID]
	r.mu.RUnlock()
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, ch := range s.subscribers {
		select {
		case ch <- event:
		default:
			// Full buffer: the subscriber is stalled or gone. Drop
			// the event for this subscriber only.
			logger.Debug("Dropping %s event for slow subscriber %d of session %s", event.Kind, id, sessionID)
		}
	}
}

// AppendResults appends a validated batch to the session's aggregate,
// re-checking the request's result cap defensively. It returns the new
// running total.
func (r *SessionRegistry) AppendResults(sessionID string, batch []domain.SearchResult) int {
	r.mu.RLock()
	s, ok := r.sessions[sessionID]
	r.mu.RUnlock()
	if !ok {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if room := s.request.MaxResults - len(s.aggregated); len(batch) > room {
		batch = batch[:room]
	}
	s.aggregated = append(s.aggregated, batch...)
	return len(s.aggregated)
}

// Snapshot returns a copy of the session's ordered result aggregate.
func (r *SessionRegistry) Snapshot(sessionID string) ([]domain.SearchResult, error) {
	r.mu.RLock()
	s, ok := r.sessions[sessionID]
	r.mu.RUnlock()
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.SearchResult, len(s.aggregated))
	copy(out, s.aggregated)
	return out, nil
}

// Status returns the session's lifecycle state.
func (r *SessionRegistry) Status(sessionID string) (domain.SessionStatus, error) {
	r.mu.RLock()
	s, ok := r.sessions[sessionID]
	r.mu.RUnlock()
	if !ok {
		return "", domain.ErrSessionNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status, nil
}

// Request returns the request a session was created with.
func (r *SessionRegistry) Request(sessionID string) (domain.SearchRequest, error) {
	r.mu.RLock()
	s, ok := r.sessions[sessionID]
	r.mu.RUnlock()
	if !ok {
		return domain.SearchRequest{}, domain.ErrSessionNotFound
	}
	return s.request, nil
}

// Finish moves a session into a terminal state and schedules its
// teardown after the linger window. A Close event is published at
// teardown, then all subscriber channels are closed and the session is
// removed.
func (r *SessionRegistry) Finish(sessionID string, status domain.SessionStatus) {
	r.mu.RLock()
	s, ok := r.sessions[sessionID]
	r.mu.RUnlock()
	if !ok {
		return
	}

	s.mu.Lock()
	s.status = status
	s.mu.Unlock()

	time.AfterFunc(r.linger, func() {
		r.teardown(sessionID)
	})
}

func (r *SessionRegistry) teardown(sessionID string) {
	r.Publish(sessionID, domain.NewEvent(domain.EventClose, "Search session ended", nil))

	r.mu.Lock()
	s, ok := r.sessions[sessionID]
	if ok {
		delete(r.sessions, sessionID)
	}
	r.mu.Unlock()
	if !ok {
		return
	}

	s.mu.Lock()
	for id, ch := range s.subscribers {
		delete(s.subscribers, id)
		close(ch)
	}
	s.mu.Unlock()

	logger.Debug("Session %s torn down", sessionID)
}

// Len reports the number of live sessions.
func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
