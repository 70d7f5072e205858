package instance

import (
	"cmp"
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"robot-maze-server/config"
	"robot-maze-server/logging"
	"robot-maze-server/metrics"
	"robot-maze-server/pathfinding"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrTooManySessions = errors.New("session limit reached")
)

// subscriberBuffer is how many snapshots a slow subscriber may lag behind
// before ticks are dropped for it.
const subscriberBuffer = 8

type session struct {
	seq         uint64
	state       *InstanceState
	subscribers map[chan Snapshot]struct{}
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithTickInterval sets the update period of Run.
func WithTickInterval(d time.Duration) ManagerOption {
	return func(m *Manager) {
		if d > 0 {
			m.tick = d
		}
	}
}

// WithManagerLogger sets the manager logger, also handed to new instances.
func WithManagerLogger(l *slog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = l
	}
}

// WithMaxSessions caps the number of live sessions. n <= 0 removes the cap.
func WithMaxSessions(n int) ManagerOption {
	return func(m *Manager) {
		m.maxSessions = n
	}
}

// WithMetrics records sessions, searches and finished runs.
func WithMetrics(mt *metrics.Metrics) ManagerOption {
	return func(m *Manager) {
		m.metrics = mt
	}
}

// WithInstanceOptions adds options applied to every created instance.
func WithInstanceOptions(opts ...Option) ManagerOption {
	return func(m *Manager) {
		m.instanceOpts = append(m.instanceOpts, opts...)
	}
}

// Manager owns the live sessions and advances them on a fixed tick.
type Manager struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*session
	nextSeq  uint64

	tick         time.Duration
	maxSessions  int
	logger       *slog.Logger
	metrics      *metrics.Metrics
	instanceOpts []Option
}

// NewManager creates an empty manager.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		sessions:    make(map[uuid.UUID]*session),
		tick:        config.DefaultTickInterval,
		maxSessions: config.DefaultMaxSessions,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = logging.OrDefault(m.logger)
	return m
}

// Create starts a new session holding the built-in level. It fails with
// ErrTooManySessions once the session cap is reached.
func (m *Manager) Create() (*InstanceState, error) {
	if m.Full() {
		return nil, ErrTooManySessions
	}
	opts := []Option{
		WithLogger(m.logger),
		WithPathFinderOptions(pathfindingObserver(m.metrics)...),
		WithStateHook(m.stateHook),
	}
	is := NewInstanceState(append(opts, m.instanceOpts...)...)

	m.mu.Lock()
	// Another Create may have taken the last slot.
	if m.maxSessions > 0 && len(m.sessions) >= m.maxSessions {
		m.mu.Unlock()
		return nil, ErrTooManySessions
	}
	m.nextSeq++
	m.sessions[is.ID] = &session{seq: m.nextSeq, state: is, subscribers: make(map[chan Snapshot]struct{})}
	n := len(m.sessions)
	m.mu.Unlock()

	m.metrics.SetSessions(n)
	m.logger.Info("session created", "session", is.ID.String(), "sessions", n)
	return is, nil
}

// Full reports whether Create would fail with ErrTooManySessions.
func (m *Manager) Full() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.maxSessions > 0 && len(m.sessions) >= m.maxSessions
}

// MaxSessions is the session cap, 0 when there is none.
func (m *Manager) MaxSessions() int {
	return max(m.maxSessions, 0)
}

// Get returns the session with the given ID.
func (m *Manager) Get(id uuid.UUID) (*InstanceState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s.state, nil
}

// GetString parses id and returns the session.
func (m *Manager) GetString(id string) (*InstanceState, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	return m.Get(uid)
}

// Delete removes a session and closes its subscriber channels.
func (m *Manager) Delete(id uuid.UUID) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if !ok {
		m.mu.Unlock()
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	for ch := range s.subscribers {
		close(ch)
	}
	n := len(m.sessions)
	m.mu.Unlock()

	m.metrics.SetSessions(n)
	m.logger.Info("session deleted", "session", id.String())
	return nil
}

// List returns all sessions ordered by creation time.
func (m *Manager) List() []*InstanceState {
	m.mu.RLock()
	sessions := make([]*session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.RUnlock()

	slices.SortFunc(sessions, func(a, b *session) int {
		return cmp.Compare(a.seq, b.seq)
	})
	out := make([]*InstanceState, len(sessions))
	for i, s := range sessions {
		out[i] = s.state
	}
	return out
}

// Len is the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Subscribe returns a channel receiving a snapshot of the session after every
// tick, and a function that cancels the subscription. The channel is closed on
// cancel or when the session is deleted.
func (m *Manager) Subscribe(id uuid.UUID) (<-chan Snapshot, func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, nil, ErrSessionNotFound
	}
	ch := make(chan Snapshot, subscriberBuffer)
	s.subscribers[ch] = struct{}{}

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			if cur, ok := m.sessions[id]; ok {
				if _, subscribed := cur.subscribers[ch]; subscribed {
					delete(cur.subscribers, ch)
					close(ch)
				}
			}
		})
	}
	return ch, cancel, nil
}

// Run advances every session until ctx is done, using the wall-clock time
// elapsed since the previous tick.
func (m *Manager) Run(ctx context.Context) {
	m.logger.Info("simulation loop started", "tick", m.tick)
	ticker := time.NewTicker(m.tick)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			m.logger.Info("simulation loop stopped")
			return
		case now := <-ticker.C:
			m.Tick(now.Sub(last).Seconds())
			last = now
		}
	}
}

// Tick updates every session by dt seconds and publishes snapshots to their
// subscribers.
func (m *Manager) Tick(dt float64) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for id, s := range m.sessions {
		s.state.Update(dt)
		if len(s.subscribers) == 0 {
			continue
		}
		snap := s.state.Snapshot()
		for ch := range s.subscribers {
			select {
			case ch <- snap:
			default:
				m.logger.Warn("subscriber lagging, snapshot dropped", "session", id.String())
			}
		}
	}
}

func (m *Manager) stateHook(from, to GameState) {
	switch to {
	case Complete, Failed:
		m.metrics.RunFinished(to.String())
	}
}

func pathfindingObserver(mt *metrics.Metrics) []pathfinding.Option {
	if mt == nil {
		return nil
	}
	return []pathfinding.Option{pathfinding.WithObserver(mt.ObserveSearch)}
}
