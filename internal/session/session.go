package session

import (
	"context"
	"sync"

	kerrors "github.com/fracturedkey/fractured/internal/errors"
	"github.com/fracturedkey/fractured/internal/secrets"
)

// Class identifies a kind of operation. The manager admits at most one
// running session per class at a time.
type Class string

const (
	ClassEncrypt       Class = "encrypt"
	ClassDecrypt       Class = "decrypt"
	ClassManualDecrypt Class = "manual-decrypt"
)

// State is the lifecycle position of a session.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the terminal result of a session. Err is nil exactly when
// State is StateSucceeded.
type Outcome struct {
	State State
	Err   error
}

// Manager tracks in-flight sessions and enforces the one-per-class rule.
type Manager struct {
	mu      sync.Mutex
	running map[Class]*Session
}

// NewManager returns a manager with no sessions in flight.
func NewManager() *Manager {
	return &Manager{running: make(map[Class]*Session)}
}

// Session is a single run of an operation: it owns a background
// goroutine, the buffers guarded for wiping, and the terminal outcome.
type Session struct {
	class   Class
	manager *Manager

	mu      sync.Mutex
	state   State
	guarded [][]byte
	outcome Outcome

	done chan struct{}
}

// Begin starts task in a background goroutine and returns its session.
// It fails with ErrOperationInFlight when a session of the same class is
// already running. The task receives a background context; a session
// runs to completion once started.
func (m *Manager) Begin(class Class, task func(ctx context.Context) error) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, inFlight := m.running[class]; inFlight {
		return nil, kerrors.ErrOperationInFlight
	}

	s := &Session{
		class:   class,
		manager: m,
		state:   StateRunning,
		done:    make(chan struct{}),
	}
	m.running[class] = s

	go s.run(task)
	return s, nil
}

// InFlight reports whether a session of the given class is running.
func (m *Manager) InFlight(class Class) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, inFlight := m.running[class]
	return inFlight
}

func (m *Manager) release(class Class) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.running, class)
}

func (s *Session) run(task func(ctx context.Context) error) {
	err := task(context.Background())
	s.finish(err)
}

// finish wipes every guarded buffer, records the outcome, and releases
// the class slot. Wiping happens on success and failure alike.
func (s *Session) finish(err error) {
	s.mu.Lock()
	for _, buf := range s.guarded {
		secrets.Wipe(buf)
	}
	s.guarded = nil

	if err != nil {
		s.state = StateFailed
	} else {
		s.state = StateSucceeded
	}
	s.outcome = Outcome{State: s.state, Err: err}
	s.mu.Unlock()

	s.manager.release(s.class)
	close(s.done)
}

// Guard registers buf to be zeroed when the session finishes, whatever
// the outcome. Buffers guarded after completion are wiped immediately.
func (s *Session) Guard(buf []byte) {
	if len(buf) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRunning {
		secrets.Wipe(buf)
		return
	}
	s.guarded = append(s.guarded, buf)
}

// Wait blocks until the session finishes and returns its outcome. It is
// safe to call from multiple goroutines.
func (s *Session) Wait() Outcome {
	<-s.done

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outcome
}

// State returns the session's current lifecycle position.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Class returns the operation kind this session runs.
func (s *Session) Class() Class {
	return s.class
}
