package session

import (
	"context"
	"errors"
	"testing"
	"time"

	kerrors "github.com/fracturedkey/fractured/internal/errors"
)

func TestBeginWait_Succeeds(t *testing.T) {
	manager := NewManager()

	s, err := manager.Begin(ClassEncrypt, func(ctx context.Context) error {
		return nil
	})
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}

	outcome := s.Wait()
	if outcome.State != StateSucceeded {
		t.Errorf("Expected state %v, got %v", StateSucceeded, outcome.State)
	}
	if outcome.Err != nil {
		t.Errorf("Expected nil error, got %v", outcome.Err)
	}
	if s.State() != StateSucceeded {
		t.Errorf("Expected session state succeeded after Wait, got %v", s.State())
	}
}

func TestBeginWait_Fails(t *testing.T) {
	manager := NewManager()
	taskErr := errors.New("carrier gone")

	s, err := manager.Begin(ClassDecrypt, func(ctx context.Context) error {
		return taskErr
	})
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}

	outcome := s.Wait()
	if outcome.State != StateFailed {
		t.Errorf("Expected state %v, got %v", StateFailed, outcome.State)
	}
	if !errors.Is(outcome.Err, taskErr) {
		t.Errorf("Expected task error, got %v", outcome.Err)
	}
}

func TestBegin_RejectsSecondOfSameClass(t *testing.T) {
	manager := NewManager()
	block := make(chan struct{})

	first, err := manager.Begin(ClassEncrypt, func(ctx context.Context) error {
		<-block
		return nil
	})
	if err != nil {
		t.Fatalf("First Begin failed: %v", err)
	}

	if _, err := manager.Begin(ClassEncrypt, func(ctx context.Context) error { return nil }); !errors.Is(err, kerrors.ErrOperationInFlight) {
		t.Errorf("Expected ErrOperationInFlight, got %v", err)
	}

	close(block)
	first.Wait()

	second, err := manager.Begin(ClassEncrypt, func(ctx context.Context) error { return nil })
	if err != nil {
		t.Fatalf("Begin after completion failed: %v", err)
	}
	second.Wait()
}

func TestBegin_DifferentClassesRunConcurrently(t *testing.T) {
	manager := NewManager()
	block := make(chan struct{})

	encrypting, err := manager.Begin(ClassEncrypt, func(ctx context.Context) error {
		<-block
		return nil
	})
	if err != nil {
		t.Fatalf("Encrypt Begin failed: %v", err)
	}

	decrypting, err := manager.Begin(ClassDecrypt, func(ctx context.Context) error { return nil })
	if err != nil {
		t.Fatalf("Expected a decrypt to start while an encrypt runs, got %v", err)
	}
	decrypting.Wait()

	if !manager.InFlight(ClassEncrypt) {
		t.Errorf("Expected the encrypt session to still be in flight")
	}

	close(block)
	encrypting.Wait()

	if manager.InFlight(ClassEncrypt) {
		t.Errorf("Expected the encrypt slot to be released after completion")
	}
}

func TestGuard_WipesOnSuccess(t *testing.T) {
	manager := NewManager()
	password := []byte("hunter2")
	started := make(chan *Session, 1)

	s, err := manager.Begin(ClassEncrypt, func(ctx context.Context) error {
		session := <-started
		session.Guard(password)
		return nil
	})
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	started <- s

	s.Wait()
	assertZeroed(t, password)
}

func TestGuard_WipesOnFailure(t *testing.T) {
	manager := NewManager()
	master := []byte("correct-horse-battery-staple")
	started := make(chan *Session, 1)

	s, err := manager.Begin(ClassDecrypt, func(ctx context.Context) error {
		session := <-started
		session.Guard(master)
		return errors.New("authentication failed")
	})
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	started <- s

	outcome := s.Wait()
	if outcome.State != StateFailed {
		t.Fatalf("Expected the session to fail, got %v", outcome.State)
	}
	assertZeroed(t, master)
}

func TestGuard_AfterCompletionWipesImmediately(t *testing.T) {
	manager := NewManager()

	s, err := manager.Begin(ClassEncrypt, func(ctx context.Context) error { return nil })
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	s.Wait()

	late := []byte("late-buffer")
	s.Guard(late)
	assertZeroed(t, late)
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateIdle, "idle"},
		{StateRunning, "running"},
		{StateSucceeded, "succeeded"},
		{StateFailed, "failed"},
		{State(42), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String(): expected %q, got %q", tt.state, tt.want, got)
		}
	}
}

func TestWait_MultipleWaiters(t *testing.T) {
	manager := NewManager()

	s, err := manager.Begin(ClassManualDecrypt, func(ctx context.Context) error {
		time.Sleep(10 * time.Millisecond)
		return nil
	})
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}

	results := make(chan Outcome, 2)
	for i := 0; i < 2; i++ {
		go func() { results <- s.Wait() }()
	}

	for i := 0; i < 2; i++ {
		if outcome := <-results; outcome.State != StateSucceeded {
			t.Errorf("Waiter %d: expected succeeded, got %v", i, outcome.State)
		}
	}
}

func assertZeroed(t *testing.T, buf []byte) {
	t.Helper()
	for i, b := range buf {
		if b != 0 {
			t.Fatalf("Byte %d of guarded buffer not wiped: %#x", i, b)
		}
	}
}
