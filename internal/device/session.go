package device

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/roach88/pulseseq/internal/ir"
)

// ErrClosed is returned by a Session after Close.
var ErrClosed = errors.New("session closed")

// Session serializes access to one pulse programmer. A load and the run it
// starts belong to whoever holds the session; concurrent callers wait.
//
// Thread-safety: Session is safe for concurrent use.
type Session struct {
	mu      sync.Mutex
	p       PulseProgrammer
	logger  *slog.Logger
	running bool
	closed  bool
}

// NewSession takes ownership of p. A nil logger uses slog.Default().
func NewSession(p PulseProgrammer, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{p: p, logger: logger}
}

// Run stops any program currently running, loads instrs and starts them.
func (s *Session) Run(ctx context.Context, instrs []ir.Instruction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if s.running {
		if err := s.p.Stop(ctx); err != nil {
			return fmt.Errorf("stop previous program: %w", err)
		}
		s.running = false
	}

	addrs, err := Load(ctx, s.p, instrs)
	if err != nil {
		s.logger.Error("program load failed", "instructions", len(instrs), "error", err)
		return err
	}
	s.running = true
	s.logger.Debug("program running", "instructions", len(instrs), "start_addr", addrs[0])
	return nil
}

// Stop halts the running program. Stopping an idle session is a no-op.
func (s *Session) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if !s.running {
		return nil
	}
	if err := s.p.Stop(ctx); err != nil {
		return fmt.Errorf("stop: %w", err)
	}
	s.running = false
	return nil
}

// Running reports whether a program was started and not stopped.
func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Close stops the device if needed and releases it. Close is idempotent.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	if s.running {
		if err := s.p.Stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("stop: %w", err))
		}
		s.running = false
	}
	if err := s.p.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close: %w", err))
	}
	return errors.Join(errs...)
}
