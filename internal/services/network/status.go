// Package network tracks whether the task backend is reachable.
package network

import (
	"context"
	"log/slog"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Pinger checks backend liveness
type Pinger interface {
	Health(ctx context.Context) error
}

// StatusChecker monitors backend connectivity status
type StatusChecker struct {
	mu        sync.RWMutex
	isOnline  bool
	lastCheck time.Time
	lastErr   error

	pinger  Pinger
	timeout time.Duration
	logger  *slog.Logger
}

// StatusMsg reports the result of a connectivity check
type StatusMsg struct {
	Online bool
	Err    error
}

// tickMsg schedules the next poll
type tickMsg struct{}

// NewStatusChecker creates a new backend status checker
func NewStatusChecker(pinger Pinger, timeout time.Duration, logger *slog.Logger) *StatusChecker {
	return &StatusChecker{
		isOnline: true, // Optimistically assume online
		pinger:   pinger,
		timeout:  timeout,
		logger:   logger,
	}
}

// Check pings the backend once.
// Returns true if online, false if offline
func (s *StatusChecker) Check(ctx context.Context) bool {
	err := s.pinger.Health(ctx)
	if err != nil {
		s.logger.Debug("health check failed", "error", err)
	}
	s.set(err == nil, err)
	return err == nil
}

// IsOnline returns the cached online status
func (s *StatusChecker) IsOnline() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isOnline
}

// LastCheck returns the time of the last connectivity check
func (s *StatusChecker) LastCheck() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastCheck
}

// LastError returns the error of the last failed check
func (s *StatusChecker) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *StatusChecker) set(online bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isOnline = online
	s.lastErr = err
	s.lastCheck = time.Now()
}

// CheckCmd returns a tea.Cmd that performs a one-time connectivity check
func (s *StatusChecker) CheckCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		online := s.Check(ctx)
		return StatusMsg{Online: online, Err: s.LastError()}
	}
}

// PollCmd waits interval and then checks again. Feed its StatusMsg back into
// PollCmd to keep polling.
func (s *StatusChecker) PollCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// HandleTick turns a poll tick into a check; other messages return nil
func (s *StatusChecker) HandleTick(msg tea.Msg) tea.Cmd {
	if _, ok := msg.(tickMsg); ok {
		return s.CheckCmd()
	}
	return nil
}
