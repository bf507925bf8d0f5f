package quiz

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/j0lvera/modebot/internal/errs"
)

// Step is a question ready to be presented.
type Step struct {
	Question Question
	Index    int // zero-based
	Total    int
}

// Outcome is the result of one submitted answer. Next is nil once the quiz is
// finished, in which case Score and Total hold the final result.
type Outcome struct {
	Correct  bool
	Answer   Question // the question that was just answered
	Next     *Step
	Finished bool
	Score    int
	Total    int
}

// session is one user's quiz progress.
type session struct {
	mu         sync.Mutex
	questions  []Question
	index      int
	score      int
	lastActive time.Time
	closed     bool
}

func (s *session) step() Step {
	return Step{
		Question: s.questions[s.index],
		Index:    s.index,
		Total:    len(s.questions),
	}
}

// Machine tracks quiz sessions keyed by user ID.
//
// Lock order is session.mu before Machine.mu; paths that only need the map
// release Machine.mu before touching a session.
type Machine struct {
	mu       sync.Mutex
	sessions map[int64]*session

	idleTimeout time.Duration
	now         func() time.Time
	logger      *zerolog.Logger
}

// Option configures a Machine.
type Option func(*Machine)

// WithIdleTimeout evicts sessions untouched for longer than d. Zero disables eviction.
func WithIdleTimeout(d time.Duration) Option {
	return func(m *Machine) {
		m.idleTimeout = d
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) {
		m.now = now
	}
}

// WithLogger sets the logger used for session events.
func WithLogger(logger *zerolog.Logger) Option {
	return func(m *Machine) {
		m.logger = logger
	}
}

// NewMachine creates a Machine with no sessions.
func NewMachine(opts ...Option) *Machine {
	nop := zerolog.Nop()
	m := &Machine{
		sessions: make(map[int64]*session),
		now:      time.Now,
		logger:   &nop,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start begins a quiz over a copy of bank, replacing any session the user had.
func (m *Machine) Start(userID int64, bank []Question) (Step, error) {
	if len(bank) == 0 {
		return Step{}, ErrEmptyBank
	}
	for i, q := range bank {
		if err := q.Validate(); err != nil {
			return Step{}, fmt.Errorf("question %d: %w", i+1, err)
		}
	}

	questions := make([]Question, len(bank))
	for i, q := range bank {
		q.Options = append([]string(nil), q.Options...)
		questions[i] = q
	}

	s := &session{
		questions:  questions,
		lastActive: m.now(),
	}
	first := s.step()

	m.mu.Lock()
	prev := m.sessions[userID]
	m.sessions[userID] = s
	m.mu.Unlock()

	if prev != nil {
		prev.mu.Lock()
		prev.closed = true
		prev.mu.Unlock()
		m.logger.Debug().Int64("user_id", userID).Msg("quiz restarted, previous session dropped")
	}

	m.logger.Info().Int64("user_id", userID).Int("questions", len(questions)).Msg("quiz started")

	return first, nil
}

// Submit answers question index with the zero-based option. index must be the
// session's current question; an answer meant for any other question is
// rejected with errs.ErrStaleAnswer and leaves the session as it was.
func (m *Machine) Submit(userID int64, index, option int) (Outcome, error) {
	m.mu.Lock()
	s := m.sessions[userID]
	m.mu.Unlock()

	if s == nil {
		return Outcome{}, errs.ErrNoActiveSession
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Outcome{}, errs.ErrNoActiveSession
	}

	now := m.now()
	if m.idle(s, now) {
		m.close(userID, s)
		m.logger.Info().Int64("user_id", userID).Msg("quiz session expired")
		return Outcome{}, errs.ErrNoActiveSession
	}

	if index != s.index {
		return Outcome{}, fmt.Errorf("%w: answer for question %d, current is %d", errs.ErrStaleAnswer, index, s.index)
	}

	current := s.questions[s.index]
	if option < 0 || option >= len(current.Options) {
		return Outcome{}, fmt.Errorf("%w: %d not in [0, %d)", errs.ErrInvalidOption, option, len(current.Options))
	}

	out := Outcome{
		Correct: option == current.Correct,
		Answer:  current,
	}
	if out.Correct {
		s.score++
	}
	s.index++
	s.lastActive = now

	if s.index == len(s.questions) {
		m.close(userID, s)
		out.Finished = true
		out.Score = s.score
		out.Total = len(s.questions)

		m.logger.Info().
			Int64("user_id", userID).
			Int("score", out.Score).
			Int("total", out.Total).
			Msg("quiz finished")

		return out, nil
	}

	next := s.step()
	out.Next = &next
	out.Score = s.score
	out.Total = len(s.questions)

	return out, nil
}

// Exit drops the user's session, if any.
func (m *Machine) Exit(userID int64) {
	m.mu.Lock()
	s := m.sessions[userID]
	delete(m.sessions, userID)
	m.mu.Unlock()

	if s == nil {
		return
	}

	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	m.logger.Info().Int64("user_id", userID).Msg("quiz exited")
}

// Progress reports the user's current index and score.
func (m *Machine) Progress(userID int64) (index, score int, ok bool) {
	m.mu.Lock()
	s := m.sessions[userID]
	m.mu.Unlock()

	if s == nil {
		return 0, 0, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, 0, false
	}
	return s.index, s.score, true
}

// Active reports whether the user has a session.
func (m *Machine) Active(userID int64) bool {
	_, _, ok := m.Progress(userID)
	return ok
}

// Len returns the number of sessions held.
func (m *Machine) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep removes sessions idle at now and returns how many were removed.
func (m *Machine) Sweep(now time.Time) int {
	if m.idleTimeout <= 0 {
		return 0
	}

	m.mu.Lock()
	candidates := make(map[int64]*session, len(m.sessions))
	for id, s := range m.sessions {
		candidates[id] = s
	}
	m.mu.Unlock()

	removed := 0
	for id, s := range candidates {
		s.mu.Lock()
		if !s.closed && m.idle(s, now) {
			m.close(id, s)
			removed++
		}
		s.mu.Unlock()
	}

	if removed > 0 {
		m.logger.Info().Int("removed", removed).Msg("idle quiz sessions evicted")
	}

	return removed
}

func (m *Machine) idle(s *session, now time.Time) bool {
	return m.idleTimeout > 0 && now.Sub(s.lastActive) > m.idleTimeout
}

// close marks s closed and removes it from the map if it is still the user's
// session. s.mu must be held.
func (m *Machine) close(userID int64, s *session) {
	s.closed = true

	m.mu.Lock()
	if m.sessions[userID] == s {
		delete(m.sessions, userID)
	}
	m.mu.Unlock()
}
