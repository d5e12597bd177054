// Package tracker manages the work session lifecycle and converts worked
// time into earnings. At most one session is active per process; the state
// machine, not a lock, enforces it.
package tracker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"winner/internal/core"
	"winner/internal/log"
	"winner/internal/store"
)

// State is the tracker's lifecycle position.
type State int

const (
	Idle State = iota
	Running
	Paused
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Paused:
		return "paused"
	default:
		return "idle"
	}
}

// RateSource supplies the configured hourly rate. Satisfied by the settings
// service.
type RateSource interface {
	Load(ctx context.Context) (core.UserSettings, error)
}

type Tracker struct {
	repo   store.Repository
	rates  RateSource
	logger *log.Logger
	now    func() time.Time

	mu       sync.Mutex
	sessions []core.WorkSession
	activeID string
	state    State
	anchor   time.Time
	pausedAt time.Time
}

type Option func(*Tracker)

// WithClock replaces the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

func New(repo store.Repository, rates RateSource, logger *log.Logger, opts ...Option) *Tracker {
	t := &Tracker{
		repo:   repo,
		rates:  rates,
		logger: logger.WithComponent(log.ComponentTracker),
		now:    time.Now,
		state:  Idle,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Load fetches every stored session and resumes the most recent
// unterminated one instead of letting a reload spawn a duplicate.
func (t *Tracker) Load(ctx context.Context) error {
	recs, err := t.repo.ListAll(ctx, store.WorkSessions)
	if err != nil {
		return fmt.Errorf("load work sessions: %w", err)
	}
	sessions := make([]core.WorkSession, 0, len(recs))
	for _, r := range recs {
		sessions = append(sessions, store.DecodeWorkSession(r))
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.sessions = sessions
	t.activeID = ""
	t.state = Idle
	var latest time.Time
	for _, s := range t.sessions {
		if !s.Active() {
			continue
		}
		if t.activeID == "" || s.StartTime.After(latest) {
			t.activeID = s.ID
			latest = s.StartTime
		}
	}
	if t.activeID != "" {
		t.state = Running
		t.anchor = latest
		t.logger.InfoContext(ctx, "resumed active work session",
			log.FieldOperation, log.OpLoad,
			log.FieldSessionID, t.activeID)
	}
	return nil
}

// State reports the current lifecycle position.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Sessions returns a copy of the loaded sessions, active one included.
func (t *Tracker) Sessions() []core.WorkSession {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]core.WorkSession(nil), t.sessions...)
}

// Start opens a new session at the current time.
func (t *Tracker) Start(ctx context.Context) (core.WorkSession, error) {
	t.mu.Lock()
	if t.activeID != "" {
		t.mu.Unlock()
		return core.WorkSession{}, core.ErrSessionRunning
	}
	now := t.now()
	t.mu.Unlock()

	session := core.WorkSession{StartTime: now}
	id, err := t.repo.Create(ctx, store.WorkSessions, store.EncodeWorkSession(session))
	if err != nil {
		return core.WorkSession{}, err
	}
	session.ID = id

	t.mu.Lock()
	t.sessions = append(t.sessions, session)
	t.activeID = id
	t.state = Running
	t.anchor = now
	t.mu.Unlock()

	t.logger.InfoContext(ctx, "work session started",
		log.FieldOperation, log.OpStart,
		log.FieldSessionID, id)
	return session, nil
}

// Pause freezes the displayed elapsed counter. Nothing is persisted; the
// authoritative break accounting happens at Stop.
func (t *Tracker) Pause() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != Running {
		return core.ErrSessionNotRunning
	}
	t.pausedAt = t.now()
	t.state = Paused
	return nil
}

// Resume un-freezes the counter, moving the display anchor forward by the
// paused duration so the pause window is excluded from the display.
func (t *Tracker) Resume() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != Paused {
		return core.ErrSessionNotRunning
	}
	t.anchor = t.anchor.Add(t.now().Sub(t.pausedAt))
	t.state = Running
	return nil
}

// Elapsed returns the displayed elapsed seconds for the active session.
func (t *Tracker) Elapsed() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch t.state {
	case Running:
		return t.now().Sub(t.anchor).Seconds()
	case Paused:
		return t.pausedAt.Sub(t.anchor).Seconds()
	default:
		return 0
	}
}

// Stop finalizes the active session. Worked minutes derive from elapsed
// wall time since the original start minus the supplied break minutes,
// never from display-level pausing, and never go negative.
func (t *Tracker) Stop(ctx context.Context, breakMinutes float64) (core.WorkSession, error) {
	t.mu.Lock()
	if t.activeID == "" {
		t.mu.Unlock()
		return core.WorkSession{}, core.ErrSessionNotRunning
	}
	var session core.WorkSession
	for _, s := range t.sessions {
		if s.ID == t.activeID {
			session = s
			break
		}
	}
	now := t.now()
	t.mu.Unlock()

	if breakMinutes < 0 {
		breakMinutes = 0
	}
	settings, err := t.rates.Load(ctx)
	if err != nil {
		return core.WorkSession{}, err
	}

	workedMinutes := now.Sub(session.StartTime).Minutes() - breakMinutes
	if workedMinutes < 0 {
		workedMinutes = 0
	}
	session.EndTime = now
	session.TotalMinutes = core.Round2(workedMinutes)
	session.BreakMinutes = breakMinutes
	session.HourlyRate = settings.HourlyRate
	session.Earning = core.Round2(session.TotalMinutes / 60 * settings.HourlyRate)

	if err := t.repo.Update(ctx, store.WorkSessions, session.ID, store.EncodeWorkSession(session)); err != nil {
		return core.WorkSession{}, err
	}

	t.mu.Lock()
	for i := range t.sessions {
		if t.sessions[i].ID == session.ID {
			t.sessions[i] = session
		}
	}
	t.activeID = ""
	t.state = Idle
	t.mu.Unlock()

	t.logger.InfoContext(ctx, "work session stopped",
		log.FieldOperation, log.OpStop,
		log.FieldSessionID, session.ID,
		log.FieldAmount, session.Earning)
	return session, nil
}

// EditSession recomputes a finished session from user-supplied start,
// finish and break values. Earnings are recomputed from the current
// configured rate.
func (t *Tracker) EditSession(ctx context.Context, id string, start, finish time.Time, breakMinutes float64) (core.WorkSession, error) {
	if !finish.After(start) {
		return core.WorkSession{}, core.ErrFinishBeforeStart
	}
	if breakMinutes < 0 {
		breakMinutes = 0
	}
	settings, err := t.rates.Load(ctx)
	if err != nil {
		return core.WorkSession{}, err
	}

	workedMinutes := finish.Sub(start).Minutes() - breakMinutes
	if workedMinutes < 0 {
		workedMinutes = 0
	}
	session := core.WorkSession{
		ID:           id,
		StartTime:    start,
		EndTime:      finish,
		TotalMinutes: core.Round2(workedMinutes),
		BreakMinutes: breakMinutes,
		HourlyRate:   settings.HourlyRate,
	}
	session.Earning = core.Round2(session.TotalMinutes / 60 * settings.HourlyRate)

	if err := t.repo.Update(ctx, store.WorkSessions, id, store.EncodeWorkSession(session)); err != nil {
		return core.WorkSession{}, err
	}

	t.mu.Lock()
	for i := range t.sessions {
		if t.sessions[i].ID == id {
			t.sessions[i] = session
		}
	}
	t.mu.Unlock()

	t.logger.InfoContext(ctx, "work session edited",
		log.FieldOperation, log.OpUpdate,
		log.FieldSessionID, id)
	return session, nil
}

// DeleteSession removes a stored session.
func (t *Tracker) DeleteSession(ctx context.Context, id string) error {
	if err := t.repo.Delete(ctx, store.WorkSessions, id); err != nil {
		return err
	}
	t.mu.Lock()
	kept := t.sessions[:0]
	for _, s := range t.sessions {
		if s.ID == id {
			if t.activeID == id {
				t.activeID = ""
				t.state = Idle
			}
			continue
		}
		kept = append(kept, s)
	}
	t.sessions = kept
	t.mu.Unlock()

	t.logger.InfoContext(ctx, "work session deleted",
		log.FieldOperation, log.OpDelete,
		log.FieldSessionID, id)
	return nil
}
