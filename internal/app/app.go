// Package app is the composition root's application state: one controller
// owning the ledger, tracker and settings, plus the refresh flow that turns
// raw records into the dashboard numbers.
package app

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"winner/internal/core"
	"winner/internal/engine"
	"winner/internal/ledger"
	"winner/internal/log"
	"winner/internal/settings"
	"winner/internal/store"
	"winner/internal/tracker"
)

type App struct {
	Ledger   *ledger.Ledger
	Tracker  *tracker.Tracker
	Settings *settings.Service

	repo         store.Repository
	logger       *log.Logger
	readyTimeout time.Duration
	now          func() time.Time
}

type Option func(*App)

// WithReadyTimeout caps the startup store readiness wait.
func WithReadyTimeout(d time.Duration) Option {
	return func(a *App) { a.readyTimeout = d }
}

// WithClock replaces the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(a *App) { a.now = now }
}

func New(repo store.Repository, l *ledger.Ledger, t *tracker.Tracker, s *settings.Service, logger *log.Logger, opts ...Option) *App {
	a := &App{
		Ledger:   l,
		Tracker:  t,
		Settings: s,
		repo:     repo,
		logger:   logger.WithComponent(log.ComponentApp),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Init gates online features behind a single bounded readiness check. When
// the store is reachable the working sets load concurrently and the
// recurring-bill links are repaired; when it is not, the ledger serves the
// local mirror snapshot and the process runs read-only until a later
// successful refresh.
func (a *App) Init(ctx context.Context) error {
	if err := store.WaitReady(ctx, a.repo, a.readyTimeout); err != nil {
		a.logger.WarnContext(ctx, "store not ready, falling back to mirror",
			log.FieldOperation, log.OpStartup,
			log.FieldError, err.Error())
		return a.Ledger.LoadFromMirror(ctx)
	}

	if err := a.load(ctx); err != nil {
		return err
	}
	repaired, err := a.Ledger.RepairInvariants(ctx)
	if err != nil {
		a.logger.WarnContext(ctx, "invariant repair incomplete",
			log.FieldOperation, log.OpRepair,
			log.FieldError, err.Error())
	}
	if repaired > 0 {
		a.logger.InfoContext(ctx, "recurring bill links repaired",
			log.FieldOperation, log.OpRepair,
			log.FieldCount, repaired)
	}
	return nil
}

func (a *App) load(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.Ledger.Load(gctx) })
	g.Go(func() error { return a.Tracker.Load(gctx) })
	return g.Wait()
}

// Refresh reloads the working sets and recomputes the dashboard. Reloads
// are idempotent; concurrent calls converge to the same normalized state.
// While the ledger is serving the mirror snapshot the reload doubles as a
// reconnect attempt: on success the ledger returns to online mode, otherwise
// the dashboard degrades to the snapshot numbers instead of failing.
func (a *App) Refresh(ctx context.Context) (engine.Derived, error) {
	if err := a.load(ctx); err != nil {
		if a.Ledger.Offline() {
			a.logger.WarnContext(ctx, "store still unreachable, deriving from mirror snapshot",
				log.FieldOperation, log.OpLoad,
				log.FieldError, err.Error())
			return a.offlineDashboard(), nil
		}
		return engine.Derived{}, err
	}
	return a.Dashboard(ctx)
}

// Dashboard derives the current numbers from the already-loaded state. In
// mirror-fallback mode the settings and session history live behind the
// unreachable store, so earnings, savings and pace read as zero and the
// spending aggregates come from the snapshot alone.
func (a *App) Dashboard(ctx context.Context) (engine.Derived, error) {
	if a.Ledger.Offline() {
		return a.offlineDashboard(), nil
	}

	userSettings, err := a.Settings.Load(ctx)
	if err != nil {
		return engine.Derived{}, err
	}
	pace, err := a.Tracker.PaceProjection(ctx)
	if err != nil {
		return engine.Derived{}, err
	}

	monthKey := core.MonthKey(a.now())
	biggest, biggestTotal := a.Ledger.BiggestCategory(monthKey)
	return engine.Derive(engine.Inputs{
		TodayEarnings:          a.Tracker.TodayEarnings(),
		WeekEarnings:           a.Tracker.WeekEarnings(),
		MonthlyTotal:           a.Ledger.MonthlyTotal(monthKey),
		MonthlyDirectBillTotal: a.Ledger.MonthlyBillTotal(monthKey),
		RecurringBillsTotal:    a.Ledger.RecurringBillsTotal(),
		SavingsPercent:         userSettings.SavingsPercent,
		CategoryTotals:         a.Ledger.CategoryTotals(monthKey),
		BiggestCategory:        biggest,
		BiggestCategoryTotal:   biggestTotal,
		Pace:                   pace,
	}), nil
}

func (a *App) offlineDashboard() engine.Derived {
	monthKey := core.MonthKey(a.now())
	biggest, biggestTotal := a.Ledger.BiggestCategory(monthKey)
	return engine.Derive(engine.Inputs{
		MonthlyTotal:           a.Ledger.MonthlyTotal(monthKey),
		MonthlyDirectBillTotal: a.Ledger.MonthlyBillTotal(monthKey),
		RecurringBillsTotal:    a.Ledger.RecurringBillsTotal(),
		CategoryTotals:         a.Ledger.CategoryTotals(monthKey),
		BiggestCategory:        biggest,
		BiggestCategoryTotal:   biggestTotal,
	})
}
