// Package monitor drives the watch loop: fetch availability, detect runs,
// filter against the notification ledger, notify, persist.
package monitor

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/nimrod29/padel-bot/internal/availability"
	"github.com/nimrod29/padel-bot/internal/ledger"
	"github.com/nimrod29/padel-bot/internal/notify"
)

// Target is one (provider, configured resource) pair to watch. ResourceID is
// what the provider is asked about (a facility or club); the provider may
// report finer-grained resources (individual courts) inside it.
type Target struct {
	Provider   availability.Provider
	ResourceID string
	Name       string
}

type Options struct {
	Window     availability.TimeWindow
	Thresholds availability.Thresholds

	CheckInterval time.Duration
	DaysAhead     int
	PairDelay     time.Duration
	CrashCooldown time.Duration

	PruneSpec     string // cron spec, e.g. "0 6 * * *"
	RetentionDays int
}

// Monitor owns the ledger and runs the sweep. Single goroutine: the cron
// entry only raises a flag, all ledger mutation happens on the loop.
type Monitor struct {
	targets  []Target
	notifier notify.Notifier
	ledger   *ledger.Ledger
	log      *zap.Logger
	opts     Options

	detect   availability.DetectFunc
	now      func() time.Time
	pruneDue atomic.Bool
}

func New(targets []Target, notifier notify.Notifier, led *ledger.Ledger, log *zap.Logger, opts Options) *Monitor {
	// A sweep always covers at least today.
	if opts.DaysAhead < 1 {
		opts.DaysAhead = 1
	}
	return &Monitor{
		targets:  targets,
		notifier: notifier,
		ledger:   led,
		log:      log,
		opts:     opts,
		detect:   availability.FindRuns,
		now:      time.Now,
	}
}

// Run watches continuously until ctx is cancelled. Provider and notifier
// failures are reported and survived; a defect in a sweep is caught,
// reported, and followed by a cooldown rather than a crash.
func (m *Monitor) Run(ctx context.Context) error {
	m.log.Info("starting continuous monitoring",
		zap.Int("targets", len(m.targets)),
		zap.Int("days_ahead", m.opts.DaysAhead),
		zap.Duration("interval", m.opts.CheckInterval))

	if err := m.notifier.Send(ctx, m.startupMessage()); err != nil {
		m.log.Warn("startup notification failed", zap.Error(err))
	}

	cr := cron.New()
	if _, err := cr.AddFunc(m.opts.PruneSpec, func() { m.pruneDue.Store(true) }); err != nil {
		return fmt.Errorf("invalid prune spec %q: %w", m.opts.PruneSpec, err)
	}
	cr.Start()
	defer cr.Stop()

	for {
		if err := ctx.Err(); err != nil {
			m.shutdown()
			return err
		}

		if recovered := m.sweepRecovering(ctx); recovered != nil {
			m.log.Error("monitoring cycle failed", zap.Any("panic", recovered))
			m.reportError(ctx, fmt.Sprintf("Monitoring error: %v", recovered))
			if !m.wait(ctx, m.opts.CrashCooldown) {
				m.shutdown()
				return ctx.Err()
			}
			continue
		}

		if m.pruneDue.CompareAndSwap(true, false) {
			m.pruneLedger(ctx)
		}

		m.log.Info("cycle complete, sleeping", zap.Duration("interval", m.opts.CheckInterval))
		if !m.wait(ctx, m.opts.CheckInterval) {
			m.shutdown()
			return ctx.Err()
		}
	}
}

// RunOnce performs one full sweep and returns how many (resource, date)
// pairs produced a notification. dateOverride narrows the sweep to a single
// date when non-empty.
func (m *Monitor) RunOnce(ctx context.Context, dateOverride string) int {
	return m.sweep(ctx, dateOverride)
}

func (m *Monitor) sweepRecovering(ctx context.Context) (recovered any) {
	defer func() { recovered = recover() }()
	notified := m.sweep(ctx, "")
	if notified > 0 {
		m.log.Info("sent notifications", zap.Int("pairs", notified))
	} else {
		m.log.Info("no new availability found")
	}
	return nil
}

func (m *Monitor) sweep(ctx context.Context, dateOverride string) int {
	dates := m.dates(dateOverride)
	m.log.Info("checking dates",
		zap.String("from", dates[0]), zap.String("to", dates[len(dates)-1]))

	notified := 0
	for _, date := range dates {
		for _, t := range m.targets {
			if ctx.Err() != nil {
				return notified
			}
			if m.checkTarget(ctx, t, date) {
				notified++
			}
			if !m.wait(ctx, m.opts.PairDelay) {
				return notified
			}
		}
	}
	return notified
}

// checkTarget runs the full pipeline for one (target, date) pair and reports
// whether a notification went out. Failures never propagate: a provider or
// notifier error is logged, forwarded to the operator channel, and the sweep
// moves on.
func (m *Monitor) checkTarget(ctx context.Context, t Target, date string) bool {
	log := m.log.With(
		zap.String("provider", t.Provider.Name()),
		zap.String("resource", t.ResourceID),
		zap.String("date", date))
	log.Info("checking availability", zap.String("name", t.Name))

	slots, err := t.Provider.FetchSlots(ctx, t.ResourceID, date)
	if err != nil {
		log.Error("fetch failed", zap.Error(err))
		m.reportError(ctx, fmt.Sprintf("Error checking %s (%s) on %s: %v", t.Name, t.ResourceID, date, err))
		return false
	}
	if len(slots) == 0 {
		log.Debug("no slots in payload")
		return false
	}

	runs := availability.DetectTiered(m.detect, slots, m.opts.Window, m.opts.Thresholds)
	if len(runs) == 0 {
		log.Debug("no qualifying runs")
		return false
	}

	var newRuns []availability.Run
	var newKeys []string
	for _, r := range runs {
		key := availability.RunKey(t.Provider.Name(), t.ResourceID, date, r)
		if m.ledger.Contains(key) {
			continue
		}
		newRuns = append(newRuns, r)
		newKeys = append(newKeys, key)
	}
	if len(newRuns) == 0 {
		log.Debug("all runs already notified")
		return false
	}
	log.Info("found new availability", zap.Int("runs", len(newRuns)))

	// Keys go in before the send so a crash between send and persist errs
	// toward suppression, not duplicate notifications. A failed send rolls
	// them back and persists the rollback so the next cycle retries.
	for _, key := range newKeys {
		m.ledger.Add(key)
	}
	if err := m.notifier.Send(ctx, m.availabilityMessage(t, date, newRuns)); err != nil {
		log.Warn("notification failed, rolling back keys", zap.Error(err))
		for _, key := range newKeys {
			m.ledger.Remove(key)
		}
		m.persist(ctx)
		return false
	}
	m.persist(ctx)
	log.Info("notification sent")
	return true
}

func (m *Monitor) pruneLedger(ctx context.Context) {
	cutoff := m.now().AddDate(0, 0, -m.opts.RetentionDays)
	cutoff = time.Date(cutoff.Year(), cutoff.Month(), cutoff.Day(), 0, 0, 0, 0, time.UTC)
	if removed := m.ledger.Prune(cutoff); removed > 0 {
		m.log.Info("pruned notification history",
			zap.Int("removed", removed), zap.Time("cutoff", cutoff))
		m.persist(ctx)
	}
}

// persist flushes the ledger; a store failure has already been logged and
// the in-memory set is intact, so the next mutation retries.
func (m *Monitor) persist(ctx context.Context) {
	_ = m.ledger.Persist(ctx)
}

// reportError forwards an operational error to the notifier, best effort.
func (m *Monitor) reportError(ctx context.Context, msg string) {
	if err := m.notifier.SendError(ctx, msg); err != nil {
		m.log.Warn("error notification failed", zap.Error(err))
	}
}

func (m *Monitor) shutdown() {
	// The loop context is gone; give the farewell message its own deadline.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := m.notifier.Send(ctx, shutdownMessage); err != nil {
		m.log.Warn("shutdown notification failed", zap.Error(err))
	}
	m.log.Info("monitoring stopped")
}

// dates returns the sweep's date list: the override alone, or today through
// today+DaysAhead-1.
func (m *Monitor) dates(override string) []string {
	if override != "" {
		return []string{override}
	}
	start := m.now()
	out := make([]string, 0, m.opts.DaysAhead)
	for i := 0; i < m.opts.DaysAhead; i++ {
		out = append(out, start.AddDate(0, 0, i).Format("2006-01-02"))
	}
	return out
}

// wait sleeps for d unless the context ends first; reports whether the full
// wait elapsed.
func (m *Monitor) wait(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
