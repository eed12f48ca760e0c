// Package ledger tracks which availability runs have already been notified,
// as a durable set of notification keys.
package ledger

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/nimrod29/padel-bot/internal/availability"
)

// Store is the durable backing for a Ledger. Load returns every stored key;
// Save replaces the stored set wholesale.
type Store interface {
	Load(ctx context.Context) ([]string, error)
	Save(ctx context.Context, keys []string) error
}

// Ledger is the in-memory notification set plus its store handle. It is
// owned and mutated by a single monitor loop; no locking inside.
type Ledger struct {
	store Store
	log   *zap.Logger
	keys  map[string]struct{}
}

// Load builds a Ledger from the store. A missing or unreadable store is not
// fatal: the ledger starts empty and the problem is logged. Worst case the
// watcher re-sends notifications it already sent once.
func Load(ctx context.Context, store Store, log *zap.Logger) *Ledger {
	l := &Ledger{store: store, log: log, keys: make(map[string]struct{})}
	keys, err := store.Load(ctx)
	if err != nil {
		log.Error("loading notification history failed, starting empty", zap.Error(err))
		return l
	}
	for _, k := range keys {
		l.keys[k] = struct{}{}
	}
	log.Info("loaded notification history", zap.Int("keys", len(l.keys)))
	return l
}

func (l *Ledger) Contains(key string) bool {
	_, ok := l.keys[key]
	return ok
}

func (l *Ledger) Add(key string)    { l.keys[key] = struct{}{} }
func (l *Ledger) Remove(key string) { delete(l.keys, key) }
func (l *Ledger) Len() int          { return len(l.keys) }

// Persist writes the full key set to the store. On failure the in-memory
// state is left untouched so the next mutation can retry the write.
func (l *Ledger) Persist(ctx context.Context) error {
	keys := make([]string, 0, len(l.keys))
	for k := range l.keys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if err := l.store.Save(ctx, keys); err != nil {
		l.log.Error("persisting notification history failed", zap.Error(err))
		return err
	}
	l.log.Debug("persisted notification history", zap.Int("keys", len(keys)))
	return nil
}

// Prune drops keys whose embedded date is strictly before cutoff and returns
// how many were removed. Keys without a parseable date segment are kept:
// state we cannot interpret is never silently deleted.
func (l *Ledger) Prune(cutoff time.Time) int {
	removed := 0
	for k := range l.keys {
		d, ok := availability.KeyDate(k)
		if !ok {
			continue
		}
		if d.Before(cutoff) {
			delete(l.keys, k)
			removed++
		}
	}
	return removed
}
