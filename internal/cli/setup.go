package cli

import (
	"context"

	"go.uber.org/zap"

	"github.com/nimrod29/padel-bot/internal/availability"
	"github.com/nimrod29/padel-bot/internal/config"
	"github.com/nimrod29/padel-bot/internal/ledger"
	"github.com/nimrod29/padel-bot/internal/logging"
	"github.com/nimrod29/padel-bot/internal/monitor"
	"github.com/nimrod29/padel-bot/internal/notify"
	"github.com/nimrod29/padel-bot/internal/providers/lazuz"
	"github.com/nimrod29/padel-bot/internal/providers/padelisrael"
)

// buildMonitor assembles the full watcher from config. The returned cleanup
// closes whatever backing resources were opened.
func buildMonitor(ctx context.Context) (*monitor.Monitor, func(), error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, nil, err
	}
	log, err := logging.New(logLevel)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { _ = log.Sync() }

	window, err := availability.ParseWindow(cfg.WindowStart, cfg.WindowEnd)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	var store ledger.Store
	if cfg.DatabaseURL != "" {
		pg, err := ledger.OpenPGStore(ctx, cfg.DatabaseURL)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		store = pg
		prev := cleanup
		cleanup = func() { pg.Close(); prev() }
		log.Info("ledger backed by postgres")
	} else {
		store = ledger.NewFileStore(cfg.LedgerPath)
		log.Info("ledger backed by file", zap.String("path", cfg.LedgerPath))
	}
	led := ledger.Load(ctx, store, log)

	var notifier notify.Notifier
	if cfg.TelegramToken != "" && cfg.TelegramChatID != "" {
		notifier = notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID, log)
	} else {
		log.Warn("telegram not configured, notifications disabled")
		notifier = notify.Nop{}
	}

	m := monitor.New(buildTargets(cfg, log), notifier, led, log, monitor.Options{
		Window:        window,
		Thresholds:    availability.Thresholds{Primary: cfg.MinRunLength, Relaxed: cfg.RelaxedRunLength},
		CheckInterval: cfg.CheckInterval,
		DaysAhead:     cfg.DaysAhead,
		PairDelay:     cfg.PairDelay,
		CrashCooldown: cfg.CrashCooldown,
		PruneSpec:     cfg.PruneSpec,
		RetentionDays: cfg.RetentionDays,
	})
	return m, cleanup, nil
}

func buildTargets(cfg config.Config, log *zap.Logger) []monitor.Target {
	var targets []monitor.Target

	if len(cfg.Facilities) > 0 {
		pi := padelisrael.New(padelisrael.Config{
			BaseURL:   cfg.PadelIsraelBaseURL,
			BasicAuth: cfg.PadelIsraelAuth,
			Token:     cfg.PadelIsraelToken,
		}, log)
		for _, id := range config.SortedIDs(cfg.Facilities) {
			targets = append(targets, monitor.Target{Provider: pi, ResourceID: id, Name: cfg.Facilities[id]})
		}
	}

	if len(cfg.Clubs) > 0 {
		lz := lazuz.New(lazuz.Config{
			BaseURL:       cfg.LazuzBaseURL,
			BearerToken:   cfg.LazuzToken,
			AppCheckToken: cfg.LazuzAppCheck,
		}, log)
		for _, id := range config.SortedIDs(cfg.Clubs) {
			targets = append(targets, monitor.Target{Provider: lz, ResourceID: id, Name: cfg.Clubs[id]})
		}
	}

	return targets
}
