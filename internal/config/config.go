// Package config loads the watcher configuration from the environment, with
// a .env file honored when present.
package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Run detection
	MinRunLength     int    // primary threshold, slots
	RelaxedRunLength int    // fallback threshold, slots
	WindowStart      string // "HH:MM"
	WindowEnd        string // "HH:MM"

	// Scheduling
	CheckInterval time.Duration // between full sweeps
	DaysAhead     int           // dates per sweep, today included
	PairDelay     time.Duration // between (resource, date) checks
	CrashCooldown time.Duration // after a defect in the continuous loop
	PruneSpec     string        // cron spec for the daily ledger prune
	RetentionDays int           // prune keys older than this many days

	// Ledger
	LedgerPath  string
	DatabaseURL string // when set, the ledger lives in postgres instead

	// Telegram
	TelegramToken  string
	TelegramChatID string

	// Padel Israel
	PadelIsraelBaseURL string
	PadelIsraelAuth    string
	PadelIsraelToken   string
	Facilities         map[string]string // id -> display name

	// Lazuz
	LazuzBaseURL  string
	LazuzToken    string
	LazuzAppCheck string
	Clubs         map[string]string // id -> display name
}

var defaultFacilities = map[string]string{
	"654": "Rishon Lezion",
	"540": "Tel Aviv University",
	"652": "Hamacabiah Ramat Gan",
	"653": "Park Kfar Saba",
}

var defaultClubs = map[string]string{
	"215": "House Padel Beit Berl",
}

func FromEnv() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		WindowStart: getenv("MONITOR_START_TIME", "18:00"),
		WindowEnd:   getenv("MONITOR_END_TIME", "23:00"),
		PruneSpec:   getenv("PRUNE_CRON", "0 6 * * *"),
		LedgerPath:  getenv("LEDGER_PATH", "notified_slots.json"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		TelegramToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID: os.Getenv("TELEGRAM_CHAT_ID"),

		PadelIsraelBaseURL: os.Getenv("PADEL_ISRAEL_BASE_URL"),
		PadelIsraelAuth:    os.Getenv("PADEL_ISRAEL_AUTH"),
		PadelIsraelToken:   os.Getenv("PADEL_ISRAEL_TOKEN"),

		LazuzBaseURL:  os.Getenv("LAZUZ_BASE_URL"),
		LazuzToken:    os.Getenv("LAZUZ_TOKEN"),
		LazuzAppCheck: os.Getenv("LAZUZ_APPCHECK"),
	}

	var err error
	if cfg.MinRunLength, err = intenv("MIN_CONSECUTIVE_SPOTS", 3); err != nil {
		return Config{}, err
	}
	if cfg.RelaxedRunLength, err = intenv("ALTERNATIVE_MIN_SPOTS", 2); err != nil {
		return Config{}, err
	}
	if cfg.MinRunLength < 1 || cfg.RelaxedRunLength < 1 || cfg.RelaxedRunLength > cfg.MinRunLength {
		return Config{}, fmt.Errorf("invalid run length thresholds: primary=%d relaxed=%d",
			cfg.MinRunLength, cfg.RelaxedRunLength)
	}

	checkMin, err := intenv("CHECK_INTERVAL_MINUTES", 5)
	if err != nil {
		return Config{}, err
	}
	if checkMin < 1 {
		return Config{}, fmt.Errorf("invalid CHECK_INTERVAL_MINUTES")
	}
	cfg.CheckInterval = time.Duration(checkMin) * time.Minute

	if cfg.DaysAhead, err = intenv("DAYS_AHEAD_TO_CHECK", 7); err != nil {
		return Config{}, err
	}
	if cfg.DaysAhead < 1 {
		return Config{}, fmt.Errorf("invalid DAYS_AHEAD_TO_CHECK")
	}

	pairDelaySec, err := intenv("PAIR_DELAY_SECONDS", 1)
	if err != nil {
		return Config{}, err
	}
	if pairDelaySec < 0 {
		return Config{}, fmt.Errorf("invalid PAIR_DELAY_SECONDS")
	}
	cfg.PairDelay = time.Duration(pairDelaySec) * time.Second

	cooldownSec, err := intenv("CRASH_COOLDOWN_SECONDS", 60)
	if err != nil {
		return Config{}, err
	}
	if cooldownSec < 0 {
		return Config{}, fmt.Errorf("invalid CRASH_COOLDOWN_SECONDS")
	}
	cfg.CrashCooldown = time.Duration(cooldownSec) * time.Second

	if cfg.RetentionDays, err = intenv("LEDGER_RETENTION_DAYS", 1); err != nil {
		return Config{}, err
	}
	if cfg.RetentionDays < 0 {
		return Config{}, fmt.Errorf("invalid LEDGER_RETENTION_DAYS")
	}

	if cfg.Facilities, err = mapenv("PADEL_ISRAEL_FACILITIES", defaultFacilities); err != nil {
		return Config{}, err
	}
	if cfg.Clubs, err = mapenv("LAZUZ_CLUBS", defaultClubs); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// SortedIDs returns map keys in a stable order, so sweeps visit resources
// deterministically.
func SortedIDs(m map[string]string) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func intenv(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", k, err)
	}
	return n, nil
}

// mapenv parses "id:name,id:name" pairs. An explicitly empty value disables
// the provider; an unset variable keeps the defaults.
func mapenv(k string, def map[string]string) (map[string]string, error) {
	v, set := os.LookupEnv(k)
	if !set {
		return def, nil
	}
	out := make(map[string]string)
	if strings.TrimSpace(v) == "" {
		return out, nil
	}
	for _, pair := range strings.Split(v, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		id, name, ok := strings.Cut(pair, ":")
		if !ok || strings.TrimSpace(id) == "" {
			return nil, fmt.Errorf("invalid %s entry %q, want id:name", k, pair)
		}
		out[strings.TrimSpace(id)] = strings.TrimSpace(name)
	}
	return out, nil
}
