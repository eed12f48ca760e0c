package config

import (
	"reflect"
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.MinRunLength != 3 || cfg.RelaxedRunLength != 2 {
		t.Errorf("thresholds = %d/%d", cfg.MinRunLength, cfg.RelaxedRunLength)
	}
	if cfg.WindowStart != "18:00" || cfg.WindowEnd != "23:00" {
		t.Errorf("window = %s-%s", cfg.WindowStart, cfg.WindowEnd)
	}
	if cfg.CheckInterval != 5*time.Minute || cfg.DaysAhead != 7 {
		t.Errorf("schedule = %v/%d days", cfg.CheckInterval, cfg.DaysAhead)
	}
	if cfg.PairDelay != time.Second || cfg.CrashCooldown != time.Minute {
		t.Errorf("delays = %v/%v", cfg.PairDelay, cfg.CrashCooldown)
	}
	if cfg.LedgerPath != "notified_slots.json" {
		t.Errorf("ledger path = %q", cfg.LedgerPath)
	}
	if len(cfg.Facilities) == 0 {
		t.Error("default facilities missing")
	}
}

func TestFromEnvOverridesAndValidation(t *testing.T) {
	t.Setenv("MIN_CONSECUTIVE_SPOTS", "4")
	t.Setenv("ALTERNATIVE_MIN_SPOTS", "2")
	t.Setenv("CHECK_INTERVAL_MINUTES", "10")
	t.Setenv("PADEL_ISRAEL_FACILITIES", "1:One, 2:Two")
	t.Setenv("LAZUZ_CLUBS", "")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.MinRunLength != 4 || cfg.CheckInterval != 10*time.Minute {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if want := map[string]string{"1": "One", "2": "Two"}; !reflect.DeepEqual(cfg.Facilities, want) {
		t.Errorf("facilities = %v", cfg.Facilities)
	}
	if len(cfg.Clubs) != 0 {
		t.Errorf("empty LAZUZ_CLUBS should disable the provider, got %v", cfg.Clubs)
	}
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	tests := []struct{ k, v string }{
		{"CHECK_INTERVAL_MINUTES", "0"},
		{"CHECK_INTERVAL_MINUTES", "soon"},
		{"MIN_CONSECUTIVE_SPOTS", "0"},
		{"ALTERNATIVE_MIN_SPOTS", "5"}, // above primary
		{"DAYS_AHEAD_TO_CHECK", "-1"},
		{"PAIR_DELAY_SECONDS", "-1"},
		{"CRASH_COOLDOWN_SECONDS", "-5"},
		{"LEDGER_RETENTION_DAYS", "-1"},
		{"PADEL_ISRAEL_FACILITIES", "no-colon"},
	}
	for _, tc := range tests {
		t.Run(tc.k+"="+tc.v, func(t *testing.T) {
			t.Setenv(tc.k, tc.v)
			if _, err := FromEnv(); err == nil {
				t.Errorf("expected error for %s=%s", tc.k, tc.v)
			}
		})
	}
}

func TestSortedIDs(t *testing.T) {
	got := SortedIDs(map[string]string{"b": "B", "a": "A", "c": "C"})
	if !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("SortedIDs = %v", got)
	}
}
