package availability

import (
	"strconv"
	"strings"
	"time"
)

// Notification keys identify a run for deduplication: provider, configured
// resource (facility or club), date, the run's own resource (court), and the
// boundary offsets. Fields are escaped before joining so that a separator
// appearing inside a provider-generated ID can never collide two distinct
// runs into one key. The date always sits in the third field, which is what
// ledger pruning relies on.

const keySep = "|"

// RunKey derives the deduplication key for a run.
func RunKey(provider, resourceID, date string, r Run) string {
	fields := []string{
		provider,
		resourceID,
		date,
		r.ResourceID,
		strconv.Itoa(r.StartOffset),
		strconv.Itoa(r.EndOffset),
	}
	for i, f := range fields {
		fields[i] = escapeKeyField(f)
	}
	return strings.Join(fields, keySep)
}

// KeyDate extracts the date embedded in a notification key. The second
// return is false when the key does not carry a parseable date, in which
// case callers must treat the key as not safely interpretable.
func KeyDate(key string) (time.Time, bool) {
	fields := splitKey(key)
	if len(fields) < 3 {
		return time.Time{}, false
	}
	d, err := time.Parse("2006-01-02", fields[2])
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

func escapeKeyField(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, keySep, `\`+keySep)
}

func splitKey(key string) []string {
	var fields []string
	var b strings.Builder
	escaped := false
	for _, c := range key {
		switch {
		case escaped:
			b.WriteRune(c)
			escaped = false
		case c == '\\':
			escaped = true
		case string(c) == keySep:
			fields = append(fields, b.String())
			b.Reset()
		default:
			b.WriteRune(c)
		}
	}
	fields = append(fields, b.String())
	return fields
}
