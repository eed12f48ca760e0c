package monitor

import (
	"fmt"
	"strings"
	"time"

	"github.com/nimrod29/padel-bot/internal/availability"
)

var bookingLinks = map[string]string{
	"padelisrael": "https://book.padelstore.co.il",
	"lazuz":       "https://server.lazuz.co.il",
}

const shutdownMessage = "⏹️ *Padel Monitor Stopped*\n\n👋 Monitoring session ended"

func (m *Monitor) startupMessage() string {
	return fmt.Sprintf("🚀 *Padel Monitor Started!*\n\n"+
		"🔍 Watching for available games...\n\n"+
		"📅 *Checking dates:* Next `%d days`\n"+
		"🏢 *Facilities:* `%d`\n"+
		"⏰ *Check interval:* `%s`",
		m.opts.DaysAhead, len(m.targets), m.opts.CheckInterval)
}

// availabilityMessage renders one batched notification for all new runs of a
// (target, date) pair.
func (m *Monitor) availabilityMessage(t Target, date string, runs []availability.Run) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🎾 *Padel Game Available!*\n\n")
	fmt.Fprintf(&b, "📍 *Facility:* %s (ID: `%s`)\n", t.Name, t.ResourceID)
	fmt.Fprintf(&b, "📅 *Date:* `%s`%s\n\n", date, weekdaySuffix(date))

	for i, r := range runs {
		if r.ResourceID != t.ResourceID {
			fmt.Fprintf(&b, "⏰ *Slot %d:* Court `%s` - `%s` - `%s` (%.1f hours)\n",
				i+1, r.ResourceID, r.StartLabel, r.EndLabel, r.DurationHours())
		} else {
			fmt.Fprintf(&b, "⏰ *Slot %d:* `%s` - `%s` (%.1f hours)\n",
				i+1, r.StartLabel, r.EndLabel, r.DurationHours())
		}
	}

	if link, ok := bookingLinks[t.Provider.Name()]; ok {
		fmt.Fprintf(&b, "\n🔔 [Book now](%s)", link)
	}
	return b.String()
}

// weekdaySuffix renders " (Monday)" for a YYYY-MM-DD date, or nothing when
// the date does not parse.
func weekdaySuffix(date string) string {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return ""
	}
	return fmt.Sprintf(" (%s)", d.Weekday())
}
