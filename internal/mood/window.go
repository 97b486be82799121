package mood

import (
	"sort"
	"time"

	"moodjournal/backend/internal/model"
)

const (
	WindowDays       = 30
	MaxWindowEntries = 30
)

// WindowBounds returns the inclusive UTC date range of the trailing window ending on today.
func WindowBounds(today time.Time) (time.Time, time.Time) {
	end := StartOfUTCDay(today)
	return end.AddDate(0, 0, -WindowDays), end
}

// Window keeps the entries inside the trailing window, newest first, capped at MaxWindowEntries.
func Window(entries []model.MoodEntry, today time.Time) []model.MoodEntry {
	from, to := WindowBounds(today)
	window := make([]model.MoodEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.Date.IsZero() {
			continue
		}
		day := StartOfUTCDay(entry.Date)
		if day.Before(from) || day.After(to) {
			continue
		}
		window = append(window, entry)
	}
	sort.SliceStable(window, func(i, j int) bool {
		return window[i].Date.After(window[j].Date)
	})
	if len(window) > MaxWindowEntries {
		window = window[:MaxWindowEntries]
	}
	return window
}

func StartOfUTCDay(t time.Time) time.Time {
	utc := t.UTC()
	return time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
}
