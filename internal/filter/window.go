package filter

import (
	"strconv"
	"time"
)

// MaxDays bounds the rolling window length.
const MaxDays = 730

// DefaultDays is the rolling window used when none is configured.
const DefaultDays = 30

// DateLayout is the format of date_from and date_to.
const DateLayout = "2006-01-02"

// Named presets accepted by the preset parameter.
const (
	PresetThisYear    = "this_year"
	PresetLastYear    = "last_year"
	PresetTwelveMonth = "12_months"
	PresetThisMonth   = "this_month"
	PresetThisQuarter = "this_quarter"
	PresetLast30Days  = "last_30_days"
)

// Range is the date range as requested. Exactly one of Days, Preset or
// From/To is set after Parse.
type Range struct {
	Days   int
	Preset string
	// From and To are UTC midnights; To is inclusive.
	From time.Time
	To   time.Time
}

// Explicit reports whether the range came from date_from/date_to.
func (r Range) Explicit() bool {
	return !r.From.IsZero()
}

func validPreset(p string) bool {
	switch p {
	case PresetThisYear, PresetLastYear, PresetTwelveMonth,
		PresetThisMonth, PresetThisQuarter, PresetLast30Days:
		return true
	}
	return false
}

func midnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// resolve turns the range into the half-open window [start, end).
// Rolling windows end at the start of the day after now.
func (r Range) resolve(now time.Time) (time.Time, time.Time) {
	today := midnight(now)
	tomorrow := today.AddDate(0, 0, 1)

	if r.Explicit() {
		return r.From, r.To.AddDate(0, 0, 1)
	}

	switch r.Preset {
	case PresetThisYear:
		return time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC), tomorrow
	case PresetLastYear:
		start := time.Date(today.Year()-1, time.January, 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(1, 0, 0)
	case PresetTwelveMonth:
		return tomorrow.AddDate(-1, 0, 0), tomorrow
	case PresetThisMonth:
		return time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC), tomorrow
	case PresetThisQuarter:
		first := time.Month((int(today.Month())-1)/3*3 + 1)
		return time.Date(today.Year(), first, 1, 0, 0, 0, 0, time.UTC), tomorrow
	case PresetLast30Days:
		return tomorrow.AddDate(0, 0, -30), tomorrow
	}

	return tomorrow.AddDate(0, 0, -r.Days), tomorrow
}

func parseDays(raw string) (int, bool) {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > MaxDays {
		return 0, false
	}
	return n, true
}

// parseDates accepts date_from with an optional date_to that defaults to today.
func parseDates(from, to string, now time.Time) (time.Time, time.Time, bool) {
	if from == "" {
		return time.Time{}, time.Time{}, false
	}
	start, err := time.ParseInLocation(DateLayout, from, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	end := midnight(now)
	if to != "" {
		end, err = time.ParseInLocation(DateLayout, to, time.UTC)
		if err != nil {
			return time.Time{}, time.Time{}, false
		}
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// Label is a human readable description of the range.
func (r Range) Label() string {
	if r.Explicit() {
		return r.From.Format(DateLayout) + " to " + r.To.Format(DateLayout)
	}
	switch r.Preset {
	case PresetThisYear:
		return "This year"
	case PresetLastYear:
		return "Last year"
	case PresetTwelveMonth:
		return "Last 12 months"
	case PresetThisMonth:
		return "This month"
	case PresetThisQuarter:
		return "This quarter"
	case PresetLast30Days:
		return "Last 30 days"
	}
	return "Last " + strconv.Itoa(r.Days) + " days"
}
