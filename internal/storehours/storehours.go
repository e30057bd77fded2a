// Package storehours answers whether a store is open and whether a requested
// pickup or delivery time fits its weekly schedule. All wall-clock math runs
// in the store's timezone.
package storehours

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
	_ "time/tzdata" // stores may name any IANA zone; do not depend on the host database

	"storefront/internal/model"
)

// DefaultTimezone applies to stores without a configured timezone. It is
// set once at startup, before any request is served.
var DefaultTimezone = "America/Sao_Paulo"

const minutesPerDay = 24 * 60

var (
	ErrInvalidTimeFormat = errors.New("invalid time format, expected HH:MM")
	ErrInvalidDateFormat = errors.New("invalid date format, expected YYYY-MM-DD")
)

var clockPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):([0-5][0-9])$`)

// Status is the open/closed state of a store at an instant. NextChange is
// the closing time when open and the next opening when closed; it is nil
// when the store never opens within the coming week.
type Status struct {
	IsOpen     bool       `json:"isOpen"`
	NextChange *time.Time `json:"nextChange,omitempty"`
}

// LoadLocation resolves tz, using DefaultTimezone when tz is empty.
func LoadLocation(tz string) (*time.Location, error) {
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", tz, err)
	}
	return loc, nil
}

// ParseClock converts "HH:MM" into minutes since midnight.
func ParseClock(s string) (int, error) {
	m := clockPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, ErrInvalidTimeFormat
	}
	h, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	return h*60 + mm, nil
}

// windowContains reports whether minute (since local midnight) lies in the
// window [opens, closes). For an overnight window (closes < opens) the part
// before midnight belongs to the day the entry is for and the part after
// midnight to the following day, selected by spill. An empty window
// (opens == closes) contains nothing.
func windowContains(opens, closes, minute int, spill bool) bool {
	switch {
	case opens == closes:
		return false
	case opens < closes:
		return !spill && minute >= opens && minute < closes
	case spill:
		return minute < closes
	default:
		return minute >= opens
	}
}

// window is a parsed BusinessHour.
type window struct {
	open, close int
}

func (w window) overnight() bool {
	return w.close < w.open
}

// dayWindow returns the parsed window for weekday, or false when the store
// is closed that day or the entry is malformed.
func dayWindow(hours []model.BusinessHour, weekday time.Weekday) (window, bool) {
	for _, h := range hours {
		if h.Day != int(weekday) {
			continue
		}
		if !h.IsOpen {
			return window{}, false
		}
		opens, err := ParseClock(h.Open)
		if err != nil {
			return window{}, false
		}
		closes, err := ParseClock(h.Close)
		if err != nil {
			return window{}, false
		}
		if opens == closes {
			return window{}, false
		}
		return window{open: opens, close: closes}, true
	}
	return window{}, false
}

// at builds the instant minute minutes after local midnight of the day
// offset days from day. Minutes past 24h roll into the next day.
func at(day time.Time, days, minute int, loc *time.Location) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day()+days, 0, minute, 0, 0, loc)
}

func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// GetStatus reports whether the store is open at now, honouring overnight
// windows that started the previous day.
func GetStatus(hours []model.BusinessHour, now time.Time, loc *time.Location) Status {
	local := now.In(loc)
	minute := minuteOfDay(local)

	yesterday := (local.Weekday() + 6) % 7
	if w, ok := dayWindow(hours, yesterday); ok && windowContains(w.open, w.close, minute, true) {
		closes := at(local, 0, w.close, loc)
		return Status{IsOpen: true, NextChange: &closes}
	}

	if w, ok := dayWindow(hours, local.Weekday()); ok && windowContains(w.open, w.close, minute, false) {
		days := 0
		if w.overnight() {
			days = 1
		}
		closes := at(local, days, w.close, loc)
		return Status{IsOpen: true, NextChange: &closes}
	}

	return Status{NextChange: NextOpening(hours, now, loc)}
}

// IsOpenAt reports whether the store is open at t.
func IsOpenAt(hours []model.BusinessHour, t time.Time, loc *time.Location) bool {
	return GetStatus(hours, t, loc).IsOpen
}

// NextOpening returns the first opening strictly after now within the next
// seven days, or nil.
func NextOpening(hours []model.BusinessHour, now time.Time, loc *time.Location) *time.Time {
	local := now.In(loc)
	for i := 0; i <= 7; i++ {
		day := at(local, i, 0, loc)
		w, ok := dayWindow(hours, day.Weekday())
		if !ok {
			continue
		}
		opens := at(local, i, w.open, loc)
		if opens.After(now) {
			return &opens
		}
	}
	return nil
}

// CombineDateAndTime builds the instant for a calendar date ("YYYY-MM-DD")
// and a wall-clock time ("HH:MM") in loc.
func CombineDateAndTime(date, clock string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	minute, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return at(d, 0, minute, loc), nil
}

// SplitDateTime is the inverse of CombineDateAndTime.
func SplitDateTime(t time.Time, loc *time.Location) (date, clock string) {
	local := t.In(loc)
	return local.Format("2006-01-02"), local.Format("15:04")
}
