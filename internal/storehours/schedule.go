package storehours

import (
	"fmt"
	"time"

	"storefront/internal/model"
)

// Defaults applied when a store leaves a scheduling setting at zero.
const (
	DefaultMinLeadMinutes      = 120
	DefaultMaxLeadDays         = 7
	DefaultSlotIntervalMinutes = 30
)

// ScheduleOptions bounds how far ahead an order may be scheduled.
// SlotIntervalMinutes of zero disables slot alignment.
type ScheduleOptions struct {
	MinLeadMinutes      int
	MaxLeadDays         int
	SlotIntervalMinutes int
}

// OptionsFromSettings fills unset store settings with the defaults.
func OptionsFromSettings(s model.SchedulingSettings) ScheduleOptions {
	opts := ScheduleOptions{
		MinLeadMinutes:      s.MinLeadMinutes,
		MaxLeadDays:         s.MaxLeadDays,
		SlotIntervalMinutes: s.SlotIntervalMinutes,
	}
	if opts.MinLeadMinutes <= 0 {
		opts.MinLeadMinutes = DefaultMinLeadMinutes
	}
	if opts.MaxLeadDays <= 0 {
		opts.MaxLeadDays = DefaultMaxLeadDays
	}
	if opts.SlotIntervalMinutes <= 0 {
		opts.SlotIntervalMinutes = DefaultSlotIntervalMinutes
	}
	return opts
}

// Validation is the outcome of ValidateScheduledTime.
type Validation struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

// ValidateScheduledTime checks requested against the lead time, the
// scheduling horizon, the store hours and the slot grid, in that order.
func ValidateScheduledTime(requested, now time.Time, hours []model.BusinessHour, loc *time.Location, opts ScheduleOptions) Validation {
	earliest := now.Add(time.Duration(opts.MinLeadMinutes) * time.Minute)
	if requested.Before(earliest) {
		return Validation{Reason: fmt.Sprintf("scheduled time must be at least %d minutes from now", opts.MinLeadMinutes)}
	}

	latest := now.AddDate(0, 0, opts.MaxLeadDays)
	if requested.After(latest) {
		return Validation{Reason: fmt.Sprintf("scheduled time cannot be more than %d days ahead", opts.MaxLeadDays)}
	}

	if !IsOpenAt(hours, requested, loc) {
		return Validation{Reason: "the store is closed at the scheduled time"}
	}

	if opts.SlotIntervalMinutes > 0 && minuteOfDay(requested.In(loc))%opts.SlotIntervalMinutes != 0 {
		return Validation{Reason: fmt.Sprintf("scheduled time must be on a %d minute boundary", opts.SlotIntervalMinutes)}
	}

	return Validation{Valid: true}
}

// Slot is one schedulable time.
type Slot struct {
	Time      string    `json:"time"`
	At        time.Time `json:"at"`
	Available bool      `json:"available"`
}

// SlotDay groups the slots opened by one day's window. Slots of an
// overnight window stay on the day the window opened.
type SlotDay struct {
	Date    string `json:"date"`
	Weekday int    `json:"weekday"`
	Slots   []Slot `json:"slots"`
}

// BuildSlots lists the slot grid for today and the next MaxLeadDays days.
// Slots sit on the interval grid from midnight, the same grid
// ValidateScheduledTime enforces, and a slot is available exactly when
// ValidateScheduledTime accepts it.
func BuildSlots(hours []model.BusinessHour, now time.Time, loc *time.Location, opts ScheduleOptions) []SlotDay {
	interval := opts.SlotIntervalMinutes
	if interval <= 0 {
		interval = DefaultSlotIntervalMinutes
	}
	local := now.In(loc)

	var days []SlotDay
	for i := 0; i <= opts.MaxLeadDays; i++ {
		day := at(local, i, 0, loc)
		w, ok := dayWindow(hours, day.Weekday())
		if !ok {
			continue
		}

		end := w.close
		if w.overnight() {
			end += minutesPerDay
		}

		sd := SlotDay{Date: day.Format("2006-01-02"), Weekday: int(day.Weekday())}
		for m := roundUp(w.open, interval); m < end; m += interval {
			t := at(local, i, m, loc)
			sd.Slots = append(sd.Slots, Slot{
				Time:      t.Format("15:04"),
				At:        t,
				Available: ValidateScheduledTime(t, now, hours, loc, opts).Valid,
			})
		}
		days = append(days, sd)
	}
	return days
}

func roundUp(minute, interval int) int {
	if r := minute % interval; r != 0 {
		return minute + interval - r
	}
	return minute
}
