package storehours

import (
	"testing"
	"time"

	"storefront/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsFromSettings(t *testing.T) {
	opts := OptionsFromSettings(model.SchedulingSettings{})
	assert.Equal(t, ScheduleOptions{MinLeadMinutes: 120, MaxLeadDays: 7, SlotIntervalMinutes: 30}, opts)

	opts = OptionsFromSettings(model.SchedulingSettings{MinLeadMinutes: 45, MaxLeadDays: 3, SlotIntervalMinutes: 15})
	assert.Equal(t, ScheduleOptions{MinLeadMinutes: 45, MaxLeadDays: 3, SlotIntervalMinutes: 15}, opts)
}

func TestValidateScheduledTime(t *testing.T) {
	loc := saoPaulo(t)
	hours := allWeek("10:00", "22:00")
	hours[time.Friday].IsOpen = false
	hours[time.Saturday] = model.BusinessHour{Day: int(time.Saturday), Open: "18:00", Close: "02:00", IsOpen: true}

	// Wednesday 08:00.
	now := time.Date(2026, 10, 14, 8, 0, 0, 0, loc)
	opts := ScheduleOptions{MinLeadMinutes: 120, MaxLeadDays: 7, SlotIntervalMinutes: 30}

	tests := []struct {
		name      string
		requested time.Time
		valid     bool
		reason    string
	}{
		{name: "Valid slot today", requested: time.Date(2026, 10, 14, 12, 0, 0, 0, loc), valid: true},
		{name: "Valid slot tomorrow", requested: time.Date(2026, 10, 15, 10, 30, 0, 0, loc), valid: true},
		{name: "Inside overnight spill", requested: time.Date(2026, 10, 18, 1, 0, 0, 0, loc), valid: true},
		{name: "Too soon", requested: time.Date(2026, 10, 14, 9, 30, 0, 0, loc), reason: "at least 120 minutes"},
		{name: "Too far ahead", requested: time.Date(2026, 10, 22, 12, 0, 0, 0, loc), reason: "more than 7 days"},
		{name: "Closed day", requested: time.Date(2026, 10, 16, 12, 0, 0, 0, loc), reason: "closed"},
		{name: "Outside hours", requested: time.Date(2026, 10, 14, 23, 0, 0, 0, loc), reason: "closed"},
		{name: "Off the slot grid", requested: time.Date(2026, 10, 14, 12, 10, 0, 0, loc), reason: "30 minute boundary"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ValidateScheduledTime(tt.requested, now, hours, loc, opts)
			assert.Equal(t, tt.valid, v.Valid)
			if !tt.valid {
				assert.Contains(t, v.Reason, tt.reason)
			}
		})
	}
}

func TestValidateScheduledTime_NoSlotAlignment(t *testing.T) {
	loc := saoPaulo(t)
	now := time.Date(2026, 10, 14, 8, 0, 0, 0, loc)

	v := ValidateScheduledTime(time.Date(2026, 10, 14, 12, 7, 0, 0, loc), now, allWeek("10:00", "22:00"), loc,
		ScheduleOptions{MinLeadMinutes: 0, MaxLeadDays: 1})
	assert.True(t, v.Valid, v.Reason)
}

func TestBuildSlots(t *testing.T) {
	loc := saoPaulo(t)
	hours := []model.BusinessHour{
		{Day: int(time.Wednesday), Open: "10:00", Close: "12:00", IsOpen: true},
		{Day: int(time.Thursday), Open: "23:00", Close: "01:00", IsOpen: true},
	}
	now := time.Date(2026, 10, 14, 9, 0, 0, 0, loc)

	days := BuildSlots(hours, now, loc, ScheduleOptions{MinLeadMinutes: 90, MaxLeadDays: 1, SlotIntervalMinutes: 30})
	require.Len(t, days, 2)

	wed := days[0]
	assert.Equal(t, "2026-10-14", wed.Date)
	assert.Equal(t, int(time.Wednesday), wed.Weekday)
	require.Len(t, wed.Slots, 4)
	assert.Equal(t, "10:00", wed.Slots[0].Time)
	assert.False(t, wed.Slots[0].Available, "inside the lead time")
	assert.True(t, wed.Slots[1].Available, "exactly at the lead time")
	assert.True(t, wed.Slots[2].Available)
	assert.Equal(t, "11:30", wed.Slots[3].Time)

	thu := days[1]
	assert.Equal(t, "2026-10-15", thu.Date)
	require.Len(t, thu.Slots, 4)
	assert.Equal(t, []string{"23:00", "23:30", "00:00", "00:30"},
		[]string{thu.Slots[0].Time, thu.Slots[1].Time, thu.Slots[2].Time, thu.Slots[3].Time})
	assert.True(t, time.Date(2026, 10, 16, 0, 30, 0, 0, loc).Equal(thu.Slots[3].At))
}

func TestBuildSlots_OffGridOpening(t *testing.T) {
	loc := saoPaulo(t)
	hours := []model.BusinessHour{{Day: int(time.Wednesday), Open: "10:15", Close: "12:00", IsOpen: true}}
	now := time.Date(2026, 10, 14, 7, 0, 0, 0, loc)

	days := BuildSlots(hours, now, loc, ScheduleOptions{MinLeadMinutes: 60, MaxLeadDays: 1, SlotIntervalMinutes: 30})
	require.Len(t, days, 1)
	require.Len(t, days[0].Slots, 3)
	assert.Equal(t, []string{"10:30", "11:00", "11:30"},
		[]string{days[0].Slots[0].Time, days[0].Slots[1].Time, days[0].Slots[2].Time})
	for _, s := range days[0].Slots {
		assert.True(t, s.Available, s.Time)
	}
}

func TestBuildSlots_RespectsHorizon(t *testing.T) {
	loc := saoPaulo(t)
	var hours []model.BusinessHour
	for d := 0; d < 7; d++ {
		hours = append(hours, model.BusinessHour{Day: d, Open: "10:00", Close: "12:00", IsOpen: true})
	}
	now := time.Date(2026, 10, 14, 11, 0, 0, 0, loc)

	days := BuildSlots(hours, now, loc, ScheduleOptions{MinLeadMinutes: 30, MaxLeadDays: 2, SlotIntervalMinutes: 30})
	require.Len(t, days, 3)

	last := days[2]
	assert.Equal(t, "2026-10-16", last.Date)
	require.Len(t, last.Slots, 4)
	assert.True(t, last.Slots[2].Available, "exactly at the horizon")
	assert.False(t, last.Slots[3].Available, "past the horizon")
}

func TestBuildSlots_AvailableSlotsPassValidation(t *testing.T) {
	loc := saoPaulo(t)
	hours := []model.BusinessHour{
		{Day: int(time.Wednesday), Open: "10:15", Close: "14:50", IsOpen: true},
		{Day: int(time.Thursday), Open: "22:10", Close: "01:40", IsOpen: true},
		{Day: int(time.Friday), Open: "18:00", Close: "23:00", IsOpen: true},
	}
	now := time.Date(2026, 10, 14, 11, 7, 0, 0, loc)
	opts := ScheduleOptions{MinLeadMinutes: 45, MaxLeadDays: 2, SlotIntervalMinutes: 20}

	available := 0
	for _, day := range BuildSlots(hours, now, loc, opts) {
		for _, s := range day.Slots {
			v := ValidateScheduledTime(s.At, now, hours, loc, opts)
			assert.Equal(t, v.Valid, s.Available, "%s %s: %s", day.Date, s.Time, v.Reason)
			if s.Available {
				available++
			}
		}
	}
	assert.Positive(t, available)
}
