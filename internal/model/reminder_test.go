package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("08:00:00")
	require.NoError(t, err)
	assert.Equal(t, 8*3600, tod.Seconds())

	tod, err = ParseTimeOfDay("23:59:59")
	require.NoError(t, err)
	assert.Equal(t, "23:59:59", tod.String())

	// Minute resolution is accepted, seconds default to zero.
	tod, err = ParseTimeOfDay("14:30")
	require.NoError(t, err)
	assert.Equal(t, NewTimeOfDay(14, 30, 0), tod)

	_, err = ParseTimeOfDay("24:00:00")
	assert.ErrorIs(t, err, ErrBadTimeOfDay)

	_, err = ParseTimeOfDay("eight o'clock")
	assert.ErrorIs(t, err, ErrBadTimeOfDay)
}

func TestTimeOfDayScan(t *testing.T) {
	var tod TimeOfDay

	// lib/pq hands TIME columns over as []byte or string.
	require.NoError(t, tod.Scan([]byte("07:15:30")))
	assert.Equal(t, NewTimeOfDay(7, 15, 30), tod)

	require.NoError(t, tod.Scan("21:00:00"))
	assert.Equal(t, NewTimeOfDay(21, 0, 0), tod)

	require.NoError(t, tod.Scan(time.Date(0, 1, 1, 9, 45, 1, 0, time.UTC)))
	assert.Equal(t, NewTimeOfDay(9, 45, 1), tod)

	assert.ErrorIs(t, tod.Scan(42), ErrBadTimeColumn)
}

func TestTimeOfDayJSON(t *testing.T) {
	data, err := json.Marshal(NewTimeOfDay(8, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, `"08:00:00"`, string(data))

	var tod TimeOfDay
	require.NoError(t, json.Unmarshal([]byte(`"18:05:09"`), &tod))
	assert.Equal(t, NewTimeOfDay(18, 5, 9), tod)

	assert.Error(t, json.Unmarshal([]byte(`"25:00:00"`), &tod))
}

func TestWeekdayOf(t *testing.T) {
	// 2024-01-08 is a Monday, 2024-01-14 a Sunday.
	monday := time.Date(2024, 1, 8, 12, 0, 0, 0, time.UTC)
	for offset, want := range []int{1, 2, 3, 4, 5, 6, 7} {
		got := WeekdayOf(monday.AddDate(0, 0, offset))
		assert.Equal(t, want, got, "offset %d", offset)
	}
}

func TestWeekdaysValidate(t *testing.T) {
	assert.NoError(t, Weekdays{1, 2, 3, 4, 5}.Validate())
	assert.ErrorIs(t, Weekdays{}.Validate(), ErrEmptyDays)
	assert.ErrorIs(t, Weekdays{0}.Validate(), ErrInvalidDay)
	assert.ErrorIs(t, Weekdays{1, 8}.Validate(), ErrInvalidDay)
}

func TestReminderValidate(t *testing.T) {
	valid := Reminder{
		ID:        "r-1",
		OwnerID:   "u-1",
		Title:     "Morning glass",
		TimeOfDay: NewTimeOfDay(8, 0, 0),
		Days:      Weekdays{1, 2, 3, 4, 5},
		Enabled:   true,
	}
	assert.NoError(t, valid.Validate())

	cases := []struct {
		name   string
		mutate func(*Reminder)
		want   error
	}{
		{"no owner", func(r *Reminder) { r.OwnerID = "" }, ErrMissingOwner},
		{"no title", func(r *Reminder) { r.Title = "" }, ErrEmptyTitle},
		{"no days", func(r *Reminder) { r.Days = nil }, ErrEmptyDays},
		{"day out of range", func(r *Reminder) { r.Days = Weekdays{9} }, ErrInvalidDay},
		{"time out of range", func(r *Reminder) { r.TimeOfDay = TimeOfDay(86400) }, ErrInvalidTime},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := valid
			tc.mutate(&r)
			assert.ErrorIs(t, r.Validate(), tc.want)
		})
	}
}

func TestReminderPrompt(t *testing.T) {
	r := Reminder{Title: "Afternoon"}
	assert.Equal(t, DefaultMessage, r.Prompt())

	r.Message = "Refill the bottle"
	assert.Equal(t, "Refill the bottle", r.Prompt())
}

func TestReminderPatchApply(t *testing.T) {
	r := Reminder{
		ID:        "r-1",
		OwnerID:   "u-1",
		Title:     "Morning",
		TimeOfDay: NewTimeOfDay(8, 0, 0),
		Days:      Weekdays{1},
		Enabled:   true,
	}

	title := "Late morning"
	tod := NewTimeOfDay(10, 30, 0)
	enabled := false
	patched := ReminderPatch{Title: &title, TimeOfDay: &tod, Enabled: &enabled}.Apply(r)

	assert.Equal(t, "Late morning", patched.Title)
	assert.Equal(t, tod, patched.TimeOfDay)
	assert.False(t, patched.Enabled)
	// Untouched fields survive.
	assert.Equal(t, Weekdays{1}, patched.Days)
	assert.Equal(t, "u-1", patched.OwnerID)

	// Empty patch is an identity.
	assert.Equal(t, r, ReminderPatch{}.Apply(r))
}
