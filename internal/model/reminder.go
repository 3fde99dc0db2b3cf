package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// DefaultMessage is the prompt used when a reminder carries no message of its
// own. It is applied when an event is built, never written into the record.
const DefaultMessage = "Time to drink some water!"

const secondsPerDay = 24 * 60 * 60

var (
	ErrEmptyTitle    = errors.New("reminder title is empty")
	ErrEmptyDays     = errors.New("reminder has no weekdays")
	ErrInvalidDay    = errors.New("weekday outside 1..7")
	ErrInvalidTime   = errors.New("time of day outside 00:00:00..23:59:59")
	ErrMissingOwner  = errors.New("reminder has no owner")
	ErrBadTimeOfDay  = errors.New("malformed time of day")
	ErrBadTimeColumn = errors.New("unsupported time of day column type")
)

// TimeOfDay is a wall-clock time with second resolution, stored as seconds
// since midnight. The scheduler interprets it in UTC.
type TimeOfDay int

// NewTimeOfDay builds a TimeOfDay from clock components.
func NewTimeOfDay(hour, min, sec int) TimeOfDay {
	return TimeOfDay(hour*3600 + min*60 + sec)
}

// TimeOfDayFrom truncates an instant to its UTC time of day.
func TimeOfDayFrom(t time.Time) TimeOfDay {
	h, m, s := t.UTC().Clock()
	return NewTimeOfDay(h, m, s)
}

// ParseTimeOfDay parses "15:04:05" or "15:04".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			h, m, sec := t.Clock()
			return NewTimeOfDay(h, m, sec), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrBadTimeOfDay, s)
}

// Seconds returns seconds since midnight.
func (t TimeOfDay) Seconds() int { return int(t) }

// Valid reports whether the value lies within one day.
func (t TimeOfDay) Valid() bool { return t >= 0 && int(t) < secondsPerDay }

func (t TimeOfDay) String() string {
	s := int(t)
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, s/60%60, s%60)
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("unmarshal time of day: %w", err)
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Scan accepts the representations the postgres driver produces for a TIME
// column, plus time.Time for drivers that parse it.
func (t *TimeOfDay) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		h, m, s := v.Clock()
		*t = NewTimeOfDay(h, m, s)
		return nil
	case string:
		parsed, err := ParseTimeOfDay(v)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	case []byte:
		parsed, err := ParseTimeOfDay(string(v))
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	default:
		return fmt.Errorf("%w: %T", ErrBadTimeColumn, src)
	}
}

func (t TimeOfDay) Value() (driver.Value, error) {
	return t.String(), nil
}

// Weekdays is a set of weekday markers using 1=Monday .. 7=Sunday.
type Weekdays []int

// WeekdayOf maps an instant's UTC weekday to the 1=Monday..7=Sunday
// convention. Go numbers Sunday as 0, which remaps to 7.
func WeekdayOf(t time.Time) int {
	if wd := int(t.UTC().Weekday()); wd != 0 {
		return wd
	}
	return 7
}

// Contains reports whether day is in the set.
func (w Weekdays) Contains(day int) bool {
	for _, d := range w {
		if d == day {
			return true
		}
	}
	return false
}

// Validate checks the set is non-empty with every marker in 1..7.
func (w Weekdays) Validate() error {
	if len(w) == 0 {
		return ErrEmptyDays
	}
	for _, d := range w {
		if d < 1 || d > 7 {
			return fmt.Errorf("%w: %d", ErrInvalidDay, d)
		}
	}
	return nil
}

// Reminder is the unit of scheduling: a hydration prompt firing at a fixed
// UTC time of day on a set of weekdays. Records are owned by the durable
// store; the in-memory registry only ever holds enabled, valid ones.
type Reminder struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message,omitempty"`
	TimeOfDay TimeOfDay `json:"time_of_day"`
	Days      Weekdays  `json:"days_of_week"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at,omitempty"` // store-owned
	UpdatedAt time.Time `json:"updated_at,omitempty"` // store-owned
}

// Validate rejects records that must never enter the registry.
func (r Reminder) Validate() error {
	if r.OwnerID == "" {
		return ErrMissingOwner
	}
	if r.Title == "" {
		return ErrEmptyTitle
	}
	if !r.TimeOfDay.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidTime, r.TimeOfDay.Seconds())
	}
	return r.Days.Validate()
}

// Prompt returns the display message, falling back to the generic prompt.
func (r Reminder) Prompt() string {
	if r.Message == "" {
		return DefaultMessage
	}
	return r.Message
}

// ReminderPatch carries a partial update; nil fields keep their value.
type ReminderPatch struct {
	Title     *string    `json:"title,omitempty"`
	Message   *string    `json:"message,omitempty"`
	TimeOfDay *TimeOfDay `json:"time_of_day,omitempty"`
	Days      *Weekdays  `json:"days_of_week,omitempty"`
	Enabled   *bool      `json:"enabled,omitempty"`
}

// Apply returns a copy of r with the patch folded in.
func (p ReminderPatch) Apply(r Reminder) Reminder {
	if p.Title != nil {
		r.Title = *p.Title
	}
	if p.Message != nil {
		r.Message = *p.Message
	}
	if p.TimeOfDay != nil {
		r.TimeOfDay = *p.TimeOfDay
	}
	if p.Days != nil {
		r.Days = *p.Days
	}
	if p.Enabled != nil {
		r.Enabled = *p.Enabled
	}
	return r
}

// Contact is the fallback recipient record for an owner, read from the
// durable store's profiles.
type Contact struct {
	OwnerID        string `json:"owner_id"`
	Email          string `json:"email,omitempty"`
	TelegramChatID string `json:"telegram_chat_id,omitempty"`
	Preferred      string `json:"preferred_channel,omitempty"` // "email" or "telegram"
}
