package dto

import (
	"github.com/aquatrack/reminderd/internal/model"
)

// CreateRequest mirrors a reminder the web layer has already written to the
// durable store and now pushes into the registry.
type CreateRequest struct {
	ID        string          `json:"id" validate:"required"`
	OwnerID   string          `json:"owner_id" validate:"required"`
	Title     string          `json:"title" validate:"required"`
	Message   string          `json:"message"`
	TimeOfDay model.TimeOfDay `json:"time_of_day"`
	Days      []int           `json:"days_of_week" validate:"required,min=1,dive,min=1,max=7"`
	Enabled   bool            `json:"enabled"`
}

// Reminder converts the request into the scheduling record.
func (r CreateRequest) Reminder() model.Reminder {
	return model.Reminder{
		ID:        r.ID,
		OwnerID:   r.OwnerID,
		Title:     r.Title,
		Message:   r.Message,
		TimeOfDay: r.TimeOfDay,
		Days:      model.Weekdays(r.Days),
		Enabled:   r.Enabled,
	}
}

// UpdateRequest carries a partial change; absent fields keep their value.
type UpdateRequest struct {
	Title     *string          `json:"title"`
	Message   *string          `json:"message"`
	TimeOfDay *model.TimeOfDay `json:"time_of_day"`
	Days      *[]int           `json:"days_of_week" validate:"omitempty,min=1,dive,min=1,max=7"`
	Enabled   *bool            `json:"enabled"`
}

// Patch converts the request into a registry patch.
func (r UpdateRequest) Patch() model.ReminderPatch {
	patch := model.ReminderPatch{
		Title:     r.Title,
		Message:   r.Message,
		TimeOfDay: r.TimeOfDay,
		Enabled:   r.Enabled,
	}
	if r.Days != nil {
		days := model.Weekdays(*r.Days)
		patch.Days = &days
	}
	return patch
}
