// Package reminder exposes the registry mutations over HTTP. The CRUD web
// layer owns the durable store; after a confirmed write it calls these
// endpoints so the scheduler's in-memory view follows.
package reminder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/zlog"

	"github.com/aquatrack/reminderd/internal/api/dto"
	"github.com/aquatrack/reminderd/internal/api/respond"
	"github.com/aquatrack/reminderd/internal/model"
	"github.com/aquatrack/reminderd/internal/repository/reminder"
)

// reminderService defines the interface the Handler depends on.
//
//go:generate mockgen -source=handler.go -destination=../../../mocks/api/handlers/reminder/mock.go -package=mocks
type reminderService interface {
	Sync(ctx context.Context) (int, error)
	Add(rem model.Reminder) error
	Update(id string, patch model.ReminderPatch) (model.Reminder, bool, error)
	Remove(id string)
	OwnerReminders(ownerID string) []model.Reminder
	ReminderByID(ctx context.Context, id string) (model.Reminder, error)
}

// Handler handles HTTP requests that mutate or query the registry.
type Handler struct {
	service   reminderService
	validator *validator.Validate
}

// NewHandler creates a new Handler instance.
func NewHandler(s reminderService, v *validator.Validate) *Handler {
	return &Handler{service: s, validator: v}
}

// Create mirrors a confirmed store insert into the registry.
func (h *Handler) Create(c *ginext.Context) {
	var req dto.CreateRequest

	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to decode request body")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("invalid request body"))
		return
	}

	if err := h.validator.Struct(req); err != nil {
		zlog.Logger.Warn().Err(err).Msg("failed to validate request body")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("validation error: %s", err.Error()))
		return
	}

	rem := req.Reminder()
	if err := h.service.Add(rem); err != nil {
		zlog.Logger.Warn().Err(err).Str("id", rem.ID).Msg("rejected reminder")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("invalid reminder: %s", err.Error()))
		return
	}

	respond.Created(c.Writer, rem)
}

// Update applies a partial change to a held reminder.
func (h *Handler) Update(c *ginext.Context) {
	id := c.Param("id")
	if id == "" {
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("missing id"))
		return
	}

	var req dto.UpdateRequest
	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to decode request body")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("invalid request body"))
		return
	}

	if err := h.validator.Struct(req); err != nil {
		zlog.Logger.Warn().Err(err).Msg("failed to validate request body")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("validation error: %s", err.Error()))
		return
	}

	updated, found, err := h.service.Update(id, req.Patch())
	if err != nil {
		zlog.Logger.Warn().Err(err).Str("id", id).Msg("rejected reminder update")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("invalid update: %s", err.Error()))
		return
	}
	if !found {
		respond.Fail(c.Writer, http.StatusNotFound, fmt.Errorf("reminder not found"))
		return
	}

	respond.OK(c.Writer, updated)
}

// Delete mirrors a confirmed store delete into the registry.
func (h *Handler) Delete(c *ginext.Context) {
	id := c.Param("id")
	if id == "" {
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("missing id"))
		return
	}

	h.service.Remove(id)
	respond.OK(c.Writer, "reminder removed")
}

// List returns the cached reminders for one owner.
func (h *Handler) List(c *ginext.Context) {
	ownerID := c.Query("owner_id")
	if ownerID == "" {
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("missing owner_id"))
		return
	}

	respond.OK(c.Writer, h.service.OwnerReminders(ownerID))
}

// Get fetches one reminder from the store of record, bypassing the cache.
func (h *Handler) Get(c *ginext.Context) {
	id := c.Param("id")
	if id == "" {
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("missing id"))
		return
	}

	rem, err := h.service.ReminderByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, reminder.ErrReminderNotFound) {
			respond.Fail(c.Writer, http.StatusNotFound, fmt.Errorf("reminder not found"))
			return
		}

		zlog.Logger.Error().Err(err).Str("id", id).Msg("failed to get reminder")
		respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
		return
	}

	respond.OK(c.Writer, rem)
}

// Sync replaces the registry with the store's current enabled reminders.
func (h *Handler) Sync(c *ginext.Context) {
	count, err := h.service.Sync(c.Request.Context())
	if err != nil {
		zlog.Logger.Error().Err(err).Msg("sync request failed")
		respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("sync failed, previous reminders kept"))
		return
	}

	respond.OK(c.Writer, map[string]int{"count": count})
}
