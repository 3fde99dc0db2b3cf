// Package reminder orchestrates the in-memory registry and the durable
// store. The store is owned by the web layer; this service only reads it
// (full reloads and point lookups) and mirrors confirmed writes into the
// registry.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/aquatrack/reminderd/internal/model"
	"github.com/aquatrack/reminderd/internal/registry"
	reminderrepo "github.com/aquatrack/reminderd/internal/repository/reminder"
)

// reminderStore is the slice of the durable store the service reads.
//
//go:generate mockgen -source=service.go -destination=../../mocks/service/reminder/mock.go -package=mocks
type reminderStore interface {
	ListEnabled(ctx context.Context) ([]model.Reminder, error)
	GetByID(ctx context.Context, id string) (model.Reminder, error)
}

// Service wires the registry to the durable store.
type Service struct {
	registry *registry.Registry
	store    reminderStore
	strategy retry.Strategy
}

// NewService creates a reminder service over the given registry and store.
func NewService(reg *registry.Registry, store reminderStore, strategy retry.Strategy) *Service {
	return &Service{registry: reg, store: store, strategy: strategy}
}

// Sync replaces the registry contents with the enabled reminders currently
// in the store. It fails soft: on a store error the previous contents stay
// in place and the error is returned for the caller to report. Returns the
// number of reminders admitted.
func (s *Service) Sync(ctx context.Context) (int, error) {
	var reminders []model.Reminder

	err := retry.Do(func() error {
		var err error
		reminders, err = s.store.ListEnabled(ctx)
		return err
	}, s.strategy)
	if err != nil {
		zlog.Logger.Error().Err(err).Msg("sync failed, keeping previous registry contents")
		return 0, fmt.Errorf("list enabled reminders: %w", err)
	}

	admitted := s.registry.ReplaceAll(reminders)
	zlog.Logger.Info().Int("count", admitted).Msg("registry synced from store")
	return admitted, nil
}

// Add mirrors a confirmed store insert into the registry.
func (s *Service) Add(rem model.Reminder) error {
	if err := s.registry.Upsert(rem); err != nil {
		return fmt.Errorf("add reminder %s: %w", rem.ID, err)
	}
	return nil
}

// Update applies a partial change to a held reminder, mirroring a confirmed
// store update. The second return reports whether the id was known.
func (s *Service) Update(id string, patch model.ReminderPatch) (model.Reminder, bool, error) {
	updated, found, err := s.registry.Update(id, patch)
	if err != nil {
		return model.Reminder{}, found, fmt.Errorf("update reminder %s: %w", id, err)
	}
	return updated, found, nil
}

// Remove mirrors a confirmed store delete into the registry.
func (s *Service) Remove(id string) {
	s.registry.Remove(id)
}

// OwnerReminders returns the cached reminders for one owner.
func (s *Service) OwnerReminders(ownerID string) []model.Reminder {
	return s.registry.ByOwner(ownerID)
}

// ReminderByID fetches one reminder from the store of record, bypassing the
// cache. Callers asking for a specific record want what the store holds,
// not what a possibly stale registry does.
func (s *Service) ReminderByID(ctx context.Context, id string) (model.Reminder, error) {
	var rem model.Reminder
	var notFound error

	err := retry.Do(func() error {
		var err error
		rem, err = s.store.GetByID(ctx, id)
		// A missing row is a definitive answer; retrying cannot change it.
		if errors.Is(err, reminderrepo.ErrReminderNotFound) {
			notFound = err
			return nil
		}
		return err
	}, s.strategy)
	if notFound != nil {
		return model.Reminder{}, fmt.Errorf("get reminder %s: %w", id, notFound)
	}
	if err != nil {
		return model.Reminder{}, fmt.Errorf("get reminder %s: %w", id, err)
	}

	return rem, nil
}

// CreateTestReminder synthesizes a one-off reminder firing about a minute
// from now for the given owner and registers it in memory only, bypassing
// the durable store. It disappears on the next full sync.
func (s *Service) CreateTestReminder(ownerID string, now time.Time) (model.Reminder, error) {
	fireAt := now.UTC().Add(time.Minute).Truncate(time.Second)

	rem := model.Reminder{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Title:     "Test reminder",
		Message:   "This is a test reminder.",
		TimeOfDay: model.TimeOfDayFrom(fireAt),
		Days:      model.Weekdays{model.WeekdayOf(fireAt)},
		Enabled:   true,
	}

	if err := s.registry.Upsert(rem); err != nil {
		return model.Reminder{}, fmt.Errorf("register test reminder: %w", err)
	}

	zlog.Logger.Info().
		Str("owner_id", ownerID).
		Str("fires_at", rem.TimeOfDay.String()).
		Msg("test reminder registered")

	return rem, nil
}
