package reminder

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/wb-go/wbf/dbpg"

	"github.com/aquatrack/reminderd/internal/model"
)

var (
	ErrReminderNotFound = errors.New("reminder not found")
	ErrContactNotFound  = errors.New("owner contact not found")
)

// Repository reads the durable reminder store. Writes belong to the web
// layer that owns the records; this service only mirrors confirmed writes
// into its in-memory registry.
type Repository struct {
	db *dbpg.DB
}

// NewRepository creates a reminder repository over the given database.
func NewRepository(db *dbpg.DB) *Repository {
	return &Repository{db: db}
}

// ListEnabled returns every enabled reminder, the set a registry reload
// replaces its contents with.
func (r *Repository) ListEnabled(ctx context.Context) ([]model.Reminder, error) {
	query := `
		SELECT id, user_id, title, COALESCE(message, ''), time_of_day, days_of_week, enabled, created_at, updated_at
		FROM reminders
		WHERE enabled = TRUE
		ORDER BY time_of_day ASC;
    `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list enabled reminders: %w", err)
	}
	defer rows.Close()

	var reminders []model.Reminder
	for rows.Next() {
		rem, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, rem)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read reminder rows: %w", err)
	}

	return reminders, nil
}

// GetByID fetches one reminder straight from the store of record,
// bypassing any in-memory state.
func (r *Repository) GetByID(ctx context.Context, id string) (model.Reminder, error) {
	query := `
		SELECT id, user_id, title, COALESCE(message, ''), time_of_day, days_of_week, enabled, created_at, updated_at
		FROM reminders
		WHERE id = $1;
    `

	rem, err := scanReminder(r.db.Master.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Reminder{}, ErrReminderNotFound
		}

		return model.Reminder{}, fmt.Errorf("failed to get reminder: %w", err)
	}

	return rem, nil
}

// GetOwnerContact reads the fallback delivery addresses for an owner.
func (r *Repository) GetOwnerContact(ctx context.Context, ownerID string) (model.Contact, error) {
	query := `
		SELECT user_id, COALESCE(email, ''), COALESCE(telegram_chat_id, ''), COALESCE(preferred_channel, '')
		FROM profiles
		WHERE user_id = $1;
    `

	var c model.Contact
	err := r.db.Master.QueryRowContext(ctx, query, ownerID).Scan(&c.OwnerID, &c.Email, &c.TelegramChatID, &c.Preferred)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Contact{}, ErrContactNotFound
		}

		return model.Contact{}, fmt.Errorf("failed to get owner contact: %w", err)
	}

	return c, nil
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanReminder(s scanner) (model.Reminder, error) {
	var rem model.Reminder
	var days pq.Int64Array

	err := s.Scan(
		&rem.ID, &rem.OwnerID, &rem.Title, &rem.Message,
		&rem.TimeOfDay, &days, &rem.Enabled,
		&rem.CreatedAt, &rem.UpdatedAt,
	)
	if err != nil {
		return model.Reminder{}, err
	}

	rem.Days = make(model.Weekdays, 0, len(days))
	for _, d := range days {
		rem.Days = append(rem.Days, int(d))
	}

	return rem, nil
}
