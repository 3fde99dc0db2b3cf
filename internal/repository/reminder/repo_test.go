package reminder

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/dbpg"

	"github.com/aquatrack/reminderd/internal/model"
)

func setupMockDB(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open mock db: %v", err)
	}

	wrappedDB := &dbpg.DB{Master: db}
	repo := NewRepository(wrappedDB)

	return repo, mock
}

var reminderColumns = []string{
	"id", "user_id", "title", "message", "time_of_day", "days_of_week", "enabled", "created_at", "updated_at",
}

const listEnabledQuery = `
		SELECT id, user_id, title, COALESCE(message, ''), time_of_day, days_of_week, enabled, created_at, updated_at
		FROM reminders
		WHERE enabled = TRUE
		ORDER BY time_of_day ASC;
    `

const getByIDQuery = `
		SELECT id, user_id, title, COALESCE(message, ''), time_of_day, days_of_week, enabled, created_at, updated_at
		FROM reminders
		WHERE id = $1;
    `

func TestListEnabled(t *testing.T) {
	repo, mock := setupMockDB(t)

	now := time.Now()
	rows := sqlmock.NewRows(reminderColumns).
		AddRow("r-1", "u-1", "Morning glass", "", "08:00:00", []byte("{1,2,3,4,5}"), true, now, now).
		AddRow("r-2", "u-2", "Evening glass", "One more before bed", "21:30:00", []byte("{6,7}"), true, now, now)

	mock.ExpectQuery(regexp.QuoteMeta(listEnabledQuery)).WillReturnRows(rows)

	reminders, err := repo.ListEnabled(context.Background())
	require.NoError(t, err)
	require.Len(t, reminders, 2)

	assert.Equal(t, "r-1", reminders[0].ID)
	assert.Equal(t, "u-1", reminders[0].OwnerID)
	assert.Equal(t, model.NewTimeOfDay(8, 0, 0), reminders[0].TimeOfDay)
	assert.Equal(t, model.Weekdays{1, 2, 3, 4, 5}, reminders[0].Days)
	assert.Empty(t, reminders[0].Message)

	assert.Equal(t, model.NewTimeOfDay(21, 30, 0), reminders[1].TimeOfDay)
	assert.Equal(t, model.Weekdays{6, 7}, reminders[1].Days)
	assert.Equal(t, "One more before bed", reminders[1].Message)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListEnabledEmpty(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(listEnabledQuery)).
		WillReturnRows(sqlmock.NewRows(reminderColumns))

	reminders, err := repo.ListEnabled(context.Background())
	require.NoError(t, err)
	assert.Empty(t, reminders)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID(t *testing.T) {
	repo, mock := setupMockDB(t)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(getByIDQuery)).
		WithArgs("r-1").
		WillReturnRows(sqlmock.NewRows(reminderColumns).
			AddRow("r-1", "u-1", "Morning glass", "", "08:00:00", []byte("{1}"), true, now, now))

	rem, err := repo.GetByID(context.Background(), "r-1")
	require.NoError(t, err)
	assert.Equal(t, "r-1", rem.ID)
	assert.True(t, rem.Enabled)
	assert.NoError(t, mock.ExpectationsWereMet())

	mock.ExpectQuery(regexp.QuoteMeta(getByIDQuery)).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err = repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrReminderNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOwnerContact(t *testing.T) {
	repo, mock := setupMockDB(t)

	query := `
		SELECT user_id, COALESCE(email, ''), COALESCE(telegram_chat_id, ''), COALESCE(preferred_channel, '')
		FROM profiles
		WHERE user_id = $1;
    `

	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "email", "telegram_chat_id", "preferred_channel"}).
			AddRow("u-1", "u1@example.com", "", "email"))

	contact, err := repo.GetOwnerContact(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, "u1@example.com", contact.Email)
	assert.Equal(t, "email", contact.Preferred)
	assert.NoError(t, mock.ExpectationsWereMet())

	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs("nobody").
		WillReturnError(sql.ErrNoRows)

	_, err = repo.GetOwnerContact(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrContactNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
