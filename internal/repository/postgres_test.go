package repository

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/agenda_service/internal/model"
	"github.com/Freeeeeet/agenda_service/migrations"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB connects to AGENDA_TEST_DSN, migrates and truncates. Tests skip without it.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("AGENDA_TEST_DSN")
	if dsn == "" {
		t.Skip("AGENDA_TEST_DSN not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()
	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	require.NoError(t, err)
	_, err = provider.Up(ctx)
	require.NoError(t, err)

	_, err = pool.Exec(ctx, `TRUNCATE notifications, appointments, timeslots, profiles, departments CASCADE`)
	require.NoError(t, err)

	return pool
}

type seed struct {
	dept   uuid.UUID
	staff  uuid.UUID
	school uuid.UUID
}

func seedDirectory(t *testing.T, pool *pgxpool.Pool) seed {
	t.Helper()
	ctx := context.Background()

	var s seed
	require.NoError(t, pool.QueryRow(ctx,
		`INSERT INTO departments (name) VALUES ('Health') RETURNING id`).Scan(&s.dept))
	require.NoError(t, pool.QueryRow(ctx,
		`INSERT INTO profiles (id, name, email, role, department_id) VALUES (gen_random_uuid(), 'Staff', 'staff@example', 'department', $1) RETURNING id`,
		s.dept).Scan(&s.staff))
	require.NoError(t, pool.QueryRow(ctx,
		`INSERT INTO profiles (id, name, email, role) VALUES (gen_random_uuid(), 'School', 'school@example', 'school') RETURNING id`).Scan(&s.school))
	return s
}

func createSlot(t *testing.T, repo *TimeSlotRepository, dept uuid.UUID, start time.Time) *model.TimeSlot {
	t.Helper()
	slot := &model.TimeSlot{DepartmentID: dept, StartTime: start, EndTime: start.Add(30 * time.Minute), IsAvailable: true}
	require.NoError(t, repo.CreateBatch(context.Background(), []*model.TimeSlot{slot}))
	return slot
}

func TestPostgres_BookingIsExclusive(t *testing.T) {
	pool := setupTestDB(t)
	s := seedDirectory(t, pool)
	ctx := context.Background()

	slots := NewTimeSlotRepository(pool)
	appts := NewAppointmentRepository(pool)
	now := time.Now()
	slot := createSlot(t, slots, s.dept, now.Add(3*time.Hour))

	const requesters = 16
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < requesters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := appts.Book(ctx, &model.Appointment{
				TimeslotID:  slot.ID,
				RequesterID: s.school,
				Description: "Concurrent",
				Status:      model.AppointmentStatusActive,
			}, now)
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)

	stored, err := slots.GetByID(ctx, slot.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsAvailable)
}

func TestPostgres_LifecycleAndReminders(t *testing.T) {
	pool := setupTestDB(t)
	s := seedDirectory(t, pool)
	ctx := context.Background()

	slots := NewTimeSlotRepository(pool)
	appts := NewAppointmentRepository(pool)
	now := time.Now()
	slot := createSlot(t, slots, s.dept, now.Add(20*time.Minute))

	appt := &model.Appointment{TimeslotID: slot.ID, RequesterID: s.school, Description: "Visit", Status: model.AppointmentStatusActive}
	ok, err := appts.Book(ctx, appt, now)
	require.NoError(t, err)
	require.True(t, ok)

	pending, err := appts.PendingReminders(ctx, model.Reminder30Min, now)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "Health", pending[0].DepartmentName)
	assert.Equal(t, s.dept, pending[0].DepartmentID())

	claimed, err := appts.ClaimReminder(ctx, appt.ID, model.Reminder30Min)
	require.NoError(t, err)
	assert.True(t, claimed)
	claimed, err = appts.ClaimReminder(ctx, appt.ID, model.Reminder30Min)
	require.NoError(t, err)
	assert.False(t, claimed)

	reason := "Closed"
	ok, err = appts.Transition(ctx, appt.ID, model.StatusChange{To: model.AppointmentStatusCancelled, CancelReason: &reason})
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = appts.Transition(ctx, appt.ID, model.StatusChange{To: model.AppointmentStatusCompleted})
	require.NoError(t, err)
	assert.False(t, ok)

	deleted, err := slots.DeleteUnreferenced(ctx, slot.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
	history, err := slots.HasAppointments(ctx, slot.ID)
	require.NoError(t, err)
	assert.True(t, history)

	reopened, err := slots.Reopen(ctx, slot.ID)
	require.NoError(t, err)
	assert.True(t, reopened)

	staff, err := NewProfileRepository(pool).ListDepartmentStaff(ctx, s.dept)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{s.staff}, staff)
}

func TestPostgres_Notifications(t *testing.T) {
	pool := setupTestDB(t)
	s := seedDirectory(t, pool)
	ctx := context.Background()
	repo := NewNotificationRepository(pool)

	batch := []*model.Notification{
		{UserID: s.school, Title: "First", Message: "a"},
		{UserID: s.staff, Title: "Second", Message: "b"},
	}
	require.NoError(t, repo.Append(ctx, batch))
	for _, n := range batch {
		assert.NotEqual(t, uuid.Nil, n.ID)
		assert.False(t, n.CreatedAt.IsZero())
	}

	got, err := repo.ListByUser(ctx, s.school, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "First", got[0].Title)
}
