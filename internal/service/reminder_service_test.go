package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Freeeeeet/agenda_service/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestReminderRun_ThirtyThenTenMinutes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	appt := f.book(t, f.slotIn(25*time.Minute))

	res, err := f.reminders.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Processed)
	assert.Equal(t, 1, res.ByKind[model.Reminder30Min])
	assert.Equal(t, 0, res.ByKind[model.Reminder10Min])

	schoolNotes := f.notificationsFor(f.school.ID)
	require.Len(t, schoolNotes, 1)
	assert.Equal(t, "Appointment reminder", schoolNotes[0].Title)
	assert.Contains(t, schoolNotes[0].Message, "30 minutes")
	assert.Len(t, f.notificationsFor(f.staff.ID), 1)

	res, err = f.reminders.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Processed, "a claimed reminder is never sent twice")

	f.clock.Advance(16 * time.Minute)
	res, err = f.reminders.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Processed)
	assert.Equal(t, 1, res.ByKind[model.Reminder10Min])

	stored, err := f.appointments.Get(ctx, appt.ID)
	require.NoError(t, err)
	assert.True(t, stored.Notified30Min)
	assert.True(t, stored.Notified10Min)

	schoolNotes = f.notificationsFor(f.school.ID)
	require.Len(t, schoolNotes, 2)
	assert.Equal(t, "Appointment starting soon", schoolNotes[1].Title)
}

func TestReminderRun_BothThresholdsInOnePass(t *testing.T) {
	f := newFixture(t)
	f.book(t, f.slotIn(5*time.Minute))

	res, err := f.reminders.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Processed)
	assert.Len(t, f.notificationsFor(f.school.ID), 2)
	assert.Len(t, f.notificationsFor(f.staff.ID), 2)
}

func TestReminderRun_Window(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.book(t, f.slotIn(45*time.Minute))
	f.book(t, f.slotIn(30*time.Minute))
	cancelled := f.book(t, f.slotIn(20*time.Minute))
	_, err := f.appointments.CancelByStaff(ctx, cancelled.ID, "Closed")
	require.NoError(t, err)
	f.book(t, f.slotIn(time.Minute))

	res, err := f.reminders.RunAt(ctx, f.clock.Now().Add(time.Minute))
	require.NoError(t, err)
	// Only the appointment now 29 minutes away is due
	assert.Equal(t, 1, res.Processed)
	assert.Equal(t, 1, res.ByKind[model.Reminder30Min])
}

func TestReminderRun_IdleWithoutAppointments(t *testing.T) {
	f := newFixture(t)

	res, err := f.reminders.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, res.Processed)
	assert.Len(t, res.ByKind, len(model.ReminderKinds))
}

func TestReminderRun_StaffLookupFailureStillNotifiesRequester(t *testing.T) {
	f := newFixture(t)
	f.wire(f.store.Notifications(), failingStaff{})
	f.book(t, f.slotIn(20*time.Minute))

	res, err := f.reminders.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Processed)
	assert.Len(t, f.notificationsFor(f.school.ID), 1)
	assert.Empty(t, f.notificationsFor(f.staff.ID))
}

func TestReminderRun_SinkFailureStillClaims(t *testing.T) {
	f := newFixture(t)
	f.wire(failingSink{}, f.store.Profiles())
	appt := f.book(t, f.slotIn(20*time.Minute))

	res, err := f.reminders.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Processed)

	stored, err := f.appointments.Get(context.Background(), appt.ID)
	require.NoError(t, err)
	assert.True(t, stored.Notified30Min)
}

// brokenAppointments fails the reminder queries
type brokenAppointments struct {
	AppointmentStore
	listErr  error
	claimErr error
}

func (b brokenAppointments) PendingReminders(ctx context.Context, kind model.ReminderKind, now time.Time) ([]*model.Appointment, error) {
	if b.listErr != nil {
		return nil, b.listErr
	}
	return b.AppointmentStore.PendingReminders(ctx, kind, now)
}

func (b brokenAppointments) ClaimReminder(ctx context.Context, id uuid.UUID, kind model.ReminderKind) (bool, error) {
	if b.claimErr != nil {
		return false, b.claimErr
	}
	return b.AppointmentStore.ClaimReminder(ctx, id, kind)
}

func TestReminderRun_StoreFailureFailsRun(t *testing.T) {
	storeDown := errors.New("connection refused")

	t.Run("listing", func(t *testing.T) {
		f := newFixture(t)
		f.book(t, f.slotIn(20*time.Minute))
		svc := NewReminderService(
			brokenAppointments{AppointmentStore: f.store.Appointments(), listErr: storeDown},
			f.notifier, NewMessages(saoPaulo), f.clock.Now, zap.NewNop(),
		)

		_, err := svc.Run(context.Background())
		require.ErrorIs(t, err, storeDown)
		assert.Equal(t, KindInternal, KindOf(err))
		assert.Empty(t, f.store.AllNotifications())
	})

	t.Run("claim", func(t *testing.T) {
		f := newFixture(t)
		f.book(t, f.slotIn(20*time.Minute))
		svc := NewReminderService(
			brokenAppointments{AppointmentStore: f.store.Appointments(), claimErr: storeDown},
			f.notifier, NewMessages(saoPaulo), f.clock.Now, zap.NewNop(),
		)

		res, err := svc.Run(context.Background())
		require.ErrorIs(t, err, storeDown)
		assert.Zero(t, res.Processed)
		assert.Empty(t, f.store.AllNotifications())
	})
}
