package service

import (
	"context"
	"testing"
	"time"

	"github.com/Freeeeeet/agenda_service/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppointmentLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	slots, err := f.slots.GenerateSlots(ctx, SlotRequest{
		DepartmentID:    f.dept.ID,
		Date:            "2025-03-11",
		Start:           "08:00",
		End:             "08:30",
		DurationMinutes: 30,
	})
	require.NoError(t, err)
	require.Len(t, slots, 1)
	slot := slots[0]

	appt, err := f.appointments.Book(ctx, slot.ID, f.school.ID, "Vaccination campaign")
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusActive, appt.Status)

	stored, err := f.slots.Get(ctx, slot.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsAvailable)

	res, err := f.reminders.RunAt(ctx, slot.StartTime.Add(-25*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1, res.ByKind[model.Reminder30Min])
	assert.Equal(t, 0, res.ByKind[model.Reminder10Min])

	appt, err = f.appointments.Get(ctx, appt.ID)
	require.NoError(t, err)
	assert.True(t, appt.Notified30Min)
	assert.False(t, appt.Notified10Min)

	f.clock.Set(slot.StartTime.Add(20 * time.Minute))
	appt, err = f.appointments.Complete(ctx, appt.ID, "Resolved")
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCompleted, appt.Status)
	require.NotNil(t, appt.DepartmentNotes)
	assert.Equal(t, "Resolved", *appt.DepartmentNotes)

	requesterNotes := f.notificationsFor(f.school.ID)
	require.Len(t, requesterNotes, 2)
	assert.Equal(t, "Appointment completed", requesterNotes[1].Title)

	appt, err = f.appointments.Rate(ctx, appt.ID, 5, "Great service")
	require.NoError(t, err)
	assert.Equal(t, 5, *appt.Rating)
	assert.Equal(t, "Great service", *appt.SchoolNotes)

	appt, err = f.appointments.Rate(ctx, appt.ID, 1, "")
	require.NoError(t, err)
	assert.Equal(t, 1, *appt.Rating)
}
