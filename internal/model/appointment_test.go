package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAppointmentStatus_CanTransition(t *testing.T) {
	all := []AppointmentStatus{
		AppointmentStatusActive,
		AppointmentStatusCancelled,
		AppointmentStatusCompleted,
		AppointmentStatusNoShow,
	}

	for _, from := range all {
		for _, to := range all {
			want := from == AppointmentStatusActive && to != AppointmentStatusActive
			assert.Equal(t, want, from.CanTransition(to), "%s -> %s", from, to)
		}
	}

	assert.False(t, AppointmentStatusActive.CanTransition("archived"))
}

func TestAppointmentStatus_Valid(t *testing.T) {
	assert.True(t, AppointmentStatusNoShow.Valid())
	assert.False(t, AppointmentStatus("no_show").Valid())
	assert.False(t, AppointmentStatusActive.IsTerminal())
	assert.True(t, AppointmentStatusCompleted.IsTerminal())
}

func TestAppointment_SlotAccessors(t *testing.T) {
	var a Appointment
	assert.True(t, a.StartTime().IsZero())

	start := time.Date(2025, 3, 11, 11, 0, 0, 0, time.UTC)
	a.Slot = &TimeSlot{StartTime: start, EndTime: start.Add(30 * time.Minute)}
	a.Notified10Min = true

	assert.Equal(t, start, a.StartTime())
	assert.Equal(t, 30*time.Minute, a.Slot.Duration())
	assert.True(t, a.Notified(Reminder10Min))
	assert.False(t, a.Notified(Reminder30Min))
}
