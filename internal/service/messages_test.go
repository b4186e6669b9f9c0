package service

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Freeeeeet/agenda_service/internal/model"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
)

func sampleAppointment() *model.Appointment {
	start := time.Date(2025, 3, 11, 17, 30, 0, 0, time.UTC)
	return &model.Appointment{
		Description:    "Vaccination campaign",
		Status:         model.AppointmentStatusActive,
		DepartmentName: "Health",
		Slot: &model.TimeSlot{
			StartTime: start,
			EndTime:   start.Add(30 * time.Minute),
		},
	}
}

func TestMessages_Golden(t *testing.T) {
	m := NewMessages(saoPaulo)
	appt := sampleAppointment()

	cases := []struct {
		name string
		msg  Message
	}{
		{"staff_cancelled", m.StaffCancelled(appt, "Staff unavailable")},
		{"requester_cancelled", m.RequesterCancelled(appt)},
		{"no_show", m.NoShow(appt)},
		{"completed", m.Completed(appt)},
		{"rated", m.Rated(appt, 4)},
		{"reminder_requester_30min", m.ReminderForRequester(model.Reminder30Min, appt)},
		{"reminder_requester_10min", m.ReminderForRequester(model.Reminder10Min, appt)},
		{"reminder_staff_30min", m.ReminderForStaff(model.Reminder30Min, appt)},
		{"reminder_staff_10min", m.ReminderForStaff(model.Reminder10Min, appt)},
	}

	var b strings.Builder
	for _, c := range cases {
		fmt.Fprintf(&b, "%s\n%s\n%s\n\n", c.name, c.msg.Title, c.msg.Body)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "messages", []byte(b.String()))
}

func TestMessages_DepartmentFallback(t *testing.T) {
	appt := sampleAppointment()
	appt.DepartmentName = ""

	msg := NewMessages(time.UTC).NoShow(appt)

	assert.Equal(t, "Your appointment with the department on 11/03/2025 at 17:30 was recorded as a no-show.", msg.Body)
}
