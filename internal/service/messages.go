package service

import (
	"fmt"
	"time"

	"github.com/Freeeeeet/agenda_service/internal/model"
)

const (
	dateLayout = "02/01/2006"
	timeLayout = "15:04"
)

// Message is the title and body of a notification
type Message struct {
	Title string
	Body  string
}

// Messages renders notification texts with times shown in one location
type Messages struct {
	loc *time.Location
}

func NewMessages(loc *time.Location) *Messages {
	if loc == nil {
		loc = time.UTC
	}
	return &Messages{loc: loc}
}

func (m *Messages) StaffCancelled(appt *model.Appointment, reason string) Message {
	return Message{
		Title: "Appointment cancelled",
		Body: fmt.Sprintf("Your appointment with %s on %s at %s was cancelled by the department. Reason: %s",
			departmentName(appt), m.date(appt), m.clock(appt), reason),
	}
}

func (m *Messages) RequesterCancelled(appt *model.Appointment) Message {
	return Message{
		Title: "Appointment cancelled by school",
		Body:  fmt.Sprintf("A school cancelled the appointment on %s at %s.", m.date(appt), m.clock(appt)),
	}
}

func (m *Messages) NoShow(appt *model.Appointment) Message {
	return Message{
		Title: "Appointment marked as no-show",
		Body: fmt.Sprintf("Your appointment with %s on %s at %s was recorded as a no-show.",
			departmentName(appt), m.date(appt), m.clock(appt)),
	}
}

func (m *Messages) Completed(appt *model.Appointment) Message {
	return Message{
		Title: "Appointment completed",
		Body: fmt.Sprintf("Your appointment with %s on %s at %s was completed. Please rate the service.",
			departmentName(appt), m.date(appt), m.clock(appt)),
	}
}

func (m *Messages) Rated(appt *model.Appointment, rating int) Message {
	return Message{
		Title: "New rating received",
		Body: fmt.Sprintf("A school rated the appointment on %s at %s with %d/%d.",
			m.date(appt), m.clock(appt), rating, model.MaxRating),
	}
}

// ReminderForRequester is sent to the booking school
func (m *Messages) ReminderForRequester(kind model.ReminderKind, appt *model.Appointment) Message {
	minutes := int(kind.Window().Minutes())
	if kind == model.Reminder10Min {
		return Message{
			Title: "Appointment starting soon",
			Body: fmt.Sprintf("Your appointment with %s starts in %d minutes (%s)!",
				departmentName(appt), minutes, m.clock(appt)),
		}
	}
	return Message{
		Title: "Appointment reminder",
		Body: fmt.Sprintf("Your appointment with %s starts in %d minutes (%s).",
			departmentName(appt), minutes, m.clock(appt)),
	}
}

// ReminderForStaff is sent to every profile of the department
func (m *Messages) ReminderForStaff(kind model.ReminderKind, appt *model.Appointment) Message {
	minutes := int(kind.Window().Minutes())
	if kind == model.Reminder10Min {
		return Message{
			Title: "Appointment starting soon",
			Body:  fmt.Sprintf("The appointment at %s starts in %d minutes! Subject: %s", m.clock(appt), minutes, appt.Description),
		}
	}
	return Message{
		Title: "Appointment reminder",
		Body:  fmt.Sprintf("The appointment at %s starts in %d minutes. Subject: %s", m.clock(appt), minutes, appt.Description),
	}
}

func (m *Messages) date(appt *model.Appointment) string {
	return appt.StartTime().In(m.loc).Format(dateLayout)
}

func (m *Messages) clock(appt *model.Appointment) string {
	return appt.StartTime().In(m.loc).Format(timeLayout)
}

func departmentName(appt *model.Appointment) string {
	if appt.DepartmentName == "" {
		return "the department"
	}
	return appt.DepartmentName
}
