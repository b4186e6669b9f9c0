package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusActive    AppointmentStatus = "active"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusNoShow    AppointmentStatus = "no-show"
)

// RequesterCancelReason is stored when the booking school cancels on its own.
const RequesterCancelReason = "Cancelled by requester"

const (
	MinRating = 1
	MaxRating = 5
)

// Valid reports whether s is one of the known statuses.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusActive, AppointmentStatusCancelled, AppointmentStatusCompleted, AppointmentStatusNoShow:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition may leave s.
func (s AppointmentStatus) IsTerminal() bool {
	switch s {
	case AppointmentStatusCancelled, AppointmentStatusCompleted, AppointmentStatusNoShow:
		return true
	}
	return false
}

// CanTransition reports whether the lifecycle allows moving from s to next.
func (s AppointmentStatus) CanTransition(next AppointmentStatus) bool {
	switch s {
	case AppointmentStatusActive:
		switch next {
		case AppointmentStatusCancelled, AppointmentStatusCompleted, AppointmentStatusNoShow:
			return true
		}
		return false
	case AppointmentStatusCancelled, AppointmentStatusCompleted, AppointmentStatusNoShow:
		return false
	}
	return false
}

type Appointment struct {
	ID              uuid.UUID         `json:"id"`
	TimeslotID      uuid.UUID         `json:"timeslot_id"`
	RequesterID     uuid.UUID         `json:"requester_id"`
	Description     string            `json:"description"`
	Status          AppointmentStatus `json:"status"`
	CancelReason    *string           `json:"cancel_reason"`
	DepartmentNotes *string           `json:"department_notes"`
	SchoolNotes     *string           `json:"school_notes"`
	Rating          *int              `json:"rating"`
	Notified30Min   bool              `json:"notified_30min"`
	Notified10Min   bool              `json:"notified_10min"`
	CreatedAt       time.Time         `json:"created_at"`

	// Populated by joins, not stored on the appointments row
	Slot           *TimeSlot `json:"timeslot,omitempty"`
	DepartmentName string    `json:"department_name,omitempty"`
}

// StartTime returns the start of the booked slot, zero if the slot was not loaded.
func (a *Appointment) StartTime() time.Time {
	if a.Slot == nil {
		return time.Time{}
	}
	return a.Slot.StartTime
}

// DepartmentID returns the owning department of the booked slot.
func (a *Appointment) DepartmentID() uuid.UUID {
	if a.Slot == nil {
		return uuid.Nil
	}
	return a.Slot.DepartmentID
}

// Notified reports the idempotency flag for the given reminder.
func (a *Appointment) Notified(kind ReminderKind) bool {
	switch kind {
	case Reminder30Min:
		return a.Notified30Min
	case Reminder10Min:
		return a.Notified10Min
	}
	return false
}

// StatusChange describes a single lifecycle transition out of the active state.
type StatusChange struct {
	To              AppointmentStatus
	CancelReason    *string
	DepartmentNotes *string
}
