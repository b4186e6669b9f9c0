package service

import (
	"context"
	"iter"
	"time"

	"github.com/Freeeeeet/agenda_service/internal/model"
	"github.com/google/uuid"
)

// Clock returns the current wall-clock time
type Clock func() time.Time

type SlotStore interface {
	CreateBatch(ctx context.Context, slots []*model.TimeSlot) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.TimeSlot, error)
	ListAvailable(ctx context.Context, departmentID uuid.UUID, notBefore time.Time) iter.Seq2[*model.TimeSlot, error]
	ListByDepartment(ctx context.Context, departmentID uuid.UUID) ([]*model.TimeSlot, error)
	DeleteUnreferenced(ctx context.Context, id uuid.UUID) (bool, error)
	HasAppointments(ctx context.Context, id uuid.UUID) (bool, error)
	Reopen(ctx context.Context, id uuid.UUID) (bool, error)
}

type AppointmentStore interface {
	Book(ctx context.Context, appt *model.Appointment, now time.Time) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	Transition(ctx context.Context, id uuid.UUID, change model.StatusChange) (bool, error)
	Rate(ctx context.Context, id uuid.UUID, rating int, schoolNotes *string) (bool, error)
	ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]*model.Appointment, error)
	ListByDepartment(ctx context.Context, departmentID uuid.UUID) ([]*model.Appointment, error)
	PendingReminders(ctx context.Context, kind model.ReminderKind, now time.Time) ([]*model.Appointment, error)
	ClaimReminder(ctx context.Context, id uuid.UUID, kind model.ReminderKind) (bool, error)
}

type NotificationSink interface {
	Append(ctx context.Context, notifications []*model.Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*model.Notification, error)
}

type StaffDirectory interface {
	ListDepartmentStaff(ctx context.Context, departmentID uuid.UUID) ([]uuid.UUID, error)
}

type DepartmentLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Department, error)
}

// Deliverer pushes an already stored notification to an outside channel
type Deliverer interface {
	Deliver(ctx context.Context, n *model.Notification) error
}
