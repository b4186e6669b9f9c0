package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Freeeeeet/agenda_service/internal/model"
	"github.com/google/uuid"
)

type AppointmentRepository struct {
	s *Store
}

func (r *AppointmentRepository) Book(ctx context.Context, appt *model.Appointment, now time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	slot, ok := r.s.slots[appt.TimeslotID]
	if !ok || !slot.IsAvailable || !slot.StartTime.After(now) {
		return false, nil
	}
	for _, a := range r.s.appointments {
		if a.TimeslotID == slot.ID && a.Status == model.AppointmentStatusActive {
			return false, nil
		}
	}

	slot.IsAvailable = false
	appt.ID = uuid.New()
	appt.CreatedAt = r.s.now()
	appt.Notified30Min = false
	appt.Notified10Min = false
	stored := *appt
	stored.Slot = nil
	stored.DepartmentName = ""
	r.s.appointments[appt.ID] = &stored
	return true, nil
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.appointments[id]
	if !ok {
		return nil, nil
	}
	return r.s.appointmentView(a), nil
}

func (r *AppointmentRepository) Transition(ctx context.Context, id uuid.UUID, change model.StatusChange) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.appointments[id]
	if !ok || a.Status != model.AppointmentStatusActive {
		return false, nil
	}
	a.Status = change.To
	if change.CancelReason != nil {
		reason := *change.CancelReason
		a.CancelReason = &reason
	}
	if change.DepartmentNotes != nil {
		notes := *change.DepartmentNotes
		a.DepartmentNotes = &notes
	}
	return true, nil
}

func (r *AppointmentRepository) Rate(ctx context.Context, id uuid.UUID, rating int, schoolNotes *string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.appointments[id]
	if !ok || a.Status != model.AppointmentStatusCompleted {
		return false, nil
	}
	a.Rating = &rating
	if schoolNotes != nil {
		notes := *schoolNotes
		a.SchoolNotes = &notes
	} else {
		a.SchoolNotes = nil
	}
	return true, nil
}

func (r *AppointmentRepository) ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]*model.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := r.s.filterAppointments(func(a *model.Appointment) bool {
		return a.RequesterID == requesterID
	})
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartTime().After(out[j].StartTime())
	})
	return out, nil
}

func (r *AppointmentRepository) ListByDepartment(ctx context.Context, departmentID uuid.UUID) ([]*model.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return r.s.filterAppointments(func(a *model.Appointment) bool {
		slot, ok := r.s.slots[a.TimeslotID]
		return ok && slot.DepartmentID == departmentID
	}), nil
}

func (r *AppointmentRepository) PendingReminders(ctx context.Context, kind model.ReminderKind, now time.Time) ([]*model.Appointment, error) {
	if kind.Column() == "" {
		return nil, fmt.Errorf("unknown reminder kind %q", kind)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return r.s.filterAppointments(func(a *model.Appointment) bool {
		slot, ok := r.s.slots[a.TimeslotID]
		return ok &&
			a.Status == model.AppointmentStatusActive &&
			!a.Notified(kind) &&
			slot.StartTime.After(now)
	}), nil
}

func (r *AppointmentRepository) ClaimReminder(ctx context.Context, id uuid.UUID, kind model.ReminderKind) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.appointments[id]
	if !ok || a.Status != model.AppointmentStatusActive || a.Notified(kind) {
		return false, nil
	}
	switch kind {
	case model.Reminder30Min:
		a.Notified30Min = true
	case model.Reminder10Min:
		a.Notified10Min = true
	default:
		return false, fmt.Errorf("unknown reminder kind %q", kind)
	}
	return true, nil
}
