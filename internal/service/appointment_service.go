package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/agenda_service/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CancellationLeadTime is the minimum notice a requester must give to cancel.
const CancellationLeadTime = 2 * time.Hour

type AppointmentService struct {
	slots        SlotStore
	appointments AppointmentStore
	notifier     *Notifier
	messages     *Messages
	now          Clock
	logger       *zap.Logger
}

func NewAppointmentService(
	slots SlotStore,
	appointments AppointmentStore,
	notifier *Notifier,
	messages *Messages,
	now Clock,
	logger *zap.Logger,
) *AppointmentService {
	if now == nil {
		now = time.Now
	}
	return &AppointmentService{
		slots:        slots,
		appointments: appointments,
		notifier:     notifier,
		messages:     messages,
		now:          now,
		logger:       logger,
	}
}

// Book reserves a free future slot for the requester.
func (s *AppointmentService) Book(ctx context.Context, timeslotID, requesterID uuid.UUID, description string) (*model.Appointment, error) {
	description = SanitizeText(description, MaxTextLength)
	if description == "" {
		return nil, &ValidationError{Field: "description", Message: "must not be empty"}
	}

	slot, err := s.slots.GetByID(ctx, timeslotID)
	if err != nil {
		return nil, fmt.Errorf("get slot: %w", err)
	}
	if slot == nil {
		return nil, ErrSlotNotFound
	}

	now := s.now()
	if !slot.StartTime.After(now) {
		return nil, ErrSlotInPast
	}

	appt := &model.Appointment{
		TimeslotID:  timeslotID,
		RequesterID: requesterID,
		Description: description,
		Status:      model.AppointmentStatusActive,
	}

	booked, err := s.appointments.Book(ctx, appt, now)
	if err != nil {
		return nil, fmt.Errorf("book slot: %w", err)
	}
	if !booked {
		return nil, ErrSlotNoLongerAvailable
	}

	slot.IsAvailable = false
	appt.Slot = slot

	s.logger.Info("Appointment booked",
		zap.String("appointment_id", appt.ID.String()),
		zap.String("timeslot_id", timeslotID.String()),
		zap.String("requester_id", requesterID.String()),
	)

	return appt, nil
}

// Get returns the appointment joined with its slot or ErrAppointmentNotFound.
func (s *AppointmentService) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	appt, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	if appt == nil {
		return nil, ErrAppointmentNotFound
	}
	return appt, nil
}

func (s *AppointmentService) ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]*model.Appointment, error) {
	appts, err := s.appointments.ListByRequester(ctx, requesterID)
	if err != nil {
		return nil, fmt.Errorf("list requester appointments: %w", err)
	}
	return appts, nil
}

func (s *AppointmentService) ListByDepartment(ctx context.Context, departmentID uuid.UUID) ([]*model.Appointment, error) {
	appts, err := s.appointments.ListByDepartment(ctx, departmentID)
	if err != nil {
		return nil, fmt.Errorf("list department appointments: %w", err)
	}
	return appts, nil
}

// CancelByStaff cancels an active appointment on behalf of the department.
func (s *AppointmentService) CancelByStaff(ctx context.Context, id uuid.UUID, reason string) (*model.Appointment, error) {
	reason = SanitizeText(reason, MaxTextLength)
	if reason == "" {
		return nil, &ValidationError{Field: "reason", Message: "must not be empty"}
	}

	appt, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireTransition(appt, model.AppointmentStatusCancelled); err != nil {
		return nil, err
	}

	appt, err = s.transition(ctx, appt, model.StatusChange{
		To:           model.AppointmentStatusCancelled,
		CancelReason: &reason,
	})
	if err != nil {
		return nil, err
	}

	s.notifyRequester(ctx, appt, s.messages.StaffCancelled(appt, reason))
	return appt, nil
}

// CancelByRequester cancels the requester's own appointment given enough notice.
func (s *AppointmentService) CancelByRequester(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	appt, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireTransition(appt, model.AppointmentStatusCancelled); err != nil {
		return nil, err
	}

	lead := appt.StartTime().Sub(s.now())
	if lead <= 0 {
		return nil, ErrAppointmentStarted
	}
	if lead < CancellationLeadTime {
		return nil, ErrCancellationWindowClosed
	}

	reason := model.RequesterCancelReason
	appt, err = s.transition(ctx, appt, model.StatusChange{
		To:           model.AppointmentStatusCancelled,
		CancelReason: &reason,
	})
	if err != nil {
		return nil, err
	}

	s.notifyDepartment(ctx, appt, s.messages.RequesterCancelled(appt))
	return appt, nil
}

// MarkNoShow records that the requester did not attend a started appointment.
func (s *AppointmentService) MarkNoShow(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	appt, err := s.startedAppointment(ctx, id, model.AppointmentStatusNoShow)
	if err != nil {
		return nil, err
	}

	appt, err = s.transition(ctx, appt, model.StatusChange{To: model.AppointmentStatusNoShow})
	if err != nil {
		return nil, err
	}

	s.notifyRequester(ctx, appt, s.messages.NoShow(appt))
	return appt, nil
}

// Complete closes a started appointment with optional department notes.
func (s *AppointmentService) Complete(ctx context.Context, id uuid.UUID, notes string) (*model.Appointment, error) {
	appt, err := s.startedAppointment(ctx, id, model.AppointmentStatusCompleted)
	if err != nil {
		return nil, err
	}

	appt, err = s.transition(ctx, appt, model.StatusChange{
		To:              model.AppointmentStatusCompleted,
		DepartmentNotes: optionalText(notes),
	})
	if err != nil {
		return nil, err
	}

	s.notifyRequester(ctx, appt, s.messages.Completed(appt))
	return appt, nil
}

// Rate stores the requester's rating of a completed appointment. Rating again overwrites.
func (s *AppointmentService) Rate(ctx context.Context, id uuid.UUID, rating int, notes string) (*model.Appointment, error) {
	if rating < model.MinRating || rating > model.MaxRating {
		return nil, &ValidationError{
			Field:   "rating",
			Message: fmt.Sprintf("must be between %d and %d", model.MinRating, model.MaxRating),
		}
	}

	appt, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt.Status != model.AppointmentStatusCompleted {
		return nil, fmt.Errorf("%w: cannot rate %s appointment", ErrInvalidTransition, appt.Status)
	}

	ok, err := s.appointments.Rate(ctx, id, rating, optionalText(notes))
	if err != nil {
		return nil, fmt.Errorf("rate appointment: %w", err)
	}
	if !ok {
		return nil, s.staleError(ctx, id, "rate")
	}

	appt, err = s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Appointment rated",
		zap.String("appointment_id", id.String()),
		zap.Int("rating", rating),
	)

	s.notifyDepartment(ctx, appt, s.messages.Rated(appt, rating))
	return appt, nil
}

func (s *AppointmentService) startedAppointment(ctx context.Context, id uuid.UUID, to model.AppointmentStatus) (*model.Appointment, error) {
	appt, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireTransition(appt, to); err != nil {
		return nil, err
	}
	if appt.StartTime().After(s.now()) {
		return nil, ErrAppointmentNotStarted
	}
	return appt, nil
}

// transition applies the change only while the appointment is still active
// and returns the refreshed row.
func (s *AppointmentService) transition(ctx context.Context, appt *model.Appointment, change model.StatusChange) (*model.Appointment, error) {
	ok, err := s.appointments.Transition(ctx, appt.ID, change)
	if err != nil {
		return nil, fmt.Errorf("update appointment status: %w", err)
	}
	if !ok {
		return nil, s.staleError(ctx, appt.ID, string(change.To))
	}

	updated, err := s.Get(ctx, appt.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Appointment status changed",
		zap.String("appointment_id", appt.ID.String()),
		zap.String("from", string(appt.Status)),
		zap.String("to", string(change.To)),
	)

	return updated, nil
}

// staleError explains a conditional update that matched no row.
func (s *AppointmentService) staleError(ctx context.Context, id uuid.UUID, action string) error {
	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: cannot %s %s appointment", ErrInvalidTransition, action, current.Status)
}

func requireTransition(appt *model.Appointment, to model.AppointmentStatus) error {
	if !appt.Status.CanTransition(to) {
		return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, appt.Status, to)
	}
	return nil
}

func (s *AppointmentService) notifyRequester(ctx context.Context, appt *model.Appointment, msg Message) {
	if err := s.notifier.NotifyUser(ctx, appt.RequesterID, msg); err != nil {
		s.logger.Error("Failed to notify requester",
			zap.String("appointment_id", appt.ID.String()),
			zap.Error(err),
		)
	}
}

func (s *AppointmentService) notifyDepartment(ctx context.Context, appt *model.Appointment, msg Message) {
	if _, err := s.notifier.NotifyDepartment(ctx, appt.DepartmentID(), msg); err != nil {
		s.logger.Error("Failed to notify department",
			zap.String("appointment_id", appt.ID.String()),
			zap.Error(err),
		)
	}
}
