package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/agenda_service/internal/model"
	"go.uber.org/zap"
)

// RunResult counts reminders emitted by one dispatcher pass.
type RunResult struct {
	Processed int                        `json:"processed"`
	ByKind    map[model.ReminderKind]int `json:"by_kind"`
}

type ReminderService struct {
	appointments AppointmentStore
	notifier     *Notifier
	messages     *Messages
	now          Clock
	logger       *zap.Logger
}

func NewReminderService(
	appointments AppointmentStore,
	notifier *Notifier,
	messages *Messages,
	now Clock,
	logger *zap.Logger,
) *ReminderService {
	if now == nil {
		now = time.Now
	}
	return &ReminderService{
		appointments: appointments,
		notifier:     notifier,
		messages:     messages,
		now:          now,
		logger:       logger,
	}
}

// Run dispatches the reminders due at the current clock time.
func (s *ReminderService) Run(ctx context.Context) (RunResult, error) {
	return s.RunAt(ctx, s.now())
}

// RunAt dispatches every reminder due at now. Each reminder is claimed before it
// is emitted, so overlapping runs never send the same one twice.
func (s *ReminderService) RunAt(ctx context.Context, now time.Time) (RunResult, error) {
	result := RunResult{ByKind: make(map[model.ReminderKind]int, len(model.ReminderKinds))}

	for _, kind := range model.ReminderKinds {
		n, err := s.dispatch(ctx, kind, now)
		result.ByKind[kind] = n
		result.Processed += n
		if err != nil {
			return result, err
		}
	}

	s.logger.Info("Reminder run finished",
		zap.Int("processed", result.Processed),
		zap.Time("at", now),
	)

	return result, nil
}

func (s *ReminderService) dispatch(ctx context.Context, kind model.ReminderKind, now time.Time) (int, error) {
	pending, err := s.appointments.PendingReminders(ctx, kind, now)
	if err != nil {
		return 0, fmt.Errorf("list pending %s reminders: %w", kind, err)
	}

	sent := 0
	for _, appt := range pending {
		if !kind.Due(appt.StartTime(), now) {
			continue
		}

		claimed, err := s.appointments.ClaimReminder(ctx, appt.ID, kind)
		if err != nil {
			return sent, fmt.Errorf("claim %s reminder: %w", kind, err)
		}
		if !claimed {
			continue
		}

		s.emit(ctx, kind, appt)
		sent++
	}

	return sent, nil
}

func (s *ReminderService) emit(ctx context.Context, kind model.ReminderKind, appt *model.Appointment) {
	if err := s.notifier.NotifyUser(ctx, appt.RequesterID, s.messages.ReminderForRequester(kind, appt)); err != nil {
		s.logger.Error("Failed to send requester reminder",
			zap.String("appointment_id", appt.ID.String()),
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
	}

	staff, err := s.notifier.NotifyDepartment(ctx, appt.DepartmentID(), s.messages.ReminderForStaff(kind, appt))
	if err != nil {
		s.logger.Warn("Failed to send department reminder",
			zap.String("appointment_id", appt.ID.String()),
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
	}

	s.logger.Info("Reminder sent",
		zap.String("appointment_id", appt.ID.String()),
		zap.String("kind", string(kind)),
		zap.Int("staff_notified", staff),
	)
}
