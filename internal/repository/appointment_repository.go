package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/agenda_service/internal/model"
	"github.com/Freeeeeet/agenda_service/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const appointmentSelect = `
	SELECT a.id, a.timeslot_id, a.requester_id, a.description, a.status,
	       a.cancel_reason, a.department_notes, a.school_notes, a.rating,
	       a.notified_30min, a.notified_10min, a.created_at,
	       t.id, t.department_id, t.start_time, t.end_time, t.is_available, t.created_at,
	       d.name
	FROM appointments a
	JOIN timeslots t ON t.id = a.timeslot_id
	JOIN departments d ON d.id = t.department_id
`

var errSlotTaken = errors.New("slot taken")

type AppointmentRepository struct {
	*base.Repository
}

func NewAppointmentRepository(pool *pgxpool.Pool) *AppointmentRepository {
	return &AppointmentRepository{Repository: base.NewRepository(pool)}
}

// Book reserves the slot and inserts the appointment in one transaction.
// Returns false if the slot was already taken, unavailable or no longer in the future.
func (r *AppointmentRepository) Book(ctx context.Context, appt *model.Appointment, now time.Time) (bool, error) {
	reserve := `
		UPDATE timeslots
		SET is_available = false
		WHERE id = $1 AND is_available = true AND start_time > $2
	`
	insert := `
		INSERT INTO appointments (timeslot_id, requester_id, description, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, notified_30min, notified_10min, created_at
	`

	err := r.InTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, reserve, appt.TimeslotID, now)
		if err != nil {
			return fmt.Errorf("reserve slot: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return errSlotTaken
		}

		err = tx.QueryRow(ctx, insert,
			appt.TimeslotID,
			appt.RequesterID,
			appt.Description,
			appt.Status,
		).Scan(&appt.ID, &appt.Notified30Min, &appt.Notified10Min, &appt.CreatedAt)
		if err != nil {
			if base.IsUniqueViolation(err) {
				return errSlotTaken
			}
			return fmt.Errorf("create appointment: %w", err)
		}
		return nil
	})

	if errors.Is(err, errSlotTaken) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetByID returns the appointment with its slot, or nil if it does not exist
func (r *AppointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return getAppointment(ctx, r.Pool(), id)
}

// Transition applies change only while the appointment is still active.
// Returns false if the row is missing or already left the active state.
func (r *AppointmentRepository) Transition(ctx context.Context, id uuid.UUID, change model.StatusChange) (bool, error) {
	query := `
		UPDATE appointments
		SET status = $2,
		    cancel_reason = COALESCE($3, cancel_reason),
		    department_notes = COALESCE($4, department_notes)
		WHERE id = $1 AND status = 'active'
	`

	affected, err := r.ExecAffected(ctx, query, id, change.To, change.CancelReason, change.DepartmentNotes)
	if err != nil {
		return false, fmt.Errorf("update appointment status: %w", err)
	}

	return affected > 0, nil
}

// Rate stores rating and school notes on a completed appointment, overwriting earlier values
func (r *AppointmentRepository) Rate(ctx context.Context, id uuid.UUID, rating int, schoolNotes *string) (bool, error) {
	query := `
		UPDATE appointments
		SET rating = $2, school_notes = $3
		WHERE id = $1 AND status = 'completed'
	`

	affected, err := r.ExecAffected(ctx, query, id, rating, schoolNotes)
	if err != nil {
		return false, fmt.Errorf("rate appointment: %w", err)
	}

	return affected > 0, nil
}

// ListByRequester returns the requester's appointments, newest slot first
func (r *AppointmentRepository) ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]*model.Appointment, error) {
	query := appointmentSelect + `
		WHERE a.requester_id = $1
		ORDER BY t.start_time DESC
	`

	appts, err := queryAppointments(ctx, r.Pool(), query, requesterID)
	if err != nil {
		return nil, fmt.Errorf("get appointments by requester: %w", err)
	}
	return appts, nil
}

// ListByDepartment returns the department's appointments ordered by slot start
func (r *AppointmentRepository) ListByDepartment(ctx context.Context, departmentID uuid.UUID) ([]*model.Appointment, error) {
	query := appointmentSelect + `
		WHERE t.department_id = $1
		ORDER BY t.start_time
	`

	appts, err := queryAppointments(ctx, r.Pool(), query, departmentID)
	if err != nil {
		return nil, fmt.Errorf("get appointments by department: %w", err)
	}
	return appts, nil
}

// PendingReminders returns active appointments whose reminder flag is unset and that have not started yet
func (r *AppointmentRepository) PendingReminders(ctx context.Context, kind model.ReminderKind, now time.Time) ([]*model.Appointment, error) {
	column := kind.Column()
	if column == "" {
		return nil, fmt.Errorf("unknown reminder kind %q", kind)
	}

	query := appointmentSelect + `
		WHERE a.status = 'active'
		  AND a.` + column + ` = false
		  AND t.start_time > $1
		ORDER BY t.start_time
	`

	appts, err := queryAppointments(ctx, r.Pool(), query, now)
	if err != nil {
		return nil, fmt.Errorf("get pending %s reminders: %w", kind, err)
	}
	return appts, nil
}

// ClaimReminder flips the reminder flag. Only one caller ever gets true for a given appointment and kind.
func (r *AppointmentRepository) ClaimReminder(ctx context.Context, id uuid.UUID, kind model.ReminderKind) (bool, error) {
	column := kind.Column()
	if column == "" {
		return false, fmt.Errorf("unknown reminder kind %q", kind)
	}

	query := `
		UPDATE appointments
		SET ` + column + ` = true
		WHERE id = $1 AND ` + column + ` = false AND status = 'active'
	`

	affected, err := r.ExecAffected(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("claim %s reminder: %w", kind, err)
	}

	return affected > 0, nil
}

func getAppointment(ctx context.Context, q base.Querier, id uuid.UUID) (*model.Appointment, error) {
	appt, err := scanAppointment(q.QueryRow(ctx, appointmentSelect+` WHERE a.id = $1`, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get appointment by id: %w", err)
	}
	return appt, nil
}

func queryAppointments(ctx context.Context, q base.Querier, query string, args ...any) ([]*model.Appointment, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var appts []*model.Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		appts = append(appts, appt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate appointments: %w", err)
	}

	return appts, nil
}

func scanAppointment(row pgx.Row) (*model.Appointment, error) {
	var (
		appt model.Appointment
		slot model.TimeSlot
	)
	err := row.Scan(
		&appt.ID,
		&appt.TimeslotID,
		&appt.RequesterID,
		&appt.Description,
		&appt.Status,
		&appt.CancelReason,
		&appt.DepartmentNotes,
		&appt.SchoolNotes,
		&appt.Rating,
		&appt.Notified30Min,
		&appt.Notified10Min,
		&appt.CreatedAt,
		&slot.ID,
		&slot.DepartmentID,
		&slot.StartTime,
		&slot.EndTime,
		&slot.IsAvailable,
		&slot.CreatedAt,
		&appt.DepartmentName,
	)
	if err != nil {
		return nil, err
	}
	appt.Slot = &slot
	return &appt, nil
}
