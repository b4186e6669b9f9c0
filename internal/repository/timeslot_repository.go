package repository

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/Freeeeeet/agenda_service/internal/model"
	"github.com/Freeeeeet/agenda_service/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const timeslotColumns = `id, department_id, start_time, end_time, is_available, created_at`

type TimeSlotRepository struct {
	*base.Repository
}

func NewTimeSlotRepository(pool *pgxpool.Pool) *TimeSlotRepository {
	return &TimeSlotRepository{Repository: base.NewRepository(pool)}
}

// CreateBatch inserts all slots in one transaction, filling ids and timestamps
func (r *TimeSlotRepository) CreateBatch(ctx context.Context, slots []*model.TimeSlot) error {
	query := `
		INSERT INTO timeslots (department_id, start_time, end_time, is_available)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	return r.InTx(ctx, func(tx pgx.Tx) error {
		for _, slot := range slots {
			err := tx.QueryRow(ctx, query,
				slot.DepartmentID,
				slot.StartTime,
				slot.EndTime,
				slot.IsAvailable,
			).Scan(&slot.ID, &slot.CreatedAt)
			if err != nil {
				return fmt.Errorf("create slot at %s: %w", slot.StartTime.Format(time.RFC3339), err)
			}
		}
		return nil
	})
}

// GetByID returns the slot or nil if it does not exist
func (r *TimeSlotRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.TimeSlot, error) {
	query := `SELECT ` + timeslotColumns + ` FROM timeslots WHERE id = $1`

	slot, err := scanTimeSlot(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get slot by id: %w", err)
	}

	return slot, nil
}

// ListAvailable yields free slots of a department starting at or after notBefore.
// Every iteration runs a fresh query.
func (r *TimeSlotRepository) ListAvailable(ctx context.Context, departmentID uuid.UUID, notBefore time.Time) iter.Seq2[*model.TimeSlot, error] {
	query := `
		SELECT ` + timeslotColumns + `
		FROM timeslots
		WHERE department_id = $1
		  AND is_available = true
		  AND start_time >= $2
		ORDER BY start_time
	`

	return func(yield func(*model.TimeSlot, error) bool) {
		rows, err := r.Query(ctx, query, departmentID, notBefore)
		if err != nil {
			yield(nil, fmt.Errorf("list available slots: %w", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			slot, err := scanTimeSlot(rows)
			if err != nil {
				yield(nil, fmt.Errorf("scan slot: %w", err))
				return
			}
			if !yield(slot, nil) {
				return
			}
		}

		if err := rows.Err(); err != nil {
			yield(nil, fmt.Errorf("iterate available slots: %w", err))
		}
	}
}

// ListByDepartment returns every slot of the department, oldest first
func (r *TimeSlotRepository) ListByDepartment(ctx context.Context, departmentID uuid.UUID) ([]*model.TimeSlot, error) {
	query := `
		SELECT ` + timeslotColumns + `
		FROM timeslots
		WHERE department_id = $1
		ORDER BY start_time
	`

	rows, err := r.Query(ctx, query, departmentID)
	if err != nil {
		return nil, fmt.Errorf("get slots by department: %w", err)
	}
	defer rows.Close()

	var slots []*model.TimeSlot
	for rows.Next() {
		slot, err := scanTimeSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate slots: %w", err)
	}

	return slots, nil
}

// DeleteUnreferenced removes the slot only if no appointment ever pointed at it.
// Returns false when nothing was deleted.
func (r *TimeSlotRepository) DeleteUnreferenced(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		DELETE FROM timeslots
		WHERE id = $1
		  AND NOT EXISTS (SELECT 1 FROM appointments WHERE timeslot_id = $1)
	`

	affected, err := r.ExecAffected(ctx, query, id)
	if err != nil {
		if base.IsForeignKeyViolation(err) {
			// An appointment was inserted between the check and the delete
			return false, nil
		}
		return false, fmt.Errorf("delete slot: %w", err)
	}

	return affected > 0, nil
}

// HasAppointments reports whether any appointment, in any status, references the slot
func (r *TimeSlotRepository) HasAppointments(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM appointments WHERE timeslot_id = $1)`

	var exists bool
	if err := r.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check slot history: %w", err)
	}

	return exists, nil
}

// Reopen marks the slot bookable again unless an active appointment still holds it
func (r *TimeSlotRepository) Reopen(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		UPDATE timeslots
		SET is_available = true
		WHERE id = $1
		  AND NOT EXISTS (
			SELECT 1 FROM appointments WHERE timeslot_id = $1 AND status = 'active'
		  )
	`

	affected, err := r.ExecAffected(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("reopen slot: %w", err)
	}

	return affected > 0, nil
}

func scanTimeSlot(row pgx.Row) (*model.TimeSlot, error) {
	var slot model.TimeSlot
	err := row.Scan(
		&slot.ID,
		&slot.DepartmentID,
		&slot.StartTime,
		&slot.EndTime,
		&slot.IsAvailable,
		&slot.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &slot, nil
}
