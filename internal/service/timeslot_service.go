package service

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/Freeeeeet/agenda_service/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	dayLayout  = "2006-01-02"
	hourLayout = "15:04"
)

// SlotRequest describes one day to partition into bookable windows.
// Date is YYYY-MM-DD, Start and End are HH:MM wall-clock times.
type SlotRequest struct {
	DepartmentID    uuid.UUID
	Date            string
	Start           string
	End             string
	DurationMinutes int
}

type TimeSlotService struct {
	slots       SlotStore
	departments DepartmentLookup
	loc         *time.Location
	logger      *zap.Logger
}

func NewTimeSlotService(
	slots SlotStore,
	departments DepartmentLookup,
	loc *time.Location,
	logger *zap.Logger,
) *TimeSlotService {
	if loc == nil {
		loc = time.UTC
	}
	return &TimeSlotService{
		slots:       slots,
		departments: departments,
		loc:         loc,
		logger:      logger,
	}
}

// GenerateSlots creates consecutive slots of the requested duration. A trailing
// remainder shorter than the duration is dropped.
func (s *TimeSlotService) GenerateSlots(ctx context.Context, req SlotRequest) ([]*model.TimeSlot, error) {
	start, end, err := s.parseRange(req.Date, req.Start, req.End)
	if err != nil {
		return nil, err
	}

	windows, err := PartitionRange(start, end, time.Duration(req.DurationMinutes)*time.Minute)
	if err != nil {
		return nil, err
	}

	dept, err := s.departments.GetByID(ctx, req.DepartmentID)
	if err != nil {
		return nil, fmt.Errorf("get department: %w", err)
	}
	if dept == nil {
		return nil, ErrDepartmentNotFound
	}

	slots := make([]*model.TimeSlot, 0, len(windows))
	for _, w := range windows {
		slots = append(slots, &model.TimeSlot{
			DepartmentID: req.DepartmentID,
			StartTime:    w[0],
			EndTime:      w[1],
			IsAvailable:  true,
		})
	}

	if err := s.slots.CreateBatch(ctx, slots); err != nil {
		return nil, fmt.Errorf("create slots: %w", err)
	}

	s.logger.Info("Time slots generated",
		zap.String("department_id", req.DepartmentID.String()),
		zap.String("date", req.Date),
		zap.Int("count", len(slots)),
	)

	return slots, nil
}

// PartitionRange splits [start, end) into windows of length d.
func PartitionRange(start, end time.Time, d time.Duration) ([][2]time.Time, error) {
	if d < time.Minute {
		return nil, ErrInvalidDuration
	}
	if !end.After(start) {
		return nil, ErrInvalidRange
	}

	var windows [][2]time.Time
	for cur := start; !cur.Add(d).After(end); cur = cur.Add(d) {
		windows = append(windows, [2]time.Time{cur, cur.Add(d)})
	}

	if len(windows) == 0 {
		return nil, ErrNoSlotsGenerated
	}
	return windows, nil
}

func (s *TimeSlotService) parseRange(date, from, to string) (time.Time, time.Time, error) {
	day, err := time.ParseInLocation(dayLayout, date, s.loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: date %q", ErrInvalidRange, date)
	}

	start, err := atClock(day, from, s.loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := atClock(day, to, s.loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func atClock(day time.Time, clock string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(hourLayout, clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: time %q", ErrInvalidRange, clock)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, loc), nil
}

// ListAvailable yields the department's open slots starting at or after notBefore.
func (s *TimeSlotService) ListAvailable(ctx context.Context, departmentID uuid.UUID, notBefore time.Time) iter.Seq2[*model.TimeSlot, error] {
	return s.slots.ListAvailable(ctx, departmentID, notBefore)
}

func (s *TimeSlotService) ListByDepartment(ctx context.Context, departmentID uuid.UUID) ([]*model.TimeSlot, error) {
	slots, err := s.slots.ListByDepartment(ctx, departmentID)
	if err != nil {
		return nil, fmt.Errorf("list department slots: %w", err)
	}
	return slots, nil
}

// Get returns the slot or ErrSlotNotFound.
func (s *TimeSlotService) Get(ctx context.Context, id uuid.UUID) (*model.TimeSlot, error) {
	slot, err := s.slots.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get slot: %w", err)
	}
	if slot == nil {
		return nil, ErrSlotNotFound
	}
	return slot, nil
}

// Delete removes a slot no appointment ever referenced. Deleting a missing slot is a no-op.
func (s *TimeSlotService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.slots.DeleteUnreferenced(ctx, id)
	if err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}

	if deleted {
		s.logger.Info("Time slot deleted", zap.String("timeslot_id", id.String()))
		return nil
	}

	referenced, err := s.slots.HasAppointments(ctx, id)
	if err != nil {
		return fmt.Errorf("check slot history: %w", err)
	}
	if referenced {
		return ErrSlotHasHistory
	}
	return nil
}

// Reopen makes a slot bookable again once no active appointment holds it.
func (s *TimeSlotService) Reopen(ctx context.Context, id uuid.UUID) (*model.TimeSlot, error) {
	slot, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	ok, err := s.slots.Reopen(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reopen slot: %w", err)
	}
	if !ok {
		return nil, ErrSlotStillBooked
	}

	slot.IsAvailable = true
	s.logger.Info("Time slot reopened", zap.String("timeslot_id", id.String()))
	return slot, nil
}
