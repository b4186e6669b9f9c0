package memory

import (
	"context"
	"iter"
	"sort"
	"time"

	"github.com/Freeeeeet/agenda_service/internal/model"
	"github.com/google/uuid"
)

type TimeSlotRepository struct {
	s *Store
}

func (r *TimeSlotRepository) CreateBatch(ctx context.Context, slots []*model.TimeSlot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, slot := range slots {
		slot.ID = uuid.New()
		slot.CreatedAt = r.s.now()
		stored := *slot
		r.s.slots[slot.ID] = &stored
	}
	return nil
}

func (r *TimeSlotRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.TimeSlot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	slot, ok := r.s.slots[id]
	if !ok {
		return nil, nil
	}
	cp := *slot
	return &cp, nil
}

// ListAvailable snapshots the matching slots when iteration starts
func (r *TimeSlotRepository) ListAvailable(ctx context.Context, departmentID uuid.UUID, notBefore time.Time) iter.Seq2[*model.TimeSlot, error] {
	return func(yield func(*model.TimeSlot, error) bool) {
		if err := ctx.Err(); err != nil {
			yield(nil, err)
			return
		}
		snapshot := r.collect(func(slot *model.TimeSlot) bool {
			return slot.DepartmentID == departmentID && slot.IsAvailable && !slot.StartTime.Before(notBefore)
		})
		for _, slot := range snapshot {
			if !yield(slot, nil) {
				return
			}
		}
	}
}

func (r *TimeSlotRepository) ListByDepartment(ctx context.Context, departmentID uuid.UUID) ([]*model.TimeSlot, error) {
	return r.collect(func(slot *model.TimeSlot) bool {
		return slot.DepartmentID == departmentID
	}), nil
}

func (r *TimeSlotRepository) DeleteUnreferenced(ctx context.Context, id uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.slots[id]; !ok {
		return false, nil
	}
	for _, a := range r.s.appointments {
		if a.TimeslotID == id {
			return false, nil
		}
	}
	delete(r.s.slots, id)
	return true, nil
}

func (r *TimeSlotRepository) HasAppointments(ctx context.Context, id uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, a := range r.s.appointments {
		if a.TimeslotID == id {
			return true, nil
		}
	}
	return false, nil
}

func (r *TimeSlotRepository) Reopen(ctx context.Context, id uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	slot, ok := r.s.slots[id]
	if !ok {
		return false, nil
	}
	for _, a := range r.s.appointments {
		if a.TimeslotID == id && a.Status == model.AppointmentStatusActive {
			return false, nil
		}
	}
	slot.IsAvailable = true
	return true, nil
}

func (r *TimeSlotRepository) collect(keep func(slot *model.TimeSlot) bool) []*model.TimeSlot {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*model.TimeSlot
	for _, slot := range r.s.slots {
		if keep(slot) {
			cp := *slot
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out
}
