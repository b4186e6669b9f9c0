package memory

import (
	"context"
	"sort"

	"github.com/Freeeeeet/agenda_service/internal/model"
	"github.com/google/uuid"
)

type NotificationRepository struct {
	s *Store
}

func (r *NotificationRepository) Append(ctx context.Context, notifications []*model.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, n := range notifications {
		n.ID = uuid.New()
		n.IsRead = false
		n.CreatedAt = r.s.now()
		stored := *n
		r.s.notifications = append(r.s.notifications, &stored)
	}
	return nil
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*model.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*model.Notification
	for i := len(r.s.notifications) - 1; i >= 0 && len(out) < limit; i-- {
		if n := r.s.notifications[i]; n.UserID == userID {
			cp := *n
			out = append(out, &cp)
		}
	}
	return out, nil
}

type ProfileRepository struct {
	s *Store
}

func (r *ProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.profiles[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *ProfileRepository) ListDepartmentStaff(ctx context.Context, departmentID uuid.UUID) ([]uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var staff []*model.Profile
	for _, p := range r.s.profiles {
		if p.DepartmentID != nil && *p.DepartmentID == departmentID {
			staff = append(staff, p)
		}
	}
	sort.Slice(staff, func(i, j int) bool {
		return staff[i].CreatedAt.Before(staff[j].CreatedAt)
	})

	ids := make([]uuid.UUID, 0, len(staff))
	for _, p := range staff {
		ids = append(ids, p.ID)
	}
	return ids, nil
}

type DepartmentRepository struct {
	s *Store
}

func (r *DepartmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Department, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	d, ok := r.s.departments[id]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}
