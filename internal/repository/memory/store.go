// Package memory keeps every table in process memory behind one mutex.
// It honors the same conditional-write rules as the Postgres repositories and backs
// tests and the --memory development mode.
package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/Freeeeeet/agenda_service/internal/model"
	"github.com/google/uuid"
)

type Store struct {
	mu            sync.Mutex
	now           func() time.Time
	departments   map[uuid.UUID]*model.Department
	profiles      map[uuid.UUID]*model.Profile
	slots         map[uuid.UUID]*model.TimeSlot
	appointments  map[uuid.UUID]*model.Appointment
	notifications []*model.Notification
}

func New() *Store {
	return &Store{
		now:          time.Now,
		departments:  make(map[uuid.UUID]*model.Department),
		profiles:     make(map[uuid.UUID]*model.Profile),
		slots:        make(map[uuid.UUID]*model.TimeSlot),
		appointments: make(map[uuid.UUID]*model.Appointment),
	}
}

func (s *Store) TimeSlots() *TimeSlotRepository         { return &TimeSlotRepository{s: s} }
func (s *Store) Appointments() *AppointmentRepository   { return &AppointmentRepository{s: s} }
func (s *Store) Notifications() *NotificationRepository { return &NotificationRepository{s: s} }
func (s *Store) Profiles() *ProfileRepository           { return &ProfileRepository{s: s} }
func (s *Store) Departments() *DepartmentRepository     { return &DepartmentRepository{s: s} }

// AddDepartment seeds a department
func (s *Store) AddDepartment(name string) *model.Department {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := &model.Department{ID: uuid.New(), Name: name, CreatedAt: s.now()}
	s.departments[d.ID] = d
	cp := *d
	return &cp
}

// AddProfile seeds a profile; a nil ID is replaced with a fresh one
func (s *Store) AddProfile(p model.Profile) *model.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now()
	}
	stored := p
	s.profiles[p.ID] = &stored
	return &p
}

// AddSlot seeds a slot as is, bypassing generation rules
func (s *Store) AddSlot(departmentID uuid.UUID, start, end time.Time) *model.TimeSlot {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot := &model.TimeSlot{
		ID:           uuid.New(),
		DepartmentID: departmentID,
		StartTime:    start,
		EndTime:      end,
		IsAvailable:  true,
		CreatedAt:    s.now(),
	}
	s.slots[slot.ID] = slot
	cp := *slot
	return &cp
}

// AllNotifications returns a copy of everything appended so far, in insertion order
func (s *Store) AllNotifications() []model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		out = append(out, *n)
	}
	return out
}

// appointmentView must be called with mu held
func (s *Store) appointmentView(a *model.Appointment) *model.Appointment {
	cp := *a
	if slot, ok := s.slots[a.TimeslotID]; ok {
		slotCopy := *slot
		cp.Slot = &slotCopy
		if d, ok := s.departments[slot.DepartmentID]; ok {
			cp.DepartmentName = d.Name
		}
	}
	return &cp
}

// filterAppointments must be called with mu held
func (s *Store) filterAppointments(keep func(a *model.Appointment) bool) []*model.Appointment {
	var out []*model.Appointment
	for _, a := range s.appointments {
		if keep(a) {
			out = append(out, s.appointmentView(a))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartTime().Before(out[j].StartTime())
	})
	return out
}
