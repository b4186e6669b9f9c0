package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/agenda_service/internal/model"
	"github.com/Freeeeeet/agenda_service/internal/repository/memory"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var saoPaulo = time.FixedZone("BRT", -3*60*60)

// testClock is a settable clock shared by every service in a fixture
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	store        *memory.Store
	clock        *testClock
	dept         *model.Department
	staff        *model.Profile
	school       *model.Profile
	notifier     *Notifier
	slots        *TimeSlotService
	appointments *AppointmentService
	reminders    *ReminderService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.New()
	clock := &testClock{now: time.Date(2025, 3, 10, 9, 0, 0, 0, saoPaulo)}

	dept := store.AddDepartment("Health")
	staff := store.AddProfile(model.Profile{
		Name:         "Staff",
		Email:        "staff@health.example",
		Role:         model.RoleDepartment,
		DepartmentID: &dept.ID,
	})
	school := store.AddProfile(model.Profile{
		Name:  "School",
		Email: "school@example",
		Role:  model.RoleSchool,
	})

	f := &fixture{store: store, clock: clock, dept: dept, staff: staff, school: school}
	f.wire(store.Notifications(), store.Profiles())
	return f
}

func (f *fixture) wire(sink NotificationSink, staff StaffDirectory) {
	logger := zap.NewNop()
	messages := NewMessages(saoPaulo)

	f.notifier = NewNotifier(sink, staff, logger)
	f.slots = NewTimeSlotService(f.store.TimeSlots(), f.store.Departments(), saoPaulo, logger)
	f.appointments = NewAppointmentService(f.store.TimeSlots(), f.store.Appointments(), f.notifier, messages, f.clock.Now, logger)
	f.reminders = NewReminderService(f.store.Appointments(), f.notifier, messages, f.clock.Now, logger)
}

// slotIn seeds a one-hour slot starting d after the fixture clock
func (f *fixture) slotIn(d time.Duration) *model.TimeSlot {
	start := f.clock.Now().Add(d)
	return f.store.AddSlot(f.dept.ID, start, start.Add(time.Hour))
}

func (f *fixture) book(t *testing.T, slot *model.TimeSlot) *model.Appointment {
	t.Helper()
	appt, err := f.appointments.Book(context.Background(), slot.ID, f.school.ID, "Vaccination campaign")
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	return appt
}

func (f *fixture) notificationsFor(userID uuid.UUID) []model.Notification {
	var out []model.Notification
	for _, n := range f.store.AllNotifications() {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

var errSinkDown = errors.New("sink down")

// failingSink rejects every append
type failingSink struct{}

func (failingSink) Append(ctx context.Context, notifications []*model.Notification) error {
	return errSinkDown
}

func (failingSink) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*model.Notification, error) {
	return nil, errSinkDown
}

// failingStaff cannot resolve department staff
type failingStaff struct{}

func (failingStaff) ListDepartmentStaff(ctx context.Context, departmentID uuid.UUID) ([]uuid.UUID, error) {
	return nil, errors.New("directory down")
}
