package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/agenda_service/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Notifier appends notification records and fans them out to department staff
type Notifier struct {
	sink      NotificationSink
	staff     StaffDirectory
	deliverer Deliverer
	logger    *zap.Logger
}

func NewNotifier(sink NotificationSink, staff StaffDirectory, logger *zap.Logger) *Notifier {
	return &Notifier{
		sink:   sink,
		staff:  staff,
		logger: logger,
	}
}

// SetDeliverer enables push delivery after each append. nil disables it.
func (n *Notifier) SetDeliverer(d Deliverer) {
	n.deliverer = d
}

// NotifyUser appends one record for userID
func (n *Notifier) NotifyUser(ctx context.Context, userID uuid.UUID, msg Message) error {
	return n.append(ctx, []uuid.UUID{userID}, msg)
}

// NotifyDepartment appends one record per staff profile of the department and returns how many were written
func (n *Notifier) NotifyDepartment(ctx context.Context, departmentID uuid.UUID, msg Message) (int, error) {
	staff, err := n.staff.ListDepartmentStaff(ctx, departmentID)
	if err != nil {
		return 0, fmt.Errorf("list department staff: %w", err)
	}

	if len(staff) == 0 {
		n.logger.Debug("Department has no staff to notify",
			zap.String("department_id", departmentID.String()),
		)
		return 0, nil
	}

	if err := n.append(ctx, staff, msg); err != nil {
		return 0, err
	}
	return len(staff), nil
}

// List returns the user's latest notifications
func (n *Notifier) List(ctx context.Context, userID uuid.UUID, limit int) ([]*model.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return n.sink.ListByUser(ctx, userID, limit)
}

func (n *Notifier) append(ctx context.Context, userIDs []uuid.UUID, msg Message) error {
	records := make([]*model.Notification, 0, len(userIDs))
	for _, id := range userIDs {
		records = append(records, &model.Notification{
			UserID:  id,
			Title:   msg.Title,
			Message: msg.Body,
		})
	}

	if err := n.sink.Append(ctx, records); err != nil {
		return fmt.Errorf("append notifications: %w", err)
	}

	if n.deliverer == nil {
		return nil
	}

	for _, record := range records {
		if err := n.deliverer.Deliver(ctx, record); err != nil {
			n.logger.Warn("Failed to deliver notification",
				zap.String("notification_id", record.ID.String()),
				zap.String("user_id", record.UserID.String()),
				zap.Error(err),
			)
		}
	}

	return nil
}
