package model

import (
	"time"

	"github.com/google/uuid"
)

type TimeSlot struct {
	ID           uuid.UUID `json:"id"`
	DepartmentID uuid.UUID `json:"department_id"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	IsAvailable  bool      `json:"is_available"`
	CreatedAt    time.Time `json:"created_at"`
}

// Duration returns the length of the slot.
func (s *TimeSlot) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}
