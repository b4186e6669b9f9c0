package model

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin      Role = "admin"
	RoleDepartment Role = "department"
	RoleSchool     Role = "school"
)

// Profile mirrors the identity provider's user record. Read-only for this service.
type Profile struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Role           Role       `json:"role"`
	DepartmentID   *uuid.UUID `json:"department_id"`
	TelegramChatID *int64     `json:"telegram_chat_id"` // nil if the user never linked the bot
	CreatedAt      time.Time  `json:"created_at"`
}

// IsStaffOf reports whether the profile may manage appointments of the department.
func (p *Profile) IsStaffOf(departmentID uuid.UUID) bool {
	if p.Role == RoleAdmin {
		return true
	}
	return p.Role == RoleDepartment && p.DepartmentID != nil && *p.DepartmentID == departmentID
}
