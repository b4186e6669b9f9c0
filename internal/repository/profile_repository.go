package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/agenda_service/internal/model"
	"github.com/Freeeeeet/agenda_service/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProfileRepository struct {
	*base.Repository
}

func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{Repository: base.NewRepository(pool)}
}

// GetByID returns the profile or nil if it does not exist
func (r *ProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	query := `
		SELECT id, name, email, role, department_id, telegram_chat_id, created_at
		FROM profiles
		WHERE id = $1
	`

	var p model.Profile
	err := r.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.Name,
		&p.Email,
		&p.Role,
		&p.DepartmentID,
		&p.TelegramChatID,
		&p.CreatedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile by id: %w", err)
	}

	return &p, nil
}

// ListDepartmentStaff returns ids of every profile affiliated with the department
func (r *ProfileRepository) ListDepartmentStaff(ctx context.Context, departmentID uuid.UUID) ([]uuid.UUID, error) {
	query := `SELECT id FROM profiles WHERE department_id = $1 ORDER BY created_at`

	rows, err := r.Query(ctx, query, departmentID)
	if err != nil {
		return nil, fmt.Errorf("get department staff: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan staff id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate department staff: %w", err)
	}

	return ids, nil
}
