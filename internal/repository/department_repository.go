package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/agenda_service/internal/model"
	"github.com/Freeeeeet/agenda_service/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DepartmentRepository struct {
	*base.Repository
}

func NewDepartmentRepository(pool *pgxpool.Pool) *DepartmentRepository {
	return &DepartmentRepository{Repository: base.NewRepository(pool)}
}

// GetByID returns the department or nil if it does not exist
func (r *DepartmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Department, error) {
	query := `SELECT id, name, created_at FROM departments WHERE id = $1`

	var d model.Department
	err := r.QueryRow(ctx, query, id).Scan(&d.ID, &d.Name, &d.CreatedAt)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get department by id: %w", err)
	}

	return &d, nil
}
