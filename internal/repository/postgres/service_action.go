package postgres

import (
	"context"

	"toolrental-backend/internal/domain"
	"toolrental-backend/internal/repository"
)

type serviceActionRepository struct {
	db DBTX
}

func NewServiceActionRepository(db DBTX) repository.ServiceActionRepository {
	return &serviceActionRepository{db: db}
}

func (r *serviceActionRepository) Create(ctx context.Context, a *domain.ServiceAction) error {
	query := `INSERT INTO service_actions (instance_id, technician_id, kind, started_at, finished_at, note)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, a.InstanceID, a.TechnicianID, a.Kind, a.StartedAt, a.FinishedAt, a.Note).Scan(&a.ID)
	return mapError(ctx, err, nil)
}

// ListByInstance returns the log newest first.
func (r *serviceActionRepository) ListByInstance(ctx context.Context, instanceID int32) ([]domain.ServiceAction, error) {
	query := `SELECT id, instance_id, technician_id, kind, started_at, finished_at, note
	          FROM service_actions WHERE instance_id = $1
	          ORDER BY started_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, instanceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ServiceAction
	for rows.Next() {
		var a domain.ServiceAction
		if err := rows.Scan(&a.ID, &a.InstanceID, &a.TechnicianID, &a.Kind, &a.StartedAt, &a.FinishedAt, &a.Note); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
