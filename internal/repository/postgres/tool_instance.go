package postgres

import (
	"context"
	"fmt"
	"time"

	"toolrental-backend/internal/domain"
	"toolrental-backend/internal/logger"
	"toolrental-backend/internal/repository"

	"github.com/lib/pq"
)

const instanceColumns = `i.id, i.model_id, i.serial_number, i.location, i.condition, i.rental_count, i.purchased_at, i.warehouse_id, i.workshop_id`

type toolInstanceRepository struct {
	db DBTX
}

func NewToolInstanceRepository(db DBTX) repository.ToolInstanceRepository {
	return &toolInstanceRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInstance(row rowScanner) (*domain.ToolInstance, error) {
	inst := &domain.ToolInstance{}
	err := row.Scan(&inst.ID, &inst.ModelID, &inst.SerialNumber, &inst.Location, &inst.Condition, &inst.RentalCount, &inst.PurchasedAt, &inst.WarehouseID, &inst.WorkshopID)
	if err != nil {
		return nil, err
	}
	return inst, nil
}

func (r *toolInstanceRepository) Create(ctx context.Context, inst *domain.ToolInstance) error {
	query := `INSERT INTO tool_instances (model_id, serial_number, location, condition, rental_count, purchased_at, warehouse_id, workshop_id)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, inst.ModelID, inst.SerialNumber, inst.Location, inst.Condition, inst.RentalCount, inst.PurchasedAt, inst.WarehouseID, inst.WorkshopID).Scan(&inst.ID)
	return mapError(ctx, err, nil)
}

func (r *toolInstanceRepository) GetByID(ctx context.Context, id int32) (*domain.ToolInstance, error) {
	query := `SELECT ` + instanceColumns + ` FROM tool_instances i WHERE i.id = $1`
	inst, err := scanInstance(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(ctx, err, domain.ErrInstanceNotFound)
	}
	return inst, nil
}

func (r *toolInstanceRepository) GetByIDForUpdate(ctx context.Context, id int32) (*domain.ToolInstance, error) {
	query := `SELECT ` + instanceColumns + ` FROM tool_instances i WHERE i.id = $1 FOR UPDATE`
	inst, err := scanInstance(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(ctx, err, domain.ErrInstanceNotFound)
	}
	return inst, nil
}

func (r *toolInstanceRepository) ListByIDsForUpdate(ctx context.Context, ids []int32) ([]domain.ToolInstance, error) {
	query := `SELECT ` + instanceColumns + ` FROM tool_instances i WHERE i.id = ANY($1) ORDER BY i.id FOR UPDATE`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ToolInstance
	for rows.Next() {
		inst, err := scanInstance(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *inst)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) != len(ids) {
		return nil, domain.ErrInstanceNotFound
	}
	return out, nil
}

func (r *toolInstanceRepository) Update(ctx context.Context, inst *domain.ToolInstance) error {
	query := `UPDATE tool_instances SET location=$1, condition=$2, rental_count=$3, warehouse_id=$4, workshop_id=$5 WHERE id=$6`
	res, err := r.db.ExecContext(ctx, query, inst.Location, inst.Condition, inst.RentalCount, inst.WarehouseID, inst.WorkshopID, inst.ID)
	return expectAffected(ctx, res, err, domain.ErrInstanceNotFound)
}

func (r *toolInstanceRepository) CountByModel(ctx context.Context, modelID int32) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tool_instances WHERE model_id = $1`, modelID).Scan(&n)
	return n, err
}

func (r *toolInstanceRepository) LockByModel(ctx context.Context, modelID int32) error {
	logger.DatabaseCall(ctx, "LockByModel", "model_id", modelID)
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM tool_instances WHERE model_id = $1 ORDER BY id FOR UPDATE`, modelID)
	if err != nil {
		logger.DatabaseResult(ctx, "LockByModel", 0, err)
		return err
	}
	defer rows.Close()

	var locked int64
	for rows.Next() {
		locked++
	}
	logger.DatabaseResult(ctx, "LockByModel", locked, rows.Err())
	return rows.Err()
}

func (r *toolInstanceRepository) ListAvailable(ctx context.Context, modelID int32, start, end time.Time) ([]domain.ToolInstance, error) {
	query := `SELECT ` + instanceColumns + `
	          FROM tool_instances i
	          WHERE i.model_id = $1
	            AND i.condition = 'SPRAWNY'
	            AND i.location <> 'W_WARSZTACIE'
	            AND NOT EXISTS (
	                SELECT 1
	                FROM rental_lines l
	                JOIN rentals r ON r.id = l.rental_id
	                WHERE l.instance_id = i.id
	                  AND r.status IN ('REZERWACJA', 'WYDANE')
	                  AND r.planned_pickup_at <= $3
	                  AND r.planned_return_at >= $2
	            )
	          ORDER BY i.id`

	logger.DatabaseCall(ctx, "ListAvailable", "model_id", modelID, "start", start, "end", end)
	rows, err := r.db.QueryContext(ctx, query, modelID, start, end)
	if err != nil {
		logger.DatabaseResult(ctx, "ListAvailable", 0, err)
		return nil, err
	}
	defer rows.Close()

	var out []domain.ToolInstance
	for rows.Next() {
		inst, err := scanInstance(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *inst)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	logger.DatabaseResult(ctx, "ListAvailable", int64(len(out)), nil)
	return out, nil
}

func (r *toolInstanceRepository) List(ctx context.Context, f domain.InstanceFilter) ([]domain.InstanceListing, error) {
	query := `SELECT i.id, i.model_id, m.name, m.category, m.maker, i.serial_number, i.condition, i.location, i.rental_count
	          FROM tool_instances i
	          JOIN tool_models m ON m.id = i.model_id
	          WHERE 1=1`

	var args []any
	add := func(clause string, v any) {
		args = append(args, v)
		query += fmt.Sprintf(clause, len(args))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		query += fmt.Sprintf(" AND (m.name ILIKE $%d OR i.serial_number ILIKE $%d)", len(args), len(args))
	}
	if f.Category != "" {
		add(" AND m.category = $%d", f.Category)
	}
	if f.Maker != "" {
		add(" AND m.maker = $%d", f.Maker)
	}
	if f.Location != "" {
		add(" AND i.location = $%d", f.Location)
	}
	if f.Condition != "" {
		add(" AND i.condition = $%d", f.Condition)
	}
	query += " ORDER BY i.id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.InstanceListing
	for rows.Next() {
		var l domain.InstanceListing
		if err := rows.Scan(&l.ID, &l.ModelID, &l.ModelName, &l.Category, &l.Maker, &l.SerialNumber, &l.Condition, &l.Location, &l.RentalCount); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
