package postgres

import (
	"context"
	"fmt"

	"toolrental-backend/internal/domain"
	"toolrental-backend/internal/logger"
	"toolrental-backend/internal/repository"
)

const toolModelColumns = `m.id, m.name, m.maker, m.category, m.description, m.daily_price, m.deposit, m.withdrawn`

type toolModelRepository struct {
	db DBTX
}

func NewToolModelRepository(db DBTX) repository.ToolModelRepository {
	return &toolModelRepository{db: db}
}

func (r *toolModelRepository) Create(ctx context.Context, m *domain.ToolModel) error {
	query := `INSERT INTO tool_models (name, maker, category, description, daily_price, deposit, withdrawn)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, m.Name, m.Maker, m.Category, m.Description, m.DailyPrice, m.Deposit, m.Withdrawn).Scan(&m.ID)
	return mapError(ctx, err, nil)
}

func (r *toolModelRepository) GetByID(ctx context.Context, id int32) (*domain.ToolModel, error) {
	m := &domain.ToolModel{}
	query := `SELECT ` + toolModelColumns + ` FROM tool_models m WHERE m.id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&m.ID, &m.Name, &m.Maker, &m.Category, &m.Description, &m.DailyPrice, &m.Deposit, &m.Withdrawn)
	if err != nil {
		return nil, mapError(ctx, err, domain.ErrModelNotFound)
	}
	return m, nil
}

func (r *toolModelRepository) Update(ctx context.Context, m *domain.ToolModel) error {
	query := `UPDATE tool_models SET name=$1, maker=$2, category=$3, description=$4, daily_price=$5, deposit=$6, withdrawn=$7 WHERE id=$8`
	res, err := r.db.ExecContext(ctx, query, m.Name, m.Maker, m.Category, m.Description, m.DailyPrice, m.Deposit, m.Withdrawn, m.ID)
	return expectAffected(ctx, res, err, domain.ErrModelNotFound)
}

func (r *toolModelRepository) ListWithStock(ctx context.Context, search, category string) ([]domain.ModelStock, error) {
	query := `SELECT ` + toolModelColumns + `,
	                 COUNT(i.id) FILTER (WHERE i.location = 'W_MAGAZYNIE' AND i.condition = 'SPRAWNY')
	          FROM tool_models m
	          LEFT JOIN tool_instances i ON i.model_id = m.id
	          WHERE m.withdrawn = FALSE`

	var args []any
	argIdx := 1
	if search != "" {
		query += fmt.Sprintf(" AND (m.name ILIKE $%d OR m.maker ILIKE $%d)", argIdx, argIdx)
		args = append(args, "%"+search+"%")
		argIdx++
	}
	if category != "" {
		query += fmt.Sprintf(" AND m.category = $%d", argIdx)
		args = append(args, category)
	}
	query += " GROUP BY m.id ORDER BY m.name, m.id"

	return r.listStock(ctx, "ListWithStock", query, args...)
}

func (r *toolModelRepository) ListWithTotals(ctx context.Context, search string) ([]domain.ModelStock, error) {
	query := `SELECT ` + toolModelColumns + `, COUNT(i.id)
	          FROM tool_models m
	          LEFT JOIN tool_instances i ON i.model_id = m.id
	          WHERE m.withdrawn = FALSE`

	var args []any
	if search != "" {
		query += " AND m.name ILIKE $1"
		args = append(args, "%"+search+"%")
	}
	query += " GROUP BY m.id ORDER BY m.name, m.id"

	return r.listStock(ctx, "ListWithTotals", query, args...)
}

func (r *toolModelRepository) listStock(ctx context.Context, op, query string, args ...any) ([]domain.ModelStock, error) {
	logger.DatabaseCall(ctx, op, "args", len(args))
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.DatabaseResult(ctx, op, 0, err)
		return nil, err
	}
	defer rows.Close()

	var out []domain.ModelStock
	for rows.Next() {
		var s domain.ModelStock
		m := &s.Model
		if err := rows.Scan(&m.ID, &m.Name, &m.Maker, &m.Category, &m.Description, &m.DailyPrice, &m.Deposit, &m.Withdrawn, &s.Count); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	logger.DatabaseResult(ctx, op, int64(len(out)), nil)
	return out, nil
}
