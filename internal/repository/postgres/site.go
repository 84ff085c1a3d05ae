package postgres

import (
	"context"

	"toolrental-backend/internal/domain"
	"toolrental-backend/internal/repository"
)

type siteRepository struct {
	db DBTX
}

func NewSiteRepository(db DBTX) repository.SiteRepository {
	return &siteRepository{db: db}
}

func (r *siteRepository) GetWarehouse(ctx context.Context, id int32) (*domain.Warehouse, error) {
	w := &domain.Warehouse{}
	err := r.db.QueryRowContext(ctx, `SELECT id, name, address, capacity FROM warehouses WHERE id = $1`, id).
		Scan(&w.ID, &w.Name, &w.Address, &w.Capacity)
	if err != nil {
		return nil, mapError(ctx, err, domain.ErrWarehouseNotFound)
	}
	return w, nil
}

func (r *siteRepository) GetWorkshop(ctx context.Context, id int32) (*domain.Workshop, error) {
	w := &domain.Workshop{}
	err := r.db.QueryRowContext(ctx, `SELECT id, name, address FROM workshops WHERE id = $1`, id).
		Scan(&w.ID, &w.Name, &w.Address)
	if err != nil {
		return nil, mapError(ctx, err, domain.ErrWorkshopNotFound)
	}
	return w, nil
}
