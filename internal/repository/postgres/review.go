package postgres

import (
	"context"

	"toolrental-backend/internal/domain"
	"toolrental-backend/internal/repository"
)

type reviewRepository struct {
	db DBTX
}

func NewReviewRepository(db DBTX) repository.ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	query := `INSERT INTO reviews (model_id, customer_id, rating, comment, created_at)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, rv.ModelID, rv.CustomerID, rv.Rating, rv.Comment, rv.CreatedAt).Scan(&rv.ID)
	return mapError(ctx, err, nil)
}

func (r *reviewRepository) Exists(ctx context.Context, customerID, modelID int32) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM reviews WHERE customer_id = $1 AND model_id = $2)`
	err := r.db.QueryRowContext(ctx, query, customerID, modelID).Scan(&exists)
	return exists, err
}

func (r *reviewRepository) ListByModel(ctx context.Context, modelID int32) ([]domain.ReviewView, error) {
	query := `SELECT rv.id, rv.model_id, rv.customer_id, rv.rating, rv.comment, rv.created_at, c.first_name
	          FROM reviews rv
	          JOIN customers c ON c.id = rv.customer_id
	          WHERE rv.model_id = $1
	          ORDER BY rv.created_at DESC, rv.id DESC`
	rows, err := r.db.QueryContext(ctx, query, modelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ReviewView
	for rows.Next() {
		var v domain.ReviewView
		if err := rows.Scan(&v.ID, &v.ModelID, &v.CustomerID, &v.Rating, &v.Comment, &v.CreatedAt, &v.Author); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
