package postgres

import (
	"context"
	"time"

	"toolrental-backend/internal/domain"
	"toolrental-backend/internal/repository"
)

const rentalColumns = `r.id, r.customer_id, r.issued_by, r.received_by, r.reserved_at, r.planned_pickup_at, r.planned_return_at, r.actual_pickup_at, r.actual_return_at, r.status, r.total_cost`

type rentalRepository struct {
	db DBTX
}

func NewRentalRepository(db DBTX) repository.RentalRepository {
	return &rentalRepository{db: db}
}

func scanRental(row rowScanner) (*domain.Rental, error) {
	rt := &domain.Rental{}
	err := row.Scan(&rt.ID, &rt.CustomerID, &rt.IssuedBy, &rt.ReceivedBy, &rt.ReservedAt, &rt.PlannedPickup, &rt.PlannedReturn, &rt.ActualPickup, &rt.ActualReturn, &rt.Status, &rt.TotalCost)
	if err != nil {
		return nil, err
	}
	return rt, nil
}

func (r *rentalRepository) Create(ctx context.Context, rt *domain.Rental) error {
	query := `INSERT INTO rentals (customer_id, reserved_at, planned_pickup_at, planned_return_at, status, total_cost)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, rt.CustomerID, rt.ReservedAt, rt.PlannedPickup, rt.PlannedReturn, rt.Status, rt.TotalCost).Scan(&rt.ID)
	return mapError(ctx, err, nil)
}

func (r *rentalRepository) CreateLine(ctx context.Context, l *domain.RentalLine) error {
	query := `INSERT INTO rental_lines (rental_id, instance_id, fault_reported, fault_description)
	          VALUES ($1, $2, $3, $4) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, l.RentalID, l.InstanceID, l.FaultReported, l.FaultDescription).Scan(&l.ID)
	return mapError(ctx, err, nil)
}

func (r *rentalRepository) GetByID(ctx context.Context, id int32) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals r WHERE r.id = $1`
	rt, err := scanRental(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(ctx, err, domain.ErrRentalNotFound)
	}
	return rt, nil
}

func (r *rentalRepository) GetByIDForUpdate(ctx context.Context, id int32) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals r WHERE r.id = $1 FOR UPDATE`
	rt, err := scanRental(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(ctx, err, domain.ErrRentalNotFound)
	}
	return rt, nil
}

func (r *rentalRepository) Update(ctx context.Context, rt *domain.Rental) error {
	query := `UPDATE rentals SET status=$1, issued_by=$2, received_by=$3, actual_pickup_at=$4, actual_return_at=$5 WHERE id=$6`
	res, err := r.db.ExecContext(ctx, query, rt.Status, rt.IssuedBy, rt.ReceivedBy, rt.ActualPickup, rt.ActualReturn, rt.ID)
	return expectAffected(ctx, res, err, domain.ErrRentalNotFound)
}

func (r *rentalRepository) ListLines(ctx context.Context, rentalID int32) ([]domain.RentalLine, error) {
	query := `SELECT id, rental_id, instance_id, fault_reported, fault_description FROM rental_lines WHERE rental_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, rentalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []domain.RentalLine
	for rows.Next() {
		var l domain.RentalLine
		if err := rows.Scan(&l.ID, &l.RentalID, &l.InstanceID, &l.FaultReported, &l.FaultDescription); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r *rentalRepository) GetLine(ctx context.Context, lineID int32) (*domain.RentalLine, error) {
	l := &domain.RentalLine{}
	query := `SELECT id, rental_id, instance_id, fault_reported, fault_description FROM rental_lines WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, lineID).Scan(&l.ID, &l.RentalID, &l.InstanceID, &l.FaultReported, &l.FaultDescription)
	if err != nil {
		return nil, mapError(ctx, err, domain.ErrRentalLineNotFound)
	}
	return l, nil
}

func (r *rentalRepository) UpdateLine(ctx context.Context, l *domain.RentalLine) error {
	query := `UPDATE rental_lines SET fault_reported=$1, fault_description=$2 WHERE id=$3`
	res, err := r.db.ExecContext(ctx, query, l.FaultReported, l.FaultDescription, l.ID)
	return expectAffected(ctx, res, err, domain.ErrRentalLineNotFound)
}

func (r *rentalRepository) ListByCustomer(ctx context.Context, customerID int32) ([]domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals r WHERE r.customer_id = $1 ORDER BY r.reserved_at DESC, r.id DESC`
	return r.listRentals(ctx, query, customerID)
}

func (r *rentalRepository) ListOverdue(ctx context.Context, now time.Time) ([]domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals r WHERE r.status = 'WYDANE' AND r.planned_return_at < $1 ORDER BY r.planned_return_at, r.id`
	return r.listRentals(ctx, query, now)
}

func (r *rentalRepository) listRentals(ctx context.Context, query string, args ...any) ([]domain.Rental, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rentals []domain.Rental
	for rows.Next() {
		rt, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		rentals = append(rentals, *rt)
	}
	return rentals, rows.Err()
}

func (r *rentalRepository) ListLineDetailsByCustomer(ctx context.Context, customerID int32) ([]domain.RentalLineDetail, error) {
	query := `SELECT l.id, l.rental_id, l.instance_id, m.id, m.name, i.serial_number, m.daily_price, m.deposit, l.fault_reported
	          FROM rental_lines l
	          JOIN rentals r ON r.id = l.rental_id
	          JOIN tool_instances i ON i.id = l.instance_id
	          JOIN tool_models m ON m.id = i.model_id
	          WHERE r.customer_id = $1
	          ORDER BY l.rental_id, l.id`
	rows, err := r.db.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.RentalLineDetail
	for rows.Next() {
		var d domain.RentalLineDetail
		if err := rows.Scan(&d.LineID, &d.RentalID, &d.InstanceID, &d.ModelID, &d.ModelName, &d.SerialNumber, &d.DailyPrice, &d.Deposit, &d.FaultReported); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *rentalRepository) ListIssuedItems(ctx context.Context, customerID int32) ([]domain.IssuedItem, error) {
	query := `SELECT l.id, l.rental_id, m.name, i.serial_number, r.planned_return_at, i.condition
	          FROM rental_lines l
	          JOIN rentals r ON r.id = l.rental_id
	          JOIN tool_instances i ON i.id = l.instance_id
	          JOIN tool_models m ON m.id = i.model_id
	          WHERE r.status = 'WYDANE' AND r.customer_id = $1
	          ORDER BY r.planned_return_at, l.id`
	rows, err := r.db.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.IssuedItem
	for rows.Next() {
		var it domain.IssuedItem
		if err := rows.Scan(&it.LineID, &it.RentalID, &it.ModelName, &it.SerialNumber, &it.PlannedReturn, &it.Condition); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *rentalRepository) ListPendingOperations(ctx context.Context) ([]domain.PendingOperation, error) {
	query := `SELECT r.id, r.status, r.planned_pickup_at, r.planned_return_at,
	                 c.first_name || ' ' || c.last_name,
	                 COALESCE(string_agg(DISTINCT m.name, ', '), '')
	          FROM rentals r
	          JOIN customers c ON c.id = r.customer_id
	          LEFT JOIN rental_lines l ON l.rental_id = r.id
	          LEFT JOIN tool_instances i ON i.id = l.instance_id
	          LEFT JOIN tool_models m ON m.id = i.model_id
	          WHERE r.status IN ('REZERWACJA', 'WYDANE')
	          GROUP BY r.id, c.first_name, c.last_name
	          ORDER BY r.id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.PendingOperation
	for rows.Next() {
		var rt domain.Rental
		var customer, models string
		if err := rows.Scan(&rt.ID, &rt.Status, &rt.PlannedPickup, &rt.PlannedReturn, &customer, &models); err != nil {
			return nil, err
		}
		out = append(out, domain.NewPendingOperation(rt, customer, models))
	}
	return out, rows.Err()
}

func (r *rentalRepository) CancelStaleReservations(ctx context.Context, cutoff time.Time) ([]int32, error) {
	query := `UPDATE rentals SET status = 'ANULOWANA'
	          WHERE status = 'REZERWACJA' AND planned_pickup_at < $1
	          RETURNING id`
	rows, err := r.db.QueryContext(ctx, query, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int32
	for rows.Next() {
		var id int32
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
