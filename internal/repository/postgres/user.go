package postgres

import (
	"context"

	"toolrental-backend/internal/domain"
	"toolrental-backend/internal/repository"
)

const employeeColumns = `id, first_name, last_name, pesel, address, phone, email, login, password_hash, role, hired_at, released_at`

type employeeRepository struct {
	db DBTX
}

func NewEmployeeRepository(db DBTX) repository.EmployeeRepository {
	return &employeeRepository{db: db}
}

func scanEmployee(row rowScanner) (*domain.Employee, error) {
	e := &domain.Employee{}
	err := row.Scan(&e.ID, &e.FirstName, &e.LastName, &e.PESEL, &e.Address, &e.Phone, &e.Email, &e.Login, &e.PasswordHash, &e.Role, &e.HiredAt, &e.ReleasedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *employeeRepository) Create(ctx context.Context, e *domain.Employee) error {
	query := `INSERT INTO employees (first_name, last_name, pesel, address, phone, email, login, password_hash, role, hired_at, released_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, e.FirstName, e.LastName, e.PESEL, e.Address, e.Phone, e.Email, e.Login, e.PasswordHash, e.Role, e.HiredAt, e.ReleasedAt).Scan(&e.ID)
	return mapError(ctx, err, nil)
}

func (r *employeeRepository) GetByID(ctx context.Context, id int32) (*domain.Employee, error) {
	e, err := scanEmployee(r.db.QueryRowContext(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(ctx, err, domain.ErrEmployeeNotFound)
	}
	return e, nil
}

func (r *employeeRepository) GetByLogin(ctx context.Context, login string) (*domain.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE login = $1 OR LOWER(email) = LOWER($1)`
	e, err := scanEmployee(r.db.QueryRowContext(ctx, query, login))
	if err != nil {
		return nil, mapError(ctx, err, domain.ErrEmployeeNotFound)
	}
	return e, nil
}

func (r *employeeRepository) Update(ctx context.Context, e *domain.Employee) error {
	query := `UPDATE employees SET first_name=$1, last_name=$2, address=$3, phone=$4, email=$5, role=$6, hired_at=$7, released_at=$8 WHERE id=$9`
	res, err := r.db.ExecContext(ctx, query, e.FirstName, e.LastName, e.Address, e.Phone, e.Email, e.Role, e.HiredAt, e.ReleasedAt, e.ID)
	return expectAffected(ctx, res, err, domain.ErrEmployeeNotFound)
}

func (r *employeeRepository) UpdatePassword(ctx context.Context, id int32, hash string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE employees SET password_hash=$1 WHERE id=$2`, hash, id)
	return expectAffected(ctx, res, err, domain.ErrEmployeeNotFound)
}

func (r *employeeRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM employees WHERE id = $1`, id)
	return expectAffected(ctx, res, err, domain.ErrEmployeeNotFound)
}

func (r *employeeRepository) List(ctx context.Context) ([]domain.Employee, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY last_name, first_name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

const customerColumns = `id, first_name, last_name, email, phone, password_hash, security_question, security_answer_hash`

type customerRepository struct {
	db DBTX
}

func NewCustomerRepository(db DBTX) repository.CustomerRepository {
	return &customerRepository{db: db}
}

func scanCustomer(row rowScanner) (*domain.Customer, error) {
	c := &domain.Customer{}
	err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.PasswordHash, &c.SecurityQuestion, &c.SecurityAnswerHash)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *customerRepository) Create(ctx context.Context, c *domain.Customer) error {
	query := `INSERT INTO customers (first_name, last_name, email, phone, password_hash, security_question, security_answer_hash)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, c.FirstName, c.LastName, c.Email, c.Phone, c.PasswordHash, c.SecurityQuestion, c.SecurityAnswerHash).Scan(&c.ID)
	return mapError(ctx, err, nil)
}

func (r *customerRepository) GetByID(ctx context.Context, id int32) (*domain.Customer, error) {
	c, err := scanCustomer(r.db.QueryRowContext(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(ctx, err, domain.ErrCustomerNotFound)
	}
	return c, nil
}

func (r *customerRepository) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	c, err := scanCustomer(r.db.QueryRowContext(ctx, `SELECT `+customerColumns+` FROM customers WHERE LOWER(email) = LOWER($1)`, email))
	if err != nil {
		return nil, mapError(ctx, err, domain.ErrCustomerNotFound)
	}
	return c, nil
}

func (r *customerRepository) UpdatePassword(ctx context.Context, id int32, hash string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE customers SET password_hash=$1 WHERE id=$2`, hash, id)
	return expectAffected(ctx, res, err, domain.ErrCustomerNotFound)
}
