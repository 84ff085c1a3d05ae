package service

import (
	"context"
	"time"

	"toolrental-backend/internal/domain"
	"toolrental-backend/internal/repository"

	"github.com/stretchr/testify/mock"
)

// fakeTx runs the callback against the mocked repositories and records
// whether it would have committed.
type fakeTx struct {
	repos     *repository.Repositories
	commits   int
	rollbacks int
}

func (f *fakeTx) WithinTx(ctx context.Context, fn func(*repository.Repositories) error) error {
	if err := fn(f.repos); err != nil {
		f.rollbacks++
		return err
	}
	f.commits++
	return nil
}

type mocks struct {
	models    *MockModelRepo
	instances *MockInstanceRepo
	rentals   *MockRentalRepo
	actions   *MockServiceActionRepo
	reviews   *MockReviewRepo
	employees *MockEmployeeRepo
	customers *MockCustomerRepo
	repos     *repository.Repositories
	tx        *fakeTx
}

func newMocks() *mocks {
	m := &mocks{
		models:    new(MockModelRepo),
		instances: new(MockInstanceRepo),
		rentals:   new(MockRentalRepo),
		actions:   new(MockServiceActionRepo),
		reviews:   new(MockReviewRepo),
		employees: new(MockEmployeeRepo),
		customers: new(MockCustomerRepo),
	}
	m.repos = &repository.Repositories{
		Models:         m.models,
		Instances:      m.instances,
		Rentals:        m.rentals,
		ServiceActions: m.actions,
		Reviews:        m.reviews,
		Employees:      m.employees,
		Customers:      m.customers,
	}
	m.tx = &fakeTx{repos: m.repos}
	return m
}

// MockModelRepo
type MockModelRepo struct {
	mock.Mock
}

func (m *MockModelRepo) Create(ctx context.Context, model *domain.ToolModel) error {
	return m.Called(ctx, model).Error(0)
}
func (m *MockModelRepo) GetByID(ctx context.Context, id int32) (*domain.ToolModel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ToolModel), args.Error(1)
}
func (m *MockModelRepo) Update(ctx context.Context, model *domain.ToolModel) error {
	return m.Called(ctx, model).Error(0)
}
func (m *MockModelRepo) ListWithStock(ctx context.Context, search, category string) ([]domain.ModelStock, error) {
	args := m.Called(ctx, search, category)
	return args.Get(0).([]domain.ModelStock), args.Error(1)
}
func (m *MockModelRepo) ListWithTotals(ctx context.Context, search string) ([]domain.ModelStock, error) {
	args := m.Called(ctx, search)
	return args.Get(0).([]domain.ModelStock), args.Error(1)
}

// MockInstanceRepo
type MockInstanceRepo struct {
	mock.Mock
}

func (m *MockInstanceRepo) Create(ctx context.Context, inst *domain.ToolInstance) error {
	return m.Called(ctx, inst).Error(0)
}
func (m *MockInstanceRepo) GetByID(ctx context.Context, id int32) (*domain.ToolInstance, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ToolInstance), args.Error(1)
}
func (m *MockInstanceRepo) GetByIDForUpdate(ctx context.Context, id int32) (*domain.ToolInstance, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ToolInstance), args.Error(1)
}
func (m *MockInstanceRepo) ListByIDsForUpdate(ctx context.Context, ids []int32) ([]domain.ToolInstance, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ToolInstance), args.Error(1)
}
func (m *MockInstanceRepo) Update(ctx context.Context, inst *domain.ToolInstance) error {
	return m.Called(ctx, inst).Error(0)
}
func (m *MockInstanceRepo) CountByModel(ctx context.Context, modelID int32) (int, error) {
	args := m.Called(ctx, modelID)
	return args.Int(0), args.Error(1)
}
func (m *MockInstanceRepo) LockByModel(ctx context.Context, modelID int32) error {
	return m.Called(ctx, modelID).Error(0)
}
func (m *MockInstanceRepo) ListAvailable(ctx context.Context, modelID int32, start, end time.Time) ([]domain.ToolInstance, error) {
	args := m.Called(ctx, modelID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ToolInstance), args.Error(1)
}
func (m *MockInstanceRepo) List(ctx context.Context, filter domain.InstanceFilter) ([]domain.InstanceListing, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.InstanceListing), args.Error(1)
}

// MockRentalRepo
type MockRentalRepo struct {
	mock.Mock
}

func (m *MockRentalRepo) Create(ctx context.Context, rt *domain.Rental) error {
	return m.Called(ctx, rt).Error(0)
}
func (m *MockRentalRepo) CreateLine(ctx context.Context, l *domain.RentalLine) error {
	return m.Called(ctx, l).Error(0)
}
func (m *MockRentalRepo) GetByID(ctx context.Context, id int32) (*domain.Rental, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) GetByIDForUpdate(ctx context.Context, id int32) (*domain.Rental, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) Update(ctx context.Context, rt *domain.Rental) error {
	return m.Called(ctx, rt).Error(0)
}
func (m *MockRentalRepo) ListLines(ctx context.Context, rentalID int32) ([]domain.RentalLine, error) {
	args := m.Called(ctx, rentalID)
	return args.Get(0).([]domain.RentalLine), args.Error(1)
}
func (m *MockRentalRepo) GetLine(ctx context.Context, lineID int32) (*domain.RentalLine, error) {
	args := m.Called(ctx, lineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalLine), args.Error(1)
}
func (m *MockRentalRepo) UpdateLine(ctx context.Context, l *domain.RentalLine) error {
	return m.Called(ctx, l).Error(0)
}
func (m *MockRentalRepo) ListByCustomer(ctx context.Context, customerID int32) ([]domain.Rental, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).([]domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) ListLineDetailsByCustomer(ctx context.Context, customerID int32) ([]domain.RentalLineDetail, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).([]domain.RentalLineDetail), args.Error(1)
}
func (m *MockRentalRepo) ListIssuedItems(ctx context.Context, customerID int32) ([]domain.IssuedItem, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).([]domain.IssuedItem), args.Error(1)
}
func (m *MockRentalRepo) ListPendingOperations(ctx context.Context) ([]domain.PendingOperation, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.PendingOperation), args.Error(1)
}
func (m *MockRentalRepo) CancelStaleReservations(ctx context.Context, cutoff time.Time) ([]int32, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).([]int32), args.Error(1)
}
func (m *MockRentalRepo) ListOverdue(ctx context.Context, now time.Time) ([]domain.Rental, error) {
	args := m.Called(ctx, now)
	return args.Get(0).([]domain.Rental), args.Error(1)
}

// MockServiceActionRepo
type MockServiceActionRepo struct {
	mock.Mock
}

func (m *MockServiceActionRepo) Create(ctx context.Context, a *domain.ServiceAction) error {
	return m.Called(ctx, a).Error(0)
}
func (m *MockServiceActionRepo) ListByInstance(ctx context.Context, instanceID int32) ([]domain.ServiceAction, error) {
	args := m.Called(ctx, instanceID)
	return args.Get(0).([]domain.ServiceAction), args.Error(1)
}

// MockReviewRepo
type MockReviewRepo struct {
	mock.Mock
}

func (m *MockReviewRepo) Create(ctx context.Context, rv *domain.Review) error {
	return m.Called(ctx, rv).Error(0)
}
func (m *MockReviewRepo) Exists(ctx context.Context, customerID, modelID int32) (bool, error) {
	args := m.Called(ctx, customerID, modelID)
	return args.Bool(0), args.Error(1)
}
func (m *MockReviewRepo) ListByModel(ctx context.Context, modelID int32) ([]domain.ReviewView, error) {
	args := m.Called(ctx, modelID)
	return args.Get(0).([]domain.ReviewView), args.Error(1)
}

// MockEmployeeRepo
type MockEmployeeRepo struct {
	mock.Mock
}

func (m *MockEmployeeRepo) Create(ctx context.Context, e *domain.Employee) error {
	return m.Called(ctx, e).Error(0)
}
func (m *MockEmployeeRepo) GetByID(ctx context.Context, id int32) (*domain.Employee, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Employee), args.Error(1)
}
func (m *MockEmployeeRepo) GetByLogin(ctx context.Context, login string) (*domain.Employee, error) {
	args := m.Called(ctx, login)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Employee), args.Error(1)
}
func (m *MockEmployeeRepo) Update(ctx context.Context, e *domain.Employee) error {
	return m.Called(ctx, e).Error(0)
}
func (m *MockEmployeeRepo) UpdatePassword(ctx context.Context, id int32, hash string) error {
	return m.Called(ctx, id, hash).Error(0)
}
func (m *MockEmployeeRepo) Delete(ctx context.Context, id int32) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockEmployeeRepo) List(ctx context.Context) ([]domain.Employee, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Employee), args.Error(1)
}

// MockCustomerRepo
type MockCustomerRepo struct {
	mock.Mock
}

func (m *MockCustomerRepo) Create(ctx context.Context, c *domain.Customer) error {
	return m.Called(ctx, c).Error(0)
}
func (m *MockCustomerRepo) GetByID(ctx context.Context, id int32) (*domain.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}
func (m *MockCustomerRepo) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}
func (m *MockCustomerRepo) UpdatePassword(ctx context.Context, id int32, hash string) error {
	return m.Called(ctx, id, hash).Error(0)
}
