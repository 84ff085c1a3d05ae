package http

import (
	"context"
	"time"

	"toolrental-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockInventoryService
type MockInventoryService struct {
	mock.Mock
}

func (m *MockInventoryService) ListCatalog(ctx context.Context, search, category string) ([]domain.ModelStock, error) {
	args := m.Called(ctx, search, category)
	return args.Get(0).([]domain.ModelStock), args.Error(1)
}
func (m *MockInventoryService) ModelSummary(ctx context.Context, search string) ([]domain.ModelStock, error) {
	args := m.Called(ctx, search)
	return args.Get(0).([]domain.ModelStock), args.Error(1)
}
func (m *MockInventoryService) GetModel(ctx context.Context, id int32) (*domain.ToolModel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ToolModel), args.Error(1)
}
func (m *MockInventoryService) CreateModel(ctx context.Context, model *domain.ToolModel) error {
	args := m.Called(ctx, model)
	return args.Error(0)
}
func (m *MockInventoryService) UpdateModel(ctx context.Context, id int32, patch domain.ToolModelPatch) (*domain.ToolModel, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ToolModel), args.Error(1)
}
func (m *MockInventoryService) WithdrawModel(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockInventoryService) CountAvailable(ctx context.Context, modelID int32, start, end time.Time) (int, error) {
	args := m.Called(ctx, modelID, start, end)
	return args.Int(0), args.Error(1)
}
func (m *MockInventoryService) ListAvailable(ctx context.Context, modelID int32, start, end time.Time) ([]domain.ToolInstance, error) {
	args := m.Called(ctx, modelID, start, end)
	return args.Get(0).([]domain.ToolInstance), args.Error(1)
}
func (m *MockInventoryService) BulkCreateInstances(ctx context.Context, modelID int32, quantity int) ([]domain.ToolInstance, error) {
	args := m.Called(ctx, modelID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ToolInstance), args.Error(1)
}
func (m *MockInventoryService) ListInstances(ctx context.Context, filter domain.InstanceFilter) ([]domain.InstanceListing, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.InstanceListing), args.Error(1)
}
func (m *MockInventoryService) UpdateCondition(ctx context.Context, instanceID int32, condition domain.Condition) (*domain.ToolInstance, error) {
	args := m.Called(ctx, instanceID, condition)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ToolInstance), args.Error(1)
}
func (m *MockInventoryService) SendToService(ctx context.Context, instanceID int32, workshopID *int32) (*domain.ToolInstance, error) {
	args := m.Called(ctx, instanceID, workshopID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ToolInstance), args.Error(1)
}
func (m *MockInventoryService) ReceiveFromService(ctx context.Context, instanceID int32, warehouseID *int32) (*domain.ToolInstance, error) {
	args := m.Called(ctx, instanceID, warehouseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ToolInstance), args.Error(1)
}
func (m *MockInventoryService) MarkForInspection(ctx context.Context, instanceID int32, workshopID *int32) (*domain.ToolInstance, error) {
	args := m.Called(ctx, instanceID, workshopID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ToolInstance), args.Error(1)
}

// MockRentalService
type MockRentalService struct {
	mock.Mock
}

func (m *MockRentalService) CreateReservation(ctx context.Context, req domain.ReservationRequest) (*domain.Rental, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalService) ProcessAction(ctx context.Context, rentalID int32, to domain.RentalStatus, employeeID *int32) (*domain.Rental, error) {
	args := m.Called(ctx, rentalID, to, employeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalService) CustomerHistory(ctx context.Context, customerID int32) ([]domain.RentalSummary, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).([]domain.RentalSummary), args.Error(1)
}
func (m *MockRentalService) IssuedItems(ctx context.Context, customerID int32) ([]domain.IssuedItem, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).([]domain.IssuedItem), args.Error(1)
}
func (m *MockRentalService) ReportFault(ctx context.Context, lineID int32, description string, caller *domain.Principal) error {
	args := m.Called(ctx, lineID, description, caller)
	return args.Error(0)
}
func (m *MockRentalService) PendingOperations(ctx context.Context) ([]domain.PendingOperation, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.PendingOperation), args.Error(1)
}
func (m *MockRentalService) ExpireStaleReservations(ctx context.Context) ([]int32, error) {
	args := m.Called(ctx)
	return args.Get(0).([]int32), args.Error(1)
}
func (m *MockRentalService) OverdueRentals(ctx context.Context) ([]domain.Rental, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Rental), args.Error(1)
}

// MockWorkshopService
type MockWorkshopService struct {
	mock.Mock
}

func (m *MockWorkshopService) ListWorkshopItems(ctx context.Context, filter domain.InstanceFilter) ([]domain.InstanceListing, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.InstanceListing), args.Error(1)
}
func (m *MockWorkshopService) RecordServiceAction(ctx context.Context, req domain.ServiceActionRequest, newCondition *domain.Condition) (*domain.ServiceAction, error) {
	args := m.Called(ctx, req, newCondition)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ServiceAction), args.Error(1)
}
func (m *MockWorkshopService) ServiceHistory(ctx context.Context, instanceID int32) ([]domain.ServiceAction, error) {
	args := m.Called(ctx, instanceID)
	return args.Get(0).([]domain.ServiceAction), args.Error(1)
}

// MockReviewService
type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) AddReview(ctx context.Context, review *domain.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}
func (m *MockReviewService) ListReviews(ctx context.Context, modelID int32) ([]domain.ReviewView, error) {
	args := m.Called(ctx, modelID)
	return args.Get(0).([]domain.ReviewView), args.Error(1)
}
func (m *MockReviewService) HasReviewed(ctx context.Context, customerID, modelID int32) (bool, error) {
	args := m.Called(ctx, customerID, modelID)
	return args.Bool(0), args.Error(1)
}

// MockUserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Login(ctx context.Context, login, password string) (*domain.Principal, string, error) {
	args := m.Called(ctx, login, password)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*domain.Principal), args.String(1), args.Error(2)
}
func (m *MockUserService) RegisterCustomer(ctx context.Context, c *domain.Customer, password, securityAnswer string) error {
	args := m.Called(ctx, c, password, securityAnswer)
	return args.Error(0)
}
func (m *MockUserService) SecurityQuestion(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}
func (m *MockUserService) VerifySecurityAnswer(ctx context.Context, email, answer, newPassword string) error {
	return m.Called(ctx, email, answer, newPassword).Error(0)
}
func (m *MockUserService) ChangePassword(ctx context.Context, p *domain.Principal, current, next string) error {
	args := m.Called(ctx, p, current, next)
	return args.Error(0)
}
func (m *MockUserService) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Employee), args.Error(1)
}
func (m *MockUserService) CreateEmployee(ctx context.Context, e *domain.Employee, password string) error {
	args := m.Called(ctx, e, password)
	return args.Error(0)
}
func (m *MockUserService) UpdateEmployee(ctx context.Context, id int32, patch domain.EmployeePatch) (*domain.Employee, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Employee), args.Error(1)
}
func (m *MockUserService) DeleteEmployee(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockPinger struct {
	err error
}

func (p mockPinger) Ping(context.Context) error { return p.err }
