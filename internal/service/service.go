package service

import (
	"context"
	"time"

	"toolrental-backend/internal/domain"
	"toolrental-backend/internal/repository"
)

type InventoryService interface {
	ListCatalog(ctx context.Context, search, category string) ([]domain.ModelStock, error)
	ModelSummary(ctx context.Context, search string) ([]domain.ModelStock, error)
	GetModel(ctx context.Context, id int32) (*domain.ToolModel, error)
	CreateModel(ctx context.Context, model *domain.ToolModel) error
	UpdateModel(ctx context.Context, id int32, patch domain.ToolModelPatch) (*domain.ToolModel, error)
	WithdrawModel(ctx context.Context, id int32) error
	CountAvailable(ctx context.Context, modelID int32, start, end time.Time) (int, error)
	ListAvailable(ctx context.Context, modelID int32, start, end time.Time) ([]domain.ToolInstance, error)
	BulkCreateInstances(ctx context.Context, modelID int32, quantity int) ([]domain.ToolInstance, error)
	ListInstances(ctx context.Context, filter domain.InstanceFilter) ([]domain.InstanceListing, error)
	UpdateCondition(ctx context.Context, instanceID int32, condition domain.Condition) (*domain.ToolInstance, error)
	SendToService(ctx context.Context, instanceID int32, workshopID *int32) (*domain.ToolInstance, error)
	ReceiveFromService(ctx context.Context, instanceID int32, warehouseID *int32) (*domain.ToolInstance, error)
	MarkForInspection(ctx context.Context, instanceID int32, workshopID *int32) (*domain.ToolInstance, error)
}

type RentalService interface {
	CreateReservation(ctx context.Context, req domain.ReservationRequest) (*domain.Rental, error)
	ProcessAction(ctx context.Context, rentalID int32, to domain.RentalStatus, employeeID *int32) (*domain.Rental, error)
	CustomerHistory(ctx context.Context, customerID int32) ([]domain.RentalSummary, error)
	IssuedItems(ctx context.Context, customerID int32) ([]domain.IssuedItem, error)
	ReportFault(ctx context.Context, lineID int32, description string, caller *domain.Principal) error
	PendingOperations(ctx context.Context) ([]domain.PendingOperation, error)
	ExpireStaleReservations(ctx context.Context) ([]int32, error)
	OverdueRentals(ctx context.Context) ([]domain.Rental, error)
}

type WorkshopService interface {
	ListWorkshopItems(ctx context.Context, filter domain.InstanceFilter) ([]domain.InstanceListing, error)
	RecordServiceAction(ctx context.Context, req domain.ServiceActionRequest, newCondition *domain.Condition) (*domain.ServiceAction, error)
	ServiceHistory(ctx context.Context, instanceID int32) ([]domain.ServiceAction, error)
}

type ReviewService interface {
	AddReview(ctx context.Context, review *domain.Review) error
	ListReviews(ctx context.Context, modelID int32) ([]domain.ReviewView, error)
	HasReviewed(ctx context.Context, customerID, modelID int32) (bool, error)
}

type UserService interface {
	Login(ctx context.Context, login, password string) (*domain.Principal, string, error)
	RegisterCustomer(ctx context.Context, c *domain.Customer, password, securityAnswer string) error
	SecurityQuestion(ctx context.Context, email string) (string, error)
	VerifySecurityAnswer(ctx context.Context, email, answer, newPassword string) error
	ChangePassword(ctx context.Context, p *domain.Principal, current, next string) error
	ListEmployees(ctx context.Context) ([]domain.Employee, error)
	CreateEmployee(ctx context.Context, e *domain.Employee, password string) error
	UpdateEmployee(ctx context.Context, id int32, patch domain.EmployeePatch) (*domain.Employee, error)
	DeleteEmployee(ctx context.Context, id int32) error
}

// Settings are the business parameters shared by the services.
type Settings struct {
	DefaultWarehouseID int32
	DefaultWorkshopID  int32
	WearThreshold      int32
	MaxBulkQuantity    int
	ReservationGrace   time.Duration
}

// DefaultSettings matches the single-site deployment.
func DefaultSettings() Settings {
	return Settings{
		DefaultWarehouseID: 1,
		DefaultWorkshopID:  1,
		WearThreshold:      domain.DefaultWearThreshold,
		MaxBulkQuantity:    500,
		ReservationGrace:   24 * time.Hour,
	}
}

// base carries the dependencies every service implementation shares.
type base struct {
	tx       repository.Transactor
	repos    *repository.Repositories
	settings Settings
	now      func() time.Time
}

func newBase(tx repository.Transactor, repos *repository.Repositories, settings Settings) base {
	return base{tx: tx, repos: repos, settings: settings, now: time.Now}
}

func orDefault(id *int32, def int32) int32 {
	if id != nil {
		return *id
	}
	return def
}
