package repository

import (
	"context"
	"time"

	"toolrental-backend/internal/domain"
)

type ToolModelRepository interface {
	Create(ctx context.Context, model *domain.ToolModel) error
	GetByID(ctx context.Context, id int32) (*domain.ToolModel, error)
	Update(ctx context.Context, model *domain.ToolModel) error
	// ListWithStock returns non-withdrawn models with the number of their
	// instances that are in a warehouse and in working order.
	ListWithStock(ctx context.Context, search, category string) ([]domain.ModelStock, error)
	// ListWithTotals returns non-withdrawn models with their total instance count.
	ListWithTotals(ctx context.Context, search string) ([]domain.ModelStock, error)
}

type ToolInstanceRepository interface {
	Create(ctx context.Context, inst *domain.ToolInstance) error
	GetByID(ctx context.Context, id int32) (*domain.ToolInstance, error)
	// GetByIDForUpdate reads the instance and locks its row until the
	// surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id int32) (*domain.ToolInstance, error)
	// ListByIDsForUpdate reads and locks the given instances in ascending id order.
	ListByIDsForUpdate(ctx context.Context, ids []int32) ([]domain.ToolInstance, error)
	Update(ctx context.Context, inst *domain.ToolInstance) error
	CountByModel(ctx context.Context, modelID int32) (int, error)
	// LockByModel locks every instance row of the model in ascending id order.
	LockByModel(ctx context.Context, modelID int32) error
	// ListAvailable returns the instances of the model free for the whole
	// inclusive window, ordered by ascending id.
	ListAvailable(ctx context.Context, modelID int32, start, end time.Time) ([]domain.ToolInstance, error)
	List(ctx context.Context, filter domain.InstanceFilter) ([]domain.InstanceListing, error)
}

type RentalRepository interface {
	Create(ctx context.Context, rental *domain.Rental) error
	CreateLine(ctx context.Context, line *domain.RentalLine) error
	GetByID(ctx context.Context, id int32) (*domain.Rental, error)
	GetByIDForUpdate(ctx context.Context, id int32) (*domain.Rental, error)
	Update(ctx context.Context, rental *domain.Rental) error
	ListLines(ctx context.Context, rentalID int32) ([]domain.RentalLine, error)
	GetLine(ctx context.Context, lineID int32) (*domain.RentalLine, error)
	UpdateLine(ctx context.Context, line *domain.RentalLine) error
	ListByCustomer(ctx context.Context, customerID int32) ([]domain.Rental, error)
	ListLineDetailsByCustomer(ctx context.Context, customerID int32) ([]domain.RentalLineDetail, error)
	ListIssuedItems(ctx context.Context, customerID int32) ([]domain.IssuedItem, error)
	ListPendingOperations(ctx context.Context) ([]domain.PendingOperation, error)
	// CancelStaleReservations cancels reservations not picked up before the
	// cutoff and returns their ids.
	CancelStaleReservations(ctx context.Context, cutoff time.Time) ([]int32, error)
	ListOverdue(ctx context.Context, now time.Time) ([]domain.Rental, error)
}

type ServiceActionRepository interface {
	Create(ctx context.Context, action *domain.ServiceAction) error
	ListByInstance(ctx context.Context, instanceID int32) ([]domain.ServiceAction, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	Exists(ctx context.Context, customerID, modelID int32) (bool, error)
	ListByModel(ctx context.Context, modelID int32) ([]domain.ReviewView, error)
}

type EmployeeRepository interface {
	Create(ctx context.Context, emp *domain.Employee) error
	GetByID(ctx context.Context, id int32) (*domain.Employee, error)
	// GetByLogin matches either the login or the e-mail address.
	GetByLogin(ctx context.Context, login string) (*domain.Employee, error)
	Update(ctx context.Context, emp *domain.Employee) error
	UpdatePassword(ctx context.Context, id int32, hash string) error
	Delete(ctx context.Context, id int32) error
	List(ctx context.Context) ([]domain.Employee, error)
}

type CustomerRepository interface {
	Create(ctx context.Context, c *domain.Customer) error
	GetByID(ctx context.Context, id int32) (*domain.Customer, error)
	GetByEmail(ctx context.Context, email string) (*domain.Customer, error)
	UpdatePassword(ctx context.Context, id int32, hash string) error
}

type SiteRepository interface {
	GetWarehouse(ctx context.Context, id int32) (*domain.Warehouse, error)
	GetWorkshop(ctx context.Context, id int32) (*domain.Workshop, error)
}

// Repositories groups the repositories bound to one connection or transaction.
type Repositories struct {
	Models         ToolModelRepository
	Instances      ToolInstanceRepository
	Rentals        RentalRepository
	ServiceActions ServiceActionRepository
	Reviews        ReviewRepository
	Employees      EmployeeRepository
	Customers      CustomerRepository
	Sites          SiteRepository
}

// Transactor runs fn with repositories bound to a single database
// transaction. The transaction commits when fn returns nil and rolls back
// otherwise.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(repos *Repositories) error) error
}
