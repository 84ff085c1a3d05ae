package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"toolrental-backend/internal/domain"
	"toolrental-backend/internal/logger"
	"toolrental-backend/internal/repository"

	"github.com/google/uuid"
)

type inventoryService struct {
	base
}

func NewInventoryService(tx repository.Transactor, repos *repository.Repositories, settings Settings) InventoryService {
	return &inventoryService{base: newBase(tx, repos, settings)}
}

func (s *inventoryService) ListCatalog(ctx context.Context, search, category string) ([]domain.ModelStock, error) {
	return s.repos.Models.ListWithStock(ctx, strings.TrimSpace(search), strings.TrimSpace(category))
}

func (s *inventoryService) ModelSummary(ctx context.Context, search string) ([]domain.ModelStock, error) {
	return s.repos.Models.ListWithTotals(ctx, strings.TrimSpace(search))
}

func (s *inventoryService) GetModel(ctx context.Context, id int32) (*domain.ToolModel, error) {
	return s.repos.Models.GetByID(ctx, id)
}

func (s *inventoryService) CreateModel(ctx context.Context, m *domain.ToolModel) error {
	m.Withdrawn = false
	if err := m.Validate(); err != nil {
		return err
	}
	return s.repos.Models.Create(ctx, m)
}

func (s *inventoryService) UpdateModel(ctx context.Context, id int32, patch domain.ToolModelPatch) (*domain.ToolModel, error) {
	m, err := s.repos.Models.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(m)
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if err := s.repos.Models.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// WithdrawModel hides a model from the catalog. Models that still own
// instances are kept so their rental history stays intact.
func (s *inventoryService) WithdrawModel(ctx context.Context, id int32) error {
	return s.tx.WithinTx(ctx, func(repos *repository.Repositories) error {
		m, err := repos.Models.GetByID(ctx, id)
		if err != nil {
			return err
		}
		n, err := repos.Instances.CountByModel(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return domain.ErrModelHasInstances
		}
		m.Withdrawn = true
		return repos.Models.Update(ctx, m)
	})
}

func (s *inventoryService) CountAvailable(ctx context.Context, modelID int32, start, end time.Time) (int, error) {
	free, err := s.ListAvailable(ctx, modelID, start, end)
	if err != nil {
		return 0, err
	}
	return len(free), nil
}

func (s *inventoryService) ListAvailable(ctx context.Context, modelID int32, start, end time.Time) ([]domain.ToolInstance, error) {
	if end.Before(start) {
		return nil, domain.Validationf("return date cannot be before pickup date")
	}
	return s.repos.Instances.ListAvailable(ctx, modelID, start, end)
}

func (s *inventoryService) BulkCreateInstances(ctx context.Context, modelID int32, quantity int) ([]domain.ToolInstance, error) {
	logger.EnterMethod(ctx, "InventoryService.BulkCreateInstances", "model_id", modelID, "quantity", quantity)
	if quantity < 1 || quantity > s.settings.MaxBulkQuantity {
		err := domain.Validationf("quantity must be between 1 and %d", s.settings.MaxBulkQuantity)
		logger.ExitMethod(ctx, "InventoryService.BulkCreateInstances", err)
		return nil, err
	}

	var created []domain.ToolInstance
	err := s.tx.WithinTx(ctx, func(repos *repository.Repositories) error {
		if _, err := repos.Models.GetByID(ctx, modelID); err != nil {
			return err
		}
		warehouseID := s.settings.DefaultWarehouseID
		now := s.now()
		for i := 0; i < quantity; i++ {
			inst := domain.ToolInstance{
				ModelID:      modelID,
				SerialNumber: newSerialNumber(),
				Location:     domain.LocationWarehouse,
				Condition:    domain.ConditionOK,
				PurchasedAt:  now,
				WarehouseID:  &warehouseID,
			}
			if err := repos.Instances.Create(ctx, &inst); err != nil {
				return fmt.Errorf("failed to create instance %d of %d: %w", i+1, quantity, err)
			}
			created = append(created, inst)
		}
		return nil
	})
	logger.ExitMethod(ctx, "InventoryService.BulkCreateInstances", err, "created", len(created))
	if err != nil {
		return nil, err
	}
	return created, nil
}

func newSerialNumber() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "SN-" + strings.ToUpper(id[:6])
}

func (s *inventoryService) ListInstances(ctx context.Context, filter domain.InstanceFilter) ([]domain.InstanceListing, error) {
	if filter.Location != "" && !filter.Location.Valid() {
		return nil, domain.Validationf("invalid location %q", filter.Location)
	}
	if filter.Condition != "" && !filter.Condition.Valid() {
		return nil, domain.Validationf("invalid technical condition %q", filter.Condition)
	}
	return s.repos.Instances.List(ctx, filter)
}

func (s *inventoryService) UpdateCondition(ctx context.Context, instanceID int32, condition domain.Condition) (*domain.ToolInstance, error) {
	if !condition.Valid() {
		return nil, domain.Validationf("invalid technical condition %q", condition)
	}
	return s.mutateInstance(ctx, "UpdateCondition", instanceID, func(inst *domain.ToolInstance) error {
		inst.Condition = condition
		return nil
	})
}

func (s *inventoryService) SendToService(ctx context.Context, instanceID int32, workshopID *int32) (*domain.ToolInstance, error) {
	ws := orDefault(workshopID, s.settings.DefaultWorkshopID)
	return s.mutateInstance(ctx, "SendToService", instanceID, func(inst *domain.ToolInstance) error {
		return inst.SendToService(ws)
	})
}

func (s *inventoryService) ReceiveFromService(ctx context.Context, instanceID int32, warehouseID *int32) (*domain.ToolInstance, error) {
	wh := orDefault(warehouseID, s.settings.DefaultWarehouseID)
	return s.mutateInstance(ctx, "ReceiveFromService", instanceID, func(inst *domain.ToolInstance) error {
		return inst.ReceiveFromService(wh)
	})
}

func (s *inventoryService) MarkForInspection(ctx context.Context, instanceID int32, workshopID *int32) (*domain.ToolInstance, error) {
	ws := orDefault(workshopID, s.settings.DefaultWorkshopID)
	return s.mutateInstance(ctx, "MarkForInspection", instanceID, func(inst *domain.ToolInstance) error {
		return inst.MarkForInspection(ws)
	})
}

// mutateInstance loads the instance under a row lock, applies fn and stores
// the result. Nothing is written when fn fails.
func (s *inventoryService) mutateInstance(ctx context.Context, op string, instanceID int32, fn func(*domain.ToolInstance) error) (*domain.ToolInstance, error) {
	method := "InventoryService." + op
	logger.EnterMethod(ctx, method, "instance_id", instanceID)

	var out *domain.ToolInstance
	err := s.tx.WithinTx(ctx, func(repos *repository.Repositories) error {
		inst, err := repos.Instances.GetByIDForUpdate(ctx, instanceID)
		if err != nil {
			return err
		}
		if err := fn(inst); err != nil {
			return err
		}
		if err := repos.Instances.Update(ctx, inst); err != nil {
			return err
		}
		out = inst
		return nil
	})
	logger.ExitMethod(ctx, method, err)
	if err != nil {
		return nil, err
	}
	return out, nil
}
