package service

import (
	"context"
	"errors"
	"strings"

	"toolrental-backend/internal/domain"
	"toolrental-backend/internal/logger"
	"toolrental-backend/internal/repository"
)

type workshopService struct {
	base
}

func NewWorkshopService(tx repository.Transactor, repos *repository.Repositories, settings Settings) WorkshopService {
	return &workshopService{base: newBase(tx, repos, settings)}
}

// ListWorkshopItems lists the instances currently in the workshop.
func (s *workshopService) ListWorkshopItems(ctx context.Context, filter domain.InstanceFilter) ([]domain.InstanceListing, error) {
	filter.Location = domain.LocationWorkshop
	if filter.Condition != "" && !filter.Condition.Valid() {
		return nil, domain.Validationf("invalid technical condition %q", filter.Condition)
	}
	return s.repos.Instances.List(ctx, filter)
}

// RecordServiceAction appends to the instance's maintenance log and, when
// newCondition is given, applies the technician's verdict in the same
// transaction.
func (s *workshopService) RecordServiceAction(ctx context.Context, req domain.ServiceActionRequest, newCondition *domain.Condition) (*domain.ServiceAction, error) {
	logger.EnterMethod(ctx, "WorkshopService.RecordServiceAction",
		"instance_id", req.InstanceID, "technician_id", req.TechnicianID, "kind", req.Kind)
	if err := req.Validate(); err != nil {
		logger.ExitMethod(ctx, "WorkshopService.RecordServiceAction", err)
		return nil, err
	}
	if newCondition != nil && !newCondition.Valid() {
		err := domain.Validationf("invalid technical condition %q", *newCondition)
		logger.ExitMethod(ctx, "WorkshopService.RecordServiceAction", err)
		return nil, err
	}

	var action *domain.ServiceAction
	err := s.tx.WithinTx(ctx, func(repos *repository.Repositories) error {
		inst, err := repos.Instances.GetByIDForUpdate(ctx, req.InstanceID)
		if err != nil {
			return err
		}
		tech, err := repos.Employees.GetByID(ctx, req.TechnicianID)
		if errors.Is(err, domain.ErrEmployeeNotFound) {
			return domain.ErrTechnicianNotFound
		}
		if err != nil {
			return err
		}
		if tech.Role != domain.RoleTechnician {
			return domain.ErrTechnicianNotFound
		}

		now := s.now()
		a := &domain.ServiceAction{
			InstanceID:   inst.ID,
			TechnicianID: tech.ID,
			Kind:         req.Kind,
			StartedAt:    now,
			FinishedAt:   &now,
			Note:         strings.TrimSpace(req.Note),
		}
		if err := repos.ServiceActions.Create(ctx, a); err != nil {
			return err
		}
		if newCondition != nil {
			if err := inst.ApplyServiceResult(*newCondition); err != nil {
				return err
			}
			if err := repos.Instances.Update(ctx, inst); err != nil {
				return err
			}
		}
		action = a
		return nil
	})
	logger.ExitMethod(ctx, "WorkshopService.RecordServiceAction", err)
	if err != nil {
		return nil, err
	}
	return action, nil
}

func (s *workshopService) ServiceHistory(ctx context.Context, instanceID int32) ([]domain.ServiceAction, error) {
	if _, err := s.repos.Instances.GetByID(ctx, instanceID); err != nil {
		return nil, err
	}
	return s.repos.ServiceActions.ListByInstance(ctx, instanceID)
}
