package service

import (
	"context"
	"fmt"
	"strings"

	"toolrental-backend/internal/domain"
	"toolrental-backend/internal/logger"
	"toolrental-backend/internal/repository"
	"toolrental-backend/internal/utils"
)

type rentalService struct {
	base
}

func NewRentalService(tx repository.Transactor, repos *repository.Repositories, settings Settings) RentalService {
	return &rentalService{base: newBase(tx, repos, settings)}
}

// CreateReservation books quantity instances of a model for the window. The
// model's instance rows stay locked from the availability check until the
// lines are written, so two concurrent bookings cannot take the same unit.
func (s *rentalService) CreateReservation(ctx context.Context, req domain.ReservationRequest) (*domain.Rental, error) {
	logger.EnterMethod(ctx, "RentalService.CreateReservation",
		"customer_id", req.CustomerID, "model_id", req.ModelID, "quantity", req.Quantity)
	if err := req.Validate(); err != nil {
		logger.ExitMethod(ctx, "RentalService.CreateReservation", err)
		return nil, err
	}

	var rental *domain.Rental
	err := s.tx.WithinTx(ctx, func(repos *repository.Repositories) error {
		if _, err := repos.Customers.GetByID(ctx, req.CustomerID); err != nil {
			return err
		}
		model, err := repos.Models.GetByID(ctx, req.ModelID)
		if err != nil {
			return err
		}
		if err := repos.Instances.LockByModel(ctx, req.ModelID); err != nil {
			return err
		}
		free, err := repos.Instances.ListAvailable(ctx, req.ModelID, req.Start, req.End)
		if err != nil {
			return err
		}
		if len(free) < req.Quantity {
			logger.InfoContext(ctx, "Reservation rejected for lack of stock",
				"model_id", req.ModelID, "requested", req.Quantity, "available", len(free))
			return domain.ErrInsufficientStock
		}

		cost, err := utils.RentalCost(req.Start, req.End, model.DailyPrice, req.Quantity)
		if err != nil {
			return err
		}
		rt := &domain.Rental{
			CustomerID:    req.CustomerID,
			ReservedAt:    s.now(),
			PlannedPickup: req.Start,
			PlannedReturn: req.End,
			Status:        domain.RentalStatusReserved,
			TotalCost:     cost,
		}
		if err := repos.Rentals.Create(ctx, rt); err != nil {
			return err
		}
		for _, inst := range free[:req.Quantity] {
			line := domain.RentalLine{RentalID: rt.ID, InstanceID: inst.ID}
			if err := repos.Rentals.CreateLine(ctx, &line); err != nil {
				return err
			}
			rt.Lines = append(rt.Lines, line)
		}
		rental = rt
		return nil
	})
	logger.ExitMethod(ctx, "RentalService.CreateReservation", err)
	if err != nil {
		return nil, err
	}
	return rental, nil
}

// ProcessAction moves a rental to the target status and relocates its
// instances accordingly, all in one transaction.
func (s *rentalService) ProcessAction(ctx context.Context, rentalID int32, to domain.RentalStatus, employeeID *int32) (*domain.Rental, error) {
	logger.EnterMethod(ctx, "RentalService.ProcessAction", "rental_id", rentalID, "to", to)
	if !to.Valid() {
		err := domain.Validationf("invalid rental status %q", to)
		logger.ExitMethod(ctx, "RentalService.ProcessAction", err)
		return nil, err
	}

	var rental *domain.Rental
	err := s.tx.WithinTx(ctx, func(repos *repository.Repositories) error {
		rt, err := repos.Rentals.GetByIDForUpdate(ctx, rentalID)
		if err != nil {
			return err
		}
		if err := rt.Transition(to, s.now(), employeeID); err != nil {
			return err
		}
		if err := repos.Rentals.Update(ctx, rt); err != nil {
			return err
		}

		lines, err := repos.Rentals.ListLines(ctx, rt.ID)
		if err != nil {
			return err
		}
		rt.Lines = lines
		if to == domain.RentalStatusCancelled || len(lines) == 0 {
			rental = rt
			return nil
		}

		ids := make([]int32, len(lines))
		faulty := make(map[int32]bool, len(lines))
		for i, l := range lines {
			ids[i] = l.InstanceID
			faulty[l.InstanceID] = l.FaultReported
		}
		instances, err := repos.Instances.ListByIDsForUpdate(ctx, ids)
		if err != nil {
			return err
		}
		for i := range instances {
			inst := &instances[i]
			switch to {
			case domain.RentalStatusIssued:
				inst.HandOver()
			case domain.RentalStatusCompleted:
				inst.CheckIn(s.settings.DefaultWarehouseID, faulty[inst.ID], s.settings.WearThreshold)
			}
			if err := repos.Instances.Update(ctx, inst); err != nil {
				return err
			}
		}
		rental = rt
		return nil
	})
	logger.ExitMethod(ctx, "RentalService.ProcessAction", err)
	if err != nil {
		return nil, err
	}
	return rental, nil
}

func (s *rentalService) CustomerHistory(ctx context.Context, customerID int32) ([]domain.RentalSummary, error) {
	rentals, err := s.repos.Rentals.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	details, err := s.repos.Rentals.ListLineDetailsByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	byRental := make(map[int32][]domain.RentalLineDetail)
	for _, d := range details {
		byRental[d.RentalID] = append(byRental[d.RentalID], d)
	}

	out := make([]domain.RentalSummary, 0, len(rentals))
	for _, rt := range rentals {
		lines := byRental[rt.ID]
		cost, deposits, err := utils.SummarizeCharges(rt.PlannedPickup, rt.PlannedReturn, lines)
		if err != nil {
			return nil, fmt.Errorf("rental %d: %w", rt.ID, err)
		}
		out = append(out, domain.RentalSummary{
			ID:            rt.ID,
			Status:        rt.Status,
			RentalCost:    cost,
			DepositTotal:  deposits,
			TotalDue:      cost + deposits,
			PlannedPickup: rt.PlannedPickup,
			PlannedReturn: rt.PlannedReturn,
			ActualPickup:  rt.ActualPickup,
			ActualReturn:  rt.ActualReturn,
			Lines:         lines,
		})
	}
	return out, nil
}

func (s *rentalService) IssuedItems(ctx context.Context, customerID int32) ([]domain.IssuedItem, error) {
	return s.repos.Rentals.ListIssuedItems(ctx, customerID)
}

// ReportFault flags a line of an issued rental and takes the instance out of
// service immediately. Customers may only report on their own rentals.
func (s *rentalService) ReportFault(ctx context.Context, lineID int32, description string, caller *domain.Principal) error {
	description = strings.TrimSpace(description)
	if description == "" {
		return domain.Validationf("fault description is required")
	}
	if len(description) > 500 {
		return domain.Validationf("fault description must be at most 500 characters")
	}

	return s.tx.WithinTx(ctx, func(repos *repository.Repositories) error {
		line, err := repos.Rentals.GetLine(ctx, lineID)
		if err != nil {
			return err
		}
		rt, err := repos.Rentals.GetByIDForUpdate(ctx, line.RentalID)
		if err != nil {
			return err
		}
		if caller != nil && !caller.IsEmployee() && caller.ID != rt.CustomerID {
			return domain.ErrRentalLineNotFound
		}
		if rt.Status != domain.RentalStatusIssued {
			return domain.InvalidStatef("faults can only be reported for issued rentals")
		}
		line.FaultReported = true
		line.FaultDescription = description
		if err := repos.Rentals.UpdateLine(ctx, line); err != nil {
			return err
		}
		inst, err := repos.Instances.GetByIDForUpdate(ctx, line.InstanceID)
		if err != nil {
			return err
		}
		inst.Condition = domain.ConditionBroken
		if err := repos.Instances.Update(ctx, inst); err != nil {
			return err
		}
		logger.InfoContext(ctx, "Fault reported", "rental_id", rt.ID, "line_id", line.ID, "instance_id", inst.ID)
		return nil
	})
}

func (s *rentalService) PendingOperations(ctx context.Context) ([]domain.PendingOperation, error) {
	return s.repos.Rentals.ListPendingOperations(ctx)
}

// ExpireStaleReservations cancels reservations whose pickup is older than
// the configured grace period.
func (s *rentalService) ExpireStaleReservations(ctx context.Context) ([]int32, error) {
	cutoff := s.now().Add(-s.settings.ReservationGrace)
	ids, err := s.repos.Rentals.CancelStaleReservations(ctx, cutoff)
	if err != nil {
		return nil, err
	}
	if len(ids) > 0 {
		logger.InfoContext(ctx, "Cancelled stale reservations", "count", len(ids), "rental_ids", ids)
	}
	return ids, nil
}

func (s *rentalService) OverdueRentals(ctx context.Context) ([]domain.Rental, error) {
	return s.repos.Rentals.ListOverdue(ctx, s.now())
}
