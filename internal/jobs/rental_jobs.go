package jobs

import (
	"context"

	"toolrental-backend/internal/logger"
)

// ExpireStaleReservations cancels reservations that were never picked up
// within the grace period after their planned pickup.
func (jr *JobRunner) ExpireStaleReservations() {
	jr.runWithRecovery("ExpireStaleReservations", func(ctx context.Context) error {
		ids, err := jr.rentals.ExpireStaleReservations(ctx)
		if err != nil {
			return err
		}
		logger.InfoContext(ctx, "Expired stale reservations", "count", len(ids))
		return nil
	})
}

// ReportOverdueReturns logs issued rentals past their planned return so the
// warehouse can chase them.
func (jr *JobRunner) ReportOverdueReturns() {
	jr.runWithRecovery("ReportOverdueReturns", func(ctx context.Context) error {
		rentals, err := jr.rentals.OverdueRentals(ctx)
		if err != nil {
			return err
		}

		logger.InfoContext(ctx, "Overdue rentals found", "count", len(rentals))

		// Log details for each overdue rental
		for _, r := range rentals {
			logger.WarnContext(ctx, "Rental overdue",
				"rental_id", r.ID,
				"customer_id", r.CustomerID,
				"planned_return", r.PlannedReturn.Format("2006-01-02"))
		}
		return nil
	})
}
