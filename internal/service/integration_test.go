//go:build integration

package service_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"toolrental-backend/internal/domain"
	"toolrental-backend/internal/logger"
	"toolrental-backend/internal/migrations"
	"toolrental-backend/internal/repository/postgres"
	"toolrental-backend/internal/security"
	"toolrental-backend/internal/service"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

var testDB *sql.DB

func TestMain(m *testing.M) {
	os.Exit(run(m))
}

func run(m *testing.M) int {
	ctx := context.Background()
	logger.Initialize("warn", "text")

	ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("toolrental"),
		tcpostgres.WithUsername("toolrental"),
		tcpostgres.WithPassword("toolrental"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start postgres container: %v\n", err)
		return 1
	}
	defer testcontainers.TerminateContainer(ctr)

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to get connection string: %v\n", err)
		return 1
	}
	testDB, err = sql.Open("postgres", dsn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open database: %v\n", err)
		return 1
	}
	defer testDB.Close()

	if _, err := migrations.NewRunner(testDB).Up(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "failed to migrate: %v\n", err)
		return 1
	}
	return m.Run()
}

type env struct {
	inventory service.InventoryService
	rentals   service.RentalService
	users     service.UserService
	reviews   service.ReviewService
}

func newEnv() env {
	store := postgres.NewStore(testDB)
	repos := store.Repos()
	settings := service.DefaultSettings()
	return env{
		inventory: service.NewInventoryService(store, repos, settings),
		rentals:   service.NewRentalService(store, repos, settings),
		users:     service.NewUserService(store, repos, security.NewTokenManager("0123456789abcdef0123456789abcdef", time.Hour), settings),
		reviews:   service.NewReviewService(store, repos, settings),
	}
}

// seed creates a model with n rentable instances and a fresh customer.
func seed(t *testing.T, e env, dailyPrice int32, n int) (*domain.ToolModel, []domain.ToolInstance, *domain.Customer) {
	t.Helper()
	ctx := context.Background()

	model := &domain.ToolModel{Name: "Wiertarka X " + uuid.NewString()[:6], Maker: "Bosch", Category: "Wiertarki", DailyPrice: dailyPrice, Deposit: 50}
	require.NoError(t, e.inventory.CreateModel(ctx, model))

	instances, err := e.inventory.BulkCreateInstances(ctx, model.ID, n)
	require.NoError(t, err)

	c := &domain.Customer{FirstName: "Jan", LastName: "Kowalski", Email: uuid.NewString()[:8] + "@example.com", SecurityQuestion: "Imię psa?"}
	require.NoError(t, e.users.RegisterCustomer(ctx, c, "Sekret123", "Burek"))
	return model, instances, c
}

func day(d int) time.Time {
	return time.Date(2025, 6, d, 10, 0, 0, 0, time.UTC)
}

func rentalCount(t *testing.T, customerID int32) int {
	t.Helper()
	var n int
	require.NoError(t, testDB.QueryRow(`SELECT COUNT(*) FROM rentals WHERE customer_id = $1`, customerID).Scan(&n))
	return n
}

func TestIntegration_ReservationCostAndAvailability(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	model, _, c := seed(t, e, 20, 2)

	rental, err := e.rentals.CreateReservation(ctx, domain.ReservationRequest{CustomerID: c.ID, ModelID: model.ID, Quantity: 2, Start: day(1), End: day(3)})
	require.NoError(t, err)
	assert.Equal(t, int32(80), rental.TotalCost)
	assert.Len(t, rental.Lines, 2)

	n, err := e.inventory.CountAvailable(ctx, model.ID, day(2), day(4))
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = e.inventory.CountAvailable(ctx, model.ID, day(4), day(5))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestIntegration_AvailabilityWindowBoundaries(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	model, _, c := seed(t, e, 20, 1)

	rental, err := e.rentals.CreateReservation(ctx, domain.ReservationRequest{CustomerID: c.ID, ModelID: model.ID, Quantity: 1, Start: day(1), End: day(3)})
	require.NoError(t, err)

	t.Run("TouchingWindowIsTaken", func(t *testing.T) {
		n, err := e.inventory.CountAvailable(ctx, model.ID, day(3), day(5))
		require.NoError(t, err)
		assert.Zero(t, n)

		_, err = e.rentals.CreateReservation(ctx, domain.ReservationRequest{CustomerID: c.ID, ModelID: model.ID, Quantity: 1, Start: day(3), End: day(5)})
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	})

	t.Run("WindowEndingOnPickupIsTaken", func(t *testing.T) {
		n, err := e.inventory.CountAvailable(ctx, model.ID, time.Date(2025, 5, 30, 10, 0, 0, 0, time.UTC), day(1))
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("AdjacentWindowIsFree", func(t *testing.T) {
		n, err := e.inventory.CountAvailable(ctx, model.ID, day(4), day(6))
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("CancelledReservationFreesInstance", func(t *testing.T) {
		_, err := e.rentals.ProcessAction(ctx, rental.ID, domain.RentalStatusCancelled, nil)
		require.NoError(t, err)

		n, err := e.inventory.CountAvailable(ctx, model.ID, day(2), day(3))
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		_, err = e.rentals.CreateReservation(ctx, domain.ReservationRequest{CustomerID: c.ID, ModelID: model.ID, Quantity: 1, Start: day(2), End: day(3)})
		assert.NoError(t, err)
	})
}

func TestIntegration_InsufficientStockPersistsNothing(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	model, _, c := seed(t, e, 20, 2)

	_, err := e.rentals.CreateReservation(ctx, domain.ReservationRequest{CustomerID: c.ID, ModelID: model.ID, Quantity: 3, Start: day(1), End: day(3)})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Zero(t, rentalCount(t, c.ID))
}

func TestIntegration_SameDayBillsOneDay(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	model, _, c := seed(t, e, 20, 1)

	start := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	rental, err := e.rentals.CreateReservation(ctx, domain.ReservationRequest{CustomerID: c.ID, ModelID: model.ID, Quantity: 1, Start: start, End: start.Add(6 * time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, int32(20), rental.TotalCost)
}

func TestIntegration_IssueAndCompleteWithFaultAndWear(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	model, instances, c := seed(t, e, 20, 3)

	// One unit is one rental away from needing inspection.
	worn := instances[1].ID
	_, err := testDB.Exec(`UPDATE tool_instances SET rental_count = $1 WHERE id = $2`, domain.DefaultWearThreshold-1, worn)
	require.NoError(t, err)

	rental, err := e.rentals.CreateReservation(ctx, domain.ReservationRequest{CustomerID: c.ID, ModelID: model.ID, Quantity: 3, Start: day(10), End: day(12)})
	require.NoError(t, err)

	_, err = e.rentals.ProcessAction(ctx, rental.ID, domain.RentalStatusIssued, nil)
	require.NoError(t, err)

	listing, err := e.inventory.ListInstances(ctx, domain.InstanceFilter{Search: model.Name})
	require.NoError(t, err)
	require.Len(t, listing, 3)
	for _, l := range listing {
		assert.Equal(t, domain.LocationWithCustomer, l.Location)
	}

	faultyLine := rental.Lines[0]
	caller := &domain.Principal{ID: c.ID, Kind: domain.PrincipalCustomer, Role: domain.RoleCustomer}
	require.NoError(t, e.rentals.ReportFault(ctx, faultyLine.ID, "nie włącza się", caller))

	_, err = e.rentals.ProcessAction(ctx, rental.ID, domain.RentalStatusCompleted, nil)
	require.NoError(t, err)

	listing, err = e.inventory.ListInstances(ctx, domain.InstanceFilter{Search: model.Name})
	require.NoError(t, err)
	for _, l := range listing {
		assert.Equal(t, domain.LocationWarehouse, l.Location)
		switch l.ID {
		case faultyLine.InstanceID:
			assert.Equal(t, domain.ConditionBroken, l.Condition)
		case worn:
			assert.Equal(t, domain.ConditionNeedsInspection, l.Condition)
		default:
			assert.Equal(t, domain.ConditionOK, l.Condition)
		}
	}

	// Cancelling a completed rental is not a valid transition.
	_, err = e.rentals.ProcessAction(ctx, rental.ID, domain.RentalStatusCancelled, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	history, err := e.rentals.CustomerHistory(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, int32(2*3*20), history[0].RentalCost)
	assert.Equal(t, int32(3*50), history[0].DepositTotal)
}

func TestIntegration_ServiceRoundTrip(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	_, instances, _ := seed(t, e, 20, 1)
	id := instances[0].ID

	_, err := e.inventory.ReceiveFromService(ctx, id, nil)
	assert.ErrorIs(t, err, domain.ErrNotInWorkshop)

	_, err = e.inventory.UpdateCondition(ctx, id, domain.ConditionBroken)
	require.NoError(t, err)

	inst, err := e.inventory.SendToService(ctx, id, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.LocationWorkshop, inst.Location)
	assert.Nil(t, inst.WarehouseID)
	require.NotNil(t, inst.WorkshopID)

	inst, err = e.inventory.ReceiveFromService(ctx, id, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.LocationWarehouse, inst.Location)
	assert.Equal(t, domain.ConditionOK, inst.Condition)
	assert.Zero(t, inst.RentalCount)
	assert.Nil(t, inst.WorkshopID)
}

func TestIntegration_ConcurrentReservations(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	model, _, c := seed(t, e, 20, 2)

	const attempts = 6
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		failures  []error
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.rentals.CreateReservation(ctx, domain.ReservationRequest{CustomerID: c.ID, ModelID: model.ID, Quantity: 1, Start: day(20), End: day(22)})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
				return
			}
			failures = append(failures, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 2, succeeded)
	for _, err := range failures {
		assert.True(t, errors.Is(err, domain.ErrInsufficientStock), "unexpected error: %v", err)
	}
	assert.Equal(t, 2, rentalCount(t, c.ID))
}

func TestIntegration_OneReviewPerModel(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	model, _, c := seed(t, e, 20, 1)

	require.NoError(t, e.reviews.AddReview(ctx, &domain.Review{ModelID: model.ID, CustomerID: c.ID, Rating: 5, Comment: "Świetna"}))
	err := e.reviews.AddReview(ctx, &domain.Review{ModelID: model.ID, CustomerID: c.ID, Rating: 1})
	assert.ErrorIs(t, err, domain.ErrIntegrityViolation)

	reviews, err := e.reviews.ListReviews(ctx, model.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "Jan", reviews[0].Author)
}

func TestIntegration_LoginRoundTrip(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	_, _, c := seed(t, e, 20, 1)

	p, token, err := e.users.Login(ctx, c.Email, "Sekret123")
	require.NoError(t, err)
	assert.Equal(t, c.ID, p.ID)
	assert.NotEmpty(t, token)

	_, _, err = e.users.Login(ctx, c.Email, "Zle12345")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestIntegration_SecurityAnswerResetsPassword(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	_, _, c := seed(t, e, 20, 1)

	q, err := e.users.SecurityQuestion(ctx, c.Email)
	require.NoError(t, err)
	assert.Equal(t, "Imię psa?", q)

	assert.ErrorIs(t, e.users.VerifySecurityAnswer(ctx, c.Email, "Azor", "Nowe12345"), domain.ErrValidation)
	require.NoError(t, e.users.VerifySecurityAnswer(ctx, c.Email, " burek ", "Nowe12345"))

	_, _, err = e.users.Login(ctx, c.Email, "Sekret123")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, _, err = e.users.Login(ctx, c.Email, "Nowe12345")
	assert.NoError(t, err)
}
