package domain

import "time"

type RentalStatus string

const (
	RentalStatusReserved  RentalStatus = "REZERWACJA"
	RentalStatusIssued    RentalStatus = "WYDANE"
	RentalStatusCompleted RentalStatus = "ZAKOŃCZONA"
	RentalStatusCancelled RentalStatus = "ANULOWANA"
)

func (s RentalStatus) Valid() bool {
	switch s {
	case RentalStatusReserved, RentalStatusIssued, RentalStatusCompleted, RentalStatusCancelled:
		return true
	}
	return false
}

// Active reports whether a rental in this status holds its instances.
func (s RentalStatus) Active() bool {
	return s == RentalStatusReserved || s == RentalStatusIssued
}

type Rental struct {
	ID            int32        `json:"id"`
	CustomerID    int32        `json:"klient_id"`
	IssuedBy      *int32       `json:"magazynier_wydaj_id"`
	ReceivedBy    *int32       `json:"magazynier_przyjmij_id"`
	ReservedAt    time.Time    `json:"data_rezerwacji"`
	PlannedPickup time.Time    `json:"data_plan_wydania"`
	PlannedReturn time.Time    `json:"data_plan_zwrotu"`
	ActualPickup  *time.Time   `json:"data_faktyczna_wydania"`
	ActualReturn  *time.Time   `json:"data_faktyczna_zwrotu"`
	Status        RentalStatus `json:"status"`
	TotalCost     int32        `json:"koszt_calkowity"`
	Lines         []RentalLine `json:"pozycje,omitempty"`
}

type RentalLine struct {
	ID               int32  `json:"id"`
	RentalID         int32  `json:"wypozyczenie_id"`
	InstanceID       int32  `json:"egzemplarz_id"`
	FaultReported    bool   `json:"czy_zgloszono_usterke"`
	FaultDescription string `json:"opis_usterki"`
}

// Transition moves the rental along reservation -> issued -> completed, or
// cancels a reservation. employeeID is the storekeeper handling the step, if known.
func (r *Rental) Transition(to RentalStatus, at time.Time, employeeID *int32) error {
	switch {
	case r.Status == RentalStatusReserved && to == RentalStatusIssued:
		r.ActualPickup = &at
		r.IssuedBy = employeeID
	case r.Status == RentalStatusIssued && to == RentalStatusCompleted:
		r.ActualReturn = &at
		r.ReceivedBy = employeeID
	case r.Status == RentalStatusReserved && to == RentalStatusCancelled:
	default:
		return InvalidStatef("cannot change rental status from %s to %s", r.Status, to)
	}
	r.Status = to
	return nil
}

// MaxRentalDays bounds the length of a single booking window.
const MaxRentalDays = 365

type ReservationRequest struct {
	CustomerID int32
	ModelID    int32
	Quantity   int
	Start      time.Time
	End        time.Time
}

func (r ReservationRequest) Validate() error {
	if r.Quantity < 1 {
		return Validationf("quantity must be at least 1")
	}
	if r.End.Before(r.Start) {
		return Validationf("return date cannot be before pickup date")
	}
	if r.End.After(r.Start.AddDate(0, 0, MaxRentalDays)) {
		return Validationf("a rental cannot be longer than %d days", MaxRentalDays)
	}
	return nil
}

// RentalLineDetail is a rental line joined with its instance and model.
type RentalLineDetail struct {
	LineID        int32  `json:"id"`
	RentalID      int32  `json:"wypozyczenie_id"`
	InstanceID    int32  `json:"egzemplarz_id"`
	ModelID       int32  `json:"model_id"`
	ModelName     string `json:"nazwa_modelu"`
	SerialNumber  string `json:"numer_seryjny"`
	DailyPrice    int32  `json:"cena_za_dobe"`
	Deposit       int32  `json:"kaucja"`
	FaultReported bool   `json:"czy_zgloszono_usterke"`
}

// RentalSummary is one row of a customer's rental history.
type RentalSummary struct {
	ID            int32              `json:"id"`
	Status        RentalStatus       `json:"status"`
	RentalCost    int32              `json:"koszt_najmu"`
	DepositTotal  int32              `json:"suma_kaucji"`
	TotalDue      int32              `json:"koszt_calkowity"`
	PlannedPickup time.Time          `json:"data_plan_wydania"`
	PlannedReturn time.Time          `json:"data_plan_zwrotu"`
	ActualPickup  *time.Time         `json:"data_faktyczna_wydania"`
	ActualReturn  *time.Time         `json:"data_faktyczna_zwrotu"`
	Lines         []RentalLineDetail `json:"pozycje"`
}

// IssuedItem is a line of an issued rental as shown to its customer.
type IssuedItem struct {
	LineID        int32     `json:"id"`
	RentalID      int32     `json:"wypozyczenie_id"`
	ModelName     string    `json:"model_name"`
	SerialNumber  string    `json:"sn"`
	PlannedReturn time.Time `json:"data_plan_zwrotu"`
	Condition     Condition `json:"stan"`
}

type OperationType string

const (
	OperationPickup OperationType = "WYDANIE"
	OperationReturn OperationType = "ZWROT"
)

// PendingOperation is a warehouse task: hand out a reservation or take back
// an issued rental.
type PendingOperation struct {
	RentalID  int32         `json:"id"`
	Type      OperationType `json:"typ"`
	PlannedAt time.Time     `json:"data_planowana"`
	Customer  string        `json:"klient"`
	Models    string        `json:"model"`
	Status    RentalStatus  `json:"status"`
}

// NewPendingOperation derives the warehouse task for an active rental.
func NewPendingOperation(r Rental, customer, models string) PendingOperation {
	op := PendingOperation{
		RentalID:  r.ID,
		Type:      OperationPickup,
		PlannedAt: r.PlannedPickup,
		Customer:  customer,
		Models:    models,
		Status:    r.Status,
	}
	if r.Status == RentalStatusIssued {
		op.Type = OperationReturn
		op.PlannedAt = r.PlannedReturn
	}
	return op
}
