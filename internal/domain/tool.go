package domain

import "time"

// Location is where a tool instance physically is.
type Location string

const (
	LocationWarehouse    Location = "W_MAGAZYNIE"
	LocationWorkshop     Location = "W_WARSZTACIE"
	LocationWithCustomer Location = "U_KLIENTA"
)

func (l Location) Valid() bool {
	switch l {
	case LocationWarehouse, LocationWorkshop, LocationWithCustomer:
		return true
	}
	return false
}

// Condition is the technical fitness of a tool instance.
type Condition string

const (
	ConditionOK              Condition = "SPRAWNY"
	ConditionBroken          Condition = "AWARIA"
	ConditionNeedsInspection Condition = "WYMAGA_PRZEGLADU"
)

func (c Condition) Valid() bool {
	switch c {
	case ConditionOK, ConditionBroken, ConditionNeedsInspection:
		return true
	}
	return false
}

// DefaultWearThreshold is the number of completed rentals after which an
// instance must be inspected before it can be rented again.
const DefaultWearThreshold = 5

type ToolModel struct {
	ID          int32  `json:"id"`
	Name        string `json:"nazwa_modelu"`
	Maker       string `json:"producent"`
	Category    string `json:"kategoria"`
	Description string `json:"opis"`
	DailyPrice  int32  `json:"cena_za_dobe"`
	Deposit     int32  `json:"kaucja"`
	Withdrawn   bool   `json:"wycofany"`
}

// ToolModelPatch carries a partial update; nil fields are left unchanged.
type ToolModelPatch struct {
	Name        *string `json:"nazwa_modelu"`
	Maker       *string `json:"producent"`
	Category    *string `json:"kategoria"`
	Description *string `json:"opis"`
	DailyPrice  *int32  `json:"cena_za_dobe"`
	Deposit     *int32  `json:"kaucja"`
	Withdrawn   *bool   `json:"wycofany"`
}

func (p ToolModelPatch) Apply(m *ToolModel) {
	if p.Name != nil {
		m.Name = *p.Name
	}
	if p.Maker != nil {
		m.Maker = *p.Maker
	}
	if p.Category != nil {
		m.Category = *p.Category
	}
	if p.Description != nil {
		m.Description = *p.Description
	}
	if p.DailyPrice != nil {
		m.DailyPrice = *p.DailyPrice
	}
	if p.Deposit != nil {
		m.Deposit = *p.Deposit
	}
	if p.Withdrawn != nil {
		m.Withdrawn = *p.Withdrawn
	}
}

// Validate checks the fields a stored model must always satisfy.
func (m *ToolModel) Validate() error {
	switch {
	case m.Name == "":
		return Validationf("model name is required")
	case len(m.Name) > 100:
		return Validationf("model name must be at most 100 characters")
	case m.Maker == "" || len(m.Maker) > 50:
		return Validationf("maker is required and must be at most 50 characters")
	case m.Category == "" || len(m.Category) > 50:
		return Validationf("category is required and must be at most 50 characters")
	case len(m.Description) > 500:
		return Validationf("description must be at most 500 characters")
	case m.DailyPrice < 0 || m.Deposit < 0:
		return Validationf("prices cannot be negative")
	}
	return nil
}

// ModelStock pairs a catalog model with an instance count.
type ModelStock struct {
	Model ToolModel `json:"ModelNarzedzia"`
	Count int       `json:"liczba_sztuk"`
}

type ToolInstance struct {
	ID           int32     `json:"id"`
	ModelID      int32     `json:"model_id"`
	SerialNumber string    `json:"numer_seryjny"`
	Location     Location  `json:"status"`
	Condition    Condition `json:"stan_techniczny"`
	RentalCount  int32     `json:"licznik_wypozyczen"`
	PurchasedAt  time.Time `json:"data_zakupu"`
	WarehouseID  *int32    `json:"magazyn_id"`
	WorkshopID   *int32    `json:"warsztat_id"`
}

// Rentable reports whether the instance can be offered for a new booking,
// ignoring bookings it already has.
func (i *ToolInstance) Rentable() bool {
	return i.Condition == ConditionOK && i.Location != LocationWorkshop
}

// SendToService moves the instance to a workshop.
func (i *ToolInstance) SendToService(workshopID int32) error {
	if i.Location == LocationWithCustomer {
		return ErrInstanceWithClient
	}
	i.Location = LocationWorkshop
	i.WarehouseID = nil
	i.WorkshopID = &workshopID
	return nil
}

// ReceiveFromService brings the instance back to a warehouse in working order
// with its wear counter cleared. It fails without touching the instance when
// the instance is not in a workshop.
func (i *ToolInstance) ReceiveFromService(warehouseID int32) error {
	if i.Location != LocationWorkshop {
		return ErrNotInWorkshop
	}
	i.Location = LocationWarehouse
	i.WorkshopID = nil
	i.WarehouseID = &warehouseID
	i.Condition = ConditionOK
	i.RentalCount = 0
	return nil
}

// MarkForInspection flags the instance for inspection and sends it to the
// workshop in one step.
func (i *ToolInstance) MarkForInspection(workshopID int32) error {
	if err := i.SendToService(workshopID); err != nil {
		return err
	}
	i.Condition = ConditionNeedsInspection
	return nil
}

// ApplyServiceResult sets the condition decided by a technician. A fixed
// instance starts a fresh wear cycle.
func (i *ToolInstance) ApplyServiceResult(c Condition) error {
	if !c.Valid() {
		return Validationf("invalid technical condition %q", c)
	}
	i.Condition = c
	if c == ConditionOK {
		i.RentalCount = 0
	}
	return nil
}

// HandOver records the instance leaving with a customer.
func (i *ToolInstance) HandOver() {
	i.Location = LocationWithCustomer
	i.WarehouseID = nil
	i.WorkshopID = nil
}

// CheckIn records the instance returning from a customer. A reported fault
// takes priority over the wear-based inspection trigger.
func (i *ToolInstance) CheckIn(warehouseID int32, faultReported bool, wearThreshold int32) {
	i.Location = LocationWarehouse
	i.WorkshopID = nil
	i.WarehouseID = &warehouseID
	i.RentalCount++
	switch {
	case faultReported:
		i.Condition = ConditionBroken
	case i.RentalCount >= wearThreshold:
		i.Condition = ConditionNeedsInspection
	default:
		i.Condition = ConditionOK
	}
}

// InstanceListing is the flat view of an instance used by warehouse and
// workshop screens.
type InstanceListing struct {
	ID           int32     `json:"id"`
	ModelID      int32     `json:"model_id"`
	ModelName    string    `json:"model_name"`
	Category     string    `json:"category"`
	Maker        string    `json:"producer"`
	SerialNumber string    `json:"sn"`
	Condition    Condition `json:"stan"`
	Location     Location  `json:"status"`
	RentalCount  int32     `json:"licznik"`
}

type InstanceFilter struct {
	Search    string
	Category  string
	Maker     string
	Location  Location
	Condition Condition
}
