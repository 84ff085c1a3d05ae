package domain

import "time"

type ServiceKind string

const (
	ServiceKindRepair     ServiceKind = "NAPRAWA"
	ServiceKindInspection ServiceKind = "PRZEGLAD"
	ServiceKindNote       ServiceKind = "NOTATKA"
)

func (k ServiceKind) Valid() bool {
	switch k {
	case ServiceKindRepair, ServiceKindInspection, ServiceKindNote:
		return true
	}
	return false
}

// ServiceAction is an append-only maintenance log entry.
type ServiceAction struct {
	ID           int32       `json:"id"`
	InstanceID   int32       `json:"egzemplarz_id"`
	TechnicianID int32       `json:"serwisant_id"`
	Kind         ServiceKind `json:"rodzaj"`
	StartedAt    time.Time   `json:"data_rozpoczecia"`
	FinishedAt   *time.Time  `json:"data_zakonczenia"`
	Note         string      `json:"notatka_opis"`
}

type ServiceActionRequest struct {
	InstanceID   int32       `json:"egzemplarz_id"`
	TechnicianID int32       `json:"serwisant_id"`
	Kind         ServiceKind `json:"rodzaj"`
	Note         string      `json:"notatka_opis"`
}

func (r ServiceActionRequest) Validate() error {
	if !r.Kind.Valid() {
		return Validationf("invalid service action kind %q", r.Kind)
	}
	return nil
}
