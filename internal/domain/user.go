package domain

import (
	"strings"
	"time"
)

type Role string

const (
	RoleManager     Role = "KIEROWNIK"
	RoleStorekeeper Role = "MAGAZYNIER"
	RoleTechnician  Role = "SERWISANT"
	// RoleCustomer is never stored on an employee; it tags customer principals.
	RoleCustomer Role = "KLIENT"
)

// Valid reports whether r is an employee role.
func (r Role) Valid() bool {
	switch r {
	case RoleManager, RoleStorekeeper, RoleTechnician:
		return true
	}
	return false
}

type Employee struct {
	ID           int32      `json:"id"`
	FirstName    string     `json:"imie"`
	LastName     string     `json:"nazwisko"`
	PESEL        string     `json:"pesel"`
	Address      string     `json:"adres"`
	Phone        string     `json:"telefon"`
	Email        string     `json:"email"`
	Login        string     `json:"login"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"rola"`
	HiredAt      time.Time  `json:"data_zatrudnienia"`
	ReleasedAt   *time.Time `json:"data_zwolnienia"`
}

func (e *Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

func (e *Employee) Validate() error {
	switch {
	case e.FirstName == "" || len(e.FirstName) > 50:
		return Validationf("first name is required and must be at most 50 characters")
	case e.LastName == "" || len(e.LastName) > 50:
		return Validationf("last name is required and must be at most 50 characters")
	case !validPESEL(e.PESEL):
		return Validationf("PESEL must consist of 11 digits")
	case e.Address == "" || len(e.Address) > 255:
		return Validationf("address is required and must be at most 255 characters")
	case len(e.Phone) < 7 || len(e.Phone) > 15:
		return Validationf("phone number must have 7 to 15 characters")
	case !strings.Contains(e.Email, "@"):
		return Validationf("invalid e-mail address")
	case len(e.Login) < 3 || len(e.Login) > 30:
		return Validationf("login must have 3 to 30 characters")
	case !e.Role.Valid():
		return Validationf("invalid role %q", e.Role)
	}
	return nil
}

func validPESEL(s string) bool {
	if len(s) != 11 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// EmployeePatch carries a partial employee update; nil fields are left unchanged.
type EmployeePatch struct {
	FirstName  *string    `json:"imie"`
	LastName   *string    `json:"nazwisko"`
	Email      *string    `json:"email"`
	Phone      *string    `json:"telefon"`
	Address    *string    `json:"adres"`
	Role       *Role      `json:"rola"`
	HiredAt    *time.Time `json:"data_zatrudnienia"`
	ReleasedAt *time.Time `json:"data_zwolnienia"`
}

func (p EmployeePatch) Apply(e *Employee) {
	if p.FirstName != nil {
		e.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		e.LastName = *p.LastName
	}
	if p.Email != nil {
		e.Email = *p.Email
	}
	if p.Phone != nil {
		e.Phone = *p.Phone
	}
	if p.Address != nil {
		e.Address = *p.Address
	}
	if p.Role != nil {
		e.Role = *p.Role
	}
	if p.HiredAt != nil {
		e.HiredAt = *p.HiredAt
	}
	if p.ReleasedAt != nil {
		e.ReleasedAt = p.ReleasedAt
	}
}

type Customer struct {
	ID                 int32  `json:"id"`
	FirstName          string `json:"imie"`
	LastName           string `json:"nazwisko"`
	Email              string `json:"email"`
	Phone              string `json:"telefon"`
	PasswordHash       string `json:"-"`
	SecurityQuestion   string `json:"pytanie_pomocnicze"`
	SecurityAnswerHash string `json:"-"`
}

func (c *Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

func (c *Customer) Validate() error {
	switch {
	case c.FirstName == "" || len(c.FirstName) > 50:
		return Validationf("first name is required and must be at most 50 characters")
	case c.LastName == "" || len(c.LastName) > 50:
		return Validationf("last name is required and must be at most 50 characters")
	case !strings.Contains(c.Email, "@") || len(c.Email) > 100:
		return Validationf("invalid e-mail address")
	case len(c.Phone) > 15:
		return Validationf("phone number must be at most 15 characters")
	case c.SecurityQuestion == "":
		return Validationf("security question is required")
	}
	return nil
}

type PrincipalKind string

const (
	PrincipalEmployee PrincipalKind = "employee"
	PrincipalCustomer PrincipalKind = "customer"
)

// Principal is an authenticated caller.
type Principal struct {
	ID    int32         `json:"id"`
	Kind  PrincipalKind `json:"typ"`
	Role  Role          `json:"rola"`
	Name  string        `json:"imie_nazwisko"`
	Email string        `json:"email"`
}

func (p *Principal) IsEmployee() bool { return p.Kind == PrincipalEmployee }

// HasRole reports whether the principal holds any of roles.
func (p *Principal) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}
