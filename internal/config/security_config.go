package config

import "toolrental-backend/internal/domain"

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // No authentication
	SecurityAccess                      // Access token required
)

// EndpointSecurity is the access rule for one route. An empty Roles list
// admits any authenticated principal.
type EndpointSecurity struct {
	Level SecurityLevel
	Roles []domain.Role
}

var (
	public        = EndpointSecurity{Level: SecurityPublic}
	authenticated = EndpointSecurity{Level: SecurityAccess}
	managers      = EndpointSecurity{Level: SecurityAccess, Roles: []domain.Role{domain.RoleManager}}
	employees     = EndpointSecurity{Level: SecurityAccess, Roles: []domain.Role{domain.RoleManager, domain.RoleStorekeeper, domain.RoleTechnician}}
	warehouse     = EndpointSecurity{Level: SecurityAccess, Roles: []domain.Role{domain.RoleManager, domain.RoleStorekeeper}}
	workshop      = EndpointSecurity{Level: SecurityAccess, Roles: []domain.Role{domain.RoleManager, domain.RoleTechnician}}
	customers     = EndpointSecurity{Level: SecurityAccess, Roles: []domain.Role{domain.RoleCustomer}}
	everyone      = EndpointSecurity{Level: SecurityAccess, Roles: []domain.Role{domain.RoleCustomer, domain.RoleManager, domain.RoleStorekeeper, domain.RoleTechnician}}
)

// EndpointSecurityConfig maps "METHOD route-template" to its access rule.
var EndpointSecurityConfig = map[string]EndpointSecurity{
	// Management
	"GET /manage/health": public,

	// Users
	"POST /users/login":                  public,
	"POST /users/register":               public,
	"GET /users/security-question":       public,
	"POST /users/verify-security-answer": public,
	"PATCH /users/change-password":       authenticated,
	"GET /users/employees":               managers,
	"POST /users/employees":              managers,
	"PATCH /users/employees/{id}":        managers,
	"DELETE /users/employees/{id}":       managers,

	// Catalog
	"GET /inventory/models":                      public,
	"GET /inventory/models/summary":              public,
	"GET /inventory/models/{id}":                 public,
	"GET /inventory/models/{id}/availability":    public,
	"GET /inventory/models/{id}/opinions":        public,
	"GET /inventory/models/{id}/opinions/exists": public,
	"POST /inventory/models":                     managers,
	"PATCH /inventory/models/{id}":               managers,
	"DELETE /inventory/models/{id}":              managers,

	// Instances
	"POST /inventory/items/bulk":                      warehouse,
	"GET /inventory/items":                            employees,
	"PATCH /inventory/items/{id}/state":               employees,
	"POST /inventory/items/{id}/send-to-service":      employees,
	"POST /inventory/items/{id}/receive-from-service": employees,
	"POST /inventory/items/{id}/mark-for-inspection":  employees,
	"GET /inventory/items/{id}/service-history":       employees,

	// Rentals; customer self-access is enforced by the handlers
	"POST /rentals/":                    everyone,
	"GET /rentals/customer/{id}":        everyone,
	"GET /rentals/customer/{id}/issued": everyone,
	"POST /rentals/faults":              everyone,
	"POST /rentals/opinions":            customers,
	"GET /rentals/workshop":             workshop,
	"POST /rentals/service-action":      workshop,
	"GET /rentals/pending":              warehouse,
	"POST /rentals/{id}/process":        warehouse,
}

// GetEndpointSecurity returns the rule for a route. Unknown routes require
// a manager.
func GetEndpointSecurity(method, pathTemplate string) EndpointSecurity {
	if rule, exists := EndpointSecurityConfig[method+" "+pathTemplate]; exists {
		return rule
	}
	return managers
}
