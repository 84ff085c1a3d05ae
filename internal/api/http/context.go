package http

import (
	"context"

	"toolrental-backend/internal/domain"
)

type principalKey struct{}

func withPrincipal(ctx context.Context, p *domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the authenticated caller, if any.
func PrincipalFromContext(ctx context.Context) (*domain.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*domain.Principal)
	return p, ok && p != nil
}

func requirePrincipal(ctx context.Context) (*domain.Principal, error) {
	p, ok := PrincipalFromContext(ctx)
	if !ok {
		return nil, domain.ErrMissingToken
	}
	return p, nil
}

// authorizeCustomer lets employees act for any customer and customers only
// for themselves.
func authorizeCustomer(p *domain.Principal, customerID int32) error {
	if p.IsEmployee() || p.ID == customerID {
		return nil
	}
	return domain.ErrAccessDenied
}

// employeeID returns the caller's id when it is an employee.
func employeeID(p *domain.Principal) *int32 {
	if p == nil || !p.IsEmployee() {
		return nil
	}
	id := p.ID
	return &id
}
