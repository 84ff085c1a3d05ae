package service

import (
	"context"
	"errors"
	"strings"

	"toolrental-backend/internal/domain"
	"toolrental-backend/internal/logger"
	"toolrental-backend/internal/repository"
	"toolrental-backend/internal/security"
)

type userService struct {
	base
	tokens security.TokenManager
}

func NewUserService(tx repository.Transactor, repos *repository.Repositories, tokens security.TokenManager, settings Settings) UserService {
	return &userService{base: newBase(tx, repos, settings), tokens: tokens}
}

// Login authenticates an employee by login or e-mail, falling back to a
// customer account with that e-mail. Both paths fail with the same error.
func (s *userService) Login(ctx context.Context, login, password string) (*domain.Principal, string, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, "", domain.ErrInvalidCredentials
	}

	p, err := s.authenticate(ctx, login, password)
	if err != nil {
		logger.WarnContext(ctx, "Login failed", "login", login)
		return nil, "", err
	}
	token, err := s.tokens.GenerateAccessToken(p)
	if err != nil {
		return nil, "", err
	}
	logger.InfoContext(ctx, "Login succeeded", "user_id", p.ID, "kind", p.Kind, "role", p.Role)
	return p, token, nil
}

func (s *userService) authenticate(ctx context.Context, login, password string) (*domain.Principal, error) {
	emp, err := s.repos.Employees.GetByLogin(ctx, login)
	switch {
	case err == nil:
		if !security.CheckPassword(emp.PasswordHash, password) {
			return nil, domain.ErrInvalidCredentials
		}
		if emp.ReleasedAt != nil && !emp.ReleasedAt.After(s.now()) {
			return nil, domain.ErrInvalidCredentials
		}
		return &domain.Principal{ID: emp.ID, Kind: domain.PrincipalEmployee, Role: emp.Role, Name: emp.FullName(), Email: emp.Email}, nil
	case !errors.Is(err, domain.ErrEmployeeNotFound):
		return nil, err
	}

	c, err := s.repos.Customers.GetByEmail(ctx, login)
	if errors.Is(err, domain.ErrCustomerNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !security.CheckPassword(c.PasswordHash, password) {
		return nil, domain.ErrInvalidCredentials
	}
	return &domain.Principal{ID: c.ID, Kind: domain.PrincipalCustomer, Role: domain.RoleCustomer, Name: c.FullName(), Email: c.Email}, nil
}

func (s *userService) RegisterCustomer(ctx context.Context, c *domain.Customer, password, securityAnswer string) error {
	c.Email = strings.TrimSpace(c.Email)
	if err := c.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(securityAnswer) == "" {
		return domain.Validationf("security answer is required")
	}
	if err := security.ValidatePasswordStrength(password); err != nil {
		return err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	answerHash, err := hashPassword(strings.ToLower(strings.TrimSpace(securityAnswer)))
	if err != nil {
		return err
	}
	c.PasswordHash = hash
	c.SecurityAnswerHash = answerHash

	if err := s.repos.Customers.Create(ctx, c); err != nil {
		if errors.Is(err, domain.ErrDuplicateEntry) {
			return domain.Integrityf("an account with this e-mail already exists")
		}
		return err
	}
	logger.InfoContext(ctx, "Customer registered", "customer_id", c.ID)
	return nil
}

// SecurityQuestion returns the recovery question a customer chose at
// registration.
func (s *userService) SecurityQuestion(ctx context.Context, email string) (string, error) {
	c, err := s.repos.Customers.GetByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, domain.ErrCustomerNotFound) {
		return "", domain.NotFoundf("no user with this e-mail address")
	}
	if err != nil {
		return "", err
	}
	return c.SecurityQuestion, nil
}

// VerifySecurityAnswer checks a customer's recovery answer, ignoring case and
// surrounding spaces. A non-empty newPassword replaces the password once the
// answer matches. Unknown e-mails fail like a wrong answer.
func (s *userService) VerifySecurityAnswer(ctx context.Context, email, answer, newPassword string) error {
	wrong := domain.Validationf("incorrect answer to the security question")
	if strings.TrimSpace(answer) == "" {
		return wrong
	}
	c, err := s.repos.Customers.GetByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, domain.ErrCustomerNotFound) {
		return wrong
	}
	if err != nil {
		return err
	}
	if !security.CheckPassword(c.SecurityAnswerHash, strings.ToLower(strings.TrimSpace(answer))) {
		logger.WarnContext(ctx, "Security answer rejected", "customer_id", c.ID)
		return wrong
	}
	if newPassword == "" {
		return nil
	}

	if err := security.ValidatePasswordStrength(newPassword); err != nil {
		return err
	}
	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.repos.Customers.UpdatePassword(ctx, c.ID, hash); err != nil {
		return err
	}
	logger.InfoContext(ctx, "Password reset with security answer", "customer_id", c.ID)
	return nil
}

func (s *userService) ChangePassword(ctx context.Context, p *domain.Principal, current, next string) error {
	if err := security.ValidatePasswordStrength(next); err != nil {
		return err
	}
	hash, err := hashPassword(next)
	if err != nil {
		return err
	}

	if p.IsEmployee() {
		emp, err := s.repos.Employees.GetByID(ctx, p.ID)
		if err != nil {
			return err
		}
		if !security.CheckPassword(emp.PasswordHash, current) {
			return domain.ErrInvalidCredentials
		}
		return s.repos.Employees.UpdatePassword(ctx, emp.ID, hash)
	}

	c, err := s.repos.Customers.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	if !security.CheckPassword(c.PasswordHash, current) {
		return domain.ErrInvalidCredentials
	}
	return s.repos.Customers.UpdatePassword(ctx, c.ID, hash)
}

func (s *userService) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	return s.repos.Employees.List(ctx)
}

func (s *userService) CreateEmployee(ctx context.Context, e *domain.Employee, password string) error {
	if e.HiredAt.IsZero() {
		e.HiredAt = s.now()
	}
	if err := e.Validate(); err != nil {
		return err
	}
	if err := security.ValidatePasswordStrength(password); err != nil {
		return err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	e.PasswordHash = hash
	if err := s.repos.Employees.Create(ctx, e); err != nil {
		if errors.Is(err, domain.ErrDuplicateEntry) {
			return domain.Integrityf("an employee with this login, e-mail or PESEL already exists")
		}
		return err
	}
	logger.InfoContext(ctx, "Employee created", "employee_id", e.ID, "role", e.Role)
	return nil
}

func (s *userService) UpdateEmployee(ctx context.Context, id int32, patch domain.EmployeePatch) (*domain.Employee, error) {
	var out *domain.Employee
	err := s.tx.WithinTx(ctx, func(repos *repository.Repositories) error {
		e, err := repos.Employees.GetByID(ctx, id)
		if err != nil {
			return err
		}
		patch.Apply(e)
		if err := e.Validate(); err != nil {
			return err
		}
		if err := repos.Employees.Update(ctx, e); err != nil {
			if errors.Is(err, domain.ErrDuplicateEntry) {
				return domain.Integrityf("an employee with this e-mail already exists")
			}
			return err
		}
		out = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *userService) DeleteEmployee(ctx context.Context, id int32) error {
	if err := s.repos.Employees.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrInvalidReference) {
			return domain.Integrityf("employee is referenced by service records and cannot be deleted")
		}
		return err
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := security.HashPassword(password)
	if security.IsPasswordTooLong(err) {
		return "", domain.Validationf("password is too long")
	}
	return hash, err
}
