package http

import (
	"net/http"
	"strings"

	"toolrental-backend/internal/domain"
	"toolrental-backend/internal/service"
)

type UserHandler struct {
	userSvc service.UserService
}

func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"haslo"`
}

type loginResponse struct {
	*domain.Principal
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Login == "" || req.Password == "" {
		writeError(w, r, domain.ErrInvalidCredentials)
		return
	}
	principal, token, err := h.userSvc.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Principal: principal, AccessToken: token, TokenType: "bearer"})
}

type registerRequest struct {
	FirstName        string `json:"imie"`
	LastName         string `json:"nazwisko"`
	Email            string `json:"email"`
	Phone            string `json:"telefon"`
	SecurityQuestion string `json:"pytanie_pomocnicze"`
	SecurityAnswer   string `json:"odpowiedz_pomocnicza"`
	Password         string `json:"haslo"`
	PasswordRepeat   string `json:"haslo_powtorz"`
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Password != req.PasswordRepeat {
		writeError(w, r, domain.Validationf("passwords do not match"))
		return
	}
	if strings.TrimSpace(req.SecurityAnswer) == "" {
		writeError(w, r, domain.Validationf("security answer is required"))
		return
	}
	customer := &domain.Customer{
		FirstName:        strings.TrimSpace(req.FirstName),
		LastName:         strings.TrimSpace(req.LastName),
		Email:            strings.TrimSpace(req.Email),
		Phone:            strings.TrimSpace(req.Phone),
		SecurityQuestion: strings.TrimSpace(req.SecurityQuestion),
	}
	if err := h.userSvc.RegisterCustomer(r.Context(), customer, req.Password, req.SecurityAnswer); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, customer)
}

type securityQuestionResponse struct {
	Question string `json:"question"`
}

func (h *UserHandler) SecurityQuestion(w http.ResponseWriter, r *http.Request) {
	email := queryString(r, "email")
	if email == "" {
		writeError(w, r, domain.Validationf("email is required"))
		return
	}
	question, err := h.userSvc.SecurityQuestion(r.Context(), email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, securityQuestionResponse{Question: question})
}

type verifySecurityAnswerRequest struct {
	Email       string `json:"email"`
	Answer      string `json:"answer"`
	NewPassword string `json:"new_password"`
}

// VerifySecurityAnswer confirms the recovery answer and, when new_password is
// sent, resets the password.
func (h *UserHandler) VerifySecurityAnswer(w http.ResponseWriter, r *http.Request) {
	var req verifySecurityAnswerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.userSvc.VerifySecurityAnswer(r.Context(), req.Email, req.Answer, req.NewPassword); err != nil {
		writeError(w, r, err)
		return
	}
	message := "Answer is correct"
	if req.NewPassword != "" {
		message = "Password changed"
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "success", Message: message})
}

type changePasswordRequest struct {
	Current string `json:"current_password"`
	New     string `json:"new_password"`
	Confirm string `json:"confirm_password"`
}

func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	p, err := requirePrincipal(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.New != req.Confirm {
		writeError(w, r, domain.Validationf("passwords do not match"))
		return
	}
	if err := h.userSvc.ChangePassword(r.Context(), p, req.Current, req.New); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "success", Message: "Password changed"})
}

func (h *UserHandler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.userSvc.ListEmployees(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, employees)
}

type createEmployeeRequest struct {
	domain.Employee
	Password string `json:"haslo"`
}

func (h *UserHandler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req createEmployeeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	employee := req.Employee
	employee.ID = 0
	if err := h.userSvc.CreateEmployee(r.Context(), &employee, req.Password); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, employee)
}

func (h *UserHandler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var patch domain.EmployeePatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, r, err)
		return
	}
	employee, err := h.userSvc.UpdateEmployee(r.Context(), id, patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, employee)
}

func (h *UserHandler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.userSvc.DeleteEmployee(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Employee deleted"})
}
