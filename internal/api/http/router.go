package http

import (
	"net/http"

	"toolrental-backend/internal/domain"
	"toolrental-backend/internal/security"
	"toolrental-backend/internal/service"

	"github.com/gorilla/mux"
)

// Services bundles everything the HTTP layer calls into.
type Services struct {
	Inventory service.InventoryService
	Rentals   service.RentalService
	Workshop  service.WorkshopService
	Reviews   service.ReviewService
	Users     service.UserService
	Tokens    security.TokenManager
	DB        Pinger
}

// NewRouter registers every endpoint. Literal segments are registered before
// their {id} siblings because mux matches in registration order.
func NewRouter(s Services) *mux.Router {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, domain.NotFoundf("no route for %s %s", r.Method, r.URL.Path))
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Detail: "method not allowed"})
	})

	router.Use(RequestLogger, Recoverer, NewAuthMiddleware(s.Tokens).Handler)

	health := NewHealthHandler(s.DB)
	router.HandleFunc("/manage/health", health.Health).Methods("GET")

	users := NewUserHandler(s.Users)
	router.HandleFunc("/users/login", users.Login).Methods("POST")
	router.HandleFunc("/users/register", users.Register).Methods("POST")
	router.HandleFunc("/users/security-question", users.SecurityQuestion).Methods("GET")
	router.HandleFunc("/users/verify-security-answer", users.VerifySecurityAnswer).Methods("POST")
	router.HandleFunc("/users/change-password", users.ChangePassword).Methods("PATCH")
	router.HandleFunc("/users/employees", users.ListEmployees).Methods("GET")
	router.HandleFunc("/users/employees", users.CreateEmployee).Methods("POST")
	router.HandleFunc("/users/employees/{id}", users.UpdateEmployee).Methods("PATCH")
	router.HandleFunc("/users/employees/{id}", users.DeleteEmployee).Methods("DELETE")

	inventory := NewInventoryHandler(s.Inventory, s.Workshop, s.Reviews)
	router.HandleFunc("/inventory/models", inventory.ListCatalog).Methods("GET")
	router.HandleFunc("/inventory/models", inventory.CreateModel).Methods("POST")
	router.HandleFunc("/inventory/models/summary", inventory.ModelSummary).Methods("GET")
	router.HandleFunc("/inventory/models/{id}", inventory.GetModel).Methods("GET")
	router.HandleFunc("/inventory/models/{id}", inventory.UpdateModel).Methods("PATCH")
	router.HandleFunc("/inventory/models/{id}", inventory.WithdrawModel).Methods("DELETE")
	router.HandleFunc("/inventory/models/{id}/availability", inventory.Availability).Methods("GET")
	router.HandleFunc("/inventory/models/{id}/opinions", inventory.ListOpinions).Methods("GET")
	router.HandleFunc("/inventory/models/{id}/opinions/exists", inventory.OpinionExists).Methods("GET")

	router.HandleFunc("/inventory/items/bulk", inventory.BulkCreate).Methods("POST")
	router.HandleFunc("/inventory/items", inventory.ListInstances).Methods("GET")
	router.HandleFunc("/inventory/items/{id}/state", inventory.UpdateCondition).Methods("PATCH")
	router.HandleFunc("/inventory/items/{id}/send-to-service", inventory.SendToService()).Methods("POST")
	router.HandleFunc("/inventory/items/{id}/receive-from-service", inventory.ReceiveFromService()).Methods("POST")
	router.HandleFunc("/inventory/items/{id}/mark-for-inspection", inventory.MarkForInspection()).Methods("POST")
	router.HandleFunc("/inventory/items/{id}/service-history", inventory.ServiceHistory).Methods("GET")

	rentals := NewRentalHandler(s.Rentals, s.Workshop, s.Reviews)
	router.HandleFunc("/rentals/", rentals.CreateReservation).Methods("POST")
	router.HandleFunc("/rentals/customer/{id}", rentals.CustomerHistory).Methods("GET")
	router.HandleFunc("/rentals/customer/{id}/issued", rentals.IssuedItems).Methods("GET")
	router.HandleFunc("/rentals/faults", rentals.ReportFault).Methods("POST")
	router.HandleFunc("/rentals/opinions", rentals.AddOpinion).Methods("POST")
	router.HandleFunc("/rentals/workshop", rentals.WorkshopItems).Methods("GET")
	router.HandleFunc("/rentals/service-action", rentals.RecordServiceAction).Methods("POST")
	router.HandleFunc("/rentals/pending", rentals.PendingOperations).Methods("GET")
	router.HandleFunc("/rentals/{id}/process", rentals.Process).Methods("POST")

	return router
}
