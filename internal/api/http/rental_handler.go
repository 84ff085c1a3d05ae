package http

import (
	"net/http"

	"toolrental-backend/internal/domain"
	"toolrental-backend/internal/service"
)

type RentalHandler struct {
	rentalSvc   service.RentalService
	workshopSvc service.WorkshopService
	reviewSvc   service.ReviewService
}

func NewRentalHandler(rentalSvc service.RentalService, workshopSvc service.WorkshopService, reviewSvc service.ReviewService) *RentalHandler {
	return &RentalHandler{rentalSvc: rentalSvc, workshopSvc: workshopSvc, reviewSvc: reviewSvc}
}

type statusResponse struct {
	Status    string              `json:"status"`
	NewStatus domain.RentalStatus `json:"new_status,omitempty"`
	Message   string              `json:"message,omitempty"`
}

// customerParam reads client_id, defaulting to the caller when it is a
// customer, and checks the caller may act for that customer.
func customerParam(r *http.Request, p *domain.Principal) (int32, error) {
	id, err := optionalInt32(r, "client_id")
	if err != nil {
		return 0, err
	}
	if id == nil {
		if p.IsEmployee() {
			return 0, domain.Validationf("query parameter client_id is required")
		}
		return p.ID, nil
	}
	if err := authorizeCustomer(p, *id); err != nil {
		return 0, err
	}
	return *id, nil
}

func (h *RentalHandler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	p, err := requirePrincipal(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	req := domain.ReservationRequest{}
	if req.CustomerID, err = customerParam(r, p); err != nil {
		writeError(w, r, err)
		return
	}
	if req.ModelID, err = queryInt32(r, "model_id"); err != nil {
		writeError(w, r, err)
		return
	}
	qty, err := queryInt32(r, "qty")
	if err != nil {
		writeError(w, r, err)
		return
	}
	req.Quantity = int(qty)
	if req.Start, err = queryTime(r, "start_dt"); err != nil {
		writeError(w, r, err)
		return
	}
	if req.End, err = queryTime(r, "end_dt"); err != nil {
		writeError(w, r, err)
		return
	}

	rental, err := h.rentalSvc.CreateReservation(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rental)
}

func (h *RentalHandler) CustomerHistory(w http.ResponseWriter, r *http.Request) {
	customerID, ok := h.customerPath(w, r)
	if !ok {
		return
	}
	history, err := h.rentalSvc.CustomerHistory(r.Context(), customerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

func (h *RentalHandler) IssuedItems(w http.ResponseWriter, r *http.Request) {
	customerID, ok := h.customerPath(w, r)
	if !ok {
		return
	}
	items, err := h.rentalSvc.IssuedItems(r.Context(), customerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *RentalHandler) customerPath(w http.ResponseWriter, r *http.Request) (int32, bool) {
	p, err := requirePrincipal(r.Context())
	if err != nil {
		writeError(w, r, err)
		return 0, false
	}
	customerID, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return 0, false
	}
	if err := authorizeCustomer(p, customerID); err != nil {
		writeError(w, r, err)
		return 0, false
	}
	return customerID, true
}

func (h *RentalHandler) ReportFault(w http.ResponseWriter, r *http.Request) {
	p, err := requirePrincipal(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	lineID, err := queryInt32(r, "pozycja_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.rentalSvc.ReportFault(r.Context(), lineID, queryString(r, "opis"), p); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Fault reported"})
}

func (h *RentalHandler) AddOpinion(w http.ResponseWriter, r *http.Request) {
	p, err := requirePrincipal(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	review := &domain.Review{Comment: queryString(r, "comment")}
	if review.CustomerID, err = customerParam(r, p); err != nil {
		writeError(w, r, err)
		return
	}
	if review.ModelID, err = queryInt32(r, "model_id"); err != nil {
		writeError(w, r, err)
		return
	}
	if review.Rating, err = queryInt32(r, "rating"); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.reviewSvc.AddReview(r.Context(), review); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, review)
}

func (h *RentalHandler) WorkshopItems(w http.ResponseWriter, r *http.Request) {
	filter := domain.InstanceFilter{
		Search:    queryString(r, "search"),
		Category:  queryFilter(r, "category"),
		Maker:     queryFilter(r, "producer"),
		Condition: domain.Condition(queryFilter(r, "status_tech")),
	}
	items, err := h.workshopSvc.ListWorkshopItems(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

type serviceActionResponse struct {
	Status string               `json:"status"`
	Action domain.ServiceAction `json:"czynnosc"`
}

func (h *RentalHandler) RecordServiceAction(w http.ResponseWriter, r *http.Request) {
	p, err := requirePrincipal(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req domain.ServiceActionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.TechnicianID == 0 {
		req.TechnicianID = p.ID
	}
	var newCondition *domain.Condition
	if v := queryFilter(r, "nowy_stan"); v != "" {
		c := domain.Condition(v)
		newCondition = &c
	}

	action, err := h.workshopSvc.RecordServiceAction(r.Context(), req, newCondition)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, serviceActionResponse{Status: "success", Action: *action})
}

func (h *RentalHandler) PendingOperations(w http.ResponseWriter, r *http.Request) {
	ops, err := h.rentalSvc.PendingOperations(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ops)
}

func (h *RentalHandler) Process(w http.ResponseWriter, r *http.Request) {
	p, err := requirePrincipal(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	action := domain.RentalStatus(queryString(r, "action"))
	if _, err := h.rentalSvc.ProcessAction(r.Context(), id, action, employeeID(p)); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "success", NewStatus: action})
}
