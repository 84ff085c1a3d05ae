package http

import (
	"fmt"
	"net/http"

	"toolrental-backend/internal/domain"
	"toolrental-backend/internal/service"
)

type InventoryHandler struct {
	inventorySvc service.InventoryService
	workshopSvc  service.WorkshopService
	reviewSvc    service.ReviewService
}

func NewInventoryHandler(inventorySvc service.InventoryService, workshopSvc service.WorkshopService, reviewSvc service.ReviewService) *InventoryHandler {
	return &InventoryHandler{inventorySvc: inventorySvc, workshopSvc: workshopSvc, reviewSvc: reviewSvc}
}

func (h *InventoryHandler) ListCatalog(w http.ResponseWriter, r *http.Request) {
	models, err := h.inventorySvc.ListCatalog(r.Context(), queryString(r, "search"), queryFilter(r, "category"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models)
}

func (h *InventoryHandler) ModelSummary(w http.ResponseWriter, r *http.Request) {
	models, err := h.inventorySvc.ModelSummary(r.Context(), queryString(r, "search"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models)
}

func (h *InventoryHandler) GetModel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	model, err := h.inventorySvc.GetModel(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model)
}

func (h *InventoryHandler) CreateModel(w http.ResponseWriter, r *http.Request) {
	var model domain.ToolModel
	if err := decodeJSON(r, &model); err != nil {
		writeError(w, r, err)
		return
	}
	model.ID = 0
	if err := h.inventorySvc.CreateModel(r.Context(), &model); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, model)
}

func (h *InventoryHandler) UpdateModel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var patch domain.ToolModelPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, r, err)
		return
	}
	model, err := h.inventorySvc.UpdateModel(r.Context(), id, patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model)
}

func (h *InventoryHandler) WithdrawModel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.inventorySvc.WithdrawModel(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Tool model withdrawn"})
}

func (h *InventoryHandler) Availability(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	start, err := queryTime(r, "start_dt")
	if err != nil {
		writeError(w, r, err)
		return
	}
	end, err := queryTime(r, "end_dt")
	if err != nil {
		writeError(w, r, err)
		return
	}
	count, err := h.inventorySvc.CountAvailable(r.Context(), id, start, end)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": count})
}

func (h *InventoryHandler) ListOpinions(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	reviews, err := h.reviewSvc.ListReviews(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

func (h *InventoryHandler) OpinionExists(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	clientID, err := queryInt32(r, "client_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	exists, err := h.reviewSvc.HasReviewed(r.Context(), clientID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"exists": exists})
}

type bulkCreateResponse struct {
	Message   string                `json:"message"`
	Instances []domain.ToolInstance `json:"egzemplarze"`
}

func (h *InventoryHandler) BulkCreate(w http.ResponseWriter, r *http.Request) {
	modelID, err := queryInt32(r, "model_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	quantity, err := queryInt32(r, "quantity")
	if err != nil {
		writeError(w, r, err)
		return
	}
	instances, err := h.inventorySvc.BulkCreateInstances(r.Context(), modelID, int(quantity))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, bulkCreateResponse{
		Message:   fmt.Sprintf("Added %d instances", len(instances)),
		Instances: instances,
	})
}

func (h *InventoryHandler) ListInstances(w http.ResponseWriter, r *http.Request) {
	filter := domain.InstanceFilter{
		Search:    queryString(r, "search"),
		Category:  queryFilter(r, "category"),
		Maker:     queryFilter(r, "producer"),
		Location:  domain.Location(queryFilter(r, "status")),
		Condition: domain.Condition(queryFilter(r, "stan")),
	}
	items, err := h.inventorySvc.ListInstances(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *InventoryHandler) UpdateCondition(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	inst, err := h.inventorySvc.UpdateCondition(r.Context(), id, domain.Condition(queryString(r, "new_state")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, inst)
}

// transfer wraps the three location operations, which share their shape.
func (h *InventoryHandler) transfer(siteParam string, op func(r *http.Request, id int32, site *int32) (*domain.ToolInstance, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		site, err := optionalInt32(r, siteParam)
		if err != nil {
			writeError(w, r, err)
			return
		}
		inst, err := op(r, id, site)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, inst)
	}
}

func (h *InventoryHandler) SendToService() http.HandlerFunc {
	return h.transfer("workshop_id", func(r *http.Request, id int32, site *int32) (*domain.ToolInstance, error) {
		return h.inventorySvc.SendToService(r.Context(), id, site)
	})
}

func (h *InventoryHandler) ReceiveFromService() http.HandlerFunc {
	return h.transfer("warehouse_id", func(r *http.Request, id int32, site *int32) (*domain.ToolInstance, error) {
		return h.inventorySvc.ReceiveFromService(r.Context(), id, site)
	})
}

func (h *InventoryHandler) MarkForInspection() http.HandlerFunc {
	return h.transfer("workshop_id", func(r *http.Request, id int32, site *int32) (*domain.ToolInstance, error) {
		return h.inventorySvc.MarkForInspection(r.Context(), id, site)
	})
}

func (h *InventoryHandler) ServiceHistory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	actions, err := h.workshopSvc.ServiceHistory(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, actions)
}
