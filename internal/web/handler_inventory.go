package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/vbonduro/boatlog/internal/domain"
	"github.com/vbonduro/boatlog/internal/service"
)

type createInventoryRequest struct {
	Name       string  `json:"name" validate:"required,notblank"`
	Quantity   numeric `json:"quantity" validate:"omitempty,gte=0"`
	Unit       string  `json:"unit" validate:"required,unit"`
	Category   *string `json:"category"`
	ExpiryDate *string `json:"expiry_date" validate:"omitempty,date"`
	Notes      *string `json:"notes"`
}

func (createInventoryRequest) requiredMessage() string {
	return domain.ErrItemFieldsRequired.Error()
}

// missingRequired reports an absent quantity. The validator sees an unset
// numeric as nil and a zero one as 0, so "required" cannot tell them apart.
func (req createInventoryRequest) missingRequired() bool {
	return !req.Quantity.Set
}

func (req createInventoryRequest) toItem() domain.InventoryItem {
	return domain.InventoryItem{
		Name:       strings.TrimSpace(req.Name),
		Quantity:   req.Quantity.Value,
		Unit:       domain.Unit(req.Unit),
		Category:   req.Category,
		ExpiryDate: parseOptionalDate(req.ExpiryDate),
		Notes:      req.Notes,
	}
}

type updateInventoryRequest struct {
	Name       *string `json:"name" validate:"omitnil,notblank"`
	Quantity   numeric `json:"quantity" validate:"omitempty,gte=0"`
	Unit       *string `json:"unit" validate:"omitnil,unit"`
	Category   *string `json:"category"`
	ExpiryDate *string `json:"expiry_date" validate:"omitempty,date"`
	Notes      *string `json:"notes"`
	ToBuy      *bool   `json:"to_buy"`
}

func (updateInventoryRequest) requiredMessage() string {
	return domain.ErrItemFieldsRequired.Error()
}

func (req updateInventoryRequest) toPatch() domain.InventoryPatch {
	p := domain.InventoryPatch{
		Unit:       (*domain.Unit)(req.Unit),
		Category:   req.Category,
		ExpiryDate: clearableDate(req.ExpiryDate),
		Notes:      req.Notes,
		ToBuy:      req.ToBuy,
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		p.Name = &name
	}
	if req.Quantity.Set {
		q := req.Quantity.Value
		p.Quantity = &q
	}
	return p
}

// lowStockThreshold parses the lowStock query value. Anything that is not a
// positive number yields 0, which the service replaces with its default.
func lowStockThreshold(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || v <= 0 {
		return 0
	}
	return v
}

func (s *Server) handleListInventory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := service.InventoryFilter{Category: q.Get("category")}
	if raw := q.Get("lowStock"); raw != "" {
		f.LowStock = true
		f.Threshold = lowStockThreshold(raw)
	}

	items, err := s.inventory.ListItems(r.Context(), f)
	if err != nil {
		s.writeServiceError(w, r, inventoryResource, "fetch", err)
		return
	}
	jsonList(w, items)
}

func (s *Server) handleListToBuy(w http.ResponseWriter, r *http.Request) {
	items, err := s.inventory.ListToBuy(r.Context())
	if err != nil {
		s.writeServiceError(w, r, inventoryResource, "fetch to-buy", err)
		return
	}
	jsonList(w, items)
}

func (s *Server) handleCreateInventory(w http.ResponseWriter, r *http.Request) {
	var req createInventoryRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	created, err := s.inventory.CreateItem(r.Context(), req.toItem())
	if err != nil {
		s.writeServiceError(w, r, inventoryResource, "create", err)
		return
	}
	jsonResponse(w, http.StatusCreated, created)
}

func (s *Server) handleGetInventory(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid inventory item ID")
		return
	}

	item, err := s.inventory.GetItem(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, inventoryResource, "fetch", err)
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, inventoryResource.notFound)
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

func (s *Server) handleUpdateInventory(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid inventory item ID")
		return
	}
	var req updateInventoryRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	updated, err := s.inventory.UpdateItem(r.Context(), id, req.toPatch())
	if err != nil {
		s.writeServiceError(w, r, inventoryResource, "update", err)
		return
	}
	jsonResponse(w, http.StatusOK, updated)
}

func (s *Server) handleToggleToBuy(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid inventory item ID")
		return
	}

	item, err := s.inventory.ToggleToBuy(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, inventoryResource, "toggle to-buy status of", err)
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

func (s *Server) handleDeleteInventory(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid inventory item ID")
		return
	}

	if err := s.inventory.DeleteItem(r.Context(), id); err != nil {
		s.writeServiceError(w, r, inventoryResource, "delete", err)
		return
	}
	jsonMessage(w, "Inventory item deleted successfully")
}
