package handler

import (
	"encoding/json"
	"net/http"

	"marketplace-api/internal/service"
	"marketplace-api/pkg/apierror"
	"marketplace-api/pkg/response"
)

// ItemHandler handles listing-related HTTP requests.
type ItemHandler struct {
	itemService *service.ItemService
}

// NewItemHandler creates a new item handler.
func NewItemHandler(itemService *service.ItemService) *ItemHandler {
	return &ItemHandler{itemService: itemService}
}

// CreateItemRequest represents the request body for creating a listing.
type CreateItemRequest struct {
	Name        string   `json:"name"`
	Quantity    *int     `json:"quantity"`
	Price       *float64 `json:"price"`
	Description *string  `json:"description"`
}

// List handles GET /api/items
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.itemService.List(r.RemoteAddr))
}

// Create handles POST /api/items?username=
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if username == "" {
		response.Error(w, apierror.BadRequest("username is required"))
		return
	}

	var req CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	if len(req.Name) < 1 || len(req.Name) > 100 {
		response.Error(w, apierror.BadRequest("name must be 1-100 characters"))
		return
	}
	if req.Quantity == nil || *req.Quantity < 0 {
		response.Error(w, apierror.BadRequest("quantity must be a non-negative integer"))
		return
	}
	if req.Price == nil || *req.Price < 0 {
		response.Error(w, apierror.BadRequest("price must be a non-negative number"))
		return
	}
	if req.Description != nil && len(*req.Description) > 500 {
		response.Error(w, apierror.BadRequest("description must be at most 500 characters"))
		return
	}

	item, err := h.itemService.Create(req.Name, *req.Quantity, *req.Price, req.Description, username, r.RemoteAddr)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Created(w, item)
}
