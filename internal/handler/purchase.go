package handler

import (
	"encoding/json"
	"net/http"

	"marketplace-api/internal/service"
	"marketplace-api/pkg/apierror"
	"marketplace-api/pkg/response"
)

// PurchaseHandler handles purchase-related HTTP requests.
type PurchaseHandler struct {
	purchaseService *service.PurchaseService
}

// NewPurchaseHandler creates a new purchase handler.
func NewPurchaseHandler(purchaseService *service.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchaseService: purchaseService}
}

// PurchaseRequest represents the request body for buying an item.
type PurchaseRequest struct {
	ItemID   int    `json:"item_id"`
	Quantity int    `json:"quantity"`
	Buyer    string `json:"buyer"`
}

// Purchase handles POST /api/purchase?username=
func (h *PurchaseHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if username == "" {
		response.Error(w, apierror.BadRequest("username is required"))
		return
	}

	var req PurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	if req.Quantity <= 0 {
		response.Error(w, apierror.BadRequest("quantity must be a positive integer"))
		return
	}
	if len(req.Buyer) < 1 || len(req.Buyer) > 100 {
		response.Error(w, apierror.BadRequest("buyer must be 1-100 characters"))
		return
	}

	purchase, err := h.purchaseService.Purchase(req.ItemID, req.Quantity, req.Buyer, username, r.RemoteAddr)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Created(w, purchase)
}

// List handles GET /api/purchases?username=
func (h *PurchaseHandler) List(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")

	purchases, err := h.purchaseService.List(username, r.RemoteAddr)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, purchases)
}
