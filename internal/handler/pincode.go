package handler

import (
	"encoding/json"
	"net/http"

	"marketplace-api/internal/service"
	"marketplace-api/pkg/apierror"
	"marketplace-api/pkg/response"

	"github.com/go-chi/chi/v5"
)

// PincodeHandler handles postal pincode proxy requests.
type PincodeHandler struct {
	pincodeService *service.PincodeService
}

// NewPincodeHandler creates a new pincode handler.
func NewPincodeHandler(pincodeService *service.PincodeService) *PincodeHandler {
	return &PincodeHandler{pincodeService: pincodeService}
}

// Lookup handles GET /api/pincode/{pincode}
func (h *PincodeHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	pincode := chi.URLParam(r, "pincode")
	if pincode == "" {
		response.Error(w, apierror.BadRequest("pincode is required"))
		return
	}

	data, err := h.pincodeService.Lookup(r.Context(), pincode, r.RemoteAddr)
	if err != nil {
		response.Error(w, err)
		return
	}

	// Upstream JSON is returned verbatim.
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// LogPincode handles POST /api/log_pincode
func (h *PincodeHandler) LogPincode(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		payload = map[string]any{}
	}
	defer r.Body.Close()

	h.pincodeService.LogClientLookup(payload, r.RemoteAddr)

	response.OK(w, map[string]bool{"ok": true})
}
