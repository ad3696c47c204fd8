package handler

import (
	"net/http"
	"strconv"

	"marketplace-api/internal/repository"
	"marketplace-api/internal/service"
	"marketplace-api/pkg/apierror"
	"marketplace-api/pkg/response"
)

// AdminHandler handles maintenance and audit-archive requests.
type AdminHandler struct {
	adminService *service.AdminService
	archive      repository.AuditArchive
}

// NewAdminHandler creates a new admin handler. archive may be nil when the
// audit archive is disabled.
func NewAdminHandler(adminService *service.AdminService, archive repository.AuditArchive) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		archive:      archive,
	}
}

// Reset handles POST /api/reset
func (h *AdminHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.adminService.Reset(r.RemoteAddr); err != nil {
		response.Error(w, err)
		return
	}

	response.NoContent(w)
}

// GetAuditLogs handles GET /api/admin/logs?stream=&page=&limit=
func (h *AdminHandler) GetAuditLogs(w http.ResponseWriter, r *http.Request) {
	if h.archive == nil {
		response.Error(w, apierror.ServiceUnavailable("Audit archive not configured"))
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit
	stream := r.URL.Query().Get("stream")

	entries, total, err := h.archive.List(r.Context(), stream, limit, offset)
	if err != nil {
		response.Error(w, apierror.InternalError("Failed to fetch audit logs"))
		return
	}

	response.OK(w, map[string]any{
		"data":  entries,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}
