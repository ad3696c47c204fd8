package service

import (
	"marketplace-api/internal/audit"
	"marketplace-api/internal/model"
	"marketplace-api/internal/repository"
	"marketplace-api/pkg/apierror"
)

// AdminService owns maintenance operations on the flat-file store.
type AdminService struct {
	store *repository.Store
	audit *audit.Logger
}

// NewAdminService creates a new admin service.
func NewAdminService(store *repository.Store, logger *audit.Logger) *AdminService {
	return &AdminService{store: store, audit: logger}
}

// Reset wipes items and purchases. Users are left alone. Safe to call
// repeatedly; resetting empty collections is a no-op.
func (s *AdminService) Reset(remoteAddr string) error {
	if err := s.store.Items.Save([]model.Item{}); err != nil {
		return apierror.InternalError("failed to reset items")
	}
	if err := s.store.Purchases.Save([]model.Purchase{}); err != nil {
		return apierror.InternalError("failed to reset purchases")
	}

	s.audit.LogEvent("reset_data", map[string]any{}, remoteAddr, "")
	return nil
}
