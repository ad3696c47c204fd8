package service

import (
	"marketplace-api/internal/audit"
	"marketplace-api/internal/model"
	"marketplace-api/internal/repository"
	"marketplace-api/pkg/apierror"
)

// ActivityService aggregates per-user marketplace statistics.
type ActivityService struct {
	store *repository.Store
	audit *audit.Logger
}

// NewActivityService creates a new activity service.
func NewActivityService(store *repository.Store, logger *audit.Logger) *ActivityService {
	return &ActivityService{store: store, audit: logger}
}

// ForUser computes listing and purchase statistics for one user.
func (s *ActivityService) ForUser(username, remoteAddr string) (model.UserActivity, error) {
	user, exists := s.store.UserByUsername(username)
	if !exists {
		return model.UserActivity{}, apierror.NotFound("User not found")
	}

	activity := model.UserActivity{
		UserID:   user.ID,
		Username: user.Username,
	}

	for _, item := range s.store.Items.Load() {
		if item.UserID != nil && *item.UserID == user.ID {
			activity.ListingsCount++
			activity.TotalItemsListed += item.Quantity
		}
	}

	totalSpent := 0.0
	for _, p := range s.store.Purchases.Load() {
		if p.UserID != nil && *p.UserID == user.ID {
			activity.PurchasesCount++
			activity.TotalItemsPurchased += p.Quantity
			totalSpent += p.TotalPrice
		}
	}
	activity.TotalSpent = round2(totalSpent)

	s.audit.LogEvent("get_user_activity", map[string]any{
		"user_id":         user.ID,
		"listings_count":  activity.ListingsCount,
		"purchases_count": activity.PurchasesCount,
		"username":        user.Username,
	}, remoteAddr, user.Username)

	return activity, nil
}
