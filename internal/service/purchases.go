package service

import (
	"math"

	"marketplace-api/internal/audit"
	"marketplace-api/internal/model"
	"marketplace-api/internal/repository"
	"marketplace-api/pkg/apierror"
)

// PurchaseService executes purchases and lists transaction history.
type PurchaseService struct {
	store *repository.Store
	audit *audit.Logger
}

// NewPurchaseService creates a new purchase service.
func NewPurchaseService(store *repository.Store, logger *audit.Logger) *PurchaseService {
	return &PurchaseService{store: store, audit: logger}
}

// Purchase buys a quantity of an item on behalf of username. Stock is
// decremented before the purchase record is written; quantity never goes
// below zero. Both failure paths emit their own audit event.
func (s *PurchaseService) Purchase(itemID, quantity int, buyer, username, remoteAddr string) (model.Purchase, error) {
	user, exists := s.store.UserByUsername(username)
	if !exists {
		return model.Purchase{}, apierror.NotFound("User not found")
	}

	items := s.store.Items.Load()
	purchases := s.store.Purchases.Load()

	payload := map[string]any{"item_id": itemID, "quantity": quantity, "buyer": buyer}

	idx := -1
	for i, item := range items {
		if item.ID == itemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.audit.LogEvent("purchase_failed_item_not_found", map[string]any{
			"payload":  payload,
			"username": username,
		}, remoteAddr, username)
		return model.Purchase{}, apierror.NotFound("Item not found")
	}

	item := items[idx]
	if quantity > item.Quantity {
		s.audit.LogEvent("purchase_failed_insufficient_stock", map[string]any{
			"payload":            payload,
			"available_quantity": item.Quantity,
			"username":           username,
		}, remoteAddr, username)
		return model.Purchase{}, apierror.BadRequest("Not enough stock")
	}

	items[idx].Quantity -= quantity
	if err := s.store.Items.Save(items); err != nil {
		return model.Purchase{}, apierror.InternalError("failed to persist items")
	}

	buyerID := user.ID
	purchase := model.Purchase{
		ID:         repository.NextID(purchases, func(p model.Purchase) int { return p.ID }),
		ItemID:     item.ID,
		Quantity:   quantity,
		Buyer:      buyer,
		TotalPrice: round2(item.Price * float64(quantity)),
		UserID:     &buyerID,
	}
	purchases = append(purchases, purchase)
	if err := s.store.Purchases.Save(purchases); err != nil {
		return model.Purchase{}, apierror.InternalError("failed to persist purchase")
	}

	s.audit.LogEvent("purchase_item", map[string]any{
		"purchase": purchase,
		"user_id":  user.ID,
		"username": user.Username,
	}, remoteAddr, user.Username)

	return purchase, nil
}

// List returns purchases, filtered to one user when username is non-empty.
func (s *PurchaseService) List(username, remoteAddr string) ([]model.Purchase, error) {
	purchases := s.store.Purchases.Load()

	if username != "" {
		user, exists := s.store.UserByUsername(username)
		if !exists {
			return nil, apierror.NotFound("User not found")
		}

		filtered := []model.Purchase{}
		for _, p := range purchases {
			if p.UserID != nil && *p.UserID == user.ID {
				filtered = append(filtered, p)
			}
		}

		s.audit.LogEvent("list_purchases_user", map[string]any{
			"user_id": user.ID,
			"count":   len(filtered),
		}, remoteAddr, user.Username)
		return filtered, nil
	}

	s.audit.LogEvent("list_purchases", map[string]any{"count": len(purchases)}, remoteAddr, "")
	return purchases, nil
}

// round2 rounds to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
