package service

import (
	"marketplace-api/internal/audit"
	"marketplace-api/internal/model"
	"marketplace-api/internal/repository"
	"marketplace-api/pkg/apierror"
)

// ItemService handles listing creation and retrieval.
type ItemService struct {
	store *repository.Store
	audit *audit.Logger
}

// NewItemService creates a new item service.
func NewItemService(store *repository.Store, logger *audit.Logger) *ItemService {
	return &ItemService{store: store, audit: logger}
}

// List returns every current listing.
func (s *ItemService) List(remoteAddr string) []model.Item {
	items := s.store.Items.Load()
	s.audit.LogEvent("list_items", map[string]any{"count": len(items)}, remoteAddr, "")
	return items
}

// Create adds a listing owned by the given user.
func (s *ItemService) Create(name string, quantity int, price float64, description *string, username, remoteAddr string) (model.Item, error) {
	user, exists := s.store.UserByUsername(username)
	if !exists {
		return model.Item{}, apierror.NotFound("User not found")
	}

	items := s.store.Items.Load()
	ownerID := user.ID
	item := model.Item{
		ID:          repository.NextID(items, func(i model.Item) int { return i.ID }),
		Name:        name,
		Quantity:    quantity,
		Price:       price,
		Description: description,
		UserID:      &ownerID,
	}
	items = append(items, item)
	if err := s.store.Items.Save(items); err != nil {
		return model.Item{}, apierror.InternalError("failed to persist item")
	}

	s.audit.LogEvent("create_item", map[string]any{
		"item":     item,
		"user_id":  user.ID,
		"username": user.Username,
	}, remoteAddr, user.Username)

	return item, nil
}
