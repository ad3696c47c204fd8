package repository

import (
	"path/filepath"

	"marketplace-api/internal/model"
)

// Store bundles the three flat-file collections the marketplace persists.
type Store struct {
	Users     *Collection[model.User]
	Items     *Collection[model.Item]
	Purchases *Collection[model.Purchase]
}

// NewStore creates a store rooted at the given data directory.
func NewStore(dataDir string) *Store {
	return &Store{
		Users:     NewCollection[model.User](filepath.Join(dataDir, "users.json")),
		Items:     NewCollection[model.Item](filepath.Join(dataDir, "items.json")),
		Purchases: NewCollection[model.Purchase](filepath.Join(dataDir, "purchases.json")),
	}
}

// UserByUsername finds a user by exact username match.
func (s *Store) UserByUsername(username string) (model.User, bool) {
	for _, u := range s.Users.Load() {
		if u.Username == username {
			return u, true
		}
	}
	return model.User{}, false
}

// UserByEmail finds a user by exact email match.
func (s *Store) UserByEmail(email string) (model.User, bool) {
	for _, u := range s.Users.Load() {
		if u.Email == email {
			return u, true
		}
	}
	return model.User{}, false
}
