package model

// Item is a marketplace listing. Quantity is the only mutable field; it is
// decremented by successful purchases and never goes below zero. Items are
// never deleted.
type Item struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Description *string `json:"description"`
	UserID      *int    `json:"user_id"`
}
