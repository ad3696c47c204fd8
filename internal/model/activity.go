package model

// UserActivity aggregates a user's marketplace footprint: listings they
// created and purchases they made.
type UserActivity struct {
	UserID              int     `json:"user_id"`
	Username            string  `json:"username"`
	ListingsCount       int     `json:"listings_count"`
	PurchasesCount      int     `json:"purchases_count"`
	TotalItemsListed    int     `json:"total_items_listed"`
	TotalItemsPurchased int     `json:"total_items_purchased"`
	TotalSpent          float64 `json:"total_spent"`
}
