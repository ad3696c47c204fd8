package model

// Purchase is an immutable transaction record. TotalPrice is the item price
// at purchase time multiplied by the quantity, rounded to two decimals.
type Purchase struct {
	ID         int     `json:"id"`
	ItemID     int     `json:"item_id"`
	Quantity   int     `json:"quantity"`
	Buyer      string  `json:"buyer"`
	TotalPrice float64 `json:"total_price"`
	UserID     *int    `json:"user_id"`
}
