package model

import "time"

type ShoppingItem struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Value     float64   `json:"value"`
	Quantity  int       `json:"quantity"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Subtotal returns the item's contribution to the list total.
func (i ShoppingItem) Subtotal() float64 {
	return i.Value * float64(i.Quantity)
}
