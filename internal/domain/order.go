package domain

import "time"

// Order records a single purchase. Creating an order bumps the customer's
// totalSpend/totalOrders accumulators and stamps lastOrderDate.
type Order struct {
	ID         string    `json:"id" db:"id"`
	OwnerID    string    `json:"owner_id" db:"owner_id"`
	CustomerID string    `json:"customer_id" db:"customer_id"`
	Amount     float64   `json:"amount" db:"amount"`
	OrderDate  time.Time `json:"order_date" db:"order_date"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
