package domain

import "time"

// Customer is a single contact in an owner's audience. The spend/order
// accumulators are only ever mutated by order creation; the segmentation
// and delivery paths treat customers as read-only.
type Customer struct {
	ID            string     `json:"id" db:"id"`
	OwnerID       string     `json:"owner_id" db:"owner_id"`
	Name          string     `json:"name" db:"name"`
	Email         string     `json:"email" db:"email"`
	Phone         string     `json:"phone,omitempty" db:"phone"`
	TotalSpend    float64    `json:"total_spend" db:"total_spend"`
	TotalOrders   int        `json:"total_orders" db:"total_orders"`
	LastOrderDate *time.Time `json:"last_order_date,omitempty" db:"last_order_date"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}
