package model

import (
	"time"

	"github.com/blipwear/blip-server/constant"
)

// OrderEntity represents the orders table.
type OrderEntity struct {
	ID              uint64                 `db:"id" json:"id"`
	UserID          uint64                 `db:"user_id" json:"user_id"`
	TotalAmount     int64                  `db:"total_amount" json:"total_amount"`
	Status          constant.OrderStatus   `db:"status" json:"status"`
	ShippingAddress string                 `db:"shipping_address" json:"shipping_address,omitempty"`
	PaymentStatus   constant.PaymentStatus `db:"payment_status" json:"payment_status"`
	CreatedAt       time.Time              `db:"created_at" json:"created_at"`
}

// OrderItemEntity snapshots a cart line into order_items at checkout:
// the product price at checkout-time plus the rental dates and daily price
// carried over from the cart.
type OrderItemEntity struct {
	ID            uint64 `db:"id" json:"id"`
	OrderID       uint64 `db:"order_id" json:"order_id"`
	ProductID     uint64 `db:"product_id" json:"product_id"`
	Quantity      int    `db:"quantity" json:"quantity"`
	Price         int64  `db:"price" json:"price"`
	SelectedDates string `db:"selected_dates" json:"selected_dates"`
	DailyPrice    int64  `db:"daily_price" json:"daily_price"`
}

type InsertOrderTxItem struct {
	UserID          uint64
	TotalAmount     int64
	Status          constant.OrderStatus
	ShippingAddress string
}

type CheckoutRequest struct {
	ShippingAddress string `json:"shipping_address"`
}

type CheckoutResponse struct {
	OrderID     uint64    `json:"order_id"`
	TotalAmount int64     `json:"total_amount"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type OrderListResponse struct {
	Orders []OrderEntity `json:"orders"`
}
